package cart

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aryansdevstudios/toppers-toolkit-backend/pkg/logger"
	"github.com/aryansdevstudios/toppers-toolkit-backend/pkg/metrics"
	"github.com/aryansdevstudios/toppers-toolkit-backend/pkg/types"
)

const (
	OpAdd          = "add"
	OpRemove       = "remove"
	OpClear        = "clear"
	OpSelectFormat = "select_format"
)

// Engine loads carts from Storage and writes the full line list back after
// every mutation.
type Engine struct {
	storage Storage
	logg    *logger.Logger
	metrics *metrics.Storefront
}

func NewEngine(storage Storage, logg *logger.Logger, m *metrics.Storefront) (*Engine, error) {
	if storage == nil {
		return nil, fmt.Errorf("cart storage required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Engine{storage: storage, logg: logg, metrics: m}, nil
}

// Open rehydrates the cart of token. A payload that cannot be decoded is
// discarded and an empty cart is returned in its place.
func (e *Engine) Open(ctx context.Context, token string) (*Cart, error) {
	payload, found, err := e.storage.Load(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	if !found || payload == "" {
		return &Cart{}, nil
	}

	var items []types.CartItem
	if err := json.Unmarshal([]byte(payload), &items); err != nil {
		ctx = e.logg.WithCartToken(ctx, token)
		e.logg.Warn(ctx, "discarding unreadable cart: "+err.Error())
		if delErr := e.storage.Delete(ctx, token); delErr != nil {
			e.logg.Warn(ctx, "failed to discard unreadable cart: "+delErr.Error())
		}
		return &Cart{}, nil
	}
	return FromItems(items), nil
}

// Save serializes the whole cart. An empty cart removes the stored value.
func (e *Engine) Save(ctx context.Context, token string, c *Cart) error {
	if c.IsEmpty() {
		if err := e.storage.Delete(ctx, token); err != nil {
			return fmt.Errorf("delete cart: %w", err)
		}
		return nil
	}
	payload, err := json.Marshal(c.Items())
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := e.storage.Save(ctx, token, string(payload)); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}

// Mutate opens the cart, applies fn and persists the result when fn succeeds.
func (e *Engine) Mutate(ctx context.Context, token, op string, fn func(c *Cart) error) (*Cart, error) {
	c, err := e.Open(ctx, token)
	if err != nil {
		return nil, err
	}
	if err := fn(c); err != nil {
		return nil, err
	}
	if err := e.Save(ctx, token, c); err != nil {
		return nil, err
	}
	e.metrics.CartOperation(op)
	return c, nil
}
