package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aryansdevstudios/toppers-toolkit-backend/internal/catalog"
	"github.com/aryansdevstudios/toppers-toolkit-backend/internal/orders"
	"github.com/aryansdevstudios/toppers-toolkit-backend/pkg/enums"
	pkgerrors "github.com/aryansdevstudios/toppers-toolkit-backend/pkg/errors"
	"github.com/aryansdevstudios/toppers-toolkit-backend/pkg/logger"
	"github.com/aryansdevstudios/toppers-toolkit-backend/pkg/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// View is the API shape of a cart with its derived values.
type View struct {
	Items      []types.CartItem `json:"items"`
	ItemCount  int              `json:"item_count"`
	TotalPrice decimal.Decimal  `json:"total_price"`
}

func viewOf(c *Cart) *View {
	return &View{
		Items:      c.Items(),
		ItemCount:  c.ItemCount(),
		TotalPrice: c.TotalPrice(),
	}
}

// AddItemInput names a note and the material type to buy.
type AddItemInput struct {
	NoteID uuid.UUID `json:"note_id" validate:"required"`
	Type   string    `json:"type" validate:"required"`
}

// CheckoutInput is the checkout form. The cart is taken from storage.
type CheckoutInput struct {
	Name          string `json:"name"`
	UserClass     string `json:"user_class"`
	Instructions  string `json:"instructions"`
	PaymentMethod string `json:"payment_method"`
}

// CheckoutResult is the placed order plus the now empty cart.
type CheckoutResult struct {
	*orders.PlaceOrderResult
	Cart *View `json:"cart"`
}

// Service is the cart surface used by the storefront controllers.
type Service interface {
	Get(ctx context.Context, token string) (*View, error)
	AddItem(ctx context.Context, token string, input AddItemInput) (*View, error)
	RemoveItem(ctx context.Context, token, itemID string) (*View, error)
	SelectFormat(ctx context.Context, token, itemID string, format string) (*View, error)
	Clear(ctx context.Context, token string) (*View, error)
	Checkout(ctx context.Context, token string, input CheckoutInput) (*CheckoutResult, error)
}

type materialLoader interface {
	GetPublishedMaterial(ctx context.Context, id uuid.UUID) (*catalog.MaterialDTO, error)
}

type orderPlacer interface {
	PlaceOrder(ctx context.Context, input orders.PlaceOrderInput) (*orders.PlaceOrderResult, error)
}

type service struct {
	engine    *Engine
	materials materialLoader
	orders    orderPlacer
	logg      *logger.Logger
}

func NewService(engine *Engine, materials materialLoader, placer orderPlacer, logg *logger.Logger) (Service, error) {
	if engine == nil {
		return nil, fmt.Errorf("cart engine required")
	}
	if materials == nil {
		return nil, fmt.Errorf("material loader required")
	}
	if placer == nil {
		return nil, fmt.Errorf("order placer required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{engine: engine, materials: materials, orders: placer, logg: logg}, nil
}

func (s *service) Get(ctx context.Context, token string) (*View, error) {
	c, err := s.engine.Open(ctx, token)
	if err != nil {
		return nil, storageError(err)
	}
	return viewOf(c), nil
}

// AddItem resolves the note and prices the line server side. Adding a line
// that is already in the cart leaves the cart unchanged.
func (s *service) AddItem(ctx context.Context, token string, input AddItemInput) (*View, error) {
	if input.NoteID == uuid.Nil {
		return nil, pkgerrors.Field("note_id", "is required")
	}
	materialType, err := enums.ParseMaterialType(input.Type)
	if err != nil {
		return nil, pkgerrors.Field("type", "must be one of Handwritten Notes, Typed Notes, Question Bank")
	}

	material, err := s.materials.GetPublishedMaterial(ctx, input.NoteID)
	if err != nil {
		return nil, err
	}
	item, err := NewItem(*material, materialType)
	if err != nil {
		return nil, pkgerrors.Field("type", "is not sold for this note")
	}

	c, err := s.engine.Mutate(ctx, token, OpAdd, func(c *Cart) error {
		c.Add(item)
		return nil
	})
	if err != nil {
		return nil, storageError(err)
	}
	return viewOf(c), nil
}

func (s *service) RemoveItem(ctx context.Context, token, itemID string) (*View, error) {
	c, err := s.engine.Mutate(ctx, token, OpRemove, func(c *Cart) error {
		c.Remove(itemID)
		return nil
	})
	if err != nil {
		return nil, storageError(err)
	}
	return viewOf(c), nil
}

func (s *service) SelectFormat(ctx context.Context, token, itemID string, format string) (*View, error) {
	noteFormat, err := enums.ParseNoteFormat(format)
	if err != nil {
		return nil, pkgerrors.Field("format", "must be one of PDF, Printed")
	}
	c, err := s.engine.Mutate(ctx, token, OpSelectFormat, func(c *Cart) error {
		return c.SelectFormat(itemID, noteFormat)
	})
	switch {
	case errors.Is(err, ErrItemNotFound):
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
	case errors.Is(err, ErrFormatUnavailable):
		return nil, pkgerrors.Field("format", "is not sold for this item")
	case err != nil:
		return nil, storageError(err)
	}
	return viewOf(c), nil
}

func (s *service) Clear(ctx context.Context, token string) (*View, error) {
	c, err := s.engine.Mutate(ctx, token, OpClear, func(c *Cart) error {
		c.Clear()
		return nil
	})
	if err != nil {
		return nil, storageError(err)
	}
	return viewOf(c), nil
}

// Checkout snapshots the stored cart into an order and clears the cart once
// the order is stored. A failed order leaves the cart untouched.
func (s *service) Checkout(ctx context.Context, token string, input CheckoutInput) (*CheckoutResult, error) {
	c, err := s.engine.Open(ctx, token)
	if err != nil {
		return nil, storageError(err)
	}
	snapshot, err := json.Marshal(c.Items())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode cart")
	}

	placed, err := s.orders.PlaceOrder(ctx, orders.PlaceOrderInput{
		Name:          input.Name,
		UserClass:     input.UserClass,
		Instructions:  input.Instructions,
		PaymentMethod: input.PaymentMethod,
		CartItems:     string(snapshot),
	})
	if err != nil {
		return nil, err
	}

	cleared, err := s.engine.Mutate(ctx, token, OpClear, func(c *Cart) error {
		c.Clear()
		return nil
	})
	if err != nil {
		ctx = s.logg.WithOrderID(s.logg.WithCartToken(ctx, token), placed.Order.ID.String())
		s.logg.Error(ctx, "order placed but cart could not be cleared", err)
		cleared = &Cart{}
	}
	return &CheckoutResult{PlaceOrderResult: placed, Cart: viewOf(cleared)}, nil
}

func storageError(err error) error {
	return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "cart storage unavailable")
}
