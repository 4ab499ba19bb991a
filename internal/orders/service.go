package orders

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aryansdevstudios/toppers-toolkit-backend/pkg/cache"
	"github.com/aryansdevstudios/toppers-toolkit-backend/pkg/db/models"
	"github.com/aryansdevstudios/toppers-toolkit-backend/pkg/enums"
	pkgerrors "github.com/aryansdevstudios/toppers-toolkit-backend/pkg/errors"
	"github.com/aryansdevstudios/toppers-toolkit-backend/pkg/logger"
	"github.com/aryansdevstudios/toppers-toolkit-backend/pkg/metrics"
	"github.com/aryansdevstudios/toppers-toolkit-backend/pkg/pagination"
	"github.com/aryansdevstudios/toppers-toolkit-backend/pkg/types"
	"github.com/aryansdevstudios/toppers-toolkit-backend/pkg/validation"
	"github.com/google/uuid"
)

// Service places orders for visitors and moves them through the admin queue.
type Service interface {
	PlaceOrder(ctx context.Context, input PlaceOrderInput) (*PlaceOrderResult, error)
	MarkCompleted(ctx context.Context, id uuid.UUID) (*OrderDTO, error)
	ListOrders(ctx context.Context, view enums.OrderView, params pagination.Params) (*OrderList, error)
	GetOrder(ctx context.Context, id uuid.UUID) (*OrderDTO, error)
}

type orderStore interface {
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) error
	List(ctx context.Context, query ListQuery) ([]models.Order, error)
}

type service struct {
	repo        orderStore
	views       cache.Views
	logg        *logger.Logger
	metrics     *metrics.Storefront
	now         func() time.Time
}

// NewService wires the order pipeline. views may be nil.
func NewService(repo orderStore, views cache.Views, logg *logger.Logger, m *metrics.Storefront) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if views == nil {
		views = cache.Nop{}
	}
	return &service{
		repo:        repo,
		views:       views,
		logg:        logg,
		metrics:     m,
		now:         time.Now,
	}, nil
}

// PlaceOrder validates the form, decodes the cart snapshot and stores a new
// order. The cart itself is left alone; clearing it is the caller's job.
func (s *service) PlaceOrder(ctx context.Context, input PlaceOrderInput) (*PlaceOrderResult, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.UserClass = strings.TrimSpace(input.UserClass)
	input.Instructions = strings.TrimSpace(input.Instructions)
	input.PaymentMethod = strings.TrimSpace(input.PaymentMethod)

	if err := validation.Struct(&input); err != nil {
		return nil, err
	}
	items, err := parseCartItems(input.CartItems)
	if err != nil {
		return nil, err
	}

	method, err := enums.ParsePaymentMethod(input.PaymentMethod)
	if err != nil {
		return nil, pkgerrors.Field("payment_method", "must be one of COD, UPI")
	}

	now := s.now().UTC()
	order := &models.Order{
		Name:          input.Name,
		UserClass:     input.UserClass,
		Items:         items,
		Status:        enums.OrderStatusNew,
		TotalPrice:    types.TotalOf(items),
		PaymentMethod: method,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if input.Instructions != "" {
		order.Instructions = &input.Instructions
	}

	if err := s.repo.Create(ctx, order); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "place order")
	}

	ctx = s.logg.WithOrderID(ctx, order.ID.String())
	s.views.Invalidate(ctx, cache.ViewAdminOrders)
	s.metrics.OrderPlaced(method.String(), order.TotalPrice)
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"payment_method": method.String(),
		"items":          len(items),
		"total":          order.TotalPrice.StringFixed(2),
	}), "order placed")

	return &PlaceOrderResult{Order: toOrderDTO(*order), Message: PlacedMessage}, nil
}

// MarkCompleted moves an order to completed. Completing a completed order
// succeeds without writing.
func (s *service) MarkCompleted(ctx context.Context, id uuid.UUID) (*OrderDTO, error) {
	order, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.Status == enums.OrderStatusCompleted {
		dto := toOrderDTO(*order)
		return &dto, nil
	}

	if err := s.repo.UpdateStatus(ctx, id, enums.OrderStatusCompleted); err != nil {
		return nil, s.storeError(err, "complete order")
	}
	order.Status = enums.OrderStatusCompleted

	ctx = s.logg.WithOrderID(ctx, id.String())
	s.views.Invalidate(ctx, cache.ViewAdminOrders)
	s.logg.Info(ctx, "order completed")

	dto := toOrderDTO(*order)
	return &dto, nil
}

// ListOrders pages through the queue. The first page of the active view at
// the default size is read through the view cache.
func (s *service) ListOrders(ctx context.Context, view enums.OrderView, params pagination.Params) (*OrderList, error) {
	if view == "" {
		view = enums.OrderViewActive
	}
	if !view.IsValid() {
		return nil, pkgerrors.Field("view", "must be one of active, all")
	}
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	cacheable := view == enums.OrderViewActive && cursor == nil &&
		pagination.NormalizeLimit(params.Limit) == pagination.DefaultLimit
	gen := cache.NoGeneration
	if cacheable {
		var cached OrderList
		var hit bool
		if gen, hit = s.views.GetJSON(ctx, cache.ViewAdminOrders, &cached); hit {
			return &cached, nil
		}
	}

	rows, err := s.repo.List(ctx, ListQuery{
		View:   view,
		Limit:  pagination.LimitWithBuffer(params.Limit),
		Cursor: cursor,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "list orders")
	}

	page, more := pagination.Trim(rows, params.Limit)
	out := &OrderList{Orders: make([]OrderDTO, 0, len(page))}
	for _, row := range page {
		out.Orders = append(out.Orders, toOrderDTO(row))
	}
	if more {
		last := page[len(page)-1]
		out.NextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	if cacheable {
		s.views.SetJSON(ctx, cache.ViewAdminOrders, gen, out)
	}
	return out, nil
}

func (s *service) GetOrder(ctx context.Context, id uuid.UUID) (*OrderDTO, error) {
	order, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := toOrderDTO(*order)
	return &dto, nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.storeError(err, "load order")
	}
	return order, nil
}

func (s *service) storeError(err error, action string) error {
	if errors.Is(err, ErrOrderNotFound) {
		return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "order not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeStorage, err, action)
}

// parseCartItems decodes the serialized cart and checks every line.
func parseCartItems(raw string) ([]types.CartItem, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, pkgerrors.Field("cart_items", "cart is empty")
	}
	var items []types.CartItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, pkgerrors.Field("cart_items", "could not be read")
	}
	if len(items) == 0 {
		return nil, pkgerrors.Field("cart_items", "cart is empty")
	}

	details := map[string]string{}
	seen := make(map[string]struct{}, len(items))
	for i, item := range items {
		prefix := fmt.Sprintf("cart_items[%d]", i)
		switch {
		case strings.TrimSpace(item.ID) == "":
			details[prefix+".id"] = "is required"
		case item.NoteID == uuid.Nil:
			details[prefix+".note_id"] = "is required"
		case !item.Type.IsValid():
			details[prefix+".type"] = "is invalid"
		case item.ID != types.CartItemID(item.NoteID, item.Type):
			details[prefix+".id"] = "does not match note_id and type"
		case item.Price.IsNegative():
			details[prefix+".price"] = "must be at least 0"
		case !types.IsCents(item.Price):
			details[prefix+".price"] = "must have at most 2 decimal places"
		case item.SelectedFormat != "" && !item.SelectedFormat.IsValid():
			details[prefix+".selected_format"] = "is invalid"
		}
		if _, dup := seen[item.ID]; dup && item.ID != "" {
			details[prefix+".id"] = "appears more than once"
		}
		seen[item.ID] = struct{}{}
	}
	if len(details) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(details)
	}
	return items, nil
}
