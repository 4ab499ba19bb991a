package orders

import (
	"time"

	"github.com/aryansdevstudios/toppers-toolkit-backend/pkg/db/models"
	"github.com/aryansdevstudios/toppers-toolkit-backend/pkg/enums"
	"github.com/aryansdevstudios/toppers-toolkit-backend/pkg/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const PlacedMessage = "Order placed successfully!"

// PlaceOrderInput is the checkout form plus the serialized cart snapshot.
type PlaceOrderInput struct {
	Name          string `json:"name" validate:"required,min=2,max=120"`
	UserClass     string `json:"user_class" validate:"required,max=60"`
	Instructions  string `json:"instructions" validate:"omitempty,max=1000"`
	PaymentMethod string `json:"payment_method" validate:"required,oneof=COD UPI"`
	CartItems     string `json:"cart_items"`
}

// OrderDTO is the API shape of an order.
type OrderDTO struct {
	ID            uuid.UUID           `json:"id"`
	Name          string              `json:"name"`
	UserClass     string              `json:"user_class"`
	Instructions  *string             `json:"instructions,omitempty"`
	Items         []types.CartItem    `json:"items"`
	Status        enums.OrderStatus   `json:"status"`
	TotalPrice    decimal.Decimal     `json:"total_price"`
	PaymentMethod enums.PaymentMethod `json:"payment_method"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

// PlaceOrderResult pairs the stored order with the confirmation shown to the buyer.
type PlaceOrderResult struct {
	Order   OrderDTO `json:"order"`
	Message string   `json:"message"`
}

// OrderList is one page of the admin queue.
type OrderList struct {
	Orders     []OrderDTO `json:"orders"`
	NextCursor string     `json:"next_cursor,omitempty"`
}

func toOrderDTO(o models.Order) OrderDTO {
	items := o.Items
	if items == nil {
		items = []types.CartItem{}
	}
	return OrderDTO{
		ID:            o.ID,
		Name:          o.Name,
		UserClass:     o.UserClass,
		Instructions:  o.Instructions,
		Items:         items,
		Status:        o.Status,
		TotalPrice:    o.TotalPrice,
		PaymentMethod: o.PaymentMethod,
		CreatedAt:     o.CreatedAt.UTC(),
		UpdatedAt:     o.UpdatedAt.UTC(),
	}
}
