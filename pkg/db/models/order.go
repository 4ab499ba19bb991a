package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/aryansdevstudios/toppers-toolkit-backend/pkg/enums"
	"github.com/aryansdevstudios/toppers-toolkit-backend/pkg/types"
)

// Order is a placed storefront order. Items are a snapshot of the cart at
// checkout time and never change afterwards.
type Order struct {
	ID            uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	Name          string              `gorm:"column:name;not null"`
	UserClass     string              `gorm:"column:user_class;not null"`
	Instructions  *string             `gorm:"column:instructions"`
	Items         []types.CartItem    `gorm:"column:items;type:jsonb;serializer:json;not null"`
	Status        enums.OrderStatus   `gorm:"column:status;type:text;not null;default:'new';index"`
	TotalPrice    decimal.Decimal     `gorm:"column:total_price;type:numeric(12,2);not null"`
	PaymentMethod enums.PaymentMethod `gorm:"column:payment_method;type:text;not null"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime;index"`
	UpdatedAt     time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

func (Order) TableName() string { return "orders" }

func (o *Order) BeforeCreate(*gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}
