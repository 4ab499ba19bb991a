package cart

import (
	"github.com/aryansdevstudios/toppers-toolkit-backend/pkg/enums"
	"github.com/aryansdevstudios/toppers-toolkit-backend/pkg/types"
	"github.com/shopspring/decimal"
)

// Cart is the ordered list of lines a visitor intends to buy. The zero value
// is an empty cart. A Cart is owned by a single request and is not safe for
// concurrent use.
type Cart struct {
	items []types.CartItem
}

// FromItems builds a cart from persisted lines, dropping duplicate ids so the
// one-line-per-key rule holds even for hand-edited payloads.
func FromItems(items []types.CartItem) *Cart {
	c := &Cart{}
	for _, item := range items {
		c.Add(item)
	}
	return c
}

// Add appends item unless a line with the same id exists. It reports whether
// the cart changed.
func (c *Cart) Add(item types.CartItem) bool {
	if c.Has(item.ID) {
		return false
	}
	c.items = append(c.items, item)
	return true
}

// Remove drops the line with id. Unknown ids are ignored.
func (c *Cart) Remove(id string) bool {
	for i, item := range c.items {
		if item.ID == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return true
		}
	}
	return false
}

func (c *Cart) Clear() {
	c.items = nil
}

// SelectFormat switches an existing line to format and reprices it from the
// line's price snapshot.
func (c *Cart) SelectFormat(id string, format enums.NoteFormat) error {
	for i := range c.items {
		if c.items[i].ID != id {
			continue
		}
		price := c.items[i].Prices.Price(format)
		if price == nil {
			return ErrFormatUnavailable
		}
		c.items[i].SelectedFormat = format
		c.items[i].Price = *price
		return nil
	}
	return ErrItemNotFound
}

func (c *Cart) Has(id string) bool {
	for _, item := range c.items {
		if item.ID == id {
			return true
		}
	}
	return false
}

// Items returns a copy of the lines in insertion order.
func (c *Cart) Items() []types.CartItem {
	out := make([]types.CartItem, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Cart) ItemCount() int {
	return len(c.items)
}

// TotalPrice is recomputed on every call.
func (c *Cart) TotalPrice() decimal.Decimal {
	return types.TotalOf(c.items)
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.items) == 0
}
