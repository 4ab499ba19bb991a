package types

import (
	"strings"

	"github.com/aryansdevstudios/toppers-toolkit-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartItem is one line of a cart and, once ordered, of an order.
type CartItem struct {
	ID             string             `json:"id" validate:"required"`
	NoteID         uuid.UUID          `json:"note_id" validate:"required"`
	SubjectName    string             `json:"subject_name"`
	Chapter        string             `json:"chapter"`
	Type           enums.MaterialType `json:"type" validate:"required"`
	Price          decimal.Decimal    `json:"price"`
	Prices         *PriceInfo         `json:"prices,omitempty"`
	SelectedFormat enums.NoteFormat   `json:"selected_format,omitempty"`
}

// CartItemID builds the composite line id: the note id and the material type
// with whitespace runs replaced by a dash.
func CartItemID(noteID uuid.UUID, t enums.MaterialType) string {
	return noteID.String() + "-" + strings.Join(strings.Fields(string(t)), "-")
}

// TotalOf sums item prices exactly.
func TotalOf(items []CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Price)
	}
	return total
}
