package cart

import (
	"errors"

	"github.com/aryansdevstudios/toppers-toolkit-backend/internal/catalog"
	"github.com/aryansdevstudios/toppers-toolkit-backend/pkg/enums"
	"github.com/aryansdevstudios/toppers-toolkit-backend/pkg/types"
)

var (
	ErrItemNotFound      = errors.New("cart item not found")
	ErrFormatUnavailable = errors.New("format is not sold for this item")
	ErrTypeUnavailable   = errors.New("material type is not sold for this note")
)

// NewItem builds the cart line for one material type of a note. The line
// starts on the PDF price when there is one, otherwise on Printed.
func NewItem(material catalog.MaterialDTO, materialType enums.MaterialType) (types.CartItem, error) {
	row := material.Prices.For(materialType)
	format, price, ok := row.Default()
	if !ok {
		return types.CartItem{}, ErrTypeUnavailable
	}
	snapshot := *row
	return types.CartItem{
		ID:             types.CartItemID(material.ID, materialType),
		NoteID:         material.ID,
		SubjectName:    material.SubjectName,
		Chapter:        material.Chapter,
		Type:           materialType,
		Price:          price,
		Prices:         &snapshot,
		SelectedFormat: format,
	}, nil
}
