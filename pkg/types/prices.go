package types

import (
	"github.com/aryansdevstudios/toppers-toolkit-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

// PriceInfo holds the optional per-format prices of one material type.
type PriceInfo struct {
	PDF     *decimal.Decimal `json:"pdf,omitempty"`
	Printed *decimal.Decimal `json:"printed,omitempty"`
}

// Price returns the price cell for a format, nil when it is not sold.
func (p *PriceInfo) Price(format enums.NoteFormat) *decimal.Decimal {
	if p == nil {
		return nil
	}
	switch format {
	case enums.NoteFormatPDF:
		return p.PDF
	case enums.NoteFormatPrinted:
		return p.Printed
	}
	return nil
}

// Default picks the format a fresh cart line starts with: PDF when priced,
// otherwise Printed.
func (p *PriceInfo) Default() (enums.NoteFormat, decimal.Decimal, bool) {
	if p == nil {
		return "", decimal.Zero, false
	}
	if p.PDF != nil {
		return enums.NoteFormatPDF, *p.PDF, true
	}
	if p.Printed != nil {
		return enums.NoteFormatPrinted, *p.Printed, true
	}
	return "", decimal.Zero, false
}

func (p *PriceInfo) HasAny() bool {
	return p != nil && (p.PDF != nil || p.Printed != nil)
}

func (p *PriceInfo) cells() []*decimal.Decimal {
	if p == nil {
		return nil
	}
	return []*decimal.Decimal{p.PDF, p.Printed}
}

// NotePrices is the fixed price grid of a note material.
type NotePrices struct {
	Handwritten  *PriceInfo `json:"handwritten,omitempty"`
	Typed        *PriceInfo `json:"typed,omitempty"`
	QuestionBank *PriceInfo `json:"question_bank,omitempty"`
}

// For returns the price row of a material type.
func (n NotePrices) For(t enums.MaterialType) *PriceInfo {
	switch t {
	case enums.MaterialTypeHandwritten:
		return n.Handwritten
	case enums.MaterialTypeTyped:
		return n.Typed
	case enums.MaterialTypeQuestionBank:
		return n.QuestionBank
	}
	return nil
}

// HasAny reports whether at least one of the six cells is priced.
func (n NotePrices) HasAny() bool {
	return n.Handwritten.HasAny() || n.Typed.HasAny() || n.QuestionBank.HasAny()
}

// IsCents reports whether d has at most two decimal places, the scale prices
// and order totals are stored at.
func IsCents(d decimal.Decimal) bool {
	return d.Equal(d.Round(2))
}

// Negative returns the json path of the first negative cell, if any.
func (n NotePrices) Negative() (string, bool) {
	return n.firstCell(decimal.Decimal.IsNegative)
}

// SubCent returns the json path of the first cell with more than two decimal
// places, if any.
func (n NotePrices) SubCent() (string, bool) {
	return n.firstCell(func(d decimal.Decimal) bool { return !IsCents(d) })
}

func (n NotePrices) firstCell(match func(decimal.Decimal) bool) (string, bool) {
	rows := []struct {
		name string
		info *PriceInfo
	}{
		{"handwritten", n.Handwritten},
		{"typed", n.Typed},
		{"question_bank", n.QuestionBank},
	}
	for _, row := range rows {
		for i, cell := range row.info.cells() {
			if cell != nil && match(*cell) {
				format := "pdf"
				if i == 1 {
					format = "printed"
				}
				return "prices." + row.name + "." + format, true
			}
		}
	}
	return "", false
}

// Compact drops rows without any priced cell.
func (n NotePrices) Compact() NotePrices {
	out := n
	if !out.Handwritten.HasAny() {
		out.Handwritten = nil
	}
	if !out.Typed.HasAny() {
		out.Typed = nil
	}
	if !out.QuestionBank.HasAny() {
		out.QuestionBank = nil
	}
	return out
}
