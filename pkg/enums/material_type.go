package enums

import "fmt"

// MaterialType is the kind of study material a customer buys. The display
// name doubles as the wire value and feeds cart line ids.
type MaterialType string

const (
	MaterialTypeHandwritten  MaterialType = "Handwritten Notes"
	MaterialTypeTyped        MaterialType = "Typed Notes"
	MaterialTypeQuestionBank MaterialType = "Question Bank"
)

var validMaterialTypes = []MaterialType{
	MaterialTypeHandwritten,
	MaterialTypeTyped,
	MaterialTypeQuestionBank,
}

// MaterialTypes lists every type in display order.
func MaterialTypes() []MaterialType {
	out := make([]MaterialType, len(validMaterialTypes))
	copy(out, validMaterialTypes)
	return out
}

// String implements fmt.Stringer.
func (m MaterialType) String() string {
	return string(m)
}

// IsValid reports whether the value is a known MaterialType.
func (m MaterialType) IsValid() bool {
	for _, candidate := range validMaterialTypes {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParseMaterialType converts raw input into a MaterialType.
func ParseMaterialType(value string) (MaterialType, error) {
	for _, candidate := range validMaterialTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid material type %q", value)
}
