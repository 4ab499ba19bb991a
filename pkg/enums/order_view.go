package enums

import "fmt"

// OrderView selects which orders the admin queue lists.
type OrderView string

const (
	OrderViewActive OrderView = "active"
	OrderViewAll    OrderView = "all"
)

var validOrderViews = []OrderView{
	OrderViewActive,
	OrderViewAll,
}

// String implements fmt.Stringer.
func (v OrderView) String() string {
	return string(v)
}

// IsValid reports whether the value is a known OrderView.
func (v OrderView) IsValid() bool {
	for _, candidate := range validOrderViews {
		if candidate == v {
			return true
		}
	}
	return false
}

// ParseOrderView converts raw input into an OrderView. Empty input selects
// the active queue.
func ParseOrderView(value string) (OrderView, error) {
	if value == "" {
		return OrderViewActive, nil
	}
	for _, candidate := range validOrderViews {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order view %q", value)
}
