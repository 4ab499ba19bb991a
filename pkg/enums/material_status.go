package enums

import "fmt"

// MaterialStatus controls whether a note material is visible on public pages.
type MaterialStatus string

const (
	MaterialStatusPublished MaterialStatus = "published"
	MaterialStatusHidden    MaterialStatus = "hidden"
)

var validMaterialStatuses = []MaterialStatus{
	MaterialStatusPublished,
	MaterialStatusHidden,
}

// String implements fmt.Stringer.
func (s MaterialStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known MaterialStatus.
func (s MaterialStatus) IsValid() bool {
	for _, candidate := range validMaterialStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// Toggled returns the opposite visibility.
func (s MaterialStatus) Toggled() MaterialStatus {
	if s == MaterialStatusPublished {
		return MaterialStatusHidden
	}
	return MaterialStatusPublished
}

// ParseMaterialStatus converts raw input into a MaterialStatus.
func ParseMaterialStatus(value string) (MaterialStatus, error) {
	for _, candidate := range validMaterialStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid material status %q", value)
}
