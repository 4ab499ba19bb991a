package enums

import "fmt"

// NoteFormat is the delivery format of a purchased material.
type NoteFormat string

const (
	NoteFormatPDF     NoteFormat = "PDF"
	NoteFormatPrinted NoteFormat = "Printed"
)

var validNoteFormats = []NoteFormat{
	NoteFormatPDF,
	NoteFormatPrinted,
}

// String implements fmt.Stringer.
func (f NoteFormat) String() string {
	return string(f)
}

// IsValid reports whether the value is a known NoteFormat.
func (f NoteFormat) IsValid() bool {
	for _, candidate := range validNoteFormats {
		if candidate == f {
			return true
		}
	}
	return false
}

// ParseNoteFormat converts raw input into a NoteFormat.
func ParseNoteFormat(value string) (NoteFormat, error) {
	for _, candidate := range validNoteFormats {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid note format %q", value)
}
