package report

import "fmt"

// Format identifies a report output format.
type Format string

const (
	FormatJSON Format = "json"
	FormatHTML Format = "html"
	FormatText Format = "text"
)

// IsValid checks if the format is one of the defined constants.
func (f Format) IsValid() bool {
	switch f {
	case FormatJSON, FormatHTML, FormatText:
		return true
	}
	return false
}

// String returns the string representation of the format.
func (f Format) String() string {
	return string(f)
}

// ParseFormat converts a string to a Format, failing on unknown values.
func ParseFormat(s string) (Format, error) {
	f := Format(s)
	if !f.IsValid() {
		return "", fmt.Errorf("invalid report format: %q (valid: json, html, text)", s)
	}
	return f, nil
}

// AllFormats returns all defined formats.
func AllFormats() []Format {
	return []Format{FormatJSON, FormatHTML, FormatText}
}
