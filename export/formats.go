// Package export renders merged harmonized tables and run reports for
// downstream analysis. Present cells are written as plain numbers; missing
// cells use the stable NA(a)..NA(e) convention, so no output cell is ever
// an unexplained blank.
package export

import (
	"fmt"
	"sort"
)

// Format identifies an output format.
type Format string

const (
	// FormatCSV is comma-separated output.
	FormatCSV Format = "csv"

	// FormatTSV is tab-separated output.
	FormatTSV Format = "tsv"
)

// FormatInfo provides metadata about an export format.
type FormatInfo struct {
	// Name is the format identifier.
	Name Format

	// MIMEType is the standard MIME type.
	MIMEType string

	// Extension is the file extension (with dot).
	Extension string

	// Comma is the field delimiter.
	Comma rune

	// Description describes the format.
	Description string
}

// FormatRegistry contains metadata for all supported formats.
var FormatRegistry = map[Format]FormatInfo{
	FormatCSV: {
		Name:        FormatCSV,
		MIMEType:    "text/csv",
		Extension:   ".csv",
		Comma:       ',',
		Description: "Comma-separated harmonized table",
	},
	FormatTSV: {
		Name:        FormatTSV,
		MIMEType:    "text/tab-separated-values",
		Extension:   ".tsv",
		Comma:       '\t',
		Description: "Tab-separated harmonized table",
	},
}

// GetFormatInfo returns metadata for a format.
func GetFormatInfo(format Format) (FormatInfo, bool) {
	info, ok := FormatRegistry[format]
	return info, ok
}

// ParseFormat validates a format name from configuration.
func ParseFormat(s string) (Format, error) {
	f := Format(s)
	if _, ok := FormatRegistry[f]; !ok {
		return "", fmt.Errorf("unsupported output format %q (supported: %v)", s, FormatNames())
	}
	return f, nil
}

// FormatNames lists the supported format names, sorted.
func FormatNames() []string {
	names := make([]string, 0, len(FormatRegistry))
	for f := range FormatRegistry {
		names = append(names, string(f))
	}
	sort.Strings(names)
	return names
}
