package services

import (
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// CSV column layout: Des;Availability;Type;Off Num;From;To;Price;Currency;Size (sq ft);Ref
const (
	colDescription = iota
	colAvailability
	colType
	colOfficeNumber
	colDeskFrom
	colDeskTo
	colPrice
	colCurrency
	colSize
	colReference
	columnCount
)

// Row is one sanitized CSV line. Column positions exist only inside
// NormalizeRow; everything downstream works with named fields.
type Row struct {
	Description  string
	Availability *string
	Type         *int
	OfficeNumber string
	DeskFrom     string
	DeskTo       string
	Price        string
	Currency     string
	Size         string
	Reference    string
}

// NormalizeRow applies the per-column transforms to one raw record.
// Malformed fields degrade to empty or nil instead of failing the row;
// typeLabels is the ordered list a Type label resolves against.
func NormalizeRow(record []string, typeLabels []string) Row {
	if len(record) < columnCount {
		padded := make([]string, columnCount)
		copy(padded, record)
		record = padded
	}

	return Row{
		Description:  decodeText(strings.TrimSpace(record[colDescription])),
		Availability: normalizeDate(strings.TrimSpace(record[colAvailability])),
		Type:         lookupType(strings.TrimSpace(record[colType]), typeLabels),
		OfficeNumber: strings.TrimSpace(record[colOfficeNumber]),
		DeskFrom:     strings.TrimSpace(record[colDeskFrom]),
		DeskTo:       strings.TrimSpace(record[colDeskTo]),
		Price:        stripThousands(strings.TrimSpace(record[colPrice])),
		Currency:     normalizeCurrency(decodeText(strings.TrimSpace(record[colCurrency]))),
		Size:         stripThousands(strings.TrimSpace(record[colSize])),
		Reference:    strings.TrimSpace(record[colReference]),
	}
}

// decodeText repairs Latin-1 input; exports arrive in a mix of UTF-8 and
// ISO 8859-1 and the currency symbols live outside ASCII.
func decodeText(s string) string {
	if utf8.ValidString(s) {
		return s
	}
	decoded, err := charmap.ISO8859_1.NewDecoder().String(s)
	if err != nil {
		return s
	}
	return decoded
}

func normalizeCurrency(s string) string {
	switch {
	case strings.Contains(s, "£"):
		return "GBP"
	case strings.Contains(s, "€"):
		return "EUR"
	default:
		return ""
	}
}

// normalizeDate parses day/month/year and reformats to ISO. Empty or
// unparseable input becomes nil.
func normalizeDate(s string) *string {
	if s == "" {
		return nil
	}
	t, err := time.Parse("02/01/2006", s)
	if err != nil {
		return nil
	}
	iso := t.Format("2006-01-02")
	return &iso
}

// lookupType resolves a type label to its position in the configured
// label list. Unknown labels resolve to nil; no notification is raised.
func lookupType(label string, typeLabels []string) *int {
	for i, l := range typeLabels {
		if l == label {
			idx := i
			return &idx
		}
	}
	return nil
}

func stripThousands(s string) string {
	return strings.ReplaceAll(s, ",", "")
}
