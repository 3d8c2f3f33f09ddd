package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// dateLayout is the wire layout for every Date value we emit.
const dateLayout = "2006-01-02T15:04:05.000Z07:00"

// inputLayouts are tried in order when decoding a Date.
var inputLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02",
	"01/02/2006",
	"1/2/2006",
}

// Date is a calendar date or instant carried on a PackList.
// Clients send RFC 3339, YYYY-MM-DD or MM/DD/YYYY; calendar-only values are
// read as UTC midnight. Dates are always emitted as RFC 3339 UTC.
type Date struct {
	time.Time
}

// NewDate wraps t as a Date.
func NewDate(t time.Time) *Date {
	return &Date{Time: t.UTC()}
}

// ParseDate parses s using the accepted input layouts.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	for _, layout := range inputLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Date{Time: t.UTC()}, nil
		}
	}
	return Date{}, fmt.Errorf("unrecognized date %q", s)
}

// MustParseDate is ParseDate for literals known to be valid.
func MustParseDate(s string) *Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return &d
}

// MarshalJSON implements json.Marshaler.
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.UTC().Format(dateLayout))
}

// UnmarshalJSON implements json.Unmarshaler. It is only called for non-null
// values; an empty string leaves the Date zero.
func (d *Date) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// dateOrNil drops zero dates so that "" and null both mean absent.
func dateOrNil(d *Date) *Date {
	if d == nil || d.IsZero() {
		return nil
	}
	return d
}
