// Package dateutil formats publication dates using user-friendly tokens.
package dateutil

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidDateFormat indicates an invalid date format string.
var ErrInvalidDateFormat = errors.New("invalid date format")

// MaxDateFormatLength limits format string length.
const MaxDateFormatLength = 50

// Built-in layouts, expressed in tokens.
const (
	// LongDate matches the en-GB long form: "2 January 2006".
	LongDate = "D MMMM YYYY"
	// LongTimestamp matches the en-GB long form with time: "2 January 2006 at 15:04".
	LongTimestamp = "D MMMM YYYY [at] HH:mm"
)

// dateTokens maps tokens to Go layout components, longest first.
var dateTokens = []struct {
	token string
	goFmt string
}{
	{"YYYY", "2006"},
	{"MMMM", "January"},
	{"MMM", "Jan"},
	{"YY", "06"},
	{"MM", "01"},
	{"DD", "02"},
	{"HH", "15"},
	{"mm", "04"},
	{"M", "1"},
	{"D", "2"},
}

// Presets provides named shortcuts, matched case-insensitively.
var Presets = map[string]string{
	"iso":       "YYYY-MM-DD",
	"european":  "DD/MM/YYYY",
	"us":        "MM/DD/YYYY",
	"long":      LongDate,
	"timestamp": LongTimestamp,
}

// ParseDateFormat converts a token format (or preset name) to a Go layout.
// Brackets escape literal text: "[Published] D MMMM".
func ParseDateFormat(format string) (string, error) {
	if format == "" {
		return "", fmt.Errorf("%w: format cannot be empty", ErrInvalidDateFormat)
	}
	if len(format) > MaxDateFormatLength {
		return "", fmt.Errorf("%w: format exceeds %d characters", ErrInvalidDateFormat, MaxDateFormatLength)
	}
	if preset, ok := Presets[strings.ToLower(format)]; ok {
		format = preset
	}

	var b strings.Builder
	b.Grow(len(format) + 8)

	for i := 0; i < len(format); {
		if format[i] == '[' {
			end := strings.IndexByte(format[i+1:], ']')
			if end == -1 {
				return "", fmt.Errorf("%w: unclosed bracket at position %d", ErrInvalidDateFormat, i)
			}
			b.WriteString(format[i+1 : i+1+end])
			i += end + 2
			continue
		}
		if tok, goFmt, ok := matchToken(format[i:]); ok {
			b.WriteString(goFmt)
			i += len(tok)
			continue
		}
		b.WriteByte(format[i])
		i++
	}
	return b.String(), nil
}

func matchToken(s string) (token, goFmt string, ok bool) {
	for _, t := range dateTokens {
		if strings.HasPrefix(s, t.token) {
			return t.token, t.goFmt, true
		}
	}
	return "", "", false
}

// Format renders t with a token format or preset name.
func Format(t time.Time, format string) (string, error) {
	layout, err := ParseDateFormat(format)
	if err != nil {
		return "", err
	}
	return t.Format(layout), nil
}

// FormatLong renders t as "2 January 2006".
func FormatLong(t time.Time) string {
	return t.Format("2 January 2006")
}

// FormatLongTimestamp renders t as "2 January 2006 at 15:04".
func FormatLongTimestamp(t time.Time) string {
	return t.Format("2 January 2006 at 15:04")
}
