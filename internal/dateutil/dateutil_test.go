package dateutil

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestParseDateFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		format  string
		want    string
		wantErr error
	}{
		{name: "year", format: "YYYY", want: "2006"},
		{name: "short year", format: "YY", want: "06"},
		{name: "full month", format: "MMMM", want: "January"},
		{name: "short month", format: "MMM", want: "Jan"},
		{name: "padded month", format: "MM", want: "01"},
		{name: "month", format: "M", want: "1"},
		{name: "padded day", format: "DD", want: "02"},
		{name: "day", format: "D", want: "2"},
		{name: "hour and minute", format: "HH:mm", want: "15:04"},
		{name: "long date", format: LongDate, want: "2 January 2006"},
		{name: "long timestamp", format: LongTimestamp, want: "2 January 2006 at 15:04"},
		{name: "preset iso", format: "iso", want: "2006-01-02"},
		{name: "preset case insensitive", format: "LONG", want: "2 January 2006"},
		{name: "escaped literal", format: "[Published:] D MMM", want: "Published: 2 Jan"},
		{name: "unclosed bracket", format: "[oops D", wantErr: ErrInvalidDateFormat},
		{name: "empty", format: "", wantErr: ErrInvalidDateFormat},
		{name: "too long", format: strings.Repeat("Y", MaxDateFormatLength+1), wantErr: ErrInvalidDateFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseDateFormat(tt.format)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ParseDateFormat(%q) error = %v, want %v", tt.format, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseDateFormat(%q) = %q, want %q", tt.format, got, tt.want)
			}
		})
	}
}

func TestFormatLong(t *testing.T) {
	t.Parallel()

	ts := time.Date(2024, time.March, 5, 9, 7, 0, 0, time.UTC)

	if got := FormatLong(ts); got != "5 March 2024" {
		t.Errorf("FormatLong = %q, want %q", got, "5 March 2024")
	}
	if got := FormatLongTimestamp(ts); got != "5 March 2024 at 09:07" {
		t.Errorf("FormatLongTimestamp = %q, want %q", got, "5 March 2024 at 09:07")
	}
}

func TestFormat_MatchesHelpers(t *testing.T) {
	t.Parallel()

	ts := time.Date(2025, time.December, 31, 23, 59, 0, 0, time.UTC)

	got, err := Format(ts, LongDate)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != FormatLong(ts) {
		t.Errorf("Format(LongDate) = %q, FormatLong = %q", got, FormatLong(ts))
	}

	got, err = Format(ts, "timestamp")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != FormatLongTimestamp(ts) {
		t.Errorf("Format(timestamp) = %q, FormatLongTimestamp = %q", got, FormatLongTimestamp(ts))
	}
}
