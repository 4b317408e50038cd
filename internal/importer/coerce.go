package importer

import (
	"strconv"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// serialEpoch is day zero of the legacy spreadsheet date serial convention.
// Serial 1 is 1899-12-31; adding the serial as whole days reproduces the
// values written by the source workbooks.
var serialEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// Serials outside this window (1954 to 2118) are not treated as dates when
// they arrive as text. A stray year-like string such as "2024" would
// otherwise decode to a 1905-era date.
const (
	minDateSerial = 20000
	maxDateSerial = 80000
)

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006/01/02",
	"01/02/2006",
	"02/01/2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
}

// CoerceAmount converts a raw cell into a currency amount. Numeric values
// pass through; strings are stripped of everything but digits, the decimal
// point and the minus sign before parsing. Unparsable input degrades to 0.0
// rather than failing the batch, since amounts routinely arrive formatted
// with currency symbols and thousands separators.
func CoerceAmount(raw any) float64 {
	switch v := raw.(type) {
	case nil:
		return 0
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int32:
		return float64(v)
	case int64:
		return float64(v)
	}

	var cleaned strings.Builder
	for _, r := range stringify(raw) {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			cleaned.WriteRune(r)
		}
	}

	value, err := strconv.ParseFloat(cleaned.String(), 64)
	if err != nil {
		return 0
	}
	return value
}

// CoerceDate converts a raw cell into a YYYY-MM-DD calendar date string.
// Native date cells format directly and numeric cells are interpreted as
// spreadsheet date serials. Strings go through a general calendar parse
// first and are read as serials only when they fall in a plausible serial
// window. When every interpretation fails the current date is recorded so a
// malformed cell never aborts the batch.
func CoerceDate(raw any) string {
	switch v := raw.(type) {
	case time.Time:
		return v.Format(dateLayout)
	case *time.Time:
		if v != nil {
			return v.Format(dateLayout)
		}
	case float64:
		return serialEpoch.AddDate(0, 0, int(v)).Format(dateLayout)
	case float32:
		return serialEpoch.AddDate(0, 0, int(v)).Format(dateLayout)
	case int:
		return serialEpoch.AddDate(0, 0, v).Format(dateLayout)
	case int64:
		return serialEpoch.AddDate(0, 0, int(v)).Format(dateLayout)
	}

	text := strings.TrimSpace(stringify(raw))
	if text != "" {
		for _, layout := range dateLayouts {
			if ts, err := time.Parse(layout, text); err == nil {
				return ts.Format(dateLayout)
			}
		}
		if serial, err := strconv.ParseFloat(text, 64); err == nil && serial >= minDateSerial && serial <= maxDateSerial {
			return serialEpoch.AddDate(0, 0, int(serial)).Format(dateLayout)
		}
	}

	return time.Now().Format(dateLayout)
}

// CoerceText converts a raw cell into a trimmed string. Date cells render
// as YYYY-MM-DD; nil yields the empty string.
func CoerceText(raw any) string {
	if raw == nil {
		return ""
	}
	if ts, ok := raw.(time.Time); ok {
		return ts.Format(dateLayout)
	}
	return strings.TrimSpace(stringify(raw))
}

func stringify(raw any) string {
	switch v := raw.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case int:
		return strconv.Itoa(v)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case int64:
		return strconv.FormatInt(v, 10)
	default:
		return ""
	}
}
