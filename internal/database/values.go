package database

import (
	"fmt"
	"time"
)

// NullText is how a NULL cell is displayed.
const NullText = "NULL"

// FormatValue renders a cell for display.
func FormatValue(v any) string {
	if v == nil {
		return NullText
	}
	return TextValue(v)
}

// TextValue renders a cell the way it is written to CSV: NULL becomes
// an empty field and everything else its natural text form.
func TextValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		return string(x)
	case time.Time:
		if x.Hour() == 0 && x.Minute() == 0 && x.Second() == 0 && x.Nanosecond() == 0 {
			return x.Format(time.DateOnly)
		}
		return x.Format(time.DateTime)
	case bool:
		if x {
			return "true"
		}
		return "false"
	default:
		return fmt.Sprintf("%v", x)
	}
}

// TextRow renders every cell of a row with TextValue.
func TextRow(row []any) []string {
	out := make([]string, len(row))
	for i, v := range row {
		out[i] = TextValue(v)
	}
	return out
}
