package movierental

import (
	"fmt"
	"strconv"
	"time"
)

// Drivers disagree on the Go types they return for the same column. lib/pq
// returns text as []byte and SQLite returns untyped expressions such as
// CURRENT_TIMESTAMP as strings. These helpers normalise them.

func asInt64(v any) (int64, error) {
	switch n := v.(type) {
	case int64:
		return n, nil
	case int32:
		return int64(n), nil
	case int:
		return int64(n), nil
	case string:
		return strconv.ParseInt(n, 10, 64)
	case []byte:
		return strconv.ParseInt(string(n), 10, 64)
	case nil:
		return 0, fmt.Errorf("unexpected NULL")
	default:
		return 0, fmt.Errorf("cannot convert %T to integer", v)
	}
}

func asString(v any) (string, error) {
	switch s := v.(type) {
	case string:
		return s, nil
	case []byte:
		return string(s), nil
	case nil:
		return "", fmt.Errorf("unexpected NULL")
	default:
		return fmt.Sprint(v), nil
	}
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05",
	time.DateOnly,
}

func asTime(v any) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return t, nil
	case string:
		for _, layout := range timeLayouts {
			if parsed, err := time.Parse(layout, t); err == nil {
				return parsed, nil
			}
		}
		return time.Time{}, fmt.Errorf("unrecognised time %q", t)
	case []byte:
		return asTime(string(t))
	case nil:
		return time.Time{}, fmt.Errorf("unexpected NULL")
	default:
		return time.Time{}, fmt.Errorf("cannot convert %T to time", v)
	}
}
