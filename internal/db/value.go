package db

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/dira-homes/dira/internal/domain/search/filter"
)

// dateLayouts are tried in order when a date value is not epoch millis.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseNumber coerces a raw numeric filter value. NaN and infinities are
// rejected.
func ParseNumber(path, raw string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: %s expects a finite number, got %q", ErrInvalidValue, path, raw)
	}
	return f, nil
}

// ParseDate coerces a raw date filter value to Unix milliseconds. Accepted
// forms are epoch milliseconds, RFC 3339 and YYYY-MM-DD.
func ParseDate(path, raw string) (int64, error) {
	s := strings.TrimSpace(raw)
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return ms, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UnixMilli(), nil
		}
	}
	return 0, fmt.Errorf("%w: %s expects a date, got %q", ErrInvalidValue, path, raw)
}

// ParseBool coerces a raw boolean filter value.
func ParseBool(path, raw string) (bool, error) {
	b, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		return false, fmt.Errorf("%w: %s expects true or false, got %q", ErrInvalidValue, path, raw)
	}
	return b, nil
}

// Coerce converts a raw condition value to its typed form: string, bool,
// float64 or int64 (Unix millis) depending on the value type.
func Coerce(path string, vt filter.ValueType, raw string) (any, error) {
	switch vt {
	case filter.ValueBool:
		return ParseBool(path, raw)
	case filter.ValueNumber:
		return ParseNumber(path, raw)
	case filter.ValueDate:
		return ParseDate(path, raw)
	default:
		return raw, nil
	}
}
