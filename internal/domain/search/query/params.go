package query

import (
	"net/url"
	"strings"
)

// Param is a single scalar query parameter.
type Param struct {
	Name  string
	Value string
}

// ParseParams splits a raw query string into parameters in order of first
// appearance. When a name repeats, the first value wins. Pairs that fail
// to unescape are dropped.
func ParseParams(rawQuery string) []Param {
	var (
		out  []Param
		seen = make(map[string]bool)
	)
	for rawQuery != "" {
		var pair string
		pair, rawQuery, _ = strings.Cut(rawQuery, "&")
		if pair == "" {
			continue
		}
		rawName, rawValue, _ := strings.Cut(pair, "=")
		name, err := url.QueryUnescape(rawName)
		if err != nil || name == "" {
			continue
		}
		value, err := url.QueryUnescape(rawValue)
		if err != nil {
			continue
		}
		if seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, Param{Name: name, Value: value})
	}
	return out
}

// ListValues collects the values of an array parameter given as repeated
// keys (types=a&types=b), bracket keys (types[]=a) or a single value.
// Empty entries are skipped.
func ListValues(values url.Values, name string) []string {
	var out []string
	for _, key := range []string{name, name + "[]"} {
		for _, v := range values[key] {
			if v != "" {
				out = append(out, v)
			}
		}
	}
	return out
}
