package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

type param struct {
	name, value string
}

// SearchBuilder is a fluent builder for listing searches. Parameters are
// sent in the order they were added; setting a scalar twice keeps the
// first value, as the server does.
type SearchBuilder struct {
	client *Client

	params     []param
	types      []string
	conditions []string
	exclude    []string
	skip       int
}

// Town filters by exact town name.
func (b *SearchBuilder) Town(town string) *SearchBuilder {
	return b.Where("town", town)
}

// Description matches listings whose description contains text.
func (b *SearchBuilder) Description(text string) *SearchBuilder {
	return b.Where("description", text)
}

// Where adds an equality parameter, e.g. Where("streetName", "Herzl").
func (b *SearchBuilder) Where(name, value string) *SearchBuilder {
	b.params = append(b.params, param{name: name, value: value})
	return b
}

// Bool adds a boolean property filter, e.g. Bool("hasLift", true).
func (b *SearchBuilder) Bool(name string, v bool) *SearchBuilder {
	return b.Where(name, strconv.FormatBool(v))
}

// Min adds an inclusive lower bound on a numeric field (price, floor, ...).
func (b *SearchBuilder) Min(field string, v float64) *SearchBuilder {
	return b.Where("min"+upperFirst(field), formatNumber(v))
}

// Max adds an inclusive upper bound on a numeric field.
func (b *SearchBuilder) Max(field string, v float64) *SearchBuilder {
	return b.Where("max"+upperFirst(field), formatNumber(v))
}

// Types restricts results to any of the listing types.
func (b *SearchBuilder) Types(types ...string) *SearchBuilder {
	b.types = append(b.types, types...)
	return b
}

// Conditions restricts results to any of the listing conditions.
func (b *SearchBuilder) Conditions(conditions ...string) *SearchBuilder {
	b.conditions = append(b.conditions, conditions...)
	return b
}

// Exclude drops listings by id, typically ones already shown.
func (b *SearchBuilder) Exclude(ids ...string) *SearchBuilder {
	b.exclude = append(b.exclude, ids...)
	return b
}

// Skip sets how many matches to skip before the returned page.
func (b *SearchBuilder) Skip(n int) *SearchBuilder {
	b.skip = n
	return b
}

// RawQuery returns the encoded query string Do sends.
func (b *SearchBuilder) RawQuery() string {
	var sb strings.Builder
	add := func(name, value string) {
		if sb.Len() > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(url.QueryEscape(name))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(value))
	}

	for _, p := range b.params {
		add(p.name, p.value)
	}
	for _, t := range b.types {
		add("types", t)
	}
	for _, c := range b.conditions {
		add("conditions", c)
	}
	for _, id := range b.exclude {
		add("apartmentIds", id)
	}
	if b.skip > 0 {
		add("skipCounter", strconv.Itoa(b.skip))
	}
	return sb.String()
}

// Do runs the search and returns one page of results.
func (b *SearchBuilder) Do(ctx context.Context) ([]Result, error) {
	var out []Result
	if err := b.client.get(ctx, "/apartments", b.RawQuery(), &out); err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	if out == nil {
		out = []Result{}
	}
	return out, nil
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
