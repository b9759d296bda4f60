package redis

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dira-homes/dira/internal/db"
	"github.com/dira-homes/dira/internal/domain/search/filter"
)

// buildFilter translates filter.Expression into an FT.SEARCH DIALECT 2 query.
// An expression without effective clauses becomes "*".
func buildFilter(expr filter.Expression) (string, error) {
	var parts []string

	for _, cond := range expr.Must() {
		part, err := buildCondition(cond)
		if err != nil {
			return "", err
		}
		if part != "" {
			parts = append(parts, part)
		}
	}

	should, err := buildShouldGroup(expr.Should())
	if err != nil {
		return "", err
	}
	if should != "" {
		parts = append(parts, should)
	}

	for _, cond := range expr.MustNot() {
		part, err := buildCondition(cond)
		if err != nil {
			return "", err
		}
		if part != "" {
			parts = append(parts, "-"+part)
		}
	}

	if len(parts) == 0 {
		return "*", nil
	}
	return strings.Join(parts, " "), nil
}

// buildCondition returns "" for clauses that constrain nothing: an empty
// pattern or an empty membership list.
func buildCondition(cond filter.Condition) (string, error) {
	attr := db.Alias(cond.Path())

	switch cond.Op() {
	case filter.OpEq:
		return buildEquality(attr, cond)
	case filter.OpPattern:
		return buildPattern(attr, cond.Value()), nil
	case filter.OpGTE:
		v, err := numericValue(cond)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("@%s:[%s +inf]", attr, v), nil
	case filter.OpLTE:
		v, err := numericValue(cond)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("@%s:[-inf %s]", attr, v), nil
	case filter.OpIn:
		if len(cond.Values()) == 0 {
			return "", nil
		}
		escaped := make([]string, 0, len(cond.Values()))
		for _, v := range cond.Values() {
			escaped = append(escaped, tagEscaper.Replace(v))
		}
		return fmt.Sprintf("@%s:{%s}", attr, strings.Join(escaped, " | ")), nil
	default:
		return "", fmt.Errorf("unsupported filter op %d", cond.Op())
	}
}

func buildEquality(attr string, cond filter.Condition) (string, error) {
	switch cond.ValueType() {
	case filter.ValueBool:
		b, err := db.ParseBool(cond.Path(), cond.Value())
		if err != nil {
			return "", err
		}
		return buildTagFilter(attr, strconv.FormatBool(b)), nil
	case filter.ValueNumber, filter.ValueDate:
		v, err := numericValue(cond)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("@%s:[%s %s]", attr, v, v), nil
	default:
		if cond.Value() == "" {
			return fmt.Sprintf(`@%s:{""}`, attr), nil
		}
		return buildTagFilter(attr, cond.Value()), nil
	}
}

// buildPattern matches pattern as a case-sensitive substring of the whole
// value of a substring TAG attribute (DIALECT 2 infix query). A blank pattern
// constrains nothing.
func buildPattern(attr, pattern string) string {
	if strings.TrimSpace(pattern) == "" {
		return ""
	}
	return fmt.Sprintf("@%s:{*%s*}", attr, tagEscaper.Replace(pattern))
}

func numericValue(cond filter.Condition) (string, error) {
	if cond.ValueType() == filter.ValueDate {
		ms, err := db.ParseDate(cond.Path(), cond.Value())
		if err != nil {
			return "", err
		}
		return strconv.FormatInt(ms, 10), nil
	}
	f, err := db.ParseNumber(cond.Path(), cond.Value())
	if err != nil {
		return "", err
	}
	return strconv.FormatFloat(f, 'f', -1, 64), nil
}

func buildShouldGroup(conditions []filter.Condition) (string, error) {
	if len(conditions) == 0 {
		return "", nil
	}
	parts := make([]string, 0, len(conditions))
	for _, cond := range conditions {
		part, err := buildCondition(cond)
		if err != nil {
			return "", err
		}
		if part == "" {
			// an unconstrained alternative makes the whole group true
			return "", nil
		}
		parts = append(parts, part)
	}
	return "(" + strings.Join(parts, " | ") + ")", nil
}

func buildTagFilter(attr, value string) string {
	return fmt.Sprintf("@%s:{%s}", attr, tagEscaper.Replace(value))
}

// --- Query helpers ---

var tagEscaper = strings.NewReplacer(
	`\`, `\\`,
	",", "\\,",
	".", "\\.",
	"<", "\\<",
	">", "\\>",
	"{", "\\{",
	"}", "\\}",
	"[", "\\[",
	"]", "\\]",
	"\"", "\\\"",
	"'", "\\'",
	":", "\\:",
	";", "\\;",
	"!", "\\!",
	"@", "\\@",
	"#", "\\#",
	"$", "\\$",
	"%", "\\%",
	"^", "\\^",
	"&", "\\&",
	"*", "\\*",
	"(", "\\(",
	")", "\\)",
	"-", "\\-",
	"+", "\\+",
	"=", "\\=",
	"~", "\\~",
	"|", "\\|",
	"/", "\\/",
	"?", "\\?",
	" ", "\\ ",
)
