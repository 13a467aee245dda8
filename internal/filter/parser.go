package filter

import (
	"fmt"
	"strings"
)

// Parse builds a Filter from a query string.
//
// The query is a space-separated list of tokens:
//   - "team:india,pakistan" adds team alternatives
//   - "status:live" adds status alternatives
//   - any other token, including "14:00", is a free-text term
//
// Prefixes are case-insensitive. An empty query yields an empty filter.
func Parse(query string) (*Filter, error) {
	f := NewFilter()

	for _, token := range strings.Fields(query) {
		key, value, ok := strings.Cut(token, ":")
		if !ok {
			f.Terms = append(f.Terms, token)
			continue
		}

		var dst *[]string
		switch strings.ToLower(key) {
		case "team", "teams":
			dst = &f.Teams
		case "status":
			dst = &f.Statuses
		default:
			f.Terms = append(f.Terms, token)
			continue
		}

		values, err := splitValues(key, value)
		if err != nil {
			return nil, err
		}
		*dst = append(*dst, values...)
	}

	return f, nil
}

// splitValues splits a comma-separated value list, dropping blanks
func splitValues(key, value string) ([]string, error) {
	var values []string
	for _, v := range strings.Split(value, ",") {
		if v = strings.TrimSpace(v); v != "" {
			values = append(values, v)
		}
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("filter %q needs a value", key)
	}
	return values, nil
}
