// Package listparam parses comma separated query parameters.
package listparam

import (
	"strings"
)

// Split breaks a comma separated value into trimmed, upper-cased, unique
// items. Empty items are dropped and first-seen order is kept.
//
// Example:
//
//	Split(" not_ok,CATEGORY_A,,Not_OK ")
//	// Returns: []string{"NOT_OK", "CATEGORY_A"}
func Split(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	seen := make(map[string]struct{}, len(parts))
	result := make([]string, 0, len(parts))

	for _, p := range parts {
		item := strings.ToUpper(strings.TrimSpace(p))
		if item == "" {
			continue
		}
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		result = append(result, item)
	}

	return result
}
