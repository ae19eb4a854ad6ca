// Package catalog buckets free-form item names into marketplace categories.
// It backs the category fields that offer creation fills in when the caller
// leaves them blank; categories play no role in matching.
package catalog

import (
	"strings"

	"swapgogo/backend/internal/config"
)

// Categorize returns the category for an item name, or CategoryMisc when the
// name is not in the keyword table. Lookup is case-insensitive.
func Categorize(name string) string {
	needle := strings.ToLower(strings.TrimSpace(name))
	for category, keywords := range config.CategoryKeywords {
		for _, kw := range keywords {
			if needle == kw {
				return category
			}
		}
	}
	return config.CategoryMisc
}
