// Package builder maps a user's per-category component choices into a
// priced candidate set before the choices become cart lines.
package builder

import (
	"strings"

	"github.com/alextreichler/pcbuilder/internal/models"
)

// Categories is the predefined set of slots shown on the builder page.
var Categories = []string{"CPU", "Motherboard", "RAM", "GPU", "Storage", "PSU", "Case"}

// Catalog is the read-only component lookup the selector needs.
type Catalog interface {
	ComponentByID(id int) (*models.Component, error)
	ComponentsByCategory(category string) ([]models.Component, error)
}

// ResolveSelections turns a category -> component id mapping into the
// components it denotes. An id resolves only if the component exists
// AND its type matches the category key (case-insensitive); a tampered
// id submitted under the wrong category is dropped. Zero and negative
// ids mean "nothing chosen" and unresolvable or mismatched entries are
// skipped silently rather than reported.
func ResolveSelections(selections map[string]int, catalog Catalog) []*models.Component {
	var resolved []*models.Component
	for category, id := range selections {
		if id <= 0 {
			continue
		}
		component, err := catalog.ComponentByID(id)
		if err != nil || component == nil {
			continue
		}
		if !strings.EqualFold(component.Type, category) {
			continue
		}
		resolved = append(resolved, component)
	}
	return resolved
}

// TotalCents sums the price of every valid selection. An empty or
// entirely invalid selection set totals zero; it never fails.
func TotalCents(selections map[string]int, catalog Catalog) int64 {
	var total int64
	for _, component := range ResolveSelections(selections, catalog) {
		total += component.PriceCents
	}
	return total
}
