// Package search filters an in-memory catalog snapshot into checkout suggestions.
package search

import (
	"errors"
	"iter"
	"sort"
	"strings"

	"github.com/sumanshinde/cloth-pos/internal/model"
)

// MaxResults caps a single suggestion list
const MaxResults = 50

var ErrNoVariants = errors.New("product exists in inventory but has no variants (size/color); add variants first")

// Suggestion is either a sellable variant or a placeholder for a product with no variants.
type Suggestion struct {
	ProductID     int64          `json:"product_id"`
	ProductName   string         `json:"product_name"`
	Variant       *model.Variant `json:"variant,omitempty"`
	HasNoVariants bool           `json:"has_no_variants"`
}

func (s Suggestion) barcode() string {
	if s.Variant == nil {
		return ""
	}
	return s.Variant.Barcode
}

// FilterOptions lists the distinct colors and sizes present in the snapshot
type FilterOptions struct {
	Colors []string `json:"colors"`
	Sizes  []string `json:"sizes"`
}

// Index is an immutable snapshot of products and variants in catalog order.
type Index struct {
	products []model.Product
	variants []model.Variant
	names    map[int64]string
	stocked  map[int64]bool
}

// NewIndex snapshots the given catalog. Variants without a product name inherit it from their product.
func NewIndex(products []model.Product, variants []model.Variant) *Index {
	idx := &Index{
		products: make([]model.Product, len(products)),
		variants: make([]model.Variant, len(variants)),
		names:    make(map[int64]string, len(products)),
		stocked:  make(map[int64]bool, len(products)),
	}
	copy(idx.products, products)
	copy(idx.variants, variants)

	for _, p := range idx.products {
		idx.names[p.ID] = p.Name
	}
	for i := range idx.variants {
		v := &idx.variants[i]
		if v.ProductName == "" {
			v.ProductName = idx.names[v.ProductID]
		}
		idx.stocked[v.ProductID] = true
	}
	return idx
}

func (idx *Index) Products() []model.Product {
	return idx.products
}

func (idx *Index) Variants() []model.Variant {
	return idx.variants
}

// Variant looks a variant up by id
func (idx *Index) Variant(id int64) (model.Variant, bool) {
	for _, v := range idx.variants {
		if v.ID == id {
			return v, true
		}
	}
	return model.Variant{}, false
}

// BarcodeTaken reports whether a variant other than exceptID already uses barcode
func (idx *Index) BarcodeTaken(barcode string, exceptID int64) bool {
	if barcode == "" {
		return false
	}
	for _, v := range idx.variants {
		if v.ID != exceptID && strings.EqualFold(v.Barcode, barcode) {
			return true
		}
	}
	return false
}

func nameMatches(name, lowerQuery string) bool {
	lowerName := strings.ToLower(name)
	if lowerName == "" {
		return false
	}
	return strings.Contains(lowerName, lowerQuery) || strings.Contains(lowerQuery, lowerName)
}

func equalOrEmpty(filter, value string) bool {
	return filter == "" || strings.EqualFold(filter, value)
}

// Search yields at most MaxResults suggestions. The sequence is recomputed on every range.
func (idx *Index) Search(query, color, size string) iter.Seq[Suggestion] {
	return func(yield func(Suggestion) bool) {
		if query == "" && color == "" && size == "" {
			return
		}
		lowerQuery := strings.ToLower(query)
		emitted := 0

		for i := range idx.variants {
			v := &idx.variants[i]
			matchesQuery := query == "" ||
				nameMatches(v.ProductName, lowerQuery) ||
				strings.Contains(strings.ToLower(v.Barcode), lowerQuery)
			if !matchesQuery || !equalOrEmpty(color, v.Color) || !equalOrEmpty(size, v.Size) {
				continue
			}

			variant := *v
			if !yield(Suggestion{ProductID: v.ProductID, ProductName: v.ProductName, Variant: &variant}) {
				return
			}
			emitted++
			if emitted == MaxResults {
				return
			}
		}

		if query == "" || color != "" || size != "" {
			return
		}
		for _, p := range idx.products {
			if idx.stocked[p.ID] || !nameMatches(p.Name, lowerQuery) {
				continue
			}
			if !yield(Suggestion{ProductID: p.ID, ProductName: p.Name, HasNoVariants: true}) {
				return
			}
			emitted++
			if emitted == MaxResults {
				return
			}
		}
	}
}

// Collect materialises a Search into a slice
func (idx *Index) Collect(query, color, size string) []Suggestion {
	out := make([]Suggestion, 0)
	for s := range idx.Search(query, color, size) {
		out = append(out, s)
	}
	return out
}

// Resolve returns the first suggestion whose barcode or product name equals query, ignoring case.
// Such a match is treated as an immediate selection.
func (idx *Index) Resolve(query, color, size string) (Suggestion, bool) {
	if query == "" {
		return Suggestion{}, false
	}
	for s := range idx.Search(query, color, size) {
		if strings.EqualFold(s.barcode(), query) || strings.EqualFold(s.ProductName, query) {
			return s, true
		}
	}
	return Suggestion{}, false
}

// Select turns a suggestion into an addable variant
func Select(s Suggestion) (model.Variant, error) {
	if s.HasNoVariants || s.Variant == nil {
		return model.Variant{}, ErrNoVariants
	}
	return *s.Variant, nil
}

func (idx *Index) FilterOptions() FilterOptions {
	colors := make(map[string]struct{})
	sizes := make(map[string]struct{})
	for _, v := range idx.variants {
		if v.Color != "" {
			colors[v.Color] = struct{}{}
		}
		if v.Size != "" {
			sizes[v.Size] = struct{}{}
		}
	}
	return FilterOptions{Colors: sortedKeys(colors), Sizes: sortedKeys(sizes)}
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
