// Package catalog implements the in-memory catalog query engine: category
// listing and filtering, recency ordering, free-text search, pagination and
// related-product selection.
//
// Every function here is pure. Inputs are never mutated, and results that
// differ from the input are freshly allocated, so callers always pass the
// returned slice forward.
package catalog

import (
	"slices"
	"strings"

	"github.com/xenking/gadget-catalog/internal/domain/product"
)

// AllCategories is the synthetic category meaning "no filter". It is always
// the first entry returned by ListCategories.
const AllCategories = "all"

const (
	// DefaultPageSize is the number of products shown per listing page.
	DefaultPageSize = 8
	// RelatedLimit caps the number of related products on a detail view.
	RelatedLimit = 3
	// NewestLimit is the number of products in the "new arrivals" strip.
	NewestLimit = 3
	// SuggestionLimit is the number of fallback products offered when a
	// search has no results.
	SuggestionLimit = 4
)

// ListCategories returns AllCategories followed by the distinct categories
// of products in the order they are first seen.
func ListCategories(products []product.Product) []string {
	out := []string{AllCategories}
	seen := make(map[string]struct{}, len(products))
	for _, p := range products {
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		out = append(out, p.Category)
	}
	return out
}

// FilterByCategory returns products unchanged for AllCategories, otherwise
// the order-preserving subsequence whose category equals the argument.
func FilterByCategory(products []product.Product, category string) []product.Product {
	if category == AllCategories {
		return products
	}
	out := make([]product.Product, 0, len(products))
	for _, p := range products {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out
}

// SortByRecency returns a copy of products ordered by date, newest first.
// Products with equal dates keep their relative order.
func SortByRecency(products []product.Product) []product.Product {
	out := slices.Clone(products)
	slices.SortStableFunc(out, func(a, b product.Product) int {
		return b.Date.Compare(a.Date)
	})
	return out
}

// Search returns the products whose title contains query (case-insensitive)
// or whose price, written in its shortest decimal form, contains query.
//
// An empty query matches nothing: a search view shows no results until the
// user types something, which is distinct from a browse filter.
func Search(products []product.Product, query string) []product.Product {
	if query == "" {
		return []product.Product{}
	}
	needle := strings.ToLower(query)
	out := make([]product.Product, 0)
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Title), needle) ||
			strings.Contains(p.Price.String(), query) {
			out = append(out, p)
		}
	}
	return out
}

// Page is one page of a paginated product sequence.
type Page struct {
	Items      []product.Product
	Page       int
	PageSize   int
	Total      int
	TotalPages int
}

// Paginate slices products into pages of pageSize and returns the 1-indexed
// page. A page outside [1, TotalPages] yields no items; it is up to the
// caller to reset the page when the underlying set shrinks. A non-positive
// pageSize yields zero pages.
func Paginate(products []product.Product, pageSize, page int) Page {
	res := Page{
		Items:    []product.Product{},
		Page:     page,
		PageSize: pageSize,
		Total:    len(products),
	}
	if pageSize <= 0 {
		return res
	}
	res.TotalPages = len(products) / pageSize
	if len(products)%pageSize != 0 {
		res.TotalPages++
	}
	if page < 1 || page > res.TotalPages {
		return res
	}

	start := (page - 1) * pageSize
	end := min(start+pageSize, len(products))
	res.Items = products[start:end:end]
	return res
}

// Related returns up to limit products sharing p's category, excluding p
// itself, in catalog order.
func Related(products []product.Product, p product.Product, limit int) []product.Product {
	out := make([]product.Product, 0, max(limit, 0))
	for _, other := range products {
		if len(out) >= limit {
			break
		}
		if other.ID == p.ID || other.Category != p.Category {
			continue
		}
		out = append(out, other)
	}
	return out
}

