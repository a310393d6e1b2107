package catalog

import (
	"fmt"
	"slices"

	"github.com/xenking/gadget-catalog/internal/domain/product"
)

// DuplicateIDError reports a catalog that lists the same product ID twice.
type DuplicateIDError struct {
	ID int
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("duplicate product id %d", e.ID)
}

// Query is the browse state of a listing view.
type Query struct {
	Category string
	Page     int
	PageSize int
}

// Result is a rendered listing page.
type Result struct {
	Page
	Category string
}

// Engine is an immutable snapshot of the catalog. It is safe for concurrent
// use because nothing in it changes after New returns.
type Engine struct {
	products   []product.Product
	recent     []product.Product
	categories []string
	index      map[int]int
}

// New builds an Engine over products, which are kept in the given order.
// It returns *DuplicateIDError if two products share an ID.
func New(products []product.Product) (*Engine, error) {
	index := make(map[int]int, len(products))
	for i, p := range products {
		if _, ok := index[p.ID]; ok {
			return nil, &DuplicateIDError{ID: p.ID}
		}
		index[p.ID] = i
	}

	owned := slices.Clone(products)
	return &Engine{
		products:   owned,
		recent:     SortByRecency(owned),
		categories: ListCategories(owned),
		index:      index,
	}, nil
}

// Len returns the number of products in the catalog.
func (e *Engine) Len() int {
	return len(e.products)
}

// Products returns the catalog in its original order. The slice is shared
// and must not be modified.
func (e *Engine) Products() []product.Product {
	return e.products
}

// Categories returns AllCategories followed by the catalog's categories in
// first-seen order.
func (e *Engine) Categories() []string {
	return slices.Clone(e.categories)
}

// Find looks a product up by ID. A missing product is reported through the
// boolean, never as an error.
func (e *Engine) Find(id int) (product.Product, bool) {
	i, ok := e.index[id]
	if !ok {
		return product.Product{}, false
	}
	return e.products[i], true
}

// Related returns up to RelatedLimit products sharing the category of the
// product with the given ID. It returns nil, false if the ID is unknown.
func (e *Engine) Related(id int) ([]product.Product, bool) {
	p, ok := e.Find(id)
	if !ok {
		return nil, false
	}
	return Related(e.products, p, RelatedLimit), true
}

// Browse filters the recency-ordered catalog by category and returns the
// requested page. An empty category means AllCategories and a non-positive
// page size means DefaultPageSize.
func (e *Engine) Browse(q Query) Result {
	category := q.Category
	if category == "" {
		category = AllCategories
	}
	size := q.PageSize
	if size <= 0 {
		size = DefaultPageSize
	}
	filtered := FilterByCategory(e.recent, category)
	return Result{
		Page:     Paginate(filtered, size, q.Page),
		Category: category,
	}
}

// Search runs a free-text search over the catalog in its original order.
func (e *Engine) Search(query string) []product.Product {
	return Search(e.products, query)
}

// Newest returns the n most recently listed products.
func (e *Engine) Newest(n int) []product.Product {
	n = min(max(n, 0), len(e.recent))
	return slices.Clone(e.recent[:n])
}

// Suggestions returns the first n products in catalog order. It backs the
// "you may also like" strip shown when a search finds nothing.
func (e *Engine) Suggestions(n int) []product.Product {
	n = min(max(n, 0), len(e.products))
	return slices.Clone(e.products[:n])
}

// Contains reports whether a product with the given ID exists.
func (e *Engine) Contains(id int) bool {
	_, ok := e.index[id]
	return ok
}
