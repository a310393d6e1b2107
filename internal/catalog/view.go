package catalog

import "github.com/xenking/gadget-catalog/internal/domain/product"

// View holds the query state of one listing session: selected category,
// search text and current page. Changing the category or the search text
// always resets the page to 1, since the old page may no longer exist in
// the narrower result.
//
// A View is not safe for concurrent use; it belongs to a single session.
type View struct {
	engine   *Engine
	category string
	query    string
	page     int
	pageSize int
}

// NewView starts a session showing every category on page 1.
func (e *Engine) NewView(pageSize int) *View {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &View{
		engine:   e,
		category: AllCategories,
		page:     1,
		pageSize: pageSize,
	}
}

// Category returns the selected category.
func (v *View) Category() string { return v.category }

// Query returns the current search text.
func (v *View) Query() string { return v.query }

// Page returns the current 1-indexed page.
func (v *View) Page() int { return v.page }

// SetCategory selects a category and resets the page.
func (v *View) SetCategory(category string) {
	if category == "" {
		category = AllCategories
	}
	v.category = category
	v.page = 1
}

// SetQuery sets the search text and resets the page.
func (v *View) SetQuery(query string) {
	v.query = query
	v.page = 1
}

// SetPage moves to the given page. Pages below 1 are clamped to 1.
func (v *View) SetPage(page int) {
	v.page = max(page, 1)
}

// Result computes the visible page. With an empty search text the whole
// recency-ordered catalog is browsed; otherwise the search matches are
// paginated, both narrowed by the selected category.
func (v *View) Result() Result {
	var base []product.Product
	if v.query == "" {
		base = v.engine.recent
	} else {
		base = Search(v.engine.recent, v.query)
	}
	return Result{
		Page:     Paginate(FilterByCategory(base, v.category), v.pageSize, v.page),
		Category: v.category,
	}
}
