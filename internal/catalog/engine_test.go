package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/gadget-catalog/internal/domain/product"
)

func newTestEngine(t *testing.T, products []product.Product) *Engine {
	t.Helper()
	e, err := New(products)
	require.NoError(t, err)
	return e
}

func TestNew_DuplicateID(t *testing.T) {
	products := []product.Product{
		newTestProduct(1, "A", "adapter", "1", "2024-01-01"),
		newTestProduct(2, "B", "adapter", "1", "2024-01-01"),
		newTestProduct(1, "C", "charger", "1", "2024-01-01"),
	}

	_, err := New(products)

	var dupErr *DuplicateIDError
	require.ErrorAs(t, err, &dupErr)
	assert.Equal(t, 1, dupErr.ID)
	assert.Equal(t, "duplicate product id 1", err.Error())
}

func TestNew_DoesNotAliasInput(t *testing.T) {
	products := mixedCatalog()
	e := newTestEngine(t, products)

	products[0].Title = "changed"
	p, ok := e.Find(1)
	require.True(t, ok)
	assert.Equal(t, "USB-C Cable 1m", p.Title)
}

func TestEngine_Find(t *testing.T) {
	e := newTestEngine(t, mixedCatalog())

	t.Run("found", func(t *testing.T) {
		p, ok := e.Find(4)
		require.True(t, ok)
		assert.Equal(t, "Wireless Earphone", p.Title)
	})

	t.Run("absent is not an error", func(t *testing.T) {
		for _, id := range []int{0, -1, 10, 999} {
			p, ok := e.Find(id)
			assert.False(t, ok, "id %d", id)
			assert.Zero(t, p.ID)
			assert.False(t, e.Contains(id))
		}
	})

	t.Run("empty catalog", func(t *testing.T) {
		empty := newTestEngine(t, nil)
		_, ok := empty.Find(1)
		assert.False(t, ok)
		assert.Equal(t, []string{"all"}, empty.Categories())
		assert.Zero(t, empty.Len())
	})
}

func TestEngine_Related(t *testing.T) {
	e := newTestEngine(t, mixedCatalog())

	got, ok := e.Related(1)
	require.True(t, ok)
	assert.Equal(t, []int{3, 7}, ids(got))

	got, ok = e.Related(5)
	require.True(t, ok)
	assert.Empty(t, got)

	_, ok = e.Related(42)
	assert.False(t, ok)
}

func TestEngine_Browse(t *testing.T) {
	e := newTestEngine(t, mixedCatalog())

	tests := []struct {
		name           string
		query          Query
		wantIDs        []int
		wantTotalPages int
		wantCategory   string
	}{
		{
			name:           "defaults",
			query:          Query{Page: 1},
			wantIDs:        []int{7, 2, 4, 9, 3, 8, 6, 1},
			wantTotalPages: 2,
			wantCategory:   "all",
		},
		{
			name:           "second page",
			query:          Query{Category: "all", Page: 2},
			wantIDs:        []int{5},
			wantTotalPages: 2,
			wantCategory:   "all",
		},
		{
			name:           "category filter in recency order",
			query:          Query{Category: "adapter", Page: 1},
			wantIDs:        []int{7, 3, 1},
			wantTotalPages: 1,
			wantCategory:   "adapter",
		},
		{
			name:           "stale page after narrowing",
			query:          Query{Category: "charger", Page: 2},
			wantIDs:        []int{},
			wantTotalPages: 1,
			wantCategory:   "charger",
		},
		{
			name:           "custom page size",
			query:          Query{Category: "charger", Page: 2, PageSize: 1},
			wantIDs:        []int{9},
			wantTotalPages: 2,
			wantCategory:   "charger",
		},
		{
			name:           "unknown category",
			query:          Query{Category: "lens", Page: 1},
			wantIDs:        []int{},
			wantTotalPages: 0,
			wantCategory:   "lens",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.Browse(tt.query)
			assert.Equal(t, tt.wantIDs, ids(got.Items))
			assert.Equal(t, tt.wantTotalPages, got.TotalPages)
			assert.Equal(t, tt.wantCategory, got.Category)
		})
	}
}

func TestEngine_SearchKeepsCatalogOrder(t *testing.T) {
	e := newTestEngine(t, mixedCatalog())
	assert.Equal(t, []int{2, 6, 9}, ids(e.Search("charger")))
	assert.Empty(t, e.Search(""))
}

func TestEngine_NewestAndSuggestions(t *testing.T) {
	e := newTestEngine(t, mixedCatalog())

	assert.Equal(t, []int{7, 2, 4}, ids(e.Newest(NewestLimit)))
	assert.Equal(t, []int{1, 2, 3, 4}, ids(e.Suggestions(SuggestionLimit)))
	assert.Len(t, e.Newest(100), 9)
	assert.Empty(t, e.Suggestions(-1))
}

func TestEngine_CategoriesIsCopy(t *testing.T) {
	e := newTestEngine(t, mixedCatalog())
	c := e.Categories()
	c[0] = "mutated"
	assert.Equal(t, "all", e.Categories()[0])
}
