package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/xenking/gadget-catalog/internal/catalog"
	"github.com/xenking/gadget-catalog/internal/domain/favorite"
	"github.com/xenking/gadget-catalog/pkg/httpmiddleware"
)

// ListCategories responds with "all" followed by the catalog's categories.
func (h *Handler) ListCategories(w http.ResponseWriter, _ *http.Request) {
	categories := h.catalog.Categories()
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.ArrStart()
		for _, c := range categories {
			e.Str(c)
		}
		e.ArrEnd()
	})
}

// ListProducts responds with one page of the recency-ordered catalog,
// optionally filtered by category. Pages past the end are empty, not errors.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	page, err := intParam(q.Get("page"), 1)
	if err != nil {
		writeError(w, http.StatusBadRequest, "page: "+err.Error())
		return
	}
	size, err := intParam(q.Get("pageSize"), h.pageSize)
	if err != nil {
		writeError(w, http.StatusBadRequest, "pageSize: "+err.Error())
		return
	}
	if size < 1 || size > MaxPageSize {
		writeError(w, http.StatusBadRequest, "pageSize: must be between 1 and "+strconv.Itoa(MaxPageSize))
		return
	}

	res := h.catalog.Browse(catalog.Query{
		Category: q.Get("category"),
		Page:     page,
		PageSize: size,
	})
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.ObjStart()
		e.FieldStart("category")
		e.Str(res.Category)
		e.FieldStart("items")
		h.encodeProducts(e, res.Items)
		e.FieldStart("page")
		e.Int(res.Page.Page)
		e.FieldStart("pageSize")
		e.Int(res.PageSize)
		e.FieldStart("total")
		e.Int(res.Total)
		e.FieldStart("totalPages")
		e.Int(res.TotalPages)
		e.ObjEnd()
	})
}

// NewProducts responds with the most recently listed products.
func (h *Handler) NewProducts(w http.ResponseWriter, _ *http.Request) {
	newest := h.catalog.Newest(catalog.NewestLimit)
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		h.encodeProducts(e, newest)
	})
}

// GetProduct responds with a product, its related products and whether the
// calling client has it among its favorites.
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}
	p, found := h.catalog.Find(id)
	if !found {
		writeError(w, http.StatusNotFound, "product not found")
		return
	}
	related, _ := h.catalog.Related(id)

	isFavorite, err := h.favorites.IsFavorite(r.Context(), httpmiddleware.ClientIDFromContext(r.Context()), id)
	switch {
	case errors.Is(err, favorite.ErrNoClient):
		isFavorite = false
	case err != nil:
		internalError(w, r, "Load favorites", err)
		return
	}

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.ObjStart()
		e.FieldStart("product")
		h.withImageBase(p).Encode(e)
		e.FieldStart("related")
		h.encodeProducts(e, related)
		e.FieldStart("favorite")
		e.Bool(isFavorite)
		e.ObjEnd()
	})
}

// Search responds with products matching q. When nothing matches, the
// suggestions field carries a few products to browse instead.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	items := h.catalog.Search(query)
	suggestions := h.catalog.Suggestions(0)
	if len(items) == 0 {
		suggestions = h.catalog.Suggestions(catalog.SuggestionLimit)
	}

	h.searches.Add(r.Context(), 1, metric.WithAttributes(
		attribute.Bool("hit", len(items) > 0),
	))

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.ObjStart()
		e.FieldStart("query")
		e.Str(query)
		e.FieldStart("items")
		h.encodeProducts(e, items)
		e.FieldStart("suggestions")
		h.encodeProducts(e, suggestions)
		e.ObjEnd()
	})
}

func intParam(raw string, def int) (int, error) {
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.Errorf("%q is not an integer", raw)
	}
	return v, nil
}

// productID parses the {id} path parameter, responding 400 on failure.
func productID(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.Atoi(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid product id "+strconv.Quote(raw))
		return 0, false
	}
	return id, true
}
