package handler

import (
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/zctx"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/xenking/gadget-catalog/internal/domain/favorite"
	"github.com/xenking/gadget-catalog/pkg/httpmiddleware"
)

// ListFavorites responds with the caller's favorite IDs as strings, in the
// order they were added.
func (h *Handler) ListFavorites(w http.ResponseWriter, r *http.Request) {
	set, err := h.favorites.Load(r.Context(), httpmiddleware.ClientIDFromContext(r.Context()))
	if err != nil {
		h.favoriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.Raw(favorite.Encode(set))
	})
}

// ToggleFavorite flips the favorite state of a product for the caller. An
// identity issued on this very request is not persisted: the client has to
// send it back first.
func (h *Handler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}
	client := httpmiddleware.ClientIDFromContext(r.Context())
	if httpmiddleware.ClientIDIssued(r.Context()) {
		client = ""
	}
	_, isFavorite, err := h.favorites.Toggle(r.Context(), client, id)
	if err != nil {
		h.favoriteError(w, r, err)
		return
	}

	h.toggles.Add(r.Context(), 1, metric.WithAttributes(attribute.Bool("favorite", isFavorite)))
	zctx.From(r.Context()).Debug("Favorite toggled",
		zap.Int("product_id", id),
		zap.Bool("favorite", isFavorite),
	)

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.ObjStart()
		e.FieldStart("id")
		e.Int(id)
		e.FieldStart("favorite")
		e.Bool(isFavorite)
		e.ObjEnd()
	})
}

func (h *Handler) favoriteError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, favorite.ErrUnknownProduct):
		writeError(w, http.StatusNotFound, "product not found")
	case errors.Is(err, favorite.ErrNoClient):
		writeError(w, http.StatusBadRequest, "missing "+httpmiddleware.ClientIDHeader+" header")
	default:
		internalError(w, r, "Favorites store", err)
	}
}
