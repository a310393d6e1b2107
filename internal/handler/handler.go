// Package handler serves the catalog HTTP API.
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/errors"
	"go.opentelemetry.io/otel/metric"

	"github.com/xenking/gadget-catalog/internal/catalog"
	"github.com/xenking/gadget-catalog/internal/domain/favorite"
)

// MaxPageSize bounds the pageSize query parameter.
const MaxPageSize = 100

// HandlerConfig holds non-dependency configuration for the Handler.
type HandlerConfig struct {
	// ImageBaseURL is prepended to relative image paths in product responses.
	// When empty, image paths are returned as stored.
	ImageBaseURL string
	// PageSize is the listing page size used when a request does not set
	// one. Zero means catalog.DefaultPageSize.
	PageSize int
}

// Handler exposes the catalog engine and the favorites service over HTTP.
type Handler struct {
	catalog      *catalog.Engine
	favorites    *favorite.Service
	imageBaseURL string
	pageSize     int

	searches metric.Int64Counter
	toggles  metric.Int64Counter
}

// NewHandler constructs a Handler. Domain counters are registered on meter.
func NewHandler(
	cfg HandlerConfig,
	engine *catalog.Engine,
	favorites *favorite.Service,
	meter metric.Meter,
) (*Handler, error) {
	searches, err := meter.Int64Counter("catalog.search.requests",
		metric.WithDescription("Search requests, labelled by whether anything matched"),
	)
	if err != nil {
		return nil, errors.Wrap(err, "search counter")
	}
	toggles, err := meter.Int64Counter("catalog.favorite.toggles",
		metric.WithDescription("Favorite toggles, labelled by the resulting state"),
	)
	if err != nil {
		return nil, errors.Wrap(err, "toggle counter")
	}

	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = catalog.DefaultPageSize
	}
	return &Handler{
		catalog:      engine,
		favorites:    favorites,
		imageBaseURL: cfg.ImageBaseURL,
		pageSize:     min(pageSize, MaxPageSize),
		searches:     searches,
		toggles:      toggles,
	}, nil
}

// Routes returns the API router. Every route lives under /api.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/categories", h.ListCategories)
		r.Get("/products", h.ListProducts)
		r.Get("/products/new", h.NewProducts)
		r.Get("/products/{id}", h.GetProduct)
		r.Get("/search", h.Search)
		r.Get("/favorites", h.ListFavorites)
		r.Put("/favorites/{id}", h.ToggleFavorite)
	})
	return r
}
