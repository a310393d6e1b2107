package app

import (
	"context"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"

	"github.com/xenking/gadget-catalog/internal/catalog"
	"github.com/xenking/gadget-catalog/internal/domain/favorite"
	"github.com/xenking/gadget-catalog/internal/handler"
	"github.com/xenking/gadget-catalog/pkg/health"
	"github.com/xenking/gadget-catalog/pkg/httpmiddleware"
)

// server is the assembled HTTP stack. Health checks and the rate limiter
// janitor are not running until start is called.
type server struct {
	handler http.Handler
	catalog *catalog.Engine
	health  *health.Health
	limiter *httpmiddleware.RateLimiter
}

// newServer loads the catalog from b and builds the handler chain around it.
func newServer(ctx context.Context, tel httpmiddleware.Telemetry, cfg *Config, b *backends) (*server, error) {
	// The catalog is read once; it does not change while serving.
	products, err := b.products.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "load catalog")
	}
	engine, err := catalog.New(products)
	if err != nil {
		return nil, errors.Wrap(err, "build catalog")
	}

	// Health check service.
	healthSvc := health.New()
	healthSvc.AddReadinessCheck("favorites", 5*time.Second, health.PingCheck(b.favorites))
	healthSvc.AddReadinessCheck("catalog", time.Second, health.MinCountCheck("products", 1, engine.Len))
	healthSvc.AddLivenessCheck("goroutines", time.Second, health.GoroutineCountCheck(10000))
	healthSvc.AddLivenessCheck("gc", time.Second, health.GCMaxPauseCheck(time.Second))

	h, err := handler.NewHandler(
		handler.HandlerConfig{ImageBaseURL: cfg.ImageBaseURL, PageSize: cfg.PageSize},
		engine,
		favorite.NewService(b.favorites, engine),
		tel.MeterProvider().Meter("catalog"),
	)
	if err != nil {
		return nil, errors.Wrap(err, "create handler")
	}

	// Router: health endpoints + API routes on one server.
	router := h.Routes()
	router.Get("/livez", healthSvc.LiveEndpoint)
	router.Get("/readyz", healthSvc.ReadyEndpoint)
	routeFinder := httpmiddleware.MakeRouteFinder(router)

	trusted, err := httpmiddleware.ParseTrustedProxies(cfg.RateLimit.TrustedProxies)
	if err != nil {
		return nil, errors.Wrap(err, "rate limit")
	}
	limiter := httpmiddleware.NewRateLimiter(httpmiddleware.RateLimitConfig{
		Max:     cfg.RateLimit.Max,
		Window:  cfg.RateLimit.Window,
		KeyFunc: httpmiddleware.ProxiedClientIP(trusted),
	})

	return &server{
		catalog: engine,
		health:  healthSvc,
		limiter: limiter,
		handler: httpmiddleware.Wrap(router,
			httpmiddleware.RequestID(),
			httpmiddleware.ClientID(),
			httpmiddleware.InjectLogger(zctx.From(ctx)),
			httpmiddleware.Recovery(),
			httpmiddleware.CORS(httpmiddleware.CORSConfig{
				AllowOrigins:     cfg.CORS.Origins,
				AllowHeaders:     []string{"Content-Type", httpmiddleware.ClientIDHeader, httpmiddleware.RequestIDHeader},
				ExposeHeaders:    []string{httpmiddleware.ClientIDHeader, httpmiddleware.RequestIDHeader},
				AllowCredentials: cfg.CORS.AllowCredentials,
				MaxAge:           86400,
			}),
			limiter.Middleware(),
			httpmiddleware.Instrument("catalog-api", routeFinder, tel),
			httpmiddleware.LogRequests(routeFinder),
			httpmiddleware.Labeler(routeFinder),
		),
	}, nil
}

// start runs the background loops until ctx is done and marks the server
// ready.
func (s *server) start(ctx context.Context) {
	s.health.Start(ctx, 10*time.Second)
	go s.limiter.Run(ctx)
	s.health.SetReady(true)
}
