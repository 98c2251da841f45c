package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Domenick1991/airport/api"
	"github.com/Domenick1991/airport/config"
	"github.com/Domenick1991/airport/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
)

const shutdownTimeout = 5 * time.Second

// Handlers groups the REST resources mounted under /api/airport.
type Handlers struct {
	Airports      *api.AirportHandler
	Routes        *api.RouteHandler
	AirplaneTypes *api.AirplaneTypeHandler
	Airplanes     *api.AirplaneHandler
	Crew          *api.CrewHandler
	Flights       *api.FlightHandler
	Orders        *api.OrderHandler
	Tickets       *api.TicketHandler
}

// Deps are the cross-cutting collaborators of the HTTP surface.
type Deps struct {
	Tokens      middleware.TokenParser
	Idempotency middleware.IdempotencyStore
	Log         *zap.SugaredLogger
	// Ready reports whether the backing stores answer; nil means always ready.
	Ready func(ctx context.Context) error
}

// Run serves HTTP and blocks until ctx is canceled or the server fails.
func Run(ctx context.Context, cfg *config.Config, h Handlers, deps Deps) error {
	srv := &http.Server{
		Addr:              cfg.HTTP.Address,
		Handler:           NewRouter(cfg, h, deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		deps.Log.Infow("http server listening", "address", cfg.HTTP.Address)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("serve http: %w", err)
		}
		return nil
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}

func NewRouter(cfg *config.Config, h Handlers, deps Deps) *gin.Engine {
	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.RequestLogger(deps.Log),
		middleware.Metrics(),
	)

	router.GET("/health", func(c *gin.Context) {
		if deps.Ready != nil {
			if err := deps.Ready(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if cfg.HTTP.SwaggerDir != "" {
		router.Static("/swagger", cfg.HTTP.SwaggerDir)
		router.GET("/docs/*any", gin.WrapH(httpSwagger.Handler(httpSwagger.URL("/swagger/airport.swagger.json"))))
	}

	limiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRPS, cfg.HTTP.RateLimitBurst)
	root := router.Group("/api/airport", limiter.Handler(), middleware.Auth(deps.Tokens))

	h.Airports.Register(root.Group("/airports"))
	h.Routes.Register(root.Group("/routes"))
	h.AirplaneTypes.Register(root.Group("/airplane-types"))
	h.Airplanes.Register(root.Group("/airplanes"))
	h.Crew.Register(root.Group("/crew"))
	h.Flights.Register(root.Group("/flights"))

	private := root.Group("", middleware.RequireUser(), middleware.Idempotency(deps.Idempotency, cfg.Cache.IdempotencyTTL(), deps.Log))
	h.Orders.Register(private.Group("/orders"))
	h.Tickets.Register(private.Group("/tickets"))

	return router
}
