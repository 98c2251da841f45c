package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Domenick1991/airport/api"
	"github.com/Domenick1991/airport/config"
	"github.com/Domenick1991/airport/internal/auth"
	"github.com/Domenick1991/airport/internal/bootstrap"
	"github.com/Domenick1991/airport/internal/cache"
	"github.com/Domenick1991/airport/internal/logging"
	"github.com/Domenick1991/airport/internal/repository"
	"github.com/Domenick1991/airport/internal/service/catalog"
	"github.com/Domenick1991/airport/internal/service/flights"
	"github.com/Domenick1991/airport/internal/service/orders"
	"github.com/Domenick1991/airport/internal/validation"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := logging.New(cfg.Log.Env, cfg.Log.Level)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatalw("api stopped", "error", err)
	}
}

func run(cfg *config.Config, logger *zap.SugaredLogger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pool.Close()

	if cfg.Database.Migrate {
		if err := repository.Migrate(ctx, pool); err != nil {
			return err
		}
		logger.Infow("database schema applied")
	}

	store, err := newCache(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	airportRepo := repository.NewAirportRepository(pool)
	routeRepo := repository.NewRouteRepository(pool)
	typeRepo := repository.NewAirplaneTypeRepository(pool)
	airplaneRepo := repository.NewAirplaneRepository(pool)
	crewRepo := repository.NewCrewRepository(pool)
	flightRepo := repository.NewFlightRepository(pool)
	orderRepo := repository.NewOrderRepository(pool)
	ticketRepo := repository.NewTicketRepository(pool)
	outboxRepo := repository.NewOutboxRepository(pool)
	txManager := repository.NewTxManager(pool)

	engine := validation.NewEngine(repository.NewLookup(pool))

	flightService := flights.NewFlightService(
		flightRepo, routeRepo, airplaneRepo, crewRepo, engine, txManager,
		flights.WithCache(store),
		flights.WithLogger(logger),
	)
	orderService := orders.NewOrderService(
		txManager, orderRepo, ticketRepo, flightRepo, outboxRepo, engine,
		orders.WithCache(store),
		orders.WithLogger(logger),
	)

	handlers := bootstrap.Handlers{
		Airports:      api.NewAirportHandler(catalog.NewAirportService(airportRepo, engine, store, logger)),
		Routes:        api.NewRouteHandler(catalog.NewRouteService(routeRepo, airportRepo, engine, store, logger)),
		AirplaneTypes: api.NewAirplaneTypeHandler(catalog.NewAirplaneTypeService(typeRepo, engine, store, logger)),
		Airplanes:     api.NewAirplaneHandler(catalog.NewAirplaneService(airplaneRepo, typeRepo, engine, store, logger)),
		Crew:          api.NewCrewHandler(catalog.NewCrewService(crewRepo, engine, store, logger)),
		Flights:       api.NewFlightHandler(flightService),
		Orders:        api.NewOrderHandler(orderService),
		Tickets:       api.NewTicketHandler(orderService),
	}
	deps := bootstrap.Deps{
		Tokens:      auth.NewVerifier(cfg.Auth.JWTSecret),
		Idempotency: store,
		Log:         logger,
		Ready:       pool.Ping,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return bootstrap.Run(gctx, cfg, handlers, deps)
	})
	return g.Wait()
}

// newCache picks redis when an address is configured and the in-process
// cache otherwise.
func newCache(ctx context.Context, cfg *config.Config, logger *zap.SugaredLogger) (cache.Cache, error) {
	if cfg.Redis.Addr == "" {
		logger.Infow("using in-memory cache")
		return cache.NewMemoryCache(cfg.Cache.FlightsTTL()), nil
	}

	redisCache := cache.NewRedisCache(cfg.Redis, cfg.Cache.FlightsTTL())
	if err := redisCache.Ping(ctx); err != nil {
		_ = redisCache.Close()
		return nil, fmt.Errorf("connect redis %s: %w", cfg.Redis.Addr, err)
	}
	logger.Infow("using redis cache", "addr", cfg.Redis.Addr)
	return redisCache, nil
}
