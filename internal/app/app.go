package app

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/angelchiav/cinema-booking-system/internal/booking"
	"github.com/angelchiav/cinema-booking-system/internal/domain"
	"github.com/angelchiav/cinema-booking-system/internal/event"
	"github.com/angelchiav/cinema-booking-system/internal/repository"
	"github.com/angelchiav/cinema-booking-system/internal/seatlock"
	appvalidator "github.com/angelchiav/cinema-booking-system/internal/validator"
	"github.com/angelchiav/cinema-booking-system/internal/vcs"
	"github.com/angelchiav/cinema-booking-system/migrations"
	"github.com/exaring/otelpgx"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/golang-migrate/migrate/v4"
	pgxmigrate "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"
	"github.com/riandyrn/otelchi"
	"go.opentelemetry.io/contrib/bridges/otelslog"
)

var (
	version = vcs.Version()
)

type Application struct {
	config    config
	logger    *slog.Logger
	db        *pgxpool.Pool
	redis     redis.UniversalClient
	validator *validator.Validate
	manager   *booking.Manager

	scheduleRepo domain.ScheduleRepository
	movieRepo    domain.MovieRepository
	bookingRepo  domain.BookingRepository
}

type config struct {
	port int
	env  string
	db   struct {
		dsn          string
		maxOpenConns int
		maxIdleTime  time.Duration
		automigrate  bool
	}
	redis struct {
		url string
	}
	amqp struct {
		url string
	}
	jwt struct {
		secret string
	}
	holdTTL          time.Duration
	sweepInterval    time.Duration
	otelCollectorUrl string
}

func Run() error {
	var cfg config

	flag.IntVar(&cfg.port, "port", 3000, "server port")
	flag.StringVar(&cfg.env, "env", "dev", "Environment (dev|staging|prod)")

	flag.StringVar(&cfg.db.dsn, "db-dsn", os.Getenv("DB_DSN"), "PostgreSQL DSN")
	flag.IntVar(&cfg.db.maxOpenConns, "db-max-open-conns", 25, "PostgreSQL max open connections")
	flag.DurationVar(&cfg.db.maxIdleTime, "db-max-idle-time", 15*time.Minute, "PostgreSQL max idle time for connections")
	flag.BoolVar(&cfg.db.automigrate, "db-automigrate", true, "Apply schema migrations on startup")

	flag.StringVar(&cfg.redis.url, "redis-url", os.Getenv("REDIS_URL"), "Redis URL for the distributed seat locker (empty = in-process locker)")
	flag.StringVar(&cfg.amqp.url, "amqp-url", os.Getenv("AMQP_URL"), "RabbitMQ URL for booking events (empty = disabled)")
	flag.StringVar(&cfg.jwt.secret, "jwt-secret", os.Getenv("JWT_SECRET"), "HMAC secret for verifying bearer tokens")

	flag.DurationVar(&cfg.holdTTL, "hold-ttl", booking.DefaultHoldTTL, "How long a seat hold blocks other users")
	flag.DurationVar(&cfg.sweepInterval, "sweep-interval", time.Minute, "How often expired holds and bookings are reclaimed")

	flag.StringVar(&cfg.otelCollectorUrl, "otel-collector-url", os.Getenv("OTEL_COLLECTOR_URL"), "OpenTelemetry collector URL (empty = disabled)")

	displayVersion := flag.Bool("version", false, "Display version and exit")

	flag.Parse()

	if *displayVersion {
		fmt.Printf("Version:\t%s\n", version)
		os.Exit(0)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	if cfg.jwt.secret == "" {
		return errors.New("jwt secret must be configured")
	}

	shutdownTelemetry, err := initTelemetry(cfg, logger)
	if err != nil {
		return err
	}
	defer shutdownTelemetry(context.Background())

	if cfg.otelCollectorUrl != "" {
		logger = slog.New(NewMultiHandler(logger.Handler(), otelslog.NewHandler(serviceName)))
	}

	db, err := newDatabasePool(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	if cfg.db.automigrate {
		err = applyMigrations(cfg.db.dsn)
		if err != nil {
			return fmt.Errorf("failed to apply migrations: %w", err)
		}
		logger.Info("database migrations applied")
	}

	scheduleRepo := repository.NewPostgresScheduleRepository(db)
	movieRepo := repository.NewPostgresMovieRepository(db)
	holdRepo := repository.NewPostgresHoldRepository(db)
	bookingRepo := repository.NewPostgresBookingRepository(db)

	var locker seatlock.Locker = seatlock.NewMemory()
	var redisClient redis.UniversalClient

	if cfg.redis.url != "" {
		redisClient, err = newRedisClient(cfg)
		if err != nil {
			return err
		}
		defer redisClient.Close()

		locker = seatlock.NewRedis(redisClient)
		logger.Info("using redis seat locker", "url", cfg.redis.url)
	}

	var events event.Publisher = event.NopPublisher{}

	if cfg.amqp.url != "" {
		amqpPublisher, err := event.NewAMQPPublisher(cfg.amqp.url)
		if err != nil {
			return err
		}
		defer amqpPublisher.Close()

		events = amqpPublisher
		logger.Info("publishing booking events to rabbitmq")
	}

	manager := booking.NewManager(booking.ManagerOpts{
		Schedules: scheduleRepo,
		Holds:     holdRepo,
		Bookings:  bookingRepo,
		Locker:    locker,
		Events:    events,
		Logger:    logger,
		HoldTTL:   cfg.holdTTL,
	})

	app := &Application{
		config:       cfg,
		logger:       logger,
		db:           db,
		redis:        redisClient,
		validator:    appvalidator.NewValidator(),
		manager:      manager,
		scheduleRepo: scheduleRepo,
		movieRepo:    movieRepo,
		bookingRepo:  bookingRepo,
	}

	return app.run()
}

func newRedisClient(cfg config) (*redis.Client, error) {
	opts, err := redis.ParseURL(cfg.redis.url)
	if err != nil {
		return nil, err
	}

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err = rdb.Ping(ctx).Err()
	if err != nil {
		return nil, err
	}

	return rdb, nil
}

func newDatabasePool(cfg config) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(cfg.db.dsn)
	if err != nil {
		return nil, err
	}

	config.MaxConnIdleTime = cfg.db.maxIdleTime
	config.MaxConns = int32(cfg.db.maxOpenConns)
	config.ConnConfig.Tracer = otelpgx.NewTracer()

	db, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err = db.Ping(ctx)
	if err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

func applyMigrations(dsn string) error {
	source, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return err
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	driver, err := pgxmigrate.WithInstance(db, &pgxmigrate.Config{})
	if err != nil {
		return err
	}

	m, err := migrate.NewWithInstance("iofs", source, "pgx", driver)
	if err != nil {
		return err
	}

	err = m.Up()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}

	return nil
}

func (app *Application) run() error {
	srv := &http.Server{
		Addr:         fmt.Sprintf("0.0.0.0:%d", app.config.port),
		Handler:      app.routes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		ErrorLog:     slog.NewLogLogger(app.logger.Handler(), slog.LevelDebug),
	}

	sweepCtx, stopSweeper := context.WithCancel(context.Background())
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.runSweeper(sweepCtx)
	}()

	shutdownError := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		app.logger.Info("shutting down server", "signal", s.String())

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		err := srv.Shutdown(ctx)
		if err != nil {
			shutdownError <- err
		}

		stopSweeper()
		wg.Wait()

		shutdownError <- nil
	}()

	app.logger.Info("starting server", "addr", srv.Addr, "env", app.config.env, "version", version)

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		stopSweeper()
		return err
	}

	err = <-shutdownError
	if err != nil {
		return err
	}

	app.logger.Info("stopped server", "addr", srv.Addr)

	return nil
}

func (app *Application) routes() http.Handler {
	r := chi.NewRouter()

	r.NotFound(app.notFoundResponse)

	r.Use(middleware.RequestID)
	r.Use(app.requestLogger)
	r.Use(app.recoverPanic)

	if app.config.otelCollectorUrl != "" {
		r.Use(otelchi.Middleware(serviceName, otelchi.WithChiRoutes(r)))
	}

	r.Get("/healthcheck", app.GetHealth)

	r.Get("/movies", app.GetMoviesHandler)
	r.Get("/movies/{movieID}", app.GetMovieHandler)
	r.Get("/genres", app.GetGenresHandler)
	r.Get("/schedules", app.GetSchedulesHandler)
	r.Get("/schedules/{scheduleID}", app.GetScheduleHandler)
	r.Get("/schedules/{scheduleID}/seats", app.GetSeatMapHandler)

	r.Group(func(r chi.Router) {
		r.Use(app.requireAuthentication)

		r.Post("/schedules/{scheduleID}/holds", app.CreateHoldsHandler)
		r.Delete("/schedules/{scheduleID}/holds/{seatID}", app.ReleaseHoldHandler)

		r.Post("/bookings", app.CreateBookingHandler)
		r.Get("/bookings", app.GetBookingsHandler)
		r.Get("/bookings/{reference}", app.GetBookingHandler)
		r.Post("/bookings/{reference}/confirm", app.ConfirmBookingHandler)
		r.Post("/bookings/{reference}/cancel", app.CancelBookingHandler)
	})

	return r
}
