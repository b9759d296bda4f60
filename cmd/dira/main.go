package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/crypto/bcrypt"

	"github.com/dira-homes/dira/internal/blob"
	blobFS "github.com/dira-homes/dira/internal/blob/fs"
	blobS3 "github.com/dira-homes/dira/internal/blob/s3"
	"github.com/dira-homes/dira/internal/config"
	"github.com/dira-homes/dira/internal/db"
	dbMongo "github.com/dira-homes/dira/internal/db/mongo"
	dbRedis "github.com/dira-homes/dira/internal/db/redis"
	"github.com/dira-homes/dira/internal/domain/search/field"
	"github.com/dira-homes/dira/internal/domain/search/query"
	"github.com/dira-homes/dira/internal/jobs"
	logpkg "github.com/dira-homes/dira/internal/logger"
	"github.com/dira-homes/dira/internal/metrics"
	attachmentrepo "github.com/dira-homes/dira/internal/repository/attachment"
	listingrepo "github.com/dira-homes/dira/internal/repository/listing"
	locationrepo "github.com/dira-homes/dira/internal/repository/location"
	userrepo "github.com/dira-homes/dira/internal/repository/user"
	"github.com/dira-homes/dira/internal/schema"
	"github.com/dira-homes/dira/internal/token"
	amqpTransport "github.com/dira-homes/dira/internal/transport/amqp"
	chiTransport "github.com/dira-homes/dira/internal/transport/chi"
	attachmentuc "github.com/dira-homes/dira/internal/usecase/attachment"
	authuc "github.com/dira-homes/dira/internal/usecase/auth"
	healthuc "github.com/dira-homes/dira/internal/usecase/health"
	listinguc "github.com/dira-homes/dira/internal/usecase/listing"
	locationuc "github.com/dira-homes/dira/internal/usecase/location"
	searchuc "github.com/dira-homes/dira/internal/usecase/search"
	"github.com/dira-homes/dira/internal/version"
)

// eventPublisher is what the listing service and shutdown need from the
// AMQP publisher (or its no-op stand-in).
type eventPublisher interface {
	listinguc.EventPublisher
	Close() error
}

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	if cfg.Logging.Fluent.Enabled {
		fl, err := logpkg.NewFluentClient(logpkg.FluentConfig{
			Host:      cfg.Logging.Fluent.Host,
			Port:      cfg.Logging.Fluent.Port,
			TagPrefix: cfg.Logging.Fluent.TagPrefix,
		})
		if err != nil {
			panic("failed to create fluent client: " + err.Error())
		}
		defer func() { _ = fl.Close() }()
		logger = logpkg.WithFluent(logger, fl, zapcore.InfoLevel)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting dira API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("documents_driver", cfg.Documents.Driver),
		zap.String("blob_driver", cfg.Blob.Driver),
		zap.Strings("redis_addrs", cfg.Redis.Addrs),
	)

	ctx := context.Background()

	// Redis backs the locations cache and the main-file claim, and holds
	// documents unless the mongo driver is selected.
	redisStore, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:     cfg.Redis.Addrs,
		Password:  cfg.Redis.Password,
		KeyPrefix: cfg.Storage.KeyPrefix,
	})
	if err != nil {
		logger.Fatal("Failed to create redis store", zap.Error(err))
	}
	defer redisStore.Close()

	if err := redisStore.WaitForReady(ctx, time.Duration(cfg.Redis.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Redis not ready", zap.Error(err))
	}
	logger.Info("Connected to redis")

	var documents db.DocumentStore = redisStore
	if cfg.Documents.Driver == config.DriverMongo {
		mongoStore, err := dbMongo.NewStore(dbMongo.Config{
			URL:      cfg.Mongo.URL,
			Database: cfg.Mongo.Database,
		})
		if err != nil {
			logger.Fatal("Failed to connect to mongo", zap.Error(err))
		}
		defer mongoStore.Close()
		documents = mongoStore
		logger.Info("Connected to mongo", zap.String("database", cfg.Mongo.Database))
	}

	pgCfg, err := pgxpool.ParseConfig(cfg.Postgres.DSN)
	if err != nil {
		logger.Fatal("Invalid postgres dsn", zap.Error(err))
	}
	pgCfg.MaxConns = int32(cfg.Postgres.MaxConns) //nolint:gosec // bounded by config validation
	pool, err := pgxpool.NewWithConfig(ctx, pgCfg)
	if err != nil {
		logger.Fatal("Failed to create postgres pool", zap.Error(err))
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		logger.Fatal("Postgres not ready", zap.Error(err))
	}
	logger.Info("Connected to postgres")

	blobs, err := newBlobStore(ctx, cfg.Blob)
	if err != nil {
		logger.Fatal("Failed to create blob store", zap.Error(err))
	}

	var events eventPublisher = amqpTransport.Noop{}
	if cfg.Events.Enabled {
		pub, err := amqpTransport.Dial(cfg.Events.URL, cfg.Events.Exchange)
		if err != nil {
			logger.Fatal("Failed to connect to rabbitmq", zap.Error(err))
		}
		events = pub
		logger.Info("Publishing listing events", zap.String("exchange", cfg.Events.Exchange))
	}
	defer func() { _ = events.Close() }()

	// Register metrics explicitly (no init())
	metrics.RegisterHTTPMetrics()
	metrics.RegisterDomainMetrics()

	// Repositories
	fields := field.NewTable()
	listingRepo := listingrepo.New(documents, fields)
	attachmentRepo := attachmentrepo.New(documents, redisStore, cfg.Storage.KeyPrefix)
	locationRepo := locationrepo.New(redisStore, cfg.Storage.KeyPrefix)
	userRepo := userrepo.New(pool)

	if err := listingRepo.EnsureSchema(ctx); err != nil {
		logger.Fatal("Failed to prepare listings collection", zap.Error(err))
	}
	if err := attachmentRepo.EnsureSchema(ctx); err != nil {
		logger.Fatal("Failed to prepare attachments collection", zap.Error(err))
	}
	if err := userRepo.Migrate(ctx); err != nil {
		logger.Fatal("Failed to migrate users", zap.Error(err))
	}

	issuer, err := token.NewIssuer(cfg.Auth.TokenSecret, time.Duration(cfg.Auth.TokenTTLHours)*time.Hour)
	if err != nil {
		logger.Fatal("Failed to create token issuer", zap.Error(err))
	}
	validator, err := schema.New()
	if err != nil {
		logger.Fatal("Failed to compile request schemas", zap.Error(err))
	}

	// Use case services
	searchSvc := searchuc.New(listingRepo, attachmentRepo, query.NewComposer(fields),
		cfg.Search.PageSize, cfg.Upload.Parallelism)
	listingSvc := listinguc.New(listingRepo, attachmentRepo, searchSvc, events)
	attachmentSvc := attachmentuc.New(listingRepo, attachmentRepo, blobs, attachmentuc.Config{
		MaxFiles:          cfg.Upload.MaxFiles,
		ExclusiveMainFile: *cfg.Upload.ExclusiveMainFile,
		Parallelism:       cfg.Upload.Parallelism,
	})
	authSvc := authuc.New(userRepo, issuer, bcrypt.DefaultCost)
	locationSvc := locationuc.New(locationRepo)

	components := []healthuc.Component{
		{Name: "redis", Pinger: redisStore},
		{Name: "postgres", Pinger: pool},
	}
	if cfg.Documents.Driver == config.DriverMongo {
		components = append(components, healthuc.Component{Name: "mongo", Pinger: documents})
	}
	healthSvc := healthuc.New(components...)

	// Background jobs
	scheduler := jobs.NewScheduler(logger)
	if err := scheduler.AddTokenSweep(cfg.Auth.SweepSchedule, userRepo); err != nil {
		logger.Fatal("Failed to schedule token sweep", zap.Error(err))
	}
	scheduler.Start()

	// Create chi server
	server := chiTransport.NewServer(chiTransport.Services{
		Search:    searchSvc,
		Listings:  listingSvc,
		Files:     attachmentSvc,
		Accounts:  authSvc,
		Locations: locationSvc,
		Health:    healthSvc,
		Schemas:   validator,
	}, chiTransport.Options{
		MaxUploadBytes: int64(cfg.HTTP.MaxUploadMB) << 20,
	}, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.HTTP.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(metrics.Middleware())
	server.Register(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}
	scheduler.Stop(shutdownCtx)

	logger.Info("Server stopped gracefully")
}

func newBlobStore(ctx context.Context, cfg config.BlobConfig) (blob.Store, error) {
	switch cfg.Driver {
	case config.BlobS3:
		return blobS3.New(ctx, blobS3.Config{
			Bucket:          cfg.Bucket,
			Region:          cfg.Region,
			Endpoint:        cfg.Endpoint,
			AccessKeyID:     cfg.AccessKeyID,
			SecretAccessKey: cfg.SecretAccessKey,
		})
	default:
		return blobFS.New(cfg.Dir)
	}
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(chiTransport.ErrorResponse{
						Status:  http.StatusInternalServerError,
						Message: "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
