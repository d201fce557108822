package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"stone-catalog-service/internal/api"
	"stone-catalog-service/internal/auth"
	"stone-catalog-service/internal/config"
	"stone-catalog-service/internal/domain"
	"stone-catalog-service/internal/logger"
	"stone-catalog-service/internal/store"
	"stone-catalog-service/internal/upload"
)

const defaultAppName = "StoneCatalogService"

func main() {
	// A missing .env is fine; the environment may be set another way.
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		// No configured logger yet.
		zap.NewExample().Fatal("Error loading configuration", zap.Error(err))
	}

	log, err := logger.New(cfg.LogLevel, cfg.LogEncoding)
	if err != nil {
		zap.NewExample().Fatal("Error building logger", zap.Error(err))
	}
	log = log.With(zap.String("service", defaultAppName))
	defer func() { _ = log.Sync() }()

	if envErr != nil {
		log.Info(".env file not found, relying on system environment")
	}
	log.Info("Starting service", zap.String("appEnv", cfg.AppEnv), zap.String("logLevel", cfg.LogLevel))

	// --- Database Connection ---
	db, err := sqlx.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to initialize database connection", zap.Error(err))
	}
	db.SetMaxOpenConns(cfg.Postgres.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Postgres.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Postgres.ConnMaxLifetime)

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelStartup()
	if err := db.PingContext(startupCtx); err != nil {
		log.Fatal("Failed to ping database", zap.Error(err))
	}

	dbStore := store.NewPostgresStore(db, log.Named("store"))
	if err := dbStore.EnsureSchema(startupCtx); err != nil {
		log.Fatal("Failed to ensure database schema", zap.Error(err))
	}
	log.Info("Database connection established and schema ensured")

	if err := bootstrapAdmin(startupCtx, cfg, dbStore, log); err != nil {
		log.Fatal("Failed to bootstrap admin", zap.Error(err))
	}

	// --- Collaborators ---
	authManager, err := auth.NewManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if err != nil {
		log.Fatal("Failed to initialize auth", zap.Error(err))
	}

	var uploader upload.Uploader
	if cfg.Cloudinary.URL != "" {
		cld, err := upload.NewCloudinaryUploader(cfg.Cloudinary.URL, cfg.Cloudinary.Folder, log.Named("upload"))
		if err != nil {
			log.Fatal("Failed to initialize Cloudinary", zap.Error(err))
		}
		uploader = cld
	} else {
		log.Warn("CLOUDINARY_URL not set, media uploads are disabled")
	}

	httpAPIHandler := api.NewHTTPHandler(api.Deps{
		Products:       dbStore,
		Collections:    dbStore,
		Projects:       dbStore,
		Blogs:          dbStore,
		Catalogues:     dbStore,
		Enquiries:      dbStore,
		Media:          dbStore,
		Settings:       dbStore,
		Admins:         dbStore,
		Health:         dbStore,
		Auth:           authManager,
		Uploader:       uploader,
		Logger:         log.Named("api"),
		PublicSiteURL:  cfg.PublicSiteURL,
		ResetTokenTTL:  cfg.Auth.ResetTokenTTL,
		ShowResetLinks: cfg.IsDevelopment(),
	})

	// --- Setup & Start HTTP Server ---
	httpRouter := chi.NewRouter()
	setupBaseMiddleware(httpRouter, cfg, log)
	httpAPIHandler.RegisterRoutes(httpRouter)

	httpServer := &http.Server{
		Addr:         ":" + cfg.HttpServer.Port,
		Handler:      httpRouter,
		ReadTimeout:  cfg.HttpServer.TimeoutRead,
		WriteTimeout: cfg.HttpServer.TimeoutWrite,
		IdleTimeout:  cfg.HttpServer.TimeoutIdle,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("port", cfg.HttpServer.Port))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server ListenAndServe error", zap.Error(err))
		}
		log.Info("HTTP server has stopped")
	}()

	// --- Setup & Start gRPC Server ---
	grpcServer := setupGRPCServer(log, api.NewHealthServer(dbStore, log.Named("grpc")))
	grpcListener, err := net.Listen("tcp", ":"+cfg.GrpcServer.Port)
	if err != nil {
		log.Fatal("Failed to listen for gRPC", zap.String("port", cfg.GrpcServer.Port), zap.Error(err))
	}

	go func() {
		log.Info("gRPC server listening", zap.String("port", cfg.GrpcServer.Port))
		if err := grpcServer.Serve(grpcListener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			log.Fatal("gRPC server Serve error", zap.Error(err))
		}
		log.Info("gRPC server has stopped")
	}()

	// --- Graceful Shutdown ---
	shutdownComplete := make(chan struct{})
	go waitForShutdown(log, httpServer, grpcServer, dbStore, shutdownComplete)

	<-shutdownComplete
	log.Info("Service shutdown sequence finished")
}

func setupBaseMiddleware(router *chi.Mux, cfg *config.Config, log *zap.Logger) {
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(api.RequestLogger(log.Named("http")))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(cfg.HttpServer.RequestTimeout))
	router.Use(api.CORS(cfg.AllowedOrigin))
	log.Info("Base HTTP middleware registered", zap.Strings("corsOrigins", cfg.AllowedOrigin))
}

// bootstrapAdmin creates the configured admin account when it does not
// exist yet. There is no signup endpoint, so this is the only way in.
func bootstrapAdmin(ctx context.Context, cfg *config.Config, admins store.AdminStorer, log *zap.Logger) error {
	if cfg.Auth.AdminEmail == "" || cfg.Auth.AdminPassword == "" {
		return nil
	}
	_, err := admins.GetAdminByEmail(ctx, cfg.Auth.AdminEmail)
	if err == nil {
		return nil
	}
	if !errors.Is(err, store.ErrAdminNotFound) {
		return err
	}

	hash, err := auth.HashPassword(cfg.Auth.AdminPassword)
	if err != nil {
		return err
	}
	created, err := admins.CreateAdmin(ctx, &domain.Admin{Email: cfg.Auth.AdminEmail, Name: "Administrator", PasswordHash: hash})
	if err != nil {
		return err
	}
	log.Info("Bootstrap admin created", zap.String("adminId", created.ID), zap.String("email", created.Email))
	return nil
}

func setupGRPCServer(log *zap.Logger, healthServer grpc_health_v1.HealthServer) *grpc.Server {
	s := grpc.NewServer()

	grpc_health_v1.RegisterHealthServer(s, healthServer)
	log.Info("gRPC health check service registered")

	// Enable gRPC server reflection (useful for tools like grpcurl).
	reflection.Register(s)
	log.Info("gRPC reflection service registered")

	return s
}

func waitForShutdown(
	log *zap.Logger,
	httpServer *http.Server,
	grpcServer *grpc.Server,
	dbStore *store.PostgresStore,
	shutdownComplete chan struct{},
) {
	defer close(shutdownComplete)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	receivedSignal := <-sigChan
	log.Info("Received signal, starting graceful shutdown", zap.Stringer("signal", receivedSignal))

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelShutdown()

	log.Info("Attempting to gracefully shut down gRPC server")
	stoppedGrpc := make(chan struct{})
	go func() {
		grpcServer.GracefulStop()
		close(stoppedGrpc)
	}()

	log.Info("Attempting to gracefully shut down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Warn("HTTP server graceful shutdown failed", zap.Error(err))
	} else {
		log.Info("HTTP server gracefully shut down")
	}

	select {
	case <-stoppedGrpc:
		log.Info("gRPC server gracefully shut down")
	case <-shutdownCtx.Done():
		log.Warn("gRPC server graceful shutdown timed out, forcing stop", zap.Error(shutdownCtx.Err()))
		grpcServer.Stop()
	}

	if err := dbStore.Close(); err != nil {
		log.Warn("Error closing database connection", zap.Error(err))
	}

	log.Info("Graceful shutdown sequence completed")
}
