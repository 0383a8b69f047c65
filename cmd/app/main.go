package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"glassbird/config"
	"glassbird/internal/application/auth"
	"glassbird/internal/application/navigation"
	"glassbird/internal/application/registration"
	"glassbird/internal/application/workspace"
	"glassbird/internal/infrastructure/cache"
	"glassbird/internal/infrastructure/content"
	"glassbird/internal/infrastructure/email"
	"glassbird/internal/infrastructure/identity"
	"glassbird/internal/infrastructure/repository"
	"glassbird/internal/infrastructure/security"
	"glassbird/internal/middleware"
	"glassbird/internal/platform/logger"
	grpc_server "glassbird/internal/transport/grpc"
	handlers "glassbird/internal/transport/http"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

const (
	shutdownTimeout = 10 * time.Second
	sweepInterval   = 5 * time.Minute
	idleWorkspace   = 2 * time.Hour
	healthInterval  = 15 * time.Second
	fetchTimeout    = 10 * time.Second
)

// identityBackend is what every identity mode offers the application.
type identityBackend interface {
	auth.Provider
	registration.IdentityAdmin
	registration.IdentityConfirmer
}

func main() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	lg, err := logger.New(cfg.LogMode)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer lg.Sync()

	db, err := repository.Open(repository.DBConfig{
		Driver:     cfg.DBDriver,
		Host:       cfg.DBHost,
		Port:       cfg.DBPort,
		User:       cfg.DBUser,
		Password:   cfg.DBPassword,
		Name:       cfg.DBName,
		SQLitePath: cfg.SQLitePath,
	})
	if err != nil {
		lg.Fatal("failed to connect to db", "driver", cfg.DBDriver, "error", err)
	}
	if err := repository.Migrate(db); err != nil {
		lg.Fatal("failed to migrate db", "error", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		lg.Fatal("failed to access db pool", "error", err)
	}
	defer sqlDB.Close()

	var kv cache.KV
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			lg.Fatal("failed to connect to redis", "addr", cfg.RedisAddr, "error", err)
		}
		defer rdb.Close()
		kv = cache.NewRedisKV(rdb)
		lg.Info("connected to redis", "addr", cfg.RedisAddr)
	} else {
		kv = cache.NewMemoryKV()
		lg.Warn("REDIS_ADDR not set, sessions and counters are process local")
	}

	users := repository.NewUserRepository(db)
	profiles := repository.NewProfileRepository(db)

	var ids identityBackend
	switch cfg.IdentityMode {
	case "simulated":
		ids = identity.NewSimulated(cfg.SimulatedAuthDelay)
	default:
		ids = identity.NewDatabase(users, profiles, security.NewPasswordHasher(), cfg.RequireConfirmation, lg)
	}
	lg.Info("identity provider ready", "mode", cfg.IdentityMode)

	catalog, err := content.LoadOutlines(cfg.CoursesDir)
	if err != nil {
		lg.Fatal("failed to load course outlines", "dir", cfg.CoursesDir, "error", err)
	}

	var markup content.Resolver = content.NewFileFetcher(content.BundledMarkup())
	switch {
	case cfg.ContentBaseURL != "":
		fetcher, err := content.NewHTTPFetcher(cfg.ContentBaseURL, fetchTimeout)
		if err != nil {
			lg.Fatal("invalid content base url", "url", cfg.ContentBaseURL, "error", err)
		}
		markup = fetcher
	case cfg.ContentRoot != "":
		markup = content.NewFileFetcher(os.DirFS(cfg.ContentRoot))
	}
	resolver := content.NewCached(
		content.NewComposite(markup, content.NewBuiltinRegistry()),
		cache.NewContentCache(kv, cfg.ContentTTL),
		lg,
	)

	ws := workspace.NewRegistry(workspace.Deps{
		Sessions: cache.NewSessionCache(kv, cfg.SessionTTL),
		Provider: ids,
		AuthOptions: auth.Options{
			AdminEmail:    cfg.AdminEmail,
			AdminPassword: cfg.AdminPassword,
			Timeout:       cfg.AuthTimeout,
		},
		Progress: repository.NewProgressRepository(db),
		Outlines: catalog,
		Resolver: resolver,
		NavigationOptions: func(profileID, courseID string) navigation.Options {
			return navigation.Options{ResolveTimeout: fetchTimeout + 5*time.Second}
		},
		Log: lg,
	})

	tokens := security.NewTokenManager(cfg.AccessSecret, cfg.AccessTTL)
	reg := registration.NewUseCase(ids, profiles, lg)
	var confirm *registration.ConfirmUseCase
	if cfg.RequireConfirmation {
		tokenCache := cache.NewTokenCache(kv)
		reg = reg.WithConfirmation(email.NewEmailSender(cfg.APIKey, cfg.SMTPEmail, cfg.FrontendURL), tokenCache)
		confirm = registration.NewConfirmUseCase(tokenCache, ids)
	}

	router := handlers.NewRouter(
		handlers.RouterConfig{
			AllowedOrigins: cfg.Origins(),
			SecureCookies:  cfg.LogMode == "prod",
		},
		handlers.NewAuthHandler(ws, reg, confirm, tokens, lg),
		handlers.NewCourseHandler(catalog, ws, lg),
		middleware.NewRateLimiter(kv),
		tokens,
		lg,
	)
	httpServer := &http.Server{
		Addr:              cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	grpcServer := grpc_server.NewServer(lg)
	lis, err := net.Listen("tcp", cfg.GRPCPort)
	if err != nil {
		lg.Fatal("failed to listen", "addr", cfg.GRPCPort, "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		lg.Info("http server listening", "addr", cfg.HTTPPort)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return grpcServer.Serve(lis)
	})
	g.Go(func() error {
		grpcServer.Watch(gctx, healthInterval, map[string]grpc_server.Check{
			"db":    sqlDB.PingContext,
			"cache": kv.Ping,
		})
		return nil
	})
	g.Go(func() error {
		ws.SweepEvery(gctx, sweepInterval, idleWorkspace)
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		lg.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		grpcServer.GracefulStop()
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		lg.Error("server stopped with error", "error", err)
	}
}
