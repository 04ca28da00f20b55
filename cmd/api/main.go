package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/ArowuTest/valera-classroom/api/routes"
	"github.com/ArowuTest/valera-classroom/internal/config"
	"github.com/ArowuTest/valera-classroom/internal/game"
	"github.com/ArowuTest/valera-classroom/internal/handlers"
	"github.com/ArowuTest/valera-classroom/internal/services"
	"github.com/ArowuTest/valera-classroom/internal/storage"
	"github.com/ArowuTest/valera-classroom/pkg/balanceapi"
	"github.com/ArowuTest/valera-classroom/pkg/jwt"
	"github.com/gin-gonic/gin"
	"golang.org/x/exp/slog"
)

func main() {
	config.LoadDotEnv()

	cfg, err := config.Load(config.GetEnv("VALERA_CONFIG", ""))
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	if cfg.JWT.Secret == config.DefaultJWTSecret {
		log.Println("[WARN] JWT secret is the development default; set JWT_SECRET")
	}

	logger := newLogger(cfg.LogLevel)
	slog.SetDefault(logger)
	if !strings.EqualFold(cfg.LogLevel, "debug") {
		gin.SetMode(gin.ReleaseMode)
	}

	rules, err := cfg.GameRules()
	if err != nil {
		log.Fatalf("Failed to load game rules: %v", err)
	}

	startCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	store, err := storage.Open(startCtx, cfg)
	cancel()
	if err != nil {
		log.Fatalf("Failed to open storage: %v", err)
	}

	tokens := jwt.NewTokenService(cfg.JWT.Secret, cfg.TokenTTL())
	authService := services.NewAuthService(store.Admins, tokens)
	classService := services.NewClassService(store.Classes, store.Transactions)
	catalogService := services.NewCatalogService(store.Prizes, store.ShopItems, rules.Prizes)

	if err := authService.EnsureAdmin(context.Background(), cfg.Admin.Username, cfg.Admin.Password); err != nil {
		log.Fatalf("Failed to create admin user: %v", err)
	}

	bridges := services.BridgeFactory(classService.Bridge)
	classRepo := store.Classes
	if cfg.Game.BalanceMode == config.BalanceRemote {
		client := balanceapi.NewClient(cfg.Game.RemoteBaseURL, cfg.Game.RemoteToken, cfg.Game.RemoteTimeout)
		bridges = func(classID int64) game.BalanceBridge {
			return services.NewRemoteBridge(client, classID)
		}
		// Classes live on the remote server.
		classRepo = nil
		log.Printf("Game balances are kept by %s", cfg.Game.RemoteBaseURL)
	}
	assets := game.Assets{StaticURL: cfg.Server.StaticURL}
	games := services.NewGameService(classRepo, catalogService, bridges, rules, assets, game.DefaultRNG(), logger)

	router := routes.SetupRouter(cfg, routes.HandlerDependencies{
		AuthHandler:    handlers.NewAuthHandler(authService),
		ClassHandler:   handlers.NewClassHandler(classService, games),
		CatalogHandler: handlers.NewCatalogHandler(catalogService),
		GameHandler:    handlers.NewGameHandler(games),
		Tokens:         tokens,
		Logger:         logger,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	log.Printf("Server starting on port %s", cfg.Server.Port)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Sessions first so open event streams end and Shutdown can finish.
	games.Close()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}
	if err := store.Close(ctx); err != nil {
		log.Printf("Error closing storage: %v", err)
	}

	log.Println("Server exiting")
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
