package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"

	"evote/docs"

	"evote/internal/auth"
	"evote/internal/cache"
	"evote/internal/config"
	"evote/internal/handler"
	"evote/internal/router"
	"evote/internal/service"
	"evote/internal/store"
)

const shutdownTimeout = 10 * time.Second

// @title Online Voting API
// @version 1.0
// @description Voter registration, elections, candidates and one-vote-per-voter balloting.
// @host localhost:4500
// @BasePath /
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Raw token returned by /voter/login, without a Bearer prefix.
func main() {
	cfg := config.Load()
	ctx := context.Background()

	st, err := store.Open(ctx, cfg)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}
	defer st.Close()

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	if err := cacheClient.Ping(ctx); err != nil {
		log.Printf("Warning: redis unreachable, continuing without cache: %v", err)
	}
	defer cacheClient.Close()

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.JWTExpiry)
	tokenStore := auth.NewTokenStore(cacheClient, cfg.JWTExpiry)

	// Initialize services
	authService := service.NewAuthService(st.Voters, jwtService)
	voterService := service.NewVoterService(st.Voters, cacheClient, tokenStore, cfg.CacheTTL)
	electionService := service.NewElectionService(st.Elections, cacheClient, cfg.CacheTTL)

	e := echo.New()
	router.Register(e, jwtService, tokenStore, router.Handlers{
		Auth:     handler.NewAuthHandler(authService),
		Voter:    handler.NewVoterHandler(voterService),
		Election: handler.NewElectionHandler(electionService),
	})

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = strings.TrimPrefix(strings.TrimPrefix(cfg.SwaggerHost, "http://"), "https://")
	}
	log.Printf("Swagger documentation available at: %s", swaggerURL(cfg))

	go func() {
		addr := ":" + cfg.ServerPort
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown: %v", err)
	}
}

func swaggerURL(cfg *config.Config) string {
	host := cfg.SwaggerHost
	if host == "" {
		host = "localhost:" + cfg.ServerPort
	}
	if !strings.HasPrefix(host, "http://") && !strings.HasPrefix(host, "https://") {
		host = "http://" + host
	}
	return host + "/swagger/index.html"
}
