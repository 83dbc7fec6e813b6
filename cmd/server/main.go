// Command server runs the stock management HTTP API.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"stockmaster/internal/adapters/web"
	"stockmaster/internal/ai"
	"stockmaster/internal/app"
	"stockmaster/internal/config"
	"stockmaster/internal/core"
	"stockmaster/internal/db"
	"stockmaster/internal/logger"
	"stockmaster/internal/metrics"
)

func main() {
	configPath := flag.String("config", "", "optional config file path")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	log := logger.New(cfg.App.Env)

	loc, err := cfg.Location()
	if err != nil {
		log.Error("timezone", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg.Postgres.DSN)
	if err != nil {
		log.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	log.Info("database connected")

	bus := core.NewChangeBus()
	warehouseService := core.NewWarehouseService(pool, bus)
	stockService := core.NewStockService(pool, bus)
	transactionService := core.NewTransactionService(pool, loc)
	chatService := core.NewChatService(pool)
	userService := core.NewUserService(pool)

	var assistant ai.AssistantService
	if cfg.OpenAI.APIKey != "" {
		assistant = ai.NewAssistant(cfg.OpenAI.APIKey, cfg.OpenAI.Model)
	} else {
		log.Warn("no OpenAI API key configured, assistant disabled")
		assistant = ai.Disabled{}
	}

	svc := app.NewAppService(warehouseService, stockService, transactionService,
		chatService, assistant, loc, log)

	if cfg.Metrics.Enabled {
		m := metrics.New()
		go m.Watch(ctx, bus, stockService, log)
	}

	handler := web.NewHandler(svc, userService, cfg.HTTP.AllowedOrigins, cfg.Auth.JWTSecret, cfg.Metrics.Enabled, log)
	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("http server started", "addr", cfg.HTTP.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	log.Info("graceful shutdown complete")
}
