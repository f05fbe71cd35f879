package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/abhimana06/llmapp04/internal/config"
	"github.com/abhimana06/llmapp04/internal/logging"
	"github.com/abhimana06/llmapp04/internal/proxy"
	"github.com/abhimana06/llmapp04/internal/server"
)

func main() {
	configPath := flag.String("config", "", "path to config.yaml")
	envFile := flag.String("env-file", "", "path to a .env file with AIPROXY_* variables")
	port := flag.Int("port", 0, "override listen port")
	flag.Parse()

	cfg, err := config.Load(*configPath, *envFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "aiproxy: %v\n", err)
		os.Exit(1)
	}
	if *port > 0 {
		cfg.Port = *port
	}

	logging.Init(os.Stderr, cfg.Debug)

	if cfg.InsecureSkipVerify {
		slog.Warn("tls: backend certificate verification disabled", "backend", cfg.BackendURL)
	}

	fwd := proxy.New(cfg.BackendURL, proxy.NewClient(cfg.BackendTimeout, cfg.InsecureSkipVerify))

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           server.SetupMux(fwd),
		ReadHeaderTimeout: 10 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("aiproxy listening",
			"addr", addr,
			"backend", cfg.BackendURL,
			"timeout", cfg.BackendTimeout.String(),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server", "error", err)
			os.Exit(1)
		}
	}()

	<-done
	slog.Info("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("shutdown", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
