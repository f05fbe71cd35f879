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

	"github.com/abhimana06/llmapp04/internal/backend"
	"github.com/abhimana06/llmapp04/internal/config"
	"github.com/abhimana06/llmapp04/internal/httpclient"
	"github.com/abhimana06/llmapp04/internal/logging"
	"github.com/abhimana06/llmapp04/internal/server"
)

func main() {
	configPath := flag.String("config", "", "path to config.yaml")
	envFile := flag.String("env-file", "", "path to a .env file with AIPROXY_* variables")
	port := flag.Int("port", 0, "override listen port")
	flag.Parse()

	cfg, err := config.Load(*configPath, *envFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "aibackend: %v\n", err)
		os.Exit(1)
	}
	if *port > 0 {
		cfg.BackendPort = *port
	}

	logging.Init(os.Stderr, cfg.Debug)

	if cfg.InsecureSkipVerify {
		slog.Warn("tls: model server certificate verification disabled", "model_url", cfg.ModelURL)
	}

	svc := &backend.Service{Model: newModel(cfg)}

	addr := fmt.Sprintf(":%d", cfg.BackendPort)
	srv := &http.Server{
		Addr:              addr,
		Handler:           server.SetupBackendMux(svc, cfg.ModelURL),
		ReadHeaderTimeout: 10 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("aibackend listening",
			"addr", addr,
			"tls", cfg.TLSCertFile != "",
			"model", svc.Model.Name(),
			"model_url", cfg.ModelURL,
		)
		if err := serve(srv, cfg); err != nil && !errors.Is(err, http.ErrServerClosed) {
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

func serve(srv *http.Server, cfg config.Config) error {
	if cfg.TLSCertFile != "" {
		return srv.ListenAndServeTLS(cfg.TLSCertFile, cfg.TLSKeyFile)
	}
	return srv.ListenAndServe()
}

// newModel picks the model client for cfg.ModelAPI. Validation in config.Load
// already rejected anything else.
func newModel(cfg config.Config) backend.Model {
	client := httpclient.New(cfg.ModelTimeout, cfg.InsecureSkipVerify)
	if cfg.ModelAPI == config.ModelAPIOllama {
		return &backend.OllamaModel{
			BaseURL:     cfg.ModelURL,
			Model:       cfg.ModelName,
			Temperature: cfg.ModelTemperature,
			Client:      client,
		}
	}
	return backend.NewOpenAIModel(cfg.ModelURL, cfg.ModelAPIKey, cfg.ModelName, cfg.ModelTemperature, client)
}
