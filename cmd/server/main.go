package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"stress-index/internal/config"
	"stress-index/internal/handler"
	"stress-index/internal/service"
	"stress-index/pkg/logger"
	"stress-index/pkg/storage"
	"stress-index/pkg/tracker"
	"stress-index/pkg/trends"
)

type Application struct {
	configPath string
	envFile    string
	fixture    string
	debug      bool
}

func main() {
	app := &Application{}

	flag.StringVar(&app.configPath, "config", "", "Configuration file path (defaults and STRESS_* env when empty)")
	flag.StringVar(&app.envFile, "env-file", ".env", "Optional .env file loaded before the configuration")
	flag.StringVar(&app.fixture, "fixture", "", "Serve recorded responses from a JSON file instead of the trends API")
	flag.BoolVar(&app.debug, "debug", false, "Enable debug mode")
	flag.Parse()

	if err := app.Run(); err != nil {
		log.Fatalf("Application failed: %v", err)
	}
}

func (app *Application) Run() error {
	if err := godotenv.Load(app.envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", app.envFile, err)
	}

	cfg, err := config.NewManager().Load(app.configPath)
	if err != nil {
		return err
	}
	if app.debug {
		cfg.Logger.Level = "debug"
	}
	logger.SetLogger(logger.New(cfg.Logger))
	appLog := logger.GetLogger().WithComponent("server")

	keywordConfig, err := cfg.Keywords.Build()
	if err != nil {
		return err
	}

	source, stats, err := app.buildSource(cfg.Trends)
	if err != nil {
		return err
	}

	dashboard := service.NewDashboard(
		tracker.New(keywordConfig, source, cfg.Trends.Options()),
		storage.NewMemoryHistory(cfg.Export.HistorySize, cfg.Export.HistoryTTL),
		storage.NewReportExporter(cfg.Export.OutputDir),
	)
	server := handler.NewApp(handler.NewController(dashboard, stats), handler.AppConfig{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	errCh := make(chan error, 1)
	go func() {
		appLog.WithFields(map[string]interface{}{
			"addr":       addr,
			"groups":     keywordConfig.GroupNames(),
			"timeframe":  cfg.Trends.Timeframe,
			"geo":        cfg.Trends.Geo,
			"output_dir": cfg.Export.OutputDir,
		}).Info("Dashboard server started")
		errCh <- server.Listen(addr)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server stopped: %w", err)
	case <-ctx.Done():
	}

	appLog.Info("Shutdown signal received, stopping server")
	if err := server.ShutdownWithTimeout(cfg.Server.ShutdownTimeout); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	appLog.Info("Server stopped")
	return nil
}

func (app *Application) buildSource(cfg config.TrendsConfig) (trends.Source, service.StatsProvider, error) {
	if app.fixture != "" {
		source, err := trends.NewFixtureSource(app.fixture)
		if err != nil {
			return nil, nil, err
		}
		return source, nil, nil
	}

	if cfg.BaseURL == "" {
		return nil, nil, fmt.Errorf("trends.base_url is required (env: STRESS_TRENDS_BASE_URL) unless -fixture is set")
	}

	logger.GetLogger().WithComponent("server").WithFields(map[string]interface{}{
		"trends_api": logger.MaskEndpoint(cfg.BaseURL),
		"api_key":    logger.MaskSecret(cfg.APIKey),
	}).Info("Trends client configured")

	client := trends.NewClient(cfg.ClientConfig())
	return client, client, nil
}
