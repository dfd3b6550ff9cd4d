package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"event_newsletter/internal/config"
	"event_newsletter/internal/domain"
	"event_newsletter/internal/format"
	"event_newsletter/internal/render"
	"event_newsletter/internal/sender"
	"event_newsletter/internal/service"
	"event_newsletter/internal/source/mobilizon"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	testMode := flag.Bool("test", false, "send only to the configured test address")
	flag.Parse()

	// Setup logger
	logger := setupLogger("info")

	mode := domain.SendModeNormal
	if *testMode {
		mode = domain.SendModeTest
	}

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger = setupLogger(cfg.LogLevel)

	if err := cfg.Validate(mode); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	formatter, err := format.New(cfg.Format.Timezone, cfg.Format.DescriptionMax)
	if err != nil {
		logger.Error("failed to create formatter", "error", err)
		os.Exit(1)
	}

	renderer, err := render.New(render.Config{
		OutputDir:    cfg.Render.OutputDir,
		TemplatePath: cfg.Render.TemplatePath,
	}, logger)
	if err != nil {
		logger.Error("failed to create renderer", "error", err)
		os.Exit(1)
	}

	eventSource := mobilizon.New(mobilizon.Config{
		URL:     cfg.API.URL,
		Limit:   cfg.API.Limit,
		Timeout: cfg.API.Timeout,
	}, logger)

	brevo := sender.NewBrevo(sender.Config{
		BaseURL:     cfg.Brevo.BaseURL,
		APIKey:      cfg.Brevo.APIKey,
		SenderName:  cfg.Brevo.SenderName,
		SenderEmail: cfg.Brevo.SenderEmail,
		ListID:      cfg.Brevo.ListID,
		TestEmail:   cfg.Brevo.TestEmail,
		Subject:     cfg.Brevo.Subject,
		Tag:         cfg.Brevo.Tag,
	}, logger)

	pipeline := service.NewPipeline(
		eventSource,
		formatter,
		renderer,
		brevo,
		logger,
		cfg.API,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	if _, err := pipeline.Run(ctx, mode); err != nil {
		logger.Error("newsletter run failed", "error", err)
		os.Exit(1)
	}
}

func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: logLevel}
	handler := slog.NewJSONHandler(os.Stdout, opts)
	return slog.New(handler)
}
