package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"event_newsletter/internal/config"
	"event_newsletter/internal/domain"
	"event_newsletter/internal/format"
)

// Pipeline runs the four stages in order: fetch, format, render, send.
// Any stage error aborts the run; later stages never execute.
type Pipeline struct {
	source    Source
	formatter *format.Formatter
	renderer  Renderer
	sender    Sender
	logger    *slog.Logger
	config    config.APIConfig
}

func NewPipeline(
	source Source,
	formatter *format.Formatter,
	renderer Renderer,
	sender Sender,
	logger *slog.Logger,
	cfg config.APIConfig,
) *Pipeline {
	return &Pipeline{
		source:    source,
		formatter: formatter,
		renderer:  renderer,
		sender:    sender,
		logger:    logger,
		config:    cfg,
	}
}

func (p *Pipeline) Run(ctx context.Context, mode domain.SendMode) (*domain.RunStats, error) {
	startTime := time.Now()

	begin := time.Now().UTC().Truncate(time.Second)
	end := begin.AddDate(0, 0, p.config.HorizonDays)

	p.logger.Info("starting newsletter run",
		"mode", mode,
		"window_begin", begin,
		"window_end", end,
	)

	events, err := p.source.FetchEvents(ctx, begin, end)
	if err != nil {
		return nil, fmt.Errorf("fetch events: %w", err)
	}
	p.logger.Info("fetched events", "count", len(events))

	formatted, err := p.formatter.FormatAll(events)
	if err != nil {
		return nil, fmt.Errorf("format events: %w", err)
	}

	doc, err := p.renderer.Render(formatted, time.Now().In(p.formatter.Location()))
	if err != nil {
		return nil, fmt.Errorf("render newsletter: %w", err)
	}

	if err := p.renderer.WriteFiles(doc); err != nil {
		return nil, fmt.Errorf("write newsletter files: %w", err)
	}

	campaignID, err := p.sender.Send(ctx, doc.Inlined, mode)
	if err != nil {
		return nil, fmt.Errorf("send newsletter: %w", err)
	}

	stats := &domain.RunStats{
		Fetched:    len(events),
		Formatted:  len(formatted),
		SendMode:   mode,
		CampaignID: campaignID,
		Duration:   time.Since(startTime),
	}

	p.logger.Info("run completed",
		"fetched", stats.Fetched,
		"formatted", stats.Formatted,
		"mode", stats.SendMode,
		"campaign_id", stats.CampaignID,
		"duration", stats.Duration,
	)

	return stats, nil
}
