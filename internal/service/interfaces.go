package service

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"time"

	"event_newsletter/internal/domain"
)

type Source interface {
	FetchEvents(ctx context.Context, begin, end time.Time) ([]domain.Event, error)
}

type Renderer interface {
	Render(events []domain.FormattedEvent, generatedAt time.Time) (*domain.Newsletter, error)
	WriteFiles(doc *domain.Newsletter) error
}

type Sender interface {
	Send(ctx context.Context, html string, mode domain.SendMode) (int64, error)
}
