package mobilizon

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"event_newsletter/internal/domain"
)

const SourceID = "mobilizon"

const searchEventsQuery = `
query SearchEventsInWindow($beginsOn: DateTime, $endsOn: DateTime, $limit: Int) {
  searchEvents(beginsOn: $beginsOn, endsOn: $endsOn, limit: $limit) {
    total
    elements {
      __typename
      ... on Event {
        id
        title
        description
        beginsOn
        endsOn
        url
        onlineAddress
        picture {
          url
        }
        physicalAddress {
          description
          locality
        }
      }
    }
  }
}`

// Config holds Mobilizon source configuration.
type Config struct {
	URL     string
	Limit   int
	Timeout time.Duration
}

// Source fetches upcoming events from a Mobilizon GraphQL endpoint.
type Source struct {
	httpClient *http.Client
	url        string
	limit      int
	logger     *slog.Logger
}

func New(cfg Config, logger *slog.Logger) *Source {
	return &Source{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		url:    cfg.URL,
		limit:  cfg.Limit,
		logger: logger.With("source", SourceID),
	}
}

// FetchEvents issues one SearchEventsInWindow query and returns the events
// whose start time falls in [begin, end), sorted ascending by start time.
// Single attempt; a failed call fails the run.
func (s *Source) FetchEvents(ctx context.Context, begin, end time.Time) ([]domain.Event, error) {
	resp, err := s.doQuery(ctx, begin, end)
	if err != nil {
		return nil, err
	}

	events, err := s.transform(resp.Elements)
	if err != nil {
		return nil, err
	}

	events = filterWindow(events, begin, end)

	sort.Slice(events, func(i, j int) bool {
		return events[i].BeginsOn.Before(events[j].BeginsOn)
	})

	s.logger.Debug("fetched events",
		"total", resp.Total,
		"in_window", len(events),
	)

	return events, nil
}

func (s *Source) doQuery(ctx context.Context, begin, end time.Time) (*searchEvents, error) {
	payload := graphqlRequest{
		Query: searchEventsQuery,
		Variables: map[string]any{
			"beginsOn": begin.UTC().Format(time.RFC3339),
			"endsOn":   end.UTC().Format(time.RFC3339),
			"limit":    s.limit,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "EventNewsletter/1.0")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: execute request: %v", domain.ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %d", domain.ErrNetwork, resp.StatusCode)
	}

	var gqlResp graphqlResponse
	if err := json.NewDecoder(resp.Body).Decode(&gqlResp); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", domain.ErrSchema, err)
	}

	if len(gqlResp.Errors) > 0 {
		return nil, fmt.Errorf("%w: graphql error: %s", domain.ErrSchema, gqlResp.Errors[0].Message)
	}

	if gqlResp.Data == nil || gqlResp.Data.SearchEvents == nil {
		return nil, fmt.Errorf("%w: missing searchEvents payload", domain.ErrSchema)
	}

	return gqlResp.Data.SearchEvents, nil
}

func (s *Source) transform(elements []eventElement) ([]domain.Event, error) {
	events := make([]domain.Event, 0, len(elements))

	for _, el := range elements {
		if el.Typename != "Event" {
			continue
		}

		beginsOn, err := time.Parse(time.RFC3339, el.BeginsOn)
		if err != nil {
			return nil, fmt.Errorf("%w: event %s: bad beginsOn %q", domain.ErrSchema, el.ID, el.BeginsOn)
		}

		event := domain.Event{
			ID:            el.ID,
			Title:         el.Title,
			Description:   el.Description,
			BeginsOn:      beginsOn,
			URL:           el.URL,
			OnlineAddress: el.OnlineAddress,
		}

		if el.EndsOn != "" {
			endsOn, err := time.Parse(time.RFC3339, el.EndsOn)
			if err != nil {
				return nil, fmt.Errorf("%w: event %s: bad endsOn %q", domain.ErrSchema, el.ID, el.EndsOn)
			}
			event.EndsOn = endsOn
		}

		if el.Picture != nil {
			event.PictureURL = el.Picture.URL
		}

		if el.PhysicalAddress != nil {
			event.PhysicalAddress = &domain.Address{
				Description: el.PhysicalAddress.Description,
				Locality:    el.PhysicalAddress.Locality,
			}
		}

		events = append(events, event)
	}

	return events, nil
}

// filterWindow drops events outside [begin, end). The API is expected to
// honor the window but stray results have been observed around midnight
// boundaries.
func filterWindow(events []domain.Event, begin, end time.Time) []domain.Event {
	filtered := events[:0]
	for _, ev := range events {
		if ev.BeginsOn.Before(begin) || !ev.BeginsOn.Before(end) {
			continue
		}
		filtered = append(filtered, ev)
	}
	return filtered
}
