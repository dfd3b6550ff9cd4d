package sender

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"event_newsletter/internal/domain"
)

// Config holds Brevo sender configuration.
type Config struct {
	BaseURL     string
	APIKey      string
	SenderName  string
	SenderEmail string
	ListID      int64
	TestEmail   string
	Subject     string
	Tag         string
	Timeout     time.Duration
}

// Brevo delivers the newsletter through the Brevo email-campaigns API:
// one campaign is created per run, then sent either to the configured
// list (normal mode) or to the single test address (test mode).
type Brevo struct {
	httpClient  *http.Client
	baseURL     string
	apiKey      string
	senderName  string
	senderEmail string
	listID      int64
	testEmail   string
	subject     string
	tag         string
	logger      *slog.Logger
}

func NewBrevo(cfg Config, logger *slog.Logger) *Brevo {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &Brevo{
		httpClient:  &http.Client{Timeout: timeout},
		baseURL:     cfg.BaseURL,
		apiKey:      cfg.APIKey,
		senderName:  cfg.SenderName,
		senderEmail: cfg.SenderEmail,
		listID:      cfg.ListID,
		testEmail:   cfg.TestEmail,
		subject:     cfg.Subject,
		tag:         cfg.Tag,
		logger:      logger.With("sender", "brevo"),
	}
}

type campaignSender struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type campaignRecipients struct {
	ListIDs []int64 `json:"listIds"`
}

type createCampaignRequest struct {
	Name                  string             `json:"name"`
	Subject               string             `json:"subject"`
	Sender                campaignSender     `json:"sender"`
	HTMLContent           string             `json:"htmlContent"`
	Recipients            campaignRecipients `json:"recipients"`
	Tag                   string             `json:"tag"`
	InlineImageActivation bool               `json:"inlineImageActivation"`
}

type createCampaignResponse struct {
	ID int64 `json:"id"`
}

type sendTestRequest struct {
	EmailTo []string `json:"emailTo"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Send creates the campaign and triggers delivery. In test mode exactly one
// send request goes out, addressed only to the test address; the list is
// never targeted. Returns the created campaign ID.
func (b *Brevo) Send(ctx context.Context, html string, mode domain.SendMode) (int64, error) {
	name := b.subject
	tag := b.tag
	if mode == domain.SendModeTest {
		name = "[TEST] " + name
		tag = tag + " [TEST]"
	}

	create := createCampaignRequest{
		Name:    name,
		Subject: name,
		Sender: campaignSender{
			Name:  b.senderName,
			Email: b.senderEmail,
		},
		HTMLContent: html,
		Recipients: campaignRecipients{
			ListIDs: []int64{b.listID},
		},
		Tag:                   tag,
		InlineImageActivation: false,
	}

	var created createCampaignResponse
	if err := b.post(ctx, "/emailCampaigns", create, &created); err != nil {
		return 0, fmt.Errorf("create campaign: %w", err)
	}

	b.logger.Info("campaign created", "campaign_id", created.ID, "mode", mode)

	switch mode {
	case domain.SendModeTest:
		body := sendTestRequest{EmailTo: []string{b.testEmail}}
		path := fmt.Sprintf("/emailCampaigns/%d/sendTest", created.ID)
		if err := b.post(ctx, path, body, nil); err != nil {
			return created.ID, fmt.Errorf("send test campaign: %w", err)
		}
		b.logger.Info("test campaign sent", "campaign_id", created.ID, "recipient", b.testEmail)
	default:
		path := fmt.Sprintf("/emailCampaigns/%d/sendNow", created.ID)
		if err := b.post(ctx, path, struct{}{}, nil); err != nil {
			return created.ID, fmt.Errorf("send campaign: %w", err)
		}
		b.logger.Info("campaign sent to list", "campaign_id", created.ID, "list_id", b.listID)
	}

	return created.ID, nil
}

func (b *Brevo) post(ctx context.Context, path string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("api-key", b.apiKey)

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrSend, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr apiError
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		return fmt.Errorf("%w: status %d code=%s message=%s",
			domain.ErrSend, resp.StatusCode, apiErr.Code, apiErr.Message)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("%w: decode response: %v", domain.ErrSend, err)
		}
	}

	return nil
}
