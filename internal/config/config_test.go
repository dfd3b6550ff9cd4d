package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"event_newsletter/internal/domain"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_ExpandsEnvironment(t *testing.T) {
	t.Setenv("BREVO_API_KEY", "key-from-env")
	t.Setenv("BREVO_LIST_ID", "42")

	path := writeConfig(t, `
api:
  url: https://events.example.org/api
brevo:
  api_key: ${BREVO_API_KEY}
  sender_email: news@example.org
  list_id: ${BREVO_LIST_ID}
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, "https://events.example.org/api", cfg.API.URL)
	require.Equal(t, "key-from-env", cfg.Brevo.APIKey)
	require.Equal(t, int64(42), cfg.Brevo.ListID)
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `
brevo:
  api_key: k
  sender_email: s@example.org
  list_id: 1
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, 100, cfg.API.Limit)
	require.Equal(t, 10, cfg.API.HorizonDays)
	require.Equal(t, 30*time.Second, cfg.API.Timeout)
	require.Equal(t, "Europe/Paris", cfg.Format.Timezone)
	require.Equal(t, 300, cfg.Format.DescriptionMax)
	require.Equal(t, ".", cfg.Render.OutputDir)
	require.Equal(t, "https://api.brevo.com/v3", cfg.Brevo.BaseURL)
	require.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestValidate_MissingSecrets(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		mode domain.SendMode
	}{
		{
			name: "missing api key",
			cfg:  Config{Brevo: BrevoConfig{SenderEmail: "s@example.org", ListID: 1}},
			mode: domain.SendModeNormal,
		},
		{
			name: "missing sender email",
			cfg:  Config{Brevo: BrevoConfig{APIKey: "k", ListID: 1}},
			mode: domain.SendModeNormal,
		},
		{
			name: "missing list id",
			cfg:  Config{Brevo: BrevoConfig{APIKey: "k", SenderEmail: "s@example.org"}},
			mode: domain.SendModeNormal,
		},
		{
			name: "missing test email in test mode",
			cfg:  Config{Brevo: BrevoConfig{APIKey: "k", SenderEmail: "s@example.org", ListID: 1}},
			mode: domain.SendModeTest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate(tt.mode)
			require.ErrorIs(t, err, domain.ErrConfig)
		})
	}
}

func TestValidate_TestEmailOnlyRequiredInTestMode(t *testing.T) {
	cfg := Config{Brevo: BrevoConfig{APIKey: "k", SenderEmail: "s@example.org", ListID: 1}}
	require.NoError(t, cfg.Validate(domain.SendModeNormal))
}
