package render

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"event_newsletter/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := New(Config{OutputDir: t.TempDir()}, testLogger())
	require.NoError(t, err)
	return r
}

var sampleEvents = []domain.FormattedEvent{
	{
		Title:       "Concert au café",
		Description: "Un concert de musique traditionnelle.",
		FullDate:    "Samedi 1 juin 2024 à 20 h 00",
		PictureURL:  "https://img/x.jpg",
		Location:    "Salle des fêtes, Crest",
		Link:        "https://events.example.org/e/1",
	},
	{
		Title:       "Atelier vélo",
		FullDate:    "Dimanche 2 juin 2024 à 10 h 00",
		Location:    "Lieu non précisé",
		Link:        "https://events.example.org/e/2",
	},
}

func TestRender_ContainsEventFields(t *testing.T) {
	r := newTestRenderer(t)

	doc, err := r.Render(sampleEvents, time.Date(2024, 5, 30, 9, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	require.Contains(t, doc.Styled, "Concert au café")
	require.Contains(t, doc.Styled, "Samedi 1 juin 2024 à 20 h 00")
	require.Contains(t, doc.Styled, "Salle des fêtes, Crest")
	require.Contains(t, doc.Styled, `href="https://events.example.org/e/1"`)
	require.Contains(t, doc.Styled, "2024-05-30 09:00")
}

func TestRender_EscapesMarkupInFields(t *testing.T) {
	r := newTestRenderer(t)

	events := []domain.FormattedEvent{{Title: `<script>alert("x")</script>`}}
	doc, err := r.Render(events, time.Now())
	require.NoError(t, err)

	require.NotContains(t, doc.Styled, `<script>alert`)
}

func TestRender_InlinesStyles(t *testing.T) {
	r := newTestRenderer(t)

	doc, err := r.Render(sampleEvents, time.Now())
	require.NoError(t, err)

	require.Contains(t, doc.Styled, "<style>")
	require.Contains(t, doc.Inlined, `style="`)
}

func TestRender_Deterministic(t *testing.T) {
	r := newTestRenderer(t)
	at := time.Date(2024, 5, 30, 9, 0, 0, 0, time.UTC)

	first, err := r.Render(sampleEvents, at)
	require.NoError(t, err)
	second, err := r.Render(sampleEvents, at)
	require.NoError(t, err)

	require.Equal(t, first.Styled, second.Styled)
}

func TestRender_ZeroEvents(t *testing.T) {
	r := newTestRenderer(t)

	doc, err := r.Render(nil, time.Now())
	require.NoError(t, err)

	require.Contains(t, doc.Styled, "Aucun événement à venir")
	require.NotContains(t, doc.Styled, `class="event"`)
}

func TestWriteFiles(t *testing.T) {
	dir := t.TempDir()
	r, err := New(Config{OutputDir: dir}, testLogger())
	require.NoError(t, err)

	doc := &domain.Newsletter{Styled: "<html>styled</html>", Inlined: "<html>inlined</html>"}
	require.NoError(t, r.WriteFiles(doc))

	styled, err := os.ReadFile(filepath.Join(dir, StyledFilename))
	require.NoError(t, err)
	require.Equal(t, doc.Styled, string(styled))

	inlined, err := os.ReadFile(filepath.Join(dir, InlinedFilename))
	require.NoError(t, err)
	require.Equal(t, doc.Inlined, string(inlined))
}

func TestWriteFiles_OverwritesPreviousRun(t *testing.T) {
	dir := t.TempDir()
	r, err := New(Config{OutputDir: dir}, testLogger())
	require.NoError(t, err)

	require.NoError(t, r.WriteFiles(&domain.Newsletter{Styled: "old", Inlined: "old"}))
	require.NoError(t, r.WriteFiles(&domain.Newsletter{Styled: "new", Inlined: "new"}))

	styled, err := os.ReadFile(filepath.Join(dir, StyledFilename))
	require.NoError(t, err)
	require.Equal(t, "new", string(styled))
}

func TestNew_CustomTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.html")
	custom := `<html><body><p>{{.GeneratedAt}}</p>{{range .Events}}<h2>{{.Title}}</h2>{{end}}</body></html>`
	require.NoError(t, os.WriteFile(path, []byte(custom), 0o644))

	r, err := New(Config{OutputDir: t.TempDir(), TemplatePath: path}, testLogger())
	require.NoError(t, err)

	doc, err := r.Render(sampleEvents, time.Now())
	require.NoError(t, err)
	require.Contains(t, doc.Styled, "<h2>Concert au café</h2>")
}

func TestNew_TemplateMissingVariables(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.html")
	require.NoError(t, os.WriteFile(path, []byte(`<html><body>{{.GeneratedAt}}</body></html>`), 0o644))

	_, err := New(Config{OutputDir: t.TempDir(), TemplatePath: path}, testLogger())
	require.ErrorIs(t, err, domain.ErrTemplate)
}

func TestNew_TemplatePathUnreadable(t *testing.T) {
	_, err := New(Config{OutputDir: t.TempDir(), TemplatePath: "/does/not/exist.html"}, testLogger())
	require.ErrorIs(t, err, domain.ErrTemplate)
}
