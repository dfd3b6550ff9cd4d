package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/vanng822/go-premailer/premailer"

	"event_newsletter/internal/domain"
)

//go:embed templates
var templateFS embed.FS

const defaultTemplate = "templates/newsletter.html"

// Fixed output filenames; each run overwrites the previous one's files.
const (
	StyledFilename  = "newsletter_events.html"
	InlinedFilename = "newsletter_events_inlined.html"
)

// requiredVars must appear in any template source; their absence is a
// configuration error, not a runtime data error.
var requiredVars = []string{".Events", ".GeneratedAt"}

// Config holds renderer configuration.
type Config struct {
	OutputDir    string
	TemplatePath string // empty means the embedded default
}

// Renderer turns formatted events into the two newsletter documents.
type Renderer struct {
	tmpl   *template.Template
	outDir string
	logger *slog.Logger
}

func New(cfg Config, logger *slog.Logger) (*Renderer, error) {
	source, err := loadTemplateSource(cfg.TemplatePath)
	if err != nil {
		return nil, err
	}

	for _, v := range requiredVars {
		if !strings.Contains(source, v) {
			return nil, fmt.Errorf("%w: template is missing %s", domain.ErrTemplate, v)
		}
	}

	tmpl, err := template.New("newsletter").Parse(source)
	if err != nil {
		return nil, fmt.Errorf("%w: parse template: %v", domain.ErrTemplate, err)
	}

	return &Renderer{
		tmpl:   tmpl,
		outDir: cfg.OutputDir,
		logger: logger,
	}, nil
}

func loadTemplateSource(path string) (string, error) {
	if path == "" {
		data, err := templateFS.ReadFile(defaultTemplate)
		if err != nil {
			return "", fmt.Errorf("%w: read embedded template: %v", domain.ErrTemplate, err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: read template %s: %v", domain.ErrTemplate, path, err)
	}
	return string(data), nil
}

type templateData struct {
	Events      []domain.FormattedEvent
	GeneratedAt string
}

// Render produces the externally-styled document and its CSS-inlined
// variant. Rendering the same input twice yields byte-identical output.
func (r *Renderer) Render(events []domain.FormattedEvent, generatedAt time.Time) (*domain.Newsletter, error) {
	var buf bytes.Buffer
	data := templateData{
		Events:      events,
		GeneratedAt: generatedAt.Format("2006-01-02 15:04"),
	}
	if err := r.tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("%w: execute template: %v", domain.ErrTemplate, err)
	}
	styled := buf.String()

	prem, err := premailer.NewPremailerFromString(styled, premailer.NewOptions())
	if err != nil {
		return nil, fmt.Errorf("%w: prepare css inliner: %v", domain.ErrTemplate, err)
	}
	inlined, err := prem.Transform()
	if err != nil {
		return nil, fmt.Errorf("%w: inline css: %v", domain.ErrTemplate, err)
	}

	r.logger.Debug("rendered newsletter",
		"events", len(events),
		"styled_bytes", len(styled),
		"inlined_bytes", len(inlined),
	)

	return &domain.Newsletter{Styled: styled, Inlined: inlined}, nil
}

// WriteFiles writes both variants to the output directory, truncating any
// prior run's files.
func (r *Renderer) WriteFiles(doc *domain.Newsletter) error {
	if err := os.MkdirAll(r.outDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	styledPath := filepath.Join(r.outDir, StyledFilename)
	if err := os.WriteFile(styledPath, []byte(doc.Styled), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", StyledFilename, err)
	}

	inlinedPath := filepath.Join(r.outDir, InlinedFilename)
	if err := os.WriteFile(inlinedPath, []byte(doc.Inlined), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", InlinedFilename, err)
	}

	r.logger.Info("wrote newsletter files",
		"styled", styledPath,
		"inlined", inlinedPath,
	)

	return nil
}
