package format

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"event_newsletter/internal/domain"
)

// TruncationMarker is appended to descriptions cut at the character budget.
const TruncationMarker = " …"

const (
	locationOnline      = "En ligne"
	locationUnspecified = "Lieu non précisé"
)

var frenchDays = [7]string{
	"Dimanche", "Lundi", "Mardi", "Mercredi", "Jeudi", "Vendredi", "Samedi",
}

var frenchMonths = [13]string{
	"",
	"janvier", "février", "mars", "avril", "mai", "juin",
	"juillet", "août", "septembre", "octobre", "novembre", "décembre",
}

// Formatter maps catalog events to their template-facing view. Pure; safe
// to reuse across runs.
type Formatter struct {
	loc    *time.Location
	maxLen int
	policy *bluemonday.Policy
}

func New(timezone string, descriptionMax int) (*Formatter, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: unknown timezone %q", domain.ErrConfig, timezone)
	}

	return &Formatter{
		loc:    loc,
		maxLen: descriptionMax,
		policy: bluemonday.StrictPolicy(),
	}, nil
}

// Location returns the target display time zone.
func (f *Formatter) Location() *time.Location {
	return f.loc
}

func (f *Formatter) FormatAll(events []domain.Event) ([]domain.FormattedEvent, error) {
	formatted := make([]domain.FormattedEvent, 0, len(events))
	for _, ev := range events {
		fe, err := f.Format(ev)
		if err != nil {
			return nil, err
		}
		formatted = append(formatted, fe)
	}
	return formatted, nil
}

func (f *Formatter) Format(ev domain.Event) (domain.FormattedEvent, error) {
	if ev.BeginsOn.IsZero() {
		return domain.FormattedEvent{}, fmt.Errorf("%w: event %s: missing start time", domain.ErrFormat, ev.ID)
	}

	return domain.FormattedEvent{
		Title:       ev.Title,
		Description: f.cleanDescription(ev.Description),
		FullDate:    f.fullDate(ev.BeginsOn),
		PictureURL:  cleanPictureURL(ev.PictureURL),
		Location:    flattenLocation(ev),
		Link:        ev.URL,
	}, nil
}

// cleanDescription strips markup, collapses whitespace, and truncates to the
// configured rune budget with the truncation marker appended.
func (f *Formatter) cleanDescription(raw string) string {
	text := html.UnescapeString(f.policy.Sanitize(raw))
	text = strings.Join(strings.Fields(text), " ")

	runes := []rune(text)
	if len(runes) > f.maxLen {
		return string(runes[:f.maxLen]) + TruncationMarker
	}
	return text
}

// fullDate renders a French human-readable date in the target zone, e.g.
// "Samedi 1 juin 2024 à 20 h 00".
func (f *Formatter) fullDate(t time.Time) string {
	local := t.In(f.loc)
	return fmt.Sprintf("%s %d %s %d à %d h %02d",
		frenchDays[local.Weekday()],
		local.Day(),
		frenchMonths[local.Month()],
		local.Year(),
		local.Hour(),
		local.Minute(),
	)
}

// cleanPictureURL drops the query string; signed parameters make the email
// service refuse to proxy the image.
func cleanPictureURL(raw string) string {
	base, _, _ := strings.Cut(raw, "?")
	return base
}

func flattenLocation(ev domain.Event) string {
	if ev.PhysicalAddress != nil {
		var parts []string
		for _, p := range []string{ev.PhysicalAddress.Description, ev.PhysicalAddress.Locality} {
			if strings.TrimSpace(p) != "" {
				parts = append(parts, p)
			}
		}
		if len(parts) > 0 {
			return strings.Join(parts, ", ")
		}
	}

	if ev.OnlineAddress != "" {
		return locationOnline
	}
	return locationUnspecified
}
