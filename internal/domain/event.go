package domain

import "time"

// Event is an upcoming event as returned by the catalog API. It exists only
// for the duration of one pipeline run.
type Event struct {
	ID              string
	Title           string
	Description     string // may contain HTML markup
	BeginsOn        time.Time
	EndsOn          time.Time
	PictureURL      string
	URL             string
	PhysicalAddress *Address
	OnlineAddress   string
}

type Address struct {
	Description string
	Locality    string
}

// FormattedEvent is the template-facing view of an Event. Every field is a
// plain string safe for direct interpolation.
type FormattedEvent struct {
	Title       string
	Description string
	FullDate    string
	PictureURL  string
	Location    string
	Link        string
}

// Newsletter holds the two rendered variants of one run's output.
type Newsletter struct {
	Styled  string // references the template's <style> block
	Inlined string // CSS inlined into element style attributes
}
