package event

import (
	"regexp"
	"strings"
	"time"
)

// Event represents a single agenda event. Field names and JSON tags match the
// persisted schema, so snapshots written by earlier versions load unchanged.
// All fields except Title are best-effort and may be empty.
type Event struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	DetailURL   string `json:"detail_url"`
	ImageURL    string `json:"image_url"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	FullAddress string `json:"full_address"`
	Price       string `json:"price"`
	Description string `json:"description"`
	TicketURL   string `json:"ticket_url"`
	Organizer   string `json:"organizer"`
	Audience    string `json:"audience"`
	ScrapedAt   string `json:"scraped_at"`
}

// idPattern matches the uppercase alphanumeric token at the end of a detail
// URL, e.g. ".../fiche/concert-xyz_FMANOR076V5AABCD/".
var idPattern = regexp.MustCompile(`_([A-Z0-9]+)/?$`)

// ParseID extracts the stable event identifier from a detail URL.
// Returns "" if the URL does not carry a trailing ID token.
func ParseID(detailURL string) string {
	if m := idPattern.FindStringSubmatch(detailURL); m != nil {
		return m[1]
	}
	return ""
}

// New creates an Event from listing-card data with ScrapedAt stamped.
// Detail-page fields start empty and are filled in later via Overlay.
func New(title, detailURL, imageURL string) *Event {
	return &Event{
		ID:        ParseID(detailURL),
		Title:     strings.TrimSpace(title),
		DetailURL: detailURL,
		ImageURL:  imageURL,
		ScrapedAt: time.Now().UTC().Format(time.RFC3339),
	}
}

// NormalizedTitle returns the title form used for duplicate detection.
func (e *Event) NormalizedTitle() string {
	return strings.ToLower(strings.TrimSpace(e.Title))
}
