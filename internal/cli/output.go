package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/jmartel/lehavre-events/internal/event"
	"github.com/jmartel/lehavre-events/internal/scraper"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// previewCount is how many upcoming events the text summary lists.
const previewCount = 5

// jsonSummary is the machine-readable run report.
type jsonSummary struct {
	CheckedAt   time.Time      `json:"checked_at"`
	TotalEvents int            `json:"total_events"`
	NewEvents   int            `json:"new_events"`
	Skipped     int            `json:"skipped_duplicates"`
	Expired     int            `json:"expired_removed"`
	Degraded    int            `json:"degraded_records"`
	Events      []*event.Event `json:"events"`
}

// WriteOutput writes the run result in the specified format.
func WriteOutput(w io.Writer, result *scraper.Result, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatText:
		return writeText(w, result)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func writeJSON(w io.Writer, result *scraper.Result) error {
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	return encoder.Encode(jsonSummary{
		CheckedAt:   time.Now().UTC(),
		TotalEvents: len(result.Events),
		NewEvents:   result.Added,
		Skipped:     result.Skipped,
		Expired:     result.Expired,
		Degraded:    result.Degraded,
		Events:      result.Events,
	})
}

func writeText(w io.Writer, result *scraper.Result) error {
	fmt.Fprintln(w, "=== SCRAPING SUMMARY ===")
	fmt.Fprintf(w, "Total events: %d\n", len(result.Events))
	fmt.Fprintf(w, "New events added: %d\n", result.Added)
	fmt.Fprintf(w, "Duplicates skipped: %d\n", result.Skipped)
	fmt.Fprintf(w, "Expired events removed: %d\n", result.Expired)
	if result.Degraded > 0 {
		fmt.Fprintf(w, "Records kept with listing-only fields: %d\n", result.Degraded)
	}

	if len(result.Events) == 0 {
		fmt.Fprintln(w, "\nNo events in dataset.")
		return nil
	}

	n := previewCount
	if len(result.Events) < n {
		n = len(result.Events)
	}
	fmt.Fprintf(w, "\n=== UPCOMING EVENTS (First %d) ===\n", n)
	for i, evt := range result.Events[:n] {
		fmt.Fprintf(w, "%d. %s\n", i+1, evt.Title)
		fmt.Fprintf(w, "   Date: %s\n", orNA(evt.Date))
		fmt.Fprintf(w, "   Location: %s\n", truncate(orNA(evt.FullAddress), 50))
	}

	return nil
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
