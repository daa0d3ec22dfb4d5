package scraper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmartel/lehavre-events/internal/event"
)

// fakeRenderer serves canned markup and records which pages were visited.
type fakeRenderer struct {
	listingHTML string
	listingErr  error
	detailHTML  map[string]string
	detailErr   map[string]error
	detailCalls []string
}

func (f *fakeRenderer) RenderListing(_ context.Context, url string) (string, error) {
	if f.listingErr != nil {
		return "", f.listingErr
	}
	return f.listingHTML, nil
}

func (f *fakeRenderer) RenderDetail(_ context.Context, url string) (string, error) {
	f.detailCalls = append(f.detailCalls, url)
	if err := f.detailErr[url]; err != nil {
		return "", err
	}
	return f.detailHTML[url], nil
}

func newTestScraper(r Renderer) *Scraper {
	log := logrus.New()
	log.SetOutput(io.Discard)

	cfg := DefaultConfig()
	cfg.ListingURL = "https://agenda.test/concerts/"
	cfg.BaseURL = "https://agenda.test"
	cfg.Delay = 0
	return New(r, cfg, log)
}

func futureDate(days int) string {
	return time.Now().AddDate(0, 0, days).Format("02/01/2006")
}

func card(id, title string) string {
	return fmt.Sprintf(`<article class="card"><a href="/fiche/%s_%s/"><h3>%s</h3></a></article>`, id, id, title)
}

func TestRun_EndToEnd(t *testing.T) {
	newDate := futureDate(10)
	currentDate := futureDate(30)

	persisted := []*event.Event{
		{ID: "X0", Title: "Vieux concert", Date: "01/01/2020"},
		{ID: "A1", Title: "Concert actuel", Date: currentDate},
	}

	detailURL := "https://agenda.test/fiche/B2_B2/"
	renderer := &fakeRenderer{
		listingHTML: "<body>" + card("A1", "Concert actuel") + card("B2", "Nouveau spectacle") + "</body>",
		detailHTML: map[string]string{
			detailURL: fmt.Sprintf(`<body>
				<div><h1>Nouveau spectacle</h1><p>2 Rue des Etoupières - 76600 LE HAVRE</p></div>
				<p>Le %s à 20h30 — Gratuit</p>
			</body>`, newDate),
		},
	}

	result := newTestScraper(renderer).Run(context.Background(), persisted)

	// Expired record removed, duplicate not re-added, new record appended.
	require.Len(t, result.Events, 2)
	assert.Equal(t, 1, result.Expired)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, 1, result.Added)

	// The new event is earlier, so date order puts it first.
	assert.Equal(t, "Nouveau spectacle", result.Events[0].Title)
	assert.Equal(t, "Concert actuel", result.Events[1].Title)

	// Detail fields extracted and overlaid on the listing entry.
	fresh := result.Events[0]
	assert.Equal(t, newDate, fresh.Date)
	assert.Equal(t, "20:30", fresh.Time)
	assert.Equal(t, "Gratuit", fresh.Price)
	assert.Contains(t, fresh.FullAddress, "Rue des Etoupières")

	// Only the genuinely new entry was fetched.
	assert.Equal(t, []string{detailURL}, renderer.detailCalls)
}

func TestRun_ListingFaultKeepsPersistedSet(t *testing.T) {
	persisted := []*event.Event{
		{ID: "X0", Title: "Vieux concert", Date: "01/01/2020"},
		{ID: "A1", Title: "Concert actuel", Date: futureDate(5)},
	}

	renderer := &fakeRenderer{listingErr: errors.New("timeout")}
	result := newTestScraper(renderer).Run(context.Background(), persisted)

	// Degraded run: expired filtering still applies, nothing else changes.
	require.Len(t, result.Events, 1)
	assert.Equal(t, "Concert actuel", result.Events[0].Title)
	assert.Equal(t, 1, result.Expired)
	assert.Equal(t, 0, result.Added)
	assert.Empty(t, renderer.detailCalls)
}

func TestRun_EmptyListingKeepsPersistedSet(t *testing.T) {
	persisted := []*event.Event{{ID: "A1", Title: "Concert actuel", Date: futureDate(5)}}

	renderer := &fakeRenderer{listingHTML: "<body><p>Aucun résultat</p></body>"}
	result := newTestScraper(renderer).Run(context.Background(), persisted)

	require.Len(t, result.Events, 1)
	assert.Equal(t, persisted[0], result.Events[0])
}

func TestRun_DetailFaultKeepsListingRecord(t *testing.T) {
	detailURL := "https://agenda.test/fiche/B2_B2/"
	renderer := &fakeRenderer{
		listingHTML: "<body>" + card("B2", "Nouveau spectacle") + "</body>",
		detailErr:   map[string]error{detailURL: errors.New("navigation failed")},
	}

	result := newTestScraper(renderer).Run(context.Background(), nil)

	require.Len(t, result.Events, 1)
	assert.Equal(t, "Nouveau spectacle", result.Events[0].Title)
	assert.Equal(t, "B2", result.Events[0].ID)
	assert.Empty(t, result.Events[0].Date, "degraded record keeps listing-only fields")
	assert.Equal(t, 1, result.Degraded)
	assert.Equal(t, 1, result.Added)
}

func TestRun_MaxEventsBoundsDetailFetches(t *testing.T) {
	listing := "<body>"
	for i := 0; i < 5; i++ {
		listing += card(fmt.Sprintf("E%d", i), fmt.Sprintf("Spectacle %d", i))
	}
	listing += "</body>"

	renderer := &fakeRenderer{listingHTML: listing, detailHTML: map[string]string{}}

	log := logrus.New()
	log.SetOutput(io.Discard)
	cfg := DefaultConfig()
	cfg.BaseURL = "https://agenda.test"
	cfg.Delay = 0
	cfg.MaxEvents = 2

	result := New(renderer, cfg, log).Run(context.Background(), nil)

	assert.Len(t, result.Events, 2)
	assert.Len(t, renderer.detailCalls, 2)
}

func TestRun_WithinBatchDuplicatesCollapse(t *testing.T) {
	// Two cards, different URLs, same title: first wins.
	listing := "<body>" +
		card("F1", "Concert du soir") +
		card("F2", "Concert du soir") +
		"</body>"

	renderer := &fakeRenderer{listingHTML: listing, detailHTML: map[string]string{}}
	result := newTestScraper(renderer).Run(context.Background(), nil)

	require.Len(t, result.Events, 1)
	assert.Equal(t, "F1", result.Events[0].ID)
	assert.Equal(t, 1, result.Skipped)
}
