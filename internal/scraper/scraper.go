package scraper

import (
	"context"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"

	"github.com/jmartel/lehavre-events/internal/event"
	"github.com/jmartel/lehavre-events/internal/extract"
)

const (
	// BaseURL is the site root, used to resolve relative links and images.
	BaseURL = "https://www.lehavre-etretat-tourisme.com"
	// ListingURL is the concerts agenda page the pipeline models.
	ListingURL = BaseURL + "/agenda/a-ne-pas-manquer/concerts/"

	// DefaultMaxEvents bounds how many detail pages one run visits.
	DefaultMaxEvents = 40
	// DefaultDelay paces detail fetches so the source is not hammered.
	DefaultDelay = 2 * time.Second
)

// Renderer is the rendering collaborator: it returns fully rendered markup
// for the listing page (with "load more" expansion attempted) and for
// individual detail pages. Implementations may fail transiently; the
// orchestrator treats failures as "no data", never as run-fatal.
type Renderer interface {
	RenderListing(ctx context.Context, url string) (string, error)
	RenderDetail(ctx context.Context, url string) (string, error)
}

// Config tunes one scraping run.
type Config struct {
	ListingURL string
	BaseURL    string
	MaxEvents  int
	Delay      time.Duration
}

// DefaultConfig returns the production configuration.
func DefaultConfig() Config {
	return Config{
		ListingURL: ListingURL,
		BaseURL:    BaseURL,
		MaxEvents:  DefaultMaxEvents,
		Delay:      DefaultDelay,
	}
}

// Scraper runs the pipeline against an injected renderer.
type Scraper struct {
	renderer  Renderer
	extractor *extract.Extractor
	cfg       Config
	log       logrus.FieldLogger
}

// New creates a Scraper. The logger is shared with the field extractors.
func New(renderer Renderer, cfg Config, log logrus.FieldLogger) *Scraper {
	return &Scraper{
		renderer:  renderer,
		extractor: extract.New(log),
		cfg:       cfg,
		log:       log,
	}
}

// Result summarizes what a run did.
type Result struct {
	Events   []*event.Event
	Expired  int // persisted records dropped as expired
	Fetched  int // detail pages visited
	Degraded int // records kept with listing-only fields after a detail fault
	Added    int // records newly appended by the merge
	Skipped  int // fresh records recognized as duplicates
}

// Run executes one full pass: filter expired records out of the persisted
// set, extract fresh records from the site, merge and sort. The returned
// slice is always usable; a listing-level fault degrades the run to the
// filtered persisted set rather than an error.
func (s *Scraper) Run(ctx context.Context, persisted []*event.Event) *Result {
	now := time.Now()

	current, expired := event.FilterExpired(persisted, now)
	if expired > 0 {
		s.log.WithField("removed", expired).Info("Dropped expired events")
	}
	result := &Result{Events: current, Expired: expired}

	entries := s.fetchListing(ctx)
	if len(entries) == 0 {
		s.log.Warn("No events found on listing page, keeping persisted set as-is")
		return result
	}
	s.log.WithField("entries", len(entries)).Info("Listing entries collected")

	fresh := s.fetchDetails(ctx, current, entries, result)

	merged := event.Merge(current, fresh)
	result.Events = merged.Events
	result.Added = merged.Added
	result.Skipped += merged.Skipped

	event.SortByDate(result.Events, now)

	s.log.WithFields(logrus.Fields{
		"total":   len(result.Events),
		"added":   result.Added,
		"skipped": result.Skipped,
		"expired": result.Expired,
	}).Info("Scraping run complete")
	return result
}

// fetchListing renders the listing page and parses its cards. Any fault
// returns an empty slice; the caller degrades the run to a no-op.
func (s *Scraper) fetchListing(ctx context.Context) []*event.Event {
	html, err := s.renderer.RenderListing(ctx, s.cfg.ListingURL)
	if err != nil {
		s.log.WithError(err).Warn("Listing page fetch failed")
		return nil
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		s.log.WithError(err).Warn("Listing page parse failed")
		return nil
	}
	return s.extractor.Listing(doc, s.cfg.BaseURL)
}

// fetchDetails visits the detail page of each genuinely new entry, building
// complete records. Entries already present in the surviving persisted set
// are skipped without a fetch; a failed fetch keeps the listing-only record.
func (s *Scraper) fetchDetails(ctx context.Context, current, entries []*event.Event, result *Result) []*event.Event {
	fresh := make([]*event.Event, 0, len(entries))

	for _, entry := range entries {
		if len(fresh) >= s.cfg.MaxEvents {
			break
		}
		if event.Known(current, entry) {
			result.Skipped++
			s.log.WithField("title", entry.Title).Debug("Already known, skipping detail fetch")
			continue
		}
		if entry.DetailURL == "" {
			fresh = append(fresh, entry)
			continue
		}

		built := s.fetchOne(ctx, entry, result)
		fresh = append(fresh, built)
		result.Fetched++

		if s.cfg.Delay > 0 {
			time.Sleep(s.cfg.Delay)
		}
	}

	return fresh
}

// fetchOne renders and extracts a single detail page, overlaying the result
// on the listing entry. Every fault path returns the entry unchanged.
func (s *Scraper) fetchOne(ctx context.Context, entry *event.Event, result *Result) *event.Event {
	log := s.log.WithFields(logrus.Fields{"title": entry.Title, "url": entry.DetailURL})

	html, err := s.renderer.RenderDetail(ctx, entry.DetailURL)
	if err != nil {
		log.WithError(err).Warn("Detail fetch failed, keeping listing-only record")
		result.Degraded++
		return entry
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		log.WithError(err).Warn("Detail parse failed, keeping listing-only record")
		result.Degraded++
		return entry
	}

	built := event.Overlay(*entry, s.extractor.Details(doc))
	log.WithFields(logrus.Fields{"date": built.Date, "price": built.Price}).Debug("Detail page processed")
	return &built
}
