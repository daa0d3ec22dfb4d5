// Package browser drives a headless Chrome session through chromedp.
//
// One session is opened per scraping run and must be closed when the run
// ends, success or failure: the browser context is the single shared
// rendering resource and cannot serve concurrent navigations. RenderListing
// additionally tries to expand the listing by clicking "load more" controls,
// tolerating their absence.
package browser

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/sirupsen/logrus"
)

const (
	// userAgent mirrors a desktop browser so the site serves the full page.
	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

	loadMoreAttempts = 3
	clickTimeout     = 5 * time.Second
	settleDelay      = 2 * time.Second
)

// loadMoreSelectors are the known variants of the listing's "load more"
// control, tried in order. The site is French-first, so French labels lead.
var loadMoreSelectors = []string{
	`//button[contains(., 'Plus de résultats')]`,
	`//button[contains(., 'Voir plus')]`,
	`//button[contains(., 'Afficher plus')]`,
	`//button[contains(., 'View More')]`,
	`//a[contains(., 'Plus de résultats')]`,
	`//div[contains(@class, 'load-more')]`,
	`//*[contains(@class, 'btn-more')]`,
}

// Session is a scoped headless-browser resource. Close must always be
// called, even when a run aborts partway.
type Session struct {
	ctx         context.Context
	cancelCtx   context.CancelFunc
	cancelAlloc context.CancelFunc
	timeout     time.Duration
	log         logrus.FieldLogger
}

// NewSession starts a Chrome allocator and a browser context for one run.
func NewSession(parent context.Context, headless bool, timeout time.Duration, log logrus.FieldLogger) *Session {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", headless),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.WindowSize(1920, 1080),
		chromedp.UserAgent(userAgent),
		// Skip image loading, the extractors only read text and attributes.
		chromedp.Flag("blink-settings", "imagesEnabled=false"),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(parent, opts...)
	ctx, cancelCtx := chromedp.NewContext(allocCtx)

	return &Session{
		ctx:         ctx,
		cancelCtx:   cancelCtx,
		cancelAlloc: cancelAlloc,
		timeout:     timeout,
		log:         log,
	}
}

// Close tears the browser session down. Safe to call more than once.
func (s *Session) Close() {
	s.cancelCtx()
	s.cancelAlloc()
}

// RenderListing navigates to the listing page, attempts to expand it via
// "load more" controls, and returns the rendered markup.
func (s *Session) RenderListing(ctx context.Context, url string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.log.WithField("url", url).Info("Loading listing page")
	if err := s.run(chromedp.Navigate(url), chromedp.WaitReady("body", chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("loading listing page: %w", err)
	}

	s.expandListing()

	var html string
	if err := s.run(chromedp.OuterHTML("html", &html)); err != nil {
		return "", fmt.Errorf("reading listing markup: %w", err)
	}
	return html, nil
}

// RenderDetail navigates to an event's detail page and returns the rendered
// markup after a short settle delay for dynamic content.
func (s *Session) RenderDetail(ctx context.Context, url string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.log.WithField("url", url).Debug("Loading detail page")
	var html string
	err := s.run(
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(settleDelay),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return "", fmt.Errorf("loading detail page: %w", err)
	}
	return html, nil
}

// expandListing clicks whatever "load more" control it can find, up to
// loadMoreAttempts times. Every failure is tolerated: a listing without the
// control is simply already complete.
func (s *Session) expandListing() {
	for attempt := 1; attempt <= loadMoreAttempts; attempt++ {
		clicked := false
		for _, sel := range loadMoreSelectors {
			opCtx, cancel := context.WithTimeout(s.ctx, clickTimeout)
			err := chromedp.Run(opCtx,
				chromedp.ScrollIntoView(sel, chromedp.BySearch),
				chromedp.Click(sel, chromedp.BySearch),
				chromedp.Sleep(settleDelay),
			)
			cancel()
			if err == nil {
				s.log.WithFields(logrus.Fields{
					"attempt":  attempt,
					"selector": shortSelector(sel),
				}).Debug("Clicked load-more control")
				clicked = true
				break
			}
		}
		if !clicked {
			s.log.WithField("attempt", attempt).Debug("No load-more control found")
			return
		}
	}
}

// run executes chromedp actions with the session's navigation timeout.
func (s *Session) run(actions ...chromedp.Action) error {
	opCtx, cancel := context.WithTimeout(s.ctx, s.timeout)
	defer cancel()
	return chromedp.Run(opCtx, actions...)
}

func shortSelector(sel string) string {
	if i := strings.IndexByte(sel, ','); i > 0 && i < 40 {
		return sel[:i]
	}
	if len(sel) > 40 {
		return sel[:40]
	}
	return sel
}
