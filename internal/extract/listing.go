package extract

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"

	"github.com/jmartel/lehavre-events/internal/event"
)

// maxListingCards bounds how many cards a single listing render can yield,
// even after "load more" expansion.
const maxListingCards = 48

// listingSelectors locate detail links on the listing page, tried in order;
// the first selector yielding any link wins.
var listingSelectors = []string{
	"a[href*='/fiche/']",
	".event-card a",
	".card a",
	"article a",
	".item a",
}

// Listing parses the rendered listing page into minimal event records:
// title, ID, detail URL and image. Entries without a derivable title are
// dropped; duplicate detail URLs within one page are collapsed.
func (x *Extractor) Listing(doc *goquery.Document, baseURL string) []*event.Event {
	links := findDetailLinks(doc)
	x.log.WithField("links", links.Length()).Debug("Listing links located")

	events := make([]*event.Event, 0, links.Length())
	seen := make(map[string]bool)

	links.EachWithBreak(func(_ int, link *goquery.Selection) bool {
		href, ok := link.Attr("href")
		if !ok || !strings.Contains(href, "/fiche/") {
			return true
		}
		detailURL := resolveURL(baseURL, href)
		if seen[detailURL] {
			return true
		}

		card := cardContainer(link)
		title := cardTitle(card, link)
		if title == "" {
			x.log.WithField("url", detailURL).Debug("Skipping card without title")
			return true
		}

		evt := event.New(title, detailURL, cardImage(card, baseURL))
		events = append(events, evt)
		seen[detailURL] = true
		x.log.WithFields(logrus.Fields{"title": title, "id": evt.ID}).Debug("Listing entry parsed")

		return len(events) < maxListingCards
	})

	return events
}

// findDetailLinks tries the card selectors in order, falling back to every
// anchor on the page filtered by the detail-URL pattern.
func findDetailLinks(doc *goquery.Document) *goquery.Selection {
	for _, sel := range listingSelectors {
		links := doc.Find(sel)
		if links.Length() > 0 {
			return links
		}
	}
	return doc.Find("a").FilterFunction(func(_ int, s *goquery.Selection) bool {
		href, ok := s.Attr("href")
		return ok && strings.Contains(href, "/fiche/")
	})
}

// cardContainer walks up from a detail link to the element holding the whole
// card, preferring an article or a div with a card-like class, up to three
// levels.
func cardContainer(link *goquery.Selection) *goquery.Selection {
	node := link
	for i := 0; i < 3; i++ {
		parent := node.Parent()
		if parent.Length() == 0 || parent.Is("body") || parent.Is("html") {
			break
		}
		if parent.Is("article") {
			return parent
		}
		if class, ok := parent.Attr("class"); ok && parent.Is("div") && strings.Contains(class, "card") {
			return parent
		}
		node = parent
	}
	return node
}

// cardTitle reads the card's heading, falling back to the link text.
func cardTitle(card, link *goquery.Selection) string {
	title := strings.TrimSpace(card.Find("h1, h2, h3, h4, .title, .heading").First().Text())
	if title == "" {
		title = strings.TrimSpace(link.Text())
	}
	return title
}

// cardImage returns the card's image URL, resolved against the site base
// when relative.
func cardImage(card *goquery.Selection, baseURL string) string {
	src, ok := card.Find("img").First().Attr("src")
	if !ok || src == "" {
		return ""
	}
	return resolveURL(baseURL, src)
}

// resolveURL makes href absolute against base; on parse failure the href is
// returned unchanged.
func resolveURL(base, href string) string {
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	b, err := url.Parse(base)
	if err != nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return b.ResolveReference(ref).String()
}
