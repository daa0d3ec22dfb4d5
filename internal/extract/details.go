package extract

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"github.com/jmartel/lehavre-events/internal/event"
)

const (
	// FreeAdmission is the normalized price value for free events.
	FreeAdmission = "Gratuit"

	minDescriptionLen    = 30
	maxDescriptionLen    = 500
	maxDescriptionBlocks = 2

	// maxOrganizerBlockLen guards the organizer scan against container
	// elements: the scan includes div and span wrappers, and a block this
	// long is a surrounding region that merely contains the contact line,
	// not the contact line itself.
	maxOrganizerBlockLen = 300
)

var (
	priceRe = regexp.MustCompile(`(\d+(?:[.,]\d+)?)\s*€`)
	dateRe  = regexp.MustCompile(`\b(\d{1,2}[/-]\d{1,2}[/-]\d{4})\b`)
	timeRe  = regexp.MustCompile(`\b(\d{1,2}[h:]\d{2})\b`)

	emailRe = regexp.MustCompile(`[\w.+-]+@[\w-]+\.[a-zA-Z]{2,}`)
	// A phone label is "tel"/"tél"/"téléphone" followed by separators and a
	// digit. Requiring the digit keeps "hôtel de ville" from matching (\b is
	// ASCII-only in Go regexp, so it sees a boundary inside "hôtel").
	phoneLabelRe = regexp.MustCompile(`(?i)t[ée]l(éphone)?\s*\.?\s*:?\s*\d`)

	// descriptionBoilerplate marks text blocks that are pricing, schedule or
	// contact boilerplate rather than a description.
	descriptionBoilerplate = []string{"tarif", "horaire", "contact"}

	descriptionSelectors = []string{
		".descriptif",
		".description",
		"[class*='descriptif']",
		"[class*='description']",
		".content p",
		".texte",
		"p",
	}
)

// Details runs every field extractor against a rendered detail page.
// Extraction is best-effort: any field may come back empty.
func (x *Extractor) Details(doc *goquery.Document) event.Details {
	return event.Details{
		Date:        x.Date(doc),
		Time:        x.Time(doc),
		FullAddress: x.Address(doc),
		Price:       x.Price(doc),
		Description: x.Description(doc),
		Organizer:   x.Organizer(doc),
	}
}

var priceChain = []strategy{
	{"free-admission", priceFree},
	{"amount-with-currency", priceAmount},
}

// Price returns "Gratuit" for free events, else the first "N€" amount found.
func (x *Extractor) Price(doc *goquery.Document) string {
	return x.runChain(doc, "price", priceChain, nonEmpty)
}

func priceFree(doc *goquery.Document) string {
	if strings.Contains(strings.ToLower(doc.Find("body").Text()), "gratuit") {
		return FreeAdmission
	}
	return ""
}

func priceAmount(doc *goquery.Document) string {
	if m := priceRe.FindStringSubmatch(doc.Find("body").Text()); m != nil {
		return m[1] + "€"
	}
	return ""
}

// Date returns the first DD/MM/YYYY-shaped token in the page, with "-"
// separators normalized to "/". Tokens that still fail to parse as a real
// date are rejected so downstream sorting never sees junk like 45/13/2025.
func (x *Extractor) Date(doc *goquery.Document) string {
	chain := []strategy{{"date-token", func(doc *goquery.Document) string {
		if m := dateRe.FindStringSubmatch(doc.Find("body").Text()); m != nil {
			return strings.ReplaceAll(m[1], "-", "/")
		}
		return ""
	}}}
	return x.runChain(doc, "date", chain, func(s string) bool {
		return !event.ParseDate(s).IsZero()
	})
}

// Time returns the first HH:MM-shaped token, normalizing the French "21h30"
// notation to "21:30".
func (x *Extractor) Time(doc *goquery.Document) string {
	chain := []strategy{{"time-token", func(doc *goquery.Document) string {
		if m := timeRe.FindStringSubmatch(doc.Find("body").Text()); m != nil {
			return strings.Replace(m[1], "h", ":", 1)
		}
		return ""
	}}}
	return x.runChain(doc, "time", chain, nonEmpty)
}

// Description tries candidate containers in priority order, accepting text
// blocks of at least 30 characters that are not boilerplate, joining up to
// two blocks and capping the result at 500 characters.
func (x *Extractor) Description(doc *goquery.Document) string {
	chain := make([]strategy, 0, len(descriptionSelectors))
	for _, sel := range descriptionSelectors {
		sel := sel
		chain = append(chain, strategy{"selector " + sel, func(doc *goquery.Document) string {
			return descriptionFrom(doc, sel)
		}})
	}
	return x.runChain(doc, "description", chain, nonEmpty)
}

func descriptionFrom(doc *goquery.Document, selector string) string {
	var blocks []string
	doc.Find(selector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := strings.TrimSpace(s.Text())
		if utf8.RuneCountInString(text) >= minDescriptionLen && !isBoilerplate(text) {
			blocks = append(blocks, text)
		}
		return len(blocks) < maxDescriptionBlocks
	})
	if len(blocks) == 0 {
		return ""
	}
	joined := strings.Join(blocks, "\n\n")
	if runes := []rune(joined); len(runes) > maxDescriptionLen {
		joined = string(runes[:maxDescriptionLen])
	}
	return joined
}

func isBoilerplate(text string) bool {
	lower := strings.ToLower(text)
	for _, kw := range descriptionBoilerplate {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// Organizer returns the text of the first block carrying contact info: an
// email-like token or a phone label. The block is returned as-is, except that
// oversized blocks are skipped as container dumps; the scan then descends
// into their children, so the actual contact line is still found.
func (x *Extractor) Organizer(doc *goquery.Document) string {
	chain := []strategy{{"contact-block", func(doc *goquery.Document) string {
		found := ""
		doc.Find("p, li, div, span, address").EachWithBreak(func(_ int, s *goquery.Selection) bool {
			text := strings.TrimSpace(s.Text())
			if text == "" || utf8.RuneCountInString(text) >= maxOrganizerBlockLen {
				return true
			}
			if emailRe.MatchString(text) || phoneLabelRe.MatchString(text) {
				found = text
				return false
			}
			return true
		})
		return found
	}}}
	return x.runChain(doc, "organizer", chain, nonEmpty)
}

func nonEmpty(s string) bool { return s != "" }
