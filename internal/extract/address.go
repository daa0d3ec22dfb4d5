package extract

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// venuePatterns match "venue - street - postal code city" shaped strings in
// raw markup, one literal pattern per street-type token.
var venuePatterns = func() []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, 0, len(streetTokens))
	for _, tok := range streetTokens {
		patterns = append(patterns, regexp.MustCompile(fmt.Sprintf(
			`(?i)([\p{L}][\p{L}'’ ]{2,60})\s*[-–]\s*(\d{1,4},?\s*%s[\p{L}'’ ]{1,60})\s*[-–,]?\s*(\d{5})\s+([\p{L}'’ -]{2,40})`, tok)))
	}
	return patterns
}()

// contactLineRe flags lines that are contact info rather than addresses.
// The phone label needs a trailing digit so "hôtel" never trips it.
var contactLineRe = regexp.MustCompile(`(?i)@|https?://|www\.|\bfax\b|t[ée]l(éphone)?\s*\.?\s*:?\s*\d`)

// addressChain lists the address strategies in priority order: structural
// proximity to the heading first, raw-markup scans last.
var addressChain = []strategy{
	{"near-heading", addressNearHeading},
	{"known-containers", addressContainers},
	{"main-content-shape", addressMainContent},
	{"markup-patterns", addressMarkupScan},
	{"microdata", addressMicrodata},
	{"line-scan", addressLineScan},
}

// Address runs the address strategy chain and returns the first candidate
// passing ValidAddress, cleaned, or "".
func (x *Extractor) Address(doc *goquery.Document) string {
	return x.runChain(doc, "full_address", addressChain, ValidAddress)
}

// addressNearHeading looks for address-shaped text structurally close to the
// page's primary heading, where the source site places the venue block.
func addressNearHeading(doc *goquery.Document) string {
	found := ""
	doc.Find("h1, h2, .titre, .title").EachWithBreak(func(_ int, heading *goquery.Selection) bool {
		heading.Parent().Find("*").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
			text := strings.TrimSpace(sel.Text())
			if len(text) > 10 && len(text) < 200 &&
				containsStreetToken(text) && postalCodeRe.MatchString(text) {
				found = CleanAddress(text)
				return false
			}
			return true
		})
		return found == ""
	})
	return found
}

// addressContainers checks elements the site marks as address-bearing.
func addressContainers(doc *goquery.Document) string {
	found := ""
	sel := "address, .adresse, .address, .lieu, .coordonnees, [class*='adresse'], [class*='address']"
	doc.Find(sel).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := CleanAddress(s.Text())
		if text != "" && (containsStreetToken(text) || postalCodeRe.MatchString(text)) {
			found = text
			return false
		}
		return true
	})
	return found
}

// addressMainContent scans the main content region line by line for the
// composite address shape: street token, house number digits, postal code.
func addressMainContent(doc *goquery.Document) string {
	text := doc.Find("main, #content, .content, article, .fiche").Text()
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if len(line) <= 10 || len(line) >= 200 {
			continue
		}
		if containsStreetToken(line) && strings.ContainsAny(line, "0123456789") &&
			postalCodeRe.MatchString(line) {
			return CleanAddress(line)
		}
	}
	return ""
}

// addressMarkupScan regex-scans the raw rendered markup for
// "venue - street - postal city" strings, one pattern per street vocabulary.
func addressMarkupScan(doc *goquery.Document) string {
	html, err := doc.Html()
	if err != nil {
		return ""
	}
	for _, pattern := range venuePatterns {
		if m := pattern.FindStringSubmatch(html); m != nil {
			return CleanAddress(fmt.Sprintf("%s - %s - %s %s",
				strings.TrimSpace(m[1]), strings.TrimSpace(m[2]), m[3], strings.TrimSpace(m[4])))
		}
	}
	return ""
}

// addressMicrodata reads semantic address markup when the site provides it.
func addressMicrodata(doc *goquery.Document) string {
	found := ""
	doc.Find("[itemprop='streetAddress'], [itemprop='address']").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := CleanAddress(s.Text())
		if len(text) > 10 {
			found = text
			return false
		}
		return true
	})
	return found
}

// addressLineScan is the last resort: any body-text line carrying a postal
// code and a street token, excluding lines that look like contact info.
func addressLineScan(doc *goquery.Document) string {
	text := doc.Find("body").Text()
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || contactLineRe.MatchString(line) {
			continue
		}
		if postalCodeRe.MatchString(line) && containsStreetToken(line) {
			return CleanAddress(line)
		}
	}
	return ""
}
