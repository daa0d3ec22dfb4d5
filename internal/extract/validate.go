package extract

import (
	"regexp"
	"strings"
)

// streetTokens is the street-type vocabulary of the modeled region. A line
// mentioning one of these plus a postal code is almost certainly an address.
var streetTokens = []string{
	"rue", "avenue", "place", "boulevard", "chemin",
	"quai", "impasse", "allée", "allee", "esplanade", "route",
}

// cityTokens covers the agglomeration the source site serves. Addresses
// without a postal code are still accepted when they name a known city.
var cityTokens = []string{
	"le havre", "étretat", "etretat", "montivilliers", "harfleur",
	"sainte-adresse", "octeville", "gonfreville", "fécamp", "fecamp",
}

var (
	postalCodeRe  = regexp.MustCompile(`\b\d{5}\b`)
	labelPrefixRe = regexp.MustCompile(`(?i)^(lieu|adresse|address|où)\s*:\s*`)
	whitespaceRe  = regexp.MustCompile(`\s+`)
)

// containsStreetToken reports whether text mentions a known street type.
func containsStreetToken(text string) bool {
	lower := strings.ToLower(text)
	for _, tok := range streetTokens {
		if strings.Contains(lower, tok) {
			return true
		}
	}
	return false
}

// containsCityToken reports whether text names a known city.
func containsCityToken(text string) bool {
	lower := strings.ToLower(text)
	for _, tok := range cityTokens {
		if strings.Contains(lower, tok) {
			return true
		}
	}
	return false
}

// ValidAddress reports whether text is a plausible street address: bounded
// length (whole-page dumps are over-long, fragments too short), a street
// token or 5-digit postal code, and either that postal code or a known city
// name to anchor it geographically.
func ValidAddress(text string) bool {
	n := len(text)
	if n <= 10 || n >= 200 {
		return false
	}
	hasPostal := postalCodeRe.MatchString(text)
	if !containsStreetToken(text) && !hasPostal {
		return false
	}
	return hasPostal || containsCityToken(text)
}

// CleanAddress collapses whitespace runs to single spaces and strips label
// prefixes such as "Lieu :" or "Adresse:" from the start of the string.
func CleanAddress(text string) string {
	text = whitespaceRe.ReplaceAllString(strings.TrimSpace(text), " ")
	text = labelPrefixRe.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}
