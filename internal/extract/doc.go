// Package extract pulls structured event fields out of rendered agenda pages.
//
// Each detail-page field (address, price, date, time, description, organizer)
// is extracted by an ordered chain of heuristic strategies evaluated
// left-to-right; the first candidate accepted by the field's validity
// predicate wins and later strategies are skipped. A fault inside one
// strategy skips that strategy only, never the whole extraction. The package
// also parses listing-page cards into minimal event records.
package extract
