// Package scraper orchestrates the extraction-and-reconciliation pipeline.
//
// A run is strictly sequential: filter expired persisted records, render the
// listing page, then for each genuinely new entry render its detail page,
// extract fields and build the record, and finally merge with the persisted
// set and sort chronologically. Faults are recovered at the narrowest level
// that keeps data: a failed detail fetch keeps the listing-only record, a
// failed listing fetch degrades the whole run to returning the persisted set
// unchanged.
package scraper
