// Package event provides types and functions for managing Le Havre agenda events.
//
// The event package handles record representation, date parsing, expiration
// filtering, detail overlaying, merge reconciliation against a persisted set,
// and chronological sorting. Records are identified for deduplication by their
// URL-derived ID when present, falling back to the lowercased title.
package event
