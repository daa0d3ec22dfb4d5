// Package cli implements the command-line interface for lehavre-events.
//
// The cli package provides the Cobra-based entry point that wires the
// browser session, scraper, and storage together for one full pipeline run.
// No flag is required; defaults run headless against the modeled agenda
// site. The process exits 0 when at least one record was produced and
// saved, 1 otherwise.
package cli
