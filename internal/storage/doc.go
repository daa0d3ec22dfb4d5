// Package storage provides JSON-based persistence for the event dataset.
//
// The canonical output is a pretty-printed JSON array of events; a sibling
// *_with_metadata.json file carries the same events wrapped with a
// last-updated timestamp and counts for monitoring. Both files are UTF-8
// with non-ASCII characters written literally. A missing or malformed data
// file loads as an empty set; only a failed save is an error.
package storage
