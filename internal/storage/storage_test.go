package storage

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/jmartel/lehavre-events/internal/event"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)

	store, err := New(filepath.Join(t.TempDir(), "events.json"), log)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return store
}

func TestStore_SaveAndLoad(t *testing.T) {
	store := newTestStore(t)

	events := []*event.Event{
		{
			ID:          "FMANOR076V501AAA",
			Title:       "Fête de la Musique",
			Date:        "21/06/2026",
			Time:        "18:00",
			FullAddress: "2 Rue des Etoupières - 76600 LE HAVRE",
			Price:       "Gratuit",
		},
		{Title: "Récital d'orgue"},
	}

	if err := store.Save(events); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	loaded := store.Load()
	if len(loaded) != 2 {
		t.Fatalf("Load() returned %d events, want 2", len(loaded))
	}
	if loaded[0].Title != "Fête de la Musique" {
		t.Errorf("Title = %q", loaded[0].Title)
	}
	if loaded[0].Date != "21/06/2026" || loaded[0].Price != "Gratuit" {
		t.Errorf("fields lost in roundtrip: %+v", loaded[0])
	}
}

func TestStore_SaveWritesLiteralUTF8(t *testing.T) {
	store := newTestStore(t)

	if err := store.Save([]*event.Event{{Title: "Fête de l'Été"}}); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	data, err := os.ReadFile(store.Path())
	if err != nil {
		t.Fatalf("reading saved file: %v", err)
	}
	if !strings.Contains(string(data), "Fête de l'Été") {
		t.Errorf("accented characters were escaped:\n%s", data)
	}
	if strings.Contains(string(data), `\u0`) {
		t.Errorf("found unicode escapes in output:\n%s", data)
	}
}

func TestStore_SaveWritesMetadataArtifact(t *testing.T) {
	store := newTestStore(t)

	events := []*event.Event{{Title: "Concert"}, {Title: "Récital"}}
	if err := store.Save(events); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	data, err := os.ReadFile(store.MetadataPath())
	if err != nil {
		t.Fatalf("metadata artifact missing: %v", err)
	}

	var wrapped struct {
		Metadata struct {
			LastUpdated    string `json:"last_updated"`
			TotalEvents    int    `json:"total_events"`
			ScraperVersion string `json:"scraper_version"`
		} `json:"metadata"`
		Events []*event.Event `json:"events"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		t.Fatalf("metadata artifact is not valid JSON: %v", err)
	}

	if wrapped.Metadata.TotalEvents != 2 {
		t.Errorf("total_events = %d, want 2", wrapped.Metadata.TotalEvents)
	}
	if wrapped.Metadata.ScraperVersion != Version {
		t.Errorf("scraper_version = %q, want %q", wrapped.Metadata.ScraperVersion, Version)
	}
	if wrapped.Metadata.LastUpdated == "" {
		t.Error("last_updated not set")
	}
	if len(wrapped.Events) != 2 {
		t.Errorf("metadata events = %d, want 2", len(wrapped.Events))
	}
}

func TestStore_LoadMissingFile(t *testing.T) {
	store := newTestStore(t)

	if events := store.Load(); len(events) != 0 {
		t.Errorf("Load() on missing file = %d events, want 0", len(events))
	}
}

func TestStore_LoadMalformedFile(t *testing.T) {
	store := newTestStore(t)

	if err := os.WriteFile(store.Path(), []byte("{{{not json"), 0644); err != nil {
		t.Fatalf("writing malformed file: %v", err)
	}

	if events := store.Load(); len(events) != 0 {
		t.Errorf("Load() on malformed file = %d events, want 0", len(events))
	}
}

func TestStore_SaveNilWritesEmptyArray(t *testing.T) {
	store := newTestStore(t)

	if err := store.Save(nil); err != nil {
		t.Fatalf("Save(nil) error: %v", err)
	}

	data, err := os.ReadFile(store.Path())
	if err != nil {
		t.Fatalf("reading saved file: %v", err)
	}
	if !strings.HasPrefix(strings.TrimSpace(string(data)), "[") {
		t.Errorf("nil events should serialize as an array, got:\n%s", data)
	}
}
