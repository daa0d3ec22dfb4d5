package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/jmartel/lehavre-events/internal/event"
)

// Version identifies the dataset format in the metadata artifact.
const Version = "2.0"

// Store persists the event dataset to a JSON file.
type Store struct {
	path string
	log  logrus.FieldLogger
}

// New creates a Store writing to path, expanding a leading ~/ and creating
// parent directories as needed.
func New(path string, log logrus.FieldLogger) (*Store, error) {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		path = filepath.Join(home, path[2:])
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
	}

	return &Store{path: path, log: log}, nil
}

// Path returns the canonical data file location.
func (s *Store) Path() string { return s.path }

// MetadataPath returns the location of the monitoring artifact.
func (s *Store) MetadataPath() string {
	return strings.TrimSuffix(s.path, ".json") + "_with_metadata.json"
}

// Load reads the persisted event set. A missing file is an empty set;
// malformed content is logged and treated as empty rather than crashing the
// run, since the pipeline can rebuild the dataset from scratch.
func (s *Store) Load() []*event.Event {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.log.WithField("path", s.path).Info("No existing events file found")
			return nil
		}
		s.log.WithError(err).Warn("Reading events file failed, starting empty")
		return nil
	}

	var events []*event.Event
	if err := json.Unmarshal(data, &events); err != nil {
		s.log.WithError(err).Warn("Events file is malformed, starting empty")
		return nil
	}

	s.log.WithField("count", len(events)).Info("Loaded existing events")
	return events
}

// metadata describes the dataset for monitoring.
type metadata struct {
	LastUpdated    string `json:"last_updated"`
	TotalEvents    int    `json:"total_events"`
	ScraperVersion string `json:"scraper_version"`
}

// metadataFile wraps the events with dataset metadata.
type metadataFile struct {
	Metadata metadata       `json:"metadata"`
	Events   []*event.Event `json:"events"`
}

// Save writes the canonical events file and the metadata artifact. A save
// failure is the run's only fatal fault: the whole point of a run is an
// updated store.
func (s *Store) Save(events []*event.Event) error {
	if events == nil {
		events = []*event.Event{}
	}

	if err := writeJSON(s.path, events); err != nil {
		return fmt.Errorf("writing events file: %w", err)
	}
	s.log.WithFields(logrus.Fields{"path": s.path, "count": len(events)}).Info("Events saved")

	wrapped := metadataFile{
		Metadata: metadata{
			LastUpdated:    time.Now().UTC().Format(time.RFC3339),
			TotalEvents:    len(events),
			ScraperVersion: Version,
		},
		Events: events,
	}
	if err := writeJSON(s.MetadataPath(), wrapped); err != nil {
		return fmt.Errorf("writing metadata file: %w", err)
	}

	return nil
}

// writeJSON pretty-prints v to path in UTF-8 with non-ASCII characters
// written literally (the dataset is full of accented French text).
func writeJSON(path string, v interface{}) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(f)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
