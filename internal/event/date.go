package event

import "time"

// ParseDate parses an event date in DD/MM/YYYY form into a time.Time.
// Returns time.Time{} (zero value) if the text is empty or does not match.
func ParseDate(dateText string) time.Time {
	if dateText == "" {
		return time.Time{}
	}

	t, err := time.Parse("02/01/2006", dateText)
	if err == nil {
		return t
	}

	// Tolerate single-digit day/month, e.g. "5/3/2026".
	t, err = time.Parse("2/1/2006", dateText)
	if err == nil {
		return t
	}

	return time.Time{}
}

// IsExpired reports whether the event's date is more than one day in the past.
// Returns false if the date is empty or unparsable (safer default: keep the
// record rather than drop it on uncertainty).
func (e *Event) IsExpired(now time.Time) bool {
	parsed := ParseDate(e.Date)
	if parsed.IsZero() {
		return false
	}
	return parsed.Before(now.AddDate(0, 0, -1))
}

// FilterExpired returns the events that are not expired relative to now,
// preserving order. The count of removed records is returned alongside.
func FilterExpired(events []*Event, now time.Time) ([]*Event, int) {
	kept := make([]*Event, 0, len(events))
	removed := 0
	for _, evt := range events {
		if evt.IsExpired(now) {
			removed++
			continue
		}
		kept = append(kept, evt)
	}
	return kept, removed
}
