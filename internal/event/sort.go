package event

import (
	"sort"
	"time"
)

// SortByDate orders events chronologically in place. Records whose date is
// empty or unparsable sort after every dated record, keeping their original
// relative order (stable sort with a far-future sentinel key).
func SortByDate(events []*Event, now time.Time) {
	sentinel := now.AddDate(0, 0, 365)
	key := func(evt *Event) time.Time {
		parsed := ParseDate(evt.Date)
		if parsed.IsZero() {
			return sentinel
		}
		return parsed
	}

	sort.SliceStable(events, func(i, j int) bool {
		return key(events[i]).Before(key(events[j]))
	})
}
