package event

// MergeResult reports what a merge did, for logging and the run summary.
type MergeResult struct {
	Events  []*Event
	Added   int
	Skipped int
}

// Merge reconciles a persisted record set with freshly extracted records.
//
// Persisted records are kept in their original order. A fresh record is
// skipped when its non-empty ID or its lowercased title is already known;
// otherwise it is appended and its ID/title are registered, so a later fresh
// record duplicating it is skipped too (first wins within a batch). Final
// ordering is the sorter's job, not Merge's.
func Merge(persisted, fresh []*Event) MergeResult {
	knownIDs := make(map[string]bool, len(persisted))
	knownTitles := make(map[string]bool, len(persisted))
	for _, evt := range persisted {
		if evt.ID != "" {
			knownIDs[evt.ID] = true
		}
		knownTitles[evt.NormalizedTitle()] = true
	}

	merged := make([]*Event, len(persisted), len(persisted)+len(fresh))
	copy(merged, persisted)

	result := MergeResult{}
	for _, evt := range fresh {
		if evt.ID != "" && knownIDs[evt.ID] {
			result.Skipped++
			continue
		}
		if knownTitles[evt.NormalizedTitle()] {
			result.Skipped++
			continue
		}
		merged = append(merged, evt)
		if evt.ID != "" {
			knownIDs[evt.ID] = true
		}
		knownTitles[evt.NormalizedTitle()] = true
		result.Added++
	}

	result.Events = merged
	return result
}

// Known reports whether a fresh candidate duplicates any record in the set,
// by ID or by normalized title. Used to avoid re-fetching detail pages for
// events that survived from the previous run.
func Known(events []*Event, candidate *Event) bool {
	for _, evt := range events {
		if candidate.ID != "" && evt.ID == candidate.ID {
			return true
		}
		if evt.NormalizedTitle() == candidate.NormalizedTitle() {
			return true
		}
	}
	return false
}
