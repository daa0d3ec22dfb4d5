package event

// Details holds the field values harvested from an event's detail page.
// Empty strings mean the corresponding extractor found nothing.
type Details struct {
	Date        string
	Time        string
	FullAddress string
	Price       string
	Description string
	Organizer   string
}

// Overlay returns a copy of base with every non-empty detail value applied.
// Empty detail values never overwrite listing-derived values, so a failed
// extraction degrades the record instead of erasing it. The input is not
// mutated.
func Overlay(base Event, d Details) Event {
	out := base
	if d.Date != "" {
		out.Date = d.Date
	}
	if d.Time != "" {
		out.Time = d.Time
	}
	if d.FullAddress != "" {
		out.FullAddress = d.FullAddress
	}
	if d.Price != "" {
		out.Price = d.Price
	}
	if d.Description != "" {
		out.Description = d.Description
	}
	if d.Organizer != "" {
		out.Organizer = d.Organizer
	}
	return out
}
