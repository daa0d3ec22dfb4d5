package event

import "testing"

func TestParseID(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{
			name: "Trailing ID with slash",
			url:  "https://www.lehavre-etretat-tourisme.com/fiche/concert-trio_FMANOR076V50ABCD/",
			want: "FMANOR076V50ABCD",
		},
		{
			name: "Trailing ID without slash",
			url:  "https://example.com/fiche/jazz-club_A1B2C3",
			want: "A1B2C3",
		},
		{
			name: "No ID token",
			url:  "https://example.com/fiche/concert-sans-id/",
			want: "",
		},
		{
			name: "Lowercase token rejected",
			url:  "https://example.com/fiche/concert_abc123/",
			want: "",
		},
		{
			name: "Empty URL",
			url:  "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseID(tt.url); got != tt.want {
				t.Errorf("ParseID(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}

func TestNew(t *testing.T) {
	evt := New("  Concert au Volcan  ", "https://example.com/fiche/volcan_EVT42/", "https://example.com/img.jpg")

	if evt.Title != "Concert au Volcan" {
		t.Errorf("Title = %q, want trimmed title", evt.Title)
	}
	if evt.ID != "EVT42" {
		t.Errorf("ID = %q, want EVT42", evt.ID)
	}
	if evt.ScrapedAt == "" {
		t.Error("ScrapedAt not stamped")
	}
	if evt.Date != "" || evt.Price != "" {
		t.Error("detail fields should start empty")
	}
}

func TestEvent_NormalizedTitle(t *testing.T) {
	evt := &Event{Title: "  Fête de la Musique  "}
	if got := evt.NormalizedTitle(); got != "fête de la musique" {
		t.Errorf("NormalizedTitle() = %q", got)
	}
}
