package model

import (
	"testing"
	"time"
)

func TestDeriveStatus(t *testing.T) {
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name         string
		interactions []Interaction
		want         Status
	}{
		{
			name:         "empty history yields waiting",
			interactions: nil,
			want:         StatusWaiting,
		},
		{
			name: "single interaction",
			interactions: []Interaction{
				{ID: 1, Kind: KindCalled, CreatedAt: base},
			},
			want: StatusCalled,
		},
		{
			name: "latest timestamp wins regardless of input order",
			interactions: []Interaction{
				{ID: 1, Kind: KindCalled, CreatedAt: base},
				{ID: 3, Kind: KindRecruited, CreatedAt: base.Add(48 * time.Hour)},
				{ID: 2, Kind: KindInterested, CreatedAt: base.Add(24 * time.Hour)},
			},
			want: StatusRecruited,
		},
		{
			name: "id breaks timestamp ties",
			interactions: []Interaction{
				{ID: 7, Kind: KindRefused, CreatedAt: base},
				{ID: 9, Kind: KindCallback, CreatedAt: base},
				{ID: 8, Kind: KindCalled, CreatedAt: base},
			},
			want: StatusCallback,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeriveStatus(tt.interactions)
			if got != tt.want {
				t.Errorf("DeriveStatus() = %v, want %v", got, tt.want)
			}

			// Result must not depend on input order.
			reversed := make([]Interaction, len(tt.interactions))
			for i, it := range tt.interactions {
				reversed[len(tt.interactions)-1-i] = it
			}
			if got := DeriveStatus(reversed); got != tt.want {
				t.Errorf("DeriveStatus(reversed) = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSortByRecency(t *testing.T) {
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	interactions := []Interaction{
		{ID: 2, Kind: KindCalled, CreatedAt: base},
		{ID: 5, Kind: KindRecruited, CreatedAt: base.Add(time.Hour)},
		{ID: 3, Kind: KindInterested, CreatedAt: base},
	}

	SortByRecency(interactions)

	wantIDs := []int64{5, 3, 2}
	for i, want := range wantIDs {
		if interactions[i].ID != want {
			t.Errorf("position %d: got id %d, want %d", i, interactions[i].ID, want)
		}
	}
}

func TestLatestInteraction(t *testing.T) {
	if got := LatestInteraction(nil); got != nil {
		t.Errorf("LatestInteraction(nil) = %v, want nil", got)
	}

	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	interactions := []Interaction{
		{ID: 1, Kind: KindCalled, CreatedAt: base},
		{ID: 2, Kind: KindInterested, CreatedAt: base.Add(time.Minute)},
	}
	got := LatestInteraction(interactions)
	if got == nil || got.ID != 2 {
		t.Fatalf("LatestInteraction() = %+v, want id 2", got)
	}

	// Returned value must be a copy, not an alias into the slice.
	got.Kind = KindRefused
	if interactions[1].Kind != KindInterested {
		t.Error("LatestInteraction returned an alias into the input slice")
	}
}

func TestParseInteractionKind(t *testing.T) {
	for _, raw := range []string{"called", "interested", "refused", "callback", "recruited"} {
		if _, err := ParseInteractionKind(raw); err != nil {
			t.Errorf("ParseInteractionKind(%q) unexpected error: %v", raw, err)
		}
	}
	if _, err := ParseInteractionKind("ghosted"); err == nil {
		t.Error("ParseInteractionKind(ghosted) expected error, got nil")
	}
}
