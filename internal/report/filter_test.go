package report

import (
	"testing"

	"github.com/mbellec/bocage/internal/model"
)

func strPtr(v string) *string    { return &v }
func floatPtr(v float64) *float64 { return &v }

func prospect(id int64, ref, name string, score int, mods ...func(*model.ProspectWithStatus)) model.ProspectWithStatus {
	p := model.ProspectWithStatus{
		Prospect: model.Prospect{
			ID:             id,
			ExternalRef:    ref,
			Name:           name,
			RelevanceScore: score,
		},
		Status: model.StatusWaiting,
	}
	for _, mod := range mods {
		mod(&p)
	}
	return p
}

func TestFilter_MinScoreAndSort(t *testing.T) {
	prospects := []model.ProspectWithStatus{
		prospect(1, "T0001", "Alpha", 90),
		prospect(2, "T0002", "Bravo", 40),
		prospect(3, "T0003", "Charlie", 70),
	}

	filtered := Apply(prospects, Filter{MinScore: 50})
	Sort(filtered, SortSpec{Key: SortByScore})

	if len(filtered) != 2 {
		t.Fatalf("expected 2 prospects, got %d", len(filtered))
	}
	if filtered[0].RelevanceScore != 90 || filtered[1].RelevanceScore != 70 {
		t.Errorf("got scores [%d, %d], want [90, 70]",
			filtered[0].RelevanceScore, filtered[1].RelevanceScore)
	}
}

func TestFilter_Match(t *testing.T) {
	certified := prospect(1, "T0100", "GAEC des Ormes", 80, func(p *model.ProspectWithStatus) {
		p.Department = strPtr("35")
		p.Zone = strPtr("North")
		p.Certifications = strPtr("HVE3")
	})
	uncertified := prospect(2, "T0200", "EARL du Vallon", 55, func(p *model.ProspectWithStatus) {
		p.Department = strPtr("22")
		p.Certifications = strPtr("0.0")
	})

	tests := []struct {
		name   string
		filter Filter
		p      model.ProspectWithStatus
		want   bool
	}{
		{name: "empty filter matches everything", filter: Filter{}, p: uncertified, want: true},
		{name: "name substring is case-insensitive", filter: Filter{Search: "ormes"}, p: certified, want: true},
		{name: "external ref substring", filter: Filter{Search: "T02"}, p: uncertified, want: true},
		{name: "search misses", filter: Filter{Search: "zzz"}, p: certified, want: false},
		{name: "department equality", filter: Filter{Department: "35"}, p: certified, want: true},
		{name: "department mismatch", filter: Filter{Department: "35"}, p: uncertified, want: false},
		{name: "zone mismatch when nil", filter: Filter{Zone: "North"}, p: uncertified, want: false},
		{name: "certified-only keeps real markers", filter: Filter{CertifiedOnly: true}, p: certified, want: true},
		{name: "certified-only drops normalized zero", filter: Filter{CertifiedOnly: true}, p: uncertified, want: false},
		{name: "min score inclusive", filter: Filter{MinScore: 55}, p: uncertified, want: true},
		{name: "min score exclusive below", filter: Filter{MinScore: 56}, p: uncertified, want: false},
		{
			name:   "predicates AND together",
			filter: Filter{Search: "GAEC", Department: "22"},
			p:      certified,
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filter.Match(&tt.p); got != tt.want {
				t.Errorf("Match() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDepartmentsAndZones(t *testing.T) {
	prospects := []model.ProspectWithStatus{
		prospect(1, "T0001", "A", 10, func(p *model.ProspectWithStatus) { p.Department = strPtr("35") }),
		prospect(2, "T0002", "B", 10, func(p *model.ProspectWithStatus) { p.Department = strPtr("22") }),
		prospect(3, "T0003", "C", 10, func(p *model.ProspectWithStatus) { p.Department = strPtr("35") }),
		prospect(4, "T0004", "D", 10),
		prospect(5, "T0005", "E", 10, func(p *model.ProspectWithStatus) { p.Zone = strPtr("South") }),
	}

	depts := Departments(prospects)
	if len(depts) != 2 || depts[0] != "22" || depts[1] != "35" {
		t.Errorf("Departments() = %v, want [22 35]", depts)
	}

	zones := Zones(prospects)
	if len(zones) != 1 || zones[0] != "South" {
		t.Errorf("Zones() = %v, want [South]", zones)
	}
}

func TestSort_NullsLastBothDirections(t *testing.T) {
	build := func() []model.ProspectWithStatus {
		return []model.ProspectWithStatus{
			prospect(1, "T0001", "A", 10, func(p *model.ProspectWithStatus) { p.EstimatedAreaHa = floatPtr(30) }),
			prospect(2, "T0002", "B", 10),
			prospect(3, "T0003", "C", 10, func(p *model.ProspectWithStatus) { p.EstimatedAreaHa = floatPtr(80) }),
		}
	}

	desc := build()
	Sort(desc, SortSpec{Key: SortByArea})
	if desc[0].ID != 3 || desc[1].ID != 1 || desc[2].ID != 2 {
		t.Errorf("descending: got order [%d %d %d], want [3 1 2]", desc[0].ID, desc[1].ID, desc[2].ID)
	}

	asc := build()
	Sort(asc, SortSpec{Key: SortByArea, Ascending: true})
	if asc[0].ID != 1 || asc[1].ID != 3 || asc[2].ID != 2 {
		t.Errorf("ascending: got order [%d %d %d], want [1 3 2] with null last", asc[0].ID, asc[1].ID, asc[2].ID)
	}
}

func TestSort_Stable(t *testing.T) {
	prospects := []model.ProspectWithStatus{
		prospect(1, "T0001", "A", 50),
		prospect(2, "T0002", "B", 50),
		prospect(3, "T0003", "C", 50),
	}
	Sort(prospects, SortSpec{Key: SortByScore})
	for i, want := range []int64{1, 2, 3} {
		if prospects[i].ID != want {
			t.Errorf("equal keys reordered: position %d has id %d, want %d", i, prospects[i].ID, want)
		}
	}
}

func TestSortSpec_Toggle(t *testing.T) {
	spec := DefaultSort()
	if spec.Key != SortByScore || spec.Ascending {
		t.Fatalf("DefaultSort() = %+v, want score descending", spec)
	}

	spec = spec.Toggle(SortByScore)
	if !spec.Ascending {
		t.Error("re-selecting the same key must flip direction")
	}

	spec = spec.Toggle(SortByName)
	if spec.Key != SortByName || spec.Ascending {
		t.Errorf("selecting a new key must reset to descending, got %+v", spec)
	}
}
