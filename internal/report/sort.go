package report

import (
	"sort"

	"github.com/mbellec/bocage/internal/model"
)

// SortKey selects the field a prospect list is ordered by.
type SortKey string

// Sortable fields.
const (
	SortByName       SortKey = "name"
	SortByDepartment SortKey = "department"
	SortByZone       SortKey = "zone"
	SortByArea       SortKey = "area"
	SortByScore      SortKey = "score"
)

// SortSpec is a sort key plus direction. The zero direction is descending,
// which matches how score-ranked lists are read.
type SortSpec struct {
	Key       SortKey
	Ascending bool
}

// DefaultSort orders by relevance score, best first.
func DefaultSort() SortSpec {
	return SortSpec{Key: SortByScore}
}

// Toggle returns the spec produced by selecting key: re-selecting the
// current key flips the direction, a new key resets to descending.
func (s SortSpec) Toggle(key SortKey) SortSpec {
	if s.Key == key {
		return SortSpec{Key: key, Ascending: !s.Ascending}
	}
	return SortSpec{Key: key}
}

// Sort orders prospects in place, stably. Null field values sort last
// regardless of direction.
func Sort(prospects []model.ProspectWithStatus, spec SortSpec) {
	sort.SliceStable(prospects, func(i, j int) bool {
		return less(&prospects[i], &prospects[j], spec)
	})
}

func less(a, b *model.ProspectWithStatus, spec SortSpec) bool {
	switch spec.Key {
	case SortByName:
		return compareString(&a.Name, &b.Name, spec.Ascending)
	case SortByDepartment:
		return compareString(a.Department, b.Department, spec.Ascending)
	case SortByZone:
		return compareString(a.Zone, b.Zone, spec.Ascending)
	case SortByArea:
		return compareFloat(a.EstimatedAreaHa, b.EstimatedAreaHa, spec.Ascending)
	case SortByScore:
		av, bv := float64(a.RelevanceScore), float64(b.RelevanceScore)
		return compareFloat(&av, &bv, spec.Ascending)
	}
	return false
}

func compareString(a, b *string, ascending bool) bool {
	if a == nil || b == nil {
		// Nulls last in either direction.
		return b == nil && a != nil
	}
	if *a == *b {
		return false
	}
	if ascending {
		return *a < *b
	}
	return *a > *b
}

func compareFloat(a, b *float64, ascending bool) bool {
	if a == nil || b == nil {
		return b == nil && a != nil
	}
	if *a == *b {
		return false
	}
	if ascending {
		return *a < *b
	}
	return *a > *b
}
