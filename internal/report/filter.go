// Package report provides pure functions over the campaign snapshot:
// filtering, sorting, KPI aggregation, pipeline counts and CSV export.
package report

import (
	"sort"
	"strings"

	"github.com/mbellec/bocage/internal/model"
)

// Filter holds the predicate values applied to the prospect list. Zero
// values disable the corresponding predicate; set predicates AND together.
type Filter struct {
	// Search matches the prospect name (case-insensitive substring) or the
	// external reference (substring).
	Search        string
	Department    string
	Zone          string
	CertifiedOnly bool
	MinScore      int
}

// Match reports whether a prospect passes every set predicate.
func (f Filter) Match(p *model.ProspectWithStatus) bool {
	if f.Search != "" {
		name := strings.Contains(strings.ToLower(p.Name), strings.ToLower(f.Search))
		ref := strings.Contains(p.ExternalRef, f.Search)
		if !name && !ref {
			return false
		}
	}
	if f.Department != "" {
		if p.Department == nil || *p.Department != f.Department {
			return false
		}
	}
	if f.Zone != "" {
		if p.Zone == nil || *p.Zone != f.Zone {
			return false
		}
	}
	if f.CertifiedOnly && !p.Certified() {
		return false
	}
	if p.RelevanceScore < f.MinScore {
		return false
	}
	return true
}

// Apply returns the prospects passing the filter, preserving input order.
func Apply(prospects []model.ProspectWithStatus, f Filter) []model.ProspectWithStatus {
	out := make([]model.ProspectWithStatus, 0, len(prospects))
	for i := range prospects {
		if f.Match(&prospects[i]) {
			out = append(out, prospects[i])
		}
	}
	return out
}

// Departments returns the distinct non-empty departments, sorted.
func Departments(prospects []model.ProspectWithStatus) []string {
	return distinct(prospects, func(p *model.ProspectWithStatus) *string { return p.Department })
}

// Zones returns the distinct non-empty zones, sorted.
func Zones(prospects []model.ProspectWithStatus) []string {
	return distinct(prospects, func(p *model.ProspectWithStatus) *string { return p.Zone })
}

func distinct(prospects []model.ProspectWithStatus, field func(*model.ProspectWithStatus) *string) []string {
	seen := make(map[string]struct{})
	for i := range prospects {
		if v := field(&prospects[i]); v != nil && *v != "" {
			seen[*v] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
