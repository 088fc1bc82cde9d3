package report

import (
	"math"

	"github.com/mbellec/bocage/internal/model"
)

// KPIs aggregates the filtered prospect set for the dashboard header. All
// fields are zero on empty input; there is no division anywhere a zero
// denominator can reach.
type KPIs struct {
	Count        int
	TotalAreaHa  float64
	CertifiedPct int
	MeanScore    int
}

// ComputeKPIs aggregates a filtered prospect list. Nil areas count as zero.
func ComputeKPIs(filtered []model.ProspectWithStatus) KPIs {
	k := KPIs{Count: len(filtered)}
	if k.Count == 0 {
		return k
	}

	certified := 0
	scoreSum := 0
	for i := range filtered {
		p := &filtered[i]
		if p.EstimatedAreaHa != nil {
			k.TotalAreaHa += *p.EstimatedAreaHa
		}
		if p.Certified() {
			certified++
		}
		scoreSum += p.RelevanceScore
	}

	k.CertifiedPct = int(math.Round(float64(certified) / float64(k.Count) * 100))
	k.MeanScore = int(math.Round(float64(scoreSum) / float64(k.Count)))
	return k
}

// PipelineCounts tallies derived statuses over the unfiltered set, one
// bucket per status value.
type PipelineCounts map[model.Status]int

// CountByStatus builds the pipeline counters used for campaign-progress
// reporting. Every status appears as a key, including empty buckets.
func CountByStatus(all []model.ProspectWithStatus) PipelineCounts {
	counts := make(PipelineCounts, len(model.AllStatuses))
	for _, s := range model.AllStatuses {
		counts[s] = 0
	}
	for i := range all {
		counts[all[i].Status]++
	}
	return counts
}

// GoalProgress returns recruited/goal as a percentage clamped to [0,100].
// A non-positive goal yields 0 rather than dividing by it.
func GoalProgress(recruited, goal int) int {
	if goal <= 0 || recruited <= 0 {
		return 0
	}
	pct := int(math.Round(float64(recruited) / float64(goal) * 100))
	if pct > 100 {
		return 100
	}
	return pct
}
