package model

// ScoreCriterion is one weighted component of a prospect's relevance score.
type ScoreCriterion struct {
	Label     string
	Points    int
	MaxPoints int
	Met       bool
}

// ScoreBreakdown decomposes a stored relevance score into its documented
// criteria. Delta is the part of the stored score not explained by the
// criteria; undocumented signals contribute to the source score, so a
// positive delta is an audit annotation, not an error.
type ScoreBreakdown struct {
	Criteria []ScoreCriterion
	Awarded  int
	Stored   int
	Delta    int
}

// DecomposeScore explains a prospect's relevance score as a fixed, ordered
// list of weighted criteria. Deterministic; no I/O.
func DecomposeScore(p *Prospect) ScoreBreakdown {
	var area, tonnage float64
	if p.EstimatedAreaHa != nil {
		area = *p.EstimatedAreaHa
	}
	if p.TonnageTotal != nil {
		tonnage = *p.TonnageTotal
	}
	var loyalty int
	if p.LoyaltyYears != nil {
		loyalty = *p.LoyaltyYears
	}
	certified := p.Certified()

	criteria := []ScoreCriterion{
		criterion("Area > 0 ha", 30, area > 0),
		criterion("Area > 50 ha", 20, area > 50),
		criterion("Certified (HVE/organic)", 15, certified),
		criterion("Tonnage > 100 t", 10, tonnage > 100),
		criterion("Loyalty >= 3 years", 10, loyalty >= 3),
	}

	awarded := 0
	for _, c := range criteria {
		awarded += c.Points
	}

	return ScoreBreakdown{
		Criteria: criteria,
		Awarded:  awarded,
		Stored:   p.RelevanceScore,
		Delta:    p.RelevanceScore - awarded,
	}
}

func criterion(label string, max int, met bool) ScoreCriterion {
	points := 0
	if met {
		points = max
	}
	return ScoreCriterion{Label: label, Points: points, MaxPoints: max, Met: met}
}
