package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mbellec/bocage/internal/model"
	"github.com/mbellec/bocage/internal/report"
)

// prospectColumns defines the list view layout.
var prospectColumns = []struct {
	title string
	width int
}{
	{"REF", 7},
	{"NAME", 24},
	{"DEPT", 5},
	{"ZONE", 16},
	{"AREA", 7},
	{"SCORE", 6},
	{"STATUS", 12},
}

// RenderProspectTable renders prospects as a fixed-width table. A limit of
// zero renders every row.
func RenderProspectTable(prospects []model.ProspectWithStatus, limit int) string {
	var b strings.Builder

	headers := make([]string, len(prospectColumns))
	for i, col := range prospectColumns {
		headers[i] = TableCellStyle.Render(pad(col.title, col.width))
	}
	b.WriteString(TableHeaderStyle.Render(lipgloss.JoinHorizontal(lipgloss.Top, headers...)))
	b.WriteString("\n")

	shown := len(prospects)
	if limit > 0 && shown > limit {
		shown = limit
	}

	for i := 0; i < shown; i++ {
		p := &prospects[i]
		area := ""
		if p.EstimatedAreaHa != nil {
			area = fmt.Sprintf("%.0f", *p.EstimatedAreaHa)
		}
		cells := []string{
			pad(p.ExternalRef, prospectColumns[0].width),
			pad(p.Name, prospectColumns[1].width),
			pad(derefOr(p.Department, ""), prospectColumns[2].width),
			pad(derefOr(p.Zone, ""), prospectColumns[3].width),
			pad(area, prospectColumns[4].width),
			pad(fmt.Sprintf("%d", p.RelevanceScore), prospectColumns[5].width),
		}
		for j := range cells {
			cells[j] = TableCellStyle.Render(cells[j])
		}
		cells = append(cells, StyleStatus(p.Status))
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cells...))
		b.WriteString("\n")
	}

	if shown < len(prospects) {
		b.WriteString(SubtleStyle.Render(fmt.Sprintf("... and %d more", len(prospects)-shown)))
		b.WriteString("\n")
	}
	return b.String()
}

// RenderScoreBreakdown renders a prospect's score decomposition with one line
// per criterion.
func RenderScoreBreakdown(p *model.Prospect, breakdown model.ScoreBreakdown) string {
	var b strings.Builder

	for _, c := range breakdown.Criteria {
		mark := SubtleStyle.Render("·")
		points := SubtleStyle.Render(fmt.Sprintf("0/%d", c.MaxPoints))
		if c.Met {
			mark = SuccessStyle.Render(SuccessIcon)
			points = SuccessStyle.Render(fmt.Sprintf("%d/%d", c.Points, c.MaxPoints))
		}
		b.WriteString(fmt.Sprintf("%s %s %s\n", mark, pad(c.Label, 30), points))
	}

	b.WriteString("\n")
	b.WriteString(BoldStyle.Render(fmt.Sprintf("Computed: %d", breakdown.Awarded)))
	b.WriteString(SubtleStyle.Render(fmt.Sprintf("  stored: %d", breakdown.Stored)))
	if breakdown.Delta != 0 {
		b.WriteString("  " + FormatWarning(fmt.Sprintf("drift %+d", breakdown.Delta)))
	}
	b.WriteString("\n")

	return RenderBox(fmt.Sprintf("%s (%s)", p.Name, p.ExternalRef), b.String())
}

// RenderKPIs renders the dashboard indicators on one line.
func RenderKPIs(k report.KPIs) string {
	parts := []string{
		fmt.Sprintf("%s %d prospects", ChartIcon, k.Count),
		fmt.Sprintf("%.0f ha", k.TotalAreaHa),
		fmt.Sprintf("%d%% certified", k.CertifiedPct),
		fmt.Sprintf("mean score %d", k.MeanScore),
	}
	return InfoStyle.Render(strings.Join(parts, "  |  "))
}

// RenderPipeline renders per-status counts plus progress toward the recruit
// goal.
func RenderPipeline(counts report.PipelineCounts, goal int) string {
	var b strings.Builder

	for _, status := range model.AllStatuses {
		b.WriteString(fmt.Sprintf("%s %d\n", pad(StyleStatus(status), 24), counts[status]))
	}

	recruited := counts[model.StatusRecruited]
	pct := report.GoalProgress(recruited, goal)
	b.WriteString("\n")
	b.WriteString(BoldStyle.Render(fmt.Sprintf("Goal: %d/%d recruited (%d%%)", recruited, goal, pct)))
	b.WriteString("\n" + renderGauge(pct, 30))

	return RenderBox("Pipeline", b.String())
}

// RenderRecentInteractions renders the newest interactions, one per line.
// names maps prospect ids to display names; unknown ids fall back to the id.
func RenderRecentInteractions(interactions []model.Interaction, names map[int64]string, limit int) string {
	if len(interactions) == 0 {
		return SubtleStyle.Render("No interactions yet") + "\n"
	}

	shown := len(interactions)
	if limit > 0 && shown > limit {
		shown = limit
	}

	var b strings.Builder
	b.WriteString(BoldStyle.Render("Recent interactions"))
	b.WriteString("\n")
	for i := 0; i < shown; i++ {
		it := &interactions[i]
		name, ok := names[it.ProspectID]
		if !ok {
			name = fmt.Sprintf("#%d", it.ProspectID)
		}
		line := fmt.Sprintf("%s  %s %s",
			SubtleStyle.Render(it.CreatedAt.Format("2006-01-02 15:04")),
			pad(name, 24),
			StyleStatus(model.Status(it.Kind)))
		if it.Notes != nil && *it.Notes != "" {
			line += "  " + SubtleStyle.Render(*it.Notes)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

// renderGauge draws a simple progress gauge of the given width.
func renderGauge(pct, width int) string {
	filled := pct * width / 100
	if filled > width {
		filled = width
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return SuccessStyle.Render(bar)
}

func pad(s string, width int) string {
	if lipgloss.Width(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-lipgloss.Width(s))
}

func derefOr(s *string, fallback string) string {
	if s == nil {
		return fallback
	}
	return *s
}
