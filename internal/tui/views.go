package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mbellec/bocage/internal/cli"
	"github.com/mbellec/bocage/internal/model"
	"github.com/mbellec/bocage/internal/report"
)

// View renders the dashboard.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return cli.SubtleStyle.Render("Loading prospects...")
	}

	sections := []string{
		cli.FormatTitle("Bocage outreach"),
		m.renderKPILine(),
		m.prospects.View(),
		m.renderFooter(),
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderKPILine() string {
	kpis := report.ComputeKPIs(m.rows)
	counts := report.PipelineCounts{}
	if m.snapshot != nil {
		counts = report.CountByStatus(m.snapshot.Prospects)
	}
	recruited := counts[model.StatusRecruited]
	goal := fmt.Sprintf("goal %d/%d (%d%%)",
		recruited, m.goal, report.GoalProgress(recruited, m.goal))

	line := cli.RenderKPIs(kpis) + "  |  " + cli.BoldStyle.Render(goal)
	if m.snapshot != nil && m.snapshot.Truncated.Any() {
		line += "  " + cli.FormatWarning("list truncated")
	}
	return line
}

func (m Model) renderFooter() string {
	if m.filtering {
		return cli.BoldStyle.Render("Filter: ") + m.filterInput.View()
	}

	var parts []string
	if m.filter.Search != "" {
		parts = append(parts, fmt.Sprintf("filter %q", m.filter.Search))
	}
	direction := "desc"
	if m.sortSpec.Ascending {
		direction = "asc"
	}
	parts = append(parts, fmt.Sprintf("sort %s %s", m.sortSpec.Key, direction))

	if m.lastError != nil {
		parts = append(parts, cli.StyleError(m.lastError.Error()))
	} else if m.notice != "" {
		parts = append(parts, cli.StyleSuccess(m.notice))
	}

	help := "/ filter  s sort  o order  r reload  c/i/x/b/g log  q quit"
	return cli.SubtleStyle.Render(strings.Join(parts, "  |  ")) + "\n" + cli.SubtleStyle.Render(help)
}
