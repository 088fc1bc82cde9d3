// Package tui is the interactive campaign dashboard.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mbellec/bocage/internal/engine"
	"github.com/mbellec/bocage/internal/model"
	"github.com/mbellec/bocage/internal/report"
)

// Config holds the dashboard dependencies.
type Config struct {
	Coordinator *engine.Coordinator
	Goal        int
}

// Model holds the dashboard state.
type Model struct {
	ctx         context.Context
	coordinator *engine.Coordinator
	snapshot    *engine.Snapshot
	lastError   error
	notice      string
	rows        []model.ProspectWithStatus
	prospects   table.Model
	filterInput textinput.Model
	filter      report.Filter
	sortSpec    report.SortSpec
	keymap      KeyMap
	goal        int
	width       int
	height      int
	filtering   bool
	ready       bool
	quitting    bool
}

func newModel(ctx context.Context, cfg Config) Model {
	input := textinput.New()
	input.Placeholder = "name or reference"
	input.CharLimit = 64

	columns := []table.Column{
		{Title: "Ref", Width: 7},
		{Title: "Name", Width: 24},
		{Title: "Dept", Width: 5},
		{Title: "Zone", Width: 16},
		{Title: "Area", Width: 7},
		{Title: "Score", Width: 6},
		{Title: "Status", Width: 12},
	}
	tbl := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
	)

	return Model{
		ctx:         ctx,
		coordinator: cfg.Coordinator,
		goal:        cfg.Goal,
		keymap:      DefaultKeyMap(),
		filterInput: input,
		prospects:   tbl,
		sortSpec:    report.DefaultSort(),
	}
}

// Init starts the first load.
func (m Model) Init() tea.Cmd {
	return tea.Batch(tea.EnterAltScreen, m.loadCmd(false))
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.prospects.SetWidth(msg.Width - 4)
		m.prospects.SetHeight(max(msg.Height-10, 5))
		return m, nil

	case snapshotMsg:
		m.snapshot = msg.snap
		m.lastError = nil
		m.ready = true
		m.refreshRows()
		return m, nil

	case errorMsg:
		m.lastError = msg.err
		m.ready = true
		return m, nil

	case noticeMsg:
		m.notice = msg.text
		return m, nil

	case tea.KeyMsg:
		if m.filtering {
			return m.updateFilter(msg)
		}
		return m.updateList(msg)
	}

	var cmd tea.Cmd
	m.prospects, cmd = m.prospects.Update(msg)
	return m, cmd
}

func (m Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		m.filtering = false
		m.filterInput.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.filterInput, cmd = m.filterInput.Update(msg)
	m.filter.Search = m.filterInput.Value()
	m.refreshRows()
	return m, cmd
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Filter):
		m.filtering = true
		m.filterInput.Focus()
		return m, textinput.Blink

	case key.Matches(msg, m.keymap.Sort):
		m.sortSpec = report.SortSpec{Key: nextSortKey(m.sortSpec.Key)}
		m.refreshRows()
		return m, nil

	case key.Matches(msg, m.keymap.Order):
		m.sortSpec.Ascending = !m.sortSpec.Ascending
		m.refreshRows()
		return m, nil

	case key.Matches(msg, m.keymap.Reload):
		return m, m.loadCmd(false)

	case key.Matches(msg, m.keymap.Called):
		return m, m.logCmd(model.KindCalled)
	case key.Matches(msg, m.keymap.Interested):
		return m, m.logCmd(model.KindInterested)
	case key.Matches(msg, m.keymap.Refused):
		return m, m.logCmd(model.KindRefused)
	case key.Matches(msg, m.keymap.Callback):
		return m, m.logCmd(model.KindCallback)
	case key.Matches(msg, m.keymap.Recruited):
		return m, m.logCmd(model.KindRecruited)
	}

	var cmd tea.Cmd
	m.prospects, cmd = m.prospects.Update(msg)
	return m, cmd
}

// loadCmd triggers a coordinator load. A superseded load is not an error;
// whichever load won has already published its snapshot.
func (m Model) loadCmd(silent bool) tea.Cmd {
	return func() tea.Msg {
		snap, err := m.coordinator.Load(m.ctx, silent)
		if err != nil {
			if errors.Is(err, engine.ErrSuperseded) {
				return snapshotMsg{snap: m.coordinator.State().Current()}
			}
			return errorMsg{err: err}
		}
		return snapshotMsg{snap: snap}
	}
}

// logCmd appends an interaction for the selected prospect.
func (m Model) logCmd(kind model.InteractionKind) tea.Cmd {
	selected := m.selectedProspect()
	if selected == nil {
		return nil
	}
	id := selected.ID
	name := selected.Name

	return func() tea.Msg {
		if err := m.coordinator.AppendInteraction(m.ctx, id, kind, nil); err != nil {
			return errorMsg{err: err}
		}
		return tea.Batch(
			func() tea.Msg { return snapshotMsg{snap: m.coordinator.State().Current()} },
			func() tea.Msg { return noticeMsg{text: fmt.Sprintf("%s: %s", name, model.Status(kind).Label())} },
		)()
	}
}

func (m *Model) selectedProspect() *model.ProspectWithStatus {
	cursor := m.prospects.Cursor()
	if cursor < 0 || cursor >= len(m.rows) {
		return nil
	}
	return &m.rows[cursor]
}

// refreshRows reapplies filter and sort to the current snapshot.
func (m *Model) refreshRows() {
	if m.snapshot == nil {
		m.rows = nil
		m.prospects.SetRows(nil)
		return
	}

	m.rows = report.Apply(m.snapshot.Prospects, m.filter)
	report.Sort(m.rows, m.sortSpec)

	rows := make([]table.Row, 0, len(m.rows))
	for i := range m.rows {
		p := &m.rows[i]
		area := ""
		if p.EstimatedAreaHa != nil {
			area = strconv.FormatFloat(*p.EstimatedAreaHa, 'f', 0, 64)
		}
		rows = append(rows, table.Row{
			p.ExternalRef,
			p.Name,
			orEmpty(p.Department),
			orEmpty(p.Zone),
			area,
			strconv.Itoa(p.RelevanceScore),
			p.Status.Label(),
		})
	}
	m.prospects.SetRows(rows)
}

func nextSortKey(current report.SortKey) report.SortKey {
	order := []report.SortKey{
		report.SortByScore,
		report.SortByName,
		report.SortByDepartment,
		report.SortByZone,
		report.SortByArea,
	}
	for i, k := range order {
		if k == current {
			return order[(i+1)%len(order)]
		}
	}
	return report.SortByScore
}

func orEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
