package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mbellec/bocage/internal/engine"
	"github.com/mbellec/bocage/internal/model"
	"github.com/mbellec/bocage/internal/report"
)

func testSnapshot() *engine.Snapshot {
	dept61 := "61"
	dept50 := "50"
	return &engine.Snapshot{
		LoadedAt: time.Now(),
		Prospects: []model.ProspectWithStatus{
			{
				Prospect: model.Prospect{ID: 1, ExternalRef: "T0001", Name: "Durand", Department: &dept61, RelevanceScore: 90},
				Status:   model.StatusRecruited,
			},
			{
				Prospect: model.Prospect{ID: 2, ExternalRef: "T0002", Name: "Morel", Department: &dept50, RelevanceScore: 40},
				Status:   model.StatusWaiting,
			},
		},
	}
}

func readyModel(t *testing.T) Model {
	t.Helper()

	m := newModel(context.Background(), Config{Goal: 40})
	m.width = 120
	m.height = 40

	updated, _ := m.Update(snapshotMsg{snap: testSnapshot()})
	result, ok := updated.(Model)
	if !ok {
		t.Fatalf("Update returned %T", updated)
	}
	return result
}

func TestSnapshotPopulatesRows(t *testing.T) {
	m := readyModel(t)

	if len(m.rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(m.rows))
	}
	// Default sort is score descending.
	if m.rows[0].ExternalRef != "T0001" {
		t.Errorf("first row = %s, want T0001", m.rows[0].ExternalRef)
	}
}

func TestFilterNarrowsRows(t *testing.T) {
	m := readyModel(t)

	updated, _ := m.updateList(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'/'}})
	m = updated.(Model)
	if !m.filtering {
		t.Fatal("expected filter mode after /")
	}

	updated, _ = m.updateFilter(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("mor")})
	m = updated.(Model)

	if len(m.rows) != 1 || m.rows[0].Name != "Morel" {
		t.Errorf("filtered rows = %+v", m.rows)
	}

	updated, _ = m.updateFilter(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)
	if m.filtering {
		t.Error("enter should leave filter mode")
	}
}

func TestSortKeyCycles(t *testing.T) {
	m := readyModel(t)

	updated, _ := m.updateList(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}})
	m = updated.(Model)

	if m.sortSpec.Key != report.SortByName {
		t.Errorf("sort key = %s, want name after first cycle", m.sortSpec.Key)
	}
	if m.sortSpec.Ascending {
		t.Error("cycling the key should reset to descending")
	}

	updated, _ = m.updateList(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'o'}})
	m = updated.(Model)
	if !m.sortSpec.Ascending {
		t.Error("o should flip direction")
	}
}

func TestViewShowsGoalProgress(t *testing.T) {
	m := readyModel(t)
	m.ready = true

	view := m.View()
	if !strings.Contains(view, "goal 1/40") {
		t.Errorf("view missing goal progress:\n%s", view)
	}
	if !strings.Contains(view, "Durand") {
		t.Errorf("view missing prospect rows:\n%s", view)
	}
}

func TestErrorShownInFooter(t *testing.T) {
	m := readyModel(t)

	updated, _ := m.Update(errorMsg{err: &engine.FetchError{Err: errFake, Scope: engine.ScopeProspects}})
	m = updated.(Model)

	if m.lastError == nil {
		t.Fatal("expected error to be retained")
	}
	if !strings.Contains(m.renderFooter(), "prospects") {
		t.Errorf("footer missing error scope:\n%s", m.renderFooter())
	}
}

var errFake = errStatic("backend unreachable")

type errStatic string

func (e errStatic) Error() string { return string(e) }
