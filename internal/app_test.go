package internal

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/topix-dev/topix/internal/command"
	"github.com/topix-dev/topix/internal/keymap"
	"github.com/topix-dev/topix/internal/message"
	"github.com/topix-dev/topix/internal/model"
	"github.com/topix-dev/topix/internal/overlay"
	"github.com/topix-dev/topix/internal/panel"
	"github.com/topix-dev/topix/internal/query"
	"github.com/topix-dev/topix/internal/search"
)

func testModel() Model {
	m := InitialModel(Config{
		KeyMap: keymap.DefaultKeyMap(),
		Topics: []string{"orders"},
	})
	m.width, m.height = 120, 40
	m = initializePanels(m)
	m.search = search.New(m.width)
	m.initialized = true
	return m
}

func TestHelpTogglesOnAndOff(t *testing.T) {
	m := testModel()

	m, _ = m.handleKeyMsg(tea.KeyMsg{Type: tea.KeyCtrlH})
	if m.overlays.Top() != overlay.Help {
		t.Fatalf("got %v, want Help", m.overlays.Top())
	}

	m, _ = m.handleKeyMsg(tea.KeyMsg{Type: tea.KeyCtrlH})
	if !m.overlays.Empty() {
		t.Errorf("second ctrl+h should close help, got %v", m.overlays.Top())
	}
}

func TestOverlaysCloseMostRecentFirst(t *testing.T) {
	m := testModel()

	m, _ = m.handleKeyMsg(tea.KeyMsg{Type: tea.KeyCtrlH})
	m, _ = m.handleKeyMsg(tea.KeyMsg{Type: tea.KeyCtrlO})
	if m.overlays.Top() != overlay.Topics {
		t.Fatalf("got %v, want Topics", m.overlays.Top())
	}

	m, _ = m.handleKeyMsg(tea.KeyMsg{Type: tea.KeyEscape})
	if m.overlays.Top() != overlay.Help {
		t.Errorf("first esc should reveal help, got %v", m.overlays.Top())
	}
	m, _ = m.handleKeyMsg(tea.KeyMsg{Type: tea.KeyEscape})
	if !m.overlays.Empty() {
		t.Errorf("second esc should close everything, got %v", m.overlays.Top())
	}
}

func TestTabCyclesThroughAllPanels(t *testing.T) {
	m := testModel()
	start := m.ring.Current()

	seen := map[panel.Type]bool{start: true}
	for i := 0; i < m.ring.Len()-1; i++ {
		m, _ = m.handleKeyMsg(tea.KeyMsg{Type: tea.KeyTab})
		seen[m.ring.Current()] = true
	}
	if len(seen) != m.ring.Len() {
		t.Errorf("tab visited %d panels, want %d", len(seen), m.ring.Len())
	}

	m, _ = m.handleKeyMsg(tea.KeyMsg{Type: tea.KeyTab})
	if m.ring.Current() != start {
		t.Errorf("full lap should return to %v, got %v", start, m.ring.Current())
	}

	m, _ = m.handleKeyMsg(tea.KeyMsg{Type: tea.KeyShiftTab})
	m, _ = m.handleKeyMsg(tea.KeyMsg{Type: tea.KeyTab})
	if m.ring.Current() != start {
		t.Errorf("shift+tab then tab should return to %v, got %v", start, m.ring.Current())
	}
}

func TestTabDoesNotCycleUnderOverlay(t *testing.T) {
	m := testModel()
	start := m.ring.Current()

	m, _ = m.handleKeyMsg(tea.KeyMsg{Type: tea.KeyCtrlO})
	m, _ = m.handleKeyMsg(tea.KeyMsg{Type: tea.KeyTab})
	if m.ring.Current() != start {
		t.Errorf("tab under an overlay should not move ring focus, got %v", m.ring.Current())
	}
}

func TestSearchAndSaveKeysIgnoredUnderOverlay(t *testing.T) {
	m := testModel()

	m, _ = m.handleKeyMsg(tea.KeyMsg{Type: tea.KeyCtrlH})
	m, _ = m.handleKeyMsg(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'/'}})
	if m.search.State() == search.Editing {
		t.Fatal("/ with an overlay open should not start a search edit")
	}
	m, _ = m.handleKeyMsg(tea.KeyMsg{Type: tea.KeyCtrlS})
	if m.toast.Visible {
		t.Error("ctrl+s with an overlay open should not reach the exporter")
	}

	m, _ = m.handleKeyMsg(tea.KeyMsg{Type: tea.KeyEscape})
	if !m.overlays.Empty() {
		t.Fatalf("esc should still dismiss the overlay, got %v", m.overlays.Top())
	}
	m, _ = m.handleKeyMsg(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'/'}})
	if m.search.State() != search.Editing {
		t.Error("/ with no overlay open should start a search edit")
	}
}

func TestRejectedQueriesStayOutOfSearchHistory(t *testing.T) {
	m := testModel()

	m, _ = m.handleQuerySubmitted("key oops")   // does not parse
	m, _ = m.handleQuerySubmitted("from begin") // no topics selected yet

	m.search.Focus()
	m.search, _ = m.search.Update(tea.KeyMsg{Type: tea.KeyUp})
	if m.search.Value() != "" {
		t.Errorf("rejected queries should not enter history, got %q", m.search.Value())
	}
}

func TestStaleBatchIsDiscarded(t *testing.T) {
	m := testModel()
	m.session = &command.Session{ID: uuid.New()}

	m, _ = m.handleRecordsBatch(message.RecordsBatchMsg{
		SessionID: uuid.New(),
		Records:   []model.Record{{Topic: "orders", Offset: 1}},
	})
	if len(m.recordBuffer) != 0 {
		t.Errorf("batch from a superseded session should be dropped, buffer has %d", len(m.recordBuffer))
	}

	m, _ = m.handleRecordsBatch(message.RecordsBatchMsg{
		SessionID: m.session.ID,
		Records:   []model.Record{{Topic: "orders", Offset: 1}},
		Done:      true,
	})
	if len(m.recordBuffer) != 1 {
		t.Errorf("batch from the live session should be buffered, buffer has %d", len(m.recordBuffer))
	}
}

func TestFlushRecordBufferSortsPerQuery(t *testing.T) {
	m := testModel()
	q, err := query.Parse("order by offset desc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m.currentQuery = q
	m.recordBuffer = []model.Record{
		{Topic: "orders", Offset: 2},
		{Topic: "orders", Offset: 9},
		{Topic: "orders", Offset: 5},
	}

	m.flushRecordBuffer()
	if len(m.recordBuffer) != 0 {
		t.Errorf("buffer should be empty after flush")
	}
	if len(m.records) != 3 || m.records[0].Offset != 9 || m.records[2].Offset != 2 {
		t.Errorf("records not sorted descending: %+v", m.records)
	}

	p, ok := m.panels[panel.Records].(*panel.RecordsPanel)
	if !ok {
		t.Fatal("records panel missing")
	}
	if p.Len() != 3 {
		t.Errorf("panel has %d records, want 3", p.Len())
	}
}

func TestEscWalksDetailPanelsBackToRecords(t *testing.T) {
	m := testModel()
	m.setFocus(panel.Schemas)

	m, _ = m.handleKeyMsg(tea.KeyMsg{Type: tea.KeyEscape})
	if m.ring.Current() != panel.Records {
		t.Errorf("esc on schemas should focus records, got %v", m.ring.Current())
	}

	m, _ = m.handleKeyMsg(tea.KeyMsg{Type: tea.KeyEscape})
	if m.ring.Current() != panel.Records {
		t.Errorf("esc on records should be a no-op, got %v", m.ring.Current())
	}
}

func TestStartupWithoutTopicsRaisesPicker(t *testing.T) {
	m := InitialModel(Config{KeyMap: keymap.DefaultKeyMap()})
	m.width, m.height = 120, 40
	m = initializePanels(m)
	if m.overlays.Top() != overlay.Topics {
		t.Errorf("starting without --topics should raise the picker, got %v", m.overlays.Top())
	}
}
