package viewport

import (
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

type row string

func (r row) Render() string { return string(r) }

func (r row) Equals(other interface{}) bool {
	otherRow, ok := other.(row)
	return ok && r == otherRow
}

func rows(n int) []row {
	out := make([]row, n)
	for i := range out {
		out[i] = row(fmt.Sprintf("row %d", i))
	}
	return out
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "pgup":
		return tea.KeyMsg{Type: tea.KeyPgUp}
	case "pgdown":
		return tea.KeyMsg{Type: tea.KeyPgDown}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func TestSelectionClampsAtEnds(t *testing.T) {
	m := New[row](80, 5)
	m.SetContent(rows(3))

	m, _ = m.Update(keyMsg("k"))
	if m.SelectedIdx() != 0 {
		t.Errorf("up at top should clamp, got %d", m.SelectedIdx())
	}

	for i := 0; i < 10; i++ {
		m, _ = m.Update(keyMsg("j"))
	}
	if m.SelectedIdx() != 2 {
		t.Errorf("down past bottom should clamp at 2, got %d", m.SelectedIdx())
	}
}

func TestDownDownBottomLandsOnLast(t *testing.T) {
	m := New[row](80, 2)
	m.SetContent(rows(10))

	m, _ = m.Update(keyMsg("j"))
	m, _ = m.Update(keyMsg("j"))
	if m.SelectedIdx() != 2 {
		t.Fatalf("got %d, want 2", m.SelectedIdx())
	}
	m, _ = m.Update(keyMsg("]"))
	if m.SelectedIdx() != 9 {
		t.Errorf("] should jump to last row, got %d", m.SelectedIdx())
	}
	m, _ = m.Update(keyMsg("["))
	if m.SelectedIdx() != 0 {
		t.Errorf("[ should jump to first row, got %d", m.SelectedIdx())
	}
}

func TestSelectionStaysVisible(t *testing.T) {
	m := New[row](80, 3)
	m.SetContent(rows(20))

	for i := 0; i < 7; i++ {
		m, _ = m.Update(keyMsg("j"))
	}
	if m.SelectedIdx() != 7 {
		t.Fatalf("got %d, want 7", m.SelectedIdx())
	}
	if m.TopIdx() > m.SelectedIdx() || m.SelectedIdx() >= m.TopIdx()+3 {
		t.Errorf("selection %d not within window [%d, %d)", m.SelectedIdx(), m.TopIdx(), m.TopIdx()+3)
	}

	for i := 0; i < 7; i++ {
		m, _ = m.Update(keyMsg("k"))
	}
	if m.SelectedIdx() != 0 || m.TopIdx() != 0 {
		t.Errorf("after scrolling back up, got selection %d top %d", m.SelectedIdx(), m.TopIdx())
	}
}

func TestPageUpAndDown(t *testing.T) {
	m := New[row](80, 4)
	m.SetContent(rows(20))

	m, _ = m.Update(keyMsg("pgdown"))
	if m.SelectedIdx() != 4 {
		t.Errorf("page down should move by height, got %d", m.SelectedIdx())
	}
	m, _ = m.Update(keyMsg("pgup"))
	if m.SelectedIdx() != 0 {
		t.Errorf("page up should move back, got %d", m.SelectedIdx())
	}
}

func TestSetContentKeepsSelectionByEquality(t *testing.T) {
	m := New[row](80, 5)
	m.SetContent(rows(5))
	m.SetSelectedIdx(3)

	// prepend two rows; the previously selected row moves to index 5
	updated := append([]row{"new a", "new b"}, rows(5)...)
	m.SetContent(updated)
	if m.SelectedIdx() != 5 {
		t.Errorf("selection should follow equal row, got %d", m.SelectedIdx())
	}
}

func TestSetContentClampsWhenSelectionGone(t *testing.T) {
	m := New[row](80, 5)
	m.SetContent(rows(10))
	m.SetSelectedIdx(9)

	m.SetContent(rows(3))
	if m.SelectedIdx() != 2 {
		t.Errorf("selection should clamp to new last row, got %d", m.SelectedIdx())
	}

	m.SetContent(nil)
	if m.SelectedIdx() != 0 {
		t.Errorf("empty content should reset selection, got %d", m.SelectedIdx())
	}
	if _, ok := m.SelectedItem(); ok {
		t.Error("empty list should have no selected item")
	}
}

func TestViewShowsWindow(t *testing.T) {
	m := New[row](80, 2)
	m.SetContent(rows(5))
	m.SetSelectedIdx(4)

	view := m.View()
	if !strings.Contains(view, "row 4") || !strings.Contains(view, "row 3") {
		t.Errorf("view should show the last two rows, got %q", view)
	}
	if strings.Contains(view, "row 0") {
		t.Errorf("view should not show scrolled-off rows, got %q", view)
	}
}
