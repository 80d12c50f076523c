// Package viewport renders a scrollable list with a single selected row.
// The selected row always stays within the visible window, and moving past
// either end clamps rather than wrapping.
package viewport

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/topix-dev/topix/internal/keymap"
	"github.com/topix-dev/topix/internal/style"
)

// RenderableComparable is a list row. Equals supports re-finding the
// selection after the content is replaced.
type RenderableComparable interface {
	Render() string
	Equals(other interface{}) bool
}

type Model[T RenderableComparable] struct {
	keyMap        keymap.KeyMap
	rows          []T
	selectedIdx   int
	topIdx        int
	width, height int
	focused       bool

	SelectedStyle lipgloss.Style
	RowStyle      lipgloss.Style
}

func New[T RenderableComparable](width, height int) Model[T] {
	return Model[T]{
		keyMap:        keymap.DefaultKeyMap(),
		width:         width,
		height:        height,
		focused:       true,
		SelectedStyle: style.Selected,
		RowStyle:      style.Regular,
	}
}

func (m Model[T]) Update(msg tea.Msg) (Model[T], tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(keyMsg, m.keyMap.Up):
		m.moveSelection(-1)
	case key.Matches(keyMsg, m.keyMap.Down):
		m.moveSelection(1)
	case key.Matches(keyMsg, m.keyMap.PageUp):
		m.moveSelection(-m.height)
	case key.Matches(keyMsg, m.keyMap.PageDown):
		m.moveSelection(m.height)
	case key.Matches(keyMsg, m.keyMap.Top):
		m.SetSelectedIdx(0)
	case key.Matches(keyMsg, m.keyMap.Bottom):
		m.SetSelectedIdx(len(m.rows) - 1)
	}
	return m, nil
}

func (m Model[T]) View() string {
	var lines []string
	for i := m.topIdx; i < len(m.rows) && i < m.topIdx+m.height; i++ {
		line := runewidth.Truncate(m.rows[i].Render(), m.width, "..")
		if i == m.selectedIdx && m.focused {
			line = m.SelectedStyle.Render(padToWidth(line, m.width))
		} else {
			line = m.RowStyle.Render(line)
		}
		lines = append(lines, line)
	}
	for len(lines) < m.height {
		lines = append(lines, "")
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// SetContent replaces the rows, keeping the previous selection when an
// equal row still exists and clamping otherwise.
func (m *Model[T]) SetContent(rows []T) {
	var prev *T
	if m.selectedIdx < len(m.rows) && len(m.rows) > 0 {
		p := m.rows[m.selectedIdx]
		prev = &p
	}
	m.rows = rows
	if prev != nil {
		for i := range rows {
			if rows[i].Equals(*prev) {
				m.SetSelectedIdx(i)
				return
			}
		}
	}
	m.SetSelectedIdx(m.selectedIdx)
}

func (m *Model[T]) SetWidthAndHeight(width, height int) {
	m.width, m.height = width, height
	m.scrollToSelection()
}

func (m *Model[T]) SetFocused(focused bool) {
	m.focused = focused
}

func (m Model[T]) SelectedIdx() int {
	return m.selectedIdx
}

// SelectedItem returns the selected row, or false when the list is empty.
func (m Model[T]) SelectedItem() (T, bool) {
	var zero T
	if len(m.rows) == 0 {
		return zero, false
	}
	return m.rows[m.selectedIdx], true
}

func (m Model[T]) Len() int {
	return len(m.rows)
}

func (m Model[T]) TopIdx() int {
	return m.topIdx
}

func (m *Model[T]) SetSelectedIdx(idx int) {
	m.selectedIdx = clamp(idx, 0, len(m.rows)-1)
	m.scrollToSelection()
}

func (m *Model[T]) moveSelection(delta int) {
	m.SetSelectedIdx(m.selectedIdx + delta)
}

func (m *Model[T]) scrollToSelection() {
	if m.height <= 0 {
		m.topIdx = 0
		return
	}
	if m.selectedIdx < m.topIdx {
		m.topIdx = m.selectedIdx
	}
	if m.selectedIdx >= m.topIdx+m.height {
		m.topIdx = m.selectedIdx - m.height + 1
	}
	maxTop := len(m.rows) - m.height
	if maxTop < 0 {
		maxTop = 0
	}
	m.topIdx = clamp(m.topIdx, 0, maxTop)
}

func clamp(v, low, high int) int {
	if high < low {
		return low
	}
	if v < low {
		return low
	}
	if v > high {
		return high
	}
	return v
}

func padToWidth(s string, width int) string {
	for runewidth.StringWidth(s) < width {
		s += " "
	}
	return s
}
