// Package panel implements the windows of the main layout and the focus
// ring that Tab walks through.
package panel

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/topix-dev/topix/internal/style"
)

// Type identifies a panel in the main layout.
type Type int

const (
	Records Type = iota
	RecordDetail
	Schemas
	TopicDetail
)

func (t Type) String() string {
	switch t {
	case Records:
		return "Records"
	case RecordDetail:
		return "Record details"
	case Schemas:
		return "Schemas"
	case TopicDetail:
		return "Topic details"
	default:
		return "Unknown"
	}
}

// Panel is implemented by every window in the main layout.
type Panel interface {
	Update(msg tea.Msg) (Panel, tea.Cmd)
	View() string
	SetDimensions(width, height int)
	SetFocused(focused bool)
}

// Ring is the cyclic focus order. Next and Prev always land on a panel;
// walking the whole ring in either direction returns to the start.
type Ring struct {
	order []Type
	idx   int
}

func NewRing(order ...Type) Ring {
	if len(order) == 0 {
		order = []Type{Records, RecordDetail, Schemas, TopicDetail}
	}
	return Ring{order: order}
}

func (r Ring) Current() Type {
	return r.order[r.idx]
}

func (r Ring) Len() int {
	return len(r.order)
}

func (r *Ring) Next() Type {
	r.idx = (r.idx + 1) % len(r.order)
	return r.order[r.idx]
}

func (r *Ring) Prev() Type {
	r.idx = (r.idx - 1 + len(r.order)) % len(r.order)
	return r.order[r.idx]
}

// Set moves focus directly to t when t is in the ring.
func (r *Ring) Set(t Type) {
	for i, o := range r.order {
		if o == t {
			r.idx = i
			return
		}
	}
}

// frame draws a panel border with a title bar on the first inner line.
// The border and title pick up the accent color while focused.
func frame(title string, focused bool, width, height int, content string) string {
	borderStyle := style.BlurBorder
	titleStyle := style.Unfocused
	if focused {
		borderStyle = style.FocusBorder
		titleStyle = style.AccentBold
	}
	innerWidth, innerHeight := width-2, height-2
	if innerWidth < 1 {
		innerWidth = 1
	}
	if innerHeight < 1 {
		innerHeight = 1
	}
	body := lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render(title), content)
	inner := lipgloss.NewStyle().
		Width(innerWidth).
		Height(innerHeight).
		MaxWidth(innerWidth).
		MaxHeight(innerHeight).
		Render(body)
	return borderStyle.Render(inner)
}

// InnerDimensions converts an outer panel size into the space available
// for content once the border and title bar are taken out.
func InnerDimensions(width, height int) (int, int) {
	w, h := width-2, height-3
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return w, h
}
