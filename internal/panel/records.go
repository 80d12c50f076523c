package panel

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/topix-dev/topix/internal/model"
	"github.com/topix-dev/topix/internal/style"
	"github.com/topix-dev/topix/internal/util"
	"github.com/topix-dev/topix/internal/viewport"
)

// RecordsPanel lists the records matched by the current search, newest
// last.
type RecordsPanel struct {
	list          viewport.Model[model.Record]
	width, height int
	focused       bool
	searching     bool
	matched       int
}

func NewRecordsPanel(width, height int) *RecordsPanel {
	w, h := InnerDimensions(width, height)
	p := &RecordsPanel{
		list:   viewport.New[model.Record](w, h),
		width:  width,
		height: height,
	}
	p.list.SetFocused(false)
	return p
}

func (p *RecordsPanel) Update(msg tea.Msg) (Panel, tea.Cmd) {
	var cmd tea.Cmd
	p.list, cmd = p.list.Update(msg)
	return p, cmd
}

func (p *RecordsPanel) View() string {
	title := fmt.Sprintf("Records (%s)", util.FormatCount(int64(p.matched)))
	if p.searching {
		title += "  searching..."
	}
	content := p.list.View()
	if p.list.Len() == 0 {
		content = style.Alt.Render("no records, press / to search")
	}
	return frame(title, p.focused, p.width, p.height, content)
}

func (p *RecordsPanel) SetDimensions(width, height int) {
	p.width, p.height = width, height
	p.list.SetWidthAndHeight(InnerDimensions(width, height))
}

func (p *RecordsPanel) SetFocused(focused bool) {
	p.focused = focused
	p.list.SetFocused(focused)
}

// SetRecords replaces the full list, e.g. when a batch is flushed from
// the record buffer.
func (p *RecordsPanel) SetRecords(records []model.Record) {
	p.matched = len(records)
	p.list.SetContent(records)
}

func (p *RecordsPanel) SetSearching(searching bool) {
	p.searching = searching
}

func (p *RecordsPanel) Selected() (model.Record, bool) {
	return p.list.SelectedItem()
}

func (p *RecordsPanel) Len() int {
	return p.list.Len()
}
