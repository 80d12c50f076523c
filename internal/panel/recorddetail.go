package panel

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	bviewport "github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/reflow/wordwrap"

	"github.com/topix-dev/topix/internal/model"
	"github.com/topix-dev/topix/internal/style"
	"github.com/topix-dev/topix/internal/util"
)

// RecordDetailPanel shows every field of the selected record in a
// scrollable view.
type RecordDetailPanel struct {
	view          bviewport.Model
	record        *model.Record
	width, height int
	focused       bool
}

func NewRecordDetailPanel(width, height int) *RecordDetailPanel {
	w, h := InnerDimensions(width, height)
	return &RecordDetailPanel{
		view:   bviewport.New(w, h),
		width:  width,
		height: height,
	}
}

func (p *RecordDetailPanel) Update(msg tea.Msg) (Panel, tea.Cmd) {
	var cmd tea.Cmd
	p.view, cmd = p.view.Update(msg)
	return p, cmd
}

func (p *RecordDetailPanel) View() string {
	content := p.view.View()
	if p.record == nil {
		content = style.Alt.Render("select a record and press enter")
	}
	return frame("Record details", p.focused, p.width, p.height, content)
}

func (p *RecordDetailPanel) SetDimensions(width, height int) {
	p.width, p.height = width, height
	w, h := InnerDimensions(width, height)
	p.view.Width, p.view.Height = w, h
	p.renderContent()
}

func (p *RecordDetailPanel) SetFocused(focused bool) {
	p.focused = focused
}

func (p *RecordDetailPanel) SetRecord(r model.Record) {
	p.record = &r
	p.renderContent()
	p.view.GotoTop()
}

func (p *RecordDetailPanel) Record() (model.Record, bool) {
	if p.record == nil {
		return model.Record{}, false
	}
	return *p.record, true
}

func (p *RecordDetailPanel) renderContent() {
	if p.record == nil {
		return
	}
	r := *p.record
	field := func(name, value string) string {
		return style.FieldName.Render(name+":") + " " + value
	}

	lines := []string{
		field("Topic", r.Topic),
		field("Partition", fmt.Sprintf("%d", r.Partition)),
		field("Offset", fmt.Sprintf("%d", r.Offset)),
		field("Timestamp", fmt.Sprintf("%d", r.Timestamp.UnixMilli())),
		field("Datetime", fmt.Sprintf("%s (%s ago)",
			r.Timestamp.UTC().Format(time.RFC3339),
			util.TimeSince(r.Timestamp))),
		field("Size", fmt.Sprintf("%s bytes", util.FormatCount(int64(r.Size())))),
	}
	if r.KeySchema != nil {
		lines = append(lines, field("Key schema", r.KeySchema.String()))
	}
	if r.ValueSchema != nil {
		lines = append(lines, field("Value schema", r.ValueSchema.String()))
	}
	if len(r.Headers) > 0 {
		lines = append(lines, "", style.FieldName.Render("Headers:"))
		for _, h := range r.SortedHeaders() {
			lines = append(lines, fmt.Sprintf("  %s: %s", h.Key, h.Value))
		}
	}
	lines = append(lines, "", field("Key", r.KeyString()), "", style.FieldName.Render("Value:"))

	value := prettyValue(r)
	lines = append(lines, wordwrap.String(value, p.view.Width))

	p.view.SetContent(strings.Join(lines, "\n"))
}

// prettyValue indents the value when it is JSON, shows it raw otherwise.
func prettyValue(r model.Record) string {
	if !json.Valid(r.Value) {
		return r.ValueString()
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, r.Value, "", "  "); err != nil {
		return r.ValueString()
	}
	return buf.String()
}
