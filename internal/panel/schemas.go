package panel

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	bviewport "github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/topix-dev/topix/internal/model"
	"github.com/topix-dev/topix/internal/style"
)

// SchemasPanel shows the registry schemas of the selected record's key
// and value.
type SchemasPanel struct {
	view          bviewport.Model
	spinner       spinner.Model
	key, value    *model.SchemaDetail
	loaded        bool
	loading       bool
	width, height int
	focused       bool
}

func NewSchemasPanel(width, height int) *SchemasPanel {
	w, h := InnerDimensions(width, height)
	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	return &SchemasPanel{
		view:    bviewport.New(w, h),
		spinner: sp,
		width:   width,
		height:  height,
	}
}

func (p *SchemasPanel) Update(msg tea.Msg) (Panel, tea.Cmd) {
	if _, ok := msg.(spinner.TickMsg); ok && p.loading {
		var cmd tea.Cmd
		p.spinner, cmd = p.spinner.Update(msg)
		return p, cmd
	}
	var cmd tea.Cmd
	p.view, cmd = p.view.Update(msg)
	return p, cmd
}

func (p *SchemasPanel) View() string {
	var content string
	switch {
	case p.loading:
		content = p.spinner.View() + " fetching schemas..."
	case !p.loaded:
		content = style.Alt.Render("press s on a record with schemas")
	case p.key == nil && p.value == nil:
		content = style.Alt.Render("this record carries no schema ids")
	default:
		content = p.view.View()
	}
	return frame("Schemas", p.focused, p.width, p.height, content)
}

func (p *SchemasPanel) SetDimensions(width, height int) {
	p.width, p.height = width, height
	w, h := InnerDimensions(width, height)
	p.view.Width, p.view.Height = w, h
	p.renderContent()
}

func (p *SchemasPanel) SetFocused(focused bool) {
	p.focused = focused
}

// StartLoading switches to the spinner until SetSchemas arrives.
func (p *SchemasPanel) StartLoading() tea.Cmd {
	p.loading = true
	return p.spinner.Tick
}

func (p *SchemasPanel) SetSchemas(key, value *model.SchemaDetail) {
	p.loading = false
	p.loaded = true
	p.key, p.value = key, value
	p.renderContent()
	p.view.GotoTop()
}

// Exported is the clipboard shape for the c key.
func (p *SchemasPanel) Exported() (model.ExportedSchemas, bool) {
	if !p.loaded {
		return model.ExportedSchemas{}, false
	}
	return model.ExportedSchemas{Key: p.key, Value: p.value}, true
}

// URLs lists the registry links of the shown schemas, for o.
func (p *SchemasPanel) URLs() []string {
	var urls []string
	if p.key != nil {
		urls = append(urls, p.key.URL)
	}
	if p.value != nil {
		urls = append(urls, p.value.URL)
	}
	return urls
}

func (p *SchemasPanel) renderContent() {
	if !p.loaded {
		return
	}
	var sections []string
	for _, part := range []struct {
		name   string
		detail *model.SchemaDetail
	}{
		{"Key schema", p.key},
		{"Value schema", p.value},
	} {
		if part.detail == nil {
			continue
		}
		d := part.detail
		sections = append(sections,
			style.FieldName.Render(fmt.Sprintf("%s (id %d, %s)", part.name, d.ID, d.Type)),
			style.Alt.Render(d.Subject)+"  "+style.Underline.Render(d.URL),
			d.PrettySchema(),
			"",
		)
	}
	p.view.SetContent(strings.Join(sections, "\n"))
}
