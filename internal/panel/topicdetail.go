package panel

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/topix-dev/topix/internal/model"
	"github.com/topix-dev/topix/internal/style"
	"github.com/topix-dev/topix/internal/util"
)

// TopicDetailPanel shows partition counts and the consumer groups of one
// topic. ctrl+p refreshes it.
type TopicDetailPanel struct {
	detail        *model.TopicDetail
	spinner       spinner.Model
	loading       bool
	width, height int
	focused       bool
}

func NewTopicDetailPanel(width, height int) *TopicDetailPanel {
	return &TopicDetailPanel{
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
		width:   width,
		height:  height,
	}
}

func (p *TopicDetailPanel) Update(msg tea.Msg) (Panel, tea.Cmd) {
	if _, ok := msg.(spinner.TickMsg); ok && p.loading {
		var cmd tea.Cmd
		p.spinner, cmd = p.spinner.Update(msg)
		return p, cmd
	}
	return p, nil
}

func (p *TopicDetailPanel) View() string {
	title := "Topic details"
	if p.detail != nil {
		title = "Topic details: " + p.detail.Name
	}
	var content string
	switch {
	case p.loading:
		content = p.spinner.View() + " loading topic details..."
	case p.detail == nil:
		content = style.Alt.Render("press enter on a topic")
	default:
		content = p.renderDetail()
	}
	return frame(title, p.focused, p.width, p.height, content)
}

func (p *TopicDetailPanel) SetDimensions(width, height int) {
	p.width, p.height = width, height
}

func (p *TopicDetailPanel) SetFocused(focused bool) {
	p.focused = focused
}

func (p *TopicDetailPanel) StartLoading() tea.Cmd {
	p.loading = true
	return p.spinner.Tick
}

func (p *TopicDetailPanel) SetDetail(d model.TopicDetail) {
	p.loading = false
	p.detail = &d
}

// Topic is the currently shown topic name, for ctrl+p.
func (p *TopicDetailPanel) Topic() (string, bool) {
	if p.detail == nil {
		return "", false
	}
	return p.detail.Name, true
}

func (p *TopicDetailPanel) renderDetail() string {
	d := p.detail
	field := func(name, value string) string {
		return style.FieldName.Render(name+":") + " " + value
	}
	lines := []string{
		field("Partitions", fmt.Sprintf("%d", d.Partitions)),
		field("Replicas", fmt.Sprintf("%d", d.Replicas)),
		field("Records", util.FormatCount(d.Count)),
		"",
		style.FieldName.Render("Consumer groups:"),
	}
	if len(d.ConsumerGroups) == 0 {
		lines = append(lines, style.Alt.Render("  none"))
	} else {
		lines = append(lines, "  "+style.Underline.Render(padColumns("NAME", "STATE", "MEMBERS", "LAG")))
		for _, g := range d.ConsumerGroups {
			// lag needs committed offsets per partition, which is a
			// heavier admin call than this panel makes
			lines = append(lines, "  "+padColumns(g.Name, g.State, fmt.Sprintf("%d", g.Members), "?"))
		}
	}
	return strings.Join(lines, "\n")
}

func padColumns(name, state, members, lag string) string {
	return fmt.Sprintf("%-30s %-18s %-8s %s", util.Truncate(name, 30), state, members, lag)
}
