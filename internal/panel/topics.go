package panel

import (
	"fmt"
	"sort"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/emirpasic/gods/sets/hashset"

	"github.com/topix-dev/topix/internal/keymap"
	"github.com/topix-dev/topix/internal/model"
	"github.com/topix-dev/topix/internal/style"
	"github.com/topix-dev/topix/internal/viewport"
)

// topicRow wraps a topic with its selection marker for rendering.
type topicRow struct {
	topic    model.Topic
	selected bool
}

func (r topicRow) Render() string {
	marker := "[ ] "
	if r.selected {
		marker = "[x] "
	}
	return marker + r.topic.Render()
}

func (r topicRow) Equals(other interface{}) bool {
	otherRow, ok := other.(topicRow)
	if !ok {
		return false
	}
	return r.topic.Equals(otherRow.topic)
}

// TopicsPanel is the topic picker overlay. Space toggles topics in and
// out of the selection; searches consume every selected topic.
type TopicsPanel struct {
	list          viewport.Model[topicRow]
	topics        []model.Topic
	selection     *hashset.Set
	keyMap        keymap.KeyMap
	width, height int
	focused       bool
	loading       bool
}

func NewTopicsPanel(width, height int) *TopicsPanel {
	w, h := InnerDimensions(width, height)
	return &TopicsPanel{
		list:      viewport.New[topicRow](w, h),
		selection: hashset.New(),
		keyMap:    keymap.DefaultKeyMap(),
		width:     width,
		height:    height,
		loading:   true,
	}
}

func (p *TopicsPanel) Update(msg tea.Msg) (Panel, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, p.keyMap.ToggleSelect):
			if row, ok := p.list.SelectedItem(); ok {
				if p.selection.Contains(row.topic.Name) {
					p.selection.Remove(row.topic.Name)
				} else {
					p.selection.Add(row.topic.Name)
				}
				p.syncRows()
			}
			return p, nil
		case key.Matches(keyMsg, p.keyMap.ClearSelection):
			p.selection.Clear()
			p.syncRows()
			return p, nil
		}
	}
	var cmd tea.Cmd
	p.list, cmd = p.list.Update(msg)
	return p, cmd
}

func (p *TopicsPanel) View() string {
	title := fmt.Sprintf("Topics (%d selected)", p.selection.Size())
	content := p.list.View()
	if p.loading {
		content = style.Alt.Render("loading topics...")
	} else if len(p.topics) == 0 {
		content = style.Alt.Render("no topics on this cluster")
	}
	return frame(title, p.focused, p.width, p.height, content)
}

func (p *TopicsPanel) SetDimensions(width, height int) {
	p.width, p.height = width, height
	p.list.SetWidthAndHeight(InnerDimensions(width, height))
}

func (p *TopicsPanel) SetFocused(focused bool) {
	p.focused = focused
	p.list.SetFocused(focused)
}

// SetTopics replaces the listing. Selected topics that no longer exist
// are dropped from the selection.
func (p *TopicsPanel) SetTopics(topics []model.Topic) {
	p.loading = false
	p.topics = topics
	existing := make(map[string]bool, len(topics))
	for _, t := range topics {
		existing[t.Name] = true
	}
	for _, v := range p.selection.Values() {
		if name, ok := v.(string); ok && !existing[name] {
			p.selection.Remove(name)
		}
	}
	p.syncRows()
}

// Preselect marks topic names as selected before the listing arrives,
// e.g. from the --topics flag.
func (p *TopicsPanel) Preselect(names []string) {
	for _, name := range names {
		p.selection.Add(name)
	}
	p.syncRows()
}

// Selected returns the chosen topic names in listing order. Before the
// listing has loaded it falls back to the preselected names.
func (p *TopicsPanel) Selected() []string {
	if len(p.topics) == 0 {
		var names []string
		for _, v := range p.selection.Values() {
			if name, ok := v.(string); ok {
				names = append(names, name)
			}
		}
		sort.Strings(names)
		return names
	}
	var names []string
	for _, t := range p.topics {
		if p.selection.Contains(t.Name) {
			names = append(names, t.Name)
		}
	}
	return names
}

// Highlighted is the topic under the cursor, for opening topic details.
func (p *TopicsPanel) Highlighted() (model.Topic, bool) {
	row, ok := p.list.SelectedItem()
	if !ok {
		return model.Topic{}, false
	}
	return row.topic, true
}

func (p *TopicsPanel) syncRows() {
	rows := make([]topicRow, len(p.topics))
	for i, t := range p.topics {
		rows[i] = topicRow{topic: t, selected: p.selection.Contains(t.Name)}
	}
	p.list.SetContent(rows)
}
