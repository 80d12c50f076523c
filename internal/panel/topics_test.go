package panel

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/topix-dev/topix/internal/model"
)

func testTopics() []model.Topic {
	return []model.Topic{
		{Name: "audits", Partitions: 1, Count: 10},
		{Name: "orders", Partitions: 3, Count: 250},
		{Name: "payments", Partitions: 3, Count: 42},
	}
}

func space() tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeySpace}
}

func down() tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")}
}

func TestToggleSelect(t *testing.T) {
	p := NewTopicsPanel(80, 20)
	p.SetTopics(testTopics())

	p.Update(space())
	if got := p.Selected(); len(got) != 1 || got[0] != "audits" {
		t.Fatalf("got %v, want [audits]", got)
	}

	p.Update(down())
	p.Update(space())
	if got := p.Selected(); len(got) != 2 || got[0] != "audits" || got[1] != "orders" {
		t.Fatalf("got %v, want [audits orders]", got)
	}

	// toggling again deselects
	p.Update(space())
	if got := p.Selected(); len(got) != 1 || got[0] != "audits" {
		t.Errorf("got %v, want [audits]", got)
	}
}

func TestClearSelection(t *testing.T) {
	p := NewTopicsPanel(80, 20)
	p.SetTopics(testTopics())
	p.Update(space())
	p.Update(down())
	p.Update(space())

	p.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	if got := p.Selected(); len(got) != 0 {
		t.Errorf("got %v, want empty selection", got)
	}
}

func TestSetTopicsDropsVanishedSelection(t *testing.T) {
	p := NewTopicsPanel(80, 20)
	p.SetTopics(testTopics())
	p.Update(space()) // audits

	p.SetTopics([]model.Topic{{Name: "orders"}})
	if got := p.Selected(); len(got) != 0 {
		t.Errorf("selection of a deleted topic should be dropped, got %v", got)
	}
}

func TestHighlighted(t *testing.T) {
	p := NewTopicsPanel(80, 20)
	if _, ok := p.Highlighted(); ok {
		t.Error("empty panel should have no highlighted topic")
	}
	p.SetTopics(testTopics())
	p.Update(down())
	topic, ok := p.Highlighted()
	if !ok || topic.Name != "orders" {
		t.Errorf("got %v %v, want orders", topic, ok)
	}
}
