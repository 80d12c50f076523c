package panel

import (
	bviewport "github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/topix-dev/topix/internal/help"
	"github.com/topix-dev/topix/internal/keymap"
)

// HelpPanel is the ctrl+h overlay: the keybinding table and the search
// language reference in a scrollable view.
type HelpPanel struct {
	view          bviewport.Model
	width, height int
	focused       bool
}

func NewHelpPanel(width, height int) *HelpPanel {
	w, h := InnerDimensions(width, height)
	view := bviewport.New(w, h)
	view.SetContent(help.Content(keymap.DefaultKeyMap()))
	return &HelpPanel{view: view, width: width, height: height}
}

func (p *HelpPanel) Update(msg tea.Msg) (Panel, tea.Cmd) {
	var cmd tea.Cmd
	p.view, cmd = p.view.Update(msg)
	return p, cmd
}

func (p *HelpPanel) View() string {
	return frame("Help", p.focused, p.width, p.height, p.view.View())
}

func (p *HelpPanel) SetDimensions(width, height int) {
	p.width, p.height = width, height
	p.view.Width, p.view.Height = InnerDimensions(width, height)
}

func (p *HelpPanel) SetFocused(focused bool) {
	p.focused = focused
}
