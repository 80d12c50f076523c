package keymap

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap holds every binding the app responds to. Bindings that mean
// different things on different panels (e.g. Enter) get their context
// specific description in Contexts below.
type KeyMap struct {
	AcceptSuggestion key.Binding
	Bottom           key.Binding
	ClearSelection   key.Binding
	Copy             key.Binding
	Dismiss          key.Binding
	Down             key.Binding
	Enter            key.Binding
	Export           key.Binding
	Help             key.Binding
	HistoryNext      key.Binding
	HistoryPrev      key.Binding
	NextPanel        key.Binding
	Open             key.Binding
	PageDown         key.Binding
	PageUp           key.Binding
	PrevPanel        key.Binding
	Quit             key.Binding
	Refresh          key.Binding
	Save             key.Binding
	Schemas          key.Binding
	Search           key.Binding
	ToggleSelect     key.Binding
	Top              key.Binding
	Topics           key.Binding
	Up               key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		AcceptSuggestion: key.NewBinding(
			key.WithKeys("right", "tab"),
			key.WithHelp("→/tab", "accept suggestion"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "jump to bottom"),
		),
		ClearSelection: key.NewBinding(
			key.WithKeys("backspace"),
			key.WithHelp("backspace", "clear topic selection"),
		),
		Copy: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "copy as json"),
		),
		Dismiss: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close window"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("↓/j", "down"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", ""), // means different things on different panels
		),
		Export: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "export record"),
		),
		Help: key.NewBinding(
			key.WithKeys("ctrl+h"),
			key.WithHelp("ctrl+h", "show/hide help"),
		),
		HistoryNext: key.NewBinding(
			key.WithKeys("down"),
			key.WithHelp("↓", "next query"),
		),
		HistoryPrev: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("↑", "previous query"),
		),
		NextPanel: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "focus next panel"),
		),
		Open: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "open in browser"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("pgdn", "page down"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup", "page up"),
		),
		PrevPanel: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "focus previous panel"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("ctrl+p"),
			key.WithHelp("ctrl+p", "refresh topic details"),
		),
		Save: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "export visible records"),
		),
		Schemas: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "show schemas"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "focus search input"),
		),
		ToggleSelect: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "select/deselect topic"),
		),
		Top: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "jump to top"),
		),
		Topics: key.NewBinding(
			key.WithKeys("ctrl+o"),
			key.WithHelp("ctrl+o", "show/hide topics"),
		),
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("↑/k", "up"),
		),
	}
}

// Context is one section of the keybinding table: the bindings available
// when a given panel has focus.
type Context struct {
	Name     string
	Bindings []key.Binding
}

// Contexts is the full keybinding table rendered on the help panel. The
// global section applies everywhere; panel sections apply when that panel
// has focus and no overlay is on top of it.
func Contexts(km KeyMap) []Context {
	return []Context{
		{
			Name: "Global",
			Bindings: []key.Binding{
				km.NextPanel,
				km.PrevPanel,
				km.Search,
				km.Help,
				km.Topics,
				km.Down,
				km.Up,
				km.Top,
				km.Bottom,
				km.Dismiss,
				km.Save,
				km.Quit,
			},
		},
		{
			Name: "Topics",
			Bindings: []key.Binding{
				km.ToggleSelect,
				km.ClearSelection,
				WithDesc(km.Enter, "topic details"),
			},
		},
		{
			Name: "Records",
			Bindings: []key.Binding{
				WithDesc(km.Enter, "record details"),
				km.Copy,
				km.Export,
				km.Open,
			},
		},
		{
			Name: "Record details",
			Bindings: []key.Binding{
				km.Schemas,
				km.Copy,
				km.Export,
				km.Open,
				WithDesc(km.Dismiss, "back to records"),
			},
		},
		{
			Name: "Schemas",
			Bindings: []key.Binding{
				km.Copy,
				WithDesc(km.Dismiss, "back to records"),
			},
		},
		{
			Name: "Topic details",
			Bindings: []key.Binding{
				km.Refresh,
			},
		},
		{
			Name: "Search",
			Bindings: []key.Binding{
				WithDesc(km.Enter, "run query"),
				km.HistoryPrev,
				km.HistoryNext,
				km.AcceptSuggestion,
				WithDesc(km.Dismiss, "cancel editing"),
			},
		},
	}
}

func WithDesc(k key.Binding, d string) key.Binding {
	newK := k
	newK.SetHelp(newK.Help().Key, d)
	return newK
}
