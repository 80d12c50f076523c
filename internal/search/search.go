// Package search owns the search bar: a single-line input with query
// history navigation and autocomplete drawn from past queries.
package search

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/topix-dev/topix/internal/keymap"
	"github.com/topix-dev/topix/internal/style"
)

type State int

const (
	// Idle means the bar shows the last submitted query and ignores typing
	Idle State = iota
	// Editing means the bar has focus and swallows all key input
	Editing
	// Submitted means a query was just accepted and is running
	Submitted
)

// SubmittedMsg is emitted when the user accepts the search input.
type SubmittedMsg struct {
	Raw string
}

// seedSuggestions are offered before any history exists.
var seedSuggestions = []string{
	"from begin",
	"from end - 1000",
	`key == ""`,
	`value contains ""`,
	"order by timestamp desc",
	"limit 100",
}

type Model struct {
	input     textinput.Model
	state     State
	keyMap    keymap.KeyMap
	history   []string // oldest first
	historyAt int      // len(history) means the live draft
	draft     string
	submitted string
}

func New(width int) Model {
	km := keymap.DefaultKeyMap()
	input := textinput.New()
	input.Prompt = "/ "
	input.Width = width - len(input.Prompt)
	input.ShowSuggestions = true
	input.KeyMap.AcceptSuggestion = km.AcceptSuggestion
	input.CompletionStyle = style.Suggestion
	return Model{input: input, keyMap: km}
}

func (m Model) State() State {
	return m.state
}

// Value is the current contents of the input.
func (m Model) Value() string {
	return m.input.Value()
}

// SubmittedQuery is the last accepted query, kept across focus changes.
func (m Model) SubmittedQuery() string {
	return m.submitted
}

// SetHistory seeds the history, oldest first, typically from the on-disk
// store at startup.
func (m *Model) SetHistory(queries []string) {
	m.history = append([]string(nil), queries...)
	m.historyAt = len(m.history)
	m.refreshSuggestions()
}

func (m *Model) SetWidth(width int) {
	m.input.Width = width - len(m.input.Prompt)
}

// Focus puts the bar into editing mode. All key input routes here until
// the edit is accepted or cancelled.
func (m *Model) Focus() tea.Cmd {
	m.state = Editing
	m.historyAt = len(m.history)
	m.refreshSuggestions()
	return m.input.Focus()
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.state != Editing {
		return m, nil
	}
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(keyMsg, m.keyMap.Enter):
		return m.submit()
	case key.Matches(keyMsg, m.keyMap.Dismiss):
		return m.cancel()
	case key.Matches(keyMsg, m.keyMap.HistoryPrev):
		m.historyMove(-1)
		return m, nil
	case key.Matches(keyMsg, m.keyMap.HistoryNext):
		m.historyMove(1)
		return m, nil
	}

	// typing resets the history pointer, the edited text becomes the draft
	m.historyAt = len(m.history)
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.refreshSuggestions()
	return m, cmd
}

func (m Model) submit() (Model, tea.Cmd) {
	raw := strings.TrimSpace(m.input.Value())
	m.submitted = raw
	m.state = Submitted
	m.input.Blur()
	m.historyAt = len(m.history)
	return m, func() tea.Msg { return SubmittedMsg{Raw: raw} }
}

// RecordAccepted appends a query to the in-memory history once the app
// has accepted it, mirroring what the on-disk store keeps: queries that
// fail to parse or run never enter either. Consecutive duplicates
// collapse to one entry.
func (m *Model) RecordAccepted(q string) {
	if q != "" && (len(m.history) == 0 || m.history[len(m.history)-1] != q) {
		m.history = append(m.history, q)
	}
	m.historyAt = len(m.history)
	m.refreshSuggestions()
}

// cancel discards the edit and restores the last submitted query.
func (m Model) cancel() (Model, tea.Cmd) {
	m.input.SetValue(m.submitted)
	m.input.Blur()
	m.state = Idle
	m.historyAt = len(m.history)
	return m, nil
}

// historyMove walks the history without losing the in-progress draft:
// moving up from the draft saves it, moving back past the newest entry
// restores it.
func (m *Model) historyMove(delta int) {
	if len(m.history) == 0 {
		return
	}
	next := m.historyAt + delta
	if next < 0 || next > len(m.history) {
		return
	}
	if m.historyAt == len(m.history) {
		m.draft = m.input.Value()
	}
	m.historyAt = next
	if next == len(m.history) {
		m.input.SetValue(m.draft)
	} else {
		m.input.SetValue(m.history[next])
	}
	m.input.CursorEnd()
}

// refreshSuggestions ranks history entries and a few starter queries by
// edit distance to the current input. The text input filters them by
// prefix as the user types.
func (m *Model) refreshSuggestions() {
	seen := make(map[string]bool)
	var candidates []string
	for i := len(m.history) - 1; i >= 0; i-- {
		if !seen[m.history[i]] {
			seen[m.history[i]] = true
			candidates = append(candidates, m.history[i])
		}
	}
	for _, s := range seedSuggestions {
		if !seen[s] {
			seen[s] = true
			candidates = append(candidates, s)
		}
	}
	current := m.input.Value()
	if current != "" {
		sort.SliceStable(candidates, func(i, j int) bool {
			return levenshtein.ComputeDistance(current, candidates[i]) <
				levenshtein.ComputeDistance(current, candidates[j])
		})
	}
	m.input.SetSuggestions(candidates)
}

func (m Model) View() string {
	if m.state == Editing {
		return m.input.View()
	}
	if m.submitted == "" {
		return style.Unfocused.Render("/ press / to search")
	}
	return style.Unfocused.Render("/ " + m.submitted)
}
