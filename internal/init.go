package internal

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/topix-dev/topix/internal/command"
	"github.com/topix-dev/topix/internal/dev"
	"github.com/topix-dev/topix/internal/history"
	"github.com/topix-dev/topix/internal/kafka"
	"github.com/topix-dev/topix/internal/overlay"
	"github.com/topix-dev/topix/internal/panel"
	"github.com/topix-dev/topix/internal/search"
)

func initializedModel(m Model) (Model, tea.Cmd, error) {
	dev.Debug("initializing")
	defer dev.Debug("done initializing")
	dev.Debug("------------")

	source, err := kafka.NewSource(kafka.Config{
		Brokers:     m.config.Brokers,
		RegistryURL: m.config.RegistryURL,
	})
	if err != nil {
		return m, nil, err
	}
	if err := source.Ping(context.Background()); err != nil {
		source.Close()
		return m, nil, err
	}
	m.source = source

	store, err := history.Open(m.config.HistoryPath)
	if err != nil {
		// history is a convenience, the app works without it
		dev.Debug(fmt.Sprintf("opening history store: %v", err))
	} else {
		m.history = store
	}

	m.search = search.New(m.width)
	if m.history != nil {
		if queries, err := m.history.All(); err == nil {
			m.search.SetHistory(queries)
		}
	}

	m = initializePanels(m)

	cmds := createInitialCommands(m)
	m, cmd := applyStartupSelection(m)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...), nil
}

func initializePanels(m Model) Model {
	m.panels = map[panel.Type]panel.Panel{
		panel.Records:      panel.NewRecordsPanel(m.width, m.height),
		panel.RecordDetail: panel.NewRecordDetailPanel(m.width, m.height),
		panel.Schemas:      panel.NewSchemasPanel(m.width, m.height),
		panel.TopicDetail:  panel.NewTopicDetailPanel(m.width, m.height),
		topicsPanel:        panel.NewTopicsPanel(m.width, m.height),
		helpPanel:          panel.NewHelpPanel(m.width, m.height),
	}
	// starting without topics, raise the picker so the first search has
	// something to scan
	if len(m.config.Topics) == 0 {
		m.overlays.Push(overlay.Topics)
	}
	m.applyFocus()
	return m
}

func createInitialCommands(m Model) []tea.Cmd {
	return []tea.Cmd{command.GetTopicsCmd(m.source)}
}

// applyStartupSelection pre-selects --topics and runs --query when both
// are given, so topix can drop straight into a search.
func applyStartupSelection(m Model) (Model, tea.Cmd) {
	if len(m.config.Topics) == 0 {
		return m, nil
	}
	if p, ok := m.panels[topicsPanel].(*panel.TopicsPanel); ok {
		p.Preselect(m.config.Topics)
	}
	if m.config.InitialQuery == "" {
		return m, nil
	}
	return m.handleQuerySubmitted(m.config.InitialQuery)
}
