package internal

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/topix-dev/topix/internal/command"
	"github.com/topix-dev/topix/internal/constants"
	"github.com/topix-dev/topix/internal/dev"
	"github.com/topix-dev/topix/internal/history"
	"github.com/topix-dev/topix/internal/kafka"
	"github.com/topix-dev/topix/internal/keymap"
	"github.com/topix-dev/topix/internal/message"
	"github.com/topix-dev/topix/internal/model"
	"github.com/topix-dev/topix/internal/overlay"
	"github.com/topix-dev/topix/internal/panel"
	"github.com/topix-dev/topix/internal/query"
	"github.com/topix-dev/topix/internal/search"
	"github.com/topix-dev/topix/internal/style"
	"github.com/topix-dev/topix/internal/toast"
	"github.com/topix-dev/topix/internal/util"
)

// the topic picker and help live outside the focus ring, they only get
// input while raised as overlays
const (
	topicsPanel panel.Type = iota + 100
	helpPanel
)

type Model struct {
	config        Config
	keyMap        keymap.KeyMap
	width, height int
	initialized   bool
	err           error

	source  *kafka.Source
	history *history.Store

	panels   map[panel.Type]panel.Panel
	ring     panel.Ring
	overlays overlay.Stack
	search   search.Model
	toast    toast.Model

	// current fetch session; batches carrying any other session id are stale
	session      *command.Session
	currentQuery query.Query
	records      []model.Record
	recordBuffer []model.Record
	searching    bool

	topBarHeight int // assumed constant
}

func InitialModel(c Config) Model {
	return Model{
		config:       c,
		keyMap:       c.KeyMap,
		ring:         panel.NewRing(),
		topBarHeight: 2,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Tick(constants.BatchUpdateRecordsInterval, func(time.Time) tea.Msg { return message.BatchUpdateRecordsMsg{} })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	dev.DebugUpdateMsg("App", msg)
	var (
		cmd  tea.Cmd
		cmds []tea.Cmd
	)

	switch msg := msg.(type) {
	case message.CleanupCompleteMsg:
		return m, tea.Quit

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case message.ErrMsg:
		m.err = msg.Err

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		if !m.initialized {
			var err error
			m, cmd, err = initializedModel(m)
			if err != nil {
				m.err = err
				return m, nil
			}
			m.initialized = true
			cmds = append(cmds, cmd)
		}
		m.layoutPanels()
		return m, tea.Batch(cmds...)

	case search.SubmittedMsg:
		return m.handleQuerySubmitted(msg.Raw)

	case message.RecordsBatchMsg:
		return m.handleRecordsBatch(msg)

	case message.BatchUpdateRecordsMsg:
		m.flushRecordBuffer()
		return m, tea.Tick(constants.BatchUpdateRecordsInterval, func(time.Time) tea.Msg { return message.BatchUpdateRecordsMsg{} })

	case message.TopicsMsg:
		if msg.Err != nil {
			return m.showToast(fmt.Sprintf("listing topics failed: %v", msg.Err))
		}
		if p, ok := m.panels[topicsPanel].(*panel.TopicsPanel); ok {
			p.SetTopics(msg.Topics)
		}
		return m, nil

	case message.TopicDetailMsg:
		if msg.Err != nil {
			return m.showToast(fmt.Sprintf("describing topic failed: %v", msg.Err))
		}
		if p, ok := m.panels[panel.TopicDetail].(*panel.TopicDetailPanel); ok {
			p.SetDetail(msg.Detail)
		}
		return m, nil

	case message.SchemasMsg:
		if msg.Err != nil {
			return m.showToast(fmt.Sprintf("fetching schemas failed: %v", msg.Err))
		}
		if p, ok := m.panels[panel.Schemas].(*panel.SchemasPanel); ok {
			p.SetSchemas(msg.Key, msg.Value)
		}
		m.setFocus(panel.Schemas)
		return m, nil

	case message.CopiedMsg:
		if msg.Err != nil {
			return m.showToast(fmt.Sprintf("copy failed: %v", msg.Err))
		}
		return m.showToast(msg.Desc + " copied to clipboard")

	case message.OpenedMsg:
		if msg.Err != nil {
			return m.showToast(fmt.Sprintf("opening browser failed: %v", msg.Err))
		}
		return m, nil

	case message.SavedMsg:
		if msg.Err != nil {
			return m.showToast(fmt.Sprintf("export failed: %v", msg.Err))
		}
		return m.showToast(fmt.Sprintf("exported %d records to %s", msg.Count, msg.Path))

	case toast.TimeoutMsg:
		m.toast, cmd = m.toast.Update(msg)
		return m, cmd

	case spinner.TickMsg:
		for t, p := range m.panels {
			m.panels[t], cmd = p.Update(msg)
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)
	}

	if m.search.State() == search.Editing {
		m.search, cmd = m.search.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	if m.err != nil {
		return style.Regular.Render(fmt.Sprintf("error: %v\n\npress ctrl+c to exit", m.err))
	}
	if !m.initialized {
		return ""
	}

	topBar := m.topBar()
	var content string
	switch m.overlays.Top() {
	case overlay.Help:
		content = m.panels[helpPanel].View()
	case overlay.Topics:
		content = m.panels[topicsPanel].View()
	default:
		content = m.mainLayout()
	}

	view := lipgloss.JoinVertical(lipgloss.Left, topBar, content)
	if m.toast.Visible {
		lines := strings.Split(view, "\n")
		if len(lines) > m.toast.ViewHeight() {
			lines = lines[:len(lines)-m.toast.ViewHeight()]
		}
		view = strings.Join(lines, "\n") + "\n" + style.Inverse.Render(util.Truncate(m.toast.View(), m.width))
	}
	return view
}

func (m Model) mainLayout() string {
	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.panels[panel.Records].View(),
		lipgloss.JoinHorizontal(
			lipgloss.Top,
			m.panels[panel.RecordDetail].View(),
			m.panels[panel.Schemas].View(),
			m.panels[panel.TopicDetail].View(),
		),
	)
}

func (m Model) topBar() string {
	topics := "no topics selected, ctrl+o to pick"
	if p, ok := m.panels[topicsPanel].(*panel.TopicsPanel); ok {
		if selected := p.Selected(); len(selected) > 0 {
			topics = fmt.Sprintf("%d topics: %s", len(selected), util.Truncate(strings.Join(selected, ", "), m.width/2))
		}
	}
	left := style.AccentBold.Render("topix "+m.config.Version) + "  " + style.Alt.Render(strings.Join(m.config.Brokers, ","))
	status := style.Alt.Render(topics)
	bar := util.JoinWithEqualSpacing(m.width, left, status)
	return lipgloss.JoinVertical(lipgloss.Left, bar, m.search.View())
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (Model, tea.Cmd) {
	if key.Matches(msg, m.keyMap.Quit) {
		return m, m.cleanupCmd()
	}
	if m.err != nil {
		return m, nil
	}

	// an editing search bar swallows every other key
	if m.search.State() == search.Editing {
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keyMap.Help):
		m.overlays.Toggle(overlay.Help)
		m.applyFocus()
		return m, nil

	case key.Matches(msg, m.keyMap.Topics):
		m.overlays.Toggle(overlay.Topics)
		m.applyFocus()
		return m, nil

	case key.Matches(msg, m.keyMap.Dismiss):
		return m.handleDismiss()
	}

	// with an overlay raised, only its own keys and the toggles above apply
	if m.overlays.Empty() {
		switch {
		case key.Matches(msg, m.keyMap.Search):
			return m, m.search.Focus()
		case key.Matches(msg, m.keyMap.Save):
			if len(m.records) == 0 {
				return m.showToast("nothing to export")
			}
			return m, command.ExportRecordsCmd(m.config.ExportDir, m.records)
		case key.Matches(msg, m.keyMap.NextPanel):
			m.ring.Next()
			m.applyFocus()
			return m, nil
		case key.Matches(msg, m.keyMap.PrevPanel):
			m.ring.Prev()
			m.applyFocus()
			return m, nil
		}
	}

	switch m.overlays.Top() {
	case overlay.Topics:
		return m.handleTopicsKeyMsg(msg)
	case overlay.Help:
		return m.forwardKeyMsg(helpPanel, msg)
	}

	switch m.ring.Current() {
	case panel.Records:
		return m.handleRecordsKeyMsg(msg)
	case panel.RecordDetail:
		return m.handleRecordDetailKeyMsg(msg)
	case panel.Schemas:
		return m.handleSchemasKeyMsg(msg)
	case panel.TopicDetail:
		return m.handleTopicDetailKeyMsg(msg)
	}
	return m, nil
}

// handleDismiss closes the most recently opened overlay first; with no
// overlay open it walks detail panels back to the records list.
func (m Model) handleDismiss() (Model, tea.Cmd) {
	if !m.overlays.Empty() {
		m.overlays.Pop()
		m.applyFocus()
		return m, nil
	}
	switch m.ring.Current() {
	case panel.RecordDetail, panel.Schemas:
		m.setFocus(panel.Records)
	}
	return m, nil
}

func (m Model) handleTopicsKeyMsg(msg tea.KeyMsg) (Model, tea.Cmd) {
	p, ok := m.panels[topicsPanel].(*panel.TopicsPanel)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keyMap.Enter):
		topic, ok := p.Highlighted()
		if !ok {
			return m, nil
		}
		m.overlays.Pop()
		m.setFocus(panel.TopicDetail)
		return m.loadTopicDetail(topic.Name)
	case key.Matches(msg, m.keyMap.Refresh):
		return m, command.GetTopicsCmd(m.source)
	}
	return m.forwardKeyMsg(topicsPanel, msg)
}

func (m Model) handleRecordsKeyMsg(msg tea.KeyMsg) (Model, tea.Cmd) {
	p, ok := m.panels[panel.Records].(*panel.RecordsPanel)
	if !ok {
		return m, nil
	}
	selected, hasSelection := p.Selected()
	switch {
	case key.Matches(msg, m.keyMap.Enter):
		if !hasSelection {
			return m, nil
		}
		if detail, ok := m.panels[panel.RecordDetail].(*panel.RecordDetailPanel); ok {
			detail.SetRecord(selected)
		}
		m.setFocus(panel.RecordDetail)
		return m, nil
	case key.Matches(msg, m.keyMap.Copy):
		if !hasSelection {
			return m, nil
		}
		return m, command.CopyJSONCmd("record", model.NewExportedRecord(selected))
	case key.Matches(msg, m.keyMap.Export):
		if !hasSelection {
			return m, nil
		}
		return m, command.ExportRecordsCmd(m.config.ExportDir, []model.Record{selected})
	case key.Matches(msg, m.keyMap.Open):
		if !hasSelection {
			return m, nil
		}
		return m.openRecordInBrowser(selected)
	}
	return m.forwardKeyMsg(panel.Records, msg)
}

func (m Model) handleRecordDetailKeyMsg(msg tea.KeyMsg) (Model, tea.Cmd) {
	p, ok := m.panels[panel.RecordDetail].(*panel.RecordDetailPanel)
	if !ok {
		return m, nil
	}
	r, hasRecord := p.Record()
	switch {
	case key.Matches(msg, m.keyMap.Schemas):
		if !hasRecord {
			return m, nil
		}
		if !r.HasSchemas() {
			return m.showToast("this record carries no schema ids")
		}
		if !m.source.HasRegistry() {
			return m.showToast("no schema registry configured, pass --registry")
		}
		schemas, ok := m.panels[panel.Schemas].(*panel.SchemasPanel)
		if !ok {
			return m, nil
		}
		return m, tea.Batch(schemas.StartLoading(), command.GetSchemasCmd(m.source, r))
	case key.Matches(msg, m.keyMap.Copy):
		if !hasRecord {
			return m, nil
		}
		return m, command.CopyJSONCmd("record", model.NewExportedRecord(r))
	case key.Matches(msg, m.keyMap.Export):
		if !hasRecord {
			return m, nil
		}
		return m, command.ExportRecordsCmd(m.config.ExportDir, []model.Record{r})
	case key.Matches(msg, m.keyMap.Open):
		if !hasRecord {
			return m, nil
		}
		return m.openRecordInBrowser(r)
	}
	return m.forwardKeyMsg(panel.RecordDetail, msg)
}

func (m Model) handleSchemasKeyMsg(msg tea.KeyMsg) (Model, tea.Cmd) {
	p, ok := m.panels[panel.Schemas].(*panel.SchemasPanel)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keyMap.Copy):
		exported, ok := p.Exported()
		if !ok {
			return m, nil
		}
		return m, command.CopyJSONCmd("schemas", exported)
	case key.Matches(msg, m.keyMap.Open):
		urls := p.URLs()
		if len(urls) == 0 {
			return m, nil
		}
		var cmds []tea.Cmd
		for _, u := range urls {
			cmds = append(cmds, command.OpenInBrowserCmd(u))
		}
		return m, tea.Batch(cmds...)
	}
	return m.forwardKeyMsg(panel.Schemas, msg)
}

func (m Model) handleTopicDetailKeyMsg(msg tea.KeyMsg) (Model, tea.Cmd) {
	p, ok := m.panels[panel.TopicDetail].(*panel.TopicDetailPanel)
	if !ok {
		return m, nil
	}
	if key.Matches(msg, m.keyMap.Refresh) {
		if name, ok := p.Topic(); ok {
			return m.loadTopicDetail(name)
		}
		return m, nil
	}
	return m.forwardKeyMsg(panel.TopicDetail, msg)
}

func (m Model) forwardKeyMsg(t panel.Type, msg tea.KeyMsg) (Model, tea.Cmd) {
	p, ok := m.panels[t]
	if !ok {
		return m, nil
	}
	var cmd tea.Cmd
	m.panels[t], cmd = p.Update(msg)
	return m, cmd
}

func (m Model) loadTopicDetail(name string) (Model, tea.Cmd) {
	p, ok := m.panels[panel.TopicDetail].(*panel.TopicDetailPanel)
	if !ok {
		return m, nil
	}
	return m, tea.Batch(p.StartLoading(), command.GetTopicDetailCmd(m.source, name))
}

// handleQuerySubmitted parses the accepted search and replaces the
// running fetch session with a new one.
func (m Model) handleQuerySubmitted(raw string) (Model, tea.Cmd) {
	q, err := query.Parse(raw)
	if err != nil {
		return m.showToast(err.Error())
	}

	topics := m.selectedTopics()
	if len(topics) == 0 {
		return m.showToast("select topics first with ctrl+o")
	}

	m.search.RecordAccepted(raw)
	if m.history != nil {
		if err := m.history.Add(raw); err != nil {
			dev.Debug(fmt.Sprintf("persisting history: %v", err))
		}
	}

	if m.session != nil {
		m.session.Stop()
	}
	m.currentQuery = q
	m.records = nil
	m.recordBuffer = nil
	m.searching = true
	m.session = command.NewSession(m.source, topics, q)
	if p, ok := m.panels[panel.Records].(*panel.RecordsPanel); ok {
		p.SetRecords(nil)
		p.SetSearching(true)
	}
	m.setFocus(panel.Records)
	return m, m.session.CollectCmd()
}

func (m Model) handleRecordsBatch(msg message.RecordsBatchMsg) (Model, tea.Cmd) {
	// a stale batch belongs to a search the user has already replaced
	if m.session == nil || msg.SessionID != m.session.ID {
		dev.Debug(fmt.Sprintf("dropping stale batch from session %s", msg.SessionID))
		return m, nil
	}
	m.recordBuffer = append(m.recordBuffer, msg.Records...)
	if msg.Done {
		m.searching = false
		if p, ok := m.panels[panel.Records].(*panel.RecordsPanel); ok {
			p.SetSearching(false)
		}
		if msg.Err != nil {
			return m.showToast(fmt.Sprintf("search failed: %v", msg.Err))
		}
		return m, nil
	}
	return m, m.session.CollectCmd()
}

func (m *Model) flushRecordBuffer() {
	if len(m.recordBuffer) == 0 {
		return
	}
	m.records = append(m.records, m.recordBuffer...)
	m.recordBuffer = nil
	m.currentQuery.Sort(m.records)
	if p, ok := m.panels[panel.Records].(*panel.RecordsPanel); ok {
		p.SetRecords(m.records)
	}
}

func (m Model) openRecordInBrowser(r model.Record) (Model, tea.Cmd) {
	if m.config.URLTemplate == "" {
		return m.showToast("no url template configured, pass --url-template")
	}
	url := strings.NewReplacer(
		"{topic}", r.Topic,
		"{partition}", fmt.Sprintf("%d", r.Partition),
		"{offset}", fmt.Sprintf("%d", r.Offset),
	).Replace(m.config.URLTemplate)
	return m, command.OpenInBrowserCmd(url)
}

func (m Model) selectedTopics() []string {
	if p, ok := m.panels[topicsPanel].(*panel.TopicsPanel); ok {
		return p.Selected()
	}
	return nil
}

func (m Model) showToast(msg string) (Model, tea.Cmd) {
	m.toast = toast.New(msg)
	id := m.toast.ID
	return m, tea.Tick(constants.ToastDuration, func(time.Time) tea.Msg { return toast.TimeoutMsg{ID: id} })
}

// setFocus moves ring focus to t and updates panel focus styling.
func (m *Model) setFocus(t panel.Type) {
	m.ring.Set(t)
	m.applyFocus()
}

// applyFocus gives input focus to the top overlay when one is open,
// otherwise to the ring's current panel.
func (m *Model) applyFocus() {
	for _, p := range m.panels {
		p.SetFocused(false)
	}
	switch m.overlays.Top() {
	case overlay.Help:
		m.panels[helpPanel].SetFocused(true)
	case overlay.Topics:
		m.panels[topicsPanel].SetFocused(true)
	default:
		if p, ok := m.panels[m.ring.Current()]; ok {
			p.SetFocused(true)
		}
	}
}

func (m Model) cleanupCmd() tea.Cmd {
	return func() tea.Msg {
		if m.session != nil {
			m.session.Stop()
		}
		if m.history != nil {
			m.history.Close()
		}
		if m.source != nil {
			m.source.Close()
		}
		return message.CleanupCompleteMsg{}
	}
}

func (m *Model) layoutPanels() {
	contentHeight := m.height - m.topBarHeight
	recordsHeight := contentHeight * 55 / 100
	bottomHeight := contentHeight - recordsHeight
	thirdWidth := m.width / 3

	if p, ok := m.panels[panel.Records]; ok {
		p.SetDimensions(m.width, recordsHeight)
	}
	if p, ok := m.panels[panel.RecordDetail]; ok {
		p.SetDimensions(m.width-2*thirdWidth, bottomHeight)
	}
	if p, ok := m.panels[panel.Schemas]; ok {
		p.SetDimensions(thirdWidth, bottomHeight)
	}
	if p, ok := m.panels[panel.TopicDetail]; ok {
		p.SetDimensions(thirdWidth, bottomHeight)
	}
	if p, ok := m.panels[topicsPanel]; ok {
		p.SetDimensions(m.width, contentHeight)
	}
	if p, ok := m.panels[helpPanel]; ok {
		p.SetDimensions(m.width, contentHeight)
	}
	m.search.SetWidth(m.width)
}
