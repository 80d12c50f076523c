// Package command contains the async tea.Cmd constructors: admin lookups,
// record fetch sessions, clipboard, browser, and export.
package command

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/pkg/browser"

	"github.com/topix-dev/topix/internal/constants"
	"github.com/topix-dev/topix/internal/dev"
	"github.com/topix-dev/topix/internal/fileio"
	"github.com/topix-dev/topix/internal/kafka"
	"github.com/topix-dev/topix/internal/message"
	"github.com/topix-dev/topix/internal/model"
	"github.com/topix-dev/topix/internal/query"
)

func GetTopicsCmd(src *kafka.Source) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), constants.AdminRequestTimeout)
		defer cancel()
		topics, err := src.ListTopics(ctx)
		return message.TopicsMsg{Topics: topics, Err: err}
	}
}

func GetTopicDetailCmd(src *kafka.Source, name string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), constants.AdminRequestTimeout)
		defer cancel()
		detail, err := src.TopicDetail(ctx, name)
		return message.TopicDetailMsg{Detail: detail, Err: err}
	}
}

// GetSchemasCmd resolves the registry schemas referenced by a record's
// key and value.
func GetSchemasCmd(src *kafka.Source, r model.Record) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), constants.AdminRequestTimeout)
		defer cancel()
		msg := message.SchemasMsg{Record: r}
		if r.KeySchema != nil {
			detail, err := src.SchemaByID(ctx, r.KeySchema.ID, r.Topic+"-key")
			if err != nil {
				msg.Err = err
				return msg
			}
			msg.Key = &detail
		}
		if r.ValueSchema != nil {
			detail, err := src.SchemaByID(ctx, r.ValueSchema.ID, r.Topic+"-value")
			if err != nil {
				msg.Err = err
				return msg
			}
			msg.Value = &detail
		}
		return msg
	}
}

// Session is one running record scan. Every submitted search starts a
// fresh session with its own id; the model keeps only the newest id and
// drops batches from any other.
type Session struct {
	ID     uuid.UUID
	ch     chan model.Record
	cancel context.CancelFunc

	mu  sync.Mutex
	err error
}

// NewSession starts scanning topics for records matching q in the
// background. Call CollectCmd to drain matches into the update loop and
// Stop when the session is superseded.
func NewSession(src *kafka.Source, topics []string, q query.Query) *Session {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		ID:     uuid.New(),
		ch:     make(chan model.Record, 256),
		cancel: cancel,
	}
	limit := q.Limit
	if limit <= 0 {
		limit = constants.DefaultQueryLimit
	}
	if limit > constants.MaxQueryLimit {
		limit = constants.MaxQueryLimit
	}
	go func() {
		defer close(s.ch)
		err := src.Scan(ctx, topics, q, limit, s.ch)
		if err != nil && ctx.Err() == nil {
			s.setErr(err)
		}
		dev.Debug(fmt.Sprintf("session %s finished: %v", s.ID, err))
	}()
	return s
}

func (s *Session) Stop() {
	s.cancel()
}

func (s *Session) setErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// CollectCmd gathers records from the session for a short window and
// returns them as one batch. Batching keeps a firehose topic from
// triggering a re-render per record. The model re-issues CollectCmd until
// a batch comes back Done.
func (s *Session) CollectCmd() tea.Cmd {
	return func() tea.Msg {
		var batch []model.Record
		timeout := time.After(constants.RecordCollectionDuration)
		for {
			select {
			case r, ok := <-s.ch:
				if !ok {
					return message.RecordsBatchMsg{SessionID: s.ID, Records: batch, Done: true, Err: s.Err()}
				}
				batch = append(batch, r)
			case <-timeout:
				return message.RecordsBatchMsg{SessionID: s.ID, Records: batch}
			}
		}
	}
}

// CopyJSONCmd marshals v and puts it on the system clipboard.
func CopyJSONCmd(desc string, v interface{}) tea.Cmd {
	return func() tea.Msg {
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return message.CopiedMsg{Desc: desc, Err: err}
		}
		return message.CopiedMsg{Desc: desc, Err: clipboard.WriteAll(string(data))}
	}
}

func OpenInBrowserCmd(url string) tea.Cmd {
	return func() tea.Msg {
		return message.OpenedMsg{URL: url, Err: browser.OpenURL(url)}
	}
}

// ExportRecordsCmd writes the given records as a JSON array to a
// timestamped file under dir.
func ExportRecordsCmd(dir string, records []model.Record) tea.Cmd {
	return func() tea.Msg {
		exported := make([]model.ExportedRecord, len(records))
		for i, r := range records {
			exported[i] = model.NewExportedRecord(r)
		}
		path, err := fileio.SaveJSON(dir, "records", exported)
		return message.SavedMsg{Path: path, Count: len(records), Err: err}
	}
}
