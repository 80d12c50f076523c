// Package message holds the tea.Msg types passed between async commands
// and the main model.
package message

import (
	"github.com/google/uuid"

	"github.com/topix-dev/topix/internal/model"
)

type ErrMsg struct{ Err error }

func (e ErrMsg) Error() string { return e.Err.Error() }

type CleanupCompleteMsg struct{}

// BatchUpdateRecordsMsg ticks the main Model to flush buffered records into
// the records panel.
type BatchUpdateRecordsMsg struct{}

// TopicsMsg carries the topic listing for the topics overlay.
type TopicsMsg struct {
	Topics []model.Topic
	Err    error
}

// TopicDetailMsg carries one topic's details panel content.
type TopicDetailMsg struct {
	Detail model.TopicDetail
	Err    error
}

// SchemasMsg carries the resolved key and value schemas of one record.
type SchemasMsg struct {
	Record model.Record
	Key    *model.SchemaDetail
	Value  *model.SchemaDetail
	Err    error
}

// RecordsBatchMsg delivers a batch of matched records from a fetch
// session. SessionID identifies the search that produced the batch;
// batches from superseded sessions are discarded. Done marks the final
// batch of a session.
type RecordsBatchMsg struct {
	SessionID uuid.UUID
	Records   []model.Record
	Done      bool
	Err       error
}

// CopiedMsg reports a clipboard write.
type CopiedMsg struct {
	Desc string
	Err  error
}

// OpenedMsg reports handing a URL to the system browser.
type OpenedMsg struct {
	URL string
	Err error
}

// SavedMsg reports a finished export to disk.
type SavedMsg struct {
	Path  string
	Count int
	Err   error
}
