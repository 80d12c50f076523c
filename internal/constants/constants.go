package constants

import "time"

// *********************************************************************************************************************
// THESE ARE KEY TO GOOD PERFORMANCE & RESPONSIVENESS WHEN CONSUMING HIGH VOLUME TOPICS (EXACT VALUES DETERMINED BY FEEL)

// RecordCollectionDuration controls the amount of time a fetch session's scanner collects records before
// returning them to the main Model via a tea.Msg
var RecordCollectionDuration = 150 * time.Millisecond

// BatchUpdateRecordsInterval controls the cadence at which the main Model updates the records panel with
// all newly consumed records. In between updates, it accumulates records from received messages
var BatchUpdateRecordsInterval = 200 * time.Millisecond

// *********************************************************************************************************************

// DefaultQueryLimit is the number of records consumed per search when the query has no limit clause
const DefaultQueryLimit = 500

// MaxQueryLimit caps the limit clause so a typo can't buffer millions of records
const MaxQueryLimit = 100_000

// MaxHistoryEntries is the number of persisted search queries kept before the oldest are dropped
const MaxHistoryEntries = 500

// ToastDuration is how long transient status messages stay on screen
const ToastDuration = 5 * time.Second

// AdminRequestTimeout bounds topic listing and consumer group lookups
const AdminRequestTimeout = 10 * time.Second

// ValuePreviewMaxWidth caps the rendered record value in the records list
const ValuePreviewMaxWidth = 120
