package internal

import (
	"github.com/topix-dev/topix/internal/keymap"
)

type Config struct {
	KeyMap      keymap.KeyMap
	Brokers     []string
	RegistryURL string
	// Topics pre-selects topics in the picker at startup
	Topics []string
	// InitialQuery runs immediately when Topics is non-empty
	InitialQuery string
	ExportDir    string
	// URLTemplate renders the o key's browser link for a record, with
	// {topic}, {partition} and {offset} placeholders
	URLTemplate string
	HistoryPath string
	Version     string
}
