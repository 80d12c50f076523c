// Package fileio writes exports to disk.
package fileio

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// SaveJSON writes v indented to a timestamped file in dir, e.g.
// records-20250601-120000.json, creating dir as needed. It returns the
// path of the written file.
func SaveJSON(dir, prefix string, v interface{}) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating export dir: %w", err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling export: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("%s-%s.json", prefix, time.Now().Format("20060102-150405")))
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}
