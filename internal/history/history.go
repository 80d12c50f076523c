// Package history persists submitted search queries across sessions.
package history

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/topix-dev/topix/internal/constants"
)

var bucketQueries = []byte("queries")

// Store is a bbolt-backed append-only list of queries, most recent last.
// Keys are big-endian sequence numbers so iteration order is insertion
// order.
type Store struct {
	db *bolt.DB
}

// Open opens or creates the history database at path, creating parent
// directories as needed.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating history dir: %w", err)
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening history db: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketQueries)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing history db: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Add appends a query. If the query equals the most recent entry it is
// not duplicated. Oldest entries are trimmed past the retention cap.
func (s *Store) Add(q string) error {
	if q == "" {
		return nil
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketQueries)
		c := b.Cursor()
		if _, last := c.Last(); string(last) == q {
			return nil
		}
		seq, err := b.NextSequence()
		if err != nil {
			return err
		}
		if err := b.Put(seqKey(seq), []byte(q)); err != nil {
			return err
		}
		count := 0
		for k, _ := c.First(); k != nil; k, _ = c.Next() {
			count++
		}
		for ; count > constants.MaxHistoryEntries; count-- {
			c.First()
			if err := c.Delete(); err != nil {
				return err
			}
		}
		return nil
	})
}

// All returns every stored query, oldest first.
func (s *Store) All() ([]string, error) {
	var queries []string
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketQueries).ForEach(func(_, v []byte) error {
			queries = append(queries, string(v))
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("reading history: %w", err)
	}
	return queries, nil
}

func seqKey(seq uint64) []byte {
	k := make([]byte, 8)
	binary.BigEndian.PutUint64(k, seq)
	return k
}

// DefaultPath is ~/.config/topix/history.db, or a path under the current
// directory when the home directory cannot be determined.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".topix", "history.db")
	}
	return filepath.Join(home, ".config", "topix", "history.db")
}
