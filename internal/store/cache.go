package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	bolt "go.etcd.io/bbolt"
)

var summariesBucket = []byte("summaries")

// SummaryCache maps a content key to a previously generated summary.
// It stores summaries only, never articles or URLs.
type SummaryCache interface {
	Get(key string) (string, bool, error)
	Put(key, summary string) error
	Close() error
}

// BoltCache is a SummaryCache backed by a bbolt file.
type BoltCache struct {
	db *bolt.DB
}

// OpenBolt opens (or creates) the cache file at path.
func OpenBolt(path string) (*BoltCache, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("cache path is empty")
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create cache dir: %w", err)
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bolt cache: %w", err)
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(summariesBucket)
		return err
	}); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create summaries bucket: %w", err)
	}

	return &BoltCache{db: db}, nil
}

// Get returns the cached summary for key.
func (c *BoltCache) Get(key string) (string, bool, error) {
	var (
		out   string
		found bool
	)
	err := c.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(summariesBucket)
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(key)); v != nil {
			out = string(v) // copy; v is only valid inside the transaction
			found = true
		}
		return nil
	})
	if err != nil {
		return "", false, fmt.Errorf("read summary cache: %w", err)
	}
	return out, found, nil
}

// Put stores summary under key.
func (c *BoltCache) Put(key, summary string) error {
	err := c.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(summariesBucket)
		if err != nil {
			return err
		}
		return b.Put([]byte(key), []byte(summary))
	})
	if err != nil {
		return fmt.Errorf("write summary cache: %w", err)
	}
	return nil
}

// Close releases the file lock.
func (c *BoltCache) Close() error { return c.db.Close() }
