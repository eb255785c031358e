package store

import (
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"pdfchat/internal/domain"
)

var bucketExtracts = []byte("extracts")

// ExtractCache persists extraction results keyed by content hash, so an
// unchanged PDF never needs re-parsing, even across process runs. Only
// raw page units are stored; embeddings and the vector index are
// rebuilt in memory each run.
type ExtractCache struct {
	db *bbolt.DB
}

func NewExtractCache(path string) (*ExtractCache, error) {
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketExtracts)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create extracts bucket: %w", err)
	}

	return &ExtractCache{db: db}, nil
}

type cachedExtract struct {
	Units []storedUnit `json:"units"`
}

type storedUnit struct {
	Text   string `json:"text"`
	Source string `json:"source"`
	Page   string `json:"page"`
}

// Get returns the cached page units for a content hash, or false when
// the hash has never been seen.
func (c *ExtractCache) Get(contentHash string) ([]domain.Chunk, bool, error) {
	var units []domain.Chunk
	found := false

	err := c.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketExtracts)
		if b == nil {
			return nil
		}
		data := b.Get([]byte(contentHash))
		if data == nil {
			return nil
		}

		var entry cachedExtract
		if err := json.Unmarshal(data, &entry); err != nil {
			// Treat a corrupted entry as a miss.
			return nil
		}

		units = make([]domain.Chunk, len(entry.Units))
		for i, u := range entry.Units {
			units[i] = domain.Chunk{Text: u.Text, Source: u.Source, Page: u.Page}
		}
		found = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return units, found, nil
}

// Put stores page units under a content hash.
func (c *ExtractCache) Put(contentHash string, units []domain.Chunk) error {
	entry := cachedExtract{Units: make([]storedUnit, len(units))}
	for i, u := range units {
		entry.Units[i] = storedUnit{Text: u.Text, Source: u.Source, Page: u.Page}
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	return c.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketExtracts)
		if b == nil {
			return fmt.Errorf("extracts bucket not found")
		}
		return b.Put([]byte(contentHash), data)
	})
}

func (c *ExtractCache) Close() error {
	return c.db.Close()
}
