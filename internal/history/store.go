package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
	"go.etcd.io/bbolt"
)

const bucketName = "analyses"

// Record is one saved triage run.
type Record struct {
	ID         string    `json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	Summary    string    `json:"summary"`
	OutputFile string    `json:"output_file"`
}

// Store keeps triage analyses in a local BoltDB file so operators can look
// back at what the model said about earlier incidents.
type Store struct {
	db *bbolt.DB
}

// Open opens (or creates) the history database at dbPath.
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	db, err := bbolt.Open(dbPath, 0600, &bbolt.Options{
		Timeout: 1 * time.Second,
	})
	if err != nil {
		// A lock timeout means another ethmon invocation holds the file.
		return nil, fmt.Errorf("failed to open history db (file may be locked by another process): %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create bucket: %w", err)
	}

	log.Debug().Str("db_path", dbPath).Msg("History store opened")
	return &Store{db: db}, nil
}

// Put saves one analysis record.
func (s *Store) Put(rec Record) error {
	val, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode record: %w", err)
	}

	err = s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))
		if b == nil {
			return fmt.Errorf("bucket not found")
		}
		return b.Put([]byte(makeKey(rec)), val)
	})
	if err != nil {
		return fmt.Errorf("failed to save record: %w", err)
	}

	log.Debug().Str("id", rec.ID).Msg("Analysis recorded")
	return nil
}

// Recent returns up to limit records, newest first.
func (s *Store) Recent(limit int) ([]Record, error) {
	var records []Record

	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))
		if b == nil {
			return fmt.Errorf("bucket not found")
		}

		// Keys are RFC3339-prefixed, so reverse cursor order is
		// newest-first.
		c := b.Cursor()
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			if limit > 0 && len(records) >= limit {
				break
			}
			var rec Record
			if err := json.Unmarshal(v, &rec); err != nil {
				log.Warn().Err(err).Str("key", string(k)).Msg("Skipping undecodable history record")
				continue
			}
			records = append(records, rec)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}

	return records, nil
}

// Close closes the history database.
func (s *Store) Close() error {
	return s.db.Close()
}

// makeKey builds a lexically sortable key: timestamp first, run ID to break
// ties.
func makeKey(rec Record) string {
	return fmt.Sprintf("%s:%s", rec.CreatedAt.UTC().Format(time.RFC3339), rec.ID)
}
