// Package journal persists a run history of keyword invocations.
//
// Events are appended to a single-file bbolt database, one entry per
// keyword call, keyed by a monotonically increasing sequence number.
// Test runs survive process restarts, so a flaky overnight suite can
// be reconstructed from the journal afterwards.
package journal

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"go.etcd.io/bbolt"
)

const eventsBucket = "events"

var (
	// ErrClosed indicates an operation on a closed journal.
	ErrClosed = errors.New("journal is closed")

	// ErrBucketMissing indicates a journal file that lost its events
	// bucket, which only happens with outside tampering.
	ErrBucketMissing = errors.New("events bucket missing")
)

// Event is one recorded keyword invocation.
type Event struct {
	// Seq is the journal-assigned sequence number, unique and
	// increasing within one journal file.
	Seq uint64 `json:"seq"`
	// Time is when the invocation finished.
	Time time.Time `json:"time"`
	// Keyword names the invoked operation.
	Keyword string `json:"keyword"`
	// Outcome is "pass" or "fail".
	Outcome string `json:"outcome"`
	// Detail carries operation-specific context, such as the target
	// group or the message count.
	Detail map[string]string `json:"detail,omitempty"`
	// Error holds the failure text for failed invocations.
	Error string `json:"error,omitempty"`
}

// Journal is an append-only keyword run history backed by bbolt.
// A Journal is safe for concurrent use.
type Journal struct {
	mu sync.Mutex
	db *bbolt.DB
}

// Open creates or opens a journal file. The events bucket is created
// on first use.
func Open(path string) (*Journal, error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open journal %s: %w", path, err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(eventsBucket))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize journal %s: %w", path, err)
	}

	logrus.WithFields(logrus.Fields{
		"function": "Open",
		"path":     path,
	}).Debug("Opened keyword journal")
	return &Journal{db: db}, nil
}

// Record appends an event. The journal assigns the sequence number;
// any value already in event.Seq is overwritten.
func (j *Journal) Record(event Event) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.db == nil {
		return ErrClosed
	}

	return j.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(eventsBucket))
		if bucket == nil {
			return ErrBucketMissing
		}

		seq, err := bucket.NextSequence()
		if err != nil {
			return fmt.Errorf("assign sequence: %w", err)
		}
		event.Seq = seq

		data, err := json.Marshal(event)
		if err != nil {
			return fmt.Errorf("encode event: %w", err)
		}

		key := make([]byte, 8)
		binary.BigEndian.PutUint64(key, seq)
		return bucket.Put(key, data)
	})
}

// Recent returns up to limit of the newest events in chronological
// order. A non-positive limit returns every event.
func (j *Journal) Recent(limit int) ([]Event, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.db == nil {
		return nil, ErrClosed
	}

	var events []Event
	err := j.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(eventsBucket))
		if bucket == nil {
			return ErrBucketMissing
		}

		cursor := bucket.Cursor()
		for k, v := cursor.Last(); k != nil; k, v = cursor.Prev() {
			if limit > 0 && len(events) == limit {
				break
			}
			var event Event
			if err := json.Unmarshal(v, &event); err != nil {
				return fmt.Errorf("decode event %x: %w", k, err)
			}
			events = append(events, event)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// The cursor walked newest-first; flip to chronological order.
	for i, j := 0, len(events)-1; i < j; i, j = i+1, j-1 {
		events[i], events[j] = events[j], events[i]
	}
	return events, nil
}

// Len returns the number of recorded events.
func (j *Journal) Len() (int, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.db == nil {
		return 0, ErrClosed
	}

	count := 0
	err := j.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(eventsBucket))
		if bucket == nil {
			return ErrBucketMissing
		}
		count = bucket.Stats().KeyN
		return nil
	})
	return count, err
}

// Close releases the journal file. Further operations return
// ErrClosed.
func (j *Journal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.db == nil {
		return nil
	}
	err := j.db.Close()
	j.db = nil
	return err
}
