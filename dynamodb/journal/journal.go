// Package journal records the assembled expression payloads of requests in a
// BadgerDB database. A Recorder wraps a DynamoDB client, records each request
// and forwards it, or answers with empty outputs in dry-run mode.
package journal

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"
)

// ErrNotFound is returned by Get for an unknown sequence number.
var ErrNotFound = errors.New("journal entry not found")

const sequenceBandwidth = 100

// Options configures the journal database.
type Options struct {
	// Path to the database directory. If empty, uses in-memory mode.
	Path string
	// InMemory forces in-memory mode even if Path is set.
	InMemory bool
	// Logger receives badger's logs and the journal's own. If nil, logging
	// is disabled.
	Logger *zerolog.Logger
}

// Journal is an append-only log of entries. It is safe for concurrent use.
type Journal struct {
	db  *badger.DB
	seq *badger.Sequence
	log zerolog.Logger
	now func() time.Time
}

// Open opens or creates the journal database.
func Open(opts Options) (*Journal, error) {
	badgerOpts := badger.DefaultOptions(opts.Path)

	// badger refuses a directory in in-memory mode.
	if opts.Path == "" || opts.InMemory {
		badgerOpts = badger.DefaultOptions("").WithInMemory(true)
	}

	log := zerolog.Nop()
	if opts.Logger != nil {
		log = opts.Logger.With().Str("component", "journal").Logger()
		badgerOpts = badgerOpts.WithLogger(badgerLogger{log: log})
	} else {
		badgerOpts = badgerOpts.WithLogger(nil)
	}

	db, err := badger.Open(badgerOpts)
	if err != nil {
		return nil, fmt.Errorf("open badger db: %w", err)
	}
	seq, err := db.GetSequence([]byte(sequenceKey), sequenceBandwidth)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("open sequence: %w", err)
	}
	return &Journal{db: db, seq: seq, log: log, now: time.Now}, nil
}

// Close releases unused sequence numbers and closes the database.
func (j *Journal) Close() error {
	if err := j.seq.Release(); err != nil {
		j.db.Close()
		return fmt.Errorf("release sequence: %w", err)
	}
	return j.db.Close()
}

// Append assigns the next sequence number to e, stamps its time if unset and
// stores it.
func (j *Journal) Append(e *Entry) error {
	n, err := j.seq.Next()
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}
	e.Seq = n + 1
	if e.Time.IsZero() {
		e.Time = j.now().UTC()
	}
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode entry: %w", err)
	}
	err = j.db.Update(func(txn *badger.Txn) error {
		return txn.Set(entryKey(e.Seq), data)
	})
	if err != nil {
		return fmt.Errorf("store entry %d: %w", e.Seq, err)
	}
	j.log.Debug().Uint64("seq", e.Seq).Str("operation", e.Operation).Msg("recorded")
	return nil
}

// Get returns the entry with the given sequence number.
func (j *Journal) Get(seq uint64) (*Entry, error) {
	var e Entry
	err := j.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(entryKey(seq))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &e)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("%w: %d", ErrNotFound, seq)
	}
	if err != nil {
		return nil, fmt.Errorf("read entry %d: %w", seq, err)
	}
	return &e, nil
}

// Entries returns all entries in sequence order.
func (j *Journal) Entries() ([]Entry, error) {
	var entries []Entry
	err := j.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = entryKeyPrefix()
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			seq, err := seqFromKey(item.Key())
			if err != nil {
				return err
			}
			var e Entry
			err = item.Value(func(val []byte) error {
				return json.Unmarshal(val, &e)
			})
			if err != nil {
				return fmt.Errorf("decode entry %d: %w", seq, err)
			}
			entries = append(entries, e)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	return entries, nil
}
