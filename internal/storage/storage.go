package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/dgraph-io/badger/v4"
)

const (
	keyPreferences = "preferences"
	recordPrefix   = "record/"
)

// Preferences are the engine settings that survive restarts.
type Preferences struct {
	EvalNoise bool      `json:"eval_noise"`
	NoiseSeed uint64    `json:"noise_seed"`
	LastUsed  time.Time `json:"last_used"`
}

// DefaultPreferences returns the settings used before anything was saved.
func DefaultPreferences() *Preferences {
	return &Preferences{}
}

// SearchRecord is one finished search.
type SearchRecord struct {
	FEN      string        `json:"fen"`
	BestMove string        `json:"best_move"`
	Score    int           `json:"score"`
	Depth    int           `json:"depth"`
	Nodes    uint64        `json:"nodes"`
	Elapsed  time.Duration `json:"elapsed"`
	At       time.Time     `json:"at"`
}

// Stats summarise every stored search.
type Stats struct {
	Searches int
	Nodes    uint64
	Elapsed  time.Duration
}

// Storage wraps a badger database.
type Storage struct {
	db *badger.DB
}

// Open opens or creates the database under dir. An empty dir means the
// default data directory.
func Open(dir string) (*Storage, error) {
	dbDir, err := DatabaseDir(dir)
	if err != nil {
		return nil, fmt.Errorf("storage: %w", err)
	}
	return open(badger.DefaultOptions(dbDir))
}

// OpenInMemory opens a database that lives until Close.
func OpenInMemory() (*Storage, error) {
	return open(badger.DefaultOptions("").WithInMemory(true))
}

func open(opts badger.Options) (*Storage, error) {
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("storage: open: %w", err)
	}
	return &Storage{db: db}, nil
}

func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SavePreferences stamps LastUsed and stores prefs.
func (s *Storage) SavePreferences(prefs *Preferences) error {
	prefs.LastUsed = time.Now()
	data, err := json.Marshal(prefs)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyPreferences), data)
	})
}

// LoadPreferences returns the stored preferences, or the defaults if none
// were saved.
func (s *Storage) LoadPreferences() (*Preferences, error) {
	prefs := DefaultPreferences()
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyPreferences))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, prefs)
		})
	})
	return prefs, err
}

// recordKey groups records by position; the zero-padded timestamp keeps
// each group in time order.
func recordKey(fen string, at time.Time) []byte {
	return fmt.Appendf(nil, "%s%016x/%020d", recordPrefix, xxhash.Sum64String(fen), at.UnixNano())
}

func positionPrefix(fen string) []byte {
	return fmt.Appendf(nil, "%s%016x/", recordPrefix, xxhash.Sum64String(fen))
}

// RecordSearch appends rec to the log. A zero At is set to now.
func (s *Storage) RecordSearch(rec SearchRecord) error {
	if rec.At.IsZero() {
		rec.At = time.Now()
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(recordKey(rec.FEN, rec.At), data)
	})
}

// Records returns up to limit records for fen, newest first. An empty fen
// selects every position; a limit of zero or less means no limit.
func (s *Storage) Records(fen string, limit int) ([]SearchRecord, error) {
	prefix := []byte(recordPrefix)
	if fen != "" {
		prefix = positionPrefix(fen)
	}

	var out []SearchRecord
	err := s.each(prefix, func(rec SearchRecord) {
		out = append(out, rec)
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].At.After(out[j].At) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Stats totals every stored search.
func (s *Storage) Stats() (Stats, error) {
	var st Stats
	err := s.each([]byte(recordPrefix), func(rec SearchRecord) {
		st.Searches++
		st.Nodes += rec.Nodes
		st.Elapsed += rec.Elapsed
	})
	return st, err
}

func (s *Storage) each(prefix []byte, fn func(SearchRecord)) error {
	return s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var rec SearchRecord
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			})
			if err != nil {
				return fmt.Errorf("storage: record %s: %w", it.Item().Key(), err)
			}
			fn(rec)
		}
		return nil
	})
}
