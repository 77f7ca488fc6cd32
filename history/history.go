package history

import (
	"fmt"
	"sync"
	"time"

	"voxlate/core"
	"voxlate/storage"

	"github.com/bytedance/sonic"
)

const (
	// MaxEntries caps the log; the oldest entries are silently dropped past it.
	MaxEntries = 10

	// StorageKey is the fixed key the serialized log lives under.
	StorageKey = "voxlate.history"
)

// Record is one completed translation. Immutable once created; identity is
// the timestamp.
type Record struct {
	OriginalText   string `json:"originalText"`
	TranslatedText string `json:"translatedText"`
	SourceLang     string `json:"sourceLang"`
	TargetLang     string `json:"targetLang"`
	Timestamp      int64  `json:"timestamp"` // epoch milliseconds
}

// NewRecord stamps a record with the current time.
func NewRecord(original, translated, source, target string) Record {
	return Record{
		OriginalText:   original,
		TranslatedText: translated,
		SourceLang:     source,
		TargetLang:     target,
		Timestamp:      time.Now().UnixMilli(),
	}
}

// Store is the bounded most-recent-first translation log. The persisted copy
// is read once at construction; every mutation is written back synchronously
// so a crash loses at most the most recent change.
type Store struct {
	mu      sync.Mutex
	kv      storage.KV
	records []Record
	logger  *core.Logger
}

// NewStore loads the persisted log from kv. A corrupt persisted value is
// discarded with a warning rather than failing startup.
func NewStore(kv storage.KV, logger *core.Logger) (*Store, error) {
	if logger == nil {
		logger = core.NewDevelopmentLogger()
	}
	s := &Store{kv: kv, logger: logger}

	value, ok, err := kv.Get(StorageKey)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	if ok && value != "" {
		var records []Record
		if err := sonic.UnmarshalString(value, &records); err != nil {
			logger.Warn("discarding corrupt history", "error", err)
		} else {
			if len(records) > MaxEntries {
				records = records[:MaxEntries]
			}
			s.records = records
		}
	}
	return s, nil
}

// Append inserts rec at the front, drops entries past the cap and persists.
func (s *Store) Append(rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = append([]Record{rec}, s.records...)
	if len(s.records) > MaxEntries {
		s.records = s.records[:MaxEntries]
	}
	return s.persistLocked()
}

// Clear empties the log and purges the persisted copy.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = nil
	if err := s.kv.Delete(StorageKey); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	return nil
}

// Records returns a copy of the log, most recent first.
func (s *Store) Records() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Record, len(s.records))
	copy(out, s.records)
	return out
}

// Find returns the record with the given timestamp.
func (s *Store) Find(timestamp int64) (Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rec := range s.records {
		if rec.Timestamp == timestamp {
			return rec, true
		}
	}
	return Record{}, false
}

// Len returns the number of entries.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

func (s *Store) persistLocked() error {
	data, err := sonic.MarshalString(s.records)
	if err != nil {
		return fmt.Errorf("serialize history: %w", err)
	}
	if err := s.kv.Set(StorageKey, data); err != nil {
		return fmt.Errorf("persist history: %w", err)
	}
	return nil
}
