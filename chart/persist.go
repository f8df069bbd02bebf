package chart

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"DentalChart/tooth"
)

// Store is the key-value surface the chart persists through. Get returns
// (nil, nil) for an absent key. Implementations must be safe for use from a
// single chart instance; last write wins.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// MemoryStore is an in-process Store, used as the default and in tests.
type MemoryStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	value, ok := m.data[key]
	if !ok {
		return nil, nil
	}
	copied := make([]byte, len(value))
	copy(copied, value)
	return copied, nil
}

func (m *MemoryStore) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := make([]byte, len(value))
	copy(copied, value)
	m.data[key] = copied
	return nil
}

// Load reads and decodes the chart stored under key. Any store error, decode
// failure, or shape violation yields (nil, false); callers fall back to the
// supplied initial state or defaults.
func Load(ctx context.Context, store Store, key string, now time.Time) (State, bool) {
	if store == nil || key == "" {
		return nil, false
	}
	raw, err := store.Get(ctx, key)
	if err != nil || raw == nil {
		return nil, false
	}
	state, err := DecodeStored(raw, now)
	if err != nil {
		return nil, false
	}
	return state, true
}

// Save encodes and writes the chart under key. Persistence is best effort:
// failures are swallowed and the in-memory chart stays the source of truth.
func Save(ctx context.Context, store Store, key string, state State) {
	if store == nil || key == "" {
		return
	}
	encoded, err := json.Marshal(state)
	if err != nil {
		return
	}
	_ = store.Set(ctx, key, encoded)
}

// storedTooth mirrors ToothState with pointer fields so that missing required
// fields are distinguishable from zero values.
type storedTooth struct {
	ID        *string           `json:"id"`
	Status    *string           `json:"status"`
	Notes     *string           `json:"notes"`
	Procedure *string           `json:"procedure"`
	UpdatedAt *Timestamp        `json:"updatedAt"`
	Dentist   *DentistRef       `json:"dentist"`
	History   []json.RawMessage `json:"history"`
}

type storedHistoryEntry struct {
	Procedure string      `json:"procedure"`
	Notes     string      `json:"notes"`
	Date      *Timestamp  `json:"date"`
	Dentist   *DentistRef `json:"dentist"`
}

// DecodeStored parses a persisted chart blob into a full 32-entry State. The
// blob must be a JSON object; that failing, an error describes the reason.
// Individual teeth that miss required fields, carry a mismatched id, or an
// unrecognized status are silently replaced with defaults stamped with now,
// mirroring Normalize.
func DecodeStored(raw []byte, now time.Time) (State, error) {
	var blob map[string]json.RawMessage
	if err := json.Unmarshal(raw, &blob); err != nil {
		return nil, fmt.Errorf("chart: stored state is not an object: %w", err)
	}
	base := NewDefault(now)
	for _, id := range tooth.All() {
		entry, ok := blob[id.String()]
		if !ok {
			continue
		}
		var stored storedTooth
		if err := json.Unmarshal(entry, &stored); err != nil {
			continue
		}
		if stored.ID == nil || stored.Status == nil || stored.Notes == nil ||
			stored.Procedure == nil || stored.UpdatedAt == nil {
			continue
		}
		if *stored.ID != id.String() || !Status(*stored.Status).Valid() {
			continue
		}
		dentist := stored.Dentist
		if dentist != nil && dentist.IsZero() {
			dentist = nil
		}
		base[id] = ToothState{
			ID:        id,
			Status:    Status(*stored.Status),
			Notes:     *stored.Notes,
			Procedure: *stored.Procedure,
			UpdatedAt: *stored.UpdatedAt,
			Dentist:   dentist,
			History:   decodeStoredHistory(stored.History),
		}
	}
	return base, nil
}

func decodeStoredHistory(raw []json.RawMessage) []HistoryEntry {
	entries := make([]HistoryEntry, 0, len(raw))
	for _, item := range raw {
		var stored storedHistoryEntry
		if err := json.Unmarshal(item, &stored); err != nil {
			continue
		}
		if stored.Date == nil {
			continue
		}
		dentist := stored.Dentist
		if dentist != nil && dentist.IsZero() {
			dentist = nil
		}
		entries = append(entries, HistoryEntry{
			Procedure: stored.Procedure,
			Notes:     stored.Notes,
			Date:      *stored.Date,
			Dentist:   dentist,
		})
	}
	return entries
}
