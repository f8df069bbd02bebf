// Package chart holds the dental chart state model and its persistence
// adapters: the per-tooth state map, normalization of untrusted input, the
// keyed local cache, and the mapping to and from the backend's denormalized
// per-tooth procedure-record format.
//
// Note on the outbound mapping: a save emits exactly one procedure record per
// tooth with activity (the current edit). Earlier history entries are not
// replayed into the payload. This asymmetry matches the save contract of the
// consuming backend and is deliberate.
package chart

import (
	"encoding/json"
	"sort"
	"strings"
	"time"

	"DentalChart/tooth"
)

// Status is the closed set of per-tooth conditions the chart tracks.
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusCaries    Status = "caries"
	StatusMissing   Status = "missing"
	StatusFilled    Status = "filled"
	StatusCrown     Status = "crown"
	StatusRootCanal Status = "root_canal"
	StatusImplant   Status = "implant"
	StatusExtracted Status = "extracted"
	StatusBridge    Status = "bridge"
)

// Statuses returns all statuses in display order.
func Statuses() []Status {
	return []Status{
		StatusHealthy,
		StatusCaries,
		StatusMissing,
		StatusFilled,
		StatusCrown,
		StatusRootCanal,
		StatusImplant,
		StatusExtracted,
		StatusBridge,
	}
}

// Valid reports membership in the closed status set.
func (s Status) Valid() bool {
	switch s {
	case StatusHealthy, StatusCaries, StatusMissing, StatusFilled, StatusCrown,
		StatusRootCanal, StatusImplant, StatusExtracted, StatusBridge:
		return true
	}
	return false
}

// Label returns the human-readable form, e.g. "root canal".
func (s Status) Label() string {
	return strings.ReplaceAll(string(s), "_", " ")
}

// Dentist is an expanded dentist directory entry.
type Dentist struct {
	ID        string `json:"_id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// DisplayName renders the dentist for the panel and history views.
func (d Dentist) DisplayName() string {
	return "Dr. " + d.FirstName + " " + d.LastName
}

// DentistRef is either a bare dentist identifier or an expanded directory
// entry. Both forms appear on the wire and both must be accepted.
type DentistRef struct {
	ID       string
	Expanded *Dentist
}

// RefID flattens the reference to a bare identifier.
func (r DentistRef) RefID() string {
	if r.Expanded != nil {
		return r.Expanded.ID
	}
	return r.ID
}

// DisplayName resolves the reference against an optional directory, falling
// back to the expanded record and then the bare identifier.
func (r DentistRef) DisplayName(directory []Dentist) string {
	if r.Expanded != nil {
		return r.Expanded.DisplayName()
	}
	for _, d := range directory {
		if d.ID == r.ID {
			return d.DisplayName()
		}
	}
	return r.ID
}

// IsZero reports whether the reference points at nothing.
func (r DentistRef) IsZero() bool {
	return r.ID == "" && r.Expanded == nil
}

// MarshalJSON emits the expanded record when present, otherwise the bare id.
func (r DentistRef) MarshalJSON() ([]byte, error) {
	if r.Expanded != nil {
		return json.Marshal(r.Expanded)
	}
	return json.Marshal(r.ID)
}

// UnmarshalJSON accepts a string id, an expanded record, or null. Anything
// else is treated as absent rather than rejected.
func (r *DentistRef) UnmarshalJSON(data []byte) error {
	*r = DentistRef{}
	var id string
	if err := json.Unmarshal(data, &id); err == nil {
		r.ID = id
		return nil
	}
	var expanded Dentist
	if err := json.Unmarshal(data, &expanded); err == nil && expanded.ID != "" {
		r.Expanded = &expanded
		return nil
	}
	return nil
}

// Timestamp wraps time.Time with tolerant decoding of the date formats the
// backend emits (RFC 3339 strings, date-only strings, epoch milliseconds).
type Timestamp struct {
	time.Time
}

// NewTimestamp builds a Timestamp from a time value.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t}
}

// MarshalJSON emits an RFC 3339 UTC string.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.UTC().Format(time.RFC3339Nano))
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// UnmarshalJSON parses strings in the known layouts or a numeric epoch in
// milliseconds.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		for _, layout := range timestampLayouts {
			if parsed, err := time.Parse(layout, text); err == nil {
				t.Time = parsed
				return nil
			}
		}
		return &time.ParseError{Layout: time.RFC3339, Value: text}
	}
	var millis int64
	if err := json.Unmarshal(data, &millis); err != nil {
		return err
	}
	t.Time = time.UnixMilli(millis).UTC()
	return nil
}

// HistoryEntry is one historical procedure record for a tooth.
type HistoryEntry struct {
	Procedure string      `json:"procedure"`
	Notes     string      `json:"notes"`
	Date      Timestamp   `json:"date"`
	Dentist   *DentistRef `json:"dentist,omitempty"`
}

// ToothState is the chart's record for a single tooth. The ID field always
// equals the tooth's key in the containing State; a mismatch marks the record
// as corrupted and normalization discards it.
type ToothState struct {
	ID        tooth.ID       `json:"id"`
	Status    Status         `json:"status"`
	Notes     string         `json:"notes"`
	Procedure string         `json:"procedure"`
	UpdatedAt Timestamp      `json:"updatedAt"`
	Dentist   *DentistRef    `json:"dentist,omitempty"`
	History   []HistoryEntry `json:"history"`
}

func cloneTooth(t ToothState) ToothState {
	copied := t
	if t.Dentist != nil {
		ref := *t.Dentist
		if t.Dentist.Expanded != nil {
			expanded := *t.Dentist.Expanded
			ref.Expanded = &expanded
		}
		copied.Dentist = &ref
	}
	if t.History != nil {
		copied.History = make([]HistoryEntry, len(t.History))
		copy(copied.History, t.History)
	}
	return copied
}

// State maps every canonical tooth ID to its ToothState. A well-formed State
// always has exactly 32 entries.
type State map[tooth.ID]ToothState

// NewDefault builds an all-healthy chart stamped with now.
func NewDefault(now time.Time) State {
	state := make(State, 32)
	stamp := NewTimestamp(now)
	for _, id := range tooth.All() {
		state[id] = ToothState{
			ID:        id,
			Status:    StatusHealthy,
			UpdatedAt: stamp,
			History:   []HistoryEntry{},
		}
	}
	return state
}

// Normalize is the single choke point through which externally-sourced state
// must pass. It returns a full 32-entry chart where each tooth is copied from
// the candidate only when its ID field matches its key and its status is a
// member of the closed set; every other tooth falls back to a default stamped
// with now. It never fails.
func Normalize(candidate State, now time.Time) State {
	base := NewDefault(now)
	for _, id := range tooth.All() {
		entry, ok := candidate[id]
		if !ok {
			continue
		}
		if entry.ID == id && entry.Status.Valid() {
			base[id] = cloneTooth(entry)
		}
	}
	return base
}

// Clone returns a copy deep enough that mutating the clone's per-tooth
// records, history, or dentist references never affects the original.
func (s State) Clone() State {
	copied := make(State, len(s))
	for id, entry := range s {
		copied[id] = cloneTooth(entry)
	}
	return copied
}

// SortedHistory returns a new slice ordered by date descending. Entries with
// equal dates keep their stored order; the stored slice is never mutated.
func SortedHistory(entries []HistoryEntry) []HistoryEntry {
	sorted := make([]HistoryEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.After(sorted[j].Date.Time)
	})
	return sorted
}
