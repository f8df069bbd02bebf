package chart

import (
	"time"

	"DentalChart/tooth"
)

// ToothRecord is the backend's denormalized shape: one record per tooth with
// activity, carrying that tooth's procedure history.
type ToothRecord struct {
	ToothNumber int            `json:"toothNumber"`
	Procedures  []HistoryEntry `json:"procedures"`
}

// latestProcedure picks the procedure with the maximum date. Equal dates keep
// the first-encountered record, so the choice is deterministic for a given
// input order.
func latestProcedure(procedures []HistoryEntry) (HistoryEntry, bool) {
	if len(procedures) == 0 {
		return HistoryEntry{}, false
	}
	latest := procedures[0]
	for _, candidate := range procedures[1:] {
		if candidate.Date.After(latest.Date.Time) {
			latest = candidate
		}
	}
	return latest, true
}

// FromRecords maps the backend's record collection into a full chart. Records
// with an out-of-range tooth number or no procedures are dropped; every other
// tooth keeps its default state stamped with now. The selected (latest-dated)
// procedure supplies the tooth's current status, notes, procedure, and
// dentist, while the tooth's history keeps the entire incoming list.
func FromRecords(records []ToothRecord, now time.Time) State {
	state := NewDefault(now)
	for _, record := range records {
		if record.ToothNumber < 1 || record.ToothNumber > 32 {
			continue
		}
		latest, ok := latestProcedure(record.Procedures)
		if !ok {
			continue
		}
		id := tooth.FromNumber(record.ToothNumber)
		status := StatusHealthy
		if latest.Procedure != "" {
			status = StatusFilled
		}
		history := make([]HistoryEntry, len(record.Procedures))
		copy(history, record.Procedures)
		state[id] = ToothState{
			ID:        id,
			Status:    status,
			Notes:     latest.Notes,
			Procedure: latest.Procedure,
			Dentist:   latest.Dentist,
			UpdatedAt: latest.Date,
			History:   history,
		}
	}
	return state
}

// ToRecords emits one record per tooth whose procedure or notes is non-empty,
// in canonical enumeration order. Each record carries a single procedure
// entry built from the tooth's current edit; expanded dentist references are
// flattened to bare identifiers. Prior history entries are intentionally not
// replayed (see the package comment).
func ToRecords(state State) []ToothRecord {
	records := make([]ToothRecord, 0)
	for _, id := range tooth.All() {
		entry, ok := state[id]
		if !ok {
			continue
		}
		if entry.Procedure == "" && entry.Notes == "" {
			continue
		}
		var dentist *DentistRef
		if entry.Dentist != nil && !entry.Dentist.IsZero() {
			dentist = &DentistRef{ID: entry.Dentist.RefID()}
		}
		records = append(records, ToothRecord{
			ToothNumber: id.Number(),
			Procedures: []HistoryEntry{{
				Procedure: entry.Procedure,
				Notes:     entry.Notes,
				Date:      entry.UpdatedAt,
				Dentist:   dentist,
			}},
		})
	}
	return records
}
