package chart

import (
	"testing"
	"time"

	"DentalChart/tooth"
)

func TestFromRecordsPicksLatestKeepsFullHistory(t *testing.T) {
	earlier := NewTimestamp(testNow.Add(-48 * time.Hour))
	later := NewTimestamp(testNow.Add(-time.Hour))
	records := []ToothRecord{{
		ToothNumber: 8, // quadrant 1, position 1
		Procedures: []HistoryEntry{
			{Procedure: "Exam", Notes: "old", Date: earlier, Dentist: &DentistRef{ID: "d-old"}},
			{Procedure: "Filling", Notes: "new", Date: later, Dentist: &DentistRef{ID: "d-new"}},
		},
	}}
	state := FromRecords(records, testNow)
	entry := state[tooth.ID{Quadrant: 1, Position: 1}]
	if entry.Status != StatusFilled {
		t.Errorf("status = %q, want filled", entry.Status)
	}
	if entry.Procedure != "Filling" || entry.Notes != "new" {
		t.Errorf("latest procedure fields not selected: %+v", entry)
	}
	if entry.Dentist == nil || entry.Dentist.RefID() != "d-new" {
		t.Errorf("dentist should come from the latest record: %+v", entry.Dentist)
	}
	if !entry.UpdatedAt.Equal(later.Time) {
		t.Errorf("updatedAt = %v, want %v", entry.UpdatedAt, later.Time)
	}
	if len(entry.History) != 2 {
		t.Fatalf("history should keep both records, got %d", len(entry.History))
	}
}

func TestFromRecordsTieBreaksFirstEncountered(t *testing.T) {
	date := NewTimestamp(testNow)
	records := []ToothRecord{{
		ToothNumber: 8,
		Procedures: []HistoryEntry{
			{Procedure: "First", Date: date},
			{Procedure: "Second", Date: date},
		},
	}}
	state := FromRecords(records, testNow)
	if got := state[tooth.ID{Quadrant: 1, Position: 1}].Procedure; got != "First" {
		t.Fatalf("tie should keep the first-encountered record, got %q", got)
	}
}

func TestFromRecordsDropsBadRecords(t *testing.T) {
	records := []ToothRecord{
		{ToothNumber: 0, Procedures: []HistoryEntry{{Procedure: "x", Date: NewTimestamp(testNow)}}},
		{ToothNumber: 33, Procedures: []HistoryEntry{{Procedure: "x", Date: NewTimestamp(testNow)}}},
		{ToothNumber: 5, Procedures: nil},
	}
	state := FromRecords(records, testNow)
	for _, id := range tooth.All() {
		if state[id].Status != StatusHealthy {
			t.Fatalf("%v should stay default, got %+v", id, state[id])
		}
	}
}

func TestFromRecordsEmptyProcedureMeansHealthy(t *testing.T) {
	records := []ToothRecord{{
		ToothNumber: 12,
		Procedures:  []HistoryEntry{{Procedure: "", Notes: "watch", Date: NewTimestamp(testNow)}},
	}}
	state := FromRecords(records, testNow)
	entry := state[tooth.FromNumber(12)]
	if entry.Status != StatusHealthy || entry.Notes != "watch" {
		t.Fatalf("empty procedure should map to healthy, got %+v", entry)
	}
}

func TestToRecordsEmitsOnlyActiveTeeth(t *testing.T) {
	state := NewDefault(testNow)
	id := tooth.ID{Quadrant: 1, Position: 1}
	entry := state[id]
	entry.Procedure = "Filling"
	entry.Notes = ""
	entry.UpdatedAt = NewTimestamp(testNow)
	state[id] = entry

	records := ToRecords(state)
	if len(records) != 1 {
		t.Fatalf("expected one record, got %d", len(records))
	}
	if records[0].ToothNumber != 8 {
		t.Errorf("toothNumber = %d, want 8", records[0].ToothNumber)
	}
	if len(records[0].Procedures) != 1 || records[0].Procedures[0].Procedure != "Filling" {
		t.Errorf("unexpected procedures: %+v", records[0].Procedures)
	}
}

func TestToRecordsFlattensDentist(t *testing.T) {
	state := NewDefault(testNow)
	id := tooth.ID{Quadrant: 3, Position: 2}
	entry := state[id]
	entry.Procedure = "Extraction"
	entry.Dentist = &DentistRef{Expanded: &Dentist{ID: "d7", FirstName: "Ann", LastName: "Lee"}}
	entry.History = []HistoryEntry{
		{Procedure: "Old", Date: NewTimestamp(testNow.Add(-time.Hour))},
	}
	state[id] = entry

	records := ToRecords(state)
	if len(records) != 1 {
		t.Fatalf("expected one record, got %d", len(records))
	}
	procedure := records[0].Procedures[0]
	if procedure.Dentist == nil || procedure.Dentist.Expanded != nil || procedure.Dentist.ID != "d7" {
		t.Errorf("dentist should flatten to a bare id: %+v", procedure.Dentist)
	}
	// A save contributes only the current edit, never the stored history.
	if len(records[0].Procedures) != 1 {
		t.Errorf("outbound record should carry exactly one procedure")
	}
}

func TestInboundThenOutboundIsNotAStrictRoundTrip(t *testing.T) {
	records := []ToothRecord{{
		ToothNumber: 8,
		Procedures: []HistoryEntry{
			{Procedure: "Exam", Date: NewTimestamp(testNow.Add(-48 * time.Hour))},
			{Procedure: "Filling", Date: NewTimestamp(testNow)},
		},
	}}
	out := ToRecords(FromRecords(records, testNow))
	if len(out) != 1 || len(out[0].Procedures) != 1 {
		t.Fatalf("outbound should collapse to the single current procedure, got %+v", out)
	}
	if out[0].Procedures[0].Procedure != "Filling" {
		t.Fatalf("current procedure should survive, got %q", out[0].Procedures[0].Procedure)
	}
}
