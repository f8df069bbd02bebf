package chart

import (
	"encoding/json"
	"reflect"
	"testing"
	"time"

	"DentalChart/tooth"
)

var testNow = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

func TestNewDefault(t *testing.T) {
	state := NewDefault(testNow)
	if len(state) != 32 {
		t.Fatalf("expected 32 entries, got %d", len(state))
	}
	for _, id := range tooth.All() {
		entry, ok := state[id]
		if !ok {
			t.Fatalf("missing entry for %v", id)
		}
		if entry.ID != id {
			t.Errorf("entry id %v under key %v", entry.ID, id)
		}
		if entry.Status != StatusHealthy {
			t.Errorf("%v: status %q, want healthy", id, entry.Status)
		}
		if entry.Notes != "" || entry.Procedure != "" {
			t.Errorf("%v: expected empty notes/procedure", id)
		}
		if len(entry.History) != 0 {
			t.Errorf("%v: expected empty history", id)
		}
		if !entry.UpdatedAt.Equal(testNow) {
			t.Errorf("%v: updatedAt %v, want %v", id, entry.UpdatedAt, testNow)
		}
	}
}

func TestStatusValid(t *testing.T) {
	for _, status := range Statuses() {
		if !status.Valid() {
			t.Errorf("%q should be valid", status)
		}
	}
	for _, status := range []Status{"", "bogus", "Healthy", "cavity"} {
		if status.Valid() {
			t.Errorf("%q should be invalid", status)
		}
	}
}

func TestNormalizeRejectsBadTeethKeepsGoodOnes(t *testing.T) {
	bad := tooth.ID{Quadrant: 1, Position: 1}
	good := tooth.ID{Quadrant: 1, Position: 2}
	mismatched := tooth.ID{Quadrant: 1, Position: 3}
	candidate := State{
		bad:  {ID: bad, Status: "bogus", Notes: "x"},
		good: {ID: good, Status: StatusCrown, Notes: "kept", UpdatedAt: NewTimestamp(testNow)},
		mismatched: {
			ID:     tooth.ID{Quadrant: 4, Position: 4},
			Status: StatusCaries,
		},
	}
	normalized := Normalize(candidate, testNow)
	if len(normalized) != 32 {
		t.Fatalf("expected 32 entries, got %d", len(normalized))
	}
	if normalized[bad].Status != StatusHealthy || normalized[bad].Notes != "" {
		t.Errorf("bogus status should reset to default, got %+v", normalized[bad])
	}
	if normalized[good].Status != StatusCrown || normalized[good].Notes != "kept" {
		t.Errorf("valid tooth should be preserved, got %+v", normalized[good])
	}
	if normalized[mismatched].Status != StatusHealthy {
		t.Errorf("mismatched id should reset to default, got %+v", normalized[mismatched])
	}
}

func TestNormalizeNilYieldsDefault(t *testing.T) {
	if !reflect.DeepEqual(Normalize(nil, testNow), NewDefault(testNow)) {
		t.Fatal("Normalize(nil) should equal the default chart")
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	id := tooth.ID{Quadrant: 2, Position: 5}
	candidate := State{
		id: {ID: id, Status: StatusImplant, Procedure: "Implant", UpdatedAt: NewTimestamp(testNow)},
	}
	once := Normalize(candidate, testNow)
	twice := Normalize(once, testNow)
	if !reflect.DeepEqual(once, twice) {
		t.Fatal("Normalize should be idempotent")
	}
}

func TestCloneIsolatesMutations(t *testing.T) {
	id := tooth.ID{Quadrant: 3, Position: 1}
	original := NewDefault(testNow)
	entry := original[id]
	entry.Notes = "original"
	entry.History = []HistoryEntry{{Procedure: "Exam", Date: NewTimestamp(testNow)}}
	entry.Dentist = &DentistRef{Expanded: &Dentist{ID: "d1", FirstName: "Ann", LastName: "Lee"}}
	original[id] = entry

	clone := original.Clone()
	mutated := clone[id]
	mutated.Notes = "mutated"
	mutated.History[0].Procedure = "Extraction"
	mutated.Dentist.Expanded.FirstName = "Bob"
	clone[id] = mutated

	if original[id].Notes != "original" {
		t.Error("clone mutation leaked into original notes")
	}
	if original[id].History[0].Procedure != "Exam" {
		t.Error("clone mutation leaked into original history")
	}
	if original[id].Dentist.Expanded.FirstName != "Ann" {
		t.Error("clone mutation leaked into original dentist")
	}
}

func TestSortedHistoryDescendingStable(t *testing.T) {
	first := HistoryEntry{Procedure: "a", Date: NewTimestamp(testNow)}
	second := HistoryEntry{Procedure: "b", Date: NewTimestamp(testNow.Add(time.Hour))}
	tiedA := HistoryEntry{Procedure: "tie-a", Date: NewTimestamp(testNow.Add(-time.Hour))}
	tiedB := HistoryEntry{Procedure: "tie-b", Date: NewTimestamp(testNow.Add(-time.Hour))}
	input := []HistoryEntry{first, tiedA, second, tiedB}

	sorted := SortedHistory(input)
	want := []string{"b", "a", "tie-a", "tie-b"}
	for i, procedure := range want {
		if sorted[i].Procedure != procedure {
			t.Fatalf("position %d: got %q, want %q", i, sorted[i].Procedure, procedure)
		}
	}
	if input[0].Procedure != "a" || input[1].Procedure != "tie-a" {
		t.Fatal("SortedHistory must not mutate its input")
	}
}

func TestDentistRefJSON(t *testing.T) {
	cases := []struct {
		name     string
		raw      string
		wantID   string
		expanded bool
	}{
		{"bare id", `"abc"`, "abc", false},
		{"expanded", `{"_id":"d1","firstName":"Ann","lastName":"Lee"}`, "d1", true},
		{"null", `null`, "", false},
		{"garbage number", `42`, "", false},
		{"object without id", `{"firstName":"Ann"}`, "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var ref DentistRef
			if err := json.Unmarshal([]byte(tc.raw), &ref); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if ref.RefID() != tc.wantID {
				t.Errorf("RefID() = %q, want %q", ref.RefID(), tc.wantID)
			}
			if (ref.Expanded != nil) != tc.expanded {
				t.Errorf("expanded = %v, want %v", ref.Expanded != nil, tc.expanded)
			}
		})
	}

	expanded := DentistRef{Expanded: &Dentist{ID: "d1", FirstName: "Ann", LastName: "Lee"}}
	out, err := json.Marshal(expanded)
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != `{"_id":"d1","firstName":"Ann","lastName":"Lee"}` {
		t.Errorf("expanded marshal: %s", out)
	}
	bare := DentistRef{ID: "d2"}
	out, err = json.Marshal(bare)
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != `"d2"` {
		t.Errorf("bare marshal: %s", out)
	}
}

func TestDentistRefDisplayName(t *testing.T) {
	directory := []Dentist{{ID: "d1", FirstName: "Ann", LastName: "Lee"}}
	cases := []struct {
		ref  DentistRef
		want string
	}{
		{DentistRef{Expanded: &Dentist{ID: "d9", FirstName: "Max", LastName: "Roy"}}, "Dr. Max Roy"},
		{DentistRef{ID: "d1"}, "Dr. Ann Lee"},
		{DentistRef{ID: "unknown"}, "unknown"},
	}
	for _, tc := range cases {
		if got := tc.ref.DisplayName(directory); got != tc.want {
			t.Errorf("DisplayName(%+v) = %q, want %q", tc.ref, got, tc.want)
		}
	}
}

func TestTimestampDecoding(t *testing.T) {
	cases := []struct {
		raw  string
		want time.Time
		ok   bool
	}{
		{`"2025-06-01T10:00:00Z"`, testNow, true},
		{`"2025-06-01T10:00:00.000Z"`, testNow, true},
		{`"2025-06-01"`, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), true},
		{"1748772000000", time.UnixMilli(1748772000000).UTC(), true},
		{`"not a date"`, time.Time{}, false},
	}
	for _, tc := range cases {
		var ts Timestamp
		err := json.Unmarshal([]byte(tc.raw), &ts)
		if tc.ok {
			if err != nil {
				t.Errorf("unmarshal %s: %v", tc.raw, err)
				continue
			}
			if !ts.Equal(tc.want) {
				t.Errorf("unmarshal %s = %v, want %v", tc.raw, ts.Time, tc.want)
			}
		} else if err == nil {
			t.Errorf("unmarshal %s: expected error", tc.raw)
		}
	}
}
