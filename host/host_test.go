package host

import (
	"context"
	"errors"
	"testing"
	"time"

	"DentalChart/chart"
	"DentalChart/engine"
	"DentalChart/tooth"
)

var hostNow = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

type fakeBackend struct {
	charts      map[string][]chart.ToothRecord
	dentists    []chart.Dentist
	dentistsErr error
	saved       map[string][][]chart.ToothRecord
	chartCalls  int
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		charts: map[string][]chart.ToothRecord{},
		saved:  map[string][][]chart.ToothRecord{},
	}
}

func (f *fakeBackend) DentalChart(_ context.Context, patientID string) ([]chart.ToothRecord, error) {
	f.chartCalls++
	return f.charts[patientID], nil
}

func (f *fakeBackend) SaveDentalChart(_ context.Context, patientID string, records []chart.ToothRecord) error {
	f.saved[patientID] = append(f.saved[patientID], records)
	return nil
}

func (f *fakeBackend) Dentists(context.Context) ([]chart.Dentist, error) {
	return f.dentists, f.dentistsErr
}

func fixedClock() func() time.Time {
	return func() time.Time { return hostNow }
}

func TestShowHydratesFromBackend(t *testing.T) {
	ctx := context.Background()
	backend := newFakeBackend()
	backend.charts["p1"] = []chart.ToothRecord{{
		ToothNumber: 8,
		Procedures:  []chart.HistoryEntry{{Procedure: "Filling", Date: chart.NewTimestamp(hostNow)}},
	}}

	widget := New(Config{Backend: backend, Store: chart.NewMemoryStore(), Now: fixedClock()})
	if err := widget.Show(ctx, "p1"); err != nil {
		t.Fatalf("Show: %v", err)
	}
	state := widget.Engine().State()
	if got := state[tooth.ID{Quadrant: 1, Position: 1}].Status; got != chart.StatusFilled {
		t.Fatalf("inbound mapping should surface the backend record, got %q", got)
	}
}

func TestShowSamePatientIsNoOp(t *testing.T) {
	ctx := context.Background()
	backend := newFakeBackend()
	widget := New(Config{Backend: backend, Now: fixedClock()})
	if err := widget.Show(ctx, "p1"); err != nil {
		t.Fatal(err)
	}
	first := widget.Engine()
	if err := widget.Show(ctx, "p1"); err != nil {
		t.Fatal(err)
	}
	if widget.Engine() != first {
		t.Fatal("showing the same patient should keep the engine")
	}
	if backend.chartCalls != 1 {
		t.Fatalf("expected one chart fetch, got %d", backend.chartCalls)
	}
}

func TestShowDifferentPatientReconstructsEngine(t *testing.T) {
	ctx := context.Background()
	backend := newFakeBackend()
	store := chart.NewMemoryStore()
	widget := New(Config{Backend: backend, Store: store, Now: fixedClock()})

	if err := widget.Show(ctx, "p1"); err != nil {
		t.Fatal(err)
	}
	first := widget.Engine()
	id := tooth.ID{Quadrant: 1, Position: 1}
	first.Select(id)
	first.SubmitForm(ctx, engine.FormInput{Status: "caries", Procedure: "Exam"})

	if err := widget.Show(ctx, "p2"); err != nil {
		t.Fatal(err)
	}
	second := widget.Engine()
	if second == first {
		t.Fatal("switching patients must rebuild the engine")
	}
	if first.Mounted() {
		t.Fatal("the old engine must be destroyed")
	}
	if second.State()[id].Status != chart.StatusHealthy {
		t.Fatal("the new patient's chart must not inherit the old patient's teeth")
	}

	// Separate storage keys: p1's persisted chart survives the switch.
	if persisted, ok := chart.Load(ctx, store, storageKeyPrefix+"p1", hostNow); !ok {
		t.Fatal("p1's chart should remain persisted")
	} else if persisted[id].Status != chart.StatusCaries {
		t.Fatalf("persisted p1 chart mismatch: %+v", persisted[id])
	}
}

func TestWidgetSaveFlowsToBackend(t *testing.T) {
	ctx := context.Background()
	backend := newFakeBackend()
	widget := New(Config{Backend: backend, Store: chart.NewMemoryStore(), Now: fixedClock()})
	if err := widget.Show(ctx, "p9"); err != nil {
		t.Fatal(err)
	}

	eng := widget.Engine()
	eng.Select(tooth.ID{Quadrant: 1, Position: 1})
	eng.SubmitForm(ctx, engine.FormInput{Status: "caries", Procedure: "Exam", Notes: "sensitive"})

	saves := backend.saved["p9"]
	if len(saves) != 1 {
		t.Fatalf("expected one backend save, got %d", len(saves))
	}
	if len(saves[0]) != 1 || saves[0][0].ToothNumber != 8 {
		t.Fatalf("outbound payload mismatch: %+v", saves[0])
	}
}

func TestShowDegradesWithoutDentistDirectory(t *testing.T) {
	ctx := context.Background()
	backend := newFakeBackend()
	backend.dentistsErr = errors.New("directory down")
	widget := New(Config{Backend: backend, Now: fixedClock()})
	if err := widget.Show(ctx, "p1"); err != nil {
		t.Fatalf("dentist lookup failures must not block the chart: %v", err)
	}
}

func TestCloseDestroysEngine(t *testing.T) {
	ctx := context.Background()
	widget := New(Config{Backend: newFakeBackend(), Now: fixedClock()})
	if err := widget.Show(ctx, "p1"); err != nil {
		t.Fatal(err)
	}
	eng := widget.Engine()
	widget.Close()
	if eng.Mounted() {
		t.Fatal("Close should destroy the engine")
	}
	if widget.Engine() != nil {
		t.Fatal("Close should drop the engine reference")
	}
	if err := widget.Show(ctx, "p1"); err != nil {
		t.Fatal("widget should be reusable after Close")
	}
}
