// Package host bridges the chart engine to the application that embeds it.
// It pulls a patient's denormalized chart records from the backend, maps them
// into engine state, keys the local cache per patient, and forwards widget
// changes back to the backend in the external record format.
package host

import (
	"context"
	"log"
	"time"

	"DentalChart/chart"
	"DentalChart/engine"
)

// Backend is the external collaborator the widget talks to. Saves are
// fire-and-forget from the widget's perspective.
type Backend interface {
	DentalChart(ctx context.Context, patientID string) ([]chart.ToothRecord, error)
	SaveDentalChart(ctx context.Context, patientID string, records []chart.ToothRecord) error
	Dentists(ctx context.Context) ([]chart.Dentist, error)
}

const storageKeyPrefix = "dentalChartState:"

// Config assembles a Widget. Backend is required; a nil Store disables the
// local cache and a nil Surface falls back to the markup renderer.
type Config struct {
	Backend Backend
	Store   chart.Store
	Surface engine.Surface
	Now     func() time.Time
}

// Widget owns one engine at a time, bound to one patient. Switching patients
// reconstructs the engine; a live engine's identity is never mutated in
// place.
type Widget struct {
	backend   Backend
	store     chart.Store
	surface   engine.Surface
	now       func() time.Time
	engine    *engine.Engine
	patientID string
}

// New builds an unmounted widget.
func New(cfg Config) *Widget {
	surface := cfg.Surface
	if surface == nil {
		surface = engine.NewMarkupSurface()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Widget{
		backend: cfg.Backend,
		store:   cfg.Store,
		surface: surface,
		now:     now,
	}
}

// Show mounts the chart for a patient. Showing the patient already on screen
// is a no-op; showing a different patient destroys the current engine and
// builds a fresh one against that patient's data and storage key. A failing
// dentist lookup degrades to bare identifiers rather than blocking the chart.
func (w *Widget) Show(ctx context.Context, patientID string) error {
	if w.engine != nil && w.patientID == patientID && w.engine.Mounted() {
		return nil
	}
	records, err := w.backend.DentalChart(ctx, patientID)
	if err != nil {
		return err
	}
	dentists, err := w.backend.Dentists(ctx)
	if err != nil {
		log.Printf("dental chart: dentist directory unavailable: %v", err)
		dentists = nil
	}

	if w.engine != nil {
		w.engine.Destroy()
	}
	patient := patientID
	w.engine = engine.New(w.surface, engine.Options{
		Initial:    chart.FromRecords(records, w.now()),
		StorageKey: storageKeyPrefix + patientID,
		Store:      w.store,
		Dentists:   dentists,
		Now:        w.now,
		OnChange: func(state chart.State) {
			// The engine has already produced its result; the network save is
			// fire-and-forget and must not block the interactive flow.
			if err := w.backend.SaveDentalChart(context.Background(), patient, chart.ToRecords(state)); err != nil {
				log.Printf("dental chart: save for patient %s failed: %v", patient, err)
			}
		},
	})
	w.engine.Mount(ctx)
	w.patientID = patientID
	return nil
}

// Engine exposes the mounted engine for input forwarding. Nil before the
// first Show.
func (w *Widget) Engine() *engine.Engine {
	return w.engine
}

// PatientID returns the patient currently on screen.
func (w *Widget) PatientID() string {
	return w.patientID
}

// Close destroys the current engine, if any. The widget can be reused with a
// fresh Show.
func (w *Widget) Close() {
	if w.engine != nil {
		w.engine.Destroy()
		w.engine = nil
		w.patientID = ""
	}
}
