package engine

import (
	"strings"
	"testing"
	"time"

	"DentalChart/chart"
	"DentalChart/tooth"
)

func TestRenderMarkupChartAndLegend(t *testing.T) {
	state := chart.NewDefault(engineNow)
	doc := Render(state, nil, nil)
	markup := RenderMarkup(doc)

	for _, id := range tooth.All() {
		if !strings.Contains(markup, `data-tooth="`+id.String()+`"`) {
			t.Fatalf("markup missing tooth %v", id)
		}
	}
	if got := strings.Count(markup, "dc-legend-item"); got != 9 {
		t.Errorf("expected 9 legend items, got %d", got)
	}
	if !strings.Contains(markup, "root canal") {
		t.Error("legend should use human-readable labels")
	}
	if !strings.Contains(markup, `<fieldset class="dc-fieldset" disabled>`) {
		t.Error("panel fieldset should be disabled without a selection")
	}
	if strings.Contains(markup, "No previous procedures.") {
		t.Error("empty-history placeholder should not render without a selection")
	}
}

func TestRenderMarkupSelectedToothAndHistory(t *testing.T) {
	id := tooth.ID{Quadrant: 2, Position: 3}
	state := chart.NewDefault(engineNow)
	entry := state[id]
	entry.Status = chart.StatusCrown
	entry.Procedure = "Crown fitting"
	entry.Notes = `porcelain <front>`
	entry.History = []chart.HistoryEntry{
		{Procedure: "Exam", Date: chart.NewTimestamp(engineNow.Add(-48 * time.Hour))},
		{Procedure: "Impression", Date: chart.NewTimestamp(engineNow.Add(-24 * time.Hour)),
			Dentist: &chart.DentistRef{Expanded: &chart.Dentist{ID: "d1", FirstName: "Ann", LastName: "Lee"}}},
	}
	state[id] = entry

	doc := Render(state, &id, []chart.Dentist{{ID: "d1", FirstName: "Ann", LastName: "Lee"}})
	markup := RenderMarkup(doc)

	if !strings.Contains(markup, "is-crown is-selected") {
		t.Error("selected crowned tooth should carry both classes")
	}
	if !strings.Contains(markup, "porcelain &lt;front&gt;") {
		t.Error("notes must be escaped")
	}
	if !strings.Contains(markup, "Dr. Ann Lee") {
		t.Error("history should resolve dentist display names")
	}
	impression := strings.Index(markup, "Impression")
	exam := strings.Index(markup, ">Exam<")
	if impression == -1 || exam == -1 || impression > exam {
		t.Error("history should render newest first")
	}
}

func TestRenderMarkupEmptyHistoryPlaceholder(t *testing.T) {
	id := tooth.ID{Quadrant: 1, Position: 1}
	state := chart.NewDefault(engineNow)
	doc := Render(state, &id, nil)
	markup := RenderMarkup(doc)
	if !strings.Contains(markup, "No previous procedures.") {
		t.Error("a selected tooth with no history should render the placeholder")
	}
	if strings.Contains(markup, `<fieldset class="dc-fieldset" disabled>`) {
		t.Error("fieldset should be enabled when a tooth is selected")
	}
}

func TestMarkupSurfaceLifecycle(t *testing.T) {
	surface := NewMarkupSurface()
	if surface.Markup() != "" {
		t.Fatal("fresh surface should be empty")
	}
	surface.Apply(Render(chart.NewDefault(engineNow), nil, nil))
	if surface.Markup() == "" {
		t.Fatal("applied surface should hold markup")
	}
	surface.Focus(tooth.ID{Quadrant: 1, Position: 2})
	if surface.Focused() != "1-2" {
		t.Fatalf("focused = %q", surface.Focused())
	}
	surface.Clear()
	if surface.Markup() != "" || surface.Focused() != "" {
		t.Fatal("cleared surface should be empty")
	}
}

func TestRenderPanelDentistDropdown(t *testing.T) {
	dentists := []chart.Dentist{
		{ID: "d1", FirstName: "Ann", LastName: "Lee"},
		{ID: "d2", FirstName: "Max", LastName: "Roy"},
	}
	id := tooth.ID{Quadrant: 4, Position: 1}
	state := chart.NewDefault(engineNow)
	entry := state[id]
	entry.Dentist = &chart.DentistRef{ID: "d2"}
	entry.Status = chart.StatusFilled
	entry.Procedure = "Filling"
	state[id] = entry

	doc := Render(state, &id, dentists)
	if len(doc.Panel.DentistOptions) != 2 {
		t.Fatalf("expected 2 dentist options, got %d", len(doc.Panel.DentistOptions))
	}
	if doc.Panel.DentistID != "d2" {
		t.Fatalf("panel dentist id = %q", doc.Panel.DentistID)
	}
	markup := RenderMarkup(doc)
	if !strings.Contains(markup, `<option value="d2" selected>Dr. Max Roy</option>`) {
		t.Error("assigned dentist should be pre-selected in the dropdown")
	}
}
