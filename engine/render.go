package engine

import (
	"DentalChart/chart"
	"DentalChart/tooth"
)

const historyDateLayout = "Jan 2, 2006, 3:04 PM"

// Render is a pure mapping from chart state and the current selection to a
// Document. It never mutates its inputs; history is sorted newest-first for
// display only.
func Render(state chart.State, selected *tooth.ID, dentists []chart.Dentist) Document {
	teeth := layoutTeeth()
	for i := range teeth {
		entry, ok := state[teeth[i].ID]
		if ok {
			teeth[i].Status = entry.Status
		} else {
			teeth[i].Status = chart.StatusHealthy
		}
		teeth[i].Selected = selected != nil && *selected == teeth[i].ID
	}

	gapMidY := (upperCenterY + lowerCenterY) / 2
	view := ChartView{
		Width:      chartWidth,
		Height:     chartHeight + viewBoxPadY*2,
		ViewBoxY:   -viewBoxPadY,
		ViewBoxH:   chartHeight + viewBoxPadY*2,
		Teeth:      teeth,
		UpperLabel: Label{X: chartWidth / 2, Y: gapMidY - 28, Text: "Upper (1–16)"},
		LowerLabel: Label{X: chartWidth / 2, Y: gapMidY + 32, Text: "Lower (32–17)"},
	}

	return Document{
		Chart:  view,
		Legend: renderLegend(),
		Panel:  renderPanel(state, selected, dentists),
	}
}

func renderLegend() []LegendItem {
	items := make([]LegendItem, 0, len(chart.Statuses()))
	for _, status := range chart.Statuses() {
		items = append(items, LegendItem{Status: status, Text: status.Label()})
	}
	return items
}

func renderPanel(state chart.State, selected *tooth.ID, dentists []chart.Dentist) PanelView {
	panel := PanelView{
		Disabled:       true,
		Status:         chart.StatusHealthy,
		StatusOptions:  chart.Statuses(),
		DentistOptions: dentistOptions(dentists),
	}
	if selected == nil {
		return panel
	}
	entry, ok := state[*selected]
	if !ok {
		return panel
	}
	panel.Disabled = false
	panel.ToothID = entry.ID.String()
	panel.Status = entry.Status
	panel.Procedure = entry.Procedure
	panel.Notes = entry.Notes
	if entry.Dentist != nil {
		panel.DentistID = entry.Dentist.RefID()
	}
	panel.History = renderHistory(entry.History, dentists)
	return panel
}

func dentistOptions(dentists []chart.Dentist) []DentistOption {
	options := make([]DentistOption, 0, len(dentists))
	for _, dentist := range dentists {
		options = append(options, DentistOption{ID: dentist.ID, Text: dentist.DisplayName()})
	}
	return options
}

func renderHistory(history []chart.HistoryEntry, dentists []chart.Dentist) []HistoryItem {
	sorted := chart.SortedHistory(history)
	items := make([]HistoryItem, 0, len(sorted))
	for _, entry := range sorted {
		procedure := entry.Procedure
		if procedure == "" {
			procedure = "Unknown Procedure"
		}
		var dentist string
		if entry.Dentist != nil && !entry.Dentist.IsZero() {
			dentist = entry.Dentist.DisplayName(dentists)
		}
		items = append(items, HistoryItem{
			Procedure: procedure,
			Date:      entry.Date.UTC().Format(historyDateLayout),
			Dentist:   dentist,
			Notes:     entry.Notes,
		})
	}
	return items
}
