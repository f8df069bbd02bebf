// Package engine drives the interactive dental chart widget: it owns the
// mount/select/save state machine, lays out the two dental arches, and
// renders the chart as a declarative Document that a Surface adapter turns
// into an actual UI. All chart logic is framework-agnostic and testable
// without any rendering surface present.
package engine

import (
	"DentalChart/chart"
	"DentalChart/tooth"
)

// Document is the full declarative description of the widget: the SVG chart,
// the status legend, and the side panel.
type Document struct {
	Chart  ChartView
	Legend []LegendItem
	Panel  PanelView
}

// ChartView describes the SVG diagram of the two arches.
type ChartView struct {
	Width      float64
	Height     float64
	ViewBoxY   float64
	ViewBoxH   float64
	Teeth      []ToothView
	UpperLabel Label
	LowerLabel Label
}

// Label is a positioned piece of text inside the SVG.
type Label struct {
	X    float64
	Y    float64
	Text string
}

// ToothView is one tooth marker with its universal-number label.
type ToothView struct {
	ID       tooth.ID
	Number   int
	X        float64
	Y        float64
	Radius   float64
	Label    Label
	Status   chart.Status
	Selected bool
}

// LegendItem is one swatch in the status legend.
type LegendItem struct {
	Status chart.Status
	Text   string
}

// PanelView describes the side panel: the edit form for the selected tooth
// plus its procedure history, newest first.
type PanelView struct {
	Disabled       bool
	ToothID        string
	Status         chart.Status
	StatusOptions  []chart.Status
	DentistID      string
	DentistOptions []DentistOption
	Procedure      string
	Notes          string
	History        []HistoryItem
}

// DentistOption is one entry in the dentist assignment dropdown.
type DentistOption struct {
	ID   string
	Text string
}

// HistoryItem is one rendered history row.
type HistoryItem struct {
	Procedure string
	Date      string
	Dentist   string
	Notes     string
}
