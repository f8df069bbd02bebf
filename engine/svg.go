package engine

import (
	"fmt"
	"html"
	"strconv"
	"strings"
	"sync"

	"DentalChart/tooth"
)

// MarkupSurface renders Documents to SVG/HTML markup. It is the Surface
// implementation shipped with the widget; hosts embed the markup in whatever
// page or shell they serve.
type MarkupSurface struct {
	mu      sync.Mutex
	markup  string
	focused string
}

// NewMarkupSurface returns an empty surface.
func NewMarkupSurface() *MarkupSurface {
	return &MarkupSurface{}
}

// Apply replaces the rendered widget markup.
func (s *MarkupSurface) Apply(doc Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.markup = RenderMarkup(doc)
}

// Focus records the tooth marker that should receive input focus.
func (s *MarkupSurface) Focus(id tooth.ID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.focused = id.String()
}

// Clear tears the rendered widget down.
func (s *MarkupSurface) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.markup = ""
	s.focused = ""
}

// Markup returns the current widget markup, empty when unmounted.
func (s *MarkupSurface) Markup() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.markup
}

// Focused returns the tooth id that last received focus, if any.
func (s *MarkupSurface) Focused() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.focused
}

// RenderMarkup converts a Document into widget markup: the SVG diagram, the
// status legend, and the side panel form with history.
func RenderMarkup(doc Document) string {
	var b strings.Builder
	b.WriteString(`<div class="dc-root"><div class="dc-chart">`)
	writeSVG(&b, doc.Chart)
	writeLegend(&b, doc.Legend)
	b.WriteString(`</div>`)
	writePanel(&b, doc.Panel)
	b.WriteString(`</div>`)
	return b.String()
}

func writeSVG(b *strings.Builder, view ChartView) {
	fmt.Fprintf(b,
		`<svg class="dc-svg" viewBox="0 %s %s %s" role="img" aria-label="Dental chart" preserveAspectRatio="xMidYMid meet">`,
		coord(view.ViewBoxY), coord(view.Width), coord(view.ViewBoxH))
	for _, tv := range view.Teeth {
		classes := "dc-tooth is-" + string(tv.Status)
		if tv.Selected {
			classes += " is-selected"
		}
		b.WriteString(`<g class="dc-tooth-group">`)
		fmt.Fprintf(b,
			`<circle class="%s" data-tooth="%s" role="button" tabindex="0" aria-label="Tooth %s" cx="%s" cy="%s" r="%s"/>`,
			classes, tv.ID, tv.ID, coord(tv.X), coord(tv.Y), coord(tv.Radius))
		fmt.Fprintf(b, `<text class="dc-tooth-label" x="%s" y="%s">%d</text>`,
			coord(tv.Label.X), coord(tv.Label.Y), tv.Number)
		b.WriteString(`</g>`)
	}
	writeArchLabel(b, view.UpperLabel)
	writeArchLabel(b, view.LowerLabel)
	b.WriteString(`</svg>`)
}

func writeArchLabel(b *strings.Builder, label Label) {
	fmt.Fprintf(b, `<text class="dc-arch-label" x="%s" y="%s">%s</text>`,
		coord(label.X), coord(label.Y), html.EscapeString(label.Text))
}

func writeLegend(b *strings.Builder, items []LegendItem) {
	b.WriteString(`<ul class="dc-legend" aria-label="Tooth status legend">`)
	for _, item := range items {
		fmt.Fprintf(b, `<li class="dc-legend-item"><span class="dc-legend-swatch is-%s"></span>%s</li>`,
			item.Status, html.EscapeString(item.Text))
	}
	b.WriteString(`</ul>`)
}

func writePanel(b *strings.Builder, panel PanelView) {
	b.WriteString(`<aside class="dc-panel" aria-live="polite"><div class="dc-panel-inner">`)
	b.WriteString(`<h3 class="dc-panel-title">Tooth details</h3>`)
	b.WriteString(`<p class="dc-panel-hint">Select a tooth to edit its status.</p>`)

	b.WriteString(`<form class="dc-form"><fieldset class="dc-fieldset"`)
	if panel.Disabled {
		b.WriteString(` disabled`)
	}
	b.WriteString(`>`)

	fmt.Fprintf(b, `<label class="dc-label">Tooth ID<input type="text" class="dc-input" name="toothId" readonly value="%s"/></label>`,
		html.EscapeString(panel.ToothID))

	b.WriteString(`<label class="dc-label">Status<select class="dc-select" name="status">`)
	for _, status := range panel.StatusOptions {
		selected := ""
		if status == panel.Status {
			selected = ` selected`
		}
		fmt.Fprintf(b, `<option value="%s"%s>%s</option>`, status, selected, html.EscapeString(status.Label()))
	}
	b.WriteString(`</select></label>`)

	b.WriteString(`<label class="dc-label">Dentist<select class="dc-select" name="dentist">`)
	selected := ""
	if panel.DentistID == "" {
		selected = ` selected`
	}
	fmt.Fprintf(b, `<option value=""%s>Select Dentist</option>`, selected)
	for _, option := range panel.DentistOptions {
		selected = ""
		if option.ID == panel.DentistID {
			selected = ` selected`
		}
		fmt.Fprintf(b, `<option value="%s"%s>%s</option>`,
			html.EscapeString(option.ID), selected, html.EscapeString(option.Text))
	}
	b.WriteString(`</select></label>`)

	fmt.Fprintf(b, `<label class="dc-label">Procedure<input type="text" class="dc-input" name="procedure" value="%s"/></label>`,
		html.EscapeString(panel.Procedure))
	fmt.Fprintf(b, `<label class="dc-label">Notes<textarea class="dc-textarea" name="notes" rows="4">%s</textarea></label>`,
		html.EscapeString(panel.Notes))
	b.WriteString(`<button type="submit" class="dc-button">Save</button>`)
	b.WriteString(`</fieldset></form>`)

	b.WriteString(`<div class="dc-history-section"><h4 class="dc-history-title">Recent History</h4><div class="dc-history-container">`)
	if panel.Disabled {
		// No selection: fields stay cleared and no history renders.
	} else if len(panel.History) == 0 {
		b.WriteString(`<p class="dc-history-empty">No previous procedures.</p>`)
	} else {
		for _, item := range panel.History {
			b.WriteString(`<div class="dc-history-item"><div class="dc-history-header">`)
			fmt.Fprintf(b, `<span class="dc-history-proc">%s</span>`, html.EscapeString(item.Procedure))
			fmt.Fprintf(b, `<span class="dc-history-date">%s</span>`, html.EscapeString(item.Date))
			b.WriteString(`</div>`)
			if item.Dentist != "" {
				fmt.Fprintf(b, `<div class="dc-history-dentist">%s</div>`, html.EscapeString(item.Dentist))
			}
			if item.Notes != "" {
				fmt.Fprintf(b, `<p class="dc-history-notes">%s</p>`, html.EscapeString(item.Notes))
			}
			b.WriteString(`</div>`)
		}
	}
	b.WriteString(`</div></div></div></aside>`)
}

// coord formats an SVG coordinate without trailing zero noise.
func coord(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
