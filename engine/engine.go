package engine

import (
	"context"
	"time"

	"DentalChart/chart"
	"DentalChart/tooth"
)

// Surface is the adapter between the engine's declarative Document and an
// actual rendering target. Apply replaces the rendered widget, Focus moves
// input focus to a tooth marker, Clear tears the widget down.
type Surface interface {
	Apply(doc Document)
	Focus(id tooth.ID)
	Clear()
}

// Key names for HandleKey, matching the UI event key values.
const (
	KeyEnter      = "Enter"
	KeySpace      = " "
	KeyArrowLeft  = "ArrowLeft"
	KeyArrowRight = "ArrowRight"
	KeyArrowUp    = "ArrowUp"
	KeyArrowDown  = "ArrowDown"
)

// FormInput carries the side panel's submitted field values.
type FormInput struct {
	Status    string
	Procedure string
	Notes     string
	DentistID string
}

// Options configures an Engine.
type Options struct {
	// Initial is the caller-supplied starting state; it is normalized before
	// use and is outranked by a persisted chart under StorageKey.
	Initial chart.State
	// StorageKey keys the persisted chart so multiple charts can coexist.
	// Empty disables persistence.
	StorageKey string
	// Store is the key-value store backing persistence. Nil disables it.
	Store chart.Store
	// Dentists populates the assignment dropdown and resolves display names.
	Dentists []chart.Dentist
	// OnSelect is notified after a tooth is selected.
	OnSelect func(id tooth.ID, state chart.ToothState)
	// OnChange is notified with a cloned snapshot after every state change.
	OnChange func(state chart.State)
	// Now supplies timestamps; defaults to time.Now.
	Now func() time.Time
}

// Engine is the chart widget's state machine. It moves between Unmounted and
// Mounted (with an optional selected tooth); all operations run synchronously
// on the calling goroutine and externally-triggered bad input is rejected
// silently, never panicking across the public surface.
type Engine struct {
	opts     Options
	now      func() time.Time
	surface  Surface
	state    chart.State
	selected tooth.ID
	hasSel   bool
	mounted  bool
}

// New builds an engine against a surface. The engine owns its state from the
// first Mount until Destroy.
func New(surface Surface, opts Options) *Engine {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Engine{
		opts:    opts,
		now:     now,
		surface: surface,
		state:   chart.Normalize(opts.Initial, now()),
	}
}

// Mount resolves the initial state (persisted cache, then caller-supplied
// initial state, then factory default) and renders the widget. Calling Mount
// on a mounted engine is a no-op.
func (e *Engine) Mount(ctx context.Context) {
	if e.mounted {
		return
	}
	if stored, ok := chart.Load(ctx, e.opts.Store, e.opts.StorageKey, e.now()); ok {
		e.state = stored
	} else if e.opts.Initial != nil {
		e.state = chart.Normalize(e.opts.Initial, e.now())
	} else {
		e.state = chart.NewDefault(e.now())
	}
	e.mounted = true
	e.render()
}

// Destroy clears the rendered surface and the selection. It is safe to call
// on an unmounted engine; a destroyed engine is reusable via a fresh Mount.
func (e *Engine) Destroy() {
	if !e.mounted {
		return
	}
	e.surface.Clear()
	e.mounted = false
	e.hasSel = false
}

// Mounted reports whether the engine currently owns a rendered surface.
func (e *Engine) Mounted() bool {
	return e.mounted
}

// State returns a defensively cloned snapshot.
func (e *Engine) State() chart.State {
	return e.state.Clone()
}

// Selected returns the currently selected tooth, if any.
func (e *Engine) Selected() (tooth.ID, bool) {
	return e.selected, e.hasSel
}

// SetState re-normalizes next, persists it, re-renders, and notifies the
// change callback with the externally visible snapshot.
func (e *Engine) SetState(ctx context.Context, next chart.State) {
	e.state = chart.Normalize(next, e.now())
	chart.Save(ctx, e.opts.Store, e.opts.StorageKey, e.state)
	e.render()
	if e.opts.OnChange != nil {
		e.opts.OnChange(e.State())
	}
}

// Select highlights a tooth and refreshes the panel. Unknown ids are a no-op.
func (e *Engine) Select(id tooth.ID) {
	current, ok := e.state[id]
	if !ok {
		return
	}
	e.selected = id
	e.hasSel = true
	e.render()
	if e.opts.OnSelect != nil {
		e.opts.OnSelect(id, current)
	}
}

// HandlePointer processes a click or tap on a chart element. The target is
// the element's tooth id attribute; clicks on non-tooth elements fall through.
func (e *Engine) HandlePointer(target string) {
	if id, ok := tooth.Parse(target); ok {
		e.Select(id)
	}
}

// HandleKey processes a key press on a focused tooth marker. Enter and Space
// select the tooth; the arrow keys move the selection through the canonical
// enumeration order with no wraparound at either end, moving input focus
// along with the selection.
func (e *Engine) HandleKey(key, target string) {
	id, ok := tooth.Parse(target)
	if !ok {
		return
	}
	switch key {
	case KeyEnter, KeySpace:
		e.Select(id)
		return
	}
	direction := 0
	switch key {
	case KeyArrowRight, KeyArrowDown:
		direction = 1
	case KeyArrowLeft, KeyArrowUp:
		direction = -1
	default:
		return
	}
	next, ok := adjacent(id, direction)
	if !ok {
		return
	}
	e.Select(next)
	if e.surface != nil {
		e.surface.Focus(next)
	}
}

func adjacent(current tooth.ID, direction int) (tooth.ID, bool) {
	index := tooth.Index(current)
	if index < 0 {
		return tooth.ID{}, false
	}
	next := index + direction
	all := tooth.All()
	if next < 0 || next >= len(all) {
		return tooth.ID{}, false
	}
	return all[next], true
}

// SubmitForm saves the side panel's fields into the selected tooth: it
// resolves a bare dentist id against the supplied directory, stamps a fresh
// updatedAt, replaces that tooth's state, and routes through SetState so the
// change is persisted, re-rendered, and reported. No-op without a selection.
func (e *Engine) SubmitForm(ctx context.Context, input FormInput) {
	if !e.hasSel {
		return
	}
	status := chart.Status(input.Status)
	if !status.Valid() {
		status = chart.StatusHealthy
	}
	var dentist *chart.DentistRef
	if input.DentistID != "" {
		dentist = &chart.DentistRef{ID: input.DentistID}
		for i := range e.opts.Dentists {
			if e.opts.Dentists[i].ID == input.DentistID {
				expanded := e.opts.Dentists[i]
				dentist = &chart.DentistRef{Expanded: &expanded}
				break
			}
		}
	}
	next := e.state.Clone()
	next[e.selected] = chart.ToothState{
		ID:        e.selected,
		Status:    status,
		Notes:     input.Notes,
		Procedure: input.Procedure,
		Dentist:   dentist,
		UpdatedAt: chart.NewTimestamp(e.now()),
		History:   []chart.HistoryEntry{},
	}
	e.SetState(ctx, next)
}

func (e *Engine) render() {
	if !e.mounted || e.surface == nil {
		return
	}
	var selected *tooth.ID
	if e.hasSel {
		id := e.selected
		selected = &id
	}
	e.surface.Apply(Render(e.state, selected, e.opts.Dentists))
}
