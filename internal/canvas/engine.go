// Package canvas is the schematic canvas engine: view state, the entity
// store, hit testing and the pointer-driven interaction state machine.
//
// The engine never repaints on its own. Every mutating operation returns
// true when the scene needs to be redrawn and the caller decides when to
// render.
package canvas

import (
	"image"
	"log/slog"

	"chip-tracer/internal/config"
	"chip-tracer/internal/entity"
	"chip-tracer/internal/viewport"
	"chip-tracer/pkg/geometry"
)

// Mode is the current interaction mode: selection or drawing one kind.
type Mode string

// ModeSelection selects and drags entities instead of drawing them.
const ModeSelection Mode = "Selection"

// DrawMode returns the mode that draws entities of kind k.
func DrawMode(k entity.Kind) Mode {
	return Mode(k)
}

// Kind returns the kind drawn in this mode, or false for selection.
func (m Mode) Kind() (entity.Kind, bool) {
	if m == ModeSelection || m == "" {
		return "", false
	}
	return entity.Kind(m), true
}

// Layer is a visibility toggle.
type Layer int

const (
	LayerImage Layer = iota
	LayerVias
	LayerWires
	LayerCells
)

// Inspector receives the entity picked by a click, or nil when the
// selection is dropped.
type Inspector interface {
	Inspect(e *entity.Entity)
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine's logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

type gesture int

const (
	gestureIdle gesture = iota
	gesturePanning
	gestureDrawing
	gestureDragging
)

// Engine is the canvas state. It is not safe for concurrent use; all calls
// are expected from the thread delivering input events.
type Engine struct {
	log        *slog.Logger
	view       *viewport.Mapper
	appearance config.Appearance
	store      *entity.Store
	background image.Image
	hidden     map[Layer]bool
	mode       Mode
	inspector  Inspector
	listeners  map[EventType][]Listener
	lastOp     string

	// Gesture tracking
	state    gesture
	anchor   geometry.Point2D // press position, last position while panning
	pointer  geometry.Point2D // latest pointer position
	dragSet  []*entity.Entity
	dragDist float64
}

// New creates an engine with the given appearance.
func New(appearance config.Appearance, opts ...Option) *Engine {
	appearance = appearance.Clone()
	appearance.Clamp()

	e := &Engine{
		log:        slog.Default(),
		view:       viewport.New(appearance.Lambda),
		appearance: appearance,
		store:      entity.NewStore(),
		hidden:     make(map[Layer]bool),
		mode:       ModeSelection,
		listeners:  make(map[EventType][]Listener),
	}
	e.store.SetAutoSort(appearance.AutoPriority)
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// View returns the coordinate mapper.
func (e *Engine) View() *viewport.Mapper { return e.view }

// Store returns the entity store.
func (e *Engine) Store() *entity.Store { return e.store }

// Entities returns the entities in draw order.
func (e *Engine) Entities() []*entity.Entity { return e.store.All() }

// Appearance returns a copy of the appearance settings.
func (e *Engine) Appearance() config.Appearance { return e.appearance.Clone() }

// SetAppearance replaces the appearance settings.
func (e *Engine) SetAppearance(a config.Appearance) bool {
	a = a.Clone()
	a.Clamp()
	e.appearance = a
	e.view.SetLambda(a.Lambda)
	e.store.SetAutoSort(a.AutoPriority)
	return true
}

// Lambda returns the lambda unit size in pixels.
func (e *Engine) Lambda() float64 { return e.appearance.Lambda }

// SetLambda changes the lambda size and derives the via and wire base sizes.
func (e *Engine) SetLambda(lambda float64) bool {
	if lambda <= 0 || lambda == e.appearance.Lambda {
		return false
	}
	e.appearance.SetLambda(lambda)
	e.view.SetLambda(lambda)
	return true
}

// Zoom returns the zoom percentage.
func (e *Engine) Zoom() int { return e.view.Zoom() }

// SetZoom clamps and applies a zoom percentage, recentering the scene.
func (e *Engine) SetZoom(zoom int) bool {
	scene, _ := e.SceneSize()
	if !e.view.SetZoom(zoom, scene) {
		return false
	}
	e.emit(EventZoomChanged, e.view.Zoom())
	e.emit(EventScrollChanged, e.view.Scroll())
	return true
}

// ZoomBy changes the zoom by whole wheel notches.
func (e *Engine) ZoomBy(notches int) bool {
	return e.SetZoom(e.view.Zoom() + notches*viewport.ZoomStep)
}

// Scroll returns the scroll offset.
func (e *Engine) Scroll() geometry.Point2D { return e.view.Scroll() }

// SetScroll sets the scroll offset.
func (e *Engine) SetScroll(p geometry.Point2D) bool {
	if !e.view.SetScroll(p) {
		return false
	}
	e.emit(EventScrollChanged, p)
	return true
}

// Mode returns the interaction mode.
func (e *Engine) Mode() Mode { return e.mode }

// SetMode changes the interaction mode. Switching to selection abandons a
// draw in progress.
func (e *Engine) SetMode(m Mode) bool {
	if m == "" {
		m = ModeSelection
	}
	if m == e.mode {
		return false
	}
	e.mode = m
	if m == ModeSelection && e.state == gestureDrawing {
		e.state = gestureIdle
	}
	return true
}

// Background returns the background image, or nil.
func (e *Engine) Background() image.Image { return e.background }

// SetBackground replaces the background image and returns the view to the
// origin at 100% zoom.
func (e *Engine) SetBackground(img image.Image) bool {
	e.background = img
	e.view.Reset()
	if e.state == gesturePanning {
		e.state = gestureIdle
	}
	e.emit(EventBackgroundChanged, img)
	e.emit(EventZoomChanged, e.view.Zoom())
	e.emit(EventScrollChanged, e.view.Scroll())
	return true
}

// Hidden reports whether a layer is hidden.
func (e *Engine) Hidden(l Layer) bool { return e.hidden[l] }

// SetHidden toggles a layer's visibility.
func (e *Engine) SetHidden(l Layer, hidden bool) bool {
	if e.hidden[l] == hidden {
		return false
	}
	e.hidden[l] = hidden
	return true
}

// Visible reports whether entities of a family are drawn and hittable.
// Unknown kinds are never visible.
func (e *Engine) Visible(f entity.Family) bool {
	switch f {
	case entity.FamilyVias:
		return !e.hidden[LayerVias]
	case entity.FamilyWire:
		return !e.hidden[LayerWires]
	case entity.FamilyCell:
		return !e.hidden[LayerCells]
	}
	return false
}

// SetInspector attaches the selection inspector.
func (e *Engine) SetInspector(i Inspector) {
	e.inspector = i
}

func (e *Engine) inspect(ent *entity.Entity) {
	if e.inspector != nil {
		e.inspector.Inspect(ent)
	}
	e.emit(EventSelectionChanged, ent)
}

// Selected returns the selected entities.
func (e *Engine) Selected() []*entity.Entity { return e.store.Selected() }

// ViasCount returns the number of vias.
func (e *Engine) ViasCount() int { return e.store.Count(entity.FamilyVias) }

// WireCount returns the number of wires.
func (e *Engine) WireCount() int { return e.store.Count(entity.FamilyWire) }

// CellCount returns the number of cells.
func (e *Engine) CellCount() int { return e.store.Count(entity.FamilyCell) }

// LastOperation describes the most recent change to the entity set.
func (e *Engine) LastOperation() string { return e.lastOp }

func (e *Engine) operation(desc string) {
	e.lastOp = desc
	e.emit(EventLastOperation, desc)
}
