// Package canvas provides the fyne widget that shows and edits a session's
// schematic. All painting and hit testing is done by the engine and the
// renderer; the widget only converts fyne events into engine calls.
package canvas

import (
	"image"

	"chip-tracer/internal/app"
	engine "chip-tracer/internal/canvas"
	"chip-tracer/pkg/geometry"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

// EntityCanvas displays the session's scene and forwards pointer, wheel and
// key input to its engine.
type EntityCanvas struct {
	widget.BaseWidget

	session *app.Session
	raster  *fynecanvas.Raster

	// scale converts widget units to raster pixels. Written by the raster
	// generator, read by input handlers; both hold the session lock.
	scale float32

	onChange func()
}

var (
	_ fyne.Widget       = (*EntityCanvas)(nil)
	_ desktop.Mouseable = (*EntityCanvas)(nil)
	_ desktop.Hoverable = (*EntityCanvas)(nil)
	_ fyne.Draggable    = (*EntityCanvas)(nil)
	_ fyne.Scrollable   = (*EntityCanvas)(nil)
	_ fyne.Focusable    = (*EntityCanvas)(nil)
)

// New creates a canvas widget for the session.
func New(s *app.Session) *EntityCanvas {
	c := &EntityCanvas{session: s, scale: 1}
	c.raster = fynecanvas.NewRaster(c.draw)
	c.raster.ScaleMode = fynecanvas.ImageScalePixels
	c.raster.SetMinSize(fyne.NewSize(320, 240))
	c.ExtendBaseWidget(c)
	return c
}

// OnChange sets a callback run after every input that changed the scene.
func (c *EntityCanvas) OnChange(f func()) {
	c.onChange = f
}

// CreateRenderer implements fyne.Widget.
func (c *EntityCanvas) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(c.raster)
}

// Redraw repaints the raster.
func (c *EntityCanvas) Redraw() {
	c.raster.Refresh()
}

func (c *EntityCanvas) draw(w, h int) image.Image {
	if size := c.Size(); size.Width > 0 {
		c.session.Do(func(*engine.Engine) bool {
			c.scale = float32(w) / size.Width
			return false
		})
	}
	return c.session.Frame(w, h)
}

// apply runs f on the engine with the pointer position converted to raster
// pixels, and repaints when f reports a change.
func (c *EntityCanvas) apply(pos fyne.Position, f func(e *engine.Engine, p geometry.Point2D) bool) {
	changed := c.session.Do(func(e *engine.Engine) bool {
		p := geometry.Point2D{X: float64(pos.X * c.scale), Y: float64(pos.Y * c.scale)}
		return f(e, p)
	})
	if changed {
		c.changed()
	}
}

func (c *EntityCanvas) changed() {
	c.Redraw()
	if c.onChange != nil {
		c.onChange()
	}
}

func button(b desktop.MouseButton) engine.Button {
	switch b {
	case desktop.MouseButtonPrimary:
		return engine.ButtonPrimary
	case desktop.MouseButtonSecondary:
		return engine.ButtonSecondary
	}
	return 0
}

// MouseDown implements desktop.Mouseable.
func (c *EntityCanvas) MouseDown(ev *desktop.MouseEvent) {
	if drv := fyne.CurrentApp(); drv != nil {
		if cnv := drv.Driver().CanvasForObject(c); cnv != nil {
			cnv.Focus(c)
		}
	}
	b := button(ev.Button)
	c.apply(ev.Position, func(e *engine.Engine, p geometry.Point2D) bool {
		return e.PointerDown(p, b)
	})
}

// MouseUp implements desktop.Mouseable.
func (c *EntityCanvas) MouseUp(ev *desktop.MouseEvent) {
	b := button(ev.Button)
	c.apply(ev.Position, func(e *engine.Engine, p geometry.Point2D) bool {
		return e.PointerUp(p, b)
	})
}

// MouseIn implements desktop.Hoverable.
func (c *EntityCanvas) MouseIn(ev *desktop.MouseEvent) {}

// MouseMoved implements desktop.Hoverable.
func (c *EntityCanvas) MouseMoved(ev *desktop.MouseEvent) {
	c.move(ev.Position)
}

// MouseOut implements desktop.Hoverable.
func (c *EntityCanvas) MouseOut() {}

// Dragged implements fyne.Draggable. Primary-button moves arrive here
// instead of MouseMoved.
func (c *EntityCanvas) Dragged(ev *fyne.DragEvent) {
	c.move(ev.Position)
}

// DragEnd implements fyne.Draggable. The gesture ends on MouseUp.
func (c *EntityCanvas) DragEnd() {}

func (c *EntityCanvas) move(pos fyne.Position) {
	c.apply(pos, func(e *engine.Engine, p geometry.Point2D) bool {
		if !e.Busy() {
			return false
		}
		return e.PointerMove(p)
	})
}

// Scrolled implements fyne.Scrollable: one zoom step per wheel event.
func (c *EntityCanvas) Scrolled(ev *fyne.ScrollEvent) {
	c.apply(ev.Position, func(e *engine.Engine, _ geometry.Point2D) bool {
		return e.Wheel(float64(ev.Scrolled.DY))
	})
}

// FocusGained implements fyne.Focusable.
func (c *EntityCanvas) FocusGained() {}

// FocusLost implements fyne.Focusable.
func (c *EntityCanvas) FocusLost() {}

// TypedRune implements fyne.Focusable.
func (c *EntityCanvas) TypedRune(rune) {}

// TypedKey implements fyne.Focusable.
func (c *EntityCanvas) TypedKey(ev *fyne.KeyEvent) {
	k, ok := keys[ev.Name]
	if !ok {
		return
	}
	if c.session.Do(func(e *engine.Engine) bool { return e.Key(k) }) {
		c.changed()
	}
}

var keys = map[fyne.KeyName]engine.Key{
	fyne.KeyDelete: engine.KeyDelete,
	fyne.KeyEscape: engine.KeyEscape,
	fyne.KeyF1:     engine.KeySelectionMode,
	fyne.KeyF2:     engine.KeyViasMode,
	fyne.KeyF3:     engine.KeyWireMode,
}
