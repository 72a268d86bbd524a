// Package app ties the canvas engine to files on disk: the background image,
// the entity document, the appearance configuration and scene export.
package app

import (
	"fmt"
	goimage "image"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"chip-tracer/internal/canvas"
	"chip-tracer/internal/config"
	"chip-tracer/internal/entity"
	"chip-tracer/internal/image"
	"chip-tracer/internal/netlist"
	"chip-tracer/internal/project"
	"chip-tracer/internal/render"
	"chip-tracer/pkg/geometry"
)

// EventType identifies session events.
type EventType int

const (
	EventImageLoaded EventType = iota
	EventEntitiesLoaded
	EventEntitiesSaved
	EventAppearanceChanged
	EventModified
	EventProjectLoaded
	EventProjectSaved
	EventAppearanceError
)

// EventListener is called when an event occurs.
type EventListener func(data any)

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger. It is passed on to the engine.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.log = l
		}
	}
}


// Session owns one canvas engine and serialises access to it. Pointer
// handlers and painting may run on different goroutines; both go through
// the session lock.
type Session struct {
	mu       sync.Mutex
	log      *slog.Logger
	engine   *canvas.Engine
	renderer *render.Renderer

	projectPath    string
	imagePath      string
	entitiesPath   string
	appearancePath string
	modified       bool
	reloader       *HotReloader

	lmu       sync.RWMutex
	listeners map[EventType][]EventListener
}

// NewSession creates a session around a new engine.
func NewSession(appearance config.Appearance, opts ...Option) *Session {
	s := &Session{
		log:       slog.Default(),
		listeners: make(map[EventType][]EventListener),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.renderer == nil {
		s.renderer = render.Default()
	}
	s.engine = canvas.New(appearance, canvas.WithLogger(s.log))

	markModified := func(any) { s.modified = true }
	s.engine.On(canvas.EventEntityCountChanged, markModified)
	s.engine.On(canvas.EventLastOperation, markModified)
	return s
}

// On registers an event listener for the specified event type.
func (s *Session) On(event EventType, listener EventListener) {
	s.lmu.Lock()
	defer s.lmu.Unlock()
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type. It must not be
// called with the session lock held.
func (s *Session) Emit(event EventType, data any) {
	s.lmu.RLock()
	listeners := append([]EventListener(nil), s.listeners[event]...)
	s.lmu.RUnlock()

	for _, l := range listeners {
		l(data)
	}
}

// Do runs f with exclusive access to the engine and returns its result,
// normally a needs-redraw flag. Engine listeners registered from f run
// under the same lock and must not call Do.
func (s *Session) Do(f func(e *canvas.Engine) bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return f(s.engine)
}

// Frame renders the live view at the given pixel size.
func (s *Session) Frame(width, height int) *goimage.RGBA {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.renderer.Frame(s.engine, width, height)
}

// Modified reports whether entities changed since the last load or save.
func (s *Session) Modified() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.modified
}

// ImagePath returns the path of the loaded background image.
func (s *Session) ImagePath() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.imagePath
}

// EntitiesPath returns the path entities were last loaded from or saved to.
func (s *Session) EntitiesPath() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entitiesPath
}

// AppearancePath returns the appearance file last loaded, saved or watched.
func (s *Session) AppearancePath() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.appearancePath
}

// LoadImage replaces the background image.
func (s *Session) LoadImage(path string) error {
	bg, err := image.Load(path)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.engine.SetBackground(bg.Image)
	s.imagePath = path
	s.mu.Unlock()

	s.log.Info("background loaded", "path", path, "width", bg.Width(), "height", bg.Height(), "format", bg.Format)
	s.Emit(EventImageLoaded, bg)
	return nil
}

// LoadEntities reads an entity document, replacing the current entities or
// appending to them.
func (s *Session) LoadEntities(path string, merge bool) error {
	s.mu.Lock()
	err := s.engine.Unserialize(path, merge)
	if err == nil {
		if !merge {
			s.entitiesPath = path
			s.modified = false
		}
	}
	count := s.engine.Store().Len()
	modified := s.modified
	s.mu.Unlock()

	if err != nil {
		return err
	}
	s.Emit(EventEntitiesLoaded, count)
	s.Emit(EventModified, modified)
	return nil
}

// SaveEntities writes the entities to path.
func (s *Session) SaveEntities(path string) error {
	s.mu.Lock()
	err := s.engine.Serialize(path)
	if err == nil {
		s.entitiesPath = path
		s.modified = false
	}
	s.mu.Unlock()

	if err != nil {
		return err
	}
	s.Emit(EventEntitiesSaved, path)
	s.Emit(EventModified, false)
	return nil
}

// Edit applies f to the entity with the given ID and re-sorts the store.
// It reports whether the entity was found.
func (s *Session) Edit(id string, f func(*entity.Entity)) bool {
	s.mu.Lock()
	ent := s.engine.Store().ByID(id)
	if ent != nil {
		f(ent)
		s.engine.Store().Sort()
		s.modified = true
	}
	s.mu.Unlock()

	if ent == nil {
		return false
	}
	s.Emit(EventModified, true)
	return true
}

// SelectNet extends the selection to every via and wire connected to a
// selected one and returns the number of entities selected.
func (s *Session) SelectNet() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := s.engine.Entities()
	nets := netlist.Extract(all, netlist.DefaultTolerance)
	members := make(map[string]bool)
	for _, sel := range s.engine.Selected() {
		if n := netlist.Find(nets, sel.ID); n != nil {
			for _, id := range n.ViaIDs {
				members[id] = true
			}
			for _, id := range n.WireIDs {
				members[id] = true
			}
		}
	}

	count := 0
	for _, e := range all {
		if members[e.ID] {
			e.Selected = true
		}
		if e.Selected {
			count++
		}
	}
	return count
}

// Export renders the whole scene to an image file.
func (s *Session) Export(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.renderer.Export(s.engine, path); err != nil {
		return err
	}
	s.log.Info("scene exported", "path", path, "format", render.FormatFromPath(path))
	return nil
}

// SetAppearance applies a new appearance to the engine.
func (s *Session) SetAppearance(a config.Appearance) {
	s.mu.Lock()
	s.engine.SetAppearance(a)
	s.mu.Unlock()
	s.Emit(EventAppearanceChanged, a)
}

// LoadAppearance reads an appearance file and applies it.
func (s *Session) LoadAppearance(path string) error {
	a, err := config.Load(path)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.appearancePath = path
	s.mu.Unlock()
	s.SetAppearance(a)
	return nil
}

// SaveAppearance writes the engine's current appearance to path.
func (s *Session) SaveAppearance(path string) error {
	s.mu.Lock()
	a := s.engine.Appearance()
	s.mu.Unlock()

	if err := a.Save(path); err != nil {
		return fmt.Errorf("failed to save appearance: %w", err)
	}
	s.mu.Lock()
	s.appearancePath = path
	s.mu.Unlock()
	return nil
}

// WatchAppearance re-applies the appearance file whenever it changes on
// disk. Any previous watch is stopped.
func (s *Session) WatchAppearance(path string, debounce time.Duration) error {
	r, err := NewHotReloader(path, debounce, s.log)
	if err != nil {
		return fmt.Errorf("failed to watch appearance: %w", err)
	}
	r.OnReload(s.SetAppearance)
	r.OnError(func(err error) { s.Emit(EventAppearanceError, err) })

	s.mu.Lock()
	old := s.reloader
	s.reloader = r
	s.appearancePath = path
	s.mu.Unlock()

	if old != nil {
		old.Stop()
	}
	r.Start()
	return nil
}

// ProjectPath returns the path of the open project, or "".
func (s *Session) ProjectPath() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.projectPath
}

// OpenProject loads the image, appearance and entities a project names and
// restores its view. An entity file that does not exist yet leaves the
// canvas empty.
func (s *Session) OpenProject(path string) error {
	proj, err := project.Load(path)
	if err != nil {
		return err
	}

	if p := proj.Appearance(path); p != "" {
		if err := s.LoadAppearance(p); err != nil {
			return err
		}
	}
	if p := proj.Image(path); p != "" {
		if err := s.LoadImage(p); err != nil {
			return err
		}
	}
	entities := proj.Entities(path)
	if _, statErr := os.Stat(entities); statErr == nil {
		if err := s.LoadEntities(entities, false); err != nil {
			return err
		}
	} else {
		s.mu.Lock()
		s.engine.DeleteAll()
		s.entitiesPath = entities
		s.modified = false
		s.mu.Unlock()
		s.Emit(EventEntitiesLoaded, 0)
		s.Emit(EventModified, false)
	}

	s.mu.Lock()
	s.engine.SetZoom(proj.View.Zoom)
	s.engine.SetScroll(geometry.Point2D{X: proj.View.ScrollX, Y: proj.View.ScrollY})
	s.projectPath = path
	s.mu.Unlock()

	s.log.Info("project opened", "path", path, "name", proj.Name)
	s.Emit(EventProjectLoaded, path)
	return nil
}

// SaveProject saves the entities and writes a project file naming them
// together with the current image, appearance file and view.
func (s *Session) SaveProject(path string) error {
	proj := project.New(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
	if old, err := project.Load(path); err == nil {
		proj = old
	}

	s.mu.Lock()
	entities := s.entitiesPath
	if entities == "" || s.projectPath != path {
		entities = proj.Entities(path)
	}
	s.mu.Unlock()

	if err := s.SaveEntities(entities); err != nil {
		return err
	}

	s.mu.Lock()
	proj.SetEntities(path, entities)
	proj.SetImage(path, s.imagePath)
	proj.SetAppearance(path, s.appearancePath)
	scroll := s.engine.Scroll()
	proj.View = project.View{ScrollX: scroll.X, ScrollY: scroll.Y, Zoom: s.engine.Zoom()}
	s.mu.Unlock()

	if err := proj.Save(path); err != nil {
		return err
	}

	s.mu.Lock()
	s.projectPath = path
	s.mu.Unlock()
	s.Emit(EventProjectSaved, path)
	return nil
}

// Close stops background watchers.
func (s *Session) Close() {
	s.StopWatch()
}

// StopWatch stops re-applying the appearance file on change.
func (s *Session) StopWatch() {
	s.mu.Lock()
	r := s.reloader
	s.reloader = nil
	s.mu.Unlock()

	if r != nil {
		r.Stop()
	}
}
