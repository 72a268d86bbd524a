package app

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"chip-tracer/internal/canvas"
	"chip-tracer/internal/config"
	"chip-tracer/internal/entity"
	"chip-tracer/internal/persist"
	"chip-tracer/pkg/geometry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drawWire(s *Session) {
	s.Do(func(e *canvas.Engine) bool {
		e.SetMode(canvas.DrawMode(entity.WirePower))
		e.PointerDown(geometry.Point2D{}, canvas.ButtonPrimary)
		return e.PointerUp(geometry.Point2D{X: 50}, canvas.ButtonPrimary)
	})
}

func count(s *Session) int {
	n := 0
	s.Do(func(e *canvas.Engine) bool {
		n = e.Store().Len()
		return false
	})
	return n
}

func TestSessionSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scene.xml")

	s := NewSession(config.Default())
	var saved, loaded []any
	s.On(EventEntitiesSaved, func(d any) { saved = append(saved, d) })
	s.On(EventEntitiesLoaded, func(d any) { loaded = append(loaded, d) })

	assert.False(t, s.Modified())
	drawWire(s)
	assert.True(t, s.Modified())

	require.NoError(t, s.SaveEntities(path))
	assert.False(t, s.Modified())
	assert.Equal(t, path, s.EntitiesPath())
	assert.Equal(t, []any{path}, saved)

	require.NoError(t, s.LoadEntities(path, true))
	assert.Equal(t, 2, count(s))
	assert.True(t, s.Modified(), "a merge leaves unsaved changes")

	require.NoError(t, s.LoadEntities(path, false))
	assert.Equal(t, 1, count(s))
	assert.False(t, s.Modified())
	assert.Equal(t, []any{2, 1}, loaded)

	err := s.LoadEntities(filepath.Join(dir, "missing.xml"), false)
	assert.ErrorIs(t, err, persist.ErrPersistence)
	assert.Equal(t, 1, count(s))
	assert.Equal(t, path, s.EntitiesPath())
}

func TestSessionEdit(t *testing.T) {
	s := NewSession(config.Default())
	s.Do(func(e *canvas.Engine) bool {
		e.AddVia(entity.ViasInput, geometry.Point2D{})
		e.AddVia(entity.ViasOutput, geometry.Point2D{X: 50})
		return true
	})
	var ids []string
	s.Do(func(e *canvas.Engine) bool {
		for _, ent := range e.Entities() {
			ids = append(ids, ent.ID)
		}
		return false
	})
	require.Len(t, ids, 2)
	require.NoError(t, s.SaveEntities(filepath.Join(t.TempDir(), "a.xml")))

	ok := s.Edit(ids[1], func(ent *entity.Entity) {
		ent.Label = "Q"
		ent.Priority = -1
	})
	assert.True(t, ok)
	assert.True(t, s.Modified())

	s.Do(func(e *canvas.Engine) bool {
		first := e.Entities()[0]
		assert.Equal(t, ids[1], first.ID, "lower priority sorts first")
		assert.Equal(t, "Q", first.Label)
		return false
	})

	assert.False(t, s.Edit("missing", func(*entity.Entity) {}))
}

func TestSessionLoadImage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "die.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, image.NewRGBA(image.Rect(0, 0, 64, 32))))
	require.NoError(t, f.Close())

	s := NewSession(config.Default())
	s.Do(func(e *canvas.Engine) bool { return e.SetZoom(200) })

	fired := 0
	s.On(EventImageLoaded, func(any) { fired++ })
	require.NoError(t, s.LoadImage(path))

	assert.Equal(t, path, s.ImagePath())
	assert.Equal(t, 1, fired)
	s.Do(func(e *canvas.Engine) bool {
		require.NotNil(t, e.Background())
		assert.Equal(t, 64, e.Background().Bounds().Dx())
		assert.Equal(t, 100, e.Zoom())
		return false
	})

	assert.Error(t, s.LoadImage(filepath.Join(dir, "missing.png")))
	assert.Equal(t, path, s.ImagePath())
}

func TestSessionFrameAndExport(t *testing.T) {
	s := NewSession(config.Default())
	drawWire(s)

	img := s.Frame(80, 60)
	assert.Equal(t, image.Rect(0, 0, 80, 60), img.Bounds())

	out := filepath.Join(t.TempDir(), "scene.png")
	require.NoError(t, s.Export(out))
	info, err := os.Stat(out)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestSessionAppearanceFiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "appearance.yaml")

	s := NewSession(config.Default())
	s.Do(func(e *canvas.Engine) bool { return e.SetLambda(8) })
	require.NoError(t, s.SaveAppearance(path))
	assert.Equal(t, path, s.AppearancePath())

	other := NewSession(config.Default())
	var changed []any
	other.On(EventAppearanceChanged, func(d any) { changed = append(changed, d) })
	require.NoError(t, other.LoadAppearance(path))
	other.Do(func(e *canvas.Engine) bool {
		assert.Equal(t, 8.0, e.Lambda())
		assert.Equal(t, 7, e.Appearance().ViasBaseSize)
		return false
	})
	assert.Len(t, changed, 1)

	assert.Error(t, other.LoadAppearance(filepath.Join(t.TempDir(), "missing.yaml")))
}

func TestSessionWatchAppearance(t *testing.T) {
	path := filepath.Join(t.TempDir(), "appearance.yaml")
	require.NoError(t, config.Default().Save(path))

	s := NewSession(config.Default())
	defer s.Close()
	require.NoError(t, s.WatchAppearance(path, 20*time.Millisecond))

	// Give the watcher time to start.
	time.Sleep(50 * time.Millisecond)

	a := config.Default()
	a.SetLambda(12)
	require.NoError(t, a.Save(path))

	require.Eventually(t, func() bool {
		lambda := 0.0
		s.Do(func(e *canvas.Engine) bool {
			lambda = e.Lambda()
			return false
		})
		return lambda == 12
	}, 2*time.Second, 10*time.Millisecond)

	var failures atomic.Int32
	s.On(EventAppearanceError, func(any) { failures.Add(1) })
	require.NoError(t, os.WriteFile(path, []byte("lambda: [\n"), 0o644))
	require.Eventually(t, func() bool { return failures.Load() > 0 }, 2*time.Second, 10*time.Millisecond)

	s.StopWatch()
	a.SetLambda(7)
	require.NoError(t, a.Save(path))
	time.Sleep(100 * time.Millisecond)
	s.Do(func(e *canvas.Engine) bool {
		assert.Equal(t, 12.0, e.Lambda())
		return false
	})
}

func TestSessionSelectNet(t *testing.T) {
	s := NewSession(config.Default())
	var via *entity.Entity
	s.Do(func(e *canvas.Engine) bool {
		via = e.AddVia(entity.ViasInput, geometry.Point2D{})
		e.AddVia(entity.ViasOutput, geometry.Point2D{X: 50})
		e.AddWire(entity.WireInterconnect, geometry.Point2D{}, geometry.Point2D{X: 50})
		e.AddVia(entity.ViasFloating, geometry.Point2D{X: 100, Y: 100})
		return true
	})

	assert.Zero(t, s.SelectNet(), "nothing selected")

	s.Do(func(e *canvas.Engine) bool {
		via.Selected = true
		return true
	})
	assert.Equal(t, 3, s.SelectNet())
	s.Do(func(e *canvas.Engine) bool {
		assert.Len(t, e.Selected(), 3)
		return false
	})
}
