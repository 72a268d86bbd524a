package mainwindow

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"chip-tracer/internal/app"
	engine "chip-tracer/internal/canvas"
	"chip-tracer/internal/config"
	"chip-tracer/internal/entity"
	"chip-tracer/pkg/geometry"
	"chip-tracer/ui/prefs"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWindow(t *testing.T) (*MainWindow, *app.Session) {
	t.Helper()
	a := test.NewApp()
	s := app.NewSession(config.Default())
	t.Cleanup(s.Close)
	p := prefs.LoadFrom(filepath.Join(t.TempDir(), "prefs.json"))
	return New(a, s, p, slog.New(slog.NewTextHandler(io.Discard, nil))), s
}

func TestStatusText(t *testing.T) {
	s := status{
		scroll: geometry.Point2D{X: -12.4, Y: 30},
		zoom:   150,
		counts: engine.Counts{Vias: 3, Wires: 2, Cells: 1},
	}
	assert.Equal(t, "Scroll -12,30 | Zoom 150% | Vias 3  Wires 2  Cells 1", s.String())

	s.lastOp = "add via"
	assert.Contains(t, s.String(), "| add via")
}

func TestModeNames(t *testing.T) {
	names := modeNames()
	require.Len(t, names, len(entity.Kinds)+1)
	assert.Equal(t, "Selection", names[0])
	assert.Contains(t, names, "WireInterconnect")
}

func TestModeSelectDrivesEngine(t *testing.T) {
	mw, s := newWindow(t)

	mw.modeSelect.SetSelected(string(entity.ViasGround))

	s.Do(func(e *engine.Engine) bool {
		assert.Equal(t, engine.DrawMode(entity.ViasGround), e.Mode())
		return false
	})
}

func TestStatusFollowsEngine(t *testing.T) {
	mw, _ := newWindow(t)

	mw.do(func(e *engine.Engine) bool {
		return e.AddVia(entity.ViasInput, geometry.Point2D{X: 10, Y: 10}) != nil
	})
	mw.onZoomIn()

	assert.Contains(t, mw.statusBar.Text, "Zoom 110%")
	assert.Contains(t, mw.statusBar.Text, "Vias 1")
	assert.Contains(t, mw.statusBar.Text, "add via")
	assert.Equal(t, "Chip Tracer *", mw.Title())

	mw.onResetView()
	assert.Contains(t, mw.statusBar.Text, "Zoom 100%")
	assert.Contains(t, mw.statusBar.Text, "Scroll 0,0")
}

func TestSaveUpdatesTitle(t *testing.T) {
	mw, s := newWindow(t)
	mw.do(func(e *engine.Engine) bool {
		return e.AddVia(entity.ViasInput, geometry.Point2D{}) != nil
	})

	path := filepath.Join(t.TempDir(), "die.xml")
	require.NoError(t, s.SaveEntities(path))

	assert.Equal(t, "Chip Tracer - die.xml", mw.Title())
}

func TestStatusSeededFromEngine(t *testing.T) {
	test.NewApp()
	s := app.NewSession(config.Default())
	t.Cleanup(s.Close)
	s.Do(func(e *engine.Engine) bool {
		e.AddVia(entity.ViasInput, geometry.Point2D{})
		return e.SetZoom(200)
	})

	mw := New(test.NewApp(), s, prefs.LoadFrom(filepath.Join(t.TempDir(), "p.json")), slog.Default())

	assert.Contains(t, mw.statusBar.Text, "Zoom 200%")
	assert.Contains(t, mw.statusBar.Text, "Vias 1")
}

func TestToggleWatchRemembersChoice(t *testing.T) {
	mw, s := newWindow(t)
	path := filepath.Join(t.TempDir(), "appearance.yaml")
	require.NoError(t, config.Default().Save(path))
	require.NoError(t, s.LoadAppearance(path))

	assert.False(t, mw.watchItem.Checked)
	mw.onToggleWatch()
	assert.True(t, mw.watchItem.Checked)
	assert.True(t, mw.prefs.Bool(prefs.KeyWatch, false))

	mw.onToggleWatch()
	assert.False(t, mw.watchItem.Checked)
	assert.False(t, mw.prefs.Bool(prefs.KeyWatch, true))
}

func TestAppearanceErrorShownInStatus(t *testing.T) {
	mw, s := newWindow(t)
	s.Emit(app.EventAppearanceError, assert.AnError)
	assert.Contains(t, mw.statusBar.Text, "appearance reload failed")
}
