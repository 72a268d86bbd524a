package app

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"chip-tracer/internal/canvas"
	"chip-tracer/internal/config"
	"chip-tracer/internal/project"
	"chip-tracer/pkg/geometry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePNG(t *testing.T, path string) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, image.NewRGBA(image.Rect(0, 0, 40, 30))))
	require.NoError(t, f.Close())
}

func TestSessionProjectRoundTrip(t *testing.T) {
	dir := t.TempDir()
	img := filepath.Join(dir, "die.png")
	writePNG(t, img)
	appearance := filepath.Join(dir, "look.yaml")
	a := config.Default()
	a.SetLambda(8)
	require.NoError(t, a.Save(appearance))
	proj := filepath.Join(dir, "die"+project.Extension)

	s := NewSession(config.Default())
	require.NoError(t, s.LoadAppearance(appearance))
	require.NoError(t, s.LoadImage(img))
	drawWire(s)
	s.Do(func(e *canvas.Engine) bool {
		e.SetZoom(150)
		return e.SetScroll(geometry.Point2D{X: -20, Y: 10})
	})

	var saved []any
	s.On(EventProjectSaved, func(d any) { saved = append(saved, d) })
	require.NoError(t, s.SaveProject(proj))
	assert.Equal(t, []any{proj}, saved)
	assert.False(t, s.Modified())
	assert.Equal(t, filepath.Join(dir, "die.xml"), s.EntitiesPath())
	assert.FileExists(t, filepath.Join(dir, "die.xml"))

	r := NewSession(config.Default())
	var loaded []any
	r.On(EventProjectLoaded, func(d any) { loaded = append(loaded, d) })
	require.NoError(t, r.OpenProject(proj))

	assert.Equal(t, []any{proj}, loaded)
	assert.Equal(t, proj, r.ProjectPath())
	assert.Equal(t, img, r.ImagePath())
	assert.Equal(t, appearance, r.AppearancePath())
	assert.Equal(t, 1, count(r))
	assert.False(t, r.Modified())
	r.Do(func(e *canvas.Engine) bool {
		assert.Equal(t, 8.0, e.Lambda())
		assert.NotNil(t, e.Background())
		assert.Equal(t, 150, e.Zoom())
		assert.Equal(t, geometry.Point2D{X: -20, Y: 10}, e.Scroll())
		return false
	})
}

func TestSessionOpenProjectWithoutEntities(t *testing.T) {
	dir := t.TempDir()
	proj := filepath.Join(dir, "fresh"+project.Extension)
	require.NoError(t, project.New("fresh").Save(proj))

	s := NewSession(config.Default())
	drawWire(s)
	require.NoError(t, s.OpenProject(proj))

	assert.Zero(t, count(s))
	assert.False(t, s.Modified())
	assert.Equal(t, filepath.Join(dir, "fresh.xml"), s.EntitiesPath())
}

func TestSessionOpenProjectErrors(t *testing.T) {
	dir := t.TempDir()
	s := NewSession(config.Default())

	assert.Error(t, s.OpenProject(filepath.Join(dir, "missing"+project.Extension)))

	proj := filepath.Join(dir, "broken"+project.Extension)
	p := project.New("broken")
	p.SetImage(proj, filepath.Join(dir, "gone.png"))
	require.NoError(t, p.Save(proj))
	assert.ErrorContains(t, s.OpenProject(proj), "failed to open image")
	assert.Empty(t, s.ProjectPath())
}
