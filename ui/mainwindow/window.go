// Package mainwindow provides the main application window.
package mainwindow

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"chip-tracer/internal/app"
	engine "chip-tracer/internal/canvas"
	"chip-tracer/internal/config"
	"chip-tracer/internal/entity"
	"chip-tracer/internal/image"
	"chip-tracer/internal/project"
	"chip-tracer/internal/version"
	"chip-tracer/pkg/geometry"
	"chip-tracer/ui/canvas"
	"chip-tracer/ui/dialogs"
	"chip-tracer/ui/panels"
	"chip-tracer/ui/prefs"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
)

const (
	defaultWidth  = 1024
	defaultHeight = 768
)

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app     fyne.App
	session *app.Session
	prefs   *prefs.Prefs
	log     *slog.Logger

	canvas     *canvas.EntityCanvas
	properties *panels.PropertySheet
	modeSelect *widget.Select
	statusBar  *widget.Label
	watchItem  *fyne.MenuItem

	status status
	title  string
}

// status is what the status bar shows. Engine listeners update it.
type status struct {
	scroll geometry.Point2D
	zoom   int
	counts engine.Counts
	lastOp string
}

func (s status) String() string {
	text := fmt.Sprintf("Scroll %.0f,%.0f | Zoom %d%% | Vias %d  Wires %d  Cells %d",
		s.scroll.X, s.scroll.Y, s.zoom, s.counts.Vias, s.counts.Wires, s.counts.Cells)
	if s.lastOp != "" {
		text += " | " + s.lastOp
	}
	return text
}

// New creates a new main window.
func New(fyneApp fyne.App, session *app.Session, p *prefs.Prefs, log *slog.Logger) *MainWindow {
	mw := &MainWindow{
		Window:  fyneApp.NewWindow(version.AppName),
		app:     fyneApp,
		session: session,
		prefs:   p,
		log:     log,
		title:   version.AppName,
	}

	mw.setupUI()
	mw.setupMenus()
	mw.setupEventHandlers()

	mw.Resize(fyne.NewSize(
		float32(p.FloatWithFallback(prefs.KeyWindowWidth, defaultWidth)),
		float32(p.FloatWithFallback(prefs.KeyWindowHeight, defaultHeight)),
	))
	mw.SetCloseIntercept(mw.onClose)
	mw.refreshStatus()
	return mw
}

// setupUI creates the main UI layout.
func (mw *MainWindow) setupUI() {
	mw.canvas = canvas.New(mw.session)
	mw.canvas.OnChange(mw.refreshStatus)

	mw.properties = panels.NewPropertySheet(mw.session, mw.canvas.Redraw)

	mw.statusBar = widget.NewLabel("")

	canvasArea := container.NewBorder(
		mw.createToolbar(), // top
		nil,                // bottom
		nil,                // left
		nil,                // right
		mw.canvas,          // center
	)

	split := container.NewHSplit(
		container.NewVScroll(mw.properties.Container()),
		canvasArea,
	)
	split.SetOffset(0.22)

	content := container.NewBorder(
		nil,                               // top
		container.NewPadded(mw.statusBar), // bottom
		nil,                               // left
		nil,                               // right
		split,                             // center
	)

	mw.SetContent(content)
}

// modeNames lists the selectable modes, selection first.
func modeNames() []string {
	names := []string{string(engine.ModeSelection)}
	for _, k := range entity.Kinds {
		names = append(names, string(k))
	}
	return names
}

// createToolbar creates the mode selector, zoom buttons and layer toggles.
func (mw *MainWindow) createToolbar() fyne.CanvasObject {
	mw.modeSelect = widget.NewSelect(modeNames(), func(name string) {
		mw.do(func(e *engine.Engine) bool { return e.SetMode(engine.Mode(name)) })
	})
	mw.modeSelect.SetSelected(string(engine.ModeSelection))

	zoomOutBtn := widget.NewButton("-", mw.onZoomOut)
	zoomInBtn := widget.NewButton("+", mw.onZoomIn)
	resetBtn := widget.NewButton("1:1", mw.onResetView)

	layers := container.NewHBox()
	for _, l := range []struct {
		name  string
		layer engine.Layer
	}{
		{"Image", engine.LayerImage},
		{"Vias", engine.LayerVias},
		{"Wires", engine.LayerWires},
		{"Cells", engine.LayerCells},
	} {
		check := widget.NewCheck(l.name, func(on bool) {
			mw.do(func(e *engine.Engine) bool { return e.SetHidden(l.layer, !on) })
		})
		check.SetChecked(true)
		layers.Add(check)
	}

	return container.NewHBox(
		widget.NewLabel("Mode:"),
		mw.modeSelect,
		widget.NewSeparator(),
		widget.NewLabel("Zoom:"),
		zoomOutBtn,
		zoomInBtn,
		resetBtn,
		widget.NewSeparator(),
		layers,
	)
}

// setupMenus creates the application menus.
func (mw *MainWindow) setupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open Project...", mw.onOpenProject),
		fyne.NewMenuItem("Save Project", mw.onSaveProject),
		fyne.NewMenuItem("Save Project As...", mw.onSaveProjectAs),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Load Image...", mw.onLoadImage),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Load Entities...", func() { mw.onLoadEntities(false) }),
		fyne.NewMenuItem("Merge Entities...", func() { mw.onLoadEntities(true) }),
		fyne.NewMenuItem("Save Entities", mw.onSaveEntities),
		fyne.NewMenuItem("Save Entities As...", mw.onSaveEntitiesAs),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Export Scene...", mw.onExport),
	)

	editMenu := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Delete Selected", func() {
			mw.do(func(e *engine.Engine) bool { return e.DeleteSelected() })
		}),
		fyne.NewMenuItem("Delete All", mw.onDeleteAll),
		fyne.NewMenuItem("Clear Selection", func() {
			mw.do(func(e *engine.Engine) bool { return e.RemoveSelection() })
		}),
		fyne.NewMenuItem("Select Net", func() {
			if mw.session.SelectNet() > 0 {
				mw.canvas.Redraw()
			}
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Wire Selected Vias", func() {
			mw.do(func(e *engine.Engine) bool {
				return e.WireSelectedVias(entity.WireInterconnect) != nil
			})
		}),
	)

	mw.watchItem = fyne.NewMenuItem("Watch Appearance File", mw.onToggleWatch)
	mw.watchItem.Checked = mw.prefs.Bool(prefs.KeyWatch, false)

	viewMenu := fyne.NewMenu("View",
		fyne.NewMenuItem("Zoom In", mw.onZoomIn),
		fyne.NewMenuItem("Zoom Out", mw.onZoomOut),
		fyne.NewMenuItem("Reset View", mw.onResetView),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Appearance...", mw.onAppearance),
		fyne.NewMenuItem("Load Appearance...", mw.onLoadAppearance),
		fyne.NewMenuItem("Save Appearance As...", mw.onSaveAppearance),
		mw.watchItem,
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mw.onAbout),
	)

	mw.SetMainMenu(fyne.NewMainMenu(fileMenu, editMenu, viewMenu, helpMenu))
}

// setupEventHandlers registers for engine and session events.
func (mw *MainWindow) setupEventHandlers() {
	mw.session.Do(func(e *engine.Engine) bool {
		mw.status = status{
			scroll: e.Scroll(),
			zoom:   e.Zoom(),
			counts: engine.Counts{Vias: e.ViasCount(), Wires: e.WireCount(), Cells: e.CellCount()},
			lastOp: e.LastOperation(),
		}
		e.SetInspector(mw.properties)
		e.On(engine.EventScrollChanged, func(data any) {
			if p, ok := data.(geometry.Point2D); ok {
				mw.status.scroll = p
			}
		})
		e.On(engine.EventZoomChanged, func(data any) {
			if z, ok := data.(int); ok {
				mw.status.zoom = z
			}
		})
		e.On(engine.EventEntityCountChanged, func(data any) {
			if c, ok := data.(engine.Counts); ok {
				mw.status.counts = c
			}
		})
		e.On(engine.EventLastOperation, func(data any) {
			if op, ok := data.(string); ok {
				mw.status.lastOp = op
			}
		})
		return false
	})

	mw.session.On(app.EventImageLoaded, func(any) {
		mw.canvas.Redraw()
		mw.refreshStatus()
	})
	mw.session.On(app.EventEntitiesLoaded, func(any) {
		mw.canvas.Redraw()
		mw.refreshStatus()
	})
	mw.session.On(app.EventProjectLoaded, func(any) {
		mw.canvas.Redraw()
		mw.refreshStatus()
	})
	mw.session.On(app.EventAppearanceChanged, func(any) {
		mw.canvas.Redraw()
	})
	mw.session.On(app.EventAppearanceError, func(any) {
		mw.status.lastOp = "appearance reload failed"
		mw.refreshStatus()
	})
	mw.session.On(app.EventModified, func(data any) {
		if modified, ok := data.(bool); ok {
			mw.updateTitle(modified)
		}
	})
}

// do runs f on the engine and redraws when it reports a change.
func (mw *MainWindow) do(f func(e *engine.Engine) bool) {
	if mw.session.Do(f) {
		mw.canvas.Redraw()
		mw.refreshStatus()
	}
}

// refreshStatus copies the listener-maintained status into the status bar.
func (mw *MainWindow) refreshStatus() {
	var text string
	mw.session.Do(func(*engine.Engine) bool {
		text = mw.status.String()
		return false
	})
	mw.statusBar.SetText(text)
	mw.updateTitle(mw.session.Modified())
}

func (mw *MainWindow) updateTitle(modified bool) {
	title := mw.title
	if path := mw.session.EntitiesPath(); path != "" {
		title += " - " + filepath.Base(path)
	}
	if modified {
		title += " *"
	}
	mw.SetTitle(title)
}

// getLastDir returns the last used directory for a slot as a ListableURI, or nil.
func (mw *MainWindow) getLastDir(slot string) fyne.ListableURI {
	path := mw.prefs.LastDir(slot)
	if path == "" {
		return nil
	}
	listable, err := storage.ListerForURI(storage.NewFileURI(path))
	if err != nil {
		return nil
	}
	return listable
}

func (mw *MainWindow) openFile(slot string, exts []string, onPath func(string) error) {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		reader.Close()
		path := reader.URI().Path()
		mw.prefs.RememberFile(slot, path)
		if err := onPath(path); err != nil {
			mw.log.Error("open failed", "path", path, "error", err)
			dialog.ShowError(err, mw.Window)
		}
	}, mw.Window)
	if len(exts) > 0 {
		fd.SetFilter(storage.NewExtensionFileFilter(exts))
	}
	if loc := mw.getLastDir(slot); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) saveFile(slot, name, defaultExt string, onPath func(string) error) {
	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		writer.Close()
		path := writer.URI().Path()
		if filepath.Ext(path) == "" {
			path += defaultExt
		}
		mw.prefs.RememberFile(slot, path)
		if err := onPath(path); err != nil {
			mw.log.Error("save failed", "path", path, "error", err)
			dialog.ShowError(err, mw.Window)
		}
	}, mw.Window)
	fd.SetFileName(name)
	if loc := mw.getLastDir(slot); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

// Menu action handlers

func (mw *MainWindow) onOpenProject() {
	mw.openFile(prefs.DirEntities, []string{project.Extension}, mw.session.OpenProject)
}

func (mw *MainWindow) onSaveProject() {
	path := mw.session.ProjectPath()
	if path == "" {
		mw.onSaveProjectAs()
		return
	}
	if err := mw.session.SaveProject(path); err != nil {
		dialog.ShowError(err, mw.Window)
	}
}

func (mw *MainWindow) onSaveProjectAs() {
	mw.saveFile(prefs.DirEntities, "die"+project.Extension, project.Extension, mw.session.SaveProject)
}

func (mw *MainWindow) onLoadImage() {
	mw.openFile(prefs.DirImage, image.SupportedFormats(), mw.session.LoadImage)
}

func (mw *MainWindow) onLoadEntities(merge bool) {
	mw.openFile(prefs.DirEntities, []string{".xml"}, func(path string) error {
		return mw.session.LoadEntities(path, merge)
	})
}

func (mw *MainWindow) onSaveEntities() {
	path := mw.session.EntitiesPath()
	if path == "" {
		mw.onSaveEntitiesAs()
		return
	}
	if err := mw.session.SaveEntities(path); err != nil {
		dialog.ShowError(err, mw.Window)
	}
}

func (mw *MainWindow) onSaveEntitiesAs() {
	mw.saveFile(prefs.DirEntities, "entities.xml", ".xml", mw.session.SaveEntities)
}

func (mw *MainWindow) onExport() {
	mw.saveFile(prefs.DirExport, "scene.png", ".png", mw.session.Export)
}

func (mw *MainWindow) onDeleteAll() {
	dialog.ShowConfirm("Delete All", "Remove every entity?", func(ok bool) {
		if ok {
			mw.do(func(e *engine.Engine) bool { return e.DeleteAll() })
		}
	}, mw.Window)
}

func (mw *MainWindow) onZoomIn() {
	mw.do(func(e *engine.Engine) bool { return e.ZoomBy(1) })
}

func (mw *MainWindow) onZoomOut() {
	mw.do(func(e *engine.Engine) bool { return e.ZoomBy(-1) })
}

func (mw *MainWindow) onResetView() {
	mw.do(func(e *engine.Engine) bool {
		z := e.SetZoom(100)
		s := e.SetScroll(geometry.Point2D{})
		return z || s
	})
}

func (mw *MainWindow) onAppearance() {
	var current config.Appearance
	mw.session.Do(func(e *engine.Engine) bool {
		current = e.Appearance()
		return false
	})
	dialogs.NewAppearanceDialog(current, mw.Window, mw.session.SetAppearance).Show()
}

func (mw *MainWindow) onLoadAppearance() {
	mw.openFile(prefs.DirEntities, []string{".yaml", ".yml"}, func(path string) error {
		if err := mw.session.LoadAppearance(path); err != nil {
			return err
		}
		mw.prefs.SetString(prefs.KeyAppearance, path)
		if mw.prefs.Bool(prefs.KeyWatch, false) {
			return mw.session.WatchAppearance(path, app.DefaultReloadDebounce)
		}
		return nil
	})
}

func (mw *MainWindow) onSaveAppearance() {
	mw.saveFile(prefs.DirEntities, "appearance.yaml", ".yaml", func(path string) error {
		if err := mw.session.SaveAppearance(path); err != nil {
			return err
		}
		mw.prefs.SetString(prefs.KeyAppearance, path)
		return nil
	})
}

// onToggleWatch turns live reloading of the appearance file on or off and
// remembers the choice.
func (mw *MainWindow) onToggleWatch() {
	on := !mw.watchItem.Checked
	mw.watchItem.Checked = on
	mw.prefs.SetBool(prefs.KeyWatch, on)

	if !on {
		mw.session.StopWatch()
		return
	}
	if path := mw.session.AppearancePath(); path != "" {
		if err := mw.session.WatchAppearance(path, app.DefaultReloadDebounce); err != nil {
			dialog.ShowError(err, mw.Window)
		}
	}
}

func (mw *MainWindow) onAbout() {
	dialog.ShowInformation("About "+version.AppName,
		version.String()+"\n\n"+
			"Draw vias, wires and cells over a chip die image.\n\n"+
			"F1 selection, F2 vias, F3 wire, Del deletes the selection,\n"+
			"right-drag pans, the wheel zooms.",
		mw.Window)
}

// onClose saves the window size and asks before dropping unsaved entities.
func (mw *MainWindow) onClose() {
	size := mw.Canvas().Size()
	mw.prefs.SetFloat(prefs.KeyWindowWidth, float64(size.Width))
	mw.prefs.SetFloat(prefs.KeyWindowHeight, float64(size.Height))
	if err := mw.prefs.Save(); err != nil {
		mw.log.Warn("failed to save preferences", "error", err)
	}

	if !mw.session.Modified() {
		mw.Close()
		return
	}
	dialog.ShowConfirm("Unsaved Changes",
		"Entities have unsaved changes. Quit anyway?",
		func(quit bool) {
			if quit {
				mw.Close()
			}
		}, mw.Window)
}
