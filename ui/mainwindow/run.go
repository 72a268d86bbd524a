package mainwindow

import (
	"log/slog"
	"path/filepath"

	"chip-tracer/internal/app"
	"chip-tracer/internal/config"
	"chip-tracer/internal/project"
	"chip-tracer/ui/prefs"

	fyneapp "fyne.io/fyne/v2/app"
)

const appID = "io.github.chip-tracer"

// Options selects what the GUI opens with.
type Options struct {
	AppearancePath string // empty uses the last appearance file from preferences
	EntitiesPath   string // a .chipproj file is opened as a project
	ImagePath      string
	Watch          bool // reload the appearance file when it changes
	Logger         *slog.Logger
}

// Run opens the main window and blocks until it is closed.
func Run(opts Options) error {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	p := prefs.Load()

	appearancePath := opts.AppearancePath
	if appearancePath == "" {
		appearancePath = p.String(prefs.KeyAppearance)
	}
	appearance, err := config.LoadOrDefault(appearancePath)
	if err != nil {
		log.Warn("using default appearance", "path", appearancePath, "error", err)
		appearance = config.Default()
		appearancePath = ""
	}

	session := app.NewSession(appearance, app.WithLogger(log))
	defer session.Close()

	if appearancePath != "" && (opts.Watch || p.Bool(prefs.KeyWatch, false)) {
		if err := session.WatchAppearance(appearancePath, app.DefaultReloadDebounce); err != nil {
			log.Warn("appearance watch disabled", "error", err)
		}
	}
	if opts.ImagePath != "" {
		if err := session.LoadImage(opts.ImagePath); err != nil {
			log.Error("failed to load image", "path", opts.ImagePath, "error", err)
		}
	}
	if filepath.Ext(opts.EntitiesPath) == project.Extension {
		if err := session.OpenProject(opts.EntitiesPath); err != nil {
			log.Error("failed to open project", "path", opts.EntitiesPath, "error", err)
		}
	} else if opts.EntitiesPath != "" {
		if err := session.LoadEntities(opts.EntitiesPath, false); err != nil {
			log.Error("failed to load entities", "path", opts.EntitiesPath, "error", err)
		}
	}

	a := fyneapp.NewWithID(appID)
	a.Settings().SetTheme(&app.ChipTracerTheme{})

	win := New(a, session, p, log)
	win.ShowAndRun()

	if err := p.Save(); err != nil {
		log.Warn("failed to save preferences", "error", err)
	}
	return nil
}
