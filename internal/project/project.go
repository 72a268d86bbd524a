// Package project provides project file handling and persistence. A project
// ties together the files of one tracing job and the last view on them.
package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Extension is the project file extension.
const Extension = ".chipproj"

const currentVersion = 1

// File represents a chip tracer project file (.chipproj).
type File struct {
	Version     int       `json:"version"`
	Name        string    `json:"name"`
	Created     time.Time `json:"created"`
	Modified    time.Time `json:"modified"`
	Description string    `json:"description,omitempty"`

	// Paths relative to the project file
	ImagePath      string `json:"image,omitempty"`
	EntitiesPath   string `json:"entities,omitempty"`
	AppearancePath string `json:"appearance,omitempty"`

	View View `json:"view"`
}

// View is the scroll and zoom restored when the project is opened.
type View struct {
	ScrollX float64 `json:"scroll_x"`
	ScrollY float64 `json:"scroll_y"`
	Zoom    int     `json:"zoom"`
}

// New creates a new project file with default settings.
func New(name string) *File {
	now := time.Now()
	return &File{
		Version:  currentVersion,
		Name:     name,
		Created:  now,
		Modified: now,
		View:     View{Zoom: 100},
	}
}

// Load loads a project from a .chipproj file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read project: %w", err)
	}

	var proj File
	if err := json.Unmarshal(data, &proj); err != nil {
		return nil, fmt.Errorf("failed to parse project %s: %w", filepath.Base(path), err)
	}
	if proj.Version > currentVersion {
		return nil, fmt.Errorf("project %s has version %d, newest supported is %d",
			filepath.Base(path), proj.Version, currentVersion)
	}
	if proj.View.Zoom == 0 {
		proj.View.Zoom = 100
	}
	return &proj, nil
}

// Save saves the project to a file.
func (p *File) Save(path string) error {
	p.Modified = time.Now()
	if p.Version == 0 {
		p.Version = currentVersion
	}

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode project: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write project: %w", err)
	}
	return nil
}

// SetImage records the background image path relative to the project.
func (p *File) SetImage(projectPath, imagePath string) {
	p.ImagePath = relative(projectPath, imagePath)
	p.Modified = time.Now()
}

// SetEntities records the entity file path relative to the project.
func (p *File) SetEntities(projectPath, entitiesPath string) {
	p.EntitiesPath = relative(projectPath, entitiesPath)
	p.Modified = time.Now()
}

// SetAppearance records the appearance file path relative to the project.
func (p *File) SetAppearance(projectPath, appearancePath string) {
	p.AppearancePath = relative(projectPath, appearancePath)
	p.Modified = time.Now()
}

// Image returns the absolute path to the background image, or "".
func (p *File) Image(projectPath string) string {
	return resolve(projectPath, p.ImagePath)
}

// Entities returns the absolute path to the entity file. Without one it
// defaults to the project path with an .xml extension.
func (p *File) Entities(projectPath string) string {
	if p.EntitiesPath == "" {
		return strings.TrimSuffix(projectPath, filepath.Ext(projectPath)) + ".xml"
	}
	return resolve(projectPath, p.EntitiesPath)
}

// Appearance returns the absolute path to the appearance file, or "".
func (p *File) Appearance(projectPath string) string {
	return resolve(projectPath, p.AppearancePath)
}

func relative(projectPath, path string) string {
	if path == "" {
		return ""
	}
	rel, err := filepath.Rel(filepath.Dir(projectPath), path)
	if err != nil {
		return path
	}
	return rel
}

func resolve(projectPath, path string) string {
	if path == "" {
		return ""
	}
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(filepath.Dir(projectPath), path)
}
