// Package panels provides the side panels of the main window.
package panels

import (
	"fmt"
	"strconv"

	"chip-tracer/internal/app"
	"chip-tracer/internal/entity"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// PropertySheet shows the entity picked on the canvas and edits its label,
// label alignment and priority. It is installed as the engine's inspector.
type PropertySheet struct {
	session *app.Session
	box     *fyne.Container

	onUpdate func()

	id string

	kindLabel  *widget.Label
	idLabel    *widget.Label
	shapeLabel *widget.Label

	labelEntry    *widget.Entry
	priorityEntry *widget.Entry
	alignSelect   *widget.Select
	applyBtn      *widget.Button
}

// NewPropertySheet creates a new property sheet panel.
func NewPropertySheet(s *app.Session, onUpdate func()) *PropertySheet {
	ps := &PropertySheet{
		session:  s,
		onUpdate: onUpdate,
	}
	ps.buildUI()
	ps.Inspect(nil)
	return ps
}

// Container returns the panel for embedding.
func (ps *PropertySheet) Container() fyne.CanvasObject {
	return ps.box
}

func (ps *PropertySheet) buildUI() {
	ps.kindLabel = widget.NewLabel("")
	ps.idLabel = widget.NewLabel("")
	ps.idLabel.Truncation = fyne.TextTruncateEllipsis
	ps.shapeLabel = widget.NewLabel("")

	ps.labelEntry = widget.NewEntry()
	ps.priorityEntry = widget.NewEntry()

	aligns := []string{""}
	for a := entity.AlignTop; a <= entity.AlignBottomRight; a++ {
		aligns = append(aligns, a.String())
	}
	ps.alignSelect = widget.NewSelect(aligns, nil)
	ps.alignSelect.PlaceHolder = "(default)"

	ps.applyBtn = widget.NewButton("Apply", func() {
		if err := ps.apply(); err != nil {
			ps.shapeLabel.SetText(err.Error())
		}
	})

	form := widget.NewForm(
		widget.NewFormItem("Kind", ps.kindLabel),
		widget.NewFormItem("ID", ps.idLabel),
		widget.NewFormItem("Shape", ps.shapeLabel),
		widget.NewFormItem("Label", ps.labelEntry),
		widget.NewFormItem("Align", ps.alignSelect),
		widget.NewFormItem("Priority", ps.priorityEntry),
	)
	ps.box = container.NewVBox(widget.NewCard("Properties", "", form), ps.applyBtn)
}

// Inspect implements canvas.Inspector. It runs with the session lock held,
// so it only copies what it shows.
func (ps *PropertySheet) Inspect(e *entity.Entity) {
	if e == nil {
		ps.id = ""
		ps.kindLabel.SetText("(none)")
		ps.idLabel.SetText("")
		ps.shapeLabel.SetText("")
		ps.labelEntry.SetText("")
		ps.priorityEntry.SetText("")
		ps.alignSelect.ClearSelected()
		ps.setEditable(false)
		return
	}

	ps.id = e.ID
	ps.kindLabel.SetText(fmt.Sprintf("%s (%s)", e.Kind, e.Family()))
	ps.idLabel.SetText(e.ID)
	ps.shapeLabel.SetText(describeShape(e.Shape))
	ps.labelEntry.SetText(e.Label)
	ps.priorityEntry.SetText(strconv.Itoa(e.Priority))
	if e.Align != nil {
		ps.alignSelect.SetSelected(e.Align.String())
	} else {
		ps.alignSelect.ClearSelected()
	}
	ps.setEditable(true)
}

func (ps *PropertySheet) setEditable(on bool) {
	for _, w := range []fyne.Disableable{ps.labelEntry, ps.priorityEntry, ps.alignSelect, ps.applyBtn} {
		if on {
			w.Enable()
		} else {
			w.Disable()
		}
	}
}

func (ps *PropertySheet) apply() error {
	if ps.id == "" {
		return nil
	}
	prio, err := strconv.Atoi(ps.priorityEntry.Text)
	if err != nil {
		return fmt.Errorf("invalid priority %q", ps.priorityEntry.Text)
	}
	label := ps.labelEntry.Text
	align, hasAlign := entity.ParseAlign(ps.alignSelect.Selected)

	found := ps.session.Edit(ps.id, func(e *entity.Entity) {
		e.Label = label
		e.Priority = prio
		if hasAlign {
			e.SetAlign(align)
		} else {
			e.Align = nil
		}
	})
	if !found {
		ps.Inspect(nil)
		return nil
	}
	if ps.onUpdate != nil {
		ps.onUpdate()
	}
	return nil
}

func describeShape(s entity.Shape) string {
	switch s := s.(type) {
	case entity.Point:
		return fmt.Sprintf("(%.4g, %.4g)", s.X, s.Y)
	case entity.Segment:
		return fmt.Sprintf("(%.4g, %.4g) - (%.4g, %.4g)", s.X, s.Y, s.EndX, s.EndY)
	case entity.Rect:
		return fmt.Sprintf("(%.4g, %.4g) %.4gx%.4g", s.X, s.Y, s.Width, s.Height)
	}
	return ""
}
