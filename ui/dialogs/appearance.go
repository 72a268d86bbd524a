// Package dialogs provides application dialogs.
package dialogs

import (
	"fmt"
	"strconv"

	"chip-tracer/internal/config"
	"chip-tracer/internal/entity"
	"chip-tracer/pkg/colorutil"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
)

// AppearanceDialog provides a property sheet for editing the appearance.
type AppearanceDialog struct {
	appearance config.Appearance
	window     fyne.Window

	lambdaEntry   *widget.Entry
	viasShape     *widget.Select
	viasSizeEntry *widget.Entry
	wireSizeEntry *widget.Entry

	selectionEntry  *widget.Entry
	backgroundEntry *widget.Entry
	gridEntry       *widget.Entry
	swatches        map[*widget.Entry]*fynecanvas.Rectangle

	opacity  [3]*widget.Entry
	priority [3]*widget.Entry
	align    [3]*widget.Select
	autoPrio *widget.Check

	onSave func(config.Appearance)
}

var dialogFamilies = [3]entity.Family{entity.FamilyVias, entity.FamilyWire, entity.FamilyCell}

// NewAppearanceDialog creates a dialog editing a copy of the appearance.
func NewAppearanceDialog(a config.Appearance, window fyne.Window, onSave func(config.Appearance)) *AppearanceDialog {
	return &AppearanceDialog{
		appearance: a.Clone(),
		window:     window,
		onSave:     onSave,
	}
}

// Show displays the dialog.
func (d *AppearanceDialog) Show() {
	content := d.createContent()

	dlg := dialog.NewCustomConfirm(
		"Appearance",
		"Apply",
		"Cancel",
		content,
		func(save bool) {
			if !save {
				return
			}
			a, err := d.applyChanges()
			if err != nil {
				dialog.ShowError(err, d.window)
				return
			}
			if d.onSave != nil {
				d.onSave(a)
			}
		},
		d.window,
	)
	dlg.Resize(fyne.NewSize(460, 640))
	dlg.Show()
}

func (d *AppearanceDialog) createContent() fyne.CanvasObject {
	a := d.appearance

	d.lambdaEntry = widget.NewEntry()
	d.lambdaEntry.SetText(strconv.FormatFloat(a.Lambda, 'f', -1, 64))
	d.viasShape = widget.NewSelect([]string{config.ViasRound.String(), config.ViasSquare.String()}, nil)
	d.viasShape.SetSelected(a.ViasShape.String())
	d.viasSizeEntry = widget.NewEntry()
	d.viasSizeEntry.SetText(strconv.Itoa(a.ViasBaseSize))
	d.wireSizeEntry = widget.NewEntry()
	d.wireSizeEntry.SetText(strconv.Itoa(a.WireBaseSize))

	// Changing lambda re-derives the base sizes, as SetLambda does.
	d.lambdaEntry.OnChanged = func(s string) {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || v <= 0 {
			return
		}
		var tmp config.Appearance
		tmp.SetLambda(v)
		d.viasSizeEntry.SetText(strconv.Itoa(tmp.ViasBaseSize))
		d.wireSizeEntry.SetText(strconv.Itoa(tmp.WireBaseSize))
	}

	sizesForm := widget.NewForm(
		widget.NewFormItem("Lambda (px)", d.lambdaEntry),
		widget.NewFormItem("Vias shape", d.viasShape),
		widget.NewFormItem("Vias size", d.viasSizeEntry),
		widget.NewFormItem("Wire width", d.wireSizeEntry),
	)

	d.swatches = make(map[*widget.Entry]*fynecanvas.Rectangle)
	d.selectionEntry = d.colorEntry(a.Selection)
	d.backgroundEntry = d.colorEntry(a.Background)
	d.gridEntry = d.colorEntry(a.Grid)

	colorsForm := widget.NewForm(
		widget.NewFormItem("Selection", d.swatchRow(d.selectionEntry)),
		widget.NewFormItem("Background", d.swatchRow(d.backgroundEntry)),
		widget.NewFormItem("Grid", d.swatchRow(d.gridEntry)),
	)

	aligns := make([]string, 0, 6)
	for al := entity.AlignTop; al <= entity.AlignBottomRight; al++ {
		aligns = append(aligns, al.String())
	}

	grid := container.NewGridWithColumns(4,
		widget.NewLabel(""),
		widget.NewLabel("Opacity"),
		widget.NewLabel("Priority"),
		widget.NewLabel("Label"),
	)
	for i, f := range dialogFamilies {
		d.opacity[i] = widget.NewEntry()
		d.opacity[i].SetText(strconv.Itoa(a.Opacity.For(f)))
		d.priority[i] = widget.NewEntry()
		d.priority[i].SetText(strconv.Itoa(a.Priority.For(f)))
		d.align[i] = widget.NewSelect(aligns, nil)
		d.align[i].SetSelected(a.TextAlign.For(f).String())
		grid.Add(widget.NewLabel(f.String()))
		grid.Add(d.opacity[i])
		grid.Add(d.priority[i])
		grid.Add(d.align[i])
	}
	d.autoPrio = widget.NewCheck("Sort by priority on insert", nil)
	d.autoPrio.SetChecked(a.AutoPriority)

	return container.NewVBox(
		widget.NewCard("Sizes", "", sizesForm),
		widget.NewCard("Colors", "", colorsForm),
		widget.NewCard("Families", "", container.NewVBox(grid, d.autoPrio)),
	)
}

func (d *AppearanceDialog) colorEntry(c colorutil.Color) *widget.Entry {
	e := widget.NewEntry()
	sw := fynecanvas.NewRectangle(c.Std())
	sw.SetMinSize(fyne.NewSize(40, 24))
	d.swatches[e] = sw
	e.SetText(c.String())
	e.OnChanged = func(s string) {
		if c, err := colorutil.Parse(s); err == nil {
			sw.FillColor = c.Std()
			fynecanvas.Refresh(sw)
		}
	}
	return e
}

func (d *AppearanceDialog) swatchRow(e *widget.Entry) fyne.CanvasObject {
	return container.NewBorder(nil, nil, nil, d.swatches[e], e)
}

// applyChanges returns the edited appearance, or the first invalid field.
func (d *AppearanceDialog) applyChanges() (config.Appearance, error) {
	a := d.appearance.Clone()

	lambda, err := strconv.ParseFloat(d.lambdaEntry.Text, 64)
	if err != nil || lambda <= 0 {
		return a, fmt.Errorf("invalid lambda %q", d.lambdaEntry.Text)
	}
	a.Lambda = lambda
	if d.viasShape.Selected == config.ViasSquare.String() {
		a.ViasShape = config.ViasSquare
	} else {
		a.ViasShape = config.ViasRound
	}
	if a.ViasBaseSize, err = parseInt("vias size", d.viasSizeEntry.Text); err != nil {
		return a, err
	}
	if a.WireBaseSize, err = parseInt("wire width", d.wireSizeEntry.Text); err != nil {
		return a, err
	}

	for _, c := range []struct {
		name  string
		entry *widget.Entry
		dst   *colorutil.Color
	}{
		{"selection", d.selectionEntry, &a.Selection},
		{"background", d.backgroundEntry, &a.Background},
		{"grid", d.gridEntry, &a.Grid},
	} {
		col, err := colorutil.Parse(c.entry.Text)
		if err != nil {
			return a, fmt.Errorf("%s color: %w", c.name, err)
		}
		*c.dst = col
	}

	var opacity, priority [3]int
	for i, f := range dialogFamilies {
		if opacity[i], err = parseInt(f.String()+" opacity", d.opacity[i].Text); err != nil {
			return a, err
		}
		if priority[i], err = parseInt(f.String()+" priority", d.priority[i].Text); err != nil {
			return a, err
		}
	}
	a.Opacity = config.PerFamily{Vias: opacity[0], Wire: opacity[1], Cell: opacity[2]}
	a.Priority = config.PerFamily{Vias: priority[0], Wire: priority[1], Cell: priority[2]}
	a.TextAlign.Vias, _ = entity.ParseAlign(d.align[0].Selected)
	a.TextAlign.Wire, _ = entity.ParseAlign(d.align[1].Selected)
	a.TextAlign.Cell, _ = entity.ParseAlign(d.align[2].Selected)
	a.AutoPriority = d.autoPrio.Checked

	a.Clamp()
	return a, nil
}

func parseInt(field, s string) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", field, s)
	}
	return v, nil
}
