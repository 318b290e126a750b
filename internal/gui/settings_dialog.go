// Settings dialog binding form widgets to the settings store
package gui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/sirupsen/logrus"

	"image-processing-settings/internal/settings"
)

var smoothFields = [4]settings.Field{
	settings.FieldSmoothParam1,
	settings.FieldSmoothParam2,
	settings.FieldSmoothParam3,
	settings.FieldSmoothParam4,
}

// SettingsDialog edits a draft and commits it to the store on Apply.
// Reset buttons only repopulate the form.
type SettingsDialog struct {
	window fyne.Window
	store  *settings.Store
	logger logrus.FieldLogger

	onAdvisory func(settings.Advisory)

	smoothType *widget.RadioGroup
	flipCode   *widget.RadioGroup
	l2Gradient *widget.Check

	entries     map[settings.Field]*widget.Entry
	labels      map[settings.Field]*widget.Label
	rangeLabels map[settings.Field]*widget.Label
	accepted    map[settings.Field]string

	applyButton    *widget.Button
	resetAllButton *widget.Button
	resetButtons   map[string]*widget.Button

	// set while the form is written programmatically
	updating bool
	content  fyne.CanvasObject
}

// NewSettingsDialog builds the form into window, resets it to defaults and
// applies it once so listeners receive an initial record.
func NewSettingsDialog(window fyne.Window, store *settings.Store, logger logrus.FieldLogger) *SettingsDialog {
	sd := &SettingsDialog{
		window:       window,
		store:        store,
		logger:       logger,
		entries:      make(map[settings.Field]*widget.Entry),
		labels:       make(map[settings.Field]*widget.Label),
		rangeLabels:  make(map[settings.Field]*widget.Label),
		accepted:     make(map[settings.Field]string),
		resetButtons: make(map[string]*widget.Button),
	}
	sd.onAdvisory = sd.showAdvisory

	sd.initializeUI()
	window.SetContent(sd.content)

	sd.ResetAll()
	sd.Apply()

	return sd
}

// SetAdvisoryHandler replaces the default dialog presentation of advisories
func (sd *SettingsDialog) SetAdvisoryHandler(fn func(settings.Advisory)) {
	sd.onAdvisory = fn
}

func (sd *SettingsDialog) Window() fyne.Window {
	return sd.window
}

func (sd *SettingsDialog) initializeUI() {
	var smoothNames []string
	for _, st := range settings.SmoothTypes() {
		smoothNames = append(smoothNames, st.String())
	}
	sd.smoothType = widget.NewRadioGroup(smoothNames, sd.onSmoothTypeChanged)
	sd.smoothType.Horizontal = true
	sd.smoothType.Required = true

	var flipNames []string
	for _, fc := range settings.FlipCodes() {
		flipNames = append(flipNames, fc.String())
	}
	sd.flipCode = widget.NewRadioGroup(flipNames, nil)
	sd.flipCode.Horizontal = true
	sd.flipCode.Required = true

	sd.l2Gradient = widget.NewCheck("L2 gradient", nil)

	for _, f := range []settings.Field{
		settings.FieldSmoothParam1, settings.FieldSmoothParam2,
		settings.FieldSmoothParam3, settings.FieldSmoothParam4,
		settings.FieldDilateIterations, settings.FieldErodeIterations,
		settings.FieldCannyThreshold1, settings.FieldCannyThreshold2,
		settings.FieldCannyApertureSize,
	} {
		sd.newFieldRow(f)
	}

	smoothGrid := container.NewGridWithColumns(3)
	for _, f := range smoothFields {
		smoothGrid.Add(sd.labels[f])
		smoothGrid.Add(sd.entries[f])
		smoothGrid.Add(sd.rangeLabels[f])
	}

	smoothCard := widget.NewCard("🌫️ Smooth", "",
		container.NewVBox(
			sd.smoothType,
			smoothGrid,
			sd.newResetButton("smooth", func(d *settings.Draft) { d.ResetSmooth() }),
		))

	dilateCard := widget.NewCard("➕ Dilate", "",
		container.NewVBox(
			sd.fieldGrid(settings.FieldDilateIterations),
			sd.newResetButton("dilate", func(d *settings.Draft) { d.ResetDilate() }),
		))

	erodeCard := widget.NewCard("➖ Erode", "",
		container.NewVBox(
			sd.fieldGrid(settings.FieldErodeIterations),
			sd.newResetButton("erode", func(d *settings.Draft) { d.ResetErode() }),
		))

	flipCard := widget.NewCard("🔃 Flip", "",
		container.NewVBox(
			sd.flipCode,
			sd.newResetButton("flip", func(d *settings.Draft) { d.ResetFlip() }),
		))

	cannyCard := widget.NewCard("📐 Canny", "",
		container.NewVBox(
			sd.fieldGrid(settings.FieldCannyThreshold1, settings.FieldCannyThreshold2, settings.FieldCannyApertureSize),
			sd.l2Gradient,
			sd.newResetButton("canny", func(d *settings.Draft) { d.ResetCanny() }),
		))

	sd.resetAllButton = widget.NewButton("Reset All to Defaults", sd.ResetAll)
	sd.applyButton = widget.NewButtonWithIcon("Apply", theme.ConfirmIcon(), func() { sd.Apply() })
	sd.applyButton.Importance = widget.HighImportance

	sd.content = container.NewBorder(
		nil,
		container.NewHBox(sd.resetAllButton, widget.NewSeparator(), sd.applyButton),
		nil,
		nil,
		container.NewVScroll(container.NewVBox(
			smoothCard,
			container.NewGridWithColumns(2, dilateCard, erodeCard),
			flipCard,
			cannyCard,
		)),
	)
}

func (sd *SettingsDialog) newFieldRow(f settings.Field) {
	spec := f.Spec(settings.DefaultSmoothType)

	entry := widget.NewEntry()
	entry.OnChanged = func(text string) {
		if sd.updating {
			sd.accepted[f] = text
			return
		}
		if !f.Spec(sd.currentSmoothType()).Accepts(text) {
			entry.SetText(sd.accepted[f])
			return
		}
		sd.accepted[f] = text
	}

	sd.entries[f] = entry
	sd.labels[f] = widget.NewLabel(spec.Label)
	sd.rangeLabels[f] = widget.NewLabel(spec.RangeLabel)
}

func (sd *SettingsDialog) fieldGrid(fields ...settings.Field) *fyne.Container {
	grid := container.NewGridWithColumns(3)
	for _, f := range fields {
		grid.Add(sd.labels[f])
		grid.Add(sd.entries[f])
		grid.Add(sd.rangeLabels[f])
	}
	return grid
}

func (sd *SettingsDialog) newResetButton(section string, reset func(*settings.Draft)) *widget.Button {
	button := widget.NewButtonWithIcon("Reset to Defaults", theme.ViewRefreshIcon(), func() {
		d := sd.Draft()
		reset(&d)
		sd.SetDraft(d)
		sd.logger.WithField("section", section).Debug("SETTINGS: Section reset to defaults")
	})
	button.Importance = widget.LowImportance
	sd.resetButtons[section] = button
	return button
}

func (sd *SettingsDialog) currentSmoothType() settings.SmoothType {
	st, ok := settings.ParseSmoothType(sd.smoothType.Selected)
	if !ok {
		return settings.DefaultSmoothType
	}
	return st
}

func (sd *SettingsDialog) currentFlipCode() settings.FlipCode {
	fc, ok := settings.ParseFlipCode(sd.flipCode.Selected)
	if !ok {
		return settings.DefaultFlipCode
	}
	return fc
}

// onSmoothTypeChanged enables the parameters the mode uses and relabels them
func (sd *SettingsDialog) onSmoothTypeChanged(string) {
	mode := sd.currentSmoothType()
	for _, f := range smoothFields {
		spec := f.Spec(mode)
		sd.labels[f].SetText(spec.Label)
		sd.rangeLabels[f].SetText(spec.RangeLabel)
		if spec.Enabled {
			sd.entries[f].Enable()
		} else {
			sd.entries[f].Disable()
		}
	}
}

// Draft reads the current form state
func (sd *SettingsDialog) Draft() settings.Draft {
	return settings.Draft{
		SmoothType:        sd.currentSmoothType(),
		SmoothParam1:      sd.entries[settings.FieldSmoothParam1].Text,
		SmoothParam2:      sd.entries[settings.FieldSmoothParam2].Text,
		SmoothParam3:      sd.entries[settings.FieldSmoothParam3].Text,
		SmoothParam4:      sd.entries[settings.FieldSmoothParam4].Text,
		DilateIterations:  sd.entries[settings.FieldDilateIterations].Text,
		ErodeIterations:   sd.entries[settings.FieldErodeIterations].Text,
		FlipCode:          sd.currentFlipCode(),
		CannyThreshold1:   sd.entries[settings.FieldCannyThreshold1].Text,
		CannyThreshold2:   sd.entries[settings.FieldCannyThreshold2].Text,
		CannyApertureSize: sd.entries[settings.FieldCannyApertureSize].Text,
		CannyL2Gradient:   sd.l2Gradient.Checked,
	}
}

// SetDraft writes a draft into the form
func (sd *SettingsDialog) SetDraft(d settings.Draft) {
	sd.updating = true
	defer func() { sd.updating = false }()

	sd.smoothType.SetSelected(d.SmoothType.String())
	sd.entries[settings.FieldSmoothParam1].SetText(d.SmoothParam1)
	sd.entries[settings.FieldSmoothParam2].SetText(d.SmoothParam2)
	sd.entries[settings.FieldSmoothParam3].SetText(d.SmoothParam3)
	sd.entries[settings.FieldSmoothParam4].SetText(d.SmoothParam4)
	sd.entries[settings.FieldDilateIterations].SetText(d.DilateIterations)
	sd.entries[settings.FieldErodeIterations].SetText(d.ErodeIterations)
	sd.flipCode.SetSelected(d.FlipCode.String())
	sd.entries[settings.FieldCannyThreshold1].SetText(d.CannyThreshold1)
	sd.entries[settings.FieldCannyThreshold2].SetText(d.CannyThreshold2)
	sd.entries[settings.FieldCannyApertureSize].SetText(d.CannyApertureSize)
	sd.l2Gradient.SetChecked(d.CannyL2Gradient)

	sd.onSmoothTypeChanged(sd.smoothType.Selected)
}

// ResetAll repopulates every section with defaults without committing
func (sd *SettingsDialog) ResetAll() {
	sd.SetDraft(settings.DefaultDraft())
}

// RestoreFromStore discards unapplied edits by rebuilding the form from the
// committed record
func (sd *SettingsDialog) RestoreFromStore() {
	sd.SetDraft(settings.FromSettings(sd.store.Current()))
}

// Hide restores the committed values and hides the window
func (sd *SettingsDialog) Hide() {
	sd.RestoreFromStore()
	sd.window.Hide()
}

// Apply validates the form, commits it and reports every correction
func (sd *SettingsDialog) Apply() []settings.Advisory {
	normalized, advisories := sd.store.Apply(sd.Draft())
	sd.SetDraft(normalized)

	for _, a := range advisories {
		if sd.onAdvisory != nil {
			sd.onAdvisory(a)
		}
	}
	return advisories
}

func (sd *SettingsDialog) showAdvisory(a settings.Advisory) {
	if a.Severity == settings.SeverityWarning {
		content := container.NewHBox(widget.NewIcon(theme.WarningIcon()), widget.NewLabel(a.Message))
		dialog.NewCustom(a.Title, "OK", content, sd.window).Show()
		return
	}
	dialog.ShowInformation(a.Title, a.Message, sd.window)
}
