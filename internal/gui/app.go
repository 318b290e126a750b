// Main application window hosting the preview and the settings dialog
package gui

import (
	"fmt"
	"image"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"

	"image-processing-settings/internal/config"
	"image-processing-settings/internal/core"
	"image-processing-settings/internal/io"
	"image-processing-settings/internal/processing"
	"image-processing-settings/internal/settings"
)

// Application wires the settings store to the processing pipeline and
// shows the source image next to the processed preview
type Application struct {
	app    fyne.App
	window fyne.Window
	cfg    *config.Config
	logger logrus.FieldLogger

	store     *settings.Store
	processor *processing.Processor
	loader    *io.ImageLoader

	settingsDialog *SettingsDialog
	imageData      *core.ImageData

	sourceImage  *canvas.Image
	previewImage *canvas.Image
	statusLabel  *widget.Label
	flagChecks   map[string]*widget.Check
}

func NewApplication(app fyne.App, cfg *config.Config, logger logrus.FieldLogger) *Application {
	window := app.NewWindow("Image Processing")
	window.Resize(fyne.NewSize(cfg.Window.Width, cfg.Window.Height))
	window.CenterOnScreen()
	window.SetMaster()

	a := &Application{
		app:        app,
		window:     window,
		cfg:        cfg,
		logger:     logger,
		imageData:  core.NewImageData(),
		flagChecks: make(map[string]*widget.Check),
	}

	a.initializeCore()
	a.initializeGUI()

	if cfg.Source.ImagePath != "" {
		if err := a.LoadImage(cfg.Source.ImagePath); err != nil {
			logger.WithError(err).Warn("Startup image could not be loaded")
		}
	}

	return a
}

func (a *Application) initializeCore() {
	p := a.cfg.Processing
	a.processor = processing.NewProcessor(processing.Flags{
		Grayscale: p.Grayscale,
		Smooth:    p.Smooth,
		Dilate:    p.Dilate,
		Erode:     p.Erode,
		Flip:      p.Flip,
		Canny:     p.Canny,
	}, a.logger)
	a.processor.SetOnChange(a.refreshPreview)

	a.store = settings.NewStore(a.logger)
	a.store.Subscribe(a.processor)
	a.loader = io.NewImageLoader(a.logger)
}

func (a *Application) initializeGUI() {
	settingsWindow := a.app.NewWindow("Image Processing Settings")
	settingsWindow.Resize(fyne.NewSize(520, 640))
	a.settingsDialog = NewSettingsDialog(settingsWindow, a.store, a.logger)
	settingsWindow.SetCloseIntercept(a.settingsDialog.Hide)

	placeholder := image.NewRGBA(image.Rect(0, 0, 1, 1))
	a.sourceImage = canvas.NewImageFromImage(placeholder)
	a.sourceImage.FillMode = canvas.ImageFillContain
	a.sourceImage.SetMinSize(fyne.NewSize(400, 300))
	a.previewImage = canvas.NewImageFromImage(placeholder)
	a.previewImage.FillMode = canvas.ImageFillContain
	a.previewImage.SetMinSize(fyne.NewSize(400, 300))

	a.statusLabel = widget.NewLabel("Open an image to begin")

	flags := a.processor.Flags()
	toggles := container.NewHBox(
		a.newFlagCheck("Grayscale", flags.Grayscale),
		a.newFlagCheck("Smooth", flags.Smooth),
		a.newFlagCheck("Dilate", flags.Dilate),
		a.newFlagCheck("Erode", flags.Erode),
		a.newFlagCheck("Flip", flags.Flip),
		a.newFlagCheck("Canny", flags.Canny),
		widget.NewSeparator(),
		widget.NewButtonWithIcon("Settings", theme.SettingsIcon(), a.ShowSettings),
	)

	images := container.NewGridWithColumns(2,
		widget.NewCard("🖼️ Source", "", a.sourceImage),
		widget.NewCard("✨ Processed", "", a.previewImage),
	)

	a.window.SetMainMenu(a.mainMenu())
	a.window.SetContent(container.NewBorder(
		widget.NewCard("🛠️ Operations", "", toggles),
		a.statusLabel,
		nil,
		nil,
		images,
	))
	a.window.SetOnClosed(a.close)
}

func (a *Application) newFlagCheck(name string, checked bool) *widget.Check {
	check := widget.NewCheck(name, nil)
	check.SetChecked(checked)
	check.OnChanged = func(bool) { a.onFlagsChanged() }
	a.flagChecks[name] = check
	return check
}

func (a *Application) onFlagsChanged() {
	a.processor.SetFlags(processing.Flags{
		Grayscale: a.flagChecks["Grayscale"].Checked,
		Smooth:    a.flagChecks["Smooth"].Checked,
		Dilate:    a.flagChecks["Dilate"].Checked,
		Erode:     a.flagChecks["Erode"].Checked,
		Flip:      a.flagChecks["Flip"].Checked,
		Canny:     a.flagChecks["Canny"].Checked,
	})
}

func (a *Application) mainMenu() *fyne.MainMenu {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open Image...", a.openImage),
		fyne.NewMenuItem("Settings...", a.ShowSettings),
	)
	return fyne.NewMainMenu(fileMenu)
}

// ShowSettings brings the settings dialog to the front
func (a *Application) ShowSettings() {
	a.settingsDialog.Window().Show()
	a.settingsDialog.Window().RequestFocus()
}

func (a *Application) openImage() {
	fileDialog := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			a.showError("File Dialog Error", err)
			return
		}
		if reader == nil {
			return
		}
		defer reader.Close()

		if err := a.LoadImage(reader.URI().Path()); err != nil {
			a.showError("Failed to Load Image", err)
		}
	}, a.window)

	fileDialog.SetFilter(storage.NewExtensionFileFilter(io.SupportedExtensions()))
	fileDialog.Show()
}

// LoadImage replaces the source image and reprocesses it
func (a *Application) LoadImage(path string) error {
	mat, err := a.loader.LoadImage(path)
	if err != nil {
		return err
	}

	img, err := io.ToImage(mat)
	if err != nil {
		mat.Close()
		return err
	}

	if err := a.imageData.SetSource(mat, path); err != nil {
		mat.Close()
		return err
	}

	meta, shown := a.imageData.Metadata(), a.imageData.Path()
	fyne.Do(func() {
		a.sourceImage.Image = img
		a.sourceImage.Refresh()
		a.statusLabel.SetText(fmt.Sprintf("%s (%dx%d, %s)", shown, meta.Width, meta.Height, meta.Format))
	})

	a.refreshPreview()
	return nil
}

func (a *Application) refreshPreview() {
	if !a.imageData.HasImage() {
		return
	}

	var img image.Image
	err := a.imageData.WithSource(func(src gocv.Mat) error {
		processed, err := a.processor.Process(src)
		defer processed.Close()
		if err != nil {
			return err
		}
		img, err = io.ToImage(processed)
		return err
	})
	if err != nil {
		a.logger.WithError(err).Error("Preview update failed")
		fyne.Do(func() {
			a.statusLabel.SetText("Processing failed: " + err.Error())
		})
		return
	}

	fyne.Do(func() {
		a.previewImage.Image = img
		a.previewImage.Refresh()
	})
}

func (a *Application) showError(title string, err error) {
	a.logger.WithError(err).Error(title)
	dialog.ShowError(fmt.Errorf("%s: %w", title, err), a.window)
}

func (a *Application) close() {
	a.imageData.Close()
	a.logger.Debug("Application window closed")
}

// ShowAndRun shows the main window and blocks until the app exits
func (a *Application) ShowAndRun() {
	a.window.ShowAndRun()
}
