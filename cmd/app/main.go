// Image processing settings application
// License: MIT

package main

import (
	"flag"
	"fmt"
	"os"

	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/theme"
	"github.com/sirupsen/logrus"

	"image-processing-settings/internal/config"
	"image-processing-settings/internal/gui"
)

const (
	AppID      = "com.imageprocessing.settings"
	AppVersion = "1.0.0"
)

func main() {
	debugMode := flag.Bool("debug", false, "Enable debug mode with verbose logging")
	configPath := flag.String("config", "", "Path to a YAML configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	logger := initLogger(cfg, *debugMode)
	logger.WithFields(logrus.Fields{
		"version":    AppVersion,
		"debug_mode": *debugMode,
	}).Info("Starting Image Processing Settings")

	myApp := app.NewWithID(AppID)
	myApp.SetIcon(theme.DocumentIcon())
	myApp.Settings().SetTheme(theme.DefaultTheme())

	mainApp := gui.NewApplication(myApp, cfg, logger)
	mainApp.ShowAndRun()

	logger.Info("Application shutting down gracefully")
}

// initLogger initializes the logger with appropriate level
func initLogger(cfg *config.Config, debugMode bool) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	logger.SetLevel(cfg.LogLevel(debugMode))

	if debugMode || !cfg.Logging.JSONFormat {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			ForceColors:   debugMode,
		})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}

	logger.Debug("Debug logging enabled")
	return logger
}
