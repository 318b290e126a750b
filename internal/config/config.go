// Application configuration loaded from file, environment and defaults
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	Logging    LoggingConfig    `mapstructure:"logging"`
	Window     WindowConfig     `mapstructure:"window"`
	Source     SourceConfig     `mapstructure:"source"`
	Processing ProcessingConfig `mapstructure:"processing"`
}

type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	JSONFormat bool   `mapstructure:"json_format"`
}

type WindowConfig struct {
	Width  float32 `mapstructure:"width"`
	Height float32 `mapstructure:"height"`
}

// SourceConfig names an image to open at startup
type SourceConfig struct {
	ImagePath string `mapstructure:"image_path"`
}

// ProcessingConfig holds the initial per-operation toggles
type ProcessingConfig struct {
	Grayscale bool `mapstructure:"grayscale"`
	Smooth    bool `mapstructure:"smooth"`
	Dilate    bool `mapstructure:"dilate"`
	Erode     bool `mapstructure:"erode"`
	Flip      bool `mapstructure:"flip"`
	Canny     bool `mapstructure:"canny"`
}

const EnvPrefix = "IMGPROC"

// Load reads configuration. An empty path searches the working directory
// and ./configs for config.yaml; a missing file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.json_format", true)
	v.SetDefault("window.width", 1400)
	v.SetDefault("window.height", 900)
	v.SetDefault("source.image_path", "")
	v.SetDefault("processing.grayscale", false)
	v.SetDefault("processing.smooth", false)
	v.SetDefault("processing.dilate", false)
	v.SetDefault("processing.erode", false)
	v.SetDefault("processing.flip", false)
	v.SetDefault("processing.canny", false)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if _, err := logrus.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	if c.Window.Width < 320 || c.Window.Height < 240 {
		return fmt.Errorf("window size must be at least 320x240, got %.0fx%.0f", c.Window.Width, c.Window.Height)
	}
	return nil
}

// LogLevel returns the configured level, forced to debug when requested
func (c *Config) LogLevel(debug bool) logrus.Level {
	if debug {
		return logrus.DebugLevel
	}
	level, err := logrus.ParseLevel(c.Logging.Level)
	if err != nil {
		return logrus.InfoLevel
	}
	return level
}
