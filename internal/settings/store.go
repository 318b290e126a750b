// Session store for the committed settings record
package settings

import (
	"github.com/sirupsen/logrus"
)

// Listener receives every committed record by value
type Listener interface {
	SettingsChanged(Settings)
}

// ListenerFunc adapts a plain function to Listener
type ListenerFunc func(Settings)

func (f ListenerFunc) SettingsChanged(s Settings) {
	f(s)
}

// Store owns the record for one dialog session. It is driven from the UI
// goroutine and is not safe for concurrent use.
type Store struct {
	logger    logrus.FieldLogger
	current   Settings
	listeners []Listener
}

func NewStore(logger logrus.FieldLogger) *Store {
	return &Store{
		logger:  logger,
		current: Defaults(),
	}
}

// Current returns the committed record
func (s *Store) Current() Settings {
	return s.current
}

// Subscribe registers a listener for future commits
func (s *Store) Subscribe(l Listener) {
	s.listeners = append(s.listeners, l)
}

// Apply normalizes the draft, commits it and notifies listeners. The
// normalized draft is returned so the caller can refresh its form.
func (s *Store) Apply(d Draft) (Draft, []Advisory) {
	normalized, advisories := Normalize(d)

	for _, a := range advisories {
		entry := s.logger.WithFields(logrus.Fields{
			"severity": a.Severity.String(),
			"title":    a.Title,
			"fields":   a.Fields,
		})
		if a.Severity == SeverityWarning {
			entry.Warn("SETTINGS: Input auto-corrected")
		} else {
			entry.Info("SETTINGS: Input auto-corrected")
		}
	}

	s.current = normalized.Settings()
	s.logger.WithFields(logrus.Fields{
		"smooth_type":  s.current.SmoothType.String(),
		"smooth_param": []float64{float64(s.current.SmoothParam1), float64(s.current.SmoothParam2), s.current.SmoothParam3, s.current.SmoothParam4},
		"dilate":       s.current.DilateIterations,
		"erode":        s.current.ErodeIterations,
		"flip":         s.current.FlipCode.String(),
		"canny":        []float64{s.current.CannyThreshold1, s.current.CannyThreshold2},
		"aperture":     s.current.CannyApertureSize,
		"l2_gradient":  s.current.CannyL2Gradient,
		"listeners":    len(s.listeners),
	}).Debug("SETTINGS: Committed")

	for _, l := range s.listeners {
		l.SettingsChanged(s.current)
	}

	return normalized, advisories
}
