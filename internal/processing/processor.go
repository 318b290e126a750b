// Processing consumer that applies committed settings to images
package processing

import (
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"

	"image-processing-settings/internal/settings"
)

// Flags toggles the individual operations of the pipeline
type Flags struct {
	Grayscale bool
	Smooth    bool
	Dilate    bool
	Erode     bool
	Flip      bool
	Canny     bool
}

// Processor applies the latest settings record to images. Settings and
// flags may be updated from any goroutine.
type Processor struct {
	mu       sync.RWMutex
	settings settings.Settings
	flags    Flags
	logger   logrus.FieldLogger

	onChange func()
}

func NewProcessor(flags Flags, logger logrus.FieldLogger) *Processor {
	return &Processor{
		settings: settings.Defaults(),
		flags:    flags,
		logger:   logger,
	}
}

// SettingsChanged implements settings.Listener
func (p *Processor) SettingsChanged(s settings.Settings) {
	p.mu.Lock()
	p.settings = s
	onChange := p.onChange
	p.mu.Unlock()

	p.logger.WithFields(logrus.Fields{
		"smooth_type": s.SmoothType.String(),
		"flip":        s.FlipCode.String(),
	}).Debug("PROCESSING: Settings updated")

	if onChange != nil {
		onChange()
	}
}

// SetFlags replaces the operation toggles
func (p *Processor) SetFlags(flags Flags) {
	p.mu.Lock()
	p.flags = flags
	onChange := p.onChange
	p.mu.Unlock()

	if onChange != nil {
		onChange()
	}
}

func (p *Processor) Flags() Flags {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.flags
}

func (p *Processor) Settings() settings.Settings {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.settings
}

// SetOnChange registers a callback run after settings or flags change
func (p *Processor) SetOnChange(fn func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onChange = fn
}

type step struct {
	name    string
	enabled bool
	apply   func(src gocv.Mat, dst *gocv.Mat, s settings.Settings) error
}

// Process runs the enabled operations in order and returns a new Mat owned
// by the caller. The input is left untouched.
func (p *Processor) Process(src gocv.Mat) (gocv.Mat, error) {
	if src.Empty() {
		return gocv.NewMat(), fmt.Errorf("input image is empty")
	}

	p.mu.RLock()
	s, flags := p.settings, p.flags
	p.mu.RUnlock()

	start := time.Now()
	steps := []step{
		{"grayscale", flags.Grayscale, toGray},
		{"smooth", flags.Smooth, smooth},
		{"dilate", flags.Dilate, dilate},
		{"erode", flags.Erode, erode},
		{"flip", flags.Flip, flip},
		{"canny", flags.Canny, canny},
	}

	current := src.Clone()
	applied := 0
	for _, st := range steps {
		if !st.enabled {
			continue
		}
		dst := gocv.NewMat()
		if err := st.apply(current, &dst, s); err != nil {
			dst.Close()
			current.Close()
			p.logger.WithError(err).WithField("step", st.name).Error("PROCESSING: Step failed")
			return gocv.NewMat(), fmt.Errorf("%s: %w", st.name, err)
		}
		current.Close()
		current = dst
		applied++
	}

	p.logger.WithFields(logrus.Fields{
		"steps":    applied,
		"width":    current.Cols(),
		"height":   current.Rows(),
		"duration": time.Since(start),
	}).Debug("PROCESSING: Frame processed")

	return current, nil
}

func toGray(src gocv.Mat, dst *gocv.Mat, _ settings.Settings) error {
	switch src.Channels() {
	case 1:
		src.CopyTo(dst)
		return nil
	case 4:
		return gocv.CvtColor(src, dst, gocv.ColorBGRAToGray)
	default:
		return gocv.CvtColor(src, dst, gocv.ColorBGRToGray)
	}
}

func smooth(src gocv.Mat, dst *gocv.Mat, s settings.Settings) error {
	switch s.SmoothType {
	case settings.SmoothBlur:
		if s.SmoothParam1 < 1 || s.SmoothParam2 < 1 {
			return fmt.Errorf("invalid blur kernel %dx%d", s.SmoothParam1, s.SmoothParam2)
		}
		return gocv.Blur(src, dst, image.Pt(s.SmoothParam1, s.SmoothParam2))
	case settings.SmoothGaussian:
		if !validGaussianAxis(s.SmoothParam1, s.SmoothParam3) || !validGaussianAxis(s.SmoothParam2, s.SmoothParam4) {
			return fmt.Errorf("invalid gaussian kernel %dx%d sigma %.2f/%.2f",
				s.SmoothParam1, s.SmoothParam2, s.SmoothParam3, s.SmoothParam4)
		}
		return gocv.GaussianBlur(src, dst, image.Pt(s.SmoothParam1, s.SmoothParam2),
			s.SmoothParam3, s.SmoothParam4, gocv.BorderDefault)
	case settings.SmoothMedian:
		if s.SmoothParam1 < 1 || s.SmoothParam1%2 == 0 {
			return fmt.Errorf("invalid median kernel %d", s.SmoothParam1)
		}
		gocv.MedianBlur(src, dst, s.SmoothParam1)
		return nil
	}
	return fmt.Errorf("unknown smoothing type %s", s.SmoothType)
}

// a Gaussian axis needs an odd positive size, or size 0 with a sigma
func validGaussianAxis(size int, sigma float64) bool {
	if size == 0 {
		return sigma > 0
	}
	return size > 0 && size%2 == 1 && sigma >= 0
}

func dilate(src gocv.Mat, dst *gocv.Mat, s settings.Settings) error {
	return morph(src, dst, gocv.MorphDilate, s.DilateIterations)
}

func erode(src gocv.Mat, dst *gocv.Mat, s settings.Settings) error {
	return morph(src, dst, gocv.MorphErode, s.ErodeIterations)
}

func morph(src gocv.Mat, dst *gocv.Mat, op gocv.MorphType, iterations int) error {
	kernel := gocv.GetStructuringElement(gocv.MorphRect, image.Pt(3, 3))
	defer kernel.Close()

	src.CopyTo(dst)
	for i := 0; i < iterations; i++ {
		temp := gocv.NewMat()
		if err := gocv.MorphologyEx(*dst, &temp, op, kernel); err != nil {
			temp.Close()
			return err
		}
		temp.CopyTo(dst)
		temp.Close()
	}
	return nil
}

func flip(src gocv.Mat, dst *gocv.Mat, s settings.Settings) error {
	gocv.Flip(src, dst, int(s.FlipCode))
	return nil
}

// canny runs edge detection on a grayscale copy. The gocv binding exposes
// only the two thresholds; aperture size and L2 gradient keep OpenCV's
// defaults (3, L1).
func canny(src gocv.Mat, dst *gocv.Mat, s settings.Settings) error {
	gray := gocv.NewMat()
	defer gray.Close()

	if err := toGray(src, &gray, s); err != nil {
		return err
	}

	gocv.Canny(gray, dst, float32(s.CannyThreshold1), float32(s.CannyThreshold2))
	return nil
}
