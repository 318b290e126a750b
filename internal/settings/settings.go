// Image processing settings record and its documented defaults
package settings

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// SmoothType selects the smoothing algorithm
type SmoothType int

const (
	SmoothBlur SmoothType = iota
	SmoothGaussian
	SmoothMedian
)

func (st SmoothType) String() string {
	switch st {
	case SmoothBlur:
		return "Blur"
	case SmoothGaussian:
		return "Gaussian"
	case SmoothMedian:
		return "Median"
	}
	return fmt.Sprintf("SmoothType(%d)", int(st))
}

// SmoothTypes lists the smoothing modes in display order
func SmoothTypes() []SmoothType {
	return []SmoothType{SmoothBlur, SmoothGaussian, SmoothMedian}
}

// ParseSmoothType maps a display name back to its mode
func ParseSmoothType(name string) (SmoothType, bool) {
	for _, st := range SmoothTypes() {
		if strings.EqualFold(st.String(), name) {
			return st, true
		}
	}
	return SmoothBlur, false
}

// FlipCode uses the OpenCV flip code values
type FlipCode int

const (
	FlipX    FlipCode = 0
	FlipY    FlipCode = 1
	FlipBoth FlipCode = -1
)

func (fc FlipCode) String() string {
	switch fc {
	case FlipX:
		return "X-axis"
	case FlipY:
		return "Y-axis"
	case FlipBoth:
		return "Both axes"
	}
	return fmt.Sprintf("FlipCode(%d)", int(fc))
}

// FlipCodes lists the flip modes in display order
func FlipCodes() []FlipCode {
	return []FlipCode{FlipX, FlipY, FlipBoth}
}

// ParseFlipCode maps a display name back to its flip code
func ParseFlipCode(name string) (FlipCode, bool) {
	for _, fc := range FlipCodes() {
		if strings.EqualFold(fc.String(), name) {
			return fc, true
		}
	}
	return FlipX, false
}

const (
	DefaultSmoothType        = SmoothBlur
	DefaultSmoothParam1      = 3
	DefaultSmoothParam2      = 3
	DefaultSmoothParam3      = 0.0
	DefaultSmoothParam4      = 0.0
	DefaultDilateIterations  = 1
	DefaultErodeIterations   = 1
	DefaultFlipCode          = FlipX
	DefaultCannyThreshold1   = 0.0
	DefaultCannyThreshold2   = 0.0
	DefaultCannyApertureSize = 3
	DefaultCannyL2Gradient   = false
)

// Settings is the committed record handed to processing consumers
type Settings struct {
	SmoothType   SmoothType
	SmoothParam1 int
	SmoothParam2 int
	SmoothParam3 float64
	SmoothParam4 float64

	DilateIterations int
	ErodeIterations  int

	FlipCode FlipCode

	CannyThreshold1   float64
	CannyThreshold2   float64
	CannyApertureSize int
	CannyL2Gradient   bool
}

// Defaults returns a record populated with the documented defaults
func Defaults() Settings {
	return Settings{
		SmoothType:        DefaultSmoothType,
		SmoothParam1:      DefaultSmoothParam1,
		SmoothParam2:      DefaultSmoothParam2,
		SmoothParam3:      DefaultSmoothParam3,
		SmoothParam4:      DefaultSmoothParam4,
		DilateIterations:  DefaultDilateIterations,
		ErodeIterations:   DefaultErodeIterations,
		FlipCode:          DefaultFlipCode,
		CannyThreshold1:   DefaultCannyThreshold1,
		CannyThreshold2:   DefaultCannyThreshold2,
		CannyApertureSize: DefaultCannyApertureSize,
		CannyL2Gradient:   DefaultCannyL2Gradient,
	}
}

// Draft holds the raw form state. Numeric fields keep the text as typed.
type Draft struct {
	SmoothType   SmoothType
	SmoothParam1 string
	SmoothParam2 string
	SmoothParam3 string
	SmoothParam4 string

	DilateIterations string
	ErodeIterations  string

	FlipCode FlipCode

	CannyThreshold1   string
	CannyThreshold2   string
	CannyApertureSize string
	CannyL2Gradient   bool
}

// FromSettings renders a record into form text
func FromSettings(s Settings) Draft {
	return Draft{
		SmoothType:        s.SmoothType,
		SmoothParam1:      formatInt(s.SmoothParam1),
		SmoothParam2:      formatInt(s.SmoothParam2),
		SmoothParam3:      formatFloat(s.SmoothParam3),
		SmoothParam4:      formatFloat(s.SmoothParam4),
		DilateIterations:  formatInt(s.DilateIterations),
		ErodeIterations:   formatInt(s.ErodeIterations),
		FlipCode:          s.FlipCode,
		CannyThreshold1:   formatFloat(s.CannyThreshold1),
		CannyThreshold2:   formatFloat(s.CannyThreshold2),
		CannyApertureSize: formatInt(s.CannyApertureSize),
		CannyL2Gradient:   s.CannyL2Gradient,
	}
}

// DefaultDraft is the form state produced by "Reset All"
func DefaultDraft() Draft {
	return FromSettings(Defaults())
}

// Settings converts the draft into a typed record. Fields that do not parse
// fall back to their defaults, so a draft returned by Normalize converts
// without loss.
func (d Draft) Settings() Settings {
	return Settings{
		SmoothType:        d.SmoothType,
		SmoothParam1:      intOr(d.SmoothParam1, DefaultSmoothParam1),
		SmoothParam2:      intOr(d.SmoothParam2, DefaultSmoothParam2),
		SmoothParam3:      floatOr(d.SmoothParam3, DefaultSmoothParam3),
		SmoothParam4:      floatOr(d.SmoothParam4, DefaultSmoothParam4),
		DilateIterations:  intOr(d.DilateIterations, DefaultDilateIterations),
		ErodeIterations:   intOr(d.ErodeIterations, DefaultErodeIterations),
		FlipCode:          d.FlipCode,
		CannyThreshold1:   floatOr(d.CannyThreshold1, DefaultCannyThreshold1),
		CannyThreshold2:   floatOr(d.CannyThreshold2, DefaultCannyThreshold2),
		CannyApertureSize: intOr(d.CannyApertureSize, DefaultCannyApertureSize),
		CannyL2Gradient:   d.CannyL2Gradient,
	}
}

// ResetSmooth restores the smoothing section
func (d *Draft) ResetSmooth() {
	def := DefaultDraft()
	d.SmoothType = def.SmoothType
	d.SmoothParam1 = def.SmoothParam1
	d.SmoothParam2 = def.SmoothParam2
	d.SmoothParam3 = def.SmoothParam3
	d.SmoothParam4 = def.SmoothParam4
}

// ResetDilate restores the dilation section
func (d *Draft) ResetDilate() {
	d.DilateIterations = formatInt(DefaultDilateIterations)
}

// ResetErode restores the erosion section
func (d *Draft) ResetErode() {
	d.ErodeIterations = formatInt(DefaultErodeIterations)
}

// ResetFlip restores the flip section
func (d *Draft) ResetFlip() {
	d.FlipCode = DefaultFlipCode
}

// ResetCanny restores the edge detection section
func (d *Draft) ResetCanny() {
	def := DefaultDraft()
	d.CannyThreshold1 = def.CannyThreshold1
	d.CannyThreshold2 = def.CannyThreshold2
	d.CannyApertureSize = def.CannyApertureSize
	d.CannyL2Gradient = def.CannyL2Gradient
}

// ResetAll restores every section
func (d *Draft) ResetAll() {
	d.ResetSmooth()
	d.ResetDilate()
	d.ResetErode()
	d.ResetFlip()
	d.ResetCanny()
}

func formatInt(v int) string {
	return strconv.Itoa(v)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func parseInt(s string) (int, bool) {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	return v, true
}

func parseFloat(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func intOr(s string, def int) int {
	if v, ok := parseInt(s); ok {
		return v
	}
	return def
}

func floatOr(s string, def float64) float64 {
	if v, ok := parseFloat(s); ok {
		return v
	}
	return def
}
