// Per-field input rules used by form editors
package settings

import "regexp"

// Field identifies an editable numeric field of the draft
type Field int

const (
	FieldSmoothParam1 Field = iota
	FieldSmoothParam2
	FieldSmoothParam3
	FieldSmoothParam4
	FieldDilateIterations
	FieldErodeIterations
	FieldCannyThreshold1
	FieldCannyThreshold2
	FieldCannyApertureSize
)

// FieldSpec describes how a field is presented and which text it accepts.
// Patterns match partial input too, so an editor can reject a keystroke
// without blocking the user from clearing the field.
type FieldSpec struct {
	Label      string
	RangeLabel string
	Enabled    bool
	pattern    *regexp.Regexp
}

// Accepts reports whether text is a valid (possibly partial) entry
func (fs FieldSpec) Accepts(text string) bool {
	return fs.pattern == nil || fs.pattern.MatchString(text)
}

var (
	int1to999   = regexp.MustCompile(`^([1-9]\d{0,2})?$`)
	int0to99    = regexp.MustCompile(`^(\d{1,2})?$`)
	int1to99    = regexp.MustCompile(`^([1-9]\d?)?$`)
	int0to999   = regexp.MustCompile(`^(\d{1,3})?$`)
	float0to99  = regexp.MustCompile(`^(\d{0,2}(\.\d{0,2})?)?$`)
	apertureSet = regexp.MustCompile(`^[357]?$`)
	anyNumber   = regexp.MustCompile(`^-?\d*(\.\d*)?$`)
)

// Spec returns the presentation and input rule of a field under the given
// smoothing mode
func (f Field) Spec(mode SmoothType) FieldSpec {
	switch f {
	case FieldSmoothParam1, FieldSmoothParam2, FieldSmoothParam3, FieldSmoothParam4:
		return smoothSpec(f, mode)
	case FieldDilateIterations, FieldErodeIterations:
		return FieldSpec{Label: "Iterations", RangeLabel: "[1-999]", Enabled: true, pattern: int1to999}
	case FieldCannyThreshold1:
		return FieldSpec{Label: "Threshold 1", RangeLabel: "[0-999]", Enabled: true, pattern: int0to999}
	case FieldCannyThreshold2:
		return FieldSpec{Label: "Threshold 2", RangeLabel: "[0-999]", Enabled: true, pattern: int0to999}
	case FieldCannyApertureSize:
		return FieldSpec{Label: "Aperture Size", RangeLabel: "[3,5,7]", Enabled: true, pattern: apertureSet}
	}
	return FieldSpec{pattern: anyNumber}
}

func smoothSpec(f Field, mode SmoothType) FieldSpec {
	disabled := FieldSpec{pattern: anyNumber}

	switch mode {
	case SmoothBlur:
		switch f {
		case FieldSmoothParam1:
			return FieldSpec{Label: "Kernel Width", RangeLabel: "[1-999]", Enabled: true, pattern: int1to999}
		case FieldSmoothParam2:
			return FieldSpec{Label: "Kernel Height", RangeLabel: "[1-999]", Enabled: true, pattern: int1to999}
		}
	case SmoothGaussian:
		switch f {
		case FieldSmoothParam1:
			return FieldSpec{Label: "Kernel Width", RangeLabel: "[0-99]", Enabled: true, pattern: int0to99}
		case FieldSmoothParam2:
			return FieldSpec{Label: "Kernel Height", RangeLabel: "[0-99]", Enabled: true, pattern: int0to99}
		case FieldSmoothParam3:
			return FieldSpec{Label: "Sigma X", RangeLabel: "[0.00-99.99]", Enabled: true, pattern: float0to99}
		case FieldSmoothParam4:
			return FieldSpec{Label: "Sigma Y", RangeLabel: "[0.00-99.99]", Enabled: true, pattern: float0to99}
		}
	case SmoothMedian:
		if f == FieldSmoothParam1 {
			return FieldSpec{Label: "Kernel (Square)", RangeLabel: "[1-99]", Enabled: true, pattern: int1to99}
		}
	}
	return disabled
}
