// Parameter normalization applied before a draft is committed
package settings

import (
	"fmt"
)

// Severity distinguishes informational notes from warnings
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "info"
}

// Advisory describes one automatic correction made by Normalize
type Advisory struct {
	Severity Severity
	Title    string
	Message  string
	Fields   []string
}

const (
	titleParameterChanged = "Parameter Changed"
	titleAutoDefaults     = "Auto Default(s) Set"
	autoDefaultsSuffix    = "Automatically set to default values."
)

// Normalize corrects a draft in place of rejecting it. Odd kernel sizes are
// enforced first, then unset fields take their defaults, then the smoothing
// mode's zero-parameter rules are applied to the corrected values.
func Normalize(d Draft) (Draft, []Advisory) {
	var advisories []Advisory

	// Rule 1: kernel sizes must be odd. Negative values are left to the
	// input masks, which cannot produce them.
	for _, k := range []struct {
		index int
		text  *string
	}{
		{1, &d.SmoothParam1},
		{2, &d.SmoothParam2},
	} {
		v, ok := parseInt(*k.text)
		if !ok || v == 0 || v%2 != 0 {
			continue
		}
		v++
		*k.text = formatInt(v)
		advisories = append(advisories, Advisory{
			Severity: SeverityInfo,
			Title:    titleParameterChanged,
			Message: fmt.Sprintf("Smooth parameter %d must be an ODD number.\nAutomatically set to %d.",
				k.index, v),
			Fields: []string{fmt.Sprintf("SmoothParam%d", k.index)},
		})
	}

	// Rule 2: unset fields take their defaults, reported once
	var defaulted []string
	for _, f := range numericFields(&d) {
		if f.set(*f.text) {
			continue
		}
		*f.text = f.def
		defaulted = append(defaulted, f.name)
	}
	if len(defaulted) > 0 {
		advisories = append(advisories, Advisory{
			Severity: SeverityWarning,
			Title:    titleAutoDefaults,
			Message:  "One or more inputs empty.\n\n" + autoDefaultsSuffix,
			Fields:   defaulted,
		})
	}

	p1, _ := parseInt(d.SmoothParam1)
	p2, _ := parseInt(d.SmoothParam2)
	p3, _ := parseFloat(d.SmoothParam3)
	p4, _ := parseFloat(d.SmoothParam4)

	if d.SmoothType == SmoothGaussian {
		// Rule 3: a Gaussian kernel needs a size or a sigma on each axis
		if p1 == 0 && p3 == 0 {
			d.SmoothParam1 = formatInt(DefaultSmoothParam1)
			d.SmoothParam3 = formatFloat(DefaultSmoothParam3)
			advisories = append(advisories, zeroPairAdvisory(
				"Parameters 1 and 3 cannot BOTH be zero when the smoothing type is GAUSSIAN.",
				"SmoothParam1", "SmoothParam3"))
		}
		if p2 == 0 && p4 == 0 {
			d.SmoothParam2 = formatInt(DefaultSmoothParam2)
			d.SmoothParam4 = formatFloat(DefaultSmoothParam4)
			advisories = append(advisories, zeroPairAdvisory(
				"Parameters 2 and 4 cannot BOTH be zero when the smoothing type is GAUSSIAN.",
				"SmoothParam2", "SmoothParam4"))
		}
	} else if p1 == 0 || p2 == 0 {
		// Rule 4
		d.SmoothParam1 = formatInt(DefaultSmoothParam1)
		d.SmoothParam2 = formatInt(DefaultSmoothParam2)
		advisories = append(advisories, zeroPairAdvisory(
			"Parameters 1 or 2 cannot be zero for the current smoothing type.",
			"SmoothParam1", "SmoothParam2"))
	}

	return d, advisories
}

func zeroPairAdvisory(reason string, fields ...string) Advisory {
	return Advisory{
		Severity: SeverityWarning,
		Title:    titleAutoDefaults,
		Message:  reason + "\n\n" + autoDefaultsSuffix,
		Fields:   fields,
	}
}

type numericField struct {
	name string
	text *string
	def  string
	set  func(string) bool
}

func numericFields(d *Draft) []numericField {
	isInt := func(s string) bool {
		_, ok := parseInt(s)
		return ok
	}
	isFloat := func(s string) bool {
		_, ok := parseFloat(s)
		return ok
	}
	isAperture := func(s string) bool {
		v, ok := parseInt(s)
		return ok && (v == 3 || v == 5 || v == 7)
	}

	return []numericField{
		{"SmoothParam1", &d.SmoothParam1, formatInt(DefaultSmoothParam1), isInt},
		{"SmoothParam2", &d.SmoothParam2, formatInt(DefaultSmoothParam2), isInt},
		{"SmoothParam3", &d.SmoothParam3, formatFloat(DefaultSmoothParam3), isFloat},
		{"SmoothParam4", &d.SmoothParam4, formatFloat(DefaultSmoothParam4), isFloat},
		{"DilateIterations", &d.DilateIterations, formatInt(DefaultDilateIterations), isInt},
		{"ErodeIterations", &d.ErodeIterations, formatInt(DefaultErodeIterations), isInt},
		{"CannyThreshold1", &d.CannyThreshold1, formatFloat(DefaultCannyThreshold1), isFloat},
		{"CannyThreshold2", &d.CannyThreshold2, formatFloat(DefaultCannyThreshold2), isFloat},
		{"CannyApertureSize", &d.CannyApertureSize, formatInt(DefaultCannyApertureSize), isAperture},
	}
}
