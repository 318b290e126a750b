package settings

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeDefaultDraftIsUnchanged(t *testing.T) {
	d := DefaultDraft()

	got, advisories := Normalize(d)

	assert.Equal(t, d, got)
	assert.Empty(t, advisories)
	assert.Equal(t, Defaults(), got.Settings())
}

func TestNormalizeEvenKernelBecomesOdd(t *testing.T) {
	for _, mode := range SmoothTypes() {
		for v := 2; v <= 998; v += 2 {
			d := DefaultDraft()
			d.SmoothType = mode
			d.SmoothParam1 = strconv.Itoa(v)

			got, advisories := Normalize(d)

			require.Equal(t, strconv.Itoa(v+1), got.SmoothParam1, "mode %s value %d", mode, v)
			require.Len(t, advisories, 1)
			assert.Equal(t, SeverityInfo, advisories[0].Severity)
			assert.Equal(t, []string{"SmoothParam1"}, advisories[0].Fields)
		}
	}
}

func TestNormalizeOddnessMessageReportsNewValue(t *testing.T) {
	d := DefaultDraft()
	d.SmoothParam2 = "8"

	got, advisories := Normalize(d)

	assert.Equal(t, "9", got.SmoothParam2)
	require.Len(t, advisories, 1)
	assert.Equal(t, "Parameter Changed", advisories[0].Title)
	assert.Equal(t, "Smooth parameter 2 must be an ODD number.\nAutomatically set to 9.", advisories[0].Message)
}

func TestNormalizeBothKernelsEven(t *testing.T) {
	d := DefaultDraft()
	d.SmoothParam1 = "4"
	d.SmoothParam2 = "6"

	got, advisories := Normalize(d)

	assert.Equal(t, "5", got.SmoothParam1)
	assert.Equal(t, "7", got.SmoothParam2)
	assert.Len(t, advisories, 2)
}

func TestNormalizeLeavesNegativeKernelsToInputMasks(t *testing.T) {
	d := DefaultDraft()
	d.SmoothParam1 = "-4"
	d.SmoothParam2 = "-7"

	got, advisories := Normalize(d)

	assert.Equal(t, "-3", got.SmoothParam1)
	assert.Equal(t, "-7", got.SmoothParam2)
	require.Len(t, advisories, 1)
	assert.Equal(t, titleParameterChanged, advisories[0].Title)

	for _, mode := range SmoothTypes() {
		assert.False(t, FieldSmoothParam1.Spec(mode).Accepts("-4"), mode.String())
	}
}

func TestNormalizeUnsetFieldsTakeDefaults(t *testing.T) {
	tests := []struct {
		name  string
		set   func(*Draft)
		field func(Draft) string
		want  string
	}{
		{"smooth param 1", func(d *Draft) { d.SmoothParam1 = "" }, func(d Draft) string { return d.SmoothParam1 }, "3"},
		{"smooth param 2", func(d *Draft) { d.SmoothParam2 = " " }, func(d Draft) string { return d.SmoothParam2 }, "3"},
		{"smooth param 3", func(d *Draft) { d.SmoothParam3 = "" }, func(d Draft) string { return d.SmoothParam3 }, "0"},
		{"smooth param 4", func(d *Draft) { d.SmoothParam4 = "abc" }, func(d Draft) string { return d.SmoothParam4 }, "0"},
		{"dilate", func(d *Draft) { d.DilateIterations = "" }, func(d Draft) string { return d.DilateIterations }, "1"},
		{"erode", func(d *Draft) { d.ErodeIterations = "" }, func(d Draft) string { return d.ErodeIterations }, "1"},
		{"canny threshold 1", func(d *Draft) { d.CannyThreshold1 = "" }, func(d Draft) string { return d.CannyThreshold1 }, "0"},
		{"canny threshold 2", func(d *Draft) { d.CannyThreshold2 = "NaN" }, func(d Draft) string { return d.CannyThreshold2 }, "0"},
		{"aperture empty", func(d *Draft) { d.CannyApertureSize = "" }, func(d Draft) string { return d.CannyApertureSize }, "3"},
		{"aperture outside set", func(d *Draft) { d.CannyApertureSize = "4" }, func(d Draft) string { return d.CannyApertureSize }, "3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := DefaultDraft()
			tt.set(&d)

			got, advisories := Normalize(d)

			assert.Equal(t, tt.want, tt.field(got))
			require.Len(t, advisories, 1)
			assert.Equal(t, SeverityWarning, advisories[0].Severity)
			assert.Equal(t, "Auto Default(s) Set", advisories[0].Title)
		})
	}
}

func TestNormalizeAggregatesDefaultedFields(t *testing.T) {
	got, advisories := Normalize(Draft{})

	require.Len(t, advisories, 1)
	assert.Equal(t, []string{
		"SmoothParam1", "SmoothParam2", "SmoothParam3", "SmoothParam4",
		"DilateIterations", "ErodeIterations",
		"CannyThreshold1", "CannyThreshold2", "CannyApertureSize",
	}, advisories[0].Fields)
	assert.Equal(t, Defaults(), got.Settings())
}

func TestNormalizeGaussianZeroPairs(t *testing.T) {
	t.Run("params 1 and 3", func(t *testing.T) {
		d := DefaultDraft()
		d.SmoothType = SmoothGaussian
		d.SmoothParam1 = "0"
		d.SmoothParam3 = "0"
		d.SmoothParam4 = "1.5"

		got, advisories := Normalize(d)

		assert.Equal(t, "3", got.SmoothParam1)
		assert.Equal(t, "0", got.SmoothParam3)
		require.Len(t, advisories, 1)
		assert.Equal(t, []string{"SmoothParam1", "SmoothParam3"}, advisories[0].Fields)
	})

	t.Run("params 2 and 4", func(t *testing.T) {
		d := DefaultDraft()
		d.SmoothType = SmoothGaussian
		d.SmoothParam2 = "0"
		d.SmoothParam4 = "0.00"

		got, advisories := Normalize(d)

		assert.Equal(t, "3", got.SmoothParam2)
		assert.Equal(t, "0", got.SmoothParam4)
		require.Len(t, advisories, 1)
		assert.Equal(t, []string{"SmoothParam2", "SmoothParam4"}, advisories[0].Fields)
	})

	t.Run("sigma alone is enough", func(t *testing.T) {
		d := DefaultDraft()
		d.SmoothType = SmoothGaussian
		d.SmoothParam1 = "0"
		d.SmoothParam2 = "0"
		d.SmoothParam3 = "1.2"
		d.SmoothParam4 = "0.8"

		got, advisories := Normalize(d)

		assert.Equal(t, d, got)
		assert.Empty(t, advisories)
	})
}

func TestNormalizeNonGaussianZeroKernel(t *testing.T) {
	for _, mode := range []SmoothType{SmoothBlur, SmoothMedian} {
		t.Run(mode.String(), func(t *testing.T) {
			d := DefaultDraft()
			d.SmoothType = mode
			d.SmoothParam1 = "0"
			d.SmoothParam2 = "7"

			got, advisories := Normalize(d)

			assert.Equal(t, "3", got.SmoothParam1)
			assert.Equal(t, "3", got.SmoothParam2)
			require.Len(t, advisories, 1)
			assert.Equal(t, "Parameters 1 or 2 cannot be zero for the current smoothing type.\n\nAutomatically set to default values.",
				advisories[0].Message)
		})
	}
}

func TestNormalizeRulesSeeCorrectedValues(t *testing.T) {
	// an empty kernel is defaulted before the zero check runs, so only the
	// aggregated advisory is raised
	d := DefaultDraft()
	d.SmoothParam1 = ""

	_, advisories := Normalize(d)

	require.Len(t, advisories, 1)
	assert.Equal(t, []string{"SmoothParam1"}, advisories[0].Fields)
}

func TestNormalizeIsIdempotent(t *testing.T) {
	drafts := []Draft{
		{},
		DefaultDraft(),
		{SmoothType: SmoothGaussian, SmoothParam1: "0", SmoothParam2: "4", SmoothParam3: "0", SmoothParam4: "", CannyApertureSize: "9"},
		{SmoothType: SmoothMedian, SmoothParam1: "12", SmoothParam2: "0", DilateIterations: "x", FlipCode: FlipBoth},
		{SmoothType: SmoothBlur, SmoothParam1: " 998 ", SmoothParam2: "1", SmoothParam3: "1e400", CannyThreshold1: "100", CannyThreshold2: "200", CannyL2Gradient: true},
	}

	for i, d := range drafts {
		once, _ := Normalize(d)
		twice, advisories := Normalize(once)

		assert.Equal(t, once, twice, "draft %d", i)
		assert.Empty(t, advisories, "draft %d", i)
	}
}

func TestDraftRoundTrip(t *testing.T) {
	s := Settings{
		SmoothType:        SmoothGaussian,
		SmoothParam1:      5,
		SmoothParam2:      7,
		SmoothParam3:      1.25,
		SmoothParam4:      0.5,
		DilateIterations:  4,
		ErodeIterations:   2,
		FlipCode:          FlipBoth,
		CannyThreshold1:   50,
		CannyThreshold2:   150,
		CannyApertureSize: 5,
		CannyL2Gradient:   true,
	}

	assert.Equal(t, s, FromSettings(s).Settings())
}

func TestDraftSectionResets(t *testing.T) {
	d := Draft{
		SmoothType:        SmoothMedian,
		SmoothParam1:      "9",
		SmoothParam2:      "9",
		SmoothParam3:      "2",
		SmoothParam4:      "2",
		DilateIterations:  "5",
		ErodeIterations:   "6",
		FlipCode:          FlipY,
		CannyThreshold1:   "10",
		CannyThreshold2:   "20",
		CannyApertureSize: "7",
		CannyL2Gradient:   true,
	}

	d.ResetDilate()
	assert.Equal(t, "1", d.DilateIterations)
	assert.Equal(t, "6", d.ErodeIterations)

	d.ResetSmooth()
	assert.Equal(t, SmoothBlur, d.SmoothType)
	assert.Equal(t, "3", d.SmoothParam1)
	assert.Equal(t, FlipY, d.FlipCode)

	d.ResetCanny()
	assert.Equal(t, "3", d.CannyApertureSize)
	assert.False(t, d.CannyL2Gradient)

	d.ResetAll()
	assert.Equal(t, DefaultDraft(), d)
}

func TestParseNames(t *testing.T) {
	st, ok := ParseSmoothType("gaussian")
	assert.True(t, ok)
	assert.Equal(t, SmoothGaussian, st)

	_, ok = ParseSmoothType("bilateral")
	assert.False(t, ok)

	fc, ok := ParseFlipCode("Both axes")
	assert.True(t, ok)
	assert.Equal(t, FlipBoth, fc)
}
