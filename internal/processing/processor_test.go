package processing

import (
	"image"
	"image/color"
	"testing"

	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"

	"image-processing-settings/internal/settings"
)

func newTestImage(t *testing.T) gocv.Mat {
	t.Helper()
	mat := gocv.NewMatWithSize(40, 60, gocv.MatTypeCV8UC3)
	mat.SetTo(gocv.NewScalar(20, 20, 20, 0))
	gocv.Rectangle(&mat, image.Rect(10, 10, 30, 25), color.RGBA{R: 255, G: 255, B: 255}, -1)
	return mat
}

func newTestProcessor(flags Flags) *Processor {
	logger, _ := logtest.NewNullLogger()
	return NewProcessor(flags, logger)
}

func TestProcessRejectsEmptyInput(t *testing.T) {
	p := newTestProcessor(Flags{Smooth: true})
	empty := gocv.NewMat()
	defer empty.Close()

	out, err := p.Process(empty)
	defer out.Close()

	assert.Error(t, err)
}

func TestProcessWithoutFlagsCopiesInput(t *testing.T) {
	p := newTestProcessor(Flags{})
	src := newTestImage(t)
	defer src.Close()

	out, err := p.Process(src)
	require.NoError(t, err)
	defer out.Close()

	assert.Equal(t, src.Rows(), out.Rows())
	assert.Equal(t, src.Cols(), out.Cols())
	assert.Equal(t, 3, out.Channels())
}

func TestProcessAllSteps(t *testing.T) {
	p := newTestProcessor(Flags{Grayscale: true, Smooth: true, Dilate: true, Erode: true, Flip: true, Canny: true})

	s := settings.Defaults()
	s.SmoothType = settings.SmoothGaussian
	s.SmoothParam1, s.SmoothParam2 = 5, 5
	s.DilateIterations, s.ErodeIterations = 2, 2
	s.FlipCode = settings.FlipBoth
	s.CannyThreshold1, s.CannyThreshold2 = 50, 150
	p.SettingsChanged(s)

	src := newTestImage(t)
	defer src.Close()

	out, err := p.Process(src)
	require.NoError(t, err)
	defer out.Close()

	assert.Equal(t, 40, out.Rows())
	assert.Equal(t, 60, out.Cols())
	assert.Equal(t, 1, out.Channels())
	assert.Equal(t, 3, src.Channels())
}

func TestProcessSmoothingModes(t *testing.T) {
	for _, mode := range settings.SmoothTypes() {
		t.Run(mode.String(), func(t *testing.T) {
			p := newTestProcessor(Flags{Smooth: true})
			s := settings.Defaults()
			s.SmoothType = mode
			p.SettingsChanged(s)

			src := newTestImage(t)
			defer src.Close()

			out, err := p.Process(src)
			require.NoError(t, err)
			defer out.Close()

			assert.Equal(t, 3, out.Channels())
		})
	}
}

func TestProcessFlipDirection(t *testing.T) {
	tests := []struct {
		code     settings.FlipCode
		row, col int
	}{
		{settings.FlipX, 3, 0},
		{settings.FlipY, 0, 5},
		{settings.FlipBoth, 3, 5},
	}

	for _, tt := range tests {
		t.Run(tt.code.String(), func(t *testing.T) {
			p := newTestProcessor(Flags{Flip: true})
			s := settings.Defaults()
			s.FlipCode = tt.code
			p.SettingsChanged(s)

			src := gocv.NewMatWithSize(4, 6, gocv.MatTypeCV8UC1)
			defer src.Close()
			src.SetTo(gocv.NewScalar(0, 0, 0, 0))
			src.SetUCharAt(0, 0, 255)

			out, err := p.Process(src)
			require.NoError(t, err)
			defer out.Close()

			assert.Equal(t, uint8(255), out.GetUCharAt(tt.row, tt.col))
			assert.Equal(t, uint8(0), out.GetUCharAt(0, 0))
			assert.Equal(t, uint8(255), src.GetUCharAt(0, 0))
		})
	}
}

func TestProcessRejectsInvalidKernel(t *testing.T) {
	p := newTestProcessor(Flags{Smooth: true})
	s := settings.Defaults()
	s.SmoothType = settings.SmoothMedian
	s.SmoothParam1 = 4
	p.SettingsChanged(s)

	src := newTestImage(t)
	defer src.Close()

	out, err := p.Process(src)
	defer out.Close()

	assert.ErrorContains(t, err, "smooth")
}

func TestSettingsAndFlagsTriggerOnChange(t *testing.T) {
	p := newTestProcessor(Flags{})
	calls := 0
	p.SetOnChange(func() { calls++ })

	var listener settings.Listener = p
	listener.SettingsChanged(settings.Defaults())
	p.SetFlags(Flags{Canny: true})

	assert.Equal(t, 2, calls)
	assert.True(t, p.Flags().Canny)
	assert.Equal(t, settings.Defaults(), p.Settings())
}

func TestValidGaussianAxis(t *testing.T) {
	assert.True(t, validGaussianAxis(3, 0))
	assert.True(t, validGaussianAxis(0, 1.5))
	assert.False(t, validGaussianAxis(0, 0))
	assert.False(t, validGaussianAxis(4, 0))
	assert.False(t, validGaussianAxis(-3, 0))
}
