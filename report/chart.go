// Package report renders read-only diagnostics off a quantizer.Result; it is
// never called by the core and exists for tooling (the CLI's -report flag).
package report

import (
	"fmt"

	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgsvg"

	"github.com/mogaika/animquant/format"
	"github.com/mogaika/animquant/quantizer"
)

// BitRateChart renders a per-bone bar chart of the final rotation and
// translation bit rates a quantization run settled on, and returns it as
// SVG bytes. Each series (rotation, translation) gets one color, from red
// (lowest precision) to green (highest), set by its average valid bit rate.
func BitRateChart(result quantizer.Result, boneNames []string) ([]byte, error) {
	numBones := len(result.FinalRotationBitRates)
	if len(boneNames) != numBones {
		return nil, errors.Errorf("report.BitRateChart: %d bone names for %d bones", len(boneNames), numBones)
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("final bit rates (achieved error %.6f, %d iterations)", result.AchievedError, result.Iterations)
	p.Y.Label.Text = "bit rate"
	p.NominalX(boneNames...)

	rotValues := make(plotter.Values, numBones)
	transValues := make(plotter.Values, numBones)
	for i := 0; i < numBones; i++ {
		rotValues[i] = bitRateValue(result.FinalRotationBitRates[i])
		transValues[i] = bitRateValue(result.FinalTranslationBitRates[i])
	}

	width := vg.Points(12)

	rotBars, err := plotter.NewBarChart(rotValues, width)
	if err != nil {
		return nil, errors.Wrap(err, "report.BitRateChart: rotation bars")
	}
	rotBars.Color = averageColor(result.FinalRotationBitRates)
	rotBars.Offset = -width / 2

	transBars, err := plotter.NewBarChart(transValues, width)
	if err != nil {
		return nil, errors.Wrap(err, "report.BitRateChart: translation bars")
	}
	transBars.Color = averageColor(result.FinalTranslationBitRates)
	transBars.Offset = width / 2

	p.Add(rotBars, transBars)
	p.Legend.Add("rotation", rotBars)
	p.Legend.Add("translation", transBars)
	p.Legend.Top = true

	canvas := vgsvg.New(vg.Points(float64(numBones)*28+120), vg.Points(300))
	p.Draw(draw.New(canvas))

	var buf []byte
	w := &sliceWriter{buf: &buf}
	if _, err := canvas.WriteTo(w); err != nil {
		return nil, errors.Wrap(err, "report.BitRateChart: rendering svg")
	}
	return buf, nil
}

func bitRateValue(r format.BitRate) float64 {
	if !r.IsValid() {
		return 0
	}
	return float64(r)
}

// averageColor summarizes a set of bit rates (some InvalidBitRate, for
// default/fixed-format/constant bones) as a single red-to-green gradient
// color, fraction of the way from LowestBitRate to HighestBitRate.
func averageColor(rates []format.BitRate) ColorFloat {
	var sum float64
	var n int
	for _, r := range rates {
		if !r.IsValid() {
			continue
		}
		sum += float64(r)
		n++
	}
	if n == 0 {
		return bitRateColor(0)
	}
	avg := sum / float64(n)
	span := float64(format.HighestBitRate - format.LowestBitRate)
	if span <= 0 {
		return bitRateColor(0)
	}
	return bitRateColor(float32(avg / span))
}

type sliceWriter struct {
	buf *[]byte
}

func (w *sliceWriter) Write(p []byte) (int, error) {
	*w.buf = append(*w.buf, p...)
	return len(p), nil
}
