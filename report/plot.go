package report

import (
	"fmt"
	"os"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/dhanaBhai/unposted/logging"
)

// WritePlot renders a two-panel correlation scatter of the report: valence
// against mean F0 on top, valence against mean RMS below. Reports without
// sentences are skipped with a warning instead of producing an empty image.
func WritePlot(rep *Report, path string) error {
	if len(rep.Sentences) == 0 {
		logging.Warn("Skipping plot, report has no sentences", logging.Fields{
			"path": path,
		})
		return nil
	}

	valences := make([]float64, 0, len(rep.Sentences))
	f0s := make([]float64, 0, len(rep.Sentences))
	rmss := make([]float64, 0, len(rep.Sentences))
	for _, rec := range rep.Sentences {
		valences = append(valences, rec.Valence)
		f0s = append(f0s, rec.Features.MeanF0)
		rmss = append(rmss, rec.Features.MeanRMS)
	}

	return writeCorrelationPlot(valences, f0s, rmss, path)
}

// writeCorrelationPlot draws valence-vs-F0 and valence-vs-RMS scatter panels.
// Mismatched series lengths skip the plot with a warning rather than failing
// the run.
func writeCorrelationPlot(valences, f0s, rmss []float64, path string) error {
	if len(f0s) != len(valences) || len(rmss) != len(valences) {
		logging.Warn("Skipping plot, series lengths differ", logging.Fields{
			"valences": len(valences),
			"f0s":      len(f0s),
			"rmss":     len(rmss),
		})
		return nil
	}

	f0Plot := plot.New()
	f0Plot.Title.Text = "Valence vs mean F0"
	f0Plot.X.Label.Text = "Valence"
	f0Plot.Y.Label.Text = "Mean F0 (Hz)"

	rmsPlot := plot.New()
	rmsPlot.Title.Text = "Valence vs mean RMS"
	rmsPlot.X.Label.Text = "Valence"
	rmsPlot.Y.Label.Text = "Mean RMS"

	f0Points := make(plotter.XYs, 0, len(valences))
	rmsPoints := make(plotter.XYs, 0, len(valences))
	for i, v := range valences {
		if f0s[i] > 0 {
			f0Points = append(f0Points, plotter.XY{X: v, Y: f0s[i]})
		}
		rmsPoints = append(rmsPoints, plotter.XY{X: v, Y: rmss[i]})
	}

	f0Scatter, err := plotter.NewScatter(f0Points)
	if err != nil {
		return fmt.Errorf("failed to build F0 scatter: %w", err)
	}
	f0Plot.Add(f0Scatter)

	rmsScatter, err := plotter.NewScatter(rmsPoints)
	if err != nil {
		return fmt.Errorf("failed to build RMS scatter: %w", err)
	}
	rmsPlot.Add(rmsScatter)

	img := vgimg.New(8*vg.Inch, 8*vg.Inch)
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows: 2,
		Cols: 1,
		PadX: vg.Millimeter * 2,
		PadY: vg.Millimeter * 2,
	}

	plots := [][]*plot.Plot{{f0Plot}, {rmsPlot}}
	canvases := plot.Align(plots, tiles, dc)
	f0Plot.Draw(canvases[0][0])
	rmsPlot.Draw(canvases[1][0])

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create plot file: %w", err)
	}
	defer file.Close()

	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(file); err != nil {
		return fmt.Errorf("failed to write plot: %w", err)
	}

	logging.Info("Wrote plot", logging.Fields{"path": path})
	return nil
}
