// Package visualize renders partition reports with gonum/plot.
package visualize

import (
	"fmt"
	"path/filepath"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/YuminosukeSato/scigo-fl/federated"
	"github.com/YuminosukeSato/scigo-fl/pkg/errors"
)

const barWidth = 12

// ClassCounts returns, for each partition, how many rows carry each label in
// 0..nClasses-1. Labels outside that range are an error.
func ClassCounts(parts federated.XYList, nClasses int) ([][]float64, error) {
	if nClasses <= 0 {
		return nil, errors.NewValidationError("n_classes", "must be positive", nClasses)
	}

	counts := make([][]float64, len(parts))
	for p, part := range parts {
		counts[p] = make([]float64, nClasses)
		for i := 0; i < part.Rows(); i++ {
			label := int(part.Y.AtVec(i))
			if label < 0 || label >= nClasses {
				return nil, errors.NewValidationError("label", "outside 0..n_classes-1", label)
			}
			counts[p][label]++
		}
	}
	return counts, nil
}

// PartitionSizesChart draws one bar per partition with its row count.
func PartitionSizesChart(sizes []int, title string) (*plot.Plot, error) {
	if len(sizes) == 0 {
		return nil, errors.NewModelError("PartitionSizesChart", "empty data", errors.ErrEmptyData)
	}

	values := make(plotter.Values, len(sizes))
	for i, s := range sizes {
		values[i] = float64(s)
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "participant"
	p.Y.Label.Text = "rows"

	bars, err := plotter.NewBarChart(values, vg.Points(barWidth))
	if err != nil {
		return nil, errors.Wrap(err, "failed to build bar chart")
	}
	bars.Color = plotutil.Color(0)
	p.Add(bars)
	p.NominalX(participantNames(len(sizes))...)
	return p, nil
}

// ClassCoverageChart draws, per partition, how many distinct classes it
// holds out of the total, which shows how non-IID a split is.
func ClassCoverageChart(counts [][]float64, title string) (*plot.Plot, error) {
	if len(counts) == 0 {
		return nil, errors.NewModelError("ClassCoverageChart", "empty data", errors.ErrEmptyData)
	}

	coverage := make(plotter.Values, len(counts))
	rows := make(plotter.Values, len(counts))
	for p, c := range counts {
		for _, n := range c {
			if n > 0 {
				coverage[p]++
			}
		}
		rows[p] = floats.Sum(c)
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "participant"
	p.Y.Label.Text = "count"

	w := vg.Points(barWidth)
	classBars, err := plotter.NewBarChart(coverage, w)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build bar chart")
	}
	classBars.Color = plotutil.Color(0)
	classBars.Offset = -w / 2

	rowBars, err := plotter.NewBarChart(rows, w)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build bar chart")
	}
	rowBars.Color = plotutil.Color(1)
	rowBars.Offset = w / 2

	p.Add(classBars, rowBars)
	p.Legend.Add("classes", classBars)
	p.Legend.Add("rows", rowBars)
	p.Legend.Top = true
	p.NominalX(participantNames(len(counts))...)
	return p, nil
}

// SavePNG writes p to path. The size is given in centimetres.
func SavePNG(p *plot.Plot, path string, widthCm, heightCm float64) error {
	if filepath.Ext(path) != ".png" {
		return errors.NewValidationError("path", "must end in .png", path)
	}
	if err := p.Save(vg.Length(widthCm)*vg.Centimeter, vg.Length(heightCm)*vg.Centimeter, path); err != nil {
		return errors.Wrapf(err, "failed to save plot to %s", path)
	}
	return nil
}

func participantNames(n int) []string {
	names := make([]string, n)
	for i := range names {
		names[i] = fmt.Sprintf("P%d", i)
	}
	return names
}
