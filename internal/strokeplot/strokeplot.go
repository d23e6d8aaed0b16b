// Package strokeplot renders a classified stroke to an image for offline
// inspection: the samples, the start to end chord and any detected corners.
package strokeplot

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/banshee-data/shapecast/internal/capture"
	"github.com/banshee-data/shapecast/internal/monitoring"
	"github.com/banshee-data/shapecast/internal/shape"
	"github.com/banshee-data/shapecast/internal/stroke"
)

var logf = monitoring.Tagged("strokeplot")

var (
	strokeColor = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	chordColor  = color.RGBA{R: 127, G: 127, B: 127, A: 255}
	cornerColor = color.RGBA{R: 214, G: 39, B: 40, A: 255}
)

// Render builds a plot of s annotated with the features in res.
func Render(s stroke.Stroke, res shape.Result) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s (%d points, deviation %.3f)",
		res.Label, res.Features.PointCount, res.Features.MaxDeviation)
	p.X.Label.Text = "X"
	p.Y.Label.Text = "Y"
	p.Add(plotter.NewGrid())

	if len(s) == 0 {
		return p, nil
	}

	pts := toXYs(s)
	line, scatter, err := plotter.NewLinePoints(pts)
	if err != nil {
		return nil, fmt.Errorf("stroke line: %w", err)
	}
	line.Color = strokeColor
	line.Width = vg.Points(1.5)
	scatter.Color = strokeColor
	scatter.Radius = vg.Points(1.5)
	p.Add(line, scatter)
	p.Legend.Add("stroke", line)

	if len(s) >= 2 {
		chord, err := plotter.NewLine(plotter.XYs{pts[0], pts[len(pts)-1]})
		if err != nil {
			return nil, fmt.Errorf("chord line: %w", err)
		}
		chord.Color = chordColor
		chord.Width = vg.Points(1)
		chord.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
		p.Add(chord)
		p.Legend.Add("chord", chord)
	}

	if len(res.Features.Corners) > 0 {
		cs := make(plotter.XYs, 0, len(res.Features.Corners))
		for _, i := range res.Features.Corners {
			if i >= 0 && i < len(pts) {
				cs = append(cs, pts[i])
			}
		}
		corners, err := plotter.NewScatter(cs)
		if err != nil {
			return nil, fmt.Errorf("corner scatter: %w", err)
		}
		corners.Color = cornerColor
		corners.Shape = draw.CrossGlyph{}
		corners.Radius = vg.Points(5)
		p.Add(corners)
		p.Legend.Add("corner", corners)
	}

	// Equal-ish framing so slopes read correctly.
	b := s.Bounds()
	pad := 0.1 * max(b.Max.X-b.Min.X, b.Max.Y-b.Min.Y, 1)
	p.X.Min, p.X.Max = b.Min.X-pad, b.Max.X+pad
	p.Y.Min, p.Y.Max = b.Min.Y-pad, b.Max.Y+pad
	return p, nil
}

func toXYs(s stroke.Stroke) plotter.XYs {
	pts := make(plotter.XYs, len(s))
	for i, p := range s {
		pts[i] = plotter.XY{X: p.X, Y: p.Y}
	}
	return pts
}

// Plotter writes one PNG per gesture into a directory. It implements
// capture.GestureObserver.
type Plotter struct {
	outputDir  string
	classifier *shape.Classifier
	written    []string
	seq        int
}

// NewPlotter creates the output directory if needed. Features are measured
// with classifier; nil uses the default thresholds.
func NewPlotter(outputDir string, classifier *shape.Classifier) (*Plotter, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create plot directory: %w", err)
	}
	if classifier == nil {
		classifier = shape.NewClassifier()
	}
	return &Plotter{outputDir: outputDir, classifier: classifier}, nil
}

// Save renders s and writes it to <dir>/<name>.png, returning the path.
func (pl *Plotter) Save(name string, s stroke.Stroke) (string, error) {
	p, err := Render(s, pl.classifier.Analyze(s))
	if err != nil {
		return "", err
	}
	file := filepath.Join(pl.outputDir, name+".png")
	if err := p.Save(6*vg.Inch, 6*vg.Inch, file); err != nil {
		return "", fmt.Errorf("save plot %s: %w", file, err)
	}
	pl.written = append(pl.written, file)
	return file, nil
}

// OnGesture plots a completed gesture. Files are numbered in arrival order,
// so gestures sharing a frame number or label never collide. Failures are
// logged.
func (pl *Plotter) OnGesture(r capture.Result) {
	pl.seq++
	name := fmt.Sprintf("gesture_%04d_%s", pl.seq, r.Label)
	if _, err := pl.Save(name, r.Stroke); err != nil {
		logf("gesture %s: %v", r.GestureID, err)
	}
}

// Written lists the files saved so far.
func (pl *Plotter) Written() []string {
	return append([]string(nil), pl.written...)
}
