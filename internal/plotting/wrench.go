// Package plotting renders computed wrenches to PNG files for visual
// inspection of a trial.
package plotting

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/forceplate/internal/wrench"
)

// axisNames label the three columns of a component.
var axisNames = [3]string{"X", "Y", "Z"}

// RenderWrenches writes two plots per wrench into dir: the force
// components against the frame index ("<label>_force.png") and the
// trajectory of the position in the surface plane ("<label>_position.png").
// Frames whose position residual is negative are left out of the
// trajectory. Returns the number of files written.
func RenderWrenches(dir string, ws *wrench.Collection) (int, error) {
	if dir == "" {
		return 0, fmt.Errorf("no output directory configured")
	}
	if ws == nil || ws.Len() == 0 {
		return 0, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return 0, fmt.Errorf("failed to create output dir: %w", err)
	}

	count := 0
	for i, w := range ws.Items() {
		label := fileLabel(w.Label)
		if label == "" {
			label = fmt.Sprintf("wrench%d", i+1)
		}
		if err := renderForce(dir, label, w); err != nil {
			return count, fmt.Errorf("%s: %w", label, err)
		}
		count++
		if err := renderPosition(dir, label, w); err != nil {
			return count, fmt.Errorf("%s: %w", label, err)
		}
		count++
	}
	return count, nil
}

func renderForce(dir, label string, w *wrench.Wrench) error {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s - Force", label)
	p.X.Label.Text = "Frame"
	p.Y.Label.Text = "Force"

	colors := generateColors(len(axisNames))
	for axis, name := range axisNames {
		col := w.Force.Col(axis)
		pts := make(plotter.XYs, len(col))
		for fr, v := range col {
			pts[fr] = plotter.XY{X: float64(fr), Y: v}
		}
		if len(pts) == 0 {
			continue
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return err
		}
		line.Color = colors[axis]
		line.Width = vg.Points(1)
		p.Add(line)
		p.Legend.Add("F"+name, line)
	}
	configureLegend(p)

	file := filepath.Join(dir, label+"_force.png")
	if err := p.Save(14*vg.Inch, 6*vg.Inch, file); err != nil {
		return fmt.Errorf("save force plot: %w", err)
	}
	return nil
}

func renderPosition(dir, label string, w *wrench.Wrench) error {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s - Position", label)
	p.X.Label.Text = "X"
	p.Y.Label.Text = "Y"

	frames := w.Position.FrameNumber()
	pts := make(plotter.XYs, 0, frames)
	for fr := 0; fr < frames; fr++ {
		if w.Position.Residuals[fr] < 0 {
			continue
		}
		pos := w.Position.Vec(fr)
		pts = append(pts, plotter.XY{X: pos.X, Y: pos.Y})
	}
	if len(pts) > 0 {
		scatter, err := plotter.NewScatter(pts)
		if err != nil {
			return err
		}
		scatter.GlyphStyle.Color = generateColors(1)[0]
		scatter.GlyphStyle.Radius = vg.Points(1.5)
		p.Add(scatter)
	}

	file := filepath.Join(dir, label+"_position.png")
	if err := p.Save(8*vg.Inch, 8*vg.Inch, file); err != nil {
		return fmt.Errorf("save position plot: %w", err)
	}
	return nil
}

// fileLabel makes a file name stem from a wrench label: characters other
// than ASCII letters, digits, dot, underscore or dash become a single
// underscore, and the result is capped at 64 bytes.
func fileLabel(label string) string {
	const maxLen = 64
	var b strings.Builder
	lastUnderscore := false
	for _, r := range label {
		if b.Len() >= maxLen {
			break
		}
		switch {
		case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9'), r == '.', r == '-':
			b.WriteRune(r)
			lastUnderscore = false
		case !lastUnderscore:
			b.WriteRune('_')
			lastUnderscore = true
		}
	}
	return strings.Trim(b.String(), "._")
}

func configureLegend(p *plot.Plot) {
	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10
}

// generateColors creates a palette of n distinct colors.
func generateColors(n int) []color.Color {
	if n <= 0 {
		return nil
	}

	colors := make([]color.Color, n)
	for i := 0; i < n; i++ {
		hue := float64(i) / float64(n)
		r, g, b := hslToRGB(hue, 0.7, 0.5)
		colors[i] = color.RGBA{R: r, G: g, B: b, A: 255}
	}
	return colors
}

// hslToRGB converts HSL to RGB (0-255 range)
func hslToRGB(h, s, l float64) (r, g, b uint8) {
	if s == 0 {
		v := uint8(l * 255)
		return v, v, v
	}
	var q float64
	if l < 0.5 {
		q = l * (1 + s)
	} else {
		q = l + s - l*s
	}
	p := 2*l - q
	return uint8(hueToRGB(p, q, h+1.0/3.0) * 255), uint8(hueToRGB(p, q, h) * 255), uint8(hueToRGB(p, q, h-1.0/3.0) * 255)
}

func hueToRGB(p, q, t float64) float64 {
	if t < 0 {
		t += 1
	}
	if t > 1 {
		t -= 1
	}
	switch {
	case t < 1.0/6.0:
		return p + (q-p)*6*t
	case t < 1.0/2.0:
		return q
	case t < 2.0/3.0:
		return p + (q-p)*(2.0/3.0-t)*6
	}
	return p
}
