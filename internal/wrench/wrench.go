// Package wrench computes six-component force/moment series ("wrenches")
// from force platform descriptors, locates the ground reaction (origin,
// center of pressure, point of wrench application) and derives
// per-frame quantities from the result.
package wrench

import (
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/forceplate/internal/pipeline"
)

// Component is a labelled frames×3 series with one residual per frame. A
// negative residual marks a frame whose value is invalid.
type Component struct {
	pipeline.DataObject
	Label     string
	Values    *mat.Dense // empty when the series has no frames
	Residuals []float64
}

// NewComponent returns a zero-filled series.
func NewComponent(label string, frames int) *Component {
	c := &Component{Label: label, Values: &mat.Dense{}}
	c.Resize(frames)
	return c
}

// FrameNumber returns the number of frames.
func (c *Component) FrameNumber() int {
	return len(c.Residuals)
}

// Resize sets the frame count in place. Values and residuals are zero
// afterwards, whether or not the count changed.
func (c *Component) Resize(frames int) {
	if frames < 0 {
		frames = 0
	}
	if frames != c.FrameNumber() {
		c.Values.Reset()
		if frames > 0 {
			c.Values.ReuseAs(frames, 3)
		}
		if cap(c.Residuals) >= frames {
			c.Residuals = c.Residuals[:frames]
		} else {
			c.Residuals = make([]float64, frames)
		}
	}
	if frames > 0 {
		c.Values.Zero()
	}
	for i := range c.Residuals {
		c.Residuals[i] = 0
	}
}

// Vec returns frame f as a vector.
func (c *Component) Vec(f int) r3.Vec {
	return r3.Vec{X: c.Values.At(f, 0), Y: c.Values.At(f, 1), Z: c.Values.At(f, 2)}
}

// SetVec stores v at frame f.
func (c *Component) SetVec(f int, v r3.Vec) {
	c.Values.Set(f, 0, v.X)
	c.Values.Set(f, 1, v.Y)
	c.Values.Set(f, 2, v.Z)
}

// Col returns a copy of coordinate j (0: x, 1: y, 2: z).
func (c *Component) Col(j int) []float64 {
	if c.FrameNumber() == 0 {
		return nil
	}
	return mat.Col(nil, j, c.Values)
}

// setCol stores values into coordinate j, truncating or zero-padding them
// to the frame count.
func (c *Component) setCol(j int, values []float64) {
	for f := 0; f < c.FrameNumber(); f++ {
		v := 0.0
		if f < len(values) {
			v = values[f]
		}
		c.Values.Set(f, j, v)
	}
}

// transform rotates every frame by rot (v → rot·v) and adds t.
func (c *Component) transform(rot mat.Matrix, t r3.Vec) {
	if c.FrameNumber() == 0 {
		return
	}
	var rotated mat.Dense
	rotated.Mul(c.Values, rot.T())
	c.Values.Copy(&rotated)
	if t == (r3.Vec{}) {
		return
	}
	for f := 0; f < c.FrameNumber(); f++ {
		c.SetVec(f, r3.Add(c.Vec(f), t))
	}
}

// Wrench is the force, moment and point of application of one platform
// over time. Position, Force and Moment always share the same frame count.
type Wrench struct {
	pipeline.DataObject
	Label    string
	Position *Component
	Force    *Component
	Moment   *Component
}

// New returns a zero-filled wrench.
func New(label string, frames int) *Wrench {
	w := &Wrench{
		Position: NewComponent("", frames),
		Force:    NewComponent("", frames),
		Moment:   NewComponent("", frames),
	}
	w.SetLabel(label)
	return w
}

// SetLabel renames the wrench and its components (label.P, label.F,
// label.M).
func (w *Wrench) SetLabel(label string) {
	w.Label = label
	w.Position.Label = label + ".P"
	w.Force.Label = label + ".F"
	w.Moment.Label = label + ".M"
}

// FrameNumber returns the number of frames.
func (w *Wrench) FrameNumber() int {
	return w.Force.FrameNumber()
}

// Resize sets the frame count of every component in place and zeroes
// all values and residuals.
func (w *Wrench) Resize(frames int) {
	w.Position.Resize(frames)
	w.Force.Resize(frames)
	w.Moment.Resize(frames)
}

// Collection is an ordered list of wrenches.
type Collection = pipeline.Collection[*Wrench]

// NewCollection returns an empty wrench collection.
func NewCollection() *Collection {
	return pipeline.NewCollection(func() *Wrench { return New("", 0) })
}

// ComponentCollection is an ordered list of series.
type ComponentCollection = pipeline.Collection[*Component]

// NewComponentCollection returns an empty series collection.
func NewComponentCollection() *ComponentCollection {
	return pipeline.NewCollection(func() *Component { return NewComponent("", 0) })
}
