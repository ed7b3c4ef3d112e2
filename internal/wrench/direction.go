package wrench

import (
	"math"

	"github.com/banshee-data/forceplate/internal/pipeline"
)

// DirectionAngleFilter computes, for every wrench, the direction of the
// reaction force projected on the three anatomical planes: atan2(-Fz, -Fy),
// atan2(-Fz, -Fx) and atan2(-Fy, -Fx), in degrees within [0, 360].
// Frames whose position residual is negative get a residual of -1 and no
// angle. Each output series is labelled "<wrench>.DA".
type DirectionAngleFilter struct {
	*pipeline.Process
}

// NewDirectionAngleFilter returns a filter with one wrench collection
// input and one series collection output.
func NewDirectionAngleFilter() *DirectionAngleFilter {
	f := &DirectionAngleFilter{}
	f.Process = pipeline.NewProcess("wrench-direction-angle", f)
	f.SetInputNumber(1)
	f.SetOutputNumber(1)
	return f
}

// SetInput sets the wrenches.
func (f *DirectionAngleFilter) SetInput(c *Collection) {
	f.SetNthInput(0, c)
}

// Input returns the wrenches, or nil.
func (f *DirectionAngleFilter) Input() *Collection {
	c, _ := f.NthInput(0).(*Collection)
	return c
}

// Output returns the angle series.
func (f *DirectionAngleFilter) Output() *ComponentCollection {
	return f.NthOutput(0).(*ComponentCollection)
}

// MakeOutput implements pipeline.Generator.
func (f *DirectionAngleFilter) MakeOutput(int) pipeline.Data {
	return NewComponentCollection()
}

// GenerateData implements pipeline.Generator.
func (f *DirectionAngleFilter) GenerateData() {
	out := f.Output()
	in := f.Input()
	if in == nil {
		out.Clear()
		return
	}
	const radToDeg = 180 / math.Pi
	out.SetLen(in.Len())
	for i, w := range in.Items() {
		angles, _ := out.Item(i)
		angles.Label = w.Label + ".DA"
		frames := w.FrameNumber()
		angles.Resize(frames)
		for fr := 0; fr < frames; fr++ {
			if w.Position.Residuals[fr] < 0 {
				angles.Residuals[fr] = -1
				continue
			}
			force := w.Force.Vec(fr)
			angles.Values.Set(fr, 0, math.Atan2(-force.Z, -force.Y)*radToDeg+180)
			angles.Values.Set(fr, 1, math.Atan2(-force.Z, -force.X)*radToDeg+180)
			angles.Values.Set(fr, 2, math.Atan2(-force.Y, -force.X)*radToDeg+180)
		}
	}
}
