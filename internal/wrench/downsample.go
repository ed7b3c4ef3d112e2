package wrench

import "github.com/banshee-data/forceplate/internal/pipeline"

// DownsampleFilter keeps one frame out of ratio, starting with the first,
// for every wrench of a collection. It brings wrenches computed at the
// analog rate down to the point rate. Output wrenches are reused by index.
type DownsampleFilter struct {
	*pipeline.Process
	ratio int
}

// NewDownsampleFilter returns a filter with a ratio of 1 (plain copy).
func NewDownsampleFilter() *DownsampleFilter {
	f := &DownsampleFilter{ratio: 1}
	f.Process = pipeline.NewProcess("wrench-downsample", f)
	f.SetInputNumber(1)
	f.SetOutputNumber(1)
	return f
}

// SetRatio sets the analog-to-point frame ratio. Values below 1 are
// rejected.
func (f *DownsampleFilter) SetRatio(ratio int) {
	if ratio < 1 {
		opsf("%s: invalid ratio %d ignored", f.Name(), ratio)
		return
	}
	if f.ratio == ratio {
		return
	}
	f.ratio = ratio
	f.Modified()
}

// Ratio returns the frame ratio.
func (f *DownsampleFilter) Ratio() int {
	return f.ratio
}

// SetInput sets the wrenches to decimate.
func (f *DownsampleFilter) SetInput(c *Collection) {
	f.SetNthInput(0, c)
}

// Input returns the wrenches, or nil.
func (f *DownsampleFilter) Input() *Collection {
	c, _ := f.NthInput(0).(*Collection)
	return c
}

// Output returns the decimated wrenches.
func (f *DownsampleFilter) Output() *Collection {
	return f.NthOutput(0).(*Collection)
}

// MakeOutput implements pipeline.Generator.
func (f *DownsampleFilter) MakeOutput(int) pipeline.Data {
	return NewCollection()
}

// GenerateData implements pipeline.Generator.
func (f *DownsampleFilter) GenerateData() {
	out := f.Output()
	in := f.Input()
	if in == nil {
		out.Clear()
		return
	}
	out.SetLen(in.Len())
	for i, src := range in.Items() {
		dst, _ := out.Item(i)
		dst.SetLabel(src.Label)
		frames := src.FrameNumber() / f.ratio
		dst.Resize(frames)
		for fr := 0; fr < frames; fr++ {
			from := fr * f.ratio
			decimate(dst.Position, src.Position, fr, from)
			decimate(dst.Force, src.Force, fr, from)
			decimate(dst.Moment, src.Moment, fr, from)
		}
	}
}

func decimate(dst, src *Component, to, from int) {
	dst.SetVec(to, src.Vec(from))
	dst.Residuals[to] = src.Residuals[from]
}
