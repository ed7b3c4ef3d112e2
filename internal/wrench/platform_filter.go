package wrench

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/forceplate/internal/pipeline"
	"github.com/banshee-data/forceplate/internal/platform"
)

// finishFunc is the family-specific correction applied to a freshly
// computed wrench, in the platform frame, before the global transform.
type finishFunc func(w *Wrench, d *platform.Descriptor, idx int)

type finishTable map[platform.Family]finishFunc

// PlatformFilter computes one wrench per platform, labelled FPW1, FPW2, ...
// Forces and moments are expressed at the platform origin in the units of
// the platform channels. Wrench objects are reused by index across
// updates.
type PlatformFilter struct {
	*pipeline.Process
	prefix      string
	globalFrame bool
	finish      finishTable
	single      *platform.Collection
}

// NewPlatformFilter returns a filter with one platform collection input
// and one wrench collection output. The global frame transform is on.
func NewPlatformFilter() *PlatformFilter {
	f := newPlatformFilter("force-platform-wrench", "FPW")
	f.finish = finishTable{platform.FamilyTypeI: finishTypeI}
	return f
}

func newPlatformFilter(name, prefix string) *PlatformFilter {
	f := &PlatformFilter{prefix: prefix, globalFrame: true}
	f.Process = pipeline.NewProcess(name, f)
	f.SetInputNumber(1)
	f.SetOutputNumber(1)
	return f
}

// SetInput sets the platforms to compute.
func (f *PlatformFilter) SetInput(c *platform.Collection) {
	f.SetNthInput(0, c)
}

// SetInputPlatform wraps d into a one-element collection and uses it as
// input.
func (f *PlatformFilter) SetInputPlatform(d *platform.Descriptor) {
	if f.single != nil && f.single.Len() == 1 && d != nil {
		if cur, _ := f.single.Item(0); cur == d {
			f.SetNthInput(0, f.single)
			return
		}
	}
	if f.single != nil {
		// Release the previous descriptor so it stops stamping the old wrapper.
		f.single.Clear()
		f.single = nil
	}
	if d == nil {
		f.SetNthInput(0, nil)
		return
	}
	f.single = platform.NewCollection()
	f.single.Append(d)
	f.SetNthInput(0, f.single)
}

// Input returns the platform collection, or nil.
func (f *PlatformFilter) Input() *platform.Collection {
	c, _ := f.NthInput(0).(*platform.Collection)
	return c
}

// Output returns the wrench collection.
func (f *PlatformFilter) Output() *Collection {
	return f.NthOutput(0).(*Collection)
}

// SetTransformToGlobalFrame enables or disables the platform-to-global
// transform.
func (f *PlatformFilter) SetTransformToGlobalFrame(on bool) {
	if f.globalFrame == on {
		return
	}
	f.globalFrame = on
	f.Modified()
}

// TransformToGlobalFrame reports whether wrenches are expressed in the
// global frame.
func (f *PlatformFilter) TransformToGlobalFrame() bool {
	return f.globalFrame
}

// MakeOutput implements pipeline.Generator.
func (f *PlatformFilter) MakeOutput(int) pipeline.Data {
	return NewCollection()
}

// GenerateData implements pipeline.Generator.
func (f *PlatformFilter) GenerateData() {
	out := f.Output()
	in := f.Input()
	if in == nil {
		out.Clear()
		return
	}
	if out.Len() == in.Len() {
		diagf("%s: reusing %d wrench(es)", f.Name(), out.Len())
	}
	out.SetLen(in.Len())
	for i, d := range in.Items() {
		w, _ := out.Item(i)
		f.compute(w, d, i)
	}
}

func (f *PlatformFilter) compute(w *Wrench, d *platform.Descriptor, idx int) {
	defer w.Modified()
	w.SetLabel(fmt.Sprintf("%s%d", f.prefix, idx+1))
	if d.ChannelNumber() == 0 {
		opsf("unexpected number of analog channels (0) for force platform #%d", idx+1)
		w.Resize(0)
		return
	}
	frames := d.FrameNumber()
	info, _ := platform.Info(d.Type())
	if !info.Supported {
		opsf("force platform type %d (#%d) is not yet supported", int(d.Type()), idx+1)
		if w.FrameNumber() != frames {
			w.Resize(frames)
		}
		return
	}

	w.Resize(frames)
	ch := make([][]float64, d.ChannelNumber())
	for j := range ch {
		c, _ := d.Channel(j)
		ch[j] = fit(c.Values, frames)
	}

	switch info.Family {
	case platform.FamilyTypeI:
		w.Force.setCol(0, ch[0])
		w.Force.setCol(1, ch[1])
		w.Force.setCol(2, ch[2])
		w.Position.setCol(0, ch[3])
		w.Position.setCol(1, ch[4])
		w.Moment.setCol(2, ch[5])
	case platform.FamilyAMTI:
		w.Force.setCol(0, ch[0])
		w.Force.setCol(1, ch[1])
		w.Force.setCol(2, ch[2])
		w.Moment.setCol(0, ch[3])
		w.Moment.setCol(1, ch[4])
		w.Moment.setCol(2, ch[5])
	case platform.FamilyKistler:
		kistler(w, ch, d.Corners(), frames)
	}
	if finish := f.finish[info.Family]; finish != nil {
		finish(w, d, idx)
	}
	if f.globalFrame {
		toGlobal(w, d, idx)
	}
}

// kistler combines the eight piezo channels (FX12, FX34, FY14, FY23,
// FZ1..FZ4) into a wrench at the plate center.
func kistler(w *Wrench, ch [][]float64, corners [4]r3.Vec, frames int) {
	cx, cy := platform.HalfExtents(corners)
	sum := func(dst []float64, terms ...[]float64) []float64 {
		for _, t := range terms {
			floats.Add(dst, t)
		}
		return dst
	}
	diff := func(a, b []float64) []float64 {
		return floats.SubTo(make([]float64, frames), a, b)
	}

	w.Force.setCol(0, sum(make([]float64, frames), ch[0], ch[1]))
	w.Force.setCol(1, sum(make([]float64, frames), ch[2], ch[3]))
	w.Force.setCol(2, sum(make([]float64, frames), ch[4], ch[5], ch[6], ch[7]))

	mx := floats.SubTo(make([]float64, frames), sum(make([]float64, frames), ch[4], ch[5]), sum(make([]float64, frames), ch[6], ch[7]))
	floats.Scale(cy, mx)
	my := floats.SubTo(make([]float64, frames), sum(make([]float64, frames), ch[5], ch[6]), sum(make([]float64, frames), ch[4], ch[7]))
	floats.Scale(cx, my)
	mz := floats.ScaleTo(make([]float64, frames), cy, diff(ch[1], ch[0]))
	floats.AddScaled(mz, cx, diff(ch[2], ch[3]))

	w.Moment.setCol(0, mx)
	w.Moment.setCol(1, my)
	w.Moment.setCol(2, mz)
}

// fit returns values with exactly frames elements.
func fit(values []float64, frames int) []float64 {
	if len(values) == frames {
		return values
	}
	out := make([]float64, frames)
	copy(out, values)
	return out
}

// finishTypeI moves the moment from the measured center of pressure to
// the platform origin: M -= F × P.
func finishTypeI(w *Wrench, _ *platform.Descriptor, _ int) {
	for i := 0; i < w.FrameNumber(); i++ {
		w.Moment.SetVec(i, r3.Sub(w.Moment.Vec(i), r3.Cross(w.Force.Vec(i), w.Position.Vec(i))))
	}
}

// toGlobal expresses force, moment and position in the frame spanned by
// the platform corners.
func toGlobal(w *Wrench, d *platform.Descriptor, idx int) {
	rot, t, ok := platform.Frame(d.Corners())
	if !ok {
		diagf("force platform #%d: degenerate corners, rotation skipped", idx+1)
	}
	w.Force.transform(rot, r3.Vec{})
	w.Moment.transform(rot, r3.Vec{})
	w.Position.transform(rot, t)
}
