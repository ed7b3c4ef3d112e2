// Package extract builds force platform descriptors from the
// FORCE_PLATFORM group of a configuration tree and a flat list of analog
// channels.
package extract

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/banshee-data/forceplate/internal/analog"
	"github.com/banshee-data/forceplate/internal/metadata"
	"github.com/banshee-data/forceplate/internal/pipeline"
	"github.com/banshee-data/forceplate/internal/platform"
)

// Extractor turns a configuration tree and an analog channel list into a
// platform collection ordered as declared in FORCE_PLATFORM.
//
// Configuration problems never stop the extraction: they are logged on
// the ops stream and the affected platform (or the whole collection)
// degrades to zero-filled channels or an empty output.
type Extractor struct {
	*pipeline.Process

	// inputs of the last full extraction, for the incremental skip
	lastGroup   *metadata.Node
	lastAnalogs *analog.Collection
	lastCount   int
	lastRefs    [][]*analog.Channel
}

// NewExtractor returns an extractor with two inputs (configuration tree,
// analog channels) and one platform collection output.
func NewExtractor() *Extractor {
	e := &Extractor{}
	e.Process = pipeline.NewProcess("force-platform-extractor", e)
	e.SetInputNumber(2)
	e.SetOutputNumber(1)
	return e
}

// SetInput sets both inputs.
func (e *Extractor) SetInput(root *metadata.Node, analogs *analog.Collection) {
	e.SetMetadataInput(root)
	e.SetAnalogInput(analogs)
}

// SetMetadataInput sets the configuration tree root.
func (e *Extractor) SetMetadataInput(root *metadata.Node) {
	e.SetNthInput(0, root)
}

// SetAnalogInput sets the analog channel list.
func (e *Extractor) SetAnalogInput(analogs *analog.Collection) {
	e.SetNthInput(1, analogs)
}

// MetadataInput returns the configuration tree root, or nil.
func (e *Extractor) MetadataInput() *metadata.Node {
	n, _ := e.NthInput(0).(*metadata.Node)
	return n
}

// AnalogInput returns the analog channel list, or nil.
func (e *Extractor) AnalogInput() *analog.Collection {
	c, _ := e.NthInput(1).(*analog.Collection)
	return c
}

// Output returns the platform collection.
func (e *Extractor) Output() *platform.Collection {
	return e.NthOutput(0).(*platform.Collection)
}

// MakeOutput implements pipeline.Generator.
func (e *Extractor) MakeOutput(int) pipeline.Data {
	return platform.NewCollection()
}

// GenerateData implements pipeline.Generator.
func (e *Extractor) GenerateData() {
	out := e.Output()
	root := e.MetadataInput()
	if root == nil {
		out.Clear()
		return
	}
	group, ok := root.FindChild(GroupLabel)
	if !ok {
		out.Clear()
		return
	}
	l, ok := readLayout(group)
	if !ok {
		out.Clear()
		return
	}

	analogs := e.AnalogInput()
	if analogs == nil {
		analogs = analog.NewCollection()
	}
	if e.upToDate(group, analogs, l) {
		diagf("%d force platform(s) up to date, extraction skipped", out.Len())
		return
	}

	out.Clear()
	if l.cal == nil {
		for i, t := range l.types {
			if t.RequiresCalibration() {
				opsf("no %s:%s entry; force platform #%d which requires a calibration matrix won't be scaled", GroupLabel, CalMatrixLabel, i+1)
			}
		}
	}
	calOffset := 0
	for i, t := range l.types {
		out.Append(e.extractPlatform(i, t, l, analogs, &calOffset))
	}
	e.lastGroup, e.lastAnalogs, e.lastCount = group, analogs, analogs.Len()
	e.lastRefs = resolveRefs(l, analogs)
}

// upToDate reports whether the current output was built from the same
// inputs and none of the referenced channels nor the FORCE_PLATFORM
// group changed since.
func (e *Extractor) upToDate(group *metadata.Node, analogs *analog.Collection, l *layout) bool {
	out := e.Output()
	if out.Len() == 0 || out.Len() != l.platformNumber() {
		return false
	}
	if group != e.lastGroup || analogs != e.lastAnalogs || analogs.Len() != e.lastCount {
		return false
	}
	stamp := out.Timestamp()
	if group.Timestamp() >= stamp {
		return false
	}
	refs := resolveRefs(l, analogs)
	if len(refs) != len(e.lastRefs) {
		return false
	}
	for i, platformRefs := range refs {
		if len(platformRefs) != len(e.lastRefs[i]) {
			return false
		}
		for j, c := range platformRefs {
			// A channel replaced by another object may carry an older stamp.
			if c != e.lastRefs[i][j] {
				return false
			}
			if c != nil && c.Timestamp() >= stamp {
				return false
			}
		}
	}
	return true
}

// resolveRefs returns, per platform, the analog channels referenced by
// the channel table (nil where an index does not resolve).
func resolveRefs(l *layout, analogs *analog.Collection) [][]*analog.Channel {
	refs := make([][]*analog.Channel, len(l.types))
	for i, t := range l.types {
		info, known := platform.Info(t)
		if !known {
			continue
		}
		indices, ok := l.channelIndices(i, info.Channels)
		if !ok {
			continue
		}
		refs[i] = make([]*analog.Channel, len(indices))
		for j, idx := range indices {
			if c, err := analogs.Item(idx - 1); err == nil {
				refs[i][j] = c
			}
		}
	}
	return refs
}

func (e *Extractor) extractPlatform(idx int, t platform.Type, l *layout, analogs *analog.Collection, calOffset *int) *platform.Descriptor {
	d := platform.New(t)
	info, known := platform.Info(t)
	if !known {
		opsf("unsupported force platform type %d for force platform #%d; impossible to extract its data", int(t), idx+1)
		return d
	}

	if o, ok := l.originOf(idx); ok {
		d.SetOrigin(o)
	}
	if c, ok := l.cornersOf(idx); ok {
		d.SetCorners(c)
	}
	calibrated := false
	if l.cal != nil {
		size := info.CalRows * info.Channels
		if len(l.cal) >= *calOffset+size {
			cal := mat.NewDense(info.CalRows, info.Channels, nil)
			for col := 0; col < info.Channels; col++ {
				for row := 0; row < info.CalRows; row++ {
					cal.Set(row, col, l.cal[row+col*info.CalRows+*calOffset])
				}
			}
			if err := d.SetCalMatrix(cal); err != nil {
				opsf("force platform #%d: %v", idx+1, err)
			} else {
				calibrated = true
			}
		} else if t.RequiresCalibration() {
			opsf("%s:%s holds %d coefficients, too few for force platform #%d; its data won't be scaled",
				GroupLabel, CalMatrixLabel, len(l.cal), idx+1)
		}
		*calOffset += size
	}

	frames := analog.FrameNumber(analogs)
	if !info.Supported {
		opsf("force platform type %d (#%d) is not yet supported", int(t), idx+1)
		fillZeros(d, idx, frames)
		return d
	}

	sources, ok := referencedChannels(l, idx, info.Channels, analogs)
	if !ok {
		opsf("error(s) occurred during channel extraction for force platform #%d; replaced by vectors of zeros", idx+1)
		fillZeros(d, idx, frames)
		return d
	}
	if t.RequiresCalibration() && calibrated {
		calibrate(d, sources)
		return d
	}
	for j, src := range sources {
		_ = d.SetChannel(j, src.Clone())
	}
	return d
}

// referencedChannels resolves the 1-based channel indices of platform idx.
// It fails when any index is out of range or the channels do not share
// the same frame length.
func referencedChannels(l *layout, idx, count int, analogs *analog.Collection) ([]*analog.Channel, bool) {
	indices, ok := l.channelIndices(idx, count)
	if !ok {
		return nil, false
	}
	out := make([]*analog.Channel, count)
	for j, ref := range indices {
		c, err := analogs.Item(ref - 1)
		if err != nil {
			return nil, false
		}
		if j > 0 && c.FrameNumber() != out[0].FrameNumber() {
			return nil, false
		}
		out[j] = c
	}
	return out, true
}

// calibrate stacks the raw channels into a frame×N matrix and multiplies
// it by the transpose of the calibration matrix. Channels beyond the
// number of calibrated components are zero.
func calibrate(d *platform.Descriptor, sources []*analog.Channel) {
	frames := sources[0].FrameNumber()
	channels := make([]*analog.Channel, len(sources))
	for j, src := range sources {
		channels[j] = analog.New(src.Label, frames)
		channels[j].Description = src.Description
	}
	if frames > 0 {
		raw := mat.NewDense(frames, len(sources), nil)
		for j, src := range sources {
			raw.SetCol(j, src.Values)
		}
		cal := d.CalMatrix()
		var scaled mat.Dense
		scaled.Mul(raw, cal.T())
		_, comps := scaled.Dims()
		for j := 0; j < comps && j < len(channels); j++ {
			mat.Col(channels[j].Values, j, &scaled)
		}
	}
	for j, c := range channels {
		_ = d.SetChannel(j, c)
	}
}

func fillZeros(d *platform.Descriptor, idx, frames int) {
	for j := 0; j < d.ChannelNumber(); j++ {
		_ = d.SetChannel(j, analog.New(fmt.Sprintf("FP%dC%d", idx+1, j+1), frames))
	}
}
