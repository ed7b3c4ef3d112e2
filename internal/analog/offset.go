package analog

import (
	"gonum.org/v1/gonum/floats"

	"github.com/banshee-data/forceplate/internal/monitoring"
	"github.com/banshee-data/forceplate/internal/pipeline"
)

// OffsetRemover subtracts the DC level measured in a reference recording
// (typically an unloaded static trial) from the matching channels of a
// raw recording. Channels are matched by label. Matched channels are
// cloned before correction; unmatched channels are passed through by
// reference.
type OffsetRemover struct {
	*pipeline.Process
}

// NewOffsetRemover returns a filter with two inputs (raw, offset) and one
// output collection.
func NewOffsetRemover() *OffsetRemover {
	f := &OffsetRemover{}
	f.Process = pipeline.NewProcess("analog-offset", f)
	f.SetInputNumber(2)
	f.SetOutputNumber(1)
	return f
}

// SetRawInput sets the channels to correct.
func (f *OffsetRemover) SetRawInput(c *Collection) {
	f.SetNthInput(0, c)
}

// SetOffsetInput sets the channels used to estimate the offsets.
func (f *OffsetRemover) SetOffsetInput(c *Collection) {
	f.SetNthInput(1, c)
}

// RawInput returns the channels to correct.
func (f *OffsetRemover) RawInput() *Collection {
	c, _ := f.NthInput(0).(*Collection)
	return c
}

// OffsetInput returns the reference channels.
func (f *OffsetRemover) OffsetInput() *Collection {
	c, _ := f.NthInput(1).(*Collection)
	return c
}

// Output returns the corrected channel collection.
func (f *OffsetRemover) Output() *Collection {
	return f.NthOutput(0).(*Collection)
}

// MakeOutput implements pipeline.Generator.
func (f *OffsetRemover) MakeOutput(int) pipeline.Data {
	return NewCollection()
}

// GenerateData implements pipeline.Generator.
func (f *OffsetRemover) GenerateData() {
	out := f.Output()
	out.Clear()
	raws, offsets := f.RawInput(), f.OffsetInput()
	if raws == nil || offsets == nil {
		monitoring.Opsf("[analog] offset remover: missing at least one input")
		return
	}

	byLabel := make(map[string]*Channel, offsets.Len())
	for _, o := range offsets.Items() {
		if _, dup := byLabel[o.Label]; !dup {
			byLabel[o.Label] = o
		}
	}
	for _, raw := range raws.Items() {
		ref, ok := byLabel[raw.Label]
		if !ok || len(ref.Values) == 0 {
			out.Append(raw)
			continue
		}
		dc := floats.Sum(ref.Values) / float64(len(ref.Values))
		corrected := raw.Clone()
		floats.AddConst(-dc, corrected.Values)
		out.Append(corrected)
	}
}
