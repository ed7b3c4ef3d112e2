package platform

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/forceplate/internal/analog"
	"github.com/banshee-data/forceplate/internal/pipeline"
)

// Descriptor is one force platform: its channels, the four corners of
// the sensing surface, the origin offset, and the calibration matrix.
// The channel count and the calibration matrix column count always equal
// the type's fixed channel count.
type Descriptor struct {
	pipeline.DataObject
	typ      Type
	channels []*analog.Channel
	origin   r3.Vec
	corners  [4]r3.Vec
	cal      *mat.Dense
}

// New returns a descriptor of type t with empty channels, zero geometry
// and an identity calibration matrix. Unknown types get no channels.
func New(t Type) *Descriptor {
	d := &Descriptor{typ: t}
	info, ok := Info(t)
	if !ok {
		return d
	}
	d.channels = make([]*analog.Channel, info.Channels)
	for i := range d.channels {
		d.channels[i] = analog.New("", 0)
		d.channels[i].AddParent(d)
	}
	d.cal = identity(info.CalRows, info.Channels)
	return d
}

// Type returns the platform type tag.
func (d *Descriptor) Type() Type {
	return d.typ
}

// ChannelNumber returns the number of channels.
func (d *Descriptor) ChannelNumber() int {
	return len(d.channels)
}

// Channel returns channel idx.
func (d *Descriptor) Channel(idx int) (*analog.Channel, error) {
	if idx < 0 || idx >= len(d.channels) {
		return nil, fmt.Errorf("%s channel %d (of %d): %w", d.typ, idx, len(d.channels), pipeline.ErrIndexOutOfRange)
	}
	return d.channels[idx], nil
}

// Channels returns a copy of the channel list.
func (d *Descriptor) Channels() []*analog.Channel {
	out := make([]*analog.Channel, len(d.channels))
	copy(out, d.channels)
	return out
}

// SetChannel replaces channel idx. The descriptor takes part in the
// channel's modification notifications.
func (d *Descriptor) SetChannel(idx int, c *analog.Channel) error {
	if idx < 0 || idx >= len(d.channels) {
		return fmt.Errorf("%s channel %d (of %d): %w", d.typ, idx, len(d.channels), pipeline.ErrIndexOutOfRange)
	}
	if c == nil {
		return fmt.Errorf("%s channel %d: nil channel", d.typ, idx)
	}
	if old := d.channels[idx]; old != nil {
		old.RemoveParent(d)
	}
	c.AddParent(d)
	d.channels[idx] = c
	d.Modified()
	return nil
}

// FrameNumber returns the frame length of the first channel.
func (d *Descriptor) FrameNumber() int {
	if len(d.channels) == 0 {
		return 0
	}
	return d.channels[0].FrameNumber()
}

// Origin returns the origin offset expressed in the platform frame.
func (d *Descriptor) Origin() r3.Vec {
	return d.origin
}

// SetOrigin replaces the origin offset.
func (d *Descriptor) SetOrigin(o r3.Vec) {
	d.origin = o
	d.Modified()
}

// Corner returns corner idx (0..3).
func (d *Descriptor) Corner(idx int) (r3.Vec, error) {
	if idx < 0 || idx >= len(d.corners) {
		return r3.Vec{}, fmt.Errorf("corner %d: %w", idx, pipeline.ErrIndexOutOfRange)
	}
	return d.corners[idx], nil
}

// Corners returns the four corners.
func (d *Descriptor) Corners() [4]r3.Vec {
	return d.corners
}

// SetCorner replaces corner idx.
func (d *Descriptor) SetCorner(idx int, c r3.Vec) error {
	if idx < 0 || idx >= len(d.corners) {
		return fmt.Errorf("corner %d: %w", idx, pipeline.ErrIndexOutOfRange)
	}
	d.corners[idx] = c
	d.Modified()
	return nil
}

// SetCorners replaces all four corners.
func (d *Descriptor) SetCorners(c [4]r3.Vec) {
	d.corners = c
	d.Modified()
}

// CalMatrix returns a copy of the calibration matrix, or nil for an
// unknown type.
func (d *Descriptor) CalMatrix() *mat.Dense {
	if d.cal == nil {
		return nil
	}
	return mat.DenseCopyOf(d.cal)
}

// SetCalMatrix replaces the calibration matrix. m must have the type's
// row and column counts.
func (d *Descriptor) SetCalMatrix(m mat.Matrix) error {
	info, ok := Info(d.typ)
	if !ok {
		return fmt.Errorf("%s: no calibration matrix for unknown type", d.typ)
	}
	r, c := m.Dims()
	if r != info.CalRows || c != info.Channels {
		return fmt.Errorf("%s: calibration matrix is %dx%d, want %dx%d", d.typ, r, c, info.CalRows, info.Channels)
	}
	d.cal = mat.DenseCopyOf(m)
	d.Modified()
	return nil
}

// RequiresCalibration reports whether the platform's raw channels must be
// multiplied by the calibration matrix.
func (d *Descriptor) RequiresCalibration() bool {
	return d.typ.RequiresCalibration()
}

func identity(rows, cols int) *mat.Dense {
	m := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows && i < cols; i++ {
		m.Set(i, i, 1)
	}
	return m
}

// Collection is an ordered list of platform descriptors.
type Collection = pipeline.Collection[*Descriptor]

// NewCollection returns an empty descriptor collection.
func NewCollection() *Collection {
	return pipeline.NewCollection(func() *Descriptor { return New(Type1) })
}
