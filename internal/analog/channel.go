// Package analog holds analog channels as delivered by the acquisition
// layer and the filters that operate on them directly.
package analog

import "github.com/banshee-data/forceplate/internal/pipeline"

// Channel is one analog signal sampled at the analog rate.
type Channel struct {
	pipeline.DataObject
	Label       string
	Description string
	Unit        string
	Scale       float64
	Values      []float64
}

// New returns a zero-filled channel of the given frame length.
func New(label string, frames int) *Channel {
	if frames < 0 {
		frames = 0
	}
	return &Channel{Label: label, Scale: 1, Values: make([]float64, frames)}
}

// FrameNumber returns the number of samples.
func (c *Channel) FrameNumber() int {
	return len(c.Values)
}

// SetValues replaces the samples and marks the channel modified.
func (c *Channel) SetValues(values []float64) {
	c.Values = values
	c.Modified()
}

// Clone returns a deep copy without parents or source.
func (c *Channel) Clone() *Channel {
	values := make([]float64, len(c.Values))
	copy(values, c.Values)
	return &Channel{
		Label:       c.Label,
		Description: c.Description,
		Unit:        c.Unit,
		Scale:       c.Scale,
		Values:      values,
	}
}

// Collection is an ordered list of analog channels.
type Collection = pipeline.Collection[*Channel]

// NewCollection returns an empty channel collection.
func NewCollection() *Collection {
	return pipeline.NewCollection(func() *Channel { return New("", 0) })
}

// FrameNumber returns the frame length of the first channel, or 0 for an
// empty collection.
func FrameNumber(c *Collection) int {
	if c == nil || c.Len() == 0 {
		return 0
	}
	first, _ := c.Item(0)
	return first.FrameNumber()
}
