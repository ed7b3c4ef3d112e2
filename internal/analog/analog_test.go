package analog

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/forceplate/internal/monitoring"
)

func channel(label string, values ...float64) *Channel {
	c := New(label, 0)
	c.Values = values
	return c
}

func TestChannelClone(t *testing.T) {
	c := channel("FZ1", 1, 2, 3)
	c.Unit = "N"
	c.Description = "vertical"
	c.Scale = 0.5

	clone := c.Clone()
	assert.Equal(t, c.Values, clone.Values)
	assert.Equal(t, "N", clone.Unit)
	assert.Equal(t, 0.5, clone.Scale)
	assert.Equal(t, "vertical", clone.Description)

	clone.Values[0] = 42
	assert.Equal(t, 1.0, c.Values[0])
}

func TestChannelSetValuesStampsCollection(t *testing.T) {
	col := NewCollection()
	c := New("FX1", 4)
	col.Append(c)
	before := col.Timestamp()

	c.SetValues([]float64{1, 2, 3, 4})
	assert.Greater(t, col.Timestamp(), before)
	assert.Equal(t, 4, FrameNumber(col))
	assert.Equal(t, 0, FrameNumber(nil))
}

func TestOffsetRemover(t *testing.T) {
	raws := NewCollection()
	fz := channel("FZ1", 11, 12, 13)
	aux := channel("AUX", 5, 5, 5)
	raws.Append(fz)
	raws.Append(aux)

	offsets := NewCollection()
	offsets.Append(channel("FZ1", 1, 1, 4))

	f := NewOffsetRemover()
	f.SetRawInput(raws)
	f.SetOffsetInput(offsets)
	f.Update()

	out := f.Output()
	require.Equal(t, 2, out.Len())
	corrected, _ := out.Item(0)
	assert.NotSame(t, fz, corrected)
	assert.InDeltaSlice(t, []float64{9, 10, 11}, corrected.Values, 1e-12)
	assert.Equal(t, []float64{11, 12, 13}, fz.Values)

	passed, _ := out.Item(1)
	assert.Same(t, aux, passed)
}

func TestOffsetRemoverMissingInput(t *testing.T) {
	var ops bytes.Buffer
	monitoring.SetLogWriters(monitoring.LogWriters{Ops: &ops})
	defer monitoring.SetLogWriters(monitoring.LogWriters{})

	f := NewOffsetRemover()
	f.SetRawInput(NewCollection())
	f.Update()

	assert.Equal(t, 0, f.Output().Len())
	assert.Contains(t, ops.String(), "missing at least one input")
}
