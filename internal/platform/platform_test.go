package platform

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/forceplate/internal/analog"
	"github.com/banshee-data/forceplate/internal/pipeline"
)

func square(half float64) [4]r3.Vec {
	return [4]r3.Vec{
		{X: half, Y: half},
		{X: -half, Y: half},
		{X: -half, Y: -half},
		{X: half, Y: -half},
	}
}

func TestTypeTable(t *testing.T) {
	t.Parallel()
	want := map[Type]int{Type1: 6, Type2: 6, Type3: 8, Type4: 6, Type5: 8, Type6: 12}
	for typ, channels := range want {
		info, ok := Info(typ)
		require.True(t, ok, typ.String())
		assert.Equal(t, channels, info.Channels, typ.String())
		assert.Equal(t, channels, New(typ).ChannelNumber(), typ.String())
	}

	info, _ := Info(Type5)
	assert.Equal(t, 6, info.CalRows)
	assert.True(t, Type5.Supported())
	assert.False(t, Type6.Supported())
	assert.True(t, Type11.Known())
	assert.False(t, Type(9).Known())
	assert.False(t, Type3.RequiresCalibration())
	assert.True(t, Type4.RequiresCalibration())
}

func TestDescriptorDefaults(t *testing.T) {
	t.Parallel()
	d := New(Type5)
	cal := d.CalMatrix()
	r, c := cal.Dims()
	assert.Equal(t, 6, r)
	assert.Equal(t, 8, c)
	assert.Equal(t, 1.0, cal.At(5, 5))
	assert.Equal(t, 0.0, cal.At(5, 6))

	unknown := New(Type(42))
	assert.Equal(t, 0, unknown.ChannelNumber())
	assert.Nil(t, unknown.CalMatrix())
	assert.Equal(t, 0, unknown.FrameNumber())
}

func TestDescriptorAccessorsReportMisuse(t *testing.T) {
	t.Parallel()
	d := New(Type2)

	_, err := d.Channel(6)
	assert.True(t, errors.Is(err, pipeline.ErrIndexOutOfRange))
	_, err = d.Channel(-1)
	assert.True(t, errors.Is(err, pipeline.ErrIndexOutOfRange))
	_, err = d.Corner(4)
	assert.True(t, errors.Is(err, pipeline.ErrIndexOutOfRange))
	assert.Error(t, d.SetChannel(0, nil))
	assert.Error(t, d.SetCalMatrix(mat.NewDense(6, 8, nil)))
}

func TestDescriptorChannelEditStampsCollection(t *testing.T) {
	t.Parallel()
	col := NewCollection()
	d := New(Type2)
	col.Append(d)

	c := analog.New("Fz", 3)
	require.NoError(t, d.SetChannel(2, c))
	before := col.Timestamp()
	c.SetValues([]float64{1, 2, 3})
	assert.Greater(t, d.Timestamp(), before)
	assert.Greater(t, col.Timestamp(), before)
	assert.Equal(t, 0, d.FrameNumber())

	got, err := d.Channel(2)
	require.NoError(t, err)
	assert.Same(t, c, got)
}

func TestFrameSquarePlate(t *testing.T) {
	t.Parallel()
	rot, center, ok := Frame(square(250))
	require.True(t, ok)
	assert.Equal(t, r3.Vec{}, center)
	// A plate centered on the world origin with C3D corner order maps
	// the surface normal to +z.
	assert.InDelta(t, 1, rot.At(2, 2), 1e-12)
	assert.InDelta(t, 1, rot.At(0, 0), 1e-12)
	assert.InDelta(t, 1, rot.At(1, 1), 1e-12)
}

func TestFrameIsRotation(t *testing.T) {
	t.Parallel()
	corners := [4]r3.Vec{
		{X: 1200, Y: 400, Z: 3},
		{X: 700, Y: 410, Z: 1},
		{X: 690, Y: -190, Z: -2},
		{X: 1190, Y: -200, Z: 0},
	}
	rot, center, ok := Frame(corners)
	require.True(t, ok)
	assert.InDelta(t, 945, center.X, 1e-9)

	var prod mat.Dense
	prod.Mul(rot.T(), rot)
	assert.True(t, mat.EqualApprox(&prod, identity(3, 3), 1e-12))
	assert.InDelta(t, 1, mat.Det(rot), 1e-12)
}

func TestFrameDegenerate(t *testing.T) {
	t.Parallel()
	rot, center, ok := Frame([4]r3.Vec{})
	assert.False(t, ok)
	assert.Equal(t, r3.Vec{}, center)
	assert.True(t, mat.Equal(rot, identity(3, 3)))
}

func TestHalfExtents(t *testing.T) {
	t.Parallel()
	x, y := HalfExtents(square(250))
	assert.InDelta(t, 250, x, 1e-12)
	assert.InDelta(t, 250, y, 1e-12)

	// Rectangle rotated by 90 degrees about z, shifted away from the origin.
	shifted := [4]r3.Vec{
		{X: 1000 - 300, Y: 200},
		{X: 1000 - 300, Y: -200},
		{X: 1000 + 300, Y: -200},
		{X: 1000 + 300, Y: 200},
	}
	x, y = HalfExtents(shifted)
	assert.InDelta(t, 200, x, 1e-9)
	assert.InDelta(t, 300, y, 1e-9)

	x, y = HalfExtents([4]r3.Vec{{X: -3, Y: 4}})
	assert.Equal(t, 3.0, x)
	assert.Equal(t, 4.0, y)
	assert.False(t, math.IsNaN(x))
}
