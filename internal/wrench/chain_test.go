package wrench

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/forceplate/internal/extract"
	"github.com/banshee-data/forceplate/internal/platform"
	"github.com/banshee-data/forceplate/internal/testutil"
)

// typeTwoTrial is one type 2 plate centered on the world origin loaded by
// a constant vertical force of 100.
func typeTwoTrial() *extract.Extractor {
	root := testutil.ForcePlatformRoot(testutil.Platform{
		Type:     2,
		Channels: testutil.Sequence(1, 6),
		Corners:  testutil.SquareCorners(250),
	})
	analogs := testutil.ConstantChannels(10, []string{"FX1", "FY1", "FZ1", "MX1", "MY1", "MZ1"}, 0, 0, 100, 0, 0, 0)
	e := extract.NewExtractor()
	e.SetInput(root, analogs)
	return e
}

func TestEndToEndTypeTwo(t *testing.T) {
	for _, loc := range []Location{Origin, CenterOfPressure, PointOfWrenchApplication} {
		t.Run(loc.String(), func(t *testing.T) {
			e := typeTwoTrial()
			g := NewGroundReactionFilter()
			g.SetLocation(loc)
			g.SetInput(e.Output())
			g.Update()

			w := only(t, g.Output())
			assert.Equal(t, "GRW1", w.Label)
			require.Equal(t, 10, w.FrameNumber())
			for i := 0; i < 10; i++ {
				assertVec(t, r3.Vec{Z: 100}, w.Force.Vec(i), "frame %d", i)
				assertVec(t, r3.Vec{}, w.Position.Vec(i), "frame %d", i)
				assert.Equal(t, 0.0, w.Position.Residuals[i])
			}
		})
	}

	t.Run("platform wrench", func(t *testing.T) {
		e := typeTwoTrial()
		f := NewPlatformFilter()
		f.SetInput(e.Output())
		f.Update()
		w := only(t, f.Output())
		assert.Equal(t, "FPW1", w.Label)
		assertVec(t, r3.Vec{Z: 100}, w.Force.Vec(9))
	})
}

func TestUpdateReusesWrenches(t *testing.T) {
	e := typeTwoTrial()
	g := NewGroundReactionFilter()
	g.SetInput(e.Output())
	g.Update()

	w := only(t, g.Output())
	force := w.Force.Values
	snapshot := mat.DenseCopyOf(w.Force.Values)
	stamp := g.Output().Timestamp()

	g.Update()
	again := only(t, g.Output())
	assert.Same(t, w, again)
	assert.Same(t, force, again.Force.Values)
	assert.True(t, mat.Equal(snapshot, again.Force.Values))
	assert.Equal(t, stamp, g.Output().Timestamp())

	// A parameter change recomputes into the same objects.
	g.SetLocation(Origin)
	g.Update()
	assert.Same(t, w, only(t, g.Output()))
	assert.Greater(t, g.Output().Timestamp(), stamp)

	// An upstream change is pulled through the extractor.
	fz, err := e.AnalogInput().Item(2)
	require.NoError(t, err)
	fz.SetValues(make([]float64, 10))
	for i := range fz.Values {
		fz.Values[i] = 250
	}
	g.Update()
	assert.Same(t, w, only(t, g.Output()))
	assertVec(t, r3.Vec{Z: 250}, w.Force.Vec(4))
}

func TestPlatformCountChangeResizesOutput(t *testing.T) {
	a := descriptor(t, platform.Type2, squareCorners(250), r3.Vec{}, constant(3, 1), constant(3, 1), constant(3, 1), constant(3, 0), constant(3, 0), constant(3, 0))
	b := descriptor(t, platform.Type2, squareCorners(250), r3.Vec{}, constant(3, 2), constant(3, 2), constant(3, 2), constant(3, 0), constant(3, 0), constant(3, 0))

	in := platforms(a)
	f := NewPlatformFilter()
	f.SetInput(in)
	f.Update()
	first := only(t, f.Output())

	in.Append(b)
	f.Update()
	require.Equal(t, 2, f.Output().Len())
	kept, _ := f.Output().Item(0)
	assert.Same(t, first, kept)
	second, _ := f.Output().Item(1)
	assert.Equal(t, "FPW2", second.Label)
	assertVec(t, r3.Vec{X: 2, Y: 2, Z: 2}, second.Force.Vec(0))
}

func TestDownsample(t *testing.T) {
	w := New("GRW1", 10)
	for i := 0; i < 10; i++ {
		w.Force.SetVec(i, r3.Vec{X: float64(i), Z: 100})
		w.Position.Residuals[i] = float64(-(i % 3))
	}
	in := NewCollection()
	in.Append(w)

	d := NewDownsampleFilter()
	d.SetInput(in)
	d.SetRatio(2)
	d.Update()

	out := only(t, d.Output())
	require.Equal(t, 5, out.FrameNumber())
	assert.Equal(t, "GRW1", out.Label)
	assert.Equal(t, []float64{0, 2, 4, 6, 8}, out.Force.Col(0))
	assert.Equal(t, []float64{0, -2, -1, 0, -2}, out.Position.Residuals)

	d.SetRatio(3)
	d.Update()
	assert.Same(t, out, only(t, d.Output()))
	assert.Equal(t, []float64{0, 3, 6}, out.Force.Col(0))
}

func TestDownsampleRejectsInvalidRatio(t *testing.T) {
	ops := testutil.CaptureOps(t)
	d := NewDownsampleFilter()
	d.SetRatio(0)
	assert.Equal(t, 1, d.Ratio())
	assert.Contains(t, ops.String(), "invalid ratio 0 ignored")
}

func TestDirectionAngles(t *testing.T) {
	w := New("GRW1", 2)
	force := r3.Vec{X: 10, Y: -20, Z: 100}
	w.Force.SetVec(0, force)
	w.Force.SetVec(1, force)
	w.Position.Residuals[1] = -1
	in := NewCollection()
	in.Append(w)

	f := NewDirectionAngleFilter()
	f.SetInput(in)
	f.Update()

	require.Equal(t, 1, f.Output().Len())
	angles, err := f.Output().Item(0)
	require.NoError(t, err)
	assert.Equal(t, "GRW1.DA", angles.Label)

	deg := 180 / math.Pi
	want := r3.Vec{
		X: math.Atan2(-100, 20)*deg + 180,
		Y: math.Atan2(-100, -10)*deg + 180,
		Z: math.Atan2(20, -10)*deg + 180,
	}
	assertVec(t, want, angles.Vec(0))
	assert.Equal(t, 0.0, angles.Residuals[0])
	assert.Equal(t, -1.0, angles.Residuals[1])
	assert.Equal(t, r3.Vec{}, angles.Vec(1))
}

func TestDirectionAnglesOfGroundReaction(t *testing.T) {
	e := typeTwoTrial()
	g := NewGroundReactionFilter()
	g.SetInput(e.Output())
	f := NewDirectionAngleFilter()
	f.SetInput(g.Output())
	f.Update()

	angles, err := f.Output().Item(0)
	require.NoError(t, err)
	require.Equal(t, 10, angles.FrameNumber())
	// atan2(-100, -0) is -90 degrees.
	assert.InDelta(t, 90, angles.Vec(3).X, 1e-12)
	assert.InDelta(t, 90, angles.Vec(3).Y, 1e-12)
}
