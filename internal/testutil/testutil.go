// Package testutil provides shared fixtures for force platform tests:
// FORCE_PLATFORM configuration groups, synthetic analog channels and log
// capture.
package testutil

import (
	"bytes"
	"testing"

	"github.com/banshee-data/forceplate/internal/analog"
	"github.com/banshee-data/forceplate/internal/metadata"
	"github.com/banshee-data/forceplate/internal/monitoring"
)

// Platform describes one FORCE_PLATFORM column.
type Platform struct {
	Type     int
	Channels []int // 1-based analog indices
	Origin   [3]float64
	Corners  [12]float64
	Cal      []float64 // column-major, appended to CAL_MATRIX when set
}

// SquareCorners returns the corners of a plate centered on the world
// origin with the given half side, in C3D order.
func SquareCorners(half float64) [12]float64 {
	return [12]float64{
		half, half, 0,
		-half, half, 0,
		-half, -half, 0,
		half, -half, 0,
	}
}

// ForcePlatformRoot returns a configuration tree root holding a
// FORCE_PLATFORM group for the given platforms. The CHANNEL table has as
// many rows as the longest channel list; shorter columns are zero-padded.
func ForcePlatformRoot(platforms ...Platform) *metadata.Node {
	root := metadata.NewNode("ROOT")
	root.AppendChild(ForcePlatformGroup(platforms...))
	return root
}

// ForcePlatformGroup returns the FORCE_PLATFORM group alone.
func ForcePlatformGroup(platforms ...Platform) *metadata.Node {
	n := len(platforms)
	rows := 0
	for _, p := range platforms {
		if len(p.Channels) > rows {
			rows = len(p.Channels)
		}
	}

	types := make([]int, n)
	channels := make([]int, rows*n)
	origins := make([]float64, 0, 3*n)
	corners := make([]float64, 0, 12*n)
	var cal []float64
	for i, p := range platforms {
		types[i] = p.Type
		copy(channels[i*rows:], p.Channels)
		origins = append(origins, p.Origin[:]...)
		corners = append(corners, p.Corners[:]...)
		cal = append(cal, p.Cal...)
	}

	group := metadata.NewNode("FORCE_PLATFORM")
	group.AppendChild(metadata.NewValueNode("USED", metadata.ScalarInt(n)))
	group.AppendChild(metadata.NewValueNode("TYPE", metadata.NewInts([]int{n}, types)))
	group.AppendChild(metadata.NewValueNode("CHANNEL", metadata.NewInts([]int{rows, n}, channels)))
	group.AppendChild(metadata.NewValueNode("ORIGIN", metadata.NewFloats([]int{3, n}, origins)))
	group.AppendChild(metadata.NewValueNode("CORNERS", metadata.NewFloats([]int{3, 4, n}, corners)))
	if len(cal) > 0 {
		group.AppendChild(metadata.NewValueNode("CAL_MATRIX", metadata.NewFloats([]int{len(cal)}, cal)))
	}
	return group
}

// Sequence returns the 1-based indices first, first+1, ..., first+count-1.
func Sequence(first, count int) []int {
	out := make([]int, count)
	for i := range out {
		out[i] = first + i
	}
	return out
}

// ConstantChannels returns one channel per value, each holding frames
// copies of that value. Channels are labelled with labels when given.
func ConstantChannels(frames int, labels []string, values ...float64) *analog.Collection {
	col := analog.NewCollection()
	for i, v := range values {
		label := ""
		if i < len(labels) {
			label = labels[i]
		}
		c := analog.New(label, frames)
		for f := range c.Values {
			c.Values[f] = v
		}
		col.Append(c)
	}
	return col
}

// CaptureOps redirects the ops log stream into the returned buffer for
// the duration of the test. Tests using it must not run in parallel.
func CaptureOps(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	monitoring.SetLogWriters(monitoring.LogWriters{Ops: &buf})
	t.Cleanup(func() { monitoring.SetLogWriters(monitoring.LogWriters{}) })
	return &buf
}

// CaptureDiag redirects the diag log stream into the returned buffer for
// the duration of the test.
func CaptureDiag(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	monitoring.SetLogWriters(monitoring.LogWriters{Diag: &buf})
	t.Cleanup(func() { monitoring.SetLogWriters(monitoring.LogWriters{}) })
	return &buf
}
