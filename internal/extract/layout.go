package extract

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/forceplate/internal/metadata"
	"github.com/banshee-data/forceplate/internal/platform"
)

// Field labels of the FORCE_PLATFORM group.
const (
	GroupLabel     = "FORCE_PLATFORM"
	UsedLabel      = "USED"
	TypeLabel      = "TYPE"
	ChannelLabel   = "CHANNEL"
	OriginLabel    = "ORIGIN"
	CornersLabel   = "CORNERS"
	CalMatrixLabel = "CAL_MATRIX"
)

// layout is the decoded content of a FORCE_PLATFORM group.
type layout struct {
	types []platform.Type

	// channel index table, one column of rows entries per platform
	channels []int
	rows     int

	origin  []float64 // nil when ORIGIN is absent
	corners []float64 // nil when CORNERS is absent
	cal     []float64 // nil when CAL_MATRIX is absent
}

func (l *layout) platformNumber() int {
	return len(l.types)
}

// readLayout decodes the group. ok is false when the channel table is
// missing or malformed; the error has been logged.
func readLayout(group *metadata.Node) (*layout, bool) {
	n := 0
	if v := fieldValue(group, UsedLabel); v != nil && v.Len() > 0 {
		n = v.Ints()[0]
	}
	if n < 0 {
		opsf("%s:%s is negative (%d); no force platform extracted", GroupLabel, UsedLabel, n)
		n = 0
	}

	types := make([]int, n)
	for i := range types {
		types[i] = int(platform.Type1)
	}
	if v := fieldValue(group, TypeLabel); v != nil {
		declared := v.Ints()
		switch {
		case len(declared) < n:
			opsf("%s:%s (%d) and %s:%s (%d) disagree; the lower count is kept, %s truncated",
				GroupLabel, UsedLabel, n, GroupLabel, TypeLabel, len(declared), UsedLabel)
			n = len(declared)
		case len(declared) > n:
			opsf("%s:%s (%d) and %s:%s (%d) disagree; the lower count is kept, %s truncated",
				GroupLabel, UsedLabel, n, GroupLabel, TypeLabel, len(declared), TypeLabel)
		}
		types = declared[:n]
	}

	l := &layout{types: make([]platform.Type, n)}
	for i, t := range types {
		l.types[i] = platform.Type(t)
	}
	if n == 0 {
		return l, true
	}

	channelNode, found := group.FindChild(ChannelLabel)
	if !found || channelNode.Value() == nil {
		opsf("no %s:%s entry; impossible to extract the analog channels of the force platforms", GroupLabel, ChannelLabel)
		return nil, false
	}
	dims := channelNode.Value().Dims()
	if len(dims) != 2 {
		opsf("%s:%s must be a 2-D array (channel slot x platform), got %d dimension(s)", GroupLabel, ChannelLabel, len(dims))
		return nil, false
	}
	l.rows = dims[0]
	l.channels = channelNode.Value().Ints()

	if v := fieldValue(group, OriginLabel); v != nil {
		l.origin = v.Floats()
	} else {
		opsf("no %s:%s entry; default values are used", GroupLabel, OriginLabel)
	}
	if v := fieldValue(group, CornersLabel); v != nil {
		l.corners = v.Floats()
	} else {
		opsf("no %s:%s entry; default values are used", GroupLabel, CornersLabel)
	}
	if v := fieldValue(group, CalMatrixLabel); v != nil {
		l.cal = v.Floats()
	}
	return l, true
}

// channelIndices returns the 1-based analog indices of platform idx, or
// false when the table has no complete column for it.
func (l *layout) channelIndices(idx, count int) ([]int, bool) {
	if count > l.rows {
		return nil, false
	}
	start := idx * l.rows
	if start+count > len(l.channels) {
		return nil, false
	}
	return l.channels[start : start+count], true
}

func (l *layout) originOf(idx int) (r3.Vec, bool) {
	if len(l.origin) < 3*(idx+1) {
		return r3.Vec{}, false
	}
	o := l.origin[3*idx:]
	return r3.Vec{X: o[0], Y: o[1], Z: o[2]}, true
}

func (l *layout) cornersOf(idx int) ([4]r3.Vec, bool) {
	var c [4]r3.Vec
	if len(l.corners) < 12*(idx+1) {
		return c, false
	}
	v := l.corners[12*idx:]
	for i := range c {
		c[i] = r3.Vec{X: v[3*i], Y: v[3*i+1], Z: v[3*i+2]}
	}
	return c, true
}

func fieldValue(group *metadata.Node, label string) *metadata.Value {
	n, ok := group.FindChild(label)
	if !ok {
		return nil
	}
	return n.Value()
}
