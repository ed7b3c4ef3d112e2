package wrench

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/forceplate/internal/platform"
)

// Location selects the point at which a ground reaction wrench is
// reported.
type Location int

const (
	// Origin reports the wrench at the center of the working surface.
	Origin Location = iota
	// CenterOfPressure reports the wrench at the point where the
	// horizontal moments vanish.
	CenterOfPressure
	// PointOfWrenchApplication reports the wrench at the point computed
	// by Shimba (1984), accounting for all force and moment components.
	PointOfWrenchApplication
)

func (l Location) String() string {
	switch l {
	case Origin:
		return "origin"
	case CenterOfPressure:
		return "cop"
	case PointOfWrenchApplication:
		return "pwa"
	default:
		return fmt.Sprintf("location(%d)", int(l))
	}
}

// ParseLocation accepts "origin", "cop" or "pwa" (case-insensitive).
func ParseLocation(s string) (Location, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "origin":
		return Origin, nil
	case "cop", "center_of_pressure":
		return CenterOfPressure, nil
	case "pwa", "point_of_wrench_application":
		return PointOfWrenchApplication, nil
	}
	return Origin, fmt.Errorf("unknown ground reaction location %q", s)
}

// GroundReactionFilter computes ground reaction wrenches (GRW1, GRW2, ...)
// located at the platform origin, the center of pressure or the point of
// wrench application. Frames whose location is ill-conditioned (zero
// force, or |Fz| at or below the threshold when it is enabled) get a zero
// position and a position residual of -1.
type GroundReactionFilter struct {
	*PlatformFilter
	location    Location
	thresholdOn bool
	threshold   float64
}

// NewGroundReactionFilter returns a filter locating the wrench at the
// point of wrench application, with thresholding disabled.
func NewGroundReactionFilter() *GroundReactionFilter {
	g := &GroundReactionFilter{location: PointOfWrenchApplication}
	g.PlatformFilter = newPlatformFilter("ground-reaction-wrench", "GRW")
	g.finish = finishTable{
		platform.FamilyTypeI:   g.finishTypeI,
		platform.FamilyAMTI:    g.finishAMTI,
		platform.FamilyKistler: g.finishKistler,
	}
	return g
}

// SetLocation selects the reported point.
func (g *GroundReactionFilter) SetLocation(l Location) {
	if g.location == l {
		return
	}
	g.location = l
	g.Modified()
}

// Location returns the reported point.
func (g *GroundReactionFilter) Location() Location {
	return g.location
}

// SetThresholdState enables or disables the |Fz| threshold.
func (g *GroundReactionFilter) SetThresholdState(on bool) {
	if g.thresholdOn == on {
		return
	}
	g.thresholdOn = on
	g.Modified()
}

// ThresholdState reports whether the threshold is enabled.
func (g *GroundReactionFilter) ThresholdState() bool {
	return g.thresholdOn
}

// SetThresholdValue sets the |Fz| value at or below which the location of
// a frame is suppressed. It is compared with |Fz|, so a negative value
// has no effect.
func (g *GroundReactionFilter) SetThresholdValue(v float64) {
	if math.Abs(g.threshold-v) <= epsilon {
		return
	}
	if v < 0 {
		opsf("negative threshold (%g) has no effect: it is compared with the absolute value of Fz", v)
	}
	g.threshold = v
	g.Modified()
}

// ThresholdValue returns the threshold.
func (g *GroundReactionFilter) ThresholdValue() float64 {
	return g.threshold
}

// epsilon is the machine epsilon for float64.
const epsilon = 2.220446049250313e-16

func (g *GroundReactionFilter) finishTypeI(*Wrench, *platform.Descriptor, int) {
	// The type I position is already the measured center of pressure.
}

func (g *GroundReactionFilter) finishAMTI(w *Wrench, d *platform.Descriptor, idx int) {
	g.locate(w, surfaceOffset(d.Origin(), idx))
}

func (g *GroundReactionFilter) finishKistler(w *Wrench, d *platform.Descriptor, idx int) {
	// The horizontal offset is already part of the corner geometry used
	// by the Kistler formulas.
	g.locate(w, surfaceOffset(r3.Vec{Z: d.Origin().Z}, idx))
}

// surfaceOffset returns the vector from the platform origin to the center
// of the working surface. A positive vertical component means the origin
// was given from the surface toward the sensor, so it is inverted.
func surfaceOffset(o r3.Vec, idx int) r3.Vec {
	if o.Z > 0 {
		opsf("origin of force platform #%d seems to be located from the center of the working surface (positive vertical offset); the opposite is used", idx+1)
		return r3.Scale(-1, o)
	}
	return o
}

func (g *GroundReactionFilter) suppressed(f r3.Vec) bool {
	return g.thresholdOn && math.Abs(f.Z) <= g.threshold
}

// locate transfers the moment to the working surface and then to the
// selected point.
func (g *GroundReactionFilter) locate(w *Wrench, o r3.Vec) {
	for i := 0; i < w.FrameNumber(); i++ {
		f := w.Force.Vec(i)
		// M_s = M_o + F × OS
		m := r3.Add(w.Moment.Vec(i), r3.Cross(f, o))
		var p r3.Vec

		switch g.location {
		case CenterOfPressure:
			if f.Z == 0 || g.suppressed(f) {
				w.Position.Residuals[i] = -1
			} else {
				p = r3.Vec{X: -m.Y / f.Z, Y: m.X / f.Z}
			}
			m = r3.Add(m, r3.Cross(f, p))
			m.X, m.Y = 0, 0
		case PointOfWrenchApplication:
			p = pwa(f, m)
			if r3.Norm2(f) == 0 || g.suppressed(f) || !finite(p) {
				p = r3.Vec{}
				w.Position.Residuals[i] = -1
			}
			// M_pwa = M_s + F × PWA
			m = r3.Add(m, r3.Cross(f, p))
		}

		w.Moment.SetVec(i, m)
		w.Position.SetVec(i, p)
	}
}

func finite(p r3.Vec) bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) && !math.IsNaN(p.Y) && !math.IsInf(p.Y, 0)
}

// pwa returns the point of wrench application (Shimba T., "An estimation
// of center of gravity from force platform data", J. Biomech. 17(1),
// 1984) in the surface plane.
func pwa(f, m r3.Vec) r3.Vec {
	s := r3.Norm2(f)
	return r3.Vec{
		X: (f.Y*m.Z-f.Z*m.Y)/s - (f.X*f.X*m.Y-f.X*f.Y*m.X)/(s*f.Z),
		Y: (f.Z*m.X-f.X*m.Z)/s - (f.X*f.Y*m.Y-f.Y*f.Y*m.X)/(s*f.Z),
	}
}
