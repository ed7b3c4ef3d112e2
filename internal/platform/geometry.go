package platform

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

// degenerateEdge is the minimum corner edge length for which the
// platform frame can be built.
const degenerateEdge = 1e-12

// Frame returns the rigid transform from the platform frame to the
// global frame described by the four corners, given in C3D order around
// the working surface.
//
// The columns of rot are the platform axes in global coordinates: x
// along the edge from corner 1 to corner 0, z normal to the surface
// (x × (corner0 − corner3)), y = z × x. The translation is the surface
// center, midpoint of corners 0 and 2. ok is false when the corners do
// not span a surface; rot is then the identity.
func Frame(c [4]r3.Vec) (rot *mat.Dense, t r3.Vec, ok bool) {
	t = r3.Scale(0.5, r3.Add(c[0], c[2]))
	edgeX := r3.Sub(c[0], c[1])
	edgeY := r3.Sub(c[0], c[3])
	if r3.Norm(edgeX) < degenerateEdge || r3.Norm(edgeY) < degenerateEdge {
		return identity(3, 3), t, false
	}
	x := r3.Unit(edgeX)
	zRaw := r3.Cross(x, edgeY)
	if r3.Norm(zRaw) < degenerateEdge {
		return identity(3, 3), t, false
	}
	z := r3.Unit(zRaw)
	y := r3.Cross(z, x)
	rot = mat.NewDense(3, 3, []float64{
		x.X, y.X, z.X,
		x.Y, y.Y, z.Y,
		x.Z, y.Z, z.Z,
	})
	return rot, t, true
}

// HalfExtents returns the half-width and half-length of the sensing
// surface: the magnitude of corner 0's x and y coordinates in the
// platform frame, measured from the surface center.
func HalfExtents(c [4]r3.Vec) (halfX, halfY float64) {
	rot, t, ok := Frame(c)
	if !ok {
		return math.Abs(c[0].X), math.Abs(c[0].Y)
	}
	d := r3.Sub(c[0], t)
	x := r3.Vec{X: rot.At(0, 0), Y: rot.At(1, 0), Z: rot.At(2, 0)}
	y := r3.Vec{X: rot.At(0, 1), Y: rot.At(1, 1), Z: rot.At(2, 1)}
	return math.Abs(r3.Dot(d, x)), math.Abs(r3.Dot(d, y))
}
