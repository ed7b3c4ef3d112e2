// Package platform describes force platforms: their type-specific channel
// layout, calibration matrix shape, and the geometry of the sensing
// surface.
package platform

import "fmt"

// Type is the numeric platform type tag stored in FORCE_PLATFORM:TYPE.
type Type int

const (
	Type1  Type = 1  // Fx, Fy, Fz, Px, Py, Tz
	Type2  Type = 2  // AMTI: Fx, Fy, Fz, Mx, My, Mz
	Type3  Type = 3  // Kistler: FX12, FX34, FY14, FY23, FZ1..FZ4
	Type4  Type = 4  // Type 2 with a 6×6 calibration matrix
	Type5  Type = 5  // 8 raw channels calibrated into 6 components
	Type6  Type = 6  // 12 raw channels
	Type7  Type = 7  // Kistler with calibration matrix
	Type11 Type = 11 // Kistler split-belt treadmill
	Type12 Type = 12 // Gaitway treadmill
	Type21 Type = 21 // AMTI stairs
)

// Family groups platform types that share a wrench formula.
type Family int

const (
	FamilyNone Family = iota
	FamilyTypeI
	FamilyAMTI
	FamilyKistler
)

// TypeInfo is the fixed layout of a platform type.
type TypeInfo struct {
	// Channels is the number of analog channels the platform reads.
	Channels int
	// CalRows is the number of calibrated components (rows of the
	// calibration matrix). The matrix always has Channels columns.
	CalRows int
	// Supported is false for types that are recognized but cannot be
	// extracted or computed yet.
	Supported bool
	Family    Family
}

var typeTable = map[Type]TypeInfo{
	Type1:  {Channels: 6, CalRows: 6, Supported: true, Family: FamilyTypeI},
	Type2:  {Channels: 6, CalRows: 6, Supported: true, Family: FamilyAMTI},
	Type3:  {Channels: 8, CalRows: 8, Supported: true, Family: FamilyKistler},
	Type4:  {Channels: 6, CalRows: 6, Supported: true, Family: FamilyAMTI},
	Type5:  {Channels: 8, CalRows: 6, Supported: true, Family: FamilyAMTI},
	Type6:  {Channels: 12, CalRows: 12},
	Type7:  {Channels: 8, CalRows: 8},
	Type11: {Channels: 8, CalRows: 8},
	Type12: {Channels: 8, CalRows: 8},
	Type21: {Channels: 8, CalRows: 8},
}

// Info returns the layout of t and whether t is a recognized type.
func Info(t Type) (TypeInfo, bool) {
	info, ok := typeTable[t]
	return info, ok
}

// Known reports whether t is a recognized type.
func (t Type) Known() bool {
	_, ok := typeTable[t]
	return ok
}

// Supported reports whether t can be extracted and computed.
func (t Type) Supported() bool {
	return typeTable[t].Supported
}

// RequiresCalibration reports whether raw values must go through the
// calibration matrix before they are forces and moments.
func (t Type) RequiresCalibration() bool {
	return t > Type3
}

func (t Type) String() string {
	return fmt.Sprintf("type %d", int(t))
}
