package pipeline

import (
	"errors"
	"reflect"
	"sync/atomic"
)

// ErrIndexOutOfRange is returned by element accessors when the requested
// index lies outside the valid range. It signals API misuse rather than
// bad input data.
var ErrIndexOutOfRange = errors.New("index out of range")

var clock atomic.Uint64

// nextTimestamp returns a strictly increasing modification stamp.
func nextTimestamp() uint64 {
	return clock.Add(1)
}

// Modifier is anything that can be told one of its members changed.
type Modifier interface {
	Modified()
}

// Data is implemented by every value that flows through a pipeline.
// Concrete types satisfy it by embedding DataObject.
type Data interface {
	Modifier
	Timestamp() uint64
	Update()
	Source() *Process
	AddParent(p Modifier)
	RemoveParent(p Modifier)
	dataObject() *DataObject
}

// DataObject is the embeddable base of pipeline values.
type DataObject struct {
	timestamp uint64
	source    *Process   // producer, not owned
	parents   []Modifier // containers, not owned
}

// Timestamp returns the last modification stamp.
func (d *DataObject) Timestamp() uint64 {
	return d.timestamp
}

// Modified stamps the object and notifies every registered parent.
func (d *DataObject) Modified() {
	d.timestamp = nextTimestamp()
	for _, p := range d.parents {
		p.Modified()
	}
}

// Source returns the process that produced this object, or nil.
func (d *DataObject) Source() *Process {
	return d.source
}

// Update brings the object up to date by updating its producer.
// Objects without a producer are always up to date.
func (d *DataObject) Update() {
	if d.source != nil {
		d.source.Update()
	}
}

// AddParent registers p to be notified on every Modified call.
// Registering the same parent twice has no effect.
func (d *DataObject) AddParent(p Modifier) {
	for _, existing := range d.parents {
		if existing == p {
			return
		}
	}
	d.parents = append(d.parents, p)
}

// RemoveParent unregisters p.
func (d *DataObject) RemoveParent(p Modifier) {
	for i, existing := range d.parents {
		if existing == p {
			d.parents = append(d.parents[:i], d.parents[i+1:]...)
			return
		}
	}
}

// Parents returns the number of registered parents.
func (d *DataObject) Parents() int {
	return len(d.parents)
}

func (d *DataObject) dataObject() *DataObject {
	return d
}

// isNil reports whether d is nil or wraps a nil pointer.
func isNil(d Data) bool {
	if d == nil {
		return true
	}
	v := reflect.ValueOf(d)
	return v.Kind() == reflect.Pointer && v.IsNil()
}
