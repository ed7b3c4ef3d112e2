package pipeline

import "github.com/banshee-data/forceplate/internal/monitoring"

// Generator is the filter-specific half of a Process.
type Generator interface {
	// GenerateData recomputes the outputs from the inputs.
	GenerateData()
	// MakeOutput allocates the default output for slot idx.
	MakeOutput(idx int) Data
}

// Process is the embeddable base of every filter. It tracks inputs,
// outputs and the timestamp of the last computation, and delegates the
// computation itself to its Generator.
type Process struct {
	name      string
	gen       Generator
	inputs    []Data
	outputs   []Data
	timestamp uint64
	modified  bool
	updating  bool
}

// NewProcess creates a process with no slots. Filters size their slots
// with SetInputNumber and SetOutputNumber right after construction.
func NewProcess(name string, gen Generator) *Process {
	return &Process{name: name, gen: gen}
}

// Name returns the name used in log messages.
func (p *Process) Name() string {
	return p.name
}

// Timestamp returns the stamp of the last computation or parameter change.
func (p *Process) Timestamp() uint64 {
	return p.timestamp
}

// Modified marks the process so the next Update recomputes its outputs.
func (p *Process) Modified() {
	p.modified = true
	p.timestamp = nextTimestamp()
}

// IsModified reports whether a parameter changed since the last computation.
func (p *Process) IsModified() bool {
	return p.modified
}

// ResetState clears the re-entrancy guard. Only needed if GenerateData
// panicked and the caller recovered.
func (p *Process) ResetState() {
	p.updating = false
}

// InputNumber returns the number of input slots.
func (p *Process) InputNumber() int {
	return len(p.inputs)
}

// ValidInputNumber returns the number of non-nil inputs.
func (p *Process) ValidInputNumber() int {
	count := 0
	for _, in := range p.inputs {
		if in != nil {
			count++
		}
	}
	return count
}

// SetInputNumber resizes the input slots.
func (p *Process) SetInputNumber(n int) {
	if n < 0 {
		opsf("%s: attempt to set the number of inputs to %d", p.name, n)
		n = 0
	}
	if n == len(p.inputs) {
		return
	}
	inputs := make([]Data, n)
	copy(inputs, p.inputs)
	p.inputs = inputs
	p.Modified()
}

// NthInput returns the input at idx, or nil when idx is out of range.
func (p *Process) NthInput(idx int) Data {
	if idx < 0 || idx >= len(p.inputs) {
		return nil
	}
	return p.inputs[idx]
}

// SetNthInput stores input at idx, growing the slots when needed. The
// process is marked modified only when the slot content changes.
func (p *Process) SetNthInput(idx int, input Data) {
	if isNil(input) {
		input = nil
	}
	if idx >= len(p.inputs) {
		inputs := make([]Data, idx+1)
		copy(inputs, p.inputs)
		p.inputs = inputs
	} else if p.inputs[idx] == input {
		return
	}
	p.inputs[idx] = input
	p.Modified()
}

// InputIndex returns the slot holding input, or -1.
func (p *Process) InputIndex(input Data) int {
	for i, in := range p.inputs {
		if in == input {
			return i
		}
	}
	return -1
}

// OutputNumber returns the number of output slots.
func (p *Process) OutputNumber() int {
	return len(p.outputs)
}

// SetOutputNumber resizes the output slots and fills every slot with a
// fresh object from the generator's MakeOutput.
func (p *Process) SetOutputNumber(n int) {
	if n < 0 {
		opsf("%s: attempt to set the number of outputs to %d", p.name, n)
		n = 0
	}
	if n == len(p.outputs) {
		return
	}
	for _, out := range p.outputs {
		if out != nil {
			out.dataObject().source = nil
		}
	}
	p.outputs = make([]Data, n)
	for i := range p.outputs {
		out := p.gen.MakeOutput(i)
		out.dataObject().source = p
		p.outputs[i] = out
	}
	p.Modified()
}

// NthOutput returns the output at idx, or nil when idx is out of range.
func (p *Process) NthOutput(idx int) Data {
	if idx < 0 || idx >= len(p.outputs) {
		return nil
	}
	return p.outputs[idx]
}

// SetNthOutput replaces the output at idx. A nil output is replaced by a
// new object from MakeOutput. The previous output is detached.
func (p *Process) SetNthOutput(idx int, output Data) {
	if isNil(output) {
		output = nil
	}
	if idx >= len(p.outputs) {
		outputs := make([]Data, idx+1)
		copy(outputs, p.outputs)
		p.outputs = outputs
	} else if output != nil && p.outputs[idx] == output {
		return
	}
	if old := p.outputs[idx]; old != nil {
		old.dataObject().source = nil
	}
	if output == nil {
		output = p.gen.MakeOutput(idx)
	}
	output.dataObject().source = p
	p.outputs[idx] = output
	p.Modified()
}

// OutputIndex returns the slot holding output, or -1.
func (p *Process) OutputIndex(output Data) int {
	for i, out := range p.outputs {
		if out == output {
			return i
		}
	}
	return -1
}

// Update refreshes every input and regenerates the outputs when any of
// them (or the process itself) changed since the last computation.
// Calling Update while an update of the same process is in progress is
// a no-op.
func (p *Process) Update() {
	if p.updating {
		return
	}
	p.updating = true
	defer func() { p.updating = false }()

	for _, in := range p.inputs {
		if in == nil {
			continue
		}
		in.Update()
		if in.Timestamp() >= p.timestamp {
			p.modified = true
		}
		if src := in.Source(); src != nil && src.timestamp >= p.timestamp {
			p.modified = true
		}
	}
	if !p.modified {
		tracef("%s: up to date (t=%d)", p.name, p.timestamp)
		return
	}

	p.gen.GenerateData()
	p.timestamp = nextTimestamp()
	p.modified = false
	for _, out := range p.outputs {
		if out != nil {
			out.Modified()
		}
	}
	tracef("%s: generated (t=%d)", p.name, p.timestamp)
}

func opsf(format string, args ...interface{}) {
	monitoring.Opsf("[pipeline] "+format, args...)
}

func tracef(format string, args ...interface{}) {
	monitoring.Tracef("[pipeline] "+format, args...)
}
