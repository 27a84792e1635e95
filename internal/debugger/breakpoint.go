// breakpoint.go - the typed breakpoint registry (spec C7), grounded on the
// teacher's DebuggableCPU/BreakpointEvent model in
// _teacher_debug_interface.go.ref and the freeze/check loop in
// _teacher_debug_cpu_z80.go.ref, generalised from the teacher's single
// address-equality breakpoint kind into the three variants spec.md §3
// names.
//
// (c) 2024 - 2026 Zayn Otley
// https://github.com/IntuitionAmiga/IntuitionEngine
// License: GPLv3 or later

// Package debugger implements the breakpoint engine (C7) and memory-watch
// engine (C8) that sit on top of a running z80.CPU: typed breakpoints with
// observer dispatch, and typed live readouts of memory.
package debugger

// BreakpointKind is the breakpoint sum type's tag (spec.md §3).
type BreakpointKind int

const (
	ProgramCounter BreakpointKind = iota
	StackPointerBelow
	MemoryChanged
)

// Breakpoint is the value half of the sum type: variant + address (+ width
// for MemoryChanged). Equality is structural (spec.md §3).
type Breakpoint struct {
	Kind    BreakpointKind
	Address uint16
	Width   int // 1, 2, 4, or 8; only meaningful for MemoryChanged
}

func (b Breakpoint) Equal(o Breakpoint) bool {
	if b.Kind != o.Kind || b.Address != o.Address {
		return false
	}
	if b.Kind == MemoryChanged {
		return b.Width == o.Width
	}
	return true
}

// Handle is a stable identifier for a registered breakpoint, valid until
// Remove or ClearAll.
type Handle uint64

// BreakpointEvent is delivered to observers when a breakpoint fires.
type BreakpointEvent struct {
	Handle     Handle
	Breakpoint Breakpoint
	PC         uint16
}

// Observer receives breakpoint notifications. Implementations must not
// block (spec.md §5): dispatch happens synchronously on the driver thread.
type Observer interface {
	OnBreakpoint(event BreakpointEvent)
}

// MemoryReader is the minimal capability CheckAll needs to evaluate
// MemoryChanged breakpoints. internal/memory.Memory satisfies it.
type MemoryReader interface {
	ReadByte(addr uint16) byte
}

type breakpointEntry struct {
	bp        Breakpoint
	enabled   bool
	observers []Observer
	hasPrev   bool
	prevValue uint64

	// Supplemented: an optional condition and/or Lua script gating whether
	// a fired breakpoint actually notifies observers (spec.md §9). Plain
	// breakpoints (the common case, both fields nil) behave exactly as
	// spec.md §4.7 specifies.
	condition *Condition
	script    *Script
	hitCount  int
}

// Breakpoints is the breakpoint registry (C7). The zero value is ready to
// use.
type Breakpoints struct {
	entries map[Handle]*breakpointEntry
	order   []Handle
	next    Handle
}

// Add registers bp (enabled by default) and returns a stable handle. The
// engine allows duplicate breakpoints; rejecting duplicates, if wanted, is
// the caller's policy (spec.md §4.7).
func (r *Breakpoints) Add(bp Breakpoint) Handle {
	if r.entries == nil {
		r.entries = make(map[Handle]*breakpointEntry)
	}
	r.next++
	h := r.next
	r.entries[h] = &breakpointEntry{bp: bp, enabled: true}
	r.order = append(r.order, h)
	return h
}

func (r *Breakpoints) Remove(h Handle) {
	if _, ok := r.entries[h]; !ok {
		return
	}
	delete(r.entries, h)
	for i, oh := range r.order {
		if oh == h {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

func (r *Breakpoints) Enable(h Handle) {
	if e, ok := r.entries[h]; ok {
		e.enabled = true
	}
}

func (r *Breakpoints) Disable(h Handle) {
	if e, ok := r.entries[h]; ok {
		e.enabled = false
	}
}

func (r *Breakpoints) ClearAll() {
	r.entries = make(map[Handle]*breakpointEntry)
	r.order = nil
}

// Get returns the breakpoint registered under h and whether it exists.
func (r *Breakpoints) Get(h Handle) (Breakpoint, bool) {
	e, ok := r.entries[h]
	if !ok {
		return Breakpoint{}, false
	}
	return e.bp, true
}

// List returns every registered breakpoint in registration order, for
// host display.
func (r *Breakpoints) List() []Breakpoint {
	out := make([]Breakpoint, 0, len(r.order))
	for _, h := range r.order {
		out = append(out, r.entries[h].bp)
	}
	return out
}

// AddObserver registers observer o against h. A nil observer is rejected
// as a no-op rather than panicking (spec.md §7).
func (r *Breakpoints) AddObserver(h Handle, o Observer) {
	if o == nil {
		return
	}
	if e, ok := r.entries[h]; ok {
		e.observers = append(e.observers, o)
	}
}

func (r *Breakpoints) RemoveObserver(h Handle, o Observer) {
	e, ok := r.entries[h]
	if !ok {
		return
	}
	for i, obs := range e.observers {
		if obs == o {
			e.observers = append(e.observers[:i], e.observers[i+1:]...)
			return
		}
	}
}

// AttachCondition gates handle h's notifications on cond in addition to
// its base predicate (spec.md §9 "Supplemented Features"). Pass nil to
// clear.
func (r *Breakpoints) AttachCondition(h Handle, cond *Condition) {
	if e, ok := r.entries[h]; ok {
		e.condition = cond
	}
}

// AttachScript gates handle h's notifications on a Lua predicate in
// addition to its base predicate. Pass nil to clear.
func (r *Breakpoints) AttachScript(h Handle, script *Script) {
	if e, ok := r.entries[h]; ok {
		e.script = script
	}
}

// HitCount returns how many times handle h's base predicate has fired.
func (r *Breakpoints) HitCount(h Handle) int {
	if e, ok := r.entries[h]; ok {
		return e.hitCount
	}
	return 0
}

// CheckAll evaluates every enabled breakpoint's predicate against the
// current CPU state, in registration order, notifying observers
// synchronously for each that fires (spec.md §4.7). regs is consulted
// only by breakpoints carrying an attached register-based condition or
// script; pass nil when none are in use.
func (r *Breakpoints) CheckAll(pc, sp uint16, mem MemoryReader, regs RegisterSource) {
	for _, h := range r.order {
		e := r.entries[h]
		if !e.enabled {
			continue
		}
		if !e.check(pc, sp, mem) {
			continue
		}
		e.hitCount++

		if e.condition != nil && !e.condition.Evaluate(regs, mem, e.hitCount) {
			continue
		}
		if e.script != nil && !e.script.Evaluate(regs, mem, e.hitCount) {
			continue
		}

		event := BreakpointEvent{Handle: h, Breakpoint: e.bp, PC: pc}
		for _, o := range e.observers {
			o.OnBreakpoint(event)
		}
	}
}

func (e *breakpointEntry) check(pc, sp uint16, mem MemoryReader) bool {
	switch e.bp.Kind {
	case ProgramCounter:
		return pc == e.bp.Address
	case StackPointerBelow:
		return sp < e.bp.Address
	default:
		return e.checkMemoryChanged(mem)
	}
}

// checkMemoryChanged never fires on its first evaluation (no previous
// value exists yet), per spec.md §3's invariant (b).
func (e *breakpointEntry) checkMemoryChanged(mem MemoryReader) bool {
	value := readWidthLE(mem, e.bp.Address, e.bp.Width)
	hadPrev := e.hasPrev
	changed := hadPrev && value != e.prevValue
	e.prevValue = value
	e.hasPrev = true
	return changed
}

func readWidthLE(mem MemoryReader, addr uint16, width int) uint64 {
	var v uint64
	for i := 0; i < width; i++ {
		v |= uint64(mem.ReadByte(addr+uint16(i))) << (8 * uint(i))
	}
	return v
}
