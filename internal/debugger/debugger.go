// debugger.go - the Debugger facade: a single entry point composing the
// breakpoint registry (C7), the watch registry (C8), snapshots, and
// backtrace, grounded on the teacher's DebuggableCPU surface in
// _teacher_debug_interface.go.ref - generalised from that per-CPU-kind
// interface into a single facade over one concrete z80.CPU, since this
// module targets exactly one CPU family (spec.md's Non-goals exclude
// multi-architecture support).
//
// (c) 2024 - 2026 Zayn Otley
// https://github.com/IntuitionAmiga/IntuitionEngine
// License: GPLv3 or later

package debugger

// Debugger ties the breakpoint and watch registries to one running CPU.
// The zero value is ready to use.
type Debugger struct {
	Breakpoints Breakpoints
	Watches     Watches
}

// CheckAll runs the breakpoint registry's checks against current CPU
// state (spec.md §4.7), to be called by the driver after every z80.CPU.Step.
func (d *Debugger) CheckAll(pc, sp uint16, mem MemoryReader, regs RegisterSource) {
	d.Breakpoints.CheckAll(pc, sp, mem, regs)
}

// RenderWatches renders every registered watch against mem, for host
// display (spec.md §4.8).
func (d *Debugger) RenderWatches(mem MemoryReader) map[Handle]string {
	return d.Watches.RenderAll(mem)
}

// Snapshot captures the full register file plus a memory window starting
// at base, for host inspection (SPEC_FULL.md "Supplemented Features"). The
// driver's history ring records RegisterSnapshot values, not these.
func (d *Debugger) Snapshot(regs RegisterSnapshot, tstates uint64, mem MemoryReader, base uint16, length int) MachineSnapshot {
	return CaptureWindow(regs, tstates, mem, base, length)
}

// Backtrace walks the stack from sp upward for up to depth candidate
// return addresses (SPEC_FULL.md "Supplemented Features - Backtrace").
func (d *Debugger) Backtrace(mem MemoryReader, sp uint16, depth int) []uint16 {
	return Backtrace(mem, sp, depth)
}
