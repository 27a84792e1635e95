// driver.go - the Driver: owns a z80.CPU, its memory and I/O bus, and a
// Debugger, and runs the fetch-execute loop either one step at a time or
// freely in a background goroutine. Grounded on the teacher's
// CPUZ80Runner (a mutex-guarded execActive flag plus a done channel
// around a run goroutine), generalised from that machine-specific runner
// (which also owns VGA/Voodoo port routing this module has no use for,
// per spec.md §1's Non-goals) into a driver whose only device is whatever
// the caller attaches to the I/O bus. The run loop itself is coordinated
// with an errgroup.Group and a context.CancelFunc rather than the
// teacher's bare channel pair (DESIGN.md).
//
// (c) 2024 - 2026 Zayn Otley
// https://github.com/IntuitionAmiga/IntuitionEngine
// License: GPLv3 or later

// Package driver composes internal/z80, internal/memory, internal/iobus
// and internal/debugger into one runnable unit (spec C9): run/pause/
// resume/step/reset/NMI/interrupt, plus the supplemented execution
// history ring.
package driver

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/intuitionamiga/z80core/internal/debugger"
	"github.com/intuitionamiga/z80core/internal/disasm"
	"github.com/intuitionamiga/z80core/internal/iobus"
	"github.com/intuitionamiga/z80core/internal/memory"
	"github.com/intuitionamiga/z80core/internal/z80"
)

// Option configures a Driver at construction time.
type Option func(*Driver)

// WithHistorySize overrides the execution history ring's capacity
// (default DefaultHistorySize).
func WithHistorySize(n int) Option {
	return func(d *Driver) { d.History = NewHistory(n) }
}

// WithHistoryEnabled sets whether the history ring records from the
// start; it defaults to false so the hot path pays no cost unless a host
// opts in (SPEC_FULL.md "Supplemented Features").
func WithHistoryEnabled(enabled bool) Option {
	return func(d *Driver) { d.HistoryEnabled = enabled }
}

// WithClockHz sets the CPU's nominal clock rate (spec.md §9 Configuration).
func WithClockHz(hz uint64) Option {
	return func(d *Driver) { d.clockHz = hz }
}

// Driver owns one Z80 system: CPU, memory, I/O bus, and the debugger
// sitting on top of it. The zero value is not ready to use; call New.
type Driver struct {
	CPU *z80.CPU
	Mem *memory.Memory
	IO  *iobus.Bus

	Debugger debugger.Debugger

	History        *History
	HistoryEnabled bool

	clockHz uint64

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	group   *errgroup.Group
}

// New returns a Driver with a fresh 64KiB memory, an empty I/O bus, and a
// CPU already reset to its power-on state.
func New(opts ...Option) *Driver {
	d := &Driver{
		Mem:     memory.New(),
		IO:      iobus.New(),
		History: NewHistory(DefaultHistorySize),
	}
	for _, opt := range opts {
		opt(d)
	}
	cpuOpts := []z80.Option{}
	if d.clockHz != 0 {
		cpuOpts = append(cpuOpts, z80.WithClockHz(d.clockHz))
	}
	d.CPU = z80.New(d.Mem, d.IO, cpuOpts...)
	return d
}

// Reset restores the CPU to its power-on state (spec.md §3). Memory and
// attached I/O devices are untouched; the host decides whether to also
// call Mem.Reset().
func (d *Driver) Reset() {
	d.CPU.Reset()
}

// NMI requests a non-maskable interrupt, accepted at the next instruction
// boundary (spec.md §4.6).
func (d *Driver) NMI() {
	d.CPU.RequestNMI()
}

// Interrupt requests a maskable interrupt carrying data (the IM2 vector
// byte, or the RST opcode forced onto the bus in IM0), accepted at the
// next instruction boundary if IFF1 is set (spec.md §4.6).
func (d *Driver) Interrupt(data byte) {
	d.CPU.RequestIRQ(data)
}

// Step executes exactly one Step of the underlying CPU (which may be an
// interrupt acceptance, a HALT no-op, or a real instruction - spec.md
// §4.6), then runs the debugger's checks and, if enabled, records history.
func (d *Driver) Step() {
	prevPC := d.CPU.Regs.PC
	var opcode [4]byte
	m := disasm.Decode(d.Mem, prevPC)
	n := m.SizeBytes
	if n > len(opcode) {
		n = len(opcode)
	}
	for i := 0; i < n; i++ {
		opcode[i] = d.Mem.ReadByte(prevPC + uint16(i))
	}

	d.CPU.Step()

	d.Debugger.CheckAll(d.CPU.Regs.PC, d.CPU.Regs.SP, d.Mem, regSource{d.CPU})

	if d.HistoryEnabled {
		d.History.Push(HistoryEntry{
			PC: prevPC, Opcode: opcode, OpLen: n,
			Regs: snapshot(d.CPU), TStates: d.CPU.TStates,
		})
	}
}

// RecentHistory returns up to n of the most recently retired instructions,
// oldest first. Empty if HistoryEnabled was never set.
func (d *Driver) RecentHistory(n int) []HistoryEntry {
	return d.History.Recent(n)
}

// IsRunning reports whether a background Run loop is currently active.
func (d *Driver) IsRunning() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.running
}

// Run starts a background goroutine that calls Step repeatedly until
// Pause is called. A no-op if already running. The loop is managed
// through an errgroup.Group rather than a bare sync.WaitGroup, following
// the teacher's trap-loop/monitor split in its debug adapter: a single
// worker today, but the same group could absorb a second supervising
// goroutine (e.g. a watchdog) without changing Pause's shutdown protocol.
func (d *Driver) Run() {
	d.mu.Lock()
	if d.running {
		d.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	g, ctx := errgroup.WithContext(ctx)
	d.running = true
	d.cancel = cancel
	d.group = g
	d.mu.Unlock()

	g.Go(func() error {
		for ctx.Err() == nil {
			d.Step()
		}
		return nil
	})
}

// Pause stops a running background loop and waits for it to exit. A
// no-op if not running.
func (d *Driver) Pause() {
	d.mu.Lock()
	if !d.running {
		d.mu.Unlock()
		return
	}
	cancel, g := d.cancel, d.group
	d.running = false
	d.mu.Unlock()

	cancel()
	g.Wait()
}

// Resume is an alias for Run, named for symmetry with Pause (spec.md §9's
// run/pause/resume vocabulary).
func (d *Driver) Resume() {
	d.Run()
}
