// snapshot.go - an in-memory machine snapshot: the full register file
// plus a configurable memory window. Grounded on the teacher's
// _teacher_debug_snapshot.go.ref, but deliberately NOT a file format -
// spec.md §1 excludes on-disk snapshot formats; this is a pure value type
// a host can inspect (SPEC_FULL.md "Supplemented Features").
//
// (c) 2024 - 2026 Zayn Otley
// https://github.com/IntuitionAmiga/IntuitionEngine
// License: GPLv3 or later

package debugger

// RegisterSnapshot is a flat, typed copy of the Z80 register file at one
// instant, for host display (spec.md §6 "Registers snapshot (typed
// struct)").
type RegisterSnapshot struct {
	A, F   byte
	B, C   byte
	D, E   byte
	H, L   byte
	A2, F2 byte
	B2, C2 byte
	D2, E2 byte
	H2, L2 byte
	IX, IY uint16
	SP, PC uint16
	MEMPTR uint16
	I, R   byte
	IFF1   bool
	IFF2   bool
	IM     byte
	Halted bool
}

// MachineSnapshot pairs a register snapshot with a window of memory
// around a point of interest (typically PC).
type MachineSnapshot struct {
	Registers  RegisterSnapshot
	MemBase    uint16
	MemWindow  []byte
	TStates    uint64
}

// CaptureWindow copies length bytes starting at base from mem into a new
// MachineSnapshot's memory window, wrapping across the 0xFFFF/0x0000
// boundary the same way internal/memory.Memory.ReadBytes does.
func CaptureWindow(regs RegisterSnapshot, tstates uint64, mem MemoryReader, base uint16, length int) MachineSnapshot {
	window := make([]byte, length)
	for i := 0; i < length; i++ {
		window[i] = mem.ReadByte(base + uint16(i))
	}
	return MachineSnapshot{Registers: regs, MemBase: base, MemWindow: window, TStates: tstates}
}
