// registers.go - a debugger.RegisterSource adapter over z80.Registers, so
// conditional breakpoints and Lua scripts can read any named register
// without the debugger package depending on internal/z80 (spec.md §9
// conditional breakpoints; SPEC_FULL.md keeps internal/debugger engine-
// agnostic and pushes the z80-specific lookup here, in the package that
// already wires both together).
//
// (c) 2024 - 2026 Zayn Otley
// https://github.com/IntuitionAmiga/IntuitionEngine
// License: GPLv3 or later

package driver

import (
	"strings"

	"github.com/intuitionamiga/z80core/internal/debugger"
	"github.com/intuitionamiga/z80core/internal/z80"
)

// regSource adapts *z80.CPU to debugger.RegisterSource.
type regSource struct {
	cpu *z80.CPU
}

func (r regSource) Register(name string) (uint64, bool) {
	regs := &r.cpu.Regs
	switch strings.ToUpper(name) {
	case "A":
		return uint64(regs.A), true
	case "F":
		return uint64(regs.F), true
	case "B":
		return uint64(regs.B), true
	case "C":
		return uint64(regs.C), true
	case "D":
		return uint64(regs.D), true
	case "E":
		return uint64(regs.E), true
	case "H":
		return uint64(regs.H), true
	case "L":
		return uint64(regs.L), true
	case "IXH":
		return uint64(regs.IXH), true
	case "IXL":
		return uint64(regs.IXL), true
	case "IYH":
		return uint64(regs.IYH), true
	case "IYL":
		return uint64(regs.IYL), true
	case "I":
		return uint64(regs.I), true
	case "R":
		return uint64(regs.R), true
	case "AF":
		return uint64(regs.AF()), true
	case "BC":
		return uint64(regs.BC()), true
	case "DE":
		return uint64(regs.DE()), true
	case "HL":
		return uint64(regs.HL()), true
	case "AF'":
		return uint64(regs.AF2()), true
	case "BC'":
		return uint64(regs.BC2()), true
	case "DE'":
		return uint64(regs.DE2()), true
	case "HL'":
		return uint64(regs.HL2()), true
	case "IX":
		return uint64(regs.IX()), true
	case "IY":
		return uint64(regs.IY()), true
	case "SP":
		return uint64(regs.SP), true
	case "PC":
		return uint64(regs.PC), true
	case "MEMPTR", "WZ":
		return uint64(regs.MEMPTR), true
	case "IM":
		return uint64(r.cpu.IM), true
	case "IFF1":
		return boolToU64(r.cpu.IFF1), true
	case "IFF2":
		return boolToU64(r.cpu.IFF2), true
	case "HALTED":
		return boolToU64(r.cpu.Halted), true
	default:
		return 0, false
	}
}

func boolToU64(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}

// snapshot captures the current register file as a debugger.RegisterSnapshot,
// for the history ring and on-demand Debugger.Snapshot calls.
func snapshot(cpu *z80.CPU) debugger.RegisterSnapshot {
	r := &cpu.Regs
	return debugger.RegisterSnapshot{
		A: r.A, F: r.F, B: r.B, C: r.C, D: r.D, E: r.E, H: r.H, L: r.L,
		A2: r.A2, F2: r.F2, B2: r.B2, C2: r.C2, D2: r.D2, E2: r.E2, H2: r.H2, L2: r.L2,
		IX: r.IX(), IY: r.IY(),
		SP: r.SP, PC: r.PC, MEMPTR: r.MEMPTR,
		I: r.I, R: r.R,
		IFF1: cpu.IFF1, IFF2: cpu.IFF2, IM: cpu.IM, Halted: cpu.Halted,
	}
}
