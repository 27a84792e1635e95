// script.go - scriptable breakpoint conditions, embedding gopher-lua.
// Generalises the teacher's hand-rolled condition grammar
// (_teacher_debug_conditions.go.ref) into an arbitrary Lua predicate with
// reg()/mem()/hitcount() host functions, per SPEC_FULL.md's DOMAIN STACK
// section.
//
// (c) 2024 - 2026 Zayn Otley
// https://github.com/IntuitionAmiga/IntuitionEngine
// License: GPLv3 or later

package debugger

import (
	"log"

	lua "github.com/yuin/gopher-lua"
)

// Script is a Lua predicate attached to a breakpoint in addition to its
// base condition. It is pure from the host's perspective: each Evaluate
// runs in a fresh interpreter state seeded only with reg/mem/hitcount.
type Script struct {
	Source string
}

// NewScript wraps src, a Lua chunk that returns a boolean such as
// "return reg('A') == 0xFF and mem(0x4000) ~= 0", for later evaluation.
func NewScript(src string) *Script { return &Script{Source: src} }

// Evaluate runs the script against live CPU state and returns its boolean
// result. A script error is logged and treated as false, so a broken
// script silently disables its breakpoint rather than crashing the
// driver loop (spec.md §7's "must not panic during normal execution"
// extended to this additive feature).
func (s *Script) Evaluate(regs RegisterSource, mem MemoryReader, hitCount int) bool {
	L := lua.NewState()
	defer L.Close()

	L.SetGlobal("reg", L.NewFunction(func(L *lua.LState) int {
		name := L.CheckString(1)
		v, ok := regs.Register(name)
		if !ok {
			L.Push(lua.LNil)
			return 1
		}
		L.Push(lua.LNumber(v))
		return 1
	}))
	L.SetGlobal("mem", L.NewFunction(func(L *lua.LState) int {
		addr := L.CheckInt(1)
		L.Push(lua.LNumber(mem.ReadByte(uint16(addr))))
		return 1
	}))
	L.SetGlobal("hitcount", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LNumber(hitCount))
		return 1
	}))

	if err := L.DoString("return (function()\n" + s.Source + "\nend)()"); err != nil {
		log.Printf("debugger: breakpoint script error: %v", err)
		return false
	}

	ret := L.Get(-1)
	return lua.LVAsBool(ret)
}
