// script_test.go
//
// (c) 2024 - 2026 Zayn Otley
// https://github.com/IntuitionAmiga/IntuitionEngine
// License: GPLv3 or later

package debugger

import "testing"

func TestScriptEvaluatesRegisterPredicate(t *testing.T) {
	s := NewScript("return reg('A') == 255")
	regs := fakeRegs{values: map[string]uint64{"A": 255}}
	if !s.Evaluate(regs, &fakeMem{}, 0) {
		t.Fatalf("script should evaluate true")
	}
}

func TestScriptEvaluatesMemoryAndHitcount(t *testing.T) {
	mem := &fakeMem{}
	mem.bytes[0x4000] = 0x7
	s := NewScript("return mem(0x4000) == 7 and hitcount() >= 3")
	if !s.Evaluate(fakeRegs{values: map[string]uint64{}}, mem, 3) {
		t.Fatalf("script should evaluate true")
	}
	if s.Evaluate(fakeRegs{values: map[string]uint64{}}, mem, 2) {
		t.Fatalf("script should evaluate false when hitcount is too low")
	}
}

func TestScriptErrorIsFalseNotPanic(t *testing.T) {
	s := NewScript("this is not valid lua (((")
	if s.Evaluate(fakeRegs{values: map[string]uint64{}}, &fakeMem{}, 0) {
		t.Fatalf("a broken script should evaluate false")
	}
}

func TestScriptUnresolvedRegisterIsNil(t *testing.T) {
	s := NewScript("return reg('ZZZ') == nil")
	if !s.Evaluate(fakeRegs{values: map[string]uint64{}}, &fakeMem{}, 0) {
		t.Fatalf("an unknown register name should resolve to Lua nil")
	}
}
