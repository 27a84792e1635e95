// driver_test.go
//
// (c) 2024 - 2026 Zayn Otley
// https://github.com/IntuitionAmiga/IntuitionEngine
// License: GPLv3 or later

package driver

import (
	"testing"
	"time"
)

func TestStepAdvancesPCAndRecordsNoHistoryByDefault(t *testing.T) {
	d := New()
	d.Mem.WriteByte(0, 0x00) // NOP
	d.Step()
	if d.CPU.Regs.PC != 1 {
		t.Fatalf("PC = %d, want 1", d.CPU.Regs.PC)
	}
	if len(d.RecentHistory(10)) != 0 {
		t.Fatalf("history should be empty when HistoryEnabled is false")
	}
}

func TestStepRecordsHistoryWhenEnabled(t *testing.T) {
	d := New(WithHistoryEnabled(true))
	d.Mem.WriteByte(0, 0x3E) // LD A,n
	d.Mem.WriteByte(1, 0x42)
	d.Step()

	hist := d.RecentHistory(10)
	if len(hist) != 1 {
		t.Fatalf("len(history) = %d, want 1", len(hist))
	}
	e := hist[0]
	if e.PC != 0 || e.OpLen != 2 || e.Opcode[0] != 0x3E || e.Opcode[1] != 0x42 {
		t.Fatalf("unexpected history entry: %+v", e)
	}
	if e.Regs.A != 0x42 {
		t.Fatalf("recorded register snapshot A = %#x, want 0x42", e.Regs.A)
	}
}

func TestWithHistorySizeBoundsTheRing(t *testing.T) {
	d := New(WithHistorySize(2), WithHistoryEnabled(true))
	for i := 0; i < 5; i++ {
		d.Mem.WriteByte(d.CPU.Regs.PC, 0x00) // NOP
		d.Step()
	}
	if len(d.RecentHistory(10)) != 2 {
		t.Fatalf("history ring should cap at 2 entries")
	}
}

func TestWithClockHzIsAppliedToTheCPU(t *testing.T) {
	d := New(WithClockHz(4_000_000))
	if d.CPU.ClockHz != 4_000_000 {
		t.Fatalf("ClockHz = %d, want 4000000", d.CPU.ClockHz)
	}
}

func TestResetRestoresPowerOnState(t *testing.T) {
	d := New()
	d.Mem.WriteByte(0, 0x3E)
	d.Mem.WriteByte(1, 0x42)
	d.Step()
	d.Reset()
	if d.CPU.Regs.PC != 0 {
		t.Fatalf("PC after Reset = %d, want 0", d.CPU.Regs.PC)
	}
}

func TestRegSourceResolvesNamedRegisters(t *testing.T) {
	d := New()
	d.CPU.Regs.A = 0x99
	d.CPU.Regs.SetHL(0x1234)
	rs := regSource{d.CPU}

	if v, ok := rs.Register("a"); !ok || v != 0x99 {
		t.Fatalf("A = %d,%v, want 0x99,true", v, ok)
	}
	if v, ok := rs.Register("HL"); !ok || v != 0x1234 {
		t.Fatalf("HL = %d,%v, want 0x1234,true", v, ok)
	}
	if _, ok := rs.Register("ZZZ"); ok {
		t.Fatalf("unknown register name should report ok=false")
	}
}

func TestRunAndPauseLifecycle(t *testing.T) {
	d := New()
	for i := uint16(0); i < 0x100; i++ {
		d.Mem.WriteByte(i, 0x00) // NOP forever, so the loop never halts itself
	}

	d.Run()
	if !d.IsRunning() {
		t.Fatalf("IsRunning should be true after Run")
	}
	time.Sleep(5 * time.Millisecond)
	d.Pause()

	if d.IsRunning() {
		t.Fatalf("IsRunning should be false after Pause")
	}
	if d.CPU.Regs.PC == 0 {
		t.Fatalf("PC should have advanced while running")
	}
}

func TestRunIsANoOpWhenAlreadyRunning(t *testing.T) {
	d := New()
	for i := uint16(0); i < 0x100; i++ {
		d.Mem.WriteByte(i, 0x00)
	}
	d.Run()
	d.Run() // must not deadlock or start a second loop
	d.Pause()
}

func TestNMIAndInterruptDelegateToCPU(t *testing.T) {
	d := New()
	d.NMI()
	if !d.CPU.NMIPending {
		t.Fatalf("NMI() should set NMIPending on the underlying CPU")
	}
	d.Interrupt(0xFF)
	if !d.CPU.IRQPending {
		t.Fatalf("Interrupt() should set IRQPending on the underlying CPU")
	}
}
