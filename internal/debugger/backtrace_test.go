// backtrace_test.go
//
// (c) 2024 - 2026 Zayn Otley
// https://github.com/IntuitionAmiga/IntuitionEngine
// License: GPLv3 or later

package debugger

import "testing"

func TestBacktraceReadsSuccessiveLittleEndianWords(t *testing.T) {
	mem := &fakeMem{}
	mem.bytes[0x8000] = 0x34
	mem.bytes[0x8001] = 0x12
	mem.bytes[0x8002] = 0x78
	mem.bytes[0x8003] = 0x56

	got := Backtrace(mem, 0x8000, 2)
	want := []uint16{0x1234, 0x5678}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("Backtrace = %04X, want %04X", got, want)
	}
}

func TestBacktraceReturnsExactlyDepthEntries(t *testing.T) {
	got := Backtrace(&fakeMem{}, 0, 5)
	if len(got) != 5 {
		t.Fatalf("len = %d, want 5", len(got))
	}
}
