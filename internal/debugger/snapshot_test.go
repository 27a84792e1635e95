// snapshot_test.go
//
// (c) 2024 - 2026 Zayn Otley
// https://github.com/IntuitionAmiga/IntuitionEngine
// License: GPLv3 or later

package debugger

import "testing"

func TestCaptureWindowCopiesRequestedRange(t *testing.T) {
	mem := &fakeMem{}
	for i := 0; i < 8; i++ {
		mem.bytes[0x9000+i] = byte(i + 1)
	}

	snap := CaptureWindow(RegisterSnapshot{PC: 0x9000}, 42, mem, 0x9000, 8)

	if snap.MemBase != 0x9000 || snap.TStates != 42 {
		t.Fatalf("unexpected snapshot metadata: %+v", snap)
	}
	for i, b := range snap.MemWindow {
		if b != byte(i+1) {
			t.Fatalf("MemWindow[%d] = %d, want %d", i, b, i+1)
		}
	}
}
