// memory_test.go
//
// (c) 2024 - 2026 Zayn Otley
// https://github.com/IntuitionAmiga/IntuitionEngine
// License: GPLv3 or later

package memory

import "testing"

func TestWordWrapsAtTopOfAddressSpace(t *testing.T) {
	m := New()
	m.WriteByte(0xFFFF, 0x34)
	m.WriteByte(0x0000, 0x12)

	if got := m.ReadWordLE(0xFFFF); got != 0x1234 {
		t.Fatalf("ReadWordLE(0xFFFF) = 0x%04X, want 0x1234", got)
	}
}

func TestWriteWordLEWrapsAtTopOfAddressSpace(t *testing.T) {
	m := New()
	m.WriteWordLE(0xFFFF, 0xABCD)

	if got := m.ReadByte(0xFFFF); got != 0xCD {
		t.Fatalf("low byte at 0xFFFF = 0x%02X, want 0xCD", got)
	}
	if got := m.ReadByte(0x0000); got != 0xAB {
		t.Fatalf("high byte at 0x0000 = 0x%02X, want 0xAB", got)
	}
}

func TestReadBytesWrapsAroundAddressSpace(t *testing.T) {
	m := New()
	m.WriteByte(0xFFFE, 1)
	m.WriteByte(0xFFFF, 2)
	m.WriteByte(0x0000, 3)
	m.WriteByte(0x0001, 4)

	out := make([]byte, 4)
	m.ReadBytes(0xFFFE, 4, out)

	want := []byte{1, 2, 3, 4}
	for i, w := range want {
		if out[i] != w {
			t.Fatalf("out[%d] = %d, want %d", i, out[i], w)
		}
	}
}

func TestResetClearsEveryByte(t *testing.T) {
	m := New()
	m.WriteByte(0x1234, 0xFF)
	m.Reset()

	if got := m.ReadByte(0x1234); got != 0 {
		t.Fatalf("ReadByte(0x1234) after Reset = %d, want 0", got)
	}
}
