// decode_test.go
//
// (c) 2024 - 2026 Zayn Otley
// https://github.com/IntuitionAmiga/IntuitionEngine
// License: GPLv3 or later

package disasm

import (
	"testing"

	"github.com/intuitionamiga/z80core/internal/memory"
)

func load(mem *memory.Memory, addr uint16, bytes ...byte) {
	for i, b := range bytes {
		mem.WriteByte(addr+uint16(i), b)
	}
}

func TestDecodeAddAB(t *testing.T) {
	mem := memory.New()
	load(mem, 0, 0x80) // ADD A,B
	m := Decode(mem, 0)
	if m.String() != "ADD A,B" {
		t.Fatalf("got %q", m.String())
	}
	if m.SizeBytes != 1 {
		t.Fatalf("SizeBytes = %d, want 1", m.SizeBytes)
	}
}

func TestDecodeLDImmediate16(t *testing.T) {
	mem := memory.New()
	load(mem, 0, 0x21, 0x34, 0x12) // LD HL,0x1234
	m := Decode(mem, 0)
	if m.String() != "LD HL,0x1234" {
		t.Fatalf("got %q", m.String())
	}
	if m.SizeBytes != 3 {
		t.Fatalf("SizeBytes = %d, want 3", m.SizeBytes)
	}
}

func TestDecodeCallZ(t *testing.T) {
	mem := memory.New()
	load(mem, 0, 0xCC, 0x00, 0x80) // CALL Z,0x8000
	m := Decode(mem, 0)
	if m.String() != "CALL Z,(0x8000)" {
		t.Fatalf("got %q", m.String())
	}
	if m.SizeBytes != 3 {
		t.Fatalf("SizeBytes = %d, want 3", m.SizeBytes)
	}
}

func TestDecodeCBBitInstruction(t *testing.T) {
	mem := memory.New()
	load(mem, 0, 0xCB, 0x7E) // BIT 7,(HL)
	m := Decode(mem, 0)
	if m.String() != "BIT 7,(HL)" {
		t.Fatalf("got %q", m.String())
	}
	if m.SizeBytes != 2 {
		t.Fatalf("SizeBytes = %d, want 2", m.SizeBytes)
	}
}

func TestDecodeEDBlockLDIR(t *testing.T) {
	mem := memory.New()
	load(mem, 0, 0xED, 0xB0) // LDIR
	m := Decode(mem, 0)
	if m.String() != "LDIR" {
		t.Fatalf("got %q", m.String())
	}
	if m.SizeBytes != 2 {
		t.Fatalf("SizeBytes = %d, want 2", m.SizeBytes)
	}
}

func TestDecodeDDIndexedLoad(t *testing.T) {
	mem := memory.New()
	load(mem, 0, 0xDD, 0x7E, 0x05) // LD A,(IX+5)
	m := Decode(mem, 0)
	if m.String() != "LD A,(IX+5)" {
		t.Fatalf("got %q", m.String())
	}
	if m.SizeBytes != 3 {
		t.Fatalf("SizeBytes = %d, want 3", m.SizeBytes)
	}
}

func TestDecodeDDIndexedNegativeDisplacement(t *testing.T) {
	mem := memory.New()
	load(mem, 0, 0xDD, 0x77, 0xFE) // LD (IX-2),A
	m := Decode(mem, 0)
	if m.String() != "LD (IX-2),A" {
		t.Fatalf("got %q", m.String())
	}
}

func TestDecodeFDIndexedCBBit(t *testing.T) {
	mem := memory.New()
	load(mem, 0, 0xFD, 0xCB, 0x03, 0x46) // BIT 0,(IY+3)
	m := Decode(mem, 0)
	if m.String() != "BIT 0,(IY+3)" {
		t.Fatalf("got %q", m.String())
	}
	if m.SizeBytes != 4 {
		t.Fatalf("SizeBytes = %d, want 4", m.SizeBytes)
	}
}

func TestDecodeRelativeJump(t *testing.T) {
	mem := memory.New()
	load(mem, 0, 0x18, 0xFE) // JR -2
	m := Decode(mem, 0)
	if m.String() != "JR -2" {
		t.Fatalf("got %q", m.String())
	}
}

func TestDecodeRST(t *testing.T) {
	mem := memory.New()
	load(mem, 0, 0xCF) // RST 0x08
	m := Decode(mem, 0)
	if m.String() != "RST 0x08" {
		t.Fatalf("got %q", m.String())
	}
	if m.SizeBytes != 1 {
		t.Fatalf("SizeBytes = %d, want 1", m.SizeBytes)
	}
}

func TestDecodeWrapsAcrossAddressBoundary(t *testing.T) {
	mem := memory.New()
	load(mem, 0xFFFF, 0x3E) // LD A,n spanning the wrap
	load(mem, 0x0000, 0x42)
	m := Decode(mem, 0xFFFF)
	if m.String() != "LD A,0x42" {
		t.Fatalf("got %q", m.String())
	}
	if m.SizeBytes != 2 {
		t.Fatalf("SizeBytes = %d, want 2", m.SizeBytes)
	}
}

func TestDecodeHalt(t *testing.T) {
	mem := memory.New()
	load(mem, 0, 0x76) // HALT
	m := Decode(mem, 0)
	if m.String() != "HALT" {
		t.Fatalf("got %q", m.String())
	}
}
