// decode.go - the disassembler proper. Mirrors the execution engine's
// octal decomposition (x/y/z/p/q) so the two stay in lockstep, but every
// function here only reads bytes and builds a Mnemonic - no CPU state is
// touched (spec.md §4.4).
//
// (c) 2024 - 2026 Zayn Otley
// https://github.com/IntuitionAmiga/IntuitionEngine
// License: GPLv3 or later

package disasm

// Reader is the minimal byte-fetch capability the disassembler needs.
// internal/memory.Memory satisfies it.
type Reader interface {
	ReadByte(addr uint16) byte
}

var reg8Names = [8]string{"B", "C", "D", "E", "H", "L", "(HL)", "A"}
var reg16Names = [4]string{"BC", "DE", "HL", "SP"}
var reg16PushNames = [4]string{"BC", "DE", "HL", "AF"}
var condNames = [8]string{"NZ", "Z", "NC", "C", "PO", "PE", "P", "M"}
var aluNames = [8]string{"ADD A,", "ADC A,", "SUB ", "SBC A,", "AND ", "XOR ", "OR ", "CP "}
var rotNames = [8]string{"RLC", "RRC", "RL", "RR", "SLA", "SRA", "SLL", "SRL"}

type cursor struct {
	mem  Reader
	addr uint16
	n    int
}

func (cu *cursor) next() byte {
	v := cu.mem.ReadByte(cu.addr)
	cu.addr++
	cu.n++
	return v
}

func (cu *cursor) nextSigned() int8 { return int8(cu.next()) }

func (cu *cursor) nextWord() uint16 {
	lo := cu.next()
	hi := cu.next()
	return uint16(lo) | uint16(hi)<<8
}

// Decode reads one instruction's worth of bytes starting at addr and
// returns its Mnemonic. It consumes exactly the bytes belonging to that
// instruction and wraps correctly across the 0xFFFF/0x0000 boundary,
// since cursor.addr is a uint16.
func Decode(mem Reader, addr uint16) Mnemonic {
	cu := &cursor{mem: mem, addr: addr}
	m := decodeAt(cu, indexNone)
	m.SizeBytes = cu.n
	return m
}

type idxKind int

const (
	indexNone idxKind = iota
	indexIX
	indexIY
)

func decodeAt(cu *cursor, idx idxKind) Mnemonic {
	op := cu.next()
	switch op {
	case 0xCB:
		return decodeCB(cu, idx, -1)
	case 0xED:
		return decodeED(cu)
	case 0xDD:
		return decodeAt(cu, indexIX)
	case 0xFD:
		return decodeAt(cu, indexIY)
	default:
		return decodeBase(cu, op, idx)
	}
}

func hlName(idx idxKind) string {
	switch idx {
	case indexIX:
		return "IX"
	case indexIY:
		return "IY"
	default:
		return "HL"
	}
}

func regName(idx idxKind, i byte) string {
	if i == 6 {
		return "(" + hlName(idx) + ")"
	}
	if idx != indexNone && (i == 4 || i == 5) {
		if i == 4 {
			return hlName(idx) + "H"
		}
		return hlName(idx) + "L"
	}
	return reg8Names[i]
}

func reg8Operand(cu *cursor, idx idxKind, i byte) Operand {
	if i == 6 && idx != indexNone {
		d := cu.nextSigned()
		ir := IX
		if idx == indexIY {
			ir = IY
		}
		return indexed(ir, d)
	}
	if i == 6 {
		return reg16Ind("HL")
	}
	return reg8(regName(idx, i))
}

func reg16Operand(idx idxKind, p byte) Operand {
	if p == 2 {
		return reg16(hlName(idx))
	}
	return reg16(reg16Names[p])
}

func decodeBase(cu *cursor, op byte, idx idxKind) Mnemonic {
	x := op >> 6
	y := (op >> 3) & 7
	z := op & 7
	p := y >> 1
	q := y & 1

	switch x {
	case 0:
		return decodeX0(cu, y, z, p, q, idx)
	case 1:
		if z == 6 && y == 6 {
			return Mnemonic{Instruction: "HALT"}
		}
		dst := reg8Operand(cu, idx, y)
		src := reg8Operand(cu, idx, z)
		return Mnemonic{Instruction: "LD", Operands: []Operand{dst, src}}
	case 2:
		src := reg8Operand(cu, idx, z)
		name := aluNames[y]
		return Mnemonic{Instruction: trimALU(name), Operands: aluOperands(name, src)}
	default:
		return decodeX3(cu, op, y, z, p, q, idx)
	}
}

// aluNames carries the destination comma baked in ("ADD A," etc); split it
// back into instruction + operand list form.
func trimALU(name string) string {
	switch name {
	case "ADD A,":
		return "ADD"
	case "ADC A,":
		return "ADC"
	case "SBC A,":
		return "SBC"
	case "SUB ":
		return "SUB"
	case "AND ":
		return "AND"
	case "XOR ":
		return "XOR"
	case "OR ":
		return "OR"
	default:
		return "CP"
	}
}

func aluOperands(name string, src Operand) []Operand {
	switch name {
	case "ADD A,", "ADC A,", "SBC A,":
		return []Operand{reg8("A"), src}
	default:
		return []Operand{src}
	}
}

func decodeX0(cu *cursor, y, z, p, q byte, idx idxKind) Mnemonic {
	switch z {
	case 0:
		switch {
		case y == 0:
			return Mnemonic{Instruction: "NOP"}
		case y == 1:
			return Mnemonic{Instruction: "EX", Operands: []Operand{reg16("AF"), reg16("AF'")}}
		case y == 2:
			d := cu.nextSigned()
			return Mnemonic{Instruction: "DJNZ", Operands: []Operand{relOffset(d)}}
		case y == 3:
			d := cu.nextSigned()
			return Mnemonic{Instruction: "JR", Operands: []Operand{relOffset(d)}}
		default:
			d := cu.nextSigned()
			return Mnemonic{Instruction: "JR", Operands: []Operand{reg8(condNames[y-4]), relOffset(d)}}
		}
	case 1:
		if q == 0 {
			n := cu.nextWord()
			return Mnemonic{Instruction: "LD", Operands: []Operand{reg16Operand(idx, p), imm16(n)}}
		}
		return Mnemonic{Instruction: "ADD", Operands: []Operand{reg16(hlName(idx)), reg16Operand(idx, p)}}
	case 2:
		return decodeLDIndirect(cu, p, q, idx)
	case 3:
		if q == 0 {
			return Mnemonic{Instruction: "INC", Operands: []Operand{reg16Operand(idx, p)}}
		}
		return Mnemonic{Instruction: "DEC", Operands: []Operand{reg16Operand(idx, p)}}
	case 4:
		op := reg8Operand(cu, idx, y)
		return Mnemonic{Instruction: "INC", Operands: []Operand{op}}
	case 5:
		op := reg8Operand(cu, idx, y)
		return Mnemonic{Instruction: "DEC", Operands: []Operand{op}}
	case 6:
		op := reg8Operand(cu, idx, y)
		n := cu.next()
		return Mnemonic{Instruction: "LD", Operands: []Operand{op, imm8(n)}}
	default:
		names := [8]string{"RLCA", "RRCA", "RLA", "RRA", "DAA", "CPL", "SCF", "CCF"}
		return Mnemonic{Instruction: names[y]}
	}
}

func decodeLDIndirect(cu *cursor, p, q byte, idx idxKind) Mnemonic {
	switch {
	case q == 0 && p == 0:
		return Mnemonic{Instruction: "LD", Operands: []Operand{reg16Ind("BC"), reg8("A")}}
	case q == 0 && p == 1:
		return Mnemonic{Instruction: "LD", Operands: []Operand{reg16Ind("DE"), reg8("A")}}
	case q == 0 && p == 2:
		n := cu.nextWord()
		return Mnemonic{Instruction: "LD", Operands: []Operand{extAddr(n), reg16(hlName(idx))}}
	case q == 0:
		n := cu.nextWord()
		return Mnemonic{Instruction: "LD", Operands: []Operand{extAddr(n), reg8("A")}}
	case q == 1 && p == 0:
		return Mnemonic{Instruction: "LD", Operands: []Operand{reg8("A"), reg16Ind("BC")}}
	case q == 1 && p == 1:
		return Mnemonic{Instruction: "LD", Operands: []Operand{reg8("A"), reg16Ind("DE")}}
	case q == 1 && p == 2:
		n := cu.nextWord()
		return Mnemonic{Instruction: "LD", Operands: []Operand{reg16(hlName(idx)), extAddr(n)}}
	default:
		n := cu.nextWord()
		return Mnemonic{Instruction: "LD", Operands: []Operand{reg8("A"), extAddr(n)}}
	}
}

func decodeX3(cu *cursor, op, y, z, p, q byte, idx idxKind) Mnemonic {
	switch z {
	case 0:
		return Mnemonic{Instruction: "RET", Operands: []Operand{reg8(condNames[y])}}
	case 1:
		if q == 0 {
			return Mnemonic{Instruction: "POP", Operands: []Operand{pushPopOperand(idx, p)}}
		}
		switch p {
		case 0:
			return Mnemonic{Instruction: "RET"}
		case 1:
			return Mnemonic{Instruction: "EXX"}
		case 2:
			return Mnemonic{Instruction: "JP", Operands: []Operand{reg16Ind(hlName(idx))}}
		default:
			return Mnemonic{Instruction: "LD", Operands: []Operand{reg16("SP"), reg16(hlName(idx))}}
		}
	case 2:
		n := cu.nextWord()
		return Mnemonic{Instruction: "JP", Operands: []Operand{reg8(condNames[y]), extAddr(n)}}
	case 3:
		switch y {
		case 0:
			n := cu.nextWord()
			return Mnemonic{Instruction: "JP", Operands: []Operand{extAddr(n)}}
		case 1:
			return decodeCB(cu, idx, -1)
		case 2:
			n := cu.next()
			return Mnemonic{Instruction: "OUT", Operands: []Operand{extAddr(uint16(n)), reg8("A")}}
		case 3:
			n := cu.next()
			return Mnemonic{Instruction: "IN", Operands: []Operand{reg8("A"), extAddr(uint16(n))}}
		case 4:
			return Mnemonic{Instruction: "EX", Operands: []Operand{reg16Ind("SP"), reg16(hlName(idx))}}
		case 5:
			return Mnemonic{Instruction: "EX", Operands: []Operand{reg16("DE"), reg16("HL")}}
		case 6:
			return Mnemonic{Instruction: "DI"}
		default:
			return Mnemonic{Instruction: "EI"}
		}
	case 4:
		n := cu.nextWord()
		return Mnemonic{Instruction: "CALL", Operands: []Operand{reg8(condNames[y]), extAddr(n)}}
	case 5:
		if q == 0 {
			return Mnemonic{Instruction: "PUSH", Operands: []Operand{pushPopOperand(idx, p)}}
		}
		if p == 0 {
			n := cu.nextWord()
			return Mnemonic{Instruction: "CALL", Operands: []Operand{extAddr(n)}}
		}
		return decodeAt(cu, idx) // repeated/escaped prefix byte
	case 6:
		n := cu.next()
		name := aluNames[y]
		return Mnemonic{Instruction: trimALU(name), Operands: aluOperands(name, imm8(n))}
	default:
		return Mnemonic{Instruction: "RST", Operands: []Operand{rstVector(uint16(y) * 8)}}
	}
}

func pushPopOperand(idx idxKind, p byte) Operand {
	if p == 2 {
		return reg16(hlName(idx))
	}
	return reg16(reg16PushNames[p])
}

// decodeCB decodes a CB-prefixed opcode. When idx is not indexNone this is
// the indexed DD-CB-d/FD-CB-d form: it reads the displacement byte and then
// the opcode byte; otherwise it reads a plain register/(HL) operand. The
// third parameter is unused.
func decodeCB(cu *cursor, idx idxKind, _ int) Mnemonic {
	if idx != indexNone {
		d := cu.nextSigned()
		op := cu.next()
		ir := IX
		if idx == indexIY {
			ir = IY
		}
		operand := indexed(ir, d)
		return cbMnemonic(op, operand, true)
	}
	op := cu.next()
	operand := reg8(regName(indexNone, op&7))
	if op&7 == 6 {
		operand = reg16Ind("HL")
	}
	return cbMnemonic(op, operand, false)
}

func cbMnemonic(op byte, operand Operand, indexed bool) Mnemonic {
	x := op >> 6
	y := (op >> 3) & 7
	switch x {
	case 0:
		return Mnemonic{Instruction: rotNames[y], Operands: []Operand{operand}}
	case 1:
		return Mnemonic{Instruction: "BIT", Operands: []Operand{bitIndex(y), operand}}
	case 2:
		return Mnemonic{Instruction: "RES", Operands: []Operand{bitIndex(y), operand}}
	default:
		return Mnemonic{Instruction: "SET", Operands: []Operand{bitIndex(y), operand}}
	}
}

var edBlockNames = [4][4]string{
	{"LDI", "CPI", "INI", "OUTI"},
	{"LDD", "CPD", "IND", "OUTD"},
	{"LDIR", "CPIR", "INIR", "OTIR"},
	{"LDDR", "CPDR", "INDR", "OTDR"},
}

var edIMTable = [8]byte{0, 0, 1, 2, 0, 0, 1, 2}

func decodeED(cu *cursor) Mnemonic {
	op := cu.next()
	x := op >> 6
	y := (op >> 3) & 7
	z := op & 7
	p := y >> 1
	q := y & 1

	if x == 2 {
		if z <= 3 && y >= 4 {
			return Mnemonic{Instruction: edBlockNames[y-4][z]}
		}
		return Mnemonic{Instruction: "NOP"}
	}
	if x != 1 {
		return Mnemonic{Instruction: "NOP"}
	}

	switch z {
	case 0:
		if y == 6 {
			return Mnemonic{Instruction: "IN", Operands: []Operand{reg8("F"), reg16Ind("C")}}
		}
		return Mnemonic{Instruction: "IN", Operands: []Operand{reg8(reg8Names[y]), reg16Ind("C")}}
	case 1:
		if y == 6 {
			return Mnemonic{Instruction: "OUT", Operands: []Operand{reg16Ind("C"), imm8(0)}}
		}
		return Mnemonic{Instruction: "OUT", Operands: []Operand{reg16Ind("C"), reg8(reg8Names[y])}}
	case 2:
		if q == 0 {
			return Mnemonic{Instruction: "SBC", Operands: []Operand{reg16("HL"), reg16(reg16Names[p])}}
		}
		return Mnemonic{Instruction: "ADC", Operands: []Operand{reg16("HL"), reg16(reg16Names[p])}}
	case 3:
		n := cu.nextWord()
		if q == 0 {
			return Mnemonic{Instruction: "LD", Operands: []Operand{extAddr(n), reg16(reg16Names[p])}}
		}
		return Mnemonic{Instruction: "LD", Operands: []Operand{reg16(reg16Names[p]), extAddr(n)}}
	case 4:
		return Mnemonic{Instruction: "NEG"}
	case 5:
		if y == 1 {
			return Mnemonic{Instruction: "RETI"}
		}
		return Mnemonic{Instruction: "RETN"}
	case 6:
		im := edIMTable[y]
		return Mnemonic{Instruction: "IM", Operands: []Operand{imm8(im)}}
	default:
		switch y {
		case 0:
			return Mnemonic{Instruction: "LD", Operands: []Operand{reg8("I"), reg8("A")}}
		case 1:
			return Mnemonic{Instruction: "LD", Operands: []Operand{reg8("R"), reg8("A")}}
		case 2:
			return Mnemonic{Instruction: "LD", Operands: []Operand{reg8("A"), reg8("I")}}
		case 3:
			return Mnemonic{Instruction: "LD", Operands: []Operand{reg8("A"), reg8("R")}}
		case 4:
			return Mnemonic{Instruction: "RRD"}
		case 5:
			return Mnemonic{Instruction: "RLD"}
		default:
			return Mnemonic{Instruction: "NOP"}
		}
	}
}
