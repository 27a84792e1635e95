// ops_cb.go - the CB-prefixed page: rotate/shift, BIT, RES, SET, plus the
// DD-CB/FD-CB indexed form's read-modify-write-and-copy side effect
// (spec.md §4.5 "Undocumented DDCB/FDCB side effect").
//
// (c) 2024 - 2026 Zayn Otley
// https://github.com/IntuitionAmiga/IntuitionEngine
// License: GPLv3 or later

package z80

// cbRotateOps[y] applies the rotate/shift selected by the CB opcode's y
// field to a byte, returning the result and the new F. Entries 2 and 3
// (RL/RR) need the incoming carry and are handled separately in
// applyCBOp, since they are not pure functions of the byte alone.
var cbRotateOps = [8]func(byte) (byte, byte){
	0: rlc,
	1: rrc,
	4: sla,
	5: sra,
	6: sll,
	7: srl,
}

// applyCBOp computes the CB-page operation encoded by op against value,
// using oldF as the flags to preserve/build on, and returns the result
// and new F. The caller is responsible for the carry-in of RL/RR, which
// this takes from oldF.
func applyCBOp(op byte, value byte, oldF byte, f3f5Source byte) (byte, byte) {
	x := op >> 6
	y := (op >> 3) & 7

	switch x {
	case 0:
		switch y {
		case 2:
			return rl(value, oldF&FlagC != 0)
		case 3:
			return rr(value, oldF&FlagC != 0)
		default:
			return cbRotateOps[y](value)
		}
	case 1:
		return value, bitTestFlags(oldF, uint(y), value, f3f5Source)
	case 2:
		return value &^ (1 << y), oldF
	default:
		return value | (1 << y), oldF
	}
}

// execCB runs a plain (unindexed) CB-prefixed opcode: operand is register
// z, or memory at hlAddr when z==6.
func (c *CPU) execCB(op byte, hlAddr uint16) byte {
	z := op & 7
	x := op >> 6

	var value, f3f5Source byte
	if z == 6 {
		value = c.Mem.ReadByte(hlAddr)
		f3f5Source = byte(hlAddr >> 8)
	} else {
		value = c.readReg8(z)
		f3f5Source = value
	}

	result, f := applyCBOp(op, value, c.Regs.F, f3f5Source)
	c.Regs.F = f

	if x == 1 {
		// BIT does not write back.
		if z == 6 {
			c.tick(12)
		} else {
			c.tick(8)
		}
		return value
	}

	if z == 6 {
		c.Mem.WriteByte(hlAddr, result)
		c.tick(15)
	} else {
		c.writeReg8(z, result)
		c.tick(8)
	}
	return result
}

// execIndexedCB runs a DD-CB-d-op/FD-CB-d-op instruction: the operand is
// always the byte at addr ((IX+d) or (IY+d)), regardless of the opcode's z
// field. BIT never writes back; every other operation writes the result to
// addr, and the caller additionally copies it into register z when z != 6
// (spec.md §4.5).
func (c *CPU) execIndexedCB(op byte, addr uint16) byte {
	x := op >> 6
	value := c.Mem.ReadByte(addr)
	result, f := applyCBOp(op, value, c.Regs.F, byte(addr>>8))
	c.Regs.F = f

	if x == 1 {
		c.tick(20)
		return value
	}

	c.Mem.WriteByte(addr, result)
	c.tick(23)
	return result
}
