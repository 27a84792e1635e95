// ops_base.go - the unprefixed (and, by redirection, DD/FD-prefixed)
// opcode table. Builds the 256-entry dispatch table once at construction
// time using the standard Z80 octal decomposition (x/y/z/p/q), the same
// decode shape the teacher's initBaseOps/initDDOps/initFDOps use, unified
// here into one table because DD/FD redirect H/L/(HL) rather than
// defining a second instruction space (spec.md §4.5).
//
// (c) 2024 - 2026 Zayn Otley
// https://github.com/IntuitionAmiga/IntuitionEngine
// License: GPLv3 or later

package z80

// initBaseOps fills baseOps with one decoded handler per opcode byte.
func (c *CPU) initBaseOps() {
	for op := 0; op < 256; op++ {
		c.baseOps[op] = c.decodeBase(byte(op))
	}
}

func (c *CPU) decodeBase(op byte) func(*CPU) {
	x := op >> 6
	y := (op >> 3) & 7
	z := op & 7
	p := y >> 1
	q := y & 1

	switch x {
	case 0:
		return c.decodeX0(op, y, z, p, q)
	case 1:
		if z == 6 && y == 6 {
			return opHALT
		}
		return opLDr8r8(y, z)
	case 2:
		return opALU(y, z)
	default:
		return c.decodeX3(op, y, z, p, q)
	}
}

func (c *CPU) decodeX0(op, y, z, p, q byte) func(*CPU) {
	switch z {
	case 0:
		switch {
		case y == 0:
			return opNOP
		case y == 1:
			return opEXAFAF
		case y == 2:
			return opDJNZ
		case y == 3:
			return opJR
		default:
			return opJRcc(y - 4)
		}
	case 1:
		if q == 0 {
			return opLDrpNN(p)
		}
		return opADDHLrp(p)
	case 2:
		return opLDIndirect(p, q)
	case 3:
		if q == 0 {
			return opINCrp(p)
		}
		return opDECrp(p)
	case 4:
		return opINCr8(y)
	case 5:
		return opDECr8(y)
	case 6:
		return opLDr8n(y)
	default:
		return rotateAOps[y]
	}
}

func (c *CPU) decodeX3(op, y, z, p, q byte) func(*CPU) {
	switch z {
	case 0:
		return opRETcc(y)
	case 1:
		if q == 0 {
			return opPOPrp2(p)
		}
		switch p {
		case 0:
			return opRET
		case 1:
			return opEXX
		case 2:
			return opJPHL
		default:
			return opLDSPHL
		}
	case 2:
		return opJPcc(y)
	case 3:
		switch y {
		case 0:
			return opJPnn
		case 2:
			return opOUTnA
		case 3:
			return opINAn
		case 4:
			return opEXSPHL
		case 5:
			return opEXDEHL
		case 6:
			return opDI
		default:
			return opEI
		}
	case 4:
		return opCALLcc(y)
	case 5:
		if q == 0 {
			return opPUSHrp2(p)
		}
		if p == 0 {
			return opCALLnn
		}
		// p==1,2,3 are the DD/ED/FD prefixes; unreachable here because
		// dispatch() intercepts them before consulting this table.
		return opNOP
	case 6:
		return opALUn(y)
	default:
		return opRST(y)
	}
}

func opNOP(c *CPU) { c.tick(4) }

func opEXAFAF(c *CPU) { c.Regs.ExAF(); c.tick(4) }

func opEXX(c *CPU) { c.Regs.Exx(); c.tick(4) }

func opEXDEHL(c *CPU) {
	d, h := c.Regs.DE(), c.Regs.HL()
	c.Regs.SetDE(h)
	c.Regs.SetHL(d)
	c.tick(4)
}

func opEXSPHL(c *CPU) {
	sp := c.Regs.SP
	v := c.Mem.ReadWordLE(sp)
	c.Mem.WriteWordLE(sp, c.hlOrIndex())
	c.setHLOrIndex(v)
	c.Regs.MEMPTR = v
	c.tick(19)
}

func opDJNZ(c *CPU) {
	e := c.fetchSByte()
	c.Regs.B--
	if c.Regs.B != 0 {
		c.Regs.PC = uint16(int32(c.Regs.PC) + int32(e))
		c.Regs.MEMPTR = c.Regs.PC
		c.tick(13)
		return
	}
	c.tick(8)
}

func opJR(c *CPU) {
	e := c.fetchSByte()
	c.Regs.PC = uint16(int32(c.Regs.PC) + int32(e))
	c.Regs.MEMPTR = c.Regs.PC
	c.tick(12)
}

func opJRcc(cc byte) func(*CPU) {
	return func(c *CPU) {
		e := c.fetchSByte()
		if c.testCond(cc) {
			c.Regs.PC = uint16(int32(c.Regs.PC) + int32(e))
			c.Regs.MEMPTR = c.Regs.PC
			c.tick(12)
			return
		}
		c.tick(7)
	}
}

func opLDrpNN(p byte) func(*CPU) {
	return func(c *CPU) {
		c.writeReg16(p, c.fetchWord())
		c.tick(10)
	}
}

func opADDHLrp(p byte) func(*CPU) {
	return func(c *CPU) {
		a := c.hlOrIndex()
		b := c.readReg16(p)
		result, f := add16Flags(c.Regs.F, a, b)
		c.setHLOrIndex(result)
		c.Regs.F = f
		c.Regs.MEMPTR = a + 1
		c.tick(11)
	}
}

func opLDIndirect(p, q byte) func(*CPU) {
	return func(c *CPU) {
		switch {
		case q == 0 && p == 0:
			c.Mem.WriteByte(c.Regs.BC(), c.Regs.A)
			c.Regs.MEMPTR = (uint16(c.Regs.A) << 8) | ((c.Regs.BC() + 1) & 0xFF)
			c.tick(7)
		case q == 0 && p == 1:
			c.Mem.WriteByte(c.Regs.DE(), c.Regs.A)
			c.Regs.MEMPTR = (uint16(c.Regs.A) << 8) | ((c.Regs.DE() + 1) & 0xFF)
			c.tick(7)
		case q == 0 && p == 2:
			addr := c.fetchWord()
			c.Mem.WriteWordLE(addr, c.hlOrIndex())
			c.Regs.MEMPTR = addr + 1
			c.tick(16)
		case q == 0:
			addr := c.fetchWord()
			c.Mem.WriteByte(addr, c.Regs.A)
			c.Regs.MEMPTR = (uint16(c.Regs.A) << 8) | ((addr + 1) & 0xFF)
			c.tick(13)
		case q == 1 && p == 0:
			c.Regs.A = c.Mem.ReadByte(c.Regs.BC())
			c.Regs.MEMPTR = c.Regs.BC() + 1
			c.tick(7)
		case q == 1 && p == 1:
			c.Regs.A = c.Mem.ReadByte(c.Regs.DE())
			c.Regs.MEMPTR = c.Regs.DE() + 1
			c.tick(7)
		case q == 1 && p == 2:
			addr := c.fetchWord()
			c.setHLOrIndex(c.Mem.ReadWordLE(addr))
			c.Regs.MEMPTR = addr + 1
			c.tick(16)
		default:
			addr := c.fetchWord()
			c.Regs.A = c.Mem.ReadByte(addr)
			c.Regs.MEMPTR = addr + 1
			c.tick(13)
		}
	}
}

func opINCrp(p byte) func(*CPU) {
	return func(c *CPU) {
		c.writeReg16(p, c.readReg16(p)+1)
		c.tick(6)
	}
}

func opDECrp(p byte) func(*CPU) {
	return func(c *CPU) {
		c.writeReg16(p, c.readReg16(p)-1)
		c.tick(6)
	}
}

func opINCr8(y byte) func(*CPU) {
	return func(c *CPU) {
		before := c.readReg8(y)
		result, f := incFlags8(before)
		c.Regs.F = f | (c.Regs.F & FlagC)
		c.writeReg8(y, result)
		if y == 6 {
			c.tick(11)
		} else {
			c.tick(4)
		}
	}
}

func opDECr8(y byte) func(*CPU) {
	return func(c *CPU) {
		before := c.readReg8(y)
		result, f := decFlags8(before)
		c.Regs.F = f | (c.Regs.F & FlagC)
		c.writeReg8(y, result)
		if y == 6 {
			c.tick(11)
		} else {
			c.tick(4)
		}
	}
}

func opLDr8n(y byte) func(*CPU) {
	return func(c *CPU) {
		if y == 6 {
			// LD (IX+d),n: the displacement byte precedes the immediate.
			addr := c.effectiveHLAddr()
			c.Mem.WriteByte(addr, c.fetchByte())
			c.tick(10)
			return
		}
		c.writeReg8(y, c.fetchByte())
		c.tick(7)
	}
}

// rotateAOps[y] implements the x=0,z=7 row: RLCA RRCA RLA RRA DAA CPL SCF CCF.
var rotateAOps = [8]func(*CPU){
	func(c *CPU) {
		v, f := rlc(c.Regs.A)
		c.Regs.A = v
		c.Regs.F = rotateAFlags(c.Regs.F, v, f&FlagC != 0)
		c.tick(4)
	},
	func(c *CPU) {
		v, f := rrc(c.Regs.A)
		c.Regs.A = v
		c.Regs.F = rotateAFlags(c.Regs.F, v, f&FlagC != 0)
		c.tick(4)
	},
	func(c *CPU) {
		v, f := rl(c.Regs.A, c.Regs.CarryFlag())
		c.Regs.A = v
		c.Regs.F = rotateAFlags(c.Regs.F, v, f&FlagC != 0)
		c.tick(4)
	},
	func(c *CPU) {
		v, f := rr(c.Regs.A, c.Regs.CarryFlag())
		c.Regs.A = v
		c.Regs.F = rotateAFlags(c.Regs.F, v, f&FlagC != 0)
		c.tick(4)
	},
	opDAA,
	func(c *CPU) {
		c.Regs.A = ^c.Regs.A
		c.Regs.F = (c.Regs.F & (FlagS | FlagZ | FlagPV | FlagC)) | FlagH | FlagN | (c.Regs.A & (FlagF3 | FlagF5))
		c.tick(4)
	},
	func(c *CPU) {
		c.Regs.F = (c.Regs.F & (FlagS | FlagZ | FlagPV)) | FlagC | (c.Regs.A & (FlagF3 | FlagF5))
		c.tick(4)
	},
	func(c *CPU) {
		oldC := c.Regs.CarryFlag()
		c.Regs.F = (c.Regs.F & (FlagS | FlagZ | FlagPV)) | (c.Regs.A & (FlagF3 | FlagF5))
		if oldC {
			c.Regs.F |= FlagH
		} else {
			c.Regs.F |= FlagC
		}
		c.tick(4)
	},
}

// opDAA implements the DAA algorithm exactly as specified in spec.md §4.5.
func opDAA(c *CPU) {
	a := c.Regs.A
	n := c.Regs.SubtractFlag()
	h := c.Regs.HalfCarryFlag()
	carryIn := c.Regs.CarryFlag()

	correction := byte(0)
	carryOut := carryIn

	if h || a&0x0F > 9 {
		correction |= 0x06
	}
	if carryIn || a > 0x99 {
		correction |= 0x60
		carryOut = true
	}

	var result byte
	var halfOut bool
	if n {
		result = a - correction
		halfOut = h && (a&0x0F) < 0x06
	} else {
		result = a + correction
		halfOut = (a&0x0F)+correction&0x0F > 0x0F
	}

	c.Regs.A = result
	f := szf3f5(result)
	if parityTable[result] {
		f |= FlagPV
	}
	if n {
		f |= FlagN
	}
	if halfOut {
		f |= FlagH
	}
	if carryOut {
		f |= FlagC
	}
	c.Regs.F = f
	c.tick(4)
}

// opHALT sets the halted flag; PC already points past the HALT opcode
// (spec.md §4.5: "PC advances past the HALT before the interrupt handler
// runs"). Step() skips fetch/decode entirely while halted, charging a
// NOP's worth of T-states each cycle - equivalent to backing PC up and
// re-entering the same opcode, per spec.md's own note.
func opHALT(c *CPU) {
	c.Halted = true
	c.tick(4)
}

func opLDr8r8(y, z byte) func(*CPU) {
	return func(c *CPU) {
		c.writeReg8(y, c.readReg8(z))
		if y == 6 || z == 6 {
			c.tick(7)
		} else {
			c.tick(4)
		}
	}
}

func opALU(y, z byte) func(*CPU) {
	return func(c *CPU) {
		applyALU(c, y, c.readReg8(z))
		if z == 6 {
			c.tick(7)
		} else {
			c.tick(4)
		}
	}
}

func opALUn(y byte) func(*CPU) {
	return func(c *CPU) {
		applyALU(c, y, c.fetchByte())
		c.tick(7)
	}
}

// applyALU implements the eight ALU operations (ADD ADC SUB SBC AND XOR OR CP).
func applyALU(c *CPU, op byte, operand byte) {
	a := c.Regs.A
	switch op {
	case 0: // ADD
		result, f := addFlags8(a, operand, 0)
		c.Regs.A = result
		c.Regs.F = f
	case 1: // ADC
		cin := byte(0)
		if c.Regs.CarryFlag() {
			cin = 1
		}
		result, f := addFlags8(a, operand, cin)
		c.Regs.A = result
		c.Regs.F = f
	case 2: // SUB
		result, f := subFlags8(a, operand, 0, false)
		c.Regs.A = result
		c.Regs.F = f
	case 3: // SBC
		cin := byte(0)
		if c.Regs.CarryFlag() {
			cin = 1
		}
		result, f := subFlags8(a, operand, cin, false)
		c.Regs.A = result
		c.Regs.F = f
	case 4: // AND
		result, f := andFlags8(a, operand)
		c.Regs.A = result
		c.Regs.F = f
	case 5: // XOR
		result, f := orXorFlags8(a ^ operand)
		c.Regs.A = result
		c.Regs.F = f
	case 6: // OR
		result, f := orXorFlags8(a | operand)
		c.Regs.A = result
		c.Regs.F = f
	default: // CP
		_, f := subFlags8(a, operand, 0, true)
		c.Regs.F = f
	}
}

func opRETcc(cc byte) func(*CPU) {
	return func(c *CPU) {
		if c.testCond(cc) {
			c.Regs.PC = c.pop()
			c.Regs.MEMPTR = c.Regs.PC
			c.tick(11)
			return
		}
		c.tick(5)
	}
}

func opRET(c *CPU) {
	c.Regs.PC = c.pop()
	c.Regs.MEMPTR = c.Regs.PC
	c.tick(10)
}

func opPOPrp2(p byte) func(*CPU) {
	return func(c *CPU) {
		c.writeReg16Push(p, c.pop())
		c.tick(10)
	}
}

func opPUSHrp2(p byte) func(*CPU) {
	return func(c *CPU) {
		c.push(c.readReg16Push(p))
		c.tick(11)
	}
}

func opJPHL(c *CPU) {
	c.Regs.PC = c.hlOrIndex()
	c.tick(4)
}

func opLDSPHL(c *CPU) {
	c.Regs.SP = c.hlOrIndex()
	c.tick(6)
}

func opJPnn(c *CPU) {
	addr := c.fetchWord()
	c.Regs.PC = addr
	c.Regs.MEMPTR = addr
	c.tick(10)
}

func opJPcc(cc byte) func(*CPU) {
	return func(c *CPU) {
		addr := c.fetchWord()
		c.Regs.MEMPTR = addr
		if c.testCond(cc) {
			c.Regs.PC = addr
		}
		// spec.md §9 Open Questions: JP cc,nn costs 10 T-states regardless
		// of whether the branch is taken.
		c.tick(10)
	}
}

func opCALLnn(c *CPU) {
	addr := c.fetchWord()
	c.Regs.MEMPTR = addr
	c.push(c.Regs.PC)
	c.Regs.PC = addr
	c.tick(17)
}

func opCALLcc(cc byte) func(*CPU) {
	return func(c *CPU) {
		addr := c.fetchWord()
		c.Regs.MEMPTR = addr
		if c.testCond(cc) {
			c.push(c.Regs.PC)
			c.Regs.PC = addr
			c.tick(17)
			return
		}
		c.tick(10)
	}
}

func opRST(y byte) func(*CPU) {
	target := uint16(y) * 8
	return func(c *CPU) {
		c.push(c.Regs.PC)
		c.Regs.PC = target
		c.Regs.MEMPTR = target
		c.tick(11)
	}
}

func opOUTnA(c *CPU) {
	n := c.fetchByte()
	port := uint16(c.Regs.A)<<8 | uint16(n)
	c.IO.WritePort(port, c.Regs.A)
	c.Regs.MEMPTR = (uint16(c.Regs.A) << 8) | ((uint16(n) + 1) & 0xFF)
	c.tick(11)
}

func opINAn(c *CPU) {
	n := c.fetchByte()
	port := uint16(c.Regs.A)<<8 | uint16(n)
	c.Regs.A = c.IO.ReadPort(port)
	c.Regs.MEMPTR = port + 1
	c.tick(11)
}

func opDI(c *CPU) {
	c.IFF1 = false
	c.IFF2 = false
	c.tick(4)
}

func opEI(c *CPU) {
	c.IFF1 = true
	c.IFF2 = true
	c.eiDeferred = true
	c.tick(4)
}
