// ops_ed.go - the ED-prefixed page: 16-bit ADC/SBC, extended LD, NEG,
// RETN/RETI, IM 0/1/2, LD I,A/LD R,A/LD A,I/LD A,R, RRD/RLD, and the block
// transfer/compare/IO groups (spec.md §4.5, §4.6).
//
// (c) 2024 - 2026 Zayn Otley
// https://github.com/IntuitionAmiga/IntuitionEngine
// License: GPLv3 or later

package z80

// imTable maps the ED IM opcode's y field to the resulting interrupt mode;
// several y values are duplicate encodings of the same mode.
var imTable = [8]byte{0, 0, 1, 2, 0, 0, 1, 2}

func (c *CPU) initEDOps() {
	for op := 0; op < 256; op++ {
		c.edOps[op] = c.decodeED(byte(op))
	}
}

func (c *CPU) decodeED(op byte) func(*CPU) {
	x := op >> 6
	y := (op >> 3) & 7
	z := op & 7
	p := y >> 1
	q := y & 1

	switch x {
	case 1:
		return decodeED1(y, z, p, q)
	case 2:
		if z <= 3 && y >= 4 {
			return blockOps[y-4][z]
		}
		return nil
	default:
		return nil
	}
}

func decodeED1(y, z, p, q byte) func(*CPU) {
	switch z {
	case 0:
		return opINrC(y)
	case 1:
		return opOUTCr(y)
	case 2:
		if q == 0 {
			return opSBCHLrr(p)
		}
		return opADCHLrr(p)
	case 3:
		if q == 0 {
			return opLDnnRR(p)
		}
		return opLDRRnn(p)
	case 4:
		return opNEG
	case 5:
		if y == 1 {
			return opRETI
		}
		return opRETN
	case 6:
		im := imTable[y]
		return func(c *CPU) { c.SetIM(im); c.tick(8) }
	default:
		return edz7Ops[y]
	}
}

func opINrC(y byte) func(*CPU) {
	return func(c *CPU) {
		port := c.Regs.BC()
		v := c.IO.ReadPort(port)
		c.Regs.MEMPTR = port + 1
		_, f := orXorFlags8(v)
		c.Regs.F = (c.Regs.F & FlagC) | f
		if y != 6 { // y==6 is the undocumented "IN F,(C)": flags only
			c.writeReg8Plain(y, v)
		}
		c.tick(12)
	}
}

func opOUTCr(y byte) func(*CPU) {
	return func(c *CPU) {
		port := c.Regs.BC()
		v := byte(0)
		if y != 6 {
			v = c.readReg8(y)
		}
		c.IO.WritePort(port, v)
		c.Regs.MEMPTR = port + 1
		c.tick(12)
	}
}

func opSBCHLrr(p byte) func(*CPU) {
	return func(c *CPU) {
		a := c.Regs.HL()
		b := c.readReg16(p)
		cin := byte(0)
		if c.Regs.CarryFlag() {
			cin = 1
		}
		result, f := sbcHLFlags(a, b, cin)
		c.Regs.SetHL(result)
		c.Regs.F = f
		c.Regs.MEMPTR = a + 1
		c.tick(15)
	}
}

func opADCHLrr(p byte) func(*CPU) {
	return func(c *CPU) {
		a := c.Regs.HL()
		b := c.readReg16(p)
		cin := byte(0)
		if c.Regs.CarryFlag() {
			cin = 1
		}
		result, f := adcHLFlags(a, b, cin)
		c.Regs.SetHL(result)
		c.Regs.F = f
		c.Regs.MEMPTR = a + 1
		c.tick(15)
	}
}

func opLDnnRR(p byte) func(*CPU) {
	return func(c *CPU) {
		addr := c.fetchWord()
		c.Mem.WriteWordLE(addr, c.readReg16(p))
		c.Regs.MEMPTR = addr + 1
		c.tick(20)
	}
}

func opLDRRnn(p byte) func(*CPU) {
	return func(c *CPU) {
		addr := c.fetchWord()
		c.writeReg16(p, c.Mem.ReadWordLE(addr))
		c.Regs.MEMPTR = addr + 1
		c.tick(20)
	}
}

func opNEG(c *CPU) {
	result, f := negFlags(c.Regs.A)
	c.Regs.A = result
	c.Regs.F = f
	c.tick(8)
}

// opRETN restores IFF1 from IFF2, per spec.md §4.6. Every ED z==5 opcode
// except y==1 is a duplicate-encoded RETN.
func opRETN(c *CPU) {
	c.Regs.PC = c.pop()
	c.Regs.MEMPTR = c.Regs.PC
	c.IFF1 = c.IFF2
	c.tick(14)
}

// opRETI is identical in CPU effect to RETN; architecturally it signals
// peripherals that the interrupt service routine has ended.
func opRETI(c *CPU) {
	c.Regs.PC = c.pop()
	c.Regs.MEMPTR = c.Regs.PC
	c.IFF1 = c.IFF2
	c.tick(14)
}

var edz7Ops = [8]func(*CPU){
	func(c *CPU) { c.Regs.I = c.Regs.A; c.tick(9) },
	func(c *CPU) { c.Regs.R = c.Regs.A; c.tick(9) },
	func(c *CPU) {
		c.Regs.A = c.Regs.I
		c.Regs.F = ldAIRFlags(c.Regs.F, c.Regs.A, c.IFF2)
		c.tick(9)
	},
	func(c *CPU) {
		c.Regs.A = c.Regs.R
		c.Regs.F = ldAIRFlags(c.Regs.F, c.Regs.A, c.IFF2)
		c.tick(9)
	},
	opRRD,
	opRLD,
	func(c *CPU) { c.tick(8) }, // duplicate NONI NOP encodings
	func(c *CPU) { c.tick(8) },
}

func opRRD(c *CPU) {
	addr := c.Regs.HL()
	m := c.Mem.ReadByte(addr)
	a := c.Regs.A
	newA := (a & 0xF0) | (m & 0x0F)
	newM := (a << 4) | (m >> 4)
	c.Regs.A = newA
	c.Mem.WriteByte(addr, newM)
	c.Regs.MEMPTR = addr + 1
	_, f := orXorFlags8(newA)
	c.Regs.F = (c.Regs.F & FlagC) | f
	c.tick(18)
}

func opRLD(c *CPU) {
	addr := c.Regs.HL()
	m := c.Mem.ReadByte(addr)
	a := c.Regs.A
	newA := (a & 0xF0) | (m >> 4)
	newM := (m << 4) | (a & 0x0F)
	c.Regs.A = newA
	c.Mem.WriteByte(addr, newM)
	c.Regs.MEMPTR = addr + 1
	_, f := orXorFlags8(newA)
	c.Regs.F = (c.Regs.F & FlagC) | f
	c.tick(18)
}

// blockOps[y-4][z]: the row selects increment-once (y=4), decrement-once
// (y=5), increment-repeat (y=6), decrement-repeat (y=7); the column z
// selects 0=LD, 1=CP, 2=IN, 3=OUT.
var blockOps = [4][4]func(*CPU){
	{opLDI, opCPI, opINI, opOUTI},
	{opLDD, opCPD, opIND, opOUTD},
	{opLDIR, opCPIR, opINIR, opOTIR},
	{opLDDR, opCPDR, opINDR, opOTDR},
}

func ldStep(c *CPU, dir int16) bool {
	hl, de, bc := c.Regs.HL(), c.Regs.DE(), c.Regs.BC()
	v := c.Mem.ReadByte(hl)
	c.Mem.WriteByte(de, v)
	c.Regs.SetHL(uint16(int32(hl) + int32(dir)))
	c.Regs.SetDE(uint16(int32(de) + int32(dir)))
	bc--
	c.Regs.SetBC(bc)

	f := c.Regs.F & (FlagS | FlagZ | FlagC)
	f |= blockXferF3F5(c.Regs.A, v)
	if bc != 0 {
		f |= FlagPV
	}
	c.Regs.F = f
	return bc != 0
}

func opLDI(c *CPU) { ldStep(c, 1); c.tick(16) }
func opLDD(c *CPU) { ldStep(c, -1); c.tick(16) }

func opLDIR(c *CPU) {
	if ldStep(c, 1) {
		c.Regs.PC -= 2
		c.Regs.MEMPTR = c.Regs.PC + 1
		c.tick(21)
		return
	}
	c.tick(16)
}

func opLDDR(c *CPU) {
	if ldStep(c, -1) {
		c.Regs.PC -= 2
		c.Regs.MEMPTR = c.Regs.PC + 1
		c.tick(21)
		return
	}
	c.tick(16)
}

func cpStep(c *CPU, dir int16) bool {
	hl, bc := c.Regs.HL(), c.Regs.BC()
	a := c.Regs.A
	value := c.Mem.ReadByte(hl)
	result := a - value
	halfBorrow := (a & 0x0F) < (value & 0x0F)

	c.Regs.SetHL(uint16(int32(hl) + int32(dir)))
	bc--
	c.Regs.SetBC(bc)

	f := szf3f5(result) | FlagN | (c.Regs.F & FlagC)
	if halfBorrow {
		f |= FlagH
	}
	f &^= FlagF3 | FlagF5
	f |= blockCompareF3F5(a, value, halfBorrow)
	if bc != 0 {
		f |= FlagPV
	}
	c.Regs.F = f
	if dir > 0 {
		c.Regs.MEMPTR++
	} else {
		c.Regs.MEMPTR--
	}
	return bc != 0 && result != 0
}

func opCPI(c *CPU) { cpStep(c, 1); c.tick(16) }
func opCPD(c *CPU) { cpStep(c, -1); c.tick(16) }

func opCPIR(c *CPU) {
	if cpStep(c, 1) {
		c.Regs.PC -= 2
		c.Regs.MEMPTR = c.Regs.PC + 1
		c.tick(21)
		return
	}
	c.tick(16)
}

func opCPDR(c *CPU) {
	if cpStep(c, -1) {
		c.Regs.PC -= 2
		c.Regs.MEMPTR = c.Regs.PC + 1
		c.tick(21)
		return
	}
	c.tick(16)
}

func ioBlockFlags(c *CPU, b byte) {
	f := szf3f5(b) & (FlagS | FlagZ | FlagF3 | FlagF5)
	f |= FlagN
	if b == 0 {
		f |= FlagZ
	}
	c.Regs.F = f | (c.Regs.F & FlagC)
}

func opINI(c *CPU) {
	port := c.Regs.BC()
	v := c.IO.ReadPort(port)
	c.Mem.WriteByte(c.Regs.HL(), v)
	c.Regs.SetHL(c.Regs.HL() + 1)
	c.Regs.B--
	ioBlockFlags(c, c.Regs.B)
	c.Regs.MEMPTR = port + 1
	c.tick(16)
}

func opIND(c *CPU) {
	port := c.Regs.BC()
	v := c.IO.ReadPort(port)
	c.Mem.WriteByte(c.Regs.HL(), v)
	c.Regs.SetHL(c.Regs.HL() - 1)
	c.Regs.B--
	ioBlockFlags(c, c.Regs.B)
	c.Regs.MEMPTR = port - 1
	c.tick(16)
}

func opINIR(c *CPU) {
	opINI(c)
	if c.Regs.B != 0 {
		c.Regs.PC -= 2
		c.TStates += 5
	}
}

func opINDR(c *CPU) {
	opIND(c)
	if c.Regs.B != 0 {
		c.Regs.PC -= 2
		c.TStates += 5
	}
}

func opOUTI(c *CPU) {
	v := c.Mem.ReadByte(c.Regs.HL())
	c.Regs.SetHL(c.Regs.HL() + 1)
	c.Regs.B--
	c.IO.WritePort(c.Regs.BC(), v)
	ioBlockFlags(c, c.Regs.B)
	c.Regs.MEMPTR = c.Regs.BC() + 1
	c.tick(16)
}

func opOUTD(c *CPU) {
	v := c.Mem.ReadByte(c.Regs.HL())
	c.Regs.SetHL(c.Regs.HL() - 1)
	c.Regs.B--
	c.IO.WritePort(c.Regs.BC(), v)
	ioBlockFlags(c, c.Regs.B)
	c.Regs.MEMPTR = c.Regs.BC() - 1
	c.tick(16)
}

func opOTIR(c *CPU) {
	opOUTI(c)
	if c.Regs.B != 0 {
		c.Regs.PC -= 2
		c.TStates += 5
	}
}

func opOTDR(c *CPU) {
	opOUTD(c)
	if c.Regs.B != 0 {
		c.Regs.PC -= 2
		c.TStates += 5
	}
}
