// cpu_decode.go - Primary and CB-prefixed dispatch tables

/*
cpu_decode.go - Dispatch Table Construction for gbcore

initBaseOps and initCBOps build the two 256-entry tables Step walks.
Grounded on the teacher's cpu_z80.go initBaseOps()/initCBOps(): most
of the table is regular enough to fill with a for-loop over a
register/operand axis and a captured closure, with the irregular
opcodes (control transfers, the misc block, the eleven unused
encodings) assigned individually. The cost stored in each entry is
the not-taken baseline the credit scheduler gates on; opFunc bodies
report the actual cost, which can exceed the baseline on a taken
branch.
*/

package gbcore

// reg8/setReg8 index the eight one-byte operand positions used
// throughout the 0x40-0xBF block and the CB table, in opcode encoding
// order. r8HL (index 6) is (HL), not a register; each family's closure
// special-cases it.
const r8HL = 6

func (c *CPU) reg8(i int) byte {
	switch i {
	case 0:
		return c.B
	case 1:
		return c.C
	case 2:
		return c.D
	case 3:
		return c.E
	case 4:
		return c.H
	case 5:
		return c.L
	case 6:
		return c.bus.ReadByte(c.HL())
	case 7:
		return c.A
	}
	panic("reg8: index out of range")
}

func (c *CPU) setReg8(i int, v byte) {
	switch i {
	case 0:
		c.B = v
	case 1:
		c.C = v
	case 2:
		c.D = v
	case 3:
		c.E = v
	case 4:
		c.H = v
	case 5:
		c.L = v
	case 6:
		c.bus.WriteByte(c.HL(), v)
	case 7:
		c.A = v
	default:
		panic("setReg8: index out of range")
	}
}

// opIllegal raises the fatal error for one of the eleven unused
// primary encodings (§7).
func opIllegal(c *CPU) int {
	c.fail(IllegalOpcode, c.curOpcode, c.curPC, "unused primary encoding")
	return 4
}

func (c *CPU) initBaseOps() {
	// LD r,r' block: 0x40-0x7F, minus 0x76 (HALT) which preempts the
	// r=(HL),r'=(HL) slot.
	for opcode := 0x40; opcode <= 0x7F; opcode++ {
		if opcode == 0x76 {
			continue
		}
		dst := (opcode >> 3) & 0x07
		src := opcode & 0x07
		cost := 4
		if dst == r8HL || src == r8HL {
			cost = 8
		}
		d, s := dst, src
		c.baseOps[opcode] = opEntry{cost: cost, fn: func(c *CPU) int {
			c.setReg8(d, c.reg8(s))
			return cost
		}}
	}
	c.baseOps[0x76] = opEntry{cost: 4, fn: opHALT}

	// 8-bit ALU block: 0x80-0xBF, operand r per the low 3 bits, op
	// family per the high 3 bits (relative to 0x80).
	aluFns := [8]func(c *CPU, v byte){
		aluAdd, aluAdc, aluSub, aluSbc, aluAnd, aluXor, aluOr, aluCp,
	}
	for opcode := 0x80; opcode <= 0xBF; opcode++ {
		family := (opcode - 0x80) >> 3
		src := opcode & 0x07
		cost := 4
		if src == r8HL {
			cost = 8
		}
		fn := aluFns[family]
		s := src
		c.baseOps[opcode] = opEntry{cost: cost, fn: func(c *CPU) int {
			fn(c, c.reg8(s))
			return cost
		}}
	}

	// LD r,d8: 0x06,0x0E,0x16,0x1E,0x26,0x2E,0x36,0x3E
	for i, opcode := range []int{0x06, 0x0E, 0x16, 0x1E, 0x26, 0x2E, 0x36, 0x3E} {
		dst := i
		cost := 8
		if dst == r8HL {
			cost = 12
		}
		c.baseOps[opcode] = opEntry{cost: cost, fn: func(c *CPU) int {
			v := c.fetchByte()
			c.setReg8(dst, v)
			return cost
		}}
	}

	// INC r / DEC r: 0x04,0x0C,...,0x3C (INC) and 0x05,0x0D,...,0x3D (DEC)
	for i := 0; i < 8; i++ {
		reg := i
		cost := 4
		if reg == r8HL {
			cost = 12
		}
		incOp := 0x04 + i*8
		decOp := 0x05 + i*8
		c.baseOps[incOp] = opEntry{cost: cost, fn: func(c *CPU) int {
			c.setReg8(reg, c.incByte(c.reg8(reg)))
			return cost
		}}
		c.baseOps[decOp] = opEntry{cost: cost, fn: func(c *CPU) int {
			c.setReg8(reg, c.decByte(c.reg8(reg)))
			return cost
		}}
	}

	// 16-bit register pair ops: LD rr,d16 / INC rr / DEC rr / ADD HL,rr
	// / PUSH rr / POP rr, across BC, DE, HL, and (SP or AF depending on
	// family).
	type pairOps struct {
		get func(c *CPU) uint16
		set func(c *CPU, v uint16)
	}
	spPairs := [4]pairOps{
		{func(c *CPU) uint16 { return c.BC() }, func(c *CPU, v uint16) { c.SetBC(v) }},
		{func(c *CPU) uint16 { return c.DE() }, func(c *CPU, v uint16) { c.SetDE(v) }},
		{func(c *CPU) uint16 { return c.HL() }, func(c *CPU, v uint16) { c.SetHL(v) }},
		{func(c *CPU) uint16 { return c.SP }, func(c *CPU, v uint16) { c.SP = v }},
	}
	afPairs := spPairs
	afPairs[3] = pairOps{func(c *CPU) uint16 { return c.AF() }, func(c *CPU, v uint16) { c.SetAF(v) }}

	for i := 0; i < 4; i++ {
		p := spPairs[i]
		ldOp := 0x01 + i*0x10
		incOp := 0x03 + i*0x10
		decOp := 0x0B + i*0x10
		addOp := 0x09 + i*0x10
		c.baseOps[ldOp] = opEntry{cost: 12, fn: func(c *CPU) int {
			p.set(c, c.fetchWord())
			return 12
		}}
		c.baseOps[incOp] = opEntry{cost: 8, fn: func(c *CPU) int {
			p.set(c, p.get(c)+1)
			return 8
		}}
		c.baseOps[decOp] = opEntry{cost: 8, fn: func(c *CPU) int {
			p.set(c, p.get(c)-1)
			return 8
		}}
		c.baseOps[addOp] = opEntry{cost: 8, fn: func(c *CPU) int {
			c.addHL(p.get(c))
			return 8
		}}

		pp := afPairs[i]
		pushOp := 0xC5 + i*0x10
		popOp := 0xC1 + i*0x10
		c.baseOps[pushOp] = opEntry{cost: 16, fn: func(c *CPU) int {
			c.push(pp.get(c))
			return 16
		}}
		c.baseOps[popOp] = opEntry{cost: 12, fn: func(c *CPU) int {
			pp.set(c, c.pop())
			return 12
		}}
	}

	// Conditional control transfers: JR cc,r8 / JP cc,a16 / CALL cc,a16
	// / RET cc, across NZ,Z,NC,C.
	conds := [4]func(c *CPU) bool{
		func(c *CPU) bool { return !c.flag(flagZ) },
		func(c *CPU) bool { return c.flag(flagZ) },
		func(c *CPU) bool { return !c.flag(flagC) },
		func(c *CPU) bool { return c.flag(flagC) },
	}
	for i := 0; i < 4; i++ {
		cond := conds[i]
		jrOp := 0x20 + i*0x08
		jpOp := 0xC2 + i*0x08
		callOp := 0xC4 + i*0x08
		retOp := 0xC0 + i*0x08
		c.baseOps[jrOp] = opEntry{cost: 8, fn: func(c *CPU) int { return opJRCond(c, cond) }}
		c.baseOps[jpOp] = opEntry{cost: 12, fn: func(c *CPU) int { return opJPCond(c, cond) }}
		c.baseOps[callOp] = opEntry{cost: 12, fn: func(c *CPU) int { return opCallCond(c, cond) }}
		c.baseOps[retOp] = opEntry{cost: 8, fn: func(c *CPU) int { return opRetCond(c, cond) }}
	}

	// RST vectors: 0xC7,0xCF,...,0xFF -> 0x00,0x08,...,0x38
	for i := 0; i < 8; i++ {
		vec := uint16(i * 8)
		op := 0xC7 + i*8
		c.baseOps[op] = opEntry{cost: 16, fn: func(c *CPU) int {
			c.push(c.PC)
			c.PC = vec
			return 16
		}}
	}

	// Irregular opcodes: misc, unconditional control transfer, 8-bit
	// load forms that don't fit the r,r'/r,d8 grids, stack/SP forms.
	c.baseOps[0x00] = opEntry{cost: 4, fn: opNOP}
	c.baseOps[0x10] = opEntry{cost: 4, fn: opSTOP}
	c.baseOps[0xF3] = opEntry{cost: 4, fn: opDI}
	c.baseOps[0xFB] = opEntry{cost: 4, fn: opEI}
	c.baseOps[0x27] = opEntry{cost: 4, fn: opDAA}
	c.baseOps[0x37] = opEntry{cost: 4, fn: opSCF}
	c.baseOps[0x3F] = opEntry{cost: 4, fn: opCCF}
	c.baseOps[0x2F] = opEntry{cost: 4, fn: opCPL}

	c.baseOps[0x07] = opEntry{cost: 4, fn: opRLCA}
	c.baseOps[0x0F] = opEntry{cost: 4, fn: opRRCA}
	c.baseOps[0x17] = opEntry{cost: 4, fn: opRLA}
	c.baseOps[0x1F] = opEntry{cost: 4, fn: opRRA}

	c.baseOps[0x08] = opEntry{cost: 20, fn: opLDa16SP}
	c.baseOps[0xE8] = opEntry{cost: 16, fn: opAddSPr8}
	c.baseOps[0xF8] = opEntry{cost: 12, fn: opLDHLSPr8}
	c.baseOps[0xF9] = opEntry{cost: 8, fn: opLDSPHL}

	c.baseOps[0x02] = opEntry{cost: 8, fn: func(c *CPU) int { c.bus.WriteByte(c.BC(), c.A); return 8 }}
	c.baseOps[0x12] = opEntry{cost: 8, fn: func(c *CPU) int { c.bus.WriteByte(c.DE(), c.A); return 8 }}
	c.baseOps[0x0A] = opEntry{cost: 8, fn: func(c *CPU) int { c.A = c.bus.ReadByte(c.BC()); return 8 }}
	c.baseOps[0x1A] = opEntry{cost: 8, fn: func(c *CPU) int { c.A = c.bus.ReadByte(c.DE()); return 8 }}

	c.baseOps[0x22] = opEntry{cost: 8, fn: func(c *CPU) int {
		c.bus.WriteByte(c.HL(), c.A)
		c.SetHL(c.HL() + 1)
		return 8
	}}
	c.baseOps[0x2A] = opEntry{cost: 8, fn: func(c *CPU) int {
		c.A = c.bus.ReadByte(c.HL())
		c.SetHL(c.HL() + 1)
		return 8
	}}
	c.baseOps[0x32] = opEntry{cost: 8, fn: func(c *CPU) int {
		c.bus.WriteByte(c.HL(), c.A)
		c.SetHL(c.HL() - 1)
		return 8
	}}
	c.baseOps[0x3A] = opEntry{cost: 8, fn: func(c *CPU) int {
		c.A = c.bus.ReadByte(c.HL())
		c.SetHL(c.HL() - 1)
		return 8
	}}

	c.baseOps[0xE0] = opEntry{cost: 12, fn: func(c *CPU) int {
		a := 0xFF00 + uint16(c.fetchByte())
		c.bus.WriteByte(a, c.A)
		return 12
	}}
	c.baseOps[0xF0] = opEntry{cost: 12, fn: func(c *CPU) int {
		a := 0xFF00 + uint16(c.fetchByte())
		c.A = c.bus.ReadByte(a)
		return 12
	}}
	c.baseOps[0xE2] = opEntry{cost: 8, fn: func(c *CPU) int {
		c.bus.WriteByte(0xFF00+uint16(c.C), c.A)
		return 8
	}}
	c.baseOps[0xF2] = opEntry{cost: 8, fn: func(c *CPU) int {
		c.A = c.bus.ReadByte(0xFF00 + uint16(c.C))
		return 8
	}}
	c.baseOps[0xEA] = opEntry{cost: 16, fn: func(c *CPU) int {
		a := c.fetchWord()
		c.bus.WriteByte(a, c.A)
		return 16
	}}
	c.baseOps[0xFA] = opEntry{cost: 16, fn: func(c *CPU) int {
		a := c.fetchWord()
		c.A = c.bus.ReadByte(a)
		return 16
	}}

	c.baseOps[0xC6] = opEntry{cost: 8, fn: func(c *CPU) int { aluAdd(c, c.fetchByte()); return 8 }}
	c.baseOps[0xCE] = opEntry{cost: 8, fn: func(c *CPU) int { aluAdc(c, c.fetchByte()); return 8 }}
	c.baseOps[0xD6] = opEntry{cost: 8, fn: func(c *CPU) int { aluSub(c, c.fetchByte()); return 8 }}
	c.baseOps[0xDE] = opEntry{cost: 8, fn: func(c *CPU) int { aluSbc(c, c.fetchByte()); return 8 }}
	c.baseOps[0xE6] = opEntry{cost: 8, fn: func(c *CPU) int { aluAnd(c, c.fetchByte()); return 8 }}
	c.baseOps[0xEE] = opEntry{cost: 8, fn: func(c *CPU) int { aluXor(c, c.fetchByte()); return 8 }}
	c.baseOps[0xF6] = opEntry{cost: 8, fn: func(c *CPU) int { aluOr(c, c.fetchByte()); return 8 }}
	c.baseOps[0xFE] = opEntry{cost: 8, fn: func(c *CPU) int { aluCp(c, c.fetchByte()); return 8 }}

	c.baseOps[0xC3] = opEntry{cost: 16, fn: func(c *CPU) int { c.PC = c.fetchWord(); return 16 }}
	c.baseOps[0x18] = opEntry{cost: 12, fn: func(c *CPU) int {
		off := int8(c.fetchByte())
		c.PC = uint16(int32(c.PC) + int32(off))
		return 12
	}}
	c.baseOps[0xE9] = opEntry{cost: 4, fn: func(c *CPU) int { c.PC = c.HL(); return 4 }}
	c.baseOps[0xCD] = opEntry{cost: 24, fn: func(c *CPU) int {
		target := c.fetchWord()
		c.push(c.PC)
		c.PC = target
		return 24
	}}
	c.baseOps[0xC9] = opEntry{cost: 16, fn: func(c *CPU) int { c.PC = c.pop(); return 16 }}
	c.baseOps[0xD9] = opEntry{cost: 16, fn: func(c *CPU) int {
		c.PC = c.pop()
		c.ime = imeEnabled
		c.imeDelay = 0
		return 16
	}}
	c.baseOps[0xCB] = opEntry{cost: 4, fn: opCBPrefix}

	// Illegal primary encodings (§7): 0xD3,0xDB,0xDD,0xE3,0xE4,0xEB,
	// 0xEC,0xED,0xF4,0xFC,0xFD.
	for _, op := range []int{0xD3, 0xDB, 0xDD, 0xE3, 0xE4, 0xEB, 0xEC, 0xED, 0xF4, 0xFC, 0xFD} {
		c.baseOps[op] = opEntry{cost: 4, fn: opIllegal}
	}
}

// opCBPrefix consumes the CB sub-opcode byte and dispatches through
// cbOps. The base table only gates on the 4-cycle cost of fetching
// this second byte; the sub-opcode's own entry reports the true
// total cost (8, 12 or 16).
func opCBPrefix(c *CPU) int {
	sub := c.fetchByte()
	entry := c.cbOps[sub]
	return entry.fn(c)
}

func (c *CPU) initCBOps() {
	rotateFns := [8]func(c *CPU, v byte) byte{
		cbRLC, cbRRC, cbRL, cbRR, cbSLA, cbSRA, cbSwap, cbSRL,
	}
	for opcode := 0x00; opcode <= 0x3F; opcode++ {
		family := opcode >> 3
		reg := opcode & 0x07
		cost := 8
		if reg == r8HL {
			cost = 16
		}
		fn := rotateFns[family]
		r := reg
		c.cbOps[opcode] = opEntry{cost: cost, fn: func(c *CPU) int {
			c.setReg8(r, fn(c, c.reg8(r)))
			return cost
		}}
	}
	for opcode := 0x40; opcode <= 0x7F; opcode++ {
		bit := (opcode - 0x40) >> 3
		reg := opcode & 0x07
		cost := 8
		if reg == r8HL {
			cost = 12
		}
		b, r := uint(bit), reg
		c.cbOps[opcode] = opEntry{cost: cost, fn: func(c *CPU) int {
			cbBit(c, b, c.reg8(r))
			return cost
		}}
	}
	for opcode := 0x80; opcode <= 0xBF; opcode++ {
		bit := (opcode - 0x80) >> 3
		reg := opcode & 0x07
		cost := 8
		if reg == r8HL {
			cost = 16
		}
		b, r := uint(bit), reg
		c.cbOps[opcode] = opEntry{cost: cost, fn: func(c *CPU) int {
			c.setReg8(r, c.reg8(r)&^(1<<b))
			return cost
		}}
	}
	for opcode := 0xC0; opcode <= 0xFF; opcode++ {
		bit := (opcode - 0xC0) >> 3
		reg := opcode & 0x07
		cost := 8
		if reg == r8HL {
			cost = 16
		}
		b, r := uint(bit), reg
		c.cbOps[opcode] = opEntry{cost: cost, fn: func(c *CPU) int {
			c.setReg8(r, c.reg8(r)|(1<<b))
			return cost
		}}
	}
}
