// cpu_ops_misc.go - NOP, HALT, STOP, interrupt-master control, DAA, flags

/*
cpu_ops_misc.go - Miscellaneous Family for gbcore

Everything that doesn't belong to a load, ALU or control-transfer
family: the two cycle-burning no-ops, the interrupt-master flag's two
explicit opcodes (DI, EI — RETI lives beside the unconditional RET in
cpu_decode.go's irregular-opcode block since it's a control transfer first),
DAA's BCD correction table, and the three single-flag-bit opcodes.
*/

package gbcore

func opNOP(c *CPU) int {
	return 4
}

// opHALT suspends instruction execution. Waking it requires interrupt
// servicing, which is out of scope (§9 design notes); a CPU that
// halts stays halted for the remainder of the run.
func opHALT(c *CPU) int {
	c.Halted = true
	return 4
}

// opSTOP is encoded as two bytes (0x10 0x00) but gbcore has no low-
// power state to enter, so it behaves as a two-byte NOP: the second
// byte is simply consumed.
func opSTOP(c *CPU) int {
	c.fetchByte()
	return 4
}

// opDI clears the interrupt-master flag immediately, canceling any
// EI-pending enable still in flight.
func opDI(c *CPU) int {
	c.ime = imeDisabled
	c.imeDelay = 0
	return 4
}

// opEI schedules the interrupt-master flag to become enabled after
// the instruction following EI has executed (the one-instruction
// delay documented in §4.2), implemented via imeDelay and
// finishInstruction in cpu.go.
func opEI(c *CPU) int {
	c.ime = imePendingEnable
	c.imeDelay = 2
	return 4
}

// opDAA adjusts A into packed BCD after an 8-bit addition or
// subtraction, using the standard four-way split on the N and C/H
// flags left by the preceding ALU opcode.
func opDAA(c *CPU) int {
	a := c.A
	carry := c.flag(flagC)
	if !c.flag(flagN) {
		if carry || a > 0x99 {
			a += 0x60
			carry = true
		}
		if c.flag(flagH) || a&0x0F > 0x09 {
			a += 0x06
		}
	} else {
		if c.flag(flagH) {
			a -= 0x06
		}
		if carry {
			a -= 0x60
		}
	}
	c.A = a
	c.setFlag(flagZ, c.A == 0)
	c.setFlag(flagH, false)
	c.setFlag(flagC, carry)
	return 4
}

func opSCF(c *CPU) int {
	c.setFlag(flagC, true)
	c.setFlag(flagN, false)
	c.setFlag(flagH, false)
	return 4
}

func opCCF(c *CPU) int {
	c.setFlag(flagC, !c.flag(flagC))
	c.setFlag(flagN, false)
	c.setFlag(flagH, false)
	return 4
}

func opCPL(c *CPU) int {
	c.A = ^c.A
	c.setFlag(flagN, true)
	c.setFlag(flagH, true)
	return 4
}
