package gbcore

import "testing"

func TestLDRegisterToRegisterTransparency(t *testing.T) {
	bus := NewBus()
	bus.WriteByte(0x0000, 0x41) // LD B,C
	cpu := New()
	cpu.C = 0x77
	cpu.Init(bus)
	if err := cpu.Step(bus, 4); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if cpu.B != 0x77 {
		t.Fatalf("B = 0x%02X, want 0x77", cpu.B)
	}
	if cpu.C != 0x77 {
		t.Fatalf("C = 0x%02X, want unchanged 0x77 (load transparency)", cpu.C)
	}
}

func TestLDHLIncrementWritesThenAdvancesHL(t *testing.T) {
	bus := NewBus()
	bus.WriteByte(0x0000, 0x22) // LD (HL+),A
	cpu := New()
	cpu.A = 0x5A
	cpu.SetHL(0x9000)
	cpu.Init(bus)
	if err := cpu.Step(bus, 8); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if got := bus.ReadByte(0x9000); got != 0x5A {
		t.Fatalf("memory[0x9000] = 0x%02X, want 0x5A", got)
	}
	if cpu.HL() != 0x9001 {
		t.Fatalf("HL = 0x%04X, want 0x9001", cpu.HL())
	}
}

func TestLDHLDecrementReadsThenAdvancesHL(t *testing.T) {
	bus := NewBus()
	bus.WriteByte(0x0000, 0x3A) // LD A,(HL-)
	bus.WriteByte(0x9000, 0x42)
	cpu := New()
	cpu.SetHL(0x9000)
	cpu.Init(bus)
	if err := cpu.Step(bus, 8); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if cpu.A != 0x42 {
		t.Fatalf("A = 0x%02X, want 0x42", cpu.A)
	}
	if cpu.HL() != 0x8FFF {
		t.Fatalf("HL = 0x%04X, want 0x8FFF", cpu.HL())
	}
}

func TestLDHWritesAndReadsHighPage(t *testing.T) {
	bus := NewBus()
	bus.WriteByte(0x0000, 0xE0) // LDH (a8),A
	bus.WriteByte(0x0001, 0x80)
	bus.WriteByte(0x0002, 0xF0) // LDH A,(a8)
	bus.WriteByte(0x0003, 0x80)
	cpu := New()
	cpu.A = 0x99
	cpu.Init(bus)
	if err := cpu.Step(bus, 12); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if got := bus.ReadByte(0xFF80); got != 0x99 {
		t.Fatalf("memory[0xFF80] = 0x%02X, want 0x99", got)
	}
	cpu.A = 0x00
	if err := cpu.Step(bus, 12); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if cpu.A != 0x99 {
		t.Fatalf("A = 0x%02X, want 0x99", cpu.A)
	}
}

func TestLDAddr16FromSP(t *testing.T) {
	bus := NewBus()
	bus.WriteByte(0x0000, 0x08) // LD (a16),SP
	bus.WriteByte(0x0001, 0x00)
	bus.WriteByte(0x0002, 0x90)
	cpu := New()
	cpu.SP = 0xBEEF
	cpu.Init(bus)
	if err := cpu.Step(bus, 20); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if got := bus.ReadWord(0x9000); got != 0xBEEF {
		t.Fatalf("memory[0x9000] = 0x%04X, want 0xBEEF", got)
	}
}

func TestLDHLFromSPPlusOffset(t *testing.T) {
	bus := NewBus()
	bus.WriteByte(0x0000, 0xF8) // LD HL,SP+r8
	bus.WriteByte(0x0001, 0x02)
	cpu := New()
	cpu.SP = 0xFFF0
	cpu.Init(bus)
	if err := cpu.Step(bus, 12); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if cpu.HL() != 0xFFF2 {
		t.Fatalf("HL = 0x%04X, want 0xFFF2", cpu.HL())
	}
	if cpu.SP != 0xFFF0 {
		t.Fatalf("SP mutated to 0x%04X, want unchanged 0xFFF0", cpu.SP)
	}
	if cpu.flag(flagZ) {
		t.Fatalf("Z flag set, LD HL,SP+r8 always clears it")
	}
}

func TestJPToHLIsFourCycles(t *testing.T) {
	bus := NewBus()
	bus.WriteByte(0x0000, 0xE9) // JP (HL)
	cpu := New()
	cpu.SetHL(0x4444)
	cpu.Init(bus)
	if err := cpu.Step(bus, 4); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if cpu.PC != 0x4444 {
		t.Fatalf("PC = 0x%04X, want 0x4444", cpu.PC)
	}
}

func TestConditionalJumpNotTakenUsesBaselineCost(t *testing.T) {
	bus := NewBus()
	bus.WriteByte(0x0000, 0xC2) // JP NZ,a16
	bus.WriteByte(0x0001, 0x00)
	bus.WriteByte(0x0002, 0x20)
	cpu := New()
	cpu.setFlag(flagZ, true) // condition false: NZ fails
	cpu.Init(bus)

	if err := cpu.Step(bus, 12); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if cpu.PC != 3 {
		t.Fatalf("PC = %d, want 3 (fall through)", cpu.PC)
	}
	if cpu.CycleTotal != 12 {
		t.Fatalf("CycleTotal = %d, want 12 (not-taken cost)", cpu.CycleTotal)
	}
}

// TestCreditDeficitCarriesIntoNextStep exercises the scheduling model
// described in cpu.go: a taken branch can cost more than the
// not-taken baseline the gate used, leaving a deficit the next Step
// call must absorb before decoding a further instruction.
func TestCreditDeficitCarriesIntoNextStep(t *testing.T) {
	bus := NewBus()
	bus.WriteByte(0x0000, 0xC2) // JP NZ,a16 (taken: 16 cycles, baseline 12)
	bus.WriteByte(0x0001, 0x05)
	bus.WriteByte(0x0002, 0x00)
	bus.WriteByte(0x0005, 0x00) // NOP at the jump target
	cpu := New()
	// flagZ already clear -> NZ holds -> branch taken
	cpu.Init(bus)

	// Deliver only the not-taken baseline; the branch still executes
	// (credit gate only checks the baseline), costing 16 actual cycles
	// against 12 delivered, leaving pending at -4.
	if err := cpu.Step(bus, 12); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if cpu.PC != 0x0005 {
		t.Fatalf("PC = 0x%04X, want 0x0005", cpu.PC)
	}
	if cpu.CycleTotal != 16 {
		t.Fatalf("CycleTotal = %d, want 16 (taken cost)", cpu.CycleTotal)
	}

	// The next opcode is a NOP (baseline 4); with pending at -4, four
	// cycles of credit are not yet enough to pay off the deficit.
	if err := cpu.Step(bus, 4); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if cpu.PC != 0x0005 {
		t.Fatalf("PC advanced to 0x%04X before the deficit was paid off", cpu.PC)
	}
	if err := cpu.Step(bus, 4); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if cpu.PC != 0x0006 {
		t.Fatalf("PC = 0x%04X, want 0x0006 once the deficit clears", cpu.PC)
	}
}
