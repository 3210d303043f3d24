package gbcore

import (
	"strings"
	"testing"
)

func TestCoreErrorMessage(t *testing.T) {
	err := &CoreError{Kind: IllegalOpcode, Opcode: 0xD3, PC: 0x0042, Message: "unused primary encoding"}
	msg := err.Error()
	if !strings.Contains(msg, "IllegalOpcode") || !strings.Contains(msg, "0xD3") || !strings.Contains(msg, "0x0042") {
		t.Fatalf("Error() = %q, missing expected fields", msg)
	}
}

func TestIllegalOpcodeIsFatalAndSticky(t *testing.T) {
	bus := NewBus()
	bus.WriteByte(0x0000, 0xD3) // illegal
	bus.WriteByte(0x0001, 0x00) // NOP, never reached
	cpu := New()
	cpu.Init(bus)

	err := cpu.Step(bus, 4)
	if err == nil {
		t.Fatalf("expected a fatal error from the illegal opcode")
	}
	coreErr, ok := err.(*CoreError)
	if !ok {
		t.Fatalf("error is %T, want *CoreError", err)
	}
	if coreErr.Kind != IllegalOpcode {
		t.Fatalf("Kind = %v, want IllegalOpcode", coreErr.Kind)
	}
	if coreErr.Opcode != 0xD3 {
		t.Fatalf("Opcode = 0x%02X, want 0xD3", coreErr.Opcode)
	}
	if coreErr.PC != 0x0000 {
		t.Fatalf("PC = 0x%04X, want 0x0000", coreErr.PC)
	}

	// Once raised, further Step calls must return the same error
	// without advancing PC or executing anything further.
	pcBefore := cpu.PC
	if err2 := cpu.Step(bus, 100); err2 != err {
		t.Fatalf("second Step returned a different error: %v", err2)
	}
	if cpu.PC != pcBefore {
		t.Fatalf("PC advanced after a fatal error: 0x%04X -> 0x%04X", pcBefore, cpu.PC)
	}
}

func TestAllIllegalOpcodesAreWired(t *testing.T) {
	illegal := []byte{0xD3, 0xDB, 0xDD, 0xE3, 0xE4, 0xEB, 0xEC, 0xED, 0xF4, 0xFC, 0xFD}
	for _, op := range illegal {
		bus := NewBus()
		bus.WriteByte(0x0000, op)
		cpu := New()
		cpu.Init(bus)
		if err := cpu.Step(bus, 4); err == nil {
			t.Fatalf("opcode 0x%02X did not raise a fatal error", op)
		}
	}
}

func TestLoggerReportFatalWritesOneLine(t *testing.T) {
	var sb strings.Builder
	logger := NewLogger(&sb)
	logger.ReportFatal(&CoreError{Kind: IllegalOpcode, Opcode: 0xDD, PC: 0x10, Message: "unused primary encoding"})
	if !strings.Contains(sb.String(), "0xDD") {
		t.Fatalf("log output = %q, missing opcode", sb.String())
	}
	if n := strings.Count(sb.String(), "\n"); n != 1 {
		t.Fatalf("log output = %q, has %d lines, want 1", sb.String(), n)
	}
}

func TestNewLoggerDiscardsOnNilWriter(t *testing.T) {
	logger := NewLogger(nil)
	logger.ReportFatal(&CoreError{Kind: IllegalOpcode, Opcode: 0x00, PC: 0x00, Message: "test"})
}
