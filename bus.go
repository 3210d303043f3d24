// bus.go - Flat memory bus for the LR35902 core

/*
bus.go - Memory Bus for gbcore

This module implements the memory bus that forms the backbone of the
emulator's memory subsystem. It provides byte- and word-granularity
access to a flat 64KB address space, plus a small lookahead read used
by the CPU's instruction prefetch.

Core Features:

    64KB of addressable memory allocated as a single contiguous block.
    Little-endian word read/write operations.
    A 4-byte lookahead fetch for instruction decode.
    A bulk initializer used to seed the bus from a boot image.

Technical Details:

    The Bus struct is the sole implementation of the MemoryBus
    interface. Addresses are always in range: the CPU is responsible
    for keeping PC, SP and any computed address within 16 bits before
    it reaches the bus.
    16-bit values are assembled and disassembled by hand rather than
    via encoding/binary, since the values in play are always exactly
    two bytes and the manual form reads closer to the datasheet's own
    "low byte, high byte" description of the convention.

Concurrency:

    The bus performs no locking of its own (see §5 of the design:
    CPU has exclusive mutating access, PPU only reads). Callers are
    expected to honor that discipline; a shared mutex here would only
    hide ordering bugs rather than prevent them.
*/

package gbcore

// MemoryBus is the interface the CPU and PPU use to reach memory. A
// concrete Bus satisfies it directly.
type MemoryBus interface {
	ReadByte(addr uint16) byte
	ReadWord(addr uint16) uint16
	ReadAhead(addr uint16) [4]byte
	WriteByte(addr uint16, value byte)
	WriteWord(addr uint16, value uint16)
}

const busSize = 1 << 16 // 65536 addressable bytes

// Bus is the flat 64KB address space shared by the CPU and PPU.
//
// There is no bank switching, no echo-RAM mirroring and no I/O
// register mapping: every one of the 65536 cells behaves the same
// way for every address. Production Game Boy hardware overlays all
// of those on top of this same linear space; they are out of scope
// here and belong to a collaborator that wraps Bus, not to Bus
// itself.
type Bus struct {
	memory [busSize]byte
}

// NewBus returns a Bus with every cell zeroed.
func NewBus() *Bus {
	return &Bus{}
}

// ReadByte returns the byte stored at addr.
func (b *Bus) ReadByte(addr uint16) byte {
	return b.memory[addr]
}

// ReadWord returns the 16-bit little-endian word at addr: the low
// byte lives at addr, the high byte at addr+1.
func (b *Bus) ReadWord(addr uint16) uint16 {
	lo := uint16(b.memory[addr])
	hi := uint16(b.memory[addr+1])
	return lo | hi<<8
}

// ReadAhead returns the 4 bytes starting at addr. The CPU uses this
// to prime its prefetch: every LR35902 instruction is at most 3
// bytes (opcode + up to 2 operand bytes), so 4 bytes always cover
// one full instruction plus the following opcode byte.
func (b *Bus) ReadAhead(addr uint16) [4]byte {
	var out [4]byte
	for i := range out {
		out[i] = b.memory[addr+uint16(i)]
	}
	return out
}

// WriteByte stores value at addr.
func (b *Bus) WriteByte(addr uint16, value byte) {
	b.memory[addr] = value
}

// WriteWord stores a 16-bit little-endian word at addr: the low
// byte at addr, the high byte at addr+1.
func (b *Bus) WriteWord(addr uint16, value uint16) {
	b.memory[addr] = byte(value)
	b.memory[addr+1] = byte(value >> 8)
}

// Initialize writes image starting at address 0, overwriting
// whatever was there. It performs no validation of the image's
// length or contents: loading a boot ROM from a file, and any
// checksum or header inspection of a cartridge image, belongs to
// the host that calls Initialize, not to the bus.
func (b *Bus) Initialize(image []byte) {
	copy(b.memory[:], image)
}
