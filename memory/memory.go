// Package memory defines the flat 64KiB address space the cpu package
// executes against. Unlike a multi-chip machine (which needs banking,
// shadowing and MMIO) the core only ever needs one address space, so this
// package stays deliberately small: an interface the engine consumes plus
// a single concrete backing store.
package memory

// resetVector is the address of the little-endian 16-bit reset vector.
// Duplicated from cpu.ResetVector to avoid an import cycle; the two
// packages agree on the 6502 memory map by convention, not by sharing a
// symbol.
const resetVector = uint16(0xFFFC)

// userMemoryStart is where a freshly constructed Flat points PC after
// reset - the first byte past the reserved zero page and stack page.
const userMemoryStart = uint16(0x0200)

// Memory is the interface the cpu package requires from its backing
// store. It is intentionally just these two operations: no banking, no
// side effects, no error return. Every 16-bit address is valid.
type Memory interface {
	// Read returns the byte stored at addr.
	Read(addr uint16) uint8
	// Write stores val at addr.
	Write(addr uint16, val uint8)
}

// Flat is a 64KiB byte array implementing Memory with no mapping or
// banking. It is the only concrete Memory this repository ships; a
// peripheral/MMIO-aware implementation is out of scope for this core and
// would live in a separate package behind the same interface.
type Flat struct {
	data [65536]uint8
}

// NewFlat returns a Flat with every byte zeroed except the reset vector,
// which is preloaded to point at userMemoryStart so a freshly constructed
// system boots predictably without the caller having to know the 6502
// memory map.
func NewFlat() *Flat {
	f := &Flat{}
	f.Write(resetVector, uint8(userMemoryStart&0xFF))
	f.Write(resetVector+1, uint8(userMemoryStart>>8))
	return f
}

// Read implements Memory.
func (f *Flat) Read(addr uint16) uint8 {
	return f.data[addr]
}

// Write implements Memory.
func (f *Flat) Write(addr uint16, val uint8) {
	f.data[addr] = val
}

// LoadAt copies prog into the backing store starting at addr, wrapping
// modulo 65536 if the program runs past $FFFF. It's a convenience for
// tests and the cmd/sim6502 driver, not part of the Memory interface
// itself.
func (f *Flat) LoadAt(addr uint16, prog []uint8) {
	for _, b := range prog {
		f.data[addr] = b
		addr++
	}
}
