// Package cpu implements the MOS 6502 instruction execution engine: the
// register file, the timed bus primitives every instruction is built
// from, the eleven addressing modes, and one handler per documented
// opcode this core supports. See the package-level design notes in the
// repository root for the full list of deliberately unimplemented
// opcodes (undocumented NMOS opcodes, BRK/RTI, decimal-mode arithmetic).
package cpu

import (
	"fmt"

	"github.com/mosemu/sim6502/irq"
	"github.com/mosemu/sim6502/memory"
)

// Status register bit masks, from bit 7 (N) down to bit 0 (C).
const (
	PNegative  = uint8(0x80)
	POverflow  = uint8(0x40)
	PUnused    = uint8(0x20) // Always 1 in the architectural model.
	PBreak     = uint8(0x10) // Set on the stack copy of P pushed by PHP.
	PDecimal   = uint8(0x08)
	PInterrupt = uint8(0x04)
	PZero      = uint8(0x02)
	PCarry     = uint8(0x01)
)

// The three reserved vector addresses. NMI and IRQ are reserved but never
// consulted by this core (see package doc); RESET is the one this core
// actually loads PC from.
const (
	NMIVector   = uint16(0xFFFA)
	ResetVector = uint16(0xFFFC)
	IRQVector   = uint16(0xFFFE)
)

// stackBase is the fixed page the hardware stack lives in. The effective
// stack address is always stackBase|SP.
const stackBase = uint16(0x0100)

// resetCycles models the number of bus cycles the real hardware reset
// sequence consumes before the first instruction fetch.
const resetCycles = uint64(7)

// State is the engine's run state. There are exactly two: Running, and
// Halted after an undocumented opcode.
type State int

const (
	// StateRunning is the only state ExecuteNext can be profitably called
	// in.
	StateRunning State = iota
	// StateHalted means a prior ExecuteNext returned an *InvalidOpcode
	// and the engine will not proceed further until Reset.
	StateHalted
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "Running"
	case StateHalted:
		return "Halted"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// InvalidOpcode is returned by ExecuteNext when the fetched opcode byte
// has no handler registered in the dispatch table. It is the sole error
// this engine can originate and is unrecoverable: the engine transitions
// to StateHalted and will not advance on further ExecuteNext calls until
// Reset.
type InvalidOpcode struct {
	Opcode uint8
	PC     uint16
}

// Error implements the error interface.
func (e *InvalidOpcode) Error() string {
	return fmt.Sprintf("invalid opcode $%02X at PC=$%04X", e.Opcode, e.PC)
}

// Chip is a MOS 6502 register file plus the bus primitives and
// instruction decoder built on top of it. The zero value is not usable;
// construct with New and bring it to a defined state with Reset.
type Chip struct {
	a  uint8
	x  uint8
	y  uint8
	sp uint8
	pc uint16
	p  uint8

	cycles uint64

	mem memory.Memory

	state     State
	haltError error

	// nmi and irqLine are reserved hooks for a future peripheral layer.
	// ExecuteNext never consults them; see package doc and SPEC_FULL.md
	// §1 Non-goals. They exist so a driver can already wire an
	// irq.Sender in without the API changing shape later, and so a
	// debugger can report pending-interrupt state even though nothing
	// in this core acts on it yet.
	nmi     irq.Sender
	irqLine irq.Sender
}

// New constructs a Chip wired to mem. The returned Chip is in an
// undefined register state until Reset is called.
func New(mem memory.Memory) *Chip {
	return &Chip{mem: mem}
}

// SetNMISource installs a reserved NMI hook. See the nmi field doc: this
// core never triggers on it.
func (c *Chip) SetNMISource(s irq.Sender) {
	c.nmi = s
}

// SetIRQSource installs a reserved IRQ hook. See the irqLine field doc:
// this core never triggers on it.
func (c *Chip) SetIRQSource(s irq.Sender) {
	c.irqLine = s
}

// NMIPending reports whether an installed NMI source is currently
// asserting its line. It is purely informational (for a debugger or a
// future peripheral layer); ExecuteNext never consults it.
func (c *Chip) NMIPending() bool {
	return c.nmi != nil && c.nmi.Raised()
}

// IRQPending reports whether an installed IRQ source is currently
// asserting its line. It is purely informational; ExecuteNext never
// consults it.
func (c *Chip) IRQPending() bool {
	return c.irqLine != nil && c.irqLine.Raised()
}

// Reset applies the documented RESET sequence: A/X/Y zeroed, SP=$FF, PC
// loaded from the reset vector, P=$20 (only bit 5 set), and the cycle
// counter preset to 7 to account for the modeled reset sequence. The
// engine is forced back to StateRunning regardless of its prior state.
func (c *Chip) Reset() {
	c.a, c.x, c.y = 0, 0, 0
	c.sp = 0xFF
	c.p = PUnused
	c.pc = c.readResetVector()
	c.cycles = resetCycles
	c.state = StateRunning
	c.haltError = nil
}

func (c *Chip) readResetVector() uint16 {
	lo := c.mem.Read(ResetVector)
	hi := c.mem.Read(ResetVector + 1)
	return uint16(lo) | uint16(hi)<<8
}

// Register and flag accessors. Read-only by design: the only way to
// change the registers and flags is Reset or ExecuteNext.

func (c *Chip) A() uint8       { return c.a }
func (c *Chip) X() uint8       { return c.x }
func (c *Chip) Y() uint8       { return c.y }
func (c *Chip) SP() uint8      { return c.sp }
func (c *Chip) PC() uint16     { return c.pc }
func (c *Chip) P() uint8       { return c.p }
func (c *Chip) Cycles() uint64 { return c.cycles }
func (c *Chip) State() State   { return c.state }
func (c *Chip) Halted() bool   { return c.state == StateHalted }

// HaltError returns the error that halted the engine, or nil if it is
// still running.
func (c *Chip) HaltError() error { return c.haltError }

func (c *Chip) Carry() bool      { return c.p&PCarry != 0 }
func (c *Chip) Zero() bool       { return c.p&PZero != 0 }
func (c *Chip) Interrupt() bool  { return c.p&PInterrupt != 0 }
func (c *Chip) Decimal() bool    { return c.p&PDecimal != 0 }
func (c *Chip) Overflow() bool   { return c.p&POverflow != 0 }
func (c *Chip) Negative() bool   { return c.p&PNegative != 0 }

// isNegative reports whether the high bit of b is set, per §4.2.
func isNegative(b uint8) bool {
	return b&PNegative != 0
}

// pageCrossed reports whether a and b have different high bytes, per
// §4.2.
func pageCrossed(a, b uint16) bool {
	return a&0xFF00 != b&0xFF00
}

// Bus primitives. Every one of these is the sole place a given kind of
// bus cycle is charged; instruction handlers never adjust c.cycles for
// work one of these does on their behalf (they only add cycles for work
// the hardware does internally off the bus: dummy reads, ALU/transfer
// steps).

// fetchByte reads the byte at PC, advances PC by one (mod 2^16), and
// charges one cycle.
func (c *Chip) fetchByte() uint8 {
	b := c.mem.Read(c.pc)
	c.pc++
	c.cycles++
	return b
}

// fetchAddr reads two bytes at PC (low byte first) via fetchByte,
// charging two cycles total, and combines them little-endian.
func (c *Chip) fetchAddr() uint16 {
	lo := c.fetchByte()
	hi := c.fetchByte()
	return uint16(lo) | uint16(hi)<<8
}

// readByte reads the byte at addr and charges one cycle.
func (c *Chip) readByte(addr uint16) uint8 {
	b := c.mem.Read(addr)
	c.cycles++
	return b
}

// readAddr reads the byte at loAddr then the byte at hiAddr (two
// independent addresses, not necessarily consecutive - this is how
// zero-page-wrapped indirect pointers are read) and combines them
// little-endian, charging two cycles total.
func (c *Chip) readAddr(loAddr, hiAddr uint16) uint16 {
	lo := c.readByte(loAddr)
	hi := c.readByte(hiAddr)
	return uint16(lo) | uint16(hi)<<8
}

// writeByte stores val at addr and charges one cycle.
func (c *Chip) writeByte(addr uint16, val uint8) {
	c.mem.Write(addr, val)
	c.cycles++
}

// pushByte stores val at the current stack address and decrements SP
// (wrapping mod 256), charging one cycle.
func (c *Chip) pushByte(val uint8) {
	c.mem.Write(stackBase|uint16(c.sp), val)
	c.sp--
	c.cycles++
}

// pushAddr pushes the high byte of addr then the low byte (so a
// subsequent pop-low-then-high restores it in order), charging two
// cycles total.
func (c *Chip) pushAddr(addr uint16) {
	c.pushByte(uint8(addr >> 8))
	c.pushByte(uint8(addr))
}

// popByte increments SP (wrapping mod 256) and reads the byte at the new
// stack address, charging two cycles: one for the SP increment (an
// internal step on real hardware) and one for the read.
func (c *Chip) popByte() uint8 {
	c.sp++
	c.cycles++
	return c.readByte(stackBase | uint16(c.sp))
}

// popAddr pops the low byte then the high byte (undoing pushAddr's
// order), charging four cycles total.
func (c *Chip) popAddr() uint16 {
	lo := c.popByte()
	hi := c.popByte()
	return uint16(lo) | uint16(hi)<<8
}

// setZN clears Z and N then sets them from val, per §4.3.2. This is the
// one helper every load/transfer/ALU/RMW handler shares; TXS and all
// stores deliberately never call it.
func (c *Chip) setZN(val uint8) {
	c.p &^= PZero | PNegative
	if val == 0 {
		c.p |= PZero
	}
	if isNegative(val) {
		c.p |= PNegative
	}
}

// ExecuteNext fetches one opcode byte (charging one cycle) and dispatches
// to its handler, running the entire instruction to completion before
// returning. If the opcode has no registered handler the engine
// transitions to StateHalted and returns a non-nil *InvalidOpcode;
// callers must not call ExecuteNext again without an intervening Reset.
func (c *Chip) ExecuteNext() error {
	if c.state == StateHalted {
		return c.haltError
	}
	opPC := c.pc
	op := c.fetchByte()
	entry := opcodes[op]
	if entry == nil {
		err := &InvalidOpcode{Opcode: op, PC: opPC}
		c.state = StateHalted
		c.haltError = err
		return err
	}
	entry.run(c, entry.mode)
	return nil
}
