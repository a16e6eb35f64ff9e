package cpu

// This file supplements the distilled instruction set (opcodes.go, which
// implements exactly §4.3.3 of SPEC_FULL.md) with the rest of the
// documented 6502 opcode map, per §9A.1: arithmetic, logic, compares,
// bit test, shifts/rotates, increment/decrement, the remaining register
// transfers, branches, flag instructions. BRK/RTI and every
// NMOS-undocumented opcode are deliberately absent; see SPEC_FULL.md §1.

// --- Arithmetic & logic (§9A.1) ---

func defALU() {
	defALUFamily("ADC", map[AddressingMode]uint8{
		Immediate: 0x69, ZeroPage: 0x65, ZeroPageX: 0x75, Absolute: 0x6D,
		AbsoluteX: 0x7D, AbsoluteY: 0x79, IndirectX: 0x61, IndirectY: 0x71,
	}, (*Chip).adc)

	defALUFamily("SBC", map[AddressingMode]uint8{
		Immediate: 0xE9, ZeroPage: 0xE5, ZeroPageX: 0xF5, Absolute: 0xED,
		AbsoluteX: 0xFD, AbsoluteY: 0xF9, IndirectX: 0xE1, IndirectY: 0xF1,
	}, (*Chip).sbc)

	defALUFamily("AND", map[AddressingMode]uint8{
		Immediate: 0x29, ZeroPage: 0x25, ZeroPageX: 0x35, Absolute: 0x2D,
		AbsoluteX: 0x3D, AbsoluteY: 0x39, IndirectX: 0x21, IndirectY: 0x31,
	}, func(c *Chip, v uint8) { c.a &= v; c.setZN(c.a) })

	defALUFamily("ORA", map[AddressingMode]uint8{
		Immediate: 0x09, ZeroPage: 0x05, ZeroPageX: 0x15, Absolute: 0x0D,
		AbsoluteX: 0x1D, AbsoluteY: 0x19, IndirectX: 0x01, IndirectY: 0x11,
	}, func(c *Chip, v uint8) { c.a |= v; c.setZN(c.a) })

	defALUFamily("EOR", map[AddressingMode]uint8{
		Immediate: 0x49, ZeroPage: 0x45, ZeroPageX: 0x55, Absolute: 0x4D,
		AbsoluteX: 0x5D, AbsoluteY: 0x59, IndirectX: 0x41, IndirectY: 0x51,
	}, func(c *Chip, v uint8) { c.a ^= v; c.setZN(c.a) })

	defALUFamily("CMP", map[AddressingMode]uint8{
		Immediate: 0xC9, ZeroPage: 0xC5, ZeroPageX: 0xD5, Absolute: 0xCD,
		AbsoluteX: 0xDD, AbsoluteY: 0xD9, IndirectX: 0xC1, IndirectY: 0xD1,
	}, func(c *Chip, v uint8) { c.compare(c.a, v) })

	defALUFamily("CPX", map[AddressingMode]uint8{
		Immediate: 0xE0, ZeroPage: 0xE4, Absolute: 0xEC,
	}, func(c *Chip, v uint8) { c.compare(c.x, v) })

	defALUFamily("CPY", map[AddressingMode]uint8{
		Immediate: 0xC0, ZeroPage: 0xC4, Absolute: 0xCC,
	}, func(c *Chip, v uint8) { c.compare(c.y, v) })

	defALUFamily("BIT", map[AddressingMode]uint8{
		ZeroPage: 0x24, Absolute: 0x2C,
	}, (*Chip).bit)
}

// defALUFamily registers one opcode byte per (mode, opcode) pair for a
// read-only ALU-style instruction, all sharing fetchOperandValue to get
// their operand.
func defALUFamily(mnemonic string, byMode map[AddressingMode]uint8, apply func(*Chip, uint8)) {
	for mode, op := range byMode {
		mode, apply := mode, apply
		def(op, mnemonic, mode, func(c *Chip, m AddressingMode) {
			apply(c, c.fetchOperandValue(m))
		})
	}
}

// adc adds v and the carry flag to A in binary mode (decimal mode is a
// permanent Non-goal, §1), setting C, V, Z, N.
func (c *Chip) adc(v uint8) {
	carryIn := uint16(0)
	if c.Carry() {
		carryIn = 1
	}
	sum := uint16(c.a) + uint16(v) + carryIn
	result := uint8(sum)
	c.p &^= PCarry | POverflow
	if sum > 0xFF {
		c.p |= PCarry
	}
	if (c.a^v)&0x80 == 0 && (c.a^result)&0x80 != 0 {
		c.p |= POverflow
	}
	c.a = result
	c.setZN(c.a)
}

// sbc subtracts v and the borrow (inverted carry) from A in binary mode,
// setting C, V, Z, N. Implemented as adc of the bitwise complement of v,
// which is the standard identity for two's-complement subtract-with-
// borrow and avoids duplicating the overflow logic.
func (c *Chip) sbc(v uint8) {
	c.adc(^v)
}

// compare implements CMP/CPX/CPY: an unsigned subtraction (reg - v) that
// only affects flags, never the register.
func (c *Chip) compare(reg, v uint8) {
	result := reg - v
	c.p &^= PCarry | PZero | PNegative
	if reg >= v {
		c.p |= PCarry
	}
	if result == 0 {
		c.p |= PZero
	}
	if isNegative(result) {
		c.p |= PNegative
	}
}

// bit sets Z from A&v, and N/V directly from bits 7/6 of v. A itself is
// never modified.
func (c *Chip) bit(v uint8) {
	c.p &^= PZero | PNegative | POverflow
	if c.a&v == 0 {
		c.p |= PZero
	}
	if v&PNegative != 0 {
		c.p |= PNegative
	}
	if v&POverflow != 0 {
		c.p |= POverflow
	}
}

// --- Shifts, rotates, increment/decrement (§9A.1) ---

func defShiftsAndIncDec() {
	def(0x0A, "ASL", Accumulator, func(c *Chip, _ AddressingMode) { c.a = c.shiftAcc(c.asl) })
	def(0x06, "ASL", ZeroPage, func(c *Chip, m AddressingMode) { c.rmw(m, c.asl) })
	def(0x16, "ASL", ZeroPageX, func(c *Chip, m AddressingMode) { c.rmw(m, c.asl) })
	def(0x0E, "ASL", Absolute, func(c *Chip, m AddressingMode) { c.rmw(m, c.asl) })
	def(0x1E, "ASL", AbsoluteX, func(c *Chip, m AddressingMode) { c.rmw(m, c.asl) })

	def(0x4A, "LSR", Accumulator, func(c *Chip, _ AddressingMode) { c.a = c.shiftAcc(c.lsr) })
	def(0x46, "LSR", ZeroPage, func(c *Chip, m AddressingMode) { c.rmw(m, c.lsr) })
	def(0x56, "LSR", ZeroPageX, func(c *Chip, m AddressingMode) { c.rmw(m, c.lsr) })
	def(0x4E, "LSR", Absolute, func(c *Chip, m AddressingMode) { c.rmw(m, c.lsr) })
	def(0x5E, "LSR", AbsoluteX, func(c *Chip, m AddressingMode) { c.rmw(m, c.lsr) })

	def(0x2A, "ROL", Accumulator, func(c *Chip, _ AddressingMode) { c.a = c.shiftAcc(c.rol) })
	def(0x26, "ROL", ZeroPage, func(c *Chip, m AddressingMode) { c.rmw(m, c.rol) })
	def(0x36, "ROL", ZeroPageX, func(c *Chip, m AddressingMode) { c.rmw(m, c.rol) })
	def(0x2E, "ROL", Absolute, func(c *Chip, m AddressingMode) { c.rmw(m, c.rol) })
	def(0x3E, "ROL", AbsoluteX, func(c *Chip, m AddressingMode) { c.rmw(m, c.rol) })

	def(0x6A, "ROR", Accumulator, func(c *Chip, _ AddressingMode) { c.a = c.shiftAcc(c.ror) })
	def(0x66, "ROR", ZeroPage, func(c *Chip, m AddressingMode) { c.rmw(m, c.ror) })
	def(0x76, "ROR", ZeroPageX, func(c *Chip, m AddressingMode) { c.rmw(m, c.ror) })
	def(0x6E, "ROR", Absolute, func(c *Chip, m AddressingMode) { c.rmw(m, c.ror) })
	def(0x7E, "ROR", AbsoluteX, func(c *Chip, m AddressingMode) { c.rmw(m, c.ror) })

	def(0xE6, "INC", ZeroPage, func(c *Chip, m AddressingMode) { c.rmw(m, c.inc) })
	def(0xF6, "INC", ZeroPageX, func(c *Chip, m AddressingMode) { c.rmw(m, c.inc) })
	def(0xEE, "INC", Absolute, func(c *Chip, m AddressingMode) { c.rmw(m, c.inc) })
	def(0xFE, "INC", AbsoluteX, func(c *Chip, m AddressingMode) { c.rmw(m, c.inc) })

	def(0xC6, "DEC", ZeroPage, func(c *Chip, m AddressingMode) { c.rmw(m, c.dec) })
	def(0xD6, "DEC", ZeroPageX, func(c *Chip, m AddressingMode) { c.rmw(m, c.dec) })
	def(0xCE, "DEC", Absolute, func(c *Chip, m AddressingMode) { c.rmw(m, c.dec) })
	def(0xDE, "DEC", AbsoluteX, func(c *Chip, m AddressingMode) { c.rmw(m, c.dec) })

	def(0xE8, "INX", Implied, func(c *Chip, _ AddressingMode) { c.cycles++; c.x++; c.setZN(c.x) })
	def(0xC8, "INY", Implied, func(c *Chip, _ AddressingMode) { c.cycles++; c.y++; c.setZN(c.y) })
	def(0xCA, "DEX", Implied, func(c *Chip, _ AddressingMode) { c.cycles++; c.x--; c.setZN(c.x) })
	def(0x88, "DEY", Implied, func(c *Chip, _ AddressingMode) { c.cycles++; c.y--; c.setZN(c.y) })
}

// shiftAcc applies a shift/rotate function to A in place (Accumulator
// addressing mode never touches memory, so it bypasses rmw entirely).
func (c *Chip) shiftAcc(op func(uint8) uint8) uint8 {
	c.cycles++ // dummy read of the next instruction byte
	return op(c.a)
}

// rmw implements the read-modify-write cycle shape shared by ASL/LSR/
// ROL/ROR/INC/DEC in memory form: resolve the address (always paying the
// indexed penalty, per §4.3.1), read the old value, charge the one extra
// internal cycle real hardware spends on the dummy write of the
// unmodified value, then write the new one back.
func (c *Chip) rmw(mode AddressingMode, op func(uint8) uint8) {
	addr := c.resolveAddress(mode, true)
	old := c.readByte(addr)
	c.cycles++ // dummy write of the unmodified value
	result := op(old)
	c.writeByte(addr, result)
}

// asl/lsr/rol/ror each set C from the bit shifted out and Z/N from the
// result, then return the result for the caller (shiftAcc or rmw) to
// store.
func (c *Chip) asl(v uint8) uint8 {
	c.p &^= PCarry
	if v&0x80 != 0 {
		c.p |= PCarry
	}
	result := v << 1
	c.setZN(result)
	return result
}

func (c *Chip) lsr(v uint8) uint8 {
	c.p &^= PCarry
	if v&0x01 != 0 {
		c.p |= PCarry
	}
	result := v >> 1
	c.setZN(result)
	return result
}

func (c *Chip) rol(v uint8) uint8 {
	carryIn := uint8(0)
	if c.Carry() {
		carryIn = 1
	}
	c.p &^= PCarry
	if v&0x80 != 0 {
		c.p |= PCarry
	}
	result := v<<1 | carryIn
	c.setZN(result)
	return result
}

func (c *Chip) ror(v uint8) uint8 {
	carryIn := uint8(0)
	if c.Carry() {
		carryIn = 0x80
	}
	c.p &^= PCarry
	if v&0x01 != 0 {
		c.p |= PCarry
	}
	result := v>>1 | carryIn
	c.setZN(result)
	return result
}

func (c *Chip) inc(v uint8) uint8 {
	result := v + 1
	c.setZN(result)
	return result
}

func (c *Chip) dec(v uint8) uint8 {
	result := v - 1
	c.setZN(result)
	return result
}

// --- Branches (§9A.1) ---

func defBranches() {
	def(0x90, "BCC", Relative, branchIf(func(c *Chip) bool { return !c.Carry() }))
	def(0xB0, "BCS", Relative, branchIf((*Chip).Carry))
	def(0xF0, "BEQ", Relative, branchIf((*Chip).Zero))
	def(0xD0, "BNE", Relative, branchIf(func(c *Chip) bool { return !c.Zero() }))
	def(0x30, "BMI", Relative, branchIf((*Chip).Negative))
	def(0x10, "BPL", Relative, branchIf(func(c *Chip) bool { return !c.Negative() }))
	def(0x50, "BVC", Relative, branchIf(func(c *Chip) bool { return !c.Overflow() }))
	def(0x70, "BVS", Relative, branchIf((*Chip).Overflow))
}

// branchIf builds a handler for a conditional branch: always fetches the
// signed displacement byte (2 cycles total with the opcode fetch), then
// if taken adds one cycle for the branch plus one more if the new PC
// lands on a different page than the instruction after the branch.
func branchIf(taken func(*Chip) bool) func(*Chip, AddressingMode) {
	return func(c *Chip, _ AddressingMode) {
		disp := int8(c.fetchByte())
		if !taken(c) {
			return
		}
		c.cycles++
		oldPC := c.pc
		c.pc = uint16(int32(c.pc) + int32(disp))
		if pageCrossed(oldPC, c.pc) {
			c.cycles++
		}
	}
}

// --- Flag instructions (§9A.1) ---

func defFlagOps() {
	def(0x18, "CLC", Implied, setFlag(PCarry, false))
	def(0x38, "SEC", Implied, setFlag(PCarry, true))
	def(0x58, "CLI", Implied, setFlag(PInterrupt, false))
	def(0x78, "SEI", Implied, setFlag(PInterrupt, true))
	def(0xB8, "CLV", Implied, setFlag(POverflow, false))
	def(0xD8, "CLD", Implied, setFlag(PDecimal, false))
	def(0xF8, "SED", Implied, setFlag(PDecimal, true))
}

func setFlag(mask uint8, value bool) func(*Chip, AddressingMode) {
	return func(c *Chip, _ AddressingMode) {
		c.cycles++ // dummy read of the next instruction byte
		if value {
			c.p |= mask
		} else {
			c.p &^= mask
		}
	}
}

// --- Remaining register transfers (§9A.1; TSX/TXS live in opcodes.go) ---

func defTransfers() {
	def(0xAA, "TAX", Implied, func(c *Chip, _ AddressingMode) { c.cycles++; c.x = c.a; c.setZN(c.x) })
	def(0xA8, "TAY", Implied, func(c *Chip, _ AddressingMode) { c.cycles++; c.y = c.a; c.setZN(c.y) })
	def(0x8A, "TXA", Implied, func(c *Chip, _ AddressingMode) { c.cycles++; c.a = c.x; c.setZN(c.a) })
	def(0x98, "TYA", Implied, func(c *Chip, _ AddressingMode) { c.cycles++; c.a = c.y; c.setZN(c.a) })
}
