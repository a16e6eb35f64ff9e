package cpu

import "fmt"

// opcode pairs a documented 6502 opcode's addressing mode with the
// handler that implements it. mnemonic exists purely for tracing/tests;
// the engine dispatches on the table index (the opcode byte) alone.
type opcode struct {
	mnemonic string
	mode     AddressingMode
	run      func(c *Chip, mode AddressingMode)
}

// opcodes is the full dispatch table, one slot per possible opcode byte.
// A nil slot is an undocumented opcode and causes ExecuteNext to return
// *InvalidOpcode. Populated by the def calls in init() below, grouped by
// instruction family to mirror §4.3.3 and §9A.1 of the design doc.
var opcodes [256]*opcode

// def registers a single opcode byte. It panics on a duplicate
// registration, which would otherwise be a silent and easy-to-miss bug
// in a table this size.
func def(op uint8, mnemonic string, mode AddressingMode, fn func(*Chip, AddressingMode)) {
	if opcodes[op] != nil {
		panic(fmt.Sprintf("cpu: duplicate opcode registration for $%02X", op))
	}
	opcodes[op] = &opcode{mnemonic: mnemonic, mode: mode, run: fn}
}

func init() {
	defLoads()
	defStores()
	defStackOps()
	defJumps()
	defALU()
	defShiftsAndIncDec()
	defBranches()
	defFlagOps()
	defTransfers()
	def(0xEA, "NOP", Implied, opNOP)
}

// --- Loads (§4.3.3) ---

func defLoads() {
	def(0xA9, "LDA", Immediate, func(c *Chip, m AddressingMode) { c.load(&c.a, m) })
	def(0xA5, "LDA", ZeroPage, func(c *Chip, m AddressingMode) { c.load(&c.a, m) })
	def(0xB5, "LDA", ZeroPageX, func(c *Chip, m AddressingMode) { c.load(&c.a, m) })
	def(0xAD, "LDA", Absolute, func(c *Chip, m AddressingMode) { c.load(&c.a, m) })
	def(0xBD, "LDA", AbsoluteX, func(c *Chip, m AddressingMode) { c.load(&c.a, m) })
	def(0xB9, "LDA", AbsoluteY, func(c *Chip, m AddressingMode) { c.load(&c.a, m) })
	def(0xA1, "LDA", IndirectX, func(c *Chip, m AddressingMode) { c.load(&c.a, m) })
	def(0xB1, "LDA", IndirectY, func(c *Chip, m AddressingMode) { c.load(&c.a, m) })

	def(0xA2, "LDX", Immediate, func(c *Chip, m AddressingMode) { c.load(&c.x, m) })
	def(0xA6, "LDX", ZeroPage, func(c *Chip, m AddressingMode) { c.load(&c.x, m) })
	def(0xB6, "LDX", ZeroPageY, func(c *Chip, m AddressingMode) { c.load(&c.x, m) })
	def(0xAE, "LDX", Absolute, func(c *Chip, m AddressingMode) { c.load(&c.x, m) })
	def(0xBE, "LDX", AbsoluteY, func(c *Chip, m AddressingMode) { c.load(&c.x, m) })

	def(0xA0, "LDY", Immediate, func(c *Chip, m AddressingMode) { c.load(&c.y, m) })
	def(0xA4, "LDY", ZeroPage, func(c *Chip, m AddressingMode) { c.load(&c.y, m) })
	def(0xB4, "LDY", ZeroPageX, func(c *Chip, m AddressingMode) { c.load(&c.y, m) })
	def(0xAC, "LDY", Absolute, func(c *Chip, m AddressingMode) { c.load(&c.y, m) })
	def(0xBC, "LDY", AbsoluteX, func(c *Chip, m AddressingMode) { c.load(&c.y, m) })
}

// load is the single helper every load family shares: fetch the operand
// per mode, store it in reg, update Z/N. Immediate is valid here because
// fetchOperandValue handles it; stores never call this.
func (c *Chip) load(reg *uint8, mode AddressingMode) {
	val := c.fetchOperandValue(mode)
	*reg = val
	c.setZN(val)
}

// --- Stores (§4.3.3) ---

func defStores() {
	def(0x85, "STA", ZeroPage, func(c *Chip, m AddressingMode) { c.store(c.a, m) })
	def(0x95, "STA", ZeroPageX, func(c *Chip, m AddressingMode) { c.store(c.a, m) })
	def(0x8D, "STA", Absolute, func(c *Chip, m AddressingMode) { c.store(c.a, m) })
	def(0x9D, "STA", AbsoluteX, func(c *Chip, m AddressingMode) { c.store(c.a, m) })
	def(0x99, "STA", AbsoluteY, func(c *Chip, m AddressingMode) { c.store(c.a, m) })
	def(0x81, "STA", IndirectX, func(c *Chip, m AddressingMode) { c.store(c.a, m) })
	def(0x91, "STA", IndirectY, func(c *Chip, m AddressingMode) { c.store(c.a, m) })

	def(0x86, "STX", ZeroPage, func(c *Chip, m AddressingMode) { c.store(c.x, m) })
	def(0x96, "STX", ZeroPageY, func(c *Chip, m AddressingMode) { c.store(c.x, m) })
	def(0x8E, "STX", Absolute, func(c *Chip, m AddressingMode) { c.store(c.x, m) })

	def(0x84, "STY", ZeroPage, func(c *Chip, m AddressingMode) { c.store(c.y, m) })
	def(0x94, "STY", ZeroPageX, func(c *Chip, m AddressingMode) { c.store(c.y, m) })
	def(0x8C, "STY", Absolute, func(c *Chip, m AddressingMode) { c.store(c.y, m) })
}

// store writes val to the effective address of mode. Indexed modes
// always take the dummy-write cycle (forWrite=true), per §4.3.1. Flags
// are never touched.
func (c *Chip) store(val uint8, mode AddressingMode) {
	addr := c.resolveAddress(mode, true)
	c.writeByte(addr, val)
}

// --- Stack operations (§4.3.3) ---

func defStackOps() {
	def(0x48, "PHA", Implied, opPHA)
	def(0x08, "PHP", Implied, opPHP)
	def(0x68, "PLA", Implied, opPLA)
	def(0x28, "PLP", Implied, opPLP)
	def(0xBA, "TSX", Implied, opTSX)
	def(0x9A, "TXS", Implied, opTXS)
}

func opPHA(c *Chip, _ AddressingMode) {
	c.cycles++ // dummy read of the next instruction byte
	c.pushByte(c.a)
}

// opPHP pushes P with bit 4 (B) forced to 1 in the stack copy, leaving
// the architectural P completely unchanged. Getting this wrong is the
// single easiest way to fail a round-trip test that still looks correct
// in isolation; see SPEC_FULL.md §9's dedicated warning.
func opPHP(c *Chip, _ AddressingMode) {
	c.cycles++ // dummy read of the next instruction byte
	c.pushByte(c.p | PBreak)
}

func opPLA(c *Chip, _ AddressingMode) {
	c.cycles++ // dummy read of the next instruction byte
	c.a = c.popByte()
	c.setZN(c.a)
}

// opPLP restores P from the stack but ignores bits 4 and 5 of the popped
// byte: the architectural P always reads B=0, U=1 regardless of what was
// pushed.
func opPLP(c *Chip, _ AddressingMode) {
	c.cycles++ // dummy read of the next instruction byte
	popped := c.popByte()
	c.p = (popped &^ (PBreak | PUnused)) | PUnused
}

func opTSX(c *Chip, _ AddressingMode) {
	c.cycles++ // dummy read of the next instruction byte
	c.x = c.sp
	c.setZN(c.x)
}

// opTXS deliberately does not call setZN. Asymmetric with TSX by design
// (§4.3.3) - this is the one place in the instruction set where two
// near-identical instructions disagree on flag behavior.
func opTXS(c *Chip, _ AddressingMode) {
	c.cycles++ // dummy read of the next instruction byte
	c.sp = c.x
}

// --- Jumps & subroutines (§4.3.3) ---

func defJumps() {
	def(0x4C, "JMP", Absolute, opJMP)
	def(0x6C, "JMP", Indirect, opJMPIndirect)
	def(0x20, "JSR", Absolute, opJSR)
	def(0x60, "RTS", Implied, opRTS)
}

func opJMP(c *Chip, _ AddressingMode) {
	c.pc = c.fetchAddr()
}

func opJMPIndirect(c *Chip, mode AddressingMode) {
	c.pc = c.resolveAddress(mode, false)
}

// opJSR fetches the target address, pushes PC-1 (the address of the last
// byte of the JSR instruction, as the hardware does), then jumps. The
// explicit cycle accounts for the internal transfer the real CPU
// performs between fetching the address and pushing the return address.
func opJSR(c *Chip, _ AddressingMode) {
	target := c.fetchAddr()
	c.cycles++ // internal transfer cycle
	c.pushAddr(c.pc - 1)
	c.pc = target
}

// opRTS pops the return address and adds one, undoing JSR's PC-1 push.
// The explicit cycle accounts for the internal PC+1 step.
func opRTS(c *Chip, _ AddressingMode) {
	addr := c.popAddr()
	c.cycles++ // internal PC+1 step
	c.pc = addr + 1
}

// --- NOP ---

func opNOP(c *Chip, _ AddressingMode) {
	c.cycles++ // dummy read of the next instruction byte
}
