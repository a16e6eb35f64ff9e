package cpu

import "testing"

// --- ALU family: ADC/SBC carry & overflow edge cases ---

func TestADCCarryAndOverflow(t *testing.T) {
	tests := []struct {
		name        string
		a, operand  uint8
		carryIn     bool
		wantA       uint8
		wantCarry   bool
		wantOverflow bool
	}{
		{"no carry, no overflow", 0x10, 0x20, false, 0x30, false, false},
		{"unsigned carry out", 0xFF, 0x01, false, 0x00, true, false},
		{"signed overflow, pos+pos=neg", 0x50, 0x50, false, 0xA0, false, true},
		{"signed overflow, neg+neg=pos", 0x90, 0x90, false, 0x20, true, true},
		{"carry in propagates", 0x01, 0x01, true, 0x03, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newChip(t, []uint8{0x69, tt.operand}) // ADC #imm
			c.a = tt.a
			if tt.carryIn {
				c.p |= PCarry
			} else {
				c.p &^= PCarry
			}
			step(t, c)
			if got := c.A(); got != tt.wantA {
				t.Errorf("A = $%02X, want $%02X", got, tt.wantA)
			}
			if got := c.Carry(); got != tt.wantCarry {
				t.Errorf("Carry() = %v, want %v", got, tt.wantCarry)
			}
			if got := c.Overflow(); got != tt.wantOverflow {
				t.Errorf("Overflow() = %v, want %v", got, tt.wantOverflow)
			}
		})
	}
}

func TestSBCBorrow(t *testing.T) {
	// SBC #$01 from A=$00 with carry set (no pending borrow) underflows.
	c, _ := newChip(t, []uint8{0xE9, 0x01})
	c.a = 0x00
	c.p |= PCarry
	step(t, c)
	if got := c.A(); got != 0xFF {
		t.Errorf("A = $%02X, want $FF", got)
	}
	if c.Carry() {
		t.Errorf("Carry() = true after borrowing SBC, want false")
	}
}

// --- Compares ---

func TestCompareFamily(t *testing.T) {
	tests := []struct {
		name          string
		prog          []uint8
		setReg        func(c *Chip)
		wantCarry     bool
		wantZero      bool
		wantNegative  bool
	}{
		{"CMP equal", []uint8{0xC9, 0x10}, func(c *Chip) { c.a = 0x10 }, true, true, false},
		{"CMP less", []uint8{0xC9, 0x20}, func(c *Chip) { c.a = 0x10 }, false, false, true},
		{"CPX greater", []uint8{0xE0, 0x05}, func(c *Chip) { c.x = 0x10 }, true, false, false},
		{"CPY less", []uint8{0xC0, 0x20}, func(c *Chip) { c.y = 0x10 }, false, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newChip(t, tt.prog)
			tt.setReg(c)
			step(t, c)
			if got := c.Carry(); got != tt.wantCarry {
				t.Errorf("Carry() = %v, want %v", got, tt.wantCarry)
			}
			if got := c.Zero(); got != tt.wantZero {
				t.Errorf("Zero() = %v, want %v", got, tt.wantZero)
			}
			if got := c.Negative(); got != tt.wantNegative {
				t.Errorf("Negative() = %v, want %v", got, tt.wantNegative)
			}
		})
	}
}

// --- BIT ---

func TestBIT(t *testing.T) {
	c, m := newChip(t, []uint8{0x24, 0x10}) // BIT $10
	m.Write(0x0010, 0xC0)                   // bits 7 and 6 set
	c.a = 0x00                              // A & v == 0 -> Z set
	step(t, c)
	if !c.Zero() {
		t.Errorf("Zero() = false, want true (A & v == 0)")
	}
	if !c.Negative() {
		t.Errorf("Negative() = false, want true (bit 7 of operand)")
	}
	if !c.Overflow() {
		t.Errorf("Overflow() = false, want true (bit 6 of operand)")
	}
	if got := c.A(); got != 0x00 {
		t.Errorf("A = $%02X, want unchanged $00", got)
	}
}

// --- Shifts/rotates: accumulator and memory forms ---

func TestASLAccumulator(t *testing.T) {
	c, _ := newChip(t, []uint8{0x0A}) // ASL A
	c.a = 0x81
	step(t, c)
	if got := c.A(); got != 0x02 {
		t.Errorf("A = $%02X, want $02", got)
	}
	if !c.Carry() {
		t.Errorf("Carry() = false, want true (bit 7 shifted out)")
	}
}

func TestLSRMemory(t *testing.T) {
	c, m := newChip(t, []uint8{0x46, 0x20}) // LSR $20
	m.Write(0x0020, 0x03)
	step(t, c)
	if got := m.Read(0x0020); got != 0x01 {
		t.Errorf("mem[$20] = $%02X, want $01", got)
	}
	if !c.Carry() {
		t.Errorf("Carry() = false, want true (bit 0 shifted out)")
	}
}

func TestROLCarryChain(t *testing.T) {
	c, _ := newChip(t, []uint8{0x2A, 0x2A}) // ROL A; ROL A
	c.a = 0x80
	c.p &^= PCarry
	step(t, c) // 0x80 -> 0x00, C=1
	if got := c.A(); got != 0x00 || !c.Carry() {
		t.Errorf("after first ROL: A=$%02X Carry=%v, want A=$00 Carry=true", got, c.Carry())
	}
	step(t, c) // 0x00 with carry in -> 0x01, C=0
	if got := c.A(); got != 0x01 || c.Carry() {
		t.Errorf("after second ROL: A=$%02X Carry=%v, want A=$01 Carry=false", got, c.Carry())
	}
}

func TestRORCarryIn(t *testing.T) {
	c, _ := newChip(t, []uint8{0x6A}) // ROR A
	c.a = 0x01
	c.p |= PCarry
	step(t, c)
	if got := c.A(); got != 0x80 {
		t.Errorf("A = $%02X, want $80 (carry rotated into bit 7)", got)
	}
	if !c.Carry() {
		t.Errorf("Carry() = false, want true (bit 0 shifted out)")
	}
}

// --- INC/DEC, memory and register forms ---

func TestINCDECMemory(t *testing.T) {
	c, m := newChip(t, []uint8{0xE6, 0x30, 0xC6, 0x30}) // INC $30; DEC $30
	m.Write(0x0030, 0xFF)
	step(t, c) // INC: 0xFF -> 0x00, Z set
	if got := m.Read(0x0030); got != 0x00 {
		t.Errorf("mem[$30] after INC = $%02X, want $00", got)
	}
	if !c.Zero() {
		t.Errorf("Zero() = false after INC wrap to 0, want true")
	}
	step(t, c) // DEC: 0x00 -> 0xFF, N set
	if got := m.Read(0x0030); got != 0xFF {
		t.Errorf("mem[$30] after DEC = $%02X, want $FF", got)
	}
	if !c.Negative() {
		t.Errorf("Negative() = false after DEC wrap to $FF, want true")
	}
}

func TestRegisterIncDec(t *testing.T) {
	c, _ := newChip(t, []uint8{0xE8, 0xC8, 0xCA, 0x88}) // INX INY DEX DEY
	c.x, c.y = 0x7F, 0x00
	step(t, c) // INX
	if c.X() != 0x80 || !c.Negative() {
		t.Errorf("INX: X=$%02X N=%v, want $80 true", c.X(), c.Negative())
	}
	step(t, c) // INY
	if c.Y() != 0x01 {
		t.Errorf("INY: Y=$%02X, want $01", c.Y())
	}
	step(t, c) // DEX
	if c.X() != 0x7F {
		t.Errorf("DEX: X=$%02X, want $7F", c.X())
	}
	step(t, c) // DEY
	if c.Y() != 0x00 || !c.Zero() {
		t.Errorf("DEY: Y=$%02X Z=%v, want $00 true", c.Y(), c.Zero())
	}
}

// --- Branches: taken/not-taken/page-cross cycle costs ---

func TestBranchNotTaken(t *testing.T) {
	c, _ := newChip(t, []uint8{0xF0, 0x10}) // BEQ +16
	c.p &^= PZero
	before := c.Cycles()
	step(t, c)
	if got := c.PC(); got != 0x0202 {
		t.Errorf("PC = $%04X, want $0202 (branch not taken)", got)
	}
	if got := c.Cycles() - before; got != 2 {
		t.Errorf("cycle delta = %d, want 2", got)
	}
}

func TestBranchTakenSamePage(t *testing.T) {
	c, _ := newChip(t, []uint8{0xF0, 0x10}) // BEQ +16, from $0200
	c.p |= PZero
	before := c.Cycles()
	step(t, c)
	if got := c.PC(); got != 0x0212 {
		t.Errorf("PC = $%04X, want $0212", got)
	}
	if got := c.Cycles() - before; got != 3 {
		t.Errorf("cycle delta = %d, want 3 (taken, no page cross)", got)
	}
}

func TestBranchTakenPageCross(t *testing.T) {
	// BEQ with a displacement that pushes PC across a page boundary.
	c, m := newChip(t, nil)
	m.LoadAt(0x02F0, []uint8{0xF0, 0x20}) // at $02F0: BEQ +32 -> target $0312
	c.pc = 0x02F0
	c.p |= PZero
	before := c.Cycles()
	step(t, c)
	if got := c.PC(); got != 0x0312 {
		t.Errorf("PC = $%04X, want $0312", got)
	}
	if got := c.Cycles() - before; got != 4 {
		t.Errorf("cycle delta = %d, want 4 (taken, page cross)", got)
	}
}

func TestBranchBackward(t *testing.T) {
	c, m := newChip(t, nil)
	m.LoadAt(0x0250, []uint8{0xD0, 0xFE}) // BNE -2: infinite loop target is itself
	c.pc = 0x0250
	c.p &^= PZero // Z clear -> BNE taken
	step(t, c)
	if got := c.PC(); got != 0x0250 {
		t.Errorf("PC = $%04X, want $0250 (branch back to self)", got)
	}
}

// --- Flag instructions ---

func TestFlagInstructions(t *testing.T) {
	c, _ := newChip(t, []uint8{0x38, 0x18, 0x78, 0x58, 0xF8, 0xD8})
	step(t, c) // SEC
	if !c.Carry() {
		t.Errorf("Carry() = false after SEC")
	}
	step(t, c) // CLC
	if c.Carry() {
		t.Errorf("Carry() = true after CLC")
	}
	step(t, c) // SEI
	if !c.Interrupt() {
		t.Errorf("Interrupt() = false after SEI")
	}
	step(t, c) // CLI
	if c.Interrupt() {
		t.Errorf("Interrupt() = true after CLI")
	}
	step(t, c) // SED
	if !c.Decimal() {
		t.Errorf("Decimal() = false after SED")
	}
	step(t, c) // CLD
	if c.Decimal() {
		t.Errorf("Decimal() = true after CLD")
	}
}

func TestCLV(t *testing.T) {
	c, _ := newChip(t, []uint8{0xB8}) // CLV
	c.p |= POverflow
	step(t, c)
	if c.Overflow() {
		t.Errorf("Overflow() = true after CLV")
	}
}

// --- Remaining transfers ---

func TestTransfers(t *testing.T) {
	c, _ := newChip(t, []uint8{0xAA, 0xA8, 0x8A, 0x98}) // TAX TAY TXA TYA
	c.a = 0x55
	step(t, c) // TAX
	if c.X() != 0x55 {
		t.Errorf("X = $%02X after TAX, want $55", c.X())
	}
	c.a = 0x00
	step(t, c) // TAY
	if c.Y() != 0x00 || !c.Zero() {
		t.Errorf("Y = $%02X Z=%v after TAY, want $00 true", c.Y(), c.Zero())
	}
	c.x = 0x80
	step(t, c) // TXA
	if c.A() != 0x80 || !c.Negative() {
		t.Errorf("A = $%02X N=%v after TXA, want $80 true", c.A(), c.Negative())
	}
	c.y = 0x01
	step(t, c) // TYA
	if c.A() != 0x01 {
		t.Errorf("A = $%02X after TYA, want $01", c.A())
	}
}

// --- Addressing modes not already covered by cpu_test.go ---

func TestAbsoluteXPageCrossPenalty(t *testing.T) {
	c, m := newChip(t, []uint8{0xBD, 0xFF, 0x02}) // LDA $02FF,X
	m.Write(0x0300, 0x42)
	c.x = 0x01
	before := c.Cycles()
	step(t, c)
	if got := c.A(); got != 0x42 {
		t.Errorf("A = $%02X, want $42", got)
	}
	if got := c.Cycles() - before; got != 5 {
		t.Errorf("cycle delta = %d, want 5 (page cross penalty)", got)
	}
}

func TestAbsoluteXNoPageCross(t *testing.T) {
	c, m := newChip(t, []uint8{0xBD, 0x00, 0x03}) // LDA $0300,X (clean target, away from the program at $0200)
	m.Write(0x0301, 0x99)
	c.x = 0x01
	before := c.Cycles()
	step(t, c)
	if got := c.A(); got != 0x99 {
		t.Errorf("A = $%02X, want $99", got)
	}
	if got := c.Cycles() - before; got != 4 {
		t.Errorf("cycle delta = %d, want 4 (no page cross)", got)
	}
}

func TestIndirectYPageCross(t *testing.T) {
	c, m := newChip(t, []uint8{0xB1, 0x10}) // LDA ($10),Y
	m.Write(0x0010, 0xFF)
	m.Write(0x0011, 0x02) // base = $02FF
	m.Write(0x0300, 0x77)
	c.y = 0x01
	before := c.Cycles()
	step(t, c)
	if got := c.A(); got != 0x77 {
		t.Errorf("A = $%02X, want $77", got)
	}
	if got := c.Cycles() - before; got != 6 {
		t.Errorf("cycle delta = %d, want 6 (page cross)", got)
	}
}

func TestSTAAbsoluteXAlwaysPaysPenalty(t *testing.T) {
	c, _ := newChip(t, []uint8{0x9D, 0x00, 0x03}) // STA $0300,X, no page cross
	c.a, c.x = 0xAB, 0x01
	before := c.Cycles()
	step(t, c)
	if got := c.Cycles() - before; got != 5 {
		t.Errorf("cycle delta = %d, want 5 (stores always pay the indexed penalty)", got)
	}
}
