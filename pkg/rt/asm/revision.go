package asm

import (
	"github.com/Manu343726/rtasm/pkg/rt/config"
	"github.com/Manu343726/rtasm/pkg/rt/encoding"
	"github.com/Manu343726/rtasm/pkg/rt/operands"
)

// Encodings that differ between pre-r6 MIPS (HI/LO multiply and divide, branch delay slots)
// and r6 MIPS (three operand multiply/divide/modulo, compact branches). Selected once by New()
type revision interface {
	Number() int
	// rd = rs * rt (low half)
	mul(a *Assembler, wide, signed bool, rd, rs, rt uint32)
	// Redx:Reax = Reax * rs
	mulWide(a *Assembler, wide, signed bool, rs uint32)
	// rd = rs / rt
	div(a *Assembler, wide, signed bool, rd, rs, rt uint32)
	// rd = rs % rt
	rem(a *Assembler, wide, signed bool, rd, rs, rt uint32)
	// Unconditional PC relative jump
	jump(a *Assembler, lb *Label) error
	// Jump to the address held by a register
	jumpReg(a *Assembler, r uint32)
	// Compare and branch strategies
	conditions() *conditionTables
}

func revisionFor(cfg *config.Config) revision {
	if cfg.IsR6() {
		return r6{}
	}

	return preR6{}
}

// Picks one of the four variants of a multiply/divide opcode
func pick(wide, signed bool, signedWord, unsignedWord, signedDouble, unsignedDouble uint32) uint32 {
	switch {
	case wide && signed:
		return signedDouble
	case wide:
		return unsignedDouble
	case signed:
		return signedWord
	}

	return unsignedWord
}

type preR6 struct{}

func (preR6) Number() int {
	return 5
}

func (preR6) mult(a *Assembler, wide, signed bool, rs, rt uint32) {
	a.emit(pick(wide, signed, encoding.MULT, encoding.MULTU, encoding.DMULT, encoding.DMULTU) | encoding.MRM(0, rs, rt))
}

func (preR6) divide(a *Assembler, wide, signed bool, rs, rt uint32) {
	a.emit(pick(wide, signed, encoding.DIV, encoding.DIVU, encoding.DDIV, encoding.DDIVU) | encoding.MRM(0, rs, rt))
}

func mflo(a *Assembler, rd uint32) {
	a.emit(encoding.MFLO | encoding.MRM(rd, 0, 0))
}

func mfhi(a *Assembler, rd uint32) {
	a.emit(encoding.MFHI | encoding.MRM(rd, 0, 0))
}

func (p preR6) mul(a *Assembler, wide, signed bool, rd, rs, rt uint32) {
	p.mult(a, wide, signed, rs, rt)
	mflo(a, rd)
}

func (p preR6) mulWide(a *Assembler, wide, signed bool, rs uint32) {
	p.mult(a, wide, signed, operands.Reax.Index, rs)
	mflo(a, operands.Reax.Index)
	mfhi(a, operands.Redx.Index)
}

func (p preR6) div(a *Assembler, wide, signed bool, rd, rs, rt uint32) {
	p.divide(a, wide, signed, rs, rt)
	mflo(a, rd)
}

func (p preR6) rem(a *Assembler, wide, signed bool, rd, rs, rt uint32) {
	p.divide(a, wide, signed, rs, rt)
	mfhi(a, rd)
}

// beq $zero, $zero, lb; nop
func (preR6) jump(a *Assembler, lb *Label) error {
	return a.branch(encoding.BEQ, 16, lb, false)
}

// jr r; nop
func (preR6) jumpReg(a *Assembler, r uint32) {
	a.cti(encoding.JR | encoding.MRM(0, r, 0))
	a.delaySlot()
}

func (preR6) conditions() *conditionTables {
	return &preR6Conditions
}

type r6 struct{}

func (r6) Number() int {
	return 6
}

func (r6) mul(a *Assembler, wide, signed bool, rd, rs, rt uint32) {
	a.emit(pick(wide, signed, encoding.MUL_R6, encoding.MULU_R6, encoding.DMUL_R6, encoding.DMULU_R6) | encoding.MRM(rd, rs, rt))
}

// The high half is computed first, rs must not be Redx
func (r r6) mulWide(a *Assembler, wide, signed bool, rs uint32) {
	eax, edx := operands.Reax.Index, operands.Redx.Index

	a.emit(pick(wide, signed, encoding.MUH_R6, encoding.MUHU_R6, encoding.DMUH_R6, encoding.DMUHU_R6) | encoding.MRM(edx, eax, rs))
	r.mul(a, wide, signed, eax, eax, rs)
}

func (r6) div(a *Assembler, wide, signed bool, rd, rs, rt uint32) {
	a.emit(pick(wide, signed, encoding.DIV_R6, encoding.DIVU_R6, encoding.DDIV_R6, encoding.DDIVU_R6) | encoding.MRM(rd, rs, rt))
}

func (r6) rem(a *Assembler, wide, signed bool, rd, rs, rt uint32) {
	a.emit(pick(wide, signed, encoding.MOD_R6, encoding.MODU_R6, encoding.DMOD_R6, encoding.DMODU_R6) | encoding.MRM(rd, rs, rt))
}

// bc lb
func (r6) jump(a *Assembler, lb *Label) error {
	return a.branch(encoding.BC, 26, lb, false)
}

// jic r, 0
func (r6) jumpReg(a *Assembler, r uint32) {
	a.cti(encoding.JIC | encoding.MBM(0, r, 0))
}

func (r6) conditions() *conditionTables {
	return &r6Conditions
}
