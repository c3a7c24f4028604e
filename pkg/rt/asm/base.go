package asm

import (
	"fmt"

	"github.com/Manu343726/rtasm/pkg/rt/encoding"
	"github.com/Manu343726/rtasm/pkg/rt/operands"
	"github.com/Manu343726/rtasm/pkg/utils"
)

// Returns the macro style name of an emission, e.g. "andwx_rr(Rebx, Recx)"
func emissionName(mnemonic fmt.Stringer, shape string, args ...operands.Operand) string {
	return fmt.Sprintf("%v_%v(%v)", mnemonic, shape, utils.FormatSlice(args, ", "))
}

// Emits a scalar instruction. The shape is inferred from the operands:
//
//	rx, mx: one register/memory operand (xr, xm for mul, div and rem)
//	ri, mi: register/memory destination and immediate source
//	rr:     register destination and source
//	ld:     register destination, memory source
//	st:     memory destination, register source
func (a *Assembler) Emit(in Instr, args ...operands.Operand) error {
	shape, shapeErr := in.Shape(args...)

	return a.do(emissionName(in, shape.String(), args...), func() error {
		if shapeErr != nil {
			return shapeErr
		}

		return a.emitInstr(in, shape, args)
	})
}

// Same as Emit(), parsing the mnemonic
func (a *Assembler) EmitMnemonic(mnemonic string, args ...operands.Operand) error {
	in, err := ParseInstr(mnemonic)
	if err != nil {
		return a.do(mnemonic, func() error { return err })
	}

	return a.Emit(in, args...)
}

func (a *Assembler) emitInstr(in Instr, shape Shape, args []operands.Operand) error {
	if err := in.Validate(); err != nil {
		return err
	}

	if err := a.checkWidth(in.Wide()); err != nil {
		return err
	}

	if !in.Op.Descriptor().Shapes.Has(shape) {
		return utils.MakeError(ErrUnsupportedShape, "%v has no %v form", in.Op, shape)
	}

	if in.Size.Narrow() && shape != Shape_LD && !(shape == Shape_ST && (in.Op == Op_MOV || in.Op == Op_CMP)) {
		return utils.MakeError(ErrUnsupportedShape, "8/16 bit %v only takes memory sources", in)
	}

	switch in.Op {
	case Op_MOV:
		return a.mov(in, shape, args)
	case Op_NOT, Op_NEG:
		return a.unary(in, shape, args)
	case Op_SHL, Op_SHR, Op_ROR:
		return a.shift(in, shape, args)
	case Op_MUL, Op_DIV, Op_REM:
		return a.muldiv(in, shape, args)
	case Op_CMP:
		return a.cmp(in, shape, args)
	}

	return a.binary(in, shape, args)
}

// Decoded operands of a two operand shape
type binaryOperands struct {
	dst operands.Register
	src operands.Register
	mem operands.Memory
	imm operands.Immediate
}

func decode(shape Shape, args []operands.Operand) (binaryOperands, error) {
	var ops binaryOperands
	var err error

	switch shape {
	case Shape_RX, Shape_XR:
		ops.dst, err = register(args[0])
		ops.src = ops.dst
	case Shape_MX, Shape_XM:
		ops.mem, err = memory(args[0])
	case Shape_RI:
		if ops.dst, err = register(args[0]); err == nil {
			ops.imm, err = immediate(args[1])
		}
	case Shape_MI:
		if ops.mem, err = memory(args[0]); err == nil {
			ops.imm, err = immediate(args[1])
		}
	case Shape_RR:
		if ops.dst, err = register(args[0]); err == nil {
			ops.src, err = register(args[1])
		}
	case Shape_LD:
		if ops.dst, err = register(args[0]); err == nil {
			ops.mem, err = memory(args[1])
		}
	case Shape_ST:
		if ops.mem, err = memory(args[0]); err == nil {
			ops.src, err = register(args[1])
		}
	}

	return ops, err
}

func (a *Assembler) mov(in Instr, shape Shape, args []operands.Operand) error {
	ops, err := decode(shape, args)
	if err != nil {
		return err
	}

	wide := in.Wide()

	switch shape {
	case Shape_RI:
		a.loadImm(ops.dst.Index, ops.imm, wide)
	case Shape_MI:
		base, offset, err := a.address(ops.mem, alignment(in.Size))
		if err != nil {
			return err
		}

		value := operands.TZxx.Index
		if ops.imm.Value != 0 {
			if value, err = a.immediate(ops.imm, wide); err != nil {
				return err
			}
		}

		a.emit(storeOp(in.Size) | encoding.MDM(value, base, offset))
	case Shape_RR:
		a.move(ops.dst.Index, ops.src.Index, wide)
	case Shape_LD:
		return a.load(ops.dst.Index, ops.mem, in)
	case Shape_ST:
		return a.store(ops.src.Index, ops.mem, in)
	}

	return nil
}

// rd = rs op rt for the two operand logic and arithmetic operations
func (a *Assembler) alu(op Op, wide bool, rd, rs, rt uint32) {
	switch op {
	case Op_AND:
		a.emit(encoding.AND | encoding.MRM(rd, rs, rt))
	case Op_ANN:
		a.emit(encoding.NOR | encoding.MRM(rd, rs, operands.TZxx.Index))
		a.emit(encoding.AND | encoding.MRM(rd, rd, rt))
	case Op_ORR:
		a.emit(encoding.OR | encoding.MRM(rd, rs, rt))
	case Op_ORN:
		a.emit(encoding.NOR | encoding.MRM(rd, rs, operands.TZxx.Index))
		a.emit(encoding.OR | encoding.MRM(rd, rd, rt))
	case Op_XOR:
		a.emit(encoding.XOR | encoding.MRM(rd, rs, rt))
	case Op_ADD:
		a.emit(addu(wide) | encoding.MRM(rd, rs, rt))
	case Op_SUB:
		if wide {
			a.emit(encoding.DSUBU | encoding.MRM(rd, rs, rt))
		} else {
			a.emit(encoding.SUBU | encoding.MRM(rd, rs, rt))
		}
	default:
		panic(fmt.Sprintf("%v is not a binary operation", op))
	}
}

// rd = rs op imm. Logic operations take zero extended 16 bit immediates, add/sub sign extended
// 16 bit ones. Wider immediates go through TIxx
func (a *Assembler) aluImm(op Op, wide bool, rd, rs uint32, imm operands.Immediate) error {
	var native bool
	var word uint32

	switch op {
	case Op_AND, Op_ANN:
		native, word = imm.LogicTier() == operands.Tier_Native, encoding.ANDI
	case Op_ORR, Op_ORN:
		native, word = imm.LogicTier() == operands.Tier_Native, encoding.ORI
	case Op_XOR:
		native, word = imm.LogicTier() == operands.Tier_Native, encoding.XORI
	case Op_ADD, Op_SUB:
		native, word = imm.ArithmeticTier() == operands.Tier_Native, encoding.ADDIU
		if wide {
			word = encoding.DADDIU
		}
	}

	if !native {
		ti, err := a.immediate(imm, wide)
		if err != nil {
			return err
		}

		a.alu(op, wide, rd, rs, ti)
		return nil
	}

	value := imm.Value
	if op == Op_SUB {
		value = -value
	}

	if op == Op_ANN || op == Op_ORN {
		a.emit(encoding.NOR | encoding.MRM(rd, rs, operands.TZxx.Index))
		rs = rd
	}

	if word == encoding.ADDIU || word == encoding.DADDIU {
		a.emit(word | encoding.MIM(rd, rs, value))
	} else {
		a.emit(word | encoding.MTM(rd, rs) | value)
	}

	return nil
}

func (a *Assembler) binary(in Instr, shape Shape, args []operands.Operand) error {
	ops, err := decode(shape, args)
	if err != nil {
		return err
	}

	wide := in.Wide()

	switch shape {
	case Shape_RI:
		if err := a.aluImm(in.Op, wide, ops.dst.Index, ops.dst.Index, ops.imm); err != nil {
			return err
		}
	case Shape_RR:
		a.alu(in.Op, wide, ops.dst.Index, ops.dst.Index, ops.src.Index)
	case Shape_LD:
		tm, err := a.source(ops.mem, in)
		if err != nil {
			return err
		}

		a.alu(in.Op, wide, ops.dst.Index, ops.dst.Index, tm)
	case Shape_MI:
		return a.modify(ops.mem, in, func(tm uint32) error {
			return a.aluImm(in.Op, wide, tm, tm, ops.imm)
		})
	case Shape_ST:
		return a.modify(ops.mem, in, func(tm uint32) error {
			a.alu(in.Op, wide, tm, tm, ops.src.Index)
			return nil
		})
	}

	return a.flags(in, ops.dst.Index)
}

func (a *Assembler) unaryOp(op Op, wide bool, rd uint32) {
	if op == Op_NOT {
		a.emit(encoding.NOR | encoding.MRM(rd, rd, operands.TZxx.Index))
	} else if wide {
		a.emit(encoding.DSUBU | encoding.MRM(rd, operands.TZxx.Index, rd))
	} else {
		a.emit(encoding.SUBU | encoding.MRM(rd, operands.TZxx.Index, rd))
	}
}

func (a *Assembler) unary(in Instr, shape Shape, args []operands.Operand) error {
	ops, err := decode(shape, args)
	if err != nil {
		return err
	}

	if shape == Shape_MX {
		return a.modify(ops.mem, in, func(tm uint32) error {
			a.unaryOp(in.Op, in.Wide(), tm)
			return nil
		})
	}

	a.unaryOp(in.Op, in.Wide(), ops.dst.Index)
	return a.flags(in, ops.dst.Index)
}

// Shift opcodes by immediate (32 bit, 64 bit, 64 bit by 32+) and by register (32, 64 bit)
type shiftOpcodes struct {
	imm, dimm, dimm32, reg, dreg uint32
}

func shiftOps(in Instr) shiftOpcodes {
	switch {
	case in.Op == Op_SHL:
		return shiftOpcodes{encoding.SLL, encoding.DSLL, encoding.DSLL32, encoding.SLLV, encoding.DSLLV}
	case in.Op == Op_ROR:
		return shiftOpcodes{encoding.ROTR, encoding.DROTR, encoding.DROTR32, encoding.ROTRV, encoding.DROTRV}
	case in.Signed():
		return shiftOpcodes{encoding.SRA, encoding.DSRA, encoding.DSRA32, encoding.SRAV, encoding.DSRAV}
	}

	return shiftOpcodes{encoding.SRL, encoding.DSRL, encoding.DSRL32, encoding.SRLV, encoding.DSRLV}
}

// rd = rt shifted by a constant amount
func (a *Assembler) shiftImm(in Instr, rd, rt uint32, amount uint32) {
	ops := shiftOps(in)

	switch {
	case !in.Wide():
		a.emit(ops.imm | encoding.MSM(rd, rt, amount&0x1F))
	case amount&0x3F >= 32:
		a.emit(ops.dimm32 | encoding.MSM(rd, rt, amount&0x1F))
	default:
		a.emit(ops.dimm | encoding.MSM(rd, rt, amount&0x1F))
	}
}

// rd = rt shifted by the amount held in rs
func (a *Assembler) shiftReg(in Instr, rd, rt, rs uint32) {
	ops := shiftOps(in)

	if in.Wide() {
		a.emit(ops.dreg | encoding.MRM(rd, rs, rt))
	} else {
		a.emit(ops.reg | encoding.MRM(rd, rs, rt))
	}
}

func (a *Assembler) shift(in Instr, shape Shape, args []operands.Operand) error {
	ops, err := decode(shape, args)
	if err != nil {
		return err
	}

	count := operands.Recx.Index

	switch shape {
	case Shape_RX:
		if ops.dst.Index == count {
			return utils.MakeError(ErrForbiddenOperand, "Recx holds the shift count and can not be shifted by it")
		}

		a.shiftReg(in, ops.dst.Index, ops.dst.Index, count)
	case Shape_MX:
		return a.modify(ops.mem, in, func(tm uint32) error {
			a.shiftReg(in, tm, tm, count)
			return nil
		})
	case Shape_RI:
		a.shiftImm(in, ops.dst.Index, ops.dst.Index, ops.imm.Value)
	case Shape_MI:
		return a.modify(ops.mem, in, func(tm uint32) error {
			a.shiftImm(in, tm, tm, ops.imm.Value)
			return nil
		})
	case Shape_RR:
		a.shiftReg(in, ops.dst.Index, ops.dst.Index, ops.src.Index)
	case Shape_LD:
		tm, err := a.source(ops.mem, in)
		if err != nil {
			return err
		}

		a.shiftReg(in, ops.dst.Index, ops.dst.Index, tm)
	case Shape_ST:
		return a.modify(ops.mem, in, func(tm uint32) error {
			a.shiftReg(in, tm, tm, ops.src.Index)
			return nil
		})
	}

	return a.flags(in, ops.dst.Index)
}

func (a *Assembler) muldivOp(in Instr, rd, rs, rt uint32) {
	switch in.Op {
	case Op_MUL:
		a.rev.mul(a, in.Wide(), in.Signed(), rd, rs, rt)
	case Op_DIV:
		a.rev.div(a, in.Wide(), in.Signed(), rd, rs, rt)
	case Op_REM:
		a.rev.rem(a, in.Wide(), in.Signed(), rd, rs, rt)
	}
}

func (a *Assembler) muldiv(in Instr, shape Shape, args []operands.Operand) error {
	ops, err := decode(shape, args)
	if err != nil {
		return err
	}

	eax, edx := operands.Reax.Index, operands.Redx.Index
	src := ops.src.Index

	switch shape {
	case Shape_RI:
		ti, err := a.immediate(ops.imm, in.Wide())
		if err != nil {
			return err
		}

		a.muldivOp(in, ops.dst.Index, ops.dst.Index, ti)
		return nil
	case Shape_RR:
		a.muldivOp(in, ops.dst.Index, ops.dst.Index, src)
		return nil
	case Shape_LD:
		tm, err := a.source(ops.mem, in)
		if err != nil {
			return err
		}

		a.muldivOp(in, ops.dst.Index, ops.dst.Index, tm)
		return nil
	case Shape_XM:
		if src, err = a.source(ops.mem, in); err != nil {
			return err
		}
	case Shape_XR:
		if in.Op == Op_MUL && src == edx {
			return utils.MakeError(ErrForbiddenOperand, "Redx receives the high half and can not be the multiplier")
		}

		if in.Op != Op_MUL && (src == eax || src == edx) {
			return utils.MakeError(ErrForbiddenOperand, "Reax and Redx are implicit operands and can not be the divisor")
		}
	}

	switch in.Op {
	case Op_MUL:
		a.rev.mulWide(a, in.Wide(), in.Signed(), src)
	case Op_DIV:
		a.rev.div(a, in.Wide(), in.Signed(), eax, eax, src)
	case Op_REM:
		a.rev.rem(a, in.Wide(), in.Signed(), edx, eax, src)
	}

	return nil
}
