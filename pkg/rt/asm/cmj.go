package asm

import (
	"fmt"

	"github.com/Manu343726/rtasm/pkg/rt/operands"
	"github.com/Manu343726/rtasm/pkg/utils"
)

// Moves, loads or materializes a compare operand into a TLxx/TRxx scratch register
func (a *Assembler) compareOperand(in Instr, scratch operands.Register, op operands.Operand) (uint32, error) {
	r, err := a.scratch(scratch, purpose_Compare)
	if err != nil {
		return 0, err
	}

	switch op := op.(type) {
	case operands.Register:
		if err := publicRegister(op); err != nil {
			return 0, err
		}

		a.move(r, op.Index, in.Wide())
	case operands.Memory:
		m, err := memory(op)
		if err != nil {
			return 0, err
		}

		if err := a.load(r, m, in); err != nil {
			return 0, err
		}
	case operands.Immediate:
		a.loadImm(r, op, in.Wide())
	default:
		return 0, utils.MakeError(ErrUnsupportedShape, "%v can not be compared", op)
	}

	return r, nil
}

// TLxx = lhs, TRxx = rhs
func (a *Assembler) cmp(in Instr, shape Shape, args []operands.Operand) error {
	if _, err := a.compareOperand(in, operands.TLxx, args[0]); err != nil {
		return err
	}

	_, err := a.compareOperand(in, operands.TRxx, args[1])
	return err
}

func (a *Assembler) checkCompare(in Instr) error {
	if in.Op != Op_CMP {
		return utils.MakeError(ErrInvalidMnemonic, "'%v' is not a compare", in)
	}

	if err := in.Validate(); err != nil {
		return err
	}

	return a.checkWidth(in.Wide())
}

// Branches to lb if the values left in TLxx/TRxx by the last Cmp() satisfy cc. EZ_x and NZ_x
// test TLxx alone, as left by the flag setting (Z) instructions
func (a *Assembler) Jcc(cc ConditionCode, lb *Label) error {
	return a.do(fmt.Sprintf("jcc%v_lb(%v)", cc, lb), func() error {
		tables := a.rev.conditions()
		ops := compareOperands{lhs: operands.TLxx.Index, rhs: operands.TRxx.Index}

		switch {
		case cc == CC_EZ_x:
			return tables.cmz.run(a, CC_EQ_x, ops, lb)
		case cc == CC_NZ_x:
			return tables.cmz.run(a, CC_NE_x, ops, lb)
		case cc.Compare():
			return tables.cmr.run(a, cc, ops, lb)
		}

		return utils.MakeError(ErrInvalidCondition, "%v", cc)
	})
}

// Fused compare and jump: compares lhs against rhs (against zero when there is no rhs) and
// branches to lb if cc holds
//
//	rz, mz: Cmj(in, cc, lb, lhs)
//	ri, mi: Cmj(in, cc, lb, lhs, imm)
//	rr, ld: Cmj(in, cc, lb, lhs, rhs)
//	mr:     Cmj(in, cc, lb, mem, reg)
func (a *Assembler) Cmj(in Instr, cc ConditionCode, lb *Label, args ...operands.Operand) error {
	shape, err := cmjShape(args)
	name := fmt.Sprintf("cmj%v%v_%v(%v, %v, %v)", in.Size, in.Sign, shape, utils.FormatSlice(args, ", "), cc, lb)

	return a.do(name, func() error {
		if err != nil {
			return err
		}

		if err := a.checkCompare(in); err != nil {
			return err
		}

		if !cc.Compare() {
			return utils.MakeError(ErrInvalidCondition, "%v is not a compare condition", cc)
		}

		if in.Size.Narrow() && shape != "ld" && shape != "mr" && shape != "mz" {
			return utils.MakeError(ErrUnsupportedShape, "8/16 bit %v only takes memory operands", in)
		}

		tables := a.rev.conditions()
		ops := compareOperands{wide: in.Wide()}

		switch shape {
		case "rz":
			r, err := register(args[0])
			if err != nil {
				return err
			}

			ops.lhs = r.Index
			return tables.cmz.run(a, cc, ops, lb)
		case "mz":
			if ops.lhs, err = a.compareOperand(in, operands.TLxx, args[0]); err != nil {
				return err
			}

			return tables.cmz.run(a, cc, ops, lb)
		case "ri", "mi":
			if ops.lhs, err = a.compareOperand(in, operands.TLxx, args[0]); err != nil {
				return err
			}

			ops.imm = args[1].(operands.Immediate)
			return tables.cmi.run(a, cc, ops, lb)
		}

		if ops.lhs, err = a.compareOperand(in, operands.TLxx, args[0]); err != nil {
			return err
		}

		if ops.rhs, err = a.compareOperand(in, operands.TRxx, args[1]); err != nil {
			return err
		}

		return tables.cmr.run(a, cc, ops, lb)
	})
}

func cmjShape(args []operands.Operand) (string, error) {
	if len(args) == 1 {
		switch args[0].Kind() {
		case operands.Kind_Register:
			return "rz", nil
		case operands.Kind_Memory:
			return "mz", nil
		}
	}

	if len(args) == 2 {
		switch [2]operands.Kind{args[0].Kind(), args[1].Kind()} {
		case [2]operands.Kind{operands.Kind_Register, operands.Kind_Immediate}:
			return "ri", nil
		case [2]operands.Kind{operands.Kind_Memory, operands.Kind_Immediate}:
			return "mi", nil
		case [2]operands.Kind{operands.Kind_Register, operands.Kind_Register}:
			return "rr", nil
		case [2]operands.Kind{operands.Kind_Register, operands.Kind_Memory}:
			return "ld", nil
		case [2]operands.Kind{operands.Kind_Memory, operands.Kind_Register}:
			return "mr", nil
		}
	}

	return "xx", utils.MakeError(ErrUnsupportedShape, "cmj(%v)", utils.FormatSlice(args, ", "))
}

// Fused arithmetic and jump: runs the flag setting form of in and branches to lb if the result
// satisfies cc. EZ_x/NZ_x test the result for zero, the compare conditions compare it against zero
func (a *Assembler) Arj(in Instr, cc ConditionCode, lb *Label, args ...operands.Operand) error {
	in.SetFlags = true
	shape, shapeErr := in.Shape(args...)
	name := fmt.Sprintf("arj%v%v%v_%v(%v, %v, %v)", in.Op, in.Size, in.Sign, shape, utils.FormatSlice(args, ", "), cc, lb)

	return a.do(name, func() error {
		if shapeErr != nil {
			return shapeErr
		}

		if !in.Op.Descriptor().SetsFlags {
			return utils.MakeError(ErrInvalidMnemonic, "'%v' has no flag setting form to jump on", in.Op)
		}

		zcc := cc
		switch cc {
		case CC_EZ_x:
			zcc = CC_EQ_x
		case CC_NZ_x:
			zcc = CC_NE_x
		}

		if !zcc.Compare() {
			return utils.MakeError(ErrInvalidCondition, "%v", cc)
		}

		if err := a.emitInstr(in, shape, args); err != nil {
			return err
		}

		ops := compareOperands{lhs: operands.TLxx.Index, wide: in.Wide()}
		return a.rev.conditions().cmz.run(a, zcc, ops, lb)
	})
}
