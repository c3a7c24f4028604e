package asm

import (
	"fmt"

	"github.com/Manu343726/rtasm/pkg/rt/encoding"
	"github.com/Manu343726/rtasm/pkg/rt/operands"
	"github.com/Manu343726/rtasm/pkg/utils"
)

// Condition of a fused compare jump (indices 0 to 9) or arithmetic jump (EZ, NZ). The _x
// conditions compare unsigned, the _n ones signed
type ConditionCode uint32

const (
	CC_EQ_x ConditionCode = iota // 0 - Equal
	CC_NE_x                      // 1 - Not equal
	CC_LT_x                      // 2 - Unsigned less than
	CC_LE_x                      // 3 - Unsigned less or equal
	CC_GT_x                      // 4 - Unsigned greater than
	CC_GE_x                      // 5 - Unsigned greater or equal
	CC_LT_n                      // 6 - Signed less than
	CC_LE_n                      // 7 - Signed less or equal
	CC_GT_n                      // 8 - Signed greater than
	CC_GE_n                      // 9 - Signed greater or equal
	CC_EZ_x                      // Result equal to zero
	CC_NZ_x                      // Result not equal to zero
	CC_INVALID
)

// Number of compare jump conditions, the size of every condition table
const TOTAL_COMPARE_CONDITIONS = int(CC_EZ_x)

var conditionNames = []string{
	"EQ_x", "NE_x", "LT_x", "LE_x", "GT_x", "GE_x",
	"LT_n", "LE_n", "GT_n", "GE_n", "EZ_x", "NZ_x", "INVALID",
}

func (cc ConditionCode) String() string {
	if int(cc) < len(conditionNames) {
		return conditionNames[cc]
	}
	return "UNKNOWN"
}

// Parses a condition name ("LT_n")
func ParseCondition(name string) (ConditionCode, error) {
	for i, n := range conditionNames[:CC_INVALID] {
		if n == name {
			return ConditionCode(i), nil
		}
	}

	return CC_INVALID, utils.MakeError(ErrInvalidCondition, "'%v'", name)
}

// Returns true for the ten compare jump conditions
func (cc ConditionCode) Compare() bool {
	return cc < CC_EZ_x
}

// Returns true for signed conditions
func (cc ConditionCode) Signed() bool {
	return cc >= CC_LT_n && cc <= CC_GE_n
}

// Returns the opposite condition
func (cc ConditionCode) Opposite() ConditionCode {
	opposites := []ConditionCode{
		CC_NE_x, CC_EQ_x, CC_GE_x, CC_GT_x, CC_LE_x, CC_LT_x,
		CC_GE_n, CC_GT_n, CC_LE_n, CC_LT_n, CC_NZ_x, CC_EZ_x, CC_INVALID,
	}
	if int(cc) < len(opposites) {
		return opposites[cc]
	}
	return CC_INVALID
}

// Evaluates the condition over two register values. EZ and NZ test lhs alone
func (cc ConditionCode) Holds(lhs, rhs uint64) bool {
	l, r := int64(lhs), int64(rhs)

	switch cc {
	case CC_EQ_x:
		return lhs == rhs
	case CC_NE_x:
		return lhs != rhs
	case CC_LT_x:
		return lhs < rhs
	case CC_LE_x:
		return lhs <= rhs
	case CC_GT_x:
		return lhs > rhs
	case CC_GE_x:
		return lhs >= rhs
	case CC_LT_n:
		return l < r
	case CC_LE_n:
		return l <= r
	case CC_GT_n:
		return l > r
	case CC_GE_n:
		return l >= r
	case CC_EZ_x:
		return lhs == 0
	case CC_NZ_x:
		return lhs != 0
	}

	return false
}

// Operands of a compare and branch strategy
type compareOperands struct {
	lhs  uint32
	rhs  uint32
	imm  operands.Immediate
	wide bool
}

// How one condition is compared and branched on for one ISA revision
type Strategy struct {
	Cond ConditionCode
	// Emitted sequence, for documentation
	Template string
	// The condition never holds: nothing is emitted
	Never bool
	// The condition always holds: an unconditional jump is emitted
	Always bool

	emit func(a *Assembler, ops compareOperands, lb *Label) error
}

// Compare and branch strategies of one operand form (register, immediate or zero)
type ConditionTable struct {
	// CMR (register against register), CMI (register against immediate), CMZ (register against zero)
	Name     string
	Revision int
	Entries  []Strategy
}

// Returns the strategy of a condition
func (t *ConditionTable) Entry(cc ConditionCode) (*Strategy, error) {
	if !cc.Compare() || int(cc) >= len(t.Entries) {
		return nil, utils.MakeError(ErrInvalidCondition, "%v has no %v r%v entry", cc, t.Name, t.Revision)
	}

	return &t.Entries[cc], nil
}

func (t *ConditionTable) run(a *Assembler, cc ConditionCode, ops compareOperands, lb *Label) error {
	s, err := t.Entry(cc)
	if err != nil {
		return err
	}

	switch {
	case s.Never:
		return nil
	case s.Always:
		return a.rev.jump(a, lb)
	}

	return s.emit(a, ops, lb)
}

type conditionTables struct {
	cmr ConditionTable
	cmi ConditionTable
	cmz ConditionTable
}

func (t *conditionTables) all() []*ConditionTable {
	return []*ConditionTable{&t.cmr, &t.cmi, &t.cmz}
}

// pre-r6 strategies

// beq/bne lhs, rhs; nop
func preR6Branch(op uint32) func(*Assembler, compareOperands, *Label) error {
	return func(a *Assembler, ops compareOperands, lb *Label) error {
		return a.branch(op|encoding.MBM(ops.lhs, ops.rhs, 0), 16, lb, false)
	}
}

// slt(u) TMxx, lhs, rhs (swapped operands for LE/GT); beq/bne TMxx, $zero; nop
func preR6Set(set uint32, swap bool, op uint32) func(*Assembler, compareOperands, *Label) error {
	return func(a *Assembler, ops compareOperands, lb *Label) error {
		tm, err := a.scratch(operands.TMxx, purpose_Compare)
		if err != nil {
			return err
		}

		l, r := ops.lhs, ops.rhs
		if swap {
			l, r = r, l
		}

		a.emit(set | encoding.MRM(tm, l, r))
		return a.branch(op|encoding.MBM(tm, operands.TZxx.Index, 0), 16, lb, false)
	}
}

// beq/bne/blez/bgtz/bltz/bgez lhs (against zero); nop
func preR6Zero(op uint32) func(*Assembler, compareOperands, *Label) error {
	return func(a *Assembler, ops compareOperands, lb *Label) error {
		return a.branch(op|encoding.MBM(ops.lhs, operands.TZxx.Index, 0), 16, lb, false)
	}
}

// slti(u) TMxx, lhs, imm; beq/bne TMxx, $zero; nop when the immediate is native, otherwise the
// immediate is materialized into TRxx and compared as a register
func preR6Imm(cc ConditionCode, set uint32, op uint32) func(*Assembler, compareOperands, *Label) error {
	return func(a *Assembler, ops compareOperands, lb *Label) error {
		if ops.imm.ArithmeticTier() != operands.Tier_Native {
			return compareImmediateAsRegister(a, cc, ops, lb)
		}

		tm, err := a.scratch(operands.TMxx, purpose_Compare)
		if err != nil {
			return err
		}

		a.emit(set | encoding.MIM(tm, ops.lhs, ops.imm.Value))
		return a.branch(op|encoding.MBM(tm, operands.TZxx.Index, 0), 16, lb, false)
	}
}

// Materializes the immediate into TRxx and runs the register strategy
func compareImmediateAsRegister(a *Assembler, cc ConditionCode, ops compareOperands, lb *Label) error {
	tr, err := a.scratch(operands.TRxx, purpose_Compare)
	if err != nil {
		return err
	}

	a.loadImm(tr, ops.imm, ops.wide)
	ops.rhs = tr
	return a.rev.conditions().cmr.run(a, cc, ops, lb)
}

func viaRegister(cc ConditionCode) func(*Assembler, compareOperands, *Label) error {
	return func(a *Assembler, ops compareOperands, lb *Label) error {
		return compareImmediateAsRegister(a, cc, ops, lb)
	}
}

var preR6Conditions = conditionTables{
	cmr: ConditionTable{Name: "CMR", Revision: 5, Entries: []Strategy{
		{CC_EQ_x, "beq lhs, rhs, lb; nop", false, false, preR6Branch(encoding.BEQ)},
		{CC_NE_x, "bne lhs, rhs, lb; nop", false, false, preR6Branch(encoding.BNE)},
		{CC_LT_x, "sltu TMxx, lhs, rhs; bne TMxx, $zero, lb; nop", false, false, preR6Set(encoding.SLTU, false, encoding.BNE)},
		{CC_LE_x, "sltu TMxx, rhs, lhs; beq TMxx, $zero, lb; nop", false, false, preR6Set(encoding.SLTU, true, encoding.BEQ)},
		{CC_GT_x, "sltu TMxx, rhs, lhs; bne TMxx, $zero, lb; nop", false, false, preR6Set(encoding.SLTU, true, encoding.BNE)},
		{CC_GE_x, "sltu TMxx, lhs, rhs; beq TMxx, $zero, lb; nop", false, false, preR6Set(encoding.SLTU, false, encoding.BEQ)},
		{CC_LT_n, "slt TMxx, lhs, rhs; bne TMxx, $zero, lb; nop", false, false, preR6Set(encoding.SLT, false, encoding.BNE)},
		{CC_LE_n, "slt TMxx, rhs, lhs; beq TMxx, $zero, lb; nop", false, false, preR6Set(encoding.SLT, true, encoding.BEQ)},
		{CC_GT_n, "slt TMxx, rhs, lhs; bne TMxx, $zero, lb; nop", false, false, preR6Set(encoding.SLT, true, encoding.BNE)},
		{CC_GE_n, "slt TMxx, lhs, rhs; beq TMxx, $zero, lb; nop", false, false, preR6Set(encoding.SLT, false, encoding.BEQ)},
	}},
	cmi: ConditionTable{Name: "CMI", Revision: 5, Entries: []Strategy{
		{CC_EQ_x, "TRxx = imm; CMR EQ_x", false, false, viaRegister(CC_EQ_x)},
		{CC_NE_x, "TRxx = imm; CMR NE_x", false, false, viaRegister(CC_NE_x)},
		{CC_LT_x, "sltiu TMxx, lhs, imm; bne TMxx, $zero, lb; nop", false, false, preR6Imm(CC_LT_x, encoding.SLTIU, encoding.BNE)},
		{CC_LE_x, "TRxx = imm; CMR LE_x", false, false, viaRegister(CC_LE_x)},
		{CC_GT_x, "TRxx = imm; CMR GT_x", false, false, viaRegister(CC_GT_x)},
		{CC_GE_x, "sltiu TMxx, lhs, imm; beq TMxx, $zero, lb; nop", false, false, preR6Imm(CC_GE_x, encoding.SLTIU, encoding.BEQ)},
		{CC_LT_n, "slti TMxx, lhs, imm; bne TMxx, $zero, lb; nop", false, false, preR6Imm(CC_LT_n, encoding.SLTI, encoding.BNE)},
		{CC_LE_n, "TRxx = imm; CMR LE_n", false, false, viaRegister(CC_LE_n)},
		{CC_GT_n, "TRxx = imm; CMR GT_n", false, false, viaRegister(CC_GT_n)},
		{CC_GE_n, "slti TMxx, lhs, imm; beq TMxx, $zero, lb; nop", false, false, preR6Imm(CC_GE_n, encoding.SLTI, encoding.BEQ)},
	}},
	cmz: ConditionTable{Name: "CMZ", Revision: 5, Entries: []Strategy{
		{CC_EQ_x, "beq lhs, $zero, lb; nop", false, false, preR6Zero(encoding.BEQ)},
		{CC_NE_x, "bne lhs, $zero, lb; nop", false, false, preR6Zero(encoding.BNE)},
		{CC_LT_x, "(never)", true, false, nil},
		{CC_LE_x, "beq lhs, $zero, lb; nop", false, false, preR6Zero(encoding.BEQ)},
		{CC_GT_x, "bne lhs, $zero, lb; nop", false, false, preR6Zero(encoding.BNE)},
		{CC_GE_x, "(always) beq $zero, $zero, lb; nop", false, true, nil},
		{CC_LT_n, "bltz lhs, lb; nop", false, false, preR6Zero(encoding.BLTZ)},
		{CC_LE_n, "blez lhs, lb; nop", false, false, preR6Zero(encoding.BLEZ)},
		{CC_GT_n, "bgtz lhs, lb; nop", false, false, preR6Zero(encoding.BGTZ)},
		{CC_GE_n, "bgez lhs, lb; nop", false, false, preR6Zero(encoding.BGEZ)},
	}},
}

// r6 strategies

// Compact compare branches. beqc/bnec require rs < rt, the others take (lhs, rhs) or (rhs, lhs)
func r6Branch(op uint32, swap, ordered bool) func(*Assembler, compareOperands, *Label) error {
	return func(a *Assembler, ops compareOperands, lb *Label) error {
		rs, rt := ops.lhs, ops.rhs

		if swap || (ordered && rs > rt) {
			rs, rt = rt, rs
		}

		return a.branch(op|encoding.MBM(rs, rt, 0), 16, lb, true)
	}
}

// beqzc/bnezc lhs, lb with a 21 bit offset
func r6Zero21(op uint32) func(*Assembler, compareOperands, *Label) error {
	return func(a *Assembler, ops compareOperands, lb *Label) error {
		return a.branch(op|ops.lhs<<21, 21, lb, true)
	}
}

// bltzc/bgezc encode lhs in both fields, blezc/bgtzc in rt only
func r6Zero16(op uint32, both bool) func(*Assembler, compareOperands, *Label) error {
	return func(a *Assembler, ops compareOperands, lb *Label) error {
		rs := uint32(0)
		if both {
			rs = ops.lhs
		}

		return a.branch(op|encoding.MBM(rs, ops.lhs, 0), 16, lb, true)
	}
}

var r6Conditions = conditionTables{
	cmr: ConditionTable{Name: "CMR", Revision: 6, Entries: []Strategy{
		{CC_EQ_x, "beqc lhs, rhs, lb", false, false, r6Branch(encoding.BEQC, false, true)},
		{CC_NE_x, "bnec lhs, rhs, lb", false, false, r6Branch(encoding.BNEC, false, true)},
		{CC_LT_x, "bltuc lhs, rhs, lb", false, false, r6Branch(encoding.BLTUC, false, false)},
		{CC_LE_x, "bgeuc rhs, lhs, lb", false, false, r6Branch(encoding.BGEUC, true, false)},
		{CC_GT_x, "bltuc rhs, lhs, lb", false, false, r6Branch(encoding.BLTUC, true, false)},
		{CC_GE_x, "bgeuc lhs, rhs, lb", false, false, r6Branch(encoding.BGEUC, false, false)},
		{CC_LT_n, "bltc lhs, rhs, lb", false, false, r6Branch(encoding.BLTC, false, false)},
		{CC_LE_n, "bgec rhs, lhs, lb", false, false, r6Branch(encoding.BGEC, true, false)},
		{CC_GT_n, "bltc rhs, lhs, lb", false, false, r6Branch(encoding.BLTC, true, false)},
		{CC_GE_n, "bgec lhs, rhs, lb", false, false, r6Branch(encoding.BGEC, false, false)},
	}},
	cmi: ConditionTable{Name: "CMI", Revision: 6, Entries: []Strategy{
		{CC_EQ_x, "TRxx = imm; CMR EQ_x", false, false, viaRegister(CC_EQ_x)},
		{CC_NE_x, "TRxx = imm; CMR NE_x", false, false, viaRegister(CC_NE_x)},
		{CC_LT_x, "TRxx = imm; CMR LT_x", false, false, viaRegister(CC_LT_x)},
		{CC_LE_x, "TRxx = imm; CMR LE_x", false, false, viaRegister(CC_LE_x)},
		{CC_GT_x, "TRxx = imm; CMR GT_x", false, false, viaRegister(CC_GT_x)},
		{CC_GE_x, "TRxx = imm; CMR GE_x", false, false, viaRegister(CC_GE_x)},
		{CC_LT_n, "TRxx = imm; CMR LT_n", false, false, viaRegister(CC_LT_n)},
		{CC_LE_n, "TRxx = imm; CMR LE_n", false, false, viaRegister(CC_LE_n)},
		{CC_GT_n, "TRxx = imm; CMR GT_n", false, false, viaRegister(CC_GT_n)},
		{CC_GE_n, "TRxx = imm; CMR GE_n", false, false, viaRegister(CC_GE_n)},
	}},
	cmz: ConditionTable{Name: "CMZ", Revision: 6, Entries: []Strategy{
		{CC_EQ_x, "beqzc lhs, lb", false, false, r6Zero21(encoding.BEQZC)},
		{CC_NE_x, "bnezc lhs, lb", false, false, r6Zero21(encoding.BNEZC)},
		{CC_LT_x, "(never)", true, false, nil},
		{CC_LE_x, "beqzc lhs, lb", false, false, r6Zero21(encoding.BEQZC)},
		{CC_GT_x, "bnezc lhs, lb", false, false, r6Zero21(encoding.BNEZC)},
		{CC_GE_x, "(always) bc lb", false, true, nil},
		{CC_LT_n, "bltzc lhs, lb", false, false, r6Zero16(encoding.BLTZC, true)},
		{CC_LE_n, "blezc lhs, lb", false, false, r6Zero16(encoding.BLEZC, false)},
		{CC_GT_n, "bgtzc lhs, lb", false, false, r6Zero16(encoding.BGTZC, false)},
		{CC_GE_n, "bgezc lhs, lb", false, false, r6Zero16(encoding.BGEZC, true)},
	}},
}

// Returns the condition tables of an ISA revision (5 or 6)
func ConditionTables(revision int) []*ConditionTable {
	if revision >= 6 {
		return r6Conditions.all()
	}

	return preR6Conditions.all()
}

// Sample register values the never/always entries of the zero tables are checked against
var zeroSamples = []uint64{0, 1, 0x7FFFFFFF, 0x80000000, 0xFFFFFFFFFFFFFFFF}

func checkConditionTable(t *ConditionTable) error {
	if len(t.Entries) != TOTAL_COMPARE_CONDITIONS {
		return utils.MakeError(ErrIncompleteTable, "%v r%v has %v entries, need %v", t.Name, t.Revision, len(t.Entries), TOTAL_COMPARE_CONDITIONS)
	}

	for i, s := range t.Entries {
		if s.Cond != ConditionCode(i) {
			return utils.MakeError(ErrInconsistentTable, "%v r%v entry %v is %v", t.Name, t.Revision, i, s.Cond)
		}

		if s.Never && s.Always {
			return utils.MakeError(ErrInconsistentTable, "%v r%v %v is both never and always", t.Name, t.Revision, s.Cond)
		}

		if !s.Never && !s.Always && s.emit == nil {
			return utils.MakeError(ErrIncompleteTable, "%v r%v %v has no strategy", t.Name, t.Revision, s.Cond)
		}

		if (s.Never || s.Always) && t.Name != "CMZ" {
			return utils.MakeError(ErrInconsistentTable, "%v r%v %v: only comparisons against zero can be decided statically", t.Name, t.Revision, s.Cond)
		}

		for _, value := range zeroSamples {
			holds := s.Cond.Holds(value, 0)

			if (s.Never && holds) || (s.Always && !holds) {
				return utils.MakeError(ErrInconsistentTable, "%v r%v %v does not match %v against zero", t.Name, t.Revision, s.Cond, value)
			}
		}
	}

	return nil
}

// Checks the condition tables of both ISA revisions are complete and consistent
func CheckConditionTables() error {
	for _, revision := range []int{5, 6} {
		for _, t := range ConditionTables(revision) {
			if t.Revision != revision {
				return utils.MakeError(ErrInconsistentTable, "%v registered as r%v, found in r%v", t.Name, t.Revision, revision)
			}

			if err := checkConditionTable(t); err != nil {
				return err
			}
		}
	}

	return nil
}

func init() {
	if err := CheckConditionTables(); err != nil {
		panic(fmt.Errorf("condition tables: %w", err))
	}
}
