package asm

import (
	"fmt"
	"strings"

	"github.com/Manu343726/rtasm/pkg/rt/config"
	"github.com/Manu343726/rtasm/pkg/rt/encoding"
	"github.com/Manu343726/rtasm/pkg/rt/operands"
	"github.com/Manu343726/rtasm/pkg/utils"
	"golang.org/x/exp/slices"
)

// Vector operation over 32 bit elements
type VOp uint

const (
	VOp_MOV VOp = iota
	VOp_ADD
	VOp_SUB
	VOp_MUL
	VOp_DIV
	VOp_SQR
	VOp_RCP
	VOp_RSQ
	VOp_FMA
	VOp_AND
	VOp_ANN
	VOp_ORR
	VOp_XOR
	VOp_CEQ
	VOp_CNE
	VOp_CLT
	VOp_CLE
	VOp_SHL
	VOp_SHR
	VOp_CVZ
	VOp_CVN

	TOTAL_VOPS
)

// Element type of a vector instruction
type Elem uint

const (
	// Integer, unsigned or signedness agnostic
	Elem_X Elem = iota
	// Signed integer
	Elem_N
	// Single precision float
	Elem_S
)

var elemNames = []string{"x", "n", "s"}

func (e Elem) String() string {
	return elemNames[e]
}

type elemSet uint

func elems(e ...Elem) elemSet {
	return utils.Reduce(e, func(elem Elem, set elemSet) elemSet {
		return set | 1<<elem
	})
}

func (s elemSet) Has(e Elem) bool {
	return s&(1<<e) != 0
}

// Operand arity of a vector operation
type vkind uint

const (
	// dst = src, load, store
	vkind_Move vkind = iota
	// dst = op src
	vkind_Unary
	// dst = lhs op rhs, 2 or 3 operand forms
	vkind_Binary
	// dst = lhs op count, by vector or immediate
	vkind_Shift
	// dst = dst + lhs * rhs
	vkind_FMA
)

// Contains information describing a vector operation
type VOpDescriptor struct {
	Op    VOp
	Name  string
	Elems elemSet
	kind  vkind
	// Description (for documentation)
	Description string
}

var vops = [TOTAL_VOPS]VOpDescriptor{
	{VOp_MOV, "mov", elems(Elem_X, Elem_S), vkind_Move, "dst = src"},
	{VOp_ADD, "add", elems(Elem_X, Elem_S), vkind_Binary, "dst = lhs + rhs"},
	{VOp_SUB, "sub", elems(Elem_X, Elem_S), vkind_Binary, "dst = lhs - rhs"},
	{VOp_MUL, "mul", elems(Elem_X, Elem_S), vkind_Binary, "dst = lhs * rhs"},
	{VOp_DIV, "div", elems(Elem_S), vkind_Binary, "dst = lhs / rhs"},
	{VOp_SQR, "sqr", elems(Elem_S), vkind_Unary, "dst = sqrt(src)"},
	{VOp_RCP, "rcp", elems(Elem_S), vkind_Unary, "dst = 1 / src (approximated unless full precision)"},
	{VOp_RSQ, "rsq", elems(Elem_S), vkind_Unary, "dst = 1 / sqrt(src) (approximated unless full precision)"},
	{VOp_FMA, "fma", elems(Elem_S), vkind_FMA, "dst = dst + lhs * rhs"},
	{VOp_AND, "and", elems(Elem_X, Elem_S), vkind_Binary, "dst = lhs & rhs"},
	{VOp_ANN, "ann", elems(Elem_X, Elem_S), vkind_Binary, "dst = ~lhs & rhs"},
	{VOp_ORR, "orr", elems(Elem_X, Elem_S), vkind_Binary, "dst = lhs | rhs"},
	{VOp_XOR, "xor", elems(Elem_X, Elem_S), vkind_Binary, "dst = lhs ^ rhs"},
	{VOp_CEQ, "ceq", elems(Elem_X, Elem_S), vkind_Binary, "dst = lhs == rhs ? -1 : 0"},
	{VOp_CNE, "cne", elems(Elem_X, Elem_S), vkind_Binary, "dst = lhs != rhs ? -1 : 0"},
	{VOp_CLT, "clt", elems(Elem_X, Elem_N, Elem_S), vkind_Binary, "dst = lhs < rhs ? -1 : 0"},
	{VOp_CLE, "cle", elems(Elem_X, Elem_N, Elem_S), vkind_Binary, "dst = lhs <= rhs ? -1 : 0"},
	{VOp_SHL, "shl", elems(Elem_X), vkind_Shift, "dst = lhs << count"},
	{VOp_SHR, "shr", elems(Elem_X, Elem_N), vkind_Shift, "dst = lhs >> count, arithmetic when signed"},
	{VOp_CVZ, "cvz", elems(Elem_S), vkind_Unary, "dst = int(src) rounding towards zero"},
	{VOp_CVN, "cvn", elems(Elem_N), vkind_Unary, "dst = float(src)"},
}

func init() {
	for i, op := range vops {
		if op.Op != VOp(i) {
			panic(fmt.Sprintf("vector op descriptor %v registered at index %v", op.Name, i))
		}
	}
}

// Returns all vector operation descriptors
func VOps() []VOpDescriptor {
	return vops[:]
}

func (op VOp) Descriptor() *VOpDescriptor {
	return &vops[op]
}

func (op VOp) String() string {
	return op.Descriptor().Name
}

var vopsByName = utils.GenMap(vops[:], func(d VOpDescriptor) string { return d.Name })

// A vector instruction written as [op][i|c][x|n|s]: "i" works on 128 bit registers, "c" on
// 256 bit register pairs, e.g. "addis", "shrcn"
type VInstr struct {
	Op    VOp
	Elem  Elem
	Lanes int
}

func (in VInstr) String() string {
	width := "i"
	if in.Lanes == 2 {
		width = "c"
	}

	return fmt.Sprintf("%v%v%v", in.Op, width, in.Elem)
}

// Parses a vector mnemonic
func ParseVInstr(mnemonic string) (VInstr, error) {
	if len(mnemonic) != 5 {
		return VInstr{}, utils.MakeError(ErrInvalidMnemonic, "'%v' is not [op][i|c][x|n|s]", mnemonic)
	}

	op, ok := vopsByName[mnemonic[:3]]
	if !ok {
		return VInstr{}, utils.MakeError(ErrInvalidMnemonic, "unknown vector operation '%v' in '%v'", mnemonic[:3], mnemonic)
	}

	width := strings.Index("ic", mnemonic[3:4])
	elem := strings.Index("xns", mnemonic[4:5])

	if width < 0 || elem < 0 {
		return VInstr{}, utils.MakeError(ErrInvalidMnemonic, "unknown width or element type in '%v'", mnemonic)
	}

	in := VInstr{Op: op.Op, Elem: Elem(elem), Lanes: width + 1}
	return in, in.Validate()
}

// Same as ParseVInstr(), panics on error
func MustVInstr(mnemonic string) VInstr {
	in, err := ParseVInstr(mnemonic)
	if err != nil {
		panic(err)
	}

	return in
}

// Checks the operation supports the element type
func (in VInstr) Validate() error {
	if in.Op >= TOTAL_VOPS {
		return utils.MakeError(ErrInvalidMnemonic, "unknown vector operation %v", uint(in.Op))
	}

	if !in.Op.Descriptor().Elems.Has(in.Elem) {
		return utils.MakeError(ErrInvalidMnemonic, "'%v' has no %v element form", in.Op, in.Elem)
	}

	if in.Lanes != 1 && in.Lanes != 2 {
		return utils.MakeError(ErrInvalidMnemonic, "%v lanes", in.Lanes)
	}

	return nil
}

// Decoded vector operands. rhs is either a vector register, a memory operand (loaded into
// TmmM per lane) or a shift count
type vectorOperands struct {
	dst operands.VectorRegister
	lhs operands.VectorRegister
	rhs operands.VectorRegister
	mem *operands.Memory
	imm *operands.Immediate
}

func vshape(args []operands.Operand) string {
	kinds := utils.Map(args, func(op operands.Operand) operands.Kind { return op.Kind() })

	switch len(kinds) {
	case 2:
		switch [2]operands.Kind{kinds[0], kinds[1]} {
		case [2]operands.Kind{operands.Kind_Vector, operands.Kind_Vector}:
			return "rr"
		case [2]operands.Kind{operands.Kind_Vector, operands.Kind_Memory}:
			return "ld"
		case [2]operands.Kind{operands.Kind_Memory, operands.Kind_Vector}:
			return "st"
		case [2]operands.Kind{operands.Kind_Vector, operands.Kind_Immediate}:
			return "ri"
		}
	case 3:
		if kinds[0] == operands.Kind_Vector && kinds[1] == operands.Kind_Vector {
			switch kinds[2] {
			case operands.Kind_Vector:
				return "3rr"
			case operands.Kind_Memory:
				return "3ld"
			case operands.Kind_Immediate:
				return "3ri"
			}
		}
	}

	return "xx"
}

func publicVector(op operands.Operand) (operands.VectorRegister, error) {
	v := op.(operands.VectorRegister)

	if v.Class == operands.RegisterClass_Scratch {
		return v, utils.MakeError(ErrForbiddenOperand, "%v is reserved by the encoder", v)
	}

	return v, nil
}

func vdecode(in VInstr, shape string, args []operands.Operand) (vectorOperands, error) {
	var ops vectorOperands
	kind := in.Op.Descriptor().kind

	valid := map[vkind][]string{
		vkind_Move:   {"rr", "ld", "st"},
		vkind_Unary:  {"rr", "ld"},
		vkind_Binary: {"rr", "ld", "3rr", "3ld"},
		vkind_Shift:  {"rr", "ri", "3rr", "3ri"},
		vkind_FMA:    {"3rr", "3ld"},
	}[kind]

	if !slices.Contains(valid, shape) {
		return ops, utils.MakeError(ErrUnsupportedShape, "%v has no %v form", in, shape)
	}

	for _, arg := range args {
		var err error

		switch op := arg.(type) {
		case operands.VectorRegister:
			_, err = publicVector(op)
		case operands.Memory:
			var m operands.Memory
			if m, err = memory(op); err == nil {
				ops.mem = &m
			}
		case operands.Immediate:
			ops.imm = &op
		}

		if err != nil {
			return ops, err
		}
	}

	switch shape {
	case "st":
		ops.lhs = args[1].(operands.VectorRegister)
	case "rr", "ld", "ri":
		ops.dst = args[0].(operands.VectorRegister)
		ops.lhs = ops.dst

		if shape == "rr" {
			ops.rhs = args[1].(operands.VectorRegister)
		}

		if kind == vkind_Move || kind == vkind_Unary {
			ops.lhs = ops.rhs
		}
	default:
		ops.dst = args[0].(operands.VectorRegister)
		ops.lhs = args[1].(operands.VectorRegister)

		if shape == "3rr" {
			ops.rhs = args[2].(operands.VectorRegister)
		}
	}

	return ops, nil
}

// Emits a vector instruction. Shapes:
//
//	rr, ld, ri:    dst = dst op src (dst = op src for mov and unary ops)
//	st:            mem = src (mov)
//	3rr, 3ld, 3ri: dst = lhs op rhs (fma: dst = dst + lhs * rhs)
//
// 256 bit forms repeat the 128 bit sequence for the upper register of each pair (+16) with the
// memory displacement or-ed with 0x10
func (a *Assembler) EmitV(in VInstr, args ...operands.Operand) error {
	shape := vshape(args)

	return a.do(emissionName(in, shape, args...), func() error {
		if err := in.Validate(); err != nil {
			return err
		}

		if in.Lanes > a.cfg.SIMD.Lanes {
			return utils.MakeError(ErrUnsupportedWidth, "%v needs 256 bit simd, target has %v bit", in, a.cfg.SIMD.Lanes*128)
		}

		ops, err := vdecode(in, shape, args)
		if err != nil {
			return err
		}

		if in.Lanes > 1 && ops.mem != nil && ops.mem.Disp.Value&0x10 != 0 {
			return utils.MakeError(operands.ErrMisaligned, "%v needs a 32 byte aligned displacement, have %v", in, ops.mem.Disp)
		}

		for lane := 0; lane < in.Lanes; lane++ {
			if err := a.vlane(in, shape, ops, lane); err != nil {
				return err
			}
		}

		return nil
	})
}

// Same as EmitV(), parsing the mnemonic
func (a *Assembler) EmitVMnemonic(mnemonic string, args ...operands.Operand) error {
	in, err := ParseVInstr(mnemonic)
	if err != nil {
		return a.do(mnemonic, func() error { return err })
	}

	return a.EmitV(in, args...)
}

// Returns the base register and s10 element offset of a lane of a vector memory operand.
// Offsets beyond the s10 range are added into TPxx
func (a *Assembler) vaddress(m operands.Memory, lane int) (uint32, uint32, error) {
	if lane > 0 {
		m = m.WithDisp(m.Disp.Or(0x10))
	}

	base, offset, err := a.address(m, 4)
	if err != nil {
		return 0, 0, err
	}

	if offset>>2 <= 0x1FF {
		return base, offset >> 2, nil
	}

	tp, err := a.scratch(operands.TPxx, purpose_Address)
	if err != nil {
		return 0, 0, err
	}

	a.log.Debug("vector offset synthesized", "offset", utils.FormatUintHex(uint64(offset), 4), "base", base)
	a.emit(a.ptrAddiu() | encoding.MIM(tp, base, offset))
	return tp, 0, nil
}

func (a *Assembler) vload(wd uint32, m operands.Memory, lane int) error {
	base, s10, err := a.vaddress(m, lane)
	if err != nil {
		return err
	}

	a.emit(encoding.LD_W | encoding.MPM(wd, base, s10))
	return nil
}

// Loads the memory operand lane into TmmM
func (a *Assembler) vsource(m operands.Memory, lane int) (uint32, error) {
	tm, err := a.scope.vector(operands.TmmM, purpose_Memory)
	if err != nil {
		return 0, err
	}

	return tm.Lane(lane), a.vload(tm.Lane(lane), m, lane)
}

// Splats 1.0f into TmmQ
func (a *Assembler) vone(lane int) (uint32, error) {
	tq, err := a.scope.vector(operands.TmmQ, purpose_Constant)
	if err != nil {
		return 0, err
	}

	ti, err := a.scratch(operands.TIxx, purpose_Constant)
	if err != nil {
		return 0, err
	}

	a.emit(encoding.LUI | encoding.MIM(ti, operands.TZxx.Index, 0x3F80))
	a.emit(encoding.FILL_W | encoding.MVM(tq.Lane(lane), ti))
	return tq.Lane(lane), nil
}

func pickElem(e Elem, integer, signed, float uint32) uint32 {
	switch e {
	case Elem_N:
		return signed
	case Elem_S:
		return float
	}

	return integer
}

func (a *Assembler) vlane(in VInstr, shape string, ops vectorOperands, lane int) error {
	d, l := ops.dst.Lane(lane), ops.lhs.Lane(lane)
	r := ops.rhs.Lane(lane)

	if in.Op == VOp_MOV {
		switch shape {
		case "ld":
			return a.vload(d, *ops.mem, lane)
		case "st":
			base, s10, err := a.vaddress(*ops.mem, lane)
			if err != nil {
				return err
			}

			a.emit(encoding.ST_W | encoding.MPM(l, base, s10))
		default:
			a.emit(encoding.MOVE_V | encoding.MVM(d, l))
		}

		return nil
	}

	if ops.mem != nil {
		tm, err := a.vsource(*ops.mem, lane)
		if err != nil {
			return err
		}

		if in.Op.Descriptor().kind == vkind_Unary {
			l = tm
		} else {
			r = tm
		}
	}

	switch in.Op {
	case VOp_ADD:
		a.emit(pickElem(in.Elem, encoding.ADDV_W, encoding.ADDV_W, encoding.FADD_W) | encoding.MXM(d, l, r))
	case VOp_SUB:
		a.emit(pickElem(in.Elem, encoding.SUBV_W, encoding.SUBV_W, encoding.FSUB_W) | encoding.MXM(d, l, r))
	case VOp_MUL:
		a.emit(pickElem(in.Elem, encoding.MULV_W, encoding.MULV_W, encoding.FMUL_W) | encoding.MXM(d, l, r))
	case VOp_DIV:
		a.emit(encoding.FDIV_W | encoding.MXM(d, l, r))
	case VOp_AND:
		a.emit(encoding.AND_V | encoding.MXM(d, l, r))
	case VOp_ORR:
		a.emit(encoding.OR_V | encoding.MXM(d, l, r))
	case VOp_XOR:
		a.emit(encoding.XOR_V | encoding.MXM(d, l, r))
	case VOp_ANN:
		not := d
		if d == r {
			tq, err := a.scope.vector(operands.TmmQ, purpose_Constant)
			if err != nil {
				return err
			}

			not = tq.Lane(lane)
		}

		a.emit(encoding.NOR_V | encoding.MXM(not, l, l))
		a.emit(encoding.AND_V | encoding.MXM(d, not, r))
	case VOp_CEQ:
		a.emit(pickElem(in.Elem, encoding.CEQ_W, encoding.CEQ_W, encoding.FCEQ_W) | encoding.MXM(d, l, r))
	case VOp_CNE:
		if in.Elem == Elem_S {
			a.emit(encoding.FCNE_W | encoding.MXM(d, l, r))
		} else {
			a.emit(encoding.CEQ_W | encoding.MXM(d, l, r))
			a.emit(encoding.NOR_V | encoding.MXM(d, d, d))
		}
	case VOp_CLT:
		a.emit(pickElem(in.Elem, encoding.CLT_U_W, encoding.CLT_S_W, encoding.FCLT_W) | encoding.MXM(d, l, r))
	case VOp_CLE:
		a.emit(pickElem(in.Elem, encoding.CLE_U_W, encoding.CLE_S_W, encoding.FCLE_W) | encoding.MXM(d, l, r))
	case VOp_SHL, VOp_SHR:
		return a.vshift(in, ops, d, l, r)
	case VOp_SQR:
		a.emit(encoding.FSQRT_W | encoding.MVM(d, l))
	case VOp_CVZ:
		a.emit(encoding.FTRUNCS_W | encoding.MVM(d, l))
	case VOp_CVN:
		a.emit(encoding.FFINTS_W | encoding.MVM(d, l))
	case VOp_RCP:
		if a.cfg.SIMD.RCP == config.Compat_Native {
			a.emit(encoding.FRCP_W | encoding.MVM(d, l))
			return nil
		}

		one, err := a.vone(lane)
		if err != nil {
			return err
		}

		a.emit(encoding.FDIV_W | encoding.MXM(d, one, l))
	case VOp_RSQ:
		if a.cfg.SIMD.RSQ == config.Compat_Native {
			a.emit(encoding.FRSQRT_W | encoding.MVM(d, l))
			return nil
		}

		one, err := a.vone(lane)
		if err != nil {
			return err
		}

		a.emit(encoding.FSQRT_W | encoding.MVM(d, l))
		a.emit(encoding.FDIV_W | encoding.MXM(d, one, d))
	case VOp_FMA:
		if a.cfg.SIMD.FMA == config.Compat_Native {
			a.emit(encoding.FMADD_W | encoding.MXM(d, l, r))
			return nil
		}

		tq, err := a.scope.vector(operands.TmmQ, purpose_Product)
		if err != nil {
			return err
		}

		a.emit(encoding.FMUL_W | encoding.MXM(tq.Lane(lane), l, r))
		a.emit(encoding.FADD_W | encoding.MXM(d, d, tq.Lane(lane)))
	}

	return nil
}

func (a *Assembler) vshift(in VInstr, ops vectorOperands, d, l, r uint32) error {
	left := in.Op == VOp_SHL

	if ops.imm != nil {
		count := ops.imm.Value & 0x1F

		switch {
		case left:
			a.emit(encoding.SLLI_W | encoding.MXM(d, l, count))
		case in.Elem == Elem_N:
			a.emit(encoding.SRAI_W | encoding.MXM(d, l, count))
		default:
			a.emit(encoding.SRLI_W | encoding.MXM(d, l, count))
		}

		return nil
	}

	switch {
	case left:
		a.emit(encoding.SLL_W | encoding.MXM(d, l, r))
	case in.Elem == Elem_N:
		a.emit(encoding.SRA_W | encoding.MXM(d, l, r))
	default:
		a.emit(encoding.SRL_W | encoding.MXM(d, l, r))
	}

	return nil
}
