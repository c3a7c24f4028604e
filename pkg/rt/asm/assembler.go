// Package asm implements the MIPS32/64 r5/r6 instruction encoder: scalar BASE operations over
// registers, memory and immediates, fused compare/arithmetic jumps, register file spills and
// the MSA 128/256 bit vector operations. Every public emitting method is one logical instruction
// that appends one or more 32 bit words to an emit.Buffer.
package asm

import (
	"fmt"
	"log/slog"

	"github.com/Manu343726/rtasm/pkg/log"
	"github.com/Manu343726/rtasm/pkg/rt/config"
	"github.com/Manu343726/rtasm/pkg/rt/emit"
	"github.com/Manu343726/rtasm/pkg/rt/encoding"
	"github.com/Manu343726/rtasm/pkg/rt/operands"
	"github.com/Manu343726/rtasm/pkg/utils"
)

// Instruction encoder bound to a target configuration and a code buffer. The first failed
// emission is kept and makes every following call a no-op returning the same error
type Assembler struct {
	cfg    config.Config
	rev    revision
	buf    emit.Buffer
	log    *slog.Logger
	scope  scratchScope
	labels []*Label
	err    error

	emitting bool
	// The last word is an r6 compact conditional branch: the next word must not be a CTI
	forbiddenSlot bool
}

type Option func(*Assembler)

// Sets the logger receiving emission traces and errors
func WithLogger(l *slog.Logger) Option {
	return func(a *Assembler) {
		a.log = l
	}
}

// Returns an assembler emitting code for cfg into buf
func New(cfg config.Config, buf emit.Buffer, options ...Option) (*Assembler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	a := &Assembler{
		cfg:   cfg,
		rev:   revisionFor(&cfg),
		buf:   buf,
		log:   log.Root(),
		scope: newScratchScope(),
	}

	for _, option := range options {
		option(a)
	}

	a.log = a.log.With("target", cfg.String())
	return a, nil
}

// Returns the target configuration
func (a *Assembler) Config() config.Config {
	return a.cfg
}

// Returns the code buffer
func (a *Assembler) Buffer() emit.Buffer {
	return a.buf
}

// Returns the first emission error, if any
func (a *Assembler) Err() error {
	return a.err
}

// Checks every referenced label has been bound. Returns the first error of the assembler
func (a *Assembler) Finish() error {
	if a.err != nil {
		return a.err
	}

	for _, lb := range a.labels {
		if !lb.bound && len(lb.fixups) > 0 {
			a.err = utils.MakeError(ErrUnboundLabel, "label '%v' referenced by %v branches", lb.name, len(lb.fixups))
			return a.err
		}
	}

	return nil
}

// Runs the emission of one logical instruction. Scratch registers acquired by body are
// released when it returns
func (a *Assembler) do(name string, body func() error) error {
	if a.err != nil {
		return a.err
	}

	if a.emitting {
		a.err = utils.MakeError(ErrNestedEmission, "%v", name)
		return a.err
	}

	if tracer, ok := a.buf.(emit.TracerWithContextStack); ok {
		tracer.PushContext("%v", name)
		defer tracer.PopContext()
	}

	a.emitting = true
	start := a.buf.Len()
	err := body()
	a.scope.release()
	a.emitting = false

	if err != nil {
		a.err = fmt.Errorf("%v: %w", name, err)
		a.log.Error("emission failed", "instr", name, "error", err)
		return a.err
	}

	if marker, ok := a.buf.(emit.Marker); ok && a.buf.Len() > start {
		marker.Mark(start, name)
	}

	log.Trace(a.log, "emitted", "instr", name, "words", a.buf.Len()-start)
	return nil
}

func (a *Assembler) emit(word uint32) {
	a.buf.EmitW(word)
	a.forbiddenSlot = false
}

func (a *Assembler) scratch(r operands.Register, p purpose) (uint32, error) {
	return a.scope.register(r, p)
}

// Returns the add opcode for the given width
func addu(wide bool) uint32 {
	if wide {
		return encoding.DADDU
	}

	return encoding.ADDU
}

// Returns the add opcode for address arithmetic
func (a *Assembler) ptrAddu() uint32 {
	return addu(a.cfg.PointerBytes() == 8)
}

// Returns the add immediate opcode for address arithmetic
func (a *Assembler) ptrAddiu() uint32 {
	if a.cfg.PointerBytes() == 8 {
		return encoding.DADDIU
	}

	return encoding.ADDIU
}

func (a *Assembler) move(rd, rs uint32, wide bool) {
	a.emit(addu(wide) | encoding.MRM(rd, rs, operands.TZxx.Index))
}

// Materializes an immediate into rd: addiu for the native tier, ori for 16 bits and lui+ori
// beyond. 64 bit instructions zero extend 32 bit immediates
func (a *Assembler) loadImm(rd uint32, imm operands.Immediate, wide bool) {
	if tier := imm.ArithmeticTier(); tier != operands.Tier_Native {
		a.log.Debug("immediate synthesized", "class", imm.Class.String(), "value", utils.FormatWord(imm.Value), "tier", tier.String())
	}

	switch imm.ArithmeticTier() {
	case operands.Tier_Native:
		a.emit(encoding.ADDIU | encoding.MIM(rd, operands.TZxx.Index, imm.Value))
	case operands.Tier_Single:
		a.emit(encoding.ORI | encoding.MIM(rd, operands.TZxx.Index, imm.Value))
	default:
		a.emit(encoding.LUI | encoding.MIM(rd, operands.TZxx.Index, imm.Hi()))
		a.emit(encoding.ORI | encoding.MIM(rd, rd, imm.Lo()))

		if wide && imm.Class == operands.ImmediateClass_IW {
			a.emit(encoding.Dext(rd, rd, 0, 32))
		}
	}
}

// Materializes an immediate into TIxx
func (a *Assembler) immediate(imm operands.Immediate, wide bool) (uint32, error) {
	ti, err := a.scratch(operands.TIxx, purpose_Immediate)
	if err != nil {
		return 0, err
	}

	a.loadImm(ti, imm, wide)
	return ti, nil
}

// Appends the flag setting move of the result into TLxx
func (a *Assembler) flags(in Instr, result uint32) error {
	if !in.SetFlags {
		return nil
	}

	tl, err := a.scratch(operands.TLxx, purpose_Flags)
	if err != nil {
		return err
	}

	a.move(tl, result, in.Wide())
	return nil
}

func (a *Assembler) checkWidth(wide bool) error {
	if wide && !a.cfg.Has64() {
		return utils.MakeError(ErrUnsupportedWidth, "64 bit operations need a mips64 target, have %v", a.cfg.ISA)
	}

	return nil
}

func publicRegister(r operands.Register) error {
	if r.Class == operands.RegisterClass_Scratch {
		return utils.MakeError(ErrForbiddenOperand, "%v is reserved by the encoder", r)
	}

	return nil
}

// Returns the register operand, rejecting encoder scratch registers
func register(op operands.Operand) (operands.Register, error) {
	r, ok := op.(operands.Register)
	if !ok {
		return operands.Register{}, utils.MakeError(ErrUnsupportedShape, "%v is not a register", op)
	}

	return r, publicRegister(r)
}

// Returns the memory operand, rejecting encoder scratch registers in its address
func memory(op operands.Operand) (operands.Memory, error) {
	m, ok := op.(operands.Memory)
	if !ok {
		return operands.Memory{}, utils.MakeError(ErrUnsupportedShape, "%v is not a memory operand", op)
	}

	if err := publicRegister(m.Base); err != nil {
		return m, err
	}

	if m.Index != nil {
		return m, publicRegister(*m.Index)
	}

	return m, nil
}

func immediate(op operands.Operand) (operands.Immediate, error) {
	imm, ok := op.(operands.Immediate)
	if !ok {
		return operands.Immediate{}, utils.MakeError(ErrUnsupportedShape, "%v is not an immediate", op)
	}

	return imm, nil
}

// Returns the base register and 16 bit offset addressing m. Indexed addresses and displacements
// beyond the native offset are synthesized into TPxx (through TDxx for the displacement)
func (a *Assembler) address(m operands.Memory, align uint32) (uint32, uint32, error) {
	if m.Disp.Value&(align-1) != 0 {
		return 0, 0, utils.MakeError(operands.ErrMisaligned, "%v needs %v byte alignment", m, align)
	}

	if !m.NeedsSynthesis() {
		return m.Base.Index, m.Disp.Value, nil
	}

	tp, err := a.scratch(operands.TPxx, purpose_Address)
	if err != nil {
		return 0, 0, err
	}

	base := m.Base.Index

	if m.Index != nil {
		a.emit(a.ptrAddu() | encoding.MRM(tp, base, m.Index.Index))
		base = tp
	}

	if m.Disp.Tier() == operands.Tier_Native {
		return base, m.Disp.Value, nil
	}

	td, err := a.scratch(operands.TDxx, purpose_Address)
	if err != nil {
		return 0, 0, err
	}

	a.log.Debug("displacement synthesized", "class", m.Disp.Class.String(), "value", utils.FormatWord(m.Disp.Value), "tier", m.Disp.Tier().String())

	if m.Disp.Tier() == operands.Tier_Single {
		a.emit(encoding.ORI | encoding.MIM(td, operands.TZxx.Index, m.Disp.Lo()))
	} else {
		a.emit(encoding.LUI | encoding.MIM(td, operands.TZxx.Index, m.Disp.Hi()))
		a.emit(encoding.ORI | encoding.MIM(td, td, m.Disp.Lo()))
	}

	a.emit(a.ptrAddu() | encoding.MRM(tp, base, td))
	return tp, 0, nil
}

func loadOp(size Size, sign Sign) uint32 {
	switch size {
	case Size_B:
		if sign == Sign_N {
			return encoding.LB
		}
		return encoding.LBU
	case Size_H:
		if sign == Sign_N {
			return encoding.LH
		}
		return encoding.LHU
	case Size_W:
		return encoding.LW
	}

	return encoding.LD
}

func storeOp(size Size) uint32 {
	switch size {
	case Size_B:
		return encoding.SB
	case Size_H:
		return encoding.SH
	case Size_W:
		return encoding.SW
	}

	return encoding.SD
}

func alignment(size Size) uint32 {
	if size == Size_Z {
		return 8
	}

	return 4
}

// Loads a memory operand into rt with the width and extension of the instruction
func (a *Assembler) load(rt uint32, m operands.Memory, in Instr) error {
	base, offset, err := a.address(m, alignment(in.Size))
	if err != nil {
		return err
	}

	a.emit(loadOp(in.Size, in.Sign) | encoding.MDM(rt, base, offset))
	return nil
}

// Stores rt into a memory operand with the width of the instruction
func (a *Assembler) store(rt uint32, m operands.Memory, in Instr) error {
	base, offset, err := a.address(m, alignment(in.Size))
	if err != nil {
		return err
	}

	a.emit(storeOp(in.Size) | encoding.MDM(rt, base, offset))
	return nil
}

// Load/modify/store of a memory destination through TMxx. The address is synthesized once
// for both accesses
func (a *Assembler) modify(m operands.Memory, in Instr, body func(tm uint32) error) error {
	base, offset, err := a.address(m, alignment(in.Size))
	if err != nil {
		return err
	}

	tm, err := a.scratch(operands.TMxx, purpose_Memory)
	if err != nil {
		return err
	}

	a.emit(loadOp(in.Size, in.Sign) | encoding.MDM(tm, base, offset))

	if err := body(tm); err != nil {
		return err
	}

	a.emit(storeOp(in.Size) | encoding.MDM(tm, base, offset))
	return a.flags(in, tm)
}

// Loads a memory source operand into TMxx
func (a *Assembler) source(m operands.Memory, in Instr) (uint32, error) {
	tm, err := a.scratch(operands.TMxx, purpose_Memory)
	if err != nil {
		return 0, err
	}

	return tm, a.load(tm, m, in)
}
