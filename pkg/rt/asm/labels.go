package asm

import (
	"fmt"

	"github.com/Manu343726/rtasm/pkg/rt/encoding"
	"github.com/Manu343726/rtasm/pkg/rt/operands"
	"github.com/Manu343726/rtasm/pkg/utils"
)

type fixup struct {
	// Index of the branch word
	index int
	// Width of its offset field
	width int
}

// A branch target within the code buffer. Branches to a label not bound yet are patched when
// the label is bound
type Label struct {
	name   string
	bound  bool
	index  int
	fixups []fixup
}

func (lb *Label) String() string {
	return lb.name
}

// Returns true if the label has been bound
func (lb *Label) Bound() bool {
	return lb.bound
}

// Returns the word index the label is bound to
func (lb *Label) Index() int {
	return lb.index
}

// Returns a new unbound label
func (a *Assembler) NewLabel(name string) *Label {
	lb := &Label{name: name}
	a.labels = append(a.labels, lb)
	return lb
}

func branchOffset(from, to int, width int) (int32, error) {
	offset := int64(to - (from + 1))

	if !utils.FitsSigned(offset, width) {
		return 0, utils.MakeError(ErrBranchOutOfRange, "offset %v words does not fit %v bits", offset, width)
	}

	return int32(offset), nil
}

// Binds the label to the current position and patches the branches already referencing it
func (a *Assembler) Bind(lb *Label) error {
	if a.err != nil {
		return a.err
	}

	if lb.bound {
		a.err = utils.MakeError(ErrLabelRebound, "'%v' bound at word %v", lb.name, lb.index)
		return a.err
	}

	lb.bound = true
	lb.index = a.buf.Len()

	for _, f := range lb.fixups {
		offset, err := branchOffset(f.index, lb.index, f.width)
		if err != nil {
			a.err = fmt.Errorf("branch to '%v' at word %v: %w", lb.name, f.index, err)
			return a.err
		}

		a.buf.PatchW(f.index, encoding.WithOffset(a.buf.Word(f.index), offset, f.width))
	}

	lb.fixups = nil
	return nil
}

// Emits a control transfer instruction. An r6 CTI can not sit in the forbidden slot of a compact
// conditional branch, a nop is inserted there
func (a *Assembler) cti(word uint32) {
	if a.forbiddenSlot {
		a.emit(encoding.NOP)
	}

	a.emit(word)
}

func (a *Assembler) delaySlot() {
	a.emit(encoding.NOP)
}

// Emits a PC relative branch to lb with an offset field of the given width. Pre-r6 branches get
// their delay slot nop, r6 conditional compact branches open a forbidden slot
func (a *Assembler) branch(word uint32, width int, lb *Label, conditional bool) error {
	if lb == nil {
		return utils.MakeError(ErrUnboundLabel, "nil label")
	}

	if a.forbiddenSlot {
		a.emit(encoding.NOP)
	}

	index := a.buf.Len()
	var offset int32

	if lb.bound {
		var err error
		if offset, err = branchOffset(index, lb.index, width); err != nil {
			return fmt.Errorf("branch to '%v': %w", lb.name, err)
		}
	} else {
		lb.fixups = append(lb.fixups, fixup{index: index, width: width})
	}

	a.emit(encoding.WithOffset(word, offset, width))

	if !a.cfg.IsR6() {
		a.delaySlot()
	} else if conditional {
		a.forbiddenSlot = true
	}

	return nil
}

// Emits an unconditional jump to lb
func (a *Assembler) Jmp(lb *Label) error {
	return a.do(fmt.Sprintf("jmpxx_lb(%v)", lb), func() error {
		return a.rev.jump(a, lb)
	})
}

// Emits a jump to the address held by r
func (a *Assembler) JmpReg(r operands.Register) error {
	return a.do(fmt.Sprintf("jmpxx_xr(%v)", r), func() error {
		if err := publicRegister(r); err != nil {
			return err
		}

		a.rev.jumpReg(a, r.Index)
		return nil
	})
}
