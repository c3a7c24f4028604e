package asm

import (
	"github.com/Manu343726/rtasm/pkg/rt/encoding"
	"github.com/Manu343726/rtasm/pkg/rt/operands"
)

// Registers spilled by StackSave(), in slot order
var StackSlots = append(append(append([]operands.Register{}, operands.PublicRegisters...),
	operands.TIxx, operands.TDxx, operands.TPxx, operands.TNxx, operands.TAxx, operands.TCxx, operands.TExx),
	operands.RAxx)

// Returns the size in bytes of one spill slot: 8 on mips64, 4 on mips32
func (a *Assembler) StackSlotSize() uint32 {
	if a.cfg.Has64() {
		return 8
	}

	return 4
}

// Returns the number of bytes StackSave() allocates
func (a *Assembler) StackSpan() uint32 {
	return uint32(len(StackSlots)) * a.StackSlotSize()
}

func (a *Assembler) stackOps() (load, store uint32) {
	if a.cfg.Has64() {
		return encoding.LD, encoding.SD
	}

	return encoding.LW, encoding.SW
}

// Allocates the spill area below the stack pointer and saves the whole register file
func (a *Assembler) StackSave() error {
	return a.do("stack_sa()", func() error {
		sp, size := operands.SPxx.Index, a.StackSlotSize()
		_, store := a.stackOps()

		a.emit(a.ptrAddiu() | encoding.MIM(sp, sp, -a.StackSpan()))

		for i, r := range StackSlots {
			a.emit(store | encoding.MDM(r.Index, sp, uint32(i)*size))
		}

		return nil
	})
}

// Restores the register file saved by StackSave() in mirrored order and releases the spill area
func (a *Assembler) StackLoad() error {
	return a.do("stack_la()", func() error {
		sp, size := operands.SPxx.Index, a.StackSlotSize()
		load, _ := a.stackOps()

		for i := len(StackSlots) - 1; i >= 0; i-- {
			a.emit(load | encoding.MDM(StackSlots[i].Index, sp, uint32(i)*size))
		}

		a.emit(a.ptrAddiu() | encoding.MIM(sp, sp, a.StackSpan()))
		return nil
	})
}
