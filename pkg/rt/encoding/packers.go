// Package encoding contains the bit-packing primitives and opcode patterns of the MIPS32/64
// r5/r6 BASE and MSA instruction formats. Packers do no validation: operands are expected to
// be resolved register numbers and already masked immediates.
package encoding

// Arithmetic R-format fields: rd, rs, rt
func MRM(rd, rs, rt uint32) uint32 {
	return rd<<11 | rs<<21 | rt<<16
}

// Shift-immediate R-format fields: rd, rt, sa
func MSM(rd, rt, sa uint32) uint32 {
	return rd<<11 | rt<<16 | (sa&0x1F)<<6
}

// Logic-immediate I-format register fields: rt, rs
func MTM(rt, rs uint32) uint32 {
	return rt<<16 | rs<<21
}

// Memory I-format fields: rt, base and signed 16 bit offset
func MDM(rt, base, offset uint32) uint32 {
	return rt<<16 | base<<21 | offset&0xFFFF
}

// Immediate I-format fields: rt, rs and 16 bit immediate
func MIM(rt, rs, imm uint32) uint32 {
	return rt<<16 | rs<<21 | imm&0xFFFF
}

// REGIMM/compact branch register fields: rs, rt and 16 bit word offset
func MBM(rs, rt, offset uint32) uint32 {
	return rs<<21 | rt<<16 | offset&0xFFFF
}

// MSA 3R/3RF/VEC fields: wd, ws, wt
func MXM(wd, ws, wt uint32) uint32 {
	return wt<<16 | ws<<11 | wd<<6
}

// MSA MI10 fields: wd, base and signed 10 bit element offset
func MPM(wd, base, s10 uint32) uint32 {
	return (s10&0x3FF)<<16 | base<<11 | wd<<6
}

// MSA 2R/2RF fields: wd, ws (or general purpose rs for fill)
func MVM(wd, ws uint32) uint32 {
	return ws<<11 | wd<<6
}
