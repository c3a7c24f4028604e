package encoding

// SPECIAL (R-format) function patterns
const (
	NOP     uint32 = 0x00000000
	SLL     uint32 = 0x00000000
	SRL     uint32 = 0x00000002
	SRA     uint32 = 0x00000003
	SLLV    uint32 = 0x00000004
	SRLV    uint32 = 0x00000006
	SRAV    uint32 = 0x00000007
	ROTR    uint32 = 0x00200002
	ROTRV   uint32 = 0x00000046
	JR      uint32 = 0x00000008
	JALR    uint32 = 0x00000009
	MFHI    uint32 = 0x00000010
	MFLO    uint32 = 0x00000012
	DSLLV   uint32 = 0x00000014
	DSRLV   uint32 = 0x00000016
	DSRAV   uint32 = 0x00000017
	DROTRV  uint32 = 0x00000056
	MULT    uint32 = 0x00000018
	MULTU   uint32 = 0x00000019
	DIV     uint32 = 0x0000001A
	DIVU    uint32 = 0x0000001B
	DMULT   uint32 = 0x0000001C
	DMULTU  uint32 = 0x0000001D
	DDIV    uint32 = 0x0000001E
	DDIVU   uint32 = 0x0000001F
	ADDU    uint32 = 0x00000021
	SUBU    uint32 = 0x00000023
	AND     uint32 = 0x00000024
	OR      uint32 = 0x00000025
	XOR     uint32 = 0x00000026
	NOR     uint32 = 0x00000027
	SLT     uint32 = 0x0000002A
	SLTU    uint32 = 0x0000002B
	DADDU   uint32 = 0x0000002D
	DSUBU   uint32 = 0x0000002F
	DSLL    uint32 = 0x00000038
	DSRL    uint32 = 0x0000003A
	DSRA    uint32 = 0x0000003B
	DSLL32  uint32 = 0x0000003C
	DSRL32  uint32 = 0x0000003E
	DSRA32  uint32 = 0x0000003F
	DROTR   uint32 = 0x0020003A
	DROTR32 uint32 = 0x0020003E
)

// r6 fused multiply/divide patterns (SPECIAL with sa field selecting the variant)
const (
	MUL_R6   uint32 = 0x00000098
	MUH_R6   uint32 = 0x000000D8
	MULU_R6  uint32 = 0x00000099
	MUHU_R6  uint32 = 0x000000D9
	DIV_R6   uint32 = 0x0000009A
	MOD_R6   uint32 = 0x000000DA
	DIVU_R6  uint32 = 0x0000009B
	MODU_R6  uint32 = 0x000000DB
	DMUL_R6  uint32 = 0x0000009C
	DMUH_R6  uint32 = 0x000000DC
	DMULU_R6 uint32 = 0x0000009D
	DMUHU_R6 uint32 = 0x000000DD
	DDIV_R6  uint32 = 0x0000009E
	DMOD_R6  uint32 = 0x000000DE
	DDIVU_R6 uint32 = 0x0000009F
	DMODU_R6 uint32 = 0x000000DF
)

// I-format patterns
const (
	ADDIU  uint32 = 0x24000000
	DADDIU uint32 = 0x64000000
	SLTI   uint32 = 0x28000000
	SLTIU  uint32 = 0x2C000000
	ANDI   uint32 = 0x30000000
	ORI    uint32 = 0x34000000
	XORI   uint32 = 0x38000000
	LUI    uint32 = 0x3C000000
	LB     uint32 = 0x80000000
	LH     uint32 = 0x84000000
	LW     uint32 = 0x8C000000
	LBU    uint32 = 0x90000000
	LHU    uint32 = 0x94000000
	LWU    uint32 = 0x9C000000
	SB     uint32 = 0xA0000000
	SH     uint32 = 0xA4000000
	SW     uint32 = 0xAC000000
	LD     uint32 = 0xDC000000
	SD     uint32 = 0xFC000000
)

// Doubleword extract (SPECIAL3): dext rt, rs, pos, size
const DEXT uint32 = 0x7C000003

// Returns the dext word extracting size bits at pos of rs into rt
func Dext(rt, rs, pos, size uint32) uint32 {
	return DEXT | rs<<21 | rt<<16 | (size-1)<<11 | pos<<6
}

// Branches with delay slot (pre-r6)
const (
	BEQ  uint32 = 0x10000000
	BNE  uint32 = 0x14000000
	BLEZ uint32 = 0x18000000
	BGTZ uint32 = 0x1C000000
	BLTZ uint32 = 0x04000000
	BGEZ uint32 = 0x04010000
	J    uint32 = 0x08000000
)

// Compact branches (r6). The register fields select the variant within each major opcode
const (
	BC    uint32 = 0xC8000000
	BEQZC uint32 = 0xD8000000
	JIC   uint32 = 0xD8000000
	BNEZC uint32 = 0xF8000000
	BEQC  uint32 = 0x20000000
	BNEC  uint32 = 0x60000000
	BLTC  uint32 = 0x5C000000
	BGEC  uint32 = 0x58000000
	BLTUC uint32 = 0x1C000000
	BGEUC uint32 = 0x18000000
	BLTZC uint32 = 0x5C000000
	BGEZC uint32 = 0x58000000
	BLEZC uint32 = 0x58000000
	BGTZC uint32 = 0x5C000000
)

// MSA patterns (.w element size unless stated)
const (
	AND_V     uint32 = 0x7800001E
	OR_V      uint32 = 0x7820001E
	NOR_V     uint32 = 0x7840001E
	XOR_V     uint32 = 0x7860001E
	MOVE_V    uint32 = 0x78BE0019
	FILL_W    uint32 = 0x7B02001E
	LD_W      uint32 = 0x78000022
	ST_W      uint32 = 0x78000026
	ADDV_W    uint32 = 0x7840000E
	SUBV_W    uint32 = 0x78C0000E
	MULV_W    uint32 = 0x78400012
	SLL_W     uint32 = 0x7840000D
	SRA_W     uint32 = 0x78C0000D
	SRL_W     uint32 = 0x7940000D
	SLLI_W    uint32 = 0x78400009
	SRAI_W    uint32 = 0x78C00009
	SRLI_W    uint32 = 0x79400009
	CEQ_W     uint32 = 0x7840000F
	CLT_S_W   uint32 = 0x7940000F
	CLT_U_W   uint32 = 0x79C0000F
	CLE_S_W   uint32 = 0x7A40000F
	CLE_U_W   uint32 = 0x7AC0000F
	FADD_W    uint32 = 0x7800001B
	FSUB_W    uint32 = 0x7840001B
	FMUL_W    uint32 = 0x7880001B
	FDIV_W    uint32 = 0x78C0001B
	FMADD_W   uint32 = 0x7900001B
	FCEQ_W    uint32 = 0x7880001A
	FCLT_W    uint32 = 0x7900001A
	FCLE_W    uint32 = 0x7980001A
	FCNE_W    uint32 = 0x78C0001C
	FSQRT_W   uint32 = 0x7B26001E
	FRSQRT_W  uint32 = 0x7B28001E
	FRCP_W    uint32 = 0x7B2A001E
	FTRUNCS_W uint32 = 0x7B22001E
	FFINTS_W  uint32 = 0x7B3C001E
)
