package config

import (
	"errors"
	"fmt"

	"github.com/Manu343726/rtasm/pkg/utils"
)

// Target MIPS instruction set architecture
type ISA uint

const (
	// 32 bit MIPS. 64 bit (z) operations are not available
	ISA_MIPS32 ISA = iota
	// 64 bit MIPS. Enables the 64 bit (z) register subset
	ISA_MIPS64
)

func (isa ISA) String() string {
	switch isa {
	case ISA_MIPS32:
		return "mips32"
	case ISA_MIPS64:
		return "mips64"
	}

	panic("unreachable")
}

// Parses an ISA name ("mips32", "mips64")
func ParseISA(name string) (ISA, error) {
	switch name {
	case "mips32", "m32":
		return ISA_MIPS32, nil
	case "mips64", "m64":
		return ISA_MIPS64, nil
	}

	return 0, utils.MakeError(ErrInvalidConfig, "unknown isa '%v'", name)
}

// Policy applied to approximated SIMD operations (reciprocal, reciprocal square root, fused multiply-add)
type Compat uint

const (
	// Use the native (possibly approximated) MSA instruction
	Compat_Native Compat = iota
	// Emit a full precision sequence instead of the native instruction
	Compat_FullPrecision
)

func (c Compat) String() string {
	switch c {
	case Compat_Native:
		return "native"
	case Compat_FullPrecision:
		return "full"
	}

	panic("unreachable")
}

// Parses a compat policy name ("native", "full")
func ParseCompat(name string) (Compat, error) {
	switch name {
	case "native", "":
		return Compat_Native, nil
	case "full":
		return Compat_FullPrecision, nil
	}

	return 0, utils.MakeError(ErrInvalidConfig, "unknown compat policy '%v'", name)
}

// SIMD backend settings
type SIMD struct {
	// Number of 128 bit lanes per logical vector register: 1 (128 bit) or 2 (256 bit register pairs)
	Lanes int `yaml:"lanes" mapstructure:"lanes"`
	// Fused multiply-add policy
	FMA Compat `yaml:"fma" mapstructure:"fma"`
	// Reciprocal policy
	RCP Compat `yaml:"rcp" mapstructure:"rcp"`
	// Reciprocal square root policy
	RSQ Compat `yaml:"rsq" mapstructure:"rsq"`
}

// Target configuration of the assembler. Selected once, before any instruction is emitted
type Config struct {
	// ISA revision: 5 (classic, branch delay slots) or 6 (compact branches, fused mul/div/mod)
	Revision int `yaml:"revision" mapstructure:"revision"`
	// Target instruction set
	ISA ISA `yaml:"isa" mapstructure:"isa"`
	// Pointer width in bits (32 or 64). Address arithmetic uses this width
	PointerWidth int `yaml:"pointer_width" mapstructure:"pointer_width"`
	// SIMD settings
	SIMD SIMD `yaml:"simd" mapstructure:"simd"`
	// Big endian target
	BigEndian bool `yaml:"big_endian" mapstructure:"big_endian"`
}

var ErrInvalidConfig = errors.New("invalid configuration")

// Returns the default configuration: r6 MIPS64 with 64 bit pointers and 128 bit SIMD
func Default() Config {
	return Config{
		Revision:     6,
		ISA:          ISA_MIPS64,
		PointerWidth: 64,
		SIMD: SIMD{
			Lanes: 1,
		},
	}
}

// Checks the configuration is consistent
func (c *Config) Validate() error {
	if c.Revision != 5 && c.Revision != 6 {
		return utils.MakeError(ErrInvalidConfig, "revision must be 5 or 6, got %v", c.Revision)
	}

	if c.PointerWidth != 32 && c.PointerWidth != 64 {
		return utils.MakeError(ErrInvalidConfig, "pointer width must be 32 or 64, got %v", c.PointerWidth)
	}

	if c.PointerWidth == 64 && c.ISA == ISA_MIPS32 {
		return utils.MakeError(ErrInvalidConfig, "64 bit pointers require a mips64 target")
	}

	if c.SIMD.Lanes != 1 && c.SIMD.Lanes != 2 {
		return utils.MakeError(ErrInvalidConfig, "simd lanes must be 1 (128 bit) or 2 (256 bit), got %v", c.SIMD.Lanes)
	}

	return nil
}

// Returns true if the target is revision 6 or later
func (c *Config) IsR6() bool {
	return c.Revision >= 6
}

// Returns true if 64 bit (z) operations can be encoded
func (c *Config) Has64() bool {
	return c.ISA == ISA_MIPS64
}

// Size in bytes of a pointer
func (c *Config) PointerBytes() int {
	return c.PointerWidth / 8
}

func (c Config) String() string {
	return fmt.Sprintf("%v r%v ptr%v simd%v", c.ISA, c.Revision, c.PointerWidth, c.SIMD.Lanes*128)
}
