package asm

import (
	"github.com/Manu343726/rtasm/pkg/rt/operands"
	"github.com/Manu343726/rtasm/pkg/utils"
)

// Purpose a scratch register is acquired for. A register can be re-acquired for the same
// purpose within one emission but never for two different ones
type purpose string

const (
	purpose_Memory    purpose = "memory operand"
	purpose_Immediate purpose = "immediate"
	purpose_Address   purpose = "address"
	purpose_Compare   purpose = "compare"
	purpose_Flags     purpose = "flags"
	purpose_Constant  purpose = "constant"
	purpose_Product   purpose = "product"
)

type scratchKey struct {
	vector bool
	index  uint32
}

// Scratch registers held by the logical instruction being emitted. Released all at once
// when the emission finishes
type scratchScope struct {
	held map[scratchKey]purpose
}

func newScratchScope() scratchScope {
	return scratchScope{held: make(map[scratchKey]purpose)}
}

func (s *scratchScope) acquire(key scratchKey, name string, p purpose) error {
	if owner, ok := s.held[key]; ok && owner != p {
		return utils.MakeError(ErrScratchConflict, "%v held for %v, requested for %v", name, owner, p)
	}

	s.held[key] = p
	return nil
}

// Acquires a general purpose scratch register
func (s *scratchScope) register(r operands.Register, p purpose) (uint32, error) {
	return r.Index, s.acquire(scratchKey{index: r.Index}, r.Alias, p)
}

// Acquires a vector scratch register
func (s *scratchScope) vector(v operands.VectorRegister, p purpose) (operands.VectorRegister, error) {
	return v, s.acquire(scratchKey{vector: true, index: v.Index}, v.Alias, p)
}

// Returns the number of registers currently held
func (s *scratchScope) size() int {
	return len(s.held)
}

func (s *scratchScope) release() {
	clear(s.held)
}
