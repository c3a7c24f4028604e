package asm

import "errors"

var (
	ErrInvalidMnemonic   = errors.New("invalid mnemonic")
	ErrUnsupportedShape  = errors.New("unsupported operand shape")
	ErrUnsupportedWidth  = errors.New("operand width not available on target")
	ErrForbiddenOperand  = errors.New("forbidden operand")
	ErrInvalidCondition  = errors.New("invalid condition")
	ErrScratchConflict   = errors.New("scratch register already in use")
	ErrNestedEmission    = errors.New("nested instruction emission")
	ErrUnboundLabel      = errors.New("unbound label")
	ErrLabelRebound      = errors.New("label already bound")
	ErrBranchOutOfRange  = errors.New("branch offset out of range")
	ErrIncompleteTable   = errors.New("incomplete condition table")
	ErrInconsistentTable = errors.New("inconsistent condition table")
)
