package xmodule

import "errors"

var (
	ErrUnknownDispatch      = errors.New("unknown dispatch")
	ErrUnknownCategory      = errors.New("unknown module category")
	ErrNotFound             = errors.New("module not found")
	ErrBadRequest           = errors.New("bad request")
	ErrNoCondition          = errors.New("conditional has no condition attribute")
	ErrUnsupportedCondition = errors.New("required module does not expose condition")
	ErrCycle                = errors.New("content tree has a cycle")
)
