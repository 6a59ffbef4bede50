package nrscope

import "errors"

// All engine failures are input-validation failures caught before any
// array is allocated. Each sentinel is wrapped with the field name,
// the offending value, and the valid range, and matches with errors.Is.
var (
	ErrInvalidNumerology  = errors.New("invalid numerology")
	ErrInvalidDimensions  = errors.New("invalid dimensions")
	ErrInvalidPeriod      = errors.New("invalid tdd period")
	ErrInvalidPartialSlot = errors.New("invalid partial slot")
	ErrInvalidParameter   = errors.New("invalid parameter")
)
