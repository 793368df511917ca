package exception

import "github.com/yanun0323/errors"

// General errors
var (
	ErrNilInstance       = errors.New("nil instance")
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrUndefinedMetric   = errors.New("metric: undefined")
	ErrUnknownInstrument = errors.New("instrument: unknown")
	ErrDuplicateVenue    = errors.New("instrument: duplicate venue")
	ErrDuplicateSymbol   = errors.New("instrument: duplicate symbol")
)
