package exception

import "github.com/yanun0323/errors"

var (
	ErrInvalidFillSequence = errors.New("position: invalid fill sequence")
	ErrPositionNotFound    = errors.New("position: not found")
)
