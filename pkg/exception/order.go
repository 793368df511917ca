package exception

import "github.com/yanun0323/errors"

var (
	ErrInconsistentFill = errors.New("order: inconsistent fill")
	ErrOrderNotFound    = errors.New("order: not found")
	ErrDuplicateOrder   = errors.New("order: duplicate id")
)
