package exception

import "github.com/yanun0323/errors"

var (
	ErrMalformedPayload = errors.New("codec: malformed payload")
	ErrCorruptRecord    = errors.New("journal: corrupt record")
	ErrUnsupportedEvent = errors.New("journal: unsupported event type")
)
