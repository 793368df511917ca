package recorder

import (
	"bufio"
	"encoding/binary"
	"io"

	"github.com/yanun0323/errors"

	"tradereport/internal/schema"
	"tradereport/pkg/exception"
)

// ReaderOptions controls record decoding.
type ReaderOptions struct {
	DisableChecksum bool
	MaxPayloadSize  int
}

// Reader decodes journal records sequentially.
type Reader struct {
	r         *bufio.Reader
	opts      ReaderOptions
	headerBuf []byte
	payload   []byte
}

// NewReader wraps an io.Reader with journal decoding.
func NewReader(r io.Reader, opts ReaderOptions) *Reader {
	return &Reader{
		r:         bufio.NewReader(r),
		opts:      opts,
		headerBuf: make([]byte, recordHeaderSize),
	}
}

// Next returns the next record header and payload. It returns io.EOF at a
// clean record boundary. The payload is only valid until the next call.
func (r *Reader) Next() (schema.EventHeader, []byte, error) {
	var header schema.EventHeader

	n, err := io.ReadFull(r.r, r.headerBuf)
	if err != nil {
		if err == io.EOF && n == 0 {
			return header, nil, io.EOF
		}
		return header, nil, errors.Wrapf(exception.ErrCorruptRecord, "short header, err: %+v", err)
	}

	header, payloadLen, err := decodeRecordHeader(r.headerBuf)
	if err != nil {
		return header, nil, err
	}
	limit := maxPayloadLen
	if r.opts.MaxPayloadSize > 0 {
		limit = r.opts.MaxPayloadSize
	}
	if uint64(payloadLen) > uint64(limit) {
		return header, nil, errors.Wrapf(exception.ErrCorruptRecord, "payload %d exceeds %d", payloadLen, limit)
	}

	if cap(r.payload) < int(payloadLen) {
		r.payload = make([]byte, payloadLen)
	}
	r.payload = r.payload[:payloadLen]
	if _, err := io.ReadFull(r.r, r.payload); err != nil {
		return header, nil, errors.Wrapf(exception.ErrCorruptRecord, "short payload seq %d, err: %+v", header.Seq, err)
	}

	var checksumBuf [recordChecksumSize]byte
	if _, err := io.ReadFull(r.r, checksumBuf[:]); err != nil {
		return header, nil, errors.Wrapf(exception.ErrCorruptRecord, "short checksum seq %d, err: %+v", header.Seq, err)
	}

	if !r.opts.DisableChecksum {
		expected := binary.LittleEndian.Uint32(checksumBuf[:])
		if sum := checksum(r.headerBuf, r.payload); sum != expected {
			return header, nil, errors.Wrapf(exception.ErrCorruptRecord, "checksum mismatch seq %d", header.Seq)
		}
	}

	return header, r.payload, nil
}
