package codec

import (
	"encoding/binary"
	"math"
	"time"

	"github.com/yanun0323/errors"

	"tradereport/internal/model"
	"tradereport/pkg/exception"
)

// writer appends little-endian fields. Strings are prefixed with a uint16
// length; a longer string sticks ErrMalformedPayload in err.
type writer struct {
	buf []byte
	err error
}

func newWriter(dst []byte) *writer {
	return &writer{buf: dst[:0]}
}

func (w *writer) u8(v uint8) {
	w.buf = append(w.buf, v)
}

func (w *writer) u64(v uint64) {
	w.buf = binary.LittleEndian.AppendUint64(w.buf, v)
}

func (w *writer) str(s string) {
	if len(s) > math.MaxUint16 {
		if w.err == nil {
			w.err = errors.Wrapf(exception.ErrMalformedPayload, "string of %d bytes exceeds %d", len(s), math.MaxUint16)
		}
		return
	}
	w.buf = binary.LittleEndian.AppendUint16(w.buf, uint16(len(s)))
	w.buf = append(w.buf, s...)
}

// timestamp stores a presence byte and unix nanoseconds.
func (w *writer) timestamp(t time.Time) {
	if t.IsZero() {
		w.u8(0)
		return
	}
	w.u8(1)
	w.u64(uint64(t.UnixNano()))
}

func (w *writer) symbol(s model.Symbol) {
	w.str(s.Code)
	w.str(s.Venue)
}

func (w *writer) price(p model.Price) {
	w.str(p.String())
}

func (w *writer) result() ([]byte, error) {
	if w.err != nil {
		return nil, w.err
	}
	return w.buf, nil
}

// reader consumes fields written by writer. The first short read sticks in err
// and every later read returns a zero value.
type reader struct {
	src []byte
	off int
	err error
}

func newReader(src []byte) *reader {
	return &reader{src: src}
}

func (r *reader) take(n int) []byte {
	if r.err != nil {
		return nil
	}
	if len(r.src)-r.off < n {
		r.err = errors.Wrapf(exception.ErrMalformedPayload, "need %d bytes at offset %d, have %d", n, r.off, len(r.src)-r.off)
		return nil
	}
	b := r.src[r.off : r.off+n]
	r.off += n
	return b
}

func (r *reader) u8() uint8 {
	b := r.take(1)
	if b == nil {
		return 0
	}
	return b[0]
}

func (r *reader) u64() uint64 {
	b := r.take(8)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint64(b)
}

func (r *reader) str() string {
	b := r.take(2)
	if b == nil {
		return ""
	}
	n := int(binary.LittleEndian.Uint16(b))
	return string(r.take(n))
}

func (r *reader) timestamp() time.Time {
	if r.u8() == 0 {
		return time.Time{}
	}
	return time.Unix(0, int64(r.u64())).UTC()
}

func (r *reader) symbol() model.Symbol {
	code := r.str()
	venue := r.str()
	return model.NewSymbol(code, venue)
}

func (r *reader) price() model.Price {
	s := r.str()
	if r.err != nil {
		return model.Price{}
	}
	p, err := model.ParsePrice(s)
	if err != nil {
		r.err = errors.Wrapf(exception.ErrMalformedPayload, "price %q", s)
		return model.Price{}
	}
	return p
}

// done reports the sticky error, or trailing bytes left after decoding.
func (r *reader) done() error {
	if r.err != nil {
		return r.err
	}
	if r.off != len(r.src) {
		return errors.Wrapf(exception.ErrMalformedPayload, "%d trailing bytes", len(r.src)-r.off)
	}
	return nil
}
