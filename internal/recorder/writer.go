package recorder

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/yanun0323/errors"

	"tradereport/internal/schema"
)

var (
	ErrClosed          = errors.New("journal writer closed")
	ErrPayloadTooLarge = errors.New("journal payload too large")
)

// Writer appends events to size-rotated journal segments. Append is safe for
// concurrent use; records land in the order Append acquires the lock.
type Writer struct {
	mu     sync.Mutex
	cfg    Config
	seg    *segmentWriter
	segID  uint64
	closed bool

	headerBuf   []byte
	checksumBuf [recordChecksumSize]byte
}

// NewWriter creates a journal writer and ensures the target directory exists.
// Numbering continues after any segments already present in the directory.
func NewWriter(cfg Config) (*Writer, error) {
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "create journal dir %s", cfg.Dir)
	}
	files, err := segmentFiles(cfg.Dir, cfg.FilePrefix)
	if err != nil {
		return nil, err
	}
	return &Writer{
		cfg:       cfg,
		segID:     uint64(len(files)),
		headerBuf: make([]byte, recordHeaderSize),
	}, nil
}

// Append writes one record. A zero header version is stamped with the current
// schema version.
func (w *Writer) Append(header schema.EventHeader, payload []byte) error {
	if len(payload) > maxPayloadLen {
		return errors.Wrapf(ErrPayloadTooLarge, "%d bytes exceeds %d", len(payload), maxPayloadLen)
	}
	if header.Version == 0 {
		header.Version = schema.SchemaVersion
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrClosed
	}

	recordSize := int64(recordHeaderSize + len(payload) + recordChecksumSize)
	if w.shouldRotate(recordSize) {
		if err := w.closeSegment(); err != nil {
			return err
		}
		if err := w.openSegment(); err != nil {
			return err
		}
	}

	encodeHeader(w.headerBuf, header, len(payload))
	binary.LittleEndian.PutUint32(w.checksumBuf[:], checksum(w.headerBuf, payload))

	if _, err := w.seg.buf.Write(w.headerBuf); err != nil {
		return errors.Wrap(err, "write record header")
	}
	if _, err := w.seg.buf.Write(payload); err != nil {
		return errors.Wrap(err, "write record payload")
	}
	if _, err := w.seg.buf.Write(w.checksumBuf[:]); err != nil {
		return errors.Wrap(err, "write record checksum")
	}
	w.seg.size += recordSize
	return nil
}

// Flush pushes buffered records to the segment file.
func (w *Writer) Flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.seg == nil {
		return nil
	}
	if err := w.seg.buf.Flush(); err != nil {
		return errors.Wrap(err, "flush segment")
	}
	if w.cfg.SyncOnFlush {
		return w.seg.file.Sync()
	}
	return nil
}

// Close flushes and closes the current segment. Later appends fail with ErrClosed.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true
	return w.closeSegment()
}

func (w *Writer) shouldRotate(nextSize int64) bool {
	if w.seg == nil {
		return true
	}
	// an oversized record still gets a segment of its own
	return w.seg.size > 0 && w.seg.size+nextSize > w.cfg.SegmentMaxBytes
}

func (w *Writer) closeSegment() error {
	seg := w.seg
	if seg == nil {
		return nil
	}
	w.seg = nil
	if err := seg.buf.Flush(); err != nil {
		_ = seg.file.Close()
		return errors.Wrap(err, "flush segment")
	}
	if err := seg.file.Sync(); err != nil {
		_ = seg.file.Close()
		return errors.Wrap(err, "sync segment")
	}
	return seg.file.Close()
}

func (w *Writer) openSegment() error {
	for {
		w.segID++
		path := filepath.Join(w.cfg.Dir, segmentName(w.cfg.FilePrefix, w.segID))
		file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o644)
		if err != nil {
			if os.IsExist(err) {
				continue
			}
			return errors.Wrapf(err, "open segment %s", path)
		}
		w.seg = &segmentWriter{
			file: file,
			buf:  bufio.NewWriterSize(file, w.cfg.BufferSize),
		}
		return nil
	}
}

func segmentName(prefix string, id uint64) string {
	return fmt.Sprintf("%s-%06d%s", prefix, id, segmentSuffix)
}

type segmentWriter struct {
	file *os.File
	buf  *bufio.Writer
	size int64
}
