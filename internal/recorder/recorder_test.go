package recorder

import (
	"bytes"
	"context"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradereport/internal/schema"
	"tradereport/pkg/exception"
)

type replayed struct {
	header  schema.EventHeader
	payload []byte
}

func collect(t *testing.T, cfg PlaybackConfig) ([]replayed, error) {
	t.Helper()
	pb, err := NewPlayback(cfg)
	require.NoError(t, err)

	var out []replayed
	n, err := pb.Run(context.Background(), func(h schema.EventHeader, payload []byte) error {
		out = append(out, replayed{header: h, payload: append([]byte(nil), payload...)})
		return nil
	})
	assert.Equal(t, len(out), n)
	return out, err
}

func TestWriteAndReplay(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(Config{Dir: dir, SegmentMaxBytes: 128})
	require.NoError(t, err)

	for seq := uint64(1); seq <= 10; seq++ {
		h := schema.NewHeader(schema.EventOrderFilled, seq, int64(seq)*1000, 0)
		require.NoError(t, w.Append(h, bytes.Repeat([]byte{byte(seq)}, 30)))
	}
	require.NoError(t, w.Close())
	require.ErrorIs(t, w.Append(schema.EventHeader{}, nil), ErrClosed)

	files, err := segmentFiles(dir, defaultFilePrefix)
	require.NoError(t, err)
	assert.Greater(t, len(files), 1, "segments rotate by size")

	out, err := collect(t, PlaybackConfig{Dir: dir})
	require.NoError(t, err)
	require.Len(t, out, 10)
	for i, r := range out {
		seq := uint64(i + 1)
		assert.Equal(t, seq, r.header.Seq)
		assert.Equal(t, schema.EventOrderFilled, r.header.Type)
		assert.Equal(t, schema.SchemaVersion, r.header.Version)
		assert.Equal(t, int64(seq)*1000, r.header.TsEvent)
		assert.Equal(t, bytes.Repeat([]byte{byte(seq)}, 30), r.payload)
	}
}

func TestWriterContinuesNumbering(t *testing.T) {
	dir := t.TempDir()
	for run := uint64(1); run <= 2; run++ {
		w, err := NewWriter(DefaultConfig(dir))
		require.NoError(t, err)
		require.NoError(t, w.Append(schema.NewHeader(schema.EventPositionFill, run, 0, 0), []byte{1}))
		require.NoError(t, w.Close())
	}

	out, err := collect(t, PlaybackConfig{Dir: dir})
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, uint64(1), out[0].header.Seq)
	assert.Equal(t, uint64(2), out[1].header.Seq)
}

func TestReplayDetectsCorruption(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(DefaultConfig(dir))
	require.NoError(t, err)
	require.NoError(t, w.Append(schema.NewHeader(schema.EventOrderFilled, 1, 0, 0), []byte("payload")))
	require.NoError(t, w.Close())

	path := filepath.Join(dir, segmentName(defaultFilePrefix, 1))
	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	flipped := append([]byte(nil), raw...)
	flipped[recordHeaderSize] ^= 0xff
	require.NoError(t, os.WriteFile(path, flipped, 0o644))
	_, err = collect(t, PlaybackConfig{Dir: dir})
	require.ErrorIs(t, err, exception.ErrCorruptRecord)

	_, err = collect(t, PlaybackConfig{Dir: dir, DisableChecksum: true})
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, raw[:len(raw)-2], 0o644))
	_, err = collect(t, PlaybackConfig{Dir: dir})
	require.ErrorIs(t, err, exception.ErrCorruptRecord)
}

func TestReplayEmptyDir(t *testing.T) {
	out, err := collect(t, PlaybackConfig{Dir: filepath.Join(t.TempDir(), "missing")})
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestConfigValidate(t *testing.T) {
	_, err := NewWriter(Config{})
	require.ErrorIs(t, err, exception.ErrInvalidArgument)
	_, err = NewPlayback(PlaybackConfig{})
	require.ErrorIs(t, err, exception.ErrInvalidArgument)
}

func TestReplayBoundsPayloadLength(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(DefaultConfig(dir))
	require.NoError(t, err)
	require.ErrorIs(t, w.Append(schema.NewHeader(schema.EventOrderFilled, 1, 0, 0), make([]byte, maxPayloadLen+1)), ErrPayloadTooLarge)
	require.NoError(t, w.Append(schema.NewHeader(schema.EventOrderFilled, 1, 0, 0), []byte("payload")))
	require.NoError(t, w.Close())

	pb, err := NewPlayback(PlaybackConfig{Dir: dir})
	require.NoError(t, err)
	assert.Equal(t, maxPayloadLen, pb.cfg.MaxPayloadSize)

	path := filepath.Join(dir, segmentName(defaultFilePrefix, 1))
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	// length field claims 4 GiB behind an intact magic
	binary.LittleEndian.PutUint32(raw[12:16], ^uint32(0))
	require.NoError(t, os.WriteFile(path, raw, 0o644))

	_, err = collect(t, PlaybackConfig{Dir: dir})
	require.ErrorIs(t, err, exception.ErrCorruptRecord)

	_, _, err = NewReader(bytes.NewReader(raw), ReaderOptions{}).Next()
	require.ErrorIs(t, err, exception.ErrCorruptRecord)
}
