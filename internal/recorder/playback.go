package recorder

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/yanun0323/errors"

	"tradereport/internal/schema"
	"tradereport/pkg/exception"
)

// PlaybackConfig controls journal playback behavior.
type PlaybackConfig struct {
	Dir             string `json:"dir"`
	FilePrefix      string `json:"filePrefix"`
	DisableChecksum bool   `json:"disableChecksum"`
	MaxPayloadSize  int    `json:"maxPayloadSize"`
}

// Handler receives one replayed record. The payload is only valid during the call.
type Handler func(header schema.EventHeader, payload []byte) error

// Playback replays journal records in segment order.
type Playback struct {
	cfg PlaybackConfig
}

// NewPlayback validates the config and creates a playback engine.
func NewPlayback(cfg PlaybackConfig) (*Playback, error) {
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Playback{cfg: cfg}, nil
}

func (c PlaybackConfig) withDefaults() PlaybackConfig {
	if c.FilePrefix == "" {
		c.FilePrefix = defaultFilePrefix
	}
	if c.MaxPayloadSize == 0 {
		c.MaxPayloadSize = maxPayloadLen
	}
	return c
}

// Validate checks if the config is usable.
func (c PlaybackConfig) Validate() error {
	if c.Dir == "" {
		return errors.Wrap(exception.ErrInvalidArgument, "playback config: Dir is empty")
	}
	if c.MaxPayloadSize < 0 {
		return errors.Wrap(exception.ErrInvalidArgument, "playback config: MaxPayloadSize must be >= 0")
	}
	return nil
}

// Run replays every record and stops at the first handler error.
// It returns the number of records handed to the handler.
func (p *Playback) Run(ctx context.Context, handler Handler) (int, error) {
	if handler == nil {
		return 0, errors.Wrap(exception.ErrNilInstance, "playback handler")
	}
	files, err := segmentFiles(p.cfg.Dir, p.cfg.FilePrefix)
	if err != nil {
		return 0, err
	}

	var count int
	for _, path := range files {
		n, err := p.playFile(ctx, path, handler)
		count += n
		if err != nil {
			return count, err
		}
	}
	return count, nil
}

func (p *Playback) playFile(ctx context.Context, path string, handler Handler) (int, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, errors.Wrapf(err, "open segment %s", path)
	}
	defer file.Close()

	reader := NewReader(file, ReaderOptions{
		DisableChecksum: p.cfg.DisableChecksum,
		MaxPayloadSize:  p.cfg.MaxPayloadSize,
	})

	var count int
	for {
		select {
		case <-ctx.Done():
			return count, ctx.Err()
		default:
		}

		header, payload, err := reader.Next()
		if err != nil {
			if err == io.EOF {
				return count, nil
			}
			return count, errors.Wrapf(err, "read %s", filepath.Base(path))
		}
		if err := handler(header, payload); err != nil {
			return count, err
		}
		count++
	}
}

// segmentFiles lists journal segments of prefix in dir, oldest first.
// A missing dir holds no segments.
func segmentFiles(dir, prefix string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "read journal dir %s", dir)
	}
	prefix += "-"
	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, segmentSuffix) {
			continue
		}
		files = append(files, filepath.Join(dir, name))
	}
	sort.Strings(files)
	return files, nil
}
