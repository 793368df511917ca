package state

import (
	"context"

	"github.com/yanun0323/logs"

	"tradereport/internal/recorder"
	"tradereport/internal/schema"
)

// RecoverResult describes a journal replay.
type RecoverResult struct {
	Replayed int
	Skipped  int
	LastSeq  uint64
}

// Recover builds a ledger by replaying the journal in pb. Replayed events
// are not journaled again, so opts may carry the writer for new events.
// Corrupt records always abort; rejected events abort only with StopOnError.
func Recover(ctx context.Context, cfg Config, pb recorder.PlaybackConfig, opts ...Option) (*Ledger, RecoverResult, error) {
	playback, err := recorder.NewPlayback(pb)
	if err != nil {
		return nil, RecoverResult{}, err
	}

	l := New(cfg, opts...)
	var skipped int
	n, err := playback.Run(ctx, func(header schema.EventHeader, payload []byte) error {
		l.mu.Lock()
		err := l.dispatch(header, payload)
		l.mu.Unlock()
		if err == nil {
			return nil
		}
		l.seq.Observe(header.Seq)
		if cfg.StopOnError {
			return err
		}
		logs.Errorf("recover: skip %s seq %d, err: %+v", header.Type, header.Seq, err)
		skipped++
		return nil
	})
	result := RecoverResult{
		Replayed: n - skipped,
		Skipped:  skipped,
		LastSeq:  l.LastSeq(),
	}
	if err != nil {
		return nil, result, err
	}
	logs.Infof("recover: replayed %d events, skipped %d, last seq %d", result.Replayed, result.Skipped, result.LastSeq)
	return l, result, nil
}
