package ops

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradereport/internal/model"
	"tradereport/pkg/exception"
)

const sampleConfig = `{
	"registry": {
		"venues": [{"name": "FXCM"}],
		"symbols": [
			{"name": "AUDUSD", "venue": "FXCM", "pricePrecision": 5},
			{"name": "USDJPY", "venue": "FXCM", "pricePrecision": 3}
		]
	},
	"journal": {"dir": "/tmp/journal", "segmentMaxBytes": 4096},
	"ledger": {"stopOnError": true}
}`

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleConfig), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	inst, ok := cfg.Registry.Instrument(model.NewSymbol("USDJPY", "FXCM"))
	require.True(t, ok)
	assert.Equal(t, int32(3), inst.PricePrecision)
	assert.Equal(t, 2, cfg.Registry.InstrumentCount())

	assert.Equal(t, "/tmp/journal", cfg.Journal.Dir)
	assert.Equal(t, int64(4096), cfg.Journal.SegmentMaxBytes)
	assert.Equal(t, "/tmp/journal", cfg.Playback().Dir)
	assert.True(t, cfg.Ledger.StopOnError)
	assert.Equal(t, defaultQueueSize, cfg.Ledger.QueueSize)
}

func TestParseRejects(t *testing.T) {
	cases := map[string]string{
		"malformed":     `{"registry": `,
		"unknown venue": `{"registry": {"symbols": [{"name": "AUDUSD", "venue": "FXCM", "pricePrecision": 5}]}}`,
		"negative":      `{"registry": {"venues": [{"name": "FXCM"}], "symbols": [{"name": "AUDUSD", "venue": "FXCM", "pricePrecision": -1}]}}`,
		"journal":       `{"journal": {"dir": "/tmp/journal", "segmentMaxBytes": -1}}`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			require.Error(t, err)
		})
	}

	_, err := Parse([]byte(`{"registry": {"venues": [{"name": "FXCM"}, {"name": "FXCM"}]}}`))
	require.ErrorIs(t, err, exception.ErrDuplicateVenue)
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("POSTGRES_HOST", "db.internal")
	t.Setenv("POSTGRES_USER", "report")
	t.Setenv("POSTGRES_PORT", "6543")

	cfg, err := LoadEnv(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	opt := cfg.Postgres.Option()
	assert.Equal(t, "db.internal", opt.Host)
	assert.Equal(t, 6543, opt.Port)
	assert.Equal(t, "report", opt.User)
	assert.Equal(t, "tradereport", opt.Database)
	assert.Equal(t, "disable", opt.SSLMode)
}

func TestLoadEnvDotenvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("POSTGRES_DATABASE=fills_test\n"), 0o644))
	t.Cleanup(func() { _ = os.Unsetenv("POSTGRES_DATABASE") })

	cfg, err := LoadEnv(path)
	require.NoError(t, err)
	assert.Equal(t, "fills_test", cfg.Postgres.Database)
}
