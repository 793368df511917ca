package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradereport/internal/model"
	"tradereport/pkg/exception"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	r := NewRegistry()
	_, err := r.AddVenue("FXCM")
	require.NoError(t, err)
	_, err = r.AddInstrument(model.NewSymbol("AUDUSD", "FXCM"), 5)
	require.NoError(t, err)
	_, err = r.AddInstrument(model.NewSymbol("USDJPY", "FXCM"), 3)
	require.NoError(t, err)
	return r
}

func TestRegistryLookup(t *testing.T) {
	r := newTestRegistry(t)

	inst, ok := r.Instrument(model.NewSymbol("USDJPY", "FXCM"))
	require.True(t, ok)
	assert.Equal(t, int32(3), inst.PricePrecision)
	venue, ok := r.Venue(inst.VenueID)
	require.True(t, ok)
	assert.Equal(t, "FXCM", venue.Name)

	_, ok = r.Instrument(model.NewSymbol("USDJPY", "IDEALPRO"))
	assert.False(t, ok)

	assert.Equal(t, 2, r.InstrumentCount())
	first, ok := r.InstrumentAt(0)
	require.True(t, ok)
	assert.Equal(t, "AUDUSD", first.Symbol.Code)
	_, ok = r.InstrumentAt(2)
	assert.False(t, ok)
}

func TestRegistryRejects(t *testing.T) {
	r := newTestRegistry(t)

	_, err := r.AddVenue("FXCM")
	require.ErrorIs(t, err, exception.ErrDuplicateVenue)
	_, err = r.AddVenue("")
	require.ErrorIs(t, err, exception.ErrInvalidArgument)
	_, err = r.AddInstrument(model.NewSymbol("AUDUSD", "FXCM"), 5)
	require.ErrorIs(t, err, exception.ErrDuplicateSymbol)
	_, err = r.AddInstrument(model.NewSymbol("EURUSD", "LMAX"), 5)
	require.ErrorIs(t, err, exception.ErrUnknownInstrument)
	_, err = r.AddInstrument(model.NewSymbol("EURUSD", "FXCM"), -1)
	require.ErrorIs(t, err, exception.ErrInvalidArgument)
}

func TestNormalizePrice(t *testing.T) {
	r := newTestRegistry(t)
	audusd := model.NewSymbol("AUDUSD", "FXCM")

	p, err := r.NormalizePrice(audusd, model.MustParsePrice("1.0001"))
	require.NoError(t, err)
	assert.Equal(t, "1.00010", p.String())
	assert.Equal(t, int32(5), p.Precision())

	_, err = r.NormalizePrice(audusd, model.MustParsePrice("1.000015"))
	require.ErrorIs(t, err, exception.ErrInvalidArgument)

	_, err = r.NormalizePrice(model.NewSymbol("EURUSD", "FXCM"), model.MustParsePrice("1.1"))
	require.ErrorIs(t, err, exception.ErrUnknownInstrument)
}
