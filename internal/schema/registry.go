package schema

import (
	"github.com/yanun0323/errors"

	"tradereport/internal/model"
	"tradereport/pkg/exception"
)

// VenueID is the numeric identifier for a venue.
type VenueID uint16

// Venue describes a trading venue or broker.
type Venue struct {
	ID   VenueID
	Name string
}

// Instrument describes a tradable symbol and the number of fractional digits
// its prices are quoted with.
type Instrument struct {
	Symbol         model.Symbol
	VenueID        VenueID
	PricePrecision int32
}

// Registry stores venue and instrument mappings.
type Registry struct {
	venues      []Venue
	instruments []Instrument
	venueByName map[string]VenueID
	bySymbol    map[model.Symbol]int
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		venueByName: make(map[string]VenueID),
		bySymbol:    make(map[model.Symbol]int),
	}
}

// AddVenue registers a new venue and returns its ID.
func (r *Registry) AddVenue(name string) (VenueID, error) {
	if name == "" {
		return 0, errors.Wrap(exception.ErrInvalidArgument, "venue name is empty")
	}
	if id, ok := r.venueByName[name]; ok {
		return id, errors.Wrapf(exception.ErrDuplicateVenue, "venue %s", name)
	}
	id := VenueID(len(r.venues) + 1)
	r.venues = append(r.venues, Venue{ID: id, Name: name})
	r.venueByName[name] = id
	return id, nil
}

// AddInstrument registers a symbol on a known venue.
func (r *Registry) AddInstrument(symbol model.Symbol, pricePrecision int32) (Instrument, error) {
	if symbol.Code == "" {
		return Instrument{}, errors.Wrap(exception.ErrInvalidArgument, "symbol code is empty")
	}
	if pricePrecision < 0 {
		return Instrument{}, errors.Wrapf(exception.ErrInvalidArgument, "symbol %s: price precision %d", symbol, pricePrecision)
	}
	venueID, ok := r.venueByName[symbol.Venue]
	if !ok {
		return Instrument{}, errors.Wrapf(exception.ErrUnknownInstrument, "symbol %s: venue not found", symbol)
	}
	if idx, ok := r.bySymbol[symbol]; ok {
		return r.instruments[idx], errors.Wrapf(exception.ErrDuplicateSymbol, "symbol %s", symbol)
	}
	inst := Instrument{Symbol: symbol, VenueID: venueID, PricePrecision: pricePrecision}
	r.bySymbol[symbol] = len(r.instruments)
	r.instruments = append(r.instruments, inst)
	return inst, nil
}

// Venue returns the venue by ID.
func (r *Registry) Venue(id VenueID) (Venue, bool) {
	if id == 0 || int(id) > len(r.venues) {
		return Venue{}, false
	}
	return r.venues[id-1], true
}

// Instrument returns the instrument of a symbol.
func (r *Registry) Instrument(symbol model.Symbol) (Instrument, bool) {
	idx, ok := r.bySymbol[symbol]
	if !ok {
		return Instrument{}, false
	}
	return r.instruments[idx], true
}

// InstrumentCount returns the number of instruments in the registry.
func (r *Registry) InstrumentCount() int {
	return len(r.instruments)
}

// InstrumentAt returns the instrument by zero-based index.
func (r *Registry) InstrumentAt(index int) (Instrument, bool) {
	if index < 0 || index >= len(r.instruments) {
		return Instrument{}, false
	}
	return r.instruments[index], true
}

// NormalizePrice rescales a price to the precision of its instrument, so
// "1.0001" on a 5-digit instrument becomes 1.00010.
func (r *Registry) NormalizePrice(symbol model.Symbol, price model.Price) (model.Price, error) {
	inst, ok := r.Instrument(symbol)
	if !ok {
		return model.Price{}, errors.Wrapf(exception.ErrUnknownInstrument, "symbol %s", symbol)
	}
	if !price.WithPrecision(inst.PricePrecision).Equal(price) {
		return model.Price{}, errors.Wrapf(exception.ErrInvalidArgument, "symbol %s: price %s finer than %d digits", symbol, price, inst.PricePrecision)
	}
	return price.WithPrecision(inst.PricePrecision), nil
}
