package model

import (
	"github.com/shopspring/decimal"
	"github.com/yanun0323/errors"

	"tradereport/pkg/exception"
)

// Price is a fixed-point decimal carrying the number of fractional digits
// quoted by its instrument.
type Price struct {
	value     decimal.Decimal
	precision int32
}

// NewPrice rounds value to precision fractional digits.
func NewPrice(value decimal.Decimal, precision int32) Price {
	if precision < 0 {
		precision = 0
	}
	return Price{value: value.Round(precision), precision: precision}
}

// ParsePrice parses a decimal string and keeps its fractional digits,
// so "0.80010" has precision 5.
func ParsePrice(s string) (Price, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Price{}, errors.Wrapf(exception.ErrInvalidArgument, "parse price %q, err: %+v", s, err)
	}
	if d.Sign() < 0 {
		return Price{}, errors.Wrapf(exception.ErrInvalidArgument, "negative price %q", s)
	}
	var precision int32
	if exp := d.Exponent(); exp < 0 {
		precision = -exp
	}
	return Price{value: d, precision: precision}, nil
}

// MustParsePrice is ParsePrice for literals. It panics on malformed input.
func MustParsePrice(s string) Price {
	p, err := ParsePrice(s)
	if err != nil {
		panic(err)
	}
	return p
}

func (p Price) Decimal() decimal.Decimal {
	return p.value
}

func (p Price) Precision() int32 {
	return p.precision
}

// WithPrecision rescales the price. Digits beyond the new precision are rounded.
func (p Price) WithPrecision(precision int32) Price {
	return NewPrice(p.value, precision)
}

func (p Price) Equal(other Price) bool {
	return p.value.Equal(other.value)
}

func (p Price) IsZero() bool {
	return p.value.IsZero()
}

func (p Price) String() string {
	return p.value.StringFixed(p.precision)
}

// Quantity is a non-negative unit count.
type Quantity uint64

func (q Quantity) Decimal() decimal.Decimal {
	return decimal.NewFromUint64(uint64(q))
}
