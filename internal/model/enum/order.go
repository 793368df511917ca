package enum

// OrderSide buy, sell
type OrderSide uint8

const (
	_order_side_beg OrderSide = iota
	OrderSideBuy
	OrderSideSell
	_order_side_end
)

func (s OrderSide) IsAvailable() bool {
	return s > _order_side_beg && s < _order_side_end
}

func (s OrderSide) String() string {
	switch s {
	case OrderSideBuy:
		return "BUY"
	case OrderSideSell:
		return "SELL"
	default:
		return "UNKNOWN"
	}
}

// Sign is +1 for buy and -1 for sell.
func (s OrderSide) Sign() int64 {
	switch s {
	case OrderSideBuy:
		return 1
	case OrderSideSell:
		return -1
	default:
		return 0
	}
}

func (s OrderSide) Opposite() OrderSide {
	switch s {
	case OrderSideBuy:
		return OrderSideSell
	case OrderSideSell:
		return OrderSideBuy
	default:
		return s
	}
}

func ParseOrderSide(label string) (OrderSide, bool) {
	for s := _order_side_beg + 1; s < _order_side_end; s++ {
		if s.String() == label {
			return s, true
		}
	}
	return _order_side_beg, false
}

// OrderType limit, market, stop, stop limit
type OrderType uint8

const (
	_order_type_beg OrderType = iota
	OrderTypeLimit
	OrderTypeMarket
	OrderTypeStop
	OrderTypeStopLimit
	_order_type_end
)

func (t OrderType) IsAvailable() bool {
	return t > _order_type_beg && t < _order_type_end
}

func (t OrderType) String() string {
	switch t {
	case OrderTypeLimit:
		return "LIMIT"
	case OrderTypeMarket:
		return "MARKET"
	case OrderTypeStop:
		return "STOP"
	case OrderTypeStopLimit:
		return "STOP_LIMIT"
	default:
		return "UNKNOWN"
	}
}

// HasPrice reports whether orders of this type carry a requested price.
func (t OrderType) HasPrice() bool {
	return t.IsAvailable() && t != OrderTypeMarket
}

func ParseOrderType(label string) (OrderType, bool) {
	for t := _order_type_beg + 1; t < _order_type_end; t++ {
		if t.String() == label {
			return t, true
		}
	}
	return _order_type_beg, false
}

// FillState none, partially filled, filled
type FillState uint8

const (
	_fill_state_beg FillState = iota
	FillStateNone
	FillStatePartiallyFilled
	FillStateFilled
	_fill_state_end
)

func (s FillState) IsAvailable() bool {
	return s > _fill_state_beg && s < _fill_state_end
}

func (s FillState) String() string {
	switch s {
	case FillStateNone:
		return "NONE"
	case FillStatePartiallyFilled:
		return "PARTIALLY_FILLED"
	case FillStateFilled:
		return "FILLED"
	default:
		return "UNKNOWN"
	}
}
