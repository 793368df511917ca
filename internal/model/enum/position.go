package enum

// PositionSide is the net exposure direction of a position: buy (long), sell (short)
type PositionSide uint8

const (
	_position_side_beg PositionSide = iota
	PositionSideBuy
	PositionSideSell
	_position_side_end
)

func (s PositionSide) IsAvailable() bool {
	return s > _position_side_beg && s < _position_side_end
}

func (s PositionSide) String() string {
	switch s {
	case PositionSideBuy:
		return "BUY"
	case PositionSideSell:
		return "SELL"
	default:
		return "UNKNOWN"
	}
}

// Sign is +1 for buy and -1 for sell.
func (s PositionSide) Sign() int64 {
	switch s {
	case PositionSideBuy:
		return 1
	case PositionSideSell:
		return -1
	default:
		return 0
	}
}

// EntrySide is the order side that increases exposure in this direction.
func (s PositionSide) EntrySide() OrderSide {
	switch s {
	case PositionSideBuy:
		return OrderSideBuy
	case PositionSideSell:
		return OrderSideSell
	default:
		return _order_side_beg
	}
}

// PositionSideOf returns the direction opened by an entry fill on side.
func PositionSideOf(side OrderSide) PositionSide {
	switch side {
	case OrderSideBuy:
		return PositionSideBuy
	case OrderSideSell:
		return PositionSideSell
	default:
		return _position_side_beg
	}
}

// PositionState open, closed
type PositionState uint8

const (
	_position_state_beg PositionState = iota
	PositionStateOpen
	PositionStateClosed
	_position_state_end
)

func (s PositionState) IsAvailable() bool {
	return s > _position_state_beg && s < _position_state_end
}

func (s PositionState) String() string {
	switch s {
	case PositionStateOpen:
		return "OPEN"
	case PositionStateClosed:
		return "CLOSED"
	default:
		return "UNKNOWN"
	}
}

// FillKind entry, exit
type FillKind uint8

const (
	_fill_kind_beg FillKind = iota
	FillKindEntry
	FillKindExit
	_fill_kind_end
)

func (k FillKind) IsAvailable() bool {
	return k > _fill_kind_beg && k < _fill_kind_end
}

func (k FillKind) String() string {
	switch k {
	case FillKindEntry:
		return "ENTRY"
	case FillKindExit:
		return "EXIT"
	default:
		return "UNKNOWN"
	}
}

func ParseFillKind(label string) (FillKind, bool) {
	for k := _fill_kind_beg + 1; k < _fill_kind_end; k++ {
		if k.String() == label {
			return k, true
		}
	}
	return _fill_kind_beg, false
}
