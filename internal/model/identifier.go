package model

import "github.com/google/uuid"

// OrderID identifies an order.
type OrderID string

func (id OrderID) String() string { return string(id) }

// PositionID identifies a position.
type PositionID string

func (id PositionID) String() string { return string(id) }

// ExecutionID is the venue identifier of a single execution.
type ExecutionID string

func (id ExecutionID) String() string { return string(id) }

// ExecutionTicket is the venue ticket attached to an execution.
type ExecutionTicket string

func (t ExecutionTicket) String() string { return string(t) }

// AccountID is passed through fill events and only compared for equality.
type AccountID string

func (id AccountID) String() string { return string(id) }

// EventID identifies an event instance.
type EventID string

func (id EventID) String() string { return string(id) }

// NewEventID returns a random event id.
func NewEventID() EventID {
	return EventID(uuid.NewString())
}

// EventIDFor derives a stable event id from name, so regenerated events keep
// their ids.
func EventIDFor(name string) EventID {
	return EventID(uuid.NewSHA1(uuid.NameSpaceOID, []byte(name)).String())
}

// Symbol is an instrument code listed on a venue.
type Symbol struct {
	Code  string
	Venue string
}

func NewSymbol(code, venue string) Symbol {
	return Symbol{Code: code, Venue: venue}
}

func (s Symbol) IsZero() bool {
	return s.Code == "" && s.Venue == ""
}

// String returns CODE.VENUE.
func (s Symbol) String() string {
	if s.Venue == "" {
		return s.Code
	}
	return s.Code + "." + s.Venue
}
