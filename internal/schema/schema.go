package schema

// SchemaVersion is the current journal event schema version.
const SchemaVersion uint16 = 1

// EventType defines the category of an event stored in the journal.
type EventType uint16

const (
	EventUnknown EventType = iota
	EventOrderAccepted
	EventOrderFilled
	EventPositionFill
)

// MaxEventType is the largest known event type.
const MaxEventType = EventPositionFill

func (t EventType) String() string {
	switch t {
	case EventOrderAccepted:
		return "OrderAccepted"
	case EventOrderFilled:
		return "OrderFilled"
	case EventPositionFill:
		return "PositionFill"
	default:
		return "Unknown"
	}
}

// EventHeader is the common metadata attached to every event.
type EventHeader struct {
	Type    EventType
	Version uint16
	Seq     uint64
	TsEvent int64
	TsRecv  int64
}

// NewHeader builds a header with the current schema version.
func NewHeader(eventType EventType, seq uint64, tsEvent, tsRecv int64) EventHeader {
	return EventHeader{
		Type:    eventType,
		Version: SchemaVersion,
		Seq:     seq,
		TsEvent: tsEvent,
		TsRecv:  tsRecv,
	}
}
