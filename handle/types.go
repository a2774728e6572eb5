package handle

// Handle is an opaque reference to an object in a Table.
// Handle 0 is reserved and always invalid.
type Handle uint32

const (
	// Invalid is never issued by a Table.
	Invalid Handle = 0

	// ReservedBase is the first value of the pseudo-handle range. Predefined
	// registry roots and INVALID_HANDLE_VALUE live here, so allocation stops
	// below it.
	ReservedBase Handle = 0x80000000

	// InvalidHandleValue mirrors INVALID_HANDLE_VALUE as seen by a 32-bit guest.
	InvalidHandleValue Handle = 0xFFFFFFFF
)

// ObjectType identifies the kind of object stored behind a handle.
type ObjectType uint8

const (
	ObjectRegistryKey ObjectType = iota + 1
	ObjectCriticalSection
	ObjectMutex
	ObjectEvent
	ObjectFindSearch
	ObjectFile
	ObjectSubsystem
	ObjectGameEngine
)

func (t ObjectType) String() string {
	switch t {
	case ObjectRegistryKey:
		return "registry-key"
	case ObjectCriticalSection:
		return "critical-section"
	case ObjectMutex:
		return "mutex"
	case ObjectEvent:
		return "event"
	case ObjectFindSearch:
		return "find-search"
	case ObjectFile:
		return "file"
	case ObjectSubsystem:
		return "subsystem"
	case ObjectGameEngine:
		return "game-engine"
	default:
		return "unknown"
	}
}

// Object is the capability every value stored in a Table implements.
type Object interface {
	ObjectType() ObjectType
}

// Dropper is optionally implemented by objects that need cleanup on close.
type Dropper interface {
	Drop()
}

// EventType distinguishes handle lifecycle notifications.
type EventType uint8

const (
	EventOpened EventType = iota
	EventClosed
)

// Event represents a handle lifecycle event.
type Event struct {
	Object Object
	Handle Handle
	Type   EventType
}

// Observer receives notifications about handle lifecycle events.
type Observer interface {
	OnHandleEvent(Event)
}
