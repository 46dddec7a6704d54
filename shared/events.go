package shared

// EventType identifies a control-block lifecycle transition.
type EventType uint8

const (
	// EventCreated fires when a block comes into existence (strong=1).
	EventCreated EventType = iota
	// EventTeardown fires when the strong count reaches zero and the
	// payload has just been destroyed.
	EventTeardown
	// EventFreed fires when both counters have reached zero and the block
	// has released its remaining references. Terminal.
	EventFreed
)

func (t EventType) String() string {
	switch t {
	case EventCreated:
		return "created"
	case EventTeardown:
		return "teardown"
	case EventFreed:
		return "freed"
	default:
		return "unknown"
	}
}

// Event describes a control-block lifecycle transition.
type Event struct {
	Label  string
	ID     uint64
	Strong uint32
	Weak   uint32
	Type   EventType
}

// Observer receives notifications about control-block lifecycle events.
// Attached per block at construction time via WithObserver.
type Observer interface {
	OnBlockEvent(Event)
}

// Option configures a control block at construction time.
type Option func(*counters)

// WithObserver attaches a lifecycle observer to the new block.
func WithObserver(o Observer) Option {
	return func(c *counters) {
		c.obs = o
	}
}

// WithLabel names the new block in lifecycle events and leak reports.
func WithLabel(label string) Option {
	return func(c *counters) {
		c.label = label
	}
}
