package trace

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/Quizert/refs/shared"
)

// State classifies a tracked block.
type State uint8

const (
	// StateLive means the payload is still owned (strong > 0).
	StateLive State = iota
	// StateExpiring means the payload is gone but weak observers keep the
	// block around.
	StateExpiring
)

func (s State) String() string {
	switch s {
	case StateLive:
		return "live"
	case StateExpiring:
		return "expiring"
	default:
		return "unknown"
	}
}

// BlockInfo is a registry snapshot of one tracked block. Counts are as of
// the block's last lifecycle transition; intermediate clones do not emit
// events.
type BlockInfo struct {
	Label  string
	ID     uint64
	Strong uint32
	Weak   uint32
	State  State
}

// Registry tracks every control block it observes from creation to
// retirement. Whatever it still holds is, by definition, not yet freed:
// Report at the end of a scope is a leak report.
//
// The registry is an Observer; attach it at construction time:
//
//	reg := trace.NewRegistry()
//	s := shared.New(v, shared.WithObserver(reg), shared.WithLabel("conn"))
//
// Unlike the counting core, the registry is safe for concurrent use.
type Registry struct {
	blocks map[uint64]BlockInfo
	mu     sync.RWMutex
	closed bool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		blocks: make(map[uint64]BlockInfo),
	}
}

// OnBlockEvent implements shared.Observer.
func (r *Registry) OnBlockEvent(e shared.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}

	switch e.Type {
	case shared.EventCreated:
		r.blocks[e.ID] = BlockInfo{
			ID:     e.ID,
			Label:  e.Label,
			Strong: e.Strong,
			Weak:   e.Weak,
			State:  StateLive,
		}
	case shared.EventTeardown:
		info, ok := r.blocks[e.ID]
		if !ok {
			return
		}
		info.Strong = e.Strong
		info.Weak = e.Weak
		info.State = StateExpiring
		r.blocks[e.ID] = info
	case shared.EventFreed:
		delete(r.blocks, e.ID)
	}
}

// Len returns the number of blocks not yet freed.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.blocks)
}

// Each iterates over tracked blocks in creation order.
func (r *Registry) Each(fn func(BlockInfo) bool) {
	for _, info := range r.Live() {
		if !fn(info) {
			break
		}
	}
}

// Live returns a snapshot of the tracked blocks in creation order.
func (r *Registry) Live() []BlockInfo {
	r.mu.RLock()
	out := make([]BlockInfo, 0, len(r.blocks))
	for _, info := range r.blocks {
		out = append(out, info)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Report formats the tracked blocks, one line each. An empty registry
// reports "no live blocks".
func (r *Registry) Report() string {
	live := r.Live()
	if len(live) == 0 {
		return "no live blocks"
	}

	var b strings.Builder
	for i, info := range live {
		if i > 0 {
			b.WriteByte('\n')
		}
		name := info.Label
		if name == "" {
			name = "(unlabeled)"
		}
		fmt.Fprintf(&b, "block %d %s: %s, strong=%d weak=%d",
			info.ID, name, info.State, info.Strong, info.Weak)
	}
	return b.String()
}

// Close stops the registry: later events are ignored, tracked state is
// kept for inspection.
func (r *Registry) Close() error {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()
	return nil
}
