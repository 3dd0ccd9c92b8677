package services

import (
	"sync"
	"time"

	"github.com/wadjakorntonsri/linklet-dashboard/pkg/ports"
)

const DefaultCopyFeedback = 2 * time.Second

// FlagScheduler raises a per-record flag and lowers it again after ttl.
// Each id is Idle or Raised(deadline); raising a raised id moves its
// deadline instead of adding a second timer.
type FlagScheduler struct {
	sink  ports.FlagSink
	clock ports.Clock
	ttl   time.Duration

	mu      sync.Mutex
	pending map[int64]*pendingFlag
	gen     uint64
}

type pendingFlag struct {
	timer    ports.Timer
	gen      uint64
	deadline time.Time
}

func NewFlagScheduler(sink ports.FlagSink, clock ports.Clock, ttl time.Duration) *FlagScheduler {
	if clock == nil {
		clock = SystemClock{}
	}
	if ttl <= 0 {
		ttl = DefaultCopyFeedback
	}
	return &FlagScheduler{
		sink:    sink,
		clock:   clock,
		ttl:     ttl,
		pending: make(map[int64]*pendingFlag),
	}
}

// Raise sets the flag for id and returns the new deadline
func (f *FlagScheduler) Raise(id int64) time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()

	if p, ok := f.pending[id]; ok {
		p.timer.Stop()
	}

	f.gen++
	gen := f.gen
	deadline := f.clock.Now().Add(f.ttl)
	f.sink.SetCopied(id, true)
	timer := f.clock.AfterFunc(f.ttl, func() { f.expire(id, gen) })
	f.pending[id] = &pendingFlag{timer: timer, gen: gen, deadline: deadline}
	return deadline
}

// expire lowers the flag unless the timer was superseded or cancelled.
// Stop can lose the race with a timer that has already fired; gen covers that.
func (f *FlagScheduler) expire(id int64, gen uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()

	p, ok := f.pending[id]
	if !ok || p.gen != gen {
		return
	}
	delete(f.pending, id)
	f.sink.SetCopied(id, false)
}

// Deadline reports when the flag for id drops, if it is raised
func (f *FlagScheduler) Deadline(id int64) (time.Time, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.pending[id]
	if !ok {
		return time.Time{}, false
	}
	return p.deadline, true
}

// CancelAll stops every pending timer without lowering any flag.
func (f *FlagScheduler) CancelAll() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, p := range f.pending {
		p.timer.Stop()
		delete(f.pending, id)
	}
}
