package portfsm

import "sync"

// Mover is the payload-carrying counterpart AsyncPolicy delegates actual
// data movement to. It mirrors the original source's BaseMover: a single
// cached slot the source fills and the sink drains, moved between them
// only when AsyncPolicy's move callbacks fire. Mover never touches the
// state machine; it is the "external collaborator" spec §1 keeps out of
// the core.
type Mover[T any] interface {
	// Move transfers the cached source item into the cached sink slot (or
	// advances it one step closer, for the three-stage case where the
	// caller manages an intermediate cache itself). Implementations
	// decide what "one step" means; the Driver only cares that it
	// happened before the post-move collapse in spec §4.3.
	Move()
}

// MoverFunc adapts a plain function to Mover.
type MoverFunc func()

func (f MoverFunc) Move() { f() }

// AsyncPolicy is the Go translation of the original source's AsyncPolicy:
// a policy that actually blocks the calling goroutine on a condition
// variable built over the Driver's own lock, and wakes the opposite party
// once the corresponding notify action fires. It is meant for exactly the
// concurrency model spec §5 describes: one producer goroutine and one
// consumer goroutine, each calling into the Driver independently.
type AsyncPolicy struct {
	sourceCond *sync.Cond
	sinkCond   *sync.Cond
	mover      Mover[any]
}

// NewAsyncPolicy returns a factory suitable for Driver's New constructor.
// mover may be nil if the caller only wants the blocking behaviour
// exercised (e.g. in tests that don't move real payloads).
func NewAsyncPolicy(mover Mover[any]) func(sync.Locker) Policy {
	return func(lk sync.Locker) Policy {
		return &AsyncPolicy{
			sourceCond: sync.NewCond(lk),
			sinkCond:   sync.NewCond(lk),
			mover:      mover,
		}
	}
}

func (p *AsyncPolicy) OnACReturn(sync.Locker) {}

func (p *AsyncPolicy) OnSourceMove(sync.Locker) {
	if p.mover != nil {
		p.mover.Move()
	}
}

func (p *AsyncPolicy) OnSinkMove(sync.Locker) {
	if p.mover != nil {
		p.mover.Move()
	}
}

// OnNotifySource wakes a producer blocked in OnSourceWait. The original
// source asserts is_sink_empty(state()) here; that sanity check is
// diagnostic only (spec §4.4 leaves the policy opaque to state semantics),
// so it isn't reproduced as a hard invariant here.
func (p *AsyncPolicy) OnNotifySource(sync.Locker) {
	p.sourceCond.Signal()
}

// OnNotifySink wakes a consumer blocked in OnSinkWait.
func (p *AsyncPolicy) OnNotifySink(sync.Locker) {
	p.sinkCond.Signal()
}

// OnSourceWait blocks the producer until notified. sync.Cond.Wait
// atomically unlocks the given Locker and reacquires it before returning,
// which is exactly the contract spec §4.4 requires.
func (p *AsyncPolicy) OnSourceWait(sync.Locker) {
	p.sourceCond.Wait()
}

// OnSinkWait blocks the consumer until notified.
func (p *AsyncPolicy) OnSinkWait(sync.Locker) {
	p.sinkCond.Wait()
}
