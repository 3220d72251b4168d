// Package queueing provides the bounded FIFO queues that the protocol engines
// use to track outstanding transactions.
package queueing

import (
	"log"

	"github.com/sarchlab/axibridge/sim"
)

// HookPosQueuePush marks when an element is pushed into the queue.
var HookPosQueuePush = &sim.HookPos{Name: "Queue Push"}

// HookPosQueuePop marks when an element is popped from the queue.
var HookPosQueuePop = &sim.HookPos{Name: "Queue Pop"}

// A Queue is a fixed-capacity FIFO with a construction-time visibility mode.
//
// A fall-through queue applies pushes and pops immediately, so a value pushed
// on an empty queue is visible at the head within the same evaluation step.
// A registered queue stages pushes and pops and applies them at Commit, so
// nothing pushed or popped during a step is observable before the step
// boundary. The mode is a timing contract, not an optimization: engines that
// must never observe a grant and its completion in the same step depend on
// the registered behavior.
type Queue struct {
	sim.HookableBase

	name        string
	capacity    int
	fallThrough bool

	elements     []interface{}
	stagedPushes []interface{}
	stagedPops   int
}

// Builder builds queues.
type Builder struct {
	capacity    int
	fallThrough bool
}

// MakeBuilder returns a Builder with default parameters.
func MakeBuilder() Builder {
	return Builder{capacity: 1}
}

// WithCapacity sets the fixed capacity of the queue to build.
func (b Builder) WithCapacity(capacity int) Builder {
	b.capacity = capacity
	return b
}

// WithFallThrough makes pushes on the queue to build visible within the same
// step. The default is registered: pushes and pops take effect at Commit.
func (b Builder) WithFallThrough() Builder {
	b.fallThrough = true
	return b
}

// Build builds a queue.
func (b Builder) Build(name string) *Queue {
	sim.NameMustBeValid(name)

	if b.capacity <= 0 {
		log.Panicf("queue %s must have positive capacity", name)
	}

	return &Queue{
		name:        name,
		capacity:    b.capacity,
		fallThrough: b.fallThrough,
	}
}

// Name returns the name of the queue.
func (q *Queue) Name() string {
	return q.name
}

// Capacity returns the fixed capacity of the queue.
func (q *Queue) Capacity() int {
	return q.capacity
}

// Size returns the number of elements visible in the queue.
func (q *Queue) Size() int {
	return len(q.elements)
}

// Empty reports whether no element is visible at the head.
func (q *Queue) Empty() bool {
	return len(q.elements) == 0
}

// Full reports whether the queue cannot admit another element. Staged pushes
// count against the capacity; staged pops do not free their slot until
// Commit.
func (q *Queue) Full() bool {
	return !q.CanPush()
}

// CanPush checks if the queue can accept a new element this step.
func (q *Queue) CanPush() bool {
	return len(q.elements)+len(q.stagedPushes) < q.capacity
}

// Push adds an element to the tail of the queue. Pushing into a queue that
// cannot accept an element is a bug in the owning engine.
func (q *Queue) Push(e interface{}) {
	if !q.CanPush() {
		log.Panicf("overflow on queue %s", q.name)
	}

	if q.fallThrough {
		q.elements = append(q.elements, e)
	} else {
		q.stagedPushes = append(q.stagedPushes, e)
	}

	if q.NumHooks() > 0 {
		q.InvokeHook(sim.HookCtx{
			Domain: q,
			Pos:    HookPosQueuePush,
			Item:   e,
		})
	}
}

// Pop removes the head of the queue and returns it, or nil if no element is
// visible. On a registered queue the removal takes effect at Commit, but the
// returned value is the head as seen this step.
func (q *Queue) Pop() interface{} {
	if len(q.elements) <= q.stagedPops {
		return nil
	}

	var e interface{}
	if q.fallThrough {
		e = q.elements[0]
		q.elements = q.elements[1:]
	} else {
		e = q.elements[q.stagedPops]
		q.stagedPops++
	}

	if q.NumHooks() > 0 {
		q.InvokeHook(sim.HookCtx{
			Domain: q,
			Pos:    HookPosQueuePop,
			Item:   e,
		})
	}

	return e
}

// Peek returns the element at the head without removing it, or nil if no
// element is visible.
func (q *Queue) Peek() interface{} {
	if len(q.elements) == 0 {
		return nil
	}

	return q.elements[0]
}

// Commit applies staged pushes and pops. Fall-through queues already applied
// everything during the step.
func (q *Queue) Commit() {
	if q.fallThrough {
		return
	}

	q.elements = q.elements[q.stagedPops:]
	q.elements = append(q.elements, q.stagedPushes...)
	q.stagedPops = 0
	q.stagedPushes = nil
}

// Clear removes all elements and staged operations.
func (q *Queue) Clear() {
	q.elements = nil
	q.stagedPushes = nil
	q.stagedPops = 0
}
