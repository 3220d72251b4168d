// Package errslv models an AXI4 error slave: a terminator that accepts every
// write and read transaction addressed to it and completes each one with a
// fixed error response, preserving the transaction ID and the burst shape.
package errslv

import (
	"log"

	"github.com/sarchlab/axibridge/axi"
	"github.com/sarchlab/axibridge/queueing"
	"github.com/sarchlab/axibridge/sim"
)

// Inputs are the slave-side signals sampled at the beginning of each step.
type Inputs struct {
	AWValid bool
	AW      axi.AW

	WValid bool
	W      axi.W

	ARValid bool
	AR      axi.AR

	BReady bool
	RReady bool
}

// Outputs are the signals the engine drives during each step.
type Outputs struct {
	AWReady bool
	WReady  bool
	ARReady bool

	BValid bool
	B      axi.B

	RValid bool
	R      axi.R
}

type readRecord struct {
	id  uint64
	len uint8
}

// Comp is the error-responder engine. A testbench or a surrounding model
// writes In before each step and reads Out after it.
type Comp struct {
	*sim.ModuleBase

	In  Inputs
	Out Outputs

	resp         axi.Resp
	respData     uint64
	supportAtops bool

	writeIDs  *queueing.Queue
	writeRsps *queueing.Queue
	reads     *queueing.Queue

	// Read-side drain registers. busy means a burst of error beats is being
	// emitted; beatsLeft counts the beats still owed after the current one.
	busy      bool
	beatsLeft uint8
	burstID   uint64

	nextBusy      bool
	nextBeatsLeft uint8
	nextBurstID   uint64
}

// Eval drives the ready lines from queue occupancy, absorbs whatever the
// requester offers, and emits at most one completion beat per channel.
func (c *Comp) Eval() {
	c.Out = Outputs{}

	c.acceptWriteAddr()
	c.absorbWriteData()
	c.emitWriteRsp()
	c.acceptReadAddr()
	c.emitReadBeats()
}

// Commit applies the read-side drain registers. The tracking queues are
// fall-through and need no commit of their own.
func (c *Comp) Commit() {
	c.busy = c.nextBusy
	c.beatsLeft = c.nextBeatsLeft
	c.burstID = c.nextBurstID
}

// acceptWriteAddr admits a write as long as there is room to track it.
func (c *Comp) acceptWriteAddr() {
	c.Out.AWReady = c.writeIDs.CanPush()

	if !c.In.AWValid || !c.Out.AWReady {
		return
	}

	if c.In.AW.Atop != 0 && !c.supportAtops {
		log.Panicf(
			"%s: atomic operation on inbound write, "+
				"but atomics are not filtered upstream", c.Name())
	}

	c.writeIDs.Push(c.In.AW.ID)
}

// absorbWriteData eats write beats. Only the final beat of a burst moves the
// tracked ID into the response queue; earlier beats leave no trace.
func (c *Comp) absorbWriteData() {
	c.Out.WReady = !c.writeIDs.Empty() && c.writeRsps.CanPush()

	if !c.In.WValid || !c.Out.WReady {
		return
	}

	if c.In.W.Last {
		id := c.writeIDs.Pop().(uint64)
		c.writeRsps.Push(id)
	}
}

func (c *Comp) emitWriteRsp() {
	head := c.writeRsps.Peek()
	if head == nil {
		return
	}

	c.Out.BValid = true
	c.Out.B = axi.B{ID: head.(uint64), Resp: c.resp}

	if c.In.BReady {
		c.writeRsps.Pop()
	}
}

// acceptReadAddr admits a read as long as there is room to track it.
func (c *Comp) acceptReadAddr() {
	c.Out.ARReady = c.reads.CanPush()

	if !c.In.ARValid || !c.Out.ARReady {
		return
	}

	c.reads.Push(readRecord{id: c.In.AR.ID, len: c.In.AR.Len})
}

// emitReadBeats runs the two-state drain machine. While busy, one error beat
// is offered per step; the final beat pops the tracking queue and, if another
// read is already waiting, the next burst is loaded in the same step.
func (c *Comp) emitReadBeats() {
	c.nextBusy = c.busy
	c.nextBeatsLeft = c.beatsLeft
	c.nextBurstID = c.burstID

	if !c.busy {
		c.loadNextBurst()
		return
	}

	c.Out.RValid = true
	c.Out.R = axi.R{
		ID:   c.burstID,
		Data: c.respData,
		Resp: c.resp,
		Last: c.beatsLeft == 0,
	}

	if !c.In.RReady {
		return
	}

	if c.beatsLeft > 0 {
		c.nextBeatsLeft = c.beatsLeft - 1
		return
	}

	c.reads.Pop()
	c.loadNextBurst()
}

// TrackingQueues exposes the internal queues for monitoring. Callers must
// only read status from them.
func (c *Comp) TrackingQueues() []*queueing.Queue {
	return []*queueing.Queue{c.writeIDs, c.writeRsps, c.reads}
}

func (c *Comp) loadNextBurst() {
	head := c.reads.Peek()
	if head == nil {
		c.nextBusy = false
		return
	}

	rec := head.(readRecord)
	c.nextBusy = true
	c.nextBeatsLeft = rec.len
	c.nextBurstID = rec.id
}
