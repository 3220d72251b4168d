// Package membridge models a bridge from a simple request/grant memory
// interface to an AXI4-Lite master. One memory request is in flight per step
// at most; completions from the write-response and read-data channels are
// multiplexed back onto a single memory response in grant order.
package membridge

import (
	"log"

	"github.com/sarchlab/axibridge/axi"
	"github.com/sarchlab/axibridge/queueing"
	"github.com/sarchlab/axibridge/sim"
)

// Inputs are the memory-side request signals and the bus-side return signals
// sampled at the beginning of each step.
type Inputs struct {
	Req   bool
	Addr  uint64
	We    bool
	WData uint64
	BE    uint8

	AWReady bool
	WReady  bool

	BValid bool
	B      axi.LiteB

	ARReady bool

	RValid bool
	R      axi.LiteR
}

// Outputs are the memory-side grant/response signals and the bus-side request
// signals the engine drives during each step.
type Outputs struct {
	Gnt      bool
	RspValid bool
	RspRData uint64
	RspError bool

	AWValid bool
	AW      axi.LiteAW

	WValid bool
	W      axi.LiteW

	BReady bool

	ARValid bool
	AR      axi.LiteAR

	RReady bool
}

// Comp is the memory-to-bus adapter engine.
type Comp struct {
	*sim.ModuleBase

	In  Inputs
	Out Outputs

	prot        uint8
	memAddrMask uint64
	busAddrMask uint64

	// selector remembers, per granted request, which bus channel carries its
	// completion: true for the write-response channel, false for read data.
	// It is registered, so a grant and its completion can never land in the
	// same step.
	selector *queueing.Queue

	// Decoupled-send state for the in-progress write. Both reset on grant.
	awSent bool
	wSent  bool

	nextAWSent bool
	nextWSent  bool
}

// Eval reassembles any completion the bus delivers, then considers admitting
// the memory request of this step.
func (c *Comp) Eval() {
	c.Out = Outputs{}

	if c.awSent && c.wSent {
		log.Panicf("%s: write handshake state corrupted: "+
			"both phases sent without a grant", c.Name())
	}

	c.nextAWSent = c.awSent
	c.nextWSent = c.wSent

	c.reassembleResponse()
	c.admitRequest()
}

// Commit applies the write-send registers and the selector queue.
func (c *Comp) Commit() {
	c.awSent = c.nextAWSent
	c.wSent = c.nextWSent
	c.selector.Commit()
}

// reassembleResponse acknowledges exactly the bus channel that the selector
// head points at, and forwards that channel's completion as the unified
// memory response. Read data is forwarded verbatim whether or not the current
// completion is a read.
func (c *Comp) reassembleResponse() {
	c.Out.RspRData = c.In.R.Data

	head := c.selector.Peek()
	if head == nil {
		return
	}

	isWrite := head.(bool)
	c.Out.BReady = isWrite
	c.Out.RReady = !isWrite

	if isWrite && c.In.BValid {
		c.Out.RspValid = true
		c.Out.RspError = c.In.B.Resp.IsError()
		c.selector.Pop()
	}

	if !isWrite && c.In.RValid {
		c.Out.RspValid = true
		c.Out.RspError = c.In.R.Resp.IsError()
		c.selector.Pop()
	}
}

func (c *Comp) admitRequest() {
	if !c.In.Req {
		return
	}

	if c.In.We {
		c.driveWrite()
	} else {
		c.driveRead()
	}
}

// driveRead asserts the read address and grants the instant the bus takes it,
// with no intermediate state.
func (c *Comp) driveRead() {
	if !c.selector.CanPush() {
		return
	}

	c.Out.ARValid = true
	c.Out.AR = axi.LiteAR{Addr: c.busAddr(c.In.Addr), Prot: c.prot}

	if c.In.ARReady {
		c.Out.Gnt = true
		c.selector.Push(false)
	}
}

// driveWrite advances the decoupled address/data handshake. Each phase is
// offered until the bus takes it; the grant fires exactly once, on the step
// the second phase completes, in whichever order the bus accepts them.
func (c *Comp) driveWrite() {
	newRequest := !c.awSent && !c.wSent
	if newRequest && !c.selector.CanPush() {
		return
	}

	if !c.awSent {
		c.Out.AWValid = true
		c.Out.AW = axi.LiteAW{Addr: c.busAddr(c.In.Addr), Prot: c.prot}
	}

	if !c.wSent {
		c.Out.WValid = true
		c.Out.W = axi.LiteW{Data: c.In.WData, Strb: c.In.BE}
	}

	awDone := c.awSent || (c.Out.AWValid && c.In.AWReady)
	wDone := c.wSent || (c.Out.WValid && c.In.WReady)

	if awDone && wDone {
		c.Out.Gnt = true
		c.selector.Push(true)
		c.nextAWSent = false
		c.nextWSent = false
		return
	}

	c.nextAWSent = awDone
	c.nextWSent = wDone
}

// SelectorQueue exposes the response-selector queue for monitoring. Callers
// must only read status from it.
func (c *Comp) SelectorQueue() *queueing.Queue {
	return c.selector
}

func (c *Comp) busAddr(memAddr uint64) uint64 {
	return memAddr & c.memAddrMask & c.busAddrMask
}
