package main

import (
	"log"
	"math/rand"

	"github.com/sarchlab/axibridge/axi"
	"github.com/sarchlab/axibridge/errslv"
	"github.com/sarchlab/axibridge/membridge"
)

// errSlvAgent drives randomized write and read traffic into an error
// responder and checks every completion against the order the requests were
// accepted in.
type errSlvAgent struct {
	rng  *rand.Rand
	comp *errslv.Comp

	writesToSend int
	readsToSend  int

	nextID      uint64
	wBeatsLeft  int
	pendingWIDs []uint64
	pendingRs   []axi.AR
	beatsSeen   int
}

func newErrSlvAgent(comp *errslv.Comp, numWrites, numReads int,
	rng *rand.Rand,
) *errSlvAgent {
	return &errSlvAgent{
		rng:          rng,
		comp:         comp,
		writesToSend: numWrites,
		readsToSend:  numReads,
	}
}

func (a *errSlvAgent) done() bool {
	return a.writesToSend == 0 && a.readsToSend == 0 &&
		len(a.pendingWIDs) == 0 && len(a.pendingRs) == 0 &&
		a.wBeatsLeft == 0
}

// drive prepares the slave's inputs for the coming step.
func (a *errSlvAgent) drive() {
	in := &a.comp.In
	prev := a.comp.Out

	if !in.AWValid || prev.AWReady {
		in.AWValid = false
		if a.writesToSend > 0 && a.wBeatsLeft == 0 && a.rng.Intn(2) == 0 {
			in.AWValid = true
			in.AW = axi.AW{ID: a.nextID & 0xF}
			a.nextID++
		}
	}

	if in.AWValid {
		// Single-beat data phase follows the address phase it belongs to.
		a.wBeatsLeft = 1
	}

	if !in.WValid || prev.WReady {
		in.WValid = false
		if a.wBeatsLeft > 0 {
			in.WValid = true
			in.W = axi.W{Data: a.rng.Uint64(), Last: true}
		}
	}

	if !in.ARValid || prev.ARReady {
		in.ARValid = false
		if a.readsToSend > 0 && a.rng.Intn(2) == 0 {
			in.ARValid = true
			in.AR = axi.AR{
				ID:  a.nextID & 0xF,
				Len: uint8(a.rng.Intn(4)),
			}
			a.nextID++
		}
	}

	in.BReady = a.rng.Intn(4) != 0
	in.RReady = a.rng.Intn(4) != 0
}

// observe checks the slave's outputs after the step.
func (a *errSlvAgent) observe() {
	in := a.comp.In
	out := a.comp.Out

	if in.AWValid && out.AWReady {
		a.pendingWIDs = append(a.pendingWIDs, in.AW.ID)
		a.writesToSend--
	}

	if in.WValid && out.WReady && in.W.Last {
		a.wBeatsLeft = 0
	}

	if in.ARValid && out.ARReady {
		a.pendingRs = append(a.pendingRs, in.AR)
		a.readsToSend--
	}

	if out.BValid && in.BReady {
		if len(a.pendingWIDs) == 0 {
			log.Panic("write completion without a pending write")
		}
		if out.B.ID != a.pendingWIDs[0] {
			log.Panicf("write completion out of order: got id %d, want %d",
				out.B.ID, a.pendingWIDs[0])
		}
		a.pendingWIDs = a.pendingWIDs[1:]
	}

	if out.RValid && in.RReady {
		if len(a.pendingRs) == 0 {
			log.Panic("read beat without a pending read")
		}
		want := a.pendingRs[0]
		if out.R.ID != want.ID {
			log.Panicf("read beat out of order: got id %d, want %d",
				out.R.ID, want.ID)
		}
		a.beatsSeen++
		if out.R.Last {
			if a.beatsSeen != int(want.Len)+1 {
				log.Panicf("burst id %d: %d beats, want %d",
					want.ID, a.beatsSeen, want.Len+1)
			}
			a.pendingRs = a.pendingRs[1:]
			a.beatsSeen = 0
		}
	}
}

// bridgeAgent drives randomized memory requests into an adapter and plays
// the part of the AXI-Lite slave behind it, completing every transaction
// after a random delay.
type bridgeAgent struct {
	rng  *rand.Rand
	comp *membridge.Comp

	requestsToSend int
	granted        int
	responded      int

	busWrites int
	busReads  int
	bDelay    int
	rDelay    int
}

func newBridgeAgent(comp *membridge.Comp, numRequests int,
	rng *rand.Rand,
) *bridgeAgent {
	return &bridgeAgent{
		rng:            rng,
		comp:           comp,
		requestsToSend: numRequests,
	}
}

func (a *bridgeAgent) done() bool {
	return a.requestsToSend == 0 && a.responded == a.granted
}

func (a *bridgeAgent) drive() {
	in := &a.comp.In
	prev := a.comp.Out

	if !in.Req || prev.Gnt {
		in.Req = false
		if a.requestsToSend > 0 && a.rng.Intn(2) == 0 {
			in.Req = true
			in.Addr = a.rng.Uint64()
			in.We = a.rng.Intn(2) == 0
			in.WData = a.rng.Uint64()
			in.BE = 0xF
		}
	}

	in.AWReady = a.rng.Intn(2) == 0
	in.WReady = a.rng.Intn(2) == 0
	in.ARReady = a.rng.Intn(2) == 0

	in.BValid = false
	if a.busWrites > 0 && a.bDelay == 0 {
		in.BValid = true
		in.B = axi.LiteB{Resp: axi.RespOkay}
	}

	in.RValid = false
	if a.busReads > 0 && a.rDelay == 0 {
		in.RValid = true
		in.R = axi.LiteR{Data: a.rng.Uint64(), Resp: axi.RespOkay}
	}

	if a.bDelay > 0 {
		a.bDelay--
	}
	if a.rDelay > 0 {
		a.rDelay--
	}
}

func (a *bridgeAgent) observe() {
	in := a.comp.In
	out := a.comp.Out

	if in.Req && out.Gnt {
		a.requestsToSend--
		a.granted++
		if in.We {
			a.busWrites++
			a.bDelay = a.rng.Intn(3)
		} else {
			a.busReads++
			a.rDelay = a.rng.Intn(3)
		}
	}

	if out.BReady && out.RReady {
		log.Panic("adapter acknowledged both completion channels at once")
	}

	if out.RspValid {
		a.responded++
		if in.BValid && out.BReady {
			a.busWrites--
		}
		if in.RValid && out.RReady {
			a.busReads--
		}
	}
}
