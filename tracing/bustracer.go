// Package tracing records every channel handshake that fires during a
// simulation, one row per beat, for offline inspection of a run.
package tracing

import (
	"github.com/sarchlab/axibridge/datarecording"
	"github.com/sarchlab/axibridge/errslv"
	"github.com/sarchlab/axibridge/membridge"
	"github.com/sarchlab/axibridge/sim"
)

const beatTable = "bus_trace"

// BeatEntry is one recorded handshake fire.
type BeatEntry struct {
	Cycle   uint64
	Engine  string
	Channel string
	ID      uint64
	Data    uint64
	Resp    string
	Last    bool
}

// A BusTracer observes the settled signals of registered engines at the end
// of every step and records each fired handshake. Register it as an engine
// hook.
type BusTracer struct {
	recorder datarecording.DataRecorder

	slaves  []*errslv.Comp
	bridges []*membridge.Comp
}

// NewBusTracer creates a tracer that writes into the given recorder.
func NewBusTracer(recorder datarecording.DataRecorder) *BusTracer {
	recorder.CreateTable(beatTable, BeatEntry{})

	return &BusTracer{recorder: recorder}
}

// TraceErrSlv adds an error-responder engine to the trace.
func (t *BusTracer) TraceErrSlv(c *errslv.Comp) {
	t.slaves = append(t.slaves, c)
}

// TraceBridge adds an adapter engine to the trace.
func (t *BusTracer) TraceBridge(c *membridge.Comp) {
	t.bridges = append(t.bridges, c)
}

// Func samples all traced engines at the end of each step.
func (t *BusTracer) Func(ctx sim.HookCtx) {
	if ctx.Pos != sim.HookPosStepEnd {
		return
	}

	cycle := ctx.Item.(uint64)

	for _, c := range t.slaves {
		t.sampleErrSlv(cycle, c)
	}

	for _, c := range t.bridges {
		t.sampleBridge(cycle, c)
	}
}

func (t *BusTracer) sampleErrSlv(cycle uint64, c *errslv.Comp) {
	in, out := c.In, c.Out

	if in.AWValid && out.AWReady {
		t.record(BeatEntry{
			Cycle: cycle, Engine: c.Name(), Channel: "AW",
			ID: in.AW.ID,
		})
	}

	if in.WValid && out.WReady {
		t.record(BeatEntry{
			Cycle: cycle, Engine: c.Name(), Channel: "W",
			Data: in.W.Data, Last: in.W.Last,
		})
	}

	if out.BValid && in.BReady {
		t.record(BeatEntry{
			Cycle: cycle, Engine: c.Name(), Channel: "B",
			ID: out.B.ID, Resp: out.B.Resp.String(),
		})
	}

	if in.ARValid && out.ARReady {
		t.record(BeatEntry{
			Cycle: cycle, Engine: c.Name(), Channel: "AR",
			ID: in.AR.ID,
		})
	}

	if out.RValid && in.RReady {
		t.record(BeatEntry{
			Cycle: cycle, Engine: c.Name(), Channel: "R",
			ID: out.R.ID, Data: out.R.Data,
			Resp: out.R.Resp.String(), Last: out.R.Last,
		})
	}
}

func (t *BusTracer) sampleBridge(cycle uint64, c *membridge.Comp) {
	in, out := c.In, c.Out

	if in.Req && out.Gnt {
		t.record(BeatEntry{
			Cycle: cycle, Engine: c.Name(), Channel: "MemGnt",
			Data: in.Addr,
		})
	}

	if out.RspValid {
		resp := "OKAY"
		if out.RspError {
			resp = "ERROR"
		}
		t.record(BeatEntry{
			Cycle: cycle, Engine: c.Name(), Channel: "MemRsp",
			Data: out.RspRData, Resp: resp,
		})
	}

	if out.AWValid && in.AWReady {
		t.record(BeatEntry{
			Cycle: cycle, Engine: c.Name(), Channel: "AW",
			Data: out.AW.Addr,
		})
	}

	if out.WValid && in.WReady {
		t.record(BeatEntry{
			Cycle: cycle, Engine: c.Name(), Channel: "W",
			Data: out.W.Data,
		})
	}

	if in.BValid && out.BReady {
		t.record(BeatEntry{
			Cycle: cycle, Engine: c.Name(), Channel: "B",
			Resp: in.B.Resp.String(),
		})
	}

	if out.ARValid && in.ARReady {
		t.record(BeatEntry{
			Cycle: cycle, Engine: c.Name(), Channel: "AR",
			Data: out.AR.Addr,
		})
	}

	if in.RValid && out.RReady {
		t.record(BeatEntry{
			Cycle: cycle, Engine: c.Name(), Channel: "R",
			Data: in.R.Data, Resp: in.R.Resp.String(),
		})
	}
}

func (t *BusTracer) record(e BeatEntry) {
	t.recorder.InsertData(beatTable, e)
}
