package tracing

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/axibridge/axi"
	"github.com/sarchlab/axibridge/errslv"
	"github.com/sarchlab/axibridge/membridge"
	"github.com/sarchlab/axibridge/sim"
)

// memRecorder keeps recorded entries in memory so the specs can look at them.
type memRecorder struct {
	tables  map[string]bool
	entries []BeatEntry
}

func newMemRecorder() *memRecorder {
	return &memRecorder{tables: make(map[string]bool)}
}

func (r *memRecorder) CreateTable(tableName string, _ any) {
	r.tables[tableName] = true
}

func (r *memRecorder) InsertData(tableName string, entry any) {
	if !r.tables[tableName] {
		panic("table " + tableName + " does not exist")
	}

	r.entries = append(r.entries, entry.(BeatEntry))
}

func (r *memRecorder) ListTables() []string {
	names := make([]string, 0, len(r.tables))
	for name := range r.tables {
		names = append(names, name)
	}

	return names
}

func (r *memRecorder) Flush() {}

func (r *memRecorder) channels() []string {
	channels := make([]string, 0, len(r.entries))
	for _, e := range r.entries {
		channels = append(channels, e.Channel)
	}

	return channels
}

var _ = Describe("BusTracer", func() {
	var (
		engine   *sim.Engine
		recorder *memRecorder
		tracer   *BusTracer
	)

	BeforeEach(func() {
		engine = sim.NewEngine()
		recorder = newMemRecorder()
		tracer = NewBusTracer(recorder)
		engine.AcceptHook(tracer)
	})

	It("should create the trace table up front", func() {
		Expect(recorder.ListTables()).To(ContainElement("bus_trace"))
	})

	It("should record every fired handshake of an error responder", func() {
		slave := errslv.MakeBuilder().
			WithEngine(engine).
			WithResp(axi.RespSlvErr).
			Build("ErrSlv")
		tracer.TraceErrSlv(slave)

		slave.In = errslv.Inputs{
			AWValid: true,
			AW:      axi.AW{ID: 1},
			WValid:  true,
			W:       axi.W{Last: true},
			BReady:  true,
		}
		engine.Step()

		Expect(recorder.channels()).To(Equal([]string{"AW", "W", "B"}))
		Expect(recorder.entries[2].ID).To(Equal(uint64(1)))
		Expect(recorder.entries[2].Resp).To(Equal("SLVERR"))
		Expect(recorder.entries[2].Cycle).To(Equal(uint64(0)))
	})

	It("should record stalled channels only when they fire", func() {
		slave := errslv.MakeBuilder().
			WithEngine(engine).
			Build("ErrSlv")
		tracer.TraceErrSlv(slave)

		slave.In = errslv.Inputs{
			ARValid: true,
			AR:      axi.AR{ID: 2, Len: 0},
		}
		engine.Step()
		Expect(recorder.channels()).To(Equal([]string{"AR"}))

		// The beat is offered but not taken.
		slave.In = errslv.Inputs{}
		engine.Step()
		Expect(recorder.channels()).To(Equal([]string{"AR"}))

		slave.In = errslv.Inputs{RReady: true}
		engine.Step()
		Expect(recorder.channels()).To(Equal([]string{"AR", "R"}))
		Expect(recorder.entries[1].Last).To(BeTrue())
		Expect(recorder.entries[1].Cycle).To(Equal(uint64(2)))
	})

	It("should record grants and responses of an adapter", func() {
		bridge := membridge.MakeBuilder().
			WithEngine(engine).
			Build("Bridge")
		tracer.TraceBridge(bridge)

		bridge.In = membridge.Inputs{
			Req:     true,
			Addr:    0x40,
			ARReady: true,
		}
		engine.Step()
		Expect(recorder.channels()).To(Equal([]string{"MemGnt", "AR"}))

		bridge.In = membridge.Inputs{
			RValid: true,
			R:      axi.LiteR{Data: 0x99, Resp: axi.RespDecErr},
		}
		engine.Step()
		Expect(recorder.channels()).To(Equal(
			[]string{"MemGnt", "AR", "MemRsp", "R"}))

		rsp := recorder.entries[2]
		Expect(rsp.Data).To(Equal(uint64(0x99)))
		Expect(rsp.Resp).To(Equal("ERROR"))
	})
})
