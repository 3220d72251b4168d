package errslv

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/axibridge/axi"
	"github.com/sarchlab/axibridge/sim"
)

var _ = Describe("Error Responder", func() {
	var (
		engine *sim.Engine
		comp   *Comp
	)

	BeforeEach(func() {
		engine = sim.NewEngine()
		comp = MakeBuilder().
			WithEngine(engine).
			WithMaxTransactions(2).
			WithResp(axi.RespSlvErr).
			Build("ErrSlv")
	})

	It("should answer a read burst with the right shape", func() {
		// One read, id=3, len=2, expecting 3 error beats.
		comp.In = Inputs{
			ARValid: true,
			AR:      axi.AR{ID: 3, Len: 2},
			RReady:  true,
		}
		engine.Step()
		Expect(comp.Out.ARReady).To(BeTrue())
		Expect(comp.Out.RValid).To(BeFalse())

		comp.In = Inputs{RReady: true}
		for beat := 0; beat < 3; beat++ {
			engine.Step()
			Expect(comp.Out.RValid).To(BeTrue())
			Expect(comp.Out.R.ID).To(Equal(uint64(3)))
			Expect(comp.Out.R.Resp).To(Equal(axi.RespSlvErr))
			Expect(comp.Out.R.Data).To(Equal(uint64(DefaultRespData)))
			Expect(comp.Out.R.Last).To(Equal(beat == 2))
		}

		engine.Step()
		Expect(comp.Out.RValid).To(BeFalse())
	})

	It("should stretch a burst while the requester is not ready", func() {
		comp.In = Inputs{
			ARValid: true,
			AR:      axi.AR{ID: 1, Len: 1},
		}
		engine.Step()

		comp.In = Inputs{RReady: false}
		engine.Step()
		Expect(comp.Out.RValid).To(BeTrue())
		Expect(comp.Out.R.Last).To(BeFalse())

		// The beat must be held, not consumed.
		engine.Step()
		Expect(comp.Out.RValid).To(BeTrue())
		Expect(comp.Out.R.Last).To(BeFalse())

		comp.In = Inputs{RReady: true}
		engine.Step()
		Expect(comp.Out.R.Last).To(BeFalse())

		engine.Step()
		Expect(comp.Out.RValid).To(BeTrue())
		Expect(comp.Out.R.Last).To(BeTrue())
	})

	It("should complete reads strictly in acceptance order", func() {
		comp.In = Inputs{
			ARValid: true,
			AR:      axi.AR{ID: 7, Len: 0},
		}
		engine.Step()
		Expect(comp.Out.ARReady).To(BeTrue())

		comp.In = Inputs{
			ARValid: true,
			AR:      axi.AR{ID: 4, Len: 1},
		}
		engine.Step()
		Expect(comp.Out.ARReady).To(BeTrue())

		comp.In = Inputs{RReady: true}

		engine.Step()
		Expect(comp.Out.RValid).To(BeTrue())
		Expect(comp.Out.R.ID).To(Equal(uint64(7)))
		Expect(comp.Out.R.Last).To(BeTrue())

		// Back-to-back bursts: the next burst starts on the very next step.
		engine.Step()
		Expect(comp.Out.RValid).To(BeTrue())
		Expect(comp.Out.R.ID).To(Equal(uint64(4)))
		Expect(comp.Out.R.Last).To(BeFalse())

		engine.Step()
		Expect(comp.Out.R.ID).To(Equal(uint64(4)))
		Expect(comp.Out.R.Last).To(BeTrue())
	})

	It("should answer single-beat writes in order", func() {
		// Two single-beat writes, id=1 then id=2.
		comp.In = Inputs{
			AWValid: true,
			AW:      axi.AW{ID: 1},
			WValid:  true,
			W:       axi.W{Last: true},
			BReady:  true,
		}
		engine.Step()
		Expect(comp.Out.AWReady).To(BeTrue())
		Expect(comp.Out.WReady).To(BeTrue())
		Expect(comp.Out.BValid).To(BeTrue())
		Expect(comp.Out.B.ID).To(Equal(uint64(1)))
		Expect(comp.Out.B.Resp).To(Equal(axi.RespSlvErr))

		comp.In = Inputs{
			AWValid: true,
			AW:      axi.AW{ID: 2},
			WValid:  true,
			W:       axi.W{Last: true},
			BReady:  true,
		}
		engine.Step()
		Expect(comp.Out.BValid).To(BeTrue())
		Expect(comp.Out.B.ID).To(Equal(uint64(2)))
		Expect(comp.Out.B.Resp).To(Equal(axi.RespSlvErr))
	})

	It("should eat non-final write beats", func() {
		comp.In = Inputs{
			AWValid: true,
			AW:      axi.AW{ID: 5},
			WValid:  true,
			W:       axi.W{Last: false},
			BReady:  true,
		}
		engine.Step()
		Expect(comp.Out.WReady).To(BeTrue())
		Expect(comp.Out.BValid).To(BeFalse())

		comp.In = Inputs{
			WValid: true,
			W:      axi.W{Last: false},
			BReady: true,
		}
		engine.Step()
		Expect(comp.Out.BValid).To(BeFalse())

		comp.In = Inputs{
			WValid: true,
			W:      axi.W{Last: true},
			BReady: true,
		}
		engine.Step()
		Expect(comp.Out.BValid).To(BeTrue())
		Expect(comp.Out.B.ID).To(Equal(uint64(5)))
	})

	It("should withhold ready when the tracking queues are full", func() {
		for i := 0; i < 2; i++ {
			comp.In = Inputs{
				AWValid: true,
				AW:      axi.AW{ID: uint64(i)},
				ARValid: true,
				AR:      axi.AR{ID: uint64(i)},
			}
			engine.Step()
			Expect(comp.Out.AWReady).To(BeTrue())
			Expect(comp.Out.ARReady).To(BeTrue())
		}

		comp.In = Inputs{
			AWValid: true,
			AW:      axi.AW{ID: 9},
			ARValid: true,
			AR:      axi.AR{ID: 9},
		}
		engine.Step()
		Expect(comp.Out.AWReady).To(BeFalse())
		Expect(comp.Out.ARReady).To(BeFalse())
	})

	It("should withhold write-data ready when responses are backed up", func() {
		// Two complete writes with no B acknowledgment fill the response
		// queue.
		for i := 0; i < 2; i++ {
			comp.In = Inputs{
				AWValid: true,
				AW:      axi.AW{ID: uint64(i)},
				WValid:  true,
				W:       axi.W{Last: true},
			}
			engine.Step()
			Expect(comp.Out.WReady).To(BeTrue())
		}

		comp.In = Inputs{
			AWValid: true,
			AW:      axi.AW{ID: 2},
			WValid:  true,
			W:       axi.W{Last: true},
		}
		engine.Step()
		Expect(comp.Out.AWReady).To(BeTrue())
		Expect(comp.Out.WReady).To(BeFalse())

		// Draining the responses reopens the data channel.
		comp.In.BReady = true
		engine.Step()
		Expect(comp.Out.B.ID).To(Equal(uint64(0)))

		engine.Step()
		Expect(comp.Out.WReady).To(BeTrue())
	})

	It("should treat an unexpected atomic operation as fatal", func() {
		comp.In = Inputs{
			AWValid: true,
			AW:      axi.AW{ID: 1, Atop: 0x21},
		}

		Expect(func() { engine.Step() }).To(Panic())
	})

	It("should pass atomic operations when support is on", func() {
		atopComp := MakeBuilder().
			WithResp(axi.RespSlvErr).
			WithAtopSupport().
			Build("AtopErrSlv")

		atopComp.In = Inputs{
			AWValid: true,
			AW:      axi.AW{ID: 1, Atop: 0x21},
			WValid:  true,
			W:       axi.W{Last: true},
			BReady:  true,
		}
		atopComp.Eval()

		Expect(atopComp.Out.BValid).To(BeTrue())
		Expect(atopComp.Out.B.ID).To(Equal(uint64(1)))
	})
})

var _ = Describe("Builder", func() {
	It("should reject non-error response codes", func() {
		Expect(func() {
			MakeBuilder().WithResp(axi.RespOkay).Build("ErrSlv")
		}).To(Panic())
	})

	It("should reject zero-valued width parameters", func() {
		Expect(func() {
			MakeBuilder().WithIDWidth(0).Build("ErrSlv")
		}).To(Panic())
	})

	It("should reject unsupported data widths", func() {
		Expect(func() {
			MakeBuilder().WithDataWidth(48).Build("ErrSlv")
		}).To(Panic())
	})

	It("should reject response data wider than the data channel", func() {
		Expect(func() {
			MakeBuilder().
				WithDataWidth(16).
				WithRespData(0x10000).
				Build("ErrSlv")
		}).To(Panic())
	})

	It("should reject a zero transaction bound", func() {
		Expect(func() {
			MakeBuilder().WithMaxTransactions(0).Build("ErrSlv")
		}).To(Panic())
	})
})
