package conformance

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/axibridge/membridge"
	"github.com/sarchlab/axibridge/sim"
)

var _ = Describe("Checker", func() {
	var (
		engine  *sim.Engine
		bridge  *membridge.Comp
		checker *Checker
	)

	BeforeEach(func() {
		engine = sim.NewEngine()
		bridge = membridge.MakeBuilder().
			WithEngine(engine).
			Build("Bridge")
		checker = NewChecker(bridge)
		engine.AcceptHook(checker)
	})

	It("should stay silent over a well-behaved requester", func() {
		// Held request, then grant, then idle.
		bridge.In = membridge.Inputs{Req: true, Addr: 0x40}
		engine.Step()
		engine.Step()

		bridge.In.ARReady = true
		engine.Step()

		bridge.In = membridge.Inputs{}
		engine.Step()

		Expect(checker.Violations()).To(BeEmpty())
	})

	It("should flag a request retracted before its grant", func() {
		bridge.In = membridge.Inputs{Req: true, Addr: 0x40}
		engine.Step()

		bridge.In = membridge.Inputs{}
		engine.Step()

		Expect(checker.Violations()).To(HaveLen(1))
		Expect(checker.Violations()[0].Detail).
			To(ContainSubstring("retracted"))
		Expect(checker.Violations()[0].Cycle).To(Equal(uint64(1)))
	})

	It("should flag a pending request that moves", func() {
		bridge.In = membridge.Inputs{Req: true, Addr: 0x40}
		engine.Step()

		bridge.In.Addr = 0x80
		engine.Step()

		Expect(checker.Violations()).To(HaveLen(1))
		Expect(checker.Violations()[0].Detail).
			To(ContainSubstring("address or direction"))
	})

	It("should flag a pending write whose payload mutates", func() {
		bridge.In = membridge.Inputs{
			Req:   true,
			We:    true,
			Addr:  0x10,
			WData: 0x55,
			BE:    0xF,
		}
		engine.Step()

		bridge.In.WData = 0x56
		engine.Step()

		Expect(checker.Violations()).To(HaveLen(1))
		Expect(checker.Violations()[0].Detail).
			To(ContainSubstring("data or byte enables"))
	})

	It("should not hold reads to the write payload rule", func() {
		bridge.In = membridge.Inputs{Req: true, Addr: 0x40, WData: 0x55}
		engine.Step()

		bridge.In.WData = 0x56
		engine.Step()

		Expect(checker.Violations()).To(BeEmpty())
	})

	It("should keep watching after a violation", func() {
		bridge.In = membridge.Inputs{Req: true, Addr: 0x40}
		engine.Step()

		bridge.In = membridge.Inputs{}
		engine.Step()

		bridge.In = membridge.Inputs{Req: true, We: true, Addr: 0x10}
		engine.Step()

		bridge.In.We = false
		engine.Step()

		Expect(checker.Violations()).To(HaveLen(2))
	})
})
