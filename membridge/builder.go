package membridge

import (
	"log"

	"github.com/sarchlab/axibridge/queueing"
	"github.com/sarchlab/axibridge/sim"
)

// Builder builds memory-to-bus adapter engines.
type Builder struct {
	engine       *sim.Engine
	memAddrWidth int
	busAddrWidth int
	dataWidth    int
	maxOutstand  int
	prot         uint8
}

// MakeBuilder returns a Builder with default parameters.
func MakeBuilder() Builder {
	return Builder{
		memAddrWidth: 32,
		busAddrWidth: 32,
		dataWidth:    32,
		maxOutstand:  1,
	}
}

// WithEngine sets the engine the component to build registers with.
func (b Builder) WithEngine(engine *sim.Engine) Builder {
	b.engine = engine
	return b
}

// WithMemAddrWidth sets the width of the memory-side address, in bits.
func (b Builder) WithMemAddrWidth(width int) Builder {
	b.memAddrWidth = width
	return b
}

// WithBusAddrWidth sets the width of the bus-side address, in bits.
func (b Builder) WithBusAddrWidth(width int) Builder {
	b.busAddrWidth = width
	return b
}

// WithDataWidth sets the width of the data channels, in bits. Only 32 and 64
// are supported.
func (b Builder) WithDataWidth(width int) Builder {
	b.dataWidth = width
	return b
}

// WithMaxOutstanding sets how many granted requests may be awaiting their bus
// completion before grants are withheld.
func (b Builder) WithMaxOutstanding(n int) Builder {
	b.maxOutstand = n
	return b
}

// WithProt sets the fixed protection attribute driven on both address
// channels.
func (b Builder) WithProt(prot uint8) Builder {
	b.prot = prot
	return b
}

// Build builds the engine, validating the configuration once. A malformed
// configuration panics here; the component is never usable in that state.
func (b Builder) Build(name string) *Comp {
	sim.NameMustBeValid(name)
	b.configMustBeValid(name)

	c := &Comp{
		ModuleBase:  sim.NewModuleBase(name),
		prot:        b.prot,
		memAddrMask: widthMask(b.memAddrWidth),
		busAddrMask: widthMask(b.busAddrWidth),
	}

	c.selector = queueing.MakeBuilder().
		WithCapacity(b.maxOutstand).
		Build(name + ".SelectorQueue")

	if b.engine != nil {
		b.engine.Register(c)
	}

	return c
}

func (b Builder) configMustBeValid(name string) {
	if b.memAddrWidth < 1 || b.memAddrWidth > 64 {
		log.Panicf("%s: memory address width must be between 1 and 64 bits",
			name)
	}

	if b.busAddrWidth < 1 || b.busAddrWidth > 64 {
		log.Panicf("%s: bus address width must be between 1 and 64 bits",
			name)
	}

	if b.busAddrWidth < b.memAddrWidth {
		log.Panicf("%s: bus address width %d cannot be narrower than "+
			"memory address width %d",
			name, b.busAddrWidth, b.memAddrWidth)
	}

	switch b.dataWidth {
	case 32, 64:
	default:
		log.Panicf("%s: unsupported data width %d", name, b.dataWidth)
	}

	if b.maxOutstand < 1 {
		log.Panicf("%s: must allow at least one outstanding request", name)
	}
}

func widthMask(width int) uint64 {
	if width >= 64 {
		return ^uint64(0)
	}

	return (uint64(1) << uint(width)) - 1
}
