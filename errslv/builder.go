package errslv

import (
	"log"

	"github.com/sarchlab/axibridge/axi"
	"github.com/sarchlab/axibridge/queueing"
	"github.com/sarchlab/axibridge/sim"
)

// DefaultRespData is the pattern returned on every error read beat unless the
// builder overrides it.
const DefaultRespData = 0xBADCAB1E

// Builder builds error-responder engines.
type Builder struct {
	engine       *sim.Engine
	idWidth      int
	dataWidth    int
	maxTxns      int
	resp         axi.Resp
	respData     uint64
	supportAtops bool
}

// MakeBuilder returns a Builder with default parameters.
func MakeBuilder() Builder {
	return Builder{
		idWidth:   4,
		dataWidth: 64,
		maxTxns:   4,
		resp:      axi.RespDecErr,
		respData:  DefaultRespData,
	}
}

// WithEngine sets the engine the component to build registers with.
func (b Builder) WithEngine(engine *sim.Engine) Builder {
	b.engine = engine
	return b
}

// WithIDWidth sets the width of the transaction identifiers, in bits.
func (b Builder) WithIDWidth(width int) Builder {
	b.idWidth = width
	return b
}

// WithDataWidth sets the width of the data channels, in bits.
func (b Builder) WithDataWidth(width int) Builder {
	b.dataWidth = width
	return b
}

// WithMaxTransactions sets the number of outstanding transactions tracked per
// direction. Requests beyond the bound are held off with the ready lines.
func (b Builder) WithMaxTransactions(n int) Builder {
	b.maxTxns = n
	return b
}

// WithResp sets the error code returned on every completion. Only SLVERR and
// DECERR are legal.
func (b Builder) WithResp(resp axi.Resp) Builder {
	b.resp = resp
	return b
}

// WithRespData sets the fixed pattern returned on every read beat.
func (b Builder) WithRespData(data uint64) Builder {
	b.respData = data
	return b
}

// WithAtopSupport marks atomic-operation writes as filtered by an upstream
// collaborator, letting them pass as plain writes. Without it, an observed
// ATOP is a fatal contract violation by the caller.
func (b Builder) WithAtopSupport() Builder {
	b.supportAtops = true
	return b
}

// Build builds the engine, validating the configuration once. A malformed
// configuration panics here; the component is never usable in that state.
func (b Builder) Build(name string) *Comp {
	sim.NameMustBeValid(name)
	b.configMustBeValid(name)

	c := &Comp{
		ModuleBase:   sim.NewModuleBase(name),
		resp:         b.resp,
		respData:     b.respData,
		supportAtops: b.supportAtops,
	}

	c.writeIDs = queueing.MakeBuilder().
		WithCapacity(b.maxTxns).
		WithFallThrough().
		Build(name + ".WriteIDQueue")
	c.writeRsps = queueing.MakeBuilder().
		WithCapacity(b.maxTxns).
		WithFallThrough().
		Build(name + ".WriteRspQueue")
	c.reads = queueing.MakeBuilder().
		WithCapacity(b.maxTxns).
		WithFallThrough().
		Build(name + ".ReadQueue")

	if b.engine != nil {
		b.engine.Register(c)
	}

	return c
}

func (b Builder) configMustBeValid(name string) {
	if !b.resp.IsError() {
		log.Panicf("%s: response code must be SLVERR or DECERR, got %s",
			name, b.resp)
	}

	if b.idWidth < 1 || b.idWidth > 64 {
		log.Panicf("%s: id width must be between 1 and 64 bits", name)
	}

	switch b.dataWidth {
	case 8, 16, 32, 64:
	default:
		log.Panicf("%s: unsupported data width %d", name, b.dataWidth)
	}

	if b.dataWidth < 64 && b.respData>>uint(b.dataWidth) != 0 {
		log.Panicf("%s: response data %#x does not fit in %d bits",
			name, b.respData, b.dataWidth)
	}

	if b.maxTxns < 1 {
		log.Panicf("%s: must track at least one outstanding transaction",
			name)
	}
}
