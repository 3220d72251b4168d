// Package conformance checks that a requester honors the memory-interface
// contract of the adapter engine. The engine's behavior under a violated
// contract is unspecified; the checker exists so that a test harness or a
// surrounding system can attribute such defects to the requester instead of
// the engine.
package conformance

import (
	"fmt"

	"github.com/sarchlab/axibridge/membridge"
	"github.com/sarchlab/axibridge/sim"
)

// A Violation is one observed breach of the requester contract. ID makes the
// violation referable across reports of the same run.
type Violation struct {
	ID     string
	Cycle  uint64
	Detail string
}

func (v Violation) String() string {
	return fmt.Sprintf("violation %s at cycle %d: %s", v.ID, v.Cycle, v.Detail)
}

// A Checker watches the memory side of one adapter engine across steps.
// Register it as an engine hook; it samples the settled signals of every
// step and records requester-side defects. It never alters the engines.
type Checker struct {
	bridge *membridge.Comp

	pending bool
	held    membridge.Inputs

	violations []Violation
}

// NewChecker creates a checker for the given adapter engine.
func NewChecker(bridge *membridge.Comp) *Checker {
	return &Checker{bridge: bridge}
}

// Func samples the adapter's signals at the end of each step.
func (c *Checker) Func(ctx sim.HookCtx) {
	if ctx.Pos != sim.HookPosStepEnd {
		return
	}

	cycle := ctx.Item.(uint64)
	in := c.bridge.In
	granted := c.bridge.Out.Gnt

	if c.pending {
		c.checkPendingRequest(cycle, in)
	}

	c.pending = in.Req && !granted
	if c.pending {
		c.held = in
	}
}

// checkPendingRequest verifies that an ungranted request of the previous step
// is still offered, unchanged.
func (c *Checker) checkPendingRequest(cycle uint64, in membridge.Inputs) {
	if !in.Req {
		c.record(cycle, "request retracted before grant")
		return
	}

	if in.Addr != c.held.Addr || in.We != c.held.We {
		c.record(cycle, "pending request changed address or direction")
		return
	}

	if c.held.We && (in.WData != c.held.WData || in.BE != c.held.BE) {
		c.record(cycle, "pending write changed data or byte enables")
	}
}

func (c *Checker) record(cycle uint64, detail string) {
	c.violations = append(c.violations, Violation{
		ID:     sim.GetIDGenerator().Generate(),
		Cycle:  cycle,
		Detail: detail,
	})
}

// Violations returns all requester-side defects observed so far.
func (c *Checker) Violations() []Violation {
	return c.violations
}
