package sim

import "log"

// An Engine drives all registered modules with a single global step.
//
// Each step has two phases. First, every module evaluates: it reads its
// current-step inputs and its own state and produces outputs. Then every
// module commits: the state updates decided during evaluation are applied
// at once. Signals written by a testbench between steps are therefore seen
// by all modules in the same step, and no module can observe a neighbor's
// next-step state early.
type Engine struct {
	HookableBase

	modules []Module
	cycle   uint64
}

// NewEngine creates an engine with no modules registered.
func NewEngine() *Engine {
	return &Engine{}
}

// Register adds a module to the engine. Modules evaluate in registration
// order, but the two-phase update makes the order unobservable.
func (e *Engine) Register(m Module) {
	for _, registered := range e.modules {
		if registered.Name() == m.Name() {
			log.Panicf("module %s is already registered", m.Name())
		}
	}

	e.modules = append(e.modules, m)
}

// Step advances the simulation by one cycle.
func (e *Engine) Step() {
	if e.NumHooks() > 0 {
		e.InvokeHook(HookCtx{
			Domain: e,
			Pos:    HookPosStepBegin,
			Item:   e.cycle,
		})
	}

	for _, m := range e.modules {
		m.Eval()
	}

	if e.NumHooks() > 0 {
		e.InvokeHook(HookCtx{
			Domain: e,
			Pos:    HookPosStepEnd,
			Item:   e.cycle,
		})
	}

	for _, m := range e.modules {
		m.Commit()
	}

	e.cycle++
}

// StepN advances the simulation by n cycles.
func (e *Engine) StepN(n int) {
	for i := 0; i < n; i++ {
		e.Step()
	}
}

// Cycle returns the number of completed steps.
func (e *Engine) Cycle() uint64 {
	return e.cycle
}

// Modules returns the registered modules.
func (e *Engine) Modules() []Module {
	return e.modules
}
