package sim

// A Module is a synchronous block that is evaluated once per step.
//
// Within a step, Eval must derive the module's outputs and next state purely
// from its current inputs and current state. Commit applies the state update
// decided during Eval. No module may observe another module's committed state
// of the same step before its own Eval returns.
type Module interface {
	Named

	// Eval computes the module's outputs and stages its next state.
	Eval()

	// Commit applies the staged state atomically at the step boundary.
	Commit()
}

// ModuleBase provides the name bookkeeping shared by all modules.
type ModuleBase struct {
	HookableBase

	name string
}

// NewModuleBase creates a new ModuleBase.
func NewModuleBase(name string) *ModuleBase {
	NameMustBeValid(name)

	return &ModuleBase{name: name}
}

// Name returns the name of the module.
func (m *ModuleBase) Name() string {
	return m.name
}
