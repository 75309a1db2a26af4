package provider

// GroupState tracks what a collection group is doing on the wire. Each
// group (tasks; goals+applications+skills+settings) runs its own
// machine so the suppression logic stays auditable.
type GroupState int

const (
	StateIdle GroupState = iota
	StatePulling
	StatePushing
	StatePendingLocalEdit
)

func (s GroupState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePulling:
		return "pulling"
	case StatePushing:
		return "pushing"
	case StatePendingLocalEdit:
		return "pending-local-edit"
	default:
		return "unknown"
	}
}

// validTransitions is the explicit transition table. A local edit may
// interrupt anything except an in-flight push (the push finishes and
// the edit queues behind it); pulls and pushes always return to idle.
var validTransitions = map[GroupState]map[GroupState]bool{
	StateIdle: {
		StatePulling:          true,
		StatePendingLocalEdit: true,
	},
	StatePulling: {
		StateIdle:             true,
		StatePendingLocalEdit: true,
	},
	StatePushing: {
		StateIdle:             true,
		StatePendingLocalEdit: true,
	},
	StatePendingLocalEdit: {
		StatePushing:          true,
		StatePendingLocalEdit: true,
		StateIdle:             true,
	},
}
