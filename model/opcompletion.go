package model

// OpCompletion is the operation-specific payload decoded from a run, prior
// to being paired with its terminal OpStatus.
type OpCompletion interface {
	isOpCompletion()
}

type MetaCompletion struct {
	Meta Meta
}

func (MetaCompletion) isOpCompletion() {}

type DepsCompletion struct {
	Dependencies Dependencies
}

func (DepsCompletion) isOpCompletion() {}

type CheckCompletion struct {
	Present bool
	Emitted *ValueSet
}

func (CheckCompletion) isOpCompletion() {}

type ApplyCompletion struct {
	Emitted *ValueSet
}

func (ApplyCompletion) isOpCompletion() {}

type RemoveCompletion struct {
	Emitted *ValueSet
}

func (RemoveCompletion) isOpCompletion() {}

// OpResult pairs a decoded completion with the terminal status that ended
// the operation. A Failed status may still carry a completion for the
// emitted values observed before the nonzero status arrived.
type OpResult struct {
	Status     OpStatus
	Completion OpCompletion
}
