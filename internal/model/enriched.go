package model

// ProspectWithStatus is a prospect enriched with its derived pipeline state.
// Built by the fetch coordinator when a snapshot is assembled.
type ProspectWithStatus struct {
	LastInteraction *Interaction
	Status          Status
	Prospect
}
