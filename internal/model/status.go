package model

// Status is a prospect's current pipeline stage, derived from its most
// recent interaction. It is never stored.
type Status string

// Status constants. StatusWaiting is the sentinel for prospects with no
// recorded interaction.
const (
	StatusWaiting    Status = "waiting"
	StatusCalled     Status = "called"
	StatusInterested Status = "interested"
	StatusCallback   Status = "callback"
	StatusRefused    Status = "refused"
	StatusRecruited  Status = "recruited"
)

// AllStatuses lists every status in pipeline display order.
var AllStatuses = []Status{
	StatusRecruited,
	StatusInterested,
	StatusCalled,
	StatusCallback,
	StatusRefused,
	StatusWaiting,
}

// Label returns the human-readable form of a status.
func (s Status) Label() string {
	switch s {
	case StatusWaiting:
		return "Waiting"
	case StatusCalled:
		return "Called"
	case StatusInterested:
		return "Interested"
	case StatusCallback:
		return "To call back"
	case StatusRefused:
		return "Refused"
	case StatusRecruited:
		return "Recruited"
	}
	return string(s)
}

// DeriveStatus computes the current status for a prospect from its
// interaction history, in any order. The result is the kind of the element
// maximal under (created_at desc, id desc), or StatusWaiting when the
// history is empty. It never assumes the input is pre-sorted.
func DeriveStatus(interactions []Interaction) Status {
	if len(interactions) == 0 {
		return StatusWaiting
	}
	latest := interactions[0]
	for _, it := range interactions[1:] {
		if MoreRecent(it, latest) {
			latest = it
		}
	}
	return Status(latest.Kind)
}

// LatestInteraction returns a copy of the most recent interaction under the
// recency key, or nil for an empty history.
func LatestInteraction(interactions []Interaction) *Interaction {
	if len(interactions) == 0 {
		return nil
	}
	latest := interactions[0]
	for _, it := range interactions[1:] {
		if MoreRecent(it, latest) {
			latest = it
		}
	}
	return &latest
}
