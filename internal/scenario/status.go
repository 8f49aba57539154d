package scenario

// Status is the aggregate scenario status reported to the planning loop
// each cycle. It is recomputed every cycle from the current stage's outcome,
// never persisted.
type Status int

// Aggregate scenario statuses.
const (
	StatusUnknown Status = iota
	StatusProcessing
	StatusDone
)

func (s Status) String() string {
	switch s {
	case StatusUnknown:
		return "unknown"
	case StatusProcessing:
		return "processing"
	case StatusDone:
		return "done"
	default:
		return "unknown"
	}
}
