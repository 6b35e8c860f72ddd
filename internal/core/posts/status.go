package posts

// Status tracks where a listing is in its lifecycle
type Status string

const (
	StatusOpen     Status = "open"
	StatusClaimed  Status = "claimed"
	StatusResolved Status = "resolved"
)

// transitions lists the statuses reachable from each status.
// Resolved is terminal.
var transitions = map[Status][]Status{
	StatusOpen:    {StatusClaimed, StatusResolved},
	StatusClaimed: {StatusResolved, StatusOpen},
}

// ParseStatus converts a raw value into a Status
func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case StatusOpen, StatusClaimed, StatusResolved:
		return st, nil
	default:
		return "", NewValidationError("status", "must be one of: open, claimed, resolved")
	}
}

// CanTransitionTo reports whether a post may move from s to next
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}
