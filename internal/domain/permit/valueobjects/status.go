package valueobjects

import "fmt"

type PermitStatus string

const (
	StatusPendingPIC     PermitStatus = "PENDING_PIC"
	StatusPendingManager PermitStatus = "PENDING_MANAGER"
	StatusApproved       PermitStatus = "APPROVED"
	StatusActive         PermitStatus = "ACTIVE"
	StatusCompleted      PermitStatus = "COMPLETED"
	StatusRejected       PermitStatus = "REJECTED"
	StatusCancelled      PermitStatus = "CANCELLED"
	StatusExpired        PermitStatus = "EXPIRED"
)

var permitStatusTransitions = map[PermitStatus][]PermitStatus{
	StatusPendingPIC: {
		StatusPendingManager,
		StatusRejected,
		StatusCancelled,
	},
	StatusPendingManager: {
		StatusApproved,
		StatusRejected,
		StatusCancelled,
	},
	StatusApproved: {
		StatusActive,
		StatusExpired,
	},
	StatusActive: {
		StatusCompleted,
	},
	StatusCompleted: {},
	StatusRejected:  {},
	StatusCancelled: {},
	StatusExpired:   {},
}

func (s PermitStatus) String() string {
	return string(s)
}

func (s PermitStatus) IsValid() bool {
	_, ok := permitStatusTransitions[s]
	return ok
}

func (s PermitStatus) CanTransitionTo(target PermitStatus) bool {
	for _, allowed := range permitStatusTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

func (s PermitStatus) IsTerminal() bool {
	return s.IsValid() && len(permitStatusTransitions[s]) == 0
}

// IsPending reports whether the permit is still in the approval chain.
func (s PermitStatus) IsPending() bool {
	return s == StatusPendingPIC || s == StatusPendingManager
}

// HoldsCredentials reports whether a permit in this status carries a live code and token.
func (s PermitStatus) HoldsCredentials() bool {
	return s == StatusApproved || s == StatusActive
}

// HasCheckedIn reports whether a permit in this status has an actual check-in time.
func (s PermitStatus) HasCheckedIn() bool {
	return s == StatusActive || s == StatusCompleted
}

func ParsePermitStatus(s string) (PermitStatus, error) {
	status := PermitStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid permit status: %s", s)
	}
	return status, nil
}

func AllStatuses() []PermitStatus {
	return []PermitStatus{
		StatusPendingPIC,
		StatusPendingManager,
		StatusApproved,
		StatusActive,
		StatusCompleted,
		StatusRejected,
		StatusCancelled,
		StatusExpired,
	}
}
