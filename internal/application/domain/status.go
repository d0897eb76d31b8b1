package domain

// Status is the lifecycle state of a loan application.
type Status string

const (
	StatusNew                    Status = "NEW"
	StatusPreliminarilyAccepted  Status = "PRELIMINARILY_ACCEPTED"
	StatusAccepted               Status = "ACCEPTED"
	StatusRejected               Status = "REJECTED"
	StatusCancelled              Status = "CANCELLED"
	StatusContractReady          Status = "CONTRACT_READY"
	StatusSignedContractReceived Status = "SIGNED_CONTRACT_RECEIVED"
	StatusFinalApproved          Status = "FINAL_APPROVED"
	StatusGranted                Status = "GRANTED"
)

// transitions maps each status to its allowed successors. Terminal
// statuses have no successors.
var transitions = map[Status][]Status{
	StatusNew: {
		StatusPreliminarilyAccepted,
		StatusAccepted,
		StatusRejected,
		StatusCancelled,
	},
	StatusPreliminarilyAccepted: {
		StatusAccepted,
		StatusRejected,
		StatusCancelled,
	},
	StatusAccepted: {
		StatusContractReady,
		StatusRejected,
	},
	StatusContractReady: {
		StatusSignedContractReceived,
		StatusRejected,
	},
	StatusSignedContractReceived: {
		StatusFinalApproved,
		StatusRejected,
	},
	StatusFinalApproved: {
		StatusGranted,
		StatusRejected,
	},
}

// IsValid reports whether s is a known status value.
func (s Status) IsValid() bool {
	switch s {
	case StatusNew, StatusPreliminarilyAccepted, StatusAccepted, StatusRejected,
		StatusCancelled, StatusContractReady, StatusSignedContractReceived,
		StatusFinalApproved, StatusGranted:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition can leave s.
func (s Status) IsTerminal() bool {
	return len(transitions[s]) == 0 && s.IsValid()
}

// CanTransitionTo reports whether the move from s to next is allowed.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}
