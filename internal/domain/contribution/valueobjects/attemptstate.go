package valueobjects

// AttemptState is the orchestrator state of a single contribution attempt.
type AttemptState string

const (
	AttemptStateIdle                  AttemptState = "idle"
	AttemptStateValidating            AttemptState = "validating"
	AttemptStateCreatingOrder         AttemptState = "creating_order"
	AttemptStateAwaitingGatewayResult AttemptState = "awaiting_gateway_result"
	AttemptStateVerifying             AttemptState = "verifying"
	AttemptStateSucceeded             AttemptState = "succeeded"
	AttemptStateFailed                AttemptState = "failed"
	AttemptStateCancelled             AttemptState = "cancelled"
)

// attemptTransitions lists every legal edge. There is deliberately no edge from
// AwaitingGatewayResult to Succeeded.
var attemptTransitions = map[AttemptState][]AttemptState{
	AttemptStateIdle:                  {AttemptStateValidating},
	AttemptStateValidating:            {AttemptStateCreatingOrder, AttemptStateFailed},
	AttemptStateCreatingOrder:         {AttemptStateAwaitingGatewayResult, AttemptStateFailed},
	AttemptStateAwaitingGatewayResult: {AttemptStateVerifying, AttemptStateCancelled, AttemptStateFailed},
	AttemptStateVerifying:             {AttemptStateSucceeded, AttemptStateFailed},
}

func (s AttemptState) IsValid() bool {
	switch s {
	case AttemptStateIdle, AttemptStateValidating, AttemptStateCreatingOrder,
		AttemptStateAwaitingGatewayResult, AttemptStateVerifying,
		AttemptStateSucceeded, AttemptStateFailed, AttemptStateCancelled:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether the attempt has finished.
func (s AttemptState) IsTerminal() bool {
	return s == AttemptStateSucceeded || s == AttemptStateFailed || s == AttemptStateCancelled
}

// IsInProgress reports whether a new submission must be rejected.
func (s AttemptState) IsInProgress() bool {
	return s.IsValid() && s != AttemptStateIdle && !s.IsTerminal()
}

// CanTransitionTo reports whether next is a legal successor of s.
func (s AttemptState) CanTransitionTo(next AttemptState) bool {
	for _, allowed := range attemptTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s AttemptState) String() string {
	return string(s)
}
