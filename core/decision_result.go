package core

// DecisionResult represents the outcome of a business decision in a Decide
// function.
//
// DecisionResult should only be constructed using the provided factory
// methods: IdempotentDecision(), SuccessDecision(event), or
// ErrorDecision(err).
type DecisionResult struct {
	Outcome string      // "idempotent", "success", or "error"
	Event   DomainEvent // nil for idempotent and error decisions
	Err     error
}

const (
	idempotentOutcome = "idempotent"
	successOutcome    = "success"
	errorOutcome      = "error"
)

// IdempotentDecision creates a DecisionResult indicating no state change is needed.
func IdempotentDecision() DecisionResult {
	return DecisionResult{
		Outcome: idempotentOutcome,
	}
}

// SuccessDecision creates a DecisionResult carrying the event describing the
// state change to apply.
func SuccessDecision(event DomainEvent) DecisionResult {
	return DecisionResult{
		Outcome: successOutcome,
		Event:   event,
	}
}

// ErrorDecision creates a DecisionResult indicating a business rule
// violation. No state is mutated for error decisions.
func ErrorDecision(err error) DecisionResult {
	return DecisionResult{
		Outcome: errorOutcome,
		Err:     err,
	}
}

// IsIdempotent reports whether the decision requires no state change.
func (r DecisionResult) IsIdempotent() bool {
	return r.Outcome == idempotentOutcome
}

// HasError returns the error if there is one, otherwise nil.
func (r DecisionResult) HasError() error {
	if r.Outcome == errorOutcome {
		return r.Err
	}

	return nil
}
