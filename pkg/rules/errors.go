// Package rules loads workflow rules from the tabular store and selects
// the ones applicable to a trigger event.
package rules

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyActions indicates a rule definition with no actions. An
	// enabled rule with zero actions is a no-op and is flagged, never
	// silently accepted.
	ErrEmptyActions = errors.New("rule has no actions")

	// ErrMalformedConditions indicates a rule row whose conditions payload
	// failed to parse or validate.
	ErrMalformedConditions = errors.New("malformed conditions payload")

	// ErrMalformedActions indicates a rule row whose actions payload failed
	// to parse or validate.
	ErrMalformedActions = errors.New("malformed actions payload")
)

// DefinitionError flags a defective rule definition. Definition errors are
// recovered locally: the rule is skipped and loading continues.
type DefinitionError struct {
	RuleID string
	Err    error
}

func (e *DefinitionError) Error() string {
	return fmt.Sprintf("invalid rule definition %s: %v", e.RuleID, e.Err)
}

func (e *DefinitionError) Unwrap() error {
	return e.Err
}

func (e *DefinitionError) Is(target error) bool {
	return errors.Is(e.Err, target)
}
