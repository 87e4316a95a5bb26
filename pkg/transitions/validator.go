// Package transitions validates case status changes against the fixed
// lifecycle graph.
package transitions

import (
	"errors"
	"fmt"

	"github.com/dukex/caseflow/pkg/models"
)

// ErrInvalidTransition is returned when a proposed status change is not an
// edge of the lifecycle graph.
var ErrInvalidTransition = errors.New("status transition not allowed")

// graph is configuration, not user data: every status-changing action is
// validated against it.
var graph = map[models.CaseStatus][]models.CaseStatus{
	models.CaseStatusNew: {
		models.CaseStatusAssigned,
		models.CaseStatusInProgress,
		models.CaseStatusEscalated,
	},
	models.CaseStatusAssigned: {
		models.CaseStatusInProgress,
		models.CaseStatusOnHold,
		models.CaseStatusEscalated,
	},
	models.CaseStatusInProgress: {
		models.CaseStatusPendingReview,
		models.CaseStatusOnHold,
		models.CaseStatusEscalated,
		models.CaseStatusResolved,
	},
	models.CaseStatusPendingReview: {
		models.CaseStatusInProgress,
		models.CaseStatusResolved,
	},
	models.CaseStatusOnHold: {
		models.CaseStatusInProgress,
		models.CaseStatusEscalated,
	},
	models.CaseStatusEscalated: {
		models.CaseStatusInProgress,
		models.CaseStatusResolved,
	},
	models.CaseStatusResolved: {
		models.CaseStatusClosed,
		models.CaseStatusReopened,
	},
	models.CaseStatusClosed: {
		models.CaseStatusReopened,
	},
	models.CaseStatusReopened: {
		models.CaseStatusAssigned,
		models.CaseStatusInProgress,
		models.CaseStatusEscalated,
	},
}

type Validator struct{}

func NewValidator() *Validator {
	return &Validator{}
}

// IsAllowed reports whether from -> to is an edge of the lifecycle graph.
// A same-status transition is allowed so that re-applying a status change
// is a no-op rather than an error.
func (v *Validator) IsAllowed(from, to models.CaseStatus) bool {
	if from == to {
		return true
	}

	for _, next := range graph[from] {
		if next == to {
			return true
		}
	}

	return false
}

// Validate returns ErrInvalidTransition when from -> to is not allowed.
func (v *Validator) Validate(from, to models.CaseStatus) error {
	if !v.IsAllowed(from, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}

	return nil
}

// KnownStatus reports whether the status is a member of the lifecycle graph.
func (v *Validator) KnownStatus(status models.CaseStatus) bool {
	if _, ok := graph[status]; ok {
		return true
	}

	for _, targets := range graph {
		for _, target := range targets {
			if target == status {
				return true
			}
		}
	}

	return false
}
