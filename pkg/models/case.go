// Package models defines the core domain models for support-case workflow automation
package models

import (
	"fmt"
	"time"
)

// CaseStatus represents the lifecycle state of a support case.
type CaseStatus string

const (
	CaseStatusNew           CaseStatus = "New"
	CaseStatusAssigned      CaseStatus = "Assigned"
	CaseStatusInProgress    CaseStatus = "InProgress"
	CaseStatusPendingReview CaseStatus = "PendingReview"
	CaseStatusOnHold        CaseStatus = "OnHold"
	CaseStatusEscalated     CaseStatus = "Escalated"
	CaseStatusResolved      CaseStatus = "Resolved"
	CaseStatusClosed        CaseStatus = "Closed"
	CaseStatusReopened      CaseStatus = "Reopened"
)

// CasePriority represents the urgency of a case. Priorities form a fixed
// ordered ladder used by escalation.
type CasePriority string

const (
	CasePriorityLow      CasePriority = "Low"
	CasePriorityMedium   CasePriority = "Medium"
	CasePriorityHigh     CasePriority = "High"
	CasePriorityCritical CasePriority = "Critical"
)

var priorityLadder = []CasePriority{
	CasePriorityLow,
	CasePriorityMedium,
	CasePriorityHigh,
	CasePriorityCritical,
}

// Rank returns the position of the priority on the ladder, or -1 for an
// unknown priority.
func (p CasePriority) Rank() int {
	for i, candidate := range priorityLadder {
		if candidate == p {
			return i
		}
	}

	return -1
}

// StepUp returns the priority `steps` rungs above p, clamped at Critical.
// An unknown priority is returned unchanged.
func (p CasePriority) StepUp(steps int) CasePriority {
	rank := p.Rank()
	if rank < 0 || steps <= 0 {
		return p
	}

	rank += steps
	if rank >= len(priorityLadder) {
		rank = len(priorityLadder) - 1
	}

	return priorityLadder[rank]
}

// CaseSnapshot is the subset of case fields the engine reads and writes,
// independent of the underlying tabular store.
type CaseSnapshot struct {
	ID           string         `json:"id"`
	Status       CaseStatus     `json:"status"`
	Priority     CasePriority   `json:"priority"`
	Assignee     string         `json:"assignee"`
	CreatedAt    time.Time      `json:"created_at"`
	LastModified time.Time      `json:"last_modified"`
	Fields       map[string]any `json:"fields,omitempty"`
}

// Field resolves a named field against the snapshot: well-known columns
// first, then the free-form field map.
func (c *CaseSnapshot) Field(name string) (any, bool) {
	switch name {
	case "id", "caseId":
		return c.ID, true
	case "status":
		return string(c.Status), true
	case "priority":
		return string(c.Priority), true
	case "assignee":
		return c.Assignee, true
	case "createdAt":
		return c.CreatedAt, true
	}

	if c.Fields != nil {
		value, ok := c.Fields[name]

		return value, ok
	}

	return nil, false
}

// CaseUpdate is a partial set of case fields to persist.
type CaseUpdate map[string]any

// Apply maps the update onto the snapshot: well-known columns first,
// everything else into the free-form field map. Every store backend goes
// through this so the column list cannot drift between them.
func (u CaseUpdate) Apply(snapshot *CaseSnapshot) {
	for name, value := range u {
		switch name {
		case "status":
			snapshot.Status = CaseStatus(fmt.Sprintf("%v", value))
		case "priority":
			snapshot.Priority = CasePriority(fmt.Sprintf("%v", value))
		case "assignee":
			snapshot.Assignee = fmt.Sprintf("%v", value)
		case "lastModified":
			if ts, ok := value.(time.Time); ok {
				snapshot.LastModified = ts
			}
		default:
			if snapshot.Fields == nil {
				snapshot.Fields = map[string]any{}
			}

			snapshot.Fields[name] = value
		}
	}
}

// CommentRecord is one entry in a case's comment log.
type CommentRecord struct {
	CaseID    string    `json:"case_id"`
	Author    string    `json:"author"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// FollowupRecord is a scheduled follow-up hand-off for the external
// scheduling collaborator.
type FollowupRecord struct {
	CaseID       string    `json:"case_id"`
	FollowupDate time.Time `json:"followup_date"`
	FollowupType string    `json:"followup_type"`
	Assignee     string    `json:"assignee"`
}
