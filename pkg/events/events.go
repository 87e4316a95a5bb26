// Package events defines event types and structures for case automation
// notifications.
package events

import (
	"time"

	"github.com/dukex/caseflow/pkg/models"
)

type EventType string

// Kafka topic carrying all case automation events.
const Topic = "caseflow.events"

const EventMetadataKey = "key"
const EventTypeMetadataKey = "event_type"

const (
	RuleExecutedEvent          EventType = "case.rule.executed"
	CaseEscalatedEvent         EventType = "case.escalated"
	NotificationRequestedEvent EventType = "notification.requested"
	SweepCompletedEvent        EventType = "sweep.completed"
)

type BaseEvent struct {
	ID        string         `json:"id"`
	Type      EventType      `json:"type"`
	Timestamp time.Time      `json:"timestamp"`
	CaseID    string         `json:"case_id,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// RuleExecuted is published after each rule finishes, success or not.
type RuleExecuted struct {
	BaseEvent

	RuleID      string             `json:"rule_id"`
	RuleName    string             `json:"rule_name"`
	TriggerType models.TriggerType `json:"trigger_type"`
	Success     bool               `json:"success"`
	ActionCount int                `json:"action_count"`
}

func (e RuleExecuted) GetType() EventType {
	return RuleExecutedEvent
}

// CaseEscalated is published when an escalation action raises a case's
// priority.
type CaseEscalated struct {
	BaseEvent

	OldPriority models.CasePriority `json:"old_priority"`
	NewPriority models.CasePriority `json:"new_priority"`
	Reason      string              `json:"reason,omitempty"`
}

func (e CaseEscalated) GetType() EventType {
	return CaseEscalatedEvent
}

// NotificationRequested is published by the bus-backed notifier so chat
// and email transports can consume dispatches off the bus.
type NotificationRequested struct {
	BaseEvent

	Recipient string `json:"recipient"`
	Channel   string `json:"channel"`
	Message   string `json:"message"`
}

func (e NotificationRequested) GetType() EventType {
	return NotificationRequestedEvent
}

// SweepCompleted summarizes one escalation sweep run.
type SweepCompleted struct {
	BaseEvent

	Sweep        string        `json:"sweep"`
	CasesChecked int           `json:"cases_checked"`
	CasesRaised  int           `json:"cases_raised"`
	Failures     int           `json:"failures"`
	Duration     time.Duration `json:"duration"`
}

func (e SweepCompleted) GetType() EventType {
	return SweepCompletedEvent
}
