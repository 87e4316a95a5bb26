// Package notify implements the send_notification action handler.
package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dukex/caseflow/pkg/models"
	"github.com/dukex/caseflow/pkg/protocol"
	"github.com/dukex/caseflow/pkg/retry"
	"github.com/dukex/caseflow/pkg/template"
)

const defaultChannel = "email"

// ErrNoRecipients is returned when the action parameters resolve to an
// empty recipient list.
var ErrNoRecipients = errors.New("send_notification requires at least one recipient")

// DispatchOutcome records one (recipient, channel) dispatch attempt.
type DispatchOutcome struct {
	Recipient string `json:"recipient"`
	Channel   string `json:"channel"`
	Success   bool   `json:"success"`
	Error     string `json:"error,omitempty"`
}

// Action dispatches a templated message to the cross product of recipients
// and channels. The action succeeds only when every dispatch succeeds;
// partial failure is recorded per pair.
type Action struct {
	Recipients []string
	Channels   []string
	Message    string
	Policy     retry.Policy

	notifier protocol.Notifier
}

func NewAction(params map[string]any, notifier protocol.Notifier, policy retry.Policy) (*Action, error) {
	recipients := stringList(params["recipients"])
	if recipient, ok := params["recipient"].(string); ok && recipient != "" {
		recipients = append(recipients, recipient)
	}

	if len(recipients) == 0 {
		return nil, ErrNoRecipients
	}

	channels := stringList(params["channels"])
	if len(channels) == 0 {
		channels = []string{defaultChannel}
	}

	message, _ := params["message"].(string)

	if attempts, ok := params["retryAttempts"].(float64); ok && attempts >= 1 {
		policy = retry.Fixed(int(attempts), time.Second)
	}

	return &Action{
		Recipients: recipients,
		Channels:   channels,
		Message:    message,
		Policy:     policy,
		notifier:   notifier,
	}, nil
}

func (a *Action) Execute(ctx context.Context, execCtx models.ExecutionContext, snapshot *models.CaseSnapshot) (*models.ActionResult, error) {
	logger := execCtx.Logger.With("action_type", models.ActionSendNotification)

	message := template.RenderWithCase(a.Message, snapshot, &execCtx)

	outcomes := make([]DispatchOutcome, 0, len(a.Recipients)*len(a.Channels))
	failed := 0

	for _, recipient := range a.Recipients {
		for _, channel := range a.Channels {
			outcome := DispatchOutcome{Recipient: recipient, Channel: channel, Success: true}

			err := a.Policy.Do(ctx, func() error {
				return a.notifier.Send(ctx, recipient, message, channel)
			})
			if err != nil {
				outcome.Success = false
				outcome.Error = err.Error()
				failed++

				logger.WarnContext(ctx, "Notification dispatch failed",
					"recipient", recipient, "channel", channel, "error", err)
			}

			outcomes = append(outcomes, outcome)
		}
	}

	result := &models.ActionResult{
		ActionType: models.ActionSendNotification,
		Success:    failed == 0,
		NewValue:   message,
		Output: map[string]any{
			"notifications": outcomes,
		},
	}

	if failed > 0 {
		result.Error = fmt.Sprintf("%d of %d notification dispatches failed", failed, len(outcomes))
	}

	return result, nil
}

func stringList(value any) []string {
	switch v := value.(type) {
	case []string:
		return v
	case []any:
		list := make([]string, 0, len(v))

		for _, item := range v {
			if s, ok := item.(string); ok && s != "" {
				list = append(list, s)
			}
		}

		return list
	default:
		return nil
	}
}
