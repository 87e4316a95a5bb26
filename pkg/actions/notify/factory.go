package notify

import (
	"github.com/dukex/caseflow/pkg/models"
	"github.com/dukex/caseflow/pkg/protocol"
	"github.com/dukex/caseflow/pkg/retry"
)

type Factory struct {
	notifier protocol.Notifier
	policy   retry.Policy
}

func NewFactory(notifier protocol.Notifier, policy retry.Policy) *Factory {
	return &Factory{
		notifier: notifier,
		policy:   policy,
	}
}

func (*Factory) ID() string {
	return string(models.ActionSendNotification)
}

func (f *Factory) Create(params map[string]any) (protocol.Action, error) {
	return NewAction(params, f.notifier, f.policy)
}
