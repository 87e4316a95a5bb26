package escalate

import (
	"github.com/dukex/caseflow/pkg/models"
	"github.com/dukex/caseflow/pkg/persistence"
	"github.com/dukex/caseflow/pkg/protocol"
)

type Factory struct {
	cases    persistence.CaseStore
	notifier protocol.Notifier
}

func NewFactory(cases persistence.CaseStore, notifier protocol.Notifier) *Factory {
	return &Factory{
		cases:    cases,
		notifier: notifier,
	}
}

func (*Factory) ID() string {
	return string(models.ActionEscalateCase)
}

func (f *Factory) Create(params map[string]any) (protocol.Action, error) {
	return NewAction(params, f.cases, f.notifier)
}
