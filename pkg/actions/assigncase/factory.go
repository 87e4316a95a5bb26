package assigncase

import (
	"github.com/dukex/caseflow/pkg/models"
	"github.com/dukex/caseflow/pkg/persistence"
	"github.com/dukex/caseflow/pkg/protocol"
)

type Factory struct {
	cases    persistence.CaseStore
	resolver protocol.AssignmentResolver
}

func NewFactory(cases persistence.CaseStore, resolver protocol.AssignmentResolver) *Factory {
	return &Factory{
		cases:    cases,
		resolver: resolver,
	}
}

func (*Factory) ID() string {
	return string(models.ActionAssignCase)
}

func (f *Factory) Create(params map[string]any) (protocol.Action, error) {
	return NewAction(params, f.cases, f.resolver)
}
