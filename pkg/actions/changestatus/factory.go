package changestatus

import (
	"github.com/dukex/caseflow/pkg/models"
	"github.com/dukex/caseflow/pkg/persistence"
	"github.com/dukex/caseflow/pkg/protocol"
	"github.com/dukex/caseflow/pkg/transitions"
)

type Factory struct {
	cases     persistence.CaseStore
	validator *transitions.Validator
}

func NewFactory(cases persistence.CaseStore, validator *transitions.Validator) *Factory {
	return &Factory{
		cases:     cases,
		validator: validator,
	}
}

func (*Factory) ID() string {
	return string(models.ActionChangeStatus)
}

func (f *Factory) Create(params map[string]any) (protocol.Action, error) {
	return NewAction(params, f.cases, f.validator)
}
