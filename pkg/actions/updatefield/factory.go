package updatefield

import (
	"github.com/dukex/caseflow/pkg/models"
	"github.com/dukex/caseflow/pkg/persistence"
	"github.com/dukex/caseflow/pkg/protocol"
)

type Factory struct {
	cases persistence.CaseStore
}

func NewFactory(cases persistence.CaseStore) *Factory {
	return &Factory{cases: cases}
}

func (*Factory) ID() string {
	return string(models.ActionUpdateField)
}

func (f *Factory) Create(params map[string]any) (protocol.Action, error) {
	return NewAction(params, f.cases)
}
