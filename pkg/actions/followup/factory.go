package followup

import (
	"github.com/dukex/caseflow/pkg/models"
	"github.com/dukex/caseflow/pkg/protocol"
)

type Factory struct {
	scheduler protocol.FollowupScheduler
}

func NewFactory(scheduler protocol.FollowupScheduler) *Factory {
	return &Factory{scheduler: scheduler}
}

func (*Factory) ID() string {
	return string(models.ActionScheduleFollowup)
}

func (f *Factory) Create(params map[string]any) (protocol.Action, error) {
	return NewAction(params, f.scheduler)
}
