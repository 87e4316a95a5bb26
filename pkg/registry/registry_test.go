package registry

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukex/caseflow/pkg/models"
	"github.com/dukex/caseflow/pkg/protocol"
)

type stubAction struct {
	params map[string]any
}

func (a *stubAction) Execute(_ context.Context, _ models.ExecutionContext, _ *models.CaseSnapshot) (*models.ActionResult, error) {
	return &models.ActionResult{ActionType: "stub", Success: true}, nil
}

type stubFactory struct {
	id string
}

func (f *stubFactory) ID() string {
	return f.id
}

func (f *stubFactory) Create(params map[string]any) (protocol.Action, error) {
	return &stubAction{params: params}, nil
}

func TestRegistry_CreateAction(t *testing.T) {
	reg := NewRegistry(slog.Default())
	reg.RegisterAction(&stubFactory{id: "add_comment"})

	action, err := reg.CreateAction("add_comment", map[string]any{"comment": "hi"})
	require.NoError(t, err)
	assert.NotNil(t, action)
}

func TestRegistry_CreateAction_Unregistered(t *testing.T) {
	reg := NewRegistry(slog.Default())

	_, err := reg.CreateAction("launch_rocket", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "action type 'launch_rocket' not registered")
}

func TestRegistry_RegisteredActions(t *testing.T) {
	reg := NewRegistry(slog.Default())
	assert.Empty(t, reg.RegisteredActions())

	reg.RegisterAction(&stubFactory{id: "add_comment"})
	reg.RegisterAction(&stubFactory{id: "change_status"})

	assert.ElementsMatch(t, []string{"add_comment", "change_status"}, reg.RegisteredActions())
}
