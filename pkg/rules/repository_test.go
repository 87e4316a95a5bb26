package rules

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukex/caseflow/pkg/mocks"
	"github.com/dukex/caseflow/pkg/models"
)

func validRow(id string, priority int) models.RuleRow {
	return models.RuleRow{
		ID:             id,
		Name:           "Rule " + id,
		TriggerType:    string(models.TriggerCaseCreated),
		ConditionsJSON: `{"priority": "High"}`,
		ActionsJSON:    `[{"type": "add_comment", "parameters": {"comment": "hi"}}]`,
		Priority:       priority,
		Enabled:        true,
		CreatedAt:      time.Now().UTC(),
	}
}

func TestRepository_Load(t *testing.T) {
	source := &mocks.MockRuleSource{}

	disabled := validRow("r2", 5)
	disabled.Enabled = false

	malformed := validRow("r3", 1)
	malformed.ActionsJSON = `[{"type": "add_comment"`

	source.On("Rows", context.Background()).
		Return([]models.RuleRow{validRow("r1", 10), disabled, malformed}, nil)

	repository := NewRepository(source, slog.Default())

	loaded, err := repository.Load(context.Background())
	require.NoError(t, err)

	// Disabled and malformed rows are skipped, not fatal.
	require.Len(t, loaded, 1)
	assert.Equal(t, "r1", loaded[0].ID)
	assert.Equal(t, models.TriggerCaseCreated, loaded[0].TriggerType)
	assert.Equal(t, "equals", loaded[0].Conditions["priority"].Operator)

	source.AssertExpectations(t)
}

func TestRepository_Load_SourceError(t *testing.T) {
	source := &mocks.MockRuleSource{}
	source.On("Rows", context.Background()).Return(nil, errors.New("connection refused"))

	repository := NewRepository(source, slog.Default())

	_, err := repository.Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read rule rows")
}

func TestRepository_CacheTTL(t *testing.T) {
	source := &mocks.MockRuleSource{}
	source.On("Rows", context.Background()).Return([]models.RuleRow{validRow("r1", 1)}, nil)

	clock := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	repository := NewRepository(source, slog.Default())
	repository.now = func() time.Time { return clock }

	_, err := repository.Load(context.Background())
	require.NoError(t, err)

	// Within the TTL the source is not consulted again.
	clock = clock.Add(9 * time.Minute)
	_, err = repository.Load(context.Background())
	require.NoError(t, err)
	source.AssertNumberOfCalls(t, "Rows", 1)

	// Past the TTL the next load re-reads the source.
	clock = clock.Add(2 * time.Minute)
	_, err = repository.Load(context.Background())
	require.NoError(t, err)
	source.AssertNumberOfCalls(t, "Rows", 2)
}

func TestRepository_Invalidate(t *testing.T) {
	source := &mocks.MockRuleSource{}
	source.On("Rows", context.Background()).Return([]models.RuleRow{validRow("r1", 1)}, nil)

	repository := NewRepository(source, slog.Default())

	_, err := repository.Load(context.Background())
	require.NoError(t, err)

	repository.Invalidate()

	_, err = repository.Load(context.Background())
	require.NoError(t, err)
	source.AssertNumberOfCalls(t, "Rows", 2)
}

func TestParseRow(t *testing.T) {
	t.Run("empty conditions default to match-all", func(t *testing.T) {
		row := validRow("r1", 1)
		row.ConditionsJSON = ""

		rule, err := ParseRow(row)
		require.NoError(t, err)
		assert.Empty(t, rule.Conditions)
	})

	t.Run("empty actions rejected", func(t *testing.T) {
		row := validRow("r1", 1)
		row.ActionsJSON = `[]`

		_, err := ParseRow(row)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrMalformedActions)

		var definitionErr *DefinitionError

		require.ErrorAs(t, err, &definitionErr)
		assert.Equal(t, "r1", definitionErr.RuleID)
	})

	t.Run("malformed conditions rejected", func(t *testing.T) {
		row := validRow("r1", 1)
		row.ConditionsJSON = `{"priority":`

		_, err := ParseRow(row)
		require.Error(t, err)
	})

	t.Run("unknown action type rejected by schema", func(t *testing.T) {
		row := validRow("r1", 1)
		row.ActionsJSON = `[{"type": "launch_rocket", "parameters": {}}]`

		_, err := ParseRow(row)
		require.Error(t, err)
	})

	t.Run("literal condition shorthand", func(t *testing.T) {
		row := validRow("r1", 1)
		row.ConditionsJSON = `{"status": "New"}`

		rule, err := ParseRow(row)
		require.NoError(t, err)
		assert.Equal(t, "equals", rule.Conditions["status"].Operator)
		assert.Equal(t, "New", rule.Conditions["status"].Value)
	})
}
