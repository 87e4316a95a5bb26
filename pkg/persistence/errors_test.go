package persistence_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dukex/caseflow/pkg/persistence"
)

func TestStandardizedErrors(t *testing.T) {
	t.Parallel()

	t.Run("error constants are available", func(t *testing.T) {
		assert.NotNil(t, persistence.ErrCaseNotFound)
		assert.NotNil(t, persistence.ErrRuleNotFound)
		assert.NotNil(t, persistence.ErrStaleWrite)
	})

	t.Run("error checking functions work correctly", func(t *testing.T) {
		caseErr := persistence.NewStoreError("ReadCase", "case-123", persistence.ErrCaseNotFound)
		ruleErr := persistence.NewStoreError("DeleteRow", "rule-456", persistence.ErrRuleNotFound)

		assert.True(t, persistence.IsCaseNotFound(caseErr))
		assert.True(t, persistence.IsRuleNotFound(ruleErr))
		assert.False(t, persistence.IsRuleNotFound(caseErr))

		// Test error unwrapping
		assert.True(t, errors.Is(caseErr, persistence.ErrCaseNotFound))
		assert.True(t, errors.Is(ruleErr, persistence.ErrRuleNotFound))
	})

	t.Run("store error contains context", func(t *testing.T) {
		err := persistence.NewStoreError("UpdateCase", "case-123", persistence.ErrCaseNotFound)

		assert.Contains(t, err.Error(), "UpdateCase")
		assert.Contains(t, err.Error(), "case-123")
		assert.Contains(t, err.Error(), "case not found")
	})

	t.Run("store error without identifier", func(t *testing.T) {
		err := persistence.NewStoreError("Rows", "", errors.New("disk full"))

		assert.Contains(t, err.Error(), "Rows failed")
		assert.Contains(t, err.Error(), "disk full")
	})
}
