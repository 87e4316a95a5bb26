package main

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukex/caseflow/pkg/models"
	"github.com/dukex/caseflow/pkg/persistence/file"
	"github.com/dukex/caseflow/pkg/registry"
	"github.com/dukex/caseflow/pkg/rules"
)

func setupTestApp(tempDir string) (*fiber.App, *file.Persistence) {
	persistence := file.NewPersistence(tempDir)
	repository := rules.NewRepository(persistence.RuleSource(), slog.Default())

	api := NewAPI(
		slog.Default(),
		persistence,
		registry.NewRegistry(slog.Default()),
		repository,
	)

	return api.App(), persistence
}

func closeBody(t *testing.T, resp *http.Response) {
	t.Helper()

	if err := resp.Body.Close(); err != nil {
		t.Logf("Failed to close response body: %v", err)
	}
}

func createRuleBody() string {
	return `{
		"name": "auto-assign new cases",
		"trigger_type": "case_created",
		"conditions": {"priority": "High"},
		"actions": [{"type": "assign_case", "parameters": {"assignee": "triage"}}],
		"priority": 5,
		"enabled": true,
		"created_by": "admin"
	}`
}

func TestAPI_RootEndpoint(t *testing.T) {
	app, _ := setupTestApp(t.TempDir())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	defer closeBody(t, resp)

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "Caseflow API", string(body))
}

func TestAPI_Liveness(t *testing.T) {
	app, _ := setupTestApp(t.TempDir())

	req := httptest.NewRequest(http.MethodGet, "/livez", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	defer closeBody(t, resp)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAPI_GetRules_Empty(t *testing.T) {
	app, _ := setupTestApp(t.TempDir())

	req := httptest.NewRequest(http.MethodGet, "/rules/", nil)
	req.Header.Set("Accept", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)

	defer closeBody(t, resp)

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var list []models.WorkflowRule

	err = json.NewDecoder(resp.Body).Decode(&list)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestAPI_CreateAndGetRule(t *testing.T) {
	app, _ := setupTestApp(t.TempDir())

	req := httptest.NewRequest(http.MethodPost, "/rules/", strings.NewReader(createRuleBody()))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)

	defer closeBody(t, resp)

	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var created models.WorkflowRule

	err = json.NewDecoder(resp.Body).Decode(&created)
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "auto-assign new cases", created.Name)
	assert.Equal(t, models.TriggerCaseCreated, created.TriggerType)
	require.Len(t, created.Actions, 1)
	assert.Equal(t, models.ActionAssignCase, created.Actions[0].Type)

	// Literal condition shorthand parses to an equality clause.
	assert.Equal(t, "equals", created.Conditions["priority"].Operator)

	req = httptest.NewRequest(http.MethodGet, "/rules/"+created.ID, nil)
	req.Header.Set("Accept", "application/json")
	resp, err = app.Test(req)
	require.NoError(t, err)

	defer closeBody(t, resp)

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var fetched models.WorkflowRule

	err = json.NewDecoder(resp.Body).Decode(&fetched)
	require.NoError(t, err)
	assert.Equal(t, created.ID, fetched.ID)
	assert.Equal(t, 5, fetched.Priority)
}

func TestAPI_CreateRule_InvalidBody(t *testing.T) {
	app, _ := setupTestApp(t.TempDir())

	req := httptest.NewRequest(http.MethodPost, "/rules/", strings.NewReader(`{"name": "x"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)

	defer closeBody(t, resp)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAPI_CreateRule_UnknownTrigger(t *testing.T) {
	app, _ := setupTestApp(t.TempDir())

	body := `{
		"name": "bad trigger rule",
		"trigger_type": "full_moon",
		"actions": [{"type": "add_comment", "parameters": {"comment": "hi"}}]
	}`

	req := httptest.NewRequest(http.MethodPost, "/rules/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)

	defer closeBody(t, resp)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAPI_UpdateRule(t *testing.T) {
	app, _ := setupTestApp(t.TempDir())

	req := httptest.NewRequest(http.MethodPost, "/rules/", strings.NewReader(createRuleBody()))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)

	defer closeBody(t, resp)

	var created models.WorkflowRule
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))

	req = httptest.NewRequest(http.MethodPatch, "/rules/"+created.ID, strings.NewReader(`{"priority": 42}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req)
	require.NoError(t, err)

	defer closeBody(t, resp)

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var updated models.WorkflowRule

	err = json.NewDecoder(resp.Body).Decode(&updated)
	require.NoError(t, err)
	assert.Equal(t, 42, updated.Priority)
	assert.Equal(t, created.Name, updated.Name)
}

func TestAPI_DeleteRule(t *testing.T) {
	app, _ := setupTestApp(t.TempDir())

	req := httptest.NewRequest(http.MethodPost, "/rules/", strings.NewReader(createRuleBody()))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)

	defer closeBody(t, resp)

	var created models.WorkflowRule
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))

	req = httptest.NewRequest(http.MethodDelete, "/rules/"+created.ID, nil)
	resp, err = app.Test(req)
	require.NoError(t, err)

	defer closeBody(t, resp)

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	req = httptest.NewRequest(http.MethodGet, "/rules/"+created.ID, nil)
	resp, err = app.Test(req)
	require.NoError(t, err)

	defer closeBody(t, resp)

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAPI_GetRule_NotFound(t *testing.T) {
	app, _ := setupTestApp(t.TempDir())

	req := httptest.NewRequest(http.MethodGet, "/rules/non-existent-rule", nil)
	req.Header.Set("Accept", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)

	defer closeBody(t, resp)

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAPI_GetCaseHistory(t *testing.T) {
	tempDir := t.TempDir()
	app, persistence := setupTestApp(tempDir)

	record := &models.ExecutionRecord{
		ID:         "exec-1",
		CaseID:     "case-1",
		RuleID:     "rule-1",
		ActionType: models.ActionAddComment,
		ExecutedAt: time.Now().UTC(),
		ExecutedBy: models.SystemActor,
		Result:     models.ExecutionSuccess,
	}
	require.NoError(t, persistence.ExecutionHistory().Append(context.Background(), record))

	req := httptest.NewRequest(http.MethodGet, "/cases/case-1/history?limit=10", nil)
	req.Header.Set("Accept", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)

	defer closeBody(t, resp)

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var records []models.ExecutionRecord

	err = json.NewDecoder(resp.Body).Decode(&records)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "exec-1", records[0].ID)
	assert.Equal(t, models.SystemActor, records[0].ExecutedBy)
}

func TestAPI_GetCaseHistory_InvalidLimit(t *testing.T) {
	app, _ := setupTestApp(t.TempDir())

	req := httptest.NewRequest(http.MethodGet, "/cases/case-1/history?limit=ten", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	defer closeBody(t, resp)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAPI_CORS_Headers(t *testing.T) {
	app, _ := setupTestApp(t.TempDir())

	req := httptest.NewRequest(http.MethodOptions, "/rules/", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "GET")
	resp, err := app.Test(req)
	require.NoError(t, err)

	defer closeBody(t, resp)

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestAPI_Health(t *testing.T) {
	app, _ := setupTestApp(t.TempDir())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Accept", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)

	defer closeBody(t, resp)

	// No actions registered in the bare test registry, so the service
	// reports unhealthy even with a reachable store.
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	var payload map[string]any

	err = json.NewDecoder(resp.Body).Decode(&payload)
	require.NoError(t, err)
	assert.Equal(t, "unhealthy", payload["status"])
}
