// Package engine orchestrates rule selection, action execution, and audit
// logging for one trigger event at a time.
package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dukex/caseflow/pkg/eventbus"
	"github.com/dukex/caseflow/pkg/events"
	"github.com/dukex/caseflow/pkg/models"
	"github.com/dukex/caseflow/pkg/otelhelper"
	"github.com/dukex/caseflow/pkg/persistence"
	"github.com/dukex/caseflow/pkg/registry"
	"github.com/dukex/caseflow/pkg/rules"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const defaultActionTimeout = 30 * time.Second

// Engine runs matching rules against a case snapshot, strictly in priority
// order, one action at a time. Execution is single-threaded and
// run-to-completion per invocation; all failure is captured in the returned
// result, never raised to the caller.
type Engine struct {
	selector      *rules.Selector
	registry      *registry.Registry
	history       persistence.ExecutionHistory
	publisher     eventbus.EventPublisher
	tracer        trace.Tracer
	actionTimeout time.Duration
	logger        *slog.Logger
}

type Option func(*Engine)

// WithActionTimeout bounds how long one action may spend in an external
// collaborator before it is recorded as failed.
func WithActionTimeout(timeout time.Duration) Option {
	return func(e *Engine) {
		e.actionTimeout = timeout
	}
}

// WithPublisher attaches an event bus publisher for rule execution events.
func WithPublisher(publisher eventbus.EventPublisher) Option {
	return func(e *Engine) {
		e.publisher = publisher
	}
}

// WithTracer attaches a tracer for per-invocation spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(e *Engine) {
		e.tracer = tracer
	}
}

func New(selector *rules.Selector, reg *registry.Registry, history persistence.ExecutionHistory, logger *slog.Logger, opts ...Option) *Engine {
	engine := &Engine{
		selector:      selector,
		registry:      reg,
		history:       history,
		actionTimeout: defaultActionTimeout,
		logger:        logger.With("module", "workflow_engine"),
	}

	for _, opt := range opts {
		opt(engine)
	}

	return engine
}

// Process runs every rule matching the trigger against the case snapshot.
// Rules execute in descending priority order; within a rule, actions run in
// declared order, and a failing action never stops its siblings.
func (e *Engine) Process(ctx context.Context, snapshot *models.CaseSnapshot, triggerType models.TriggerType, triggerData map[string]any) *models.ProcessResult {
	result := &models.ProcessResult{
		CaseID:      snapshot.ID,
		TriggerType: triggerType,
	}

	var span trace.Span

	if e.tracer != nil {
		ctx, span = otelhelper.StartSpan(ctx, e.tracer, "engine.process",
			attribute.String(otelhelper.CaseIDKey, snapshot.ID),
			attribute.String(otelhelper.TriggerTypeKey, string(triggerType)),
		)
		defer span.End()
	}

	execCtx := models.ExecutionContext{
		ID:          generateExecutionID(),
		CaseID:      snapshot.ID,
		TriggerType: triggerType,
		TriggerData: triggerData,
	}

	logger := e.logger.With(
		"execution_id", execCtx.ID,
		"case_id", snapshot.ID,
		"trigger_type", triggerType,
	)
	execCtx.Logger = logger

	logger.InfoContext(ctx, "Processing trigger event")

	selected, err := e.selector.Select(ctx, triggerType, snapshot)
	if err != nil {
		logger.ErrorContext(ctx, "Rule selection failed", "error", err)
		result.Error = fmt.Sprintf("rule selection failed: %v", err)

		if span != nil {
			otelhelper.SetError(span, err,
				attribute.String(otelhelper.CaseIDKey, snapshot.ID))
		}

		return result
	}

	if len(selected) == 0 {
		logger.DebugContext(ctx, "No rules match trigger")

		return result
	}

	for _, rule := range selected {
		ruleResult := e.executeRule(ctx, rule, execCtx, snapshot)
		result.RuleResults = append(result.RuleResults, ruleResult)
		result.ProcessedRules++

		e.recordRule(ctx, logger, snapshot.ID, rule, ruleResult)
		e.publishRuleExecuted(ctx, snapshot.ID, rule, ruleResult)
		e.publishCaseEscalated(ctx, snapshot.ID, ruleResult)
	}

	logger.InfoContext(ctx, "Trigger event processed",
		"processed_rules", result.ProcessedRules, "failed", result.Failed())

	return result
}

func (e *Engine) executeRule(ctx context.Context, rule *models.WorkflowRule, execCtx models.ExecutionContext, snapshot *models.CaseSnapshot) (ruleResult models.RuleResult) {
	ruleResult = models.RuleResult{
		RuleID:   rule.ID,
		RuleName: rule.Name,
		Success:  true,
	}

	// A defective rule must never take down the invocation; remaining
	// rules still run.
	defer func() {
		if r := recover(); r != nil {
			ruleResult.Success = false
			ruleResult.Error = fmt.Sprintf("rule execution panicked: %v", r)
		}
	}()

	logger := execCtx.Logger.With("rule_id", rule.ID, "rule_name", rule.Name)
	execCtx = *execCtx.WithLogger(logger)

	logger.InfoContext(ctx, "Executing rule", "actions", len(rule.Actions))

	for _, action := range rule.Actions {
		actionResult := e.runAction(ctx, action, execCtx, snapshot)
		if !actionResult.Success {
			ruleResult.Success = false
		}

		ruleResult.ActionResults = append(ruleResult.ActionResults, actionResult)
	}

	return ruleResult
}

// runAction executes one action with its own timeout and panic isolation.
func (e *Engine) runAction(ctx context.Context, action models.Action, execCtx models.ExecutionContext, snapshot *models.CaseSnapshot) (actionResult models.ActionResult) {
	defer func() {
		if r := recover(); r != nil {
			actionResult = models.ActionResult{
				ActionType: action.Type,
				Success:    false,
				Error:      fmt.Sprintf("action panicked: %v", r),
			}
		}
	}()

	handler, err := e.registry.CreateAction(string(action.Type), action.Parameters)
	if err != nil {
		return models.ActionResult{
			ActionType: action.Type,
			Success:    false,
			Error:      err.Error(),
		}
	}

	actionCtx, cancel := context.WithTimeout(ctx, e.actionTimeout)
	defer cancel()

	result, err := handler.Execute(actionCtx, execCtx, snapshot)
	if err != nil {
		message := err.Error()
		if errors.Is(err, context.DeadlineExceeded) {
			message = "timeout: " + message
		}

		return models.ActionResult{
			ActionType: action.Type,
			Success:    false,
			Error:      message,
		}
	}

	if result == nil {
		result = &models.ActionResult{ActionType: action.Type, Success: true}
	}

	return *result
}

// recordRule appends one execution record per action. Audit failures are
// logged but never fail the invocation.
func (e *Engine) recordRule(ctx context.Context, logger *slog.Logger, caseID string, rule *models.WorkflowRule, ruleResult models.RuleResult) {
	if e.history == nil {
		return
	}

	for _, actionResult := range ruleResult.ActionResults {
		record := &models.ExecutionRecord{
			ID:         uuid.NewString(),
			CaseID:     caseID,
			RuleID:     rule.ID,
			ActionType: actionResult.ActionType,
			OldValue:   stringify(actionResult.OldValue),
			NewValue:   stringify(actionResult.NewValue),
			ExecutedAt: time.Now().UTC(),
			ExecutedBy: models.SystemActor,
			Result:     models.ExecutionSuccess,
			Notes:      notesFor(actionResult),
		}

		if !actionResult.Success {
			record.Result = models.ExecutionFailed
		}

		if err := e.history.Append(ctx, record); err != nil {
			logger.WarnContext(ctx, "Failed to append execution record",
				"rule_id", rule.ID, "action_type", actionResult.ActionType, "error", err)
		}
	}
}

func (e *Engine) publishRuleExecuted(ctx context.Context, caseID string, rule *models.WorkflowRule, ruleResult models.RuleResult) {
	if e.publisher == nil {
		return
	}

	event := events.RuleExecuted{
		BaseEvent: events.BaseEvent{
			ID:        uuid.NewString(),
			Type:      events.RuleExecutedEvent,
			Timestamp: time.Now().UTC(),
			CaseID:    caseID,
		},
		RuleID:      rule.ID,
		RuleName:    rule.Name,
		TriggerType: rule.TriggerType,
		Success:     ruleResult.Success,
		ActionCount: len(ruleResult.ActionResults),
	}

	if err := e.publisher.Publish(ctx, caseID, event); err != nil {
		e.logger.WarnContext(ctx, "Failed to publish rule execution event",
			"rule_id", rule.ID, "error", err)
	}
}

// publishCaseEscalated emits one event per escalation action that actually
// raised the priority. Clamped no-ops stay silent.
func (e *Engine) publishCaseEscalated(ctx context.Context, caseID string, ruleResult models.RuleResult) {
	if e.publisher == nil {
		return
	}

	for _, actionResult := range ruleResult.ActionResults {
		if actionResult.ActionType != models.ActionEscalateCase || !actionResult.Success {
			continue
		}

		oldPriority := models.CasePriority(stringify(actionResult.OldValue))
		newPriority := models.CasePriority(stringify(actionResult.NewValue))

		if oldPriority == newPriority {
			continue
		}

		event := events.CaseEscalated{
			BaseEvent: events.BaseEvent{
				ID:        uuid.NewString(),
				Type:      events.CaseEscalatedEvent,
				Timestamp: time.Now().UTC(),
				CaseID:    caseID,
			},
			OldPriority: oldPriority,
			NewPriority: newPriority,
		}

		if err := e.publisher.Publish(ctx, caseID, event); err != nil {
			e.logger.WarnContext(ctx, "Failed to publish case escalated event",
				"case_id", caseID, "error", err)
		}
	}
}

func notesFor(actionResult models.ActionResult) string {
	if actionResult.Error != "" {
		return actionResult.Error
	}

	if len(actionResult.Output) == 0 {
		return ""
	}

	serialized, err := json.Marshal(actionResult.Output)
	if err != nil {
		return ""
	}

	return string(serialized)
}

func stringify(value any) string {
	if value == nil {
		return ""
	}

	if s, ok := value.(string); ok {
		return s
	}

	return fmt.Sprintf("%v", value)
}

// generateExecutionID generates a unique execution ID.
func generateExecutionID() string {
	return "exec-" + uuid.NewString()[:8]
}
