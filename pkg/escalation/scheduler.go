// Package escalation drives the time-based sweeps that feed synthetic
// trigger events into the workflow engine.
package escalation

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dukex/caseflow/pkg/engine"
	"github.com/dukex/caseflow/pkg/eventbus"
	"github.com/dukex/caseflow/pkg/events"
	"github.com/dukex/caseflow/pkg/models"
	"github.com/dukex/caseflow/pkg/persistence"
	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
)

// Default sweep cadences. The periodic check looks for unanswered new
// cases; the daily sweep escalates aging open cases.
const (
	DefaultPeriodicSpec = "*/15 * * * *"
	DefaultDailySpec    = "0 6 * * *"
)

// Thresholds hold the age limits that raise synthetic triggers.
type Thresholds struct {
	ResponseTime time.Duration
	Low          time.Duration
	Medium       time.Duration
	High         time.Duration
	Critical     time.Duration
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		ResponseTime: time.Hour,
		Low:          72 * time.Hour,
		Medium:       24 * time.Hour,
		High:         8 * time.Hour,
		Critical:     4 * time.Hour,
	}
}

func (t Thresholds) forPriority(priority models.CasePriority) (time.Duration, bool) {
	switch priority {
	case models.CasePriorityLow:
		return t.Low, t.Low > 0
	case models.CasePriorityMedium:
		return t.Medium, t.Medium > 0
	case models.CasePriorityHigh:
		return t.High, t.High > 0
	case models.CasePriorityCritical:
		return t.Critical, t.Critical > 0
	default:
		return 0, false
	}
}

// SweepSummary reports one sweep run.
type SweepSummary struct {
	Sweep        string
	CasesChecked int
	CasesRaised  int
	Failures     int
	Duration     time.Duration
}

// Scheduler owns the two sweep cadences. The cadences are independently
// scheduled and may overlap a long-running predecessor; SkipIfStillRunning
// keeps each cadence from stacking on itself, and every handler stays
// idempotent because overlap across cadences is still possible.
type Scheduler struct {
	engine      *engine.Engine
	cases       persistence.CaseStore
	publisher   eventbus.EventPublisher
	logger      *slog.Logger
	thresholds  Thresholds
	sweepBudget time.Duration
	now         func() time.Time

	periodicSpec string
	dailySpec    string
	cron         *cron.Cron
}

type Option func(*Scheduler)

// WithThresholds overrides the default age thresholds.
func WithThresholds(thresholds Thresholds) Option {
	return func(s *Scheduler) {
		s.thresholds = thresholds
	}
}

// WithSweepBudget bounds the wall-clock time of one sweep. The budget is
// checked between cases; a case already being processed always runs to
// completion.
func WithSweepBudget(budget time.Duration) Option {
	return func(s *Scheduler) {
		s.sweepBudget = budget
	}
}

// WithCronSpecs overrides the sweep cadences.
func WithCronSpecs(periodic, daily string) Option {
	return func(s *Scheduler) {
		s.periodicSpec = periodic
		s.dailySpec = daily
	}
}

// WithPublisher attaches an event bus publisher for sweep summaries.
func WithPublisher(publisher eventbus.EventPublisher) Option {
	return func(s *Scheduler) {
		s.publisher = publisher
	}
}

func NewScheduler(eng *engine.Engine, cases persistence.CaseStore, logger *slog.Logger, opts ...Option) *Scheduler {
	scheduler := &Scheduler{
		engine:       eng,
		cases:        cases,
		logger:       logger.With("module", "escalation_scheduler"),
		thresholds:   DefaultThresholds(),
		now:          time.Now,
		periodicSpec: DefaultPeriodicSpec,
		dailySpec:    DefaultDailySpec,
	}

	for _, opt := range opts {
		opt(scheduler)
	}

	return scheduler
}

// Start registers both sweep cadences and starts the cron loop.
func (s *Scheduler) Start(ctx context.Context) error {
	s.cron = cron.New(cron.WithChain(
		cron.SkipIfStillRunning(cron.DefaultLogger),
		cron.Recover(cron.DefaultLogger),
	))

	_, err := s.cron.AddFunc(s.periodicSpec, func() {
		s.OnPeriodicTick(context.WithoutCancel(ctx))
	})
	if err != nil {
		return fmt.Errorf("failed to register periodic sweep: %w", err)
	}

	_, err = s.cron.AddFunc(s.dailySpec, func() {
		s.OnDailyTick(context.WithoutCancel(ctx))
	})
	if err != nil {
		return fmt.Errorf("failed to register daily sweep: %w", err)
	}

	s.cron.Start()
	s.logger.Info("Escalation scheduler started",
		"periodic", s.periodicSpec, "daily", s.dailySpec)

	return nil
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

// OnPeriodicTick sweeps active cases for response-time breaches: a case
// still New past the response-time threshold raises response_time_exceeded.
// Safe to invoke more than once; every raised action is idempotent.
func (s *Scheduler) OnPeriodicTick(ctx context.Context) SweepSummary {
	return s.sweep(ctx, "periodic", s.cases.ListActiveCases, func(snapshot *models.CaseSnapshot, age time.Duration) (models.TriggerType, bool) {
		if snapshot.Status != models.CaseStatusNew {
			return "", false
		}

		if age <= s.thresholds.ResponseTime {
			return "", false
		}

		return models.TriggerResponseTimeExceeded, true
	})
}

// OnDailyTick sweeps escalation-eligible cases against the priority-based
// age thresholds. Cases whose next step is Critical (or that already are
// Critical) raise critical_escalation; the rest raise priority_escalation.
func (s *Scheduler) OnDailyTick(ctx context.Context) SweepSummary {
	return s.sweep(ctx, "daily", s.cases.ListCasesEligibleForEscalation, func(snapshot *models.CaseSnapshot, age time.Duration) (models.TriggerType, bool) {
		threshold, ok := s.thresholds.forPriority(snapshot.Priority)
		if !ok || age <= threshold {
			return "", false
		}

		if snapshot.Priority.StepUp(1) == models.CasePriorityCritical {
			return models.TriggerCriticalEscalation, true
		}

		return models.TriggerPriorityEscalation, true
	})
}

type triggerFunc func(snapshot *models.CaseSnapshot, age time.Duration) (models.TriggerType, bool)

type listFunc func(ctx context.Context) ([]*models.CaseSnapshot, error)

func (s *Scheduler) sweep(ctx context.Context, name string, list listFunc, decide triggerFunc) SweepSummary {
	summary := SweepSummary{Sweep: name}
	started := s.now()

	logger := s.logger.With("sweep", name)

	// The budget is a cutoff consulted between cases, never a context
	// deadline: an action in flight stays bounded only by the engine's
	// per-action timeout and always runs to completion.
	var cutoff time.Time
	if s.sweepBudget > 0 {
		cutoff = started.Add(s.sweepBudget)
	}

	cases, err := list(ctx)
	if err != nil {
		logger.Error("Failed to list cases for sweep", "error", err)
		summary.Failures++
		summary.Duration = s.now().Sub(started)

		return summary
	}

	for _, snapshot := range cases {
		if ctx.Err() != nil {
			logger.Warn("Sweep context cancelled, stopping early",
				"checked", summary.CasesChecked, "remaining", len(cases)-summary.CasesChecked)

			break
		}

		if !cutoff.IsZero() && !s.now().Before(cutoff) {
			logger.Warn("Sweep budget exhausted, stopping early",
				"checked", summary.CasesChecked, "remaining", len(cases)-summary.CasesChecked)

			break
		}

		summary.CasesChecked++

		age := s.now().Sub(snapshot.CreatedAt)

		triggerType, raise := decide(snapshot, age)
		if !raise {
			continue
		}

		summary.CasesRaised++

		result := s.engine.Process(ctx, snapshot, triggerType, map[string]any{
			"sweep":    name,
			"ageHours": int(age.Hours()),
		})

		// One case's failure never aborts the sweep over the rest.
		if result.Error != "" || result.Failed() {
			summary.Failures++

			logger.Warn("Sweep case processing reported failures",
				"case_id", snapshot.ID, "trigger_type", triggerType, "error", result.Error)
		}
	}

	summary.Duration = s.now().Sub(started)

	logger.Info("Sweep completed",
		"checked", summary.CasesChecked,
		"raised", summary.CasesRaised,
		"failures", summary.Failures,
		"duration", summary.Duration)

	s.publishSummary(ctx, summary)

	return summary
}

func (s *Scheduler) publishSummary(ctx context.Context, summary SweepSummary) {
	if s.publisher == nil {
		return
	}

	event := events.SweepCompleted{
		BaseEvent: events.BaseEvent{
			ID:        uuid.NewString(),
			Type:      events.SweepCompletedEvent,
			Timestamp: s.now().UTC(),
		},
		Sweep:        summary.Sweep,
		CasesChecked: summary.CasesChecked,
		CasesRaised:  summary.CasesRaised,
		Failures:     summary.Failures,
		Duration:     summary.Duration,
	}

	if err := s.publisher.Publish(ctx, summary.Sweep, event); err != nil {
		s.logger.Warn("Failed to publish sweep summary", "error", err)
	}
}
