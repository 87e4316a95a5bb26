package main

import (
	"context"
	"os"
	"time"

	"github.com/google/uuid"
	cli "github.com/urfave/cli/v3"

	"github.com/dukex/caseflow/pkg/cmd"
	"github.com/dukex/caseflow/pkg/conditions"
	"github.com/dukex/caseflow/pkg/engine"
	"github.com/dukex/caseflow/pkg/escalation"
	"github.com/dukex/caseflow/pkg/eventbus"
	"github.com/dukex/caseflow/pkg/log"
	"github.com/dukex/caseflow/pkg/otelhelper"
	"github.com/dukex/caseflow/pkg/protocol"
	"github.com/dukex/caseflow/pkg/rules"
)

func main() {
	command := &cli.Command{
		Name:                  "caseflow-scheduler",
		EnableShellCompletion: true,
		Usage:                 "Run the periodic and daily case escalation sweeps",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "scheduler-id",
				Aliases: []string{"id"},
				Usage:   "Custom scheduler ID (auto-generated if not provided)",
				Value:   "",
				Sources: cli.EnvVars("SCHEDULER_ID"),
			},
			&cli.StringFlag{
				Name:     "database-url",
				Usage:    "Database connection URL for persistence",
				Required: true,
				Sources:  cli.EnvVars("DATABASE_URL"),
			},
			&cli.StringFlag{
				Name:     "event-bus",
				Usage:    "Event bus provider (kafka, gochannel)",
				Required: true,
				Sources:  cli.EnvVars("EVENT_BUS_TYPE"),
			},
			&cli.StringFlag{
				Name:    "default-assignee",
				Usage:   "Fallback assignee for assignment actions without a literal target",
				Value:   "support-queue",
				Sources: cli.EnvVars("DEFAULT_ASSIGNEE"),
			},
			&cli.DurationFlag{
				Name:    "sweep-budget",
				Usage:   "Wall-clock budget for one sweep run",
				Value:   10 * time.Minute,
				Sources: cli.EnvVars("SWEEP_BUDGET"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
			&cli.BoolFlag{
				Name:    "tracing",
				Usage:   "Export OTLP traces for sweep processing",
				Sources: cli.EnvVars("TRACING_ENABLED"),
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"))

			schedulerID := command.String("scheduler-id")
			if schedulerID == "" {
				schedulerID = "scheduler-" + uuid.New().String()[:8]
			}

			logger := log.WithModule("caseflow-scheduler").With("schedulerId", schedulerID)

			logger.InfoContext(ctx, "Initializing Caseflow Scheduler")

			bus := cmd.NewEventBus(command.String("event-bus"), logger)
			defer func() {
				if err := bus.Close(); err != nil {
					logger.ErrorContext(ctx, "Failed to close event bus", "error", err)
				}
			}()

			store := cmd.NewPersistence(command.String("database-url"))
			defer func() {
				if err := store.Close(ctx); err != nil {
					logger.ErrorContext(ctx, "Failed to close persistence", "error", err)
				}
			}()

			notifier := eventbus.NewBusNotifier(bus)
			resolver := protocol.StaticAssignmentResolver(command.String("default-assignee"))
			registry := cmd.NewRegistry(logger, store, notifier, resolver)

			repository := rules.NewRepository(store.RuleSource(), logger)
			evaluator := conditions.NewEvaluator(logger)
			selector := rules.NewSelector(repository, evaluator)

			engineOpts := []engine.Option{engine.WithPublisher(bus)}

			if command.Bool("tracing") {
				tracer, err := otelhelper.NewTracer(ctx, "caseflow-scheduler")
				if err != nil {
					return err
				}

				engineOpts = append(engineOpts, engine.WithTracer(tracer))
			}

			eng := engine.New(selector, registry, store.ExecutionHistory(), logger,
				engineOpts...)

			scheduler := escalation.NewScheduler(eng, store.CaseStore(), logger,
				escalation.WithPublisher(bus),
				escalation.WithSweepBudget(command.Duration("sweep-budget")))

			daemon := NewDaemon(schedulerID, scheduler, logger)

			if err := daemon.Start(ctx); err != nil {
				logger.ErrorContext(ctx, "Failed to start escalation daemon", "error", err)
			}

			return nil
		},
	}

	if err := command.Run(context.Background(), os.Args); err != nil {
		panic(err)
	}
}
