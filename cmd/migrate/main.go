package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	stripeAdapter "github.com/iho/ledgersync/internal/adapter/stripe"
	xeroAdapter "github.com/iho/ledgersync/internal/adapter/xero"
	"github.com/iho/ledgersync/internal/infrastructure/config"
	"github.com/iho/ledgersync/internal/infrastructure/logger"
	"github.com/iho/ledgersync/internal/infrastructure/metrics"
	"github.com/iho/ledgersync/internal/infrastructure/xeroauth"
	"github.com/iho/ledgersync/internal/usecase"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var dryFlag bool

	rootCmd := &cobra.Command{
		Use:           "ledgersync",
		Short:         "Migrate Stripe records into a Xero ledger",
		Long:          `Reconciles Stripe customers, invoices, fees and payments into Xero, re-runnable without creating duplicates.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Plan and apply the migration for the configured window",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), dryFlag)
		},
	}
	runCmd.Flags().BoolVar(&dryFlag, "dry", false, "compute and display the change plan without applying it")
	rootCmd.AddCommand(runCmd)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, dryFlag bool) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat}).
		With().Str("run_id", ulid.Make().String()).Logger()

	dryRun := cfg.DryRun || dryFlag
	from, to, err := cfg.Window()
	if err != nil {
		return err
	}

	log.Info().
		Time("from", from).
		Time("to", to).
		Bool("dry_run", dryRun).
		Msg("starting migration run")

	m := metrics.New()
	if cfg.MetricsAddr != "" && !dryRun {
		go serveMetrics(cfg.MetricsAddr, m, log)
	}

	source := stripeAdapter.NewClient(cfg.StripeKey, log)

	authorizer := xeroauth.New(xeroauth.Config{
		ClientID:     cfg.XeroClientID,
		ClientSecret: cfg.XeroClientSecret,
		CallbackPort: cfg.OAuthCallbackPort,
	}, log)
	httpClient, err := authorizer.Client(ctx)
	if err != nil {
		return err
	}
	httpClient.Timeout = cfg.HTTPTimeout
	target := xeroAdapter.NewClient(httpClient, cfg.XeroTenantID, log).WithMetrics(m)

	extractor := usecase.NewExtractor(source, cfg.OnlyPaidInvoices, cfg.MaxEntities, log)
	txns, parties, err := extractor.Extract(ctx, from, to)
	if err != nil {
		return err
	}

	snapshot, err := usecase.NewSnapshotBuilder(target, log).Build(ctx)
	if err != nil {
		return err
	}

	planner := usecase.NewPlanner(usecase.PlannerConfig{
		SalesAccount:       cfg.SalesAccount,
		FeesAccount:        cfg.FeesAccount,
		PaymentsAccount:    cfg.PaymentsAccount,
		ProcessorContactID: cfg.ProcessorContactID,
	}, log)
	plan := planner.Plan(txns, parties, snapshot)

	reporter := usecase.NewReporter(os.Stdout, dryRun)
	if dryRun {
		reporter.RenderPlan(plan)
		return nil
	}

	retrier := xeroAdapter.NewRetrier(m, log)
	executor := usecase.NewExecutor(target, retrier, m, log)
	results := executor.Execute(ctx, plan)

	// Individual failures never fail the process; the summary flags them.
	if failed := reporter.RenderResults(results); failed > 0 {
		log.Warn().Int("failed", failed).Msg("run completed with failed operations")
	} else {
		log.Info().Msg("run completed")
	}
	return nil
}

func serveMetrics(addr string, m *metrics.Metrics, log zerolog.Logger) {
	log.Info().Str("addr", addr).Msg("serving metrics")
	if err := http.ListenAndServe(addr, m.Handler()); err != nil {
		log.Warn().Err(err).Msg("metrics listener stopped")
	}
}
