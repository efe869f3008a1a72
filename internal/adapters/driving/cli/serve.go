package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/msa123-tech/StudyConnect-AI/internal/adapters/driving/schedule"
	"github.com/msa123-tech/StudyConnect-AI/internal/core/domain"
	"github.com/msa123-tech/StudyConnect-AI/internal/logger"
)

var serveCron string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run scheduled index verification",
	Long: `Runs in the foreground and verifies every scope's index on a cron schedule
until interrupted. Inconsistent scopes are logged; repair them with
'index repair --scope'.

The schedule comes from schedule.verify_cron in the config file unless --cron
is given. With schedule.enabled set, chat and mcp serve also verify in the
background. Expressions use the standard five fields, e.g. "0 3 * * *".`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveCron, "cron", "", "verification schedule (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if indexAdminService == nil {
		return errors.New("index admin service not configured")
	}

	spec := serveCron
	if spec == "" {
		spec = verifyCron()
	}

	scheduler := schedule.NewScheduler()
	if err := scheduler.AddJob(schedule.NewVerifyJob(indexAdminService), spec); err != nil {
		return err
	}

	cmd.Printf("Verifying indexes on %q until interrupted\n", spec)

	err := scheduler.Start(cmd.Context())
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// verifyCron returns the configured verification schedule.
func verifyCron() string {
	if settings != nil && settings.Schedule.VerifyCron != "" {
		return settings.Schedule.VerifyCron
	}
	return domain.DefaultVerifyCron
}

// startBackgroundVerify runs the verification schedule alongside a
// long-running command when schedule.enabled is set. The returned function
// stops it and waits for a running job.
func startBackgroundVerify(ctx context.Context) func() {
	if settings == nil || !settings.Schedule.Enabled || indexAdminService == nil {
		return func() {}
	}

	scheduler := schedule.NewScheduler()
	if err := scheduler.AddJob(schedule.NewVerifyJob(indexAdminService), verifyCron()); err != nil {
		// Log but don't fail - scheduler errors shouldn't block the command
		logger.Warn("background verification disabled: %v", err)
		return func() {}
	}

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := scheduler.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Warn("scheduler stopped: %v", err)
		}
	}()

	return func() {
		cancel()
		<-done
	}
}
