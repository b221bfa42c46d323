package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Run a single sentinel tick and exit",
	Long: `Fetch the current telemetry window, evaluate every object against the
trigger thresholds, and dispatch alerts for new breaches. Useful for cron-style
deployments and for verifying channel configuration.`,
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger := newLogger(cfg)

	s, _, store, _, err := initSentinel(cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := s.Scan(cmd.Context()); err != nil {
		return fmt.Errorf("scan: %w", err)
	}

	status := s.Status()
	fmt.Printf("Scan complete:\n")
	fmt.Printf("  Objects tracked:   %d\n", status.TrackedObjects)
	fmt.Printf("  Alerts dispatched: %d\n", status.AlertsDispatched)

	return nil
}
