package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var alertsCmd = &cobra.Command{
	Use:   "alerts",
	Short: "Manage persisted alerts",
}

var alertsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List persisted alerts, newest first",
	RunE:  runAlertsList,
}

var alertsReadCmd = &cobra.Command{
	Use:   "read <id>",
	Short: "Mark an alert as read",
	Args:  cobra.ExactArgs(1),
	RunE:  runAlertsRead,
}

func init() {
	rootCmd.AddCommand(alertsCmd)
	alertsCmd.AddCommand(alertsListCmd)
	alertsCmd.AddCommand(alertsReadCmd)

	alertsListCmd.Flags().IntP("limit", "n", 20, "Show at most n alerts")
	alertsListCmd.Flags().Bool("unread", false, "Show only the unread count")
}

func runAlertsList(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := initStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	if unread, _ := cmd.Flags().GetBool("unread"); unread {
		count, err := store.CountUnread(cmd.Context())
		if err != nil {
			return fmt.Errorf("count unread: %w", err)
		}
		fmt.Printf("Unread alerts: %d\n", count)
		return nil
	}

	limit, _ := cmd.Flags().GetInt("limit")
	events, err := store.ListAlerts(cmd.Context(), limit)
	if err != nil {
		return fmt.Errorf("list alerts: %w", err)
	}

	if len(events) == 0 {
		fmt.Println("No alerts.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TRIGGERED\tTYPE\tREASON\tOBJECT\tSCORE\tREAD\tID")
	for _, e := range events {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%v\t%s\n",
			e.TriggeredAt.Format("2006-01-02 15:04"), e.Type, e.Reason,
			e.ObjectName, e.RiskScore, e.Read, e.ID)
	}
	return w.Flush()
}

func runAlertsRead(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := initStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.MarkAlertRead(cmd.Context(), args[0]); err != nil {
		return err
	}

	fmt.Printf("Alert %s marked read.\n", args[0])
	return nil
}
