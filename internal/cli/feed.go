package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cosmicwatch/neo-sentinel/pkg/risk"
)

var feedCmd = &cobra.Command{
	Use:   "feed",
	Short: "Print the current telemetry window with risk scores",
	RunE:  runFeed,
}

func init() {
	rootCmd.AddCommand(feedCmd)
	feedCmd.Flags().Bool("mock", false, "Use canned telemetry instead of the upstream provider")
	feedCmd.Flags().IntP("limit", "n", 0, "Show at most n objects (0 = all)")
}

func runFeed(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if mock, _ := cmd.Flags().GetBool("mock"); mock {
		cfg.Feed.Mock = true
	}
	limit, _ := cmd.Flags().GetInt("limit")

	feed := initFeed(cfg)

	window, records, err := feed.Current(cmd.Context())
	if err != nil {
		return fmt.Errorf("fetch feed: %w", err)
	}

	fmt.Printf("Window %s to %s: %d objects\n\n",
		window.Start.Format("2006-01-02"), window.End.Format("2006-01-02"), len(records))

	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tMISS (km)\tDIAMETER (m)\tVELOCITY (km/h)\tHAZARD\tSCORE\tBAND")
	for i := range records {
		rec := &records[i]
		approach := rec.NearestApproach()
		assessment := risk.Score(rec)
		fmt.Fprintf(w, "%s\t%s\t%.0f\t%.0f\t%.0f\t%v\t%d\t%s\n",
			rec.ID, rec.Name, approach.MissDistanceKm, rec.DiameterMaxM(),
			approach.RelativeVelocityKph, rec.Hazardous, assessment.Score, assessment.Band)
	}
	return w.Flush()
}
