// internal/commands/stats.go
package predictdash

import (
	"github.com/k0kubun/pp"
	"github.com/mwiater/predictdash/internal/api"
	"github.com/mwiater/predictdash/internal/console"
	"github.com/mwiater/predictdash/internal/dashboard"
	"github.com/mwiater/predictdash/internal/metrics"
	"github.com/spf13/cobra"
)

var rawStats bool

// statsCmd fetches the statistics once and prints them.
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print prediction statistics",
	Long:  `Fetch /api/stats once and print the stat cards, charts and recent predictions.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		agg := metrics.NewAggregator()
		client := api.New(GetConfig()).WithMetrics(agg)
		payload, err := client.Stats(cmd.Context())
		if err != nil {
			return err
		}

		if rawStats {
			_, err := pp.Fprintln(cmd.OutOrStdout(), payload)
			return err
		}
		if DebugEnabled() {
			_, _ = pp.Fprintln(cmd.ErrOrStderr(), payload)
			_, _ = pp.Fprintln(cmd.ErrOrStderr(), agg.Snapshot())
		}

		surface := console.NewSurface(cmd.OutOrStdout(), cmd.ErrOrStderr())
		renderer := dashboard.NewRenderer(surface, console.NewCharts(surface))
		defer renderer.Close()
		renderer.Render(payload)
		surface.PrintDashboard()
		return nil
	},
}

func init() {
	statsCmd.Flags().BoolVar(&rawStats, "raw", false, "dump the decoded payload instead of the dashboard view")
	rootCmd.AddCommand(statsCmd)
}
