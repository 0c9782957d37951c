// internal/commands/dashboard.go
package predictdash

import (
	"os"
	"os/signal"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/mwiater/predictdash/internal/api"
	"github.com/mwiater/predictdash/internal/appconfig"
	"github.com/mwiater/predictdash/internal/logging"
	"github.com/mwiater/predictdash/internal/metrics"
	"github.com/mwiater/predictdash/internal/tui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// dashboardCmd runs the interactive terminal dashboard.
var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Run the interactive prediction dashboard",
	Long: `Open the terminal dashboard: statistics refresh periodically, the form submits
predictions, and changes to refreshInterval in the config file apply without a restart.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		intervals := make(chan time.Duration, 1)
		if cfg.ConfigPath != "" {
			seconds := refreshSecondsFromFile(cfg.ConfigPath)
			if refreshFromCLI {
				seconds = func() int { return viper.GetInt("refreshInterval") }
			}
			viper.OnConfigChange(refreshIntervalWatcher(cfg.RefreshInterval(), intervals, seconds))
			viper.WatchConfig()
		}

		agg := metrics.NewAggregator()
		defer agg.LogSummary()
		return tui.StartDashboard(ctx, cfg, api.New(cfg).WithMetrics(agg), intervals, agg)
	},
}

// refreshIntervalWatcher returns a config change handler that publishes the
// refresh interval reported by seconds whenever it differs from the current
// one. A pending value that the dashboard has not consumed yet is replaced.
func refreshIntervalWatcher(current time.Duration, out chan time.Duration, seconds func() int) func(fsnotify.Event) {
	return func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		n := seconds()
		if n <= 0 {
			return
		}
		interval := time.Duration(n) * time.Second
		if interval == current {
			return
		}
		current = interval
		logging.LogEvent("[CONFIG] %s changed: refresh interval %s", e.Name, interval)

		select {
		case <-out:
		default:
		}
		out <- interval
	}
}

// refreshSecondsFromFile re-reads the config file at path and returns its
// refresh interval. A file that no longer loads or validates yields 0 so the
// running interval is kept.
func refreshSecondsFromFile(path string) func() int {
	return func() int {
		cfg, err := appconfig.Load(path)
		if err != nil {
			logging.LogEvent("[CONFIG] ignoring config change: %v", err)
			return 0
		}
		return cfg.RefreshIntervalSeconds
	}
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}
