package predictdash

import (
	"github.com/mwiater/predictdash/internal/appconfig"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// showCmd represents the 'show' command group for displaying resources.
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Group commands for displaying resources",
	Long:  `The 'show' command groups subcommands that display information related to predictdash.`,
}

// showConfigCmd implements the 'show config' command, which displays the current configuration settings.
var showConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Show config settings",
	Long:  `Show config settings ensuring that the JSON configs are loaded properly and overriden by flags accordingly.`,
	Run: func(cmd *cobra.Command, args []string) {
		fallback := appconfig.Config{
			BaseURL:                viper.GetString("baseURL"),
			RefreshIntervalSeconds: viper.GetInt("refreshInterval"),
			TimeoutSeconds:         viper.GetInt("timeout"),
			LogFile:                viper.GetString("logFile"),
			Debug:                  viper.GetBool("debug"),
		}
		appconfig.ShowConfig(cmd.OutOrStdout(), GetConfig().ConfigPath, currentConfig, fallback)
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.AddCommand(showConfigCmd)
}
