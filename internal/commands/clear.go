// internal/commands/clear.go
package predictdash

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/mwiater/predictdash/internal/api"
	"github.com/spf13/cobra"
)

// clearCmd deletes the stored prediction history on the backend.
var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear the prediction history",
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := api.New(GetConfig()).ClearHistory(cmd.Context())
		if err != nil {
			return fmt.Errorf("clear history failed: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), color.New(color.FgGreen).Sprintf("Cleared %d predictions", result.DeletedCount))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(clearCmd)
}
