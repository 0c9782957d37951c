// internal/commands/predict.go
package predictdash

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mwiater/predictdash/internal/api"
	"github.com/mwiater/predictdash/internal/console"
	"github.com/mwiater/predictdash/internal/dashboard"
	"github.com/spf13/cobra"
)

var (
	predictFeatures []string
	predictModel    string
)

// predictCmd submits one feature vector and prints the result followed by the refreshed statistics.
var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Submit a feature vector for prediction",
	Long: `Submit sepal length, sepal width, petal length and petal width to /api/predict,
print the prediction, then print the statistics as refreshed after the prediction.`,
	Example: `  predictdash predict --features 5.1,3.5,1.4,0.2 --model naive_bayes`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(predictFeatures) != len(dashboard.FeatureFields) {
			return fmt.Errorf("expected %d comma-separated features, got %d", len(dashboard.FeatureFields), len(predictFeatures))
		}
		return runPredict(cmd.Context(), cmd, predictFeatures, predictModel)
	},
}

func runPredict(ctx context.Context, cmd *cobra.Command, features []string, model string) error {
	cfg := GetConfig()
	surface := console.NewSurface(cmd.OutOrStdout(), cmd.ErrOrStderr())
	for i, id := range dashboard.FeatureFields {
		surface.SetField(id, strings.TrimSpace(features[i]))
	}
	surface.SetField(dashboard.ModelField, model)

	ctrl := dashboard.New(api.New(cfg), surface, console.NewCharts(surface),
		console.BlockingScheduler{Ctx: ctx}, dashboard.OptionsFromConfig(cfg))
	defer ctrl.Stop()

	ctrl.HandlePrediction(ctx)
	if alerts := surface.Alerts(); len(alerts) > 0 {
		return errors.New(alerts[len(alerts)-1])
	}

	surface.PrintResult()
	surface.PrintDashboard()
	return nil
}

func init() {
	predictCmd.Flags().StringSliceVar(&predictFeatures, "features", nil, "sepal_length,sepal_width,petal_length,petal_width")
	predictCmd.Flags().StringVar(&predictModel, "model", "", "model identifier (defaults to the configured default model)")
	_ = predictCmd.MarkFlagRequired("features")
	rootCmd.AddCommand(predictCmd)
}
