package appconfig

import (
	"fmt"
	"io"
)

// ShowConfig prints the current configuration summary.
func ShowConfig(out io.Writer, file string, cfg *Config, fallback Config) {
	if file == "" {
		fmt.Fprintln(out, "No config file loaded (using defaults).")
	} else {
		fmt.Fprintf(out, "Config file: %s\n\n", file)
	}

	fmt.Fprintln(out, "Current configuration:")
	if cfg == nil {
		cfg = &fallback
	}

	fmt.Fprintf(out, "  Debug:            %v\n", cfg.Debug)
	fmt.Fprintf(out, "  Backend:          %s\n", cfg.Backend())
	fmt.Fprintf(out, "  Refresh Interval: %s\n", cfg.RefreshInterval())
	fmt.Fprintf(out, "  Refresh Delay:    %s\n", cfg.PredictionRefreshDelay())
	fmt.Fprintf(out, "  Request Timeout:  %s\n", cfg.RequestTimeout())
	fmt.Fprintf(out, "  Default Model:    %s\n", cfg.ModelOrDefault())
	fmt.Fprintf(out, "  Models:           %v\n", cfg.ModelChoices())
	fmt.Fprintf(out, "  Log File:         %s\n", cfg.LogFilePath())
}
