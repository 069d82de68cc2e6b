// Package cmd implements the enarx-go host CLI: info/exec/report,
// each a thin delegation onto the backend/keep packages. Argument
// parsing, flag validation, and output formatting here are explicitly
// not part of the core's tested surface (spec.md §1); only the wiring
// onto Backend/Keep is.
package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"enarx-go/telemetry"
)

// Global flags, mirroring the teacher's own root.go global-flag block.
var (
	globalLog       string
	globalLogFormat string
	globalDebug     bool
)

var rootCmd = &cobra.Command{
	Use:   "enarx",
	Short: "Run unmodified PIE Linux binaries inside SGX/SEV-SNP Keeps",
	Long: `enarx loads a position-independent Linux binary into a hardware-isolated
Keep (Intel SGX or AMD SEV-SNP) and proxies the syscalls it issues back
to the host.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		setupLogging()
		return nil
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&globalLog, "log", "", "write logs to this file instead of stderr")
	rootCmd.PersistentFlags().StringVar(&globalLogFormat, "log-format", "text", "log output format (text or json)")
	rootCmd.PersistentFlags().BoolVar(&globalDebug, "debug", false, "enable debug-level logging")
}

func setupLogging() {
	out := os.Stderr
	if globalLog != "" {
		if f, err := os.OpenFile(globalLog, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600); err == nil {
			out = f
		}
	}

	level := slog.LevelInfo
	if globalDebug {
		level = slog.LevelDebug
	}

	telemetry.SetDefault(telemetry.NewLogger(telemetry.Config{
		Level:  level,
		Format: globalLogFormat,
		Output: out,
	}))
}

// backendEnvVar is the environment variable the original CLI uses to
// pick a backend; empty means "probe every registered backend and use
// the first one that reports Have() == true".
const backendEnvVar = "ENARX_BACKEND"

func selectedBackendName() string {
	return os.Getenv(backendEnvVar)
}
