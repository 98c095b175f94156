// Package cli implements the ofwmock command-line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// BuildInfo carries the build-time version information.
type BuildInfo struct {
	Version   string
	Commit    string
	BuildDate string
}

var buildInfo = BuildInfo{Version: "dev", Commit: "unknown", BuildDate: "unknown"}

var rootCmd = &cobra.Command{
	Use:   "ofwmock",
	Short: "Mock server replaying captured OFW API responses",
	Long: `ofwmock serves previously captured Our Family Wizard API responses from
a directory of JSON fixture files, so the OFW client can be developed and
tested offline. Running ofwmock without a command starts the server.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd, &serveFlagVals)
	},
}

// Execute runs the CLI with the given build information.
func Execute(info BuildInfo) {
	buildInfo = info
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
