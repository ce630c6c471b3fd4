// Package cli implements the codelens terminal client commands.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/codelens-ai/codelens/internal/config"
)

const version = "1.0.0"

// Exit codes
const (
	ExitSuccess      = 0
	ExitUsageError   = 2
	ExitReviewFailed = 3
)

var rootCmd = &cobra.Command{
	Use:   "codelens",
	Short: "Terminal client for the AI code reviewer",
	Long:  "codelens submits source code to the review API and renders the structured review.",
}

// exitCode is set by command handlers to control the process exit code.
var exitCode = ExitSuccess

// Run executes the root command and returns an exit code.
func Run() int {
	rootCmd.PersistentFlags().String("server", "", "Review API base URL (default from CODELENS_SERVER_URL)")
	rootCmd.PersistentFlags().String("config", "", "Config file path")

	rootCmd.AddCommand(reviewCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		// Cobra already prints the error
		return ExitUsageError
	}

	return exitCode
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print codelens version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(os.Stdout, "codelens version %s\n", version)
	},
}

// loadConfig builds the effective client configuration from the environment
// plus flags.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return config.Config{}, err
	}
	if server, _ := cmd.Flags().GetString("server"); server != "" {
		cfg.ServerURL = server
	}
	return cfg, nil
}
