package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/codelens-ai/codelens/internal/client"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check whether the review service is configured",
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
	defer cancel()

	api := client.NewAPIClient(cfg.ServerURL)
	status, err := api.GetStatus(ctx)
	if err != nil {
		return fmt.Errorf("querying %s: %w", cfg.ServerURL, err)
	}

	badge := color.New(color.FgHiGreen).Sprint(status.Status)
	if !status.HasAPIKey {
		badge = color.New(color.FgHiYellow).Sprint(status.Status)
		exitCode = ExitReviewFailed
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", badge, status.Message)
	return nil
}
