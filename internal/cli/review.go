package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/codelens-ai/codelens/internal/client"
)

var reviewCmd = &cobra.Command{
	Use:   "review [file]",
	Short: "Submit code for an AI review",
	Long: `Submit the contents of a file (or stdin when no file is given) to the
review API and render the structured review.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReview,
}

func init() {
	reviewCmd.Flags().Duration("timeout", client.DefaultTimeout, "Client-side request timeout")
}

func runReview(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	code, err := readInput(args)
	if err != nil {
		return err
	}

	timeout, _ := cmd.Flags().GetDuration("timeout")
	api := client.NewAPIClient(cfg.ServerURL)

	// The render hook fires on every transition; done resolves once a
	// terminal phase is reached.
	done := make(chan client.Snapshot, 1)
	lifecycle := client.NewLifecycle(api, timeout, func(snap client.Snapshot) {
		client.Render(cmd.OutOrStdout(), snap)
		if snap.Phase == client.PhaseSuccess || snap.Phase == client.PhaseError {
			done <- snap
		}
	})

	lifecycle.SetCode(code)
	if !lifecycle.Submit() {
		return fmt.Errorf("nothing to review: input is empty")
	}

	final := <-done
	if final.Phase == client.PhaseError {
		exitCode = ExitReviewFailed
	}
	return nil
}

func readInput(args []string) (string, error) {
	if len(args) == 1 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", args[0], err)
		}
		return string(data), nil
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	return string(data), nil
}
