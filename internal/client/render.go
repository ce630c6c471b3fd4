package client

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

var (
	errorPrefix   = color.New(color.FgHiRed).Sprint("✗")
	pendingPrefix = color.New(color.FgHiBlue).Sprint("…")
	successPrefix = color.New(color.FgHiGreen).Sprint("✓")
	dim           = color.New(color.Faint).SprintFunc()
)

// Render writes exactly one of the four mutually exclusive render states:
// error banner, pending indicator, rendered review, or the empty
// call-to-action. The choice is tied 1:1 to the lifecycle phase.
func Render(w io.Writer, snap Snapshot) {
	switch snap.Phase {
	case PhaseError:
		fmt.Fprintf(w, "%s %s\n", errorPrefix, snap.ErrorMessage)
	case PhasePending:
		fmt.Fprintf(w, "%s Analyzing code quality, security, and best practices…\n", pendingPrefix)
	case PhaseSuccess:
		if snap.ReviewText == "" {
			fmt.Fprintf(w, "%s Review completed with no output.\n", successPrefix)
			return
		}
		fmt.Fprintf(w, "%s\n", snap.ReviewText)
	default:
		fmt.Fprintf(w, "Ready to review your code.\n%s\n", dim("Enter code and submit to run a review."))
	}
}
