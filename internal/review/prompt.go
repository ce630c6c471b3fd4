package review

import "strings"

// systemPrompt is the fixed reviewer persona. Kept minimal to stay inside a
// constrained service tier's token budget.
const systemPrompt = `Senior code reviewer. Find bugs, security issues, performance problems.

Rate: Critical/High/Medium/Low

Format:
## Summary
Quality: [rating]
Issues: [list]

## Problems
[issue]: [fix]

## Code Fix
` + "```" + `
[corrected code]
` + "```" + `

Be brief.`

// Deterministic generation parameters. Low temperature and restricted
// sampling keep reviews concise and repeatable; the output cap keeps
// responses short on the free tier.
const (
	generationTemperature     = 0.5
	generationTopK            = 10
	generationTopP            = 0.7
	generationMaxOutputTokens = 1500
)

// SystemPrompt returns the reviewer persona sent as the system instruction.
func SystemPrompt() string {
	return systemPrompt
}

// BuildUserPrompt wraps the code verbatim in a fence for the user turn. The
// code is not escaped or transformed beyond fence wrapping.
func BuildUserPrompt(code string) string {
	var b strings.Builder
	b.WriteString("Review:\n```\n")
	b.WriteString(code)
	b.WriteString("\n```")
	return b.String()
}
