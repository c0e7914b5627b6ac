package output

import (
	"fmt"

	"github.com/darianrosebrook/arbiter/internal/debate"
)

const (
	ansiReset  = "\033[0m"
	ansiBold   = "\033[1m"
	ansiRed    = "\033[31m"
	ansiGreen  = "\033[32m"
	ansiYellow = "\033[33m"
	ansiCyan   = "\033[36m"
)

// Colorize wraps s with an ANSI color code and reset.
func Colorize(color, s string) string { return color + s + ansiReset }

// Bold wraps s with ANSI bold and reset.
func Bold(s string) string { return ansiBold + s + ansiReset }

// PrintTurn prints a formatted turn to stdout.
func PrintTurn(record debate.TurnRecord, content string) {
	marker := ""
	if record.WasTimeout {
		marker = Colorize(ansiRed, " [timeout]")
	}
	fmt.Printf("%s %s%s: %s\n",
		Colorize(ansiYellow, fmt.Sprintf("[Turn %d]", record.TurnNumber)),
		Bold(record.AgentID),
		marker,
		content,
	)
}

// PrintFairness prints the fairness audit summary.
func PrintFairness(metrics debate.FairnessMetrics, report debate.FairnessReport) {
	fmt.Printf("\n%s\n", Colorize(ansiBold+ansiCyan, "=== Fairness ==="))
	fmt.Printf("Turns: %d | Fairness Score: %s\n",
		metrics.TotalTurns,
		Colorize(ansiYellow, fmt.Sprintf("%.2f", metrics.FairnessScore)),
	)
	if report.Valid {
		fmt.Printf("Audit: %s\n", Colorize(ansiBold+ansiGreen, "clean"))
		return
	}
	fmt.Printf("Audit: %s\n", Colorize(ansiBold+ansiRed, "issues found"))
	for _, issue := range report.Issues {
		fmt.Printf("  - %s\n", issue)
	}
}

// PrintConsensus prints the consensus summary.
func PrintConsensus(result *debate.ConsensusResult) {
	fmt.Printf("\n%s\n", Colorize(ansiBold+ansiCyan, "=== Consensus ==="))
	if result == nil {
		fmt.Printf("Consensus Reached: %s\n", Colorize(ansiBold+ansiRed, "No decision"))
		return
	}
	reached := "No"
	reachedColor := ansiRed
	if result.Reached {
		reached = "Yes"
		reachedColor = ansiGreen
	}
	fmt.Printf("Consensus Reached: %s\n", Colorize(ansiBold+reachedColor, reached))
	fmt.Printf("Outcome: %s\n", Bold(string(result.Outcome)))
	fmt.Printf("Votes: %s\n", Colorize(ansiYellow,
		fmt.Sprintf("%d for / %d against / %d abstain",
			result.Breakdown.For, result.Breakdown.Against, result.Breakdown.Abstain)))
	fmt.Printf("Reasoning: %s\n", result.Reasoning)
}
