package output

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/darianrosebrook/arbiter/internal/orchestrator"
)

var nonSlugRe = regexp.MustCompile(`[^a-z0-9]+`)

// GenerateSlug turns a topic into a filesystem-friendly folder name, capped
// at 50 characters.
func GenerateSlug(topic string) string {
	slug := strings.ToLower(topic)
	slug = nonSlugRe.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")
	if len(slug) > 50 {
		slug = strings.Trim(slug[:50], "-")
	}
	if slug == "" {
		slug = "debate"
	}
	return slug
}

// CreateOutputDir creates base/slug and returns its path.
func CreateOutputDir(base, slug string) (string, error) {
	dir := filepath.Join(base, slug)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("output: creating %s: %w", dir, err)
	}
	return dir, nil
}

// Writer writes debate artifacts into a single output directory.
type Writer struct {
	dir  string
	logs []string
}

// NewWriter creates a Writer targeting dir.
func NewWriter(dir string) *Writer {
	return &Writer{dir: dir}
}

// Log buffers a log line and appends it to debate.log immediately so a
// partial run still leaves a trail.
func (w *Writer) Log(line string) {
	w.logs = append(w.logs, line)
	f, err := os.OpenFile(filepath.Join(w.dir, "debate.log"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return
	}
	defer f.Close()
	fmt.Fprintln(f, line)
}

// WriteJSON writes the full result as result.json.
func (w *Writer) WriteJSON(result *orchestrator.Result) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("output: marshaling result: %w", err)
	}
	if err := os.WriteFile(filepath.Join(w.dir, "result.json"), data, 0o644); err != nil {
		return fmt.Errorf("output: writing result.json: %w", err)
	}
	return nil
}

// WriteMarkdown writes a human-readable summary as summary.md.
func (w *Writer) WriteMarkdown(result *orchestrator.Result) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# Debate: %s\n\n", result.Topic)
	fmt.Fprintf(&sb, "Session: `%s`\n\n", result.DebateID)

	sb.WriteString("## Turns\n\n")
	for _, turn := range result.Turns {
		line := result.Contents[turn.TurnNumber]
		marker := ""
		if turn.WasTimeout {
			marker = " *(timed out)*"
		}
		fmt.Fprintf(&sb, "%d. **%s**%s: %s\n", turn.TurnNumber, turn.AgentID, marker, line)
	}

	sb.WriteString("\n## Fairness\n\n")
	fmt.Fprintf(&sb, "- Total turns: %d\n", result.Metrics.TotalTurns)
	fmt.Fprintf(&sb, "- Fairness score: %.2f\n", result.Metrics.FairnessScore)
	if result.Fairness.Valid {
		sb.WriteString("- Audit: clean\n")
	} else {
		sb.WriteString("- Audit issues:\n")
		for _, issue := range result.Fairness.Issues {
			fmt.Fprintf(&sb, "  - %s\n", issue)
		}
	}

	sb.WriteString("\n## Consensus\n\n")
	if result.Consensus == nil {
		sb.WriteString("No decision was formed.\n")
	} else {
		reached := "not reached"
		if result.Consensus.Reached {
			reached = "reached"
		}
		fmt.Fprintf(&sb, "- Consensus %s (outcome: %s)\n", reached, result.Consensus.Outcome)
		fmt.Fprintf(&sb, "- Votes: %d for / %d against / %d abstain\n",
			result.Consensus.Breakdown.For, result.Consensus.Breakdown.Against, result.Consensus.Breakdown.Abstain)
		fmt.Fprintf(&sb, "- Reasoning: %s\n", result.Consensus.Reasoning)
	}

	if err := os.WriteFile(filepath.Join(w.dir, "summary.md"), []byte(sb.String()), 0o644); err != nil {
		return fmt.Errorf("output: writing summary.md: %w", err)
	}
	return nil
}
