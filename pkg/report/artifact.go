package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ArtifactWriter handles writing execution artifacts
type ArtifactWriter struct {
	outputDir string
}

// NewArtifactWriter creates a new artifact writer
func NewArtifactWriter(outputDir string) *ArtifactWriter {
	return &ArtifactWriter{
		outputDir: outputDir,
	}
}

// WriteAll writes execution.json and summary.md
func (w *ArtifactWriter) WriteAll(summary *ExecutionSummary) error {
	if err := os.MkdirAll(w.outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := w.WriteExecutionJSON(summary); err != nil {
		return err
	}

	return w.WriteSummaryMarkdown(summary)
}

// WriteExecutionJSON writes the full execution summary as JSON
func (w *ArtifactWriter) WriteExecutionJSON(summary *ExecutionSummary) error {
	path := filepath.Join(w.outputDir, "execution.json")

	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal execution summary: %w", err)
	}

	if writeErr := os.WriteFile(path, data, 0600); writeErr != nil {
		return fmt.Errorf("failed to write execution JSON: %w", writeErr)
	}

	return nil
}

// WriteSummaryMarkdown writes a human-readable markdown summary
func (w *ArtifactWriter) WriteSummaryMarkdown(summary *ExecutionSummary) error {
	path := filepath.Join(w.outputDir, "summary.md")

	if writeErr := os.WriteFile(path, []byte(RenderMarkdown(summary)), 0600); writeErr != nil {
		return fmt.Errorf("failed to write summary markdown: %w", writeErr)
	}

	return nil
}

// RenderMarkdown renders the summary as Markdown
func RenderMarkdown(summary *ExecutionSummary) string {
	var md strings.Builder

	md.WriteString("# UI Verification Summary\n\n")
	fmt.Fprintf(&md, "**Scenario:** %s\n\n", summary.Scenario)
	fmt.Fprintf(&md, "**Run:** %s\n\n", summary.RunID)
	fmt.Fprintf(&md, "**Status:** %s\n\n", summary.Status)
	fmt.Fprintf(&md, "**Started:** %s\n\n", summary.StartTime.Format(time.RFC3339))
	fmt.Fprintf(&md, "**Duration:** %s\n\n", summary.Duration.Round(time.Millisecond))

	md.WriteString("## Result\n\n")
	if summary.Error != "" {
		fmt.Fprintf(&md, "❌ **Error:** %s\n\n", summary.Error)
	} else {
		md.WriteString("✅ **Success**\n\n")
	}

	if len(summary.Steps) > 0 {
		md.WriteString("## Steps\n\n")
		md.WriteString("| # | Step | Status | Duration |\n")
		md.WriteString("|---|------|--------|----------|\n")
		for _, step := range summary.Steps {
			fmt.Fprintf(&md, "| %d | %s | %s | %s |\n",
				step.Index, escapeCell(step.Description), step.Status, step.Duration.Round(time.Millisecond))
		}
		md.WriteString("\n")
	}

	if summary.Screenshot != nil {
		md.WriteString("## Screenshot\n\n")
		fmt.Fprintf(&md, "- `%s` (%d bytes)\n\n", summary.Screenshot.Path, summary.Screenshot.Bytes)
	}

	if summary.Page != nil {
		md.WriteString("## Final Page\n\n")
		fmt.Fprintf(&md, "- **URL:** %s\n", summary.FinalURL)
		fmt.Fprintf(&md, "- **Title:** %s\n", summary.Page.Title)
		if len(summary.Page.Headings) > 0 {
			fmt.Fprintf(&md, "- **Headings:** %s\n", strings.Join(summary.Page.Headings, " / "))
		}
		if summary.Page.Text != "" {
			fmt.Fprintf(&md, "\n> %s\n", summary.Page.Text)
		}
	}

	return md.String()
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
