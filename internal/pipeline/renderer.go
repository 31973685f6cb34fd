package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/robertschaub/factharbor/internal/model"
)

// Renderer writes assessment reports to disk
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a renderer
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// RenderJSON writes the full report as indented JSON
func (r *Renderer) RenderJSON(report *model.AssessmentReport, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	return nil
}

// RenderMarkdown writes a human-readable summary of the report
func (r *Renderer) RenderMarkdown(report *model.AssessmentReport, path string) error {
	var b strings.Builder

	fmt.Fprintf(&b, "# Verdict: %s\n\n", report.Aggregate.VerdictLabel)
	if report.Thesis != "" {
		fmt.Fprintf(&b, "**Thesis:** %s\n\n", report.Thesis)
	}
	fmt.Fprintf(&b, "- **Article:** %s\n", report.ArticleID)
	fmt.Fprintf(&b, "- **Weighted truth:** %.1f%%\n", report.Aggregate.WeightedTruthPercentage)
	fmt.Fprintf(&b, "- **Weighted confidence:** %.1f%%\n", report.Aggregate.WeightedConfidence)
	fmt.Fprintf(&b, "- **Assessed:** %s\n", report.AssessedAt.Format("2006-01-02 15:04 UTC"))

	if len(report.Aggregate.GatesApplied) > 0 {
		fmt.Fprintf(&b, "- **Gates applied:** %s\n", strings.Join(report.Aggregate.GatesApplied, ", "))
	}

	b.WriteString("\n## Claims\n\n")
	b.WriteString("| Claim | Verdict | Truth | Confidence | Weight | Triangulation |\n")
	b.WriteString("|---|---|---|---|---|---|\n")

	verdictFor := make(map[string]*model.ClaimVerdict, len(report.Verdicts))
	for i := range report.Verdicts {
		verdictFor[report.Verdicts[i].ClaimID] = &report.Verdicts[i]
	}

	for _, c := range report.Claims {
		v := verdictFor[c.ID]
		if v == nil {
			continue
		}

		tri := "-"
		if score, ok := report.Aggregate.TriangulationScores[c.ID]; ok {
			tri = string(score.Level)
		}

		fmt.Fprintf(&b, "| %s | %s | %.0f%% | %.0f%% | %.3f | %s |\n",
			truncate(c.Statement, 60), v.Label, v.TruthPercentage, v.Confidence,
			report.Aggregate.PerClaimWeights[c.ID], tri)
	}

	if excluded := excludedRows(report); len(excluded) > 0 {
		b.WriteString("\n## Excluded claims\n\n")
		for _, line := range excluded {
			fmt.Fprintf(&b, "- %s\n", line)
		}
	}

	if r.includeFooter {
		b.WriteString("\n---\n")
		b.WriteString("Generated by FactHarbor. Verdicts combine externally-scored claims; ")
		b.WriteString("this engine performs numeric aggregation only.\n")
	}

	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("write markdown: %w", err)
	}

	return nil
}

func excludedRows(report *model.AssessmentReport) []string {
	var rows []string
	for _, contribution := range report.Aggregate.Contributions {
		if contribution.Excluded {
			rows = append(rows, fmt.Sprintf("%s (%s)", contribution.ClaimID, contribution.ExcludeReason))
		}
	}
	sort.Strings(rows)
	return rows
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}
