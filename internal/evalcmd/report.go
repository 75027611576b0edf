package evalcmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/lehigh-university-libraries/brickbuilder/internal/eval/results"
	"gopkg.in/yaml.v3"
)

func executeReport(out io.Writer, resultsPath, format string) error {
	spec, err := results.LoadYAML(resultsPath)
	if err != nil {
		return err
	}

	switch format {
	case "text":
		return printTextReport(out, spec)
	case "json":
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(spec)
	case "yaml":
		return yaml.NewEncoder(out).Encode(spec)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

func printTextReport(out io.Writer, spec *results.EvalSpec) error {
	s := spec.Summary
	fmt.Fprintln(out, "========================================")
	fmt.Fprintln(out, "Brick Identification Evaluation Report")
	fmt.Fprintln(out, "========================================")
	fmt.Fprintf(out, "Provider:  %s\n", spec.Config.Provider)
	fmt.Fprintf(out, "Model:     %s\n", spec.Config.Model)
	fmt.Fprintf(out, "Dataset:   %s\n", spec.Config.DatasetPath)
	fmt.Fprintf(out, "Timestamp: %s\n", spec.Config.Timestamp)
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Total Records:      %d\n", s.TotalRecords)
	fmt.Fprintf(out, "Successful Evals:   %d\n", s.SuccessCount)
	fmt.Fprintf(out, "Failed Evals:       %d\n", s.FailureCount)
	fmt.Fprintf(out, "Identified:         %.2f%%\n", s.IdentifiedRate*100)
	fmt.Fprintf(out, "Part Accuracy:      %.2f%% of %d\n", s.PartAccuracy*100, s.PartEvaluated)
	fmt.Fprintf(out, "Category Accuracy:  %.2f%% of %d\n", s.CategoryAccuracy*100, s.CategoryEvaluated)
	fmt.Fprintf(out, "Schema Conformity:  %.2f%%\n", s.SchemaConformity*100)
	fmt.Fprintf(out, "Average Duration:   %dms\n", s.AverageMS)
	fmt.Fprintf(out, "Median Duration:    %dms\n", s.MedianMS)

	fmt.Fprintln(out, "\nDetailed Results:")
	fmt.Fprintln(out, "========================================")
	for i, r := range spec.Results {
		fmt.Fprintf(out, "\n[%d] %s (%s)\n", i+1, r.Identifier, r.Mode)
		if r.Error != "" {
			fmt.Fprintf(out, "  ❌ Error: %s\n", r.Error)
			continue
		}
		if !r.Identified {
			fmt.Fprintln(out, "  Not identified")
			if r.ProviderResponse != "" {
				fmt.Fprintf(out, "  Response: %s\n", truncate(strings.ReplaceAll(r.ProviderResponse, "\n", " "), 80))
			}
			continue
		}
		if r.ExpectedPart != "" {
			fmt.Fprintf(out, "  Part:     %s expected %s %s\n", r.PredictedPart, r.ExpectedPart, mark(r.PartMatch))
		}
		if r.ExpectedCategory != "" {
			fmt.Fprintf(out, "  Category: %s expected %s %s\n", r.PredictedCategory, r.ExpectedCategory, mark(r.CategoryMatch))
		}
		if !r.SchemaValid {
			fmt.Fprintln(out, "  ⚠️  Response deviated from the requested JSON shape")
		}
	}
	return nil
}

func mark(ok bool) string {
	if ok {
		return "✅"
	}
	return "❌"
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
