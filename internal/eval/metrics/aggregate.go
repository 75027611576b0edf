package metrics

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/lehigh-university-libraries/brickbuilder/internal/eval/dataset"
	"github.com/lehigh-university-libraries/brickbuilder/internal/identify"
)

// ItemResult is the scored outcome of identifying one dataset record
type ItemResult struct {
	ID                string
	Mode              identify.Mode
	ExpectedPart      string
	ExpectedCategory  string
	Identified        bool
	PredictedPart     string
	PredictedCategory string
	PartMatch         bool
	CategoryMatch     bool
	SchemaValid       bool
	Duration          time.Duration
	Error             string // If identification failed
	RawResponse       string
}

// AggregateResults represents aggregated evaluation metrics
type AggregateResults struct {
	TotalRecords int
	SuccessCount int
	FailureCount int

	IdentifiedCount   int
	PartEvaluated     int
	PartMatches       int
	CategoryEvaluated int
	CategoryMatches   int
	SchemaValidCount  int

	// Rates over successful records
	IdentifiedRate   float64
	PartAccuracy     float64
	CategoryAccuracy float64
	SchemaConformity float64

	// Timing
	AverageDuration time.Duration
	MedianDuration  time.Duration
	TotalDuration   time.Duration

	// Detailed results
	Results []ItemResult

	// Metadata
	EvaluationDate time.Time
	Provider       string
	Model          string
}

// Failed builds the result of a record whose image could not be loaded or
// whose provider call failed
func Failed(record dataset.Record, err error, duration time.Duration) ItemResult {
	return ItemResult{
		ID:               record.ID,
		Mode:             record.Mode(),
		ExpectedPart:     record.PartNumber,
		ExpectedCategory: record.Category,
		Duration:         duration,
		Error:            err.Error(),
	}
}

// Score compares an identification against the record's labels. In batch mode
// any reported brick may carry the expected part or category.
func Score(record dataset.Record, result *identify.Result, duration time.Duration) ItemResult {
	item := ItemResult{
		ID:               record.ID,
		Mode:             record.Mode(),
		ExpectedPart:     record.PartNumber,
		ExpectedCategory: record.Category,
		Identified:       result.Identified,
		SchemaValid:      result.ShapeError() == nil && result.RawResponse == "",
		Duration:         duration,
		RawResponse:      result.RawResponse,
	}
	if !result.Identified {
		return item
	}

	for i, brick := range result.Bricks {
		if i == 0 {
			item.PredictedPart = strings.TrimSpace(brick.PartNumber)
			item.PredictedCategory = strings.TrimSpace(brick.Category)
		}
		if record.PartNumber != "" && PartMatches(record.PartNumber, brick.PartNumber) {
			item.PartMatch = true
			item.PredictedPart = strings.TrimSpace(brick.PartNumber)
		}
		if record.Category != "" && CategoryMatches(record.Category, brick.Category) {
			item.CategoryMatch = true
		}
		if item.Mode == identify.ModeSingle {
			break
		}
	}
	return item
}

// PartMatches compares part numbers exactly, ignoring case and surrounding space
func PartMatches(expected, actual string) bool {
	expected = strings.TrimSpace(expected)
	actual = strings.TrimSpace(actual)
	return expected != "" && strings.EqualFold(expected, actual)
}

// CategoryMatches accepts either category containing the other, ignoring case
func CategoryMatches(expected, actual string) bool {
	expected = strings.ToLower(strings.TrimSpace(expected))
	actual = strings.ToLower(strings.TrimSpace(actual))
	if expected == "" || actual == "" {
		return false
	}
	return strings.Contains(actual, expected) || strings.Contains(expected, actual)
}

// Aggregate summarizes scored results
func Aggregate(results []ItemResult, provider, model string) *AggregateResults {
	agg := &AggregateResults{
		TotalRecords:   len(results),
		Results:        results,
		EvaluationDate: time.Now(),
		Provider:       provider,
		Model:          model,
	}

	var durations []time.Duration
	for _, r := range results {
		agg.TotalDuration += r.Duration

		if r.Error != "" {
			agg.FailureCount++
			continue
		}

		agg.SuccessCount++
		durations = append(durations, r.Duration)

		if r.Identified {
			agg.IdentifiedCount++
		}
		if r.SchemaValid {
			agg.SchemaValidCount++
		}
		if r.ExpectedPart != "" {
			agg.PartEvaluated++
			if r.PartMatch {
				agg.PartMatches++
			}
		}
		if r.ExpectedCategory != "" {
			agg.CategoryEvaluated++
			if r.CategoryMatch {
				agg.CategoryMatches++
			}
		}
	}

	agg.IdentifiedRate = ratio(agg.IdentifiedCount, agg.SuccessCount)
	agg.SchemaConformity = ratio(agg.SchemaValidCount, agg.SuccessCount)
	agg.PartAccuracy = ratio(agg.PartMatches, agg.PartEvaluated)
	agg.CategoryAccuracy = ratio(agg.CategoryMatches, agg.CategoryEvaluated)

	if len(durations) > 0 {
		var sum time.Duration
		for _, d := range durations {
			sum += d
		}
		agg.AverageDuration = sum / time.Duration(len(durations))

		sort.Slice(durations, func(i, j int) bool { return durations[i] < durations[j] })
		mid := len(durations) / 2
		if len(durations)%2 == 0 {
			agg.MedianDuration = (durations[mid-1] + durations[mid]) / 2
		} else {
			agg.MedianDuration = durations[mid]
		}
	}

	return agg
}

func ratio(n, d int) float64 {
	if d == 0 {
		return 0
	}
	return float64(n) / float64(d)
}

// PrintSummary writes a human-readable summary of the evaluation
func (a *AggregateResults) PrintSummary(w io.Writer) {
	fmt.Fprintln(w, "\n"+strings.Repeat("=", 70))
	fmt.Fprintln(w, "BRICK IDENTIFICATION EVALUATION SUMMARY")
	fmt.Fprintln(w, strings.Repeat("=", 70))
	fmt.Fprintf(w, "Evaluation Date: %s\n", a.EvaluationDate.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "Provider: %s\n", a.Provider)
	fmt.Fprintf(w, "Model: %s\n", a.Model)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "PROCESSING STATISTICS")
	fmt.Fprintln(w, strings.Repeat("-", 70))
	fmt.Fprintf(w, "Total Records: %d\n", a.TotalRecords)
	fmt.Fprintf(w, "Successful: %d (%.1f%%)\n", a.SuccessCount, ratio(a.SuccessCount, a.TotalRecords)*100)
	fmt.Fprintf(w, "Failed: %d (%.1f%%)\n", a.FailureCount, ratio(a.FailureCount, a.TotalRecords)*100)
	fmt.Fprintf(w, "Average Duration: %s\n", a.AverageDuration)
	fmt.Fprintf(w, "Median Duration: %s\n", a.MedianDuration)
	fmt.Fprintf(w, "Total Duration: %s\n", a.TotalDuration)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "ACCURACY")
	fmt.Fprintln(w, strings.Repeat("-", 70))
	fmt.Fprintf(w, "Identified:        %.2f%% (%d/%d)\n", a.IdentifiedRate*100, a.IdentifiedCount, a.SuccessCount)
	fmt.Fprintf(w, "Part Number:       %.2f%% (%d/%d)\n", a.PartAccuracy*100, a.PartMatches, a.PartEvaluated)
	fmt.Fprintf(w, "Category:          %.2f%% (%d/%d)\n", a.CategoryAccuracy*100, a.CategoryMatches, a.CategoryEvaluated)
	fmt.Fprintf(w, "Schema Conformity: %.2f%% (%d/%d)\n", a.SchemaConformity*100, a.SchemaValidCount, a.SuccessCount)
	fmt.Fprintln(w, strings.Repeat("=", 70))
}
