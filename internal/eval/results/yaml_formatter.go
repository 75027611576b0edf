package results

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lehigh-university-libraries/brickbuilder/internal/eval/metrics"
	"github.com/lehigh-university-libraries/brickbuilder/internal/identify"
	"gopkg.in/yaml.v3"
)

// EvalConfig represents the configuration section of the eval YAML
type EvalConfig struct {
	Provider    string  `yaml:"provider"`
	Model       string  `yaml:"model"`
	Temperature float64 `yaml:"temperature"`
	DatasetPath string  `yaml:"datasetpath"`
	SampleSize  int     `yaml:"samplesize"`
	Timestamp   string  `yaml:"timestamp"`
}

// EvalSummary is the aggregate section of the eval YAML
type EvalSummary struct {
	TotalRecords      int     `yaml:"totalrecords"`
	SuccessCount      int     `yaml:"successcount"`
	FailureCount      int     `yaml:"failurecount"`
	IdentifiedRate    float64 `yaml:"identifiedrate"`
	PartAccuracy      float64 `yaml:"partaccuracy"`
	PartEvaluated     int     `yaml:"partevaluated"`
	CategoryAccuracy  float64 `yaml:"categoryaccuracy"`
	CategoryEvaluated int     `yaml:"categoryevaluated"`
	SchemaConformity  float64 `yaml:"schemaconformity"`
	AverageMS         int64   `yaml:"averagems"`
	MedianMS          int64   `yaml:"medianms"`
}

// EvalResult represents a single evaluation result
type EvalResult struct {
	Identifier        string `yaml:"identifier"`
	Mode              string `yaml:"mode"`
	ExpectedPart      string `yaml:"expectedpart,omitempty"`
	ExpectedCategory  string `yaml:"expectedcategory,omitempty"`
	Identified        bool   `yaml:"identified"`
	PredictedPart     string `yaml:"predictedpart,omitempty"`
	PredictedCategory string `yaml:"predictedcategory,omitempty"`
	PartMatch         bool   `yaml:"partmatch"`
	CategoryMatch     bool   `yaml:"categorymatch"`
	SchemaValid       bool   `yaml:"schemavalid"`
	DurationMS        int64  `yaml:"durationms"`
	Error             string `yaml:"error,omitempty"`
	ProviderResponse  string `yaml:"providerresponse,omitempty"`
}

// EvalSpec represents the complete evaluation file
type EvalSpec struct {
	Config  EvalConfig   `yaml:"config"`
	Summary EvalSummary  `yaml:"summary"`
	Results []EvalResult `yaml:"results"`
}

// SaveToYAML writes an aggregate to <dir>/<model>-<timestamp>.yaml and
// returns the file path
func SaveToYAML(dir, datasetPath string, sampleSize int, agg *metrics.AggregateResults) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create %s directory: %w", dir, err)
	}

	timestamp := agg.EvaluationDate.Format("2006-01-02_15-04-05")
	if agg.EvaluationDate.IsZero() {
		timestamp = time.Now().Format("2006-01-02_15-04-05")
	}

	spec := EvalSpec{
		Config: EvalConfig{
			Provider:    agg.Provider,
			Model:       agg.Model,
			Temperature: identify.Temperature,
			DatasetPath: datasetPath,
			SampleSize:  sampleSize,
			Timestamp:   timestamp,
		},
		Summary: EvalSummary{
			TotalRecords:      agg.TotalRecords,
			SuccessCount:      agg.SuccessCount,
			FailureCount:      agg.FailureCount,
			IdentifiedRate:    agg.IdentifiedRate,
			PartAccuracy:      agg.PartAccuracy,
			PartEvaluated:     agg.PartEvaluated,
			CategoryAccuracy:  agg.CategoryAccuracy,
			CategoryEvaluated: agg.CategoryEvaluated,
			SchemaConformity:  agg.SchemaConformity,
			AverageMS:         agg.AverageDuration.Milliseconds(),
			MedianMS:          agg.MedianDuration.Milliseconds(),
		},
		Results: make([]EvalResult, 0, len(agg.Results)),
	}

	for _, r := range agg.Results {
		spec.Results = append(spec.Results, EvalResult{
			Identifier:        r.ID,
			Mode:              string(r.Mode),
			ExpectedPart:      r.ExpectedPart,
			ExpectedCategory:  r.ExpectedCategory,
			Identified:        r.Identified,
			PredictedPart:     r.PredictedPart,
			PredictedCategory: r.PredictedCategory,
			PartMatch:         r.PartMatch,
			CategoryMatch:     r.CategoryMatch,
			SchemaValid:       r.SchemaValid,
			DurationMS:        r.Duration.Milliseconds(),
			Error:             r.Error,
			ProviderResponse:  r.RawResponse,
		})
	}

	model := agg.Model
	if model == "" {
		model = agg.Provider
	}
	filename := filepath.Join(dir, fmt.Sprintf("%s-%s.yaml", strings.ReplaceAll(model, "/", "_"), timestamp))

	data, err := yaml.Marshal(&spec)
	if err != nil {
		return "", fmt.Errorf("failed to marshal YAML: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write YAML file: %w", err)
	}

	return filename, nil
}

// LoadYAML reads an evaluation file written by SaveToYAML
func LoadYAML(path string) (*EvalSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read results file: %w", err)
	}

	var spec EvalSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("failed to parse results file: %w", err)
	}
	return &spec, nil
}
