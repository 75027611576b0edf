package evalcmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/lehigh-university-libraries/brickbuilder/internal/eval/dataset"
	"github.com/lehigh-university-libraries/brickbuilder/internal/eval/metrics"
	"github.com/lehigh-university-libraries/brickbuilder/internal/eval/results"
	"github.com/lehigh-university-libraries/brickbuilder/internal/identify"
	"github.com/lehigh-university-libraries/brickbuilder/internal/images"
)

// RunOptions configures one evaluation run
type RunOptions struct {
	DatasetPath string
	SampleSize  int // -1 for all
	OutputDir   string
	Concurrency int
}

func executeRun(ctx context.Context, out io.Writer, identifier *identify.Service, opts RunOptions) (string, error) {
	slog.Info("Starting evaluation run", "dataset", opts.DatasetPath, "provider", identifier.Provider(), "model", identifier.Model())

	loader := dataset.NewLoader(opts.DatasetPath)
	records, err := loader.LoadSample(opts.SampleSize)
	if err != nil {
		return "", fmt.Errorf("failed to load dataset: %w", err)
	}
	if len(records) == 0 {
		return "", fmt.Errorf("dataset %s has no records", opts.DatasetPath)
	}
	slog.Info("Dataset loaded", "items", len(records))

	concurrency := opts.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}
	slog.Info("Processing items", "concurrency", concurrency)

	fetcher := images.NewFetcher()
	scored := make([]metrics.ItemResult, len(records))

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, concurrency)

	for i, record := range records {
		wg.Add(1)
		go func(idx int, record dataset.Record) {
			defer wg.Done()
			semaphore <- struct{}{}        // Acquire
			defer func() { <-semaphore }() // Release

			slog.Info("Processing item", "id", record.ID, "progress", fmt.Sprintf("%d/%d", idx+1, len(records)))
			scored[idx] = processRecord(ctx, identifier, fetcher, loader.Dir(), record)
		}(i, record)
	}
	wg.Wait()

	agg := metrics.Aggregate(scored, identifier.Provider(), identifier.Model())
	agg.PrintSummary(out)

	path, err := results.SaveToYAML(opts.OutputDir, opts.DatasetPath, len(records), agg)
	if err != nil {
		return "", fmt.Errorf("failed to save results: %w", err)
	}

	fmt.Fprintf(out, "\n✅ Evaluation results saved to: %s\n", path)
	fmt.Fprintf(out, "\nGenerate a report with:\n")
	fmt.Fprintf(out, "  brickbuilder eval report --results %s\n", path)
	return path, nil
}

func processRecord(ctx context.Context, identifier *identify.Service, fetcher *images.Fetcher, baseDir string, record dataset.Record) metrics.ItemResult {
	start := time.Now()

	img, err := record.LoadImage(ctx, fetcher, baseDir)
	if err != nil {
		slog.Warn("Failed to load image", "id", record.ID, "image", record.Image, "error", err)
		return metrics.Failed(record, fmt.Errorf("failed to load image: %w", err), time.Since(start))
	}

	result, err := identifier.Identify(ctx, img, record.Mode())
	if err != nil {
		slog.Warn("Identification failed", "id", record.ID, "error", err)
		return metrics.Failed(record, err, time.Since(start))
	}

	return metrics.Score(record, result, time.Since(start))
}
