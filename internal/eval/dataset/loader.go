package dataset

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/parquet-go/parquet-go"
)

// Loader reads evaluation records from a JSONL or Parquet file
type Loader struct {
	datasetPath string
}

// NewLoader creates a new dataset loader
func NewLoader(datasetPath string) *Loader {
	return &Loader{
		datasetPath: datasetPath,
	}
}

// Dir is the directory relative image paths resolve against
func (l *Loader) Dir() string {
	return filepath.Dir(l.datasetPath)
}

// Load loads every record. Malformed JSONL lines are an error.
func (l *Loader) Load() ([]Record, error) {
	return l.read(-1, true)
}

// LoadSample loads at most limit records, skipping malformed JSONL lines.
// A negative limit loads everything.
func (l *Loader) LoadSample(limit int) ([]Record, error) {
	return l.read(limit, false)
}

// LoadWithFilter loads the records matching filterFn
func (l *Loader) LoadWithFilter(filterFn func(*Record) bool) ([]Record, error) {
	all, err := l.Load()
	if err != nil {
		return nil, err
	}

	var records []Record
	for i := range all {
		if filterFn(&all[i]) {
			records = append(records, all[i])
		}
	}
	return records, nil
}

func (l *Loader) read(limit int, strict bool) ([]Record, error) {
	ext := strings.ToLower(filepath.Ext(l.datasetPath))
	switch ext {
	case ".parquet":
	case ".jsonl", ".json":
	default:
		return nil, fmt.Errorf("unsupported file format: %s (supported: .parquet, .jsonl)", ext)
	}

	file, err := os.Open(l.datasetPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset file: %w", err)
	}
	defer file.Close()

	var records []Record
	if ext == ".parquet" {
		records, err = readParquet(file, limit)
	} else {
		records, err = readJSONL(file, limit, strict)
	}
	if err != nil {
		return nil, err
	}

	slog.Debug("Dataset loaded", "path", l.datasetPath, "records", len(records))
	return records, nil
}

func readJSONL(r io.Reader, limit int, strict bool) ([]Record, error) {
	var records []Record
	scanner := bufio.NewScanner(r)

	// Increase buffer size for long lines
	const maxCapacity = 1024 * 1024
	scanner.Buffer(make([]byte, 64*1024), maxCapacity)

	lineNum := 0
	for scanner.Scan() && (limit < 0 || len(records) < limit) {
		lineNum++
		line := scanner.Bytes()
		if len(strings.TrimSpace(string(line))) == 0 {
			continue
		}

		var record Record
		if err := json.Unmarshal(line, &record); err != nil {
			if strict {
				return nil, fmt.Errorf("failed to parse JSON at line %d: %w", lineNum, err)
			}
			slog.Warn("Skipping malformed dataset line", "line", lineNum, "error", err)
			continue
		}
		records = append(records, record)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading dataset: %w", err)
	}
	return records, nil
}

func readParquet(file *os.File, limit int) ([]Record, error) {
	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	pf, err := parquet.OpenFile(file, info.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet: %w", err)
	}
	slog.Debug("Parquet file opened", "num_rows", pf.NumRows(), "num_row_groups", len(pf.RowGroups()))

	reader := parquet.NewGenericReader[Record](pf)
	defer reader.Close()

	var records []Record
	rows := make([]Record, 128) // Read in batches
	for limit < 0 || len(records) < limit {
		n, err := reader.Read(rows)
		if limit >= 0 && n > limit-len(records) {
			n = limit - len(records)
		}
		records = append(records, rows[:n]...)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read parquet rows: %w", err)
		}
	}
	return records, nil
}
