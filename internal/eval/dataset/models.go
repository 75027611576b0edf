package dataset

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/lehigh-university-libraries/brickbuilder/internal/identify"
	"github.com/lehigh-university-libraries/brickbuilder/internal/images"
)

// Record is one labelled photo of a brick or a pile of bricks
type Record struct {
	ID         string `json:"id" parquet:"id"`
	Image      string `json:"image" parquet:"image"` // path relative to the dataset file, or an http(s) URL
	PartNumber string `json:"partNumber" parquet:"part_number,optional"`
	Category   string `json:"category" parquet:"category,optional"`
	Batch      bool   `json:"batch" parquet:"batch,optional"`
}

// Mode is the identification mode the record should be scored in
func (r *Record) Mode() identify.Mode {
	return identify.ModeFromBatch(r.Batch)
}

// IsRemote reports whether the image has to be downloaded
func (r *Record) IsRemote() bool {
	return strings.HasPrefix(r.Image, "http://") || strings.HasPrefix(r.Image, "https://")
}

// LoadImage reads the record's image. Relative paths resolve against baseDir.
func (r *Record) LoadImage(ctx context.Context, fetcher *images.Fetcher, baseDir string) (images.Image, error) {
	if r.IsRemote() {
		return fetcher.FromURL(ctx, r.Image)
	}
	path := r.Image
	if !filepath.IsAbs(path) {
		path = filepath.Join(baseDir, path)
	}
	return images.FromFile(path)
}
