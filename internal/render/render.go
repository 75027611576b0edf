package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/lehigh-university-libraries/brickbuilder/internal/identify"
	"github.com/lehigh-university-libraries/brickbuilder/internal/models"
)

// MaxSets is how many sets Sets prints before summarizing the rest
const MaxSets = 6

// Options tweak how a result is printed
type Options struct {
	// Category filters batch bricks by category substring; "all" or "" shows every brick
	Category string
}

var confidenceLabels = map[models.Confidence]string{
	models.ConfidenceHigh:   "⭐ Very Sure!",
	models.ConfidenceMedium: "👍 Pretty Sure",
	models.ConfidenceLow:    "🤔 Best Guess",
}

// Result prints a single or batch identification
func Result(w io.Writer, r *identify.Result, opts Options) error {
	p := &printer{w: w}
	switch {
	case !r.Identified && r.BatchMode:
		p.line("🤔 Hmm, I couldn't identify the bricks...")
		p.line(r.Message)
	case !r.Identified:
		p.line("🤔 Hmm, I couldn't find a LEGO brick...")
		p.line(r.Message)
	case r.BatchMode:
		batch(p, r, opts)
	default:
		single(p, r)
	}
	return p.err
}

func single(p *printer, r *identify.Result) {
	p.line("🎉 Brick Found! 🧱")
	for _, b := range r.Bricks {
		p.line("")
		if label := confidenceLabel(b.Confidence); label != "" {
			p.printf("%s  [%s]\n", b.Name, label)
		} else {
			p.line(b.Name)
		}
		p.field("Part Number", b.PartNumber)
		p.field("Category", b.Category)
		p.field("Size", b.Dimensions)
		p.field("Color", b.Color)
		if b.Description != "" {
			p.printf("  %s\n", b.Description)
		}
		if b.FunFact != "" {
			p.printf("  💡 Fun Fact: %s\n", b.FunFact)
		}
	}
	list(p, "💡 Build Ideas", r.Suggestions)
	if r.Message != "" {
		p.line("")
		p.line(r.Message)
	}
}

func batch(p *printer, r *identify.Result, opts Options) {
	estimate := r.TotalPiecesEstimate
	if estimate == "" {
		estimate = "many"
	}
	p.line("📦 Collection Scanned! 🔍")
	p.printf("Found approximately %s pieces\n", estimate)

	if counts := r.CategoryCounts(); len(counts) > 0 {
		p.line("")
		p.line("📊 What's in your collection")
		p.printf("  All (%d)\n", len(r.Bricks))
		for _, c := range counts {
			p.printf("  %s (%d)\n", c.Name, c.Count)
		}
	}

	list(p, "✨ Interesting Finds!", r.InterestingFinds)

	bricks := r.FilterByCategory(opts.Category)
	p.line("")
	if c := strings.TrimSpace(opts.Category); c != "" && !strings.EqualFold(c, "all") {
		p.printf("Bricks in %q (%d)\n", c, len(bricks))
	} else {
		p.printf("Bricks (%d)\n", len(bricks))
	}
	for _, b := range bricks {
		var tags []string
		for _, t := range []string{b.Dimensions, b.Color} {
			if t != "" {
				tags = append(tags, t)
			}
		}
		if b.ApproximateCount != "" {
			tags = append(tags, "×"+b.ApproximateCount)
		}
		p.printf("  %s %s", confidenceIcon(b.Confidence), b.Name)
		if len(tags) > 0 {
			p.printf("  (%s)", strings.Join(tags, ", "))
		}
		if b.PartNumber != "" {
			p.printf("  Part #%s", b.PartNumber)
		}
		p.line("")
	}

	list(p, "💡 Build Ideas for Your Collection", r.Suggestions)
	if r.Message != "" {
		p.line("")
		p.line(r.Message)
	}
}

// Sets prints at most MaxSets sets and how many more exist
func Sets(w io.Writer, sets models.SetsForPart, partNum string) error {
	p := &printer{w: w}
	if len(sets.Sets) == 0 {
		return nil
	}

	p.line("📦 LEGO Sets with This Brick")
	p.printf("This brick (Part #%s) appears in these awesome sets!\n", partNum)
	shown := sets.Sets
	if len(shown) > MaxSets {
		shown = shown[:MaxSets]
	}
	for _, s := range shown {
		p.printf("  #%s %s (%d) - %d pieces, x%d in set\n", s.SetNum, s.Name, s.Year, s.NumParts, s.Quantity)
		p.printf("    View Instructions → %s\n", s.InstructionsURL)
	}
	if sets.Count > MaxSets {
		p.printf("And %d more sets use this brick!\n", sets.Count-MaxSets)
	}
	return p.err
}

func list(p *printer, title string, items []string) {
	if len(items) == 0 {
		return
	}
	p.line("")
	p.line(title)
	for _, item := range items {
		p.printf("  - %s\n", item)
	}
}

func confidenceLabel(c models.Confidence) string {
	if label, ok := confidenceLabels[c]; ok {
		return label
	}
	return string(c)
}

func confidenceIcon(c models.Confidence) string {
	label := confidenceLabel(c)
	if i := strings.IndexByte(label, ' '); i > 0 {
		return label[:i]
	}
	return "•"
}

// printer remembers the first write error so callers check once
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func (p *printer) line(s string) {
	p.printf("%s\n", s)
}

func (p *printer) field(label, value string) {
	if value != "" {
		p.printf("  %s: %s\n", label, value)
	}
}
