package identify

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"sort"
	"strings"

	"github.com/lehigh-university-libraries/brickbuilder/internal/models"
)

// Result is the answer to an identification request.
//
// Identified is the tag: when false only Message (and, for unparseable
// provider output, RawResponse) is meaningful and Bricks is always empty.
// Results decoded from provider JSON remember every top-level key so they
// re-serialize as the provider wrote them.
type Result struct {
	Identified          bool                 `json:"identified" yaml:"identified"`
	BatchMode           bool                 `json:"batchMode,omitempty" yaml:"batchmode,omitempty"`
	TotalPiecesEstimate string               `json:"totalPiecesEstimate,omitempty" yaml:"totalpiecesestimate,omitempty"`
	Bricks              []models.BrickRecord `json:"bricks" yaml:"bricks"`
	Categories          map[string]int       `json:"categories,omitempty" yaml:"categories,omitempty"`
	InterestingFinds    []string             `json:"interestingFinds,omitempty" yaml:"interestingfinds,omitempty"`
	Suggestions         []string             `json:"suggestions" yaml:"suggestions"`
	Message             string               `json:"message" yaml:"message"`
	RawResponse         string               `json:"rawResponse,omitempty" yaml:"rawresponse,omitempty"`

	raw      map[string]json.RawMessage
	shapeErr error
}

// CategoryCount is one entry of a batch result's category breakdown
type CategoryCount struct {
	Name  string
	Count int
}

// NotIdentified builds a result carrying only a friendly message
func NotIdentified(message string) *Result {
	return &Result{
		Identified:  false,
		Bricks:      []models.BrickRecord{},
		Suggestions: []string{},
		Message:     message,
	}
}

// FirstPartNumber returns the part number of the first brick, if any
func (r *Result) FirstPartNumber() string {
	if !r.Identified || len(r.Bricks) == 0 {
		return ""
	}
	return strings.TrimSpace(r.Bricks[0].PartNumber)
}

// ShapeError is non-nil when the provider's JSON deviated from the requested shape
func (r *Result) ShapeError() error {
	return r.shapeErr
}

// CategoryCounts lists categories with a positive count, largest first
func (r *Result) CategoryCounts() []CategoryCount {
	counts := make([]CategoryCount, 0, len(r.Categories))
	for name, n := range r.Categories {
		if n > 0 {
			counts = append(counts, CategoryCount{Name: name, Count: n})
		}
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Name < counts[j].Name
	})
	return counts
}

// FilterByCategory returns the bricks whose category contains category,
// ignoring case. "all" and "" return every brick.
func (r *Result) FilterByCategory(category string) []models.BrickRecord {
	category = strings.ToLower(strings.TrimSpace(category))
	if category == "" || category == "all" {
		return r.Bricks
	}
	var out []models.BrickRecord
	for _, b := range r.Bricks {
		if strings.Contains(strings.ToLower(b.Category), category) {
			out = append(out, b)
		}
	}
	return out
}

// UnmarshalJSON decodes a JSON object leniently: a field with an unexpected
// type is left at its zero value instead of failing the whole document.
func (r *Result) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		return errors.New("identification result is not a JSON object")
	}

	type plain Result
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		var typeErr *json.UnmarshalTypeError
		if !errors.As(err, &typeErr) {
			return err
		}
	}

	*r = Result(p)
	r.Identified = parseFlag(raw["identified"])
	r.BatchMode = parseFlag(raw["batchMode"])
	r.raw = raw
	if !r.Identified {
		r.Bricks = []models.BrickRecord{}
	}
	return nil
}

// MarshalJSON writes provider-decoded results back verbatim, apart from
// forcing the identified tag and clearing bricks on not-identified results.
func (r Result) MarshalJSON() ([]byte, error) {
	if r.raw == nil {
		type plain Result
		p := plain(r)
		if p.Bricks == nil {
			p.Bricks = []models.BrickRecord{}
		}
		if p.Suggestions == nil {
			p.Suggestions = []string{}
		}
		return json.Marshal(p)
	}

	out := maps.Clone(r.raw)
	out["identified"] = json.RawMessage(fmt.Sprintf("%t", r.Identified))
	if !r.Identified {
		out["bricks"] = json.RawMessage("[]")
	}
	if _, ok := out["batchMode"]; !ok && r.BatchMode {
		out["batchMode"] = json.RawMessage("true")
	}
	return json.Marshal(out)
}

func parseFlag(v json.RawMessage) bool {
	if len(v) == 0 {
		return false
	}
	var b bool
	if err := json.Unmarshal(v, &b); err == nil {
		return b
	}
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		return strings.EqualFold(strings.TrimSpace(s), "true")
	}
	return false
}
