package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/lehigh-university-libraries/brickbuilder/internal/models"
)

// Diagnostic messages attached to failed lookups
const (
	MsgNotConfigured = "Rebrickable API not configured"
	MsgSearchFailed  = "Could not search parts"
	MsgSetsFailed    = "Could not fetch sets"
	MsgPartFailed    = "Could not fetch part details"
	MsgSetFailed     = "Could not fetch set instructions"
)

// AllColors as SetsQuery.Color aggregates sets over every color of a part
const AllColors = "all"

const (
	aggregatePageSize  = 1000
	defaultSearchPage  = 20
	defaultSetsPerPage = 10
)

// Service maps Rebrickable responses onto the gateway's models. It never
// returns errors: failures come back as values whose Failed() is true.
type Service struct {
	client *Client
}

// SetsQuery selects a page of sets containing a part.
// Color is empty for the part's first color, a numeric color id, or "all".
type SetsQuery struct {
	Page     int
	PageSize int
	Color    string
}

// NewService wraps a client
func NewService(client *Client) *Service {
	return &Service{client: client}
}

// SetURL is the Rebrickable page of a set
func SetURL(setNum string) string {
	return fmt.Sprintf("https://rebrickable.com/sets/%s/", setNum)
}

// InstructionsURL is the Rebrickable instructions page of a set
func InstructionsURL(setNum string) string {
	return fmt.Sprintf("https://rebrickable.com/instructions/%s/", setNum)
}

// SearchParts searches parts by name or description
func (s *Service) SearchParts(ctx context.Context, query string, page, pageSize int) models.PartSearch {
	page, pageSize = pageDefaults(page, pageSize, defaultSearchPage)

	data, err := s.client.SearchParts(ctx, query, page, pageSize)
	if err != nil {
		slog.Error("Error searching parts", "query", query, "error", err)
		msg := MsgSearchFailed
		if errors.Is(err, ErrNotConfigured) {
			msg = MsgNotConfigured
		}
		return models.PartSearch{Count: 0, Parts: []models.PartSummary{}, Error: msg}
	}

	parts := make([]models.PartSummary, 0, len(data.Results))
	for _, p := range data.Results {
		parts = append(parts, models.PartSummary{
			PartNum:  p.PartNum,
			Name:     p.Name,
			Category: p.PartCatID,
			ImageURL: p.PartImgURL,
			URL:      p.PartURL,
		})
	}
	return models.PartSearch{Count: data.Count, Parts: parts}
}

// GetPartDetails merges a part with the colors it was produced in
func (s *Service) GetPartDetails(ctx context.Context, partNum string) models.PartDetails {
	part, err := s.client.GetPart(ctx, partNum)
	if err != nil {
		slog.Error("Error getting part details", "part_num", partNum, "error", err)
		return models.PartDetails{Error: MsgPartFailed}
	}
	colors, err := s.client.PartColors(ctx, partNum)
	if err != nil {
		slog.Error("Error getting part colors", "part_num", partNum, "error", err)
		return models.PartDetails{Error: MsgPartFailed}
	}

	available := make([]models.PartColor, 0, len(colors.Results))
	for _, c := range colors.Results {
		available = append(available, models.PartColor{
			ColorID:     c.ColorID,
			ColorName:   c.ColorName,
			NumSets:     c.NumSets,
			NumSetParts: c.NumSetParts,
			ImageURL:    c.PartImgURL,
		})
	}

	return models.PartDetails{
		PartNum:         part.PartNum,
		Name:            part.Name,
		Category:        part.PartCatID,
		ImageURL:        part.PartImgURL,
		URL:             part.PartURL,
		YearFrom:        part.YearFrom,
		YearTo:          part.YearTo,
		AvailableColors: available,
	}
}

// GetSetsWithPart returns one page of sets containing partNum
func (s *Service) GetSetsWithPart(ctx context.Context, partNum string, q SetsQuery) models.SetsForPart {
	q.Page, q.PageSize = pageDefaults(q.Page, q.PageSize, defaultSetsPerPage)
	color := strings.TrimSpace(strings.ToLower(q.Color))

	var (
		out models.SetsForPart
		err error
	)
	switch {
	case color == AllColors:
		out, err = s.setsAcrossColors(ctx, partNum, q)
	case color != "":
		id, convErr := strconv.Atoi(color)
		if convErr != nil {
			slog.Warn("Invalid color filter", "part_num", partNum, "color", q.Color)
			return models.SetsForPart{Count: 0, Sets: []models.SetSummary{}, Error: MsgSetsFailed}
		}
		out, err = s.setsForColor(ctx, partNum, id, q)
	default:
		out, err = s.setsForFirstColor(ctx, partNum, q)
	}
	if err != nil {
		slog.Error("Error getting sets with part", "part_num", partNum, "color", q.Color, "error", err)
		msg := MsgSetsFailed
		if errors.Is(err, ErrNotConfigured) {
			msg = MsgNotConfigured
		}
		return models.SetsForPart{Count: 0, Sets: []models.SetSummary{}, Error: msg}
	}
	return out
}

// GetSetInstructions looks up a set and links its instructions page
func (s *Service) GetSetInstructions(ctx context.Context, setNum string) models.SetInstructions {
	set, err := s.client.GetSet(ctx, setNum)
	if err != nil {
		slog.Error("Error getting set instructions", "set_num", setNum, "error", err)
		return models.SetInstructions{Error: MsgSetFailed}
	}
	return models.SetInstructions{
		SetNum:          set.SetNum,
		Name:            set.Name,
		Year:            set.Year,
		NumParts:        set.NumParts,
		ImageURL:        set.SetImgURL,
		URL:             set.SetURL,
		InstructionsURL: InstructionsURL(set.SetNum),
	}
}

// setsForFirstColor keys the lookup on whichever color Rebrickable lists first
func (s *Service) setsForFirstColor(ctx context.Context, partNum string, q SetsQuery) (models.SetsForPart, error) {
	colors, err := s.client.PartColors(ctx, partNum)
	if err != nil {
		return models.SetsForPart{}, err
	}
	if len(colors.Results) == 0 {
		return models.SetsForPart{Count: 0, Sets: []models.SetSummary{}}, nil
	}
	return s.setsForColor(ctx, partNum, colors.Results[0].ColorID, q)
}

func (s *Service) setsForColor(ctx context.Context, partNum string, colorID int, q SetsQuery) (models.SetsForPart, error) {
	data, err := s.client.SetsForPartColor(ctx, partNum, colorID, q.Page, q.PageSize)
	if err != nil {
		return models.SetsForPart{}, err
	}
	sets := make([]models.SetSummary, 0, len(data.Results))
	for _, item := range data.Results {
		sets = append(sets, toSetSummary(item))
	}
	return models.SetsForPart{Count: data.Count, Sets: sets, ColorID: colorID}, nil
}

// setsAcrossColors walks every color of the part one after another, merges
// sets that contain the part in several colors and pages the merged list.
func (s *Service) setsAcrossColors(ctx context.Context, partNum string, q SetsQuery) (models.SetsForPart, error) {
	colors, err := s.client.PartColors(ctx, partNum)
	if err != nil {
		return models.SetsForPart{}, err
	}

	var merged []models.SetSummary
	index := map[string]int{}
	for _, color := range colors.Results {
		for page := 1; ; page++ {
			data, err := s.client.SetsForPartColor(ctx, partNum, color.ColorID, page, aggregatePageSize)
			if err != nil {
				return models.SetsForPart{}, fmt.Errorf("color %d: %w", color.ColorID, err)
			}
			for _, item := range data.Results {
				summary := toSetSummary(item)
				if i, ok := index[summary.SetNum]; ok {
					merged[i].Quantity += summary.Quantity
					continue
				}
				index[summary.SetNum] = len(merged)
				merged = append(merged, summary)
			}
			if data.Next == "" || len(data.Results) == 0 {
				break
			}
		}
	}

	start := (q.Page - 1) * q.PageSize
	end := start + q.PageSize
	if start > len(merged) {
		start = len(merged)
	}
	if end > len(merged) {
		end = len(merged)
	}
	sets := append([]models.SetSummary{}, merged[start:end]...)
	return models.SetsForPart{Count: len(merged), Sets: sets}, nil
}

func toSetSummary(item SetAppearance) models.SetSummary {
	return models.SetSummary{
		SetNum:          item.SetNum,
		Name:            firstNonEmpty(item.SetName, item.Name),
		Year:            firstNonZero(item.SetYear, item.Year),
		NumParts:        firstNonZero(item.SetNumParts, item.NumParts),
		Quantity:        item.Quantity,
		ImageURL:        item.SetImgURL,
		InstructionsURL: SetURL(item.SetNum),
	}
}

func pageDefaults(page, pageSize, defaultSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultSize
	}
	return page, pageSize
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstNonZero(values ...int) int {
	for _, v := range values {
		if v != 0 {
			return v
		}
	}
	return 0
}
