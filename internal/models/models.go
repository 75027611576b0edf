package models

// Confidence is the model's self-reported certainty for a brick.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Valid reports whether c is one of the three known levels.
func (c Confidence) Valid() bool {
	switch c {
	case ConfidenceHigh, ConfidenceMedium, ConfidenceLow:
		return true
	}
	return false
}

// BrickRecord describes one identified brick type.
// FunFact is only filled in single mode, ApproximateCount only in batch mode.
type BrickRecord struct {
	Name             string     `json:"name" yaml:"name"`
	PartNumber       string     `json:"partNumber,omitempty" yaml:"partnumber,omitempty"`
	Category         string     `json:"category" yaml:"category"`
	Dimensions       string     `json:"dimensions,omitempty" yaml:"dimensions,omitempty"`
	Color            string     `json:"color,omitempty" yaml:"color,omitempty"`
	Description      string     `json:"description" yaml:"description"`
	Confidence       Confidence `json:"confidence" yaml:"confidence"`
	FunFact          string     `json:"funFact,omitempty" yaml:"funfact,omitempty"`
	ApproximateCount string     `json:"approximateCount,omitempty" yaml:"approximatecount,omitempty"`
}

// PartSummary is a single row of a parts search
type PartSummary struct {
	PartNum  string `json:"partNum" yaml:"partnum"`
	Name     string `json:"name" yaml:"name"`
	Category int    `json:"category" yaml:"category"`
	ImageURL string `json:"imageUrl" yaml:"imageurl"`
	URL      string `json:"url" yaml:"url"`
}

// PartSearch is the best-effort result of a parts search.
// Error is set when the catalog could not be queried.
type PartSearch struct {
	Count int           `json:"count" yaml:"count"`
	Parts []PartSummary `json:"parts" yaml:"parts"`
	Error string        `json:"error,omitempty" yaml:"error,omitempty"`
}

// Failed reports whether the search failed upstream rather than being empty.
func (p PartSearch) Failed() bool { return p.Error != "" }

// PartColor is one color a part has been produced in
type PartColor struct {
	ColorID     int    `json:"colorId" yaml:"colorid"`
	ColorName   string `json:"colorName" yaml:"colorname"`
	NumSets     int    `json:"numSets" yaml:"numsets"`
	NumSetParts int    `json:"numSetParts" yaml:"numsetparts"`
	ImageURL    string `json:"imageUrl,omitempty" yaml:"imageurl,omitempty"`
}

// PartDetails merges a part with the colors it is available in.
type PartDetails struct {
	PartNum         string      `json:"partNum,omitempty" yaml:"partnum,omitempty"`
	Name            string      `json:"name,omitempty" yaml:"name,omitempty"`
	Category        int         `json:"category,omitempty" yaml:"category,omitempty"`
	ImageURL        string      `json:"imageUrl,omitempty" yaml:"imageurl,omitempty"`
	URL             string      `json:"url,omitempty" yaml:"url,omitempty"`
	YearFrom        int         `json:"yearFrom,omitempty" yaml:"yearfrom,omitempty"`
	YearTo          int         `json:"yearTo,omitempty" yaml:"yearto,omitempty"`
	AvailableColors []PartColor `json:"availableColors,omitempty" yaml:"availablecolors,omitempty"`
	Error           string      `json:"error,omitempty" yaml:"error,omitempty"`
}

// Failed reports whether the lookup failed upstream.
func (p PartDetails) Failed() bool { return p.Error != "" }

// SetSummary is a set that contains a given part.
type SetSummary struct {
	SetNum          string `json:"setNum" yaml:"setnum"`
	Name            string `json:"name" yaml:"name"`
	Year            int    `json:"year" yaml:"year"`
	NumParts        int    `json:"numParts" yaml:"numparts"`
	Quantity        int    `json:"quantity" yaml:"quantity"`
	ImageURL        string `json:"imageUrl" yaml:"imageurl"`
	InstructionsURL string `json:"instructionsUrl" yaml:"instructionsurl"`
}

// SetsForPart is one page of sets containing a part.
// ColorID is the color the page was keyed on, zero when sets were aggregated
// across every color of the part.
type SetsForPart struct {
	Count   int          `json:"count" yaml:"count"`
	Sets    []SetSummary `json:"sets" yaml:"sets"`
	ColorID int          `json:"colorId,omitempty" yaml:"colorid,omitempty"`
	Error   string       `json:"error,omitempty" yaml:"error,omitempty"`
}

// Failed reports whether the lookup failed upstream rather than being empty.
func (s SetsForPart) Failed() bool { return s.Error != "" }

// SetInstructions points at the building instructions of a set.
type SetInstructions struct {
	SetNum          string `json:"setNum,omitempty" yaml:"setnum,omitempty"`
	Name            string `json:"name,omitempty" yaml:"name,omitempty"`
	Year            int    `json:"year,omitempty" yaml:"year,omitempty"`
	NumParts        int    `json:"numParts,omitempty" yaml:"numparts,omitempty"`
	ImageURL        string `json:"imageUrl,omitempty" yaml:"imageurl,omitempty"`
	URL             string `json:"url,omitempty" yaml:"url,omitempty"`
	InstructionsURL string `json:"instructionsUrl,omitempty" yaml:"instructionsurl,omitempty"`
	Error           string `json:"error,omitempty" yaml:"error,omitempty"`
}

// Failed reports whether the lookup failed upstream.
func (s SetInstructions) Failed() bool { return s.Error != "" }
