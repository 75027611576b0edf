package identify

import (
	"fmt"
	"strings"
)

// Mode selects between identifying one brick and cataloging a pile of bricks
type Mode string

const (
	ModeSingle Mode = "single"
	ModeBatch  Mode = "batch"
)

// ModeFromBatch maps the batchMode request flag onto a Mode
func ModeFromBatch(batch bool) Mode {
	if batch {
		return ModeBatch
	}
	return ModeSingle
}

// ParseMode accepts "single" or "batch" (case-insensitive)
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeSingle, "":
		return ModeSingle, nil
	case ModeBatch:
		return ModeBatch, nil
	default:
		return "", fmt.Errorf("unknown mode %q (single or batch)", s)
	}
}

// Instruction is the prompt text and output budget sent for one mode
type Instruction struct {
	Prompt    string
	MaxTokens int
}

// Temperature is used for every identification request
const Temperature = 0.1

// BuildInstruction renders the identification prompt for the given mode.
// Batch mode asks for a categorized inventory and gets a larger output budget.
func BuildInstruction(mode Mode) Instruction {
	var intro, focus, brickFields, extraFields, tips string
	maxTokens := 1024

	switch mode {
	case ModeBatch:
		maxTokens = 4096
		intro = "You are a LEGO brick expert helping to catalog a collection. Analyze this image and identify AS MANY distinct LEGO pieces as you can see clearly."
		focus = `
IMPORTANT: This is BATCH MODE - identify multiple different brick types visible in the image. Focus on pieces you can see clearly enough to identify. Group identical pieces together (e.g., if you see 5 red 2x4 bricks, list it once with an approximate count).
`
		brickFields = `      "color": "Color(s) seen",
      "approximateCount": "How many of this type you can see (e.g., '3-5', '10+', 'many')",
      "description": "Brief kid-friendly description",
      "confidence": "high/medium/low"`
		extraFields = `  "batchMode": true,
  "totalPiecesEstimate": "Rough estimate of total pieces visible (e.g., '50-100 pieces')",
  "categories": {
    "bricks": 0,
    "plates": 0,
    "tiles": 0,
    "slopes": 0,
    "technic": 0,
    "specialty": 0,
    "minifigParts": 0,
    "other": 0
  },
  "interestingFinds": ["List any rare, unusual, or notable pieces you spotted"],
  "suggestions": ["What could be built with this collection"],
  "message": "A friendly summary message about the collection (keep it fun for kids!)"`
		tips = `
Tips for batch identification:
- Prioritize pieces you can clearly identify
- Include common pieces like standard bricks, plates, and slopes
- Note any specialty pieces (wheels, windows, minifig parts, etc.)
- It's okay to have lower confidence for pieces partially visible
`
	default:
		intro = "You are a LEGO brick expert. Analyze this image and identify the LEGO piece(s) shown."
		brickFields = `      "color": "Color of the brick",
      "description": "Brief kid-friendly description",
      "confidence": "high/medium/low",
      "funFact": "A fun fact about this brick type that kids would enjoy"`
		extraFields = `  "suggestions": ["List of LEGO sets or builds this brick could be used in"],
  "message": "A friendly, encouraging message for the user (keep it fun for kids!)"`
		tips = `
If you cannot identify the image as LEGO bricks, set "identified" to false and provide a friendly message explaining what you see instead.
`
	}

	prompt := fmt.Sprintf(`%s
%s
Please provide the following information in JSON format:
{
  "identified": true/false,
  "bricks": [
    {
      "name": "Official LEGO name of the brick",
      "partNumber": "LEGO part number if known (e.g., 3001, 3003, etc.)",
      "category": "Category (e.g., Brick, Plate, Tile, Slope, Technic, etc.)",
      "dimensions": "Dimensions (e.g., 2x4, 1x2, etc.)",
%s
    }
  ],
%s
}
%s
Important: Only return valid JSON, no other text.`, intro, focus, brickFields, extraFields, tips)

	return Instruction{Prompt: prompt, MaxTokens: maxTokens}
}
