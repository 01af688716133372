package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/yuchen1830/showme/internal/model"
)

// VenueAgent researches section quality for a venue.
type VenueAgent struct {
	client *Client
}

func NewVenueAgent(client *Client) *VenueAgent {
	return &VenueAgent{client: client}
}

type venueResponse struct {
	Sections []struct {
		Name  string  `json:"name"`
		Score float64 `json:"score"`
		Notes string  `json:"notes"`
	} `json:"sections"`
	BestValueSections []string `json:"best_value_sections"`
	AvoidSections     []string `json:"avoid_sections"`
	Tips              []string `json:"tips"`
}

var venueSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"sections": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"name":  {Type: genai.TypeString},
					"score": {Type: genai.TypeNumber},
					"notes": {Type: genai.TypeString},
				},
				Required: []string{"name", "score"},
			},
		},
		"best_value_sections": {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
		"avoid_sections":      {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
		"tips":                {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
	},
	Required: []string{"sections"},
}

func (a *VenueAgent) Lookup(ctx context.Context, venueName, city string) (model.VenueIntel, error) {
	text, err := a.client.generate(ctx, venuePrompt(venueName, city), venueSchema)
	if err != nil {
		return model.VenueIntel{}, err
	}

	var parsed venueResponse
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		return model.VenueIntel{}, fmt.Errorf("venue research: parse structured json: %w", err)
	}

	intel := model.VenueIntel{
		VenueName:         venueName,
		City:              city,
		BestValueSections: parsed.BestValueSections,
		AvoidSections:     parsed.AvoidSections,
		Tips:              parsed.Tips,
	}
	for _, s := range parsed.Sections {
		name := strings.TrimSpace(s.Name)
		if name == "" {
			continue
		}
		score := s.Score
		if score < 1 {
			score = 1
		}
		if score > 10 {
			score = 10
		}
		intel.Sections = append(intel.Sections, model.SectionQuality{
			Name:  name,
			Score: score,
			Notes: strings.TrimSpace(s.Notes),
		})
	}
	return intel, nil
}

func venuePrompt(venueName, city string) string {
	return fmt.Sprintf(`You are a venue research specialist helping people find the best seats.

Research the seating at %s in %s. Make sure you find the venue in %s, not a
venue with a similar name elsewhere.

1. Find the venue's seating chart and identify all major sections
   (Floor, Lower, Upper, Balcony, etc.).
2. Research which sections have the best views and which get warnings about
   obstructed views or bad angles.
3. Identify sections that offer good views at lower prices.

Rate each section's quality from 1 to 10 and return ONLY a single JSON
object matching the response schema, including best_value_sections,
avoid_sections, and any insider tips.`, venueName, city, city)
}
