package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/yuchen1830/showme/internal/model"
)

// ResearchAgent resolves a free-text query into event information via a
// search-grounded Gemini call.
type ResearchAgent struct {
	client *Client
}

func NewResearchAgent(client *Client) *ResearchAgent {
	return &ResearchAgent{client: client}
}

type researchResponse struct {
	ArtistName string   `json:"artist_name"`
	EventName  string   `json:"event_name"`
	Dates      []string `json:"dates"`
	Venues     []string `json:"venues"`
	City       string   `json:"city"`
	TourName   string   `json:"tour_name"`
	Notes      string   `json:"notes"`
}

var researchSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"artist_name": {Type: genai.TypeString},
		"event_name":  {Type: genai.TypeString},
		"dates":       {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
		"venues":      {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
		"city":        {Type: genai.TypeString},
		"tour_name":   {Type: genai.TypeString},
		"notes":       {Type: genai.TypeString},
	},
	Required: []string{"artist_name", "event_name", "dates", "venues", "city"},
}

func (a *ResearchAgent) Research(ctx context.Context, query model.SearchQuery) (model.EventInfo, error) {
	text, err := a.client.generate(ctx, researchPrompt(query), researchSchema)
	if err != nil {
		return model.EventInfo{}, err
	}

	var parsed researchResponse
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		return model.EventInfo{}, fmt.Errorf("research: parse structured json: %w", err)
	}

	info := model.EventInfo{
		ArtistName: strings.TrimSpace(parsed.ArtistName),
		EventName:  strings.TrimSpace(parsed.EventName),
		City:       strings.TrimSpace(parsed.City),
		TourName:   strings.TrimSpace(parsed.TourName),
		Notes:      strings.TrimSpace(parsed.Notes),
	}
	if info.ArtistName == "" {
		info.ArtistName = query.Query
	}
	if info.EventName == "" {
		info.EventName = query.Query
	}
	if info.City == "" {
		info.City = query.Location
	}
	for _, v := range parsed.Venues {
		if v = strings.TrimSpace(v); v != "" {
			info.Venues = append(info.Venues, v)
		}
	}
	if len(info.Venues) > 5 {
		info.Venues = info.Venues[:5]
	}
	for _, d := range parsed.Dates {
		if t, ok := parseDate(d); ok {
			info.Dates = append(info.Dates, t)
		}
	}
	return info, nil
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{time.RFC3339, "2006-01-02", "January 2, 2006", "Jan 2, 2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func researchPrompt(query model.SearchQuery) string {
	var b strings.Builder
	fmt.Fprintf(&b, `You are a research assistant finding information about live events and concerts.

Search the web for upcoming shows by %q in or near %q and extract:
1. Confirmed show/event dates (prefer ISO format YYYY-MM-DD)
2. Venue names and their city
3. Tour name if applicable
4. Any special notes (e.g. "sold out", "just announced")

Focus on official announcements or reputable ticketing sites. If multiple
shows exist, list ALL of them. Make sure dates are for upcoming shows, not
past ones.
`, query.Query, query.Location)
	if query.StartDate != nil && query.EndDate != nil {
		fmt.Fprintf(&b, "\nOnly include shows between %s and %s.\n",
			query.StartDate.Format("2006-01-02"), query.EndDate.Format("2006-01-02"))
	}
	b.WriteString("\nReturn ONLY a single JSON object matching the response schema. If you cannot find a field, use an empty string or empty list.")
	return b.String()
}
