package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yuchen1830/showme/internal/extract"
	"github.com/yuchen1830/showme/internal/model"
	"github.com/yuchen1830/showme/internal/sites"
)

// SiteAgent searches one marketplace. The Gemini call returns free text
// describing the listings it found; the pluggable parser turns that into
// typed listings.
type SiteAgent struct {
	client *Client
	id     string
	cfg    sites.Config
	parser extract.Parser
}

// NewSiteAgent builds the agent for one registered site. A nil parser
// selects the default regex parser.
func NewSiteAgent(client *Client, id string, cfg sites.Config, parser extract.Parser) *SiteAgent {
	if parser == nil {
		parser = extract.RegexParser{}
	}
	return &SiteAgent{client: client, id: id, cfg: cfg, parser: parser}
}

func (a *SiteAgent) Name() string { return a.id }

func (a *SiteAgent) Search(ctx context.Context, info model.EventInfo) (model.SiteResult, error) {
	text, err := a.client.generate(ctx, a.prompt(info), nil)
	if err != nil {
		return model.SiteResult{}, err
	}

	result := model.SiteResult{
		Site:      a.id,
		Status:    model.StatusSuccess,
		SearchURL: a.cfg.URL,
	}
	listings, err := a.parser.Parse(a.id, text)
	if err != nil {
		if !errors.Is(err, extract.ErrNoListings) {
			return model.SiteResult{}, err
		}
		// The site answered but nothing parseable came back. Keep the run
		// alive with a pointer to the site instead of failing it.
		result.Status = model.StatusPartial
		result.Listings = []model.TicketListing{extract.PlaceholderListing(a.id)}
		return result, nil
	}
	result.Listings = listings
	return result, nil
}

func (a *SiteAgent) prompt(info model.EventInfo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are a ticket search specialist for %s (%s).\n\n%s\n", a.cfg.Name, a.cfg.URL, strings.TrimSpace(a.cfg.Instructions))
	fmt.Fprintf(&b, `
Find tickets to: %s
City: %s

Only report tickets for shows in or very near %s. If no shows exist there,
report that clearly. Prefer the listing pages on %s itself.

For each ticket listing you find, report one line in exactly this format:
Section: <section>, Row: <row>, Price: $<total price with fees>

List every listing you can find, cheapest first.`,
		info.ArtistName, info.City, info.City, a.cfg.URL)
	return b.String()
}
