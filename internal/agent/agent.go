// Package agent defines the contracts for the external collaborators a
// search depends on. The orchestrator only ever sees these interfaces;
// whether a collaborator is an LLM with web search, a scraper, or a test
// stub is invisible to it.
package agent

import (
	"context"

	"github.com/yuchen1830/showme/internal/model"
)

// Research resolves a free-text query into event information. It runs once,
// first, and its output feeds every later phase.
type Research interface {
	Research(ctx context.Context, query model.SearchQuery) (model.EventInfo, error)
}

// Site searches one ticket marketplace for listings. It may take the full
// per-task timeout and is retried on transient failures.
type Site interface {
	// Name returns the site identifier, e.g. "ticketmaster".
	Name() string
	Search(ctx context.Context, info model.EventInfo) (model.SiteResult, error)
}

// VenueIntel researches section quality for a venue.
type VenueIntel interface {
	Lookup(ctx context.Context, venueName, city string) (model.VenueIntel, error)
}
