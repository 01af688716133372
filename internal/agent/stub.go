package agent

import (
	"context"
	"time"

	"github.com/yuchen1830/showme/internal/model"
)

// StubResearch is a deterministic Research collaborator for tests and
// offline runs.
type StubResearch struct {
	Info model.EventInfo
	Err  error
}

func (s StubResearch) Research(_ context.Context, query model.SearchQuery) (model.EventInfo, error) {
	if s.Err != nil {
		return model.EventInfo{}, s.Err
	}
	info := s.Info
	if info.ArtistName == "" {
		info.ArtistName = query.Query
		info.EventName = query.Query
		info.City = query.Location
	}
	return info, nil
}

// StubSite is a scriptable Site collaborator. Delay makes it slow, Block
// makes it hang until the context is done, Err makes it fail; ErrsBefore
// fails the first N calls and then succeeds.
type StubSite struct {
	SiteName   string
	Listings   []model.TicketListing
	Err        error
	ErrsBefore int
	Delay      time.Duration
	Block      bool

	calls int
}

func (s *StubSite) Name() string { return s.SiteName }

func (s *StubSite) Search(ctx context.Context, _ model.EventInfo) (model.SiteResult, error) {
	if s.Block {
		<-ctx.Done()
		return model.SiteResult{}, ctx.Err()
	}
	if s.Delay > 0 {
		t := time.NewTimer(s.Delay)
		select {
		case <-t.C:
		case <-ctx.Done():
			t.Stop()
			return model.SiteResult{}, ctx.Err()
		}
	}
	s.calls++
	if s.Err != nil && (s.ErrsBefore == 0 || s.calls <= s.ErrsBefore) {
		return model.SiteResult{}, s.Err
	}
	listings := make([]model.TicketListing, len(s.Listings))
	copy(listings, s.Listings)
	for i := range listings {
		listings[i].Source = s.SiteName
		listings[i].Normalize()
	}
	return model.SiteResult{
		Site:     s.SiteName,
		Status:   model.StatusSuccess,
		Listings: listings,
	}, nil
}

// StubVenueIntel is a deterministic VenueIntel collaborator.
type StubVenueIntel struct {
	Intel model.VenueIntel
	Err   error
}

func (s StubVenueIntel) Lookup(_ context.Context, venueName, city string) (model.VenueIntel, error) {
	if s.Err != nil {
		return model.VenueIntel{}, s.Err
	}
	intel := s.Intel
	if intel.VenueName == "" {
		intel.VenueName = venueName
		intel.City = city
	}
	return intel, nil
}
