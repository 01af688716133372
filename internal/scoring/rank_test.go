package scoring_test

import (
	"testing"
	"time"

	"github.com/yuchen1830/showme/internal/model"
	"github.com/yuchen1830/showme/internal/scoring"
)

func TestRankSeatsSortsByScoreDescending(t *testing.T) {
	t.Parallel()

	intel := model.VenueIntel{}
	listings := []model.TicketListing{
		listing("Balcony", 100),
		listing("Pit", 100),
		listing("Mezzanine", 100),
	}

	seats := scoring.RankSeats(listings, intel, 100)
	if len(seats) != 3 {
		t.Fatalf("expected 3 seats, got %d", len(seats))
	}
	for i := 1; i < len(seats); i++ {
		if seats[i].ValueScore > seats[i-1].ValueScore {
			t.Fatalf("seats not sorted: %d before %d", seats[i-1].ValueScore, seats[i].ValueScore)
		}
	}
	if seats[0].Section != "Pit" {
		t.Fatalf("expected Pit first, got %q", seats[0].Section)
	}
}

func TestRankSeatsStableForEqualScores(t *testing.T) {
	t.Parallel()

	intel := model.VenueIntel{}
	// Same section and price: identical scores, so input order must win.
	listings := []model.TicketListing{}
	for _, row := range []string{"A", "B", "C", "D"} {
		l := listing("Floor", 80)
		l.Row = row
		listings = append(listings, l)
	}

	seats := scoring.RankSeats(listings, intel, 100)
	for i, row := range []string{"A", "B", "C", "D"} {
		if seats[i].Row != row {
			t.Fatalf("equal-score seats reordered: position %d has row %q", i, seats[i].Row)
		}
	}
}

func TestBuildEvents(t *testing.T) {
	t.Parallel()

	date := time.Date(2026, 3, 14, 20, 0, 0, 0, time.UTC)
	info := model.EventInfo{
		EventName: "Louis CK",
		City:      "Stockton",
		Venues:    []string{"Bob Hope Theatre"},
		Dates:     []time.Time{date},
	}
	results := map[string]model.SiteResult{
		"ticketmaster": {Site: "ticketmaster", Status: model.StatusSuccess, Listings: []model.TicketListing{
			listing("Floor", 120), listing("Balcony", 45),
		}},
		"stubhub": {Site: "stubhub", Status: model.StatusSuccess, Listings: []model.TicketListing{
			listing("Orchestra", 80),
		}},
		"seatgeek": {Site: "seatgeek", Status: model.StatusFailed},
	}

	events := scoring.BuildEvents(results, info)
	if len(events) != 2 {
		t.Fatalf("expected 2 events (sites with listings), got %d", len(events))
	}
	// Sorted by lowest price ascending: ticketmaster ($45) then stubhub ($80).
	if events[0].Source != "ticketmaster" || events[0].LowestPrice != 45 {
		t.Fatalf("unexpected first event: %#v", events[0])
	}
	if events[1].Source != "stubhub" || events[1].LowestPrice != 80 {
		t.Fatalf("unexpected second event: %#v", events[1])
	}
	for _, e := range events {
		if e.Title != "Louis CK" || e.Venue.Name != "Bob Hope Theatre" || e.Venue.Address != "Stockton" {
			t.Fatalf("event missing info: %#v", e)
		}
		if !e.Date.Equal(date) {
			t.Fatalf("event date = %s, want %s", e.Date, date)
		}
		if e.Venue.ID != "venue-"+e.Source {
			t.Fatalf("unexpected venue id %q", e.Venue.ID)
		}
	}
}
