package scoring

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/yuchen1830/showme/internal/model"
)

// RankSeats scores every listing and returns seats sorted by value score
// descending. The sort is stable: equal scores keep insertion order so
// repeated runs on identical input produce identical output.
func RankSeats(listings []model.TicketListing, intel model.VenueIntel, medianPrice float64) []model.Seat {
	seats := make([]model.Seat, 0, len(listings))
	for _, l := range listings {
		seats = append(seats, model.Seat{
			ID:         uuid.NewString(),
			Section:    l.Section,
			Row:        l.Row,
			SeatNumber: l.SeatNumbers,
			Price:      l.EffectivePrice(),
			Available:  true,
			ValueScore: Score(l, intel, medianPrice),
			Fees:       l.FeesPerTicket,
			URL:        l.URL,
			Source:     l.Source,
		})
	}
	sort.SliceStable(seats, func(i, j int) bool {
		return seats[i].ValueScore > seats[j].ValueScore
	})
	return seats
}

// BuildEvents aggregates one Event per site that returned at least one
// listing, carrying that site's lowest positive price. Events are sorted by
// lowest price ascending.
func BuildEvents(siteResults map[string]model.SiteResult, info model.EventInfo) []model.Event {
	// Iterate sites in a fixed order so tie-broken output is deterministic.
	sites := make([]string, 0, len(siteResults))
	for site := range siteResults {
		sites = append(sites, site)
	}
	sort.Strings(sites)

	events := make([]model.Event, 0, len(sites))
	for _, site := range sites {
		res := siteResults[site]
		if len(res.Listings) == 0 {
			continue
		}

		lowest := 0.0
		for _, l := range res.Listings {
			p := l.EffectivePrice()
			if p <= 0 {
				continue
			}
			if lowest == 0 || p < lowest {
				lowest = p
			}
		}

		venueName := "Venue"
		if len(info.Venues) > 0 {
			venueName = info.Venues[0]
		}
		title := info.EventName
		if title == "" {
			title = "Event"
		}
		date := time.Now()
		if len(info.Dates) > 0 {
			date = info.Dates[0]
		}

		events = append(events, model.Event{
			ID:    fmt.Sprintf("event-%s-%s", site, uuid.NewString()[:8]),
			Title: title,
			Date:  date,
			Venue: model.Venue{
				ID:      "venue-" + site,
				Name:    venueName,
				Address: info.City,
			},
			LowestPrice: lowest,
			Source:      site,
		})
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].LowestPrice < events[j].LowestPrice
	})
	return events
}
