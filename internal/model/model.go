// Package model holds the data types shared by every phase of a ticket
// search: the user query, the researched event, per-site listing results,
// venue section quality, and the scored output handed to callers.
package model

import (
	"strings"
	"time"
)

// SearchQuery is the user-facing input to a search. Immutable once created.
type SearchQuery struct {
	Query     string
	Location  string
	StartDate *time.Time
	EndDate   *time.Time
	MaxPrice  float64
}

// EventInfo is produced once by the research phase and consumed read-only
// by every later phase.
type EventInfo struct {
	ArtistName string
	EventName  string
	Dates      []time.Time
	Venues     []string
	City       string
	TourName   string
	Notes      string
}

// Status tracks the outcome of one site search.
type Status string

const (
	StatusPending Status = "pending"
	StatusRunning Status = "running"
	StatusSuccess Status = "success"
	StatusPartial Status = "partial"
	StatusFailed  Status = "failed"
)

// TicketListing is one concrete ticket offer extracted from a site.
// This is the atomic unit that gets scored and ranked.
type TicketListing struct {
	Source         string
	Section        string
	Row            string
	SeatNumbers    string
	Quantity       int
	PricePerTicket float64
	FeesPerTicket  float64
	TotalPrice     float64
	URL            string
	Verified       bool
	Notes          string
}

// Normalize fills derivable defaults: quantity 1 and a total price equal to
// the per-ticket price when the site did not report a separate total.
func (l *TicketListing) Normalize() {
	if l.Quantity < 1 {
		l.Quantity = 1
	}
	if l.TotalPrice <= 0 && l.PricePerTicket > 0 {
		l.TotalPrice = l.PricePerTicket
	}
}

// EffectivePrice is the price used for scoring: the fee-inclusive total when
// known, otherwise the per-ticket price.
func (l TicketListing) EffectivePrice() float64 {
	if l.TotalPrice > 0 {
		return l.TotalPrice
	}
	return l.PricePerTicket
}

// DedupListings collapses listings whose (section, row, price-per-ticket)
// triple repeats exactly, preserving first-seen order. Flaky extraction
// passes tend to emit the same seat twice; applying this twice yields the
// same set as applying it once.
func DedupListings(listings []TicketListing) []TicketListing {
	type key struct {
		section string
		row     string
		price   float64
	}
	seen := make(map[key]struct{}, len(listings))
	out := make([]TicketListing, 0, len(listings))
	for _, l := range listings {
		k := key{section: l.Section, row: l.Row, price: l.PricePerTicket}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, l)
	}
	return out
}

// SiteResult is the outcome of searching one site.
type SiteResult struct {
	Site         string
	Status       Status
	Listings     []TicketListing
	ErrorMessage string
	SearchURL    string
}

// SectionQuality rates one venue section on a 1-10 scale.
type SectionQuality struct {
	Name  string  `yaml:"name"`
	Score float64 `yaml:"score"`
	Notes string  `yaml:"notes"`
}

// VenueIntel is the section-quality knowledge gathered for a venue. A
// search always has one: when the lookup fails, DefaultVenueIntel stands in
// so scoring never runs with zero quality information.
type VenueIntel struct {
	VenueName         string
	City              string
	Sections          []SectionQuality
	BestValueSections []string
	AvoidSections     []string
	SeatingChartURL   string
	Tips              []string
	Notes             string
}

// SectionScore looks up a section by case-insensitive substring match in
// either direction. The second return reports whether a section matched.
func (v VenueIntel) SectionScore(sectionName string) (float64, bool) {
	needle := strings.ToLower(strings.TrimSpace(sectionName))
	if needle == "" {
		return 0, false
	}
	for _, s := range v.Sections {
		known := strings.ToLower(strings.TrimSpace(s.Name))
		if known == "" {
			continue
		}
		if strings.Contains(needle, known) || strings.Contains(known, needle) {
			return s.Score, true
		}
	}
	return 0, false
}

// DefaultVenueIntel returns the generic section table used when venue
// research fails or returns nothing.
func DefaultVenueIntel(venueName, city string) VenueIntel {
	return VenueIntel{
		VenueName: venueName,
		City:      city,
		Sections: []SectionQuality{
			{Name: "Floor", Score: 9.0, Notes: "Usually best view"},
			{Name: "Orchestra", Score: 8.5, Notes: "Great sightlines"},
			{Name: "Lower", Score: 7.5, Notes: "Good value"},
			{Name: "Club", Score: 7.0, Notes: "Premium amenities"},
			{Name: "Mezzanine", Score: 6.5, Notes: "Elevated view"},
			{Name: "Upper", Score: 5.0, Notes: "Budget option"},
			{Name: "Balcony", Score: 4.5, Notes: "Distant but cheap"},
		},
	}
}

// Seat is a scored listing: a TicketListing plus its computed value score.
type Seat struct {
	ID         string
	Section    string
	Row        string
	SeatNumber string
	Price      float64
	Available  bool
	ValueScore int

	// Retained for auditing; not part of the export contract.
	Fees   float64
	URL    string
	Source string
}

// Venue is the venue summary attached to an aggregated Event.
type Venue struct {
	ID      string
	Name    string
	Address string
	Lat     float64
	Lng     float64
}

// Event aggregates one site's results: the lowest observed price for the
// show on that site.
type Event struct {
	ID          string
	Title       string
	Date        time.Time
	Venue       Venue
	LowestPrice float64
	Distance    float64
	Source      string
}

// Result is the top-level outcome of a search. It is always produced, even
// when every site fails; degraded phases append to Errors instead of
// aborting the run. The orchestrator owns and mutates it during the run;
// once returned it is immutable to callers.
type Result struct {
	Query       SearchQuery
	EventInfo   *EventInfo
	VenueIntel  *VenueIntel
	SiteResults map[string]SiteResult
	RankedSeats []Seat
	Events      []Event
	Errors      []string
	StartedAt   time.Time
	CompletedAt time.Time
}
