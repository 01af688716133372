// Package scoring turns gathered listings into ranked seats. Everything in
// this package is a pure function: listings in, scored output out, no I/O.
package scoring

import (
	"sort"
	"strings"

	"github.com/yuchen1830/showme/internal/model"
)

// fallbackScore is used when a listing has no usable price at all.
const fallbackScore = 50

// defaultReferencePrice anchors the price ratio when no listing anywhere in
// the search reported a positive price.
const defaultReferencePrice = 100.0

// Keyword table used when the venue profile has no matching section.
var keywordQuality = []struct {
	keyword string
	score   float64
}{
	{"floor", 9.0},
	{"pit", 9.5},
	{"vip", 9.0},
	{"orchestra", 8.5},
	{"front", 8.5},
	{"premium", 8.0},
	{"lower", 7.5},
	{"club", 7.0},
	{"100", 7.5},
	{"200", 6.0},
	{"mezzanine", 6.5},
	{"mezz", 6.5},
	{"loge", 6.0},
	{"upper", 5.0},
	{"300", 5.0},
	{"balcony", 4.5},
	{"400", 4.0},
	{"nosebleed", 3.5},
}

const unknownSectionQuality = 5.5

// SectionQuality resolves a section name to a 1-10 quality rating: the venue
// profile first, then the static keyword table, then a middle default.
func SectionQuality(sectionName string, intel model.VenueIntel) float64 {
	if score, ok := intel.SectionScore(sectionName); ok {
		return score
	}
	lower := strings.ToLower(sectionName)
	for _, kq := range keywordQuality {
		if strings.Contains(lower, kq.keyword) {
			return kq.score
		}
	}
	return unknownSectionQuality
}

// Score computes the 0-100 value score for one listing.
//
// The score rewards seats that are both high quality and cheaper than the
// market median: (quality*10) / (price/median), +10% for verified sellers,
// clamped to [0,100] and truncated. Cheapness has no cap of its own, so an
// extremely cheap high-quality seat saturates at 100.
func Score(listing model.TicketListing, intel model.VenueIntel, medianPrice float64) int {
	price := listing.EffectivePrice()
	if price <= 0 {
		return fallbackScore
	}
	if medianPrice <= 0 {
		medianPrice = defaultReferencePrice
	}

	quality := SectionQuality(listing.Section, intel)
	priceRatio := price / medianPrice
	raw := (quality * 10) / priceRatio
	if listing.Verified {
		raw *= 1.10
	}

	if raw > 100 {
		raw = 100
	}
	if raw < 0 {
		raw = 0
	}
	return int(raw)
}

// MedianPrice returns the median of all positive total prices across every
// listing in the search, or 0 when none exist.
func MedianPrice(listings []model.TicketListing) float64 {
	var prices []float64
	for _, l := range listings {
		if l.TotalPrice > 0 {
			prices = append(prices, l.TotalPrice)
		}
	}
	if len(prices) == 0 {
		return 0
	}
	sort.Float64s(prices)
	mid := len(prices) / 2
	if len(prices)%2 == 1 {
		return prices[mid]
	}
	return (prices[mid-1] + prices[mid]) / 2
}
