// Package extract turns the free text returned by a site agent into typed
// ticket listings. The heuristics here are inherently approximate and are
// expected to be revised independently of orchestration, so everything is
// behind the Parser interface.
package extract

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/yuchen1830/showme/internal/model"
)

// ErrNoListings reports that a parse pass found nothing usable in the text.
var ErrNoListings = errors.New("no listings extracted")

// Parser extracts listings from agent output for one site.
type Parser interface {
	Parse(site, text string) ([]model.TicketListing, error)
}

// RegexParser is the default Parser: a structured "Section: X, Row: Y,
// Price: $Z" pass with a looser price-scan fallback.
type RegexParser struct {
	// MaxFallbackListings caps the unstructured pass; agent reasoning often
	// repeats the same prices many times. <=0 means 10.
	MaxFallbackListings int
}

var (
	structuredRe = regexp.MustCompile(`(?i)Section:\s*([^,\n]+?)(?:,\s*Row:\s*([^,\n]+?))?,[^\n]*?Price:\s*\$(\d+(?:\.\d{1,2})?)`)

	priceRe = regexp.MustCompile(`\$(\d+(?:\.\d{1,2})?)`)
	rowRe   = regexp.MustCompile(`(?i)Row:\s*([A-Za-z0-9]+)`)

	sectionRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)Section:\s*([A-Za-z0-9 ]+?)(?:,|\n|Row)`),
		regexp.MustCompile(`(?i)(?:Section|Sec\.?)\s+([A-Za-z0-9 ]+)`),
		regexp.MustCompile(`([A-Z][a-z]+ Balc(?:ony)? (?:Center|Centre|Left|Right))`),
		regexp.MustCompile(`([A-Z][a-z]+ (?:Floor|Orchestra|Mezzanine|Balcony))`),
	}
)

func (p RegexParser) Parse(site, text string) ([]model.TicketListing, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrNoListings
	}

	listings := p.parseStructured(site, text)
	if len(listings) == 0 {
		listings = p.parseLoose(site, text)
	}
	if len(listings) == 0 {
		return nil, ErrNoListings
	}

	for i := range listings {
		listings[i].Normalize()
	}
	return model.DedupListings(listings), nil
}

func (p RegexParser) parseStructured(site, text string) []model.TicketListing {
	var out []model.TicketListing
	for _, m := range structuredRe.FindAllStringSubmatch(text, -1) {
		price, err := strconv.ParseFloat(m[3], 64)
		if err != nil {
			continue
		}
		out = append(out, model.TicketListing{
			Source:         site,
			Section:        strings.TrimSpace(m[1]),
			Row:            strings.TrimSpace(m[2]),
			Quantity:       2,
			PricePerTicket: price,
			TotalPrice:     price,
		})
	}
	return out
}

// parseLoose pairs bare prices with whatever section and row mentions appear
// nearby. Order is positional: the i-th price gets the i-th section.
func (p RegexParser) parseLoose(site, text string) []model.TicketListing {
	maxListings := p.MaxFallbackListings
	if maxListings <= 0 {
		maxListings = 10
	}

	var prices []float64
	for _, m := range priceRe.FindAllStringSubmatch(text, -1) {
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		prices = append(prices, v)
	}
	if len(prices) == 0 {
		return nil
	}

	var sections []string
	for _, re := range sectionRes {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			sections = append(sections, strings.TrimSpace(m[1]))
		}
		if len(sections) > 0 {
			break
		}
	}

	var rows []string
	for _, m := range rowRe.FindAllStringSubmatch(text, -1) {
		rows = append(rows, strings.TrimSpace(m[1]))
	}

	if len(prices) > maxListings {
		prices = prices[:maxListings]
	}

	out := make([]model.TicketListing, 0, len(prices))
	for i, price := range prices {
		section := fmt.Sprintf("Section %d", i+1)
		if i < len(sections) {
			section = sections[i]
		}
		row := ""
		if i < len(rows) {
			row = rows[i]
		}
		out = append(out, model.TicketListing{
			Source:         site,
			Section:        section,
			Row:            row,
			Quantity:       2,
			PricePerTicket: price,
			TotalPrice:     price,
		})
	}
	return out
}

// PlaceholderListing is the notes-only listing recorded when a site was
// reached but no pricing could be extracted, so the result still points the
// user at the site.
func PlaceholderListing(site string) model.TicketListing {
	return model.TicketListing{
		Source:   site,
		Section:  "Various",
		Quantity: 1,
		Notes:    "Could not extract specific pricing - check site directly",
	}
}
