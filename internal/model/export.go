package model

import "time"

// The export types below are the stable JSON contract consumed by the
// frontend. Internal fields (fees, listing URL, source site of a seat) are
// deliberately absent.

type ExportVenue struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Address string  `json:"address"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
}

type ExportEvent struct {
	ID           string      `json:"id"`
	Title        string      `json:"title"`
	Date         string      `json:"date"`
	Venue        ExportVenue `json:"venue"`
	LowestPrice  float64     `json:"lowestPrice"`
	Distance     float64     `json:"distance"`
	VendorSource string      `json:"vendorSource"`
}

type ExportSeat struct {
	ID           string  `json:"id"`
	Section      string  `json:"section"`
	Row          string  `json:"row"`
	SeatNumber   string  `json:"seatNumber"`
	Price        float64 `json:"price"`
	Available    bool    `json:"available"`
	AIValueScore int     `json:"aiValueScore"`
}

type Export struct {
	Events []ExportEvent `json:"events"`
	Seats  []ExportSeat  `json:"seats"`
	Errors []string      `json:"errors"`
}

// ToExport projects a Result onto the frontend contract. Slices are always
// non-nil so the JSON encodes [] rather than null.
func (r *Result) ToExport() Export {
	out := Export{
		Events: make([]ExportEvent, 0, len(r.Events)),
		Seats:  make([]ExportSeat, 0, len(r.RankedSeats)),
		Errors: make([]string, 0, len(r.Errors)),
	}
	for _, e := range r.Events {
		out.Events = append(out.Events, ExportEvent{
			ID:    e.ID,
			Title: e.Title,
			Date:  e.Date.Format(time.RFC3339),
			Venue: ExportVenue{
				ID:      e.Venue.ID,
				Name:    e.Venue.Name,
				Address: e.Venue.Address,
				Lat:     e.Venue.Lat,
				Lng:     e.Venue.Lng,
			},
			LowestPrice:  e.LowestPrice,
			Distance:     e.Distance,
			VendorSource: e.Source,
		})
	}
	for _, s := range r.RankedSeats {
		out.Seats = append(out.Seats, ExportSeat{
			ID:           s.ID,
			Section:      s.Section,
			Row:          s.Row,
			SeatNumber:   s.SeatNumber,
			Price:        s.Price,
			Available:    s.Available,
			AIValueScore: s.ValueScore,
		})
	}
	out.Errors = append(out.Errors, r.Errors...)
	return out
}
