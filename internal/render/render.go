// Package render prints search results for humans: ranked seats with score
// bars, the lowest price per site, and any warnings collected along the way.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yuchen1830/showme/internal/model"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	scoreStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	sectionStyle = lipgloss.NewStyle().Bold(true)
)

// Options controls rendering. Plain disables styling and is used for
// non-interactive output.
type Options struct {
	Plain    bool
	MaxSeats int
}

func (o Options) withDefaults() Options {
	if o.MaxSeats <= 0 {
		o.MaxSeats = 10
	}
	return o
}

func (o Options) style(s lipgloss.Style, text string) string {
	if o.Plain {
		return text
	}
	return s.Render(text)
}

// Results writes a human-readable report for one search.
func Results(w io.Writer, res *model.Result, opts Options) {
	opts = opts.withDefaults()

	fmt.Fprintln(w, opts.style(titleStyle, "TOP TICKET RECOMMENDATIONS (by value score)"))
	fmt.Fprintln(w)

	if len(res.RankedSeats) == 0 {
		fmt.Fprintln(w, "No tickets found. Check the warnings below.")
	}

	seats := res.RankedSeats
	if len(seats) > opts.MaxSeats {
		seats = seats[:opts.MaxSeats]
	}
	for i, seat := range seats {
		fmt.Fprintf(w, "#%d | %s [%s]\n", i+1,
			opts.style(scoreStyle, fmt.Sprintf("Score: %d/100", seat.ValueScore)),
			scoreBar(seat.ValueScore))
		fmt.Fprintf(w, "    %s %s\n", opts.style(sectionStyle, "Section:"), seat.Section)
		if seat.Row != "" {
			fmt.Fprintf(w, "    Row: %s\n", seat.Row)
		}
		fmt.Fprintf(w, "    Price: $%.2f\n", seat.Price)
		fmt.Fprintf(w, "    Source: %s\n", seat.Source)
		if seat.URL != "" {
			fmt.Fprintf(w, "    %s\n", opts.style(dimStyle, seat.URL))
		}
		fmt.Fprintln(w)
	}

	if len(res.Events) > 0 {
		fmt.Fprintln(w, opts.style(titleStyle, "PRICE BY SOURCE"))
		for _, e := range res.Events {
			fmt.Fprintf(w, "  %-15s | Lowest: $%.2f\n", strings.ToUpper(e.Source), e.LowestPrice)
		}
		fmt.Fprintln(w)
	}

	if len(res.Errors) > 0 {
		fmt.Fprintln(w, opts.style(warnStyle, "WARNINGS"))
		for _, msg := range res.Errors {
			fmt.Fprintf(w, "  ! %s\n", msg)
		}
		fmt.Fprintln(w)
	}
}

// scoreBar renders a ten-segment bar for a 0-100 score.
func scoreBar(score int) string {
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	filled := score / 10
	return strings.Repeat("█", filled) + strings.Repeat("░", 10-filled)
}
