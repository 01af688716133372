package render_test

import (
	"strings"
	"testing"

	"github.com/yuchen1830/showme/internal/model"
	"github.com/yuchen1830/showme/internal/render"
)

func TestResultsPlain(t *testing.T) {
	t.Parallel()

	res := &model.Result{
		RankedSeats: []model.Seat{
			{Section: "Floor", Row: "A", Price: 120, ValueScore: 90, Source: "stubhub"},
			{Section: "Balcony", Price: 45, ValueScore: 40, Source: "tickpick"},
		},
		Events: []model.Event{
			{Source: "stubhub", LowestPrice: 120},
			{Source: "tickpick", LowestPrice: 45},
		},
		Errors: []string{"venue research timed out"},
	}

	var b strings.Builder
	render.Results(&b, res, render.Options{Plain: true})
	out := b.String()

	for _, want := range []string{
		"TOP TICKET RECOMMENDATIONS",
		"#1 | Score: 90/100 [█████████░]",
		"Section: Floor",
		"Row: A",
		"Price: $120.00",
		"#2 | Score: 40/100 [████░░░░░░]",
		"PRICE BY SOURCE",
		"STUBHUB",
		"WARNINGS",
		"! venue research timed out",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	// Plain mode must not emit ANSI escapes.
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("plain output contains escape codes:\n%q", out)
	}
}

func TestResultsCapsSeatList(t *testing.T) {
	t.Parallel()

	res := &model.Result{}
	for i := 0; i < 25; i++ {
		res.RankedSeats = append(res.RankedSeats, model.Seat{Section: "Upper", Price: 30, ValueScore: 50})
	}

	var b strings.Builder
	render.Results(&b, res, render.Options{Plain: true, MaxSeats: 5})
	if got := strings.Count(b.String(), "Section:"); got != 5 {
		t.Fatalf("expected 5 seats rendered, got %d", got)
	}
}

func TestResultsEmpty(t *testing.T) {
	t.Parallel()

	var b strings.Builder
	render.Results(&b, &model.Result{}, render.Options{Plain: true})
	if !strings.Contains(b.String(), "No tickets found") {
		t.Fatalf("empty result message missing:\n%s", b.String())
	}
}
