// Package search sequences a ticket search through its phases: research the
// event, fan out to every site plus the venue lookup under a concurrency
// cap, then score and rank whatever came back. A search always returns a
// result; failed phases degrade it instead of aborting it.
package search

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/yuchen1830/showme/internal/agent"
	"github.com/yuchen1830/showme/internal/model"
	"github.com/yuchen1830/showme/internal/retry"
	"github.com/yuchen1830/showme/internal/runner"
	"github.com/yuchen1830/showme/internal/scoring"
)

// Gathering task labels. Site tasks are prefixed so a marketplace id can
// never collide with the venue lookup in the outcome map.
const venueTaskLabel = "venue"

func siteTaskLabel(name string) string {
	return "site:" + name
}

type Options struct {
	// MaxConcurrent caps simultaneous agent sessions. <=0 means 4.
	MaxConcurrent int

	// SiteTimeout is the hard deadline per site search. Agents need time to
	// work through listings, so the default is generous: 500s.
	SiteTimeout time.Duration

	// DiscoveryTimeout bounds the research phase. <=0 means 120s.
	DiscoveryTimeout time.Duration

	// MaxRetries per site call for transient failures. <0 means 0; the
	// default policy is 2 (three total attempts).
	MaxRetries int

	// RetryStep is the linear backoff unit: step, 2*step, ... <=0 means 2s.
	RetryStep time.Duration

	// RateLimitRPS is a global start-rate limit across gathering tasks.
	// <=0 disables it.
	RateLimitRPS float64

	Logger *log.Logger
}

func (o Options) withDefaults() Options {
	if o.MaxConcurrent <= 0 {
		o.MaxConcurrent = 4
	}
	if o.SiteTimeout <= 0 {
		o.SiteTimeout = 500 * time.Second
	}
	if o.DiscoveryTimeout <= 0 {
		o.DiscoveryTimeout = 120 * time.Second
	}
	if o.MaxRetries < 0 {
		o.MaxRetries = 0
	}
	if o.RetryStep <= 0 {
		o.RetryStep = 2 * time.Second
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard, "", 0)
	}
	return o
}

// Orchestrator runs searches. It depends only on the collaborator
// interfaces, never on concrete agent types.
type Orchestrator struct {
	research agent.Research
	venue    agent.VenueIntel
	sites    []agent.Site
	opts     Options
}

func New(research agent.Research, venue agent.VenueIntel, sites []agent.Site, opts Options) *Orchestrator {
	return &Orchestrator{
		research: research,
		venue:    venue,
		sites:    sites,
		opts:     opts.withDefaults(),
	}
}

// Search runs the full pipeline. It never returns an error: source-level
// and lookup-level failures are recorded on the result's error list and the
// result carries whatever was computed.
func (o *Orchestrator) Search(ctx context.Context, query model.SearchQuery) *model.Result {
	result := &model.Result{
		Query:       query,
		SiteResults: make(map[string]model.SiteResult, len(o.sites)),
		StartedAt:   time.Now(),
	}
	runID := fmt.Sprintf("search-%d", result.StartedAt.UnixNano())
	logf := func(format string, args ...any) {
		prefix := make([]any, 0, len(args)+1)
		prefix = append(prefix, runID)
		prefix = append(prefix, args...)
		o.opts.Logger.Printf("run=%s "+format, prefix...)
	}
	logf("search start: query=%q location=%q sites=%d maxConcurrent=%d siteTimeout=%s maxRetries=%d",
		query.Query, query.Location, len(o.sites), o.opts.MaxConcurrent, o.opts.SiteTimeout, o.opts.MaxRetries)

	info := o.runResearch(ctx, query, result, logf)
	result.EventInfo = &info

	intel := o.runGathering(ctx, info, result, logf)
	result.VenueIntel = &intel

	o.runScoring(result, info, intel, logf)

	result.CompletedAt = time.Now()
	logf("search complete: seats=%d events=%d errors=%d duration=%s",
		len(result.RankedSeats), len(result.Events), len(result.Errors),
		result.CompletedAt.Sub(result.StartedAt).Round(time.Millisecond))
	return result
}

// runResearch resolves the query into event info. Research failure is not
// fatal: the search continues with a minimal EventInfo built from the raw
// query.
func (o *Orchestrator) runResearch(ctx context.Context, query model.SearchQuery, result *model.Result, logf func(string, ...any)) model.EventInfo {
	logf("phase=research start")

	researchCtx, cancel := context.WithTimeout(ctx, o.opts.DiscoveryTimeout)
	defer cancel()

	info, err := o.research.Research(researchCtx, query)
	if err != nil {
		logf("phase=research degraded: %v", err)
		result.Errors = append(result.Errors, fmt.Sprintf("research failed: %v", err))
		return model.EventInfo{
			ArtistName: query.Query,
			EventName:  query.Query,
			City:       query.Location,
			Notes:      fmt.Sprintf("Research failed: %v", err),
		}
	}
	logf("phase=research done: event=%q venues=%d dates=%d", info.EventName, len(info.Venues), len(info.Dates))
	return info
}

// gatherValue is the heterogeneous payload of one gathering task: a site
// task fills Site, the venue task fills Intel.
type gatherValue struct {
	Site  *model.SiteResult
	Intel *model.VenueIntel
}

// runGathering fans out one task per site plus the venue lookup, merges the
// outcomes into the result map, and returns the venue intel (the default
// profile when the lookup failed or came back empty).
func (o *Orchestrator) runGathering(ctx context.Context, info model.EventInfo, result *model.Result, logf func(string, ...any)) model.VenueIntel {
	logf("phase=gather start: tasks=%d", len(o.sites)+1)

	policy := retry.Policy{
		MaxRetries: o.opts.MaxRetries,
		Backoff:    retry.LinearBackoff(o.opts.RetryStep),
	}

	tasks := make([]runner.Task[gatherValue], 0, len(o.sites)+1)
	for _, site := range o.sites {
		site := site
		tasks = append(tasks, runner.Task[gatherValue]{
			Label:   siteTaskLabel(site.Name()),
			Timeout: o.opts.SiteTimeout,
			Run: func(taskCtx context.Context) (gatherValue, error) {
				res, err := retry.Do(taskCtx, policy, func(callCtx context.Context) (model.SiteResult, error) {
					return site.Search(callCtx, info)
				})
				if err != nil {
					return gatherValue{}, err
				}
				return gatherValue{Site: &res}, nil
			},
		})
	}

	venueName := "Unknown Venue"
	if len(info.Venues) > 0 {
		venueName = info.Venues[0]
	}
	tasks = append(tasks, runner.Task[gatherValue]{
		Label:   venueTaskLabel,
		Timeout: o.opts.SiteTimeout,
		Run: func(taskCtx context.Context) (gatherValue, error) {
			intel, err := retry.Do(taskCtx, policy, func(callCtx context.Context) (model.VenueIntel, error) {
				return o.venue.Lookup(callCtx, venueName, info.City)
			})
			if err != nil {
				return gatherValue{}, err
			}
			return gatherValue{Intel: &intel}, nil
		},
	})

	outcomes := runner.All(ctx, tasks, runner.Options{
		MaxConcurrent: o.opts.MaxConcurrent,
		RateLimitRPS:  o.opts.RateLimitRPS,
	})

	for _, site := range o.sites {
		name := site.Name()
		out := outcomes[siteTaskLabel(name)]
		switch {
		case out.TimedOut:
			logf("phase=gather site=%s timed out after %s", name, o.opts.SiteTimeout)
			result.SiteResults[name] = model.SiteResult{
				Site:         name,
				Status:       model.StatusFailed,
				ErrorMessage: "search timed out",
			}
			result.Errors = append(result.Errors, fmt.Sprintf("%s: search timed out", name))
		case out.Err != nil:
			logf("phase=gather site=%s failed: %v", name, out.Err)
			result.SiteResults[name] = model.SiteResult{
				Site:         name,
				Status:       model.StatusFailed,
				ErrorMessage: out.Err.Error(),
			}
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", name, out.Err))
		default:
			res := *out.Value.Site
			res.Site = name
			if res.Status == "" || res.Status == model.StatusPending || res.Status == model.StatusRunning {
				res.Status = model.StatusSuccess
			}
			if maxPrice := result.Query.MaxPrice; maxPrice > 0 && len(res.Listings) > 0 {
				kept := make([]model.TicketListing, 0, len(res.Listings))
				for _, l := range res.Listings {
					if l.EffectivePrice() > maxPrice {
						continue
					}
					kept = append(kept, l)
				}
				if dropped := len(res.Listings) - len(kept); dropped > 0 {
					logf("phase=gather site=%s dropped %d listings above max price %.2f", name, dropped, maxPrice)
				}
				res.Listings = kept
			}
			logf("phase=gather site=%s status=%s listings=%d", name, res.Status, len(res.Listings))
			result.SiteResults[name] = res
		}
	}

	venueOut := outcomes[venueTaskLabel]
	switch {
	case venueOut.TimedOut:
		logf("phase=gather venue intel timed out; using default profile")
		result.Errors = append(result.Errors, "venue research timed out")
		return model.DefaultVenueIntel(venueName, info.City)
	case venueOut.Err != nil:
		logf("phase=gather venue intel failed: %v; using default profile", venueOut.Err)
		result.Errors = append(result.Errors, fmt.Sprintf("venue research failed: %v", venueOut.Err))
		return model.DefaultVenueIntel(venueName, info.City)
	default:
		intel := *venueOut.Value.Intel
		if len(intel.Sections) == 0 {
			logf("phase=gather venue intel empty; using default sections")
			intel.Sections = model.DefaultVenueIntel(venueName, info.City).Sections
		}
		logf("phase=gather venue intel done: sections=%d", len(intel.Sections))
		return intel
	}
}

// runScoring dedups, scores, ranks, and aggregates. A panic here is caught
// and recorded; the result keeps whatever was computed before it.
func (o *Orchestrator) runScoring(result *model.Result, info model.EventInfo, intel model.VenueIntel, logf func(string, ...any)) {
	defer func() {
		if r := recover(); r != nil {
			logf("phase=score panicked: %v", r)
			result.Errors = append(result.Errors, fmt.Sprintf("scoring failed: %v", r))
		}
	}()

	// Collect listings in configured site order, not map order, so equal
	// scores rank identically across repeated runs.
	var all []model.TicketListing
	for _, site := range o.sites {
		name := site.Name()
		res, ok := result.SiteResults[name]
		if !ok || len(res.Listings) == 0 {
			continue
		}
		deduped := model.DedupListings(res.Listings)
		if len(deduped) != len(res.Listings) {
			logf("phase=score site=%s deduplicated %d listings down to %d", name, len(res.Listings), len(deduped))
			res.Listings = deduped
			result.SiteResults[name] = res
		}
		all = append(all, deduped...)
	}
	if len(all) == 0 {
		logf("phase=score no listings to analyze")
		return
	}

	median := scoring.MedianPrice(all)
	logf("phase=score listings=%d medianPrice=%.2f", len(all), median)

	result.RankedSeats = scoring.RankSeats(all, intel, median)
	result.Events = scoring.BuildEvents(result.SiteResults, info)

	top := 0
	if len(result.RankedSeats) > 0 {
		top = result.RankedSeats[0].ValueScore
	}
	logf("phase=score done: seats=%d topScore=%d events=%d", len(result.RankedSeats), top, len(result.Events))
}
