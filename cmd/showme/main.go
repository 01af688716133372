// showme searches multiple ticket marketplaces for an event, scores every
// listing for value, and prints the ranked results.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/yuchen1830/showme/internal/agent"
	"github.com/yuchen1830/showme/internal/agent/gemini"
	"github.com/yuchen1830/showme/internal/httpapi"
	"github.com/yuchen1830/showme/internal/model"
	"github.com/yuchen1830/showme/internal/render"
	"github.com/yuchen1830/showme/internal/search"
	"github.com/yuchen1830/showme/internal/sites"
	"github.com/yuchen1830/showme/internal/util"
	"github.com/yuchen1830/showme/internal/version"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "error: %s\n", util.RedactSecrets(err.Error()))
		os.Exit(1)
	}
}

type config struct {
	workers          int
	maxRetries       int
	siteTimeout      time.Duration
	discoveryTimeout time.Duration
	rateLimitRPS     float64

	geminiModel   string
	geminiBaseURL string

	sitesConfig string
}

func newRootCmd() *cobra.Command {
	cfg := &config{}

	root := &cobra.Command{
		Use:           "showme",
		Short:         "Multi-source ticket search with value scoring",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.IntVar(&cfg.workers, "workers", envInt("WORKERS", 4), "Max concurrent agent sessions (env: WORKERS)")
	pf.IntVar(&cfg.maxRetries, "max-retries", envInt("MAX_RETRIES", 2), "Max retries per site for transient failures (env: MAX_RETRIES)")
	pf.DurationVar(&cfg.siteTimeout, "site-timeout", envDuration("SITE_TIMEOUT", 500*time.Second), "Hard deadline per site search (env: SITE_TIMEOUT)")
	pf.DurationVar(&cfg.discoveryTimeout, "discovery-timeout", envDuration("DISCOVERY_TIMEOUT", 120*time.Second), "Deadline for the research phase (env: DISCOVERY_TIMEOUT)")
	pf.Float64Var(&cfg.rateLimitRPS, "rate-limit-rps", envFloat("RATE_LIMIT_RPS", 0), "Global agent start rate limit, 0 disables (env: RATE_LIMIT_RPS)")
	pf.StringVar(&cfg.geminiModel, "gemini-model", envStr("GEMINI_MODEL", "gemini-2.5-flash"), "Gemini model name (env: GEMINI_MODEL)")
	pf.StringVar(&cfg.geminiBaseURL, "gemini-base-url", envStr("GEMINI_BASE_URL", ""), "Gemini API base URL override (env: GEMINI_BASE_URL)")
	pf.StringVar(&cfg.sitesConfig, "sites-config", "", "Path to a YAML site registry replacing the built-in one")

	root.AddCommand(newSearchCmd(cfg))
	root.AddCommand(newServeCmd(cfg))
	root.AddCommand(newVersionCmd())
	return root
}

func newSearchCmd(cfg *config) *cobra.Command {
	var siteIDs []string
	var headless bool
	var output string
	var maxPrice float64

	cmd := &cobra.Command{
		Use:   "search <query> [location]",
		Short: "Search ticket sites and rank listings by value",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			location := ""
			if len(args) > 1 {
				location = args[1]
			}

			logger := log.New(cmd.ErrOrStderr(), "", log.LstdFlags)
			searchFn, err := buildSearch(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}

			query := model.SearchQuery{Query: args[0], Location: location, MaxPrice: maxPrice}
			result, err := searchFn(cmd.Context(), query, siteIDs)
			if err != nil {
				return err
			}

			render.Results(cmd.OutOrStdout(), result, render.Options{Plain: headless})

			path, err := exportJSON(result, output)
			if err != nil {
				return fmt.Errorf("export results: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Results exported to: %s\n", path)
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&siteIDs, "sites", nil, "Restrict the search to these site identifiers")
	cmd.Flags().BoolVar(&headless, "headless", false, "Suppress styled interactive output")
	cmd.Flags().StringVar(&output, "output", "", "JSON export path (default results_<timestamp>.json)")
	cmd.Flags().Float64Var(&maxPrice, "max-price", 0, "Maximum price per ticket, 0 disables")
	return cmd
}

func newServeCmd(cfg *config) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the search API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := log.New(os.Stdout, "", log.LstdFlags)
			searchFn, err := buildSearch(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}

			srv := &http.Server{
				Addr:              addr,
				Handler:           httpapi.New(searchFn, logger).Handler(),
				ReadHeaderTimeout: 10 * time.Second,
			}
			logger.Printf("listening on %s", addr)
			return srv.ListenAndServe()
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "Listen address")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the showme version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.Current)
		},
	}
}

// buildSearch wires the Gemini collaborators and the site registry into a
// SearchFunc shared by the CLI and the HTTP server.
func buildSearch(ctx context.Context, cfg *config, logger *log.Logger) (httpapi.SearchFunc, error) {
	registry, err := loadRegistry(cfg)
	if err != nil {
		return nil, err
	}

	apiKey := strings.TrimSpace(os.Getenv("GEMINI_API_KEY"))
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
	}
	client, err := gemini.New(ctx, gemini.Config{
		APIKey:  apiKey,
		Model:   cfg.geminiModel,
		BaseURL: cfg.geminiBaseURL,
	})
	if err != nil {
		return nil, err
	}

	research := gemini.NewResearchAgent(client)
	venue := gemini.NewVenueAgent(client)

	return func(ctx context.Context, query model.SearchQuery, siteIDs []string) (*model.Result, error) {
		if len(siteIDs) == 0 {
			siteIDs = registry.DefaultIDs()
		}
		siteAgents := make([]agent.Site, 0, len(siteIDs))
		for _, id := range siteIDs {
			siteCfg, err := registry.Get(id)
			if err != nil {
				return nil, err
			}
			siteAgents = append(siteAgents, gemini.NewSiteAgent(client, strings.ToLower(strings.TrimSpace(id)), siteCfg, nil))
		}

		orch := search.New(research, venue, siteAgents, search.Options{
			MaxConcurrent:    cfg.workers,
			SiteTimeout:      cfg.siteTimeout,
			DiscoveryTimeout: cfg.discoveryTimeout,
			MaxRetries:       cfg.maxRetries,
			RateLimitRPS:     cfg.rateLimitRPS,
			Logger:           logger,
		})
		return orch.Search(ctx, query), nil
	}, nil
}

func loadRegistry(cfg *config) (*sites.Registry, error) {
	if cfg.sitesConfig != "" {
		return sites.LoadFile(cfg.sitesConfig)
	}
	return sites.Load()
}

func exportJSON(result *model.Result, path string) (string, error) {
	if path == "" {
		path = fmt.Sprintf("results_%s.json", result.StartedAt.Format("20060102_150405"))
	}
	b, err := json.MarshalIndent(result.ToExport(), "", "  ")
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

func envStr(name, fallback string) string {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return fallback
	}
	return v
}

func envInt(name string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return fallback
	}
	out, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return out
}

func envFloat(name string, fallback float64) float64 {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return fallback
	}
	out, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return out
}

func envDuration(name string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return fallback
	}
	out, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return out
}
