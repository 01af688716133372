package sites_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/yuchen1830/showme/internal/sites"
)

func TestLoadEmbeddedRegistry(t *testing.T) {
	t.Parallel()

	r, err := sites.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	ids := r.IDs()
	if len(ids) != 5 {
		t.Fatalf("expected 5 configured sites, got %v", ids)
	}
	// Priority order, not map order.
	want := []string{"ticketmaster", "stubhub", "seatgeek", "tickpick", "vividseats"}
	for i, id := range want {
		if ids[i] != id {
			t.Fatalf("IDs() = %v, want %v", ids, want)
		}
	}

	for _, id := range ids {
		cfg, err := r.Get(id)
		if err != nil {
			t.Fatalf("Get(%q): %v", id, err)
		}
		if cfg.Name == "" || cfg.URL == "" || cfg.Instructions == "" {
			t.Fatalf("site %q incomplete: %#v", id, cfg)
		}
	}
}

func TestDefaultIDsExcludesOptInSites(t *testing.T) {
	t.Parallel()

	r, err := sites.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	defaults := r.DefaultIDs()
	if len(defaults) != 4 {
		t.Fatalf("expected 4 default sites, got %v", defaults)
	}
	for _, id := range defaults {
		if id == "vividseats" {
			t.Fatalf("vividseats should be opt-in, defaults = %v", defaults)
		}
	}
}

func TestGetNormalizesAndRejectsUnknown(t *testing.T) {
	t.Parallel()

	r, err := sites.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if _, err := r.Get("  StubHub "); err != nil {
		t.Fatalf("Get with mixed case and spaces: %v", err)
	}

	_, err = r.Get("craigslist")
	if err == nil {
		t.Fatalf("expected error for unknown site")
	}
	if !strings.Contains(err.Error(), "ticketmaster") {
		t.Fatalf("error should list valid sites, got: %v", err)
	}
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "sites.yaml")
	doc := `sites:
  axs:
    name: AXS
    url: https://www.axs.com
    instructions: Search AXS for the event.
    priority: 1
    default: true
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	r, err := sites.LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if got := r.DefaultIDs(); len(got) != 1 || got[0] != "axs" {
		t.Fatalf("DefaultIDs = %v", got)
	}
}

func TestLoadFileRejectsInvalidRegistry(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"empty":       `sites: {}`,
		"missing url": "sites:\n  axs:\n    name: AXS\n",
		"bad yaml":    `sites: [`,
	}
	for name, doc := range cases {
		path := filepath.Join(t.TempDir(), "sites.yaml")
		if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := sites.LoadFile(path); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}
