package newshound

import (
	"fmt"
	"net/url"
	"os"
	"sort"

	"golang.org/x/net/publicsuffix"
	"gopkg.in/yaml.v3"
)

// Site describes a crawlable news site.
//
// The domain is the registrable domain used to classify
// discovered links as in-domain or out-of-domain.
type Site struct {
	Key    string `yaml:"-"`
	Seed   string `yaml:"seed"`
	Domain string `yaml:"domain"`
}

// Sites is the built-in site table.
var Sites = map[string]Site{
	"nytimes":  {Key: "nytimes", Seed: "https://www.nytimes.com/", Domain: "nytimes.com"},
	"wsj":      {Key: "wsj", Seed: "https://www.wsj.com/", Domain: "wsj.com"},
	"foxnews":  {Key: "foxnews", Seed: "https://www.foxnews.com/", Domain: "foxnews.com"},
	"usatoday": {Key: "usatoday", Seed: "https://www.usatoday.com/", Domain: "usatoday.com"},
	"latimes":  {Key: "latimes", Seed: "https://www.latimes.com/", Domain: "latimes.com"},
}

// SiteKeys returns the sorted keys of the built-in site table.
func SiteKeys() []string {
	keys := make([]string, 0, len(Sites))
	for k := range Sites {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// LoadSites reads additional site entries from a YAML file.
//
// The file maps site keys to seed and domain, entries without a
// domain derive it from the seed's host. Loaded entries shadow
// built-in ones with the same key.
func LoadSites(path string) (map[string]Site, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("newshound: read sites %q - %w", path, err)
	}

	var entries map[string]Site
	if err := yaml.Unmarshal(buf, &entries); err != nil {
		return nil, fmt.Errorf("newshound: parse sites %q - %w", path, err)
	}

	sites := make(map[string]Site, len(entries))
	for key, site := range entries {
		site.Key = key
		if site.Seed == "" {
			return nil, fmt.Errorf("newshound: site %q has no seed", key)
		}
		if site.Domain == "" {
			s, err := SiteFromSeed(key, site.Seed)
			if err != nil {
				return nil, err
			}
			site.Domain = s.Domain
		}
		sites[key] = site
	}

	return sites, nil
}

// SiteFromSeed builds a site from a custom seed URL.
//
// The registrable domain is derived from the seed's host using
// the public suffix list.
func SiteFromSeed(key, seed string) (Site, error) {
	u, err := url.Parse(seed)
	if err != nil {
		return Site{}, fmt.Errorf("newshound: parse seed %q - %w", seed, err)
	}

	if u.Scheme != "http" && u.Scheme != "https" || u.Hostname() == "" {
		return Site{}, fmt.Errorf("newshound: seed %q is not an absolute http(s) URL", seed)
	}

	domain, err := publicsuffix.EffectiveTLDPlusOne(u.Hostname())
	if err != nil {
		return Site{}, fmt.Errorf("newshound: registrable domain of %q - %w", u.Hostname(), err)
	}

	if key == "" {
		key = domain
	}

	return Site{Key: key, Seed: seed, Domain: domain}, nil
}
