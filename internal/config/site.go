package config

// SiteConfig holds per-site overrides for a single host.
type SiteConfig struct {
	// UserAgent overrides the User-Agent header for this site.
	UserAgent string `yaml:"userAgent,omitempty"`

	// MaxPages overrides the page cap for this site. Zero means use the
	// global setting.
	MaxPages int `yaml:"maxPages,omitempty"`
}

// File represents the structure of the .sitegraph configuration file.
type File struct {
	// Sites maps host names to their overrides (e.g. "docs.example.com").
	Sites map[string]SiteConfig `yaml:"sites,omitempty"`

	// Defaults is applied to every site unless overridden.
	Defaults SiteConfig `yaml:"defaults,omitempty"`
}

// SiteConfig returns the configuration for host, merging site-specific
// values over the file defaults.
func (cf *File) SiteConfig(host string) SiteConfig {
	result := cf.Defaults

	if site, ok := cf.Sites[host]; ok {
		if site.UserAgent != "" {
			result.UserAgent = site.UserAgent
		}
		if site.MaxPages != 0 {
			result.MaxPages = site.MaxPages
		}
	}
	return result
}
