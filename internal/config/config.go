// Package config loads the worker profile: the immutable configuration
// value the worker is started with. Store-name bumps, manifest edits
// and pattern changes are profile edits followed by a restart; nothing
// in here mutates at runtime.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Profile holds the complete worker configuration.
type Profile struct {
	// App identifies the panel this worker fronts.
	App struct {
		// Name is shown as the default notification title.
		Name string `yaml:"name"`
		// Origin is the panel origin the worker proxies, e.g.
		// https://panel.example.com.
		Origin string `yaml:"origin"`
		// URLToken is the substring that identifies a panel window by
		// its URL at notification-click time.
		URLToken string `yaml:"url_token"`
		// ShellDocument is the path of the application shell served to
		// offline navigations, e.g. /index.html.
		ShellDocument string `yaml:"shell_document"`
	} `yaml:"app"`

	// Cache configures the store names and the traffic classification.
	Cache struct {
		// ShellVersion and VendorVersion name the two live stores;
		// bump one whenever the asset manifest or the vendor pattern
		// list changes.
		ShellVersion  string `yaml:"shell_version"`
		VendorVersion string `yaml:"vendor_version"`
		// AssetManifest is the ordered list of root-relative paths
		// seeded into the shell store at install.
		AssetManifest []string `yaml:"asset_manifest"`
		// VendorPatterns classify third-party asset traffic.
		VendorPatterns []string `yaml:"vendor_patterns"`
		// BackendPatterns classify identity/data-layer traffic that
		// must never be cached.
		BackendPatterns []string `yaml:"backend_patterns"`
	} `yaml:"cache"`

	// Push configures notification display defaults.
	Push struct {
		Title      string `yaml:"title"`
		Body       string `yaml:"body"`
		Icon       string `yaml:"icon"`
		Badge      string `yaml:"badge"`
		Tag        string `yaml:"tag"`
		Vibration  []int  `yaml:"vibration"`
		DefaultURL string `yaml:"default_url"`
	} `yaml:"push"`

	// Expiry configures the daily subscription-expiry notifier.
	Expiry struct {
		// OffsetDays is how many days before expiry the notice goes out.
		OffsetDays int `yaml:"offset_days"`
		// TimeZone is the IANA zone the daily check runs in.
		TimeZone string `yaml:"time_zone"`
		// MailSubject is the subject line of the expiry notice.
		MailSubject string `yaml:"mail_subject"`
		// RenewalURL is linked from the notice body.
		RenewalURL string `yaml:"renewal_url"`
	} `yaml:"expiry"`
}

// Load reads and parses a profile file, applies defaults and
// validates it.
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile file: %w", err)
	}

	return Parse(data)
}

// Parse parses profile YAML, applies defaults and validates it.
func Parse(data []byte) (*Profile, error) {
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse profile: %w", err)
	}

	p.applyDefaults()

	if err := p.Validate(); err != nil {
		return nil, err
	}

	return &p, nil
}

// applyDefaults fills in the optional fields.
func (p *Profile) applyDefaults() {
	if p.App.ShellDocument == "" {
		p.App.ShellDocument = "/index.html"
	}
	if p.Push.Title == "" {
		p.Push.Title = p.App.Name
	}
	if p.Push.Body == "" {
		p.Push.Body = "You have a new notification."
	}
	if p.Push.Tag == "" {
		p.Push.Tag = "panel-notification"
	}
	if len(p.Push.Vibration) == 0 {
		p.Push.Vibration = []int{200, 100, 200}
	}
	if p.Push.DefaultURL == "" {
		p.Push.DefaultURL = "/"
	}
	if p.Expiry.OffsetDays == 0 {
		p.Expiry.OffsetDays = 5
	}
	if p.Expiry.TimeZone == "" {
		p.Expiry.TimeZone = "Europe/Istanbul"
	}
	if p.Expiry.MailSubject == "" {
		p.Expiry.MailSubject = "Your panel subscription expires soon"
	}
}

// Validate performs validation on the profile.
func (p *Profile) Validate() error {
	var problems []string

	if strings.TrimSpace(p.App.Name) == "" {
		problems = append(problems, "app name is required")
	}
	if p.App.Origin == "" {
		problems = append(problems, "app origin is required")
	} else if u, err := url.Parse(p.App.Origin); err != nil || u.Scheme == "" || u.Host == "" {
		problems = append(problems, fmt.Sprintf("app origin %q must be an absolute URL", p.App.Origin))
	}
	if strings.TrimSpace(p.App.URLToken) == "" {
		problems = append(problems, "app url token is required")
	}
	if !strings.HasPrefix(p.App.ShellDocument, "/") {
		problems = append(problems, "shell document must be a root-relative path")
	}

	if strings.TrimSpace(p.Cache.ShellVersion) == "" {
		problems = append(problems, "shell store version is required")
	}
	if strings.TrimSpace(p.Cache.VendorVersion) == "" {
		problems = append(problems, "vendor store version is required")
	}
	if len(p.Cache.AssetManifest) == 0 {
		problems = append(problems, "asset manifest cannot be empty")
	}
	for i, path := range p.Cache.AssetManifest {
		if !strings.HasPrefix(path, "/") {
			problems = append(problems, fmt.Sprintf("asset manifest entry %d (%q) must be root-relative", i, path))
		}
	}
	for i, pattern := range p.Cache.VendorPatterns {
		if strings.TrimSpace(pattern) == "" {
			problems = append(problems, fmt.Sprintf("vendor pattern %d is empty", i))
		}
	}
	for i, pattern := range p.Cache.BackendPatterns {
		if strings.TrimSpace(pattern) == "" {
			problems = append(problems, fmt.Sprintf("backend pattern %d is empty", i))
		}
	}

	if p.Expiry.OffsetDays < 0 {
		problems = append(problems, "expiry offset days cannot be negative")
	}
	if _, err := timeZoneLocation(p.Expiry.TimeZone); err != nil {
		problems = append(problems, fmt.Sprintf("unknown expiry time zone %q", p.Expiry.TimeZone))
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid profile: %s", strings.Join(problems, "; "))
	}

	return nil
}
