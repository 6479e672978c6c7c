package snapshot

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/startech-innovation/sitekit/models"
)

// PageName derives the artifact name of a target: the last non-empty path
// segment of rawURL, with every character outside [A-Za-z0-9._-] replaced
// by '-'. URLs without a usable segment (the site root, "." or "..") get
// def.
func PageName(rawURL, def string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return def
	}

	segments := strings.Split(u.Path, "/")
	for i := len(segments) - 1; i >= 0; i-- {
		if segments[i] == "" {
			continue
		}
		name := sanitize(segments[i])
		if name == "." || name == ".." {
			return def
		}
		return name
	}
	return def
}

func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '_', r == '-':
			return r
		default:
			return '-'
		}
	}, s)
}

// target is a validated entry of the target list.
type target struct {
	URL  string
	Name string
}

// resolveTargets validates every URL and derives its page name. It fails
// before any browser work when a URL is not absolute http(s) or when two
// URLs map to the same name.
func resolveTargets(urls []string, def string) ([]target, error) {
	if len(urls) == 0 {
		return nil, models.NewSnapError(models.ErrCodeInvalidInput, "target list is empty", nil)
	}
	if def == "" || sanitize(def) != def || def == "." || def == ".." {
		return nil, models.NewSnapError(models.ErrCodeInvalidInput,
			fmt.Sprintf("default page name %q is not filesystem safe", def), nil)
	}

	targets := make([]target, 0, len(urls))
	seen := make(map[string]string, len(urls))
	for _, raw := range urls {
		u, err := url.Parse(raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return nil, models.NewSnapError(models.ErrCodeInvalidInput,
				fmt.Sprintf("target %q is not an absolute http(s) URL", raw), err)
		}

		name := PageName(raw, def)
		if prev, dup := seen[name]; dup {
			return nil, models.NewSnapError(models.ErrCodeInvalidInput,
				fmt.Sprintf("targets %q and %q both map to page name %q", prev, raw, name), nil)
		}
		seen[name] = raw
		targets = append(targets, target{URL: raw, Name: name})
	}
	return targets, nil
}
