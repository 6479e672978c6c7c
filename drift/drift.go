package drift

import (
	"github.com/startech-innovation/sitekit/models"
)

// UnchangedThreshold is the largest text or outline distance still
// reported as unchanged. Small distances come from rotating testimonials, dates and
// similar noise.
const UnchangedThreshold = 3

// Report describes the difference between two captures of the same page.
type Report struct {
	// TextDistance compares the visible body text.
	TextDistance int

	// OutlineDistance compares the page skeleton: heading levels and texts,
	// navigation targets and section ids.
	OutlineDistance int
}

// Unchanged reports whether both the visible text and the outline are
// considered the same.
func (r Report) Unchanged() bool {
	return r.TextDistance <= UnchangedThreshold && r.OutlineDistance <= UnchangedThreshold
}

// Compare fingerprints both captures. Either side may be nil, which counts
// as an empty page.
func Compare(prev, cur *models.PageContent) Report {
	return Report{
		TextDistance:    Distance(textFingerprint(prev), textFingerprint(cur)),
		OutlineDistance: Distance(outlineFingerprint(prev), outlineFingerprint(cur)),
	}
}

func textFingerprint(c *models.PageContent) uint64 {
	if c == nil {
		return 0
	}
	return Fingerprint(c.AllText)
}

// outlineFingerprint hashes 3-shingles of the structural tokens so that a
// reordered menu moves the fingerprint even when the words stay the same.
func outlineFingerprint(c *models.PageContent) uint64 {
	if c == nil {
		return 0
	}
	var tokens []string
	for _, h := range c.Headings {
		tokens = append(tokens, h.Level+":"+h.Text)
	}
	for _, l := range c.Navigation {
		tokens = append(tokens, "nav:"+l.Href)
	}
	for _, s := range c.Sections {
		if s.ID != "" {
			tokens = append(tokens, "section:"+s.ID)
		}
	}
	return fingerprintTokens(shingles(tokens, 3))
}
