package drift

import (
	"testing"

	"github.com/startech-innovation/sitekit/models"
)

func TestFingerprint_IdenticalTexts(t *testing.T) {
	text := "the quick brown fox jumps over the lazy dog"
	if Fingerprint(text) != Fingerprint(text) {
		t.Error("identical texts produced different fingerprints")
	}
}

func TestFingerprint_CaseInsensitive(t *testing.T) {
	if Fingerprint("Cloud Solutions") != Fingerprint("cloud solutions") {
		t.Error("fingerprint should ignore case")
	}
}

func TestFingerprint_SimilarTexts(t *testing.T) {
	fp1 := Fingerprint("the quick brown fox jumps over the lazy dog")
	fp2 := Fingerprint("the quick brown fox leaps over the lazy dog")

	if dist := Distance(fp1, fp2); dist > 10 {
		t.Errorf("similar texts have too large distance: %d", dist)
	}
}

func TestFingerprint_DifferentTexts(t *testing.T) {
	fp1 := Fingerprint("the quick brown fox jumps over the lazy dog")
	fp2 := Fingerprint("completely unrelated content about quantum physics and mathematics")

	if dist := Distance(fp1, fp2); dist < 5 {
		t.Errorf("very different texts have too small distance: %d", dist)
	}
}

func TestFingerprint_EmptyInput(t *testing.T) {
	for _, in := range []string{"", "   \t\n  "} {
		if fp := Fingerprint(in); fp != 0 {
			t.Errorf("Fingerprint(%q) = %064b, want 0", in, fp)
		}
	}
}

func TestDistance(t *testing.T) {
	tests := []struct {
		name string
		a, b uint64
		want int
	}{
		{"identical", 0xFF, 0xFF, 0},
		{"all different", 0, ^uint64(0), 64},
		{"one bit", 0, 1, 1},
		{"two bits", 0, 3, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Distance(tt.a, tt.b); got != tt.want {
				t.Errorf("Distance(%x, %x) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestShingles(t *testing.T) {
	got := shingles([]string{"a", "b", "c", "d"}, 3)
	want := []string{"a_b_c", "b_c_d"}
	if len(got) != len(want) {
		t.Fatalf("shingles = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("shingles[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	short := shingles([]string{"a", "b"}, 3)
	if len(short) != 2 {
		t.Errorf("short input should pass through, got %v", short)
	}
}

func TestCompare(t *testing.T) {
	page := &models.PageContent{
		Headings:   []models.Heading{{Level: "H1", Text: "Welcome"}, {Level: "H2", Text: "Services"}},
		Navigation: []models.Link{{Text: "Home", Href: "https://example.com/"}},
		AllText:    "Welcome to Startech Innovation. We build cloud and data platforms.",
	}

	same := Compare(page, page)
	if same.TextDistance != 0 || same.OutlineDistance != 0 || !same.Unchanged() {
		t.Errorf("Compare(page, page) = %+v", same)
	}

	changed := &models.PageContent{
		AllText: "Completely different wording about unrelated quantum physics research topics.",
	}
	r := Compare(page, changed)
	if r.Unchanged() {
		t.Errorf("expected change, got %+v", r)
	}

	restructured := &models.PageContent{
		Headings: []models.Heading{{Level: "H1", Text: "Careers"}, {Level: "H3", Text: "Open roles"}},
		Navigation: []models.Link{
			{Text: "Jobs", Href: "https://example.com/jobs"},
			{Text: "Team", Href: "https://example.com/team"},
		},
		Sections: []models.Section{{ID: "openings"}, {ID: "benefits"}},
		AllText:  page.AllText,
	}
	r = Compare(page, restructured)
	if r.TextDistance != 0 {
		t.Errorf("TextDistance = %d, want 0 for identical text", r.TextDistance)
	}
	if r.OutlineDistance <= UnchangedThreshold {
		t.Fatalf("OutlineDistance = %d, expected a restructured outline to exceed %d", r.OutlineDistance, UnchangedThreshold)
	}
	if r.Unchanged() {
		t.Errorf("outline-only change reported as unchanged: %+v", r)
	}

	if r := Compare(nil, nil); !r.Unchanged() {
		t.Errorf("Compare(nil, nil) = %+v", r)
	}
}

func TestReport_Unchanged(t *testing.T) {
	tests := []struct {
		name string
		r    Report
		want bool
	}{
		{"identical", Report{}, true},
		{"both at threshold", Report{TextDistance: UnchangedThreshold, OutlineDistance: UnchangedThreshold}, true},
		{"text changed", Report{TextDistance: UnchangedThreshold + 1}, false},
		{"outline changed", Report{OutlineDistance: 15}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.r.Unchanged(); got != tt.want {
				t.Errorf("Unchanged() = %v, want %v", got, tt.want)
			}
		})
	}
}
