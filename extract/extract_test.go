package extract

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/startech-innovation/sitekit/models"
)

const samplePage = `<!DOCTYPE html>
<html>
<head>
  <title>
    Startech   Innovation
  </title>
  <style>body { color: red; }</style>
</head>
<body>
  <header>
    <a href="/" class="logo">Startech</a>
    <nav>
      <a href="/solutions">Our
         Solutions</a>
      <a href="https://other.example/x">External</a>
      <a>No href</a>
    </nav>
  </header>
  <main id="top" class="hero wide">
    <h1>  Build   the future </h1>
    <p>First
       paragraph.</p>
    <a class="button" href="contact">Contact us</a>
    <button type="button">Open menu</button>
    <div role="button">Toggle</div>
    <section id="services">
      <h2>Services</h2>
      <ul>
        <li>Cloud</li>
        <li>Data <b>pipelines</b></li>
      </ul>
      <ol></ol>
      <h3>Details</h3>
      <p>Second paragraph.</p>
    </section>
  </main>
  <div hidden>secret</div>
  <script>var x = 1;</script>
</body>
</html>`

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"   ", ""},
		{"hello", "hello"},
		{"  hello   world  ", "hello world"},
		{"a\n\t b\r\nc", "a b c"},
		{"non\u00a0breaking \u00a0space", "non breaking space"},
		{"\uFEFFbom lead", "bom lead"},
	}
	for _, tt := range tests {
		got := NormalizeText(tt.in)
		if got != tt.want {
			t.Errorf("NormalizeText(%q) = %q, want %q", tt.in, got, tt.want)
		}
		if again := NormalizeText(got); again != got {
			t.Errorf("NormalizeText not idempotent: %q -> %q", got, again)
		}
	}
}

func TestCollect_Document(t *testing.T) {
	doc, err := NewDocument(samplePage, "https://www.startech-innovation.com/solutions")
	if err != nil {
		t.Fatalf("NewDocument: %v", err)
	}

	content, err := Collect(context.Background(), doc)
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}

	if content.Title != "Startech Innovation" {
		t.Errorf("Title = %q", content.Title)
	}

	wantHeadings := []models.Heading{
		{Level: "H1", Text: "Build the future"},
		{Level: "H2", Text: "Services"},
		{Level: "H3", Text: "Details"},
	}
	if !reflect.DeepEqual(content.Headings, wantHeadings) {
		t.Errorf("Headings = %+v, want %+v", content.Headings, wantHeadings)
	}

	wantNav := []models.Link{
		{Text: "Startech", Href: "https://www.startech-innovation.com/"},
		{Text: "Our Solutions", Href: "https://www.startech-innovation.com/solutions"},
		{Text: "External", Href: "https://other.example/x"},
		{Text: "No href", Href: ""},
	}
	if !reflect.DeepEqual(content.Navigation, wantNav) {
		t.Errorf("Navigation = %+v, want %+v", content.Navigation, wantNav)
	}

	wantParagraphs := []string{"First paragraph.", "Second paragraph."}
	if !reflect.DeepEqual(content.Paragraphs, wantParagraphs) {
		t.Errorf("Paragraphs = %v, want %v", content.Paragraphs, wantParagraphs)
	}

	wantLists := [][]string{{"Cloud", "Data pipelines"}, {}}
	if !reflect.DeepEqual(content.Lists, wantLists) {
		t.Errorf("Lists = %v, want %v", content.Lists, wantLists)
	}

	if len(content.Buttons) != 3 {
		t.Fatalf("Buttons = %+v, want 3 entries", content.Buttons)
	}
	if b := content.Buttons[0]; b.Text != "Contact us" || b.Href == nil || *b.Href != "https://www.startech-innovation.com/contact" {
		t.Errorf("Buttons[0] = %+v", b)
	}
	if b := content.Buttons[1]; b.Text != "Open menu" || b.Href != nil {
		t.Errorf("Buttons[1] = %+v", b)
	}
	if b := content.Buttons[2]; b.Text != "Toggle" || b.Href != nil {
		t.Errorf("Buttons[2] = %+v", b)
	}

	if len(content.Sections) != 2 {
		t.Fatalf("Sections = %+v, want 2 entries", content.Sections)
	}
	if s := content.Sections[0]; s.ID != "top" || s.ClassName != "hero wide" || !strings.HasPrefix(s.Text, "Build the future First paragraph.") {
		t.Errorf("Sections[0] = %+v", s)
	}
	if s := content.Sections[1]; s.ID != "services" || s.ClassName != "" {
		t.Errorf("Sections[1] = %+v", s)
	}

	if strings.Contains(content.AllText, "secret") || strings.Contains(content.AllText, "var x") {
		t.Errorf("AllText leaked hidden content: %q", content.AllText)
	}
	if !strings.Contains(content.AllText, "Build the future\nFirst paragraph.") {
		t.Errorf("AllText = %q", content.AllText)
	}
}

func TestCollect_EmptyPageHasEmptySlices(t *testing.T) {
	doc, err := NewDocument(`<html><body></body></html>`, "https://example.com/")
	if err != nil {
		t.Fatalf("NewDocument: %v", err)
	}

	content, err := Collect(context.Background(), doc)
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}

	if content.Headings == nil || len(content.Headings) != 0 {
		t.Errorf("Headings = %#v, want empty non-nil", content.Headings)
	}
	if content.Navigation == nil || content.Paragraphs == nil || content.Lists == nil ||
		content.Buttons == nil || content.Sections == nil {
		t.Errorf("nil slice in %#v", content)
	}
	if content.Title != "" || content.AllText != "" {
		t.Errorf("expected empty title/allText, got %q / %q", content.Title, content.AllText)
	}
}

func TestNewDocument_BaseHref(t *testing.T) {
	page := `<html><head><base href="https://cdn.example/site/"></head>
<body><nav><a href="about">About</a></nav></body></html>`
	doc, err := NewDocument(page, "https://example.com/x/y")
	if err != nil {
		t.Fatalf("NewDocument: %v", err)
	}
	nav, _ := doc.Navigation(context.Background())
	if len(nav) != 1 || nav[0].Href != "https://cdn.example/site/about" {
		t.Errorf("Navigation = %+v", nav)
	}
}

type failingInspector struct {
	Document
	err error
}

func (f *failingInspector) Lists(context.Context) ([][]string, error) {
	return nil, f.err
}

func TestCollect_PropagatesInspectorError(t *testing.T) {
	doc, err := NewDocument(samplePage, "https://example.com/")
	if err != nil {
		t.Fatalf("NewDocument: %v", err)
	}
	boom := errors.New("script threw")
	_, err = Collect(context.Background(), &failingInspector{Document: *doc, err: boom})
	if err == nil {
		t.Fatal("expected error")
	}
	if models.CodeOf(err) != models.ErrCodeExtraction {
		t.Errorf("code = %s, want %s", models.CodeOf(err), models.ErrCodeExtraction)
	}
	if !errors.Is(err, boom) {
		t.Errorf("error does not wrap cause: %v", err)
	}
}

func TestCollect_KeepsInspectorErrorCode(t *testing.T) {
	doc, err := NewDocument(samplePage, "https://example.com/")
	if err != nil {
		t.Fatalf("NewDocument: %v", err)
	}
	gone := models.NewSnapError(models.ErrCodeBrowser, "websocket closed", errors.New("EOF"))
	_, err = Collect(context.Background(), &failingInspector{Document: *doc, err: gone})
	if models.CodeOf(err) != models.ErrCodeBrowser {
		t.Errorf("code = %s, want %s", models.CodeOf(err), models.ErrCodeBrowser)
	}
	if !errors.Is(err, gone) {
		t.Errorf("error does not wrap cause: %v", err)
	}
}

func TestMarkdownExporter_Export(t *testing.T) {
	md, err := NewMarkdownExporter().Export(samplePage, "https://www.startech-innovation.com/")
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if !strings.Contains(md, "Second paragraph.") {
		t.Errorf("markdown missing body text:\n%s", md)
	}
	if strings.Contains(md, "var x = 1") {
		t.Errorf("markdown contains script body:\n%s", md)
	}
}

func TestEstimateTokens(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"a", 1},
		{"abcdef", 2},
		{"héllo wörld", 3},
	}
	for _, tt := range tests {
		if got := EstimateTokens(tt.in); got != tt.want {
			t.Errorf("EstimateTokens(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
