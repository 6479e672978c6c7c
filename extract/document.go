package extract

import (
	"context"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/startech-innovation/sitekit/models"
)

// Selectors are compiled once; goquery accepts them as Matchers.
var (
	matchHeadings   = cascadia.MustCompile(SelectorHeadings)
	matchNavigation = cascadia.MustCompile(SelectorNavigation)
	matchParagraphs = cascadia.MustCompile(SelectorParagraphs)
	matchLists      = cascadia.MustCompile(SelectorLists)
	matchListItems  = cascadia.MustCompile(SelectorListItems)
	matchButtons    = cascadia.MustCompile(SelectorButtons)
	matchSections   = cascadia.MustCompile(SelectorSections)
)

// Document is a PageInspector over static markup. It answers the same
// queries as the in-browser inspector, resolving hrefs against the page URL
// (or the document's <base href> when present).
type Document struct {
	doc  *goquery.Document
	base *url.URL
}

// NewDocument parses rawHTML captured from pageURL.
func NewDocument(rawHTML, pageURL string) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, err
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, err
	}
	if href, ok := doc.Find("base[href]").First().Attr("href"); ok {
		if resolved, err := base.Parse(href); err == nil {
			base = resolved
		}
	}

	return &Document{doc: doc, base: base}, nil
}

func (d *Document) Title(_ context.Context) (string, error) {
	return d.doc.Find("title").First().Text(), nil
}

func (d *Document) Headings(_ context.Context) ([]models.Heading, error) {
	headings := []models.Heading{}
	d.doc.FindMatcher(matchHeadings).Each(func(_ int, s *goquery.Selection) {
		headings = append(headings, models.Heading{
			Level: strings.ToUpper(goquery.NodeName(s)),
			Text:  s.Text(),
		})
	})
	return headings, nil
}

func (d *Document) Navigation(_ context.Context) ([]models.Link, error) {
	links := []models.Link{}
	d.doc.FindMatcher(matchNavigation).Each(func(_ int, s *goquery.Selection) {
		href, _ := d.href(s)
		links = append(links, models.Link{Text: s.Text(), Href: href})
	})
	return links, nil
}

func (d *Document) Paragraphs(_ context.Context) ([]string, error) {
	paragraphs := []string{}
	d.doc.FindMatcher(matchParagraphs).Each(func(_ int, s *goquery.Selection) {
		paragraphs = append(paragraphs, s.Text())
	})
	return paragraphs, nil
}

func (d *Document) Lists(_ context.Context) ([][]string, error) {
	lists := [][]string{}
	d.doc.FindMatcher(matchLists).Each(func(_ int, list *goquery.Selection) {
		items := []string{}
		list.FindMatcher(matchListItems).Each(func(_ int, li *goquery.Selection) {
			items = append(items, li.Text())
		})
		lists = append(lists, items)
	})
	return lists, nil
}

func (d *Document) Buttons(_ context.Context) ([]models.Button, error) {
	buttons := []models.Button{}
	d.doc.FindMatcher(matchButtons).Each(func(_ int, s *goquery.Selection) {
		b := models.Button{Text: s.Text()}
		if href, ok := d.href(s); ok && href != "" {
			b.Href = &href
		}
		buttons = append(buttons, b)
	})
	return buttons, nil
}

func (d *Document) Sections(_ context.Context) ([]models.Section, error) {
	sections := []models.Section{}
	d.doc.FindMatcher(matchSections).Each(func(_ int, s *goquery.Selection) {
		id, _ := s.Attr("id")
		class, _ := s.Attr("class")
		sections = append(sections, models.Section{ID: id, ClassName: class, Text: s.Text()})
	})
	return sections, nil
}

func (d *Document) AllText(_ context.Context) (string, error) {
	body := d.doc.Find("body")
	if body.Length() == 0 {
		return "", nil
	}
	return VisibleText(body.Nodes[0]), nil
}

// href mirrors HTMLAnchorElement.href: only anchors and areas carry one, an
// anchor without the attribute yields "", and relative values are resolved.
func (d *Document) href(s *goquery.Selection) (string, bool) {
	switch goquery.NodeName(s) {
	case "a", "area":
	default:
		return "", false
	}
	raw, ok := s.Attr("href")
	if !ok {
		return "", true
	}
	resolved, err := d.base.Parse(strings.TrimSpace(raw))
	if err != nil {
		return raw, true
	}
	return resolved.String(), true
}
