// Package extract turns a rendered page into a models.PageContent.
//
// The queries are expressed through the PageInspector capability so the same
// collection logic runs against a live browser page (scraper package) or
// against static markup (Document).
package extract

import (
	"context"
	"errors"
	"fmt"

	"github.com/startech-innovation/sitekit/models"
)

// CSS selectors shared by every PageInspector implementation.
const (
	SelectorHeadings   = "h1, h2, h3"
	SelectorNavigation = "nav a, header a"
	SelectorParagraphs = "p"
	SelectorLists      = "ul, ol"
	SelectorListItems  = "li"
	SelectorButtons    = `button, a.button, [role="button"]`
	SelectorSections   = "section, main, article"
)

// PageInspector exposes typed, read-only queries over a page's DOM.
//
// Implementations return element text as found (textContent); Collect
// normalises it. Queries matching nothing return an empty slice and a nil
// error.
type PageInspector interface {
	Title(ctx context.Context) (string, error)
	Headings(ctx context.Context) ([]models.Heading, error)
	Navigation(ctx context.Context) ([]models.Link, error)
	Paragraphs(ctx context.Context) ([]string, error)
	Lists(ctx context.Context) ([][]string, error)
	Buttons(ctx context.Context) ([]models.Button, error)
	Sections(ctx context.Context) ([]models.Section, error)
	AllText(ctx context.Context) (string, error)
}

// Collect runs every query of ins and assembles the page summary.
// All text fields except AllText are normalised; every slice in the
// result is non-nil.
func Collect(ctx context.Context, ins PageInspector) (*models.PageContent, error) {
	title, err := ins.Title(ctx)
	if err != nil {
		return nil, extractionError("title", err)
	}
	headings, err := ins.Headings(ctx)
	if err != nil {
		return nil, extractionError("headings", err)
	}
	nav, err := ins.Navigation(ctx)
	if err != nil {
		return nil, extractionError("navigation", err)
	}
	paragraphs, err := ins.Paragraphs(ctx)
	if err != nil {
		return nil, extractionError("paragraphs", err)
	}
	lists, err := ins.Lists(ctx)
	if err != nil {
		return nil, extractionError("lists", err)
	}
	buttons, err := ins.Buttons(ctx)
	if err != nil {
		return nil, extractionError("buttons", err)
	}
	sections, err := ins.Sections(ctx)
	if err != nil {
		return nil, extractionError("sections", err)
	}
	allText, err := ins.AllText(ctx)
	if err != nil {
		return nil, extractionError("allText", err)
	}

	content := &models.PageContent{
		Title:      NormalizeText(title),
		Headings:   make([]models.Heading, 0, len(headings)),
		Navigation: make([]models.Link, 0, len(nav)),
		Paragraphs: make([]string, 0, len(paragraphs)),
		Lists:      make([][]string, 0, len(lists)),
		Buttons:    make([]models.Button, 0, len(buttons)),
		Sections:   make([]models.Section, 0, len(sections)),
		AllText:    allText,
	}

	for _, h := range headings {
		content.Headings = append(content.Headings, models.Heading{
			Level: h.Level,
			Text:  NormalizeText(h.Text),
		})
	}
	for _, l := range nav {
		content.Navigation = append(content.Navigation, models.Link{
			Text: NormalizeText(l.Text),
			Href: l.Href,
		})
	}
	for _, p := range paragraphs {
		content.Paragraphs = append(content.Paragraphs, NormalizeText(p))
	}
	for _, list := range lists {
		items := make([]string, 0, len(list))
		for _, item := range list {
			items = append(items, NormalizeText(item))
		}
		content.Lists = append(content.Lists, items)
	}
	for _, b := range buttons {
		content.Buttons = append(content.Buttons, models.Button{
			Text: NormalizeText(b.Text),
			Href: b.Href,
		})
	}
	for _, s := range sections {
		content.Sections = append(content.Sections, models.Section{
			ID:        s.ID,
			ClassName: s.ClassName,
			Text:      NormalizeText(s.Text),
		})
	}

	return content, nil
}

// extractionError keeps the code of a typed inspector error, so a browser
// that went away mid-extraction still reads as BROWSER_UNAVAILABLE.
func extractionError(field string, err error) *models.SnapError {
	code := models.ErrCodeExtraction
	var se *models.SnapError
	if errors.As(err, &se) {
		code = se.Code
	}
	return models.NewSnapError(
		code,
		fmt.Sprintf("failed to extract %s", field),
		err,
	)
}
