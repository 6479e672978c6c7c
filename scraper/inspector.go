package scraper

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-rod/rod"
	"github.com/startech-innovation/sitekit/extract"
	"github.com/startech-innovation/sitekit/models"
)

// The scripts below only read the DOM. Each returns JSON.stringify output
// so the Go side decodes one string instead of walking remote objects.
// Missing values are coalesced to "" (or null for button hrefs) in-page.
const (
	jsTitle = `() => document.title || ''`

	jsHeadings = `(sel) => JSON.stringify(
		Array.from(document.querySelectorAll(sel)).map(el => ({
			level: el.tagName,
			text: el.textContent || '',
		})))`

	jsNavigation = `(sel) => JSON.stringify(
		Array.from(document.querySelectorAll(sel)).map(a => ({
			text: a.textContent || '',
			href: a.href || '',
		})))`

	jsParagraphs = `(sel) => JSON.stringify(
		Array.from(document.querySelectorAll(sel)).map(p => p.textContent || ''))`

	jsLists = `(sel, itemSel) => JSON.stringify(
		Array.from(document.querySelectorAll(sel)).map(list =>
			Array.from(list.querySelectorAll(itemSel)).map(li => li.textContent || '')))`

	jsButtons = `(sel) => JSON.stringify(
		Array.from(document.querySelectorAll(sel)).map(el => ({
			text: el.textContent || '',
			href: (typeof el.href === 'string' && el.href) ? el.href : null,
		})))`

	jsSections = `(sel) => JSON.stringify(
		Array.from(document.querySelectorAll(sel)).map(el => ({
			id: el.id || '',
			className: el.getAttribute('class') || '',
			text: el.textContent || '',
		})))`

	jsAllText = `() => document.body ? (document.body.innerText || '') : ''`
)

func (p *Page) Title(ctx context.Context) (string, error) {
	return p.evalString(ctx, jsTitle)
}

func (p *Page) Headings(ctx context.Context) ([]models.Heading, error) {
	headings := []models.Heading{}
	err := p.evalJSON(ctx, &headings, jsHeadings, extract.SelectorHeadings)
	return headings, err
}

func (p *Page) Navigation(ctx context.Context) ([]models.Link, error) {
	links := []models.Link{}
	err := p.evalJSON(ctx, &links, jsNavigation, extract.SelectorNavigation)
	return links, err
}

func (p *Page) Paragraphs(ctx context.Context) ([]string, error) {
	paragraphs := []string{}
	err := p.evalJSON(ctx, &paragraphs, jsParagraphs, extract.SelectorParagraphs)
	return paragraphs, err
}

func (p *Page) Lists(ctx context.Context) ([][]string, error) {
	lists := [][]string{}
	err := p.evalJSON(ctx, &lists, jsLists, extract.SelectorLists, extract.SelectorListItems)
	return lists, err
}

func (p *Page) Buttons(ctx context.Context) ([]models.Button, error) {
	buttons := []models.Button{}
	err := p.evalJSON(ctx, &buttons, jsButtons, extract.SelectorButtons)
	return buttons, err
}

func (p *Page) Sections(ctx context.Context) ([]models.Section, error) {
	sections := []models.Section{}
	err := p.evalJSON(ctx, &sections, jsSections, extract.SelectorSections)
	return sections, err
}

func (p *Page) AllText(ctx context.Context) (string, error) {
	return p.evalString(ctx, jsAllText)
}

func (p *Page) evalString(ctx context.Context, js string, args ...interface{}) (string, error) {
	res, err := p.page.Context(ctx).Eval(js, args...)
	if err != nil {
		return "", queryError(err)
	}
	return res.Value.Str(), nil
}

func (p *Page) evalJSON(ctx context.Context, v interface{}, js string, args ...interface{}) error {
	raw, err := p.evalString(ctx, js, args...)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return fmt.Errorf("scraper: decode query result: %w", err)
	}
	return nil
}

// queryError leaves script exceptions untyped so they surface as extraction
// failures. Anything else means the CDP call itself failed.
func queryError(err error) error {
	var evalErr *rod.EvalError
	if errors.As(err, &evalErr) {
		return fmt.Errorf("scraper: page query threw: %w", err)
	}
	return categorizeBrowserError(err, "page query failed")
}
