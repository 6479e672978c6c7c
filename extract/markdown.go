package extract

import (
	"log/slog"
	nurl "net/url"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	readability "github.com/go-shiori/go-readability"
)

// minContentLength is the minimum readable text length for the readability
// result to be used. Shorter results mean the algorithm missed the main
// content, which is common on landing pages built from many small sections.
const minContentLength = 50

// MarkdownExporter converts captured markup into Markdown. The converter is
// created once and is safe for reuse.
type MarkdownExporter struct {
	conv *converter.Converter
}

// NewMarkdownExporter builds an exporter with the base, commonmark and
// table plugins.
func NewMarkdownExporter() *MarkdownExporter {
	return &MarkdownExporter{
		conv: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
				table.NewTablePlugin(
					table.WithCellPaddingBehavior(table.CellPaddingBehaviorMinimal),
				),
			),
		),
	}
}

// Export extracts the main content of rawHTML and renders it as Markdown
// with links resolved against pageURL. When readability fails or finds too
// little text, the whole document is converted instead.
func (m *MarkdownExporter) Export(rawHTML, pageURL string) (string, error) {
	content := mainContent(rawHTML, pageURL)
	md, err := m.conv.ConvertString(content, converter.WithDomain(pageURL))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(md) + "\n", nil
}

func mainContent(rawHTML, pageURL string) string {
	parsedURL, err := nurl.Parse(pageURL)
	if err != nil {
		slog.Warn("markdown: invalid page URL, converting full document",
			"url", pageURL, "error", err,
		)
		return rawHTML
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), parsedURL)
	if err != nil {
		slog.Warn("markdown: readability failed, converting full document",
			"url", pageURL, "error", err,
		)
		return rawHTML
	}

	if len(strings.TrimSpace(article.TextContent)) < minContentLength {
		slog.Debug("markdown: readability result too short, converting full document",
			"url", pageURL, "length", len(article.TextContent),
		)
		return rawHTML
	}
	return article.Content
}
