package reports

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"

	"budgetboard/internal/page"
)

// HTMLBuilder handles HTML generation with goldmark
type HTMLBuilder struct {
	templateLoader *TemplateLoader
	goldmark       goldmark.Markdown
}

// NewHTMLBuilder creates an HTML builder
func NewHTMLBuilder() *HTMLBuilder {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
		),
	)

	return &HTMLBuilder{
		templateLoader: NewTemplateLoader(),
		goldmark:       md,
	}
}

// PageOptions controls where the rendered page points for its assets
type PageOptions struct {
	Title   string
	Version string
	// PieURL is where the pie chart is loaded from; empty shows a placeholder
	PieURL string
	// CSSFilePath links an external stylesheet instead of inlining it
	CSSFilePath string
}

// TemplateData represents the data structure for the HTML template
type TemplateData struct {
	Title       string
	GeneratedAt string
	Version     string
	CSSFilePath string
	InlineCSS   template.CSS
	Articles    []template.HTML
	PieURL      string
	PieIsHTML   bool
	PieSize     int
	BarSVG      template.HTML
}

// ConvertMarkdownToHTML converts markdown to HTML using goldmark
func (h *HTMLBuilder) ConvertMarkdownToHTML(markdownContent string) (string, error) {
	var buf bytes.Buffer
	if err := h.goldmark.Convert([]byte(markdownContent), &buf); err != nil {
		return "", fmt.Errorf("failed to convert markdown: %w", err)
	}
	return buf.String(), nil
}

// GenerateStaticCSS returns the page stylesheet
func (h *HTMLBuilder) GenerateStaticCSS() (string, error) {
	return h.templateLoader.LoadCSSStyles()
}

// BuildPage renders the budget page for snap
func (h *HTMLBuilder) BuildPage(snap *page.Snapshot, opts PageOptions) (string, error) {
	tmplContent, err := h.templateLoader.LoadHTMLTemplate()
	if err != nil {
		return "", err
	}
	tmpl, err := template.New("page").Parse(tmplContent)
	if err != nil {
		return "", fmt.Errorf("failed to parse page template: %w", err)
	}

	articles, err := h.templateLoader.LoadArticles()
	if err != nil {
		return "", err
	}

	data := TemplateData{
		Title:       opts.Title,
		GeneratedAt: snap.TakenAt.Format(time.RFC1123),
		Version:     opts.Version,
		CSSFilePath: opts.CSSFilePath,
		PieURL:      opts.PieURL,
		PieIsHTML:   strings.HasPrefix(snap.PieContentType, "text/html"),
		PieSize:     page.PieSize,
		BarSVG:      template.HTML(inlineSVG(snap.BarSVG)),
	}
	if data.Title == "" {
		data.Title = "Budget"
	}
	if opts.CSSFilePath == "" {
		css, err := h.GenerateStaticCSS()
		if err != nil {
			return "", err
		}
		data.InlineCSS = template.CSS(css)
	}

	for _, article := range articles {
		converted, err := h.ConvertMarkdownToHTML(article)
		if err != nil {
			return "", err
		}
		data.Articles = append(data.Articles, template.HTML(converted))
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute page template: %w", err)
	}
	return buf.String(), nil
}

// inlineSVG drops the XML prolog so the document can be embedded in HTML
func inlineSVG(doc []byte) string {
	s := string(doc)
	if i := strings.Index(s, "<svg"); i > 0 {
		s = s[i:]
	}
	return s
}
