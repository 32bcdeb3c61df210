package reports

import (
	"embed"
	"fmt"
	"strings"
)

//go:embed templates/*
var templateFS embed.FS

// TemplateLoader handles loading HTML templates, CSS styles and page articles
type TemplateLoader struct {
	fs embed.FS
}

// NewTemplateLoader creates a new template loader
func NewTemplateLoader() *TemplateLoader {
	return &TemplateLoader{fs: templateFS}
}

func (t *TemplateLoader) load(name string) (string, error) {
	content, err := t.fs.ReadFile("templates/" + name)
	if err != nil {
		return "", fmt.Errorf("failed to load template %s: %w", name, err)
	}
	return string(content), nil
}

// LoadHTMLTemplate loads the page template
func (t *TemplateLoader) LoadHTMLTemplate() (string, error) {
	return t.load("page.html")
}

// LoadCSSStyles loads the page stylesheet
func (t *TemplateLoader) LoadCSSStyles() (string, error) {
	return t.load("styles.css")
}

// LoadArticles loads the markdown articles shown above the charts, one per "## " heading
func (t *TemplateLoader) LoadArticles() ([]string, error) {
	content, err := t.load("articles.md")
	if err != nil {
		return nil, err
	}
	return splitArticles(content), nil
}

func splitArticles(markdown string) []string {
	var (
		articles []string
		current  strings.Builder
	)
	flush := func() {
		if s := strings.TrimSpace(current.String()); s != "" {
			articles = append(articles, s)
		}
		current.Reset()
	}

	for _, line := range strings.Split(markdown, "\n") {
		if strings.HasPrefix(line, "## ") {
			flush()
		}
		current.WriteString(line)
		current.WriteString("\n")
	}
	flush()
	return articles
}
