package ui

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log"
	"strings"

	"inflationdash/domain/chart"

	"github.com/gin-gonic/gin"
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

//go:embed templates/*.html help.md
var assets embed.FS

func parseTemplates() (*template.Template, error) {
	funcMap := template.FuncMap{
		"upper": strings.ToUpper,
	}
	tmpl, err := template.New("").Funcs(funcMap).ParseFS(assets, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return tmpl, nil
}

// renderHelp turns the embedded help text plus a chart listing into HTML
func renderHelp(descriptors []chart.Descriptor) ([]byte, error) {
	src, err := assets.ReadFile("help.md")
	if err != nil {
		return nil, fmt.Errorf("failed to read help text: %w", err)
	}

	var buf bytes.Buffer
	buf.Write(src)
	buf.WriteString("\n## Charts\n\n")
	buf.WriteString("| Chart | Panel | Tab | Source |\n|---|---|---|---|\n")
	for _, d := range descriptors {
		fmt.Fprintf(&buf, "| %s | %s | %s | `%s` |\n", d.Title, d.Panel, d.Tab, d.Source)
	}

	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	doc := p.Parse(buf.Bytes())
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags | html.HrefTargetBlank})
	return markdown.Render(doc, renderer), nil
}

// Template helpers
func (s *Server) renderTemplate(c *gin.Context, templateName string, data interface{}) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, templateName, data); err != nil {
		log.Printf("[Template] %s: %v", templateName, err)
		c.String(500, "Template error")
		return
	}
	c.Data(200, "text/html; charset=utf-8", buf.Bytes())
}
