package parser

import (
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Document is an ingested file split into optional YAML frontmatter and body.
type Document struct {
	Frontmatter map[string]any
	Body        string
}

var h1Re = regexp.MustCompile(`(?m)^#\s+(.+)$`)

// SplitFrontmatter separates a leading YAML frontmatter section from the
// body. Malformed YAML is ignored rather than surfaced; ingestion should
// never fail on sloppy metadata.
func SplitFrontmatter(content string) *Document {
	doc := &Document{
		Frontmatter: make(map[string]any),
		Body:        content,
	}

	if strings.HasPrefix(content, "---\n") {
		endIdx := strings.Index(content[4:], "\n---")
		if endIdx > 0 {
			frontmatterYAML := content[4 : 4+endIdx]
			doc.Body = strings.TrimPrefix(content[4+endIdx+4:], "\n")

			if err := yaml.Unmarshal([]byte(frontmatterYAML), &doc.Frontmatter); err != nil {
				doc.Frontmatter = make(map[string]any)
			}
		}
	}

	return doc
}

// Title resolves a display title: frontmatter first, then the first h1.
// Returns "" when neither is present.
func (d *Document) Title() string {
	if title, ok := d.Frontmatter["title"].(string); ok && title != "" {
		return title
	}
	if name, ok := d.Frontmatter["name"].(string); ok && name != "" {
		return name
	}

	if match := h1Re.FindStringSubmatch(d.Body); len(match) > 1 {
		return strings.TrimSpace(match[1])
	}

	return ""
}
