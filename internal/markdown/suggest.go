// Package markdown derives file names from document content.
package markdown

import (
	"bytes"
	"strings"
	"unicode"

	"github.com/adrg/frontmatter"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

const maxNameLength = 64

var parser = goldmark.New(goldmark.WithExtensions(extension.GFM)).Parser()

type titleMatter struct {
	Title string `yaml:"title" toml:"title"`
}

// Title returns the frontmatter title or else the text of the first heading, if any.
func Title(source string) string {
	var meta titleMatter
	body, err := frontmatter.Parse(strings.NewReader(source), &meta)
	if err != nil {
		body = []byte(source) //broken frontmatter is treated as regular text
	}
	if t := strings.TrimSpace(meta.Title); t != "" {
		return t
	}
	return firstHeading(body)
}

func firstHeading(body []byte) (title string) {
	doc := parser.Parse(text.NewReader(body))
	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if heading, ok := n.(*ast.Heading); ok && entering {
			title = strings.TrimSpace(string(heading.Text(body)))
			return ast.WalkStop, nil
		}
		return ast.WalkContinue, nil
	})
	return
}

// SuggestName proposes a file name for saving the given content, falling back to the current name.
// The result always carries the .md extension.
func SuggestName(source string, fallback string) string {
	name := sanitize(Title(source))
	if name == "" {
		name = sanitize(strings.TrimSuffix(fallback, ".md"))
	}
	if name == "" {
		name = "Untitled"
	}
	return name + ".md"
}

func sanitize(title string) string {
	var b bytes.Buffer
	lastWasSpace := false
	for _, r := range title {
		switch {
		case strings.ContainsRune(`<>:"/\|?*`, r), unicode.IsControl(r):
			r = '-'
		case unicode.IsSpace(r):
			if lastWasSpace {
				continue
			}
			r = ' '
		}
		lastWasSpace = r == ' '
		b.WriteRune(r)
	}
	name := strings.Trim(b.String(), " .-")
	if runes := []rune(name); len(runes) > maxNameLength {
		name = strings.TrimSpace(string(runes[:maxNameLength]))
	}
	return name
}
