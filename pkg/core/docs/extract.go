// Package docs extracts readable text from uploaded HTML documents so the
// assistant can reason over them. Binary formats are converted upstream;
// this layer only sees HTML or plain text.
package docs

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// maxContextChars caps the text handed to a prompt; beyond this the model
// stops reading anyway.
const maxContextChars = 20000

// ExtractText pulls visible text from an HTML document, dropping scripts,
// styles and navigation chrome, and collapsing whitespace.
func ExtractText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse document: %w", err)
	}

	doc.Find("script, style, noscript, iframe, nav, footer, header").Remove()

	root := doc.Find("body")
	if root.Length() == 0 {
		root = doc.Selection
	}

	var sb strings.Builder
	root.Find("h1, h2, h3, h4, h5, h6, p, li, td, th, caption, blockquote").Each(func(i int, sel *goquery.Selection) {
		text := strings.TrimSpace(sel.Text())
		if text == "" {
			return
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	})

	out := collapseBlankLines(sb.String())
	if out == "" {
		// Documents without block structure still deserve their raw text
		out = collapseBlankLines(strings.TrimSpace(root.Text()))
	}
	if len(out) > maxContextChars {
		out = out[:maxContextChars]
	}
	return out, nil
}

func collapseBlankLines(s string) string {
	lines := strings.Split(s, "\n")
	var kept []string
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}
