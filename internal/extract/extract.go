package extract

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// noiseSelector lists elements that never carry page content
const noiseSelector = "script, style, noscript, nav, footer, header, aside, .sidebar, .advertisement, .ads"

// contentSelectors are tried in order; the first one present wins
var contentSelectors = []string{"article", "[role='main']", "main", ".post-content", ".article-content", ".entry-content", ".content"}

// Text extracts readable text from an HTML document.
// Block elements are separated by blank lines.
func Text(html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse html: %w", err)
	}

	doc.Find(noiseSelector).Remove()

	var sb strings.Builder
	collect := func(sel *goquery.Selection) {
		sel.Find("h1, h2, h3, h4, h5, h6, p, li, pre, blockquote").Each(func(i int, s *goquery.Selection) {
			text := strings.TrimSpace(s.Text())
			if text != "" {
				sb.WriteString(text)
				sb.WriteString("\n\n")
			}
		})
	}

	for _, selector := range contentSelectors {
		selection := doc.Find(selector)
		if selection.Length() > 0 {
			collect(selection)
			break
		}
	}

	// Fallback: every block in the body
	if sb.Len() == 0 {
		collect(doc.Find("body"))
	}

	// Fallback: raw body text for markup without block elements
	if sb.Len() == 0 {
		return strings.Join(strings.Fields(doc.Find("body").Text()), " "), nil
	}

	return strings.TrimSpace(sb.String()), nil
}

// Title returns the document title: <title>, then og:title, then the first <h1>
func Title(html string) string {
	if strings.TrimSpace(html) == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}

	if title := strings.TrimSpace(doc.Find("head title").First().Text()); title != "" {
		return title
	}
	if og, ok := doc.Find(`meta[property="og:title"]`).Attr("content"); ok && strings.TrimSpace(og) != "" {
		return strings.TrimSpace(og)
	}
	return strings.TrimSpace(doc.Find("h1").First().Text())
}
