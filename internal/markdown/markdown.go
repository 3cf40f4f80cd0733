// Package markdown rewrites simple HTML into readable Markdown.
//
// It is a sequence of ordered regular-expression rewrites, not a parser:
// nested or malformed markup comes out as a best-effort approximation.
package markdown

import (
	"fmt"
	"html"
	"regexp"
	"strconv"
	"strings"
)

var (
	headingRes [6]*regexp.Regexp

	paragraphRe  = regexp.MustCompile(`(?is)<p(?:\s[^>]*)?>(.*?)</p\s*>`)
	anchorRe     = regexp.MustCompile(`(?is)<a\s[^>]*?href\s*=\s*["']([^"']*)["'][^>]*>(.*?)</a\s*>`)
	boldRe       = regexp.MustCompile(`(?is)<(?:b|strong)(?:\s[^>]*)?>(.*?)</(?:b|strong)\s*>`)
	italicRe     = regexp.MustCompile(`(?is)<(?:i|em)(?:\s[^>]*)?>(.*?)</(?:i|em)\s*>`)
	unorderedRe  = regexp.MustCompile(`(?is)<ul(?:\s[^>]*)?>(.*?)</ul\s*>`)
	orderedRe    = regexp.MustCompile(`(?is)<ol(?:\s[^>]*)?>(.*?)</ol\s*>`)
	listItemRe   = regexp.MustCompile(`(?is)<li(?:\s[^>]*)?>(.*?)</li\s*>`)
	lineBreakRe  = regexp.MustCompile(`(?i)<br\s*/?>`)
	commentRe    = regexp.MustCompile(`(?s)<!--.*?-->`)
	scriptRe     = regexp.MustCompile(`(?is)<script(?:\s[^>]*)?>.*?</script\s*>`)
	styleRe      = regexp.MustCompile(`(?is)<style(?:\s[^>]*)?>.*?</style\s*>`)
	headRe       = regexp.MustCompile(`(?is)<head(?:\s[^>]*)?>.*?</head\s*>`)
	tagRe        = regexp.MustCompile(`(?s)<[^>]+>`)
	extraLinesRe = regexp.MustCompile(`\n{3,}`)
)

func init() {
	// RE2 has no backreferences, so each heading level gets its own pattern.
	for level := 1; level <= 6; level++ {
		headingRes[level-1] = regexp.MustCompile(fmt.Sprintf(`(?is)<h%d(?:\s[^>]*)?>(.*?)</h%d\s*>`, level, level))
	}
}

// FromHTML converts simple HTML (headings, paragraphs, links, emphasis,
// lists, line breaks) to Markdown. Input without markup is returned trimmed.
func FromHTML(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}

	for i, re := range headingRes {
		prefix := strings.Repeat("#", i+1) + " "
		s = re.ReplaceAllString(s, prefix+"${1}\n\n")
	}

	s = paragraphRe.ReplaceAllString(s, "${1}\n\n")
	s = anchorRe.ReplaceAllString(s, "[${2}](${1})")
	s = boldRe.ReplaceAllString(s, "**${1}**")
	s = italicRe.ReplaceAllString(s, "*${1}*")

	s = unorderedRe.ReplaceAllStringFunc(s, func(block string) string {
		inner := unorderedRe.FindStringSubmatch(block)[1]
		return rewriteItems(inner, func(int) string { return "- " })
	})
	s = orderedRe.ReplaceAllStringFunc(s, func(block string) string {
		inner := orderedRe.FindStringSubmatch(block)[1]
		return rewriteItems(inner, func(n int) string { return strconv.Itoa(n) + ". " })
	})

	s = lineBreakRe.ReplaceAllString(s, "\n")
	s = commentRe.ReplaceAllString(s, "")
	s = scriptRe.ReplaceAllString(s, "")
	s = styleRe.ReplaceAllString(s, "")
	s = headRe.ReplaceAllString(s, "")
	s = tagRe.ReplaceAllString(s, "")
	s = html.UnescapeString(s)

	s = extraLinesRe.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// rewriteItems turns every <li> in a list body into its own line. The
// counter starts at 1 for each list block.
func rewriteItems(inner string, marker func(n int) string) string {
	var sb strings.Builder
	sb.WriteString("\n")
	n := 0
	for _, m := range listItemRe.FindAllStringSubmatch(inner, -1) {
		n++
		sb.WriteString(marker(n))
		sb.WriteString(strings.TrimSpace(m[1]))
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
	return sb.String()
}
