package conv

import (
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/inbucket/html2text"
	"github.com/microcosm-cc/bluemonday"
)

var (
	extensions = parser.CommonExtensions | parser.NoEmptyLineBeforeBlock
	htmlFlags  = html.CommonFlags | html.HrefTargetBlank
	txtPolicy  = bluemonday.NewPolicy()
)

func init() {
	// Keep only the structural tags html2text understands well.
	txtPolicy.AllowElements("b", "strong", "i", "em", "u", "s", "del",
		"code", "pre", "blockquote", "p", "br", "ul", "ol", "li",
		"h1", "h2", "h3", "h4")
	txtPolicy.AllowAttrs("href").OnElements("a")
}

// MarkdownToText flattens model-generated Markdown into plain text for
// terminal display: render to HTML, sanitize, then strip markup.
func MarkdownToText(md []byte) string {
	p := parser.NewWithExtensions(extensions)
	renderer := html.NewRenderer(html.RendererOptions{Flags: htmlFlags})
	unsafeHTML := markdown.Render(p.Parse(md), renderer)

	sanitized := txtPolicy.SanitizeBytes(unsafeHTML)

	text, err := html2text.FromString(string(sanitized), html2text.Options{TextOnly: false})
	if err != nil {
		return strings.TrimSpace(string(md))
	}
	return strings.TrimSpace(text)
}
