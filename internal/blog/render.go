package blog

import (
	"html/template"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var policy = newPolicy()

func newPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowStandardURLs()
	p.AllowURLSchemes("http", "https", "mailto")
	p.RequireNoFollowOnLinks(true)
	p.AddTargetBlankToFullyQualifiedLinks(true)
	p.AllowAttrs("href").OnElements("a")
	p.AllowAttrs("src", "alt", "title", "width", "height").OnElements("img")
	p.AllowElements(
		"p", "br", "hr", "span", "div", "blockquote", "pre", "code",
		"b", "strong", "i", "em", "u", "s", "sub", "sup", "mark", "small",
		"h1", "h2", "h3", "h4", "h5", "h6",
		"ul", "ol", "li", "dl", "dt", "dd",
		"table", "thead", "tbody", "tfoot", "tr", "th", "td", "caption",
		"figure", "figcaption",
	)
	p.AllowAttrs("colspan", "rowspan").OnElements("td", "th")
	return p
}

// Render parses description as an HTML fragment, takes the body content and
// passes it through the allow-list sanitizer. Output is stable for a given
// input.
func Render(description string) template.HTML {
	return template.HTML(policy.Sanitize(bodyHTML(description)))
}

// bodyHTML normalises description the way a browser DOM parser would and
// returns the inner HTML of the resulting body.
func bodyHTML(description string) string {
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(description), body)
	if err != nil {
		return description
	}
	var sb strings.Builder
	for _, n := range nodes {
		if err := html.Render(&sb, n); err != nil {
			return description
		}
	}
	return sb.String()
}

// Text returns the visible text of description with whitespace collapsed.
func Text(description string) string {
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(description), body)
	if err != nil {
		return strings.Join(strings.Fields(description), " ")
	}
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			sb.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range nodes {
		walk(n)
	}
	return strings.Join(strings.Fields(sb.String()), " ")
}

// Excerpt returns the first n characters of the description text followed
// by "...".
func Excerpt(description string, n int) string {
	text := Text(description)
	if utf8.RuneCountInString(text) > n {
		text = string([]rune(text)[:n])
	}
	return text + "..."
}
