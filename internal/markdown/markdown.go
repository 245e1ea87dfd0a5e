// Package markdown converts imported note content into the markdown the server stores.
package markdown

import (
	"fmt"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Format names the markup a client submitted content in.
type Format string

// Supported content formats.
const (
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
)

// Valid reports whether f is a known format. The empty format means markdown.
func (f Format) Valid() bool {
	switch f {
	case "", FormatMarkdown, FormatHTML:
		return true
	default:
		return false
	}
}

// droppedElements are removed with their whole subtree before conversion.
var droppedElements = map[atom.Atom]bool{
	atom.Script:   true,
	atom.Style:    true,
	atom.Iframe:   true,
	atom.Noscript: true,
	atom.Object:   true,
	atom.Embed:    true,
}

// Normalize returns content as markdown. Markdown input is returned unchanged.
func Normalize(content string, format Format) (string, error) {
	switch format {
	case "", FormatMarkdown:
		return content, nil
	case FormatHTML:
		return FromHTML(content)
	default:
		return "", fmt.Errorf("unknown content format %q", format)
	}
}

// FromHTML sanitizes an HTML fragment and converts it to markdown.
func FromHTML(s string) (string, error) {
	if strings.TrimSpace(s) == "" {
		return "", nil
	}

	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}
	sanitize(doc)

	var buf strings.Builder
	if err := html.Render(&buf, doc); err != nil {
		return "", fmt.Errorf("render html: %w", err)
	}

	md, err := htmltomarkdown.ConvertString(buf.String())
	if err != nil {
		return "", fmt.Errorf("convert html: %w", err)
	}
	return strings.TrimSpace(md), nil
}

// sanitize removes dropped elements and inline event handler attributes.
func sanitize(n *html.Node) {
	var drop []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && droppedElements[c.DataAtom] {
			drop = append(drop, c)
			continue
		}
		if c.Type == html.ElementNode {
			c.Attr = safeAttrs(c.Attr)
		}
		sanitize(c)
	}
	for _, c := range drop {
		n.RemoveChild(c)
	}
}

func safeAttrs(attrs []html.Attribute) []html.Attribute {
	out := attrs[:0]
	for _, a := range attrs {
		if strings.HasPrefix(strings.ToLower(a.Key), "on") {
			continue
		}
		if (a.Key == "href" || a.Key == "src") &&
			strings.HasPrefix(strings.ToLower(strings.TrimSpace(a.Val)), "javascript:") {
			continue
		}
		out = append(out, a)
	}
	return out
}
