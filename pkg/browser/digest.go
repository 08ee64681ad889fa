package browser

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// PageDigest is a compact description of a rendered page, recorded next to
// the screenshot so a reviewer can tell what was on screen without opening
// the image.
type PageDigest struct {
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Headings    []string `json:"headings,omitempty"`
	Links       []Link   `json:"links,omitempty"`
	Text        string   `json:"text"`
	Truncated   bool     `json:"truncated"`
}

// Link represents a hyperlink with text and URL.
type Link struct {
	Text string `json:"text"`
	Href string `json:"href"`
}

// DigestHTML parses rawHTML and extracts title, meta description, headings,
// links and visible text. Text is capped at maxText bytes.
func DigestHTML(rawHTML string, maxText int) (*PageDigest, error) {
	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	if maxText <= 0 {
		maxText = DefaultMaxLength
	}

	d := &PageDigest{}
	var text strings.Builder
	walk(doc, d, &text)

	body := strings.Join(strings.Fields(text.String()), " ")
	if len(body) > maxText {
		body = truncateUTF8(body, maxText) + "..."
		d.Truncated = true
	}
	d.Text = body
	return d, nil
}

func walk(n *html.Node, d *PageDigest, text *strings.Builder) {
	if n.Type == html.CommentNode {
		return
	}

	if n.Type == html.ElementNode {
		tag := strings.ToLower(n.Data)
		if isSkippedElement(tag) {
			return
		}

		switch tag {
		case "title":
			if d.Title == "" {
				d.Title = nodeText(n)
			}
			return
		case "meta":
			if attr(n, "name") == "description" && d.Description == "" {
				d.Description = strings.TrimSpace(attr(n, "content"))
			}
			return
		case "h1", "h2", "h3", "h4", "h5", "h6":
			if t := nodeText(n); t != "" {
				d.Headings = append(d.Headings, t)
			}
		case "a":
			if href := attr(n, "href"); href != "" {
				d.Links = append(d.Links, Link{Text: nodeText(n), Href: href})
			}
		}
	}

	if n.Type == html.TextNode {
		text.WriteString(n.Data)
		text.WriteByte(' ')
		return
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, d, text)
	}
}

// nodeText returns the whitespace-collapsed text beneath n.
func nodeText(n *html.Node) string {
	var b strings.Builder
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteByte(' ')
			return
		}
		if n.Type == html.ElementNode && isSkippedElement(strings.ToLower(n.Data)) {
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(n)
	return strings.Join(strings.Fields(b.String()), " ")
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return a.Val
		}
	}
	return ""
}

// isSkippedElement returns true for elements whose content is never visible text
func isSkippedElement(tagName string) bool {
	switch tagName {
	case "script", "style", "noscript", "iframe", "embed", "object", "svg", "template":
		return true
	}
	return false
}

// truncateUTF8 cuts s to at most n bytes without splitting a rune.
func truncateUTF8(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !isRuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}
