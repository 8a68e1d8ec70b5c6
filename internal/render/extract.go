package render

import (
	"bytes"

	"golang.org/x/net/html"
)

// Anchor is one <a href> extracted from rendered HTML.
type Anchor struct {
	Href string
	Text string
}

// ExtractAnchors parses rendered HTML and returns its anchors in document
// order. Used for render summaries and for cross-checking the link report in
// tests; it does not attempt full link verification.
func ExtractAnchors(rendered []byte) ([]Anchor, error) {
	doc, err := html.Parse(bytes.NewReader(rendered))
	if err != nil {
		return nil, err
	}

	var anchors []Anchor
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			anchor := Anchor{Text: textContent(n)}
			for _, attr := range n.Attr {
				if attr.Key == "href" {
					anchor.Href = attr.Val
					break
				}
			}
			anchors = append(anchors, anchor)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return anchors, nil
}

func textContent(n *html.Node) string {
	var buf bytes.Buffer
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return buf.String()
}
