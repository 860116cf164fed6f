package sources

import (
	"slices"
	"strings"

	"golang.org/x/net/html"
)

// findAll returns every element under n (n included) that satisfies match,
// in document order.
func findAll(n *html.Node, match func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.ElementNode && match(node) {
			out = append(out, node)
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

// findFirst returns the first element under n that satisfies match, or nil.
func findFirst(n *html.Node, match func(*html.Node) bool) *html.Node {
	if found := findAll(n, match); len(found) > 0 {
		return found[0]
	}
	return nil
}

// element matches elements by tag name and, when class is non-empty, by class.
func element(tag, class string) func(*html.Node) bool {
	return func(n *html.Node) bool {
		if n.Data != tag {
			return false
		}
		return class == "" || hasClass(n, class)
	}
}

// withClass matches elements of any tag carrying class.
func withClass(class string) func(*html.Node) bool {
	return func(n *html.Node) bool {
		return hasClass(n, class)
	}
}

// withID matches the element with the given tag and id.
func withID(tag, id string) func(*html.Node) bool {
	return func(n *html.Node) bool {
		v, ok := attr(n, "id")
		return n.Data == tag && ok && v == id
	}
}

func hasClass(n *html.Node, class string) bool {
	v, ok := attr(n, "class")
	if !ok {
		return false
	}
	return slices.Contains(strings.Fields(v), class)
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// text returns the trimmed text pieces under n joined by single spaces.
func text(n *html.Node) string {
	var parts []string
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			if s := strings.TrimSpace(node.Data); s != "" {
				parts = append(parts, s)
			}
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(parts, " ")
}

// rawText returns the concatenated text children of n without trimming.
// Used for script bodies.
func rawText(n *html.Node) string {
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
	}
	return b.String()
}
