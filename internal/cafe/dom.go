package cafe

import (
	"strings"

	"golang.org/x/net/html"
)

// walk visits nodes depth-first until the visitor returns false.
func walk(n *html.Node, visit func(*html.Node) bool) bool {
	if n == nil {
		return true
	}
	if !visit(n) {
		return false
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if !walk(child, visit) {
			return false
		}
	}
	return true
}

func hasClass(n *html.Node, class string) bool {
	if n.Type != html.ElementNode {
		return false
	}
	for _, a := range n.Attr {
		if a.Key == "class" {
			for _, c := range strings.Fields(a.Val) {
				if c == class {
					return true
				}
			}
		}
	}
	return false
}

func findByClass(n *html.Node, class string) *html.Node {
	var found *html.Node
	walk(n, func(node *html.Node) bool {
		if hasClass(node, class) {
			found = node
			return false
		}
		return true
	})
	return found
}

func findAllByClass(n *html.Node, class string) []*html.Node {
	var found []*html.Node
	walk(n, func(node *html.Node) bool {
		if hasClass(node, class) {
			found = append(found, node)
		}
		return true
	})
	return found
}

func findByID(n *html.Node, id string) *html.Node {
	var found *html.Node
	walk(n, func(node *html.Node) bool {
		if node.Type == html.ElementNode {
			for _, a := range node.Attr {
				if a.Key == "id" && a.Val == id {
					found = node
					return false
				}
			}
		}
		return true
	})
	return found
}

func findByTag(n *html.Node, tag string) *html.Node {
	var found *html.Node
	walk(n, func(node *html.Node) bool {
		if node != n && node.Type == html.ElementNode && node.Data == tag {
			found = node
			return false
		}
		return true
	})
	return found
}

func findAllByTag(n *html.Node, tag string) []*html.Node {
	var found []*html.Node
	walk(n, func(node *html.Node) bool {
		if node != n && node.Type == html.ElementNode && node.Data == tag {
			found = append(found, node)
		}
		return true
	})
	return found
}

// nthOfTag returns the nth (1-based, document order) descendant with the tag.
func nthOfTag(n *html.Node, tag string, nth int) *html.Node {
	var found *html.Node
	count := 0
	walk(n, func(node *html.Node) bool {
		if node != n && node.Type == html.ElementNode && node.Data == tag {
			count++
			if count == nth {
				found = node
				return false
			}
		}
		return true
	})
	return found
}

func attrOf(n *html.Node, key string) string {
	if n == nil {
		return ""
	}
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func textOf(n *html.Node) string {
	if n == nil {
		return ""
	}
	var b strings.Builder
	walk(n, func(node *html.Node) bool {
		if node.Type == html.TextNode {
			b.WriteString(node.Data)
		}
		return true
	})
	return strings.TrimSpace(b.String())
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
