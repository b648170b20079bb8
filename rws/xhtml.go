package rws

import (
	"fmt"
	"strings"

	apperrors "github.com/iwtcode/abbAdapter/pkg/errors"
	"golang.org/x/net/html"
)

// parseDoc разбирает ответ контроллера в формате XHTML.
func parseDoc(body string) (*html.Node, error) {
	doc, err := html.Parse(strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: parse xhtml: %v", apperrors.ErrProtocol, err)
	}
	return doc, nil
}

func attr(n *html.Node, key string) string {
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

// hasAttr проверяет значение атрибута. Для class значение ищется среди токенов.
func hasAttr(n *html.Node, key, value string) bool {
	if n == nil || n.Type != html.ElementNode {
		return false
	}
	v := attr(n, key)
	if key == "class" {
		for _, token := range strings.Fields(v) {
			if token == value {
				return true
			}
		}
		return false
	}
	return v == value
}

// findNodes возвращает все вложенные элементы с атрибутом key=value в порядке документа.
func findNodes(root *html.Node, key, value string) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if hasAttr(c, key, value) {
				out = append(out, c)
			}
			walk(c)
		}
	}
	if root != nil {
		walk(root)
	}
	return out
}

func byClass(root *html.Node, class string) []*html.Node {
	return findNodes(root, "class", class)
}

// findText возвращает текст первого вложенного элемента с указанным классом.
func findText(root *html.Node, class string) string {
	nodes := byClass(root, class)
	if len(nodes) == 0 {
		return ""
	}
	return textContent(nodes[0])
}

// findTexts возвращает тексты всех вложенных элементов с указанным классом.
func findTexts(root *html.Node, class string) []string {
	nodes := byClass(root, class)
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, textContent(n))
	}
	return out
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(b.String())
}
