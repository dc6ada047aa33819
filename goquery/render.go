package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Render renders the first node of sel as normalized plain text.
//
// Tables become one tab-separated line per row. Lists become one "- "
// line per non-empty item. Blockquotes are prefixed with "> " on every
// line. Preformatted and code blocks are fenced with triple backticks.
// With resolveLinks, a link renders as [text](absolute) resolved against
// base, and any other element containing links renders its direct text
// and link children joined by spaces. Everything else renders as its
// trimmed text.
//
// Render is pure: the same node and flag always give the same string.
func Render(sel *goquery.Selection, base *url.URL, resolveLinks bool) string {
	if sel == nil || sel.Length() == 0 {
		return ""
	}
	sel = sel.First()
	node := sel.Get(0)
	if node.Type == html.TextNode {
		return strings.TrimSpace(node.Data)
	}
	if node.Type != html.ElementNode {
		return ""
	}

	switch node.DataAtom {
	case atom.Table:
		return renderTable(sel)
	case atom.Ul, atom.Ol:
		return renderList(sel)
	case atom.Blockquote:
		return renderQuote(sel)
	case atom.Pre, atom.Code:
		return renderCode(sel)
	case atom.A:
		if resolveLinks {
			return renderLink(sel, base)
		}
	default:
		if resolveLinks && sel.Find("a").Length() > 0 {
			return renderInline(sel, base)
		}
	}
	return Text(sel)
}

// Text returns the text content of sel's subtree with leading and
// trailing whitespace removed. Inner whitespace is kept, so
// "a <b>b</b>" yields "a b" rather than the per-node stripped "ab".
func Text(sel *goquery.Selection) string {
	return strings.TrimSpace(sel.Text())
}

func renderTable(sel *goquery.Selection) string {
	var rows []string
	sel.Find("tr").Each(func(_ int, row *goquery.Selection) {
		var cells []string
		row.Find("td, th").Each(func(_ int, cell *goquery.Selection) {
			cells = append(cells, Text(cell))
		})
		rows = append(rows, strings.Join(cells, "\t"))
	})
	return strings.Join(rows, "\n")
}

func renderList(sel *goquery.Selection) string {
	var items []string
	sel.Find("li").Each(func(_ int, li *goquery.Selection) {
		if text := Text(li); text != "" {
			items = append(items, "- "+text)
		}
	})
	return strings.Join(items, "\n")
}

func renderQuote(sel *goquery.Selection) string {
	text := Text(sel)
	if text == "" {
		return ""
	}
	return "> " + strings.ReplaceAll(text, "\n", "\n> ")
}

func renderCode(sel *goquery.Selection) string {
	text := Text(sel)
	if text == "" {
		return ""
	}
	return "```\n" + text + "\n```"
}

func renderLink(sel *goquery.Selection, base *url.URL) string {
	text := Text(sel)
	href, _ := sel.Attr("href")
	href = strings.TrimSpace(href)
	if href == "" || text == "" {
		return text
	}
	return "[" + text + "](" + absoluteURL(base, href) + ")"
}

// renderInline keeps direct text children and direct link children, in
// order, and drops every other child element.
func renderInline(sel *goquery.Selection, base *url.URL) string {
	var parts []string
	for c := sel.Get(0).FirstChild; c != nil; c = c.NextSibling {
		switch {
		case c.Type == html.TextNode:
			if text := strings.TrimSpace(c.Data); text != "" {
				parts = append(parts, text)
			}
		case c.Type == html.ElementNode && c.DataAtom == atom.A:
			if text := renderLink(sel.FindNodes(c), base); text != "" {
				parts = append(parts, text)
			}
		}
	}
	return strings.Join(parts, " ")
}
