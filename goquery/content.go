package goquery

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/cespare/xxhash/v2"
	"golang.org/x/net/html"
)

// Content element selectors shared by most publishers.
const (
	blockElements   = "p, ul, ol, blockquote, pre, code, table"
	headingElements = "h1, h2, h3, h4, h5, h6"
)

// ContentBuilder assembles a record's content field. Fragments are kept
// in the order added, empty fragments and fragments already emitted for
// the record are dropped, and the result is joined by blank lines.
// A builder is scoped to one record.
type ContentBuilder struct {
	base         *url.URL
	resolveLinks bool
	seen         map[uint64]struct{}
	parts        []string
}

// NewContentBuilder returns a builder rendering links against base.
func NewContentBuilder(base *url.URL, resolveLinks bool) *ContentBuilder {
	return &ContentBuilder{
		base:         base,
		resolveLinks: resolveLinks,
		seen:         make(map[uint64]struct{}),
	}
}

// Add renders sel and keeps the result. Elements without text are
// skipped. Reports whether a fragment was kept.
func (b *ContentBuilder) Add(sel *goquery.Selection) bool {
	if Text(sel) == "" {
		return false
	}
	return b.AddText(Render(sel, b.base, b.resolveLinks))
}

// AddEach adds every element matched by selector inside container, in
// document order, unless skip reports true for it.
func (b *ContentBuilder) AddEach(container *goquery.Selection, selector string, skip func(*goquery.Selection) bool) {
	container.Find(selector).Each(func(_ int, el *goquery.Selection) {
		if skip != nil && skip(el) {
			return
		}
		b.Add(el)
	})
}

// AddText keeps a pre-rendered fragment. Reports whether it was kept.
func (b *ContentBuilder) AddText(text string) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return false
	}
	key := xxhash.Sum64String(text)
	if _, ok := b.seen[key]; ok {
		return false
	}
	b.seen[key] = struct{}{}
	b.parts = append(b.parts, text)
	return true
}

// Len returns the number of kept fragments.
func (b *ContentBuilder) Len() int {
	return len(b.parts)
}

// String joins kept fragments with blank lines.
func (b *ContentBuilder) String() string {
	return strings.Join(b.parts, "\n\n")
}

// Headings returns the non-empty text of every element matched by
// selector inside sel, in document order. The result is never nil.
func Headings(sel *goquery.Selection, selector string) []string {
	headings := []string{}
	sel.Find(selector).Each(func(_ int, h *goquery.Selection) {
		if text := Text(h); text != "" {
			headings = append(headings, text)
		}
	})
	return headings
}

// HasAnyClass reports whether sel carries any of the given class tokens.
func HasAnyClass(sel *goquery.Selection, classes ...string) bool {
	for _, c := range classes {
		if sel.HasClass(c) {
			return true
		}
	}
	return false
}

// ClassContains reports whether any class token of sel contains fragment.
func ClassContains(sel *goquery.Selection, fragment string) bool {
	class, _ := sel.Attr("class")
	for _, token := range strings.Fields(class) {
		if strings.Contains(token, fragment) {
			return true
		}
	}
	return false
}

// first returns the first match of the first selector that matches
// anything inside sel, or an empty selection.
func first(sel *goquery.Selection, selectors ...string) *goquery.Selection {
	for _, s := range selectors {
		if found := sel.Find(s); found.Length() > 0 {
			return found.First()
		}
	}
	return sel.Slice(0, 0)
}

// firstText returns the trimmed text of the first selector match with
// non-empty text.
func firstText(sel *goquery.Selection, selectors ...string) string {
	for _, s := range selectors {
		if text := Text(sel.Find(s).First()); text != "" {
			return text
		}
	}
	return ""
}

// hasOwnContent reports whether a div carries direct text or a direct
// block child.
func hasOwnContent(div *goquery.Selection) bool {
	own := false
	div.Contents().EachWithBreak(func(_ int, child *goquery.Selection) bool {
		if goquery.NodeName(child) == "#text" {
			own = strings.TrimSpace(child.Text()) != ""
		} else {
			own = child.Is(blockElements)
		}
		return !own
	})
	return own
}

func classContainsAny(sel *goquery.Selection, fragments []string) bool {
	for _, f := range fragments {
		if ClassContains(sel, f) {
			return true
		}
	}
	return false
}

// containsAny reports whether text contains any of substrs.
func containsAny(text string, substrs []string) bool {
	for _, c := range substrs {
		if strings.Contains(text, c) {
			return true
		}
	}
	return false
}

// byClass returns the first element matched by tags inside sel whose
// class attribute contains fragment, ignoring case. Returns nil when
// nothing matches.
func byClass(sel *goquery.Selection, tags, fragment string) *goquery.Selection {
	return byClassAny(sel, tags, fragment)
}

// byClassAny is byClass accepting any of several fragments.
func byClassAny(sel *goquery.Selection, tags string, fragments ...string) *goquery.Selection {
	var found *goquery.Selection
	sel.Find(tags).EachWithBreak(func(_ int, el *goquery.Selection) bool {
		if classFoldContainsAny(el, fragments) {
			found = el
			return false
		}
		return true
	})
	return found
}

func classFoldContainsAny(sel *goquery.Selection, fragments []string) bool {
	class, ok := sel.Attr("class")
	if !ok {
		return false
	}
	class = strings.ToLower(class)
	for _, f := range fragments {
		if strings.Contains(class, f) {
			return true
		}
	}
	return false
}

func nonEmptyTexts(sel *goquery.Selection) []string {
	texts := []string{}
	sel.Each(func(_ int, el *goquery.Selection) {
		if text := Text(el); text != "" {
			texts = append(texts, text)
		}
	})
	return texts
}

// firstMatchingText returns the trimmed first text node below n that
// matches re.
func firstMatchingText(n *html.Node, re *regexp.Regexp) string {
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == html.TextNode && re.MatchString(child.Data) {
			return strings.TrimSpace(child.Data)
		}
		if text := firstMatchingText(child, re); text != "" {
			return text
		}
	}
	return ""
}
