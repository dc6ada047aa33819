package goquery

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/diogo-cruz/aisafety"
)

// Politeness delays used by the publishers.
const (
	DefaultDelay = 200 * time.Millisecond
	SlowDelay    = time.Second
)

// site holds what every publisher adapter shares.
type site struct {
	name    string
	baseURL string
	base    *url.URL
	delay   time.Duration
}

func newSite(name, baseURL string, delay time.Duration) site {
	base, err := url.Parse(baseURL)
	if err != nil {
		panic("goquery: invalid base URL " + baseURL)
	}
	return site{name: name, baseURL: baseURL, base: base, delay: delay}
}

// Name returns the publisher identifier.
func (s *site) Name() string { return s.name }

// BaseURL returns the publisher's base URL.
func (s *site) BaseURL() string { return s.baseURL }

// Delay returns the politeness delay charged before every request.
func (s *site) Delay() time.Duration { return s.delay }

// url resolves ref against the base URL.
func (s *site) url(ref string) string {
	return absoluteURL(s.base, ref)
}

// fetchDocument fetches url through the session and parses it. Failures
// are logged and reported as nil; they never propagate further.
func fetchDocument(ctx context.Context, sess aisafety.Session, rawURL string) *goquery.Document {
	body, err := sess.Fetch(ctx, rawURL)
	if err != nil {
		sess.Logger().Warn("fetch failed", "url", rawURL, "err", err)
		return nil
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		sess.Logger().Warn("parse failed", "url", rawURL, "err", err)
		return nil
	}
	if u, err := url.Parse(rawURL); err == nil {
		doc.Url = u
	}
	return doc
}

// claim applies the content-page contract: non-content and already
// visited URLs are rejected without I/O; otherwise the URL is marked
// visited and fetched.
func claim(ctx context.Context, sess aisafety.Session, isContent func(string) bool, rawURL string) *goquery.Document {
	if !isContent(rawURL) {
		sess.Logger().Debug("not a content url", "url", rawURL)
		return nil
	}
	if !sess.Visit(rawURL) {
		sess.Logger().Debug("already visited", "url", rawURL)
		return nil
	}
	return fetchDocument(ctx, sess, rawURL)
}

// anyURL accepts every URL. Used for links taken from a trusted listing.
func anyURL(string) bool { return true }

// missing logs a page whose expected container was not found.
func missing(sess aisafety.Session, rawURL, container string) {
	sess.Logger().Warn("content container missing", "url", rawURL, "container", container)
}

// pageRecord builds a fixed-page record with headings from the whole
// document and content from elements inside container.
func pageRecord(sess aisafety.Session, doc *goquery.Document, rawURL string, container *goquery.Selection, elements string, skip func(*goquery.Selection) bool) *aisafety.Record {
	r := aisafety.NewPageRecord(rawURL, sess.Now())
	r.Headings = Headings(doc.Selection, headingElements)
	if container.Length() == 0 {
		return r
	}
	b := NewContentBuilder(doc.Url, true)
	b.AddEach(container, elements, skip)
	r.Content = b.String()
	return r
}

// scrapePage fetches a fixed page and builds its record from elements
// inside the first matching container. A missing container yields a
// record with headings only.
func scrapePage(ctx context.Context, sess aisafety.Session, rawURL, elements string, containers ...string) *aisafety.Record {
	doc := fetchDocument(ctx, sess, rawURL)
	if doc == nil {
		return nil
	}
	container := first(doc.Selection, containers...)
	if container.Length() == 0 {
		missing(sess, rawURL, strings.Join(containers, " | "))
	}
	return pageRecord(sess, doc, rawURL, container, elements, nil)
}

// scrapeContainerPage fetches a fixed page and builds its record from
// the first matching container, headings included.
func scrapeContainerPage(ctx context.Context, sess aisafety.Session, rawURL string, containers ...string) *aisafety.Record {
	return scrapeContainer(ctx, sess, rawURL, false, containers)
}

// scrapeLinkedPage is scrapeContainerPage keeping the container's links.
func scrapeLinkedPage(ctx context.Context, sess aisafety.Session, rawURL string, containers ...string) *aisafety.Record {
	return scrapeContainer(ctx, sess, rawURL, true, containers)
}

func scrapeContainer(ctx context.Context, sess aisafety.Session, rawURL string, withLinks bool, containers []string) *aisafety.Record {
	doc := fetchDocument(ctx, sess, rawURL)
	if doc == nil {
		return nil
	}
	r := aisafety.NewPageRecord(rawURL, sess.Now())
	r.Headings = []string{}
	if withLinks {
		r.Links = []aisafety.Link{}
	}
	container := first(doc.Selection, containers...)
	if container.Length() == 0 {
		missing(sess, rawURL, strings.Join(containers, " | "))
		return r
	}
	r.Headings = Headings(container, headingElements)
	b := NewContentBuilder(doc.Url, true)
	b.AddEach(container, blockElements, nil)
	r.Content = b.String()
	if withLinks {
		r.Links = Links(container, doc.Url)
	}
	return r
}

// chromeClasses mark navigation and metadata blocks inside an article.
var chromeClasses = []string{"nav", "header", "footer", "metadata", "sidebar"}

// isChrome reports whether el is navigation, banner or sidebar markup.
func isChrome(el *goquery.Selection) bool {
	if el.Is(`[role="navigation"], [role="banner"], [role="complementary"]`) {
		return true
	}
	return HasAnyClass(el, chromeClasses...)
}

// pageSection is one titled <section> of a page.
type pageSection struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// sectionContent renders every <section> inside main that has content.
// It returns the sections and the record content joining each
// section's title and content.
func sectionContent(main *goquery.Selection, base *url.URL) ([]pageSection, string) {
	sections := []pageSection{}
	var parts []string
	main.Find("section").Each(func(_ int, sec *goquery.Selection) {
		b := NewContentBuilder(base, true)
		b.AddEach(sec, blockElements, nil)
		if b.Len() == 0 {
			return
		}
		section := pageSection{
			Title:   Text(sec.Find(headingElements).First()),
			Content: b.String(),
		}
		sections = append(sections, section)
		parts = append(parts, section.Title+"\n"+section.Content)
	})
	return sections, strings.Join(parts, "\n\n")
}

// slugBelow reports whether rawURL is on the site's host with a
// non-empty path below prefix, and returns that remainder. Query and
// fragment are ignored, so listing variants such as "/blog/?page=2"
// are not below "/blog".
func (s *site) slugBelow(rawURL, prefix string) (string, bool) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host != s.base.Host {
		return "", false
	}
	path := strings.Trim(u.Path, "/")
	prefix = strings.Trim(prefix, "/") + "/"
	if !strings.HasPrefix(path, prefix) {
		return "", false
	}
	rest := path[len(prefix):]
	return rest, rest != ""
}

// isPage reports whether rawURL is exactly the site page at path,
// without query or fragment.
func (s *site) isPage(rawURL, path string) bool {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host != s.base.Host || u.RawQuery != "" || u.Fragment != "" {
		return false
	}
	return strings.Trim(u.Path, "/") == strings.Trim(path, "/")
}
