package goquery

import (
	"context"
	"slices"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/diogo-cruz/aisafety"
)

var _ aisafety.Adapter = (*NIST)(nil)

// NIST scrapes the NIST AI Safety Institute pages. Most pages share the
// Drupal "text-with-summary" body; the home page carries tagged teaser
// lists that are kept as structured sections.
type NIST struct {
	site
}

// NewNIST creates the nist.gov/aisi adapter.
func NewNIST() *NIST {
	return &NIST{site: newSite("nist", "https://www.nist.gov/aisi", DefaultDelay)}
}

// nistSection is a titled teaser list on the home page.
type nistSection struct {
	Title string       `json:"title"`
	Items []nistTeaser `json:"items"`
}

type nistTeaser struct {
	Title   string  `json:"title"`
	Date    *string `json:"date"`
	Summary string  `json:"summary"`
	URL     string  `json:"url"`
}

// IsContentURL accepts news and update articles.
func (n *NIST) IsContentURL(rawURL string) bool {
	return strings.Contains(rawURL, "/news/") || strings.Contains(rawURL, "/updates/")
}

func (n *NIST) ScrapeHome(ctx context.Context, s aisafety.Session) *aisafety.Record {
	doc := fetchDocument(ctx, s, n.baseURL)
	if doc == nil {
		return nil
	}

	r := aisafety.NewPageRecord(n.baseURL, s.Now())
	r.Headings = []string{}
	sections := []nistSection{}
	defer func() { r.Set("sections", sections) }()

	main := doc.Find("section.nist-page__content").First()
	if main.Length() == 0 {
		missing(s, n.baseURL, "section.nist-page__content")
		return r
	}
	if title := Text(main.Find("h1.nist-page__title").First()); title != "" {
		r.Headings = append(r.Headings, title)
	}

	area := main.Find("div.nist-content-row--width-legible").First()
	if area.Length() == 0 {
		return r
	}
	b := NewContentBuilder(doc.Url, true)
	area.Find("div.text-long").Each(func(_ int, block *goquery.Selection) {
		n.addBlocks(b, block)
	})
	r.Content = b.String()

	main.Find("div.paragraph--type--tagged-content-list").Each(func(_ int, sec *goquery.Selection) {
		section := nistSection{
			Title: Text(sec.Find("h2.nist-block__title").First()),
			Items: []nistTeaser{},
		}
		sec.Find("article.nist-teaser").Each(func(_ int, article *goquery.Selection) {
			var item nistTeaser
			if link := article.Find("h3.nist-teaser__title a").First(); link.Length() > 0 {
				href, _ := link.Attr("href")
				item.Title = Text(link)
				item.URL = n.url(href)
			}
			if t := article.Find("time").First(); t.Length() > 0 {
				if dt, ok := t.Attr("datetime"); ok {
					item.Date = &dt
				}
			}
			item.Summary = Text(article.Find("div.text-with-summary").First())
			section.Items = append(section.Items, item)
		})
		sections = append(sections, section)
	})
	return r
}

// addBlocks adds the paragraphs, lists, callouts, tables and quotes of a
// text block, grouped by kind.
func (n *NIST) addBlocks(b *ContentBuilder, block *goquery.Selection) {
	b.AddEach(block, "p", nil)
	b.AddEach(block, "ul, ol", nil)
	n.addCallouts(b, block)
	b.AddEach(block, "table", nil)
	b.AddEach(block, "blockquote", nil)
}

func (n *NIST) addCallouts(b *ContentBuilder, sel *goquery.Selection) {
	sel.Find("div.nist-callout").Each(func(_ int, callout *goquery.Selection) {
		if text := Render(callout, b.base, b.resolveLinks); text != "" {
			b.AddText("[Callout] " + text)
		}
	})
}

// ScrapeAbout returns the strategic vision, which stands in for an
// about page.
func (n *NIST) ScrapeAbout(ctx context.Context, s aisafety.Session) *aisafety.Record {
	return n.scrapeGeneric(ctx, s, n.url("/aisi/strategic-vision"))
}

// genericPage returns a page section for a text-with-summary page.
func (n *NIST) genericPage(ref string) func(context.Context, aisafety.Session) *aisafety.Record {
	return func(ctx context.Context, s aisafety.Session) *aisafety.Record {
		return n.scrapeGeneric(ctx, s, n.url(ref))
	}
}

func (n *NIST) scrapeGeneric(ctx context.Context, s aisafety.Session, rawURL string) *aisafety.Record {
	doc := fetchDocument(ctx, s, rawURL)
	if doc == nil {
		return nil
	}

	r := aisafety.NewPageRecord(rawURL, s.Now())
	r.Headings = []string{}
	r.Links = []aisafety.Link{}

	main := doc.Find("div.text-with-summary").First()
	if main.Length() == 0 {
		missing(s, rawURL, "div.text-with-summary")
		return r
	}
	if title := Text(doc.Find("h1.nist-page__title").First()); title != "" {
		r.Headings = append(r.Headings, title)
	}

	b := NewContentBuilder(doc.Url, true)
	n.addCallouts(b, main)
	main.Find("h2, h3, h4, h5, h6").Each(func(_ int, h *goquery.Selection) {
		text := Text(h)
		if text == "" || slices.Contains(r.Headings, text) {
			return
		}
		r.Headings = append(r.Headings, text)
		b.AddText(text)
	})
	b.AddEach(main, "p", nil)
	b.AddEach(main, "ul, ol", nil)
	b.AddEach(main, "table", nil)
	b.AddEach(main, "blockquote", nil)
	main.Find("div.nist-image").Each(func(_ int, fig *goquery.Selection) {
		img := fig.Find("img").First()
		if img.Length() == 0 {
			return
		}
		if alt, _ := img.Attr("alt"); alt != "" {
			b.AddText("[Image: " + alt + "]")
		}
		if credit := fig.Find("div.nist-image__credit").First(); credit.Length() > 0 {
			b.AddText("[Image Credit: " + Text(credit) + "]")
		}
	})
	r.Content = b.String()

	for _, link := range Links(main, doc.Url) {
		if link.Text != "" {
			r.Links = append(r.Links, link)
		}
	}
	return r
}

// scrapeConsortiumMembers scrapes the AISIC member list.
func (n *NIST) scrapeConsortiumMembers(ctx context.Context, s aisafety.Session) *aisafety.Record {
	rawURL := n.url("/aisi/artificial-intelligence-safety-institute-consortium/aisic-members")
	doc := fetchDocument(ctx, s, rawURL)
	if doc == nil {
		return nil
	}

	r := aisafety.NewPageRecord(rawURL, s.Now())
	r.Headings = []string{}
	r.Links = []aisafety.Link{}
	members := []string{}
	defer func() { r.Set("members", members) }()

	main := doc.Find("div.node__content").First()
	if main.Length() == 0 {
		missing(s, rawURL, "div.node__content")
		return r
	}
	r.Headings = Headings(main, headingElements)
	b := NewContentBuilder(doc.Url, true)
	b.AddEach(main, blockElements, nil)
	r.Content = b.String()
	r.Links = Links(main, doc.Url)

	main.Find("div.view-content").First().Find("p.member-name, div.member-name").Each(func(_ int, m *goquery.Selection) {
		members = append(members, Text(m))
	})
	return r
}

func (n *NIST) ScrapeContentPage(ctx context.Context, s aisafety.Session, rawURL string) *aisafety.Record {
	doc := claim(ctx, s, n.IsContentURL, rawURL)
	if doc == nil {
		return nil
	}

	r := aisafety.NewContentRecord(rawURL, s.Now())
	r.Title = Text(doc.Find("h1.page-title").First())
	if dt, ok := doc.Find("time").First().Attr("datetime"); ok {
		r.SetDate(dt)
	}

	body := doc.Find("div.node__content").First()
	if body.Length() == 0 {
		missing(s, rawURL, "div.node__content")
		return nil
	}
	r.Headings = Headings(body, "h2, h3, h4, h5, h6")
	b := NewContentBuilder(doc.Url, true)
	b.AddEach(body, blockElements, nil)
	r.Content = b.String()
	r.Links = Links(body, doc.Url)
	return r
}

// DiscoverContentURLs collects article links from the home page's news
// block.
func (n *NIST) DiscoverContentURLs(ctx context.Context, s aisafety.Session) []string {
	doc := fetchDocument(ctx, s, n.baseURL)
	if doc == nil {
		return nil
	}
	return collectURLs(doc.Find("div.news-updates").First(), "a[href]", n.base, n.IsContentURL)
}

func (n *NIST) Sections() []aisafety.Section {
	return []aisafety.Section{
		{Name: "home", Page: n.ScrapeHome},
		{Name: "strategic_vision", Page: n.ScrapeAbout},
		{Name: "guidance", Page: n.genericPage("/aisi/guidance")},
		{Name: "consortium", Page: n.genericPage("/aisi/artificial-intelligence-safety-institute-consortium-aisic")},
		{Name: "consortium_members", Page: n.scrapeConsortiumMembers},
		{Name: "member_perspectives", Page: n.genericPage("/aisi/aisic-member-perspectives")},
		{Name: "working_groups", Page: n.genericPage("/aisi/aisic-working-groups")},
		{Name: "faqs", Page: n.genericPage("/aisi/artificial-intelligence-safety-institute-consortium-faqs")},
		{Name: "ai_engagement", Page: n.genericPage("/artificial-intelligence/nist-ai-engagement")},
		{Name: "related_links", Page: n.genericPage("/artificial-intelligence/related-links")},
		{Name: "news_updates", Discover: n.DiscoverContentURLs},
	}
}
