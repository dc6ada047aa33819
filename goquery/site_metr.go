package goquery

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/diogo-cruz/aisafety"
)

var _ aisafety.Adapter = (*Metr)(nil)

// metrSkipClasses mark post chrome that is not article text.
var metrSkipClasses = []string{
	"post-header", "post-categories", "post-authors", "post-date",
	"caption", "hide-over-950", "show-over-950", "breakout-wider",
}

// Metr scrapes metr.org. Posts carry their title and date in JSON-LD.
type Metr struct {
	site
}

// NewMetr creates the metr.org adapter.
func NewMetr() *Metr {
	return &Metr{site: newSite("metr", "https://metr.org", DefaultDelay)}
}

// IsContentURL accepts /blog/<slug> and rejects the listing and its
// pagination, query and fragment variants.
func (m *Metr) IsContentURL(rawURL string) bool {
	slug, ok := m.slugBelow(rawURL, "/blog")
	return ok && !strings.HasPrefix(slug, "page/")
}

func (m *Metr) ScrapeHome(ctx context.Context, s aisafety.Session) *aisafety.Record {
	return scrapePage(ctx, s, m.baseURL, blockElements, "div.content")
}

func (m *Metr) ScrapeAbout(ctx context.Context, s aisafety.Session) *aisafety.Record {
	return scrapePage(ctx, s, m.url("/about"), blockElements, "div.content")
}

// metrSchema is the subset of the JSON-LD article schema used for posts.
type metrSchema struct {
	Headline      string `json:"headline"`
	DatePublished string `json:"datePublished"`
}

func (m *Metr) ScrapeContentPage(ctx context.Context, s aisafety.Session, rawURL string) *aisafety.Record {
	doc := claim(ctx, s, m.IsContentURL, rawURL)
	if doc == nil {
		return nil
	}

	r := aisafety.NewContentRecord(rawURL, s.Now())
	var schema metrSchema
	if raw := doc.Find(`script[type="application/ld+json"]`).First().Text(); raw != "" {
		if err := json.Unmarshal([]byte(raw), &schema); err == nil {
			r.Title = schema.Headline
			r.SetDate(schema.DatePublished)
		}
	}

	contentDiv := doc.Find("div.content").First()
	if contentDiv.Length() == 0 {
		missing(s, rawURL, "div.content")
		return nil
	}
	r.Headings = Headings(contentDiv, headingElements)
	r.Links = Links(contentDiv, doc.Url)
	contentDiv.Find("script, style, nav, aside, footer").Remove()

	main := contentDiv
	if section := doc.Find("div.section.pt-0").First(); section.Length() > 0 {
		main = section
		if area := section.Find("div.content").First(); area.Length() > 0 {
			main = area
		}
	}

	b := NewContentBuilder(doc.Url, true)
	b.AddEach(main, blockElements+", div", func(el *goquery.Selection) bool {
		return HasAnyClass(el, metrSkipClasses...)
	})
	r.Content = b.String()
	return r
}

// DiscoverContentURLs collects post links from the /blog listing.
func (m *Metr) DiscoverContentURLs(ctx context.Context, s aisafety.Session) []string {
	doc := fetchDocument(ctx, s, m.url("/blog"))
	if doc == nil {
		return nil
	}
	return collectURLs(doc.Selection, "a[href]", m.base, m.IsContentURL)
}

func (m *Metr) Sections() []aisafety.Section {
	return []aisafety.Section{
		{Name: "home", Page: m.ScrapeHome},
		{Name: "about", Page: m.ScrapeAbout},
		{Name: "blog_posts", Discover: m.DiscoverContentURLs},
	}
}
