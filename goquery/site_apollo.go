package goquery

import (
	"context"

	"github.com/PuerkitoBio/goquery"
	"github.com/diogo-cruz/aisafety"
)

var _ aisafety.Adapter = (*Apollo)(nil)

// Apollo scrapes apolloresearch.ai. Research posts are linked from the
// /research page, blog posts from the /blog page.
type Apollo struct {
	site
}

// NewApollo creates the apolloresearch.ai adapter.
func NewApollo() *Apollo {
	return &Apollo{site: newSite("apollo", "https://www.apolloresearch.ai", SlowDelay)}
}

// IsContentURL accepts /blog/ and /research/ posts but not the listings.
func (a *Apollo) IsContentURL(rawURL string) bool {
	if _, ok := a.slugBelow(rawURL, "/blog"); ok {
		return true
	}
	_, ok := a.slugBelow(rawURL, "/research")
	return ok
}

// ScrapeHome scrapes the home page section by section. Sections without
// content are dropped; the record content joins each kept section's
// title and content.
func (a *Apollo) ScrapeHome(ctx context.Context, s aisafety.Session) *aisafety.Record {
	doc := fetchDocument(ctx, s, a.baseURL)
	if doc == nil {
		return nil
	}

	r := aisafety.NewPageRecord(a.baseURL, s.Now())
	main := doc.Find("main").First()
	if main.Length() == 0 {
		missing(s, a.baseURL, "main")
		r.Headings = []string{}
		r.Set("sections", []pageSection{})
		return r
	}
	r.Headings = Headings(main, headingElements)
	sections, content := sectionContent(main, doc.Url)
	r.Content = content
	r.Set("sections", sections)
	return r
}

// ScrapeAbout returns nil; Apollo has no about page.
func (a *Apollo) ScrapeAbout(context.Context, aisafety.Session) *aisafety.Record {
	return nil
}

// scrapeResearch scrapes the /research page and records the post links
// found on it under "post_links".
func (a *Apollo) scrapeResearch(ctx context.Context, s aisafety.Session) *aisafety.Record {
	rawURL := a.url("/research")
	doc := fetchDocument(ctx, s, rawURL)
	if doc == nil {
		return nil
	}

	r := aisafety.NewPageRecord(rawURL, s.Now())
	r.Headings = []string{}
	links := []string{}
	main := doc.Find("main").First()
	if main.Length() == 0 {
		missing(s, rawURL, "main")
	} else {
		r.Headings = Headings(main, headingElements)
		b := NewContentBuilder(doc.Url, true)
		b.AddEach(main, blockElements, nil)
		r.Content = b.String()
		links = a.researchLinks(main)
	}
	r.Set("post_links", links)
	return r
}

func (a *Apollo) researchLinks(main *goquery.Selection) []string {
	links := collectURLs(main, "a[href]", a.base, func(u string) bool {
		_, ok := a.slugBelow(u, "/research")
		return ok
	})
	if links == nil {
		return []string{}
	}
	return links
}

func (a *Apollo) blogLinks(ctx context.Context, s aisafety.Session) []string {
	blogURL := a.url("/blog")
	doc := fetchDocument(ctx, s, blogURL)
	if doc == nil {
		return nil
	}
	return collectURLs(doc.Find("main").First(), "a[href]", a.base, func(u string) bool {
		_, ok := a.slugBelow(u, "/blog")
		return ok
	})
}

// discoverResearchPosts reads the links recorded by the research section.
func (a *Apollo) discoverResearchPosts(_ context.Context, s aisafety.Session) []string {
	research := s.Output().Page("research")
	if research == nil {
		return nil
	}
	links, _ := research.Get("post_links")
	urls, _ := links.([]string)
	return urls
}

func (a *Apollo) ScrapeContentPage(ctx context.Context, s aisafety.Session, rawURL string) *aisafety.Record {
	doc := claim(ctx, s, a.IsContentURL, rawURL)
	if doc == nil {
		return nil
	}

	main := doc.Find("main").First()
	if main.Length() == 0 {
		missing(s, rawURL, "main")
		return nil
	}

	r := aisafety.NewContentRecord(rawURL, s.Now())
	r.Title = Text(main.Find("h1").First())
	var author any
	if meta := main.Find("div.metadata").First(); meta.Length() > 0 {
		if date := first(meta, "time", ".date"); date.Length() > 0 {
			r.SetDate(Text(date))
		}
		if by := meta.Find(".author").First(); by.Length() > 0 {
			author = Text(by)
		}
	}
	r.Headings = Headings(main, "h2, h3, h4, h5, h6")

	article := main
	if found := main.Find("article").First(); found.Length() > 0 {
		article = found
	}
	b := NewContentBuilder(doc.Url, true)
	b.AddEach(article, blockElements, func(el *goquery.Selection) bool {
		return el.ParentsFiltered(".metadata").Length() > 0
	})
	r.Content = b.String()

	kind := "research"
	if _, ok := a.slugBelow(rawURL, "/blog"); ok {
		kind = "blog"
	}
	r.Set("author", author)
	r.Set("category", nil)
	r.Set("type", kind)
	return r
}

// DiscoverContentURLs returns research posts followed by blog posts.
func (a *Apollo) DiscoverContentURLs(ctx context.Context, s aisafety.Session) []string {
	var urls []string
	if doc := fetchDocument(ctx, s, a.url("/research")); doc != nil {
		urls = append(urls, a.researchLinks(doc.Find("main").First())...)
	}
	return append(urls, a.blogLinks(ctx, s)...)
}

func (a *Apollo) Sections() []aisafety.Section {
	return []aisafety.Section{
		{Name: "home", Page: a.ScrapeHome},
		{Name: "research", Page: a.scrapeResearch},
		{Name: "research_posts", Discover: a.discoverResearchPosts},
		{Name: "blog_posts", Discover: a.blogLinks},
	}
}
