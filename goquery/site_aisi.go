package goquery

import (
	"context"

	"github.com/PuerkitoBio/goquery"
	"github.com/diogo-cruz/aisafety"
)

var _ aisafety.Adapter = (*AISI)(nil)

// aisiMain locates the main column of AISI's fixed pages.
var aisiMain = []string{"main", "div.main-content"}

// AISI scrapes the UK AI Security Institute. Articles are discovered
// from the cards on the /work page and stored under "articles".
type AISI struct {
	site
}

// NewAISI creates the aisi.gov.uk adapter.
func NewAISI() *AISI {
	return &AISI{site: newSite("aisi", "https://www.aisi.gov.uk", DefaultDelay)}
}

// IsContentURL accepts paths below /work/ but not /work itself.
func (a *AISI) IsContentURL(rawURL string) bool {
	_, ok := a.slugBelow(rawURL, "/work")
	return ok
}

func (a *AISI) ScrapeHome(ctx context.Context, s aisafety.Session) *aisafety.Record {
	return scrapePage(ctx, s, a.baseURL, blockElements, aisiMain...)
}

func (a *AISI) ScrapeAbout(ctx context.Context, s aisafety.Session) *aisafety.Record {
	return scrapePage(ctx, s, a.url("/about"), blockElements, aisiMain...)
}

func (a *AISI) scrapeAcademicEngagement(ctx context.Context, s aisafety.Session) *aisafety.Record {
	return scrapePage(ctx, s, a.url("/academic-engagement"), blockElements, aisiMain...)
}

func (a *AISI) scrapeGrants(ctx context.Context, s aisafety.Session) *aisafety.Record {
	return scrapePage(ctx, s, a.url("/grants"), blockElements, aisiMain...)
}

// scrapeWork scrapes the /work page and records the article links found
// on its cards under "article_links".
func (a *AISI) scrapeWork(ctx context.Context, s aisafety.Session) *aisafety.Record {
	rawURL := a.url("/work")
	doc := fetchDocument(ctx, s, rawURL)
	if doc == nil {
		return nil
	}

	r := aisafety.NewPageRecord(rawURL, s.Now())
	r.Headings = Headings(doc.Selection, headingElements)
	links := []string{}

	main := doc.Find("div.section.bg-c-white").First()
	if main.Length() == 0 {
		missing(s, rawURL, "div.section.bg-c-white")
	} else {
		b := NewContentBuilder(doc.Url, true)
		b.AddEach(main, blockElements, nil)
		r.Content = b.String()
		links = a.cardLinks(main)
	}
	r.Set("article_links", links)
	return r
}

// cardLinks returns the article link of every work card. The title link
// is preferred; the "read more" button is used only when it stays on
// the site.
func (a *AISI) cardLinks(main *goquery.Selection) []string {
	links := []string{}
	seen := make(map[string]struct{})
	add := func(u string) {
		if _, ok := seen[u]; ok {
			return
		}
		seen[u] = struct{}{}
		links = append(links, u)
	}

	cards := main.Find(`div.work-cards[fs-cmsfilter-element="list"]`).First()
	cards.Find("div.work-card-wrapper").Each(func(_ int, card *goquery.Selection) {
		if title := card.Find("a.text-link-hover").First(); title.Length() > 0 {
			if href, _ := title.Attr("href"); href != "" {
				add(a.url(href))
				return
			}
		}
		if button := card.Find("a.button").First(); button.Length() > 0 {
			if href, _ := button.Attr("href"); href != "" {
				if u := a.url(href); isSameHost(a.base, u) {
					add(u)
				}
			}
		}
	})
	return links
}

// ScrapeContentPage scrapes a /work/ article.
func (a *AISI) ScrapeContentPage(ctx context.Context, s aisafety.Session, rawURL string) *aisafety.Record {
	return a.scrape(ctx, s, claim(ctx, s, a.IsContentURL, rawURL), rawURL)
}

// scrapeArticle scrapes an article linked from a work card. Card links
// are trusted even when they leave /work/.
func (a *AISI) scrapeArticle(ctx context.Context, s aisafety.Session, rawURL string) *aisafety.Record {
	return a.scrape(ctx, s, claim(ctx, s, anyURL, rawURL), rawURL)
}

func (a *AISI) scrape(_ context.Context, s aisafety.Session, doc *goquery.Document, rawURL string) *aisafety.Record {
	if doc == nil {
		return nil
	}

	r := aisafety.NewContentRecord(rawURL, s.Now())
	var category any
	if hero := doc.Find("section.interior-hero").First(); hero.Length() > 0 {
		r.Title = Text(hero.Find("h1").First())
		if crumb := hero.Find("div.breadcrumb").First(); crumb.Length() > 0 {
			r.SetDate(Text(crumb))
		}
		if row := hero.Find("div.category-row").First(); row.Length() > 0 {
			if link := row.Find("a").Last(); link.Length() > 0 {
				category = Text(link)
			}
		}
	}

	body := doc.Find("div.rtf-cms").First()
	if body.Length() == 0 {
		missing(s, rawURL, "div.rtf-cms")
		return nil
	}
	r.Headings = Headings(body, headingElements)
	b := NewContentBuilder(doc.Url, true)
	b.AddEach(body, blockElements, nil)
	r.Content = b.String()
	r.Set("category", category)
	return r
}

// DiscoverContentURLs returns the work card links.
func (a *AISI) DiscoverContentURLs(ctx context.Context, s aisafety.Session) []string {
	doc := fetchDocument(ctx, s, a.url("/work"))
	if doc == nil {
		return nil
	}
	return a.cardLinks(doc.Find("div.section.bg-c-white").First())
}

// discoverArticles reads the links recorded by the work section.
func (a *AISI) discoverArticles(_ context.Context, s aisafety.Session) []string {
	work := s.Output().Page("work")
	if work == nil {
		return nil
	}
	links, _ := work.Get("article_links")
	urls, _ := links.([]string)
	return urls
}

func (a *AISI) Sections() []aisafety.Section {
	return []aisafety.Section{
		{Name: "home", Page: a.ScrapeHome},
		{Name: "about", Page: a.ScrapeAbout},
		{Name: "work", Page: a.scrapeWork},
		{Name: "academic_engagement", Page: a.scrapeAcademicEngagement},
		{Name: "grants", Page: a.scrapeGrants},
		{Name: "articles", Discover: a.discoverArticles, Scrape: a.scrapeArticle},
	}
}
