package goquery

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/diogo-cruz/aisafety"
	"github.com/diogo-cruz/aisafety/crawl"
)

var _ aisafety.Adapter = (*DeepMind)(nil)

// deepMindMetaClasses mark publication metadata blocks kept out of the
// body content.
var deepMindMetaClasses = []string{"authors", "abstract", "citation", "research-areas", "metadata"}

var deepMindPageParam = regexp.MustCompile(`page=(\d+)`)

// DeepMind scrapes deepmind.google publications. The listing is paginated
// through ?page=N, and its first page carries the research area filters,
// which are stored under "research_areas".
type DeepMind struct {
	site
}

// NewDeepMind creates the deepmind.google adapter.
func NewDeepMind() *DeepMind {
	return &DeepMind{site: newSite("deepmind", "https://deepmind.google", DefaultDelay)}
}

// IsContentURL accepts on-site /research/publications/<id> paths.
// Listing pages, including their query variants, are rejected.
func (d *DeepMind) IsContentURL(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host != d.base.Host {
		return false
	}
	const prefix = "research/publications/"
	path := strings.Trim(u.Path, "/")
	return strings.HasPrefix(path, prefix) && len(path) > len(prefix)
}

func (d *DeepMind) ScrapeHome(ctx context.Context, s aisafety.Session) *aisafety.Record {
	doc := fetchDocument(ctx, s, d.baseURL)
	if doc == nil {
		return nil
	}
	main := doc.Find("main").First()
	if main.Length() == 0 {
		missing(s, d.baseURL, "main")
	}
	return pageRecord(s, doc, d.baseURL, main, blockElements+", div", isChrome)
}

// ScrapeAbout scrapes /about section by section.
func (d *DeepMind) ScrapeAbout(ctx context.Context, s aisafety.Session) *aisafety.Record {
	rawURL := d.url("/about")
	doc := fetchDocument(ctx, s, rawURL)
	if doc == nil {
		return nil
	}

	r := aisafety.NewPageRecord(rawURL, s.Now())
	r.Headings = []string{}
	main := doc.Find("main").First()
	if main.Length() == 0 {
		missing(s, rawURL, "main")
		r.Set("sections", []pageSection{})
		return r
	}
	r.Headings = Headings(main, headingElements)
	sections, content := sectionContent(main, doc.Url)
	r.Content = content
	r.Set("sections", sections)
	return r
}

func (d *DeepMind) ScrapeContentPage(ctx context.Context, s aisafety.Session, rawURL string) *aisafety.Record {
	doc := claim(ctx, s, d.IsContentURL, rawURL)
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
	if t := main.Find("time").First(); t.Length() > 0 {
		date, ok := t.Attr("datetime")
		if !ok {
			date = Text(t)
		}
		r.SetDate(date)
	}

	authors := []string{}
	if sel := byClass(main, "div", "authors"); sel != nil {
		authors = nonEmptyTexts(sel.Find("span, a"))
	}
	abstract := ""
	if sel := byClass(main, "div, section", "abstract"); sel != nil {
		abstract = Render(sel, doc.Url, true)
	}
	areas := []string{}
	if sel := byClass(main, "div, section", "research-areas"); sel != nil {
		areas = nonEmptyTexts(sel.Find("span, a"))
	}
	var pdfURL any
	main.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href, _ := a.Attr("href")
		if strings.HasSuffix(href, ".pdf") {
			pdfURL = absoluteURL(doc.Url, href)
			return false
		}
		return true
	})
	var citation any
	if sel := byClass(main, "div, section", "citation"); sel != nil {
		citation = Render(sel, doc.Url, true)
	}

	r.Headings = Headings(main, "h2, h3, h4, h5, h6")
	article := main
	if found := main.Find("article").First(); found.Length() > 0 {
		article = found
	}
	b := NewContentBuilder(doc.Url, true)
	b.AddEach(article, blockElements, func(el *goquery.Selection) bool {
		skip := false
		el.Parents().EachWithBreak(func(_ int, p *goquery.Selection) bool {
			skip = classFoldContainsAny(p, deepMindMetaClasses)
			return !skip
		})
		return skip
	})
	r.Content = b.String()
	r.Links = Links(article, doc.Url)

	r.Set("authors", authors)
	r.Set("abstract", abstract)
	r.Set("research_areas", areas)
	r.Set("citation", citation)
	r.Set("pdf_url", pdfURL)
	return r
}

// DiscoverContentURLs walks the paginated publications listing. The
// research areas found on the first page are stored in the session
// output, after the publications section.
func (d *DeepMind) DiscoverContentURLs(ctx context.Context, s aisafety.Session) []string {
	listURL := d.url("/research/publications/")
	s.Output().Set("research_areas", []string{})
	return crawl.Paginate(ctx, s, listURL, func(ctx context.Context, pageURL string, page int) (crawl.Listing, bool) {
		doc := fetchDocument(ctx, s, pageURL)
		if doc == nil {
			return crawl.Listing{}, false
		}
		main := doc.Find("main").First()
		if main.Length() == 0 {
			return crawl.Listing{}, true
		}
		if page == 1 {
			d.recordResearchAreas(s, main)
		}

		listing := crawl.Listing{Items: d.listingLinks(main)}
		if next := d.nextPage(main); next > 0 {
			listing.Next = fmt.Sprintf("%s?page=%d", listURL, next)
		}
		return listing, true
	})
}

// listingLinks gathers publication links from article cards, the
// publication list and finally any matching anchor.
func (d *DeepMind) listingLinks(main *goquery.Selection) []string {
	var links []string
	keep := func(href string) {
		if u := resolveURL(d.base, href); u != "" && d.IsContentURL(u) {
			links = append(links, u)
		}
	}

	main.Find("article").Each(func(_ int, article *goquery.Selection) {
		if href, ok := article.Find("h2").First().Find("a").First().Attr("href"); ok && href != "" {
			if u := resolveURL(d.base, href); u != "" && d.IsContentURL(u) {
				links = append(links, u)
				return
			}
		}
		article.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
			href, _ := a.Attr("href")
			keep(href)
		})
	})
	main.Find(`ul[data-testid="publication-list"] a[href]`).Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		keep(href)
	})
	main.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		if strings.Contains(href, "/research/publications/") && !strings.HasSuffix(href, "/publications/") {
			keep(href)
		}
	})
	return links
}

// nextPage returns the page number linked after the current page in the
// pagination nav, or 0 when there is none.
func (d *DeepMind) nextPage(main *goquery.Selection) int {
	nav := main.Find(`nav[aria-label="Pagination"]`).First()
	next := 0
	current := false
	nav.Find("a").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		if _, ok := a.Attr("aria-current"); ok {
			current = true
			return true
		}
		if !current {
			return true
		}
		href, _ := a.Attr("href")
		if m := deepMindPageParam.FindStringSubmatch(href); m != nil {
			next, _ = strconv.Atoi(m[1])
			return next == 0
		}
		return true
	})
	return next
}

// recordResearchAreas stores the listing's research area filters in the
// session output.
func (d *DeepMind) recordResearchAreas(s aisafety.Session, main *goquery.Selection) {
	filters := main.Find(`div[data-testid="filter-section"]`).First()
	if filters.Length() == 0 {
		return
	}
	areas := []string{}
	for _, text := range nonEmptyTexts(filters.Find("button")) {
		if strings.ToLower(text) != "all" {
			areas = append(areas, text)
		}
	}
	s.Output().Set("research_areas", areas)
}

func (d *DeepMind) Sections() []aisafety.Section {
	return []aisafety.Section{
		{Name: "home", Page: d.ScrapeHome},
		{Name: "about", Page: d.ScrapeAbout},
		{Name: "publications", Discover: d.DiscoverContentURLs},
	}
}
