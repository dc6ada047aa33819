package goquery

import (
	"context"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/diogo-cruz/aisafety"
)

var _ aisafety.Adapter = (*CHAI)(nil)

var chaiYear = regexp.MustCompile(`\d{4}`)

// CHAI scrapes the Center for Human-Compatible AI. It has no blog; the
// research overview and the progress report are stored as its posts.
type CHAI struct {
	site
}

// NewCHAI creates the humancompatible.ai adapter.
func NewCHAI() *CHAI {
	return &CHAI{site: newSite("chai", "https://humancompatible.ai", DefaultDelay)}
}

type chaiMember struct {
	Name     string `json:"name"`
	Role     string `json:"role"`
	Bio      string `json:"bio"`
	ImageURL string `json:"image_url"`
}

type chaiArea struct {
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Papers      []chaiPaper `json:"papers"`
}

type chaiPaper struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

type chaiHighlight struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Date        *string `json:"date"`
}

// IsContentURL accepts the on-site research and progress report pages.
func (c *CHAI) IsContentURL(rawURL string) bool {
	return c.isPage(rawURL, "/research") || c.isPage(rawURL, "/progress-report")
}

func (c *CHAI) ScrapeHome(ctx context.Context, s aisafety.Session) *aisafety.Record {
	return scrapeContainerPage(ctx, s, c.baseURL, "main")
}

// ScrapeAbout scrapes /about/ and its team listing, when present.
func (c *CHAI) ScrapeAbout(ctx context.Context, s aisafety.Session) *aisafety.Record {
	rawURL := c.url("/about/")
	doc := fetchDocument(ctx, s, rawURL)
	if doc == nil {
		return nil
	}

	r := aisafety.NewPageRecord(rawURL, s.Now())
	r.Headings = []string{}
	team := []chaiMember{}
	main := doc.Find("main").First()
	if main.Length() == 0 {
		missing(s, rawURL, "main")
	} else {
		r.Headings = Headings(main, headingElements)
		b := NewContentBuilder(doc.Url, true)
		b.AddEach(main, blockElements, nil)
		r.Content = b.String()
		if section := byClass(main, "*", "team"); section != nil {
			team = c.members(section, doc.Url)
		}
	}
	r.Set("team", team)
	return r
}

func (c *CHAI) members(section *goquery.Selection, base *url.URL) []chaiMember {
	members := []chaiMember{}
	section.Find("*").Each(func(_ int, el *goquery.Selection) {
		if !classFoldContainsAny(el, []string{"member"}) {
			return
		}
		m := chaiMember{
			Name: Text(el.Find("h3, h4, strong").First()),
			Role: Text(el.Find("h4, h5, em").First()),
			Bio:  Text(el.Find("p").First()),
		}
		if src, ok := el.Find("img").First().Attr("src"); ok && src != "" {
			m.ImageURL = absoluteURL(base, src)
		}
		members = append(members, m)
	})
	return members
}

// ScrapeContentPage scrapes the research overview or the progress
// report, depending on the URL.
func (c *CHAI) ScrapeContentPage(ctx context.Context, s aisafety.Session, rawURL string) *aisafety.Record {
	doc := claim(ctx, s, c.IsContentURL, rawURL)
	if doc == nil {
		return nil
	}
	if strings.Contains(rawURL, "progress-report") {
		return c.progressReport(s, doc, rawURL)
	}
	return c.research(s, doc, rawURL)
}

func (c *CHAI) research(s aisafety.Session, doc *goquery.Document, rawURL string) *aisafety.Record {
	main := doc.Find("main").First()
	if main.Length() == 0 {
		missing(s, rawURL, "main")
		return nil
	}

	r := aisafety.NewPageRecord(rawURL, s.Now())
	r.Headings = Headings(main, headingElements)

	areas := []chaiArea{}
	main.Find("section, div").Each(func(_ int, sec *goquery.Selection) {
		heading := sec.Find("h2, h3").First()
		if heading.Length() == 0 {
			return
		}
		area := chaiArea{Title: Text(heading), Papers: []chaiPaper{}}
		if p := sec.Find("p").First(); p.Length() > 0 {
			area.Description = Render(p, doc.Url, true)
		}
		sec.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
			href, _ := a.Attr("href")
			area.Papers = append(area.Papers, chaiPaper{Title: Text(a), URL: absoluteURL(doc.Url, href)})
		})
		areas = append(areas, area)
	})

	b := NewContentBuilder(doc.Url, true)
	b.AddEach(main, blockElements, func(el *goquery.Selection) bool {
		text := el.Text()
		for _, area := range areas {
			if area.Title != "" && strings.Contains(text, area.Title) {
				return true
			}
		}
		return false
	})
	r.Content = b.String()
	r.Set("research_areas", areas)
	return r
}

func (c *CHAI) progressReport(s aisafety.Session, doc *goquery.Document, rawURL string) *aisafety.Record {
	main := doc.Find("main").First()
	if main.Length() == 0 {
		missing(s, rawURL, "main")
		return nil
	}

	r := aisafety.NewPageRecord(rawURL, s.Now())
	r.Headings = Headings(main, headingElements)

	highlights := []chaiHighlight{}
	main.Find("section, div").EachWithBreak(func(_ int, sec *goquery.Selection) bool {
		if !containsAny(strings.ToLower(sec.Text()), []string{"highlight", "achievement", "progress"}) {
			return true
		}
		sec.Find("li, article").Each(func(_ int, item *goquery.Selection) {
			h := chaiHighlight{Title: Text(item.Find("h3, h4, strong").First())}
			if p := item.Find("p").First(); p.Length() > 0 {
				h.Description = Render(p, doc.Url, true)
			}
			if date := firstMatchingText(item.Nodes[0], chaiYear); date != "" {
				h.Date = &date
			}
			highlights = append(highlights, h)
		})
		return false
	})

	b := NewContentBuilder(doc.Url, true)
	b.AddEach(main, blockElements, nil)
	r.Content = b.String()
	r.Set("highlights", highlights)
	return r
}

// DiscoverContentURLs returns the research overview and the progress
// report.
func (c *CHAI) DiscoverContentURLs(context.Context, aisafety.Session) []string {
	return []string{c.url("/research"), c.url("/progress-report/")}
}

func (c *CHAI) Sections() []aisafety.Section {
	return []aisafety.Section{
		{Name: "home", Page: c.ScrapeHome},
		{Name: "about", Page: c.ScrapeAbout},
		{Name: "blog_posts", Discover: c.DiscoverContentURLs},
	}
}
