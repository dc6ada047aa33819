package goquery

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/diogo-cruz/aisafety"
)

var _ aisafety.Adapter = (*CSER)(nil)

// cserResources are the AI-related resource paths scraped under
// "resources".
var cserResources = []string{
	"/research/risks-from-artificial-intelligence/",
	"/resources/ai-governance-displacement-and-defragmentation-international-law/",
	"/resources/aligning-ai-regulation-sociotechnical-change/",
	"/resources/why-and-how-governments-should-monitor-ai-development/",
	"/resources/exploring-ai-safety-degrees-generality-capability-and-control/",
	"/resources/bridging-gap-case-incompletely-theorized-agreement-ai-policy/",
	"/resources/ai-issues-covid/",
	"/resources/fragmentation-and-future-investigating-architectures-international-ai-governance/",
	"/resources/oases-cooperation-empirical-evaluation-reinforcement-learning-iterated-prisoners-dilemma/",
	"/resources/solving-x/",
	"/resources/it-takes-village/",
	"/resources/competition-law-levers/",
	"/resources/safeguarding-safeguards-how-best-promote-ai-alignment-public-interest/",
}

// CSER scrapes the Centre for the Study of Existential Risk.
type CSER struct {
	site
}

// NewCSER creates the cser.ac.uk adapter.
func NewCSER() *CSER {
	return &CSER{site: newSite("cser", "https://www.cser.ac.uk", DefaultDelay)}
}

// IsContentURL accepts on-site /resources/ pages.
func (c *CSER) IsContentURL(rawURL string) bool {
	return strings.HasPrefix(rawURL, c.baseURL) && strings.Contains(rawURL, "/resources/")
}

func (c *CSER) ScrapeHome(ctx context.Context, s aisafety.Session) *aisafety.Record {
	return scrapeContainerPage(ctx, s, c.baseURL, "main")
}

func (c *CSER) ScrapeAbout(ctx context.Context, s aisafety.Session) *aisafety.Record {
	return scrapeContainerPage(ctx, s, c.url("/about-us/"), "main")
}

func (c *CSER) ScrapeContentPage(ctx context.Context, s aisafety.Session, rawURL string) *aisafety.Record {
	return c.scrape(s, claim(ctx, s, c.IsContentURL, rawURL), rawURL)
}

// scrapeResource scrapes an entry of the fixed resource list, which
// includes pages outside /resources/.
func (c *CSER) scrapeResource(ctx context.Context, s aisafety.Session, rawURL string) *aisafety.Record {
	return c.scrape(s, claim(ctx, s, anyURL, rawURL), rawURL)
}

func (c *CSER) scrape(s aisafety.Session, doc *goquery.Document, rawURL string) *aisafety.Record {
	if doc == nil {
		return nil
	}

	r := aisafety.NewContentRecord(rawURL, s.Now())
	if title := byClassAny(doc.Selection, "h1, header, div", "title", "heading"); title != nil {
		r.Title = Text(title)
	}
	if date := byClass(doc.Selection, "time, span, div", "date"); date != nil {
		r.SetDate(Text(date))
	}
	authors := []string{}
	doc.Find("span, div, p").Each(func(_ int, el *goquery.Selection) {
		if classFoldContainsAny(el, []string{"author"}) {
			if text := Text(el); text != "" {
				authors = append(authors, text)
			}
		}
	})

	main := first(doc.Selection, "main", "article", "div.content")
	if main.Length() == 0 {
		missing(s, rawURL, "main")
		return nil
	}
	r.Headings = Headings(main, headingElements)
	b := NewContentBuilder(doc.Url, true)
	b.AddEach(main, blockElements, nil)
	r.Content = b.String()
	r.Links = []aisafety.Link{}
	for _, link := range Links(main, doc.Url) {
		if link.Text != "" {
			r.Links = append(r.Links, link)
		}
	}
	r.Set("authors", authors)
	return r
}

// DiscoverContentURLs returns the fixed resource list.
func (c *CSER) DiscoverContentURLs(context.Context, aisafety.Session) []string {
	urls := make([]string, len(cserResources))
	for i, ref := range cserResources {
		urls[i] = c.url(ref)
	}
	return urls
}

func (c *CSER) Sections() []aisafety.Section {
	return []aisafety.Section{
		{Name: "home", Page: c.ScrapeHome},
		{Name: "about", Page: c.ScrapeAbout},
		{Name: "resources", Discover: c.DiscoverContentURLs, Scrape: c.scrapeResource},
	}
}
