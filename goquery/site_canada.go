package goquery

import (
	"context"
	"slices"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/diogo-cruz/aisafety"
)

var _ aisafety.Adapter = (*Canada)(nil)

// Canadian AISI pages live on three government and partner sites.
const (
	canadaAISIURL     = "https://ised-isde.canada.ca/site/ised/en/canadian-artificial-intelligence-safety-institute"
	canadaINOAIURL    = "https://ised-isde.canada.ca/site/ised/en/international-network-ai-safety-institutes-mission-statement"
	canadaStrategyURL = "https://ised-isde.canada.ca/site/ai-strategy/en"
	canadaAIDAURL     = "https://ised-isde.canada.ca/site/innovation-better-canada/en/artificial-intelligence-and-data-act-aida-companion-document"
	canadaCodeURL     = "https://ised-isde.canada.ca/site/ised/en/voluntary-code-conduct-responsible-development-and-management-advanced-generative-ai-systems"
	canadaCIFARURL    = "https://cifar.ca/ai/ai-and-society/ai-safety-program/"
	canadaCSEURL      = "https://www.cyber.gc.ca/en/news-events/guidelines-secure-ai-system-development"
)

// canadaCIFARNews is the fixed list of CIFAR announcements.
var canadaCIFARNews = []string{
	"https://cifar.ca/cifarnews/2024/11/12/government-of-canada-announces-canadian-ai-safety-institute/",
	"https://cifar.ca/cifarnews/2024/12/12/nicolas-papernot-and-catherine-regis-appointed-co-directors-of-the-caisi-research-program-at-cifar/",
}

// Canada.ca (WET) classes of page chrome.
var canadaChromeClasses = []string{
	"wb-sec", "wb-share", "pagedetails", "datemod", "defeatured", "gcweb-menu",
	"wb-inv", "wb-hide", "wb-srch", "wb-lng", "wb-info",
}

var (
	canadaLayoutClasses  = []string{"breadcrumb", "header", "footer", "nav", "banner"}
	canadaHiddenHeadings = []string{"wb-inv", "wb-hide"}
	canadaSkipHeadings   = []string{"Language selection", "WxT Search form"}
	canadaSkipLinkTexts  = []string{"/Gouvernement du Canada", "Franaisfr"}
)

// Fallback containers of ISED pages, in order.
var (
	canadaMainFallbacks = []string{
		`main[role="main"]`,
		"div.mwsgeneric-base-html",
		"article",
		"div.field-item",
		"div.field-items",
		`div[property="content:encoded"]`,
		"div.content",
	}
	canadaBodyContainers = []string{
		"div.mwsbodytext",
		"div.mwsgeneric-base-html",
		"div.field-item",
		"div.field-items",
		`div[property="content:encoded"]`,
		"div.content",
	}
)

// Canada scrapes the Canadian AI Safety Institute pages on ISED, the
// CIFAR safety program and the CSE guidelines.
type Canada struct {
	site
}

// NewCanada creates the Canadian AISI adapter.
func NewCanada() *Canada {
	return &Canada{site: newSite("canada", "https://ised-isde.canada.ca", SlowDelay)}
}

// IsContentURL accepts CIFAR news articles.
func (c *Canada) IsContentURL(rawURL string) bool {
	return strings.Contains(rawURL, "cifar.ca/cifarnews")
}

// ScrapeHome scrapes the institute's ISED landing page.
func (c *Canada) ScrapeHome(ctx context.Context, s aisafety.Session) *aisafety.Record {
	return c.scrapeISED(ctx, s, canadaAISIURL)
}

// ScrapeAbout scrapes the CIFAR AI safety program page.
func (c *Canada) ScrapeAbout(ctx context.Context, s aisafety.Session) *aisafety.Record {
	return scrapeLinkedPage(ctx, s, canadaCIFARURL, "main", "article")
}

func (c *Canada) isedPage(rawURL string) func(context.Context, aisafety.Session) *aisafety.Record {
	return func(ctx context.Context, s aisafety.Session) *aisafety.Record {
		return c.scrapeISED(ctx, s, rawURL)
	}
}

func (c *Canada) scrapeCSE(ctx context.Context, s aisafety.Session) *aisafety.Record {
	return scrapeLinkedPage(ctx, s, canadaCSEURL, `main[role="main"]`)
}

// scrapeISED scrapes a Canada.ca page, dropping WET chrome.
func (c *Canada) scrapeISED(ctx context.Context, s aisafety.Session, rawURL string) *aisafety.Record {
	doc := fetchDocument(ctx, s, rawURL)
	if doc == nil {
		return nil
	}

	r := aisafety.NewPageRecord(rawURL, s.Now())
	r.Headings = []string{}
	r.Links = []aisafety.Link{}

	main := c.main(doc)
	if main == nil {
		missing(s, rawURL, "div#wb-main")
		return r
	}

	main.Find(headingElements).Each(func(_ int, h *goquery.Selection) {
		if classContainsAny(h, canadaHiddenHeadings) {
			return
		}
		text := Text(h)
		if text == "" || slices.Contains(canadaSkipHeadings, text) {
			return
		}
		r.Headings = append(r.Headings, text)
	})

	body := main
	for _, selector := range canadaBodyContainers {
		if found := main.Find(selector).First(); found.Length() > 0 && Text(found) != "" {
			body = found
			break
		}
	}
	for _, class := range canadaChromeClasses {
		body.Find("." + class).Remove()
	}

	b := NewContentBuilder(doc.Url, true)
	b.AddEach(body, blockElements+", div", func(el *goquery.Selection) bool {
		if classContainsAny(el, canadaChromeClasses) || classContainsAny(el, canadaLayoutClasses) {
			return true
		}
		return el.Is("div") && !hasOwnContent(el)
	})
	r.Content = b.String()

	main.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		if classContainsAny(a, canadaChromeClasses) {
			return
		}
		href, _ := a.Attr("href")
		text := Text(a)
		if href == "" || text == "" || containsAny(text, canadaSkipLinkTexts) {
			return
		}
		r.Links = append(r.Links, aisafety.Link{Text: text, Href: absoluteURL(doc.Url, href)})
	})
	return r
}

// main locates the content column: the WET main region when it has
// text, otherwise the first fallback container with text.
func (c *Canada) main(doc *goquery.Document) *goquery.Selection {
	if main := doc.Find("div#wb-main").First(); main.Length() > 0 {
		if area := first(main, "div#wb-cont", `div[role="main"]`, "div.container"); area.Length() > 0 {
			main = area
		}
		if Text(main) != "" {
			return main
		}
	}
	for _, selector := range canadaMainFallbacks {
		if found := doc.Find(selector).First(); found.Length() > 0 && Text(found) != "" {
			return found
		}
	}
	return nil
}

func (c *Canada) ScrapeContentPage(ctx context.Context, s aisafety.Session, rawURL string) *aisafety.Record {
	doc := claim(ctx, s, c.IsContentURL, rawURL)
	if doc == nil {
		return nil
	}

	main := first(doc.Selection, "main", "article")
	if main.Length() == 0 {
		missing(s, rawURL, "main")
		return nil
	}

	r := aisafety.NewContentRecord(rawURL, s.Now())
	r.Title = Text(main.Find("h1").First())
	if dt, ok := main.Find("time").First().Attr("datetime"); ok {
		r.SetDate(dt)
	}
	r.Headings = Headings(main, "h2, h3, h4, h5, h6")
	b := NewContentBuilder(doc.Url, true)
	b.AddEach(main, blockElements, nil)
	r.Content = b.String()
	r.Links = Links(main, doc.Url)
	return r
}

// DiscoverContentURLs returns the fixed CIFAR news list.
func (c *Canada) DiscoverContentURLs(context.Context, aisafety.Session) []string {
	return append([]string(nil), canadaCIFARNews...)
}

func (c *Canada) Sections() []aisafety.Section {
	return []aisafety.Section{
		{Name: "ised_aisi", Page: c.ScrapeHome},
		{Name: "ised_inoai", Page: c.isedPage(canadaINOAIURL)},
		{Name: "ised_strategy", Page: c.isedPage(canadaStrategyURL)},
		{Name: "ised_aida", Page: c.isedPage(canadaAIDAURL)},
		{Name: "ised_code", Page: c.isedPage(canadaCodeURL)},
		{Name: "cifar_ai_safety", Page: c.ScrapeAbout},
		{Name: "cifar_news", Discover: c.DiscoverContentURLs},
		{Name: "cse_guidelines", Page: c.scrapeCSE},
	}
}
