package goquery

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/diogo-cruz/aisafety"
	"github.com/diogo-cruz/aisafety/crawl"
)

var _ aisafety.Adapter = (*Lakera)(nil)

// lakeraContainers are tried in order; the first with substantial text
// holds the post body.
var lakeraContainers = []string{
	"div.text-rich-text.w-richtext",
	"div.blog-post_rich-text.w-richtext",
	"div.rich-text-block.w-richtext",
	"div.blog_content-wrapper",
	"article",
	"main",
}

// lakeraMinBodyLength is the shortest text accepted as a post body.
const lakeraMinBodyLength = 100

// lakeraChromeClasses mark wrappers whose children are post chrome.
var lakeraChromeClasses = []string{
	"blog_author-wrapper", "blog-header", "cookie", "banner", "nav", "header",
	"footer", "modal", "blog_category-wrapper", "blog_date-wrapper", "blog_read-time",
}

// lakeraPromotions are phrases of promotional paragraphs.
var lakeraPromotions = []string{
	"subscribe to our newsletter",
	"sign up for updates",
	"download our whitepaper",
	"contact us",
	"book a demo",
}

// Lakera scrapes lakera.ai. The blog listing is a Webflow collection
// paginated through the ?665a46a9_page query parameter.
type Lakera struct {
	site
}

// NewLakera creates the lakera.ai adapter.
func NewLakera() *Lakera {
	return &Lakera{site: newSite("lakera", "https://www.lakera.ai", SlowDelay)}
}

// IsContentURL accepts /blog/<slug> outside category and author pages.
func (l *Lakera) IsContentURL(rawURL string) bool {
	slug, ok := l.slugBelow(rawURL, "/blog")
	if !ok {
		return false
	}
	return !strings.HasPrefix(slug, "category/") && !strings.HasPrefix(slug, "author/")
}

func (l *Lakera) ScrapeHome(ctx context.Context, s aisafety.Session) *aisafety.Record {
	return l.scrapePage(ctx, s, l.baseURL)
}

func (l *Lakera) ScrapeAbout(ctx context.Context, s aisafety.Session) *aisafety.Record {
	return l.scrapePage(ctx, s, l.url("/about"))
}

func (l *Lakera) scrapePage(ctx context.Context, s aisafety.Session, rawURL string) *aisafety.Record {
	doc := fetchDocument(ctx, s, rawURL)
	if doc == nil {
		return nil
	}
	main := doc.Find("main").First()
	if main.Length() == 0 {
		missing(s, rawURL, "main")
	}
	return pageRecord(s, doc, rawURL, main, blockElements+", div", func(el *goquery.Selection) bool {
		return HasAnyClass(el, "navbar10_component", "footer_component")
	})
}

func (l *Lakera) ScrapeContentPage(ctx context.Context, s aisafety.Session, rawURL string) *aisafety.Record {
	doc := claim(ctx, s, l.IsContentURL, rawURL)
	if doc == nil {
		return nil
	}

	r := aisafety.NewContentRecord(rawURL, s.Now())
	if title := Text(doc.Find("h1.blog_title").First()); title != "" {
		r.Title = title
	} else if title := doc.Find("title").First(); title.Length() > 0 {
		r.Title = strings.TrimSpace(strings.Split(Text(title), "|")[0])
	}

	var author, category, readingTime any
	if info := doc.Find("div.blog_author-wrapper").First(); info.Length() > 0 {
		if a := info.Find("a.blog_author-link").First(); a.Length() > 0 {
			author = Text(a)
		}
		if d := info.Find("div#original-date").First(); d.Length() > 0 {
			r.SetDate(Text(d))
		}
	}
	if rt := doc.Find("div.blog_read-time").First(); rt.Length() > 0 {
		readingTime = Text(rt)
	}
	if c := doc.Find("a.blog_category-link").First(); c.Length() > 0 {
		category = Text(c)
	}

	r.Headings = []string{}
	if body := l.body(doc); body != nil {
		seen := make(map[string]struct{})
		body.Find("h2, h3, h4, h5, h6").Each(func(_ int, h *goquery.Selection) {
			text := Text(h)
			if _, ok := seen[text]; ok || text == "" {
				return
			}
			seen[text] = struct{}{}
			r.Headings = append(r.Headings, text)
		})

		b := NewContentBuilder(doc.Url, true)
		body.Find(blockElements).Each(func(_ int, el *goquery.Selection) {
			if l.isChrome(el) {
				return
			}
			text := Text(el)
			if text == "" || l.isPromotion(text) {
				return
			}
			if el.Is("ul, ol") {
				b.AddText(l.renderList(el, doc.Url))
				return
			}
			b.Add(el)
		})
		r.Content = b.String()
	}

	r.Set("author", author)
	r.Set("category", category)
	r.Set("reading_time", readingTime)
	return r
}

// body returns the first candidate container with substantial text.
func (l *Lakera) body(doc *goquery.Document) *goquery.Selection {
	for _, selector := range lakeraContainers {
		c := doc.Find(selector).First()
		if c.Length() > 0 && utf8.RuneCountInString(Text(c)) > lakeraMinBodyLength {
			return c
		}
	}
	return nil
}

func (l *Lakera) isChrome(el *goquery.Selection) bool {
	parent := el.Parent()
	for _, fragment := range lakeraChromeClasses {
		if ClassContains(parent, fragment) {
			return true
		}
	}
	return false
}

func (l *Lakera) isPromotion(text string) bool {
	text = strings.ToLower(text)
	for _, p := range lakeraPromotions {
		if strings.Contains(text, p) {
			return true
		}
	}
	return false
}

// renderList renders each item with its inline links preserved.
func (l *Lakera) renderList(list *goquery.Selection, base *url.URL) string {
	var items []string
	list.Find("li").Each(func(_ int, li *goquery.Selection) {
		if text := Render(li, base, true); text != "" {
			items = append(items, "- "+text)
		}
	})
	return strings.Join(items, "\n")
}

// DiscoverContentURLs walks the paginated /blog listing.
func (l *Lakera) DiscoverContentURLs(ctx context.Context, s aisafety.Session) []string {
	blogURL := l.url("/blog")
	return crawl.Paginate(ctx, s, blogURL, func(ctx context.Context, pageURL string, page int) (crawl.Listing, bool) {
		doc := fetchDocument(ctx, s, pageURL)
		if doc == nil {
			return crawl.Listing{}, false
		}
		var listing crawl.Listing
		doc.Find(`div.w-dyn-item[role="listitem"]`).Each(func(_ int, item *goquery.Selection) {
			href, _ := item.Find("a.blog_main-title-link").First().Attr("href")
			if u := resolveURL(l.base, href); u != "" && l.IsContentURL(u) {
				listing.Items = append(listing.Items, u)
			}
		})
		if doc.Find(`a[aria-label="Next Page"]`).Length() > 0 {
			listing.Next = fmt.Sprintf("%s?665a46a9_page=%d", blogURL, page+1)
		}
		return listing, true
	})
}

func (l *Lakera) Sections() []aisafety.Section {
	return []aisafety.Section{
		{Name: "home", Page: l.ScrapeHome},
		{Name: "about", Page: l.ScrapeAbout},
		{Name: "blog_posts", Discover: l.DiscoverContentURLs},
	}
}
