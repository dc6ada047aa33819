package goquery

import (
	"context"

	"github.com/diogo-cruz/aisafety"
)

var _ aisafety.Adapter = (*Anthropic)(nil)

// anthropicResearch lists the research post slugs. The research index
// is rendered client-side and cannot be walked.
var anthropicResearch = []string{
	"building-effective-agents",
	"alignment-faking",
	"clio",
	"statistical-approach-to-model-evals",
	"swe-bench-sonnet",
	"evaluating-feature-steering",
	"developing-computer-use",
	"sabotage-evaluations",
	"features-as-classifiers",
	"circuits-updates-sept-2024",
	"circuits-updates-august-2024",
	"circuits-updates-july-2024",
	"circuits-updates-june-2024",
	"reward-tampering",
	"engineering-challenges-interpretability",
	"claude-character",
	"testing-and-mitigating-elections-related-risks",
	"mapping-mind-language-model",
	"circuits-updates-april-2024",
	"probes-catch-sleeper-agents",
	"measuring-model-persuasiveness",
	"many-shot-jailbreaking",
	"transformer-circuits",
	"sleeper-agents-training-deceptive-llms-that-persist-through-safety-training",
	"evaluating-and-mitigating-discrimination-in-language-model-decisions",
	"specific-versus-general-principles-for-constitutional-ai",
	"towards-understanding-sycophancy-in-language-models",
	"collective-constitutional-ai-aligning-a-language-model-with-public-input",
	"decomposing-language-models-into-understandable-components",
	"towards-monosemanticity-decomposing-language-models-with-dictionary-learning",
	"evaluating-ai-systems",
	"influence-functions",
	"studying-large-language-model-generalization-with-influence-functions",
	"measuring-faithfulness-in-chain-of-thought-reasoning",
	"question-decomposition-improves-the-faithfulness-of-model-generated-reasoning",
	"towards-measuring-the-representation-of-subjective-global-opinions-in-language-models",
	"circuits-updates-may-2023",
	"interpretability-dreams",
	"distributed-representations-composition-superposition",
	"privileged-bases-in-the-transformer-residual-stream",
	"the-capacity-for-moral-self-correction-in-large-language-models",
	"superposition-memorization-and-double-descent",
	"discovering-language-model-behaviors-with-model-written-evaluations",
	"constitutional-ai-harmlessness-from-ai-feedback",
	"measuring-progress-on-scalable-oversight-for-large-language-models",
	"toy-models-of-superposition",
	"red-teaming-language-models-to-reduce-harms-methods-scaling-behaviors-and-lessons-learned",
	"language-models-mostly-know-what-they-know",
	"softmax-linear-units",
	"scaling-laws-and-interpretability-of-learning-from-repeated-data",
	"training-a-helpful-and-harmless-assistant-with-reinforcement-learning-from-human-feedback",
	"in-context-learning-and-induction-heads",
	"predictability-and-surprise-in-large-generative-models",
	"a-mathematical-framework-for-transformer-circuits",
	"a-general-language-assistant-as-a-laboratory-for-alignment",
}

// Anthropic scrapes anthropic.com research and news posts.
type Anthropic struct {
	site
}

// NewAnthropic creates the anthropic.com adapter.
func NewAnthropic() *Anthropic {
	return &Anthropic{site: newSite("anthropic", "https://www.anthropic.com", DefaultDelay)}
}

// IsContentURL accepts on-site research/<slug> and news/<slug> paths.
func (a *Anthropic) IsContentURL(rawURL string) bool {
	if _, ok := a.slugBelow(rawURL, "/research"); ok {
		return true
	}
	_, ok := a.slugBelow(rawURL, "/news")
	return ok
}

func (a *Anthropic) ScrapeHome(ctx context.Context, s aisafety.Session) *aisafety.Record {
	return scrapePage(ctx, s, a.baseURL, "p, div, section", "main")
}

// ScrapeAbout returns nil; Anthropic has no about page.
func (a *Anthropic) ScrapeAbout(context.Context, aisafety.Session) *aisafety.Record {
	return nil
}

func (a *Anthropic) ScrapeContentPage(ctx context.Context, s aisafety.Session, rawURL string) *aisafety.Record {
	doc := claim(ctx, s, a.IsContentURL, rawURL)
	if doc == nil {
		return nil
	}

	r := aisafety.NewContentRecord(rawURL, s.Now())
	r.Title = Text(doc.Find("h1, h2").First())
	if t := doc.Find("time").First(); t.Length() > 0 {
		date, ok := t.Attr("datetime")
		if !ok {
			date = Text(t)
		}
		r.SetDate(date)
	}

	main := doc.Find("main").First()
	if main.Length() == 0 {
		missing(s, rawURL, "main")
		return nil
	}
	r.Headings = Headings(main, "h2, h3, h4, h5, h6")

	article := main
	if found := main.Find("article").First(); found.Length() > 0 {
		article = found
	}
	b := NewContentBuilder(doc.Url, true)
	b.AddEach(article, blockElements+", div", isChrome)
	r.Content = b.String()
	r.Links = Links(article, doc.Url)
	return r
}

func (a *Anthropic) researchURLs(context.Context, aisafety.Session) []string {
	urls := make([]string, len(anthropicResearch))
	for i, slug := range anthropicResearch {
		urls[i] = a.url("/research/" + slug)
	}
	return urls
}

// newsURLs collects post links from the /news listing.
func (a *Anthropic) newsURLs(ctx context.Context, s aisafety.Session) []string {
	newsURL := a.url("/news")
	doc := fetchDocument(ctx, s, newsURL)
	if doc == nil {
		return nil
	}
	return collectURLs(doc.Find("main").First(), "a[href]", a.base, func(u string) bool {
		_, ok := a.slugBelow(u, "/news")
		return ok
	})
}

// DiscoverContentURLs returns the research posts followed by the news
// posts.
func (a *Anthropic) DiscoverContentURLs(ctx context.Context, s aisafety.Session) []string {
	return append(a.researchURLs(ctx, s), a.newsURLs(ctx, s)...)
}

func (a *Anthropic) Sections() []aisafety.Section {
	return []aisafety.Section{
		{Name: "home", Page: a.ScrapeHome},
		{Name: "research_posts", Discover: a.researchURLs},
		{Name: "news_posts", Discover: a.newsURLs},
	}
}
