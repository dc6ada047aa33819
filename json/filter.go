package json

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/diogo-cruz/aisafety"
)

// Cutoff dates. Records dated on a cutoff are kept.
var (
	AnthropicCutoff = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	DeepMindCutoff  = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
)

// Source is a publisher whose persisted output can be filtered.
type Source struct {
	// Name is the source identifier accepted by LookupSource.
	Name string

	// Input is the default persisted filename for the source.
	Input string

	apply func(doc *Object) []string
}

var sources = []Source{
	{Name: "anthropic", Input: "www_anthropic_com_data.json", apply: filterAnthropic},
	{Name: "deepmind", Input: "deepmind_google_data.json", apply: filterDeepMind},
	{Name: "cser", Input: "www_cser_ac_uk_data.json", apply: filterCSER},
	{Name: "chai", Input: "humancompatible_ai_data.json", apply: filterCHAI},
}

// SourceNames returns the filterable source names.
func SourceNames() []string {
	names := make([]string, len(sources))
	for i, s := range sources {
		names[i] = s.Name
	}
	return names
}

// LookupSource returns the source named name, case-insensitively.
// Unknown names are reported as EINVALID.
func LookupSource(name string) (Source, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	i := slices.IndexFunc(sources, func(s Source) bool { return s.Name == name })
	if i < 0 {
		return Source{}, aisafety.Errorf(aisafety.EINVALID,
			"unsupported source %q: use one of %s", name, strings.Join(SourceNames(), ", "))
	}
	return sources[i], nil
}

// Apply filters doc in place and returns a summary line per step.
func (s Source) Apply(doc *Object) []string {
	return s.apply(doc)
}

// FilteredPath returns "<stem>_filtered.json" for the input path.
func FilteredPath(input string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + "_filtered.json"
}

// FilterFile reads input, applies the source's rules and writes the
// result to output. Empty input and output default to the source's
// persisted filename and its filtered sibling. Returns the output path
// and the summary lines.
func (s Source) FilterFile(input, output string) (string, []string, error) {
	if input == "" {
		input = s.Input
	}
	if output == "" {
		output = FilteredPath(input)
	}

	v, err := ReadFile(input)
	if err != nil {
		return "", nil, err
	}
	doc, ok := v.(*Object)
	if !ok {
		return "", nil, aisafety.Errorf(aisafety.EINVALID, "%s: top-level value is not an object", input)
	}

	summary := s.Apply(doc)
	if err := WriteFile(output, doc); err != nil {
		return "", nil, fmt.Errorf("write %s: %w", output, err)
	}
	return output, summary, nil
}

func filterAnthropic(doc *Object) []string {
	keep := func(post *Object) bool {
		content, _ := post.Get("content")
		text, _ := content.(string)
		if text == "" {
			return false
		}
		date, err := aisafety.FindDate(text)
		return err == nil && !date.Before(AnthropicCutoff)
	}

	var summary []string
	for _, name := range []string{"research_posts", "news_posts"} {
		if n, ok := keepRecords(doc, name, keep, "links", "timestamp"); ok {
			summary = append(summary, fmt.Sprintf("kept %d %s from %s onwards", n, name, AnthropicCutoff.Format("2006-01-02")))
		}
	}
	return summary
}

func filterDeepMind(doc *Object) []string {
	keep := func(pub *Object) bool {
		raw, _ := pub.Get("date")
		s, _ := raw.(string)
		date, err := aisafety.ParseDate(s)
		return err == nil && !date.Before(DeepMindCutoff)
	}

	var summary []string
	if n, ok := keepRecords(doc, "publications", keep, "links", "timestamp"); ok {
		summary = append(summary, fmt.Sprintf("kept %d publications from %s onwards", n, DeepMindCutoff.Format("2006-01-02")))
	}
	for _, name := range []string{"home", "about"} {
		if stripPage(doc, name, "links", "timestamp") {
			summary = append(summary, "removed links from "+name)
		}
	}
	return summary
}

func filterCSER(doc *Object) []string {
	var summary []string
	for _, name := range []string{"home", "about"} {
		if stripPage(doc, name, "links", "timestamp") {
			summary = append(summary, "removed links from "+name)
		}
	}
	if n, ok := stripList(doc, "resources", "links", "timestamp"); ok {
		summary = append(summary, fmt.Sprintf("removed links from %d resources", n))
	}
	return summary
}

func filterCHAI(doc *Object) []string {
	var summary []string
	for _, name := range []string{"home", "about"} {
		if stripPage(doc, name, "timestamp") {
			summary = append(summary, "cleaned "+name)
		}
	}

	v, _ := doc.Get("blog_posts")
	posts, ok := v.([]any)
	if !ok {
		return summary
	}
	for _, p := range posts {
		post, ok := p.(*Object)
		if !ok {
			continue
		}
		if areas, ok := post.Get("research_areas"); ok {
			list, _ := areas.([]any)
			for _, a := range list {
				if area, ok := a.(*Object); ok {
					area.Delete("papers")
				}
			}
		}
		post.Delete("timestamp")
	}
	return append(summary, fmt.Sprintf("cleaned %d blog posts", len(posts)))
}

// keepRecords replaces the list under name with the objects accepted by
// keep, each stripped of keys. Reports the number kept and whether the
// list was present.
func keepRecords(doc *Object, name string, keep func(*Object) bool, keys ...string) (int, bool) {
	v, ok := doc.Get(name)
	if !ok {
		return 0, false
	}
	list, _ := v.([]any)

	kept := []any{}
	for _, item := range list {
		rec, ok := item.(*Object)
		if !ok || !keep(rec) {
			continue
		}
		for _, k := range keys {
			rec.Delete(k)
		}
		kept = append(kept, rec)
	}
	doc.Set(name, kept)
	return len(kept), true
}

// stripPage removes keys from the object under name. Reports false when
// the page is absent or null.
func stripPage(doc *Object, name string, keys ...string) bool {
	v, _ := doc.Get(name)
	page, ok := v.(*Object)
	if !ok || page.Len() == 0 {
		return false
	}
	for _, k := range keys {
		page.Delete(k)
	}
	return true
}

// stripList removes keys from every object in the list under name.
func stripList(doc *Object, name string, keys ...string) (int, bool) {
	v, ok := doc.Get(name)
	if !ok {
		return 0, false
	}
	list, _ := v.([]any)
	for _, item := range list {
		if rec, ok := item.(*Object); ok {
			for _, k := range keys {
				rec.Delete(k)
			}
		}
	}
	return len(list), true
}
