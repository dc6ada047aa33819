package goquery_test

import (
	"testing"

	pq "github.com/PuerkitoBio/goquery"
	"github.com/diogo-cruz/aisafety"
	"github.com/diogo-cruz/aisafety/goquery"
	"github.com/stretchr/testify/assert"
)

func TestContentBuilder(t *testing.T) {
	t.Parallel()

	base := mustParse(t, "https://x.org/post")

	t.Run("joins fragments with blank lines in document order", func(t *testing.T) {
		t.Parallel()

		container := find(t, `<article><p>One</p><ul><li>a</li></ul><p>Two</p></article>`, "article")

		b := goquery.NewContentBuilder(base, true)
		b.AddEach(container, "p, ul", nil)

		assert.Equal(t, "One\n\n- a\n\nTwo", b.String())
		assert.Equal(t, 3, b.Len())
	})

	t.Run("drops empty and repeated fragments", func(t *testing.T) {
		t.Parallel()

		// Given a container repeating a paragraph and holding an empty one
		container := find(t, `<div class="c"><p>Same</p><p>  </p><p>Same</p><p>Other</p></div>`, "div.c")

		// When every paragraph is added
		b := goquery.NewContentBuilder(base, true)
		b.AddEach(container, "p", nil)

		// Then each text appears once
		assert.Equal(t, "Same\n\nOther", b.String())
	})

	t.Run("skips elements rejected by the skip function", func(t *testing.T) {
		t.Parallel()

		container := find(t, `<main><p class="byline">By X</p><p>Body</p></main>`, "main")

		b := goquery.NewContentBuilder(base, true)
		b.AddEach(container, "p", func(el *pq.Selection) bool {
			return el.HasClass("byline")
		})

		assert.Equal(t, "Body", b.String())
	})

	t.Run("deduplicates pre-rendered text against rendered elements", func(t *testing.T) {
		t.Parallel()

		container := find(t, `<main><p>Intro</p></main>`, "main")

		b := goquery.NewContentBuilder(base, true)
		assert.True(t, b.AddText("  Intro "))
		b.AddEach(container, "p", nil)
		assert.False(t, b.AddText(""))

		assert.Equal(t, "Intro", b.String())
	})

	t.Run("renders links when resolution is enabled", func(t *testing.T) {
		t.Parallel()

		container := find(t, `<main><p>Read <a href="/paper">this</a></p></main>`, "main")

		b := goquery.NewContentBuilder(base, true)
		b.AddEach(container, "p", nil)

		assert.Equal(t, "Read [this](https://x.org/paper)", b.String())
	})

	t.Run("is empty when nothing was added", func(t *testing.T) {
		t.Parallel()

		b := goquery.NewContentBuilder(base, false)

		assert.Empty(t, b.String())
		assert.Zero(t, b.Len())
	})
}

func TestHeadings(t *testing.T) {
	t.Parallel()

	t.Run("returns non-empty headings in document order", func(t *testing.T) {
		t.Parallel()

		body := find(t, `<body><h1>Title</h1><h3> </h3><h2>Part <em>one</em></h2></body>`, "body")

		assert.Equal(t, []string{"Title", "Part one"}, goquery.Headings(body, "h1, h2, h3"))
	})

	t.Run("returns an empty slice when there are none", func(t *testing.T) {
		t.Parallel()

		body := find(t, `<body><p>x</p></body>`, "body")

		got := goquery.Headings(body, "h1")
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})
}

func TestHasAnyClass(t *testing.T) {
	t.Parallel()

	sel := find(t, `<div class="post-header wide">x</div>`, "div")

	assert.True(t, goquery.HasAnyClass(sel, "caption", "post-header"))
	assert.False(t, goquery.HasAnyClass(sel, "post"))
}

func TestClassContains(t *testing.T) {
	t.Parallel()

	sel := find(t, `<div class="blog_author-wrapper">x</div>`, "div")

	assert.True(t, goquery.ClassContains(sel, "author"))
	assert.False(t, goquery.ClassContains(sel, "footer"))
}

func TestLinks(t *testing.T) {
	t.Parallel()

	t.Run("resolves hrefs against the base", func(t *testing.T) {
		t.Parallel()

		sel := find(t, `<div><a href="/a">A</a><a href="https://y.org/b"> B </a><a>none</a><a href=" ">blank</a></div>`, "div")

		got := goquery.Links(sel, mustParse(t, "https://x.org/post/1"))

		assert.Equal(t, []aisafety.Link{
			{Text: "A", Href: "https://x.org/a"},
			{Text: "B", Href: "https://y.org/b"},
		}, got)
	})

	t.Run("returns an empty slice when there are no links", func(t *testing.T) {
		t.Parallel()

		sel := find(t, `<div>text</div>`, "div")

		got := goquery.Links(sel, mustParse(t, "https://x.org"))
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})
}
