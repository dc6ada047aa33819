package main_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/diogo-cruz/aisafety"
	main "github.com/diogo-cruz/aisafety/cmd/aisafety"
	"github.com/diogo-cruz/aisafety/goquery"
	"github.com/diogo-cruz/aisafety/mock"
	"github.com/juju/clock/testclock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var runTime = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

// metrPages is a minimal metr.org with one post.
var metrPages = map[string]string{
	"https://metr.org":       `<div class="content"><p>Home.</p></div>`,
	"https://metr.org/about": `<div class="content"><p>About.</p></div>`,
	"https://metr.org/blog":  `<a href="/blog/2024-post">Post</a>`,
	"https://metr.org/blog/2024-post": `<script type="application/ld+json">{"headline":"Post","datePublished":"2024-05-01"}</script>
		<div class="content"><p>Body.</p></div>`,
}

func pageFetcher(pages map[string]string) *mock.Fetcher {
	return &mock.Fetcher{
		FetchFn: func(ctx context.Context, url string) (string, error) {
			body, ok := pages[url]
			if !ok {
				return "", aisafety.Errorf(aisafety.ENOTFOUND, "HTTP 404 for %s", url)
			}
			return body, nil
		},
	}
}

func newMain(adapters ...aisafety.Adapter) *main.Main {
	registry := goquery.NewRegistry()
	for _, a := range adapters {
		registry.Register(a)
	}
	return &main.Main{
		Fetcher:  pageFetcher(metrPages),
		Registry: registry,
		Clock:    testclock.NewClock(runTime),
	}
}

// brokenAdapter is a publisher with a single empty home section.
func brokenAdapter() *mock.Adapter {
	return &mock.Adapter{
		NameFn:    func() string { return "broken" },
		BaseURLFn: func() string { return "https://broken.example" },
		DelayFn:   func() time.Duration { return 0 },
		SectionsFn: func() []aisafety.Section {
			return []aisafety.Section{{
				Name: "home",
				Page: func(ctx context.Context, s aisafety.Session) *aisafety.Record { return nil },
			}}
		},
	}
}

func TestMain_Run_Help(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer

	err := main.NewMain().Run(context.Background(), []string{"--help"}, &stdout, &stderr)

	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "aisafety")
	assert.Contains(t, stdout.String(), "--output-dir")
}

func TestMain_Run_List(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer
	m := &main.Main{Fetcher: pageFetcher(nil)}

	err := m.Run(context.Background(), []string{"--list"}, &stdout, &stderr)

	require.NoError(t, err)
	for _, name := range goquery.DefaultRegistry().List() {
		assert.Contains(t, stdout.String(), name)
	}
	assert.Contains(t, stdout.String(), "https://www.nist.gov/aisi")
}

func TestMain_Run_Scrape(t *testing.T) {
	t.Parallel()

	t.Run("writes one document per publisher", func(t *testing.T) {
		t.Parallel()

		// Given a reachable publisher
		dir := t.TempDir()
		var stdout, stderr bytes.Buffer

		// When it is scraped by name
		err := newMain(goquery.NewMetr()).Run(context.Background(),
			[]string{"metr", "--output-dir", dir, "--delay", "1ns"}, &stdout, &stderr)

		// Then its document is written under the derived filename
		require.NoError(t, err)
		data, err := os.ReadFile(filepath.Join(dir, "metr_org_data.json"))
		require.NoError(t, err)
		assert.Contains(t, string(data), `"publisher": "metr"`)
		assert.Contains(t, string(data), `"title": "Post"`)
		assert.Contains(t, stdout.String(), "metr: saved")
	})

	t.Run("resolves publishers by url", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		var stdout, stderr bytes.Buffer

		err := newMain(goquery.NewMetr()).Run(context.Background(),
			[]string{"https://metr.org/blog", "-o", dir, "--delay", "1ns"}, &stdout, &stderr)

		require.NoError(t, err)
		assert.FileExists(t, filepath.Join(dir, "metr_org_data.json"))
	})

	t.Run("unknown publishers list the supported ones", func(t *testing.T) {
		t.Parallel()

		var stdout, stderr bytes.Buffer

		err := newMain(goquery.NewMetr()).Run(context.Background(),
			[]string{"unknown.example"}, &stdout, &stderr)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported publisher")
		assert.Contains(t, err.Error(), "supported publishers: metr")
	})

	t.Run("partial failure still succeeds", func(t *testing.T) {
		t.Parallel()

		// Given a publisher whose output path is occupied by a directory
		dir := t.TempDir()
		require.NoError(t, os.Mkdir(filepath.Join(dir, "broken_example_data.json"), 0o755))
		var stdout, stderr bytes.Buffer

		// When every publisher is scraped
		err := newMain(goquery.NewMetr(), brokenAdapter()).Run(context.Background(),
			[]string{"-o", dir, "--delay", "1ns"}, &stdout, &stderr)

		// Then the healthy publisher is saved and the failure reported
		require.NoError(t, err)
		assert.FileExists(t, filepath.Join(dir, "metr_org_data.json"))
		assert.Contains(t, stderr.String(), "1 of 2 publishers failed")
	})

	t.Run("fails when every publisher fails", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		require.NoError(t, os.Mkdir(filepath.Join(dir, "broken_example_data.json"), 0o755))
		var stdout, stderr bytes.Buffer

		err := newMain(brokenAdapter()).Run(context.Background(),
			[]string{"-o", dir}, &stdout, &stderr)

		assert.Error(t, err)
	})

	t.Run("rejects invalid flags before scraping", func(t *testing.T) {
		t.Parallel()

		var stdout, stderr bytes.Buffer

		err := newMain(goquery.NewMetr()).Run(context.Background(),
			[]string{"metr", "--retries", "99"}, &stdout, &stderr)

		assert.Error(t, err)
		assert.Empty(t, stdout.String())
	})
}

func TestMain_Run_Discover(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer

	err := newMain(goquery.NewMetr()).Run(context.Background(),
		[]string{"metr", "--discover", "--delay", "1ns"}, &stdout, &stderr)

	require.NoError(t, err)
	assert.Equal(t, "https://metr.org/blog/2024-post\n", stdout.String())
}

func TestMain_Run_ConfigFile(t *testing.T) {
	t.Parallel()

	// Given a config file choosing the output directory
	dir := t.TempDir()
	outDir := filepath.Join(dir, "out")
	cfgPath := filepath.Join(dir, "aisafety.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("output_dir: "+outDir+"\ndelay: 1ns\n"), 0o644))
	var stdout, stderr bytes.Buffer

	// When the config is passed by flag
	err := newMain(goquery.NewMetr()).Run(context.Background(),
		[]string{"metr", "--config", cfgPath}, &stdout, &stderr)

	// Then its settings apply
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(outDir, "metr_org_data.json"))
}

func TestMain_Run_FlagsOverrideConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("a zero delay flag replaces the file's delay", func(t *testing.T) {
		t.Parallel()

		// Given a config file with an hour-long delay
		dir := t.TempDir()
		cfgPath := filepath.Join(dir, "aisafety.yaml")
		require.NoError(t, os.WriteFile(cfgPath, []byte("output_dir: "+dir+"\ndelay: 1h\n"), 0o644))
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		var stdout, stderr bytes.Buffer

		// When the delay is set back to zero on the command line
		err := newMain(goquery.NewMetr()).Run(ctx,
			[]string{"metr", "--config", cfgPath, "--delay", "0s"}, &stdout, &stderr)

		// Then the publisher's own delay applies and the post is scraped
		require.NoError(t, err)
		data, err := os.ReadFile(filepath.Join(dir, "metr_org_data.json"))
		require.NoError(t, err)
		assert.Contains(t, string(data), `"title": "Post"`)
	})

	t.Run("a zero retries flag replaces the file's retries", func(t *testing.T) {
		t.Parallel()

		// Given a config file with retries and a post that fails transiently
		dir := t.TempDir()
		cfgPath := filepath.Join(dir, "aisafety.yaml")
		require.NoError(t, os.WriteFile(cfgPath, []byte("output_dir: "+dir+"\nretries: 3\n"), 0o644))
		const postURL = "https://metr.org/blog/2024-post"
		var mu sync.Mutex
		postFetches := 0
		m := newMain(goquery.NewMetr())
		m.Fetcher = &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (string, error) {
				if url == postURL {
					mu.Lock()
					postFetches++
					mu.Unlock()
					return "", aisafety.Errorf(aisafety.EINTERNAL, "HTTP 503 for %s", url)
				}
				return metrPages[url], nil
			},
		}
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		var stdout, stderr bytes.Buffer

		// When retries are switched off on the command line
		err := m.Run(ctx,
			[]string{"metr", "--config", cfgPath, "--retries", "0", "--delay", "1ns"}, &stdout, &stderr)

		// Then the failed post is tried once and skipped
		require.NoError(t, err)
		mu.Lock()
		defer mu.Unlock()
		assert.Equal(t, 1, postFetches)
		assert.FileExists(t, filepath.Join(dir, "metr_org_data.json"))
	})
}
