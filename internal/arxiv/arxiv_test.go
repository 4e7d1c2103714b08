package arxiv

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const atomFixture = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom" xmlns:arxiv="http://arxiv.org/schemas/atom">
  <title>ArXiv Query Results</title>
  <entry>
    <id>http://arxiv.org/abs/2508.10001v1</id>
    <title>Scaling
  Generative   Retrieval</title>
    <summary>We study
  generative retrieval at scale.</summary>
    <published>2026-08-29T10:00:00Z</published>
    <updated>2026-08-29T10:00:00Z</updated>
    <author><name>Ada Lovelace</name></author>
    <author><name>Grace Hopper</name></author>
    <category term="cs.IR"/>
    <category term="cs.CL"/>
    <link href="http://arxiv.org/abs/2508.10001v1" rel="alternate" type="text/html"/>
    <link title="pdf" href="http://arxiv.org/pdf/2508.10001v1" rel="related" type="application/pdf"/>
    <arxiv:comment>Accepted at RecSys 2026</arxiv:comment>
  </entry>
  <entry>
    <id>http://arxiv.org/abs/2508.00042v2</id>
    <title>An Older Paper</title>
    <summary>Predates the window.</summary>
    <published>2026-08-20T09:00:00Z</published>
    <updated>2026-08-20T09:00:00Z</updated>
    <author><name>Alan Turing</name></author>
    <category term="cs.IR"/>
    <link href="http://arxiv.org/abs/2508.00042v2" rel="alternate" type="text/html"/>
  </entry>
</feed>`

func testWindow() (time.Time, time.Time) {
	return time.Date(2026, time.August, 25, 0, 0, 0, 0, time.UTC),
		time.Date(2026, time.August, 30, 0, 0, 0, 0, time.UTC)
}

func newTestClient(serverURL string, queries []string, httpClient *http.Client) *Client {
	c := NewClient(queries, httpClient)
	c.baseURL = serverURL
	c.queryDelay = 0
	return c
}

func TestFetchParsesEntriesAndFiltersWindow(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("sortBy") != "submittedDate" {
			t.Errorf("expected sortBy=submittedDate, got %q", r.URL.Query().Get("sortBy"))
		}
		_, _ = w.Write([]byte(atomFixture))
	}))
	defer server.Close()

	c := newTestClient(server.URL, []string{`all:"generative retrieval"`}, server.Client())

	start, end := testWindow()
	papers, err := c.Fetch(context.Background(), start, end)
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}

	if len(papers) != 1 {
		t.Fatalf("expected 1 paper inside the window, got %d", len(papers))
	}

	p := papers[0]
	if p.ID != "2508.10001v1" {
		t.Fatalf("unexpected id: %s", p.ID)
	}
	if p.Title != "Scaling Generative Retrieval" {
		t.Fatalf("unexpected title: %q", p.Title)
	}
	if p.Abstract != "We study generative retrieval at scale." {
		t.Fatalf("unexpected abstract: %q", p.Abstract)
	}
	if len(p.Authors) != 2 || p.Authors[0] != "Ada Lovelace" {
		t.Fatalf("unexpected authors: %v", p.Authors)
	}
	if len(p.Categories) != 2 || p.Categories[0] != "cs.IR" {
		t.Fatalf("unexpected categories: %v", p.Categories)
	}
	if p.PDFURL != "http://arxiv.org/pdf/2508.10001v1" {
		t.Fatalf("unexpected pdf url: %s", p.PDFURL)
	}
	if p.Comment != "Accepted at RecSys 2026" {
		t.Fatalf("unexpected comment: %q", p.Comment)
	}
	if p.Source != "arxiv" {
		t.Fatalf("unexpected source: %s", p.Source)
	}
}

func TestFetchDeduplicatesAcrossQueries(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(atomFixture))
	}))
	defer server.Close()

	c := newTestClient(server.URL, []string{"first query", "second query"}, server.Client())

	start, end := testWindow()
	papers, err := c.Fetch(context.Background(), start, end)
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}

	if len(papers) != 1 {
		t.Fatalf("expected 1 unique paper across queries, got %d", len(papers))
	}
	if papers[0].Query != "first query" {
		t.Fatalf("expected first query to keep attribution, got %q", papers[0].Query)
	}
}

func TestFetchSkipsFailingQuery(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("search_query") == "boom" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(atomFixture))
	}))
	defer server.Close()

	c := newTestClient(server.URL, []string{"boom", "fine"}, server.Client())

	start, end := testWindow()
	papers, err := c.Fetch(context.Background(), start, end)
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}
	if len(papers) != 1 {
		t.Fatalf("expected surviving query to produce 1 paper, got %d", len(papers))
	}
}

func TestFetchAllQueriesFailing(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	c := newTestClient(server.URL, []string{"a", "b"}, server.Client())

	start, end := testWindow()
	if _, err := c.Fetch(context.Background(), start, end); err == nil {
		t.Fatal("expected error when every query fails")
	}
}

func TestCleanText(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   string
		want string
	}{
		{"newlines", "Scaling\n  Laws for\nRanking", "Scaling Laws for Ranking"},
		{"markup", "A <b>bold</b> claim", "A bold claim"},
		{"entities", "Search &amp; Rescue", "Search & Rescue"},
		{"empty", "", ""},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := CleanText(c.in); got != c.want {
				t.Fatalf("CleanText(%q) = %q; want %q", c.in, got, c.want)
			}
		})
	}
}
