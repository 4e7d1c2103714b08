package sources

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const s2Fixture = `{
  "total": 2,
  "data": [
    {
      "paperId": "abc123",
      "title": "LLM  Rankers in\nProduction",
      "abstract": "We deploy LLM rankers.",
      "url": "https://www.semanticscholar.org/paper/abc123",
      "venue": "SIGIR",
      "publicationDate": "2026-08-28",
      "externalIds": {"ArXiv": "2508.11111", "DOI": "10.1145/123.456"},
      "authors": [{"name": "Rosalind Franklin"}]
    },
    {
      "paperId": "def456",
      "title": "A Venue-Only Paper on Collaborative Filtering",
      "abstract": "No arXiv record.",
      "url": "",
      "publicationDate": "2026-08-27",
      "externalIds": {},
      "authors": [{"name": "Katherine Johnson"}],
      "openAccessPdf": {"url": "https://example.org/def456.pdf"}
    }
  ]
}`

func TestSemanticScholarFetch(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("x-api-key"); got != "sekrit" {
			t.Errorf("expected API key header, got %q", got)
		}
		if got := r.URL.Query().Get("publicationDateOrYear"); got != "2026-08-25:" {
			t.Errorf("unexpected date filter: %q", got)
		}
		_, _ = w.Write([]byte(s2Fixture))
	}))
	defer server.Close()

	c := NewSemanticScholarClient([]string{"llm ranking"}, "sekrit", server.Client())
	c.searchURL = server.URL
	c.queryDelay = 0

	start := time.Date(2026, time.August, 25, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, time.August, 30, 0, 0, 0, 0, time.UTC)

	papers, err := c.Fetch(context.Background(), start, end)
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}
	if len(papers) != 2 {
		t.Fatalf("expected 2 papers, got %d", len(papers))
	}

	withArxiv := papers[0]
	if withArxiv.ID != "2508.11111" {
		t.Fatalf("expected arXiv identity to win, got id %s", withArxiv.ID)
	}
	if withArxiv.URL != "https://arxiv.org/abs/2508.11111" {
		t.Fatalf("unexpected url: %s", withArxiv.URL)
	}
	if withArxiv.DOI != "10.1145/123.456" {
		t.Fatalf("unexpected doi: %s", withArxiv.DOI)
	}
	if withArxiv.Title != "LLM Rankers in Production" {
		t.Fatalf("whitespace not collapsed: %q", withArxiv.Title)
	}
	if withArxiv.Comment != "SIGIR" {
		t.Fatalf("expected venue in comment, got %q", withArxiv.Comment)
	}

	s2Only := papers[1]
	if s2Only.ID != "s2:def456" {
		t.Fatalf("expected s2-prefixed id, got %s", s2Only.ID)
	}
	if s2Only.PDFURL != "https://example.org/def456.pdf" {
		t.Fatalf("unexpected pdf url: %s", s2Only.PDFURL)
	}
	if s2Only.URL != "https://www.semanticscholar.org/paper/def456" {
		t.Fatalf("unexpected fallback url: %s", s2Only.URL)
	}
}

func TestSemanticScholarAllQueriesFailing(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	c := NewSemanticScholarClient([]string{"a", "b"}, "", server.Client())
	c.searchURL = server.URL
	c.queryDelay = 0

	start := time.Date(2026, time.August, 25, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, time.August, 30, 0, 0, 0, 0, time.UTC)

	if _, err := c.Fetch(context.Background(), start, end); err == nil {
		t.Fatal("expected error when every query fails")
	}
}

const hfFixture = `[
  {
    "paper": {
      "id": "2508.22222",
      "title": "Sequential Recommendation with Diffusion",
      "summary": "A recommender model.",
      "publishedAt": "2026-08-28T00:00:00Z",
      "upvotes": 12,
      "authors": [{"name": "Mary Jackson"}]
    }
  },
  {
    "paper": {
      "id": "2508.33333",
      "title": "Protein Folding Revisited",
      "summary": "Nothing about retrieval.",
      "publishedAt": "2026-08-28T00:00:00Z",
      "upvotes": 99,
      "authors": []
    }
  },
  {
    "paper": {
      "id": "2507.00001",
      "title": "Stale Ranking Paper",
      "summary": "Relevant but outside the window.",
      "publishedAt": "2026-07-01T00:00:00Z",
      "upvotes": 3,
      "authors": []
    }
  }
]`

func TestHuggingFaceFetchFiltersRelevanceAndWindow(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(hfFixture))
	}))
	defer server.Close()

	c := NewHuggingFaceClient([]string{"recommendation", "ranking"}, server.Client())
	c.feedURL = server.URL

	start := time.Date(2026, time.August, 25, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, time.August, 30, 0, 0, 0, 0, time.UTC)

	papers, err := c.Fetch(context.Background(), start, end)
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}

	// Protein folding fails the keyword filter; the July paper fails the
	// window filter despite matching "ranking".
	if len(papers) != 1 {
		t.Fatalf("expected 1 paper, got %d", len(papers))
	}
	p := papers[0]
	if p.ID != "2508.22222" {
		t.Fatalf("unexpected id: %s", p.ID)
	}
	if p.Upvotes != 12 {
		t.Fatalf("unexpected upvotes: %d", p.Upvotes)
	}
	if p.URL != "https://arxiv.org/abs/2508.22222" {
		t.Fatalf("unexpected url: %s", p.URL)
	}
	if p.Source != "hf" {
		t.Fatalf("unexpected source: %s", p.Source)
	}
}

func TestHuggingFaceFetchError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	c := NewHuggingFaceClient([]string{"ranking"}, server.Client())
	c.feedURL = server.URL

	start := time.Date(2026, time.August, 25, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, time.August, 30, 0, 0, 0, 0, time.UTC)

	if _, err := c.Fetch(context.Background(), start, end); err == nil {
		t.Fatal("expected error on bad status")
	}
}
