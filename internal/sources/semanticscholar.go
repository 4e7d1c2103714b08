/*
Package sources provides the supplementary paper feeds that back up the
primary arXiv search: Semantic Scholar and HuggingFace Daily Papers.
*/
package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"arxivdigest/internal/types"
)

const (
	defaultS2SearchURL = "https://api.semanticscholar.org/graph/v1/paper/search"

	s2Fields = "title,abstract,authors,externalIds,publicationDate,url,venue,openAccessPdf"

	// Semantic Scholar allows roughly 1 request per second with a key;
	// keep a margin since anonymous access is stricter.
	defaultS2QueryDelay = 3 * time.Second

	s2MaxResultsPerQuery = 100
)

// SemanticScholarClient searches the Semantic Scholar Graph API.
type SemanticScholarClient struct {
	httpClient *http.Client
	queries    []string
	apiKey     string
	searchURL  string
	queryDelay time.Duration
}

// NewSemanticScholarClient wires a client for the given queries. The API key
// is optional; without one the service applies stricter rate limits.
func NewSemanticScholarClient(queries []string, apiKey string, httpClient *http.Client) *SemanticScholarClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &SemanticScholarClient{
		httpClient: httpClient,
		queries:    queries,
		apiKey:     apiKey,
		searchURL:  defaultS2SearchURL,
		queryDelay: defaultS2QueryDelay,
	}
}

// Name identifies the source in logs and dedup attribution.
func (c *SemanticScholarClient) Name() string {
	return "s2"
}

type s2SearchResponse struct {
	Data []s2Paper `json:"data"`
}

type s2Paper struct {
	PaperID         string            `json:"paperId"`
	Title           string            `json:"title"`
	Abstract        string            `json:"abstract"`
	URL             string            `json:"url"`
	Venue           string            `json:"venue"`
	PublicationDate string            `json:"publicationDate"`
	ExternalIDs     map[string]string `json:"externalIds"`
	Authors         []s2Author        `json:"authors"`
	OpenAccessPdf   *s2OpenAccessPdf  `json:"openAccessPdf"`
}

type s2Author struct {
	Name string `json:"name"`
}

type s2OpenAccessPdf struct {
	URL string `json:"url"`
}

// Fetch runs every query scoped to the window start date. A failing query is
// logged and skipped; the error is non-nil only when all queries failed.
func (c *SemanticScholarClient) Fetch(ctx context.Context, start, end time.Time) ([]types.Paper, error) {
	seen := make(map[string]struct{})
	var papers []types.Paper
	var failures int

	for i, query := range c.queries {
		if i > 0 && c.queryDelay > 0 {
			time.Sleep(c.queryDelay)
		}

		log.Printf("S2 query %d/%d: %s", i+1, len(c.queries), query)

		results, err := c.fetchQuery(ctx, query, start)
		if err != nil {
			failures++
			log.Printf("S2 query failed, skipping: %v", err)
			continue
		}

		for _, p := range results {
			if _, dup := seen[p.ID]; dup {
				continue
			}
			if !p.Published.IsZero() && !p.Published.Before(end) {
				continue
			}
			seen[p.ID] = struct{}{}
			papers = append(papers, p)
		}
	}

	if failures == len(c.queries) && len(c.queries) > 0 {
		return nil, fmt.Errorf("all %d Semantic Scholar queries failed", failures)
	}

	log.Printf("S2: fetched %d unique papers since %s", len(papers), start.Format("2006-01-02"))
	return papers, nil
}

func (c *SemanticScholarClient) fetchQuery(ctx context.Context, query string, start time.Time) ([]types.Paper, error) {
	params := url.Values{
		"query":                 {query},
		"limit":                 {fmt.Sprintf("%d", s2MaxResultsPerQuery)},
		"fields":                {s2Fields},
		"publicationDateOrYear": {start.Format("2006-01-02") + ":"},
		"fieldsOfStudy":         {"Computer Science"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.searchURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for query %q: %w", query, err)
	}
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed for query %q: %w", query, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("received status %d for query %q: %s", resp.StatusCode, query, strings.TrimSpace(string(body)))
	}

	var parsed s2SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode response for query %q: %w", query, err)
	}

	var papers []types.Paper
	for _, item := range parsed.Data {
		paper, ok := s2ToPaper(item, query)
		if !ok {
			continue
		}
		papers = append(papers, paper)
	}

	return papers, nil
}

func s2ToPaper(item s2Paper, query string) (types.Paper, bool) {
	title := collapseWhitespace(item.Title)
	if item.PaperID == "" || title == "" {
		return types.Paper{}, false
	}

	arxivID := item.ExternalIDs["ArXiv"]

	paper := types.Paper{
		Title:    title,
		Abstract: collapseWhitespace(item.Abstract),
		Comment:  item.Venue,
		DOI:      item.ExternalIDs["DOI"],
		Source:   "s2",
		Query:    query,
	}

	for _, a := range item.Authors {
		if a.Name != "" {
			paper.Authors = append(paper.Authors, a.Name)
		}
	}

	if item.PublicationDate != "" {
		if t, err := time.Parse("2006-01-02", item.PublicationDate); err == nil {
			paper.Published = t.UTC()
		}
	}

	// Prefer arXiv identity and links when the record has them, so the
	// deduplicator can line it up with the arXiv feed.
	if arxivID != "" {
		paper.ID = arxivID
		paper.URL = "https://arxiv.org/abs/" + arxivID
		paper.PDFURL = "https://arxiv.org/pdf/" + arxivID
	} else {
		paper.ID = "s2:" + item.PaperID
		paper.URL = item.URL
		if paper.URL == "" {
			paper.URL = "https://www.semanticscholar.org/paper/" + item.PaperID
		}
		if item.OpenAccessPdf != nil {
			paper.PDFURL = item.OpenAccessPdf.URL
		}
	}

	return paper, true
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
