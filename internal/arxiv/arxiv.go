/*
Package arxiv fetches recent papers from the arXiv search API, one Atom
request per configured query, scoped to the run's date window.
*/
package arxiv

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"arxivdigest/internal/types"
)

const (
	defaultBaseURL = "https://export.arxiv.org/api/query"
	pdfBaseURL     = "https://arxiv.org/pdf/"

	// arXiv asks for a 3 second pause between API requests.
	defaultQueryDelay = 3 * time.Second

	maxResultsPerQuery = 100
)

// Client queries the arXiv search API.
type Client struct {
	httpClient *http.Client
	parser     *gofeed.Parser
	queries    []string
	baseURL    string
	queryDelay time.Duration
}

// NewClient wires an HTTP client for the given search queries.
func NewClient(queries []string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	return &Client{
		httpClient: httpClient,
		parser:     gofeed.NewParser(),
		queries:    queries,
		baseURL:    defaultBaseURL,
		queryDelay: defaultQueryDelay,
	}
}

// Name identifies the source in logs and dedup attribution.
func (c *Client) Name() string {
	return "arxiv"
}

// Fetch runs every configured query and merges the results into a single
// deduplicated list; the query that first produced a paper keeps attribution.
// A failing query is logged and skipped. The returned error is non-nil only
// when every query failed and nothing was fetched.
func (c *Client) Fetch(ctx context.Context, start, end time.Time) ([]types.Paper, error) {
	seen := make(map[string]struct{})
	var papers []types.Paper
	var failures int

	for i, query := range c.queries {
		if i > 0 && c.queryDelay > 0 {
			time.Sleep(c.queryDelay)
		}

		log.Printf("arXiv query %d/%d: %s", i+1, len(c.queries), query)

		results, err := c.fetchQuery(ctx, query, start, end)
		if err != nil {
			failures++
			log.Printf("arXiv query failed, skipping: %v", err)
			continue
		}

		for _, p := range results {
			if _, dup := seen[p.ID]; dup {
				continue
			}
			seen[p.ID] = struct{}{}
			papers = append(papers, p)
		}
	}

	if failures == len(c.queries) && len(c.queries) > 0 {
		return nil, fmt.Errorf("all %d arXiv queries failed", failures)
	}

	log.Printf("arXiv: fetched %d unique papers since %s", len(papers), start.Format("2006-01-02"))
	return papers, nil
}

func (c *Client) fetchQuery(ctx context.Context, query string, start, end time.Time) ([]types.Paper, error) {
	params := url.Values{
		"search_query": {query},
		"start":        {"0"},
		"max_results":  {fmt.Sprintf("%d", maxResultsPerQuery)},
		"sortBy":       {"submittedDate"},
		"sortOrder":    {"descending"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for query %q: %w", query, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed for query %q: %w", query, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("received status %d for query %q", resp.StatusCode, query)
	}

	feed, err := c.parser.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Atom feed for query %q: %w", query, err)
	}

	var papers []types.Paper
	for _, item := range feed.Items {
		if item.PublishedParsed == nil {
			continue
		}
		published := item.PublishedParsed.UTC()

		// Entries are sorted by submitted date descending, so the first
		// one older than the window start ends this query.
		if published.Before(start) {
			break
		}
		if !published.Before(end) {
			continue
		}

		paper := itemToPaper(item, query)
		if paper.ID == "" || paper.Title == "" {
			continue
		}
		paper.Published = published
		papers = append(papers, paper)
	}

	return papers, nil
}

func itemToPaper(item *gofeed.Item, query string) types.Paper {
	id := arxivIDFromEntry(item.GUID)

	var authors []string
	for _, a := range item.Authors {
		if a != nil && a.Name != "" {
			authors = append(authors, a.Name)
		}
	}

	paper := types.Paper{
		ID:       id,
		Title:    CleanText(item.Title),
		Authors:  authors,
		Abstract: CleanText(item.Description),
		URL:      item.GUID,
		PDFURL:   pdfLink(item, id),
		Comment:  extensionValue(item, "arxiv", "comment"),
		Source:   "arxiv",
		Query:    query,
	}

	if len(item.Categories) > 0 {
		paper.Categories = append([]string(nil), item.Categories...)
	}

	return paper
}

// arxivIDFromEntry turns an entry ID URL like
// http://arxiv.org/abs/2501.00001v1 into 2501.00001v1.
func arxivIDFromEntry(entryID string) string {
	if idx := strings.Index(entryID, "/abs/"); idx >= 0 {
		return entryID[idx+len("/abs/"):]
	}
	return strings.TrimSpace(entryID)
}

func pdfLink(item *gofeed.Item, id string) string {
	for _, link := range item.Links {
		if strings.Contains(link, "/pdf/") {
			return link
		}
	}
	if id != "" {
		return pdfBaseURL + id
	}
	return ""
}

func extensionValue(item *gofeed.Item, prefix, name string) string {
	ns, ok := item.Extensions[prefix]
	if !ok {
		return ""
	}
	values, ok := ns[name]
	if !ok || len(values) == 0 {
		return ""
	}
	return CleanText(values[0].Value)
}
