package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"arxivdigest/internal/types"
)

const defaultHFDailyPapersURL = "https://huggingface.co/api/daily_papers"

// HuggingFaceClient fetches trending papers from HuggingFace Daily Papers
// and keeps the ones matching the configured relevance keywords.
type HuggingFaceClient struct {
	httpClient *http.Client
	keywords   []string
	feedURL    string
}

// NewHuggingFaceClient wires a client with the given relevance keywords.
func NewHuggingFaceClient(keywords []string, httpClient *http.Client) *HuggingFaceClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	lowered := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" {
			lowered = append(lowered, kw)
		}
	}
	return &HuggingFaceClient{
		httpClient: httpClient,
		keywords:   lowered,
		feedURL:    defaultHFDailyPapersURL,
	}
}

// Name identifies the source in logs and dedup attribution.
func (c *HuggingFaceClient) Name() string {
	return "hf"
}

type hfEntry struct {
	Paper      hfPaper `json:"paper"`
	NumUpvotes int     `json:"numUpvotes"`
}

type hfPaper struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Summary     string     `json:"summary"`
	PublishedAt string     `json:"publishedAt"`
	Upvotes     int        `json:"upvotes"`
	Authors     []hfAuthor `json:"authors"`
}

type hfAuthor struct {
	Name string `json:"name"`
}

// Fetch pulls the daily papers list and keeps relevant entries published
// inside the window. The feed carries a single day, so one request suffices.
func (c *HuggingFaceClient) Fetch(ctx context.Context, start, end time.Time) ([]types.Paper, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build HuggingFace request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HuggingFace Daily Papers fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HuggingFace Daily Papers returned status %d", resp.StatusCode)
	}

	var entries []hfEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("failed to decode HuggingFace response: %w", err)
	}

	seen := make(map[string]struct{})
	var papers []types.Paper

	for _, entry := range entries {
		p := entry.Paper
		if p.ID == "" {
			continue
		}
		if _, dup := seen[p.ID]; dup {
			continue
		}
		seen[p.ID] = struct{}{}

		title := collapseWhitespace(p.Title)
		abstract := collapseWhitespace(p.Summary)
		if title == "" || !c.isRelevant(title, abstract) {
			continue
		}

		var published time.Time
		if p.PublishedAt != "" {
			if t, err := time.Parse(time.RFC3339, p.PublishedAt); err == nil {
				published = t.UTC()
			}
		}
		// The feed has no window parameter, so filter client-side when the
		// timestamp is known.
		if !published.IsZero() && (published.Before(start) || !published.Before(end)) {
			continue
		}

		upvotes := p.Upvotes
		if upvotes == 0 {
			upvotes = entry.NumUpvotes
		}

		paper := types.Paper{
			ID:        p.ID,
			Title:     title,
			Abstract:  abstract,
			Published: published,
			URL:       "https://arxiv.org/abs/" + p.ID,
			PDFURL:    "https://arxiv.org/pdf/" + p.ID,
			Source:    "hf",
			Upvotes:   upvotes,
		}
		for _, a := range p.Authors {
			if a.Name != "" {
				paper.Authors = append(paper.Authors, a.Name)
			}
		}

		papers = append(papers, paper)
	}

	log.Printf("HuggingFace: fetched %d relevant papers", len(papers))
	return papers, nil
}

func (c *HuggingFaceClient) isRelevant(title, abstract string) bool {
	text := strings.ToLower(title + " " + abstract)
	for _, kw := range c.keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
