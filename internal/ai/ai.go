/*
Package ai classifies papers as industry or academia and summarizes the
industry subset using the Gemini API, under a shared per-run call budget.
*/
package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"google.golang.org/genai"

	"arxivdigest/internal/types"
)

// generateFunc issues one structured-output model call and returns the raw
// response text. Factored out so tests can stub the API.
type generateFunc func(ctx context.Context, systemPrompt, userPrompt string, schema *genai.Schema, temperature float32) (string, error)

// Client batches papers through the Gemini API.
type Client struct {
	batchSize int
	budget    *Budget
	generate  generateFunc
}

// NewClient creates a Gemini-backed client. No network call is made here;
// the key is only validated for presence.
func NewClient(ctx context.Context, apiKey, model string, batchSize int, budget *Budget) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if batchSize <= 0 {
		return nil, fmt.Errorf("batch size must be positive, got %d", batchSize)
	}

	genaiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &Client{
		batchSize: batchSize,
		budget:    budget,
		generate: func(ctx context.Context, systemPrompt, userPrompt string, schema *genai.Schema, temperature float32) (string, error) {
			contents := []*genai.Content{
				{Parts: []*genai.Part{{Text: systemPrompt}}, Role: "system"},
				{Parts: []*genai.Part{{Text: userPrompt}}, Role: "user"},
			}

			resp, err := genaiClient.Models.GenerateContent(ctx, model, contents, &genai.GenerateContentConfig{
				ResponseMIMEType: "application/json",
				ResponseSchema:   schema,
				Temperature:      genai.Ptr[float32](temperature),
			})
			if err != nil {
				return "", fmt.Errorf("gemini API call failed: %w", err)
			}
			return resp.Text(), nil
		},
	}, nil
}

type classificationItem struct {
	PaperIndex     int      `json:"paper_index"`
	Relevant       bool     `json:"relevant"`
	Classification string   `json:"classification"`
	Companies      []string `json:"companies"`
	Reason         string   `json:"reason"`
}

type summaryItem struct {
	PaperIndex int    `json:"paper_index"`
	Summary    string `json:"summary"`
}

// ClassifyAll classifies papers in consecutive batches, one API call per
// batch, in the order they were fetched. Once the shared budget runs out the
// remaining papers default to unknown instead of triggering further calls.
// A malformed batch response likewise degrades that whole batch to unknown;
// neither condition fails the run.
func (c *Client) ClassifyAll(ctx context.Context, papers []types.Paper) map[string]types.Classification {
	results := make(map[string]types.Classification, len(papers))

	for batchStart := 0; batchStart < len(papers); batchStart += c.batchSize {
		if !c.budget.TryAcquire() {
			break
		}

		batch := papers[batchStart:min(batchStart+c.batchSize, len(papers))]
		log.Printf("LLM call %d: classifying papers %d-%d of %d",
			c.budget.Used(), batchStart, batchStart+len(batch)-1, len(papers))

		raw, err := c.generate(ctx, classificationSystemPrompt, buildClassificationPrompt(batch), classificationSchema(), 0)
		if err != nil {
			log.Printf("Classification batch failed: %v", err)
			continue
		}

		var items []classificationItem
		if err := json.Unmarshal([]byte(raw), &items); err != nil {
			log.Printf("Failed to parse classification response as JSON: %v (raw: %s)", err, truncate(raw, 500))
			continue
		}

		for _, item := range items {
			if item.PaperIndex < 0 || item.PaperIndex >= len(batch) {
				continue
			}
			results[batch[item.PaperIndex].ID] = itemToClassification(item)
		}
	}

	// Fail-safe default for anything the API never labeled.
	for _, p := range papers {
		if _, ok := results[p.ID]; !ok {
			results[p.ID] = types.Classification{Label: types.LabelUnknown}
		}
	}

	return results
}

// SummarizeAll generates short contribution summaries for industry papers,
// batched like classification and drawing from the same budget. Papers past
// the remaining budget simply get no summary.
func (c *Client) SummarizeAll(ctx context.Context, papers []types.Paper) map[string]string {
	summaries := make(map[string]string, len(papers))

	for batchStart := 0; batchStart < len(papers); batchStart += c.batchSize {
		if !c.budget.TryAcquire() {
			break
		}

		batch := papers[batchStart:min(batchStart+c.batchSize, len(papers))]
		log.Printf("LLM call %d: summarizing papers %d-%d of %d",
			c.budget.Used(), batchStart, batchStart+len(batch)-1, len(papers))

		raw, err := c.generate(ctx, "", buildSummaryPrompt(batch), summarySchema(), 0.3)
		if err != nil {
			log.Printf("Summary batch failed: %v", err)
			continue
		}

		var items []summaryItem
		if err := json.Unmarshal([]byte(raw), &items); err != nil {
			log.Printf("Failed to parse summary response as JSON: %v (raw: %s)", err, truncate(raw, 500))
			continue
		}

		for _, item := range items {
			if item.PaperIndex < 0 || item.PaperIndex >= len(batch) {
				continue
			}
			if item.Summary != "" {
				summaries[batch[item.PaperIndex].ID] = item.Summary
			}
		}
	}

	return summaries
}

func itemToClassification(item classificationItem) types.Classification {
	cls := types.Classification{Reason: item.Reason}

	if !item.Relevant {
		cls.Label = types.LabelIrrelevant
		return cls
	}

	switch item.Classification {
	case "industry":
		cls.Label = types.LabelIndustry
		cls.Companies = item.Companies
	case "academia":
		cls.Label = types.LabelAcademia
	case "irrelevant":
		cls.Label = types.LabelIrrelevant
	default:
		cls.Label = types.LabelUnknown
	}

	return cls
}
