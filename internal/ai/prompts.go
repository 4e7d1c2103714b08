package ai

import (
	"fmt"
	"strings"

	"google.golang.org/genai"

	"arxivdigest/internal/types"
)

const (
	maxAuthorsInPrompt    = 15
	maxAbstractInPrompt   = 400
	maxSummaryAbstractLen = 500
)

const classificationSystemPrompt = `
You are an expert at classifying academic papers. Given a batch of papers, perform TWO checks for each paper.

## Step A - Relevance gate

Is this paper about ONE of the following topics?
1. **Recommendation systems** (collaborative filtering, CTR prediction, session-based, sequential or conversational recommendation, etc.)
2. **RecSys x LLM** (large language models used for recommendations, LLM-based ranking or scoring in recommender systems, prompt-based recommendations, etc.)
3. **LLM research with direct applications to ranking/retrieval for recommendations** (learning to rank, re-ranking with LLMs, generative retrieval for recommendations, etc.)

If the paper is NOT about any of these topics, mark it "relevant": false. Papers about generic NLP, computer vision, speech, pure information extraction, general RAG without a recommendation angle, or other unrelated topics are NOT relevant.

## Step B - Industry affiliation (only for relevant papers)

Does at least one author have an affiliation with an industry company? Classify based on AUTHOR AFFILIATIONS, not paper content.

How to determine author affiliation:
- Check author names against your knowledge of well-known researchers at major companies; many industry researchers in RecSys, IR, and LLM publish actively
- Look for affiliation info in the comments field (e.g. "Work done at Google")
- Look for company email domains or explicit affiliations in abstract/comments
- Do NOT classify as "industry" based solely on content signals like "A/B test", "production system", or "deployed"; the author must actually be with a company

Common industry companies (non-exhaustive): Google, DeepMind, Meta, FAIR, Amazon, AWS, Microsoft, MSR, Apple, Netflix, Spotify, Alibaba, Ant Group, Tencent, ByteDance, TikTok, Huawei, JD.com, Baidu, LinkedIn, Pinterest, Uber, Airbnb, eBay, Yahoo, Snap, NVIDIA, Samsung, Adobe, Salesforce, Kuaishou, Meituan, Shopee, Grab, Yandex, Criteo, Booking, PayPal, Bloomberg, IBM Research, Walmart, Instacart, DoorDash, Lyft, Etsy, Cohere, OpenAI, Anthropic, Mistral, etc.

## Output format

Respond with ONLY a JSON array. Each element:
{"paper_index": <int>, "relevant": true|false, "classification": "industry"|"academia"|"unknown", "companies": ["<company>", ...], "reason": "<brief reason>"}

For irrelevant papers, set classification to "irrelevant" and companies to [].
`

// buildClassificationPrompt lists one batch of papers for the classifier.
// Indices are batch-local and must match paper_index in the response.
func buildClassificationPrompt(batch []types.Paper) string {
	var sb strings.Builder
	sb.WriteString("Classify each paper below as industry or academia.\n\n")

	for i, p := range batch {
		fmt.Fprintf(&sb, "Paper %d:\n", i)
		fmt.Fprintf(&sb, "  Title: %s\n", p.Title)
		fmt.Fprintf(&sb, "  Authors: %s\n", strings.Join(truncateList(p.Authors, maxAuthorsInPrompt), ", "))
		fmt.Fprintf(&sb, "  Abstract: %s\n", truncate(p.Abstract, maxAbstractInPrompt))
		fmt.Fprintf(&sb, "  Comment: %s\n\n", p.Comment)
	}

	return sb.String()
}

// buildSummaryPrompt lists one batch of industry papers for summarization.
func buildSummaryPrompt(batch []types.Paper) string {
	var sb strings.Builder
	sb.WriteString("For each paper below, write a 2-3 sentence summary highlighting " +
		"the key contribution and why it matters for recommendation systems, " +
		"information retrieval, or LLM research. Focus on practical implications.\n\n")

	for i, p := range batch {
		fmt.Fprintf(&sb, "Paper %d:\n", i)
		fmt.Fprintf(&sb, "  Title: %s\n", p.Title)
		fmt.Fprintf(&sb, "  Authors: %s\n", strings.Join(truncateList(p.Authors, 10), ", "))
		fmt.Fprintf(&sb, "  Company: %s\n", strings.Join(p.Classification.Companies, ", "))
		fmt.Fprintf(&sb, "  Abstract: %s\n\n", truncate(p.Abstract, maxSummaryAbstractLen))
	}

	sb.WriteString(`Return a JSON array: [{"paper_index": <int>, "summary": "..."}]`)
	return sb.String()
}

func classificationSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeArray,
		Items: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"paper_index": {Type: genai.TypeInteger, Description: "Batch-local index of the paper."},
				"relevant":    {Type: genai.TypeBoolean, Description: "Whether the paper passes the relevance gate."},
				"classification": {
					Type: genai.TypeString,
					Enum: []string{"industry", "academia", "unknown", "irrelevant"},
				},
				"companies": {
					Type:        genai.TypeArray,
					Items:       &genai.Schema{Type: genai.TypeString},
					Description: "Company names when the paper is industry-authored.",
				},
				"reason": {Type: genai.TypeString, Description: "Brief evidence for the decision."},
			},
			Required: []string{"paper_index", "relevant", "classification"},
		},
	}
}

func summarySchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeArray,
		Items: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"paper_index": {Type: genai.TypeInteger, Description: "Batch-local index of the paper."},
				"summary":     {Type: genai.TypeString, Description: "2-3 sentence contribution summary."},
			},
			Required: []string{"paper_index", "summary"},
		},
	}
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}

func truncateList(items []string, limit int) []string {
	if len(items) <= limit {
		return items
	}
	return items[:limit]
}
