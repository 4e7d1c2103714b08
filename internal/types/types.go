package types

import (
	"time"
)

// Label is the affiliation verdict for a paper.
type Label string

const (
	LabelIndustry   Label = "industry"
	LabelAcademia   Label = "academia"
	LabelUnknown    Label = "unknown"
	LabelIrrelevant Label = "irrelevant"
)

// Classification holds the affiliation verdict for a single paper.
type Classification struct {
	Label     Label    `json:"label"`
	Companies []string `json:"companies,omitempty"`
	Reason    string   `json:"reason,omitempty"`
}

// IsIndustry reports whether the paper was classified as industry-authored.
func (c Classification) IsIndustry() bool {
	return c.Label == LabelIndustry
}

// Paper is a single publication fetched from one of the paper sources,
// enriched in place as it moves through the pipeline.
type Paper struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Authors    []string  `json:"authors"`
	Abstract   string    `json:"abstract"`
	Categories []string  `json:"categories,omitempty"`
	Published  time.Time `json:"published"`
	URL        string    `json:"url"`
	PDFURL     string    `json:"pdf_url,omitempty"`
	Comment    string    `json:"comment,omitempty"`
	DOI        string    `json:"doi,omitempty"`

	// Source names the feed(s) that produced the paper, comma-joined
	// once records are merged (e.g. "arxiv,s2").
	Source string `json:"source"`
	// Query is the search string that first surfaced the paper.
	Query string `json:"query,omitempty"`
	// Upvotes carries HuggingFace Daily Papers votes when known.
	Upvotes int `json:"upvotes,omitempty"`

	Classification Classification `json:"classification"`
	Summary        string         `json:"summary,omitempty"`
}

// Digest is the final per-run report: the industry papers with their
// classifications and summaries, plus run metadata.
type Digest struct {
	WindowStart  time.Time
	WindowEnd    time.Time
	Generated    time.Time
	Papers       []Paper // industry papers only
	TotalFetched int
	LLMCallsUsed int
	LLMCallsMax  int
}
