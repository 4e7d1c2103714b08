/*
Package pipeline sequences a single digest run: window computation, paper
fetching, dedup, classification, summarization, rendering and delivery.
Run state advances only after everything else succeeded.
*/
package pipeline

import (
	"context"
	"fmt"
	"log"
	"time"

	"arxivdigest/internal/ai"
	"arxivdigest/internal/dedup"
	"arxivdigest/internal/notify"
	"arxivdigest/internal/report"
	"arxivdigest/internal/state"
	"arxivdigest/internal/types"
)

// Source pulls papers for a date window from one upstream feed.
type Source interface {
	Name() string
	Fetch(ctx context.Context, start, end time.Time) ([]types.Paper, error)
}

// LLM labels papers and summarizes the industry subset.
type LLM interface {
	ClassifyAll(ctx context.Context, papers []types.Paper) map[string]types.Classification
	SummarizeAll(ctx context.Context, papers []types.Paper) map[string]string
}

// Sender delivers the rendered digest by email.
type Sender interface {
	Enabled() bool
	Send(msg notify.Message) error
}

// Deps wires the pipeline stages together.
type Deps struct {
	Sources []Source
	LLM     LLM
	Budget  *ai.Budget
	Sender  Sender
	Writer  *notify.Writer
	State   *state.Manager

	// Now is the clock; defaults to time.Now. Overridable in tests.
	Now func() time.Time
}

// Options carries the per-invocation CLI switches.
type Options struct {
	DryRun       bool
	NoEmail      bool
	LookbackDays int
}

// Run executes one digest run. Stage-local failures (a dead query, a
// malformed LLM batch, exhausted call budget) degrade the data rather than
// aborting; only setup failures, a fully unreachable paper repository, or
// an inability to produce the report return an error.
func Run(ctx context.Context, deps Deps, opts Options) error {
	now := deps.Now
	if now == nil {
		now = time.Now
	}

	windowStart, windowEnd := deps.State.Window(opts.LookbackDays, now().UTC())

	var fetched []types.Paper
	failures := 0
	for _, src := range deps.Sources {
		papers, err := src.Fetch(ctx, windowStart, windowEnd)
		if err != nil {
			failures++
			log.Printf("Source %s failed: %v", src.Name(), err)
			continue
		}
		fetched = append(fetched, papers...)
	}

	if len(deps.Sources) > 0 && failures == len(deps.Sources) && len(fetched) == 0 {
		return fmt.Errorf("every paper source failed, nothing to report")
	}

	papers := dedup.Deduplicate(fetched)
	log.Printf("Fetched %d unique papers for window %s - %s",
		len(papers), windowStart.Format("2006-01-02"), windowEnd.Format("2006-01-02"))

	if len(papers) > 0 {
		labels := deps.LLM.ClassifyAll(ctx, papers)
		for i := range papers {
			papers[i].Classification = labels[papers[i].ID]
		}
	}

	var industry []types.Paper
	counts := map[types.Label]int{}
	for _, p := range papers {
		counts[p.Classification.Label]++
		if p.Classification.IsIndustry() {
			industry = append(industry, p)
		}
	}
	log.Printf("Classification results: %d industry, %d academia, %d unknown, %d irrelevant",
		counts[types.LabelIndustry], counts[types.LabelAcademia],
		counts[types.LabelUnknown], counts[types.LabelIrrelevant])

	if len(industry) > 0 {
		summaries := deps.LLM.SummarizeAll(ctx, industry)
		for i := range industry {
			industry[i].Summary = summaries[industry[i].ID]
		}
	}

	digest := types.Digest{
		WindowStart:  windowStart,
		WindowEnd:    windowEnd,
		Generated:    now().UTC(),
		Papers:       industry,
		TotalFetched: len(papers),
		LLMCallsUsed: deps.Budget.Used(),
		LLMCallsMax:  deps.Budget.Max(),
	}

	html, err := report.Render(digest)
	if err != nil {
		return err
	}

	log.Printf("LLM calls used: %d / %d", digest.LLMCallsUsed, digest.LLMCallsMax)

	if opts.DryRun {
		log.Printf("Dry run: report not saved, email not sent, state not updated.")
		return nil
	}

	reportPath, err := deps.Writer.Save(html, digest)
	if err != nil {
		return err
	}

	if !opts.NoEmail && deps.Sender != nil && deps.Sender.Enabled() {
		msg := notify.Message{
			Subject: report.Subject(digest),
			Text:    report.RenderText(digest),
			HTML:    html,
		}
		if err := deps.Sender.Send(msg); err != nil {
			// The report is already on disk; surface the failure without
			// advancing state so the next run retries this window.
			return fmt.Errorf("email delivery failed (report saved at %s): %w", reportPath, err)
		}
	}

	if err := deps.State.Record(windowEnd, len(papers), len(industry)); err != nil {
		return err
	}

	return nil
}
