/*
Package report renders the per-run digest as HTML (for email and the local
report file) and as a plain text alternative. Rendering is pure: identical
digests produce byte-identical output.
*/
package report

import (
	"bytes"
	"fmt"
	"html/template"
	"sort"
	"strings"

	"arxivdigest/internal/types"
)

const maxAuthorsShown = 8

var digestTemplate = template.Must(template.New("digest").Parse(digestHTMLTemplate))

type paperView struct {
	Index      int
	Title      string
	URL        string
	PDFURL     string
	Authors    string
	Companies  string
	Published  string
	Categories string
	Summary    string
}

type digestView struct {
	Date          string
	Since         string
	IndustryCount int
	TotalCount    int
	CallsUsed     int
	CallsMax      int
	Papers        []paperView
}

// Render produces the HTML digest. Papers are ordered by published date
// descending, ties broken by ID, so output is reproducible.
func Render(d types.Digest) (string, error) {
	var buf bytes.Buffer
	if err := digestTemplate.Execute(&buf, buildView(d)); err != nil {
		return "", fmt.Errorf("failed to render digest template: %w", err)
	}
	return buf.String(), nil
}

// RenderText produces the plain text alternative for email clients that
// don't render HTML.
func RenderText(d types.Digest) string {
	view := buildView(d)
	var sb strings.Builder

	fmt.Fprintf(&sb, "RecSys & LLM Industry Papers - %s\n", view.Date)
	sb.WriteString(strings.Repeat("=", 50) + "\n\n")
	fmt.Fprintf(&sb, "%d industry papers out of %d fetched since %s\n\n",
		view.IndustryCount, view.TotalCount, view.Since)

	if len(view.Papers) == 0 {
		sb.WriteString("No industry papers found in this period.\n")
		return sb.String()
	}

	for _, p := range view.Papers {
		fmt.Fprintf(&sb, "#%d %s\n", p.Index, p.Title)
		if p.Companies != "" {
			fmt.Fprintf(&sb, "    Company: %s\n", p.Companies)
		}
		fmt.Fprintf(&sb, "    Authors: %s\n", p.Authors)
		fmt.Fprintf(&sb, "    %s", p.Published)
		if p.Categories != "" {
			fmt.Fprintf(&sb, " | %s", p.Categories)
		}
		sb.WriteString("\n")
		if p.Summary != "" {
			fmt.Fprintf(&sb, "    %s\n", p.Summary)
		}
		fmt.Fprintf(&sb, "    %s\n\n", p.URL)
	}

	return sb.String()
}

// Subject builds the digest email subject line.
func Subject(d types.Digest) string {
	return fmt.Sprintf("RecSys & LLM Industry Papers - %s (%d papers)",
		d.Generated.Format("Jan 02"), len(d.Papers))
}

func buildView(d types.Digest) digestView {
	papers := sortedPapers(d.Papers)

	view := digestView{
		Date:          d.Generated.Format("January 2, 2006"),
		Since:         d.WindowStart.Format("Jan 02"),
		IndustryCount: len(papers),
		TotalCount:    d.TotalFetched,
		CallsUsed:     d.LLMCallsUsed,
		CallsMax:      d.LLMCallsMax,
	}

	for i, p := range papers {
		view.Papers = append(view.Papers, paperView{
			Index:      i + 1,
			Title:      p.Title,
			URL:        p.URL,
			PDFURL:     pdfOrURL(p),
			Authors:    formatAuthors(p.Authors),
			Companies:  strings.Join(p.Classification.Companies, ", "),
			Published:  p.Published.Format("2006-01-02"),
			Categories: strings.Join(p.Categories, ", "),
			Summary:    p.Summary,
		})
	}

	return view
}

func sortedPapers(papers []types.Paper) []types.Paper {
	sorted := append([]types.Paper(nil), papers...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].Published.Equal(sorted[j].Published) {
			return sorted[i].Published.After(sorted[j].Published)
		}
		return sorted[i].ID < sorted[j].ID
	})
	return sorted
}

func formatAuthors(authors []string) string {
	if len(authors) <= maxAuthorsShown {
		return strings.Join(authors, ", ")
	}
	shown := strings.Join(authors[:maxAuthorsShown], ", ")
	return fmt.Sprintf("%s ... (+%d more)", shown, len(authors)-maxAuthorsShown)
}

func pdfOrURL(p types.Paper) string {
	if p.PDFURL != "" {
		return p.PDFURL
	}
	return p.URL
}
