/*
Package dedup merges paper records collected from multiple sources.
Identity is resolved in three layers: normalized arXiv ID, then DOI, then
normalized title.
*/
package dedup

import (
	"log"
	"regexp"
	"sort"
	"strings"

	"arxivdigest/internal/types"
)

// Titles shorter than this (after normalization) are too generic to use as
// a dedup key.
const minTitleKeyLength = 30

var (
	arxivURLPrefixRe = regexp.MustCompile(`^https?://arxiv\.org/(abs|pdf)/`)
	arxivVersionRe   = regexp.MustCompile(`v\d+$`)
	doiURLPrefixRe   = regexp.MustCompile(`^https?://(dx\.)?doi\.org/`)
	latexCommandRe   = regexp.MustCompile(`\\[a-zA-Z]+\{([^}]*)\}`)
	latexResidueRe   = regexp.MustCompile(`[{}$\\]`)
	nonAlnumRe       = regexp.MustCompile(`[^a-z0-9 ]`)
	spacesRe         = regexp.MustCompile(`\s+`)
)

// NormalizeArxivID strips URL prefixes and the version suffix from an
// arXiv identifier.
func NormalizeArxivID(raw string) string {
	if raw == "" {
		return ""
	}
	raw = arxivURLPrefixRe.ReplaceAllString(raw, "")
	raw = arxivVersionRe.ReplaceAllString(raw, "")
	return strings.TrimSpace(raw)
}

// NormalizeDOI lowercases a DOI and strips any doi.org URL prefix.
func NormalizeDOI(raw string) string {
	if raw == "" {
		return ""
	}
	raw = doiURLPrefixRe.ReplaceAllString(raw, "")
	return strings.ToLower(strings.TrimSpace(raw))
}

// NormalizeTitle reduces a title to lowercase alphanumerics for fuzzy
// matching, dropping LaTeX commands along the way.
func NormalizeTitle(title string) string {
	if title == "" {
		return ""
	}
	title = latexCommandRe.ReplaceAllString(title, "$1")
	title = latexResidueRe.ReplaceAllString(title, "")
	title = nonAlnumRe.ReplaceAllString(strings.ToLower(title), "")
	return strings.TrimSpace(spacesRe.ReplaceAllString(title, " "))
}

// Deduplicate collapses duplicate records, keeping the first occurrence as
// the primary and merging metadata from later ones into it. Input order is
// source priority: arXiv first, then Semantic Scholar, then HuggingFace.
func Deduplicate(papers []types.Paper) []types.Paper {
	seenArxiv := make(map[string]int)
	seenDOI := make(map[string]int)
	seenTitle := make(map[string]int)
	result := make([]types.Paper, 0, len(papers))

	for _, paper := range papers {
		arxivID := NormalizeArxivID(paper.ID)
		if strings.HasPrefix(arxivID, "s2:") {
			arxivID = ""
		}
		if arxivID != "" {
			if idx, ok := seenArxiv[arxivID]; ok {
				merge(&result[idx], paper)
				continue
			}
		}

		doi := NormalizeDOI(paper.DOI)
		if doi != "" {
			if idx, ok := seenDOI[doi]; ok {
				merge(&result[idx], paper)
				continue
			}
		}

		titleKey := NormalizeTitle(paper.Title)
		if len(titleKey) < minTitleKeyLength {
			titleKey = ""
		}
		if titleKey != "" {
			if idx, ok := seenTitle[titleKey]; ok {
				merge(&result[idx], paper)
				continue
			}
		}

		idx := len(result)
		result = append(result, paper)

		if arxivID != "" {
			seenArxiv[arxivID] = idx
		}
		if doi != "" {
			seenDOI[doi] = idx
		}
		if titleKey != "" {
			seenTitle[titleKey] = idx
		}
	}

	if removed := len(papers) - len(result); removed > 0 {
		log.Printf("Dedup: %d papers in, %d unique out (%d duplicates removed)", len(papers), len(result), removed)
	}
	return result
}

// merge folds metadata from a duplicate into the primary record. The primary
// keeps its identity and query attribution.
func merge(existing *types.Paper, dup types.Paper) {
	if len(dup.Abstract) > len(existing.Abstract) {
		existing.Abstract = dup.Abstract
	}

	existing.Source = unionSources(existing.Source, dup.Source)

	if dup.Upvotes > existing.Upvotes {
		existing.Upvotes = dup.Upvotes
	}
	if existing.DOI == "" && dup.DOI != "" {
		existing.DOI = dup.DOI
	}
	if len(existing.Categories) == 0 && len(dup.Categories) > 0 {
		existing.Categories = dup.Categories
	}
	if existing.Comment == "" && dup.Comment != "" {
		existing.Comment = dup.Comment
	}
}

func unionSources(a, b string) string {
	set := make(map[string]struct{})
	for _, s := range strings.Split(a+","+b, ",") {
		s = strings.TrimSpace(s)
		if s != "" {
			set[s] = struct{}{}
		}
	}

	// Stable order: arXiv first, then the supplementary feeds.
	var out []string
	for _, name := range []string{"arxiv", "s2", "hf"} {
		if _, ok := set[name]; ok {
			out = append(out, name)
			delete(set, name)
		}
	}
	var rest []string
	for name := range set {
		rest = append(rest, name)
	}
	sort.Strings(rest)
	return strings.Join(append(out, rest...), ",")
}
