package arxiv

import (
	"strings"

	"golang.org/x/net/html"
)

// CleanText strips any markup and entities a feed field may carry and
// collapses runs of whitespace (arXiv wraps titles and abstracts with
// hard newlines).
func CleanText(s string) string {
	if s == "" {
		return ""
	}

	var sb strings.Builder
	tokenizer := html.NewTokenizer(strings.NewReader(s))

	for {
		tt := tokenizer.Next()
		if tt == html.ErrorToken {
			break
		}
		if tt == html.TextToken {
			sb.Write(tokenizer.Text())
			sb.WriteByte(' ')
		}
	}

	return strings.Join(strings.Fields(sb.String()), " ")
}
