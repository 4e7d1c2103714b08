package ai

import "log"

// Budget is the shared per-run ceiling on LLM API calls. Classification and
// summarization both draw from it. The process is single-threaded, so no
// locking is needed.
type Budget struct {
	max      int
	used     int
	reported bool
}

// NewBudget creates a budget allowing at most max calls.
func NewBudget(max int) *Budget {
	return &Budget{max: max}
}

// TryAcquire reserves one call. It returns false once the ceiling is
// reached; an attempted call counts even if the API errors afterwards.
func (b *Budget) TryAcquire() bool {
	if b.used >= b.max {
		if !b.reported {
			log.Printf("Reached LLM call limit (%d). Further papers are left unprocessed.", b.max)
			b.reported = true
		}
		return false
	}
	b.used++
	return true
}

// Used returns the number of calls consumed so far.
func (b *Budget) Used() int {
	return b.used
}

// Max returns the call ceiling.
func (b *Budget) Max() int {
	return b.max
}

// Remaining returns how many calls are still available.
func (b *Budget) Remaining() int {
	return b.max - b.used
}
