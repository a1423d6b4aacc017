package weeklypodcast

import (
	"context"
	"fmt"
	"log"
	"strings"
)

// maxExpandCalls bounds the expansion phase; runaway generation cost on a
// pathological script is worse than a slightly short episode.
const maxExpandCalls = 2

// WordCount counts whitespace-separated words, ignoring empty tokens.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

// Normalizer nudges episode text into a target word-count band through a
// bounded number of rewrite calls. The band is a soft contract: after at most
// two expansions and one shortening, whatever text resulted is accepted, and
// an out-of-band final count is logged rather than rejected.
type Normalizer struct {
	writer   ScriptWriter
	minWords int
	maxWords int
}

func NewNormalizer(writer ScriptWriter, minWords, maxWords int) *Normalizer {
	return &Normalizer{
		writer:   writer,
		minWords: minWords,
		maxWords: maxWords,
	}
}

// Normalize returns the adjusted text and its final word count.
func (n *Normalizer) Normalize(ctx context.Context, text string) (string, int, error) {
	count := WordCount(text)

	for attempt := 0; attempt < maxExpandCalls && count < n.minWords; attempt++ {
		log.Printf("Script too short (%d words, want >= %d); expanding...", count, n.minWords)
		expanded, err := n.writer.Expand(ctx, text, n.minWords, n.maxWords)
		if err != nil {
			return "", 0, fmt.Errorf("expand call failed: %w", err)
		}
		text = expanded
		count = WordCount(text)
	}

	if count > n.maxWords {
		log.Printf("Script too long (%d words, want <= %d); shortening...", count, n.maxWords)
		shortened, err := n.writer.Shorten(ctx, text, n.minWords, n.maxWords)
		if err != nil {
			return "", 0, fmt.Errorf("shorten call failed: %w", err)
		}
		text = shortened
		count = WordCount(text)
	}

	if count < n.minWords || count > n.maxWords {
		log.Printf("Final word count %d is outside the %d-%d band; accepting anyway", count, n.minWords, n.maxWords)
	}

	return text, count, nil
}
