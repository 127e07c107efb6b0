// Package classifier labels inbound messages as scam or not using keyword density
// over the intel taxonomy.
package classifier

import "github.com/MikeSquared-Agency/martha/internal/intel"

// DefaultThreshold is the number of distinct trigger words a message must contain
// to be labelled a scam. Lower values engage more aggressively at the cost of
// false positives.
const DefaultThreshold = 2

// Classifier holds the tuned threshold. The zero value uses DefaultThreshold.
type Classifier struct {
	threshold int
}

func New(threshold int) *Classifier {
	if threshold < 1 {
		threshold = DefaultThreshold
	}
	return &Classifier{threshold: threshold}
}

// Threshold returns the hit count at which a message is labelled a scam.
func (c *Classifier) Threshold() int {
	if c == nil || c.threshold < 1 {
		return DefaultThreshold
	}
	return c.threshold
}

// Classify reports whether message reaches the threshold. It only labels; callers
// still reply to every message.
func (c *Classifier) Classify(message string) bool {
	return Hits(message) >= c.Threshold()
}

// Hits counts the distinct taxonomy words found in message.
func Hits(message string) int {
	return len(intel.MatchKeywords(message))
}
