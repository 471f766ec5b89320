package parsing

import (
	"fmt"
	"time"

	"github.com/lodestar-lab/temporal-engine/internal/core/dtype"
)

// builtinPatterns are the candidate Go layouts per dtype kind, ordered
// from most to least common. Inference picks the first layout that parses
// the entire sample.
var builtinPatterns = map[dtype.Kind][]string{
	dtype.Date: {
		"2006-01-02",
		"2006/01/02",
		"01/02/2006",
		"20060102",
		"02-Jan-2006",
		"Jan 2, 2006",
	},
	dtype.Datetime: {
		"2006-01-02 15:04:05.999999999",
		"2006-01-02T15:04:05.999999999",
		"2006-01-02 15:04",
		"2006-01-02T15:04",
		"2006/01/02 15:04:05",
		"01/02/2006 15:04:05",
	},
	dtype.Time: {
		"15:04:05.999999999",
		"15:04",
		"3:04:05 PM",
	},
}

// TableGuesser infers a format by trying a fixed candidate table against
// the sample. Extra patterns (from the deployment's pattern files) are
// tried before the built-ins so site-specific formats win.
type TableGuesser struct {
	patterns map[dtype.Kind][]string
}

// DefaultGuesser returns a guesser over the built-in table only.
func DefaultGuesser() *TableGuesser {
	return NewTableGuesser(nil)
}

// NewTableGuesser prepends extra per-kind patterns to the built-in table.
func NewTableGuesser(extra map[dtype.Kind][]string) *TableGuesser {
	patterns := make(map[dtype.Kind][]string, len(builtinPatterns))
	for kind, builtin := range builtinPatterns {
		patterns[kind] = append(append([]string{}, extra[kind]...), builtin...)
	}
	return &TableGuesser{patterns: patterns}
}

// Guess returns the first candidate layout that parses every sample
// entry. When no candidate covers the whole sample (dirty data in the
// head of the column), it falls back to the earliest candidate with the
// most matches, so the unmatched entries surface as per-element parse
// failures instead of rejecting the upload. Only a sample with zero
// matches across all candidates is an inference error.
func (g *TableGuesser) Guess(sample []string, target dtype.DataType) (string, error) {
	candidates := g.patterns[target.Kind]
	if len(candidates) == 0 {
		return "", fmt.Errorf("no candidate patterns for dtype %s", target)
	}

	best := ""
	bestMatches := 0
	for _, layout := range candidates {
		matches := 0
		for _, s := range sample {
			if _, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
				matches++
			}
		}
		if matches == len(sample) {
			return layout, nil
		}
		if matches > bestMatches {
			best, bestMatches = layout, matches
		}
	}
	if bestMatches > 0 {
		return best, nil
	}
	return "", fmt.Errorf("could not infer a %s format from sample %q", target.Kind, sample)
}
