package metadata

import (
	"strings"
	"unicode"

	"github.com/hbollon/go-edlib"

	"github.com/vmunix/costar/internal/cache"
	"github.com/vmunix/costar/internal/domain"
)

// MatchConfidence is the confidence level of a name match.
type MatchConfidence int

const (
	ConfidenceNone   MatchConfidence = iota // Score < 0.70
	ConfidenceLow                           // Score >= 0.70
	ConfidenceMedium                        // Score >= 0.85
	ConfidenceHigh                          // Score >= 0.95
)

func (c MatchConfidence) String() string {
	switch c {
	case ConfidenceHigh:
		return "high"
	case ConfidenceMedium:
		return "medium"
	case ConfidenceLow:
		return "low"
	default:
		return "none"
	}
}

// Match is the best search hit for a typed name.
type Match struct {
	Actor      domain.ActorSummary
	Score      float64 // Jaro-Winkler similarity (0.0-1.0)
	Confidence MatchConfidence
}

// BestMatch picks the candidate whose name is most similar to name.
// Ties keep the earlier candidate, so upstream relevance order breaks them.
func BestMatch(name string, candidates []domain.ActorSummary) (Match, bool) {
	target := cleanName(name)
	if target == "" || len(candidates) == 0 {
		return Match{}, false
	}

	var best Match
	found := false
	for _, c := range candidates {
		score := float64(edlib.JaroWinklerSimilarity(target, cleanName(c.Name)))
		if !found || score > best.Score {
			best = Match{Actor: c, Score: score}
			found = true
		}
	}

	switch {
	case best.Score >= 0.95:
		best.Confidence = ConfidenceHigh
	case best.Score >= 0.85:
		best.Confidence = ConfidenceMedium
	case best.Score >= 0.70:
		best.Confidence = ConfidenceLow
	default:
		return Match{Score: best.Score}, false
	}
	return best, true
}

// cleanName folds case, strips punctuation and collapses whitespace, so
// "Robert Downey, Jr." and "robert downey jr" compare equal.
func cleanName(s string) string {
	s = cache.NormalizeQuery(s)
	s = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			return r
		}
		if r == '-' {
			return ' '
		}
		return -1
	}, s)
	return strings.Join(strings.Fields(s), " ")
}
