// Package matcher resolves free-text category labels to the closest known
// category with a quantified confidence score. Matching never fails: callers
// always get a best-effort candidate plus a confidence signal.
package matcher

import (
	"fmt"
	"math"
	"strings"

	"github.com/sells-group/demographics-cli/internal/taxonomy"
)

// Method classifies how a match was obtained.
type Method string

const (
	MethodExact           Method = "exact"
	MethodCaseInsensitive Method = "case_insensitive"
	MethodSubstring       Method = "substring"
	MethodNumericRange    Method = "numeric_range"
	MethodTokenOverlap    Method = "token_overlap"
)

// Result describes one resolved category match.
type Result struct {
	Input       string  `json:"input"`
	Matched     string  `json:"matched"`
	Score       float64 `json:"score"`
	Method      Method  `json:"method"`
	Explanation string  `json:"explanation"`
	// Confident is false when the best score fell below the floor threshold;
	// the match is still the closest available candidate.
	Confident bool `json:"confident"`
}

// Config holds the scoring thresholds. The tier boundaries are tuned
// empirically and deliberately configurable.
type Config struct {
	FloorThreshold    float64
	PerfectThreshold  float64
	VeryGoodThreshold float64
	GoodThreshold     float64
}

// DefaultConfig returns the tuned threshold set.
func DefaultConfig() Config {
	return Config{
		FloorThreshold:    0.15,
		PerfectThreshold:  0.95,
		VeryGoodThreshold: 0.8,
		GoodThreshold:     0.5,
	}
}

// Matcher resolves input strings against candidate category lists.
type Matcher struct {
	cfg Config
}

// New creates a Matcher. Zero thresholds fall back to defaults.
func New(cfg Config) *Matcher {
	def := DefaultConfig()
	if cfg.FloorThreshold <= 0 {
		cfg.FloorThreshold = def.FloorThreshold
	}
	if cfg.PerfectThreshold <= 0 {
		cfg.PerfectThreshold = def.PerfectThreshold
	}
	if cfg.VeryGoodThreshold <= 0 {
		cfg.VeryGoodThreshold = def.VeryGoodThreshold
	}
	if cfg.GoodThreshold <= 0 {
		cfg.GoodThreshold = def.GoodThreshold
	}
	return &Matcher{cfg: cfg}
}

// Match resolves input to the best candidate. Rule tiers run in priority
// order across the whole candidate set; the first tier with a hit wins and
// the best-scoring candidate within it is returned. A score of 1.0 is
// reserved for exact and case-insensitive matches.
func (m *Matcher) Match(input string, candidates []taxonomy.Category) Result {
	trimmed := strings.TrimSpace(input)
	if len(candidates) == 0 {
		return Result{
			Input:       input,
			Method:      MethodTokenOverlap,
			Explanation: "no candidate categories available",
		}
	}

	if r, ok := m.matchExact(trimmed, candidates); ok {
		r.Input = input
		return r
	}
	if r, ok := m.matchSubstring(trimmed, candidates); ok {
		r.Input = input
		return r
	}
	if r, ok := m.matchNumeric(trimmed, candidates); ok {
		r.Input = input
		return r
	}

	r := m.matchTokens(trimmed, candidates)
	r.Input = input
	return r
}

func (m *Matcher) matchExact(input string, candidates []taxonomy.Category) (Result, bool) {
	for _, c := range candidates {
		if c.Label == input {
			return Result{
				Matched:     c.Label,
				Score:       1.0,
				Method:      MethodExact,
				Explanation: m.tier(1.0) + ": exact label match",
				Confident:   true,
			}, true
		}
	}
	for _, c := range candidates {
		if strings.EqualFold(c.Label, input) {
			return Result{
				Matched:     c.Label,
				Score:       1.0,
				Method:      MethodCaseInsensitive,
				Explanation: m.tier(1.0) + ": case-insensitive label match",
				Confident:   true,
			}, true
		}
	}
	return Result{}, false
}

// matchSubstring checks containment in either direction over normalized
// strings. Score scales with the length ratio shorter/longer and stays in
// [0.6, 0.95).
func (m *Matcher) matchSubstring(input string, candidates []taxonomy.Category) (Result, bool) {
	normInput := normalize(input)
	if len(normInput) < 3 {
		return Result{}, false
	}

	best := Result{}
	for _, c := range candidates {
		normCand := normalize(c.Label)
		if len(normCand) < 3 {
			continue
		}
		if !strings.Contains(normCand, normInput) && !strings.Contains(normInput, normCand) {
			continue
		}
		shorter, longer := len(normInput), len(normCand)
		if shorter > longer {
			shorter, longer = longer, shorter
		}
		ratio := float64(shorter) / float64(longer)
		score := 0.6 + 0.35*ratio*0.999 // keep strictly below 0.95
		if score > best.Score {
			best = Result{
				Matched: c.Label,
				Score:   score,
				Method:  MethodSubstring,
				Explanation: fmt.Sprintf("%s: substring containment, length ratio %.0f%%",
					m.tier(score), ratio*100),
				Confident: score >= m.cfg.FloorThreshold,
			}
		}
	}
	return best, best.Matched != ""
}

// matchNumeric applies only when candidates carry numeric bounds and the
// input yields a number or range. Overlapping ranges score by coverage of the
// input range; disjoint ranges score by normalized midpoint distance. Both
// land in [0.3, 0.9].
func (m *Matcher) matchNumeric(input string, candidates []taxonomy.Category) (Result, bool) {
	inMin, inMax, ok := extractRange(input)
	if !ok {
		return Result{}, false
	}

	best := Result{}
	for _, c := range candidates {
		if c.Bounds == nil {
			continue
		}

		var score float64
		var explanation string

		overlap := math.Min(inMax, c.Bounds.Max) - math.Max(inMin, c.Bounds.Min)
		switch {
		case inMax == inMin && inMin >= c.Bounds.Min && inMin <= c.Bounds.Max:
			// Point input inside the bracket.
			score = 0.9
			explanation = fmt.Sprintf("value %.0f falls inside the bracket", inMin)
		case overlap > 0:
			width := inMax - inMin
			frac := 1.0
			if width > 0 {
				frac = math.Min(overlap/width, 1.0)
			}
			score = 0.3 + 0.6*frac
			explanation = fmt.Sprintf("range overlap covers %.0f%% of the input range", frac*100)
		default:
			dist := math.Abs((inMin+inMax)/2 - c.Bounds.Mid())
			normDist := dist / math.Max(c.Bounds.Width()/2, 1)
			score = 0.3 + 0.6/(1+normDist)
			explanation = fmt.Sprintf("no overlap; closest bracket by midpoint, numeric distance %.0f", dist)
		}

		if score > best.Score {
			best = Result{
				Matched:     c.Label,
				Score:       score,
				Method:      MethodNumericRange,
				Explanation: fmt.Sprintf("%s: %s", m.tier(score), explanation),
				Confident:   score >= m.cfg.FloorThreshold,
			}
		}
	}
	return best, best.Matched != ""
}

// matchTokens is the last tier; it always returns a result so that matching
// never fails outright. Zero overlap yields the first candidate flagged as
// not confident.
func (m *Matcher) matchTokens(input string, candidates []taxonomy.Category) Result {
	inTokens := tokenize(input)

	best := Result{Score: -1}
	for _, c := range candidates {
		j := jaccard(inTokens, tokenize(c.Label))
		if j > best.Score {
			score := math.Min(j, 0.94) // 1.0 is reserved for exact matches
			best = Result{
				Matched: c.Label,
				Score:   score,
				Method:  MethodTokenOverlap,
				Explanation: fmt.Sprintf("%s: token overlap, Jaccard index %.2f",
					m.tier(score), j),
				Confident: score >= m.cfg.FloorThreshold,
			}
		}
	}

	if best.Matched == "" || best.Score <= 0 {
		best = Result{
			Matched:     candidates[0].Label,
			Score:       0,
			Method:      MethodTokenOverlap,
			Explanation: "no measurable similarity; returning the first available category",
			Confident:   false,
		}
	}
	return best
}

// tier maps a score to its human-readable confidence tier.
func (m *Matcher) tier(score float64) string {
	switch {
	case score >= m.cfg.PerfectThreshold:
		return "Perfect Match"
	case score >= m.cfg.VeryGoodThreshold:
		return "Very Good Match"
	case score >= m.cfg.GoodThreshold:
		return "Good Match"
	default:
		return "Limited Match"
	}
}
