package pipeline

import (
	"fmt"
	"sync"

	ahocorasick "github.com/cloudflare/ahocorasick"

	"github.com/trendscope/analyzer/internal/domain"
	"github.com/trendscope/analyzer/internal/logger"
)

// CommercialPolicy selects the scoring strategy for commercial intent.
type CommercialPolicy string

// Commercial classifier policies.
const (
	// CommercialBinary passes a post when its text contains at least one
	// product keyword and no non-exempt foreign commerce term.
	CommercialBinary CommercialPolicy = "binary"
	// CommercialWeighted sums per-occurrence keyword weights and compares
	// against a threshold; the sum is retained as the commercial score.
	CommercialWeighted CommercialPolicy = "weighted"
)

// CommercialConfig configures the commercial-intent classifier.
type CommercialConfig struct {
	Policy CommercialPolicy `yaml:"policy"`
	// Threshold is the minimum weighted score to pass. Observed deployments
	// use 1, 2, or 5.
	Threshold int `yaml:"threshold"`
	// WordBoundary switches keyword matching from substring containment to
	// word-boundary matching. Substring is the default and the historically
	// observed behavior: a keyword may match inside a longer unrelated word.
	WordBoundary bool `yaml:"word_boundary"`
	// NegativeExempt lists substrings exempt from the foreign-term negative
	// check. "link" ships exempt because Turkish sellers write "link in bio"
	// verbatim while genuinely selling domestically.
	NegativeExempt []string `yaml:"negative_exempt"`
}

// CommercialClassifier scores free text for purchase/sale intent using
// configurable keyword rules. Pure and deterministic: the same text and rule
// set always produce the same score. Safe for concurrent use; rule updates
// swap the matcher atomically.
type CommercialClassifier struct {
	mu        sync.RWMutex
	matcher   *ahocorasick.Matcher
	keywords  []string       // folded, in matcher order
	weights   map[string]int // folded keyword -> weight
	negatives []string       // folded foreign commerce terms
	exempt    map[string]struct{}

	cfg    CommercialConfig
	logger logger.Logger
}

// NewCommercialClassifier validates the rule set and builds the classifier.
// Empty keyword tables and non-positive thresholds indicate a deployment
// mistake and fail loudly at construction time.
func NewCommercialClassifier(rules []domain.ScoringRule, cfg CommercialConfig, log logger.Logger) (*CommercialClassifier, error) {
	if log == nil {
		log = logger.NewNop()
	}

	switch cfg.Policy {
	case CommercialBinary, CommercialWeighted:
	default:
		return nil, fmt.Errorf("commercial classifier: unknown policy %q", cfg.Policy)
	}
	if cfg.Policy == CommercialWeighted && cfg.Threshold < 1 {
		return nil, fmt.Errorf("commercial classifier: weighted policy requires threshold >= 1, got %d", cfg.Threshold)
	}

	c := &CommercialClassifier{cfg: cfg, logger: log}
	c.exempt = make(map[string]struct{}, len(cfg.NegativeExempt))
	for _, e := range cfg.NegativeExempt {
		if folded := foldText(e); folded != "" {
			c.exempt[folded] = struct{}{}
		}
	}

	if err := c.rebuild(rules); err != nil {
		return nil, err
	}

	log.Info("commercial classifier initialized",
		logger.String("policy", string(cfg.Policy)),
		logger.Int("threshold", cfg.Threshold),
		logger.Int("keywords", len(c.keywords)),
		logger.Int("negatives", len(c.negatives)),
		logger.Bool("word_boundary", cfg.WordBoundary))

	return c, nil
}

// rebuild constructs the Aho-Corasick automaton from the enabled rules.
func (c *CommercialClassifier) rebuild(rules []domain.ScoringRule) error {
	weights := make(map[string]int)
	var keywords []string
	var negatives []string

	for i := range rules {
		rule := &rules[i]
		if !rule.Enabled {
			continue
		}
		for _, kw := range rule.Keywords {
			folded := foldText(kw)
			if folded == "" {
				continue
			}
			if rule.Tier == domain.KeywordNegative {
				negatives = append(negatives, folded)
				continue
			}
			// A keyword listed by several rules scores at its highest weight.
			if w := rule.EffectiveWeight(); w > weights[folded] {
				if weights[folded] == 0 {
					keywords = append(keywords, folded)
				}
				weights[folded] = w
			}
		}
	}

	if len(keywords) == 0 {
		return fmt.Errorf("commercial classifier: no enabled positive keywords configured")
	}

	c.mu.Lock()
	c.keywords = keywords
	c.weights = weights
	c.negatives = negatives
	c.matcher = ahocorasick.NewStringMatcher(keywords)
	c.mu.Unlock()

	return nil
}

// UpdateRules hot-reloads the keyword tables without restart.
func (c *CommercialClassifier) UpdateRules(rules []domain.ScoringRule) error {
	if err := c.rebuild(rules); err != nil {
		return err
	}
	c.mu.RLock()
	kwCount := len(c.keywords)
	c.mu.RUnlock()
	c.logger.Info("commercial rules updated", logger.Int("keywords", kwCount))
	return nil
}

// Score computes the weighted commercial-intent score for the text. Empty
// text always scores 0. Each keyword occurrence contributes its weight;
// adding an occurrence of any keyword never decreases the score.
func (c *CommercialClassifier) Score(text string) int {
	if text == "" {
		return 0
	}

	folded := foldText(text)

	c.mu.RLock()
	defer c.mu.RUnlock()

	// Single automaton pass finds which keywords are present; occurrences
	// are then counted per present keyword only.
	hits := c.matcher.Match([]byte(folded))

	score := 0
	for _, hit := range hits {
		if hit >= len(c.keywords) {
			continue
		}
		kw := c.keywords[hit]
		if n := countOccurrences(folded, kw, c.cfg.WordBoundary); n > 0 {
			score += n * c.weights[kw]
		}
	}
	return score
}

// Passes applies the configured policy to the text.
func (c *CommercialClassifier) Passes(text string) bool {
	if text == "" {
		return false
	}
	if c.cfg.Policy == CommercialWeighted {
		return c.Score(text) >= c.cfg.Threshold
	}
	return c.passesBinary(text)
}

// passesBinary implements the binary policy: at least one positive keyword,
// vetoed by any non-exempt foreign commerce term.
func (c *CommercialClassifier) passesBinary(text string) bool {
	folded := foldText(text)

	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, neg := range c.negatives {
		if _, ok := c.exempt[neg]; ok {
			continue
		}
		if countOccurrences(folded, neg, c.cfg.WordBoundary) > 0 {
			return false
		}
	}

	hits := c.matcher.Match([]byte(folded))
	for _, hit := range hits {
		if hit < len(c.keywords) && countOccurrences(folded, c.keywords[hit], c.cfg.WordBoundary) > 0 {
			return true
		}
	}
	return false
}

// Annotate scores every post's text and, when filter is set, drops posts
// that fail the configured policy. Scores are always computed so downstream
// reporting can rank by commercial intent even when the filter is inactive.
func (c *CommercialClassifier) Annotate(posts []domain.RawPost, filter bool) []domain.ScoredPost {
	out := make([]domain.ScoredPost, 0, len(posts))
	for i := range posts {
		if filter && !c.Passes(posts[i].Text) {
			continue
		}
		sp := domain.ScoredPost{RawPost: posts[i]}
		sp.CommercialScore = c.Score(posts[i].Text)
		out = append(out, sp)
	}
	return out
}

// Policy returns the configured policy.
func (c *CommercialClassifier) Policy() CommercialPolicy { return c.cfg.Policy }

// Threshold returns the configured weighted threshold.
func (c *CommercialClassifier) Threshold() int { return c.cfg.Threshold }

// KeywordCount returns the number of positive keywords currently loaded.
func (c *CommercialClassifier) KeywordCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.keywords)
}
