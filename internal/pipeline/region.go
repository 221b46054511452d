package pipeline

import (
	"fmt"
	"strings"

	"github.com/trendscope/analyzer/internal/domain"
	"github.com/trendscope/analyzer/internal/logger"
)

// RegionPolicy selects how the region filter treats declared locales.
type RegionPolicy string

// Region filter policies. Locale detection from third-party scrapers is
// unreliable, so the permissive policy is the default: reject only on a
// confident foreign match and give ambiguous records the benefit of the doubt.
const (
	// RegionPermissive keeps a post when its region is in the accepted set
	// or when the region is empty/missing.
	RegionPermissive RegionPolicy = "permissive"
	// RegionDenyList keeps a post unless its region is on an explicit
	// deny list of known-foreign codes.
	RegionDenyList RegionPolicy = "deny_list"
)

// RegionFilter discards posts whose declared locale marks them as clearly
// foreign. Order is preserved; the output is always a subset of the input.
type RegionFilter struct {
	policy   RegionPolicy
	accepted map[string]struct{}
	denied   map[string]struct{}
	logger   logger.Logger
}

// RegionConfig configures the region filter.
type RegionConfig struct {
	Policy RegionPolicy `yaml:"policy"`
	// Accepted lists locale codes kept under the permissive policy.
	// Matching is case-insensitive.
	Accepted []string `yaml:"accepted"`
	// Denied lists locale codes rejected under the deny-list policy.
	Denied []string `yaml:"denied"`
}

// NewRegionFilter validates the configuration and builds the filter.
// An empty code set for the chosen policy is a deployment mistake and fails
// loudly here rather than silently passing everything.
func NewRegionFilter(cfg RegionConfig, log logger.Logger) (*RegionFilter, error) {
	if log == nil {
		log = logger.NewNop()
	}

	f := &RegionFilter{policy: cfg.Policy, logger: log}

	switch cfg.Policy {
	case RegionPermissive:
		if len(cfg.Accepted) == 0 {
			return nil, fmt.Errorf("region filter: permissive policy requires a non-empty accepted set")
		}
		f.accepted = toCodeSet(cfg.Accepted)
	case RegionDenyList:
		if len(cfg.Denied) == 0 {
			return nil, fmt.Errorf("region filter: deny-list policy requires a non-empty denied set")
		}
		f.denied = toCodeSet(cfg.Denied)
	default:
		return nil, fmt.Errorf("region filter: unknown policy %q", cfg.Policy)
	}

	return f, nil
}

// Apply filters the posts by declared region. When no record in the input
// carries any region data the filter is an explicit no-op: without a region
// schema there is nothing to judge, and dropping everything would be wrong.
func (f *RegionFilter) Apply(posts []domain.RawPost) []domain.RawPost {
	if len(posts) == 0 {
		return posts
	}

	hasRegionData := false
	for i := range posts {
		if posts[i].RegionCode() != "" {
			hasRegionData = true
			break
		}
	}
	if !hasRegionData {
		f.logger.Debug("region filter skipped, input carries no region data",
			logger.Int("posts", len(posts)))
		return posts
	}

	kept := make([]domain.RawPost, 0, len(posts))
	for i := range posts {
		if f.keep(posts[i].RegionCode()) {
			kept = append(kept, posts[i])
		}
	}

	f.logger.Debug("region filter applied",
		logger.String("policy", string(f.policy)),
		logger.Int("in", len(posts)),
		logger.Int("out", len(kept)))

	return kept
}

// keep reports whether a single region code passes the configured policy.
func (f *RegionFilter) keep(code string) bool {
	switch f.policy {
	case RegionPermissive:
		if code == "" {
			return true
		}
		_, ok := f.accepted[strings.ToUpper(code)]
		return ok
	case RegionDenyList:
		_, denied := f.denied[strings.ToUpper(code)]
		return !denied
	default:
		return true
	}
}

func toCodeSet(codes []string) map[string]struct{} {
	set := make(map[string]struct{}, len(codes))
	for _, c := range codes {
		c = strings.ToUpper(strings.TrimSpace(c))
		if c != "" {
			set[c] = struct{}{}
		}
	}
	return set
}
