// Package rank scores a contact roster against a need descriptor and returns
// a stably ordered, justified top-N shortlist
package rank

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"warmintro/internal/core/extract"
	pstrings "warmintro/internal/platform/strings"
	ptime "warmintro/internal/platform/time"
)

// Contact is one known relationship. Read-only to the ranker and drafter
type Contact struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Title        string     `json:"title,omitempty"`
	Company      string     `json:"company,omitempty"`
	Location     string     `json:"location,omitempty"`
	ProfileRef   string     `json:"profile_ref,omitempty"`
	Relationship float64    `json:"relationship_strength"`
	LastContact  *time.Time `json:"last_interaction,omitempty"`
	Tags         []string   `json:"tags,omitempty"`
	Notes        string     `json:"notes,omitempty"`
	Source       string     `json:"source,omitempty"`
}

// Validate bounds-checks fields set by ingestion
func (c Contact) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("contact: empty id")
	}
	if c.Name == "" {
		return fmt.Errorf("contact %s: empty name", c.ID)
	}
	if c.Relationship < 0 || c.Relationship > 1 {
		return fmt.Errorf("contact %s: relationship_strength %v out of [0,1]", c.ID, c.Relationship)
	}
	return nil
}

// RankedContact is one contact surviving the relevance floor for one need.
// RankScore is reproducible from the sub-scores and the fixed weights
type RankedContact struct {
	Contact        Contact  `json:"contact"`
	RankScore      float64  `json:"rank_score"`
	Justification  string   `json:"justification"`
	Relevance      float64  `json:"relevance"`
	Relationship   float64  `json:"relationship"`
	Recency        float64  `json:"recency"`
	GeoMatch       bool     `json:"geo_match"`
	MatchedTags    []string `json:"matched_tags,omitempty"`
	ConnectorBonus float64  `json:"connector_bonus"` // reserved, [0,0.5], default 0
	RiskDiscount   float64  `json:"risk_discount"`   // reserved, [-0.5,0], default 0
}

// Weights is the fixed weighting scheme. Active weights must sum to 1.0
type Weights struct {
	Relevance    float64
	Relationship float64
	Recency      float64
	Geo          float64
}

// Config tunes the ranker. Zero value is not valid; use DefaultConfig
type Config struct {
	Weights Weights

	// relevance increments per match kind, accumulated then clamped to 1.0
	TagMatchIncrement   float64
	TitleMatchIncrement float64

	// contacts whose relevance is below the floor are discarded
	RelevanceFloor float64

	// recency bands in days and their scores
	RecencyFreshDays int
	RecencyWarmDays  int
	RecencyFresh     float64
	RecencyWarm      float64
	RecencyStale     float64
	RecencyNever     float64

	// shortlist length when the caller passes topN <= 0
	DefaultTopN int
}

// DefaultConfig returns the documented weighting scheme:
// 0.4 relevance, 0.3 relationship, 0.2 recency, 0.1 geography
func DefaultConfig() Config {
	return Config{
		Weights: Weights{
			Relevance:    0.4,
			Relationship: 0.3,
			Recency:      0.2,
			Geo:          0.1,
		},
		TagMatchIncrement:   0.3,
		TitleMatchIncrement: 0.2,
		RelevanceFloor:      0.2,
		RecencyFreshDays:    30,
		RecencyWarmDays:     90,
		RecencyFresh:        1.0,
		RecencyWarm:         0.7,
		RecencyStale:        0.3,
		RecencyNever:        0.8,
		DefaultTopN:         5,
	}
}

// Validate checks weight and band sanity
func (c Config) Validate() error {
	sum := c.Weights.Relevance + c.Weights.Relationship + c.Weights.Recency + c.Weights.Geo
	if math.Abs(sum-1.0) > 1e-9 {
		return fmt.Errorf("rank: weights sum to %v, want 1.0", sum)
	}
	if c.Weights.Relevance < 0 || c.Weights.Relationship < 0 || c.Weights.Recency < 0 || c.Weights.Geo < 0 {
		return fmt.Errorf("rank: negative weight")
	}
	if c.RelevanceFloor < 0 || c.RelevanceFloor > 1 {
		return fmt.Errorf("rank: relevance floor %v out of [0,1]", c.RelevanceFloor)
	}
	if c.RecencyFreshDays <= 0 || c.RecencyWarmDays <= c.RecencyFreshDays {
		return fmt.Errorf("rank: recency bands %d/%d invalid", c.RecencyFreshDays, c.RecencyWarmDays)
	}
	for _, v := range []float64{c.RecencyFresh, c.RecencyWarm, c.RecencyStale, c.RecencyNever} {
		if v < 0 || v > 1 {
			return fmt.Errorf("rank: recency score %v out of [0,1]", v)
		}
	}
	if c.TagMatchIncrement <= 0 || c.TitleMatchIncrement <= 0 {
		return fmt.Errorf("rank: non-positive relevance increment")
	}
	if c.DefaultTopN <= 0 {
		return fmt.Errorf("rank: default top n %d invalid", c.DefaultTopN)
	}
	return nil
}

// Ranker scores rosters against needs with a fixed configuration
type Ranker struct {
	cfg Config
	now func() time.Time
}

// Option mutates a Ranker during New
type Option func(*Ranker)

// WithClock overrides the wall clock used for recency banding
func WithClock(fn func() time.Time) Option {
	return func(r *Ranker) { r.now = fn }
}

// New constructs a Ranker, validating cfg
func New(cfg Config, opts ...Option) (*Ranker, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	r := &Ranker{cfg: cfg, now: time.Now}
	for _, o := range opts {
		o(r)
	}
	return r, nil
}

// MustNew is New that panics on invalid config, for wiring defaults
func MustNew(cfg Config, opts ...Option) *Ranker {
	r, err := New(cfg, opts...)
	if err != nil {
		panic(err)
	}
	return r
}

// Rank scores every contact against need and returns the top shortlist plus
// the unfiltered roster size. An empty KeywordsMust short-circuits to an empty
// list. Pure: identical inputs yield byte-identical ordered output
func (r *Ranker) Rank(need extract.NeedDescriptor, roster []Contact, topN int) ([]RankedContact, int) {
	total := len(roster)
	if !need.HasSignal() {
		return nil, total
	}
	if topN <= 0 {
		topN = r.cfg.DefaultTopN
	}

	now := r.now().UTC()
	out := make([]RankedContact, 0, len(roster))
	for _, c := range roster {
		rc := r.score(need, c, now)
		if rc.Relevance < r.cfg.RelevanceFloor {
			continue
		}
		out = append(out, rc)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].RankScore != out[j].RankScore {
			return out[i].RankScore > out[j].RankScore
		}
		if out[i].Relationship != out[j].Relationship {
			return out[i].Relationship > out[j].Relationship
		}
		return out[i].Contact.ID < out[j].Contact.ID
	})

	if len(out) > topN {
		out = out[:topN]
	}
	return out, total
}

// score computes the sub-scores and composite for one contact
func (r *Ranker) score(need extract.NeedDescriptor, c Contact, now time.Time) RankedContact {
	relevance := 0.0
	var matched []string
	matchedSeen := make(map[string]struct{}, 4)

	for _, kw := range need.KeywordsMust {
		for _, tag := range c.Tags {
			if pstrings.EqualFoldContains(kw, tag) {
				relevance += r.cfg.TagMatchIncrement
				lt := strings.ToLower(tag)
				if _, ok := matchedSeen[lt]; !ok {
					matchedSeen[lt] = struct{}{}
					matched = append(matched, tag)
				}
			}
		}
		if c.Title != "" && pstrings.ContainsFold(c.Title, kw) {
			relevance += r.cfg.TitleMatchIncrement
		}
	}
	if relevance > 1.0 {
		relevance = 1.0
	}

	relationship := clamp01(c.Relationship)
	recency := r.recencyScore(c.LastContact, now)
	geo := geoMatch(need.Geography, c.Location)

	geoTerm := 0.0
	if geo {
		geoTerm = 1.0
	}
	composite := r.cfg.Weights.Relevance*relevance +
		r.cfg.Weights.Relationship*relationship +
		r.cfg.Weights.Recency*recency +
		r.cfg.Weights.Geo*geoTerm
	composite = clamp01(composite)

	return RankedContact{
		Contact:       c,
		RankScore:     composite,
		Relevance:     relevance,
		Relationship:  relationship,
		Recency:       recency,
		GeoMatch:      geo,
		MatchedTags:   matched,
		Justification: justification(c, relevance, relationship, recency, geo, matched),
	}
}

// recencyScore bands days since last interaction; never-contacted reads as a
// fresh, low-risk opportunity rather than a penalty
func (r *Ranker) recencyScore(last *time.Time, now time.Time) float64 {
	if last == nil || last.IsZero() {
		return r.cfg.RecencyNever
	}
	days := ptime.DaysSince(now, *last)
	switch {
	case days <= r.cfg.RecencyFreshDays:
		return r.cfg.RecencyFresh
	case days <= r.cfg.RecencyWarmDays:
		return r.cfg.RecencyWarm
	default:
		return r.cfg.RecencyStale
	}
}

func geoMatch(geos []string, location string) bool {
	if location == "" {
		return false
	}
	for _, g := range geos {
		if pstrings.ContainsFold(location, g) {
			return true
		}
	}
	return false
}

// justification names each contributing factor with its numeric value
func justification(c Contact, relevance, relationship, recency float64, geo bool, matched []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "relevance %.2f", relevance)
	if len(matched) > 0 {
		fmt.Fprintf(&b, " (tags: %s)", strings.Join(matched, ", "))
	}
	fmt.Fprintf(&b, ", relationship %.2f, recency %.2f", relationship, recency)
	if geo {
		b.WriteString(", geography match")
	}
	if c.Company != "" {
		title := c.Title
		if title == "" {
			title = "contact"
		}
		fmt.Fprintf(&b, "; %s at %s", title, c.Company)
	}
	return b.String()
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
