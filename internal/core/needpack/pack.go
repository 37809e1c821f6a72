// Package needpack loads and compiles the need vocabulary from the embedded needs.json.
// It prepares trigger tables for the extractor
package needpack

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

//go:embed needs.json
var embedded []byte

type rawKeyword struct {
	Trigger string `json:"trigger"`
	Keyword string `json:"keyword"`
}

type rawObjective struct {
	Trigger   string `json:"trigger"`
	Objective string `json:"objective"`
	// optional keyword contributed when the trigger also carries topical signal
	Keyword string `json:"keyword,omitempty"`
}

type rawGeo struct {
	Names     []string `json:"names"`
	Canonical string   `json:"canonical"`
}

type rawPack struct {
	Version    int                 `json:"version"`
	Meta       map[string]any      `json:"meta"`
	Keywords   []rawKeyword        `json:"keywords"`
	Objectives []rawObjective      `json:"objectives"`
	Geos       []rawGeo            `json:"geos"`
	Urgency    map[string][]string `json:"urgency"`
}

// KeywordRule maps a trigger substring to a canonical keyword
type KeywordRule struct {
	Trigger string
	Keyword string
}

// ObjectiveRule maps a trigger substring to an objective label
// rules are evaluated in pack order, first match wins
type ObjectiveRule struct {
	Trigger   string
	Objective string
	Keyword   string
}

// GeoRule maps one alias name to a canonical geography
type GeoRule struct {
	Name      string
	Canonical string
}

// Pack is a compiled need vocabulary
type Pack struct {
	Version int
	Meta    map[string]any

	// Keywords sorted by trigger for deterministic iteration
	Keywords []KeywordRule

	// Objectives kept in authored order: first match wins
	Objectives []ObjectiveRule

	// Geos sorted by alias name
	Geos []GeoRule

	// Urgency cue phrases, lowercased
	UrgencyHigh   []string
	UrgencyMedium []string
}

// Load returns the compiled pack from the embedded needs.json
func Load() (*Pack, error) {
	return Parse(embedded)
}

// Parse compiles a pack from raw json bytes
func Parse(data []byte) (*Pack, error) {
	var rp rawPack
	if err := json.Unmarshal(data, &rp); err != nil {
		return nil, fmt.Errorf("needpack: parse needs.json: %w", err)
	}
	if rp.Version != 1 {
		return nil, fmt.Errorf("needpack: unsupported needs.json version %d (want 1)", rp.Version)
	}

	p := &Pack{
		Version: rp.Version,
		Meta:    rp.Meta,
	}

	seenKw := make(map[string]struct{}, len(rp.Keywords))
	for _, k := range rp.Keywords {
		trig := norm(k.Trigger)
		kw := norm(k.Keyword)
		if trig == "" || kw == "" {
			return nil, fmt.Errorf("needpack: keyword rule with empty trigger or keyword")
		}
		if _, ok := seenKw[trig]; ok {
			continue
		}
		seenKw[trig] = struct{}{}
		p.Keywords = append(p.Keywords, KeywordRule{Trigger: trig, Keyword: kw})
	}

	for _, o := range rp.Objectives {
		trig := norm(o.Trigger)
		obj := norm(o.Objective)
		if trig == "" || obj == "" {
			return nil, fmt.Errorf("needpack: objective rule with empty trigger or objective")
		}
		p.Objectives = append(p.Objectives, ObjectiveRule{
			Trigger:   trig,
			Objective: obj,
			Keyword:   norm(o.Keyword),
		})
	}

	seenGeo := make(map[string]struct{}, 32)
	for _, g := range rp.Geos {
		canon := strings.TrimSpace(g.Canonical)
		if canon == "" {
			return nil, fmt.Errorf("needpack: geo rule with empty canonical name")
		}
		for _, nm := range g.Names {
			nm = norm(nm)
			if nm == "" {
				continue
			}
			if _, ok := seenGeo[nm]; ok {
				continue
			}
			seenGeo[nm] = struct{}{}
			p.Geos = append(p.Geos, GeoRule{Name: nm, Canonical: canon})
		}
	}

	p.UrgencyHigh = normList(rp.Urgency["high"])
	p.UrgencyMedium = normList(rp.Urgency["medium"])

	// Deterministic iteration for tests/debug; objectives keep authored order
	sort.Slice(p.Keywords, func(i, j int) bool { return p.Keywords[i].Trigger < p.Keywords[j].Trigger })
	sort.Slice(p.Geos, func(i, j int) bool { return p.Geos[i].Name < p.Geos[j].Name })

	return p, nil
}

func norm(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

func normList(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, s := range in {
		s = norm(s)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
