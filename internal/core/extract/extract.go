// Package extract turns raw free text into a structured need descriptor using
// deterministic, case-insensitive substring matching against the compiled need vocabulary
package extract

import (
	"strings"
	"time"

	"warmintro/internal/core/needpack"
	"warmintro/internal/core/textnorm"

	"github.com/google/uuid"
)

// Objective classifies what the author is seeking
type Objective string

// Objective labels
const (
	ObjectiveUnknown Objective = "unknown"
	ObjectiveIntro   Objective = "intro"
	ObjectiveHire    Objective = "hire"
	ObjectiveSell    Objective = "sell"
	ObjectiveRaise   Objective = "raise"
	ObjectivePartner Objective = "partner"
	ObjectiveAdvisor Objective = "advisor"
	ObjectivePress   Objective = "press"
)

// Urgency buckets how soon the author needs movement
type Urgency string

// Urgency labels
const (
	UrgencyHigh   Urgency = "high"
	UrgencyMedium Urgency = "medium"
	UrgencyLow    Urgency = "low"
)

// NeedDescriptor is the structured extraction of one need-expression event.
// KeywordsMust is derived deterministically from RawInput and never mutated
// afterward; an empty KeywordsMust means no actionable need was detected
type NeedDescriptor struct {
	ID              uuid.UUID           `json:"id"`
	CreatedAt       time.Time           `json:"created_at"`
	RawInput        string              `json:"raw_input"`
	Author          string              `json:"author,omitempty"`
	Objective       Objective           `json:"objective"`
	Persona         map[string][]string `json:"persona,omitempty"`
	Geography       []string            `json:"geography,omitempty"`
	KeywordsMust    []string            `json:"keywords_must"`
	KeywordsExclude []string            `json:"keywords_exclude,omitempty"`
	Urgency         Urgency             `json:"urgency"`
}

// HasSignal reports whether the descriptor carries an actionable need
func (n NeedDescriptor) HasSignal() bool { return len(n.KeywordsMust) > 0 }

// Extractor matches text against a compiled need pack
type Extractor struct {
	pack *needpack.Pack
	norm *textnorm.Normalizer

	// seams for tests
	now   func() time.Time
	newID func() uuid.UUID
}

// Option mutates an Extractor during New
type Option func(*Extractor)

// WithClock overrides the wall clock
func WithClock(fn func() time.Time) Option {
	return func(e *Extractor) { e.now = fn }
}

// WithIDGen overrides the id generator
func WithIDGen(fn func() uuid.UUID) Option {
	return func(e *Extractor) { e.newID = fn }
}

// New constructs an Extractor over a compiled pack
func New(p *needpack.Pack, opts ...Option) *Extractor {
	e := &Extractor{
		pack:  p,
		norm:  textnorm.New(),
		now:   time.Now,
		newID: uuid.New,
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Extract classifies rawText into a NeedDescriptor. It never fails: empty or
// malformed input degrades to an empty keyword set and ObjectiveUnknown
func (e *Extractor) Extract(rawText, authorHint string) NeedDescriptor {
	nd := NeedDescriptor{
		ID:        e.newID(),
		CreatedAt: e.now().UTC(),
		RawInput:  rawText,
		Author:    strings.TrimSpace(authorHint),
		Objective: ObjectiveUnknown,
		Urgency:   UrgencyLow,
	}

	text := e.norm.Normalize(rawText)
	if text == "" {
		return nd
	}

	seen := make(map[string]struct{}, 8)
	addKeyword := func(kw string) {
		if kw == "" {
			return
		}
		if _, ok := seen[kw]; ok {
			return
		}
		seen[kw] = struct{}{}
		nd.KeywordsMust = append(nd.KeywordsMust, kw)
	}

	for _, r := range e.pack.Keywords {
		if strings.Contains(text, r.Trigger) {
			addKeyword(r.Keyword)
		}
	}

	// first matching objective rule wins, in pack order
	for _, r := range e.pack.Objectives {
		if strings.Contains(text, r.Trigger) {
			nd.Objective = Objective(r.Objective)
			addKeyword(r.Keyword)
			break
		}
	}
	if nd.Objective == ObjectiveUnknown && len(nd.KeywordsMust) > 0 {
		// topical signal without a stated objective reads as an intro ask
		nd.Objective = ObjectiveIntro
	}

	// geo aliases match on word boundaries so short forms like "sf" stay precise
	geoSeen := make(map[string]struct{}, 4)
	for _, g := range e.pack.Geos {
		if !containsWord(text, g.Name) {
			continue
		}
		if _, ok := geoSeen[g.Canonical]; ok {
			continue
		}
		geoSeen[g.Canonical] = struct{}{}
		nd.Geography = append(nd.Geography, g.Canonical)
	}

	nd.Urgency = classifyUrgency(text, e.pack)
	nd.Persona = personaFor(nd.Objective)

	return nd
}

func classifyUrgency(text string, p *needpack.Pack) Urgency {
	for _, cue := range p.UrgencyHigh {
		if strings.Contains(text, cue) {
			return UrgencyHigh
		}
	}
	for _, cue := range p.UrgencyMedium {
		if strings.Contains(text, cue) {
			return UrgencyMedium
		}
	}
	return UrgencyLow
}

// personaFor maps an objective to the persona attributes the ask implies
func personaFor(o Objective) map[string][]string {
	switch o {
	case ObjectiveRaise:
		return map[string][]string{"role": {"investor"}}
	case ObjectiveHire:
		return map[string][]string{"role": {"candidate"}}
	case ObjectivePartner:
		return map[string][]string{"role": {"partner"}}
	case ObjectiveAdvisor:
		return map[string][]string{"role": {"advisor"}}
	case ObjectivePress:
		return map[string][]string{"role": {"journalist"}}
	case ObjectiveSell:
		return map[string][]string{"role": {"buyer"}}
	default:
		return nil
	}
}

// containsWord reports whether phrase occurs in text bounded by non-alphanumerics
func containsWord(text, phrase string) bool {
	if phrase == "" {
		return false
	}
	for i := 0; ; {
		j := strings.Index(text[i:], phrase)
		if j < 0 {
			return false
		}
		j += i
		end := j + len(phrase)
		leftOK := j == 0 || !isWordByte(text[j-1])
		rightOK := end == len(text) || !isWordByte(text[end])
		if leftOK && rightOK {
			return true
		}
		i = j + 1
	}
}

func isWordByte(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9'
}
