// Package moderation gates user-submitted text before it is stored and shown
// to other visitors. A local rule-based pre-filter runs first; text that
// passes it is scored by the Perspective API and compared against fixed
// per-attribute thresholds.
package moderation

// Attribute names one score reported by the scoring oracle.
type Attribute string

const (
	AttrToxicity       Attribute = "toxicity"
	AttrSevereToxicity Attribute = "severe_toxicity"
	AttrIdentityAttack Attribute = "identity_attack"
	AttrInsult         Attribute = "insult"
	AttrProfanity      Attribute = "profanity"
	AttrThreat         Attribute = "threat"
)

// Attributes is the order in which scores are checked against thresholds.
// The first attribute wins a tie for primary concern.
var Attributes = []Attribute{
	AttrToxicity,
	AttrSevereToxicity,
	AttrIdentityAttack,
	AttrInsult,
	AttrProfanity,
	AttrThreat,
}

// Flags raised by the pre-filter and the orchestrator.
const (
	FlagLength            = "length"
	FlagConcerningContent = "concerning_content"
	FlagSpam              = "spam"
	FlagError             = "error"
)

// Scores holds one value in [0,1] per attribute. Attributes that were not
// scored are zero.
type Scores struct {
	Toxicity       float64 `json:"toxicity"`
	SevereToxicity float64 `json:"severeToxicity"`
	IdentityAttack float64 `json:"identityAttack"`
	Insult         float64 `json:"insult"`
	Profanity      float64 `json:"profanity"`
	Threat         float64 `json:"threat"`
}

// Get returns the score for attr, or 0 for an unknown attribute.
func (s Scores) Get(attr Attribute) float64 {
	switch attr {
	case AttrToxicity:
		return s.Toxicity
	case AttrSevereToxicity:
		return s.SevereToxicity
	case AttrIdentityAttack:
		return s.IdentityAttack
	case AttrInsult:
		return s.Insult
	case AttrProfanity:
		return s.Profanity
	case AttrThreat:
		return s.Threat
	}
	return 0
}

func (s *Scores) set(attr Attribute, v float64) {
	v = clamp(v)
	switch attr {
	case AttrToxicity:
		s.Toxicity = v
	case AttrSevereToxicity:
		s.SevereToxicity = v
	case AttrIdentityAttack:
		s.IdentityAttack = v
	case AttrInsult:
		s.Insult = v
	case AttrProfanity:
		s.Profanity = v
	case AttrThreat:
		s.Threat = v
	}
}

func clamp(v float64) float64 {
	if v != v || v < 0 { // NaN or negative
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Result is the verdict for one submission. IsApproved is true exactly when
// FlaggedAttributes is empty, and Reason is set exactly when it is false.
type Result struct {
	IsApproved        bool     `json:"isApproved"`
	Scores            Scores   `json:"scores"`
	FlaggedAttributes []string `json:"flaggedAttributes"`
	Reason            string   `json:"reason,omitempty"`
}

// Flagged reports whether flag is among the result's flagged attributes.
func (r Result) Flagged(flag string) bool {
	for _, f := range r.FlaggedAttributes {
		if f == flag {
			return true
		}
	}
	return false
}

func approve(scores Scores) Result {
	return Result{
		IsApproved:        true,
		Scores:            scores,
		FlaggedAttributes: []string{},
	}
}

func reject(scores Scores, flags []string, reason string) Result {
	return Result{
		IsApproved:        false,
		Scores:            scores,
		FlaggedAttributes: flags,
		Reason:            reason,
	}
}

// Thresholds are the per-attribute cutoffs. A score strictly above its
// threshold flags the attribute.
type Thresholds struct {
	Toxicity       float64
	SevereToxicity float64
	IdentityAttack float64
	Insult         float64
	Profanity      float64
	Threat         float64
}

// DefaultThresholds returns the production cutoffs. Threats and severe
// toxicity are the strictest, profanity the most lenient.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Toxicity:       0.7,
		SevereToxicity: 0.5,
		IdentityAttack: 0.6,
		Insult:         0.7,
		Profanity:      0.8,
		Threat:         0.5,
	}
}

// For returns the cutoff for attr. Unknown attributes are never flagged.
func (t Thresholds) For(attr Attribute) float64 {
	switch attr {
	case AttrToxicity:
		return t.Toxicity
	case AttrSevereToxicity:
		return t.SevereToxicity
	case AttrIdentityAttack:
		return t.IdentityAttack
	case AttrInsult:
		return t.Insult
	case AttrProfanity:
		return t.Profanity
	case AttrThreat:
		return t.Threat
	}
	return 1
}
