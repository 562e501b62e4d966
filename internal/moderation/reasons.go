package moderation

// Intensity buckets a score for picking a rejection message.
type Intensity string

const (
	IntensityLow      Intensity = "low"
	IntensityModerate Intensity = "moderate"
	IntensityHigh     Intensity = "high"
)

// IntensityFor maps a score to its bucket: above 0.8 is high, above 0.6 is
// moderate, anything else is low.
func IntensityFor(score float64) Intensity {
	switch {
	case score > 0.8:
		return IntensityHigh
	case score > 0.6:
		return IntensityModerate
	default:
		return IntensityLow
	}
}

const fallbackReason = "Your message may not be appropriate for our supportive community. Please try rephrasing with more kindness."

// reasons holds one sentence per (concern, intensity). Each names the
// problem and suggests a way to rephrase.
var reasons = map[Attribute]map[Intensity]string{
	AttrToxicity: {
		IntensityHigh:     "Your message contains language that may be hurtful to others. The Message Vault is a space for healing and support.",
		IntensityModerate: "Your message may come across as negative. Consider rephrasing with more kindness.",
		IntensityLow:      "Your message might be misunderstood. Could you express this more gently?",
	},
	AttrSevereToxicity: {
		IntensityHigh:     "This message contains severely inappropriate content. Please share something supportive instead.",
		IntensityModerate: "This content is too harsh for our healing space. Please try a gentler approach.",
		IntensityLow:      "This message may be too intense. Consider softening your words.",
	},
	AttrIdentityAttack: {
		IntensityHigh:     "Messages targeting groups or identities are not permitted. Please share something inclusive.",
		IntensityModerate: "Your message may be offensive to certain groups. Please be more inclusive.",
		IntensityLow:      "This might be perceived as targeting certain people. Consider more neutral language.",
	},
	AttrInsult: {
		IntensityHigh:     "Personal attacks have no place in our supportive community. Please try again with kindness.",
		IntensityModerate: "Your message may be hurtful to others. Consider a more supportive approach.",
		IntensityLow:      "This might come across as insulting. Could you phrase it more gently?",
	},
	AttrProfanity: {
		IntensityHigh:     "Strong language may not be appropriate for all visitors. Please express yourself differently.",
		IntensityModerate: "Consider using gentler language that everyone can feel comfortable with.",
		IntensityLow:      "Your language might be too strong for some visitors. Could you soften it?",
	},
	AttrThreat: {
		IntensityHigh:     "Messages containing threats are not allowed. Please share something positive and supportive.",
		IntensityModerate: "Your message may be interpreted as threatening. Please rephrase.",
		IntensityLow:      "Your wording might seem threatening. Could you express this differently?",
	},
}

// Explain returns the rejection message for the primary concern at the
// intensity its score falls into.
func Explain(concern Attribute, score float64) string {
	if byIntensity, ok := reasons[concern]; ok {
		if msg, ok := byIntensity[IntensityFor(score)]; ok {
			return msg
		}
	}
	return fallbackReason
}
