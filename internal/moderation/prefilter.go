package moderation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	DefaultMinLength = 10
	DefaultMaxLength = 500
)

const reasonInappropriate = "Your message contains content that may not be appropriate for our healing space. Please revise and try again."

// DefaultConcerningPhrases are crisis red flags for a mental-health space.
// Entries are lowercase and matched as substrings.
var DefaultConcerningPhrases = []string{
	"kill yourself",
	"end it all",
	"not worth living",
	"better off dead",
	"just die",
}

// SpamRule reports whether text looks like spam.
type SpamRule func(text string) bool

// MatchPattern turns a regular expression into a SpamRule.
func MatchPattern(re *regexp.Regexp) SpamRule {
	return re.MatchString
}

// RepeatedRun matches a run of at least n identical characters, ignoring
// newlines.
func RepeatedRun(n int) SpamRule {
	return func(text string) bool {
		var prev rune
		run := 0
		for _, r := range text {
			if r == '\n' {
				run = 0
				continue
			}
			if run > 0 && r == prev {
				run++
			} else {
				prev, run = r, 1
			}
			if run >= n {
				return true
			}
		}
		return false
	}
}

var (
	urlPattern     = regexp.MustCompile(`https?://`)
	digitsPattern  = regexp.MustCompile(`\b\d{10,}\b`)
	mentionPattern = regexp.MustCompile(`@\w+`)
)

// DefaultSpamRules flags character floods, links, phone-number-like digit
// runs and handles or email addresses.
func DefaultSpamRules() []SpamRule {
	return []SpamRule{
		RepeatedRun(11),
		MatchPattern(urlPattern),
		MatchPattern(digitsPattern),
		MatchPattern(mentionPattern),
	}
}

// PreFilter runs the local checks. It performs no I/O and holds only
// read-only configuration, so one value may be shared by all requests.
type PreFilter struct {
	MinLength         int
	MaxLength         int
	ConcerningPhrases []string
	SpamRules         []SpamRule
}

// NewPreFilter returns a PreFilter with the production rule tables.
func NewPreFilter() *PreFilter {
	return &PreFilter{
		MinLength:         DefaultMinLength,
		MaxLength:         DefaultMaxLength,
		ConcerningPhrases: DefaultConcerningPhrases,
		SpamRules:         DefaultSpamRules(),
	}
}

// Check evaluates text. Length violations short-circuit; phrase and spam
// rules all run and every match adds a flag.
func (p *PreFilter) Check(text string) Result {
	trimmed := strings.TrimSpace(text)
	length := utf8.RuneCountInString(trimmed)

	if length < p.MinLength {
		return reject(Scores{}, []string{FlagLength},
			fmt.Sprintf("Message too short. Please share something meaningful (at least %d characters).", p.MinLength))
	}
	if length > p.MaxLength {
		return reject(Scores{}, []string{FlagLength},
			fmt.Sprintf("Message too long. Please keep it under %d characters to maintain focus.", p.MaxLength))
	}

	if flags := p.Scan(text); len(flags) > 0 {
		return reject(Scores{}, flags, reasonInappropriate)
	}
	return approve(Scores{})
}

// Scan runs the phrase and spam rules without the length bounds, for short
// fields such as signoffs. It returns one flag per matching rule.
func (p *PreFilter) Scan(text string) []string {
	lower := strings.ToLower(strings.TrimSpace(text))
	var flags []string
	for _, phrase := range p.ConcerningPhrases {
		if strings.Contains(lower, phrase) {
			flags = append(flags, FlagConcerningContent)
		}
	}
	for _, rule := range p.SpamRules {
		if rule(text) {
			flags = append(flags, FlagSpam)
		}
	}
	return flags
}
