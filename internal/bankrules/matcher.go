package bankrules

import "time"

// Matcher applies an ordered rule list to message bodies.
// It holds no mutable state and is safe for concurrent use.
type Matcher struct {
	rules []Rule
}

// NewMatcher creates a Matcher over rules, evaluated in the given order.
func NewMatcher(rules []Rule) *Matcher {
	return &Matcher{rules: rules}
}

// DefaultMatcher returns a Matcher over DefaultRules.
func DefaultMatcher() *Matcher {
	return NewMatcher(DefaultRules)
}

// RuleFor returns the first rule whose sender matcher accepts body.
func (m *Matcher) RuleFor(body string) (Rule, bool) {
	for _, r := range m.rules {
		if r.Matches(body) {
			return r, true
		}
	}
	return Rule{}, false
}

// Match recognizes body and extracts its fields. Only the first matching
// rule is consulted; if it cannot resolve a positive amount and a
// direction the message is rejected rather than handed to a later rule.
func (m *Matcher) Match(body string, receivedAt time.Time) (Match, bool) {
	r, ok := m.RuleFor(body)
	if !ok {
		return Match{}, false
	}
	return r.Apply(body, receivedAt)
}

// Rules returns the rule keys in priority order.
func (m *Matcher) Rules() []string {
	keys := make([]string, len(m.rules))
	for i, r := range m.rules {
		keys[i] = r.Key
	}
	return keys
}
