package rules

import "github.com/arthur-debert/dbusevents/pkg/events"

// Matches reports whether every condition of the rule holds for sig
func (r *Rule) Matches(sig events.Signal) bool {
	return r.Path.Satisfied(sig.Path) &&
		r.Member.Satisfied(sig.Member) &&
		r.Data.Satisfied(sig.Data)
}

// Match returns the rules matching sig, in declaration order. It is safe
// for concurrent use.
func (s *RuleSet) Match(sig events.Signal) []*Rule {
	var matched []*Rule
	for _, r := range s.rules {
		if r.Matches(sig) {
			matched = append(matched, r)
		}
	}
	return matched
}
