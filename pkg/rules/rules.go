package rules

import (
	"regexp"

	"github.com/arthur-debert/dbusevents/pkg/config"
	"github.com/arthur-debert/dbusevents/pkg/errors"
	"github.com/arthur-debert/dbusevents/pkg/logging"
	"github.com/arthur-debert/dbusevents/pkg/proc"
)

// Pattern is a compiled condition on one signal field
type Pattern struct {
	Source string
	Negate bool
	re     *regexp.Regexp
}

// Satisfied reports whether s satisfies the condition. A nil pattern is
// always satisfied.
func (p *Pattern) Satisfied(s string) bool {
	if p == nil {
		return true
	}
	return p.Negate != p.re.MatchString(s)
}

// SignalAction sends SIGRTMIN+Offset to the process named Process
type SignalAction struct {
	Offset  int
	Process string
}

// ExecAction runs Command through the configured shell
type ExecAction struct {
	Command string
}

// Rule is one compiled rule. Rules are never mutated after Compile.
type Rule struct {
	Name string

	Path   *Pattern
	Member *Pattern
	Data   *Pattern

	Signal *SignalAction
	Exec   *ExecAction
}

// HasAction reports whether the rule does anything when it matches
func (r *Rule) HasAction() bool {
	return r.Signal != nil || r.Exec != nil
}

// RuleSet is the ordered collection of compiled rules
type RuleSet struct {
	rules []*Rule
}

// Len returns the number of rules
func (s *RuleSet) Len() int {
	return len(s.rules)
}

// Rules returns the rules in declaration order
func (s *RuleSet) Rules() []*Rule {
	out := make([]*Rule, len(s.rules))
	copy(out, s.rules)
	return out
}

// Compile validates decls and builds a RuleSet preserving their order
func Compile(decls []config.RuleDecl) (*RuleSet, error) {
	logger := logging.GetLogger("rules")
	set := &RuleSet{rules: make([]*Rule, 0, len(decls))}

	for _, d := range decls {
		rule, err := compileRule(d)
		if err != nil {
			return nil, err
		}
		if !rule.HasAction() {
			logger.Warn().Str("rule", rule.Name).Msg("Rule has no signal or exec action")
		}
		set.rules = append(set.rules, rule)
	}

	logger.Debug().Int("count", len(set.rules)).Msg("Compiled rules")
	return set, nil
}

func compileRule(d config.RuleDecl) (*Rule, error) {
	rule := &Rule{Name: d.Name}

	var err error
	if rule.Path, err = compilePattern(d.Name, "path", d.Path, d.PathNot); err != nil {
		return nil, err
	}
	if rule.Member, err = compilePattern(d.Name, "member", d.Member, d.MemberNot); err != nil {
		return nil, err
	}
	if rule.Data, err = compilePattern(d.Name, "data", d.Data, d.DataNot); err != nil {
		return nil, err
	}

	switch {
	case d.Signal != nil && d.SignalProcess == nil:
		return nil, invalid(d.Name, "signal_process", "signal requires signal_process")
	case d.Signal == nil && d.SignalProcess != nil:
		logger := logging.GetLogger("rules")
		logger.Warn().Str("rule", d.Name).
			Msg("signal_process has no effect without signal")
	case d.Signal != nil:
		if !proc.ValidOffset(*d.Signal) {
			return nil, invalid(d.Name, "signal", "signal offset out of range").
				WithDetail("max", proc.MaxRealtimeOffset)
		}
		if *d.SignalProcess == "" {
			return nil, invalid(d.Name, "signal_process", "signal_process must not be empty")
		}
		rule.Signal = &SignalAction{Offset: int(*d.Signal), Process: *d.SignalProcess}
	}

	if d.Exec != nil {
		rule.Exec = &ExecAction{Command: *d.Exec}
	}

	return rule, nil
}

func compilePattern(rule, field string, src *string, negate bool) (*Pattern, error) {
	if src == nil {
		return nil, nil
	}
	re, err := regexp.Compile(*src)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigValid, "rule %q: invalid %s pattern", rule, field).
			WithDetail("rule", rule).
			WithDetail("field", field)
	}
	return &Pattern{Source: *src, Negate: negate, re: re}, nil
}

func invalid(rule, field, msg string) *errors.Error {
	return errors.Newf(errors.ErrConfigValid, "rule %q: %s", rule, msg).
		WithDetail("rule", rule).
		WithDetail("field", field)
}
