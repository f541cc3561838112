package config

import (
	"bytes"
	stderrors "errors"
	"os"
	"sort"

	"github.com/arthur-debert/dbusevents/pkg/errors"
	"github.com/arthur-debert/dbusevents/pkg/logging"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/pelletier/go-toml/v2/unstable"
)

var log = logging.GetLogger("config")

// RuleDecl is one rule table as written in the rules file:
//
//	[bluetooth]
//	path = "^/org/bluez/hci0/dev_.*"
//	member = "PropertiesChanged"
//	data = "Connected"
//	signal = 13
//	signal_process = "waybar"
//	exec = "notify-send bluetooth"
//
// Pointer fields distinguish "absent" from "empty".
type RuleDecl struct {
	Name string `toml:"-"`

	Path      *string `toml:"path"`
	PathNot   bool    `toml:"path_not"`
	Member    *string `toml:"member"`
	MemberNot bool    `toml:"member_not"`
	Data      *string `toml:"data"`
	DataNot   bool    `toml:"data_not"`

	Exec          *string `toml:"exec"`
	Signal        *int64  `toml:"signal"`
	SignalProcess *string `toml:"signal_process"`
}

// LoadRuleDecls reads the rules file. empty is true when the file declares
// no rule tables (no bytes, or only comments and blank lines), which callers
// treat as "nothing to do".
func LoadRuleDecls(path string) (decls []RuleDecl, empty bool, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false, errors.Wrapf(err, errors.ErrConfigLoad, "failed to read rules from %s", path)
	}

	if len(data) == 0 {
		return nil, true, nil
	}

	decls, err = ParseRuleDecls(data)
	if err != nil {
		return nil, false, err
	}
	if len(decls) == 0 {
		return nil, true, nil
	}

	log.Debug().
		Str("path", path).
		Int("rules", len(decls)).
		Msg("Loaded rule declarations")

	return decls, false, nil
}

// ParseRuleDecls decodes rule tables and returns them in the order they are
// declared in the document.
func ParseRuleDecls(data []byte) ([]RuleDecl, error) {
	var byName map[string]RuleDecl
	dec := toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields()
	if err := dec.Decode(&byName); err != nil {
		var strict *toml.StrictMissingError
		if stderrors.As(err, &strict) {
			return nil, errors.Wrap(err, errors.ErrConfigValid, "unknown field in rules file")
		}
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to parse rules file")
	}

	order, err := tableOrder(data)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to scan rules file")
	}

	decls := make([]RuleDecl, 0, len(byName))
	seen := make(map[string]bool, len(byName))
	for _, name := range order {
		decl, ok := byName[name]
		if !ok || seen[name] {
			continue
		}
		seen[name] = true
		decl.Name = name
		decls = append(decls, decl)
	}

	// The scanner and the decoder agree on every well-formed document; this
	// only keeps a rule from being dropped if they ever disagree.
	var rest []string
	for name := range byName {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	for _, name := range rest {
		decl := byName[name]
		decl.Name = name
		decls = append(decls, decl)
	}

	return decls, nil
}

// tableOrder lists top-level keys in first-seen order. A table header
// ([name] or [name.sub]) contributes its first key part, and so does a
// key/value pair that appears before any header (name = { ... }).
func tableOrder(data []byte) ([]string, error) {
	p := unstable.Parser{}
	p.Reset(data)

	var order []string
	seen := map[string]bool{}
	inTable := false

	add := func(n *unstable.Node) {
		it := n.Key()
		if !it.Next() {
			return
		}
		name := string(it.Node().Data)
		if !seen[name] {
			seen[name] = true
			order = append(order, name)
		}
	}

	for p.NextExpression() {
		expr := p.Expression()
		switch expr.Kind {
		case unstable.Table, unstable.ArrayTable:
			inTable = true
			add(expr)
		case unstable.KeyValue:
			if !inTable {
				add(expr)
			}
		}
	}

	return order, p.Error()
}
