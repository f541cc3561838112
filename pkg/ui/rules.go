package ui

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/arthur-debert/dbusevents/pkg/errors"
	"github.com/arthur-debert/dbusevents/pkg/rules"
	"github.com/pterm/pterm"
	"gopkg.in/yaml.v3"
)

// RuleView is the printable form of a compiled rule
type RuleView struct {
	Name          string `json:"name" yaml:"name"`
	Path          string `json:"path,omitempty" yaml:"path,omitempty"`
	PathNot       bool   `json:"path_not,omitempty" yaml:"path_not,omitempty"`
	Member        string `json:"member,omitempty" yaml:"member,omitempty"`
	MemberNot     bool   `json:"member_not,omitempty" yaml:"member_not,omitempty"`
	Data          string `json:"data,omitempty" yaml:"data,omitempty"`
	DataNot       bool   `json:"data_not,omitempty" yaml:"data_not,omitempty"`
	Signal        *int   `json:"signal,omitempty" yaml:"signal,omitempty"`
	SignalProcess string `json:"signal_process,omitempty" yaml:"signal_process,omitempty"`
	Exec          string `json:"exec,omitempty" yaml:"exec,omitempty"`
}

// ViewRules converts rules to their printable form, keeping order
func ViewRules(rs []*rules.Rule) []RuleView {
	views := make([]RuleView, 0, len(rs))
	for _, r := range rs {
		v := RuleView{Name: r.Name}
		if r.Path != nil {
			v.Path, v.PathNot = r.Path.Source, r.Path.Negate
		}
		if r.Member != nil {
			v.Member, v.MemberNot = r.Member.Source, r.Member.Negate
		}
		if r.Data != nil {
			v.Data, v.DataNot = r.Data.Source, r.Data.Negate
		}
		if r.Signal != nil {
			offset := r.Signal.Offset
			v.Signal = &offset
			v.SignalProcess = r.Signal.Process
		}
		if r.Exec != nil {
			v.Exec = r.Exec.Command
		}
		views = append(views, v)
	}
	return views
}

// RenderRules writes the rule listing to w in format. FormatAuto must be
// resolved by the caller.
func RenderRules(w io.Writer, format Format, rs []*rules.Rule) error {
	views := ViewRules(rs)

	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(views)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(views); err != nil {
			return errors.Wrap(err, errors.ErrInternal, "failed to encode rules as yaml")
		}
		return enc.Close()
	case FormatTerminal, FormatText:
		return renderRuleTable(w, views, format == FormatTerminal)
	default:
		return errors.Newf(errors.ErrInvalidInput, "unknown format: %v", format)
	}
}

func renderRuleTable(w io.Writer, views []RuleView, styled bool) error {
	if len(views) == 0 {
		_, err := fmt.Fprintln(w, "No rules configured")
		return err
	}

	data := pterm.TableData{{"RULE", "PATH", "MEMBER", "DATA", "SIGNAL", "EXEC"}}
	for _, v := range views {
		signal := "-"
		if v.Signal != nil {
			signal = fmt.Sprintf("%d -> %s", *v.Signal, v.SignalProcess)
		}
		exec := v.Exec
		if exec == "" {
			exec = "-"
		}
		data = append(data, []string{
			v.Name,
			condition(v.Path, v.PathNot),
			condition(v.Member, v.MemberNot),
			condition(v.Data, v.DataNot),
			signal,
			exec,
		})
	}

	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return errors.Wrap(err, errors.ErrInternal, "failed to render rules table")
	}
	if !styled {
		table = pterm.RemoveColorFromString(table)
	}
	_, err = fmt.Fprintln(w, table)
	return err
}

// condition shows an absent pattern as "*" and a negated one with a "!" prefix
func condition(pattern string, negate bool) string {
	switch {
	case pattern == "" && !negate:
		return "*"
	case negate:
		return "!" + pattern
	default:
		return pattern
	}
}

// FormatError renders err as a one-line message
func FormatError(err error, styled bool) string {
	if err == nil {
		return ""
	}
	if !styled {
		return "ERROR " + err.Error()
	}
	return fmt.Sprintf("%s %s", pterm.Error.Prefix.Text, pterm.Error.MessageStyle.Sprint(err.Error()))
}
