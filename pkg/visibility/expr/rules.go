// Package expr hides record paths based on small boolean conditions such as
// `status == "Trancado"` or `extras.hide_age && !cnh`.
//
// Supported operators are ==, !=, &&, || and !, with parentheses. Identifiers
// are wire keys of the record (or of the entry under evaluation); the
// `extras.` prefix reads visibility.Context.Extras.
package expr

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-curriculo/pkg/model"
	"github.com/goliatone/go-curriculo/pkg/visibility"
)

// Wildcard in the index position of a target expands to every entry.
const Wildcard = "*"

// Rule hides Target while When holds. Target is a dotted wire path such as
// "cnh", "cursos.0" or "experiencias.*.fim".
type Rule struct {
	Target string `yaml:"target" json:"target"`
	When   string `yaml:"when" json:"when"`
}

type compiledRule struct {
	target string
	group  model.Group
	suffix string
	cond   node
}

// Rules is a compiled rule set usable as a visibility.Evaluator.
type Rules struct {
	rules []compiledRule
}

var _ visibility.Evaluator = (*Rules)(nil)

// Compile parses every rule up front so malformed conditions fail at startup.
func Compile(rules ...Rule) (*Rules, error) {
	out := &Rules{rules: make([]compiledRule, 0, len(rules))}
	for i, rule := range rules {
		target := strings.TrimSpace(rule.Target)
		if target == "" {
			return nil, fmt.Errorf("expr: rule %d: target is required", i)
		}
		cond, err := parse(rule.When)
		if err != nil {
			return nil, fmt.Errorf("expr: rule %d (%s): %w", i, target, err)
		}

		compiled := compiledRule{target: target, cond: cond}
		parts := strings.SplitN(target, ".", 3)
		if len(parts) >= 2 && parts[1] == Wildcard {
			group, ok := model.ParseGroup(parts[0])
			if !ok {
				return nil, fmt.Errorf("expr: rule %d: unknown group %q", i, parts[0])
			}
			compiled.group = group
			if len(parts) == 3 {
				compiled.suffix = "." + parts[2]
			}
		}
		out.rules = append(out.rules, compiled)
	}
	return out, nil
}

// Eval returns the targets whose condition holds. Wildcard targets are
// evaluated once per entry with the entry's keys in scope.
func (r *Rules) Eval(ctx visibility.Context) ([]string, error) {
	if r == nil || len(r.rules) == 0 {
		return nil, nil
	}
	values, err := recordValues(ctx.Record)
	if err != nil {
		return nil, err
	}

	var hidden []string
	for _, rule := range r.rules {
		if rule.group == "" {
			ok, err := rule.cond.eval(scope{record: values, extras: ctx.Extras})
			if err != nil {
				return nil, fmt.Errorf("expr: %s: %w", rule.target, err)
			}
			if ok {
				hidden = append(hidden, rule.target)
			}
			continue
		}

		entries, _ := values[string(rule.group)].([]any)
		for i, raw := range entries {
			entry, _ := raw.(map[string]any)
			ok, err := rule.cond.eval(scope{entry: entry, record: values, extras: ctx.Extras})
			if err != nil {
				return nil, fmt.Errorf("expr: %s: %w", rule.target, err)
			}
			if ok {
				hidden = append(hidden, string(rule.group)+"."+strconv.Itoa(i)+rule.suffix)
			}
		}
	}
	return hidden, nil
}

// Eval evaluates a single condition against the record scope.
func Eval(condition string, ctx visibility.Context) (bool, error) {
	cond, err := parse(condition)
	if err != nil {
		return false, err
	}
	values, err := recordValues(ctx.Record)
	if err != nil {
		return false, err
	}
	return cond.eval(scope{record: values, extras: ctx.Extras})
}

// recordValues exposes the record under its wire keys.
func recordValues(rec model.Record) (map[string]any, error) {
	raw, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("expr: encode record: %w", err)
	}
	var values map[string]any
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil, fmt.Errorf("expr: decode record: %w", err)
	}
	return values, nil
}

type scope struct {
	entry  map[string]any
	record map[string]any
	extras map[string]any
}

// lookup resolves key against extras (prefix "extras."), then the entry, then
// the record.
func (s scope) lookup(key string) (any, bool) {
	key = strings.TrimSpace(key)
	if rest, ok := strings.CutPrefix(key, "extras."); ok {
		return lookupPath(s.extras, rest)
	}
	if value, ok := lookupPath(s.entry, key); ok {
		return value, true
	}
	return lookupPath(s.record, key)
}

func lookupPath(values map[string]any, path string) (any, bool) {
	if len(values) == 0 || path == "" {
		return nil, false
	}
	if value, ok := values[path]; ok {
		return value, true
	}

	var current any = values
	for _, part := range strings.Split(path, ".") {
		switch typed := current.(type) {
		case map[string]any:
			next, ok := typed[part]
			if !ok {
				return nil, false
			}
			current = next
		case []any:
			idx, err := strconv.Atoi(part)
			if err != nil || idx < 0 || idx >= len(typed) {
				return nil, false
			}
			current = typed[idx]
		default:
			return nil, false
		}
	}
	return current, true
}
