package visibility

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/goliatone/go-curriculo/pkg/model"
)

// Evaluator contributes hidden field paths for a record. Paths are dotted wire
// paths such as "formacoes.1.fim" or "cnh".
type Evaluator interface {
	Eval(ctx Context) ([]string, error)
}

// Context provides inputs to an Evaluator. Record is the snapshot being
// rendered; Extras lets callers inject arbitrary inputs such as feature flags.
type Context struct {
	Record model.Record
	Extras map[string]any
}

// EvaluatorFunc adapts a function into an Evaluator.
type EvaluatorFunc func(ctx Context) ([]string, error)

// Eval delegates to the underlying function.
func (fn EvaluatorFunc) Eval(ctx Context) ([]string, error) {
	return fn(ctx)
}

// Set holds the hidden paths of one evaluation. The zero value hides nothing.
type Set map[string]struct{}

// Hidden reports whether path is hidden.
func (s Set) Hidden(path string) bool {
	_, ok := s[path]
	return ok
}

// Visible is the negation of Hidden.
func (s Set) Visible(path string) bool {
	return !s.Hidden(path)
}

// Paths returns the hidden paths sorted.
func (s Set) Paths() []string {
	out := make([]string, 0, len(s))
	for path := range s {
		out = append(out, path)
	}
	slices.Sort(out)
	return out
}

// EntryPath builds the dotted path of a whole entry. Hiding it drops the entry
// from the document.
func EntryPath(group model.Group, index int) string {
	return string(group) + "." + strconv.Itoa(index)
}

// Path builds the dotted path of a group sub-field.
func Path(group model.Group, index int, field model.EntryField) string {
	return string(group) + "." + strconv.Itoa(index) + "." + string(field)
}

// Evaluate applies the default rules: end months are hidden while an activity
// is ongoing and the license section is hidden while the code is empty. The
// result is recomputed from rec on every call and never stored.
func Evaluate(rec model.Record) Set {
	set := Set{}
	for _, path := range OngoingEnd(rec) {
		set[path] = struct{}{}
	}
	for _, path := range AbsentLicense(rec) {
		set[path] = struct{}{}
	}
	return set
}

// EvaluateWith applies the default rules followed by the given evaluators.
func EvaluateWith(ctx Context, evaluators ...Evaluator) (Set, error) {
	set := Evaluate(ctx.Record)
	for i, evaluator := range evaluators {
		if evaluator == nil {
			continue
		}
		paths, err := evaluator.Eval(ctx)
		if err != nil {
			return nil, fmt.Errorf("visibility: evaluator %d: %w", i, err)
		}
		for _, path := range paths {
			if path = strings.TrimSpace(path); path != "" {
				set[path] = struct{}{}
			}
		}
	}
	return set, nil
}

// OngoingEnd lists the end-month paths of in-progress education, in-progress
// courses and current jobs.
func OngoingEnd(rec model.Record) []string {
	var out []string
	for i, entry := range rec.Education {
		if entry.Status.Ongoing() {
			out = append(out, Path(model.GroupEducation, i, model.EntryEnd))
		}
	}
	for i, entry := range rec.Courses {
		if entry.Status.Ongoing() {
			out = append(out, Path(model.GroupCourses, i, model.EntryEnd))
		}
	}
	for i, job := range rec.Jobs {
		if job.Current {
			out = append(out, Path(model.GroupJobs, i, model.EntryEnd))
		}
	}
	return out
}

// AbsentLicense hides the license section when no code is stored.
func AbsentLicense(rec model.Record) []string {
	if strings.TrimSpace(rec.License) == "" {
		return []string{string(model.FieldLicense)}
	}
	return nil
}
