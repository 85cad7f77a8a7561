package tui

import (
	"sort"
	"strings"

	"github.com/goliatone/go-curriculo/pkg/render"
)

// State tracks validation feedback keyed by dotted wire paths between
// correction rounds. The record itself lives in the Form.
type State struct {
	errors map[string][]string
	form   []string
}

// NewState seeds the state with field errors.
func NewState(errs map[string][]string) *State {
	return &State{errors: cloneErrors(errs)}
}

// Apply replaces the state with mapping.
func (s *State) Apply(mapping render.ErrorMapping) {
	s.errors = cloneErrors(mapping.Fields)
	s.form = append([]string(nil), mapping.Form...)
}

// Errors returns a copy of the field errors.
func (s *State) Errors() map[string][]string {
	if s == nil {
		return nil
	}
	return cloneErrors(s.errors)
}

// FormErrors returns the summary messages.
func (s *State) FormErrors() []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s.form...)
}

// ErrorsFor returns the errors attached to a dotted path.
func (s *State) ErrorsFor(path string) []string {
	if s == nil || len(s.errors) == 0 {
		return nil
	}
	return s.errors[path]
}

// Paths lists the paths with errors in order.
func (s *State) Paths() []string {
	if s == nil {
		return nil
	}
	out := make([]string, 0, len(s.errors))
	for path := range s.errors {
		out = append(out, path)
	}
	sort.Strings(out)
	return out
}

// Help joins the errors of path for a prompt help line.
func (s *State) Help(path string) string {
	return strings.Join(s.ErrorsFor(path), "; ")
}

// Empty reports whether no feedback is pending.
func (s *State) Empty() bool {
	return s == nil || (len(s.errors) == 0 && len(s.form) == 0)
}

func cloneErrors(src map[string][]string) map[string][]string {
	if len(src) == 0 {
		return nil
	}
	out := make(map[string][]string, len(src))
	for k, v := range src {
		out[k] = append([]string(nil), v...)
	}
	return out
}
