package tui

import (
	"go.uber.org/zap"

	"github.com/goliatone/go-curriculo/pkg/model"
	"github.com/goliatone/go-curriculo/pkg/preview"
	"github.com/goliatone/go-curriculo/pkg/render"
)

// Theme captures optional message prefixes the session applies when printing.
type Theme struct {
	InfoPrefix  string
	ErrorPrefix string
}

// Option configures the Session.
type Option func(*Session)

// WithPromptDriver overrides the prompt driver used by the session.
func WithPromptDriver(driver PromptDriver) Option {
	return func(s *Session) {
		if driver != nil {
			s.driver = driver
		}
	}
}

// WithForm edits an existing form instead of a new empty one.
func WithForm(form *model.Form) Option {
	return func(s *Session) {
		if form != nil {
			s.form = form
		}
	}
}

// WithFormOptions configures the form created by the session. Ignored when
// WithForm is used.
func WithFormOptions(options ...model.Option) Option {
	return func(s *Session) {
		s.formOptions = append(s.formOptions, options...)
	}
}

// WithPreview prints the document rendered by renderer once the record is
// complete.
func WithPreview(renderer render.Renderer) Option {
	return func(s *Session) {
		s.preview = renderer
	}
}

// WithClock sets the clock used for the preview age.
func WithClock(clock preview.Clock) Option {
	return func(s *Session) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithMaxAttempts bounds the correction rounds after a failed validation.
func WithMaxAttempts(n int) Option {
	return func(s *Session) {
		if n > 0 {
			s.maxAttempts = n
		}
	}
}

// WithTheme applies optional message prefixes.
func WithTheme(theme Theme) Option {
	return func(s *Session) {
		s.theme = theme
	}
}

// WithLogger sets the logger. Defaults to zap.NewNop.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}
