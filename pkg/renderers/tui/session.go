// Package tui drives a résumé Form from the terminal, one prompt at a time.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-curriculo/pkg/model"
	"github.com/goliatone/go-curriculo/pkg/preview"
	"github.com/goliatone/go-curriculo/pkg/render"
	"github.com/goliatone/go-curriculo/pkg/visibility"
)

const defaultMaxAttempts = 3

var scalarLabels = map[model.ScalarField]string{
	model.FieldName:      "Nome completo",
	model.FieldPhone:     "Telefone",
	model.FieldEmail:     "Email",
	model.FieldCity:      "Cidade",
	model.FieldBirthDate: "Data de nascimento (AAAA-MM-DD)",
	model.FieldObjective: "Objetivo",
	model.FieldLicense:   "Categoria da CNH",
}

var groupLabels = map[model.Group]string{
	model.GroupEducation: "Formação acadêmica",
	model.GroupKnowledge: "Conhecimento",
	model.GroupCourses:   "Curso",
	model.GroupJobs:      "Experiência profissional",
	model.GroupLanguages: "Idioma",
}

var entryLabels = map[model.EntryField]string{
	model.EntryCourse:           "Curso",
	model.EntrySchool:           "Escola",
	model.EntryInstitution:      "Instituição",
	model.EntryStatus:           "Status",
	model.EntryStart:            "Início (AAAA-MM)",
	model.EntryEnd:              "Fim (AAAA-MM)",
	model.EntryCompany:          "Empresa",
	model.EntryRole:             "Cargo",
	model.EntryCurrent:          "Trabalho atual?",
	model.EntryResponsibilities: "Atribuição (vazio para concluir)",
	model.EntryDescription:      "Descrição",
	model.EntryLanguage:         "Idioma",
	model.EntryProficiency:      "Nível",
}

// Entry actions offered for entries that already exist.
const (
	actionKeep = iota
	actionEdit
	actionRemove
)

var entryActions = []string{"Manter", "Editar", "Remover"}

// Session edits one Form. It is not safe for concurrent use, like the Form
// it owns.
type Session struct {
	driver      PromptDriver
	form        *model.Form
	formOptions []model.Option
	preview     render.Renderer
	clock       preview.Clock
	maxAttempts int
	theme       Theme
	logger      *zap.Logger
	state       *State
}

// New constructs a session with defaults (survey driver, new empty form).
func New(options ...Option) *Session {
	s := &Session{
		maxAttempts: defaultMaxAttempts,
		clock:       preview.SystemClock{},
		logger:      zap.NewNop(),
		state:       NewState(nil),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	if s.driver == nil {
		s.driver = NewSurveyDriver(nil)
	}
	if s.form == nil {
		s.form = model.NewForm(append(s.formOptions, model.WithLogger(s.logger))...)
	}
	return s
}

// Form returns the form being edited.
func (s *Session) Form() *model.Form {
	return s.form
}

// State returns the validation feedback of the last round.
func (s *Session) State() *State {
	return s.state
}

// Run prompts every scalar and group, then re-prompts the fields reported by
// validation until the record is complete. The returned record is a snapshot;
// on error it holds whatever was collected so far.
func (s *Session) Run(ctx context.Context) (model.Record, error) {
	if ctx == nil {
		return model.Record{}, errors.New("tui: context is required")
	}

	for _, field := range model.ScalarFields {
		if err := s.promptScalar(ctx, field); err != nil {
			return s.form.Snapshot(), err
		}
	}
	for _, group := range model.Groups {
		if err := s.promptGroup(ctx, group); err != nil {
			return s.form.Snapshot(), err
		}
	}
	if err := s.correct(ctx); err != nil {
		return s.form.Snapshot(), err
	}
	if err := s.showPreview(ctx); err != nil {
		return s.form.Snapshot(), err
	}
	return s.form.Snapshot(), nil
}

func (s *Session) promptScalar(ctx context.Context, field model.ScalarField) error {
	current := s.form.Scalar(field)
	help := s.state.Help(string(field))
	label := scalarLabels[field]

	var (
		value string
		err   error
	)
	switch field {
	case model.FieldLicense:
		var has bool
		has, err = s.driver.Confirm(ctx, ConfirmConfig{Message: "Possui CNH?", Default: current != ""})
		if err != nil {
			return err
		}
		if !has {
			s.form.SetScalar(field, "")
			return nil
		}
		value, err = s.driver.Input(ctx, InputConfig{Message: label, Default: current, Help: help})
	case model.FieldObjective:
		value, err = s.driver.TextArea(ctx, TextAreaConfig{Message: label, Default: current, Help: help})
	case model.FieldBirthDate:
		value, err = s.driver.Input(ctx, InputConfig{Message: label, Default: current, Help: help, Validator: validDate})
	default:
		value, err = s.driver.Input(ctx, InputConfig{Message: label, Default: current, Help: help})
	}
	if err != nil {
		return err
	}
	s.form.SetScalar(field, value)
	return nil
}

func (s *Session) promptGroup(ctx context.Context, group model.Group) error {
	label := groupLabels[group]

	for i := 0; i < s.form.Len(group); {
		entry, err := s.form.Entry(group, i)
		if err != nil {
			return fmt.Errorf("tui: %w", err)
		}
		action, err := s.driver.Select(ctx, SelectConfig{
			Message:      label + ": " + summary(entry),
			Options:      entryActions,
			DefaultIndex: actionKeep,
		})
		if err != nil {
			return err
		}
		switch action {
		case actionEdit:
			if err := s.promptEntry(ctx, group, i); err != nil {
				return err
			}
			i++
		case actionRemove:
			if err := s.form.RemoveEntry(group, i); err != nil {
				return fmt.Errorf("tui: %w", err)
			}
		default:
			i++
		}
	}

	add, err := s.driver.Confirm(ctx, ConfirmConfig{Message: "Adicionar " + strings.ToLower(label) + "?"})
	if err != nil {
		return err
	}
	for add {
		if err := s.form.AppendEntry(group, nil); err != nil {
			return fmt.Errorf("tui: %w", err)
		}
		if err := s.promptEntry(ctx, group, s.form.Len(group)-1); err != nil {
			return err
		}
		add, err = s.driver.Confirm(ctx, ConfirmConfig{Message: "Adicionar outro?"})
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) promptEntry(ctx context.Context, group model.Group, index int) error {
	for _, field := range promptOrder(group) {
		if field == model.EntryEnd {
			hidden := visibility.Evaluate(s.form.Snapshot())
			if hidden.Hidden(visibility.Path(group, index, field)) {
				continue
			}
		}

		entry, err := s.form.Entry(group, index)
		if err != nil {
			return fmt.Errorf("tui: %w", err)
		}
		current := fieldValue(entry, field)
		kind, _ := model.EntryKind(group, field)
		label := entryLabels[field]

		var value any
		switch kind {
		case model.KindList:
			if err := s.promptSubItems(ctx, group, index, field); err != nil {
				return err
			}
			continue
		case model.KindFlag:
			checked, _ := current.(bool)
			value, err = s.driver.Confirm(ctx, ConfirmConfig{Message: label, Default: checked})
		case model.KindChoice:
			options := model.Choices(group, field)
			text, _ := current.(string)
			var idx int
			idx, err = s.driver.Select(ctx, SelectConfig{Message: label, Options: options, DefaultIndex: indexOf(options, text), PageSize: 10})
			if err == nil {
				value = ""
				if idx >= 0 && idx < len(options) {
					value = options[idx]
				}
			}
		case model.KindMonth:
			text, _ := current.(string)
			value, err = s.driver.Input(ctx, InputConfig{Message: label, Default: text, Validator: validMonth})
		default:
			text, _ := current.(string)
			value, err = s.driver.Input(ctx, InputConfig{Message: label, Default: text})
		}
		if err != nil {
			return err
		}
		if err := s.form.UpdateEntry(group, index, field, value); err != nil {
			return fmt.Errorf("tui: %w", err)
		}
	}
	return nil
}

func (s *Session) promptSubItems(ctx context.Context, group model.Group, index int, field model.EntryField) error {
	entry, err := s.form.Entry(group, index)
	if err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	existing, _ := fieldValue(entry, field).([]string)
	if len(existing) > 0 {
		keep, err := s.driver.Confirm(ctx, ConfirmConfig{
			Message: "Manter atribuições? " + strings.Join(existing, "; "),
			Default: true,
		})
		if err != nil {
			return err
		}
		if !keep {
			for range existing {
				if err := s.form.RemoveSubItem(group, index, field, 0); err != nil {
					return fmt.Errorf("tui: %w", err)
				}
			}
		}
	}

	for {
		value, err := s.driver.Input(ctx, InputConfig{Message: entryLabels[field]})
		if err != nil {
			return err
		}
		if strings.TrimSpace(value) == "" {
			return nil
		}
		if err := s.form.AppendSubItem(group, index, field, value); err != nil {
			return fmt.Errorf("tui: %w", err)
		}
	}
}

// correct validates the form and re-prompts the reported scalars.
func (s *Session) correct(ctx context.Context) error {
	for attempt := 0; ; attempt++ {
		err := s.form.Validate()
		if err == nil {
			s.state = NewState(nil)
			return nil
		}
		var verr *model.ValidationError
		if !errors.As(err, &verr) {
			return err
		}

		s.state.Apply(render.MapValidationErrors(s.form.Snapshot(), err))
		for _, message := range s.state.FormErrors() {
			if err := s.driver.Info(ctx, s.theme.ErrorPrefix+message); err != nil {
				return err
			}
		}
		if attempt >= s.maxAttempts {
			s.logger.Info("validation attempts exhausted", zap.Int("attempts", attempt))
			return fmt.Errorf("%w: %w", ErrTooManyAttempts, err)
		}

		for _, path := range s.state.Paths() {
			field, ok := model.ParseScalarField(path)
			if !ok {
				continue
			}
			if err := s.promptScalar(ctx, field); err != nil {
				return err
			}
		}
	}
}

func (s *Session) showPreview(ctx context.Context) error {
	if s.preview == nil {
		return nil
	}
	rec := s.form.Snapshot()
	doc := preview.Build(rec, preview.BuildOptions{Clock: s.clock})
	out, err := s.preview.Render(ctx, doc, render.RenderOptions{Record: &rec})
	if err != nil {
		return fmt.Errorf("tui: render preview: %w", err)
	}
	return s.driver.Info(ctx, s.theme.InfoPrefix+strings.TrimRight(string(out), "\n"))
}

// promptOrder asks "current job" before the end month so the end month can
// be skipped while the job is ongoing.
func promptOrder(group model.Group) []model.EntryField {
	fields := model.EntryFields(group)
	if group != model.GroupJobs {
		return fields
	}
	out := make([]model.EntryField, 0, len(fields))
	for _, field := range fields {
		switch field {
		case model.EntryCurrent:
			continue
		case model.EntryEnd:
			out = append(out, model.EntryCurrent, field)
		default:
			out = append(out, field)
		}
	}
	return out
}

func fieldValue(entry model.Entry, field model.EntryField) any {
	switch e := entry.(type) {
	case model.EducationEntry:
		return map[model.EntryField]any{
			model.EntryCourse: e.Course, model.EntrySchool: e.Institution,
			model.EntryStatus: string(e.Status), model.EntryStart: e.Start, model.EntryEnd: e.End,
		}[field]
	case model.CourseEntry:
		return map[model.EntryField]any{
			model.EntryCourse: e.Course, model.EntryInstitution: e.Institution,
			model.EntryStatus: string(e.Status), model.EntryStart: e.Start, model.EntryEnd: e.End,
		}[field]
	case model.JobEntry:
		return map[model.EntryField]any{
			model.EntryCompany: e.Company, model.EntryRole: e.Role, model.EntryCurrent: e.Current,
			model.EntryStart: e.Start, model.EntryEnd: e.End, model.EntryResponsibilities: e.Responsibilities,
		}[field]
	case model.KnowledgeEntry:
		if field == model.EntryDescription {
			return e.Description
		}
	case model.LanguageEntry:
		switch field {
		case model.EntryLanguage:
			return string(e.Language)
		case model.EntryProficiency:
			return string(e.Proficiency)
		}
	}
	return nil
}

func summary(entry model.Entry) string {
	switch e := entry.(type) {
	case model.EducationEntry:
		return e.Course + " - " + e.Institution
	case model.CourseEntry:
		return e.Course + " - " + e.Institution
	case model.JobEntry:
		return e.Role + " — " + e.Company
	case model.KnowledgeEntry:
		return e.Description
	case model.LanguageEntry:
		return string(e.Language) + " — " + string(e.Proficiency)
	default:
		return ""
	}
}

func validMonth(text string) error {
	if text == "" {
		return nil
	}
	if _, ok := preview.ParseMonth(text); !ok {
		return errors.New("use o formato AAAA-MM")
	}
	return nil
}

func validDate(text string) error {
	if text == "" {
		return nil
	}
	if _, err := time.Parse("2006-01-02", text); err != nil {
		return errors.New("use o formato AAAA-MM-DD")
	}
	return nil
}
