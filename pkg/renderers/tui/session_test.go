package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-curriculo/pkg/model"
	"github.com/goliatone/go-curriculo/pkg/preview"
	"github.com/goliatone/go-curriculo/pkg/renderers/text"
	"github.com/goliatone/go-curriculo/pkg/testsupport"
)

// keep answers a prompt with its default value.
type keep struct{}

type stubDriver struct {
	answers []any
	pos     int
	prompts []string
	infos   []string
}

func (s *stubDriver) next(kind, message string) (any, error) {
	s.prompts = append(s.prompts, kind+":"+message)
	if s.pos >= len(s.answers) {
		return nil, fmt.Errorf("no answer scripted for %s %q", kind, message)
	}
	answer := s.answers[s.pos]
	s.pos++
	if err, ok := answer.(error); ok {
		return nil, err
	}
	return answer, nil
}

func (s *stubDriver) Input(_ context.Context, cfg InputConfig) (string, error) {
	answer, err := s.next("input", cfg.Message)
	if err != nil {
		return "", err
	}
	if _, ok := answer.(keep); ok {
		return cfg.Default, nil
	}
	value, ok := answer.(string)
	if !ok {
		return "", fmt.Errorf("input %q scripted with %T", cfg.Message, answer)
	}
	if cfg.Validator != nil {
		if err := cfg.Validator(value); err != nil {
			return "", err
		}
	}
	return value, nil
}

func (s *stubDriver) Confirm(_ context.Context, cfg ConfirmConfig) (bool, error) {
	answer, err := s.next("confirm", cfg.Message)
	if err != nil {
		return false, err
	}
	if _, ok := answer.(keep); ok {
		return cfg.Default, nil
	}
	value, ok := answer.(bool)
	if !ok {
		return false, fmt.Errorf("confirm %q scripted with %T", cfg.Message, answer)
	}
	return value, nil
}

func (s *stubDriver) Select(_ context.Context, cfg SelectConfig) (int, error) {
	answer, err := s.next("select", cfg.Message)
	if err != nil {
		return -1, err
	}
	switch v := answer.(type) {
	case keep:
		return cfg.DefaultIndex, nil
	case int:
		return v, nil
	case string:
		return indexOf(cfg.Options, v), nil
	}
	return -1, fmt.Errorf("select %q scripted with %T", cfg.Message, answer)
}

func (s *stubDriver) TextArea(_ context.Context, cfg TextAreaConfig) (string, error) {
	answer, err := s.next("textarea", cfg.Message)
	if err != nil {
		return "", err
	}
	if _, ok := answer.(keep); ok {
		return cfg.Default, nil
	}
	value, ok := answer.(string)
	if !ok {
		return "", fmt.Errorf("textarea %q scripted with %T", cfg.Message, answer)
	}
	return value, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infos = append(s.infos, msg)
	return nil
}

func TestSession_FillsNewRecord(t *testing.T) {
	driver := &stubDriver{answers: []any{
		// scalars
		"ana souza", "31987654321", "Ana@Example.COM", "belo horizonte", "2000-06-15",
		"Atuar como desenvolvedora backend.",
		true, "ab-1",
		// formacoes
		true, "sistemas de informação", "ufmg", string(model.StatusInProgress), "2021-02", false,
		// conhecimentos
		true, "Go", true, "SQL", false,
		// cursos
		false,
		// experiencias: empresa, cargo, inicio, atual, (fim skipped), atribuicoes
		true, "acme corp", "analista de sistemas", "2022-01", true, "Suporte a clientes", "", false,
		// idiomas
		true, "Inglês", string(model.ProficiencyFluent), false,
	}}

	session := New(WithPromptDriver(driver))
	got, err := session.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v\nprompts: %v", err, driver.prompts)
	}

	want := model.NewRecord()
	want.Name = "Ana Souza"
	want.Phone = "31987654321"
	want.Email = "ana@example.com"
	want.City = "Belo Horizonte"
	want.BirthDate = "2000-06-15"
	want.Objective = "Atuar como desenvolvedora backend."
	want.License = "AB1"
	want.Education = []model.EducationEntry{{Course: "Sistemas De Informação", Institution: "Ufmg", Status: model.StatusInProgress, Start: "2021-02"}}
	want.Knowledge = []model.KnowledgeEntry{{Description: "Go"}, {Description: "SQL"}}
	want.Jobs = []model.JobEntry{{Company: "Acme Corp", Role: "Analista De Sistemas", Current: true, Start: "2022-01", Responsibilities: []string{"Suporte a clientes"}}}
	want.Languages = []model.LanguageEntry{{Language: "Inglês", Proficiency: model.ProficiencyFluent}}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("record mismatch (-want +got):\n%s", diff)
	}
	if driver.pos != len(driver.answers) {
		t.Fatalf("expected every answer consumed, used %d of %d", driver.pos, len(driver.answers))
	}
	for _, prompt := range driver.prompts {
		if strings.Contains(prompt, entryLabels[model.EntryEnd]) {
			t.Fatalf("end month must not be asked for ongoing entries: %v", driver.prompts)
		}
	}
	if !session.State().Empty() {
		t.Fatalf("expected no pending feedback")
	}
}

func TestSession_RepromptsMissingFields(t *testing.T) {
	driver := &stubDriver{answers: []any{
		"", "", "ana.example.com", "", "", "", false,
		false, false, false, false, false,
		// correction round, paths in order: email, nome, objetivo, telefone
		"ana@example.com", "ana", "Backend", "31 99999-0000",
	}}

	session := New(WithPromptDriver(driver), WithTheme(Theme{ErrorPrefix: "! "}))
	got, err := session.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v\nprompts: %v", err, driver.prompts)
	}

	if got.Name != "Ana" || got.Email != "ana@example.com" || got.Phone != "31999990000" || got.Objective != "Backend" {
		t.Fatalf("unexpected record %+v", got)
	}
	wantInfos := []string{
		"! " + model.RequiredMessagePrefix + "Nome, Telefone, Objetivo.",
		"! " + model.InvalidEmailMessage,
	}
	if diff := cmp.Diff(wantInfos, driver.infos); diff != "" {
		t.Fatalf("info mismatch (-want +got):\n%s", diff)
	}
}

func TestSession_GivesUpAfterMaxAttempts(t *testing.T) {
	driver := &stubDriver{answers: []any{
		"", "", "", "", "", "", false,
		false, false, false, false, false,
		"", "", "", "",
	}}

	_, err := New(WithPromptDriver(driver), WithMaxAttempts(1)).Run(context.Background())
	if !errors.Is(err, ErrTooManyAttempts) || !errors.Is(err, model.ErrValidation) {
		t.Fatalf("expected exhausted validation error, got %v", err)
	}
}

func TestSession_EditsExistingEntries(t *testing.T) {
	form, err := model.FromRecord(testsupport.SampleRecord())
	if err != nil {
		t.Fatalf("from record: %v", err)
	}
	driver := &stubDriver{answers: []any{
		keep{}, keep{}, keep{}, keep{}, keep{}, keep{}, keep{}, keep{},
		// formacoes: keep both, add none
		keep{}, keep{}, false,
		// conhecimentos: remove Go, keep SQL
		"Remover", keep{}, false,
		// cursos
		keep{}, false,
		// experiencias: edit Acme (no longer current), keep Loja Central
		"Editar", keep{}, keep{}, keep{}, false, "2023-05", false, "Vendas", "", keep{}, false,
		// idiomas
		keep{}, keep{}, false,
	}}

	session := New(
		WithPromptDriver(driver),
		WithForm(form),
		WithPreview(text.New(text.WithPlain())),
		WithClock(preview.FixedClock(testsupport.Now)),
	)
	got, err := session.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v\nprompts: %v", err, driver.prompts)
	}

	want := testsupport.SampleRecord()
	want.Knowledge = []model.KnowledgeEntry{{Description: "SQL"}}
	want.Jobs[0].Current = false
	want.Jobs[0].End = "2023-05"
	want.Jobs[0].Responsibilities = []string{"Vendas"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("record mismatch (-want +got):\n%s", diff)
	}

	if len(driver.infos) != 1 || !strings.Contains(driver.infos[0], "01/2022 - 05/2023") {
		t.Fatalf("expected preview with the new period, got %v", driver.infos)
	}
}

func TestSession_PropagatesAbort(t *testing.T) {
	driver := &stubDriver{answers: []any{"Ana", ErrAborted}}

	got, err := New(WithPromptDriver(driver)).Run(context.Background())
	if !errors.Is(err, ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
	if got.Name != "Ana" {
		t.Fatalf("expected partial record, got %+v", got)
	}
}

func TestState_TracksFeedback(t *testing.T) {
	state := NewState(map[string][]string{"email": {"a", "b"}})
	if state.Help("email") != "a; b" || state.Empty() {
		t.Fatalf("unexpected state %+v", state.Errors())
	}
	if got := state.Paths(); len(got) != 1 || got[0] != "email" {
		t.Fatalf("unexpected paths %v", got)
	}
	if !NewState(nil).Empty() {
		t.Fatalf("new state must be empty")
	}
}

func TestValidators(t *testing.T) {
	if validMonth("2020-13") == nil || validMonth("") != nil || validMonth("2020-01") != nil {
		t.Fatalf("unexpected month validation")
	}
	if validDate("2000-02-30") == nil || validDate("") != nil || validDate("2000-02-28") != nil {
		t.Fatalf("unexpected date validation")
	}
}
