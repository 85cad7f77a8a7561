package expr

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-curriculo/pkg/model"
	"github.com/goliatone/go-curriculo/pkg/visibility"
)

func sampleContext() visibility.Context {
	rec := model.NewRecord()
	rec.Name = "Ana"
	rec.License = "AB"
	rec.Courses = []model.CourseEntry{
		{Course: "Go", Status: model.StatusCompleted},
		{Course: "Rust", Status: model.StatusInProgress},
	}
	rec.Jobs = []model.JobEntry{
		{Company: "Acme", Current: true, Responsibilities: []string{"suporte"}},
		{Company: "Loja", Responsibilities: []string{}},
	}
	return visibility.Context{Record: rec, Extras: map[string]any{"hide_age": true, "mode": "compact"}}
}

func TestEval_Conditions(t *testing.T) {
	ctx := sampleContext()
	cases := map[string]bool{
		`nome == "Ana"`:                     true,
		`nome != 'Ana'`:                     false,
		`cnh`:                               true,
		`!cnh`:                              false,
		`email`:                             false,
		`email == null`:                     false,
		`missing == null`:                   true,
		`extras.hide_age == true`:           true,
		`extras.mode == compact`:            true,
		`extras.hide_age && extras.missing`: false,
		`extras.missing || cnh == AB`:       true,
		`!(cnh == AB) || nome == Ana`:       true,
		`experiencias.0.trabalhoAtual`:      true,
		`experiencias.1.trabalhoAtual`:      false,
		`cursos.1.status == "Cursando"`:     true,
	}
	for condition, want := range cases {
		got, err := Eval(condition, ctx)
		if err != nil {
			t.Fatalf("Eval(%q): %v", condition, err)
		}
		if got != want {
			t.Fatalf("Eval(%q) = %v, want %v", condition, got, want)
		}
	}
}

func TestEval_Errors(t *testing.T) {
	for _, condition := range []string{"", "a = b", "a & b", "(a", `a == "x`, "a ==", "== a", "a b"} {
		if _, err := Eval(condition, sampleContext()); err == nil {
			t.Fatalf("expected error for %q", condition)
		}
	}
}

func TestRules_Eval(t *testing.T) {
	rules, err := Compile(
		Rule{Target: "cnh", When: "extras.hide_license"},
		Rule{Target: "cursos.*", When: `status != Concluído`},
		Rule{Target: "experiencias.*.fim", When: "trabalhoAtual"},
		Rule{Target: "experiencias.*", When: "!atribuicoes && extras.mode == compact"},
	)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	got, err := rules.Eval(sampleContext())
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	want := []string{"cursos.1", "experiencias.0.fim", "experiencias.1"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("hidden paths mismatch (-want +got):\n%s", diff)
	}
}

func TestRules_WithEvaluate(t *testing.T) {
	rules, err := Compile(Rule{Target: "cnh", When: "extras.hide_license"})
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	ctx := sampleContext()
	ctx.Extras["hide_license"] = "true"

	set, err := visibility.EvaluateWith(ctx, rules)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if !set.Hidden("cnh") || !set.Hidden("experiencias.0.fim") {
		t.Fatalf("expected rule and derived paths, got %v", set.Paths())
	}
}

func TestCompile_Errors(t *testing.T) {
	cases := []Rule{
		{Target: "", When: "cnh"},
		{Target: "cnh", When: ""},
		{Target: "unknown.*", When: "cnh"},
		{Target: "cnh", When: "a &&"},
	}
	for _, rule := range cases {
		if _, err := Compile(rule); err == nil {
			t.Fatalf("expected error for %+v", rule)
		}
	}
}
