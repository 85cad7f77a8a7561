package preview_test

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-curriculo/pkg/model"
	"github.com/goliatone/go-curriculo/pkg/preview"
	"github.com/goliatone/go-curriculo/pkg/visibility"
)

func TestFormatMonth(t *testing.T) {
	cases := map[string]string{
		"2020-01": "01/2020",
		"":        "",
		"2020":    "2020",
		"20-01":   "20-01",
	}
	for in, want := range cases {
		if got := preview.FormatMonth(in); got != want {
			t.Fatalf("FormatMonth(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFormatPeriod(t *testing.T) {
	cases := []struct {
		start, end string
		ongoing    bool
		want       string
	}{
		{"", "", false, ""},
		{"", "", true, ""},
		{"2020-01", "2022-06", false, "01/2020 - 06/2022"},
		{"2020-01", "", false, "01/2020 - "},
		{"2020-01", "", true, "01/2020 - Atual"},
		{"2020-01", "2099-12", true, "01/2020 - Atual"},
		{"", "2099-12", true, ""},
	}
	for _, tc := range cases {
		if got := preview.FormatPeriod(tc.start, tc.end, tc.ongoing); got != tc.want {
			t.Fatalf("FormatPeriod(%q, %q, %v) = %q, want %q", tc.start, tc.end, tc.ongoing, got, tc.want)
		}
	}
	if preview.FormatPeriod("2020-01", "2099-12", true) != preview.FormatPeriod("2020-01", "", true) {
		t.Fatalf("ongoing period must ignore the end month")
	}
}

func TestComputeAge(t *testing.T) {
	before := time.Date(2024, 6, 14, 12, 0, 0, 0, time.UTC)
	on := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)

	if age, ok := preview.ComputeAge("2000-06-15", before); !ok || age != 23 {
		t.Fatalf("expected 23 the day before the birthday, got %d (%v)", age, ok)
	}
	if age, ok := preview.ComputeAge("2000-06-15", on); !ok || age != 24 {
		t.Fatalf("expected 24 on the birthday, got %d (%v)", age, ok)
	}
	if _, ok := preview.ComputeAge("", on); ok {
		t.Fatalf("empty birth date must be absent")
	}
	if _, ok := preview.ComputeAge("15/06/2000", on); ok {
		t.Fatalf("malformed birth date must be absent")
	}
}

func TestPhoneDisplay(t *testing.T) {
	if got := preview.PhoneDisplay(""); got != "" {
		t.Fatalf("empty phone must stay empty, got %q", got)
	}
	if got := preview.PhoneDisplay("31987654321"); got != "(31) 98765-4321" {
		t.Fatalf("unexpected mask %q", got)
	}
}

func TestFilename(t *testing.T) {
	cases := map[string]string{
		"":               "curriculo_usuario.pdf",
		"Ana Souza":      "curriculo_Ana_Souza.pdf",
		"Ana  Maria\tLi": "curriculo_Ana_Maria_Li.pdf",
		"a/../../x/pwn":  "curriculo_a_.._.._x_pwn.pdf",
		`Ana "A" <B>`:    "curriculo_Ana_A_B_.pdf",
		`C:\Users\ana`:   "curriculo_C_Users_ana.pdf",
	}
	for in, want := range cases {
		if got := preview.Filename(in); got != want {
			t.Fatalf("Filename(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestBuild_EmptyRecordPlaceholders(t *testing.T) {
	doc := preview.Build(model.NewRecord(), preview.BuildOptions{Clock: preview.FixedClock(time.Now())})

	want := preview.Header{
		Name:  preview.PlaceholderName,
		Email: preview.PlaceholderEmail,
		Phone: preview.PlaceholderPhone,
		Age:   preview.PlaceholderAge,
		City:  preview.PlaceholderCity,
	}
	if diff := cmp.Diff(want, doc.Header); diff != "" {
		t.Fatalf("header mismatch (-want +got):\n%s", diff)
	}
	if doc.Objective != preview.Empty {
		t.Fatalf("expected empty objective marker, got %q", doc.Objective)
	}
	if doc.License.Visible {
		t.Fatalf("license must be hidden when empty")
	}
	if doc.Filename != "curriculo_usuario.pdf" {
		t.Fatalf("unexpected filename %q", doc.Filename)
	}
}

func TestBuild_ResolvedDocument(t *testing.T) {
	rec := model.NewRecord()
	rec.Name = "Ana Souza"
	rec.Email = "ana@example.com"
	rec.Phone = "31987654321"
	rec.BirthDate = "2000-06-15"
	rec.City = "Belo Horizonte"
	rec.Objective = "Desenvolvedora"
	rec.License = "AB"
	rec.Education = []model.EducationEntry{
		{Course: "Sistemas", Institution: "UFMG", Status: model.StatusInProgress, Start: "2021-02", End: "2099-12"},
		{Course: "Técnico", Institution: "Cefet", Status: model.StatusCompleted, Start: "2017-02", End: "2019-12"},
	}
	rec.Jobs = []model.JobEntry{{
		Company: "Acme Corp", Role: "Analista", Current: true, Start: "2022-01", End: "2023-01",
		Responsibilities: []string{"suporte", "vendas"},
	}}
	rec.Courses = []model.CourseEntry{{Course: "Go", Institution: "Online", Status: model.StatusCompleted, Start: "2023-01", End: "2023-03"}}
	rec.Knowledge = []model.KnowledgeEntry{{Description: "Excel"}}
	rec.Languages = []model.LanguageEntry{{Language: "Inglês", Proficiency: model.ProficiencyFluent}}

	doc := preview.Build(rec, preview.BuildOptions{Clock: preview.FixedClock(time.Date(2024, 6, 14, 0, 0, 0, 0, time.UTC))})

	want := preview.Document{
		Header: preview.Header{
			Name:  "Ana Souza",
			Email: "ana@example.com",
			Phone: "(31) 98765-4321",
			Age:   "23 anos",
			City:  "Belo Horizonte",
		},
		Objective: "Desenvolvedora",
		Education: []preview.Study{
			{Course: "Sistemas", Institution: "UFMG", Period: "02/2021 - Atual"},
			{Course: "Técnico", Institution: "Cefet", Period: "02/2017 - 12/2019"},
		},
		Experience: []preview.Experience{
			{Role: "Analista", Company: "Acme Corp", Period: "01/2022 - Atual", Responsibilities: []string{"suporte", "vendas"}},
		},
		Courses:   []preview.Study{{Course: "Go", Institution: "Online", Period: "01/2023 - 03/2023"}},
		Knowledge: []string{"Excel"},
		Languages: []string{"Inglês — Fluente"},
		License:   preview.License{Visible: true, Code: "AB"},
		Filename:  "curriculo_Ana_Souza.pdf",
	}
	if diff := cmp.Diff(want, doc); diff != "" {
		t.Fatalf("document mismatch (-want +got):\n%s", diff)
	}
}

func TestBuild_HiddenOverride(t *testing.T) {
	rec := model.NewRecord()
	rec.License = "B"
	doc := preview.Build(rec, preview.BuildOptions{Hidden: visibility.Set{"cnh": {}}})
	if doc.License.Visible {
		t.Fatalf("explicit hidden set must hide the license")
	}
}

func TestBuild_HiddenEntries(t *testing.T) {
	rec := model.NewRecord()
	rec.Jobs = []model.JobEntry{
		{Company: "Acme", Start: "2020-01", End: "2021-01"},
		{Company: "Loja", Current: true, Start: "2022-01"},
	}
	rec.Knowledge = []model.KnowledgeEntry{{Description: "Excel"}, {Description: "Go"}}

	hidden := visibility.Evaluate(rec)
	hidden[visibility.EntryPath(model.GroupJobs, 0)] = struct{}{}
	hidden[visibility.EntryPath(model.GroupKnowledge, 1)] = struct{}{}

	doc := preview.Build(rec, preview.BuildOptions{Hidden: hidden})
	if len(doc.Experience) != 1 || doc.Experience[0].Company != "Loja" || doc.Experience[0].Period != "01/2022 - Atual" {
		t.Fatalf("unexpected experience %+v", doc.Experience)
	}
	if diff := cmp.Diff([]string{"Excel"}, doc.Knowledge); diff != "" {
		t.Fatalf("knowledge mismatch (-want +got):\n%s", diff)
	}
}

func TestBuild_PeriodFollowsStatus(t *testing.T) {
	rec := model.NewRecord()
	rec.Education = []model.EducationEntry{
		{Course: "Sistemas", Status: model.StatusInProgress, Start: "2020-01", End: "2099-12"},
	}
	rec.Jobs = []model.JobEntry{
		{Company: "Acme", Start: "2020-01", End: "2021-01"},
		{Company: "Loja", Start: "2022-01", End: "2023-01"},
	}

	hidden := visibility.Set{visibility.Path(model.GroupJobs, 0, model.EntryEnd): {}}
	doc := preview.Build(rec, preview.BuildOptions{Hidden: hidden})

	want := []string{"01/2020", "01/2022 - 01/2023"}
	got := []string{doc.Experience[0].Period, doc.Experience[1].Period}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("job periods mismatch (-want +got):\n%s", diff)
	}
	if doc.Education[0].Period != "01/2020 - Atual" {
		t.Fatalf("ongoing education must drop the stale end month, got %q", doc.Education[0].Period)
	}
}

func TestBuild_EmptyHiddenKeepsDerivedRules(t *testing.T) {
	rec := model.NewRecord()
	rec.Courses = []model.CourseEntry{{Course: "Go", Status: model.StatusInProgress, Start: "2023-01", End: "2099-12"}}

	doc := preview.Build(rec, preview.BuildOptions{Hidden: visibility.Set{}})
	if doc.Courses[0].Period != "01/2023 - Atual" {
		t.Fatalf("unexpected period %q", doc.Courses[0].Period)
	}
	if doc.License.Visible {
		t.Fatalf("empty license must stay hidden")
	}
}
