package preview

import (
	"strconv"

	"github.com/goliatone/go-curriculo/pkg/model"
	"github.com/goliatone/go-curriculo/pkg/visibility"
)

// Placeholders shown in the header while a field is still empty.
const (
	PlaceholderName  = "NOME COMPLETO"
	PlaceholderEmail = "email@exemplo.com"
	PlaceholderPhone = "(00) 00000-0000"
	PlaceholderAge   = "idade"
	PlaceholderCity  = "Cidade"
	// Empty marks an empty section body.
	Empty = "-"
)

// Section headings in export order.
const (
	HeadingObjective  = "Objetivo"
	HeadingEducation  = "Formação Acadêmica"
	HeadingExperience = "Experiência Profissional"
	HeadingCourses    = "Cursos"
	HeadingKnowledge  = "Conhecimentos"
	HeadingLanguages  = "Idiomas"
	HeadingLicense    = "CNH"
)

// Document is the fully resolved, read-only projection of a record handed to
// renderers and the export facility. Every string is display text.
type Document struct {
	Header     Header       `json:"header"`
	Objective  string       `json:"objective"`
	Education  []Study      `json:"education"`
	Experience []Experience `json:"experience"`
	Courses    []Study      `json:"courses"`
	Knowledge  []string     `json:"knowledge"`
	Languages  []string     `json:"languages"`
	License    License      `json:"license"`
	Filename   string       `json:"filename"`
}

// Header is the centred block at the top of the page.
type Header struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	Age   string `json:"age"`
	City  string `json:"city"`
}

// Contacts returns the contact line items in display order.
func (h Header) Contacts() []string {
	return []string{h.Email, h.Phone, h.Age, h.City}
}

// Study is one education entry or qualification course.
type Study struct {
	Course      string `json:"course"`
	Institution string `json:"institution"`
	Period      string `json:"period"`
}

// Experience is one job.
type Experience struct {
	Role             string   `json:"role"`
	Company          string   `json:"company"`
	Period           string   `json:"period"`
	Responsibilities []string `json:"responsibilities"`
}

// License is the side section next to the languages. Code is empty when
// Visible is false.
type License struct {
	Visible bool   `json:"visible"`
	Code    string `json:"code"`
}

// BuildOptions configures Build.
type BuildOptions struct {
	// Clock supplies "now" for the age. Defaults to SystemClock.
	Clock Clock
	// Hidden adds paths to the derived visibility of visibility.Evaluate.
	Hidden visibility.Set
}

// Build projects rec into a Document. Input order is preserved in every list.
func Build(rec model.Record, opts BuildOptions) Document {
	clock := opts.Clock
	if clock == nil {
		clock = SystemClock{}
	}
	hidden := visibility.Evaluate(rec)
	for path := range opts.Hidden {
		hidden[path] = struct{}{}
	}

	doc := Document{
		Header:     buildHeader(rec, clock),
		Objective:  orEmpty(rec.Objective),
		Education:  make([]Study, 0, len(rec.Education)),
		Experience: make([]Experience, 0, len(rec.Jobs)),
		Courses:    make([]Study, 0, len(rec.Courses)),
		Knowledge:  make([]string, 0, len(rec.Knowledge)),
		Languages:  make([]string, 0, len(rec.Languages)),
		Filename:   Filename(rec.Name),
	}

	for i, entry := range rec.Education {
		if hidden.Hidden(visibility.EntryPath(model.GroupEducation, i)) {
			continue
		}
		doc.Education = append(doc.Education, Study{
			Course:      entry.Course,
			Institution: entry.Institution,
			Period:      entryPeriod(entry.Start, entry.End, entry.Status.Ongoing(), hidden.Hidden(visibility.Path(model.GroupEducation, i, model.EntryEnd))),
		})
	}
	for i, job := range rec.Jobs {
		if hidden.Hidden(visibility.EntryPath(model.GroupJobs, i)) {
			continue
		}
		doc.Experience = append(doc.Experience, Experience{
			Role:             job.Role,
			Company:          job.Company,
			Period:           entryPeriod(job.Start, job.End, job.Current, hidden.Hidden(visibility.Path(model.GroupJobs, i, model.EntryEnd))),
			Responsibilities: append([]string{}, job.Responsibilities...),
		})
	}
	for i, entry := range rec.Courses {
		if hidden.Hidden(visibility.EntryPath(model.GroupCourses, i)) {
			continue
		}
		doc.Courses = append(doc.Courses, Study{
			Course:      entry.Course,
			Institution: entry.Institution,
			Period:      entryPeriod(entry.Start, entry.End, entry.Status.Ongoing(), hidden.Hidden(visibility.Path(model.GroupCourses, i, model.EntryEnd))),
		})
	}
	for i, item := range rec.Knowledge {
		if hidden.Hidden(visibility.EntryPath(model.GroupKnowledge, i)) {
			continue
		}
		doc.Knowledge = append(doc.Knowledge, item.Description)
	}
	for i, lang := range rec.Languages {
		if hidden.Hidden(visibility.EntryPath(model.GroupLanguages, i)) {
			continue
		}
		doc.Languages = append(doc.Languages, string(lang.Language)+" — "+string(lang.Proficiency))
	}
	if !hidden.Hidden(string(model.FieldLicense)) && rec.License != "" {
		doc.License = License{Visible: true, Code: rec.License}
	}
	return doc
}

// entryPeriod formats the period of a finished activity whose end month is
// hidden as the start month alone.
func entryPeriod(start, end string, ongoing, endHidden bool) string {
	if endHidden && !ongoing {
		return FormatMonth(start)
	}
	return FormatPeriod(start, end, ongoing)
}

func buildHeader(rec model.Record, clock Clock) Header {
	header := Header{
		Name:  or(rec.Name, PlaceholderName),
		Email: or(rec.Email, PlaceholderEmail),
		Phone: or(PhoneDisplay(rec.Phone), PlaceholderPhone),
		Age:   PlaceholderAge,
		City:  or(rec.City, PlaceholderCity),
	}
	if age, ok := ComputeAge(rec.BirthDate, clock.Now()); ok {
		header.Age = strconv.Itoa(age) + " anos"
	}
	return header
}

func or(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func orEmpty(value string) string {
	return or(value, Empty)
}
