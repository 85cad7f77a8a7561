package model

// Status tracks the progress of an education entry or qualification course.
type Status string

const (
	StatusUnset      Status = ""
	StatusCompleted  Status = "Concluído"
	StatusInProgress Status = "Cursando"
	StatusSuspended  Status = "Trancado"
)

// Ongoing reports whether the activity is still running, in which case the end
// month is excluded from display and export.
func (s Status) Ongoing() bool {
	return s == StatusInProgress
}

// Proficiency describes how well a language is spoken.
type Proficiency string

const (
	ProficiencyUnset        Proficiency = ""
	ProficiencyBasic        Proficiency = "Básico"
	ProficiencyIntermediate Proficiency = "Intermediário"
	ProficiencyAdvanced     Proficiency = "Avançado"
	ProficiencyFluent       Proficiency = "Fluente"
	ProficiencyNative       Proficiency = "Nativo"
)

// Proficiencies lists the selectable levels in display order.
var Proficiencies = []Proficiency{
	ProficiencyBasic,
	ProficiencyIntermediate,
	ProficiencyAdvanced,
	ProficiencyFluent,
	ProficiencyNative,
}

// Language is one of the fixed language names offered by the form.
type Language string

// Languages lists the selectable languages in display order.
var Languages = []Language{
	"Alemão",
	"Árabe",
	"Chinês (Mandarim)",
	"Coreano",
	"Dinamarquês",
	"Espanhol",
	"Finlandês",
	"Francês",
	"Grego",
	"Hebraico",
	"Hindi",
	"Holandês",
	"Húngaro",
	"Inglês",
	"Italiano",
	"Japonês",
	"Norueguês",
	"Polonês",
	"Português",
	"Romeno",
	"Russo",
	"Sueco",
	"Tailandês",
	"Tcheco",
	"Turco",
	"Ucraniano",
}

// Entry is implemented by every repeatable-group record type.
type Entry interface {
	Group() Group
}

// EducationEntry is one academic degree.
type EducationEntry struct {
	Course      string `json:"curso" yaml:"curso"`
	Institution string `json:"escola" yaml:"escola"`
	Status      Status `json:"status" yaml:"status"`
	Start       string `json:"inicio" yaml:"inicio"`
	End         string `json:"fim" yaml:"fim"`
}

// Group implements Entry.
func (EducationEntry) Group() Group { return GroupEducation }

// CourseEntry is one qualification course.
type CourseEntry struct {
	Course      string `json:"curso" yaml:"curso"`
	Institution string `json:"instituicao" yaml:"instituicao"`
	Status      Status `json:"status" yaml:"status"`
	Start       string `json:"inicio" yaml:"inicio"`
	End         string `json:"fim" yaml:"fim"`
}

// Group implements Entry.
func (CourseEntry) Group() Group { return GroupCourses }

// JobEntry is one professional experience. Responsibilities is a nested list
// edited through the sub-item operations of Form.
type JobEntry struct {
	Company          string   `json:"empresa" yaml:"empresa"`
	Role             string   `json:"cargo" yaml:"cargo"`
	Current          bool     `json:"trabalhoAtual" yaml:"trabalhoAtual"`
	Start            string   `json:"inicio" yaml:"inicio"`
	End              string   `json:"fim" yaml:"fim"`
	Responsibilities []string `json:"atribuicoes" yaml:"atribuicoes"`
}

// Group implements Entry.
func (JobEntry) Group() Group { return GroupJobs }

// KnowledgeEntry is one free-text skill.
type KnowledgeEntry struct {
	Description string `json:"descricao" yaml:"descricao"`
}

// Group implements Entry.
func (KnowledgeEntry) Group() Group { return GroupKnowledge }

// LanguageEntry pairs a language with a proficiency level.
type LanguageEntry struct {
	Language    Language    `json:"idioma" yaml:"idioma"`
	Proficiency Proficiency `json:"nivel" yaml:"nivel"`
}

// Group implements Entry.
func (LanguageEntry) Group() Group { return GroupLanguages }

// Record is the full form state for one editing session.
type Record struct {
	Name      string `json:"nome" yaml:"nome"`
	Phone     string `json:"telefone" yaml:"telefone"`
	Email     string `json:"email" yaml:"email"`
	BirthDate string `json:"data_nascimento" yaml:"data_nascimento"`
	City      string `json:"cidade" yaml:"cidade"`
	License   string `json:"cnh" yaml:"cnh"`
	Objective string `json:"objetivo" yaml:"objetivo"`

	Education []EducationEntry `json:"formacoes" yaml:"formacoes"`
	Courses   []CourseEntry    `json:"cursos" yaml:"cursos"`
	Jobs      []JobEntry       `json:"experiencias" yaml:"experiencias"`
	Knowledge []KnowledgeEntry `json:"conhecimentos" yaml:"conhecimentos"`
	Languages []LanguageEntry  `json:"idiomas" yaml:"idiomas"`
}

// NewRecord returns an all-empty record with non-nil group slices so the wire
// form always carries arrays.
func NewRecord() Record {
	return Record{
		Education: []EducationEntry{},
		Courses:   []CourseEntry{},
		Jobs:      []JobEntry{},
		Knowledge: []KnowledgeEntry{},
		Languages: []LanguageEntry{},
	}
}

// Clone returns a deep copy of the record.
func (r Record) Clone() Record {
	out := r
	out.Education = append(make([]EducationEntry, 0, len(r.Education)), r.Education...)
	out.Courses = append(make([]CourseEntry, 0, len(r.Courses)), r.Courses...)
	out.Knowledge = append(make([]KnowledgeEntry, 0, len(r.Knowledge)), r.Knowledge...)
	out.Languages = append(make([]LanguageEntry, 0, len(r.Languages)), r.Languages...)
	out.Jobs = make([]JobEntry, len(r.Jobs))
	for i, job := range r.Jobs {
		out.Jobs[i] = job.clone()
	}
	return out
}

func (j JobEntry) clone() JobEntry {
	j.Responsibilities = append(make([]string, 0, len(j.Responsibilities)), j.Responsibilities...)
	return j
}

// Scalar returns the stored value of a scalar field.
func (r Record) Scalar(field ScalarField) string {
	switch field {
	case FieldName:
		return r.Name
	case FieldPhone:
		return r.Phone
	case FieldEmail:
		return r.Email
	case FieldBirthDate:
		return r.BirthDate
	case FieldCity:
		return r.City
	case FieldLicense:
		return r.License
	case FieldObjective:
		return r.Objective
	default:
		return ""
	}
}

func (r *Record) setScalar(field ScalarField, value string) bool {
	switch field {
	case FieldName:
		r.Name = value
	case FieldPhone:
		r.Phone = value
	case FieldEmail:
		r.Email = value
	case FieldBirthDate:
		r.BirthDate = value
	case FieldCity:
		r.City = value
	case FieldLicense:
		r.License = value
	case FieldObjective:
		r.Objective = value
	default:
		return false
	}
	return true
}
