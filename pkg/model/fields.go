package model

import (
	"strings"

	"github.com/goliatone/go-curriculo/pkg/normalize"
)

// ScalarField enumerates the single-valued fields of a Record. Values are the
// wire keys.
type ScalarField string

const (
	FieldName      ScalarField = "nome"
	FieldPhone     ScalarField = "telefone"
	FieldEmail     ScalarField = "email"
	FieldBirthDate ScalarField = "data_nascimento"
	FieldCity      ScalarField = "cidade"
	FieldLicense   ScalarField = "cnh"
	FieldObjective ScalarField = "objetivo"
)

// ScalarFields lists every scalar in form order.
var ScalarFields = []ScalarField{
	FieldName,
	FieldPhone,
	FieldEmail,
	FieldCity,
	FieldBirthDate,
	FieldObjective,
	FieldLicense,
}

// Group enumerates the repeatable groups of a Record. Values are the wire keys.
type Group string

const (
	GroupEducation Group = "formacoes"
	GroupCourses   Group = "cursos"
	GroupJobs      Group = "experiencias"
	GroupKnowledge Group = "conhecimentos"
	GroupLanguages Group = "idiomas"
)

// Groups lists every repeatable group in form order.
var Groups = []Group{
	GroupEducation,
	GroupKnowledge,
	GroupCourses,
	GroupJobs,
	GroupLanguages,
}

// Template returns the empty, default-shaped entry of the group, or nil for an
// unknown group.
func (g Group) Template() Entry {
	switch g {
	case GroupEducation:
		return EducationEntry{}
	case GroupCourses:
		return CourseEntry{}
	case GroupJobs:
		return JobEntry{Responsibilities: []string{}}
	case GroupKnowledge:
		return KnowledgeEntry{}
	case GroupLanguages:
		return LanguageEntry{}
	default:
		return nil
	}
}

// EntryField enumerates the sub-fields of repeatable-group entries. Values are
// the wire keys.
type EntryField string

const (
	EntryCourse           EntryField = "curso"
	EntrySchool           EntryField = "escola"
	EntryInstitution      EntryField = "instituicao"
	EntryStatus           EntryField = "status"
	EntryStart            EntryField = "inicio"
	EntryEnd              EntryField = "fim"
	EntryCompany          EntryField = "empresa"
	EntryRole             EntryField = "cargo"
	EntryCurrent          EntryField = "trabalhoAtual"
	EntryResponsibilities EntryField = "atribuicoes"
	EntryDescription      EntryField = "descricao"
	EntryLanguage         EntryField = "idioma"
	EntryProficiency      EntryField = "nivel"
)

// Kind selects the normalizer applied to a field before it is stored.
type Kind int

const (
	KindIdentity Kind = iota
	KindCapitalized
	KindPhone
	KindEmail
	KindLicense
	// KindMonth marks YYYY-MM values; they are stored as given.
	KindMonth
	// KindChoice marks enumerated values checked against an allowed set.
	KindChoice
	// KindFlag marks boolean sub-fields.
	KindFlag
	// KindList marks nested string lists edited through sub-item operations.
	KindList

	kindCount
)

var kindNames = [kindCount]string{
	KindIdentity:    "identity",
	KindCapitalized: "capitalized",
	KindPhone:       "phone",
	KindEmail:       "email",
	KindLicense:     "license",
	KindMonth:       "month",
	KindChoice:      "choice",
	KindFlag:        "flag",
	KindList:        "list",
}

func (k Kind) String() string {
	if k < 0 || k >= kindCount {
		return "unknown"
	}
	return kindNames[k]
}

// scalarKinds is the default field-kind table for scalars.
var scalarKinds = map[ScalarField]Kind{
	FieldName:      KindCapitalized,
	FieldPhone:     KindPhone,
	FieldEmail:     KindEmail,
	FieldBirthDate: KindIdentity,
	FieldCity:      KindCapitalized,
	FieldLicense:   KindLicense,
	FieldObjective: KindIdentity,
}

// entryKinds is the default field-kind table for group sub-fields.
var entryKinds = map[Group]map[EntryField]Kind{
	GroupEducation: {
		EntryCourse: KindCapitalized,
		EntrySchool: KindCapitalized,
		EntryStatus: KindChoice,
		EntryStart:  KindMonth,
		EntryEnd:    KindMonth,
	},
	GroupCourses: {
		EntryCourse:      KindCapitalized,
		EntryInstitution: KindCapitalized,
		EntryStatus:      KindChoice,
		EntryStart:       KindMonth,
		EntryEnd:         KindMonth,
	},
	GroupJobs: {
		EntryCompany:          KindCapitalized,
		EntryRole:             KindCapitalized,
		EntryCurrent:          KindFlag,
		EntryStart:            KindMonth,
		EntryEnd:              KindMonth,
		EntryResponsibilities: KindList,
	},
	GroupKnowledge: {
		EntryDescription: KindIdentity,
	},
	GroupLanguages: {
		EntryLanguage:    KindChoice,
		EntryProficiency: KindChoice,
	},
}

// choices lists the allowed values of KindChoice sub-fields. The empty string
// (unset) is always allowed.
var choices = map[Group]map[EntryField][]string{
	GroupEducation: {
		EntryStatus: {string(StatusCompleted), string(StatusInProgress), string(StatusSuspended)},
	},
	GroupCourses: {
		EntryStatus: {string(StatusCompleted), string(StatusInProgress)},
	},
	GroupLanguages: {
		EntryLanguage:    languageNames(),
		EntryProficiency: proficiencyNames(),
	},
}

// Choices returns the allowed non-empty values of an enumerated sub-field.
func Choices(group Group, field EntryField) []string {
	values := choices[group][field]
	return append([]string(nil), values...)
}

// EntryFields returns the sub-fields of a group in form order.
func EntryFields(group Group) []EntryField {
	switch group {
	case GroupEducation:
		return []EntryField{EntryCourse, EntrySchool, EntryStatus, EntryStart, EntryEnd}
	case GroupCourses:
		return []EntryField{EntryCourse, EntryInstitution, EntryStatus, EntryStart, EntryEnd}
	case GroupJobs:
		return []EntryField{EntryCompany, EntryRole, EntryStart, EntryEnd, EntryCurrent, EntryResponsibilities}
	case GroupKnowledge:
		return []EntryField{EntryDescription}
	case GroupLanguages:
		return []EntryField{EntryLanguage, EntryProficiency}
	default:
		return nil
	}
}

// ScalarKind reports the default kind of a scalar field.
func ScalarKind(field ScalarField) (Kind, bool) {
	kind, ok := scalarKinds[field]
	return kind, ok
}

// EntryKind reports the default kind of a group sub-field.
func EntryKind(group Group, field EntryField) (Kind, bool) {
	kind, ok := entryKinds[group][field]
	return kind, ok
}

// ParseScalarField maps a wire key (or its English alias) to a ScalarField.
func ParseScalarField(name string) (ScalarField, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	switch key {
	case "name", "fullname", "full_name":
		return FieldName, true
	case "phone":
		return FieldPhone, true
	case "birthdate", "birth_date":
		return FieldBirthDate, true
	case "city":
		return FieldCity, true
	case "license", "license_code":
		return FieldLicense, true
	case "objective":
		return FieldObjective, true
	}
	field := ScalarField(key)
	if _, ok := scalarKinds[field]; ok {
		return field, true
	}
	return "", false
}

// ParseGroup maps a wire key (or its English alias) to a Group.
func ParseGroup(name string) (Group, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	switch key {
	case "education", "educationentries":
		return GroupEducation, true
	case "courses", "qualificationcourses":
		return GroupCourses, true
	case "jobs", "experience":
		return GroupJobs, true
	case "knowledge", "knowledgeitems":
		return GroupKnowledge, true
	case "languages":
		return GroupLanguages, true
	}
	group := Group(key)
	if _, ok := entryKinds[group]; ok {
		return group, true
	}
	return "", false
}

// normalizerFor returns the string normalizer of a kind. Kinds that are not
// plain text (flag, list, choice, month) are stored unchanged.
func normalizerFor(kind Kind, license normalize.LicenseRules) func(string) string {
	switch kind {
	case KindCapitalized:
		return normalize.Capitalized
	case KindPhone:
		return normalize.PhoneDigits
	case KindEmail:
		return normalize.Email
	case KindLicense:
		return func(text string) string {
			return normalize.LicenseCode(text, license)
		}
	default:
		return normalize.Identity
	}
}

func languageNames() []string {
	out := make([]string, len(Languages))
	for i, lang := range Languages {
		out[i] = string(lang)
	}
	return out
}

func proficiencyNames() []string {
	out := make([]string, len(Proficiencies))
	for i, level := range Proficiencies {
		out[i] = string(level)
	}
	return out
}

func entryPath(group Group, field EntryField) string {
	return string(group) + "." + string(field)
}
