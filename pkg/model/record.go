package model

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// FromRecord builds a Form seeded with rec. Every text field is re-normalized
// through the form's kind table, enumerated values are checked, and group
// slices are copied, so a hand-edited record ends in the same state as one
// typed through the form.
func FromRecord(rec Record, options ...Option) (*Form, error) {
	form := NewForm(options...)

	for _, field := range ScalarFields {
		form.SetScalar(field, rec.Scalar(field))
	}

	for _, entry := range rec.Education {
		if err := form.appendNormalized(GroupEducation, entry); err != nil {
			return nil, err
		}
	}
	for _, entry := range rec.Courses {
		if err := form.appendNormalized(GroupCourses, entry); err != nil {
			return nil, err
		}
	}
	for _, entry := range rec.Jobs {
		if err := form.appendNormalized(GroupJobs, entry); err != nil {
			return nil, err
		}
	}
	for _, entry := range rec.Knowledge {
		if err := form.appendNormalized(GroupKnowledge, entry); err != nil {
			return nil, err
		}
	}
	for _, entry := range rec.Languages {
		if err := form.appendNormalized(GroupLanguages, entry); err != nil {
			return nil, err
		}
	}
	return form, nil
}

// DecodeJSON reads a wire-format record. Missing groups decode as empty slices.
func DecodeJSON(r io.Reader) (Record, error) {
	rec := NewRecord()
	dec := json.NewDecoder(r)
	if err := dec.Decode(&rec); err != nil {
		return Record{}, fmt.Errorf("model: decode json record: %w", err)
	}
	return rec.withEmptyGroups(), nil
}

// DecodeYAML reads a record stored with the same keys as the wire format.
func DecodeYAML(r io.Reader) (Record, error) {
	rec := NewRecord()
	if err := yaml.NewDecoder(r).Decode(&rec); err != nil && err != io.EOF {
		return Record{}, fmt.Errorf("model: decode yaml record: %w", err)
	}
	return rec.withEmptyGroups(), nil
}

// EncodeYAML writes rec with the wire keys.
func EncodeYAML(w io.Writer, rec Record) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(rec.withEmptyGroups()); err != nil {
		return fmt.Errorf("model: encode yaml record: %w", err)
	}
	return enc.Close()
}

func (r Record) withEmptyGroups() Record {
	if r.Education == nil {
		r.Education = []EducationEntry{}
	}
	if r.Courses == nil {
		r.Courses = []CourseEntry{}
	}
	if r.Jobs == nil {
		r.Jobs = []JobEntry{}
	}
	for i := range r.Jobs {
		if r.Jobs[i].Responsibilities == nil {
			r.Jobs[i].Responsibilities = []string{}
		}
	}
	if r.Knowledge == nil {
		r.Knowledge = []KnowledgeEntry{}
	}
	if r.Languages == nil {
		r.Languages = []LanguageEntry{}
	}
	return r
}

// appendNormalized appends an empty entry and replays every sub-field through
// UpdateEntry. On failure the partial entry is removed.
func (f *Form) appendNormalized(group Group, entry Entry) error {
	if err := f.AppendEntry(group, nil); err != nil {
		return err
	}
	index := f.Len(group) - 1
	for field, value := range entryValues(entry) {
		if err := f.UpdateEntry(group, index, field, value); err != nil {
			_ = f.RemoveEntry(group, index)
			return fmt.Errorf("model: %s[%d]: %w", group, index, err)
		}
	}
	return nil
}

func entryValues(entry Entry) map[EntryField]any {
	switch e := deref(entry).(type) {
	case EducationEntry:
		return map[EntryField]any{
			EntryCourse: e.Course, EntrySchool: e.Institution, EntryStatus: e.Status,
			EntryStart: e.Start, EntryEnd: e.End,
		}
	case CourseEntry:
		return map[EntryField]any{
			EntryCourse: e.Course, EntryInstitution: e.Institution, EntryStatus: e.Status,
			EntryStart: e.Start, EntryEnd: e.End,
		}
	case JobEntry:
		items := e.Responsibilities
		if items == nil {
			items = []string{}
		}
		return map[EntryField]any{
			EntryCompany: e.Company, EntryRole: e.Role, EntryCurrent: e.Current,
			EntryStart: e.Start, EntryEnd: e.End, EntryResponsibilities: items,
		}
	case KnowledgeEntry:
		return map[EntryField]any{EntryDescription: e.Description}
	case LanguageEntry:
		return map[EntryField]any{EntryLanguage: e.Language, EntryProficiency: e.Proficiency}
	default:
		return nil
	}
}
