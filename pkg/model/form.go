package model

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-curriculo/pkg/normalize"
)

// Option customises a Form.
type Option func(*Form)

// WithLicenseRules overrides the license-code normalization rules.
func WithLicenseRules(rules normalize.LicenseRules) Option {
	return func(f *Form) {
		f.license = rules
	}
}

// WithFieldKind overrides the normalizer of a text field. Paths are scalar wire
// keys ("objetivo") or group sub-field paths ("conhecimentos.descricao"). Only
// text kinds can be assigned, and only to fields whose default kind is text.
func WithFieldKind(path string, kind Kind) Option {
	return func(f *Form) {
		if f.overrides == nil {
			f.overrides = make(map[string]Kind)
		}
		f.overrides[strings.TrimSpace(path)] = kind
	}
}

// WithCapitalizedFields capitalizes the listed text fields on every write, in
// addition to the defaults (name, city, course, institution, company, role).
func WithCapitalizedFields(paths ...string) Option {
	return func(f *Form) {
		for _, path := range paths {
			WithFieldKind(path, KindCapitalized)(f)
		}
	}
}

// WithStrict makes programming errors (fields outside the enumerations) panic
// instead of being logged and ignored. Use it in development and tests.
func WithStrict(strict bool) Option {
	return func(f *Form) {
		f.strict = strict
	}
}

// WithLogger routes diagnostics to the provided logger.
func WithLogger(logger *zap.Logger) Option {
	return func(f *Form) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// Form owns the Record of one editing session. It is not safe for concurrent
// use: every mutation happens inside a single event-handling cycle of its
// owner. Hand Snapshot values to anything that runs asynchronously.
type Form struct {
	record    Record
	license   normalize.LicenseRules
	overrides map[string]Kind
	strict    bool
	logger    *zap.Logger
}

// NewForm constructs a Form holding an all-empty record.
func NewForm(options ...Option) *Form {
	f := &Form{
		record:  NewRecord(),
		license: normalize.DefaultLicenseRules(),
		logger:  zap.NewNop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(f)
	}
	f.pruneOverrides()
	return f
}

// SetScalar normalizes raw according to the field's kind and stores it. It
// never fails; fields outside the enumeration are a programming error.
func (f *Form) SetScalar(field ScalarField, raw string) {
	kind, ok := f.scalarKind(field)
	if !ok {
		f.programmingError("set scalar: unknown field", zap.String("field", string(field)))
		return
	}
	f.record.setScalar(field, normalizerFor(kind, f.license)(raw))
}

// Scalar returns the stored value of a scalar field.
func (f *Form) Scalar(field ScalarField) string {
	return f.record.Scalar(field)
}

// Len reports the number of entries in a group.
func (f *Form) Len(group Group) int {
	switch group {
	case GroupEducation:
		return len(f.record.Education)
	case GroupCourses:
		return len(f.record.Courses)
	case GroupJobs:
		return len(f.record.Jobs)
	case GroupKnowledge:
		return len(f.record.Knowledge)
	case GroupLanguages:
		return len(f.record.Languages)
	default:
		return 0
	}
}

// AppendEntry appends a copy of template to the end of the group. A nil
// template, typed nil pointers included, appends the group's empty template.
func (f *Form) AppendEntry(group Group, template Entry) error {
	if _, ok := entryKinds[group]; !ok {
		f.programmingError("append entry: unknown group", zap.String("group", string(group)))
		return fmt.Errorf("%w: %q", ErrUnknownGroup, group)
	}
	if isNilEntry(template) {
		template = group.Template()
	}
	if template.Group() != group {
		return fmt.Errorf("%w: %s entry for group %s", ErrTemplateMismatch, template.Group(), group)
	}

	switch entry := deref(template).(type) {
	case EducationEntry:
		f.record.Education = append(f.record.Education, entry)
	case CourseEntry:
		f.record.Courses = append(f.record.Courses, entry)
	case JobEntry:
		f.record.Jobs = append(f.record.Jobs, entry.clone())
	case KnowledgeEntry:
		f.record.Knowledge = append(f.record.Knowledge, entry)
	case LanguageEntry:
		f.record.Languages = append(f.record.Languages, entry)
	default:
		return fmt.Errorf("%w: unsupported entry type %T", ErrTemplateMismatch, template)
	}
	return nil
}

// Entry returns a copy of the entry at index.
func (f *Form) Entry(group Group, index int) (Entry, error) {
	if err := f.checkIndex(group, index); err != nil {
		return nil, err
	}
	switch group {
	case GroupEducation:
		return f.record.Education[index], nil
	case GroupCourses:
		return f.record.Courses[index], nil
	case GroupJobs:
		return f.record.Jobs[index].clone(), nil
	case GroupKnowledge:
		return f.record.Knowledge[index], nil
	default:
		return f.record.Languages[index], nil
	}
}

// UpdateEntry replaces one sub-field of the entry at index. Text values are
// normalized by the sub-field's kind; enumerated values must be one of the
// group's choices; the job "current" flag accepts a bool or a bool string.
func (f *Form) UpdateEntry(group Group, index int, field EntryField, value any) error {
	kind, err := f.resolveEntryField(group, field)
	if err != nil {
		return err
	}
	if err := f.checkIndex(group, index); err != nil {
		return err
	}

	var stored any
	switch kind {
	case KindFlag:
		flag, err := coerceBool(value)
		if err != nil {
			return fmt.Errorf("%w: %s.%s: %v", ErrInvalidValue, group, field, err)
		}
		stored = flag
	case KindList:
		items, ok := value.([]string)
		if !ok {
			return fmt.Errorf("%w: %s.%s expects []string, got %T", ErrInvalidValue, group, field, value)
		}
		stored = append([]string{}, items...)
	default:
		text, ok := coerceString(value)
		if !ok {
			return fmt.Errorf("%w: %s.%s expects text, got %T", ErrInvalidValue, group, field, value)
		}
		switch kind {
		case KindChoice:
			if text != "" && !slices.Contains(choices[group][field], text) {
				return fmt.Errorf("%w: %s.%s does not accept %q", ErrInvalidValue, group, field, text)
			}
		case KindMonth:
			if !validMonth(text) {
				return fmt.Errorf("%w: %s.%s expects YYYY-MM, got %q", ErrInvalidValue, group, field, text)
			}
		default:
			text = normalizerFor(kind, f.license)(text)
		}
		stored = text
	}

	f.assign(group, index, field, stored)
	return nil
}

// RemoveEntry deletes the entry at index; later entries shift down by one.
func (f *Form) RemoveEntry(group Group, index int) error {
	if _, ok := entryKinds[group]; !ok {
		f.programmingError("remove entry: unknown group", zap.String("group", string(group)))
		return fmt.Errorf("%w: %q", ErrUnknownGroup, group)
	}
	if err := f.checkIndex(group, index); err != nil {
		return err
	}
	switch group {
	case GroupEducation:
		f.record.Education = slices.Delete(f.record.Education, index, index+1)
	case GroupCourses:
		f.record.Courses = slices.Delete(f.record.Courses, index, index+1)
	case GroupJobs:
		f.record.Jobs = slices.Delete(f.record.Jobs, index, index+1)
	case GroupKnowledge:
		f.record.Knowledge = slices.Delete(f.record.Knowledge, index, index+1)
	case GroupLanguages:
		f.record.Languages = slices.Delete(f.record.Languages, index, index+1)
	}
	return nil
}

// AppendSubItem appends value to a nested list (job responsibilities).
func (f *Form) AppendSubItem(group Group, index int, field EntryField, value string) error {
	list, err := f.subList(group, index, field)
	if err != nil {
		return err
	}
	*list = append(*list, value)
	return nil
}

// UpdateSubItem replaces one item of a nested list.
func (f *Form) UpdateSubItem(group Group, index int, field EntryField, subIndex int, value string) error {
	list, err := f.subList(group, index, field)
	if err != nil {
		return err
	}
	if err := f.checkSubIndex(group, index, field, subIndex, len(*list)); err != nil {
		return err
	}
	(*list)[subIndex] = value
	return nil
}

// RemoveSubItem deletes one item of a nested list; later items shift down.
func (f *Form) RemoveSubItem(group Group, index int, field EntryField, subIndex int) error {
	list, err := f.subList(group, index, field)
	if err != nil {
		return err
	}
	if err := f.checkSubIndex(group, index, field, subIndex, len(*list)); err != nil {
		return err
	}
	*list = slices.Delete(*list, subIndex, subIndex+1)
	return nil
}

// Snapshot returns a deep copy of the current record.
func (f *Form) Snapshot() Record {
	return f.record.Clone()
}

// LicenseRules reports the license normalization rules in effect.
func (f *Form) LicenseRules() normalize.LicenseRules {
	return f.license
}

func (f *Form) scalarKind(field ScalarField) (Kind, bool) {
	kind, ok := scalarKinds[field]
	if !ok {
		return 0, false
	}
	if override, ok := f.overrides[string(field)]; ok {
		return override, true
	}
	return kind, true
}

func (f *Form) resolveEntryField(group Group, field EntryField) (Kind, error) {
	fields, ok := entryKinds[group]
	if !ok {
		f.programmingError("update entry: unknown group", zap.String("group", string(group)))
		return 0, fmt.Errorf("%w: %q", ErrUnknownGroup, group)
	}
	kind, ok := fields[field]
	if !ok {
		f.programmingError("update entry: unknown field", zap.String("group", string(group)), zap.String("field", string(field)))
		return 0, fmt.Errorf("%w: %s.%s", ErrUnknownField, group, field)
	}
	if override, ok := f.overrides[entryPath(group, field)]; ok {
		return override, nil
	}
	return kind, nil
}

func (f *Form) checkIndex(group Group, index int) error {
	n := f.Len(group)
	if index >= 0 && index < n {
		return nil
	}
	err := &IndexError{Group: group, Index: index, Len: n, SubIndex: -1}
	f.logger.Warn("stale entry index rejected",
		zap.String("group", string(group)),
		zap.Int("index", index),
		zap.Int("len", n),
	)
	return err
}

func (f *Form) checkSubIndex(group Group, index int, field EntryField, subIndex, n int) error {
	if subIndex >= 0 && subIndex < n {
		return nil
	}
	err := &IndexError{Group: group, Index: index, Len: f.Len(group), Field: field, SubIndex: subIndex, SubLen: n}
	f.logger.Warn("stale sub-item index rejected",
		zap.String("group", string(group)),
		zap.Int("index", index),
		zap.String("field", string(field)),
		zap.Int("sub_index", subIndex),
		zap.Int("sub_len", n),
	)
	return err
}

func (f *Form) subList(group Group, index int, field EntryField) (*[]string, error) {
	kind, err := f.resolveEntryField(group, field)
	if err != nil {
		return nil, err
	}
	if kind != KindList {
		return nil, fmt.Errorf("%w: %s.%s is not a list", ErrUnknownField, group, field)
	}
	if err := f.checkIndex(group, index); err != nil {
		return nil, err
	}
	// Jobs are the only group with a nested list today.
	return &f.record.Jobs[index].Responsibilities, nil
}

func (f *Form) assign(group Group, index int, field EntryField, value any) {
	text, _ := value.(string)
	switch group {
	case GroupEducation:
		e := &f.record.Education[index]
		switch field {
		case EntryCourse:
			e.Course = text
		case EntrySchool:
			e.Institution = text
		case EntryStatus:
			e.Status = Status(text)
		case EntryStart:
			e.Start = text
		case EntryEnd:
			e.End = text
		}
	case GroupCourses:
		e := &f.record.Courses[index]
		switch field {
		case EntryCourse:
			e.Course = text
		case EntryInstitution:
			e.Institution = text
		case EntryStatus:
			e.Status = Status(text)
		case EntryStart:
			e.Start = text
		case EntryEnd:
			e.End = text
		}
	case GroupJobs:
		e := &f.record.Jobs[index]
		switch field {
		case EntryCompany:
			e.Company = text
		case EntryRole:
			e.Role = text
		case EntryCurrent:
			e.Current, _ = value.(bool)
		case EntryStart:
			e.Start = text
		case EntryEnd:
			e.End = text
		case EntryResponsibilities:
			e.Responsibilities, _ = value.([]string)
		}
	case GroupKnowledge:
		f.record.Knowledge[index].Description = text
	case GroupLanguages:
		e := &f.record.Languages[index]
		switch field {
		case EntryLanguage:
			e.Language = Language(text)
		case EntryProficiency:
			e.Proficiency = Proficiency(text)
		}
	}
}

// pruneOverrides drops overrides that would turn structured fields into text
// or text fields into structured ones.
func (f *Form) pruneOverrides() {
	for path, kind := range f.overrides {
		base, known := f.defaultKind(path)
		if known && isTextKind(base) && isTextKind(kind) {
			continue
		}
		f.programmingError("field kind override ignored",
			zap.String("path", path),
			zap.Stringer("kind", kind),
		)
		delete(f.overrides, path)
	}
}

func (f *Form) defaultKind(path string) (Kind, bool) {
	if kind, ok := scalarKinds[ScalarField(path)]; ok {
		return kind, true
	}
	group, field, ok := strings.Cut(path, ".")
	if !ok {
		return 0, false
	}
	kind, ok := entryKinds[Group(group)][EntryField(field)]
	return kind, ok
}

func (f *Form) programmingError(msg string, fields ...zap.Field) {
	if f.strict {
		panic(fmt.Sprintf("model: %s", msg))
	}
	f.logger.Error(msg, fields...)
}

func isTextKind(kind Kind) bool {
	switch kind {
	case KindIdentity, KindCapitalized, KindPhone, KindEmail, KindLicense:
		return true
	default:
		return false
	}
}

func isNilEntry(entry Entry) bool {
	switch e := entry.(type) {
	case nil:
		return true
	case *EducationEntry:
		return e == nil
	case *CourseEntry:
		return e == nil
	case *JobEntry:
		return e == nil
	case *KnowledgeEntry:
		return e == nil
	case *LanguageEntry:
		return e == nil
	default:
		return false
	}
}

func deref(entry Entry) Entry {
	switch e := entry.(type) {
	case *EducationEntry:
		return *e
	case *CourseEntry:
		return *e
	case *JobEntry:
		return *e
	case *KnowledgeEntry:
		return *e
	case *LanguageEntry:
		return *e
	default:
		return entry
	}
}

func coerceString(value any) (string, bool) {
	switch v := value.(type) {
	case string:
		return v, true
	case Status:
		return string(v), true
	case Language:
		return string(v), true
	case Proficiency:
		return string(v), true
	default:
		return "", false
	}
}

func coerceBool(value any) (bool, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case string:
		if strings.TrimSpace(v) == "" {
			return false, nil
		}
		return strconv.ParseBool(strings.TrimSpace(v))
	default:
		return false, fmt.Errorf("expects bool, got %T", value)
	}
}

func validMonth(text string) bool {
	if text == "" {
		return true
	}
	_, err := time.Parse("2006-01", text)
	return err == nil
}
