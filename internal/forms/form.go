// Package forms binds raw submitted values to typed inputs. A bound form that
// fails validation keeps the submitted values and per-field messages so the
// page can be rendered again.
package forms

import (
	"net/url"
	"strings"
)

// NonFieldErrors is the FieldErrors key for errors not tied to one field.
const NonFieldErrors = "__all__"

// FieldErrors maps a field name to its validation messages.
type FieldErrors map[string][]string

func (e FieldErrors) Add(field, msg string) {
	e[field] = append(e[field], msg)
}

func (e FieldErrors) Get(field string) []string {
	return e[field]
}

// FieldRule names a form field and the validator rules applied to its trimmed value.
type FieldRule struct {
	Name  string
	Label string
	Rules string
}

type Form struct {
	Prefix string
	Fields []FieldRule
	Data   map[string]string
	Errors FieldErrors
	Bound  bool

	// Formset row state.
	ID      int64
	Deleted bool
	Empty   bool
}

func newForm(prefix string, rules []FieldRule) *Form {
	return &Form{
		Prefix: prefix,
		Fields: rules,
		Data:   map[string]string{},
		Errors: FieldErrors{},
	}
}

// Name is the input name of field, including the form prefix.
func (f *Form) Name(field string) string {
	if f.Prefix == "" {
		return field
	}
	return f.Prefix + "-" + field
}

func (f *Form) Value(field string) string {
	return f.Data[field]
}

// IntValue parses field as a positive id.
func (f *Form) IntValue(field string) (int64, bool) {
	return parsePK(f.Data[field])
}

func (f *Form) ErrorsFor(field string) []string {
	return f.Errors.Get(field)
}

func (f *Form) NonFieldErrors() []string {
	return f.Errors.Get(NonFieldErrors)
}

func (f *Form) AddError(field, msg string) {
	f.Errors.Add(field, msg)
}

func (f *Form) HasErrors() bool {
	return len(f.Errors) > 0
}

func (f *Form) IsValid() bool {
	return f.Bound && !f.HasErrors()
}

// bind reads every declared field from values and validates it.
func (f *Form) bind(values url.Values) {
	f.Bound = true
	for _, fr := range f.Fields {
		f.Data[fr.Name] = strings.TrimSpace(values.Get(f.Name(fr.Name)))
	}
	f.validate()
}

func (f *Form) validate() {
	for _, fr := range f.Fields {
		if msg := checkField(f.Data[fr.Name], fr.Rules); msg != "" {
			f.AddError(fr.Name, msg)
		}
	}
}

// blank reports whether every declared field was submitted empty.
func (f *Form) blank() bool {
	for _, fr := range f.Fields {
		if f.Data[fr.Name] != "" {
			return false
		}
	}
	return true
}

func pickFields(all []FieldRule, names []string) []FieldRule {
	rules := make([]FieldRule, 0, len(names))
	for _, n := range names {
		for _, s := range all {
			if s.Name == n {
				rules = append(rules, s)
				break
			}
		}
	}
	return rules
}
