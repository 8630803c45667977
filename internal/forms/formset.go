package forms

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// MaxForms caps the rows a single formset submission may carry.
const MaxForms = 1000

// Hidden is a hidden input rendered with a formset.
type Hidden struct {
	Name  string
	Value string
}

// Formset is a bound or unbound collection of child rows of one parent.
// Submissions follow the management protocol: <prefix>-TOTAL_FORMS and
// <prefix>-INITIAL_FORMS, rows as <prefix>-<i>-<field>, plus <prefix>-<i>-id
// for existing rows and <prefix>-<i>-DELETE to remove one.
type Formset struct {
	Prefix        string
	Fields        []FieldRule
	Forms         []*Form
	NonFormErrors []string
	Bound         bool
}

func newFormset(prefix string, rules []FieldRule) *Formset {
	return &Formset{Prefix: prefix, Fields: rules}
}

func (fs *Formset) rowPrefix(i int) string {
	return fmt.Sprintf("%s-%d", fs.Prefix, i)
}

func (fs *Formset) addRow(data map[string]string, id int64) *Form {
	f := newForm(fs.rowPrefix(len(fs.Forms)), fs.Fields)
	for k, v := range data {
		f.Data[k] = v
	}
	if id > 0 {
		f.ID = id
		f.Data["id"] = strconv.FormatInt(id, 10)
	}
	fs.Forms = append(fs.Forms, f)
	return f
}

// addExtra appends n blank rows for new children.
func (fs *Formset) addExtra(n int) {
	for i := 0; i < n; i++ {
		fs.addRow(nil, 0)
	}
}

func (fs *Formset) TotalForms() int {
	return len(fs.Forms)
}

func (fs *Formset) InitialForms() int {
	n := 0
	for _, f := range fs.Forms {
		if f.ID > 0 {
			n++
		}
	}
	return n
}

func (fs *Formset) ManagementForm() []Hidden {
	return []Hidden{
		{Name: fs.Prefix + "-TOTAL_FORMS", Value: strconv.Itoa(fs.TotalForms())},
		{Name: fs.Prefix + "-INITIAL_FORMS", Value: strconv.Itoa(fs.InitialForms())},
		{Name: fs.Prefix + "-MIN_NUM_FORMS", Value: "0"},
		{Name: fs.Prefix + "-MAX_NUM_FORMS", Value: strconv.Itoa(MaxForms)},
	}
}

func (fs *Formset) IsValid() bool {
	if !fs.Bound || len(fs.NonFormErrors) > 0 {
		return false
	}
	for _, f := range fs.Forms {
		if f.HasErrors() {
			return false
		}
	}
	return true
}

// RejectUnknownIDs flags every row whose id fails known. Rows that only ask
// to delete an unknown id are flagged as well.
func (fs *Formset) RejectUnknownIDs(known func(id int64) bool) {
	for _, f := range fs.Forms {
		if f.ID > 0 && !known(f.ID) {
			f.AddError("id", MsgInvalidChoice)
		}
	}
}

// RejectDuplicateIDs flags every row after the first that names an id
// already used by an earlier row of the same submission.
func (fs *Formset) RejectDuplicateIDs() {
	seen := make(map[int64]bool, len(fs.Forms))
	for _, f := range fs.Forms {
		if f.ID == 0 {
			continue
		}
		if seen[f.ID] {
			f.AddError("id", MsgInvalidChoice)
			continue
		}
		seen[f.ID] = true
	}
}

// AddNonFormError records an error that belongs to the formset as a whole.
func (fs *Formset) AddNonFormError(msg string) {
	fs.NonFormErrors = append(fs.NonFormErrors, msg)
}

// Changed returns the rows that carry a change: new or edited rows and
// deletions of existing rows. Blank extra rows are left out.
func (fs *Formset) Changed() []*Form {
	var rows []*Form
	for _, f := range fs.Forms {
		if f.Empty || (f.Deleted && f.ID == 0) {
			continue
		}
		rows = append(rows, f)
	}
	return rows
}

func bindFormset(values url.Values, prefix string, rules []FieldRule) *Formset {
	fs := newFormset(prefix, rules)
	fs.Bound = true

	total, errTotal := strconv.Atoi(strings.TrimSpace(values.Get(prefix + "-TOTAL_FORMS")))
	initial, errInitial := strconv.Atoi(strings.TrimSpace(values.Get(prefix + "-INITIAL_FORMS")))
	if errTotal != nil || errInitial != nil || total < 0 || initial < 0 || initial > total {
		fs.NonFormErrors = append(fs.NonFormErrors, MsgManagement)
		return fs
	}
	if total > MaxForms {
		fs.NonFormErrors = append(fs.NonFormErrors, fmt.Sprintf("Please submit at most %d forms.", MaxForms))
		return fs
	}

	for i := 0; i < total; i++ {
		f := newForm(fs.rowPrefix(i), rules)
		f.Bound = true
		bindRow(f, values)
		fs.Forms = append(fs.Forms, f)
	}
	return fs
}

func bindRow(f *Form, values url.Values) {
	for _, fr := range f.Fields {
		f.Data[fr.Name] = strings.TrimSpace(values.Get(f.Name(fr.Name)))
	}
	rawID := strings.TrimSpace(values.Get(f.Name("id")))
	f.Data["id"] = rawID
	f.Deleted = truthy(values.Get(f.Name("DELETE")))
	if f.Deleted {
		f.Data["DELETE"] = "on"
	}

	if rawID != "" {
		id, ok := parsePK(rawID)
		if !ok {
			f.AddError("id", MsgInvalidChoice)
			return
		}
		f.ID = id
	}

	switch {
	case f.Deleted:
		// deleted rows are not validated
	case f.ID == 0 && f.blank():
		f.Empty = true
	default:
		f.validate()
	}
}

// truthy follows checkbox semantics: absent or an explicit false value is false.
func truthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "false", "0", "off":
		return false
	}
	return true
}
