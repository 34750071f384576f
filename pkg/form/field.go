package form

import (
	"fmt"
	"slices"

	"github.com/dmitrymomot/regform/pkg/validator"
)

// FieldID identifies one of the registration form fields.
type FieldID string

const (
	FirstName       FieldID = "firstName"
	LastName        FieldID = "lastName"
	Email           FieldID = "email"
	Country         FieldID = "country"
	City            FieldID = "city"
	Phone           FieldID = "phone"
	Age             FieldID = "age"
	Address         FieldID = "address"
	Password        FieldID = "password"
	ConfirmPassword FieldID = "confirmPassword"
	Gender          FieldID = "gender"
	Terms           FieldID = "terms"
)

// fieldOrder is the declaration order. Focus and iteration follow it.
var fieldOrder = [...]FieldID{
	FirstName, LastName, Email, Country, City, Phone,
	Age, Address, Password, ConfirmPassword, Gender, Terms,
}

const fieldCount = len(fieldOrder)

var fieldIndex = func() map[FieldID]int {
	m := make(map[FieldID]int, fieldCount)
	for i, id := range fieldOrder {
		m[id] = i
	}
	return m
}()

// FieldIDs returns every field id in declaration order.
func FieldIDs() []FieldID {
	return slices.Clone(fieldOrder[:])
}

// ParseFieldID converts s to a FieldID, failing with ErrUnknownField.
func ParseFieldID(s string) (FieldID, error) {
	id := FieldID(s)
	if !id.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownField, s)
	}
	return id, nil
}

func (id FieldID) Valid() bool {
	_, ok := fieldIndex[id]
	return ok
}

func (id FieldID) String() string {
	return string(id)
}

// Kind describes how a field stores its value.
type Kind string

const (
	KindText       Kind = "text"
	KindSelect     Kind = "select"
	KindCheckbox   Kind = "checkbox"
	KindCheckgroup Kind = "checkgroup"
)

// Kind returns the kind of the field.
func (id FieldID) Kind() Kind {
	switch id {
	case Country, City:
		return KindSelect
	case Terms:
		return KindCheckbox
	case Gender:
		return KindCheckgroup
	default:
		return KindText
	}
}

// Value is the raw value of a field. Text holds text and select values,
// Checked the single checkbox and Choices the checked options of a group.
type Value struct {
	Text    string   `json:"text,omitempty" yaml:"text,omitempty"`
	Checked bool     `json:"checked,omitempty" yaml:"checked,omitempty"`
	Choices []string `json:"choices,omitempty" yaml:"choices,omitempty"`
}

// Text is a shorthand for a text or select value.
func Text(s string) Value { return Value{Text: s} }

// Checked is a shorthand for a checkbox value.
func Checked(b bool) Value { return Value{Checked: b} }

// Choices is a shorthand for a check group value.
func Choices(c ...string) Value { return Value{Choices: c} }

// IsZero reports whether v is the empty value of any kind.
func (v Value) IsZero() bool {
	return v.Text == "" && !v.Checked && len(v.Choices) == 0
}

func (v Value) clone() Value {
	v.Choices = slices.Clone(v.Choices)
	return v
}

// Status is the evaluation state of a field.
type Status string

const (
	StatusUnevaluated Status = "unevaluated"
	StatusValid       Status = "valid"
	StatusInvalid     Status = "invalid"
)

// Field is the current state of one form field.
type Field struct {
	ID      FieldID `json:"id"`
	Kind    Kind    `json:"kind"`
	Value   Value   `json:"value"`
	Status  Status  `json:"status"`
	Reason  Reason  `json:"reason,omitempty"`
	Message string  `json:"message,omitempty"`
}

// FieldSet holds all fields in declaration order. The zero value is not
// usable; create one with NewFieldSet. Copies made with Clone are independent.
type FieldSet struct {
	fields [fieldCount]Field
}

// NewFieldSet returns a field set with every field empty and unevaluated.
func NewFieldSet() FieldSet {
	var fs FieldSet
	for i, id := range fieldOrder {
		fs.fields[i] = Field{ID: id, Kind: id.Kind(), Status: StatusUnevaluated}
	}
	return fs
}

// Field returns the field for id. Unknown ids yield the zero Field.
func (fs FieldSet) Field(id FieldID) Field {
	i, ok := fieldIndex[id]
	if !ok {
		return Field{}
	}
	f := fs.fields[i]
	f.Value = f.Value.clone()
	return f
}

// Value returns the raw value of id.
func (fs FieldSet) Value(id FieldID) Value {
	return fs.Field(id).Value
}

// Text returns the text value of id.
func (fs FieldSet) Text(id FieldID) string {
	i, ok := fieldIndex[id]
	if !ok {
		return ""
	}
	return fs.fields[i].Value.Text
}

// Fields returns every field in declaration order.
func (fs FieldSet) Fields() []Field {
	out := make([]Field, 0, fieldCount)
	for _, id := range fieldOrder {
		out = append(out, fs.Field(id))
	}
	return out
}

// SetValue replaces the value of id without touching its status.
func (fs *FieldSet) SetValue(id FieldID, v Value) error {
	i, ok := fieldIndex[id]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, id)
	}
	fs.fields[i].Value = v.clone()
	return nil
}

// Clone returns a deep copy.
func (fs FieldSet) Clone() FieldSet {
	out := fs
	for i := range out.fields {
		out.fields[i].Value = out.fields[i].Value.clone()
	}
	return out
}

// Valid reports whether every field is valid.
func (fs FieldSet) Valid() bool {
	for _, f := range fs.fields {
		if f.Status != StatusValid {
			return false
		}
	}
	return true
}

// FirstInvalid returns the first invalid field in declaration order.
func (fs FieldSet) FirstInvalid() (FieldID, bool) {
	for _, f := range fs.fields {
		if f.Status == StatusInvalid {
			return f.ID, true
		}
	}
	return "", false
}

// Err reports the invalid fields as validator.ValidationErrors, with the
// verdict reason as code. It returns nil when no field is invalid.
func (fs FieldSet) Err() error {
	var errs validator.ValidationErrors
	for _, f := range fs.fields {
		if f.Status == StatusInvalid {
			errs.Add(validator.ValidationError{
				Field:   f.ID.String(),
				Code:    string(f.Reason),
				Message: f.Message,
			})
		}
	}
	if errs.IsEmpty() {
		return nil
	}
	return errs
}

func (fs *FieldSet) record(id FieldID, status Status, v Verdict) {
	i := fieldIndex[id]
	fs.fields[i].Status = status
	fs.fields[i].Reason = v.Reason
	fs.fields[i].Message = v.Message
}

func (fs *FieldSet) reset() {
	*fs = NewFieldSet()
}
