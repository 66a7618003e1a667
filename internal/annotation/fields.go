package annotation

import (
	"bytes"
	"encoding/json"
	"slices"
)

// URLColumn is the source column rendered as an article link when present.
const URLColumn = "URL"

// Field is a single named cell value.
type Field struct {
	Name  string
	Value any
}

// Fields is an ordered set of named values. Column order is significant and
// is preserved through JSON encoding and export.
type Fields []Field

// Get returns the value stored under name.
func (f Fields) Get(name string) (any, bool) {
	for _, field := range f {
		if field.Name == name {
			return field.Value, true
		}
	}
	return nil, false
}

// Columns returns the field names in order.
func (f Fields) Columns() []string {
	cols := make([]string, len(f))
	for i, field := range f {
		cols[i] = field.Name
	}
	return cols
}

// Set replaces the value of an existing column or appends a new one.
func (f Fields) Set(name string, value any) Fields {
	for i := range f {
		if f[i].Name == name {
			f[i].Value = value
			return f
		}
	}
	return append(f, Field{Name: name, Value: value})
}

// Clone returns a copy that shares no backing array with f.
func (f Fields) Clone() Fields {
	return slices.Clone(f)
}

// MarshalJSON encodes the fields as a JSON object in column order.
func (f Fields) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, field := range f {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(field.Name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(field.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Row is an ingested spreadsheet record. ID is assigned when the row is
// loaded and never changes; the row's visible identity is its position
// within whichever bucket currently holds it.
type Row struct {
	ID     uint64 `json:"id"`
	Fields Fields `json:"fields"`
}

// URL returns the row's article link, or "" when the column is absent or empty.
func (r Row) URL() string {
	v, ok := r.Fields.Get(URLColumn)
	if !ok || v == nil {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return s
}

func (r Row) clone() Row {
	return Row{ID: r.ID, Fields: r.Fields.Clone()}
}
