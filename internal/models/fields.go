package models

// Field is one user-defined named scalar carried by a point.
type Field struct {
	Name  string
	Value float32
}

// FieldList is an insertion-ordered list of named scalars.
//
// Names are not required to be unique. Lookups scan the list linearly and
// return the first match; points typically carry only a handful of fields.
// The order is significant: it is replayed into the column schema when a
// tube is written.
type FieldList struct {
	fields []Field
}

// Len returns the number of fields.
func (l *FieldList) Len() int {
	return len(l.fields)
}

// At returns the field stored at index i.
func (l *FieldList) At(i int) Field {
	return l.fields[i]
}

// Index returns the index of the first field called name.
func (l *FieldList) Index(name string) (int, bool) {
	for i, f := range l.fields {
		if f.Name == name {
			return i, true
		}
	}
	return -1, false
}

// Get returns the value of the first field called name.
func (l *FieldList) Get(name string) (float32, bool) {
	return l.Nth(name, 0)
}

// Nth returns the value of the n-th (zero based) field called name.
func (l *FieldList) Nth(name string, n int) (float32, bool) {
	seen := 0
	for _, f := range l.fields {
		if f.Name != name {
			continue
		}
		if seen == n {
			return f.Value, true
		}
		seen++
	}
	return 0, false
}

// Set updates the first field called name, or appends a new field when no
// field has that name.
func (l *FieldList) Set(name string, value float32) {
	if i, ok := l.Index(name); ok {
		l.fields[i].Value = value
		return
	}
	l.Append(name, value)
}

// Append adds a field at the end of the list even if the name is taken.
func (l *FieldList) Append(name string, value float32) {
	l.fields = append(l.fields, Field{Name: name, Value: value})
}

// SetAt overwrites the field at index i.
func (l *FieldList) SetAt(i int, name string, value float32) {
	l.fields[i] = Field{Name: name, Value: value}
}

// Resize grows or truncates the list to n entries. New entries are unnamed
// and zero valued, to be filled in with SetAt.
func (l *FieldList) Resize(n int) {
	if n < 0 {
		n = 0
	}
	if n <= len(l.fields) {
		l.fields = l.fields[:n]
		return
	}
	l.fields = append(l.fields, make([]Field, n-len(l.fields))...)
}

// Names returns the field names in insertion order.
func (l *FieldList) Names() []string {
	names := make([]string, len(l.fields))
	for i, f := range l.fields {
		names[i] = f.Name
	}
	return names
}

// Fields returns a copy of the stored fields.
func (l *FieldList) Fields() []Field {
	out := make([]Field, len(l.fields))
	copy(out, l.fields)
	return out
}

// Clear removes every field.
func (l *FieldList) Clear() {
	l.fields = nil
}

// Clone returns a deep copy of the list.
func (l *FieldList) Clone() FieldList {
	if len(l.fields) == 0 {
		return FieldList{}
	}
	return FieldList{fields: l.Fields()}
}
