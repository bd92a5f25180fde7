package sqlgraph

// Draft is the staging record of an insert or update. Fields keep the order
// in which they were first set; a field that was never set is left to the
// store default on insert and untouched on update.
type Draft struct {
	order  []string
	values map[string]any
}

// NewDraft returns an empty draft.
func NewDraft() *Draft {
	return &Draft{values: make(map[string]any)}
}

// Set sets field to v. A nil v stores NULL.
func (d *Draft) Set(field string, v any) *Draft {
	if d.values == nil {
		d.values = make(map[string]any)
	}
	if _, ok := d.values[field]; !ok {
		d.order = append(d.order, field)
	}
	d.values[field] = v
	return d
}

// Unset removes field from the draft.
func (d *Draft) Unset(field string) *Draft {
	if _, ok := d.values[field]; !ok {
		return d
	}
	delete(d.values, field)
	for i, f := range d.order {
		if f == field {
			d.order = append(d.order[:i:i], d.order[i+1:]...)
			break
		}
	}
	return d
}

// Value returns the value of field and whether it is set.
func (d *Draft) Value(field string) (any, bool) {
	v, ok := d.values[field]
	return v, ok
}

// Fields returns the set fields in the order they were first set.
func (d *Draft) Fields() []string {
	return append([]string(nil), d.order...)
}

// Len returns the number of set fields.
func (d *Draft) Len() int {
	return len(d.order)
}

// Clone returns a copy of the draft. Values are copied shallowly.
func (d *Draft) Clone() *Draft {
	c := &Draft{
		order:  append([]string(nil), d.order...),
		values: make(map[string]any, len(d.values)),
	}
	for k, v := range d.values {
		c.values[k] = v
	}
	return c
}

// Change is one entry of an update change list. Changes are applied in
// order, so a later change on the same field wins.
type Change func(*Draft)

// SetField returns a change that sets field to v.
func SetField(field string, v any) Change {
	return func(d *Draft) { d.Set(field, v) }
}

// ClearField returns a change that sets field to NULL.
func ClearField(field string) Change {
	return func(d *Draft) { d.Set(field, nil) }
}

func applyChanges(d *Draft, changes []Change) {
	for _, c := range changes {
		c(d)
	}
}
