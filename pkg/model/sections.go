package model

import "sort"

// Section is one render block: the ungrouped fields (Group nil) or the
// members of a single group, each sorted by Order.
type Section struct {
	Group  *FieldGroup
	Fields []FieldDefinition
}

// Sections splits the definition into render blocks. Ungrouped fields come
// first, then one section per group in group order. Fields pointing at a
// group that does not exist are treated as ungrouped. The ungrouped section
// is omitted when empty; group sections are always present.
func (d FormDefinition) Sections() []Section {
	groups := CloneGroups(d.Groups)
	sort.SliceStable(groups, func(i, j int) bool { return groups[i].Order < groups[j].Order })

	known := make(map[string]int, len(groups))
	for i, group := range groups {
		if _, dup := known[group.ID]; !dup {
			known[group.ID] = i
		}
	}

	fields := SortedFields(d.Fields)
	buckets := make([][]FieldDefinition, len(groups))
	var ungrouped []FieldDefinition
	for _, field := range fields {
		if idx, ok := known[field.GroupID]; ok && field.GroupID != "" {
			buckets[idx] = append(buckets[idx], field)
			continue
		}
		ungrouped = append(ungrouped, field)
	}

	var out []Section
	if len(ungrouped) > 0 {
		out = append(out, Section{Fields: ungrouped})
	}
	for i := range groups {
		group := groups[i]
		out = append(out, Section{Group: &group, Fields: buckets[i]})
	}
	return out
}

// SortedFields returns a deep copy of fields ordered by Order, keeping array
// position for ties.
func SortedFields(fields []FieldDefinition) []FieldDefinition {
	out := CloneFields(fields)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

// HasGroup reports whether a group with id exists.
func (d FormDefinition) HasGroup(id string) bool {
	for _, group := range d.Groups {
		if group.ID == id {
			return true
		}
	}
	return false
}

// FieldIndex returns the array position of the field with id, or -1.
func (d FormDefinition) FieldIndex(id string) int {
	for i, field := range d.Fields {
		if field.ID == id {
			return i
		}
	}
	return -1
}

// FieldByName returns the first field called name.
func (d FormDefinition) FieldByName(name string) (FieldDefinition, bool) {
	for _, field := range d.Fields {
		if field.Name == name {
			return field.Clone(), true
		}
	}
	return FieldDefinition{}, false
}

// Renumber assigns dense zero-based orders matching array position.
func (d *FormDefinition) Renumber() {
	for i := range d.Fields {
		d.Fields[i].Order = i
	}
}
