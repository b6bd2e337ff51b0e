package history

import "slices"

// orderedNames is an ordered, deduplicated list of names with an index lookup.
// positions holds the index of every name in names and is recomputed on insertion.
type orderedNames struct {
	names     []string
	positions map[string]int
}

func newOrderedNames() *orderedNames {
	return &orderedNames{positions: make(map[string]int)}
}

// indexOf returns the position of name, or -1 when it is unknown.
func (o *orderedNames) indexOf(name string) int {
	if idx, ok := o.positions[name]; ok {
		return idx
	}
	return -1
}

// insertAt places name at idx and shifts the positions of every later name.
func (o *orderedNames) insertAt(idx int, name string) {
	idx = min(max(idx, 0), len(o.names))
	o.names = slices.Insert(o.names, idx, name)
	for i := idx; i < len(o.names); i++ {
		o.positions[o.names[i]] = i
	}
}

// merger folds one run's name list into an orderedNames using a cursor.
// A known name moves the cursor to its position; a new name is inserted
// at the cursor, which then advances by one.
type merger struct {
	target *orderedNames
	cursor int
}

// add merges name and reports whether it was new to the target.
func (m *merger) add(name string) bool {
	if idx := m.target.indexOf(name); idx >= 0 {
		m.cursor = idx
		return false
	}
	m.target.insertAt(m.cursor, name)
	m.cursor++
	return true
}

// snapshot returns a copy of the names that does not alias internal state.
func (o *orderedNames) snapshot() []string {
	out := make([]string, len(o.names))
	copy(out, o.names)
	return out
}
