package types

// MappingEntry is one source→destination route.
type MappingEntry struct {
	Source string
	Dest   string
}

// FileMapping is the ordered set of routes produced by flattening a
// resolved tree. Sources are unique: the first route recorded for a
// source wins and later ones are rejected.
type FileMapping struct {
	sources []string
	routes  map[string]string
	dests   map[string]string
}

// NewFileMapping returns an empty mapping.
func NewFileMapping() *FileMapping {
	return &FileMapping{
		routes: make(map[string]string),
		dests:  make(map[string]string),
	}
}

// Add records a route. It returns false without modifying the mapping
// when the source is already mapped.
func (m *FileMapping) Add(source, dest string) bool {
	if _, dup := m.routes[source]; dup {
		return false
	}
	m.routes[source] = dest
	m.dests[dest] = source
	m.sources = append(m.sources, source)
	return true
}

// Dest returns the destination recorded for a source.
func (m *FileMapping) Dest(source string) (string, bool) {
	dest, ok := m.routes[source]
	return dest, ok
}

// HasSource reports whether the source is already mapped.
func (m *FileMapping) HasSource(source string) bool {
	_, ok := m.routes[source]
	return ok
}

// HasDest reports whether any source already maps to the destination.
func (m *FileMapping) HasDest(dest string) bool {
	_, ok := m.dests[dest]
	return ok
}

// Len returns the number of routes.
func (m *FileMapping) Len() int {
	return len(m.sources)
}

// Sources returns the mapped sources in insertion order.
func (m *FileMapping) Sources() []string {
	out := make([]string, len(m.sources))
	copy(out, m.sources)
	return out
}

// Entries returns all routes in insertion order.
func (m *FileMapping) Entries() []MappingEntry {
	out := make([]MappingEntry, 0, len(m.sources))
	for _, source := range m.sources {
		out = append(out, MappingEntry{Source: source, Dest: m.routes[source]})
	}
	return out
}
