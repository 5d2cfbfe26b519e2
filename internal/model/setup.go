package model

// SetupMatrix maps a (from_format, to_format) pair to the number of
// minutes required to switch the line between them. A lookup with an
// empty/unknown "from" format returns 0, matching the "current_format
// initially null" case in spec.md §4.3.
type SetupMatrix struct {
	minutes map[string]map[string]int
}

// NewSetupMatrix builds an empty matrix.
func NewSetupMatrix() *SetupMatrix {
	return &SetupMatrix{minutes: make(map[string]map[string]int)}
}

// Set records the setup cost for a (from, to) pair.
func (m *SetupMatrix) Set(from, to string, minutesCost int) {
	if m.minutes[from] == nil {
		m.minutes[from] = make(map[string]int)
	}
	m.minutes[from][to] = minutesCost
}

// Lookup returns the setup minutes for switching from "from" to "to".
// An empty "from" (no prior format) always costs 0. A missing pair
// defaults to 0 per spec.md §3.
func (m *SetupMatrix) Lookup(from, to string) int {
	if from == "" {
		return 0
	}
	row, ok := m.minutes[from]
	if !ok {
		return 0
	}
	return row[to]
}

// Clone returns an independent copy. Clones of the engine may still
// share the same *SetupMatrix by reference since it is immutable after
// construction (spec.md §5) — this method exists for callers that do
// need an independent copy, e.g. building a modified matrix for tests.
func (m *SetupMatrix) Clone() *SetupMatrix {
	out := NewSetupMatrix()
	for from, row := range m.minutes {
		for to, v := range row {
			out.Set(from, to, v)
		}
	}
	return out
}
