package parser

// LabelTable maps a label name to the origin line it resolves to. During
// Pass 2 that value is provisional (see resolveLabelTargets in parser.go);
// by the time parsing finishes it is the origin line of the first surviving
// instruction after the label declaration, matching the Label Table
// definition in SPEC_FULL.md §3.
type LabelTable struct {
	targets map[string]int
	decls   map[string]Position
}

// NewLabelTable creates an empty label table.
func NewLabelTable() *LabelTable {
	return &LabelTable{
		targets: make(map[string]int),
		decls:   make(map[string]Position),
	}
}

// Define records a label declaration. It returns false if the label was
// already defined (redefinition is fatal per SPEC_FULL.md §4.3, Pass 2).
func (t *LabelTable) Define(name string, declOrigin int, pos Position) bool {
	if _, exists := t.targets[name]; exists {
		return false
	}
	t.targets[name] = declOrigin
	t.decls[name] = pos
	return true
}

// Resolve looks up a label's current target origin line.
func (t *LabelTable) Resolve(name string) (int, bool) {
	line, ok := t.targets[name]
	return line, ok
}

// set overwrites a label's target origin line (used once the first
// surviving instruction after the declaration is known).
func (t *LabelTable) set(name string, origin int) {
	t.targets[name] = origin
}

// Names returns every declared label name.
func (t *LabelTable) Names() []string {
	names := make([]string, 0, len(t.targets))
	for n := range t.targets {
		names = append(names, n)
	}
	return names
}
