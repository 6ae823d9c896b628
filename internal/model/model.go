// Package model implements the evaluation-time sink spec.md section 3
// calls the Model and Group: a stack of named groups, each an ordered
// list of Part/Primitive/Comment entries plus the transformation
// matrix in force, accumulated by the `part`/`translate`/`group`
// family of built-ins and later walked by a serializer.
//
// Grounded on original_source/opensdraw/lcad_language/interpreter.py's
// Group class and the interpreter's curGroup/mGroups stack bookkeeping
// (groupNames de-duplication, "main" as the implicit root group),
// translated into an idiomatic Go stack-of-groups type — no file in
// the teacher corpus has this domain.
package model

import (
	"sort"

	"github.com/HazenBabcock/opensdraw/internal/value"
	"golang.org/x/exp/slices"
)

// PrimitiveKind distinguishes the three LDraw drawing-primitive types
// spec.md section 4.5 exposes as `line`/`triangle`/`quadrilateral`.
type PrimitiveKind int

const (
	PrimitiveLine PrimitiveKind = iota
	PrimitiveTriangle
	PrimitiveQuadrilateral
)

// Color is either a small palette index or a 24-bit direct color
// (spec.md section 6: "0x2RRGGBB"). Direct is set for the latter.
type Color struct {
	Index  int
	Direct bool
	RGB    uint32
}

// Part is a positioned part reference (spec.md section 3).
type Part struct {
	PartID string
	Color  Color
	Matrix *value.Matrix4
	Step   int
}

// Primitive is a positioned line/triangle/quad drawing command.
type Primitive struct {
	Kind   PrimitiveKind
	Points [][3]float64
	Color  Color
	Matrix *value.Matrix4
	Step   int
}

// Comment is a verbatim header/comment line (spec.md section 4.5 `header`).
type Comment struct {
	Text string
}

// EntryKind tags which of Part/Primitive/Comment an Entry holds.
type EntryKind int

const (
	EntryPart EntryKind = iota
	EntryPrimitive
	EntryComment
)

// Entry is one ordered item in a Group, tagged by EntryKind so the
// serializer can walk a single slice instead of three parallel ones —
// insertion order (and therefore step order, since steps only ever
// increase) must be preserved exactly as emitted.
type Entry struct {
	Kind      EntryKind
	Part      *Part
	Primitive *Primitive
	Comment   *Comment
}

func (e Entry) step() int {
	switch e.Kind {
	case EntryPart:
		return e.Part.Step
	case EntryPrimitive:
		return e.Primitive.Step
	default:
		return -1
	}
}

// Group is a named collection of entries corresponding to one logical
// LDraw sub-file (spec.md section 3). The "main" group is always
// present and is the implicit root of a single-group document.
type Group struct {
	Name    string
	Entries []Entry
	Matrix  *value.Matrix4
	step    int
}

func newGroup(name string) *Group {
	return &Group{Name: name, Matrix: value.Identity4()}
}

// HasComments reports whether any entry in the group is a Comment,
// which suppresses automatic `0 STEP` insertion between differing
// step numbers (spec.md section 6).
func (g *Group) HasComments() bool {
	for _, e := range g.Entries {
		if e.Kind == EntryComment {
			return true
		}
	}
	return false
}

// StableByStep returns the group's entries sorted by step number,
// stable among entries sharing a step (spec.md section 6: "entries in
// step order (stable among same-step entries)").
func (g *Group) StableByStep() []Entry {
	out := slices.Clone(g.Entries)
	sort.SliceStable(out, func(i, j int) bool { return out[i].step() < out[j].step() })
	return out
}

// Model is the per-evaluation accumulator (spec.md section 3): a
// stack of active groups, the top being the current insertion target,
// plus the set of names already used.
type Model struct {
	stack     []*Group
	byName    map[string]*Group
	order     []string
	TimeIndex int
	Warnings  []string
}

// New creates a Model with the implicit "main" group pushed.
func New(timeIndex int) *Model {
	main := newGroup("main")
	m := &Model{
		byName:    map[string]*Group{"main": main},
		order:     []string{"main"},
		TimeIndex: timeIndex,
	}
	m.stack = append(m.stack, main)
	return m
}

// Current returns the group at the top of the stack.
func (m *Model) Current() *Group { return m.stack[len(m.stack)-1] }

// PushGroup creates and enters a new named group (spec.md section 4.5
// `group`); returns GroupExists if the name is already taken (spec.md
// invariant: "group names must be unique within a model").
func (m *Model) PushGroup(name string) (*Group, error) {
	if _, exists := m.byName[name]; exists {
		return nil, &DuplicateGroupError{Name: name}
	}
	g := newGroup(name)
	g.Matrix = m.Current().Matrix.Clone()
	m.byName[name] = g
	m.order = append(m.order, name)
	m.stack = append(m.stack, g)
	return g, nil
}

// PopGroup leaves the current group, returning to its parent. The
// "main" group is never popped below (spec.md invariant).
func (m *Model) PopGroup() {
	if len(m.stack) > 1 {
		m.stack = m.stack[:len(m.stack)-1]
	}
}

// Groups returns every group in the order they were first created,
// "main" always first.
func (m *Model) Groups() []*Group {
	out := make([]*Group, len(m.order))
	for i, name := range m.order {
		out[i] = m.byName[name]
	}
	return out
}

// AppendPart records a Part in the current group at the current step,
// capturing a value-copy of the current matrix (spec.md invariant:
// "captures the full transformation matrix in force at its insertion
// point, value-copied, not a reference").
func (m *Model) AppendPart(partID string, color Color) {
	g := m.Current()
	g.Entries = append(g.Entries, Entry{Kind: EntryPart, Part: &Part{
		PartID: partID,
		Color:  color,
		Matrix: g.Matrix.Clone(),
		Step:   g.step,
	}})
}

// AppendPrimitive records a line/triangle/quad in the current group.
func (m *Model) AppendPrimitive(kind PrimitiveKind, points [][3]float64, color Color) {
	g := m.Current()
	g.Entries = append(g.Entries, Entry{Kind: EntryPrimitive, Primitive: &Primitive{
		Kind:   kind,
		Points: points,
		Color:  color,
		Matrix: g.Matrix.Clone(),
		Step:   g.step,
	}})
}

// AppendComment records a header/comment line in the current group.
func (m *Model) AppendComment(text string) {
	g := m.Current()
	g.Entries = append(g.Entries, Entry{Kind: EntryComment, Comment: &Comment{Text: text}})
}

// AdvanceStep bumps the current group's step counter, used by a
// `step` built-in between successive `part` insertions.
func (m *Model) AdvanceStep() {
	m.Current().step++
}

// WithMatrix runs fn with the current group's matrix temporarily
// replaced by next, restoring the original afterward — the mechanism
// `translate`/`rotate`/`mirror`/`transform` share (spec.md section
// 4.5): each composes a new matrix, evaluates its body, then restores.
func (m *Model) WithMatrix(next *value.Matrix4, fn func() error) error {
	g := m.Current()
	saved := g.Matrix
	g.Matrix = next
	defer func() { g.Matrix = saved }()
	return fn()
}

// DuplicateGroupError reports an attempt to create a group whose name
// is already in use.
type DuplicateGroupError struct {
	Name string
}

func (e *DuplicateGroupError) Error() string {
	return "group already exists: " + e.Name
}
