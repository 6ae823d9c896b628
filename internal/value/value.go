// Package value implements the tagged runtime value universe spec.md
// section 3 (Data Model) describes: the two boolean singletons, numbers,
// strings, mutable-cell lists, 4x4 matrices, vectors, functions, and
// the binding cell shared between lexical scopes and list elements.
//
// sentra's own runtime value ("vm.Value", a bare interface{}") has no
// type discipline at all, since sentra's bytecode VM leans on the
// compiler to have already checked types. OpenSDraw's evaluator
// instead validates argument types against each builtin's signature
// at call time (spec.md section 4.3), so Value here is a closed,
// inspectable interface rather than interface{}.
package value

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Kind tags the dynamic type of a Value. Exported so that types
// defined in other packages (internal/eval's Builtin/UserFn,
// internal/geometry's Curve/Spring) can implement Value without
// needing an unexported marker method only this package could define.
type Kind int

const (
	KindNil Kind = iota
	KindT
	KindNumber
	KindString
	KindList
	KindMatrix
	KindVector
	KindFunction
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNil:
		return "nil"
	case KindT:
		return "t"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindList:
		return "list"
	case KindMatrix:
		return "matrix"
	case KindVector:
		return "vector"
	case KindFunction:
		return "function"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Value is the dynamic runtime type every evaluator subsystem passes
// around.
type Value interface {
	Kind() Kind
	String() string
}

// Truthy implements spec.md section 3's truthiness rule: nil and the
// empty list are false, everything else (including 0, "", t) is true.
func Truthy(v Value) bool {
	if v == nil {
		return false
	}
	if v.Kind() == KindNil {
		return false
	}
	if l, ok := v.(*List); ok && l.Len() == 0 {
		return false
	}
	return true
}

// --- Nil / T singletons ---

type nilValue struct{}

func (nilValue) Kind() Kind     { return KindNil }
func (nilValue) String() string { return "nil" }

type tValue struct{}

func (tValue) Kind() Kind     { return KindT }
func (tValue) String() string { return "t" }

// Nil and T are the sole boolean singletons; every falsy/truthy
// boolean result in the language is one of these two values.
var (
	Nil Value = nilValue{}
	T   Value = tValue{}
)

// Bool converts a native Go boolean to the Nil/T singleton pair.
func Bool(b bool) Value {
	if b {
		return T
	}
	return Nil
}

// --- Number ---

// Number is an IEEE-754 double, per spec.md section 3.
type Number float64

func (Number) Kind() Kind { return KindNumber }
func (n Number) String() string {
	f := float64(n)
	if f == float64(int64(f)) && f < 1e15 && f > -1e15 {
		return fmt.Sprintf("%d", int64(f))
	}
	return fmt.Sprintf("%g", f)
}

// --- String ---

// Str is an immutable byte sequence.
type Str string

func (Str) Kind() Kind        { return KindString }
func (s Str) String() string  { return string(s) }
func (s Str) GoString() string { return strconvQuote(string(s)) }

func strconvQuote(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// --- Cell ---

// Cell is the binding slot shared by lexical scopes and list elements
// (spec.md section 3, "Binding cell"): a name, a set flag, a value,
// and the file that defined it (used by :local import collision
// detection, spec.md section 4.4 and section 9).
type Cell struct {
	Name    string
	DefFile string
	set     bool
	val     Value
}

// NewCell creates an already-set, anonymous cell (used for list
// elements, which have no name or defining file).
func NewCell(v Value) *Cell {
	return &Cell{set: true, val: v}
}

// NewUnsetCell creates a named cell with no value yet, used by the
// semantic pre-pass to bind the name of a `(def NAME VALUE)` before
// VALUE is evaluated.
func NewUnsetCell(name, defFile string) *Cell {
	return &Cell{Name: name, DefFile: defFile}
}

// Get reads the cell's value. Reading an unset cell is a checked
// error at the call site (spec.md section 3, "Lifecycles"); callers
// translate IsSet()==false into a SymbolNotDefined lcaderr.
func (c *Cell) Get() (Value, bool) {
	return c.val, c.set
}

// IsSet reports whether the cell has ever been written.
func (c *Cell) IsSet() bool { return c.set }

// Set mutates the cell's value, marking it as set.
func (c *Cell) Set(v Value) {
	c.val = v
	c.set = true
}

// --- List ---

// List is an ordered mutable sequence of binding cells, so that
// `(set (aref x 1) 4)` can mutate an element in place (spec.md
// section 3).
type List struct {
	cells []*Cell
}

func (*List) Kind() Kind { return KindList }

// NewList builds a list from already-evaluated values, wrapping each
// in its own anonymous cell.
func NewList(vals ...Value) *List {
	l := &List{cells: make([]*Cell, len(vals))}
	for i, v := range vals {
		l.cells[i] = NewCell(v)
	}
	return l
}

// NewListFromCells adopts existing cells directly (used when a list
// value must alias another list's storage, which OpenSDraw's builtin
// set never actually needs but keeps the constructor symmetric with
// the Cell-based model described in spec.md).
func NewListFromCells(cells []*Cell) *List {
	return &List{cells: cells}
}

func (l *List) Len() int { return len(l.cells) }

// At returns the i-th element's current value (0-based, per spec.md
// section 4.5 aref).
func (l *List) At(i int) (Value, bool) {
	if i < 0 || i >= len(l.cells) {
		return nil, false
	}
	return l.cells[i].val, true
}

// Cell returns the i-th element's binding cell so `set` can mutate it
// in place.
func (l *List) Cell(i int) (*Cell, bool) {
	if i < 0 || i >= len(l.cells) {
		return nil, false
	}
	return l.cells[i], true
}

// Append grows the list by one anonymous cell.
func (l *List) Append(v Value) {
	l.cells = append(l.cells, NewCell(v))
}

// Values copies out the list's current values.
func (l *List) Values() []Value {
	out := make([]Value, len(l.cells))
	for i, c := range l.cells {
		out[i] = c.val
	}
	return out
}

func (l *List) String() string {
	parts := make([]string, len(l.cells))
	for i, c := range l.cells {
		parts[i] = c.val.String()
	}
	return "(" + strings.Join(parts, " ") + ")"
}

// --- Matrix4 ---

// Matrix4 is a 4x4 affine transform backed by gonum's dense matrix
// type (grounded on other_examples/manifests/gonum-gonum — no repo in
// the example corpus implements 4x4 affine math on its own).
type Matrix4 struct {
	M *mat.Dense
}

func (*Matrix4) Kind() Kind { return KindMatrix }

// Identity4 returns a fresh 4x4 identity matrix.
func Identity4() *Matrix4 {
	d := mat.NewDense(4, 4, nil)
	for i := 0; i < 4; i++ {
		d.Set(i, i, 1)
	}
	return &Matrix4{M: d}
}

// NewMatrix4FromRowMajor builds a Matrix4 from 16 row-major numbers.
func NewMatrix4FromRowMajor(vals []float64) *Matrix4 {
	return &Matrix4{M: mat.NewDense(4, 4, rawCopy(vals))}
}

func rawCopy(vals []float64) []float64 {
	cp := make([]float64, len(vals))
	copy(cp, vals)
	return cp
}

// Mul returns m composed with other as m*other (other applied first
// to a column vector, matching spec.md section 4.5's "Rx . Ry . Rz
// applied to column vectors" convention).
func (m *Matrix4) Mul(other *Matrix4) *Matrix4 {
	out := mat.NewDense(4, 4, nil)
	out.Mul(m.M, other.M)
	return &Matrix4{M: out}
}

// Clone returns a deep copy, used when a Part/Primitive captures the
// transform in force at insertion (spec.md section 3 invariant:
// "value-copied, not a reference").
func (m *Matrix4) Clone() *Matrix4 {
	out := mat.NewDense(4, 4, nil)
	out.Copy(m.M)
	return &Matrix4{M: out}
}

// At returns element (row, col).
func (m *Matrix4) At(row, col int) float64 { return m.M.At(row, col) }

// Translation extracts the translation column (elements [0..2][3]).
func (m *Matrix4) Translation() (x, y, z float64) {
	return m.M.At(0, 3), m.M.At(1, 3), m.M.At(2, 3)
}

// Rotation3x3 returns the upper-left 3x3 rotation/scale block in
// row-major order, the layout LDraw part records (spec.md section 6)
// expect.
func (m *Matrix4) Rotation3x3() [9]float64 {
	var r [9]float64
	idx := 0
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			r[idx] = m.M.At(i, j)
			idx++
		}
	}
	return r
}

func (m *Matrix4) String() string {
	var b strings.Builder
	b.WriteString("(")
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			fmt.Fprintf(&b, "%g ", m.M.At(i, j))
		}
	}
	b.WriteString(")")
	return b.String()
}

// --- Vector ---

// Vector is a fixed-size ordered sequence of numbers, length 3 or 4
// in practice (spec.md section 3). The geometry kernel (internal/geometry)
// round-trips through r3.Vec for cross/dot/normalize.
type Vector struct {
	Data []float64
}

func (*Vector) Kind() Kind { return KindVector }

// NewVector3 builds a 3-element vector.
func NewVector3(x, y, z float64) *Vector {
	return &Vector{Data: []float64{x, y, z}}
}

// NewVector4 builds a 4-element vector (e.g. a homogeneous point).
func NewVector4(x, y, z, w float64) *Vector {
	return &Vector{Data: []float64{x, y, z, w}}
}

// R3 converts the first three components to a gonum r3.Vec.
func (v *Vector) R3() r3.Vec {
	if len(v.Data) < 3 {
		return r3.Vec{}
	}
	return r3.Vec{X: v.Data[0], Y: v.Data[1], Z: v.Data[2]}
}

// VectorFromR3 builds a 3-element Vector from a gonum r3.Vec.
func VectorFromR3(v r3.Vec) *Vector {
	return NewVector3(v.X, v.Y, v.Z)
}

func (v *Vector) String() string {
	parts := make([]string, len(v.Data))
	for i, f := range v.Data {
		parts[i] = fmt.Sprintf("%g", f)
	}
	return "(" + strings.Join(parts, " ") + ")"
}

// TypeName returns a human label for error messages, following the
// WrongType{expected, actual} shape spec.md section 7 specifies.
func TypeName(v Value) string {
	if v == nil {
		return "nil"
	}
	return v.Kind().String()
}
