// Package drawing is a small vector document whose edits are undoable.
// Every mutation registers its inverse with an undo.Manager, so undoing an
// edit registers the redo and vice versa.
package drawing

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/manav03panchal/undoctl/internal/undo"
)

// Sentinel errors.
var (
	ErrShapeNotFound = errors.New("shape not found")
	ErrDuplicateName = errors.New("shape name already in use")
	ErrInvalidShape  = errors.New("invalid shape")
)

// Kind is the geometry of a shape.
type Kind string

const (
	KindRect    Kind = "rect"
	KindEllipse Kind = "ellipse"
	KindLine    Kind = "line"
	KindText    Kind = "text"
)

// ValidKinds lists the accepted shape kinds.
var ValidKinds = []Kind{KindRect, KindEllipse, KindLine, KindText}

// ParseKind validates a kind name.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if !slices.Contains(ValidKinds, k) {
		return "", fmt.Errorf("%w: unknown kind %q", ErrInvalidShape, s)
	}
	return k, nil
}

// Title returns the kind for use in action names.
func (k Kind) Title() string {
	switch k {
	case KindRect:
		return "Rectangle"
	case KindEllipse:
		return "Ellipse"
	case KindLine:
		return "Line"
	case KindText:
		return "Text"
	}
	return string(k)
}

// Point is a canvas position.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// DefaultColor is the color of new shapes.
const DefaultColor = "black"

// Shape is one object on the canvas. Shapes are undo targets: property
// edits register against the shape itself.
type Shape struct {
	Name  string `json:"name"`
	Kind  Kind   `json:"kind"`
	Pos   Point  `json:"pos"`
	Color string `json:"color"`
}

// Drawing is an ordered set of uniquely named shapes, back to front.
type Drawing struct {
	m      *undo.Manager
	shapes []*Shape
}

// New creates an empty drawing that records its edits with m.
func New(m *undo.Manager) *Drawing {
	return &Drawing{m: m}
}

// Manager returns the undo manager the drawing records with.
func (d *Drawing) Manager() *undo.Manager {
	return d.m
}

// Len returns the number of shapes.
func (d *Drawing) Len() int {
	return len(d.shapes)
}

// Shapes returns a snapshot of the shapes, back to front.
func (d *Drawing) Shapes() []Shape {
	out := make([]Shape, len(d.shapes))
	for i, s := range d.shapes {
		out[i] = *s
	}
	return out
}

// Lookup returns the live shape with the given name.
func (d *Drawing) Lookup(name string) (*Shape, bool) {
	i := d.index(name)
	if i < 0 {
		return nil, false
	}
	return d.shapes[i], true
}

func (d *Drawing) index(name string) int {
	return slices.IndexFunc(d.shapes, func(s *Shape) bool { return s.Name == name })
}

func (d *Drawing) indexOf(s *Shape) int {
	return slices.Index(d.shapes, s)
}

func (d *Drawing) mustLookup(name string) (*Shape, error) {
	s, ok := d.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrShapeNotFound, name)
	}
	return s, nil
}

// nameAction sets the undo action name for a user edit. Replays keep the
// name of the group they mirror.
func (d *Drawing) nameAction(name string) {
	if d.m.State() == undo.StateCollecting {
		d.m.SetActionName(name)
	}
}
