package drawing

import (
	"fmt"
	"slices"
	"strings"

	"github.com/manav03panchal/undoctl/internal/undo"
)

// Action identifiers used for registration and coalescing.
const (
	ActionInsert = "insert"
	ActionRemove = "remove"
	ActionMove   = "move"
	ActionColor  = "color"
	ActionRename = "rename"
)

// Add creates a shape at pos on top of the drawing.
func (d *Drawing) Add(kind Kind, name string, pos Point) (*Shape, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidShape)
	}
	if _, err := ParseKind(string(kind)); err != nil {
		return nil, err
	}
	if d.index(name) >= 0 {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateName, name)
	}
	s := &Shape{Name: name, Kind: kind, Pos: pos, Color: DefaultColor}
	if err := d.insert(s, len(d.shapes)); err != nil {
		return nil, err
	}
	d.nameAction("Add " + kind.Title())
	return s, nil
}

// Remove takes the named shape off the drawing.
func (d *Drawing) Remove(name string) error {
	s, err := d.mustLookup(name)
	if err != nil {
		return err
	}
	if err := d.remove(s); err != nil {
		return err
	}
	d.nameAction("Delete " + s.Kind.Title())
	return nil
}

// Move translates the named shape by delta. Successive moves of the same
// shape within one event coalesce when the manager has coalescing on.
func (d *Drawing) Move(name string, delta Point) error {
	s, err := d.mustLookup(name)
	if err != nil {
		return err
	}
	if err := d.setPosition(s, s.Pos.Add(delta)); err != nil {
		return err
	}
	d.nameAction("Move")
	return nil
}

// MoveTo places the named shape at pos.
func (d *Drawing) MoveTo(name string, pos Point) error {
	s, err := d.mustLookup(name)
	if err != nil {
		return err
	}
	if err := d.setPosition(s, pos); err != nil {
		return err
	}
	d.nameAction("Move")
	return nil
}

// Recolor sets the named shape's color.
func (d *Drawing) Recolor(name, color string) error {
	color = strings.TrimSpace(color)
	if color == "" {
		return fmt.Errorf("%w: color is required", ErrInvalidShape)
	}
	s, err := d.mustLookup(name)
	if err != nil {
		return err
	}
	if err := d.setColor(s, color); err != nil {
		return err
	}
	d.nameAction("Change Color")
	return nil
}

// Rename changes the name of a shape.
func (d *Drawing) Rename(name, newName string) error {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidShape)
	}
	s, err := d.mustLookup(name)
	if err != nil {
		return err
	}
	if newName == name {
		return nil
	}
	if d.index(newName) >= 0 {
		return fmt.Errorf("%w: %q", ErrDuplicateName, newName)
	}
	if err := d.setName(s, newName); err != nil {
		return err
	}
	d.nameAction("Rename")
	return nil
}

// Forget deletes the named shape permanently: it is removed without an
// undo record and every recorded action on it is dropped.
func (d *Drawing) Forget(name string) error {
	s, err := d.mustLookup(name)
	if err != nil {
		return err
	}
	if err := d.m.RemoveAllActionsWithTarget(s); err != nil {
		return err
	}
	i := d.indexOf(s)
	d.shapes = slices.Delete(d.shapes, i, i+1)
	return nil
}

// =============================================================================
// Primitives. Each registers its inverse, then applies the change only if
// the registration was accepted.
// =============================================================================

func (d *Drawing) insert(s *Shape, at int) error {
	err := undo.Register(d.m, s, ActionRemove, func(s *Shape, _ any) {
		_ = d.remove(s)
	}, nil)
	if err != nil {
		return err
	}
	at = min(max(at, 0), len(d.shapes))
	d.shapes = slices.Insert(d.shapes, at, s)
	return nil
}

func (d *Drawing) remove(s *Shape) error {
	i := d.indexOf(s)
	if i < 0 {
		return fmt.Errorf("%w: %q", ErrShapeNotFound, s.Name)
	}
	err := undo.Register(d.m, s, ActionInsert, func(s *Shape, arg any) {
		_ = d.insert(s, arg.(int))
	}, i)
	if err != nil {
		return err
	}
	d.shapes = slices.Delete(d.shapes, i, i+1)
	return nil
}

func (d *Drawing) setPosition(s *Shape, pos Point) error {
	err := undo.Register(d.m, s, ActionMove, func(s *Shape, arg any) {
		_ = d.setPosition(s, arg.(Point))
	}, s.Pos)
	if err != nil {
		return err
	}
	s.Pos = pos
	return nil
}

func (d *Drawing) setColor(s *Shape, color string) error {
	err := undo.Register(d.m, s, ActionColor, func(s *Shape, arg any) {
		_ = d.setColor(s, arg.(string))
	}, s.Color)
	if err != nil {
		return err
	}
	s.Color = color
	return nil
}

func (d *Drawing) setName(s *Shape, name string) error {
	err := undo.Register(d.m, s, ActionRename, func(s *Shape, arg any) {
		_ = d.setName(s, arg.(string))
	}, s.Name)
	if err != nil {
		return err
	}
	s.Name = name
	return nil
}
