package drawing

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manav03panchal/undoctl/internal/undo"
)

func newDrawing(t *testing.T, mutate func(*undo.Options)) (*Drawing, *undo.EventQueue) {
	t.Helper()
	q := &undo.EventQueue{}
	opts := undo.DefaultOptions()
	opts.EventLoop = q
	if mutate != nil {
		mutate(&opts)
	}
	return New(undo.New(opts)), q
}

func names(d *Drawing) []string {
	var out []string
	for _, s := range d.Shapes() {
		out = append(out, s.Name)
	}
	return out
}

// =============================================================================
// Edits
// =============================================================================

func TestAddAndUndo(t *testing.T) {
	d, q := newDrawing(t, nil)
	_, err := d.Add(KindRect, "box", Point{X: 1, Y: 2})
	require.NoError(t, err)
	q.Flush()

	m := d.Manager()
	assert.Equal(t, []string{"box"}, names(d))
	assert.Equal(t, "Undo Add Rectangle", m.UndoMenuItemTitle())

	require.NoError(t, m.Undo())
	assert.Empty(t, names(d))
	assert.Equal(t, "Redo Add Rectangle", m.RedoMenuItemTitle())

	require.NoError(t, m.Redo())
	assert.Equal(t, []string{"box"}, names(d))
}

func TestAddValidation(t *testing.T) {
	d, _ := newDrawing(t, nil)
	_, err := d.Add(KindRect, "  ", Point{})
	assert.ErrorIs(t, err, ErrInvalidShape)

	_, err = d.Add(Kind("hexagon"), "h", Point{})
	assert.ErrorIs(t, err, ErrInvalidShape)

	_, err = d.Add(KindRect, "a", Point{})
	require.NoError(t, err)
	_, err = d.Add(KindEllipse, "a", Point{})
	assert.ErrorIs(t, err, ErrDuplicateName)
}

func TestRemoveRestoresZOrder(t *testing.T) {
	d, q := newDrawing(t, nil)
	for _, n := range []string{"a", "b", "c"} {
		_, err := d.Add(KindRect, n, Point{})
		require.NoError(t, err)
		q.Flush()
	}

	require.NoError(t, d.Remove("b"))
	q.Flush()
	assert.Equal(t, []string{"a", "c"}, names(d))
	assert.Equal(t, "Delete Rectangle", d.Manager().UndoActionName())

	require.NoError(t, d.Manager().Undo())
	assert.Equal(t, []string{"a", "b", "c"}, names(d))

	assert.ErrorIs(t, d.Remove("zzz"), ErrShapeNotFound)
}

func TestPropertyEditsRoundTrip(t *testing.T) {
	d, q := newDrawing(t, nil)
	_, err := d.Add(KindText, "label", Point{})
	require.NoError(t, err)
	q.Flush()

	require.NoError(t, d.Recolor("label", "red"))
	q.Flush()
	require.NoError(t, d.Rename("label", "title"))
	q.Flush()
	require.NoError(t, d.MoveTo("title", Point{X: 5, Y: 5}))
	q.Flush()

	s, ok := d.Lookup("title")
	require.True(t, ok)
	assert.Equal(t, Shape{Name: "title", Kind: KindText, Pos: Point{X: 5, Y: 5}, Color: "red"}, *s)

	m := d.Manager()
	for range 3 {
		require.NoError(t, m.Undo())
	}
	assert.Equal(t, Shape{Name: "label", Kind: KindText, Color: DefaultColor}, *s)

	for range 3 {
		require.NoError(t, m.Redo())
	}
	assert.Equal(t, Shape{Name: "title", Kind: KindText, Pos: Point{X: 5, Y: 5}, Color: "red"}, *s)
}

func TestRejectedEditsLeaveDrawingUnchanged(t *testing.T) {
	d, _ := newDrawing(t, func(o *undo.Options) { o.GroupsByEvent = false })
	m := d.Manager()

	_, err := d.Add(KindRect, "box", Point{X: 1, Y: 1})
	assert.ErrorIs(t, err, undo.ErrUnbalancedGrouping)
	assert.Empty(t, names(d))
	assert.Zero(t, m.NumberOfUndoActions())

	m.BeginGrouping()
	_, err = d.Add(KindRect, "box", Point{X: 1, Y: 1})
	require.NoError(t, err, "a failed add must not leave the name taken")
	require.NoError(t, m.EndGrouping())

	s, ok := d.Lookup("box")
	require.True(t, ok)
	before := *s

	assert.ErrorIs(t, d.Move("box", Point{X: 3}), undo.ErrUnbalancedGrouping)
	assert.ErrorIs(t, d.MoveTo("box", Point{X: 9, Y: 9}), undo.ErrUnbalancedGrouping)
	assert.ErrorIs(t, d.Recolor("box", "red"), undo.ErrUnbalancedGrouping)
	assert.ErrorIs(t, d.Rename("box", "crate"), undo.ErrUnbalancedGrouping)
	assert.ErrorIs(t, d.Remove("box"), undo.ErrUnbalancedGrouping)

	assert.Equal(t, before, *s)
	assert.Equal(t, []string{"box"}, names(d))
	assert.Equal(t, 1, m.NumberOfUndoActions())
}

func TestRedoRestoresMultiEditEvent(t *testing.T) {
	d, q := newDrawing(t, func(o *undo.Options) { o.RedoOrder = undo.ReplayReverse })
	_, err := d.Add(KindRect, "box", Point{})
	require.NoError(t, err)
	q.Flush()

	require.NoError(t, d.Move("box", Point{X: 1}))
	require.NoError(t, d.Move("box", Point{X: 1}))
	q.Flush()
	s, _ := d.Lookup("box")
	require.Equal(t, Point{X: 2}, s.Pos)

	m := d.Manager()
	require.NoError(t, m.Undo())
	assert.Equal(t, Point{}, s.Pos)

	require.NoError(t, m.Redo())
	assert.Equal(t, Point{X: 2}, s.Pos)

	require.NoError(t, m.Undo())
	assert.Equal(t, Point{}, s.Pos)
}

func TestRenameValidation(t *testing.T) {
	d, q := newDrawing(t, nil)
	for _, n := range []string{"a", "b"} {
		_, err := d.Add(KindRect, n, Point{})
		require.NoError(t, err)
	}
	q.Flush()

	assert.ErrorIs(t, d.Rename("a", "b"), ErrDuplicateName)
	assert.ErrorIs(t, d.Rename("a", ""), ErrInvalidShape)
	assert.ErrorIs(t, d.Recolor("a", ""), ErrInvalidShape)
	require.NoError(t, d.Rename("a", "a"))
	assert.Equal(t, 1, d.Manager().NumberOfUndoActions(), "no-op rename records nothing")
}

// =============================================================================
// Coalesced drags
// =============================================================================

func TestDragCoalescing(t *testing.T) {
	tests := []struct {
		name      string
		merge     undo.MergeMode
		afterUndo Point
	}{
		{"refresh_undoes_last_step", undo.MergeRefresh, Point{X: 2}},
		{"keep_first_undoes_whole_drag", undo.MergeKeepFirst, Point{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, q := newDrawing(t, func(o *undo.Options) {
				o.Coalescing = true
				o.Merge = tt.merge
			})
			_, err := d.Add(KindRect, "box", Point{})
			require.NoError(t, err)
			q.Flush()

			for range 3 {
				require.NoError(t, d.Move("box", Point{X: 1}))
			}
			q.Flush()

			m := d.Manager()
			require.Equal(t, 1, m.PeekUndo().Len())
			require.NoError(t, m.Undo())
			s, _ := d.Lookup("box")
			assert.Equal(t, tt.afterUndo, s.Pos)
		})
	}
}

// =============================================================================
// Forget and weak targets
// =============================================================================

func TestForgetDropsHistory(t *testing.T) {
	d, q := newDrawing(t, nil)
	_, err := d.Add(KindRect, "keep", Point{})
	require.NoError(t, err)
	q.Flush()
	_, err = d.Add(KindLine, "gone", Point{})
	require.NoError(t, err)
	require.NoError(t, d.Move("gone", Point{X: 3}))
	q.Flush()

	require.NoError(t, d.Forget("gone"))
	m := d.Manager()
	assert.Equal(t, []string{"keep"}, names(d))
	assert.Equal(t, 1, m.NumberOfUndoActions())

	require.NoError(t, m.Undo())
	assert.Empty(t, names(d))
	assert.ErrorIs(t, d.Forget("gone"), ErrShapeNotFound)
}

func TestWeakTargetsSkipCollectedShapes(t *testing.T) {
	d, q := newDrawing(t, func(o *undo.Options) { o.RetainsTargets = false })
	_, err := d.Add(KindRect, "box", Point{})
	require.NoError(t, err)
	q.Flush()
	require.NoError(t, d.Remove("box"))
	q.Flush()

	for range 3 {
		runtime.GC()
	}

	m := d.Manager()
	require.NoError(t, m.Undo())
	assert.Empty(t, names(d), "collected shape cannot be restored")
	assert.Equal(t, 0, m.NumberOfRedoActions(), "empty mirror is discarded")
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind(" Ellipse ")
	require.NoError(t, err)
	assert.Equal(t, KindEllipse, k)
	assert.Equal(t, "Ellipse", k.Title())

	_, err = ParseKind("star")
	assert.ErrorIs(t, err, ErrInvalidShape)
}
