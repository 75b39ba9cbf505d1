package undo

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// submitSequence registers one task per letter; the letter is the action
// and the position is the argument.
func submitSequence(t *testing.T, m *Manager, target *register, seq string) {
	t.Helper()
	for i, action := range strings.Split(seq, "") {
		require.NoError(t, Register(m, target, action, noop, i))
	}
}

func actions(g *Group) string {
	var b strings.Builder
	for _, t := range g.Tasks() {
		b.WriteString(t.(*ConcreteTask).Action())
	}
	return b.String()
}

func TestCoalesceLastTask(t *testing.T) {
	m := newManager(t, func(o *Options) {
		o.Coalescing = true
		o.CoalescingKind = CoalesceLastTask
	})
	r := &register{}
	m.BeginGrouping()
	submitSequence(t, m, r, "ABBBBBBA")

	assert.Equal(t, "ABA", actions(m.CurrentGroup()))
	assert.Equal(t, 8, m.ChangeCount())
}

func TestCoalesceAllMatchingTasks(t *testing.T) {
	m := newManager(t, func(o *Options) {
		o.Coalescing = true
		o.CoalescingKind = CoalesceAllMatchingTasks
	})
	r := &register{}
	m.BeginGrouping()
	submitSequence(t, m, r, "ABABABAB")

	assert.Equal(t, "AB", actions(m.CurrentGroup()))
}

func TestCoalesceOff(t *testing.T) {
	m := newManager(t, nil)
	m.BeginGrouping()
	submitSequence(t, m, &register{}, "ABBBBBBA")
	assert.Equal(t, "ABBBBBBA", actions(m.CurrentGroup()))
}

func TestCoalesceNeedsSameTarget(t *testing.T) {
	m := newManager(t, func(o *Options) { o.Coalescing = true })
	a, b := &register{}, &register{}
	m.BeginGrouping()
	require.NoError(t, Register(m, a, "set", noop, 1))
	require.NoError(t, Register(m, b, "set", noop, 2))
	require.NoError(t, Register(m, b, "set", noop, 3))
	assert.Equal(t, 2, m.CurrentGroup().Len())
}

func TestCoalesceMergeModes(t *testing.T) {
	tests := []struct {
		name string
		mode MergeMode
		want any
	}{
		{"refresh", MergeRefresh, 2},
		{"keep_first", MergeKeepFirst, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newManager(t, func(o *Options) {
				o.Coalescing = true
				o.Merge = tt.mode
			})
			r := &register{}
			m.BeginGrouping()
			for v := range 3 {
				require.NoError(t, Register(m, r, "set", noop, v))
			}
			require.Equal(t, 1, m.CurrentGroup().Len())
			assert.Equal(t, tt.want, m.CurrentGroup().LastTaskIfConcrete().Argument())
		})
	}
}

func TestCoalesceKeepFirstRestoresOrigin(t *testing.T) {
	m := newManager(t, func(o *Options) {
		o.Coalescing = true
		o.Merge = MergeKeepFirst
	})
	r := &register{value: 10}
	m.BeginGrouping()
	for _, v := range []int{11, 12, 13} {
		require.NoError(t, setValue(m, r, v))
	}
	require.NoError(t, m.EndGrouping())

	require.NoError(t, m.Undo())
	assert.Equal(t, 10, r.value)
}

func TestCoalesceNeverCrossesGroups(t *testing.T) {
	m := newManager(t, func(o *Options) { o.Coalescing = true })
	r := &register{}
	m.BeginGrouping()
	require.NoError(t, Register(m, r, "set", noop, 1))
	m.BeginGrouping()
	require.NoError(t, Register(m, r, "set", noop, 2))
	require.NoError(t, m.EndGrouping())
	require.NoError(t, Register(m, r, "set", noop, 3))
	require.NoError(t, m.EndGrouping())

	assert.Equal(t, 3, m.PeekUndo().Count())
}

func TestCoalesceSkippedDuringReplay(t *testing.T) {
	m := newManager(t, func(o *Options) { o.Coalescing = true })
	r := &register{}
	m.BeginGrouping()
	require.NoError(t, Register(m, r, "twice", func(r *register, _ any) {
		_ = Register(m, r, "set", noop, 1)
		_ = Register(m, r, "set", noop, 2)
	}, nil))
	require.NoError(t, m.EndGrouping())

	require.NoError(t, m.Undo())
	assert.Equal(t, 2, m.PeekRedo().Len())
}

func TestCoalescingToggle(t *testing.T) {
	m := newManager(t, nil)
	assert.False(t, m.IsCoalescingEnabled())
	m.EnableCoalescing()
	assert.True(t, m.IsCoalescingEnabled())
	m.SetCoalescingKind(CoalesceAllMatchingTasks)
	assert.Equal(t, CoalesceAllMatchingTasks, m.CoalescingKind())
	m.DisableCoalescing()
	assert.False(t, m.IsCoalescingEnabled())
}

func TestCoalescingStrings(t *testing.T) {
	assert.Equal(t, "last", CoalesceLastTask.String())
	assert.Equal(t, "all", CoalesceAllMatchingTasks.String())
	assert.Equal(t, "refresh", MergeRefresh.String())
	assert.Equal(t, "keep_first", MergeKeepFirst.String())
}
