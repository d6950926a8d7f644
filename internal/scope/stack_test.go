package scope

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStack_RootIsPermanent(t *testing.T) {
	t.Parallel()

	root := New("root")
	st := NewStack(root)

	// Popping with only the root on the stack is a no-op.
	st.Pop()
	st.Pop()

	assert.Equal(t, 1, st.Depth())
	assert.Same(t, root, st.Current())
}

func TestStack_PushPopCurrent(t *testing.T) {
	t.Parallel()

	root := New("root")
	st := NewStack(root)

	child := New("child")
	got := st.Push(child)
	assert.Same(t, child, got, "Push returns the pushed scope")
	assert.Same(t, child, st.Current())
	assert.Equal(t, 2, st.Depth())

	st.Pop()
	assert.Same(t, root, st.Current())
}

func TestWhileCurrent_RestoresOnSuccess(t *testing.T) {
	t.Parallel()

	root := New("root")
	st := NewStack(root)
	inner := New("inner")

	err := st.WhileCurrent(inner, func() error {
		assert.Same(t, inner, st.Current())
		return nil
	})
	require.NoError(t, err)
	assert.Same(t, root, st.Current())
}

func TestWhileCurrent_RestoresOnError(t *testing.T) {
	t.Parallel()

	root := New("root")
	st := NewStack(root)
	inner := New("inner")
	boom := errors.New("boom")

	err := st.WhileCurrent(inner, func() error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.Same(t, root, st.Current())
}

func TestWhileCurrent_RestoresOnPanic(t *testing.T) {
	t.Parallel()

	root := New("root")
	st := NewStack(root)
	inner := New("inner")

	require.Panics(t, func() {
		_ = st.WhileCurrent(inner, func() error { panic("boom") })
	})
	assert.Same(t, root, st.Current())
}

func TestWhileCurrent_Nesting(t *testing.T) {
	t.Parallel()

	root := New("root")
	st := NewStack(root)
	outer := New("outer")
	inner := New("inner")

	err := st.WhileCurrent(outer, func() error {
		return st.WhileCurrent(inner, func() error {
			assert.Same(t, inner, st.Current())
			assert.Equal(t, 3, st.Depth())
			return nil
		})
	})
	require.NoError(t, err)
	assert.Same(t, root, st.Current())
}

func TestScope_BuildableDefaultsTrue(t *testing.T) {
	t.Parallel()

	sc := New("group")
	assert.True(t, sc.Buildable())

	sc.SetBuildable(func() bool { return false })
	assert.False(t, sc.Buildable())
}

func TestScope_RunSetup(t *testing.T) {
	t.Parallel()

	sc := New("group")
	require.NoError(t, sc.RunSetup(), "missing setup hook is a no-op")

	ran := false
	sc.OnSetup(func() error {
		ran = true
		return nil
	})
	require.NoError(t, sc.RunSetup())
	assert.True(t, ran)
}
