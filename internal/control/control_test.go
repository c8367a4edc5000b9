package control_test

import (
	"testing"

	"github.com/samiam95124/diskdiagnostic/internal/control"
	"github.com/samiam95124/diskdiagnostic/internal/lexer"
	"github.com/stretchr/testify/require"
)

func Test_Frames_push_pop_truncates_locals(t *testing.T) {
	var f control.Frames
	f.Push(control.Frame{LocalsMark: 0}) // immediate-mode sentinel
	f.Push(control.Frame{LocalsMark: 3})

	var truncatedTo = -1
	require.NoError(t, f.Pop(func(mark int) { truncatedTo = mark }))
	require.Equal(t, 3, truncatedTo)
	require.Equal(t, 1, f.Depth())
}

func Test_Frames_pop_sentinel_fails(t *testing.T) {
	var f control.Frames
	f.Push(control.Frame{})
	err := f.Pop(nil)
	require.ErrorIs(t, err, control.ErrNothingToReturnTo)
	require.Equal(t, 1, f.Depth())
}

func Test_ControlFrames_push_top(t *testing.T) {
	var c control.ControlFrames
	require.Nil(t, c.Top())
	c.Push(control.ControlFrame{Kind: control.KindWhile, BackTarget: *lexer.NewCursor("x")})
	require.Equal(t, control.KindWhile, c.Top().Kind)
}

func Test_ControlFrames_PopStaleUntil_discards_mismatched(t *testing.T) {
	var c control.ControlFrames
	c.Push(control.ControlFrame{Kind: control.KindWhile})
	c.Push(control.ControlFrame{Kind: control.KindFor})

	f, ok := c.PopStaleUntil(control.KindWhile)
	require.True(t, ok)
	require.Equal(t, control.KindWhile, f.Kind)
	require.Equal(t, 0, c.Depth())
}

func Test_ControlFrames_PopStaleUntil_empty(t *testing.T) {
	var c control.ControlFrames
	_, ok := c.PopStaleUntil(control.KindFor)
	require.False(t, ok)
}
