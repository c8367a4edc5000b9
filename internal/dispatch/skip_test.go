package dispatch_test

import (
	"testing"

	"github.com/samiam95124/diskdiagnostic/internal/dispatch"
	"github.com/samiam95124/diskdiagnostic/internal/lexer"
	"github.com/stretchr/testify/require"
)

func noMore() (*lexer.Cursor, bool) { return nil, false }

func Test_SkipTo_finds_target_same_line(t *testing.T) {
	cur := lexer.NewCursor("while x; p 1; wend")
	found, at, err := dispatch.SkipTo(cur, noMore, "wend")
	require.NoError(t, err)
	require.Equal(t, "wend", found)
	require.True(t, at.AtEnd())
}

// A different nesting kind scanning past (while/wend here) must not
// disturb the counter being matched against (fend here) — skipcmd tracks
// one independent counter per kind.
func Test_SkipTo_different_kind_does_not_interfere(t *testing.T) {
	cur := lexer.NewCursor("for x 1 5; while a; wend; fend")
	found, at, err := dispatch.SkipTo(cur, noMore, "fend")
	require.NoError(t, err)
	require.Equal(t, "fend", found)
	require.True(t, at.AtEnd())
}

func Test_SkipTo_crosses_lines_via_advance(t *testing.T) {
	lines := []string{"p 1", "wend"}
	i := 0
	advance := func() (*lexer.Cursor, bool) {
		if i >= len(lines) {
			return nil, false
		}
		c := lexer.NewCursor(lines[i])
		i++
		return c, true
	}
	cur := lexer.NewCursor("")
	found, _, err := dispatch.SkipTo(cur, advance, "wend")
	require.NoError(t, err)
	require.Equal(t, "wend", found)
}

func Test_SkipTo_exhausted(t *testing.T) {
	cur := lexer.NewCursor("p 1")
	_, _, err := dispatch.SkipTo(cur, noMore, "wend")
	require.ErrorIs(t, err, dispatch.ErrSkipExhausted)
}
