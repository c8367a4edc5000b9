package format_test

import (
	"strings"
	"testing"

	"github.com/samiam95124/diskdiagnostic/internal/eval"
	"github.com/samiam95124/diskdiagnostic/internal/format"
	"github.com/samiam95124/diskdiagnostic/internal/lexer"
	"github.com/stretchr/testify/require"
)

type noVars struct{}

func (noVars) Resolve(_ *lexer.Cursor, _ string) (int64, bool, error) { return 0, false, nil }

func Test_Printf_no_format_default(t *testing.T) {
	var b strings.Builder
	c := lexer.NewCursor("1 2 3")
	require.NoError(t, format.Printf(&b, c, "", noVars{}))
	require.Equal(t, "1 2 3 ", b.String())
}

func Test_Printf_with_format_string(t *testing.T) {
	var b strings.Builder
	c := lexer.NewCursor("255 8")
	require.NoError(t, format.Printf(&b, c, "hex=%x oct=%o\n", noVars{}))
	// Trailing format text after the last consumed value is never flushed:
	// the line runs out before the next filler-copy step starts, matching
	// original_source's do-while exiting on an empty line.
	require.Equal(t, "hex=ff oct=10", b.String())
}

func Test_Printf_width_precision(t *testing.T) {
	var b strings.Builder
	c := lexer.NewCursor("5")
	require.NoError(t, format.Printf(&b, c, "%4.2d", noVars{}))
	require.Equal(t, "  05", b.String())
}

func Test_Printf_unknown_conversion_falls_back_to_decimal(t *testing.T) {
	var b strings.Builder
	c := lexer.NewCursor("7")
	require.NoError(t, format.Printf(&b, c, "%q", noVars{}))
	require.Equal(t, "7", b.String())
}

func Test_Printf_eval_error_propagates(t *testing.T) {
	var b strings.Builder
	c := lexer.NewCursor("1/0")
	err := format.Printf(&b, c, "", noVars{})
	require.Error(t, err)
	require.IsType(t, eval.EvalError{}, err)
}
