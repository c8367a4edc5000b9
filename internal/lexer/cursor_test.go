package lexer_test

import (
	"testing"

	"github.com/samiam95124/diskdiagnostic/internal/lexer"
	"github.com/stretchr/testify/require"
)

func Test_Cursor_Word(t *testing.T) {
	c := lexer.NewCursor("   foo12.bar?  baz")
	require.Equal(t, "foo12.bar?", c.Word())
	require.Equal(t, "baz", c.Word())
	require.Equal(t, "", c.Word())
}

func Test_Cursor_PeekWord_does_not_consume(t *testing.T) {
	c := lexer.NewCursor("abc def")
	require.Equal(t, "abc", c.PeekWord())
	require.Equal(t, "abc", c.Word())
	require.Equal(t, "def", c.Word())
}

func Test_Cursor_QuotedString(t *testing.T) {
	c := lexer.NewCursor(`  "hello \"there\"\\world" rest`)
	s, ok, err := c.QuotedString()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, `hello "there"\world`, s)
	require.Equal(t, "rest", c.Word())
}

func Test_Cursor_QuotedString_not_a_quote(t *testing.T) {
	c := lexer.NewCursor("notquoted")
	s, ok, err := c.QuotedString()
	require.NoError(t, err)
	require.False(t, ok)
	require.Equal(t, "", s)
	require.Equal(t, "notquoted", c.Word())
}

func Test_Cursor_QuotedString_unterminated(t *testing.T) {
	c := lexer.NewCursor(`"abc`)
	_, _, err := c.QuotedString()
	require.ErrorIs(t, err, lexer.ErrUnterminatedQuote)
}

func Test_Cursor_AtEnd(t *testing.T) {
	c := lexer.NewCursor("   ")
	require.True(t, c.AtEnd())
	c = lexer.NewCursor("  x")
	require.False(t, c.AtEnd())
}
