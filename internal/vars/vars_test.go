package vars_test

import (
	"testing"

	"github.com/samiam95124/diskdiagnostic/internal/lexer"
	"github.com/samiam95124/diskdiagnostic/internal/vars"
	"github.com/stretchr/testify/require"
)

func Test_Store_set_and_find(t *testing.T) {
	s := vars.NewStore(nil)
	s.Set("x", 1)
	v, ok := s.Find("x")
	require.True(t, ok)
	require.Equal(t, int64(1), v)

	s.Set("x", 2) // find-or-push: updates in place
	v, ok = s.Find("x")
	require.True(t, ok)
	require.Equal(t, int64(2), v)
}

func Test_Store_local_shadows(t *testing.T) {
	s := vars.NewStore(nil)
	s.Set("x", 1)
	mark := s.Mark()
	s.Local("x", 99)
	v, _ := s.Find("x")
	require.Equal(t, int64(99), v)

	s.TruncateTo(mark)
	v, _ = s.Find("x")
	require.Equal(t, int64(1), v)
}

func Test_Store_pseudo_var_priority(t *testing.T) {
	s := vars.NewStore(map[string]vars.PseudoVar{
		"rand": func(_ *lexer.Cursor) (int64, error) { return 42, nil },
	})
	s.Set("rand", 1) // shadow binding, unreachable through Resolve
	v, ok, err := s.Resolve(lexer.NewCursor(""), "rand")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, int64(42), v)
}

func Test_Store_resolve_unknown(t *testing.T) {
	s := vars.NewStore(nil)
	_, ok, err := s.Resolve(lexer.NewCursor(""), "nope")
	require.NoError(t, err)
	require.False(t, ok)
}
