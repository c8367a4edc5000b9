package mem_test

import (
	"testing"

	"github.com/samiam95124/diskdiagnostic/internal/mem"
	"github.com/stretchr/testify/require"
)

func Test_Bytes_basic(t *testing.T) {
	var m mem.Bytes
	m.PageSize = 4

	buf := make([]byte, 1)
	require.NoError(t, m.LoadInto(0, buf))
	require.Equal(t, byte(0), buf[0])
	require.Equal(t, uint(0), m.Size())

	require.NoError(t, m.Stor(0, []byte{9}))
	require.NoError(t, m.LoadInto(0, buf))
	require.Equal(t, byte(9), buf[0])
}

func Test_Bytes_page_hole(t *testing.T) {
	var m mem.Bytes
	m.PageSize = 4

	require.NoError(t, m.Stor(0, []byte{9}))
	require.NoError(t, m.Stor(0x9, []byte{1, 2, 3, 4, 5, 6}))

	require.Equal(t, mem.BytesDump{
		Bases: []uint{0x0, 0x8, 0xc},
		Sizes: []uint{4, 4, 4},
		Pages: [][]byte{
			{9, 0, 0, 0},
			{0, 1, 2, 3},
			{4, 5, 6, 0},
		},
	}, m.Dump())
}

func Test_Bytes_limit(t *testing.T) {
	var m mem.Bytes
	m.PageSize = 4
	m.Limit = 8

	err := m.Stor(9, []byte{1})
	require.Error(t, err)
	require.IsType(t, mem.LimitError{}, err)

	require.NoError(t, m.Stor(4, []byte{1, 2, 3, 4}))
}
