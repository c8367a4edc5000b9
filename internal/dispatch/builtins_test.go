package dispatch_test

import (
	"strings"
	"testing"

	"github.com/samiam95124/diskdiagnostic/internal/dispatch"
	"github.com/stretchr/testify/require"
)

// Test_Dispatch_pattn_length_in_sectors confirms "pt val N len" only fills
// the first len sectors of the write buffer, leaving the rest untouched,
// per command_pattn's third ("length in sectors") argument
// (original_source:2760-2769) and spec §4.9/§8 scenario D.
func Test_Dispatch_pattn_length_in_sectors(t *testing.T) {
	var out strings.Builder
	ctx, _ := newTestContext(t, &out)
	for i := range ctx.WriteBuf {
		ctx.WriteBuf[i] = 0xaa
	}

	st := runLine(ctx, "pt val 0x11223344 1")
	require.Equal(t, dispatch.StatusOK, st.Kind)

	want := []byte{0x11, 0x22, 0x33, 0x44}
	for i := 0; i < ctx.SectorSize; i++ {
		require.Equal(t, want[i%4], ctx.WriteBuf[i], "byte %d in the filled sector", i)
	}
	for i := ctx.SectorSize; i < len(ctx.WriteBuf); i++ {
		require.Equal(t, byte(0xaa), ctx.WriteBuf[i], "byte %d beyond the requested length must be untouched", i)
	}
}

// Test_Dispatch_pattn_length_consumes_token_before_next_verb pins spec §8
// scenario D: "pt val 0x11223344 2; dw 1" must not error on a leftover "2"
// token being misdispatched as an unknown verb.
func Test_Dispatch_pattn_length_consumes_token_before_next_verb(t *testing.T) {
	var out strings.Builder
	ctx, _ := newTestContext(t, &out)

	st := runLine(ctx, "pt val 0x11223344 2; dw 1")
	require.Equal(t, dispatch.StatusOK, st.Kind)
}

// Test_Dispatch_comp_length_in_sectors confirms "c val N len" only compares
// the first len sectors, so a mismatch planted past that length is never
// reported (command_comp's third argument, original_source:2909-2918).
func Test_Dispatch_comp_length_in_sectors(t *testing.T) {
	var out strings.Builder
	ctx, _ := newTestContext(t, &out)

	st := runLine(ctx, "pt val 0x11223344 1")
	require.Equal(t, dispatch.StatusOK, st.Kind)
	copy(ctx.ReadBuf, ctx.WriteBuf)
	// Corrupt the second sector, which a length-1 comp must never look at.
	ctx.ReadBuf[ctx.SectorSize] = 0xff

	st = runLine(ctx, "c val 0x11223344 1")
	require.Equal(t, dispatch.StatusOK, st.Kind)
	require.Empty(t, out.String())
}

// Test_Dispatch_pattn_length_exceeds_buffer rejects a length argument that
// wouldn't fit in the configured buffer rather than overrunning it.
func Test_Dispatch_pattn_length_exceeds_buffer(t *testing.T) {
	var out strings.Builder
	ctx, _ := newTestContext(t, &out)

	st := runLine(ctx, "pt val 1 99")
	require.Equal(t, dispatch.StatusError, st.Kind)
}
