package dispatch_test

import (
	"strings"
	"testing"

	"github.com/samiam95124/diskdiagnostic/internal/control"
	"github.com/samiam95124/diskdiagnostic/internal/device"
	"github.com/samiam95124/diskdiagnostic/internal/dispatch"
	"github.com/samiam95124/diskdiagnostic/internal/lexer"
	"github.com/samiam95124/diskdiagnostic/internal/pattern"
	"github.com/samiam95124/diskdiagnostic/internal/program"
	"github.com/samiam95124/diskdiagnostic/internal/vars"
	"github.com/stretchr/testify/require"
)

func newTestContext(t *testing.T, out *strings.Builder) (*dispatch.Context, *control.Frames) {
	t.Helper()
	ctx := &dispatch.Context{
		Program:    &program.Store{},
		Loops:      &control.ControlFrames{},
		Engine:     pattern.NewEngine(),
		Session:    device.NewSession(),
		SectorSize: device.SectorSize,
		BufSectors: 2,
		Out:        out,
	}
	ctx.ReadBuf = make([]byte, ctx.SectorSize*ctx.BufSectors)
	ctx.WriteBuf = make([]byte, ctx.SectorSize*ctx.BufSectors)
	ctx.Vars = vars.NewStore(dispatch.NewPseudoVars(ctx))

	var frames control.Frames
	frames.Push(control.Frame{}) // immediate-mode sentinel
	ctx.Frames = &frames
	return ctx, &frames
}

// runLine dispatches every ";"-separated command on one line in turn,
// stopping at the first non-OK/non-Restart status (a restart is expected
// only from control-flow verbs under test, which this helper doesn't
// chase across lines).
func runLine(ctx *dispatch.Context, line string) dispatch.Status {
	cur := lexer.NewCursor(line)
	ctx.Frames.Top().Cursor = cur
	for !cur.AtEnd() {
		st := dispatch.Dispatch(ctx, cur)
		if st.Kind != dispatch.StatusOK {
			return st
		}
		cur.SkipSpaces()
		if cur.Peek() == ';' {
			cur.Next()
		}
	}
	return dispatch.OK
}

func Test_Dispatch_set_and_print(t *testing.T) {
	var out strings.Builder
	ctx, _ := newTestContext(t, &out)

	st := runLine(ctx, "set x 5")
	require.Equal(t, dispatch.StatusOK, st.Kind)

	v, ok := ctx.Vars.Find("x")
	require.True(t, ok)
	require.EqualValues(t, 5, v)

	st = runLine(ctx, "printn x")
	require.Equal(t, dispatch.StatusOK, st.Kind)
	require.Equal(t, "5 ", out.String())
}

func Test_Dispatch_unknown_command(t *testing.T) {
	var out strings.Builder
	ctx, _ := newTestContext(t, &out)
	st := runLine(ctx, "bogus")
	require.Equal(t, dispatch.StatusError, st.Kind)
}

func Test_Dispatch_if_false_aborts_rest_of_line(t *testing.T) {
	var out strings.Builder
	ctx, _ := newTestContext(t, &out)
	st := runLine(ctx, "if 0; set x 9")
	require.Equal(t, dispatch.StatusOK, st.Kind)
	_, ok := ctx.Vars.Find("x")
	require.False(t, ok)
}

func Test_Dispatch_label_call_binds_params(t *testing.T) {
	var out strings.Builder
	ctx, _ := newTestContext(t, &out)
	ctx.Program.Insert(0, &program.Line{Label: "addone", Params: []string{"n"}, Body: " printn n+1"})

	st := runLine(ctx, "addone 4")
	require.Equal(t, dispatch.StatusRestart, st.Kind)
	require.Equal(t, 2, ctx.Frames.Depth())

	top := ctx.Frames.Top()
	st = dispatch.Dispatch(ctx, top.Cursor)
	require.Equal(t, dispatch.StatusOK, st.Kind)
	require.Equal(t, "5 ", out.String())
}

// driveLine dispatches cur to completion, chasing StatusRestart (loop/u
// rewinding the line, or a label call pushing a new frame) until the line
// reads dry. Used for the trailing loop/loopq/u verbs, which restart their
// own command line in place rather than being an opener/closer pair.
func driveLine(t *testing.T, ctx *dispatch.Context) {
	t.Helper()
	for i := 0; i < 40; i++ {
		cur := ctx.Frames.Top().Cursor
		if cur.AtEnd() {
			return
		}
		st := dispatch.Dispatch(ctx, cur)
		require.NotEqual(t, dispatch.StatusError, st.Kind)
		if st.Kind == dispatch.StatusRestart {
			continue
		}
		cur.SkipSpaces()
		if cur.Peek() == ';' {
			cur.Next()
		}
	}
	t.Fatal("driveLine: too many iterations, suspected infinite loop")
}

func Test_Dispatch_loop_repeats_whole_line_and_echoes_iteration(t *testing.T) {
	var out strings.Builder
	ctx, _ := newTestContext(t, &out)
	ctx.Program.Insert(0, &program.Line{Body: "printn 1; loop 3"})
	top := ctx.Frames.Top()
	top.LinePos = 1
	top.Line = ctx.Program.At(1)
	top.Cursor = lexer.NewCursor(top.Line.Body)

	driveLine(t, ctx)
	require.Equal(t, "1 Iteration: 1\n1 Iteration: 2\n1 Iteration: 3\n", out.String())
}

func Test_Dispatch_loopq_repeats_silently(t *testing.T) {
	var out strings.Builder
	ctx, _ := newTestContext(t, &out)
	ctx.Program.Insert(0, &program.Line{Body: "printn 1; loopq 3"})
	top := ctx.Frames.Top()
	top.LinePos = 1
	top.Line = ctx.Program.At(1)
	top.Cursor = lexer.NewCursor(top.Line.Body)

	driveLine(t, ctx)
	require.Equal(t, "1 1 1 ", out.String())
}

func Test_Dispatch_u_is_independent_conditional_repeat(t *testing.T) {
	var out strings.Builder
	ctx, _ := newTestContext(t, &out)
	ctx.Program.Insert(0, &program.Line{Body: "set x x+1; printn x; u x>=3"})
	top := ctx.Frames.Top()
	top.LinePos = 1
	top.Line = ctx.Program.At(1)
	top.Cursor = lexer.NewCursor(top.Line.Body)
	ctx.Vars.Set("x", 0)

	driveLine(t, ctx)
	require.Equal(t, "1 2 3 ", out.String())
}
