package dispatch

import (
	"fmt"

	"github.com/samiam95124/diskdiagnostic/internal/control"
	"github.com/samiam95124/diskdiagnostic/internal/eval"
	"github.com/samiam95124/diskdiagnostic/internal/lexer"
	"github.com/samiam95124/diskdiagnostic/internal/panicerr"
	"github.com/samiam95124/diskdiagnostic/internal/program"
)

// Dispatch reads one verb from cur and runs it: a stored-program label
// wins over the built-in table (spec §4.7), so a user program can shadow
// a built-in name by labeling a line with it.
func Dispatch(ctx *Context, cur *lexer.Cursor) Status {
	verb := cur.Word()
	if verb == "" {
		return OK
	}
	if pos, line, ok := ctx.Program.FindLabelPos(verb); ok {
		return ctx.call(pos, line, cur)
	}
	h, ok := builtins[verb]
	if !ok {
		return Errorf(fmt.Errorf("dispatch: unknown command %q", verb))
	}
	var st Status
	if err := panicerr.Recover(verb, func() error {
		st = h(ctx, cur)
		return nil
	}); err != nil {
		return Errorf(err)
	}
	return st
}

// call binds verb's trailing arguments positionally into line's declared
// parameters as fresh locals, then pushes a new interpreter frame at
// line's stored position so execution continues there.
func (ctx *Context) call(pos int, line *program.Line, cur *lexer.Cursor) Status {
	mark := ctx.Vars.Mark()
	for _, p := range line.Params {
		v, err := eval.Eval(cur, ctx.Vars)
		if err != nil {
			ctx.Vars.TruncateTo(mark)
			return Errorf(err)
		}
		ctx.Vars.Local(p, v)
	}
	ctx.Frames.Push(control.Frame{
		Line:       line,
		Cursor:     lexer.NewCursor(line.Body),
		LocalsMark: mark,
		LinePos:    pos,
	})
	return Status{Kind: StatusRestart}
}
