package dispatch

import "github.com/samiam95124/diskdiagnostic/internal/lexer"

// Run dispatches every command in body in turn, following ";" separators
// and stored-program line fallthrough, until control returns to the frame
// that was on top when Run was called with nothing left to run, or a
// command reports a status the caller must act on (exit or error — break/
// continue/stop/restart are absorbed here, matching original_source's
// nxtcmd/nxtpgm loop).
//
// This is the same loop a label call's body runs under, whether it was
// reached by typing its name at the prompt or by another line calling it:
// the top frame's Cursor is whatever Dispatch most recently positioned,
// and Run just keeps feeding it until that frame (and everything it
// called) is done.
func Run(ctx *Context, body string) Status {
	startDepth := ctx.Frames.Depth()
	ctx.Frames.Top().Cursor = lexer.NewCursor(body)

	for {
		cur := ctx.Frames.Top().Cursor
		if cur.AtEnd() {
			if _, ok := ctx.advanceLine(); ok {
				continue
			}
			if ctx.Frames.Depth() > startDepth {
				// Ran off the end of the stored program without an
				// explicit "end" — original_source's "end of program,
				// flush stack and bail": pop back down to where Run
				// started rather than leaving orphaned frames behind.
				for ctx.Frames.Depth() > startDepth {
					if err := ctx.Frames.Pop(ctx.Vars.TruncateTo); err != nil {
						return Errorf(err)
					}
				}
			}
			return OK
		}

		cur.SkipSpaces()
		if cur.Peek() == ';' {
			cur.Next()
			continue
		}
		if cur.AtEnd() {
			continue
		}

		if ctx.Logf != nil {
			ctx.logf("%s", cur.PeekWord())
		}

		switch st := Dispatch(ctx, cur); st.Kind {
		case StatusOK, StatusBreak, StatusContinue, StatusStop, StatusRestart:
			continue
		default: // StatusExit, StatusError
			return st
		}
	}
}
