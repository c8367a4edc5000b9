package dispatch

import (
	"fmt"

	"github.com/samiam95124/diskdiagnostic/internal/control"
	"github.com/samiam95124/diskdiagnostic/internal/eval"
	"github.com/samiam95124/diskdiagnostic/internal/lexer"
)

// backOf captures enough to later restore the live frame's execution
// position to cur's current offset: which stored line (if any) the frame
// is on, and a standalone copy of cur itself. Immediate-mode captures
// (BackPos == 0) are only ever jumped back to within the same command,
// since immediate-mode input is never re-entered across prompts.
//
// If cur sits right at a ";" command separator, that separator is
// consumed in the captured copy — jumpBack hands its cursor straight to
// Dispatch, bypassing the driver's own between-commands ";" skip, so the
// capture point must already be positioned at the start of a command.
func (ctx *Context) backOf(cur *lexer.Cursor) control.ControlFrame {
	top := ctx.Frames.Top()
	target := *cur
	if target.Peek() == ';' {
		target.Next()
	}
	return control.ControlFrame{BackTarget: target, BackLine: top.Line, BackPos: top.LinePos}
}

// jumpBack repositions the live frame to a previously captured backOf
// target and returns its cursor, ready for the caller to resume reading
// from.
func (ctx *Context) jumpBack(f control.ControlFrame) *lexer.Cursor {
	top := ctx.Frames.Top()
	top.Line = f.BackLine
	top.LinePos = f.BackPos
	back := f.BackTarget
	top.Cursor = &back
	return top.Cursor
}

// --- while/wend ---

func cmdWhile(ctx *Context, cur *lexer.Cursor) Status {
	// wend jumps back to the "while" verb itself, so Dispatch re-enters
	// cmdWhile and the condition is evaluated afresh.
	start := *cur
	start.SetPos(cur.Pos() - len("while"))
	condStart := ctx.backOf(&start)
	cond, err := evalArg(ctx, cur)
	if err != nil {
		return Errorf(err)
	}
	if cond == 0 {
		if _, _, err := ctx.skipTo("wend"); err != nil {
			return Errorf(err)
		}
		return OK
	}
	condStart.Kind = control.KindWhile
	ctx.Loops.Push(condStart)
	return OK
}

func cmdWend(ctx *Context, cur *lexer.Cursor) Status {
	frame, ok := ctx.Loops.PopStaleUntil(control.KindWhile)
	if !ok {
		return Errorf(fmt.Errorf("dispatch: wend without while"))
	}
	ctx.jumpBack(frame)
	return Status{Kind: StatusRestart}
}

// --- repeat/until ---

func cmdRepeat(ctx *Context, cur *lexer.Cursor) Status {
	frame := ctx.backOf(cur)
	frame.Kind = control.KindRepeat
	ctx.Loops.Push(frame)
	return OK
}

func cmdUntil(ctx *Context, cur *lexer.Cursor) Status {
	frame, ok := ctx.Loops.PopStaleUntil(control.KindRepeat)
	if !ok {
		return Errorf(fmt.Errorf("dispatch: until without repeat"))
	}
	cond, err := evalArg(ctx, cur)
	if err != nil {
		return Errorf(err)
	}
	if cond != 0 {
		return OK
	}
	ctx.jumpBack(frame)
	ctx.Loops.Push(frame)
	return Status{Kind: StatusRestart}
}

// --- for/fend ---

func cmdFor(ctx *Context, cur *lexer.Cursor) Status {
	// Captured before consuming anything: fend rewinds here and re-reads
	// "name start end [step]" verbatim to re-evaluate the bounds.
	frame := ctx.backOf(cur)

	name := cur.Word()
	if name == "" {
		return Errorf(fmt.Errorf("dispatch: for requires a variable name"))
	}
	start, err := evalArg(ctx, cur)
	if err != nil {
		return Errorf(err)
	}
	end, err := evalArg(ctx, cur)
	if err != nil {
		return Errorf(err)
	}
	step, err := optArg(ctx, cur, 1)
	if err != nil {
		return Errorf(err)
	}
	ctx.Vars.Set(name, start)
	if forDone(start, end, step) {
		if _, _, err := ctx.skipTo("fend"); err != nil {
			return Errorf(err)
		}
		return OK
	}
	frame.Kind = control.KindFor
	frame.ForVar = name
	frame.ForStep = step
	frame.ForEnd = end
	ctx.Loops.Push(frame)
	return OK
}

func forDone(cur, end, step int64) bool {
	if step >= 0 {
		return cur > end
	}
	return cur < end
}

// cmdFend re-parses the step and end bounds from the opening "for" line on
// every iteration (spec's resolved Open Question): editing a variable the
// bound expressions reference changes the next check.
func cmdFend(ctx *Context, cur *lexer.Cursor) Status {
	frame, ok := ctx.Loops.PopStaleUntil(control.KindFor)
	if !ok {
		return Errorf(fmt.Errorf("dispatch: fend without for"))
	}
	v, _ := ctx.Vars.Find(frame.ForVar)
	v += frame.ForStep
	ctx.Vars.Set(frame.ForVar, v)
	saved := ctx.backOf(cur)

	backCur := ctx.jumpBack(frame)
	// backCur resumes right after "for" was already consumed the first
	// time through; re-read "<name> <start> <end> [step]" so the end/step
	// bounds are re-evaluated against current variable values, discarding
	// the restated name and start (the loop variable already holds the
	// live value).
	backCur.Word() // loop variable name
	if _, err := eval.Eval(backCur, ctx.Vars); err != nil {
		return Errorf(err)
	}
	end, err := eval.Eval(backCur, ctx.Vars)
	if err != nil {
		return Errorf(err)
	}
	step, err := optArg(ctx, backCur, 1)
	if err != nil {
		return Errorf(err)
	}
	if forDone(v, end, step) {
		ctx.jumpBack(saved)
		return OK
	}
	frame.ForEnd = end
	frame.ForStep = step
	ctx.Loops.Push(frame)
	return Status{Kind: StatusRestart}
}

// --- select/case/default/send ---

func cmdSelect(ctx *Context, cur *lexer.Cursor) Status {
	v, err := evalArg(ctx, cur)
	if err != nil {
		return Errorf(err)
	}
	ctx.Loops.Push(control.ControlFrame{Kind: control.KindSelect, ForEnd: v})
	if _, _, err := ctx.skipTo("case", "default"); err != nil {
		return Errorf(err)
	}
	return OK
}

func cmdCase(ctx *Context, cur *lexer.Cursor) Status {
	frame := ctx.Loops.Top()
	if frame == nil || frame.Kind != control.KindSelect {
		return Errorf(fmt.Errorf("dispatch: case without select"))
	}
	want, err := evalArg(ctx, cur)
	if err != nil {
		return Errorf(err)
	}
	if want == frame.ForEnd {
		return OK
	}
	if _, _, err := ctx.skipTo("case", "default", "send"); err != nil {
		return Errorf(err)
	}
	return OK
}

func cmdDefault(ctx *Context, cur *lexer.Cursor) Status {
	frame := ctx.Loops.Top()
	if frame == nil || frame.Kind != control.KindSelect {
		return Errorf(fmt.Errorf("dispatch: default without select"))
	}
	return OK
}

func cmdSend(ctx *Context, cur *lexer.Cursor) Status {
	if _, ok := ctx.Loops.PopStaleUntil(control.KindSelect); !ok {
		return Errorf(fmt.Errorf("dispatch: send without select"))
	}
	return OK
}

// --- loop/loopq/u ---

// loopCounter returns the shared iteration counter for a loop/loopq
// command sitting at cur's current offset: program.Line.Counter for a
// stored-program frame, or the frame's own immediate-mode counter map when
// there is no stored line (original_source's single reused "dummyline").
func loopCounter(top *control.Frame, offset int) *int {
	if top.Line != nil {
		return top.Line.Counter(offset)
	}
	return top.Counter(offset)
}

// runLoop is "loop"/"loopq": optionally read a stop count, bump this call
// site's counter, and rewind this frame's own cursor to the start of the
// line to run it again, unless the stop count has been reached. Mirrors
// original_source's command_loop/command_loopq exactly — each is a
// self-contained trailing verb that restarts its own command line, not an
// opener paired with a separate closer. loop (but not the quiet loopq)
// echoes its progress on every pass.
func runLoop(ctx *Context, cur *lexer.Cursor, echo bool) Status {
	cur.SkipSpaces()
	stop := int64(-1)
	if !cur.AtEnd() && cur.Peek() != ';' {
		n, err := evalArg(ctx, cur)
		if err != nil {
			return Errorf(err)
		}
		stop = n
	}

	counter := loopCounter(ctx.Frames.Top(), cur.Pos())
	(*counter)++
	if echo {
		fmt.Fprintf(ctx.Out, "Iteration: %d\n", *counter)
	}
	if stop < 0 || int64(*counter) < stop {
		cur.SetPos(0)
		return Status{Kind: StatusRestart}
	}
	*counter = 0
	return OK
}

func cmdLoop(ctx *Context, cur *lexer.Cursor) Status  { return runLoop(ctx, cur, true) }
func cmdLoopQ(ctx *Context, cur *lexer.Cursor) Status { return runLoop(ctx, cur, false) }

// cmdUntilLine is "u val": an independent conditional, not loop's closer.
// Evaluate val; if it is zero, rewind this frame's cursor to the start of
// the line and run it again, otherwise just continue (original_source's
// command_untill).
func cmdUntilLine(ctx *Context, cur *lexer.Cursor) Status {
	v, err := evalArg(ctx, cur)
	if err != nil {
		return Errorf(err)
	}
	if v == 0 {
		cur.SetPos(0)
		return Status{Kind: StatusRestart}
	}
	return OK
}
