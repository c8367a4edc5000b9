package dispatch

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/samiam95124/diskdiagnostic/internal/device"
	"github.com/samiam95124/diskdiagnostic/internal/dump"
	"github.com/samiam95124/diskdiagnostic/internal/eval"
	"github.com/samiam95124/diskdiagnostic/internal/format"
	"github.com/samiam95124/diskdiagnostic/internal/lexer"
	"github.com/samiam95124/diskdiagnostic/internal/pattern"
	"github.com/samiam95124/diskdiagnostic/internal/program"
)

// handler dispatches one already-verb-consumed command; cur is positioned
// just past the verb word, over the remainder of that single ";"-separated
// command.
type handler func(ctx *Context, cur *lexer.Cursor) Status

// builtins is the built-in command table (spec §4.7), a map keyed by
// every verb and alias original_source's cmdtbl lists.
var builtins = map[string]handler{
	"help": cmdHelp, "?": cmdHelp,
	"read": cmdRead, "r": cmdRead,
	"write": cmdWrite, "w": cmdWrite,
	"dumpwrite": cmdDumpWrite, "dw": cmdDumpWrite,
	"dumpread": cmdDumpRead, "dr": cmdDumpRead,
	"pattn": cmdPattn, "pt": cmdPattn,
	"comp": cmdComp, "c": cmdComp,
	"compmode": cmdCompMode, "cm": cmdCompMode,
	"drive":      cmdDrive,
	"listdrives": cmdListDrives, "ld": cmdListDrives,
	"unprot": cmdUnprot,
	"echo":   cmdEcho,
	"echon":  cmdEchon,
	"print":  cmdPrint, "p": cmdPrint,
	"printn": cmdPrintn, "pn": cmdPrintn,
	"set": cmdSet, "s": cmdSet,
	"local": cmdLocal,
	"srand": cmdSrand,
	"list":  cmdList,
	"clear": cmdClear,
	"save":  cmdSave,
	"load":  cmdLoad,
	"delt":  cmdDelt,
	"end":   cmdEnd,
	"go":    cmdGo,
	"if":    cmdIf,
	"exit":  cmdExit,
	"exitonerror":   cmdExitOnError,
	"input":         cmdInput, "i": cmdInput,
	"testrand":      cmdTestRand,
	"listvariables": cmdListVariables,

	"loop": cmdLoop, "l": cmdLoop,
	"loopq": cmdLoopQ, "lq": cmdLoopQ,
	"u":      cmdUntilLine,
	"while":  cmdWhile,
	"wend":   cmdWend,
	"repeat": cmdRepeat,
	"until":  cmdUntil,
	"for":    cmdFor,
	"fend":   cmdFend,
	"select": cmdSelect,
	"case":   cmdCase,
	"default": cmdDefault,
	"send":   cmdSend,
}

func evalArg(ctx *Context, cur *lexer.Cursor) (int64, error) {
	return eval.Eval(cur, ctx.Vars)
}

func optArg(ctx *Context, cur *lexer.Cursor, def int64) (int64, error) {
	cur.SkipSpaces()
	if cur.AtEnd() || cur.Peek() == ';' {
		return def, nil
	}
	return evalArg(ctx, cur)
}

func cmdHelp(ctx *Context, cur *lexer.Cursor) Status {
	for _, line := range []string{
		"discdiag: raw sector read/write/pattern/compare diagnostic",
		"  drive N         open drive N",
		"  read/write      [lba] [count]",
		"  pattn/comp      fill or check a pattern against the buffers",
		"  list/save/load  manage the stored program",
		"  help            this summary",
	} {
		fmt.Fprintln(ctx.Out, line)
		if !ctx.pause() {
			break
		}
	}
	return OK
}

func cmdRead(ctx *Context, cur *lexer.Cursor) Status {
	lba, err := optArg(ctx, cur, 0)
	if err != nil {
		return Errorf(err)
	}
	count, err := optArg(ctx, cur, int64(ctx.BufSectors))
	if err != nil {
		return Errorf(err)
	}
	need := count * int64(ctx.SectorSize)
	if int64(len(ctx.ReadBuf)) < need {
		return Errorf(fmt.Errorf("dispatch: read count %d exceeds buffer", count))
	}
	if err := ctx.Session.Read(ctx.ReadBuf[:need], lba, count); err != nil {
		return Errorf(err)
	}
	return OK
}

func cmdWrite(ctx *Context, cur *lexer.Cursor) Status {
	if ctx.Session.WriteProtected() {
		return Errorf(fmt.Errorf("dispatch: drive is write protected"))
	}
	lba, err := optArg(ctx, cur, 0)
	if err != nil {
		return Errorf(err)
	}
	count, err := optArg(ctx, cur, int64(ctx.BufSectors))
	if err != nil {
		return Errorf(err)
	}
	need := count * int64(ctx.SectorSize)
	if int64(len(ctx.WriteBuf)) < need {
		return Errorf(fmt.Errorf("dispatch: write count %d exceeds buffer", count))
	}
	if err := ctx.Session.Write(ctx.WriteBuf[:need], lba, count); err != nil {
		return Errorf(err)
	}
	return OK
}

func cmdDumpWrite(ctx *Context, cur *lexer.Cursor) Status {
	return dumpBuf(ctx, ctx.WriteBuf, cur)
}

func cmdDumpRead(ctx *Context, cur *lexer.Cursor) Status {
	return dumpBuf(ctx, ctx.ReadBuf, cur)
}

func dumpBuf(ctx *Context, buf []byte, cur *lexer.Cursor) Status {
	count, err := optArg(ctx, cur, int64(ctx.BufSectors))
	if err != nil {
		return Errorf(err)
	}
	n := count * int64(ctx.SectorSize)
	if n > int64(len(buf)) {
		n = int64(len(buf))
	}
	if err := dump.Dump(ctx.Out, buf[:n], 0, device.TakeBreak); err != nil {
		if err == dump.ErrBroken {
			return Status{Kind: StatusStop}
		}
		return Errorf(err)
	}
	return OK
}

// pattnLength reads the optional trailing "length in sectors" argument
// shared by pattn and comp (command_pattn/command_comp,
// original_source:2760-2769, 2909-2918), defaulting to a full buffer's
// worth and rejecting anything that wouldn't fit in it.
func pattnLength(ctx *Context, cur *lexer.Cursor, buf []byte) (int64, error) {
	length, err := optArg(ctx, cur, int64(ctx.BufSectors))
	if err != nil {
		return 0, err
	}
	need := length * int64(ctx.SectorSize)
	if length < 0 || need > int64(len(buf)) {
		return 0, fmt.Errorf("dispatch: length %d sectors exceeds buffer", length)
	}
	return need, nil
}

func cmdPattn(ctx *Context, cur *lexer.Cursor) Status {
	kindWord := cur.Word()
	kind := pattern.Kind(kindWord)
	if kindWord == "" {
		kind = pattern.DefaultKind
	}
	value, err := optArg(ctx, cur, 0)
	if err != nil {
		return Errorf(err)
	}
	need, err := pattnLength(ctx, cur, ctx.WriteBuf)
	if err != nil {
		return Errorf(err)
	}
	if err := ctx.Engine.Fill(ctx.WriteBuf[:need], kind, value, ctx.SectorSize); err != nil {
		return Errorf(err)
	}
	return OK
}

func cmdComp(ctx *Context, cur *lexer.Cursor) Status {
	kindWord := cur.Word()
	kind := pattern.Kind(kindWord)
	if kindWord == "" {
		kind = pattern.DefaultKind
	}
	value, err := optArg(ctx, cur, 0)
	if err != nil {
		return Errorf(err)
	}
	need, err := pattnLength(ctx, cur, ctx.ReadBuf)
	if err != nil {
		return Errorf(err)
	}
	readBuf := ctx.ReadBuf[:need]

	var want func(i int) byte
	if kind == pattern.KindBuffs {
		want = func(i int) byte {
			if i < len(ctx.WriteBuf) {
				return ctx.WriteBuf[i]
			}
			return 0
		}
	} else {
		gen, err := ctx.Engine.Generator(kind, value, ctx.SectorSize)
		if err != nil {
			return Errorf(err)
		}
		want = gen
	}

	var res pattern.CompareResult
	run := func() {
		res = pattern.Compare(readBuf, want, ctx.CompareMode, ctx.SectorSize, pattern.ActiveOffsets(kind),
			func(addr int64, got, want byte) {
				fmt.Fprintf(ctx.Out, "mismatch at %d: got %02x want %02x\n", addr, got, want)
			},
			func(n int) {
				fmt.Fprintf(ctx.Out, "  %d further occurrences\n", n)
			},
			device.TakeBreak,
		)
	}
	if kind == pattern.KindBuffs {
		run()
	} else {
		ctx.Engine.WithPatternSeed(run)
	}
	if res.Broke {
		return Status{Kind: StatusStop}
	}
	if res.Failed {
		return Errorf(fmt.Errorf("dispatch: compare failed, %d mismatches", res.Mismatches))
	}
	return OK
}

func cmdCompMode(ctx *Context, cur *lexer.Cursor) Status {
	w := cur.Word()
	mode, ok := pattern.ParseCompareMode(w)
	if !ok {
		return Errorf(fmt.Errorf("dispatch: unknown compare mode %q", w))
	}
	ctx.CompareMode = mode
	return OK
}

func cmdDrive(ctx *Context, cur *lexer.Cursor) Status {
	n, err := evalArg(ctx, cur)
	if err != nil {
		return Errorf(err)
	}
	if err := ctx.Session.Open(int(n)); err != nil {
		return Errorf(err)
	}
	return OK
}

func cmdListDrives(ctx *Context, cur *lexer.Cursor) Status {
	for n := 0; n < 16; n++ {
		if _, name, err := device.Open(n); err == nil {
			fmt.Fprintf(ctx.Out, "drive %d: %s\n", n, name)
		}
	}
	return OK
}

func cmdUnprot(ctx *Context, cur *lexer.Cursor) Status {
	ctx.Session.Unprotect()
	return OK
}

func cmdEcho(ctx *Context, cur *lexer.Cursor) Status {
	text := cur.Rest()
	if i := strings.IndexByte(text, ';'); i >= 0 {
		text = text[:i]
	}
	cur.SetPos(cur.Pos() + len(text))
	fmt.Fprintln(ctx.Out, strings.TrimPrefix(text, " "))
	return OK
}

func cmdEchon(ctx *Context, cur *lexer.Cursor) Status {
	text := cur.Rest()
	if i := strings.IndexByte(text, ';'); i >= 0 {
		text = text[:i]
	}
	cur.SetPos(cur.Pos() + len(text))
	fmt.Fprint(ctx.Out, strings.TrimPrefix(text, " "))
	return OK
}

func cmdPrint(ctx *Context, cur *lexer.Cursor) Status {
	return printImpl(ctx, cur, true)
}

func cmdPrintn(ctx *Context, cur *lexer.Cursor) Status {
	return printImpl(ctx, cur, false)
}

func printImpl(ctx *Context, cur *lexer.Cursor, newline bool) Status {
	var fstr string
	if s, ok, err := cur.QuotedString(); err != nil {
		return Errorf(err)
	} else if ok {
		fstr = s
	}
	if err := format.Printf(ctx.Out, cur, fstr, ctx.Vars); err != nil {
		return Errorf(err)
	}
	if newline {
		fmt.Fprintln(ctx.Out)
	}
	return OK
}

func cmdSet(ctx *Context, cur *lexer.Cursor) Status {
	name := cur.Word()
	if name == "" {
		return Errorf(fmt.Errorf("dispatch: set requires a variable name"))
	}
	v, err := evalArg(ctx, cur)
	if err != nil {
		return Errorf(err)
	}
	ctx.Vars.Set(name, v)
	return OK
}

func cmdLocal(ctx *Context, cur *lexer.Cursor) Status {
	name := cur.Word()
	if name == "" {
		return Errorf(fmt.Errorf("dispatch: local requires a variable name"))
	}
	v, err := evalArg(ctx, cur)
	if err != nil {
		return Errorf(err)
	}
	ctx.Vars.Local(name, v)
	return OK
}

func cmdSrand(ctx *Context, cur *lexer.Cursor) Status {
	v, err := evalArg(ctx, cur)
	if err != nil {
		return Errorf(err)
	}
	ctx.Engine.Reseed(uint32(v))
	return OK
}

func cmdList(ctx *Context, cur *lexer.Cursor) Status {
	ctx.Program.List(ctx.Out, ctx.pause)
	return OK
}

func cmdClear(ctx *Context, cur *lexer.Cursor) Status {
	ctx.Program.Clear()
	return OK
}

func cmdSave(ctx *Context, cur *lexer.Cursor) Status {
	name := cur.Word()
	if name == "" {
		return Errorf(fmt.Errorf("dispatch: save requires a file name"))
	}
	f, err := os.Create(name)
	if err != nil {
		return Errorf(err)
	}
	defer f.Close()
	if err := ctx.Program.Save(f); err != nil {
		return Errorf(err)
	}
	return OK
}

func cmdLoad(ctx *Context, cur *lexer.Cursor) Status {
	name := cur.Word()
	if name == "" {
		return Errorf(fmt.Errorf("dispatch: load requires a file name"))
	}
	f, err := os.Open(name)
	if err != nil {
		return Errorf(err)
	}
	defer f.Close()
	if err := ctx.Program.Load(f, func(raw string) (*program.Line, error) {
		_, line, perr := program.ParseEnteredLine(raw, ctx.Vars)
		return line, perr
	}); err != nil {
		return Errorf(err)
	}
	return OK
}

func cmdDelt(ctx *Context, cur *lexer.Cursor) Status {
	n, err := evalArg(ctx, cur)
	if err != nil {
		return Errorf(err)
	}
	ctx.Program.Delete(int(n))
	return OK
}

func cmdEnd(ctx *Context, cur *lexer.Cursor) Status {
	if err := ctx.Frames.Pop(ctx.Vars.TruncateTo); err != nil {
		return Errorf(err)
	}
	return Status{Kind: StatusRestart}
}

func cmdGo(ctx *Context, cur *lexer.Cursor) Status {
	label := cur.Word()
	pos, line, ok := ctx.Program.FindLabelPos(label)
	if !ok {
		return Errorf(fmt.Errorf("dispatch: no such label %q", label))
	}
	top := ctx.Frames.Top()
	top.Line = line
	top.LinePos = pos
	top.Cursor = lexer.NewCursor(line.Body)
	return Status{Kind: StatusRestart}
}

func cmdIf(ctx *Context, cur *lexer.Cursor) Status {
	cond, err := evalArg(ctx, cur)
	if err != nil {
		return Errorf(err)
	}
	if cond == 0 {
		// false: abort the remainder of this ";"-split command batch by
		// draining the cursor, exactly the original's "while(**line)
		// (*line)++" — there is nothing left in *this* command for the
		// caller to continue with.
		cur.SetPos(len(cur.String()))
		return OK
	}
	// true: cur is left just past the condition, so the caller's dispatch
	// loop runs the guarded command next. Calling Dispatch from here would
	// make the builtins table's initializer refer to itself.
	return OK
}

func cmdExit(ctx *Context, cur *lexer.Cursor) Status {
	return Status{Kind: StatusExit}
}

func cmdExitOnError(ctx *Context, cur *lexer.Cursor) Status {
	ctx.ExitOnError = !ctx.ExitOnError
	return OK
}

func cmdInput(ctx *Context, cur *lexer.Cursor) Status {
	name := cur.Word()
	if name == "" {
		return Errorf(fmt.Errorf("dispatch: input requires a variable name"))
	}
	if ctx.In == nil {
		return Errorf(fmt.Errorf("dispatch: no input source configured"))
	}
	line, err := ctx.In.ReadString('\n')
	if err != nil && line == "" {
		return Errorf(err)
	}
	v, perr := strconv.ParseInt(strings.TrimSpace(line), 0, 64)
	if perr != nil {
		return Errorf(fmt.Errorf("dispatch: input: %w", perr))
	}
	ctx.Vars.Set(name, v)
	return OK
}

// cmdTestRand is the hidden diagnostic that prints the next n raw Rand64()
// samples, used to regression-check the PRNG port against the golden
// first-values sequence (ported verbatim from the original's bin-test,
// simplified to raw sample printing rather than its 100-bin histogram).
func cmdTestRand(ctx *Context, cur *lexer.Cursor) Status {
	n, err := optArg(ctx, cur, 10)
	if err != nil {
		return Errorf(err)
	}
	for i := int64(0); i < n; i++ {
		fmt.Fprintln(ctx.Out, ctx.Engine.Rand64())
	}
	return OK
}

func cmdListVariables(ctx *Context, cur *lexer.Cursor) Status {
	for _, b := range ctx.Vars.Snapshot() {
		fmt.Fprintf(ctx.Out, "%s = %d\n", b.Name, b.Val)
	}
	return OK
}
