package dispatch

import (
	"bufio"
	"io"

	"github.com/samiam95124/diskdiagnostic/internal/control"
	"github.com/samiam95124/diskdiagnostic/internal/device"
	"github.com/samiam95124/diskdiagnostic/internal/lexer"
	"github.com/samiam95124/diskdiagnostic/internal/pattern"
	"github.com/samiam95124/diskdiagnostic/internal/program"
	"github.com/samiam95124/diskdiagnostic/internal/vars"
)

// Context bundles everything a dispatched command can touch: the
// variable and program stores, the two execution stacks, the pattern
// engine, the open device session, the read/write sector buffers and
// the driver-level switches (compare mode, write protect, exit-on-error).
type Context struct {
	Vars    *vars.Store
	Program *program.Store
	Frames  *control.Frames
	Loops   *control.ControlFrames
	Engine  *pattern.Engine
	Session *device.Session

	ReadBuf    []byte
	WriteBuf   []byte
	SectorSize int
	BufSectors int // len(ReadBuf)/SectorSize == len(WriteBuf)/SectorSize, the "bufsiz" pseudo-variable

	CompareMode pattern.CompareMode
	ExitOnError bool
	LastFailed  bool // last dispatched command's error flag; feeds the process exit code

	Out io.Writer
	In  *bufio.Reader

	Logf func(format string, args ...interface{})

	// Pager, if set, is consulted between lines of "list" and pages of
	// "help" output (spec §4.9/§6's screen pause). Returning false stops
	// output early, same as a break. Nil means no screen pausing — only
	// the SIGINT break flag can stop a long list.
	Pager func() bool
}

// pause is the pause callback program.Store.List and the help pager use:
// the driver's screen pager when set, else a bare break-flag check so
// "list"/"help" on a large program can still be interrupted with ^C even
// without an interactive pager wired up (e.g. under test).
func (ctx *Context) pause() bool {
	if ctx.Pager != nil {
		return ctx.Pager()
	}
	return !device.TakeBreak()
}

func (ctx *Context) logf(format string, args ...interface{}) {
	if ctx.Logf != nil {
		ctx.Logf(format, args...)
	}
}

// advanceLine hands skipcmd/SkipTo the next stored line in the current
// interpreter frame's fall-through sequence, advancing the frame's
// LinePos. Immediate mode (no LinePos established) never has a next
// line — skipcmd never crosses an interpreter-frame boundary.
func (ctx *Context) advanceLine() (*lexer.Cursor, bool) {
	top := ctx.Frames.Top()
	if top.LinePos == 0 {
		return nil, false
	}
	next := top.LinePos + 1
	l := ctx.Program.At(next)
	if l == nil {
		return nil, false
	}
	top.LinePos = next
	top.Line = l
	cur := lexer.NewCursor(l.Body)
	top.Cursor = cur
	return cur, true
}

// skipTo is SkipTo bound to this context's current frame and fall-through
// sequence, the form every control-flow handler calls.
func (ctx *Context) skipTo(targets ...string) (found string, at *lexer.Cursor, err error) {
	top := ctx.Frames.Top()
	return SkipTo(top.Cursor, ctx.advanceLine, targets...)
}
