// Package driver implements the interactive read-prompt-dispatch loop
// around internal/dispatch: the queued command input,
// the stored-program edit/dispatch line routing, the per-prompt I/O
// statistics line, and process exit-code handling. Adapted from the
// teacher's functional-options VM construction (api.go's New/With*
// pattern) and its Core/Run split.
package driver

import (
	"bufio"
	"io"

	"github.com/samiam95124/diskdiagnostic/internal/control"
	"github.com/samiam95124/diskdiagnostic/internal/device"
	"github.com/samiam95124/diskdiagnostic/internal/dispatch"
	"github.com/samiam95124/diskdiagnostic/internal/flushio"
	"github.com/samiam95124/diskdiagnostic/internal/ioqueue"
	"github.com/samiam95124/diskdiagnostic/internal/pattern"
	"github.com/samiam95124/diskdiagnostic/internal/program"
	"github.com/samiam95124/diskdiagnostic/internal/vars"
)

// Driver wires a dispatch.Context to a queued command source and a
// flushing output stream, and runs the prompt/edit/dispatch loop.
type Driver struct {
	Ctx   *dispatch.Context
	Queue *ioqueue.Queue

	out   flushio.WriteFlusher
	pager *Pager

	prompt    string
	initLabel string
	initDrive int
	tick      int64

	closers []io.Closer
}

// Option configures a Driver at construction time.
type Option func(*Driver)

// New builds a fully wired Driver: an empty program store, both execution
// stacks with the immediate-mode sentinel frame pushed, a pattern engine,
// a closed device session, and default-sized read/write buffers. opts
// then layer in the command sources, output, and switches.
func New(opts ...Option) *Driver {
	ctx := &dispatch.Context{
		Program:    &program.Store{},
		Loops:      &control.ControlFrames{},
		Engine:     pattern.NewEngine(),
		Session:    device.NewSession(),
		SectorSize: device.SectorSize,
		BufSectors: 2,
	}
	ctx.ReadBuf = make([]byte, ctx.SectorSize*ctx.BufSectors)
	ctx.WriteBuf = make([]byte, ctx.SectorSize*ctx.BufSectors)
	ctx.Vars = vars.NewStore(dispatch.NewPseudoVars(ctx))

	var frames control.Frames
	frames.Push(control.Frame{})
	ctx.Frames = &frames

	d := &Driver{
		Ctx:       ctx,
		Queue:     ioqueue.NewQueue(),
		prompt:    "Diag> ",
		initLabel: "init",
		initDrive: -1,
		tick:      device.NowTicks(),
	}
	d.out = flushio.NewWriteFlusher(io.Discard)
	ctx.Out = d.out
	d.pager = &Pager{Out: d.out}
	ctx.Pager = d.pager.Pause

	for _, opt := range opts {
		opt(d)
	}
	return d
}

// WithInput appends a command source to the queue; sources are read in
// the order they were added.
func WithInput(r io.Reader) Option {
	return func(d *Driver) { d.Queue.Push(r) }
}

// WithOutput sets the driver's output stream.
func WithOutput(w io.Writer) Option {
	return func(d *Driver) {
		d.out = flushio.NewWriteFlusher(w)
		d.Ctx.Out = d.out
		d.pager.Out = d.out
		if cl, ok := w.(io.Closer); ok {
			d.closers = append(d.closers, cl)
		}
	}
}

// WithTee fans output out to an additional writer (e.g. a transcript
// file) alongside whatever WithOutput already configured.
func WithTee(w io.Writer) Option {
	return func(d *Driver) {
		d.out = flushio.WriteFlushers(d.out, flushio.NewWriteFlusher(w))
		d.Ctx.Out = d.out
		d.pager.Out = d.out
		if cl, ok := w.(io.Closer); ok {
			d.closers = append(d.closers, cl)
		}
	}
}

// WithDataInput sets the stream "input" reads raw data lines from, and
// the stream the screen pager reads a keypress line from. Both are kept
// separate from the command queue: original_source reads input data and
// pager confirmation straight off stdin regardless of which file is
// currently feeding commands (an init script can run unattended up to the
// first "input", which then genuinely blocks on the terminal).
func WithDataInput(r io.Reader) Option {
	return func(d *Driver) {
		br := bufio.NewReader(r)
		d.Ctx.In = br
		d.pager.In = br
	}
}

// WithScreenLines enables the "-- more --" pager every n lines of "list"/
// "help" output. n <= 0 disables it (the default).
func WithScreenLines(n int) Option {
	return func(d *Driver) { d.pager.ScreenLines = n }
}

// WithBufSectors resizes the read/write sector buffers (the bufsiz
// pseudo-variable) at startup.
func WithBufSectors(n int) Option {
	return func(d *Driver) {
		if n <= 0 {
			return
		}
		d.Ctx.BufSectors = n
		d.Ctx.ReadBuf = make([]byte, d.Ctx.SectorSize*n)
		d.Ctx.WriteBuf = make([]byte, d.Ctx.SectorSize*n)
	}
}

// WithDrive opens drive n before the first prompt is printed, the same as
// typing "drive n" as the first command. A failure to open is logged
// through Logf but does not abort startup.
func WithDrive(n int) Option {
	return func(d *Driver) { d.initDrive = n }
}

// WithExitOnError latches the "exitonerror" behavior on from startup.
func WithExitOnError(on bool) Option {
	return func(d *Driver) { d.Ctx.ExitOnError = on }
}

// WithLogf sets the driver's and dispatch layer's diagnostic log sink
// (e.g. -trace output), independent of the session's own Out stream.
func WithLogf(logf func(format string, args ...interface{})) Option {
	return func(d *Driver) {
		d.Ctx.Logf = logf
		d.Ctx.Vars.Logf = logf
	}
}

// WithInitLabel overrides the label run automatically before the first
// prompt ("init" by default). An empty name disables autorun entirely.
func WithInitLabel(name string) Option {
	return func(d *Driver) { d.initLabel = name }
}

// Close releases the driver's output writers (if closable) and any open
// device session.
func (d *Driver) Close() error {
	var err error
	for i := len(d.closers) - 1; i >= 0; i-- {
		if cerr := d.closers[i].Close(); err == nil {
			err = cerr
		}
	}
	if cerr := d.Ctx.Session.Close(); err == nil {
		err = cerr
	}
	return err
}
