package driver

import (
	"fmt"
	"strings"

	"github.com/samiam95124/diskdiagnostic/internal/device"
	"github.com/samiam95124/diskdiagnostic/internal/dispatch"
	"github.com/samiam95124/diskdiagnostic/internal/program"
)

// Run reads and dispatches lines until "exit" is seen or the command
// queue runs dry, then returns the process exit code: 1 if the most
// recently dispatched command failed and never succeeded since, 0
// otherwise (spec §4.11).
func (d *Driver) Run() int {
	if d.initDrive >= 0 {
		if err := d.Ctx.Session.Open(d.initDrive); err != nil && d.Ctx.Logf != nil {
			d.Ctx.Logf("*** Error: %v\n", err)
		}
	}

	if d.initLabel != "" {
		if _, ok := d.Ctx.Program.FindLabel(d.initLabel); ok {
			d.runTopLevel(d.initLabel)
		}
	}

	for {
		d.printStats()
		fmt.Fprint(d.out, d.prompt)
		d.out.Flush()

		line, _, err := d.Queue.ReadLine()
		if err != nil {
			return d.exitCode()
		}

		if exit, code := d.dispatchLine(line); exit {
			return code
		}
	}
}

// dispatchLine routes one line of input the way the original interactive
// loop does: a leading "!" is a whole-line comment, a leading line number
// or label stores the line in the program instead of running it, and
// everything else is dispatched immediately. Reports whether the session
// should end and, if so, its exit code.
func (d *Driver) dispatchLine(raw string) (exit bool, code int) {
	trimmed := strings.TrimLeft(raw, " \t")
	if strings.HasPrefix(trimmed, "!") {
		return false, 0
	}

	pos, line, err := program.ParseEnteredLine(raw, d.Ctx.Vars)
	if err != nil {
		fmt.Fprintf(d.out, "*** Error: %v\n", err)
		return false, 0
	}
	if pos != 0 || line.Label != "" {
		d.Ctx.Program.Insert(pos, line)
		return false, 0
	}

	return d.runTopLevel(line.Body)
}

// runTopLevel dispatches body through to completion via dispatch.Run,
// resetting the I/O statistics window first, and reports whether the
// session should end.
func (d *Driver) runTopLevel(body string) (exit bool, code int) {
	d.Ctx.Session.ResetStats()
	d.tick = device.NowTicks()

	switch st := dispatch.Run(d.Ctx, body); st.Kind {
	case dispatch.StatusExit:
		return true, d.exitCode()
	case dispatch.StatusError:
		d.Ctx.LastFailed = true
		fmt.Fprintf(d.out, "*** Error: %v\n", st.Err)
		if d.Ctx.ExitOnError {
			return true, 1
		}
		return false, 0
	default:
		d.Ctx.LastFailed = false
		return false, 0
	}
}

func (d *Driver) exitCode() int {
	if d.Ctx.LastFailed {
		return 1
	}
	return 0
}

// printStats writes the per-prompt "Time/IOW/IOR/BW/BR" line summarizing
// the I/O done by the line just dispatched (original_source's
// printscpersec, driven by iopread/iopwrite/bcread/bcwrite and the elapsed
// time since marktime was last called).
func (d *Driver) printStats() {
	st := d.Ctx.Session.Stats()
	elapsed := device.ElapsedSeconds(d.tick)
	iow, ior, bw, br := 0.0, 0.0, 0.0, 0.0
	if elapsed > 0 {
		iow = float64(st.WriteOps) / elapsed
		ior = float64(st.ReadOps) / elapsed
		bw = float64(st.WriteBytes) / elapsed
		br = float64(st.ReadBytes) / elapsed
	}
	fmt.Fprintf(d.out, "Time: %.3f IOW: %.1f/s IOR: %.1f/s BW: %.0f B/s BR: %.0f B/s\n",
		elapsed, iow, ior, bw, br)
}
