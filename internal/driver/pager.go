package driver

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/samiam95124/diskdiagnostic/internal/device"
)

// Pager implements the screen-pause behavior "list" and "help" use: after
// every ScreenLines lines of output, print a prompt and wait for one line
// of input before continuing. Typing "q" at the prompt stops output early,
// same as a pending SIGINT break. ScreenLines <= 0 disables pausing.
type Pager struct {
	ScreenLines int
	Out         io.Writer
	In          *bufio.Reader

	lines int
}

// Pause is wired up as a dispatch.Context.Pager. It returns false (stop)
// on a pending break or when the user types "q" at the pause prompt.
func (p *Pager) Pause() bool {
	if device.TakeBreak() {
		return false
	}
	if p.ScreenLines <= 0 || p.In == nil {
		return true
	}
	p.lines++
	if p.lines < p.ScreenLines {
		return true
	}
	p.lines = 0
	fmt.Fprint(p.Out, "-- more --")
	line, err := p.In.ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	return !strings.HasPrefix(strings.TrimSpace(strings.ToLower(line)), "q")
}
