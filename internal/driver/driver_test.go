package driver_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/samiam95124/diskdiagnostic/internal/driver"
	"github.com/samiam95124/diskdiagnostic/internal/program"
	"github.com/stretchr/testify/require"
)

func Test_Driver_dispatches_immediate_commands(t *testing.T) {
	var out bytes.Buffer
	d := driver.New(driver.WithOutput(&out))
	d.Queue.Push(strings.NewReader("set x 5\nprintn x\nexit\n"))

	code := d.Run()
	require.Equal(t, 0, code)
	require.Contains(t, out.String(), "5 ")
	require.Contains(t, out.String(), "Diag> ")
}

func Test_Driver_routes_numbered_line_to_program_store(t *testing.T) {
	var out bytes.Buffer
	d := driver.New(driver.WithOutput(&out))
	d.Queue.Push(strings.NewReader("10 printn 99\nexit\n"))

	code := d.Run()
	require.Equal(t, 0, code)
	require.NotContains(t, out.String(), "99")
	// 10 is past the end of the empty store, so the line is appended at 1.
	line := d.Ctx.Program.At(1)
	require.NotNil(t, line)
	require.Equal(t, "printn 99", line.Body)
}

func Test_Driver_runs_init_label_before_first_prompt(t *testing.T) {
	var out bytes.Buffer
	d := driver.New(driver.WithOutput(&out))
	d.Ctx.Program.Insert(0, &program.Line{Label: "init", Body: " printn 42"})
	d.Queue.Push(strings.NewReader("exit\n"))

	code := d.Run()
	require.Equal(t, 0, code)
	require.Contains(t, out.String(), "42 ")
}

func Test_Driver_exitonerror_stops_session_with_nonzero_code(t *testing.T) {
	var out bytes.Buffer
	d := driver.New(driver.WithOutput(&out), driver.WithExitOnError(true))
	d.Queue.Push(strings.NewReader("bogus\nprintn 1\n"))

	code := d.Run()
	require.Equal(t, 1, code)
	require.NotContains(t, out.String(), "1 ")
}

func Test_Driver_error_without_exitonerror_continues(t *testing.T) {
	var out bytes.Buffer
	d := driver.New(driver.WithOutput(&out))
	d.Queue.Push(strings.NewReader("bogus\nprintn 1\nexit\n"))

	code := d.Run()
	require.Equal(t, 0, code)
	require.Contains(t, out.String(), "1 ")
}

func Test_Driver_whole_line_comment_is_ignored(t *testing.T) {
	var out bytes.Buffer
	d := driver.New(driver.WithOutput(&out))
	d.Queue.Push(strings.NewReader("! this is a comment printn 1\nprintn 2\nexit\n"))

	code := d.Run()
	require.Equal(t, 0, code)
	require.NotContains(t, out.String(), "1 ")
	require.Contains(t, out.String(), "2 ")
}

func Test_Driver_eof_ends_session(t *testing.T) {
	var out bytes.Buffer
	d := driver.New(driver.WithOutput(&out))
	d.Queue.Push(strings.NewReader("set x 1\n"))

	code := d.Run()
	require.Equal(t, 0, code)
}
