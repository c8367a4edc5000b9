// Command discdiag is an interactive raw-sector disc diagnostic: it opens
// a block device and drives it through a small embedded scripting
// language (lexer, expression evaluator, variables, stored program,
// control flow, and a seeded pattern generator/comparator) entered at a
// "Diag> " prompt.
package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/samiam95124/diskdiagnostic/internal/device"
	"github.com/samiam95124/diskdiagnostic/internal/driver"
	"github.com/samiam95124/diskdiagnostic/internal/logio"
	"github.com/samiam95124/diskdiagnostic/internal/program"
)

var (
	initFile    string
	driveArg    int
	trace       bool
	exitOnError bool
	bufSectors  int
	screenLines int
)

var rootCmd = &cobra.Command{
	Use:   "discdiag",
	Short: "Interactive raw-sector disc diagnostic",
	Long: `discdiag drives a block device through raw sector reads and writes,
scripted from a "Diag> " prompt with variables, stored program lines,
control flow (while/repeat/for/select), and a seeded fill/compare pattern
generator.

On startup discdiag.ini (if present) is loaded into the stored program the
same way "load" does; a program label named "init" is then called
automatically before the first prompt, if one was loaded.`,
	RunE: run,
}

func init() {
	rootCmd.Flags().IntVarP(&driveArg, "drive", "d", -1, "open drive N before the first prompt (-1 = none)")
	rootCmd.Flags().StringVar(&initFile, "init", "discdiag.ini", "program file to load before the first prompt (empty to disable)")
	rootCmd.Flags().BoolVar(&trace, "trace", false, "log each dispatched command to stderr")
	rootCmd.Flags().BoolVar(&exitOnError, "exitonerror", false, "stop the diagnostic on the first command error")
	rootCmd.Flags().IntVar(&bufSectors, "bufsecs", 2, "sectors per read/write buffer")
	rootCmd.Flags().IntVar(&screenLines, "screenlines", 0, "pause \"list\"/\"help\" output every N lines (0 = never)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	device.RegisterBreakHandler()

	var log logio.Logger
	log.SetOutput(os.Stderr)

	// A single shared reader over stdin: the command queue and "input"
	// both ultimately read from this one buffer, so neither steals bytes
	// the other was about to read (original_source's single readline(stdin,
	// ...) call, reused for both command entry and "input").
	stdin := bufio.NewReader(os.Stdin)

	opts := []driver.Option{
		driver.WithOutput(os.Stdout),
		driver.WithDataInput(stdin),
		driver.WithBufSectors(bufSectors),
		driver.WithExitOnError(exitOnError),
		driver.WithScreenLines(screenLines),
	}
	if driveArg >= 0 {
		opts = append(opts, driver.WithDrive(driveArg))
	}
	if trace {
		opts = append(opts, driver.WithLogf(log.Leveledf("TRACE")))
	} else {
		opts = append(opts, driver.WithLogf(log.Leveledf("ERROR")))
	}

	opts = append(opts, driver.WithInput(stdin))

	d := driver.New(opts...)
	if initFile != "" {
		if f, err := os.Open(initFile); err == nil {
			if lerr := d.Ctx.Program.Load(f, func(raw string) (*program.Line, error) {
				_, line, perr := program.ParseEnteredLine(raw, d.Ctx.Vars)
				return line, perr
			}); lerr != nil {
				log.Errorf("loading %s: %v", initFile, lerr)
			}
			f.Close()
		} else if !os.IsNotExist(err) {
			log.Errorf("reading %s: %v", initFile, err)
		}
	}
	code := d.Run()
	d.Close()
	if log.ExitCode() != 0 {
		code = log.ExitCode()
	}
	os.Exit(code)
	return nil
}
