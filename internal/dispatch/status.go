// Package dispatch implements discdiag's command dispatcher: verb lookup
// against stored-program labels first, then the built-in command table,
// plus the control-flow primitives (loop/while/repeat/for/select/if/go/end)
// and the skipcmd forward-scan they share. Ported from original_source's
// exec/cmdtbl and the command_* handlers for each built-in verb.
package dispatch

// StatusKind classifies the result of dispatching one command, mirroring
// original_source's `result` enum.
type StatusKind int

const (
	StatusOK       StatusKind = iota // command completed normally
	StatusExit                       // "exit" was seen; halt the diagnostic
	StatusError                      // command failed; abort the current line/batch
	StatusBreak                      // no built-in command returns it; Run treats it like StatusOK
	StatusContinue                   // no built-in command returns it; Run treats it like StatusOK
	StatusStop                       // SIGINT observed; stop the current operation
	StatusRestart                    // jump to a new line/cursor position (go, label call)
)

// Status is the outcome of dispatching one command.
type Status struct {
	Kind StatusKind
	Err  error // set when Kind == StatusError
}

// OK is the zero Status.
var OK = Status{Kind: StatusOK}

// Errorf builds an error Status.
func Errorf(err error) Status { return Status{Kind: StatusError, Err: err} }

func (s Status) String() string {
	switch s.Kind {
	case StatusOK:
		return "ok"
	case StatusExit:
		return "exit"
	case StatusError:
		return "error"
	case StatusBreak:
		return "break"
	case StatusContinue:
		return "continue"
	case StatusStop:
		return "stop"
	case StatusRestart:
		return "restart"
	default:
		return "unknown"
	}
}
