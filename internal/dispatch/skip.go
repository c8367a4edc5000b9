package dispatch

import (
	"errors"

	"github.com/samiam95124/diskdiagnostic/internal/lexer"
)

// ErrSkipExhausted is returned when SkipTo runs past the end of the
// current interpreter frame's stored program without finding any target,
// mirroring skipcmd's "result_error" when introot->curlin runs dry.
var ErrSkipExhausted = errors.New("dispatch: ran out of program while skipping")

// nestKind indexes the four independent nesting counters skipcmd tracks.
type nestKind int

const (
	nestWhile nestKind = iota
	nestRepeat
	nestFor
	nestSelect
	numNestKinds
)

// SkipTo scans forward from cursor, across ";"-separated commands and
// (via advance) subsequent stored lines, for the first word in targets
// that appears at a nesting depth where all four of while/repeat/for/
// select are balanced. advance is called when cursor runs out of text; it
// should hand back a fresh cursor over the next stored line, or (false)
// when the current interpreter frame has no further lines — skipcmd never
// crosses into an enclosing frame.
//
// Ported 1:1 from skipcmd's single-counter-per-kind bookkeeping, including
// the clamp-at-zero-on-underflow behavior for a stray closer.
func SkipTo(cursor *lexer.Cursor, advance func() (*lexer.Cursor, bool), targets ...string) (found string, at *lexer.Cursor, err error) {
	var nest [numNestKinds]int
	cur := cursor
	skipToSemiOrEnd(cur)

	for {
		if cur.Peek() == 0 {
			next, ok := advance()
			if !ok {
				return "", nil, ErrSkipExhausted
			}
			cur = next
			continue
		}

		cur.SkipSpaces()
		if cur.Peek() == 0 {
			continue
		}

		w := cur.Word()
		switch w {
		case "while":
			nest[nestWhile]++
		case "wend":
			if nest[nestWhile] > 0 {
				nest[nestWhile]--
			}
		case "repeat":
			nest[nestRepeat]++
		case "until":
			if nest[nestRepeat] > 0 {
				nest[nestRepeat]--
			}
		case "for":
			nest[nestFor]++
		case "fend":
			if nest[nestFor] > 0 {
				nest[nestFor]--
			}
		case "select":
			nest[nestSelect]++
		case "send":
			if nest[nestSelect] > 0 {
				nest[nestSelect]--
			}
		}

		if nest == ([numNestKinds]int{}) {
			for _, t := range targets {
				if w == t {
					return w, cur, nil
				}
			}
		}

		skipToSemiOrEnd(cur)
	}
}

func skipToSemiOrEnd(cur *lexer.Cursor) {
	for cur.Peek() != 0 && cur.Peek() != ';' {
		cur.Next()
	}
	if cur.Peek() == ';' {
		cur.Next()
	}
}
