package program

import (
	"fmt"
	"strconv"

	"github.com/samiam95124/diskdiagnostic/internal/eval"
	"github.com/samiam95124/diskdiagnostic/internal/lexer"
)

// ParseEnteredLine parses one line of raw text the way enterline does: an
// optional leading line number (a getval-style value, so a variable name
// works too), then an optional "label" or "label(params):" call prefix,
// with everything after that becoming the stored Body. pos is 0 when no
// line number was given, meaning "append at the end" (spec §4.4).
//
// A line with a leading number is never itself executable as a typed
// command — entering it always stores the rest as a program line, which
// is why this lives beside program.Store rather than in the dispatcher.
func ParseEnteredLine(raw string, res eval.Resolver) (pos int, line *Line, err error) {
	cursor := lexer.NewCursor(raw)
	cursor.SkipSpaces()
	if b := cursor.Peek(); b >= '0' && b <= '9' {
		w := cursor.Word()
		n, perr := strconv.ParseUint(w, 0, 64)
		if perr != nil {
			return 0, nil, fmt.Errorf("program: bad line number %q", w)
		}
		pos = int(n)
	} else if isAlphaStart(b) {
		// a bare variable name is also accepted as the line number, per
		// getval's variable-or-literal handling.
		save := cursor.Pos()
		w := cursor.PeekWord()
		if v, ok, _ := res.Resolve(cursor, w); ok {
			cursor.SetPos(save)
			cursor.Word()
			pos = int(v)
		}
	}

	cursor.SkipSpaces()
	label, params, err := parseLabel(cursor)
	if err != nil {
		return 0, nil, err
	}

	return pos, &Line{Label: label, Params: params, Body: cursor.Rest()}, nil
}

func isAlphaStart(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z'
}

// parseLabel recognizes "name:" or "name(p1 p2):" at the cursor, leaving
// the cursor unmoved and returning ("", nil, nil) if no label is present.
func parseLabel(cursor *lexer.Cursor) (label string, params []string, err error) {
	save := cursor.Pos()
	if b := cursor.Peek(); !isAlphaStart(b) {
		return "", nil, nil
	}
	name := cursor.Word()

	switch cursor.Peek() {
	case ':':
		cursor.Next()
		return name, nil, nil

	case '(':
		cursor.Next()
		cursor.SkipSpaces()
		for cursor.Peek() != ')' && cursor.Peek() != 0 && cursor.Peek() != ':' {
			p := cursor.Word()
			if p == "" {
				return "", nil, fmt.Errorf("program: bad parameter specification")
			}
			params = append(params, p)
			cursor.SkipSpaces()
		}
		if cursor.Peek() != ')' {
			return "", nil, fmt.Errorf("program: ')' expected")
		}
		cursor.Next()
		cursor.SkipSpaces()
		if cursor.Peek() != ':' {
			return "", nil, fmt.Errorf("program: ':' expected")
		}
		cursor.Next()
		return name, params, nil

	default:
		cursor.SetPos(save)
		return "", nil, nil
	}
}
