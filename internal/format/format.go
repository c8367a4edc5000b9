// Package format implements discdiag's print/printn command body: a
// format string and the remaining command line are walked in lockstep,
// each "%" consuming one more expression from the line. Ported from
// original_source's command_printn.
package format

import (
	"fmt"
	"io"

	"github.com/samiam95124/diskdiagnostic/internal/eval"
	"github.com/samiam95124/diskdiagnostic/internal/lexer"
)

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

// Printf interleaves format with expressions read from cursor: literal
// format text is copied through verbatim, and each "%[width[.prec]]{d,x,o}"
// specifier (unknown conversion falls back to plain decimal) consumes the
// next expression from cursor and prints it in that base. If format
// contains no more "%" once an expression has been read, the expression
// prints as "%d " (the no-format default). format has already had its
// quotes and backslash escapes resolved by lexer.Cursor.QuotedString; pass
// "" when the command had no quoted format string at all.
func Printf(w io.Writer, cursor *lexer.Cursor, format string, res eval.Resolver) error {
	fi := 0
	for {
		for fi < len(format) && format[fi] != '%' {
			io.WriteString(w, string(format[fi]))
			fi++
		}

		cursor.SkipSpaces()
		var v int64
		haveVal := false
		if cursor.Peek() != 0 && cursor.Peek() != ';' {
			var err error
			v, err = eval.Eval(cursor, res)
			if err != nil {
				return err
			}
			haveVal = true
		}

		if fi < len(format) && format[fi] == '%' {
			fi++ // skip '%'
			width := 1
			if fi < len(format) && isDigit(format[fi]) {
				width = 0
				for fi < len(format) && isDigit(format[fi]) {
					width = width*10 + int(format[fi]-'0')
					fi++
				}
			}
			prec := 1
			if fi < len(format) && format[fi] == '.' {
				fi++
				if fi < len(format) && isDigit(format[fi]) {
					prec = 0
					for fi < len(format) && isDigit(format[fi]) {
						prec = prec*10 + int(format[fi]-'0')
						fi++
					}
				}
			}
			var verb byte
			if fi < len(format) {
				verb = format[fi]
			}
			switch verb {
			case 'd':
				fmt.Fprintf(w, "%*.*d", width, prec, v)
				fi++
			case 'x':
				fmt.Fprintf(w, "%*.*x", width, prec, uint64(v))
				fi++
			case 'o':
				fmt.Fprintf(w, "%*.*o", width, prec, uint64(v))
				fi++
			default:
				fmt.Fprintf(w, "%d", v)
			}
		} else if haveVal {
			fmt.Fprintf(w, "%d ", v)
		}

		if cursor.Peek() == 0 || cursor.Peek() == ';' {
			return nil
		}
	}
}
