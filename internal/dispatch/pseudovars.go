package dispatch

import (
	"github.com/samiam95124/diskdiagnostic/internal/lexer"
	"github.com/samiam95124/diskdiagnostic/internal/vars"
)

// NewPseudoVars builds the five read-only pseudo-variables (spec §4.4),
// wired to ctx's device session, pattern engine and buffer sizes. Call
// this before constructing ctx.Vars (vars.NewStore(dispatch.NewPseudoVars(ctx)))
// — the returned closures capture ctx by pointer, so its other fields may
// still be unset at this point as long as they're set before first use.
func NewPseudoVars(ctx *Context) map[string]vars.PseudoVar {
	return map[string]vars.PseudoVar{
		"drvsiz": func(_ *lexer.Cursor) (int64, error) {
			return ctx.Session.SizeSectors(), nil
		},
		"rand": func(_ *lexer.Cursor) (int64, error) {
			return ctx.Engine.Rand64(), nil
		},
		"lbarnd": func(_ *lexer.Cursor) (int64, error) {
			v := ctx.Engine.Rand64()
			if v < 0 {
				v = -v
			}
			if ctx.Session != nil {
				if size := ctx.Session.SizeSectors(); size > 0 {
					return v % size, nil
				}
			}
			return v, nil
		},
		"secsiz": func(_ *lexer.Cursor) (int64, error) {
			return int64(ctx.SectorSize), nil
		},
		"bufsiz": func(_ *lexer.Cursor) (int64, error) {
			return int64(ctx.BufSectors), nil
		},
	}
}
