package pattern

import "fmt"

// Kind names a buffer fill/compare pattern (spec §4.9).
type Kind string

const (
	KindCnt   Kind = "cnt"   // byte incrementing count
	KindDWCnt Kind = "dwcnt" // 32-bit incrementing count, big-endian
	KindVal   Kind = "val"   // fixed 32-bit value, big-endian, repeated
	KindRand  Kind = "rand"  // PRNG byte stream, reseeded to 42 each sector
	KindLBA   Kind = "lba"   // incrementing 32-bit LBA in each sector's first dword; rest of the sector untouched
	KindBuffs Kind = "buffs" // compare-only: read buffer against write buffer
)

// DefaultKind is "cnt", the pattn/comp default when no pattern name is given.
const DefaultKind = KindCnt

// Generator returns a function computing the expected byte at buffer
// offset i, for every kind except KindBuffs (which compares two live
// buffers directly rather than generating a value — callers handle it
// without Engine's help). The returned function must be called with i
// running from 0 upward in order; KindRand's per-sector reseed depends on
// it.
func (e *Engine) Generator(kind Kind, value int64, sectorSize int) (func(i int) byte, error) {
	switch kind {
	case KindCnt:
		return func(i int) byte { return byte(i) }, nil

	case KindDWCnt:
		return func(i int) byte {
			l := uint32(i / 4)
			shift := uint(24 - 8*(i%4))
			return byte(l >> shift)
		}, nil

	case KindVal:
		v := uint32(value)
		return func(i int) byte {
			shift := uint(24 - 8*(i%4))
			return byte(v >> shift)
		}, nil

	case KindLBA:
		// Only ever called at the first 4 bytes of a sector — see
		// ActiveOffsets — so off is always 0..3.
		base := uint32(value)
		return func(i int) byte {
			sector := uint32(i / sectorSize)
			off := i % sectorSize
			shift := uint(24 - 8*off)
			return byte((base + sector) >> shift)
		}, nil

	case KindRand:
		lastSector := -1
		return func(i int) byte {
			sector := i / sectorSize
			if sector != lastSector {
				e.seed = 42
				lastSector = sector
			}
			return byte(e.Rand64())
		}, nil

	case KindBuffs:
		return nil, fmt.Errorf("pattern: %q is compare-only", kind)
	}
	return nil, fmt.Errorf("pattern: bad pattern name: %s", kind)
}

// ActiveOffsets returns the byte offsets within one sector that kind
// actually writes or compares, or nil for kinds that touch every byte of
// every sector. KindLBA writes only its 32-bit LBA dword at the start of
// each sector (command_pattn's lba branch, original_source:2815-2825) and
// leaves the other 508 bytes exactly as they were, so Fill and Compare
// must skip them rather than overwrite or flag them.
func ActiveOffsets(kind Kind) []int {
	if kind == KindLBA {
		return []int{0, 1, 2, 3}
	}
	return nil
}

// Fill writes the pattern into buf, resetting the shared PRNG seed to 42
// for the duration (spec §4.9). sectorSize must match the device's sector
// size for KindLBA/KindRand to align on sector boundaries. For KindLBA,
// only the first 4 bytes of each sector are written; the remainder of buf
// is left untouched, matching the original's pre-fill-then-lba idiom.
func (e *Engine) Fill(buf []byte, kind Kind, value int64, sectorSize int) error {
	if kind == KindBuffs {
		return fmt.Errorf("pattern: %q is compare-only", kind)
	}
	var err error
	e.withPatternSeed(func() {
		gen, gerr := e.Generator(kind, value, sectorSize)
		if gerr != nil {
			err = gerr
			return
		}
		offsets := ActiveOffsets(kind)
		if offsets == nil {
			for i := range buf {
				buf[i] = gen(i)
			}
			return
		}
		for base := 0; base < len(buf); base += sectorSize {
			for _, o := range offsets {
				if i := base + o; i < len(buf) {
					buf[i] = gen(i)
				}
			}
		}
	})
	return err
}
