package pattern

// CompareMode selects how comp reports mismatches (spec §4.9).
type CompareMode int

const (
	CompareAll  CompareMode = iota // print every mismatch
	CompareOne                     // print only the first mismatch
	CompareFail                    // stop at the first mismatch
)

// ParseCompareMode parses the compmode command's argument.
func ParseCompareMode(s string) (CompareMode, bool) {
	switch s {
	case "all":
		return CompareAll, true
	case "one":
		return CompareOne, true
	case "fail":
		return CompareFail, true
	}
	return 0, false
}

// MismatchReport is called for each mismatch line actually printed (not
// folded into a repeat count).
type MismatchReport func(addr int64, got, want byte)

// FoldReport is called when a run of folded identical mismatches ends,
// reporting how many additional occurrences were folded into the last
// printed line ("N further occurrences" in the original).
type FoldReport func(n int)

// CompareResult summarizes one Compare call.
type CompareResult struct {
	Mismatches int  // total mismatching bytes seen
	Failed     bool // CompareFail stopped the comparison early
	Broke      bool // takeBreak reported an interrupt
}

// Compare walks read, comparing each byte against want(i), and folds
// consecutive identical (got,want) mismatches into one report call plus a
// trailing count — exactly printcomp's first/dataset/comp_a/comp_b/repcnt
// bookkeeping. takeBreak, if non-nil, is polled after every comparison
// (mismatch or not); a true result stops the comparison immediately,
// matching the original's per-byte chkbrk() poll.
//
// offsets restricts which byte offsets within each sectorSize-sized sector
// of read are actually compared (e.g. KindLBA's first 4 bytes only); nil
// compares every byte of read in order, ignoring sectorSize.
func Compare(read []byte, want func(i int) byte, mode CompareMode, sectorSize int, offsets []int, report MismatchReport, fold FoldReport, takeBreak func() bool) CompareResult {
	var (
		res          CompareResult
		first        = true
		dataset      bool
		compA, compB byte
		repcnt       int
	)
	flushFold := func() {
		if repcnt > 0 {
			if fold != nil {
				fold(repcnt)
			}
			repcnt = 0
		}
	}
	// check compares one byte and reports whether the walk should stop
	// (a CompareFail miscompare or a break request).
	check := func(i int) bool {
		nb := read[i]
		ob := want(i)
		if nb != ob {
			if first || mode == CompareAll {
				if dataset && nb == compA && ob == compB {
					repcnt++
				} else {
					flushFold()
					if report != nil {
						report(int64(i), nb, ob)
					}
				}
			}
			first = false
			res.Mismatches++
			if mode == CompareFail {
				res.Failed = true
				return true
			}
			compA, compB = nb, ob
			dataset = true
		}
		if takeBreak != nil && takeBreak() {
			res.Broke = true
			return true
		}
		return false
	}

	if offsets == nil {
		for i := 0; i < len(read); i++ {
			if check(i) {
				return res
			}
		}
		flushFold()
		return res
	}
	for base := 0; base < len(read); base += sectorSize {
		for _, o := range offsets {
			i := base + o
			if i >= len(read) {
				continue
			}
			if check(i) {
				return res
			}
		}
	}
	flushFold()
	return res
}
