// Package pattern implements discdiag's deterministic fill/compare
// generators and the 32-bit PRNG they share with the rand/lbarnd
// pseudo-variables, ported bit for bit from original_source's
// rand32/rand64 and the pattn/comp command bodies.
package pattern

// Engine holds the shared PRNG state (original_source's global `seed`,
// seeded to 1 at process start).
type Engine struct {
	seed uint32
}

// NewEngine returns an Engine with the PRNG's initial seed (1, matching
// original_source's `unsigned long seed = 1`).
func NewEngine() *Engine { return &Engine{seed: 1} }

// Reseed sets the shared PRNG seed directly — the `srand` command. Every
// rand32 draw also replaces the seed with the value it returns.
func (e *Engine) Reseed(seed uint32) { e.seed = seed }

// Seed returns the current PRNG seed (the rand pseudo-variable reads this
// indirectly via Rand64, not the raw seed).
func (e *Engine) Seed() uint32 { return e.seed }

// rand32 returns the next 32-bit value from the multiplicative generator:
// multiply the seed by 33614, fold the 64-bit product's high and low
// 32-bit halves (low half first halved), and wrap the sign bit back into
// 31-bit range.
func (e *Engine) rand32() uint32 {
	tmp := uint64(33614) * uint64(e.seed)
	q := uint32(tmp) >> 1    // low half, halved
	p := uint32(tmp >> 32)   // high half
	mlcg := p + q
	if mlcg&0x80000000 != 0 {
		mlcg &= 0x7fffffff
		mlcg++
	}
	e.seed = mlcg
	return mlcg
}

// Rand64 returns the next 64-bit value, built from two consecutive rand32
// samples: the high 31 bits of the first, then the full 32 bits of the
// second.
func (e *Engine) Rand64() int64 {
	hi := int64(e.rand32()) & 0x7fffffff
	lo := int64(e.rand32())
	return (hi << 32) | lo
}

// withPatternSeed saves the shared seed, resets it to 42 for the duration
// of fn, and restores it afterward. Every pattn/comp invocation in
// original_source does this so that write-then-compare round trips always
// see the same "rand" sequence regardless of how many times srand or
// rand() has been called for other purposes in between.
func (e *Engine) withPatternSeed(fn func()) {
	saved := e.seed
	e.seed = 42
	fn()
	e.seed = saved
}

// WithPatternSeed exports withPatternSeed for callers outside the package
// (the comp command) that need the same save-42-restore bracket around a
// Generator-driven Compare, not just a Fill.
func (e *Engine) WithPatternSeed(fn func()) { e.withPatternSeed(fn) }
