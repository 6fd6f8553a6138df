package rand

// Engine is a 32-bit Mersenne Twister (MT19937) pseudo-random engine. It
// implements golang.org/x/exp/rand.Source (Uint64 and Seed(uint64)) so it
// can back any gonum distuv/distmv distribution, and its output stream is bit-for-bit the textbook MT19937
// sequence for a given 32-bit seed, which is what the reproducibility
// properties of the sampler depend on (identical seed + single-threaded
// run => identical chain contents).
type Engine struct {
	state [n]uint32
	index int
}

const (
	n           = 624
	m           = 397
	matrixA     = 0x9908b0df
	upperMask   = 0x80000000
	lowerMask   = 0x7fffffff
	temperingB  = 0x9d2c5680
	temperingC  = 0xefc60000
	initialMult = 1812433253
)

// NewEngine returns an MT19937 engine seeded with seed (truncated to 32
// bits).
func NewEngine(seed uint64) *Engine {
	e := &Engine{}
	e.Seed32(uint32(seed))
	return e
}

// Seed32 (re-)seeds the engine using the standard MT19937 initialization.
func (e *Engine) Seed32(seed uint32) {
	e.state[0] = seed
	for i := 1; i < n; i++ {
		prev := e.state[i-1]
		e.state[i] = initialMult*(prev^(prev>>30)) + uint32(i)
	}
	e.index = n
}

// Seed implements golang.org/x/exp/rand.Source.
func (e *Engine) Seed(seed uint64) {
	e.Seed32(uint32(seed))
}

func (e *Engine) generate() {
	for i := 0; i < n; i++ {
		y := (e.state[i] & upperMask) | (e.state[(i+1)%n] & lowerMask)
		next := e.state[(i+m)%n] ^ (y >> 1)
		if y&1 != 0 {
			next ^= matrixA
		}
		e.state[i] = next
	}
	e.index = 0
}

// Uint32 returns the next 32-bit output of the generator.
func (e *Engine) Uint32() uint32 {
	if e.index >= n {
		e.generate()
	}
	y := e.state[e.index]
	e.index++

	y ^= y >> 11
	y ^= (y << 7) & temperingB
	y ^= (y << 15) & temperingC
	y ^= y >> 18
	return y
}

// Uint64 implements golang.org/x/exp/rand.Source by packing two
// consecutive 32-bit outputs into one 64-bit word.
func (e *Engine) Uint64() uint64 {
	hi := uint64(e.Uint32())
	lo := uint64(e.Uint32())
	return hi<<32 | lo
}

// Int63 returns a non-negative 63-bit value (the top 63 bits of Uint64).
func (e *Engine) Int63() int64 {
	return int64(e.Uint64() >> 1)
}
