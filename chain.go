package vmcmc

// Chain is an ordered, monotonically growing sequence of Samples indexed
// by generation. A chain's first element is the (possibly randomized)
// starting sample, always marked accepted.
type Chain struct {
	samples []*Sample
}

// NewChain returns an empty Chain.
func NewChain() *Chain {
	return &Chain{}
}

// Append adds s as the newest sample.
func (c *Chain) Append(s *Sample) {
	c.samples = append(c.samples, s)
}

// Len returns the number of samples currently in the chain.
func (c *Chain) Len() int {
	return len(c.samples)
}

// GetLength is a named alias for Len, mirroring the original implementation's
// accessor name.
func (c *Chain) GetLength() int {
	return c.Len()
}

// At returns the i-th sample (0-indexed).
func (c *Chain) At(i int) *Sample {
	return c.samples[i]
}

// Last returns the newest sample, or nil if the chain is empty.
func (c *Chain) Last() *Sample {
	if len(c.samples) == 0 {
		return nil
	}
	return c.samples[len(c.samples)-1]
}

// Samples returns the chain's backing slice directly. Callers must not
// mutate its length; use Append/Remove/Clear.
func (c *Chain) Samples() []*Sample {
	return c.samples
}

// Clear discards every sample.
func (c *Chain) Clear() {
	c.samples = nil
}

// Remove trims the last n samples off the chain. Panics if n exceeds the
// chain's length.
func (c *Chain) Remove(n int) {
	if n < 0 || n > len(c.samples) {
		panic("vmcmc: Remove count out of range")
	}
	c.samples = c.samples[:len(c.samples)-n]
}
