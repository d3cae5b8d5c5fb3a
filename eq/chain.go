// SPDX-License-Identifier: EPL-2.0
package eq

// section is the delay line of one biquad in transposed direct form II.
type section struct {
	z1, z2 float64
}

func (s *section) process(samples []float32, c *Coefficients) {
	z1, z2 := s.z1, s.z2
	for i, v := range samples {
		x := float64(v)
		y := c.B0*x + z1
		z1 = c.B1*x - c.A1*y + z2
		z2 = c.B2*x - c.A2*y
		samples[i] = float32(y)
	}
	s.z1, s.z2 = z1, z2
}

func (s *section) reset() { s.z1, s.z2 = 0, 0 }

// Chain runs low, mid and high in series over a single channel.
// Each channel owns its Chain; state is never shared between channels.
type Chain struct {
	sections [NumBands]section
}

// Process filters samples in place with the coefficients of snap.
func (c *Chain) Process(samples []float32, snap *Snapshot) {
	for i := range c.sections {
		c.sections[i].process(samples, &snap.Bands[i])
	}
}

func (c *Chain) Reset() {
	for i := range c.sections {
		c.sections[i].reset()
	}
}
