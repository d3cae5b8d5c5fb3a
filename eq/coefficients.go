// SPDX-License-Identifier: EPL-2.0
package eq

import (
	"math"
	"math/cmplx"
)

// Coefficients of a second order section, normalised so that a0 == 1.
//
//	H(z) = (B0 + B1 z^-1 + B2 z^-2) / (1 + A1 z^-1 + A2 z^-2)
type Coefficients struct {
	B0, B1, B2 float64
	A1, A2     float64
}

// Unity passes the signal through unchanged.
var Unity = Coefficients{B0: 1}

// nyquistGuard keeps design frequencies strictly below Nyquist.
const nyquistGuard = 0.49

func normalize(b0, b1, b2, a0, a1, a2 float64) Coefficients {
	inv := 1 / a0
	return Coefficients{
		B0: b0 * inv,
		B1: b1 * inv,
		B2: b2 * inv,
		A1: a1 * inv,
		A2: a2 * inv,
	}
}

// DBToGain converts decibels to a linear amplitude factor.
func DBToGain(db float64) float64 {
	return math.Pow(10, db/20)
}

// GainToDB is the inverse of DBToGain. Non-positive gains map to -Inf.
func GainToDB(gain float64) float64 {
	if gain <= 0 {
		return math.Inf(-1)
	}
	return 20 * math.Log10(gain)
}

// omega returns the normalised angular frequency for freq, clamped to
// (0, nyquistGuard*sampleRate].
func omega(sampleRate, freq float64) float64 {
	freq = min(max(freq, 1), nyquistGuard*sampleRate)
	return 2 * math.Pi * freq / sampleRate
}

// LowShelf boosts or cuts everything below freq by gain (linear).
func LowShelf(sampleRate, freq, q, gain float64) Coefficients {
	a := math.Sqrt(max(gain, 0))
	w0 := omega(sampleRate, freq)
	cosw := math.Cos(w0)
	beta := math.Sin(w0) * math.Sqrt(a) / q
	am1, ap1 := a-1, a+1

	return normalize(
		a*(ap1-am1*cosw+beta),
		a*2*(am1-ap1*cosw),
		a*(ap1-am1*cosw-beta),
		ap1+am1*cosw+beta,
		-2*(am1+ap1*cosw),
		ap1+am1*cosw-beta,
	)
}

// HighShelf boosts or cuts everything above freq by gain (linear).
func HighShelf(sampleRate, freq, q, gain float64) Coefficients {
	a := math.Sqrt(max(gain, 0))
	w0 := omega(sampleRate, freq)
	cosw := math.Cos(w0)
	beta := math.Sin(w0) * math.Sqrt(a) / q
	am1, ap1 := a-1, a+1

	return normalize(
		a*(ap1+am1*cosw+beta),
		a*-2*(am1+ap1*cosw),
		a*(ap1+am1*cosw-beta),
		ap1-am1*cosw+beta,
		2*(am1-ap1*cosw),
		ap1-am1*cosw-beta,
	)
}

// Peaking boosts or cuts a bell around freq by gain (linear).
func Peaking(sampleRate, freq, q, gain float64) Coefficients {
	a := math.Sqrt(max(gain, 0))
	w0 := omega(sampleRate, freq)
	alpha := math.Sin(w0) / (2 * q)
	c2 := -2 * math.Cos(w0)

	return normalize(
		1+alpha*a,
		c2,
		1-alpha*a,
		1+alpha/a,
		c2,
		1-alpha/a,
	)
}

// Response evaluates H at freq Hz.
func (c Coefficients) Response(freq, sampleRate float64) complex128 {
	w := 2 * math.Pi * freq / sampleRate
	z1 := cmplx.Exp(complex(0, -w))
	z2 := z1 * z1

	num := complex(c.B0, 0) + complex(c.B1, 0)*z1 + complex(c.B2, 0)*z2
	den := 1 + complex(c.A1, 0)*z1 + complex(c.A2, 0)*z2
	return num / den
}

// MagnitudeDB is |H(freq)| in decibels.
func (c Coefficients) MagnitudeDB(freq, sampleRate float64) float64 {
	return GainToDB(cmplx.Abs(c.Response(freq, sampleRate)))
}
