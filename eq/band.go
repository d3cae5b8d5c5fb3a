// SPDX-License-Identifier: EPL-2.0
package eq

import (
	"fmt"
	"math"
)

// Band selects one of the three filters.
type Band int

const (
	Low Band = iota
	Mid
	High

	NumBands = 3
)

const (
	LowFreq  = 200.0  // low shelf corner, Hz
	MidFreq  = 1000.0 // peak centre, Hz
	HighFreq = 6000.0 // high shelf corner, Hz

	// Q is shared by all three bands.
	Q = 0.707

	MinGainDB = -24.0
	MaxGainDB = 24.0
)

var bandNames = [NumBands]string{"low", "mid", "high"}

func (b Band) String() string {
	if b.Valid() {
		return bandNames[b]
	}
	return fmt.Sprintf("Band(%d)", int(b))
}

func (b Band) Valid() bool { return b >= Low && b <= High }

// Freq is the corner or centre frequency of the band.
func (b Band) Freq() float64 {
	switch b {
	case Low:
		return LowFreq
	case Mid:
		return MidFreq
	case High:
		return HighFreq
	}
	return 0
}

// ParseBand accepts the names printed by Band.String.
func ParseBand(s string) (Band, error) {
	for i, name := range bandNames {
		if s == name {
			return Band(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownBand, s)
}

// ClampGainDB limits db to [MinGainDB, MaxGainDB]. NaN becomes 0.
func ClampGainDB(db float64) float64 {
	if math.IsNaN(db) {
		return 0
	}
	return min(max(db, MinGainDB), MaxGainDB)
}

// Snapshot is an immutable set of band coefficients. It is published to the
// audio path as a whole and never modified afterwards.
type Snapshot struct {
	SampleRate float64
	GainsDB    [NumBands]float64
	Bands      [NumBands]Coefficients
}

// Design builds the low shelf, peak and high shelf for gainsDB (clamped).
func Design(sampleRate float64, gainsDB [NumBands]float64) *Snapshot {
	s := &Snapshot{SampleRate: sampleRate}
	for i := range gainsDB {
		s.GainsDB[i] = ClampGainDB(gainsDB[i])
	}

	s.Bands[Low] = LowShelf(sampleRate, LowFreq, Q, DBToGain(s.GainsDB[Low]))
	s.Bands[Mid] = Peaking(sampleRate, MidFreq, Q, DBToGain(s.GainsDB[Mid]))
	s.Bands[High] = HighShelf(sampleRate, HighFreq, Q, DBToGain(s.GainsDB[High]))
	return s
}

// Response is the combined response of the three bands at freq Hz.
func (s *Snapshot) Response(freq float64) complex128 {
	h := complex(1, 0)
	for _, c := range s.Bands {
		h *= c.Response(freq, s.SampleRate)
	}
	return h
}

// MagnitudeDB is the combined gain at freq Hz in decibels.
func (s *Snapshot) MagnitudeDB(freq float64) float64 {
	var db float64
	for _, c := range s.Bands {
		db += c.MagnitudeDB(freq, s.SampleRate)
	}
	return db
}
