// SPDX-License-Identifier: EPL-2.0
package eq

import (
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

// Equalizer is a three band EQ over the first two channels of a block.
// Channel 0 runs through the left chain, channel 1 through the right chain
// and any further channels pass through untouched.
//
// Gains are changed from the control path; Process only loads the current
// Snapshot and never blocks.
type Equalizer struct {
	mu         sync.Mutex // serialises control path writers
	gainsDB    [NumBands]float64
	sampleRate float64

	snap        atomic.Pointer[Snapshot]
	left, right Chain

	log *logrus.Entry
}

// NewEqualizer returns a flat EQ. A nil log uses the standard logger.
func NewEqualizer(log *logrus.Entry) *Equalizer {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Equalizer{log: log}
}

// SetBandGainDb clamps db to [MinGainDB, MaxGainDB] and republishes the
// coefficients. Before Prepare the gain is only stored.
func (e *Equalizer) SetBandGainDb(band Band, db float64) {
	if !band.Valid() {
		e.log.WithFields(logrus.Fields{
			"function": "SetBandGainDb",
			"band":     int(band),
		}).Warn("Ignoring unknown band")
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.gainsDB[band] = ClampGainDB(db)
	e.publishLocked()
}

// BandGainDb returns the stored, clamped gain of band.
func (e *Equalizer) BandGainDb(band Band) float64 {
	if !band.Valid() {
		return 0
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.gainsDB[band]
}

// GainsDB returns all three stored gains.
func (e *Equalizer) GainsDB() [NumBands]float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.gainsDB
}

// Snapshot returns the coefficients currently used by Process, nil before
// Prepare.
func (e *Equalizer) Snapshot() *Snapshot {
	return e.snap.Load()
}

func (e *Equalizer) publishLocked() {
	if e.sampleRate <= 0 {
		return
	}

	snap := Design(e.sampleRate, e.gainsDB)
	e.snap.Store(snap)

	e.log.WithFields(logrus.Fields{
		"function":    "publish",
		"sample_rate": e.sampleRate,
		"low_db":      snap.GainsDB[Low],
		"mid_db":      snap.GainsDB[Mid],
		"high_db":     snap.GainsDB[High],
	}).Debug("EQ coefficients updated")
}

// Prepare zeroes both delay lines and designs coefficients for sampleRate.
// It must not run concurrently with Process.
func (e *Equalizer) Prepare(sampleRate, blockSize int) {
	e.left.Reset()
	e.right.Reset()

	e.mu.Lock()
	defer e.mu.Unlock()

	e.sampleRate = float64(sampleRate)
	e.publishLocked()
}

// Process filters block[c][start:start+length] in place for c < 2.
func (e *Equalizer) Process(block [][]float32, start, length int) {
	snap := e.snap.Load()
	if snap == nil || length <= 0 || start < 0 {
		return
	}

	if len(block) >= 1 {
		if s, ok := span(block[0], start, length); ok {
			e.left.Process(s, snap)
		}
	}
	if len(block) >= 2 {
		if s, ok := span(block[1], start, length); ok {
			e.right.Process(s, snap)
		}
	}
}

// Release keeps coefficients and filter state; Prepare resets them.
func (e *Equalizer) Release() {}

func span(ch []float32, start, length int) ([]float32, bool) {
	if start >= len(ch) {
		return nil, false
	}
	return ch[start:min(start+length, len(ch))], true
}
