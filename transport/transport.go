// SPDX-License-Identifier: EPL-2.0
package transport

import (
	"math"
	"sync/atomic"
)

const (
	MinGain  = 0.0
	MaxGain  = 1.0
	MinSpeed = 0.1
	MaxSpeed = 4.0
)

// noSeek marks an empty seek slot. It is a NaN payload no caller can store
// because SetPosition ignores NaN.
const noSeek = 0x7ff8_dead_beef_0001

// Transport is the play state of one deck. Every field is an atomic float
// or flag so the control path and the audio path never share a lock.
//
// The control path writes gain, speed, play state and seek requests. The
// audio path takes seek requests, publishes the play position and stops
// the transport at the end of the track.
type Transport struct {
	gain     atomic.Uint64
	speed    atomic.Uint64
	length   atomic.Uint64 // seconds
	position atomic.Uint64 // seconds
	seek     atomic.Uint64 // seconds, or noSeek
	playing  atomic.Bool
}

// New returns a stopped transport at unity gain and speed with no track.
func New() *Transport {
	t := &Transport{}
	t.gain.Store(math.Float64bits(1))
	t.speed.Store(math.Float64bits(1))
	t.seek.Store(noSeek)
	return t
}

func load(v *atomic.Uint64) float64     { return math.Float64frombits(v.Load()) }
func store(v *atomic.Uint64, f float64) { v.Store(math.Float64bits(f)) }
func clamp(v, lo, hi float64) float64   { return min(max(v, lo), hi) }

// SetGain clamps g to [0, 1]. NaN is ignored.
func (t *Transport) SetGain(g float64) {
	if math.IsNaN(g) {
		return
	}
	store(&t.gain, clamp(g, MinGain, MaxGain))
}

func (t *Transport) Gain() float64 { return load(&t.gain) }

// SetSpeed clamps r to [0.1, 4]. Speed scales tempo and pitch together.
// NaN is ignored.
func (t *Transport) SetSpeed(r float64) {
	if math.IsNaN(r) {
		return
	}
	store(&t.speed, clamp(r, MinSpeed, MaxSpeed))
}

func (t *Transport) Speed() float64 { return load(&t.speed) }

// SetPosition requests a jump to sec seconds, clamped to [0, Length()].
// With no track loaded only the lower bound applies. The reported position
// moves immediately; the audio path applies the jump on its next block.
func (t *Transport) SetPosition(sec float64) {
	if math.IsNaN(sec) {
		return
	}
	sec = max(sec, 0)
	if length := t.Length(); length > 0 {
		sec = min(sec, length)
	}
	store(&t.position, sec)
	store(&t.seek, sec)
}

// SetPositionRelative seeks to f of the track length, f clamped to [0, 1].
// It does nothing while no track is loaded.
func (t *Transport) SetPositionRelative(f float64) {
	if math.IsNaN(f) {
		return
	}
	length := t.Length()
	if length <= 0 {
		return
	}
	t.SetPosition(length * clamp(f, 0, 1))
}

// Position is the last published play position in seconds.
func (t *Transport) Position() float64 { return load(&t.position) }

// Length of the loaded track in seconds, 0 when nothing is loaded.
func (t *Transport) Length() float64 { return load(&t.length) }

// PositionRelative is Position()/Length() in [0, 1], or 0 with no track.
func (t *Transport) PositionRelative() float64 {
	length := t.Length()
	if length <= 0 {
		return 0
	}
	return clamp(t.Position()/length, 0, 1)
}

func (t *Transport) Start()          { t.playing.Store(true) }
func (t *Transport) Stop()           { t.playing.Store(false) }
func (t *Transport) IsPlaying() bool { return t.playing.Load() }

// Reset prepares the transport for a newly loaded track of length seconds:
// stopped, at 0, with any pending seek dropped. Gain and speed are kept.
func (t *Transport) Reset(length float64) {
	t.playing.Store(false)
	t.seek.Store(noSeek)
	store(&t.length, max(length, 0))
	store(&t.position, 0)
}

// TakeSeek hands the pending seek request, if any, to the audio path.
func (t *Transport) TakeSeek() (float64, bool) {
	bits := t.seek.Swap(noSeek)
	if bits == noSeek {
		return 0, false
	}
	return math.Float64frombits(bits), true
}

// SeekPending reports whether a seek request is waiting for the audio path.
func (t *Transport) SeekPending() bool { return t.seek.Load() != noSeek }

// Publish records the play position reached by the audio path.
func (t *Transport) Publish(sec float64) {
	store(&t.position, sec)
}
