// SPDX-License-Identifier: EPL-2.0
package deck

import (
	"fmt"
	"io"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ik5/djdeck/audio"
	"github.com/ik5/djdeck/eq"
	"github.com/ik5/djdeck/tempo"
	"github.com/ik5/djdeck/transport"
)

// Deck plays one track: resampler for speed, a per block gain ramp and the
// three band equaliser, in that order.
//
// Load, the transport setters and SetBandGainDb belong to the control
// path and may be called from any goroutine. Process and ReadSamples
// belong to the audio path; they take no locks and do not allocate.
type Deck struct {
	cfg Config
	log *logrus.Entry

	tr *transport.Transport
	eq *eq.Equalizer

	loadMu sync.Mutex // serialises Load
	track  atomic.Pointer[track]
	bpm    atomic.Uint64
	rate   atomic.Int64 // device sample rate

	// Owned by the audio path.
	active   *track
	lastGain float64
	finished atomic.Bool
	planar   [][]float32
}

var (
	_ audio.Processor = (*Deck)(nil)
	_ audio.Source    = (*Deck)(nil)
)

// New returns an empty deck. A nil log uses the standard logger.
func New(cfg Config, log *logrus.Entry) (*Deck, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}

	d := &Deck{
		cfg:      cfg,
		log:      log,
		tr:       transport.New(),
		eq:       eq.NewEqualizer(log.WithField("component", "eq")),
		lastGain: 1,
		planar:   make([][]float32, cfg.Channels),
	}
	for c := range d.planar {
		d.planar[c] = make([]float32, cfg.BlockSize)
	}
	d.rate.Store(int64(cfg.SampleRate))
	d.eq.Prepare(cfg.SampleRate, cfg.BlockSize)
	return d, nil
}

// Load decodes src completely, estimates its tempo from the first
// AnalysisWindow and makes it the playing track. The transport is reset
// to a stopped state at 0; gain, speed and EQ keep their values.
//
// src is only borrowed. On failure the BPM reads 0 and the previous track,
// if any, stays loaded.
func (d *Deck) Load(src audio.Source, name string) error {
	if src == nil {
		d.bpm.Store(0)
		return ErrNoSource
	}

	buf, err := audio.ReadBuffer(src, 0)
	if err != nil {
		d.bpm.Store(0)
		return fmt.Errorf("%w: %s: %w", ErrNoSource, name, err)
	}
	return d.LoadBuffer(buf, name)
}

// LoadBuffer is Load for a track that is already in memory. The deck keeps
// buf and never modifies it.
func (d *Deck) LoadBuffer(buf *audio.Buffer, name string) error {
	if err := buf.Validate(); err != nil {
		d.bpm.Store(0)
		return fmt.Errorf("%w: %s: %w", ErrNoSource, name, err)
	}

	d.loadMu.Lock()
	defer d.loadMu.Unlock()

	started := time.Now()
	window := buf.Head(d.cfg.analysisFrames(buf.SampleRate))
	bpm := tempo.EstimateBPM(window, d.cfg.MinBPM, d.cfg.MaxBPM)

	t := newTrack(name, buf, bpm, int(d.rate.Load()), d.cfg.BlockSize)
	d.track.Store(t)
	d.bpm.Store(math.Float64bits(bpm))
	d.tr.Reset(t.seconds())

	d.log.WithFields(logrus.Fields{
		"function":    "Load",
		"track":       name,
		"sample_rate": buf.SampleRate,
		"channels":    buf.NumChannels(),
		"frames":      buf.Frames(),
		"bpm":         bpm,
		"analysed_in": time.Since(started),
	}).Info("Track loaded")
	return nil
}

// Loaded reports whether a track is available for playback.
func (d *Deck) Loaded() bool { return d.track.Load() != nil }

// TrackName is the name given to the last successful load.
func (d *Deck) TrackName() string {
	if t := d.track.Load(); t != nil {
		return t.name
	}
	return ""
}

// BPM is the tempo of the loaded track, 0 when undetermined.
func (d *Deck) BPM() float64 { return math.Float64frombits(d.bpm.Load()) }

func (d *Deck) SetGain(g float64)                   { d.tr.SetGain(g) }
func (d *Deck) SetSpeed(r float64)                  { d.tr.SetSpeed(r) }
func (d *Deck) SetPosition(sec float64)             { d.tr.SetPosition(sec) }
func (d *Deck) SetPositionRelative(f float64)       { d.tr.SetPositionRelative(f) }
func (d *Deck) Start()                              { d.tr.Start() }
func (d *Deck) Stop()                               { d.tr.Stop() }
func (d *Deck) IsPlaying() bool                     { return d.tr.IsPlaying() }
func (d *Deck) Gain() float64                       { return d.tr.Gain() }
func (d *Deck) Speed() float64                      { return d.tr.Speed() }
func (d *Deck) Position() float64                   { return d.tr.Position() }
func (d *Deck) PositionRelative() float64           { return d.tr.PositionRelative() }
func (d *Deck) Length() float64                     { return d.tr.Length() }
func (d *Deck) SetBandGainDb(b eq.Band, db float64) { d.eq.SetBandGainDb(b, db) }
func (d *Deck) BandGainDb(b eq.Band) float64        { return d.eq.BandGainDb(b) }

// Equalizer exposes the deck's EQ, mainly for reporting.
func (d *Deck) Equalizer() *eq.Equalizer { return d.eq }

// Finished reports whether playback ran off the end of the track. A seek
// or a new load clears it.
func (d *Deck) Finished() bool { return d.finished.Load() }

// Prepare configures the deck for the device. It must not run concurrently
// with Process.
func (d *Deck) Prepare(sampleRate, blockSize int) {
	if sampleRate <= 0 || blockSize <= 0 {
		return
	}
	d.rate.Store(int64(sampleRate))
	d.eq.Prepare(sampleRate, blockSize)

	if t := d.track.Load(); t != nil {
		t.retarget(sampleRate)
		t.resize(blockSize)
	}
	d.lastGain = d.tr.Gain()

	d.log.WithFields(logrus.Fields{
		"function":    "Prepare",
		"sample_rate": sampleRate,
		"block_size":  blockSize,
	}).Debug("Deck prepared")
}

// Release drops nothing; the loaded track stays playable after a later
// Prepare.
func (d *Deck) Release() {
	d.eq.Release()
}

// Process renders block[c][start:start+length] for every channel.
func (d *Deck) Process(block [][]float32, start, length int) {
	d.render(block, start, length)
}

// render is Process reporting how many frames came from the track before
// it ended. Stopped or empty decks render silence and report length.
func (d *Deck) render(block [][]float32, start, length int) int {
	if length <= 0 || start < 0 {
		return 0
	}
	for _, ch := range block {
		if start+length > len(ch) {
			return 0
		}
	}

	t := d.track.Load()
	if t != d.active {
		d.active = t
		d.finished.Store(false)
	}
	if t == nil {
		silence(block, start, length)
		return length
	}

	if sec, ok := d.tr.TakeSeek(); ok {
		t.seek(sec)
		d.finished.Store(false)
	}

	if !d.tr.IsPlaying() {
		silence(block, start, length)
		d.lastGain = d.tr.Gain()
		return length
	}

	t.res.SetSpeed(d.tr.Speed())
	rendered := d.fill(t, block, start, length)

	target := d.tr.Gain()
	applyGainRamp(block, start, length, d.lastGain, target)
	d.lastGain = target

	d.eq.Process(block, start, length)

	pos := t.position()
	if rendered < length {
		d.tr.Stop()
		d.finished.Store(true)
		pos = t.seconds()
	}
	if d.track.Load() == t {
		d.tr.Publish(pos)
	}
	return rendered
}

// fill pulls resampled frames from t into the block and returns how many
// frames it got. Frames after the end of the track are silent.
func (d *Deck) fill(t *track, block [][]float32, start, length int) int {
	tc := t.channels()
	chunk := len(t.scratch) / tc

	out := 0
	for out < length {
		want := min(length-out, chunk)
		n, err := t.res.ReadSamples(t.scratch[:want*tc])
		frames := n / tc
		deinterleave(block, start+out, t.scratch[:frames*tc], tc)
		out += frames

		// The track is in memory, so any error is the end of it.
		if err != nil || frames < want {
			break
		}
	}

	if out < length {
		silence(block, start+out, length-out)
	}
	return out
}

// deinterleave copies frames from src into block. Output channel c takes
// track channel c; a mono track feeds every output channel, and output
// channels the track does not have stay silent.
func deinterleave(block [][]float32, at int, src []float32, tc int) {
	frames := len(src) / tc
	for c, ch := range block {
		dst := ch[at : at+frames]
		switch {
		case c < tc:
			for f := range dst {
				dst[f] = src[f*tc+c]
			}
		case tc == 1:
			copy(dst, src[:frames])
		default:
			clear(dst)
		}
	}
}

func silence(block [][]float32, start, length int) {
	for _, ch := range block {
		clear(ch[start : start+length])
	}
}

// applyGainRamp scales the block from g0 at its first frame towards g1,
// reaching g1 on the next block.
func applyGainRamp(block [][]float32, start, length int, g0, g1 float64) {
	if g0 == g1 {
		if g1 == 1 {
			return
		}
		g := float32(g1)
		for _, ch := range block {
			for i := start; i < start+length; i++ {
				ch[i] *= g
			}
		}
		return
	}

	step := (g1 - g0) / float64(length)
	for _, ch := range block {
		g := g0
		for i := start; i < start+length; i++ {
			ch[i] *= float32(g)
			g += step
		}
	}
}

func (d *Deck) SampleRate() int { return int(d.rate.Load()) }
func (d *Deck) Channels() int   { return len(d.planar) }
func (d *Deck) BufSize() int    { return d.cfg.BlockSize * len(d.planar) }

// Close stops playback. The deck can be started again.
func (d *Deck) Close() error {
	d.tr.Stop()
	return nil
}

// ReadSamples renders interleaved frames for Channels() output channels.
// When playback runs off the end of the track it returns the frames up to
// the end and io.EOF, and keeps returning io.EOF until the next seek or
// load.
func (d *Deck) ReadSamples(dst []float32) (int, error) {
	channels := len(d.planar)
	if len(dst)%channels != 0 {
		return 0, audio.ErrInvalidDstSize
	}

	written := 0
	for written < len(dst) {
		if d.finished.Load() && d.active == d.track.Load() && !d.tr.SeekPending() {
			return written, io.EOF
		}

		frames := min((len(dst)-written)/channels, len(d.planar[0]))
		rendered := d.render(d.planar, 0, frames)
		interleave(dst[written:], d.planar, rendered)
		written += rendered * channels
		if rendered < frames {
			return written, io.EOF
		}
	}
	return written, nil
}

func interleave(dst []float32, planar [][]float32, frames int) {
	channels := len(planar)
	for c, ch := range planar {
		for f := range frames {
			dst[f*channels+c] = ch[f]
		}
	}
}
