// SPDX-License-Identifier: EPL-2.0

package deck

import (
	"errors"
	"io"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ik5/djdeck/audio"
	"github.com/ik5/djdeck/eq"
	"github.com/ik5/djdeck/internal/audiotest"
)

func quietLog() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

func newDeck(t testing.TB, cfg Config) *Deck {
	t.Helper()

	d, err := New(cfg, quietLog())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return d
}

func constantBuffer(rate, channels, frames int, v float32) *audio.Buffer {
	b := audio.NewBuffer(rate, channels, frames)
	for _, ch := range b.Channels {
		for i := range ch {
			ch[i] = v
		}
	}
	return b
}

// rampBuffer holds frame/frames in every channel.
func rampBuffer(rate, channels, frames int) *audio.Buffer {
	b := audio.NewBuffer(rate, channels, frames)
	for _, ch := range b.Channels {
		for i := range ch {
			ch[i] = float32(i) / float32(frames)
		}
	}
	return b
}

func planar(channels, frames int) [][]float32 {
	block := make([][]float32, channels)
	for c := range block {
		block[c] = make([]float32, frames)
	}
	return block
}

// playAll reads the deck until io.EOF and returns the interleaved output.
func playAll(t testing.TB, d *Deck) []float32 {
	t.Helper()

	var out []float32
	buf := make([]float32, 1000*d.Channels())
	for range 10000 {
		n, err := d.ReadSamples(buf)
		out = append(out, buf[:n]...)
		if err == io.EOF {
			return out
		}
		if err != nil {
			t.Fatalf("ReadSamples() error = %v", err)
		}
	}
	t.Fatal("deck never reached the end of the track")
	return nil
}

type failingSource struct{}

func (failingSource) SampleRate() int { return 44100 }
func (failingSource) Channels() int   { return 2 }
func (failingSource) BufSize() int    { return 4096 }
func (failingSource) Close() error    { return nil }
func (failingSource) ReadSamples([]float32) (int, error) {
	return 0, errors.New("corrupt stream")
}

func TestNew_InvalidConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"zero rate", func(c *Config) { c.SampleRate = 0 }},
		{"zero block", func(c *Config) { c.BlockSize = 0 }},
		{"no channels", func(c *Config) { c.Channels = 0 }},
		{"no analysis", func(c *Config) { c.AnalysisWindow = 0 }},
		{"inverted bpm", func(c *Config) { c.MinBPM, c.MaxBPM = 200, 70 }},
		{"NaN bpm", func(c *Config) { c.MinBPM = math.NaN() }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := DefaultConfig()
			tt.modify(&cfg)
			if _, err := New(cfg, nil); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("New() error = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestDeck_Empty(t *testing.T) {
	t.Parallel()

	d := newDeck(t, DefaultConfig())
	if d.Loaded() || d.BPM() != 0 || d.PositionRelative() != 0 {
		t.Error("new deck should be empty")
	}

	d.Start()
	block := planar(2, 256)
	block[0][3] = 1
	d.Process(block, 0, 256)
	if block[0][3] != 0 {
		t.Error("empty deck should render silence")
	}

	buf := make([]float32, 512)
	if n, err := d.ReadSamples(buf); n != 512 || err != nil {
		t.Errorf("ReadSamples() = %d, %v; want 512, nil", n, err)
	}
}

func TestDeck_LoadEstimatesTempo(t *testing.T) {
	t.Parallel()

	const rate = 44100
	d := newDeck(t, DefaultConfig())

	err := d.Load(audiotest.NewPulseSource(rate, 2, 20*rate, 0.5, 0.1), "pulse")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if bpm := d.BPM(); bpm < 118 || bpm > 122 {
		t.Errorf("BPM() = %v, want about 120", bpm)
	}
	if d.TrackName() != "pulse" {
		t.Errorf("TrackName() = %q", d.TrackName())
	}
	if d.Length() != 20 || d.Position() != 0 || d.IsPlaying() {
		t.Errorf("after load length %v position %v playing %v; want 20, 0, false",
			d.Length(), d.Position(), d.IsPlaying())
	}
}

func TestDeck_AnalysisWindow(t *testing.T) {
	t.Parallel()

	const rate = 22050
	cfg := DefaultConfig()
	cfg.AnalysisWindow = 10 * time.Second

	// 120 bpm for 12 s, then 150 bpm.
	src := audiotest.NewMockSource(rate, 1, 40*rate, func(sample, _ int) float32 {
		if sample < 12*rate {
			return audiotest.Pulse(sample, rate, 0.5, 0.1)
		}
		return audiotest.Pulse(sample, rate, 0.4, 0.1)
	})

	d := newDeck(t, cfg)
	if err := d.Load(src, "two tempos"); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if bpm := d.BPM(); bpm < 115 || bpm > 125 {
		t.Errorf("BPM() = %v, want the 120 bpm intro only", bpm)
	}
	// The whole track is still playable.
	if d.Length() != 40 {
		t.Errorf("Length() = %v, want 40", d.Length())
	}
}

func TestDeck_LoadFailures(t *testing.T) {
	t.Parallel()

	d := newDeck(t, DefaultConfig())
	if err := d.LoadBuffer(constantBuffer(48000, 2, 48000, 0.5), "first"); err != nil {
		t.Fatalf("LoadBuffer() error = %v", err)
	}

	tests := []struct {
		name string
		load func() error
	}{
		{"nil source", func() error { return d.Load(nil, "nil") }},
		{"read error", func() error { return d.Load(failingSource{}, "broken") }},
		{"empty source", func() error { return d.Load(audiotest.NewSilentSource(44100, 2, 0), "empty") }},
		{"invalid buffer", func() error { return d.LoadBuffer(&audio.Buffer{SampleRate: 44100}, "invalid") }},
	}

	for _, tt := range tests {
		if err := tt.load(); !errors.Is(err, ErrNoSource) {
			t.Errorf("%s: error = %v, want ErrNoSource", tt.name, err)
		}
		if d.BPM() != 0 {
			t.Errorf("%s: BPM() = %v, want 0", tt.name, d.BPM())
		}
		if d.TrackName() != "first" || d.Length() != 1 {
			t.Errorf("%s: previous track was replaced", tt.name)
		}
	}
}

func TestDeck_KnobsPersistAcrossLoads(t *testing.T) {
	t.Parallel()

	d := newDeck(t, DefaultConfig())
	d.SetGain(0.4)
	d.SetSpeed(1.5)
	d.SetBandGainDb(eq.Mid, -9)

	for _, name := range []string{"a", "b"} {
		if err := d.LoadBuffer(constantBuffer(48000, 2, 4800, 0.1), name); err != nil {
			t.Fatalf("LoadBuffer(%s) error = %v", name, err)
		}
	}

	if d.Gain() != 0.4 || d.Speed() != 1.5 || d.BandGainDb(eq.Mid) != -9 {
		t.Errorf("gain %v speed %v mid %v after reload", d.Gain(), d.Speed(), d.BandGainDb(eq.Mid))
	}
}

func TestDeck_StoppedIsSilent(t *testing.T) {
	t.Parallel()

	d := newDeck(t, DefaultConfig())
	if err := d.LoadBuffer(constantBuffer(48000, 2, 48000, 0.5), "c"); err != nil {
		t.Fatal(err)
	}

	block := planar(2, 512)
	block[1][10] = 0.7
	d.Process(block, 0, 512)
	for c := range block {
		for i, v := range block[c] {
			if v != 0 {
				t.Fatalf("channel %d sample %d = %v while stopped", c, i, v)
			}
		}
	}
	if d.Position() != 0 {
		t.Errorf("Position() = %v, stopped deck moved", d.Position())
	}
}

func TestDeck_PlaysTrack(t *testing.T) {
	t.Parallel()

	const frames = 10000
	d := newDeck(t, DefaultConfig())
	if err := d.LoadBuffer(constantBuffer(48000, 2, frames, 0.5), "c"); err != nil {
		t.Fatal(err)
	}
	d.Start()

	out := playAll(t, d)
	if got := len(out) / 2; got != frames-1 {
		t.Errorf("rendered %d frames, want %d", got, frames-1)
	}
	for i, v := range out {
		if v != 0.5 {
			t.Fatalf("sample %d = %v, want 0.5", i, v)
		}
	}

	if d.IsPlaying() {
		t.Error("transport should stop at the end of the track")
	}
	if !d.Finished() {
		t.Error("Finished() should be true at the end")
	}
	if d.PositionRelative() != 1 {
		t.Errorf("PositionRelative() = %v at the end, want 1", d.PositionRelative())
	}

	buf := make([]float32, 64)
	if n, err := d.ReadSamples(buf); n != 0 || err != io.EOF {
		t.Errorf("ReadSamples() after the end = %d, %v; want 0, EOF", n, err)
	}
}

func TestDeck_RateAndSpeed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		trackRate int
		speed     float64
		want      int
	}{
		{"same rate", 48000, 1, 47999},
		{"double speed", 48000, 2, 24000},
		{"half speed", 48000, 0.5, 95998},
		{"44.1k track", 44100, 1, 52244},
		{"clamped speed", 48000, 10, 12000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			d := newDeck(t, DefaultConfig())
			if err := d.LoadBuffer(constantBuffer(tt.trackRate, 2, 48000, 0.25), tt.name); err != nil {
				t.Fatal(err)
			}
			d.SetSpeed(tt.speed)
			d.Start()

			got := len(playAll(t, d)) / 2
			if got < tt.want-3 || got > tt.want+3 {
				t.Errorf("rendered %d frames, want about %d", got, tt.want)
			}
		})
	}
}

func TestDeck_ChannelMapping(t *testing.T) {
	t.Parallel()

	t.Run("mono track to stereo", func(t *testing.T) {
		t.Parallel()

		d := newDeck(t, DefaultConfig())
		if err := d.LoadBuffer(rampBuffer(48000, 1, 4800), "mono"); err != nil {
			t.Fatal(err)
		}
		d.Start()

		block := planar(2, 256)
		d.Process(block, 0, 256)
		for i := range block[0] {
			if block[0][i] != block[1][i] {
				t.Fatalf("frame %d: L %v R %v", i, block[0][i], block[1][i])
			}
		}
		if block[0][100] == 0 {
			t.Error("mono track rendered silence")
		}
	})

	t.Run("stereo track to three channels", func(t *testing.T) {
		t.Parallel()

		b := constantBuffer(48000, 2, 4800, 0.5)
		for i := range b.Channels[1] {
			b.Channels[1][i] = -0.5
		}

		d := newDeck(t, DefaultConfig())
		if err := d.LoadBuffer(b, "stereo"); err != nil {
			t.Fatal(err)
		}
		d.Start()

		block := planar(3, 128)
		block[2][5] = 0.9
		d.Process(block, 0, 128)
		if block[0][5] != 0.5 || block[1][5] != -0.5 || block[2][5] != 0 {
			t.Errorf("frame 5 = %v %v %v, want 0.5 -0.5 0", block[0][5], block[1][5], block[2][5])
		}
	})

	t.Run("stereo track to mono output", func(t *testing.T) {
		t.Parallel()

		cfg := DefaultConfig()
		cfg.Channels = 1

		b := constantBuffer(48000, 2, 4800, 0.5)
		for i := range b.Channels[1] {
			b.Channels[1][i] = -0.5
		}

		d := newDeck(t, cfg)
		if err := d.LoadBuffer(b, "stereo"); err != nil {
			t.Fatal(err)
		}
		d.Start()

		buf := make([]float32, 64)
		if _, err := d.ReadSamples(buf); err != nil {
			t.Fatal(err)
		}
		if buf[10] != 0.5 {
			t.Errorf("mono output = %v, want the left channel", buf[10])
		}
	})
}

func TestDeck_GainRamp(t *testing.T) {
	t.Parallel()

	d := newDeck(t, DefaultConfig())
	if err := d.LoadBuffer(constantBuffer(48000, 2, 48000, 0.5), "c"); err != nil {
		t.Fatal(err)
	}
	d.Start()

	const n = 512
	block := planar(2, n)
	d.Process(block, 0, n)
	if block[0][n-1] != 0.5 {
		t.Fatalf("unity gain sample = %v", block[0][n-1])
	}

	d.SetGain(0.5)
	d.Process(block, 0, n)
	if block[0][0] != 0.5 {
		t.Errorf("ramp starts at %v, want the previous gain", block[0][0])
	}
	for i := 1; i < n; i++ {
		if block[0][i] >= block[0][i-1] {
			t.Fatalf("ramp not decreasing at %d: %v then %v", i, block[0][i-1], block[0][i])
		}
	}
	wantLast := float32(0.5 * (1 - 0.5*float64(n-1)/n))
	if math.Abs(float64(block[0][n-1]-wantLast)) > 1e-6 {
		t.Errorf("ramp ends at %v, want %v", block[0][n-1], wantLast)
	}

	d.Process(block, 0, n)
	for i, v := range block[1] {
		if v != 0.25 {
			t.Fatalf("settled sample %d = %v, want 0.25", i, v)
		}
	}

	d.SetGain(0)
	d.Process(block, 0, n)
	d.Process(block, 0, n)
	for i, v := range block[0] {
		if v != 0 {
			t.Fatalf("muted sample %d = %v", i, v)
		}
	}
}

func TestDeck_Seek(t *testing.T) {
	t.Parallel()

	const rate, frames = 48000, 4 * 48000
	d := newDeck(t, DefaultConfig())
	if err := d.LoadBuffer(rampBuffer(rate, 2, frames), "ramp"); err != nil {
		t.Fatal(err)
	}

	d.SetPosition(1)
	if d.Position() != 1 {
		t.Errorf("Position() = %v right after SetPosition(1)", d.Position())
	}

	d.Start()
	block := planar(2, 480)
	d.Process(block, 0, 480)

	if want := float32(rate) / frames; math.Abs(float64(block[0][0]-want)) > 1e-6 {
		t.Errorf("first sample after seek = %v, want %v", block[0][0], want)
	}
	if got := d.Position(); math.Abs(got-1.01) > 1e-9 {
		t.Errorf("Position() = %v, want 1.01", got)
	}

	d.SetPositionRelative(0.5)
	if got := d.PositionRelative(); got != 0.5 {
		t.Errorf("PositionRelative() = %v, want 0.5", got)
	}
	d.Process(block, 0, 480)
	if math.Abs(float64(block[1][0]-0.5)) > 1e-6 {
		t.Errorf("first sample after relative seek = %v, want 0.5", block[1][0])
	}
}

func TestDeck_SeekAfterEnd(t *testing.T) {
	t.Parallel()

	d := newDeck(t, DefaultConfig())
	if err := d.LoadBuffer(constantBuffer(48000, 2, 4800, 0.5), "short"); err != nil {
		t.Fatal(err)
	}
	d.Start()
	playAll(t, d)

	d.SetPositionRelative(0.5)
	d.Start()
	out := playAll(t, d)
	if got := len(out) / 2; got < 2390 || got > 2400 {
		t.Errorf("replayed %d frames from the middle, want about 2399", got)
	}
}

func TestDeck_EQApplied(t *testing.T) {
	t.Parallel()

	d := newDeck(t, DefaultConfig())
	if err := d.Load(audiotest.NewSineSource(48000, 2, 48000, 100), "sine"); err != nil {
		t.Fatal(err)
	}
	d.SetBandGainDb(eq.Low, -24)
	d.Start()

	block := planar(2, 4800)
	d.Process(block, 0, 4800)
	d.Process(block, 0, 4800)

	var peak float64
	for _, v := range block[0] {
		peak = max(peak, math.Abs(float64(v)))
	}
	if peak > 0.5 {
		t.Errorf("100 Hz peak = %v with the low band at -24 dB", peak)
	}
}

func TestDeck_PrepareChangesRate(t *testing.T) {
	t.Parallel()

	d := newDeck(t, DefaultConfig())
	if err := d.LoadBuffer(constantBuffer(48000, 2, 48000, 0.5), "c"); err != nil {
		t.Fatal(err)
	}
	d.SetPosition(0.5)

	d.Prepare(96000, 1024)
	if d.SampleRate() != 96000 {
		t.Errorf("SampleRate() = %d, want 96000", d.SampleRate())
	}
	if snap := d.Equalizer().Snapshot(); snap == nil || snap.SampleRate != 96000 {
		t.Error("EQ was not redesigned for the new rate")
	}

	d.Start()
	out := playAll(t, d)
	if got := len(out) / 2; got < 47990 || got > 48002 {
		t.Errorf("rendered %d frames of the second half at 96 kHz, want about 48000", got)
	}
	d.Release()
}

func TestDeck_ProcessBounds(t *testing.T) {
	t.Parallel()

	d := newDeck(t, DefaultConfig())
	if err := d.LoadBuffer(constantBuffer(48000, 2, 48000, 0.5), "c"); err != nil {
		t.Fatal(err)
	}
	d.Start()

	block := planar(2, 100)
	d.Process(block, 90, 20)
	d.Process(block, -1, 10)
	d.Process(block, 0, 0)
	for _, v := range block[0] {
		if v != 0 {
			t.Fatal("out of range Process wrote to the block")
		}
	}

	d.Process(block, 40, 20)
	if block[0][39] != 0 || block[0][40] != 0.5 || block[0][59] != 0.5 || block[0][60] != 0 {
		t.Error("Process wrote outside [start, start+length)")
	}

	if _, err := d.ReadSamples(make([]float32, 3)); !errors.Is(err, audio.ErrInvalidDstSize) {
		t.Errorf("ReadSamples(odd) error = %v, want ErrInvalidDstSize", err)
	}
}

func TestDeck_ConcurrentControl(t *testing.T) {
	t.Parallel()

	d := newDeck(t, DefaultConfig())
	if err := d.Load(audiotest.NewSineSource(44100, 2, 5*44100, 440), "sine"); err != nil {
		t.Fatal(err)
	}
	d.Start()

	var wg sync.WaitGroup
	stop := make(chan struct{})
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; ; i++ {
			select {
			case <-stop:
				return
			default:
			}
			d.SetGain(float64(i%11) / 10)
			d.SetSpeed(0.5 + float64(i%30)/10)
			d.SetBandGainDb(eq.Band(i%3), float64(i%49-24))
			if i%97 == 0 {
				d.SetPositionRelative(float64(i%10) / 10)
				d.Start()
			}
			_ = d.PositionRelative()
			_ = d.BPM()
		}
	}()

	buf := make([]float32, 1024)
	for range 500 {
		if _, err := d.ReadSamples(buf); err != nil && err != io.EOF {
			t.Errorf("ReadSamples() error = %v", err)
			break
		}
	}
	close(stop)
	wg.Wait()

	if p := d.PositionRelative(); p < 0 || p > 1 {
		t.Errorf("PositionRelative() = %v out of range", p)
	}
}

func TestDeck_ZeroAllocs(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping allocation test in short mode")
	}

	d := newDeck(t, DefaultConfig())
	if err := d.LoadBuffer(constantBuffer(44100, 2, 60*44100, 0.1), "long"); err != nil {
		t.Fatal(err)
	}
	d.SetSpeed(1.3)
	d.SetBandGainDb(eq.High, 6)
	d.Start()

	block := planar(2, 512)
	buf := make([]float32, 1024)
	allocs := testing.AllocsPerRun(100, func() {
		d.SetGain(0.8)
		d.Process(block, 0, 512)
		d.SetGain(0.9)
		_, _ = d.ReadSamples(buf)
	})
	if allocs > 0 {
		t.Errorf("audio path allocated %v times, want 0", allocs)
	}
}

func BenchmarkDeck_Process(b *testing.B) {
	d := newDeck(b, DefaultConfig())
	if err := d.LoadBuffer(constantBuffer(44100, 2, 60*44100, 0.1), "long"); err != nil {
		b.Fatal(err)
	}
	d.SetSpeed(1.1)
	d.Start()
	block := planar(2, 512)

	b.ReportAllocs()
	b.ResetTimer()

	for b.Loop() {
		d.Process(block, 0, 512)
		if d.Finished() {
			d.SetPosition(0)
			d.Start()
		}
	}
}
