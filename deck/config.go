// SPDX-License-Identifier: EPL-2.0
package deck

import (
	"fmt"
	"time"

	"github.com/ik5/djdeck/tempo"
)

// Config holds the deck tunables. The zero value is not usable; start from
// DefaultConfig.
type Config struct {
	// SampleRate is the device rate the deck renders at until Prepare says
	// otherwise.
	SampleRate int
	// BlockSize is the largest block ReadSamples renders at once.
	BlockSize int
	// Channels is the interleaved channel count of ReadSamples.
	Channels int

	// AnalysisWindow caps how much of a track is used for tempo analysis.
	AnalysisWindow time.Duration
	MinBPM         float64
	MaxBPM         float64
}

func DefaultConfig() Config {
	return Config{
		SampleRate:     48000,
		BlockSize:      512,
		Channels:       2,
		AnalysisWindow: 60 * time.Second,
		MinBPM:         tempo.DefaultMinBPM,
		MaxBPM:         tempo.DefaultMaxBPM,
	}
}

func (c Config) Validate() error {
	switch {
	case c.SampleRate <= 0:
		return fmt.Errorf("%w: sample rate %d", ErrInvalidConfig, c.SampleRate)
	case c.BlockSize <= 0:
		return fmt.Errorf("%w: block size %d", ErrInvalidConfig, c.BlockSize)
	case c.Channels <= 0:
		return fmt.Errorf("%w: channels %d", ErrInvalidConfig, c.Channels)
	case c.AnalysisWindow <= 0:
		return fmt.Errorf("%w: analysis window %v", ErrInvalidConfig, c.AnalysisWindow)
	case !(c.MinBPM > 0) || !(c.MaxBPM > c.MinBPM):
		return fmt.Errorf("%w: bpm window [%v, %v]", ErrInvalidConfig, c.MinBPM, c.MaxBPM)
	}
	return nil
}

// analysisFrames converts AnalysisWindow to frames at sampleRate.
func (c Config) analysisFrames(sampleRate int) int {
	return int(c.AnalysisWindow.Seconds() * float64(sampleRate))
}
