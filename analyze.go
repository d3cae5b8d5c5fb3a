// SPDX-License-Identifier: EPL-2.0

package djdeck

import (
	"fmt"
	"time"

	"github.com/ik5/djdeck/audio"
	"github.com/ik5/djdeck/tempo"
)

// AnalyzeSource reads up to window of audio from src and estimates its
// tempo in [minBpm, maxBpm]. A tempo that cannot be determined is 0 with a
// nil error; errors are reserved for failing to read src.
func AnalyzeSource(src audio.Source, window time.Duration, minBpm, maxBpm float64) (float64, error) {
	if window <= 0 {
		return 0, fmt.Errorf("%w: %v", ErrInvalidWindow, window)
	}

	frames := int(window.Seconds() * float64(src.SampleRate()))
	buf, err := audio.ReadBuffer(src, max(frames, 1))
	if err != nil {
		return 0, fmt.Errorf("reading analysis window: %w", err)
	}
	return tempo.EstimateBPM(buf, minBpm, maxBpm), nil
}

// AnalyzeFile is AnalyzeSource for a file on disk.
func AnalyzeFile(reg *audio.Registry, path string, window time.Duration, minBpm, maxBpm float64) (float64, error) {
	src, err := Open(reg, path)
	if err != nil {
		return 0, err
	}
	defer src.Close()

	return AnalyzeSource(src, window, minBpm, maxBpm)
}
