// SPDX-License-Identifier: EPL-2.0
package audio

import "errors"

var (
	ErrInvalidDstSize = errors.New("dst size must be multiple of channels")

	// ErrInvalidBuffer is returned for buffers with no channels, no samples,
	// ragged channels or a non-positive sample rate.
	ErrInvalidBuffer = errors.New("invalid PCM buffer")

	// ErrSeekRange is returned when seeking outside of a buffer.
	ErrSeekRange = errors.New("seek position out of range")
)
