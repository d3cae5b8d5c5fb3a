// SPDX-License-Identifier: EPL-2.0

package djdeck

import "errors"

var (
	ErrUnsupportedFormat = errors.New("unsupported audio format")
	ErrInvalidWindow     = errors.New("analysis window must be positive")
)
