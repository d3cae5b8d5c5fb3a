// SPDX-License-Identifier: EPL-2.0
package deck

import "errors"

var (
	// ErrNoSource is returned when a load has nothing playable to read.
	ErrNoSource = errors.New("no playable source")

	ErrInvalidConfig = errors.New("invalid deck config")
)
