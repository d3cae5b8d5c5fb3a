// SPDX-License-Identifier: EPL-2.0

package mixer

import "errors"

var (
	ErrNoInputs      = errors.New("mixer needs at least one input")
	ErrInvalidLayout = errors.New("invalid mixer layout")
)
