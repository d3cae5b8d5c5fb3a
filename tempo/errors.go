// SPDX-License-Identifier: EPL-2.0
package tempo

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput covers unusable buffers and BPM windows.
	ErrInvalidInput = errors.New("invalid tempo input")

	// ErrInsufficientData means the signal cannot support an estimate.
	ErrInsufficientData = errors.New("insufficient data for tempo estimate")

	ErrSilence       = fmt.Errorf("%w: signal is near silent", ErrInsufficientData)
	ErrNoPeriodicity = fmt.Errorf("%w: no positive autocorrelation", ErrInsufficientData)
	ErrOutOfRange    = fmt.Errorf("%w: tempo does not fold into window", ErrInsufficientData)
)
