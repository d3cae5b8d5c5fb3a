// SPDX-License-Identifier: EPL-2.0

package output

import "errors"

var ErrDeviceBusy = errors.New("audio device already open with another layout")
