// SPDX-License-Identifier: EPL-2.0
package eq

import "errors"

var ErrUnknownBand = errors.New("unknown eq band")
