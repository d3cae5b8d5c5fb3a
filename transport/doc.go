// SPDX-License-Identifier: EPL-2.0

// Package transport holds the play state of a deck: gain, speed, play
// position and start/stop. Values are published through atomics so the
// audio callback reads them without locking.
package transport
