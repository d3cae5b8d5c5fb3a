// SPDX-License-Identifier: EPL-2.0

// Package mixer sums decks onto one output bus.
//
// Each input renders into a scratch block and is added to the output, so
// two decks at full gain can exceed [-1, 1]; the device or the encoder
// clips.
//
//	a, _ := deck.New(cfg, nil)
//	b, _ := deck.New(cfg, nil)
//	bus, _ := mixer.New(48000, 2, 512, nil, a, b)
//	n, err := bus.ReadSamples(out)
package mixer
