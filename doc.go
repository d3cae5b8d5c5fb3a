// SPDX-License-Identifier: EPL-2.0

// Package djdeck ties the deck core to files on disk.
//
// The subpackages hold the engine: tempo estimates BPM, eq designs and runs
// the three band equaliser, transport keeps the playback knobs, deck
// combines them into one playable track and mixer sums decks. This package
// adds the file level glue used by the command line tool.
//
// # Opening files
//
// NewRegistry knows every bundled format, keyed by file extension:
//
//	reg := djdeck.NewRegistry()
//	src, err := djdeck.Open(reg, "crate/track.mp3")
//	defer src.Close()
//
// # Tempo
//
// AnalyzeSource reads at most window of audio and returns its BPM, 0 when
// the tempo cannot be determined:
//
//	bpm, err := djdeck.AnalyzeSource(src, time.Minute, tempo.DefaultMinBPM, tempo.DefaultMaxBPM)
//
// # Rendering
//
// Render drains any Source, typically a deck or a mixer, into a WAV file:
//
//	out, _ := os.Create("mix.wav")
//	frames, err := djdeck.Render(out, d, djdeck.RenderOptions{BitDepth: 24})
package djdeck
