// SPDX-License-Identifier: EPL-2.0

package main

import (
	"fmt"
	"os"

	"github.com/ik5/djdeck/eq"
	"github.com/ik5/djdeck/internal/cli"
)

var probeFreqs = []float64{30, 100, 200, 500, 1000, 2000, 6000, 10000, 16000}

type eqCmd struct {
	Low        float64 `help:"Low shelf gain in dB." default:"0"`
	Mid        float64 `help:"Mid peak gain in dB." default:"0"`
	High       float64 `help:"High shelf gain in dB." default:"0"`
	SampleRate float64 `help:"Sample rate in Hz." default:"48000" env:"DJDECK_SAMPLE_RATE"`
}

func (e *eqCmd) Run(*runContext) error {
	if !(e.SampleRate > 0) {
		return fmt.Errorf("sample rate must be positive, got %v", e.SampleRate)
	}

	gains := [eq.NumBands]float64{eq.ClampGainDB(e.Low), eq.ClampGainDB(e.Mid), eq.ClampGainDB(e.High)}
	snap := eq.Design(e.SampleRate, gains)

	fmt.Println(cli.TitleStyle.Render("Sections"))
	for b := eq.Low; b <= eq.High; b++ {
		c := snap.Bands[b]
		cli.PrintKV(os.Stdout, fmt.Sprintf("%s %gHz", b, b.Freq()),
			fmt.Sprintf("%+6.1f dB  b=[%.6f %.6f %.6f] a=[1 %.6f %.6f]",
				gains[b], c.B0, c.B1, c.B2, c.A1, c.A2))
	}

	fmt.Println(cli.TitleStyle.Render("Response"))
	for _, f := range probeFreqs {
		if f >= e.SampleRate/2 {
			break
		}
		cli.PrintKV(os.Stdout, fmt.Sprintf("%gHz", f), fmt.Sprintf("%+6.2f dB", snap.MagnitudeDB(f)))
	}
	return nil
}
