// SPDX-License-Identifier: EPL-2.0

package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/ik5/djdeck"
	"github.com/ik5/djdeck/internal/cli"
)

type bpmCmd struct {
	Analysis analysisFlags `embed:""`

	Files []string `arg:"" name:"files" help:"Audio files to analyse." type:"existingfile"`
}

func (b *bpmCmd) Run(rc *runContext) error {
	failed := 0
	for _, path := range b.Files {
		bpm, err := djdeck.AnalyzeFile(rc.reg, path, b.Analysis.Window, b.Analysis.MinBPM, b.Analysis.MaxBPM)
		if err != nil {
			rc.log.WithFields(logrus.Fields{
				"function": "bpm",
				"file":     path,
				"error":    err.Error(),
			}).Error("Analysis failed")
			failed++
			continue
		}

		value := fmt.Sprintf("%.1f", bpm)
		if bpm == 0 {
			value += " (undetermined)"
		}
		cli.PrintKV(os.Stdout, path, value)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files could not be analysed", failed, len(b.Files))
	}
	return nil
}
