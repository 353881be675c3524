//go:build headless

// audio_headless.go - no-op audio output for headless builds and tests

package main

import "github.com/tfmxplay/tfmx"

type otoOutput struct {
	engine  *tfmx.Engine
	started bool
}

func newOtoOutput(sampleRate int) (*otoOutput, error) {
	return &otoOutput{}, nil
}

func (o *otoOutput) setupPlayer(e *tfmx.Engine) { o.engine = e }
func (o *otoOutput) start()                     { o.started = true }
func (o *otoOutput) stop()                      { o.started = false }
func (o *otoOutput) close()                     { o.started = false }
