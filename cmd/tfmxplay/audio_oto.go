//go:build !headless

// audio_oto.go - oto v3 stereo audio output, pulling frames from the engine

package main

import (
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/ebitengine/oto/v3"
	"github.com/tfmxplay/tfmx"
)

type otoOutput struct {
	ctx     *oto.Context
	player  *oto.Player
	engine  atomic.Pointer[tfmx.Engine]
	left    []float32
	right   []float32
	started bool
	mutex   sync.Mutex
}

func newOtoOutput(sampleRate int) (*otoOutput, error) {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 2,
		Format:       oto.FormatFloat32LE,
		BufferSize:   4,
	})
	if err != nil {
		return nil, err
	}
	<-ready

	return &otoOutput{ctx: ctx}, nil
}

func (o *otoOutput) setupPlayer(e *tfmx.Engine) {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	o.engine.Store(e)
	o.player = o.ctx.NewPlayer(o)
	o.left = make([]float32, 2048)
	o.right = make([]float32, 2048)
}

// Read implements io.Reader for oto: interleaved stereo float32 LE.
func (o *otoOutput) Read(p []byte) (n int, err error) {
	e := o.engine.Load()
	if e == nil {
		for i := range p {
			p[i] = 0
		}
		return len(p), nil
	}

	frames := len(p) / 8 // 2 channels * 4 bytes
	if cap(o.left) < frames {
		o.left = make([]float32, frames)
		o.right = make([]float32, frames)
	}
	left := o.left[:frames]
	right := o.right[:frames]
	e.Render(left, right)

	out := (*[1 << 30]float32)(unsafe.Pointer(&p[0]))[: frames*2 : frames*2]
	for i := 0; i < frames; i++ {
		out[i*2] = left[i]
		out[i*2+1] = right[i]
	}
	return frames * 8, nil
}

func (o *otoOutput) start() {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	if !o.started && o.player != nil {
		o.player.Play()
		o.started = true
	}
}

func (o *otoOutput) stop() {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	if o.started && o.player != nil {
		o.player.Pause()
		o.started = false
	}
}

func (o *otoOutput) close() {
	o.stop()
	o.mutex.Lock()
	defer o.mutex.Unlock()
	if o.player != nil {
		o.player.Close()
		o.player = nil
	}
}
