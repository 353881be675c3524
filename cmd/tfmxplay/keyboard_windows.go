//go:build windows

// keyboard_windows.go - raw-mode stdin reader for Windows consoles

package main

import (
	"os"
	"sync"
	"time"

	"golang.org/x/term"
)

type keyboardHost struct {
	keys         chan byte
	stopCh       chan struct{}
	done         chan struct{}
	stopped      sync.Once
	fd           int
	oldTermState *term.State
}

func newKeyboardHost() *keyboardHost {
	return &keyboardHost{
		keys:   make(chan byte, 16),
		stopCh: make(chan struct{}),
		done:   make(chan struct{}),
	}
}

func (h *keyboardHost) Start() {
	h.fd = int(os.Stdin.Fd())

	oldState, err := term.MakeRaw(h.fd)
	if err != nil {
		close(h.done)
		return
	}
	h.oldTermState = oldState

	go func() {
		defer close(h.done)
		buf := make([]byte, 1)

		for {
			select {
			case <-h.stopCh:
				return
			default:
			}

			n, err := os.Stdin.Read(buf)
			if n > 0 {
				select {
				case h.keys <- buf[0]:
				default:
				}
			}
			if err != nil {
				return
			}
			if n == 0 {
				time.Sleep(5 * time.Millisecond)
			}
		}
	}()
}

func (h *keyboardHost) Stop() {
	h.stopped.Do(func() {
		close(h.stopCh)
	})
	<-h.done
	if h.oldTermState != nil {
		_ = term.Restore(h.fd, h.oldTermState)
		h.oldTermState = nil
	}
}
