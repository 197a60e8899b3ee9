package main

import (
	"sync"

	"snowmelt/internal/melt"
)

const frameBuffer = 4

// frameHub fans animation frames out to the SSE streams of one player.
type frameHub struct {
	mu   sync.Mutex
	subs map[chan melt.Frame]struct{}
}

func newFrameHub() *frameHub {
	return &frameHub{subs: make(map[chan melt.Frame]struct{})}
}

// subscribe returns a frame channel and the func that releases it.
func (h *frameHub) subscribe() (<-chan melt.Frame, func()) {
	ch := make(chan melt.Frame, frameBuffer)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, ch)
			h.mu.Unlock()
		})
	}
}

// publish never blocks. A slow subscriber loses its oldest frame; every
// frame carries full part state, so the newest one is all it needs.
func (h *frameHub) publish(f melt.Frame) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs {
		select {
		case ch <- f:
			continue
		default:
		}
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- f:
		default:
		}
	}
}

func (h *frameHub) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}
