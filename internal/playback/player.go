// Package playback steps through animation frames against wall-clock time.
package playback

import "time"

// MinDelay is the shortest time a frame stays on screen. Zero delays would
// otherwise spin through frames without ever showing them.
const MinDelay = 10 * time.Millisecond

// Player tracks which frame is current. plays counts full passes over the
// frames; 0 means loop forever. After the last pass the final frame stays.
type Player struct {
	delays  []time.Duration
	plays   uint32
	index   int
	loop    uint32
	elapsed time.Duration
	done    bool
}

func NewPlayer(delays []time.Duration, plays uint32) *Player {
	p := &Player{
		delays: make([]time.Duration, len(delays)),
		plays:  plays,
	}
	for i, d := range delays {
		p.delays[i] = max(d, MinDelay)
	}
	p.done = len(delays) < 2 && plays != 0
	return p
}

func (p *Player) Frame() int   { return p.index }
func (p *Player) Loop() uint32 { return p.loop }
func (p *Player) Done() bool   { return p.done }

// Advance moves the clock forward by dt and reports whether the current
// frame changed.
func (p *Player) Advance(dt time.Duration) bool {
	if p.done || len(p.delays) == 0 {
		return false
	}
	start := p.index
	p.elapsed += dt
	for !p.done && p.elapsed >= p.delays[p.index] {
		p.elapsed -= p.delays[p.index]
		p.next()
	}
	return p.index != start
}

// Remaining is the time left on the current frame.
func (p *Player) Remaining() time.Duration {
	if p.done || len(p.delays) == 0 {
		return 0
	}
	return p.delays[p.index] - p.elapsed
}

func (p *Player) Reset() {
	p.index = 0
	p.loop = 0
	p.elapsed = 0
	p.done = len(p.delays) < 2 && p.plays != 0
}

func (p *Player) next() {
	p.index++
	if p.index < len(p.delays) {
		return
	}
	p.loop++
	if p.plays != 0 && p.loop >= p.plays {
		p.index = len(p.delays) - 1
		p.elapsed = 0
		p.done = true
		return
	}
	p.index = 0
}
