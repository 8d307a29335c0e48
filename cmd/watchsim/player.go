package main

import (
	"sync"
	"time"
)

// simulatedPlayer advances its position with the wall clock at a fixed speed
type simulatedPlayer struct {
	mu       sync.Mutex
	duration float64
	speed    float64
	position float64
	playing  bool
	since    time.Time
	now      func() time.Time
}

func newSimulatedPlayer(duration, start, speed float64) *simulatedPlayer {
	return &simulatedPlayer{
		duration: duration,
		speed:    speed,
		position: start,
		now:      time.Now,
	}
}

func (p *simulatedPlayer) play() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.playing {
		p.playing = true
		p.since = p.now()
	}
}

func (p *simulatedPlayer) pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.position = p.positionLocked()
	p.playing = false
}

func (p *simulatedPlayer) ended() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.positionLocked() >= p.duration
}

func (p *simulatedPlayer) positionLocked() float64 {
	position := p.position
	if p.playing {
		position += p.now().Sub(p.since).Seconds() * p.speed
	}
	return min(position, p.duration)
}

// CurrentTime implements tracker.Player
func (p *simulatedPlayer) CurrentTime() (float64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.positionLocked(), nil
}

// Duration implements tracker.Player
func (p *simulatedPlayer) Duration() (float64, error) {
	return p.duration, nil
}
