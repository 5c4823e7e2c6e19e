// Package confirm implements the two-step delete guard: the first request
// arms a key, a second request inside the window confirms it.
package confirm

import (
	"sync"
	"time"
)

const DefaultWindow = 3 * time.Second

type Guard struct {
	mu     sync.Mutex
	window time.Duration
	now    func() time.Time
	armed  map[string]time.Time
}

func New(window time.Duration) *Guard {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Guard{
		window: window,
		now:    time.Now,
		armed:  make(map[string]time.Time),
	}
}

// Arm returns true when key was armed less than the window ago, consuming
// the arm. Otherwise it (re)arms key and returns false.
func (g *Guard) Arm(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	g.sweep(now)

	if _, ok := g.armed[key]; ok {
		delete(g.armed, key)
		return true
	}
	g.armed[key] = now.Add(g.window)
	return false
}

// Disarm drops a pending arm, e.g. after the key was deleted elsewhere.
func (g *Guard) Disarm(key string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.armed, key)
}

func (g *Guard) Window() time.Duration {
	return g.window
}

func (g *Guard) sweep(now time.Time) {
	for k, deadline := range g.armed {
		if !now.Before(deadline) {
			delete(g.armed, k)
		}
	}
}
