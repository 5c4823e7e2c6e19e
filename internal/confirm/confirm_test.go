package confirm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time          { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestGuard(window time.Duration) (*Guard, *clock) {
	c := &clock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	g := New(window)
	g.now = c.now
	return g, c
}

func TestGuard_SecondArmConfirms(t *testing.T) {
	g, c := newTestGuard(3 * time.Second)

	assert.False(t, g.Arm("a"))
	c.advance(time.Second)
	assert.True(t, g.Arm("a"))
	// consumed: the next call starts over
	assert.False(t, g.Arm("a"))
}

func TestGuard_Expiry(t *testing.T) {
	g, c := newTestGuard(3 * time.Second)

	assert.False(t, g.Arm("a"))
	c.advance(3 * time.Second)
	assert.False(t, g.Arm("a"), "expired arm resets")
	c.advance(2 * time.Second)
	assert.True(t, g.Arm("a"))
}

func TestGuard_KeysAreIndependent(t *testing.T) {
	g, _ := newTestGuard(time.Second)

	assert.False(t, g.Arm("a"))
	assert.False(t, g.Arm("b"))
	assert.True(t, g.Arm("b"))
	assert.True(t, g.Arm("a"))
}

func TestGuard_Disarm(t *testing.T) {
	g, _ := newTestGuard(time.Second)

	assert.False(t, g.Arm("a"))
	g.Disarm("a")
	assert.False(t, g.Arm("a"))
}

func TestNew_DefaultWindow(t *testing.T) {
	assert.Equal(t, DefaultWindow, New(0).Window())
}
