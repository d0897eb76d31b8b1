package cache

import (
	"testing"
	"time"

	"github.com/smallbiznis/loanhub/internal/clock"
)

type movableClock struct {
	t time.Time
}

func (c *movableClock) Now() time.Time                  { return c.t }
func (c *movableClock) Since(t time.Time) time.Duration { return c.t.Sub(t) }

func TestTTLCacheExpiry(t *testing.T) {
	clk := &movableClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	c := NewTTLCache[string, string](clk)

	c.Set("a", "value", time.Minute)
	if v, ok := c.Get("a"); !ok || v != "value" {
		t.Fatalf("expected hit before expiry, got %q %v", v, ok)
	}

	clk.t = clk.t.Add(2 * time.Minute)
	if _, ok := c.Get("a"); ok {
		t.Fatal("expected miss after expiry")
	}
}

func TestTTLCacheZeroTTLNeverExpires(t *testing.T) {
	clk := &movableClock{t: time.Now()}
	c := NewTTLCache[string, int](clk)

	c.Set("k", 7, 0)
	clk.t = clk.t.Add(24 * time.Hour)
	if v, ok := c.Get("k"); !ok || v != 7 {
		t.Fatalf("expected persistent entry, got %d %v", v, ok)
	}
}

func TestTTLCacheDelete(t *testing.T) {
	c := NewTTLCache[string, int](clock.SystemClock{})
	c.Set("k", 1, time.Minute)
	c.Delete("k")
	if _, ok := c.Get("k"); ok {
		t.Fatal("expected miss after delete")
	}
}
