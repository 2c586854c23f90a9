package ratelimit

import (
	"net/http/httptest"
	"testing"
	"time"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newTestLimiter(limit int, period time.Duration) (*Limiter, *clock) {
	c := &clock{t: time.Date(2026, 12, 1, 12, 0, 0, 0, time.UTC)}
	l := New(limit, period)
	l.now = c.now
	return l, c
}

func TestLimiter_AllowUpToLimit(t *testing.T) {
	l, _ := newTestLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		if !l.Allow("k") {
			t.Fatalf("attempt %d refused, want allowed", i+1)
		}
	}
	if l.Allow("k") {
		t.Error("fourth attempt allowed, want refused")
	}
	if !l.Allow("other") {
		t.Error("separate key refused")
	}
	if got := l.Remaining("k"); got != 0 {
		t.Errorf("Remaining = %d, want 0", got)
	}
}

func TestLimiter_WindowExpires(t *testing.T) {
	l, c := newTestLimiter(1, time.Minute)

	l.Allow("k")
	if l.Allow("k") {
		t.Fatal("second attempt inside window allowed")
	}

	c.t = c.t.Add(time.Minute + time.Second)
	if !l.Allow("k") {
		t.Error("attempt after window refused")
	}
}

func TestLimiter_ResetAndSweep(t *testing.T) {
	l, c := newTestLimiter(1, time.Minute)

	l.Allow("a")
	l.Allow("b")
	l.Reset("a")
	if got := l.Remaining("a"); got != 1 {
		t.Errorf("Remaining after reset = %d, want 1", got)
	}

	c.t = c.t.Add(2 * time.Minute)
	if got := l.Sweep(); got != 1 {
		t.Errorf("Sweep removed %d, want 1", got)
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"forwarded chain", map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.1"}, "10.0.0.2:5555", "203.0.113.7"},
		{"real ip", map[string]string{"X-Real-IP": " 198.51.100.2 "}, "10.0.0.2:5555", "198.51.100.2"},
		{"remote with port", nil, "192.0.2.9:4242", "192.0.2.9"},
		{"remote without port", nil, "192.0.2.9", "192.0.2.9"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("POST", "/login", nil)
			r.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			if got := ClientIP(r); got != tt.want {
				t.Errorf("ClientIP = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLoginLimiter_PerAccountAndReset(t *testing.T) {
	ll := NewLoginLimiterWithConfig(100, time.Minute, 2, time.Minute)
	r := httptest.NewRequest("POST", "/login", nil)

	for i := 0; i < 2; i++ {
		if ok, _ := ll.Check(r, "Dasher"); !ok {
			t.Fatalf("attempt %d refused", i+1)
		}
	}
	// Case-folded: "DASHER" shares the counter.
	if ok, msg := ll.Check(r, "DASHER"); ok || msg == "" {
		t.Fatalf("third attempt: ok=%v msg=%q, want refused with message", ok, msg)
	}

	ll.Succeeded("dasher")
	if ok, _ := ll.Check(r, "dasher"); !ok {
		t.Error("attempt after success refused")
	}
}

func TestLoginLimiter_PerAddress(t *testing.T) {
	ll := NewLoginLimiterWithConfig(1, time.Minute, 100, time.Minute)
	r := httptest.NewRequest("POST", "/login", nil)

	if ok, _ := ll.Check(r, "a"); !ok {
		t.Fatal("first attempt refused")
	}
	if ok, _ := ll.Check(r, "b"); ok {
		t.Error("second attempt from same address allowed")
	}
}
