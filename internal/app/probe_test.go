package app

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type countingPinger struct {
	calls atomic.Int32
	err   error
	done  chan struct{}
	once  sync.Once
	want  int32
}

func (p *countingPinger) Ping(ctx context.Context) error {
	if p.calls.Add(1) >= p.want {
		p.once.Do(func() { close(p.done) })
	}
	return p.err
}

func TestStartProbe_PingsUntilCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := &countingPinger{err: errors.New("connection refused"), done: make(chan struct{}), want: 3}

	StartProbe(ctx, p, 5*time.Millisecond, nil)

	select {
	case <-p.done:
	case <-time.After(2 * time.Second):
		t.Fatalf("probe pinged %d times, want at least 3", p.calls.Load())
	}
	cancel()

	// Let any in-flight tick drain, then make sure pinging stopped.
	time.Sleep(20 * time.Millisecond)
	settled := p.calls.Load()
	time.Sleep(30 * time.Millisecond)
	if got := p.calls.Load(); got != settled {
		t.Fatalf("probe kept pinging after cancel: %d -> %d", settled, got)
	}
}

func TestStartProbe_Disabled(t *testing.T) {
	tests := []struct {
		name     string
		interval time.Duration
	}{
		{"zero interval", 0},
		{"negative interval", -time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &countingPinger{done: make(chan struct{}), want: 1}
			StartProbe(context.Background(), p, tt.interval, nil)
			time.Sleep(20 * time.Millisecond)
			if got := p.calls.Load(); got != 0 {
				t.Fatalf("disabled probe pinged %d times", got)
			}
		})
	}
}

func TestProbeInterval(t *testing.T) {
	tests := []struct {
		name    string
		seconds int
		want    time.Duration
	}{
		{"unset uses default", -1, defaultProbeInterval},
		{"zero disables", 0, 0},
		{"explicit", 5, 5 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := probeInterval(tt.seconds); got != tt.want {
				t.Fatalf("probeInterval(%d) = %v, want %v", tt.seconds, got, tt.want)
			}
		})
	}
}
