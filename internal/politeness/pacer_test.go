package politeness

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

// recorder captures the waits a Pacer asks for.
type recorder struct {
	mu     sync.Mutex
	bounds []time.Duration
	sleeps []time.Duration
}

func (r *recorder) jitter(bound time.Duration) time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bounds = append(r.bounds, bound)
	return bound / 2
}

func (r *recorder) sleep(_ context.Context, d time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sleeps = append(r.sleeps, d)
	return nil
}

// TestPacerWait tests per-tier bounds.
func TestPacerWait(t *testing.T) {
	t.Parallel()

	tests := []struct {
		tier      Tier
		wantBound time.Duration
	}{
		{TierHome, 0},
		{TierRegion, 1 * time.Second},
		{TierCity, 1 * time.Second},
		{TierHarvest, 4 * time.Second},
		{TierVenue, 2 * time.Second},
		{TierCommentPage, 3 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.tier.String(), func(t *testing.T) {
			t.Parallel()

			rec := &recorder{}
			p := New(DefaultDelays(), WithJitter(rec.jitter), WithSleep(rec.sleep))

			if err := p.Wait(context.Background(), tt.tier); err != nil {
				t.Fatalf("Wait failed: %v", err)
			}

			if tt.wantBound == 0 {
				if len(rec.sleeps) != 0 {
					t.Errorf("expected no sleep, got %v", rec.sleeps)
				}
				return
			}
			if len(rec.bounds) != 1 || rec.bounds[0] != tt.wantBound {
				t.Errorf("bounds = %v, want [%v]", rec.bounds, tt.wantBound)
			}
			if len(rec.sleeps) != 1 || rec.sleeps[0] != tt.wantBound/2 {
				t.Errorf("sleeps = %v, want [%v]", rec.sleeps, tt.wantBound/2)
			}
		})
	}
}

// TestPacerZeroDelays tests that zero bounds never sleep.
func TestPacerZeroDelays(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	p := New(Delays{}, WithJitter(rec.jitter), WithSleep(rec.sleep))
	for _, tier := range []Tier{TierRegion, TierCity, TierHarvest, TierVenue, TierCommentPage} {
		if err := p.Wait(context.Background(), tier); err != nil {
			t.Fatalf("Wait(%s) failed: %v", tier, err)
		}
	}
	if len(rec.sleeps) != 0 {
		t.Errorf("expected no sleeps, got %v", rec.sleeps)
	}
}

// TestPacerCancel tests that a cancelled context aborts the wait.
func TestPacerCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := New(Delays{Venue: time.Hour})
	start := time.Now()
	err := p.Wait(ctx, TierVenue)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if time.Since(start) > time.Second {
		t.Error("cancelled wait did not return promptly")
	}
}

// TestPacerRate tests the request ceiling.
func TestPacerRate(t *testing.T) {
	t.Parallel()

	p := New(Delays{}, WithRate(20))
	start := time.Now()
	for range 3 {
		if err := p.Wait(context.Background(), TierCity); err != nil {
			t.Fatalf("Wait failed: %v", err)
		}
	}
	// Burst of one: the second and third requests wait ~50ms each.
	if elapsed := time.Since(start); elapsed < 80*time.Millisecond {
		t.Errorf("rate not applied, elapsed %v", elapsed)
	}
}

// TestRandomJitter tests the default random source stays in range.
func TestRandomJitter(t *testing.T) {
	t.Parallel()

	if got := randomJitter(0); got != 0 {
		t.Errorf("randomJitter(0) = %v", got)
	}
	for range 100 {
		if got := randomJitter(time.Second); got < 0 || got >= time.Second {
			t.Fatalf("randomJitter out of range: %v", got)
		}
	}
}
