package scheduler

import (
	"sync"
	"testing"
	"time"

	"motoauto-service/internal/domain/auction"

	"github.com/rs/zerolog"
)

type recorder struct {
	mu      sync.Mutex
	ticks   []Tick
	expired int
}

func (r *recorder) params(end time.Time) CountdownParams {
	return CountdownParams{
		AuctionID: "a1",
		End:       end,
		Interval:  10 * time.Millisecond,
		OnTick: func(t Tick) {
			r.mu.Lock()
			r.ticks = append(r.ticks, t)
			r.mu.Unlock()
		},
		OnExpire: func(string) {
			r.mu.Lock()
			r.expired++
			r.mu.Unlock()
		},
		Logger: zerolog.Nop(),
	}
}

func (r *recorder) counts() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.ticks), r.expired
}

func TestTickExpiresExactlyOnce(t *testing.T) {
	r := &recorder{}
	base := time.Now()
	c := NewCountdown(r.params(base.Add(2 * time.Second)))

	if c.Tick(base) {
		t.Fatalf("countdown must not be done 2s before the end")
	}
	if done := c.Tick(base.Add(2 * time.Second)); !done {
		t.Fatalf("countdown must be done at the end")
	}
	for i := 0; i < 3; i++ {
		c.Tick(base.Add(time.Duration(i+3) * time.Second))
	}

	ticks, expired := r.counts()
	if expired != 1 {
		t.Fatalf("expected exactly one expiry got %d", expired)
	}
	if ticks != 2 {
		t.Fatalf("no ticks must follow expiry, got %d", ticks)
	}
	if last := r.ticks[1]; !last.Breakdown.Finished() || last.Phase != auction.PhaseFinished {
		t.Fatalf("unexpected final tick %+v", last)
	}
}

func TestPastEndExpiresOnStart(t *testing.T) {
	r := &recorder{}
	c := NewCountdown(r.params(time.Now().Add(-time.Hour)))
	c.Start()
	defer c.Stop()

	if _, expired := r.counts(); expired != 1 || !c.Expired() {
		t.Fatalf("an ended auction must expire on the first tick, got %d", expired)
	}
}

func TestTickPhases(t *testing.T) {
	r := &recorder{}
	base := time.Now()
	c := NewCountdown(r.params(base.Add(2 * time.Hour)))

	c.Tick(base)
	c.Tick(base.Add(90 * time.Minute))

	if r.ticks[0].Phase != auction.PhaseRunning || r.ticks[1].Phase != auction.PhaseEnding {
		t.Fatalf("unexpected phases %s %s", r.ticks[0].Phase, r.ticks[1].Phase)
	}
	if r.ticks[1].Breakdown.Minutes != 30 || r.ticks[1].RemainingMs != 30*60*1000 {
		t.Fatalf("unexpected breakdown %+v", r.ticks[1])
	}
}

func TestStopSilencesCallbacks(t *testing.T) {
	r := &recorder{}
	c := NewCountdown(r.params(time.Now().Add(time.Hour)))
	c.Start()
	time.Sleep(35 * time.Millisecond)
	c.Stop()

	ticks, _ := r.counts()
	if ticks < 2 {
		t.Fatalf("expected the loop to tick, got %d", ticks)
	}

	time.Sleep(30 * time.Millisecond)
	if after, _ := r.counts(); after != ticks {
		t.Fatalf("ticks after stop: %d -> %d", ticks, after)
	}
	if !c.Tick(time.Now()) {
		t.Fatalf("a stopped countdown must report done")
	}
}

func TestLoopExpires(t *testing.T) {
	r := &recorder{}
	c := NewCountdown(r.params(time.Now().Add(50 * time.Millisecond)))
	c.Start()
	defer c.Stop()

	if c.Expired() {
		t.Fatalf("countdown expired on start")
	}

	deadline := time.Now().Add(2 * time.Second)
	for !c.Expired() {
		if time.Now().After(deadline) {
			t.Fatalf("countdown never expired")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestSubSecondRemainingDoesNotExpire(t *testing.T) {
	r := &recorder{}
	base := time.Now()
	c := NewCountdown(r.params(base.Add(500 * time.Millisecond)))

	if c.Tick(base) {
		t.Fatalf("countdown must not be done with 500ms left")
	}
	if _, expired := r.counts(); expired != 0 || c.Expired() {
		t.Fatalf("expiry fired before the end")
	}
	first := r.ticks[0]
	if !first.Breakdown.Finished() || first.RemainingMs != 500 || first.Phase != auction.PhaseEnding {
		t.Fatalf("unexpected tick %+v", first)
	}

	if !c.Tick(base.Add(500 * time.Millisecond)) {
		t.Fatalf("countdown must be done at the end")
	}
	if _, expired := r.counts(); expired != 1 {
		t.Fatalf("expected one expiry got %d", expired)
	}
	if last := r.ticks[1]; last.Phase != auction.PhaseFinished || last.RemainingMs != 0 {
		t.Fatalf("unexpected final tick %+v", last)
	}
}
