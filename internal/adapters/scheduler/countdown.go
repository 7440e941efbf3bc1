package scheduler

import (
	"context"
	"sync"
	"time"

	"motoauto-service/internal/domain/auction"

	"github.com/rs/zerolog"
)

// DefaultInterval is the tick period used when CountdownParams.Interval is zero
const DefaultInterval = time.Second

// Tick is one countdown refresh
type Tick struct {
	AuctionID   string            `json:"auction_id"`
	RemainingMs int64             `json:"remaining_ms"`
	Breakdown   auction.Breakdown `json:"breakdown"`
	Phase       auction.Phase     `json:"phase"`
}

// Countdown ticks down to an auction end time and reports expiry exactly once
type Countdown struct {
	auctionID string
	end       time.Time
	interval  time.Duration
	threshold time.Duration
	now       func() time.Time
	onTick    func(Tick)
	onExpire  func(auctionID string)
	logger    zerolog.Logger

	mu      sync.Mutex
	expired bool
	stopped bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

type CountdownParams struct {
	AuctionID       string
	End             time.Time
	Interval        time.Duration
	EndingThreshold time.Duration
	Now             func() time.Time
	// OnTick and OnExpire run with the countdown lock held and must not call
	// back into the countdown.
	OnTick   func(Tick)
	OnExpire func(auctionID string)
	Logger   zerolog.Logger
}

func NewCountdown(params CountdownParams) *Countdown {
	ctx, cancel := context.WithCancel(context.Background())

	countdown := &Countdown{
		auctionID: params.AuctionID,
		end:       params.End,
		interval:  params.Interval,
		threshold: params.EndingThreshold,
		now:       params.Now,
		onTick:    params.OnTick,
		onExpire:  params.OnExpire,
		logger: params.Logger.With().
			Str("component", "countdown").
			Str("auction_id", params.AuctionID).
			Logger(),
		ctx:    ctx,
		cancel: cancel,
	}
	if countdown.interval <= 0 {
		countdown.interval = DefaultInterval
	}
	if countdown.threshold <= 0 {
		countdown.threshold = auction.DefaultEndingThreshold
	}
	if countdown.now == nil {
		countdown.now = time.Now
	}
	if countdown.onTick == nil {
		countdown.onTick = func(Tick) {}
	}
	if countdown.onExpire == nil {
		countdown.onExpire = func(string) {}
	}
	return countdown
}

// Start emits the current state immediately, then once per interval until
// expiry or Stop
func (c *Countdown) Start() {
	c.logger.Debug().Time("end_time", c.end).Msg("Starting countdown")

	if c.Tick(c.now()) {
		return
	}

	c.wg.Add(1)
	go c.loop()
}

// Stop halts the countdown; no callback runs after Stop returns
func (c *Countdown) Stop() {
	c.mu.Lock()
	c.stopped = true
	c.mu.Unlock()

	c.cancel()
	c.wg.Wait()
}

// Expired reports whether expiry has fired
func (c *Countdown) Expired() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.expired
}

func (c *Countdown) loop() {
	defer c.wg.Done()

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if c.Tick(c.now()) {
				return
			}
		case <-c.ctx.Done():
			c.logger.Debug().Msg("Countdown loop stopped")
			return
		}
	}
}

// Tick evaluates the countdown at now and reports whether it is done. The
// expiry callback fires on the first tick with no time remaining and never again.
func (c *Countdown) Tick(now time.Time) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stopped || c.expired {
		return true
	}

	ms := auction.Remaining(c.end, now)
	breakdown := auction.NewBreakdown(ms)
	phase := auction.PhaseOf(breakdown, c.threshold)
	if ms > 0 && phase == auction.PhaseFinished {
		// the last second displays as zero but bidding is still open
		phase = auction.PhaseEnding
	}

	c.onTick(Tick{
		AuctionID:   c.auctionID,
		RemainingMs: ms,
		Breakdown:   breakdown,
		Phase:       phase,
	})

	if ms > 0 {
		return false
	}

	c.expired = true
	c.logger.Info().Msg("Auction countdown expired")
	c.onExpire(c.auctionID)
	return true
}
