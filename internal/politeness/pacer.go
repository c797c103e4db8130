package politeness

import (
	"context"
	"math/rand/v2"
	"time"

	"golang.org/x/time/rate"
)

// Tier identifies which kind of request a wait precedes.
type Tier int

const (
	// TierHome precedes the home page fetch. It never waits.
	TierHome Tier = iota

	// TierRegion precedes each region page fetch.
	TierRegion

	// TierCity precedes each city listing fetch.
	TierCity

	// TierHarvest is the single pause between link discovery and venue harvesting.
	TierHarvest

	// TierVenue precedes each venue page fetch.
	TierVenue

	// TierCommentPage precedes each additional comment page fetch.
	TierCommentPage
)

// String returns the tier name used in logs.
func (t Tier) String() string {
	switch t {
	case TierHome:
		return "home"
	case TierRegion:
		return "region"
	case TierCity:
		return "city"
	case TierHarvest:
		return "harvest"
	case TierVenue:
		return "venue"
	case TierCommentPage:
		return "comment_page"
	default:
		return "unknown"
	}
}

// Delays holds the upper bound of the random wait for each tier.
type Delays struct {
	Region      time.Duration `yaml:"region" json:"region"`
	City        time.Duration `yaml:"city" json:"city"`
	Harvest     time.Duration `yaml:"harvest" json:"harvest"`
	Venue       time.Duration `yaml:"venue" json:"venue"`
	CommentPage time.Duration `yaml:"comment_page" json:"comment_page"`
}

// DefaultDelays returns the bounds used against the live site.
func DefaultDelays() Delays {
	return Delays{
		Region:      1 * time.Second,
		City:        1 * time.Second,
		Harvest:     4 * time.Second,
		Venue:       2 * time.Second,
		CommentPage: 3 * time.Second,
	}
}

// Max returns the wait bound for a tier.
func (d Delays) Max(t Tier) time.Duration {
	switch t {
	case TierRegion:
		return d.Region
	case TierCity:
		return d.City
	case TierHarvest:
		return d.Harvest
	case TierVenue:
		return d.Venue
	case TierCommentPage:
		return d.CommentPage
	default:
		return 0
	}
}

// Pacer waits before each request.
type Pacer struct {
	// delays bounds the random wait per tier.
	delays Delays

	// limiter caps the overall request rate. Nil means no cap.
	limiter *rate.Limiter

	// jitter draws a wait in [0, max).
	jitter func(max time.Duration) time.Duration

	// sleep blocks for d or until ctx is done.
	sleep func(ctx context.Context, d time.Duration) error
}

// Option configures a Pacer.
type Option func(*Pacer)

// WithRate caps requests to rps per second with a burst of one.
// Zero or a negative value leaves the rate uncapped.
func WithRate(rps float64) Option {
	return func(p *Pacer) {
		if rps > 0 {
			p.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		}
	}
}

// WithJitter replaces the random source for waits.
func WithJitter(fn func(max time.Duration) time.Duration) Option {
	return func(p *Pacer) {
		p.jitter = fn
	}
}

// WithSleep replaces the sleep implementation.
func WithSleep(fn func(ctx context.Context, d time.Duration) error) Option {
	return func(p *Pacer) {
		p.sleep = fn
	}
}

// New creates a Pacer.
func New(delays Delays, opts ...Option) *Pacer {
	p := &Pacer{
		delays: delays,
		jitter: randomJitter,
		sleep:  sleepContext,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Wait blocks for a random duration bounded by the tier's maximum and then,
// for tiers that precede a request, for a rate limiter token.
// It returns ctx.Err() when the context ends first.
func (p *Pacer) Wait(ctx context.Context, tier Tier) error {
	if bound := p.delays.Max(tier); bound > 0 {
		if err := p.sleep(ctx, p.jitter(bound)); err != nil {
			return err
		}
	}

	if p.limiter != nil && tier != TierHarvest {
		if err := p.limiter.Wait(ctx); err != nil {
			return err
		}
	}

	return ctx.Err()
}

func randomJitter(bound time.Duration) time.Duration {
	if bound <= 0 {
		return 0
	}
	return rand.N(bound) //nolint:gosec // politeness jitter, not security sensitive
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
