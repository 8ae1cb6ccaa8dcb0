package cubetoe

import (
	"io"
	"log/slog"
	"time"
)

// Option configures a Session.
type Option func(*config)

type config struct {
	animator     Animator
	moveDuration time.Duration
	seed         uint64
	seeded       bool
	logger       *slog.Logger
}

func defaultConfig() *config {
	return &config{
		animator:     InstantAnimator{},
		moveDuration: 800 * time.Millisecond,
		logger:       discardLogger(),
	}
}

// WithAnimator sets the rendering collaborator that animates each
// rotation. The default completes rotations instantly.
func WithAnimator(a Animator) Option {
	return func(c *config) {
		if a != nil {
			c.animator = a
		}
	}
}

// WithMoveDuration sets how long each quarter-turn animation should take.
// The default is 800ms.
func WithMoveDuration(d time.Duration) Option {
	return func(c *config) {
		c.moveDuration = d
	}
}

// WithSeed makes shuffles reproducible.
func WithSeed(seed uint64) Option {
	return func(c *config) {
		c.seed = seed
		c.seeded = true
	}
}

// WithLogger sets the structured logger. The default discards output.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
