package device

import (
	"context"
	"math/rand"
	"time"
)

// Simulator emulates a detector with cars lapping at a base pace plus random variation.
type Simulator struct {
	cars   int
	base   time.Duration
	spread time.Duration
	wait   time.Duration
	noise  float64
	rng    *rand.Rand
	next   []time.Time
}

type SimulatorOption = func(s *Simulator)

// WithLapTime sets the base lap time and the maximum random variation added to it.
func WithLapTime(base, spread time.Duration) SimulatorOption {
	return func(s *Simulator) {
		s.base = base
		s.spread = spread
	}
}

// WithNoise sets the probability that a read yields a garbage byte instead of a crossing.
func WithNoise(p float64) SimulatorOption {
	return func(s *Simulator) { s.noise = p }
}

// WithSeed makes the simulated race reproducible.
func WithSeed(seed int64) SimulatorOption {
	return func(s *Simulator) { s.rng = rand.New(rand.NewSource(seed)) }
}

// WithWait bounds how long a single read blocks when no car is due.
func WithWait(d time.Duration) SimulatorOption {
	return func(s *Simulator) { s.wait = d }
}

// NewSimulator returns a simulated detector for the given number of cars.
func NewSimulator(cars int, opts ...SimulatorOption) *Simulator {
	s := &Simulator{
		cars:   cars,
		base:   4 * time.Second,
		spread: 2 * time.Second,
		wait:   DefaultReadTimeout,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Poll blocks until the next car is due or the read bound passes, whichever comes first.
func (s *Simulator) Poll(ctx context.Context) (byte, bool, error) {
	if s.cars < 1 {
		return 0, false, sleep(ctx, s.wait)
	}
	now := time.Now()
	if s.next == nil {
		// staggered start: every car crosses once within the first base lap
		s.next = make([]time.Time, s.cars)
		for i := range s.next {
			s.next[i] = now.Add(s.jitter(s.base))
		}
	}

	car := 0
	for i := range s.next {
		if s.next[i].Before(s.next[car]) {
			car = i
		}
	}
	due := s.next[car].Sub(now)
	if due > s.wait {
		return 0, false, sleep(ctx, s.wait)
	}
	if err := sleep(ctx, due); err != nil {
		return 0, false, err
	}
	if s.noise > 0 && s.rng.Float64() < s.noise {
		return '?', true, nil
	}
	s.next[car] = s.next[car].Add(s.base + s.jitter(s.spread))
	// cars are addressed by a single digit on the wire
	return byte('1' + car%9), true, nil
}

// Close is a no-op; the simulator holds no resources.
func (s *Simulator) Close() error {
	return nil
}

func (s *Simulator) jitter(max time.Duration) time.Duration {
	if max <= 0 {
		return 0
	}
	return time.Duration(s.rng.Int63n(int64(max)))
}

func sleep(ctx context.Context, d time.Duration) error {
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
