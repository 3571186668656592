package collector

import "time"

// Backoff is the retry schedule of the fetch loop: the first failure waits
// Initial, each consecutive failure doubles the wait up to Max.
type Backoff struct {
	Initial time.Duration
	Max     time.Duration
	current time.Duration
}

func NewBackoff(initial, max time.Duration) *Backoff {
	if max < initial {
		max = initial
	}
	return &Backoff{
		Initial: initial,
		Max:     max,
		current: initial,
	}
}

// Next returns the delay for the failure being handled and advances the schedule.
func (b *Backoff) Next() time.Duration {
	delay := b.current
	next := b.current * 2
	if next > b.Max || next <= 0 {
		next = b.Max
	}
	b.current = next
	return delay
}

// Peek returns the delay the next failure would get.
func (b *Backoff) Peek() time.Duration {
	return b.current
}

func (b *Backoff) Reset() {
	b.current = b.Initial
}
