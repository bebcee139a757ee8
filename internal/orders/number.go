package orders

import (
	"context"
	"fmt"
	"math/rand/v2"
)

const orderNumberCounter = "order_number"

// CounterClient is the slice of pkg/redis used for order numbering.
type CounterClient interface {
	Incr(ctx context.Context, key string) (int64, error)
	CounterKey(name string) string
}

// NumberSource issues human-facing order numbers ("KN-<n>") off a shared
// counter. When the counter is unreachable it falls back to a random number
// so intake keeps working; uniqueness is still enforced by the database.
type NumberSource struct {
	counter CounterClient
}

// NewNumberSource builds a source over the given counter client, which may be
// nil in dev mode.
func NewNumberSource(counter CounterClient) *NumberSource {
	return &NumberSource{counter: counter}
}

// Next returns the next order number.
func (n *NumberSource) Next(ctx context.Context) string {
	if n != nil && n.counter != nil {
		if seq, err := n.counter.Incr(ctx, n.counter.CounterKey(orderNumberCounter)); err == nil {
			return fmt.Sprintf("KN-%d", seq)
		}
	}
	return fmt.Sprintf("KN-R%09d", rand.Int64N(1_000_000_000))
}
