package notifier

import (
	"context"
	"fmt"
	"math/rand"
	"sync"

	"github.com/google/uuid"
)

// Simulated is a transport stand-in for local development and load tests.
// It fails a configurable fraction of sends so the partial-failure path
// gets exercised without a real provider.
type Simulated struct {
	mu          sync.Mutex
	rng         *rand.Rand
	failureRate float64
}

// NewSimulated creates a simulated notifier failing failureRate of sends
// (0.0 never fails, 1.0 always fails).
func NewSimulated(failureRate float64, seed int64) *Simulated {
	return &Simulated{
		rng:         rand.New(rand.NewSource(seed)),
		failureRate: failureRate,
	}
}

func (s *Simulated) Send(_ context.Context, to, _, _ string, _ bool) (*Result, error) {
	s.mu.Lock()
	fail := s.rng.Float64() < s.failureRate
	s.mu.Unlock()

	if fail {
		return nil, fmt.Errorf("simulated provider rejection for %s", to)
	}
	return &Result{MessageID: "sim-" + uuid.New().String()[:8]}, nil
}
