package gateway

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"
)

// SimulatedGateway stands in for the legacy reservation system. Outcomes
// are drawn from a private rand source so tests can seed it for
// deterministic runs.
type SimulatedGateway struct {
	mu          sync.Mutex
	rng         *rand.Rand
	successRate float64
}

func NewSimulatedGateway(successRate float64, seed int64) *SimulatedGateway {
	if successRate <= 0 || successRate > 1 {
		successRate = 0.9
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &SimulatedGateway{
		rng:         rand.New(rand.NewSource(seed)),
		successRate: successRate,
	}
}

func (g *SimulatedGateway) Confirm(_ context.Context, req Request) Result {
	g.mu.Lock()
	roll := g.rng.Float64()
	suffix := 1000 + g.rng.Intn(9000)
	g.mu.Unlock()

	if roll < g.successRate {
		return Result{
			Success:     true,
			ExternalRef: fmt.Sprintf("EXT-%s-%d", req.Reference, suffix),
		}
	}
	return Result{
		Success: false,
		Error:   "simulated external service error: capacity exceeded",
	}
}

var _ ConfirmationGateway = (*SimulatedGateway)(nil)
