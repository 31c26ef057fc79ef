package cache

import (
	"fmt"
	"math"

	"github.com/cespare/xxhash/v2"

	"github.com/rpgo/retirement-planner/internal/domain"
)

// KeyPrefix namespaces projection entries in a shared cache.
const KeyPrefix = "rpgo:projection:"

// ProjectionKey derives a cache key from everything a projection depends on.
// Floats are hashed by their bit patterns so distinct inputs never collide
// through formatting.
func ProjectionKey(in domain.ProjectionInputs, a domain.EconomicAssumptions) string {
	h := xxhash.New()
	_, _ = fmt.Fprintf(h, "%d|%x|%x|%x|%x|%x|%d",
		in.CurrentAge,
		math.Float64bits(in.CurrentSavingsTotal),
		math.Float64bits(in.AnnualSavingsContribution),
		math.Float64bits(in.BaseAnnualExpenses),
		math.Float64bits(a.ReturnRate),
		math.Float64bits(a.InflationRate),
		a.LifeExpectancy,
	)
	return fmt.Sprintf("%s%016x", KeyPrefix, h.Sum64())
}
