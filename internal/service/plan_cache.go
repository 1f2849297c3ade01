package service

import (
	"fmt"
	"strings"
	"sync"
	"time"

	cache "github.com/patrickmn/go-cache"
	"github.com/yourusername/value-staker/internal/metrics"
	"github.com/yourusername/value-staker/internal/models"
	"github.com/yourusername/value-staker/internal/staking"
)

// PlanKey identifies a computed plan by country and staking parameters
func PlanKey(country string, params staking.Params) string {
	country = strings.ToLower(strings.TrimSpace(country))
	if country == "" {
		country = "all"
	}
	policy := params.SubFloorPolicy
	if policy == "" {
		policy = staking.SubFloorDeduct
	}
	return fmt.Sprintf("%s|%g|%g|%g|%g|%s",
		country, params.InitialBankroll, params.Fraction, params.MinBankroll, params.MinStake, policy)
}

// PlanCache provides in-memory caching for computed plans
type PlanCache struct {
	cache     *cache.Cache
	ttl       time.Duration
	mu        sync.Mutex
	hitCount  uint64
	missCount uint64
}

// NewPlanCache creates a new plan cache
func NewPlanCache(ttl time.Duration) *PlanCache {
	return &PlanCache{
		cache: cache.New(ttl, ttl*2),
		ttl:   ttl,
	}
}

// Get retrieves a cached plan
func (pc *PlanCache) Get(key string) (*models.AllocationPlan, bool) {
	pc.mu.Lock()
	defer pc.mu.Unlock()

	if item, found := pc.cache.Get(key); found {
		if plan, ok := item.(*models.AllocationPlan); ok {
			pc.hitCount++
			metrics.RecordPlanCache(true)
			return plan, true
		}
	}

	pc.missCount++
	metrics.RecordPlanCache(false)
	return nil, false
}

// Set stores a plan
func (pc *PlanCache) Set(key string, plan *models.AllocationPlan) {
	pc.cache.Set(key, plan, pc.ttl)
}

// Flush removes every cached plan
func (pc *PlanCache) Flush() {
	pc.cache.Flush()
}

// HitRatio returns hits / (hits + misses)
func (pc *PlanCache) HitRatio() float64 {
	pc.mu.Lock()
	defer pc.mu.Unlock()

	total := pc.hitCount + pc.missCount
	if total == 0 {
		return 0
	}
	return float64(pc.hitCount) / float64(total)
}
