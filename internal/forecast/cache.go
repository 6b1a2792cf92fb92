package forecast

import (
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"

	"github.com/yourusername/flowcast/internal/metrics"
)

// PredictionCache memoizes per-(model, date) point predictions within a run,
// so repeated forecast calls over overlapping ranges skip re-prediction.
type PredictionCache struct {
	cache   *gocache.Cache
	maxSize int
}

// NewPredictionCache creates a cache with the given TTL and entry budget.
func NewPredictionCache(ttl time.Duration, maxSize int) *PredictionCache {
	return &PredictionCache{
		cache:   gocache.New(ttl, 2*ttl),
		maxSize: maxSize,
	}
}

func cacheKey(model string, date time.Time) string {
	return fmt.Sprintf("%s:%s", model, date.Format("2006-01-02"))
}

// Get retrieves a cached prediction.
func (pc *PredictionCache) Get(model string, date time.Time) (decimal.Decimal, bool) {
	if v, found := pc.cache.Get(cacheKey(model, date)); found {
		if value, ok := v.(decimal.Decimal); ok {
			metrics.PredictionCacheHits.Inc()
			return value, true
		}
	}
	metrics.PredictionCacheMisses.Inc()
	return decimal.Zero, false
}

// Set stores a prediction, dropping writes once the entry budget is reached.
func (pc *PredictionCache) Set(model string, date time.Time, value decimal.Decimal) {
	if pc.maxSize > 0 && pc.cache.ItemCount() >= pc.maxSize {
		return
	}
	pc.cache.Set(cacheKey(model, date), value, gocache.DefaultExpiration)
}
