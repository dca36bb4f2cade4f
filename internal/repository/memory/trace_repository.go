package memory

import (
	"time"

	"github.com/patrickmn/go-cache"

	"canon-be/pkg/agent"
)

// TraceRepository keeps the most recent decision trace per chat in memory.
// The durable copy lives in chat-message metadata; this cache serves quick
// introspection of the last action without a message-history read.
type TraceRepository struct {
	cache *cache.Cache
}

func NewTraceRepository() *TraceRepository {
	// Traces expire after an hour; expired entries are purged every 10 minutes.
	c := cache.New(1*time.Hour, 10*time.Minute)
	return &TraceRepository{
		cache: c,
	}
}

func (r *TraceRepository) Save(chatID string, trace agent.DecisionTrace) {
	r.cache.Set(chatID, trace, cache.DefaultExpiration)
}

func (r *TraceRepository) Get(chatID string) (agent.DecisionTrace, bool) {
	if x, found := r.cache.Get(chatID); found {
		return x.(agent.DecisionTrace), true
	}
	return agent.DecisionTrace{}, false
}

func (r *TraceRepository) Delete(chatID string) {
	r.cache.Delete(chatID)
}
