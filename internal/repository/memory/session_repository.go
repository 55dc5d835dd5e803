package memory

import (
	"time"

	"grid-portal-be/internal/entity"

	"github.com/patrickmn/go-cache"
)

// SessionRepository keeps the set of live login sessions in process
// memory. A token whose session id is no longer here is rejected, which
// is what makes logout an actual revocation rather than a client-side
// convention.
type SessionRepository struct {
	cache *cache.Cache
}

func NewSessionRepository(ttl time.Duration) *SessionRepository {
	c := cache.New(ttl, 10*time.Minute)
	return &SessionRepository{
		cache: c,
	}
}

func (r *SessionRepository) Save(sessionID string, principal *entity.Principal) {
	r.cache.Set(sessionID, principal, cache.DefaultExpiration)
}

func (r *SessionRepository) Get(sessionID string) (*entity.Principal, bool) {
	if x, found := r.cache.Get(sessionID); found {
		return x.(*entity.Principal), true
	}
	return nil, false
}

func (r *SessionRepository) Delete(sessionID string) {
	r.cache.Delete(sessionID)
}
