package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ahmetcoskunkizilkaya/jetbench-backend/internal/apperrors"
	"github.com/ahmetcoskunkizilkaya/jetbench-backend/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/jetbench-backend/internal/models"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"gorm.io/gorm"
)

// UserCache keeps recently authenticated users, with their groups, in memory.
type UserCache struct {
	db      *gorm.DB
	cache   *cache.Cache
	metrics *metrics.Registry
}

func NewUserCache(db *gorm.DB, ttl time.Duration, m *metrics.Registry) *UserCache {
	return &UserCache{
		db:      db,
		cache:   cache.New(ttl, 2*ttl),
		metrics: m,
	}
}

// Load returns the user with groups preloaded. Callers must not modify the result.
func (uc *UserCache) Load(ctx context.Context, id uuid.UUID) (*models.User, error) {
	key := id.String()
	if v, ok := uc.cache.Get(key); ok {
		uc.metrics.UserCacheHitsTotal.Inc()
		return v.(*models.User), nil
	}
	uc.metrics.UserCacheMissesTotal.Inc()

	var u models.User
	if err := uc.db.WithContext(ctx).Preload("Groups").First(&u, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %s: %w", id, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("load user %s: %w", id, err)
	}
	uc.cache.SetDefault(key, &u)
	return &u, nil
}

// Invalidate drops the cached copy of a user after it changes.
func (uc *UserCache) Invalidate(id uuid.UUID) {
	uc.cache.Delete(id.String())
}

// Flush drops every cached user. Group permission changes affect many users.
func (uc *UserCache) Flush() {
	uc.cache.Flush()
}
